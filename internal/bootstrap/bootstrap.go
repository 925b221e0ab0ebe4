// Package bootstrap wires configuration, logging, storage and the editing
// session shared by the TUI, CLI and MCP entry points.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"prompttree/internal/adapters/filesystem"
	"prompttree/internal/adapters/sqlite"
	"prompttree/internal/adapters/templates"
	"prompttree/internal/application"
	"prompttree/internal/config"
	"prompttree/internal/logging"
	"prompttree/internal/ports"
)

// Env holds everything an entry point needs
type Env struct {
	Config  config.Config
	Log     *zap.Logger
	Store   ports.BlobStore
	Session *application.Session
	Catalog *templates.Catalog
}

// Open loads the configuration, opens the configured store and loads the
// session from it. A non-empty dataDir overrides the configured one.
func Open(ctx context.Context, dataDir string) (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = config.ExpandHome(dataDir)
	}

	log := logging.NewOrNop(cfg.DataDir, cfg.LogLevel)
	store, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	catalog, err := templates.Load()
	if err != nil {
		store.Close()
		return nil, err
	}

	session := application.NewSession(application.NewRepository(store), application.SessionOptions{
		MaxVersions:   cfg.MaxVersions,
		AutoSaveEvery: cfg.AutoSaveEvery,
		Logger:        log,
	})
	if err := session.Load(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	log.Info("session opened",
		zap.String("data_dir", cfg.DataDir),
		zap.String("storage", cfg.Storage),
		zap.Bool("has_tree", session.HasTree()),
		zap.Int("versions", session.Versions().Len()),
	)

	return &Env{
		Config:  cfg,
		Log:     log,
		Store:   store,
		Session: session,
		Catalog: catalog,
	}, nil
}

// OpenStore opens the blob store selected by cfg.Storage
func OpenStore(cfg config.Config) (ports.BlobStore, error) {
	switch cfg.Storage {
	case config.StorageFile:
		store, err := filesystem.NewStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageSQLite, "":
		store, err := sqlite.Open(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

// Close flushes the logger and closes the store
func (e *Env) Close() error {
	_ = e.Log.Sync()
	return e.Store.Close()
}
