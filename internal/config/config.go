package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDataDir       = "~/.local/share/prompttree"
	DefaultStorage       = StorageSQLite
	DefaultMaxVersions   = 50
	DefaultAutoSaveEvery = 10
	DefaultLogLevel      = "info"

	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

// Config holds the runtime settings shared by every entry point
type Config struct {
	DataDir       string `yaml:"data_dir" validate:"required"`
	Storage       string `yaml:"storage" validate:"oneof=sqlite file"`
	MaxVersions   int    `yaml:"max_versions" validate:"min=1,max=1000"`
	AutoSaveEvery int    `yaml:"autosave_every" validate:"min=0"`
	LogLevel      string `yaml:"log_level" validate:"oneof=debug info warn error"`
	Editor        string `yaml:"editor"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		DataDir:       DefaultDataDir,
		Storage:       DefaultStorage,
		MaxVersions:   DefaultMaxVersions,
		AutoSaveEvery: DefaultAutoSaveEvery,
		LogLevel:      DefaultLogLevel,
	}
}

// Load builds the configuration from, lowest priority first: defaults, an
// optional .env file in the working directory, the YAML config file, and
// PROMPTTREE_* environment variables.
func Load() (Config, error) {
	cfg := Default()

	// .env only fills variables that are not already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to read .env: %w", err)
	}

	if path := FilePath(); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	cfg.DataDir = ExpandHome(cfg.DataDir)
	cfg.Storage = strings.ToLower(cfg.Storage)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FilePath returns the YAML config location: $PROMPTTREE_CONFIG, else
// $XDG_CONFIG_HOME/prompttree/config.yaml, else ~/.config/prompttree/config.yaml.
func FilePath() string {
	if env := os.Getenv("PROMPTTREE_CONFIG"); env != "" {
		return ExpandHome(env)
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "prompttree", "config.yaml")
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PROMPTTREE_DATA"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("PROMPTTREE_STORAGE"); v != "" {
		cfg.Storage = v
	}
	if v := os.Getenv("PROMPTTREE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PROMPTTREE_EDITOR"); v != "" {
		cfg.Editor = v
	}

	ints := []struct {
		name   string
		target *int
	}{
		{"PROMPTTREE_MAX_VERSIONS", &cfg.MaxVersions},
		{"PROMPTTREE_AUTOSAVE_EVERY", &cfg.AutoSaveEvery},
	}
	for _, e := range ints {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: expected an integer, got %q", e.name, v)
		}
		*e.target = n
	}
	return nil
}

var validate = validator.New()

// Validate checks the configuration against its struct tags
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid config: %s=%v fails %s %s", fe.Field(), fe.Value(), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
