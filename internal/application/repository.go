package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"prompttree/internal/domain"
	"prompttree/internal/ports"
)

// Repository persists the working tree and the version list as JSON blobs
type Repository struct {
	store ports.BlobStore
}

// NewRepository wraps a blob store
func NewRepository(store ports.BlobStore) *Repository {
	return &Repository{store: store}
}

// LoadTree returns the persisted tree, or nil when none was saved.
// An unparsable blob yields a nil tree and an error wrapping ErrCorruptData.
func (r *Repository) LoadTree(ctx context.Context) (*domain.Tree, error) {
	data, err := r.store.Get(ctx, TreeKey)
	if errors.Is(err, ports.ErrBlobNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tree domain.Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", TreeKey, ErrCorruptData, err)
	}
	if ierr := checkTree(&tree); ierr != nil {
		return nil, fmt.Errorf("%s: %w: %s", TreeKey, ErrCorruptData, ierr.Reason)
	}
	normalize(tree.RootNode)
	return &tree, nil
}

// autoSaveCounter is the PendingKey blob. It belongs to one tree id so a
// replaced tree starts counting from zero.
type autoSaveCounter struct {
	TreeID  string `json:"tree_id"`
	Pending int    `json:"pending"`
}

// LoadPending returns the number of applied mutations since the last
// auto-save of treeID. A missing blob or one for another tree counts as 0.
func (r *Repository) LoadPending(ctx context.Context, treeID string) (int, error) {
	data, err := r.store.Get(ctx, PendingKey)
	if errors.Is(err, ports.ErrBlobNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var c autoSaveCounter
	if err := json.Unmarshal(data, &c); err != nil {
		return 0, fmt.Errorf("%s: %w: %v", PendingKey, ErrCorruptData, err)
	}
	if c.TreeID != treeID || c.Pending < 0 {
		return 0, nil
	}
	return c.Pending, nil
}

// SaveTree writes the tree blob and its auto-save counter in one batch
func (r *Repository) SaveTree(ctx context.Context, t *domain.Tree, pending int) error {
	entries, err := treeEntries(t, pending)
	if err != nil {
		return err
	}
	return r.write(ctx, entries)
}

// ClearTree removes the tree blob and its counter
func (r *Repository) ClearTree(ctx context.Context) error {
	return r.write(ctx, map[string][]byte{TreeKey: nil, PendingKey: nil})
}

// LoadVersions returns the persisted versions newest-first. An unparsable
// blob yields an empty list and an error wrapping ErrCorruptData.
func (r *Repository) LoadVersions(ctx context.Context) ([]domain.Version, error) {
	data, err := r.store.Get(ctx, VersionsKey)
	if errors.Is(err, ports.ErrBlobNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var versions []domain.Version
	if err := json.Unmarshal(data, &versions); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", VersionsKey, ErrCorruptData, err)
	}
	return versions, nil
}

// SaveVersions writes the version list blob
func (r *Repository) SaveVersions(ctx context.Context, vs *domain.VersionStore) error {
	data, err := json.Marshal(vs)
	if err != nil {
		return fmt.Errorf("failed to encode versions: %w", err)
	}
	return r.store.Put(ctx, VersionsKey, data)
}

// SaveAll writes the tree, its counter and the version list together. A
// nil tree deletes the tree blob.
func (r *Repository) SaveAll(ctx context.Context, t *domain.Tree, vs *domain.VersionStore, pending int) error {
	entries, err := treeEntries(t, pending)
	if err != nil {
		return err
	}
	data, err := json.Marshal(vs)
	if err != nil {
		return fmt.Errorf("failed to encode versions: %w", err)
	}
	entries[VersionsKey] = data
	return r.write(ctx, entries)
}

func treeEntries(t *domain.Tree, pending int) (map[string][]byte, error) {
	entries := map[string][]byte{TreeKey: nil, PendingKey: nil}
	if t == nil {
		return entries, nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tree: %w", err)
	}
	counter, err := json.Marshal(autoSaveCounter{TreeID: t.ID, Pending: pending})
	if err != nil {
		return nil, fmt.Errorf("failed to encode counter: %w", err)
	}
	entries[TreeKey] = data
	entries[PendingKey] = counter
	return entries, nil
}

// write applies entries atomically when the store supports batches. A nil
// value deletes the key.
func (r *Repository) write(ctx context.Context, entries map[string][]byte) error {
	if bw, ok := r.store.(ports.BatchWriter); ok {
		return bw.PutBatch(ctx, entries)
	}
	var err error
	for key, value := range entries {
		if value == nil {
			err = r.store.Delete(ctx, key)
		} else {
			err = r.store.Put(ctx, key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
