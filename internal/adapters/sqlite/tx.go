package sqlite

import (
	"context"
	"fmt"
	"sort"
)

// PutBatch writes every entry in one transaction. A nil value deletes the key.
func (s *Store) PutBatch(ctx context.Context, entries map[string][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		data := entries[key]
		if data == nil {
			_, err = tx.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key)
		} else {
			err = upsert(ctx, tx, key, data)
		}
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
