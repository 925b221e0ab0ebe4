package ports

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned by BlobStore.Get when the key has never been written
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is a string-keyed store of opaque values. The editor persists
// the working tree and the version list under fixed keys.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// BatchWriter is implemented by stores that can write several keys
// atomically. A nil value deletes the key.
type BatchWriter interface {
	PutBatch(ctx context.Context, entries map[string][]byte) error
}
