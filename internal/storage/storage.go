// Package storage holds the attachment blob store abstraction. Two backends
// exist: a local uploads directory and an S3-compatible object store (MinIO).
// The database row is always the source of truth; the store only keeps bytes
// under the key recorded in the row.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by Get and Delete when no object is stored under
// the key. Callers cleaning up after a row deletion treat it as success.
var ErrNotExist = errors.New("object does not exist")

// PutObjectOptions define optional parameters for storing objects.
// Size should be the exact number of bytes if known; if unknown, set to -1
// and the backend will buffer/chunk as it supports.
type PutObjectOptions struct {
	Size        int64
	ContentType string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// Storage stores attachment blobs under caller-chosen keys using streaming
// I/O. Implementations must be safe for concurrent use.
type Storage interface {
	// Put stores an object under the given key from the provided reader.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get opens an object's content as a streaming reader alongside its info.
	// Returns ErrNotExist if nothing is stored under the key.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key. Returns ErrNotExist if there was
	// nothing to remove.
	Delete(ctx context.Context, key string) error
}
