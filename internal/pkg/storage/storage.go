package storage

import (
	"context"
	"io"
)

// Storage is the minimal interface photo uploads need from an object store.
type Storage interface {
	// Put stores an object under the given key.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Get retrieves an object by key.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object by key. Returns nil if it doesn't exist.
	Delete(ctx context.Context, key string) error

	// Exists checks whether an object exists.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the public URL for an object key.
	GetURL(key string) string
}

// FileInfo holds object metadata
type FileInfo struct {
	Key         string
	Size        int64
	ContentType string
	URL         string
}
