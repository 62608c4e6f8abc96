package storage

import (
	"context"
	"io"
	"time"
)

// Package storage abstracts the S3-compatible object store holding generated
// lead exports. Implementations stream; nothing is spooled to local disk.

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact byte count when known, -1 otherwise.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is an S3-compatible object store client.
type Storage interface {
	// Put uploads an object under the given key.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL for downloading the object
	// without credentials. Export downloads hand this URL to the browser.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
