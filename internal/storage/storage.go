package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Package storage persists uploaded datasets. The local upload directory is the
// source of truth; an S3-compatible bucket can optionally receive a copy.

// ErrOutsideRoot is returned when a caller-supplied path escapes the upload directory.
var ErrOutsideRoot = errors.New("path is outside the upload directory")

// SavedFile describes a file written to the upload directory.
type SavedFile struct {
	Name string
	Path string
	Size int64
}

// PutObjectOptions define optional parameters for mirrored objects.
// Size should be the exact number of bytes if known, -1 otherwise.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a mirrored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Mirror receives a copy of every stored upload.
type Mirror interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
}
