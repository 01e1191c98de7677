package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when nothing was written at the path.
var ErrNotFound = errors.New("not found")

// Storage holds whole documents under slash-separated paths. A Write
// replaces the document at path as a unit.
type Storage interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
}

var (
	_ Storage = (*LocalStorage)(nil)
	_ Storage = (*S3Storage)(nil)
)
