package storage

import (
	"context"
	"errors"
)

var ErrPutFailed = errors.New("blob store: put failed")

// BlobStore persists uploaded images and hands back a URL the frontend can
// render. Delete is best-effort: a false return means the blob may still
// exist, callers log and move on.
type BlobStore interface {
	Put(ctx context.Context, data []byte, contentType string, ext string) (string, error)
	Delete(ctx context.Context, url string) bool
}
