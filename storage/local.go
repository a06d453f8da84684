package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalBlobStore writes uploads to a directory served statically under
// /uploads. Default backend when R2 is not configured.
type LocalBlobStore struct {
	Dir       string
	URLPrefix string
}

func NewLocalBlobStore(dir string) *LocalBlobStore {
	if dir == "" {
		dir = "uploads"
	}
	return &LocalBlobStore{
		Dir:       dir,
		URLPrefix: "/uploads",
	}
}

func (s *LocalBlobStore) Put(_ context.Context, data []byte, contentType string, ext string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPutFailed, err)
	}

	if ext == "" {
		ext = ".jpg"
	}
	filename := uuid.New().String() + ext
	path := filepath.Join(s.Dir, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPutFailed, err)
	}

	return s.URLPrefix + "/" + filename, nil
}

func (s *LocalBlobStore) Delete(_ context.Context, url string) bool {
	if !strings.HasPrefix(url, s.URLPrefix+"/") {
		return false
	}
	filename := filepath.Base(strings.TrimPrefix(url, s.URLPrefix+"/"))
	if filename == "" || filename == "." {
		return false
	}
	return os.Remove(filepath.Join(s.Dir, filename)) == nil
}
