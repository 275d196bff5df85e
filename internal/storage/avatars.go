package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// AvatarStore persists uploaded avatar images and returns the public path
// they are served from.
type AvatarStore interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
}

// DiskStore writes avatars under a local storage directory, mirroring a
// framework public disk. The returned path is relative so the API layer can
// prefix it with the configured base URL.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

func (s *DiskStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	dir := filepath.Join(s.root, "images", "avatars")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating avatar directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing avatar: %w", err)
	}

	return "storage/images/avatars/" + filename, nil
}

var _ AvatarStore = (*DiskStore)(nil)
