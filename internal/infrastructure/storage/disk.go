// Package storage implements the local-disk image store. Uploaded files live
// under a single root directory and are referenced everywhere else by their
// relative path (e.g. "images/1700000000000000000-cat.png").
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskStore stores images beneath root.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if root == "" {
		root = "images"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

// Save writes the image bytes under a timestamp-prefixed name and returns the
// relative path clients use to reference it.
func (s *DiskStore) Save(filename string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UTC().UnixNano(), filepath.Base(filename))
	full := filepath.Join(s.root, name)

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("write image file: %w", err)
	}

	return filepath.ToSlash(full), nil
}

// Remove deletes the file at the given relative path. Paths resolving outside
// the store root are rejected.
func (s *DiskStore) Remove(relPath string) error {
	target := filepath.Clean(filepath.FromSlash(relPath))

	// stored paths carry the root prefix; accept bare names too
	if !strings.HasPrefix(target, s.root+string(filepath.Separator)) {
		target = filepath.Join(s.root, target)
	}

	absRoot, err := filepath.Abs(s.root)
	if err != nil {
		return fmt.Errorf("resolve store root: %w", err)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolve image path: %w", err)
	}
	if !strings.HasPrefix(absTarget, absRoot+string(filepath.Separator)) {
		return fmt.Errorf("image path escapes store root: %s", relPath)
	}

	if err := os.Remove(absTarget); err != nil {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// Root returns the directory images are served from.
func (s *DiskStore) Root() string {
	return s.root
}
