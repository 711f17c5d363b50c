package ports

import "io"

// ImageStore persists uploaded images under a fixed root directory and
// removes them by their stored relative path.
type ImageStore interface {
	// Save writes the image bytes under a collision-free name derived from
	// filename and returns the relative path to reference it by.
	Save(filename string, r io.Reader) (string, error)
	Remove(relPath string) error
}

// ImageCleaner accepts best-effort deletion requests. Clear never blocks on
// disk IO and never reports failure to the caller; cleanup runs off the
// request path.
type ImageCleaner interface {
	Clear(relPath string)
}
