// Package cache stores downloaded source archives by their sha256 digest so
// repeated builds of the same release skip the download.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bianoble/hyperkit-recipe/internal/sandbox"
)

const archivesDir = "archives"

// Cache is a content-addressed archive store. Entries are verified on read.
type Cache struct {
	dir string
}

// New opens a Cache rooted at dir, creating it if needed.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Join(dir, archivesDir), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
	}
	return &Cache{dir: dir}, nil
}

// DefaultDir returns $XDG_CACHE_HOME/hyperkit-recipe, falling back to
// ~/.cache/hyperkit-recipe and then the system temp directory.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "hyperkit-recipe")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "hyperkit-recipe-cache")
	}
	return filepath.Join(home, ".cache", "hyperkit-recipe")
}

// Get returns the archive with the given digest. A missing entry is
// (nil, false, nil). An entry whose content no longer matches its digest is
// removed and reported as missing.
func (c *Cache) Get(digest string) ([]byte, bool, error) {
	rel, err := entryPath(digest)
	if err != nil {
		return nil, false, err
	}
	path := filepath.Join(c.dir, rel)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cached archive %s: %w", digest, err)
	}

	if Digest(data) != strings.ToLower(digest) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

// Put stores content under digest after checking that they match. Existing
// entries are left alone.
func (c *Cache) Put(digest string, content []byte) error {
	if actual := Digest(content); actual != strings.ToLower(digest) {
		return fmt.Errorf("cache put: content digest %s does not match declared digest %s", actual, digest)
	}
	rel, err := entryPath(digest)
	if err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(c.dir, rel)); err == nil {
		return nil
	}
	if err := sandbox.SafeWrite(c.dir, rel, content, 0644); err != nil {
		return fmt.Errorf("caching archive %s: %w", digest, err)
	}
	return nil
}

// Has reports whether an entry exists for digest, without verifying it.
func (c *Cache) Has(digest string) bool {
	rel, err := entryPath(digest)
	if err != nil {
		return false
	}
	_, err = os.Stat(filepath.Join(c.dir, rel))
	return err == nil
}

// Size returns the total size of cached archives in bytes.
func (c *Cache) Size() (int64, error) {
	var total int64
	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}

// Path returns the cache directory.
func (c *Cache) Path() string {
	return c.dir
}

// entryPath returns archives/<first two hex digits>/<digest>.
func entryPath(digest string) (string, error) {
	d := strings.ToLower(digest)
	if len(d) != sha256.Size*2 {
		return "", fmt.Errorf("invalid sha256 digest '%s'", digest)
	}
	if _, err := hex.DecodeString(d); err != nil {
		return "", fmt.Errorf("invalid sha256 digest '%s': %w", digest, err)
	}
	return filepath.Join(archivesDir, d[:2], d), nil
}

// Digest returns the lowercase hex sha256 of content.
func Digest(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}
