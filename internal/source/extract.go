package source

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/bianoble/hyperkit-recipe/internal/sandbox"
)

// Extract unpacks a .tar.gz archive into dest, dropping the first strip path
// components of every entry (entries with fewer components are skipped).
// Every path is confined to dest; absolute or escaping symlinks are rejected.
func Extract(archive []byte, dest string, strip int) (int, error) {
	zr, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return 0, fmt.Errorf("opening gzip stream: %w", err)
	}
	defer zr.Close()

	if err := os.MkdirAll(dest, 0755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", dest, err)
	}

	tr := tar.NewReader(zr)
	files := 0
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return files, fmt.Errorf("reading tar entry: %w", err)
		}

		rel, ok := stripComponents(hdr.Name, strip)
		if !ok {
			continue
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := sandbox.SafeMkdirAll(dest, rel, 0755); err != nil {
				return files, fmt.Errorf("extracting %s: %w", hdr.Name, err)
			}
		case tar.TypeReg:
			content, err := io.ReadAll(tr)
			if err != nil {
				return files, fmt.Errorf("reading %s: %w", hdr.Name, err)
			}
			if err := sandbox.SafeWrite(dest, rel, content, hdr.FileInfo().Mode().Perm()); err != nil {
				return files, fmt.Errorf("extracting %s: %w", hdr.Name, err)
			}
			files++
		case tar.TypeSymlink:
			if err := extractSymlink(dest, rel, hdr.Linkname); err != nil {
				return files, fmt.Errorf("extracting %s: %w", hdr.Name, err)
			}
		default:
			// Hard links, devices and FIFOs never appear in release archives.
		}
	}
	return files, nil
}

func extractSymlink(dest, rel, target string) error {
	if filepath.IsAbs(target) {
		return fmt.Errorf("absolute symlink target '%s'", target)
	}
	if _, err := sandbox.ValidatePath(dest, filepath.Join(filepath.Dir(rel), target)); err != nil {
		return err
	}
	linkPath, err := sandbox.ValidatePath(dest, rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(linkPath), 0755); err != nil {
		return err
	}
	_ = os.Remove(linkPath)
	return os.Symlink(target, linkPath)
}

func stripComponents(name string, n int) (string, bool) {
	clean := path.Clean(strings.TrimPrefix(name, "./"))
	if clean == "." || clean == "" {
		return "", false
	}
	parts := strings.Split(clean, "/")
	if len(parts) <= n {
		return "", false
	}
	return filepath.FromSlash(strings.Join(parts[n:], "/")), true
}
