// Package sandbox confines file writes to a root directory and performs them
// atomically, so an interrupted build never leaves a truncated file behind.
package sandbox

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// BackupSuffix is appended to a file's name for the copy kept by WriteWithBackup.
const BackupSuffix = ".bak"

// ValidatePath checks that relPath stays inside root once symlinks are
// resolved, and returns the resolved absolute path.
func ValidatePath(root, relPath string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", fmt.Errorf("resolving root symlinks: %w", err)
	}

	candidate := filepath.Clean(filepath.Join(realRoot, relPath))

	// The path may not exist yet, so resolve as much as we can.
	resolved, err := resolveExistingPath(candidate)
	if err != nil {
		return "", fmt.Errorf("resolving target path: %w", err)
	}

	rootPrefix := realRoot + string(filepath.Separator)
	if resolved != realRoot && !strings.HasPrefix(resolved, rootPrefix) {
		return "", fmt.Errorf("path '%s' resolves to '%s' which is outside the root '%s'", relPath, resolved, realRoot)
	}

	return resolved, nil
}

// resolveExistingPath resolves symlinks for the longest existing prefix of the path,
// then appends the non-existing suffix.
func resolveExistingPath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if dir == path {
		return path, nil
	}

	resolvedDir, err := resolveExistingPath(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedDir, base), nil
}

// SafeWrite atomically writes content to relPath inside root, creating parent
// directories as needed.
func SafeWrite(root, relPath string, content []byte, perm os.FileMode) error {
	resolved, err := ValidatePath(root, relPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", filepath.Dir(resolved), err)
	}
	return writeAtomic(resolved, content, perm)
}

// SafeCopy copies the file at src to relPath inside root.
func SafeCopy(root, relPath, src string, perm os.FileMode) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	return SafeWrite(root, relPath, content, perm)
}

// SafeMkdirAll creates directories within the sandbox.
func SafeMkdirAll(root, relPath string, perm os.FileMode) error {
	resolved, err := ValidatePath(root, relPath)
	if err != nil {
		return err
	}
	return os.MkdirAll(resolved, perm)
}

// WriteWithBackup replaces the file at path with content, first saving its
// current bytes to path+BackupSuffix. Both writes are atomic and keep the
// original file mode. If the replacement fails the original is untouched.
func WriteWithBackup(path string, content []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	original, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	mode := info.Mode().Perm()
	if err := writeAtomic(path+BackupSuffix, original, mode); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return writeAtomic(path, content, mode)
}

// RestoreBackup moves path+BackupSuffix back over path.
func RestoreBackup(path string) error {
	backup := path + BackupSuffix
	if _, err := os.Stat(backup); err != nil {
		return fmt.Errorf("no backup for %s: %w", path, err)
	}
	if err := os.Rename(backup, path); err != nil {
		return fmt.Errorf("restoring %s: %w", path, err)
	}
	return nil
}

// writeAtomic writes to a temp file in the target's directory (same
// filesystem), syncs it, and renames it into place.
func writeAtomic(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".hyperkit-recipe-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", path, err)
	}

	success = true
	return nil
}
