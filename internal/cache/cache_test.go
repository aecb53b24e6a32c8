package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPutAndGet(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	content := []byte("hyperkit-20170515-fa78d94.tar.gz bytes")
	digest := Digest(content)

	if err := c.Put(digest, content); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, found, err := c.Get(digest)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("expected cache hit")
	}
	if string(got) != string(content) {
		t.Errorf("got %q", got)
	}

	// Upper-case digests address the same entry.
	if _, found, _ := c.Get(strings.ToUpper(digest)); !found {
		t.Error("expected hit for upper-case digest")
	}
}

func TestGetMiss(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	_, found, err := c.Get(Digest([]byte("absent")))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Fatal("expected cache miss")
	}
}

func TestInvalidDigest(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := c.Get("not-a-digest"); err == nil {
		t.Error("expected error for malformed digest")
	}
	if c.Has("zz") {
		t.Error("Has should be false for malformed digest")
	}
}

func TestPutWrongDigest(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	err = c.Put(Digest([]byte("other")), []byte("content"))
	if err == nil {
		t.Fatal("expected error for digest mismatch")
	}
	if !strings.Contains(err.Error(), "does not match") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPutIdempotent(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	content := []byte("archive")
	digest := Digest(content)
	for i := 0; i < 2; i++ {
		if err := c.Put(digest, content); err != nil {
			t.Fatalf("Put #%d: %v", i+1, err)
		}
	}
	if !c.Has(digest) {
		t.Error("expected entry to exist")
	}
}

func TestCorruptEntryIsEvicted(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}

	content := []byte("archive")
	digest := Digest(content)
	if err := c.Put(digest, content); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "archives", digest[:2], digest)
	if err := os.WriteFile(path, []byte("tampered"), 0644); err != nil {
		t.Fatal(err)
	}

	_, found, err := c.Get(digest)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("corrupt entry should be reported as a miss")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestSize(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	size, err := c.Size()
	if err != nil || size != 0 {
		t.Fatalf("empty cache size = %d, %v", size, err)
	}

	content := []byte("12345")
	if err := c.Put(Digest(content), content); err != nil {
		t.Fatal(err)
	}
	size, err = c.Size()
	if err != nil {
		t.Fatal(err)
	}
	if size != 5 {
		t.Errorf("size = %d, want 5", size)
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/custom/cache")
	if got := DefaultDir(); got != filepath.Join("/custom/cache", "hyperkit-recipe") {
		t.Errorf("DefaultDir() = %q", got)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	if got := DefaultDir(); !strings.HasSuffix(got, "hyperkit-recipe") && !strings.HasSuffix(got, "hyperkit-recipe-cache") {
		t.Errorf("DefaultDir() = %q", got)
	}
}

func TestPath(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if c.Path() != dir {
		t.Errorf("Path() = %q, want %q", c.Path(), dir)
	}
}
