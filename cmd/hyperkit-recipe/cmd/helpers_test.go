package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHumanSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{2684354560, "2.5 GB"},
	}

	for _, tt := range tests {
		got := humanSize(tt.bytes)
		if got != tt.want {
			t.Errorf("humanSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestResolveBuildPath(t *testing.T) {
	dir := t.TempDir()

	old := recipePath
	recipePath = filepath.Join(dir, "hyperkit-recipe.yaml")
	defer func() { recipePath = old }()

	got, err := resolveBuildPath("")
	if err != nil {
		t.Fatal(err)
	}
	if got != dir {
		t.Errorf("default build path = %q, want %q", got, dir)
	}

	explicit := filepath.Join(dir, "src")
	got, err = resolveBuildPath(explicit)
	if err != nil {
		t.Fatal(err)
	}
	if got != explicit {
		t.Errorf("build path = %q, want %q", got, explicit)
	}
}

func TestLoadRecipeMissing(t *testing.T) {
	old := recipePath
	recipePath = filepath.Join(t.TempDir(), "missing.yaml")
	defer func() { recipePath = old }()

	if _, err := loadRecipe(); err == nil {
		t.Fatal("expected error for missing recipe")
	}
	if _, err := os.Stat(recipePath); !os.IsNotExist(err) {
		t.Error("loadRecipe must not create the file")
	}
}
