package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bianoble/hyperkit-recipe/internal/config"
)

func TestInitCreatesRecipe(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "hyperkit-recipe.yaml")

	old := recipePath
	recipePath = outPath
	defer func() { recipePath = old }()

	initForce = false
	if err := initCmd.RunE(initCmd, nil); err != nil {
		t.Fatalf("init: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("recipe file is empty")
	}
}

func TestInitRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "hyperkit-recipe.yaml")
	if err := os.WriteFile(outPath, []byte("existing"), 0644); err != nil {
		t.Fatal(err)
	}

	old := recipePath
	recipePath = outPath
	defer func() { recipePath = old }()

	initForce = false
	err := initCmd.RunE(initCmd, nil)
	if err == nil {
		t.Fatal("expected error when file exists")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error should mention 'already exists': %v", err)
	}
}

func TestInitForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "hyperkit-recipe.yaml")
	if err := os.WriteFile(outPath, []byte("old content"), 0644); err != nil {
		t.Fatal(err)
	}

	old := recipePath
	recipePath = outPath
	defer func() { recipePath = old }()

	initForce = true
	defer func() { initForce = false }()
	if err := initCmd.RunE(initCmd, nil); err != nil {
		t.Fatalf("init --force: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "old content" {
		t.Error("file was not overwritten")
	}
}

func TestInitTemplateIsValidRecipe(t *testing.T) {
	r, err := config.Parse([]byte(initTemplate), ".yaml")
	if err != nil {
		t.Fatalf("template is not valid YAML: %v", err)
	}
	if errs := config.Validate(r); len(errs) > 0 {
		t.Errorf("template does not validate: %v", errs)
	}
	if r.Stable.Strategy() != "archive" {
		t.Errorf("template strategy = %s, want archive", r.Stable.Strategy())
	}
}
