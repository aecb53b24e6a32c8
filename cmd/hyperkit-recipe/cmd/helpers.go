package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bianoble/hyperkit-recipe/internal/cache"
	"github.com/bianoble/hyperkit-recipe/internal/config"
	"github.com/bianoble/hyperkit-recipe/internal/install"
	"github.com/bianoble/hyperkit-recipe/internal/version"
)

// loadRecipe reads and validates the recipe file and logs its warnings.
func loadRecipe() (*config.Recipe, error) {
	r, err := config.Load(recipePath)
	if err != nil {
		return nil, fmt.Errorf("loading recipe %s: %w", recipePath, err)
	}
	for _, w := range config.Warnings(r) {
		logger.Warn(w)
	}
	return r, nil
}

// resolveBuildPath returns path, or the directory containing the recipe
// file when path is empty.
func resolveBuildPath(path string) (string, error) {
	if path != "" {
		return filepath.Abs(path)
	}
	abs, err := filepath.Abs(recipePath)
	if err != nil {
		return "", fmt.Errorf("resolving recipe path: %w", err)
	}
	return filepath.Dir(abs), nil
}

// newInstaller wires an Installer for the recipe and build path.
func newInstaller(r *config.Recipe, buildPath, prefix string) *install.Installer {
	git := version.ExecRunner{Env: []string{"GIT_TERMINAL_PROMPT=0"}}
	runner := version.ExecRunner{Env: git.Env, Stderr: os.Stderr}
	if !quiet {
		runner.Stdout = os.Stderr
	}
	return &install.Installer{
		Recipe:    r,
		Registry:  version.DefaultRegistry(git),
		Runner:    runner,
		Logger:    logger,
		BuildPath: buildPath,
		Prefix:    prefix,
	}
}

// newCache creates or opens the archive cache.
func newCache() (*cache.Cache, error) {
	return cache.New(cache.DefaultDir())
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Printf("  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
