// Package recipe provides the public Go library API for hyperkit-recipe.
//
// hyperkit-recipe builds and installs hyperkit from a declarative recipe. It
// resolves the build identity (a version and an abbreviated commit) from the
// release archive name, a declared resource record or the git history of a
// checkout, stamps it into the Makefile, and runs the build.
//
// # Basic Usage
//
//	client, err := recipe.New(recipe.Options{
//	    RecipePath: "hyperkit-recipe.yaml",
//	    BuildPath:  "/tmp/hyperkit-src",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Resolve the identity of a release build
//	pair, err := client.Resolve(ctx, "release")
//
//	// Stamp it into the Makefile
//	err = client.Patch(pair)
//
//	// Or run the whole install
//	result, err := client.Install(ctx, "release", recipe.InstallOptions{})
package recipe

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bianoble/hyperkit-recipe/internal/buildfile"
	"github.com/bianoble/hyperkit-recipe/internal/cache"
	"github.com/bianoble/hyperkit-recipe/internal/config"
	"github.com/bianoble/hyperkit-recipe/internal/install"
	"github.com/bianoble/hyperkit-recipe/internal/source"
	"github.com/bianoble/hyperkit-recipe/internal/version"
)

// Options configures a hyperkit-recipe client.
type Options struct {
	// RecipePath is the path to the recipe file. Default: "hyperkit-recipe.yaml".
	RecipePath string

	// BuildPath is the hyperkit source tree. If empty, defaults to the
	// directory containing RecipePath.
	BuildPath string

	// Prefix is the install prefix. If empty, uses HYPERKIT_RECIPE_PREFIX or /usr/local.
	Prefix string

	// CacheDir is the archive cache directory. If empty, uses the default
	// (~/.cache/hyperkit-recipe).
	CacheDir string

	// Runner executes git, make and the build scripts. If nil, os/exec is used.
	Runner version.CommandRunner

	// Logger receives progress. If nil, progress is discarded.
	Logger *log.Logger
}

// Client is the main entry point for the hyperkit-recipe library.
type Client struct {
	recipe    *config.Recipe
	registry  *version.Registry
	cache     *cache.Cache
	runner    version.CommandRunner
	logger    *log.Logger
	buildPath string
	prefix    string
}

// New loads the recipe and creates a Client.
func New(opts Options) (*Client, error) {
	if opts.RecipePath == "" {
		opts.RecipePath = config.DefaultPath
	}

	r, err := config.Load(opts.RecipePath)
	if err != nil {
		return nil, err
	}

	buildPath := opts.BuildPath
	if buildPath == "" {
		abs, err := filepath.Abs(opts.RecipePath)
		if err != nil {
			return nil, fmt.Errorf("resolving recipe path: %w", err)
		}
		buildPath = filepath.Dir(abs)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = config.Prefix()
	}

	cacheDir := opts.CacheDir
	if cacheDir == "" {
		cacheDir = cache.DefaultDir()
	}
	c, err := cache.New(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("initializing cache: %w", err)
	}

	return &Client{
		recipe:    r,
		registry:  version.DefaultRegistry(opts.Runner),
		cache:     c,
		runner:    opts.Runner,
		logger:    opts.Logger,
		buildPath: buildPath,
		prefix:    prefix,
	}, nil
}

func (c *Client) installer() *install.Installer {
	return &install.Installer{
		Recipe:    c.recipe,
		Registry:  c.registry,
		Runner:    c.runner,
		Logger:    c.logger,
		BuildPath: c.buildPath,
		Prefix:    c.prefix,
	}
}

// Resolve returns the build identity for mode ("release", "head").
func (c *Client) Resolve(ctx context.Context, mode string) (Pair, error) {
	m, err := install.ParseMode(mode)
	if err != nil {
		return Pair{}, err
	}
	p, err := c.installer().Identity(ctx, m)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Version: p.Version, Commit: p.Commit}, nil
}

// Patch stamps pair into the recipe's build file, keeping a .bak backup.
func (c *Client) Patch(pair Pair) error {
	format, err := buildfile.ParseFormat(c.recipe.Format)
	if err != nil {
		return err
	}
	return buildfile.Patch(c.buildFile(), version.Pair{Version: pair.Version, Commit: pair.Commit}, format)
}

// Restore puts the build file's .bak backup back in place.
func (c *Client) Restore() error {
	return buildfile.Restore(c.buildFile())
}

// Fetch prepares the source tree in the build path: the verified release
// archive for release builds, a clone of the head branch for head builds.
func (c *Client) Fetch(ctx context.Context, mode string) (*FetchResult, error) {
	m, err := install.ParseMode(mode)
	if err != nil {
		return nil, err
	}

	if m == install.ModeHead {
		g := &source.GitCheckout{Runner: c.runner}
		if err := g.Checkout(ctx, c.recipe.Head.Repo, c.recipe.Head.Branch, c.buildPath); err != nil {
			return nil, err
		}
		return &FetchResult{Path: c.buildPath}, nil
	}

	f := source.NewArchiveFetcher(c.cache)
	data, hit, err := f.Fetch(ctx, c.recipe.Stable.URL, c.recipe.Stable.SHA256)
	if err != nil {
		return nil, err
	}
	n, err := source.Extract(data, c.buildPath, 1)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", c.recipe.Stable.URL, err)
	}
	return &FetchResult{Path: c.buildPath, Files: n, CacheHit: hit}, nil
}

// Install runs the full install for mode ("release", "head", "bottle").
func (c *Client) Install(ctx context.Context, mode string, opts InstallOptions) (*InstallResult, error) {
	m, err := install.ParseMode(mode)
	if err != nil {
		return nil, err
	}

	result, err := c.installer().Install(ctx, m, install.Options{DryRun: opts.DryRun, SkipDeps: opts.SkipDeps})
	if err != nil {
		return nil, err
	}

	out := &InstallResult{
		Mode: string(result.Mode),
		Pair: Pair{Version: result.Pair.Version, Commit: result.Pair.Commit},
	}
	for _, s := range result.Steps {
		out.Steps = append(out.Steps, Step{Name: s.Name, Detail: s.Detail, Action: s.Action})
	}
	return out, nil
}

// SmokeTest boots the installed binary, writing its scripts into workDir.
func (c *Client) SmokeTest(ctx context.Context, workDir string) error {
	return c.installer().SmokeTest(ctx, workDir)
}

func (c *Client) buildFile() string {
	return filepath.Join(c.buildPath, c.recipe.BuildFile)
}
