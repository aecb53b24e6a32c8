package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the recipe file looked up when no --recipe flag is given.
const DefaultPath = "hyperkit-recipe.yaml"

// Defaults applied to fields left empty in a recipe.
const (
	DefaultBuildFile     = "Makefile"
	DefaultFormat        = "plain"
	DefaultBranch        = "master"
	DefaultBinary        = "build/hyperkit"
	DefaultManPage       = "hyperkit.1"
	DefaultPrefix        = "/usr/local"
	DefaultSmokeTimeout  = 20
	DefaultSmokeMemory   = "512M"
	DefaultSmokeCmdline  = "earlyprintk=serial console=ttyS0"
	defaultSmokeImageDir = "/tmp/hyperkit-imgs"
)

// Load reads, defaults and validates a recipe file. Files ending in .toml are
// decoded as TOML, everything else as YAML.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe %s: %w", path, err)
	}

	r, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parsing recipe %s: %w", path, err)
	}

	if errs := Validate(r); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return r, nil
}

// Parse decodes recipe data and applies defaults. It does not validate.
func Parse(data []byte, ext string) (*Recipe, error) {
	var r Recipe
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &r); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, err
		}
	}
	ApplyDefaults(&r)
	return &r, nil
}

// Default returns a minimal version 1 recipe with every default applied.
// The stable section is left empty for the caller to fill.
func Default() *Recipe {
	r := &Recipe{Version: 1, Name: "hyperkit"}
	ApplyDefaults(r)
	return r
}

// ApplyDefaults fills empty optional fields.
func ApplyDefaults(r *Recipe) {
	if r.BuildFile == "" {
		r.BuildFile = DefaultBuildFile
	}
	if r.Format == "" {
		r.Format = DefaultFormat
	}
	if r.Head.Branch == "" {
		r.Head.Branch = DefaultBranch
	}
	if r.Install.Binary == "" {
		r.Install.Binary = DefaultBinary
	}
	if r.Install.ManPage == "" {
		r.Install.ManPage = DefaultManPage
	}
	if r.SmokeTest.Timeout == 0 {
		r.SmokeTest.Timeout = DefaultSmokeTimeout
	}
	if r.SmokeTest.Memory == "" {
		r.SmokeTest.Memory = DefaultSmokeMemory
	}
	if r.SmokeTest.Cmdline == "" {
		r.SmokeTest.Cmdline = DefaultSmokeCmdline
	}
	if r.SmokeTest.Kernel == "" {
		r.SmokeTest.Kernel = filepath.Join(defaultSmokeImageDir, "vmlinuz")
	}
	if r.SmokeTest.Initrd == "" {
		r.SmokeTest.Initrd = filepath.Join(defaultSmokeImageDir, "initrd.gz")
	}
}

// Prefix returns the install prefix: HYPERKIT_RECIPE_PREFIX if set, otherwise
// DefaultPrefix.
func Prefix() string {
	if p := strings.TrimSpace(os.Getenv("HYPERKIT_RECIPE_PREFIX")); p != "" {
		return p
	}
	return DefaultPrefix
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("recipe validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Recipe for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(r *Recipe) []string {
	var errs []string

	if r.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d — only version 1 is supported", r.Version))
	}
	if r.Name == "" {
		errs = append(errs, "'name' is required")
	}

	switch r.Format {
	case "plain", "quoted":
	default:
		errs = append(errs, fmt.Sprintf("invalid format '%s' — must be one of: plain, quoted", r.Format))
	}

	if filepath.IsAbs(r.BuildFile) {
		errs = append(errs, fmt.Sprintf("build_file '%s' must be relative to the build path", r.BuildFile))
	}

	// Stable.
	if r.Stable.URL == "" {
		errs = append(errs, "stable: 'url' is required — add 'url: https://.../hyperkit-<date>-<sha>.tar.gz'")
	} else if u, err := url.Parse(r.Stable.URL); err != nil || u.Scheme == "" {
		errs = append(errs, fmt.Sprintf("stable: invalid url '%s'", r.Stable.URL))
	}
	if r.Stable.SHA256 == "" {
		errs = append(errs, "stable: 'sha256' is required — add 'sha256: <hex>'")
	} else if !isHex(r.Stable.SHA256) || len(r.Stable.SHA256) != 64 {
		errs = append(errs, fmt.Sprintf("stable: sha256 '%s' must be 64 hex characters", r.Stable.SHA256))
	}
	if res := r.Stable.Resource; res != nil {
		if res.Tag == "" {
			errs = append(errs, "stable.resource: 'tag' is required")
		}
		if res.Revision == "" {
			errs = append(errs, "stable.resource: 'revision' is required")
		}
	}

	// Head. Both values are passed to git as arguments.
	if strings.HasPrefix(r.Head.Repo, "-") {
		errs = append(errs, fmt.Sprintf("head: repo '%s' must not start with '-'", r.Head.Repo))
	}
	if strings.HasPrefix(r.Head.Branch, "-") {
		errs = append(errs, fmt.Sprintf("head: branch '%s' must not start with '-'", r.Head.Branch))
	}

	for i, tool := range r.Depends {
		if strings.TrimSpace(tool) == "" || strings.ContainsAny(tool, "/ \t\n") {
			errs = append(errs, fmt.Sprintf("depends_on[%d]: invalid tool '%s'", i, tool))
		}
	}

	for i, pkg := range r.Opam.Packages {
		if strings.TrimSpace(pkg) == "" || strings.ContainsAny(pkg, " \t\n;&|$`") {
			errs = append(errs, fmt.Sprintf("opam.packages[%d]: invalid package '%s'", i, pkg))
		}
	}

	for kind, dir := range r.Install.Layout {
		if dir == "" || filepath.IsAbs(dir) {
			errs = append(errs, fmt.Sprintf("install.layout '%s': destination must be a relative directory", kind))
		}
	}

	if r.SmokeTest.Timeout < 0 {
		errs = append(errs, fmt.Sprintf("smoke_test: timeout %d must not be negative", r.SmokeTest.Timeout))
	}

	return errs
}

// Warnings reports recipe problems that do not prevent a build.
func Warnings(r *Recipe) []string {
	var warns []string
	if res := r.Stable.Resource; res != nil && res.Tag != "" && !semver.IsValid(res.Tag) {
		warns = append(warns, fmt.Sprintf("stable.resource: tag '%s' is not a semantic version", res.Tag))
	}
	if r.Head.Repo == "" {
		warns = append(warns, "head: no 'repo' declared — head builds need an existing checkout")
	}
	return warns
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
