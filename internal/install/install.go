package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bianoble/hyperkit-recipe/internal/buildfile"
	"github.com/bianoble/hyperkit-recipe/internal/config"
	"github.com/bianoble/hyperkit-recipe/internal/layout"
	"github.com/bianoble/hyperkit-recipe/internal/sandbox"
	"github.com/bianoble/hyperkit-recipe/internal/script"
	"github.com/bianoble/hyperkit-recipe/internal/textutil"
	"github.com/bianoble/hyperkit-recipe/internal/version"
)

// ErrBuildIdentity wraps every failure to resolve or stamp the build
// identity. The install stops before make when it occurs.
var ErrBuildIdentity = errors.New("could not determine build identity")

// ErrMissingDependency is returned when a tool named in depends_on is not on
// PATH. The install stops before any command runs.
var ErrMissingDependency = errors.New("missing build dependency")

// Step actions recorded in a Result.
const (
	ActionRan     = "ran"
	ActionPlanned = "planned"
	ActionSkipped = "skipped"
)

// Step is one stage of an install.
type Step struct {
	Name   string
	Detail string
	Action string
}

// Result holds the outcome of an install.
type Result struct {
	Mode  Mode
	Pair  version.Pair // zero for bottle builds
	Steps []Step
}

// Options configures an install.
type Options struct {
	DryRun   bool
	SkipDeps bool
}

// Installer runs the install procedure for one recipe and source tree.
type Installer struct {
	Recipe    *config.Recipe
	Registry  *version.Registry
	Runner    version.CommandRunner // nil streams make output to stderr
	Layout    *layout.Layout        // nil uses the recipe's install.layout
	Logger    *log.Logger           // nil discards
	BuildPath string
	Prefix    string

	// LookPath finds depends_on tools. Nil uses exec.LookPath.
	LookPath func(file string) (string, error)
}

// Identity resolves the build identity for mode. Every failure wraps
// ErrBuildIdentity together with the underlying resolution error.
func (i *Installer) Identity(ctx context.Context, mode Mode) (version.Pair, error) {
	strategy := SelectStrategy(mode, i.Recipe)
	if strategy == "" {
		return version.Pair{}, fmt.Errorf("%w: %s builds carry no source identity", ErrBuildIdentity, mode)
	}

	reg := i.Registry
	if reg == nil {
		reg = version.DefaultRegistry(i.Runner)
	}
	resolver, err := reg.Get(strategy)
	if err != nil {
		return version.Pair{}, fmt.Errorf("%w: %w", ErrBuildIdentity, err)
	}

	pair, err := resolver.Resolve(ctx, i.Recipe, i.BuildPath)
	if err != nil {
		return version.Pair{}, fmt.Errorf("%w: %w", ErrBuildIdentity, err)
	}
	if err := pair.Validate(); err != nil {
		return version.Pair{}, fmt.Errorf("%w: %s: %w", ErrBuildIdentity, strategy, err)
	}

	i.logger().Debug("resolved build identity", "strategy", strategy, "version", pair.Version, "commit", pair.Commit)
	return pair, nil
}

// Install checks the declared tools, then runs deps, identity, patch, make and
// artifact copy in order. Bottle builds skip identity and patch. A dry run
// checks tools and resolves the identity but records every other step as
// planned without running it.
func (i *Installer) Install(ctx context.Context, mode Mode, opts Options) (*Result, error) {
	result := &Result{Mode: mode}
	logger := i.logger()

	record := func(name, detail string, ran bool) {
		action := ActionRan
		if opts.DryRun {
			action = ActionPlanned
		}
		if !ran {
			action = ActionSkipped
		}
		result.Steps = append(result.Steps, Step{Name: name, Detail: detail, Action: action})
		logger.Info(name, "detail", detail, "action", action)
	}

	// Required tools. Read-only, so dry runs check them too.
	switch {
	case opts.SkipDeps:
		record("depends", "--skip-deps", false)
	case len(i.Recipe.Depends) == 0:
		record("depends", "none declared", false)
	default:
		if err := i.checkDepends(); err != nil {
			return result, err
		}
		tools := strings.Join(i.Recipe.Depends, " ")
		result.Steps = append(result.Steps, Step{Name: "depends", Detail: tools, Action: ActionRan})
		logger.Info("depends", "detail", tools, "action", ActionRan)
	}

	// Dependencies.
	switch {
	case opts.SkipDeps:
		record("deps", "--skip-deps", false)
	case len(i.Recipe.Opam.Packages) == 0:
		record("deps", "no opam packages", false)
	default:
		src, err := i.opamScript()
		if err != nil {
			return result, err
		}
		// The recorded detail is the script folded onto one line, for display.
		oneLine := textutil.DedentCompressed(src)
		if !opts.DryRun {
			if err := i.run(ctx, "opam bootstrap", []string{"sh", "-c", src}); err != nil {
				return result, err
			}
		}
		record("deps", oneLine, true)
	}

	// Identity and patch.
	if mode == ModeBottle {
		record("identity", "bottle", false)
		record("patch", "bottle", false)
	} else {
		pair, err := i.Identity(ctx, mode)
		if err != nil {
			return result, err
		}
		result.Pair = pair
		record("identity", pair.String(), true)

		path := filepath.Join(i.BuildPath, i.Recipe.BuildFile)
		if !opts.DryRun {
			if err := i.patch(path, pair); err != nil {
				return result, err
			}
		}
		record("patch", path, true)
	}

	// Build.
	if !opts.DryRun {
		if err := i.run(ctx, "make", []string{"make"}); err != nil {
			return result, err
		}
	}
	record("make", i.BuildPath, true)

	// Artifacts.
	artifacts, err := i.artifacts()
	if err != nil {
		return result, err
	}
	if !opts.DryRun {
		if err := os.MkdirAll(i.Prefix, 0755); err != nil {
			return result, fmt.Errorf("creating prefix %s: %w", i.Prefix, err)
		}
	}
	for _, a := range artifacts {
		dest := filepath.Join(i.Prefix, a.rel)
		if !opts.DryRun {
			if err := sandbox.SafeCopy(i.Prefix, a.rel, a.src, a.perm); err != nil {
				return result, fmt.Errorf("installing %s: %w", a.src, err)
			}
		}
		record("install", dest, true)
	}

	return result, nil
}

func (i *Installer) patch(path string, pair version.Pair) error {
	format, err := buildfile.ParseFormat(i.Recipe.Format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildIdentity, err)
	}
	if err := buildfile.Patch(path, pair, format); err != nil {
		return fmt.Errorf("%w: %w", ErrBuildIdentity, err)
	}
	return nil
}

// checkDepends reports every depends_on tool missing from PATH.
func (i *Installer) checkDepends() error {
	lookPath := i.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	var missing []string
	for _, tool := range i.Recipe.Depends {
		if _, err := lookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s not found on PATH", ErrMissingDependency, strings.Join(missing, ", "))
	}
	return nil
}

func (i *Installer) opamScript() (string, error) {
	packages, err := script.QuoteAll(i.Recipe.Opam.Packages)
	if err != nil {
		return "", fmt.Errorf("quoting opam packages: %w", err)
	}
	src, err := script.Render(script.OpamBootstrap, map[string]string{"packages": packages})
	if err != nil {
		return "", fmt.Errorf("rendering opam bootstrap: %w", err)
	}
	if err := script.Validate("opam-bootstrap.sh", src); err != nil {
		return "", err
	}
	return src, nil
}

type artifact struct {
	src  string
	rel  string // relative to the prefix
	perm os.FileMode
}

func (i *Installer) artifacts() ([]artifact, error) {
	l := i.layoutOrDefault()

	bin, err := l.Path(layout.KindBin, i.Recipe.Install.Binary)
	if err != nil {
		return nil, err
	}
	man, err := l.Path(layout.KindMan1, i.Recipe.Install.ManPage)
	if err != nil {
		return nil, err
	}
	return []artifact{
		{src: filepath.Join(i.BuildPath, i.Recipe.Install.Binary), rel: bin, perm: 0755},
		{src: filepath.Join(i.BuildPath, i.Recipe.Install.ManPage), rel: man, perm: 0644},
	}, nil
}

// run executes argv in the build path and fails on a nonzero exit.
func (i *Installer) run(ctx context.Context, name string, argv []string) error {
	runner := i.Runner
	if runner == nil {
		runner = version.ExecRunner{Stdout: os.Stderr, Stderr: os.Stderr}
	}
	i.logger().Debug("running", "step", name, "command", script.Quote(argv), "dir", i.BuildPath)

	_, status, err := runner.Run(ctx, i.BuildPath, argv)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if status != 0 {
		return fmt.Errorf("%s: exited with status %d", name, status)
	}
	return nil
}

func (i *Installer) layoutOrDefault() *layout.Layout {
	if i.Layout != nil {
		return i.Layout
	}
	return layout.New(i.Recipe.Install.Layout)
}

func (i *Installer) logger() *log.Logger {
	if i.Logger != nil {
		return i.Logger
	}
	return log.New(io.Discard)
}
