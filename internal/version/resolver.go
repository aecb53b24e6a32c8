package version

import (
	"context"
	"fmt"
	"sort"

	"github.com/bianoble/hyperkit-recipe/internal/config"
)

// Resolver produces the build identity for a recipe from one kind of source.
type Resolver interface {
	// Resolve returns the identity. buildPath is the unpacked or checked-out
	// source tree; strategies that do not need it ignore it.
	Resolve(ctx context.Context, r *config.Recipe, buildPath string) (Pair, error)
}

// ArchiveResolver reads the identity from the stable archive URL.
type ArchiveResolver struct{}

func (ArchiveResolver) Resolve(_ context.Context, r *config.Recipe, _ string) (Pair, error) {
	return ArchiveParser{Name: r.Name}.Parse(r.Stable.URL)
}

// GitResolver queries the history of the checkout at buildPath.
type GitResolver struct {
	Runner CommandRunner
}

func (g *GitResolver) Resolve(ctx context.Context, r *config.Recipe, buildPath string) (Pair, error) {
	return FromRepository(ctx, g.Runner, RepositoryReference{WorkingCopy: buildPath, Branch: r.Head.Branch})
}

// DescriptorResolver uses the recipe's stable.resource record.
type DescriptorResolver struct{}

func (DescriptorResolver) Resolve(_ context.Context, r *config.Recipe, _ string) (Pair, error) {
	if r.Stable.Resource == nil {
		return FromDescriptor(Descriptor{})
	}
	return FromDescriptor(Descriptor{Tag: r.Stable.Resource.Tag, Revision: r.Stable.Resource.Revision})
}

// Registry maps strategy names to Resolver implementations.
type Registry struct {
	resolvers map[string]Resolver
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]Resolver)}
}

// DefaultRegistry returns a registry with the archive, git and resource
// strategies. runner is used for git history queries; nil means os/exec.
func DefaultRegistry(runner CommandRunner) *Registry {
	reg := NewRegistry()
	reg.Register("archive", ArchiveResolver{})
	reg.Register("git", &GitResolver{Runner: runner})
	reg.Register("resource", DescriptorResolver{})
	return reg
}

// Register adds a resolver for the given strategy.
func (r *Registry) Register(strategy string, resolver Resolver) {
	r.resolvers[strategy] = resolver
}

// Get returns the resolver for the given strategy.
func (r *Registry) Get(strategy string) (Resolver, error) {
	res, ok := r.resolvers[strategy]
	if !ok {
		return nil, fmt.Errorf("unknown resolution strategy '%s' — supported strategies: %s", strategy, r.supported())
	}
	return res, nil
}

func (r *Registry) supported() string {
	names := make([]string, 0, len(r.resolvers))
	for name := range r.resolvers {
		names = append(names, name)
	}
	if len(names) == 0 {
		return "(none registered)"
	}
	sort.Strings(names)
	return fmt.Sprintf("%v", names)
}
