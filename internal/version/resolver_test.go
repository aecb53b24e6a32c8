package version

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bianoble/hyperkit-recipe/internal/config"
)

func testRecipe() *config.Recipe {
	r := &config.Recipe{
		Version: 1,
		Name:    "hyperkit",
		Stable: config.Stable{
			URL:    "https://example.com/hyperkit-20170515-fa78d94.tar.gz",
			SHA256: strings.Repeat("0", 64),
		},
	}
	config.ApplyDefaults(r)
	return r
}

func TestRegistryGetUnknown(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Get("nonexistent")
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
	if !strings.Contains(err.Error(), "unknown resolution strategy 'nonexistent'") {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "(none registered)") {
		t.Errorf("expected empty registry hint: %v", err)
	}
}

func TestDefaultRegistryStrategies(t *testing.T) {
	runner := &fakeRunner{out: "2017-04-25-a9c368b"}
	reg := DefaultRegistry(runner)
	r := testRecipe()
	r.Stable.Resource = &config.Resource{Tag: "v0.20170425", Revision: "a9c368bed6003bee11d2cf646ed1dcf3d350ec8c"}

	tests := []struct {
		strategy string
		want     Pair
	}{
		{"archive", Pair{"20170515", "fa78d94"}},
		{"git", Pair{"20170425", "a9c368b"}},
		{"resource", Pair{"v0.20170425", "a9c368b"}},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			res, err := reg.Get(tt.strategy)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			got, err := res.Resolve(context.Background(), r, "/build")
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}

	if runner.dir != "/build" {
		t.Errorf("git strategy ran in %q, want /build", runner.dir)
	}
}

func TestDescriptorResolverWithoutResource(t *testing.T) {
	_, err := DescriptorResolver{}.Resolve(context.Background(), testRecipe(), "")
	if !errors.Is(err, ErrMissingTag) {
		t.Errorf("expected ErrMissingTag, got %v", err)
	}
}

func TestPairValidate(t *testing.T) {
	tests := []struct {
		pair Pair
		ok   bool
	}{
		{Pair{"20170515", "fa78d94"}, true},
		{Pair{"v0.20170425", "a9c368b"}, true},
		{Pair{"", "fa78d94"}, false},
		{Pair{"20170515", ""}, false},
		{Pair{" 20170515", "fa78d94"}, false},
		{Pair{"2017\n0515", "fa78d94"}, false},
		{Pair{"20170515", "fa/78d94"}, false},
		{Pair{"20170515", `fa\78d94`}, false},
	}

	for _, tt := range tests {
		err := tt.pair.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("Validate(%+v) = %v, want ok=%v", tt.pair, err, tt.ok)
		}
		if err != nil && !errors.Is(err, ErrInvalidPair) {
			t.Errorf("Validate(%+v) error does not wrap ErrInvalidPair: %v", tt.pair, err)
		}
	}
}

func TestPairString(t *testing.T) {
	if got := (Pair{"20170515", "fa78d94"}).String(); got != "20170515-fa78d94" {
		t.Errorf("String() = %q", got)
	}
}

func TestResolveErrorFormat(t *testing.T) {
	err := &ResolveError{
		Strategy:  "git",
		Operation: "history query",
		Err:       fmt.Errorf("%w: status 128", ErrResolutionUnavailable),
		Hint:      "check the checkout",
	}
	msg := err.Error()
	for _, want := range []string{"git", "history query", "status 128", "check the checkout"} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in %s", want, msg)
		}
	}
	if !errors.Is(err, ErrResolutionUnavailable) {
		t.Error("Unwrap should expose the sentinel")
	}
}
