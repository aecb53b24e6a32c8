// Package install drives a hyperkit build from a recipe: OCaml dependencies,
// build identity, Makefile stamping, make, and copying the artifacts into the
// install prefix. It also runs the tinycore boot smoke test.
package install

import (
	"fmt"

	"github.com/bianoble/hyperkit-recipe/internal/config"
)

// Mode is the kind of build being installed.
type Mode string

const (
	// ModeRelease builds a released source archive.
	ModeRelease Mode = "release"
	// ModeHead builds the newest commit of a live checkout.
	ModeHead Mode = "head"
	// ModeBottle installs prebuilt sources that carry their own identity.
	ModeBottle Mode = "bottle"
)

// ParseMode maps a --mode value to a Mode. Empty and "stable" mean release.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "release", "stable":
		return ModeRelease, nil
	case "head":
		return ModeHead, nil
	case "bottle":
		return ModeBottle, nil
	default:
		return "", fmt.Errorf("unknown build mode '%s' — must be one of: release, head, bottle", s)
	}
}

// SelectStrategy returns the version resolution strategy for mode. Bottle
// builds resolve nothing and get "".
func SelectStrategy(mode Mode, r *config.Recipe) string {
	switch mode {
	case ModeBottle:
		return ""
	case ModeHead:
		return "git"
	default:
		return r.Stable.Strategy()
	}
}
