// Package version resolves the (version, commit) identity that is burned into
// a hyperkit build. Three sources are supported: a release archive URL, the
// history of a live git working copy, and a declared resource record.
package version

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for each way resolution can fail. ResolveError wraps one of
// these, so callers match with errors.Is.
var (
	ErrMalformedURL          = errors.New("archive URL does not match <name>-<date>-<commit>.tar.gz")
	ErrResolutionUnavailable = errors.New("git history query returned no usable version")
	ErrMissingTag            = errors.New("resource tag is empty")
	ErrMissingRevision       = errors.New("resource revision is empty")
	ErrInvalidPair           = errors.New("invalid version/commit pair")
)

// Pair is the resolved build identity.
type Pair struct {
	Version string
	Commit  string
}

// String renders the pair the way the plain Makefile format does.
func (p Pair) String() string {
	return p.Version + "-" + p.Commit
}

// Validate reports whether both fields are usable tokens. The values end up
// in a generated Makefile and in shell command lines, so they must be
// non-empty, trimmed and free of line breaks and path separators.
func (p Pair) Validate() error {
	if err := validateToken("version", p.Version); err != nil {
		return err
	}
	return validateToken("commit", p.Commit)
}

func validateToken(field, v string) error {
	if v == "" {
		return fmt.Errorf("%w: %s is empty", ErrInvalidPair, field)
	}
	if strings.TrimSpace(v) != v {
		return fmt.Errorf("%w: %s %q has surrounding whitespace", ErrInvalidPair, field, v)
	}
	if strings.ContainsAny(v, "\r\n\x00/\\") {
		return fmt.Errorf("%w: %s %q contains a line break or path separator", ErrInvalidPair, field, v)
	}
	return nil
}

// ResolveError represents a failure of one resolution strategy.
type ResolveError struct {
	Strategy  string
	Operation string
	Err       error
	Hint      string
}

func (e *ResolveError) Error() string {
	msg := fmt.Sprintf("%s: %s failed: %s", e.Strategy, e.Operation, e.Err)
	if e.Hint != "" {
		msg += " — " + e.Hint
	}
	return msg
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}
