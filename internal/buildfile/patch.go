// Package buildfile stamps the resolved build identity into hyperkit's
// Makefile by rewriting its GIT_VERSION and GIT_VERSION_SHA1 assignments.
package buildfile

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/bianoble/hyperkit-recipe/internal/sandbox"
	"github.com/bianoble/hyperkit-recipe/internal/version"
)

// Assignment names rewritten by Patch.
const (
	VersionVar = "GIT_VERSION"
	CommitVar  = "GIT_VERSION_SHA1"
)

// ErrShapeMismatch means the build file does not contain exactly one of each
// target assignment.
var ErrShapeMismatch = errors.New("build file shape mismatch")

// Matched on the left-hand name only, so a line that was already rewritten
// matches again.
var (
	versionLine = regexp.MustCompile(`^` + VersionVar + `[ \t]*:=`)
	commitLine  = regexp.MustCompile(`^` + CommitVar + `[ \t]*:=`)
)

// Format selects how the assignment values are written.
type Format int

const (
	// FormatPlain writes GIT_VERSION := <version>-<commit> and
	// GIT_VERSION_SHA1 := <commit>.
	FormatPlain Format = iota
	// FormatQuoted writes GIT_VERSION := '<version> (<commit>)' and
	// GIT_VERSION_SHA1 := '<commit>'.
	FormatQuoted
)

// ParseFormat maps a recipe format name to a Format. Empty means plain.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "plain":
		return FormatPlain, nil
	case "quoted":
		return FormatQuoted, nil
	default:
		return FormatPlain, fmt.Errorf("unknown build file format '%s' — must be one of: plain, quoted", s)
	}
}

func (f Format) String() string {
	if f == FormatQuoted {
		return "quoted"
	}
	return "plain"
}

// Lines returns the two assignment lines for pair, without terminators.
func (f Format) Lines(pair version.Pair) (versionAssign, commitAssign string) {
	if f == FormatQuoted {
		return fmt.Sprintf("%s := '%s (%s)'", VersionVar, pair.Version, pair.Commit),
			fmt.Sprintf("%s := '%s'", CommitVar, pair.Commit)
	}
	return fmt.Sprintf("%s := %s-%s", VersionVar, pair.Version, pair.Commit),
		fmt.Sprintf("%s := %s", CommitVar, pair.Commit)
}

// ShapeError reports how many lines matched an assignment that must occur
// exactly once.
type ShapeError struct {
	Path    string
	Name    string
	Matches int
}

func (e *ShapeError) Error() string {
	where := "build file"
	if e.Path != "" {
		where = e.Path
	}
	return fmt.Sprintf("%s: expected exactly one %s assignment, found %d", where, e.Name, e.Matches)
}

func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// Rewrite returns content with the two identity assignments replaced. Every
// other byte, including line terminators, is preserved.
func Rewrite(content []byte, pair version.Pair, format Format) ([]byte, error) {
	if err := pair.Validate(); err != nil {
		return nil, err
	}

	lines := strings.SplitAfter(string(content), "\n")
	versionIdx, err := findOne(lines, versionLine, VersionVar)
	if err != nil {
		return nil, err
	}
	commitIdx, err := findOne(lines, commitLine, CommitVar)
	if err != nil {
		return nil, err
	}

	versionAssign, commitAssign := format.Lines(pair)
	lines[versionIdx] = versionAssign + terminator(lines[versionIdx])
	lines[commitIdx] = commitAssign + terminator(lines[commitIdx])

	return []byte(strings.Join(lines, "")), nil
}

// Patch rewrites the identity assignments of the build file at path in
// place. The previous content is kept at path+".bak". Nothing is written if
// the pair is invalid or the file does not have the expected shape.
func Patch(path string, pair version.Pair, format Format) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading build file: %w", err)
	}

	patched, err := Rewrite(content, pair, format)
	if err != nil {
		var shapeErr *ShapeError
		if errors.As(err, &shapeErr) {
			shapeErr.Path = path
		}
		return err
	}

	if err := sandbox.WriteWithBackup(path, patched); err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}
	return nil
}

// Restore puts back the content saved by the last Patch of path.
func Restore(path string) error {
	return sandbox.RestoreBackup(path)
}

func findOne(lines []string, re *regexp.Regexp, name string) (int, error) {
	idx, matches := -1, 0
	for i, line := range lines {
		if re.MatchString(line) {
			idx = i
			matches++
		}
	}
	if matches != 1 {
		return -1, &ShapeError{Name: name, Matches: matches}
	}
	return idx, nil
}

func terminator(line string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(line, "\n"):
		return "\n"
	}
	return ""
}
