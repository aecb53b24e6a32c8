// Package layout maps installed artifact kinds to directories under the
// install prefix.
package layout

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Artifact kinds installed by a build.
const (
	KindBin  = "bin"
	KindMan1 = "man1"
)

// builtinDirs are the prefix-relative directories used when the recipe
// declares no override.
var builtinDirs = map[string]string{
	KindBin:  "bin",
	KindMan1: "share/man/man1",
}

// Layout resolves artifact kinds to prefix-relative directories.
type Layout struct {
	dirs map[string]string
}

// New creates a Layout with the built-in directories and the recipe's
// install.layout overrides.
func New(overrides map[string]string) *Layout {
	dirs := make(map[string]string, len(builtinDirs)+len(overrides))
	for kind, dir := range builtinDirs {
		dirs[kind] = dir
	}
	for kind, dir := range overrides {
		dirs[kind] = dir
	}
	return &Layout{dirs: dirs}
}

// Resolve returns the prefix-relative directory for kind.
func (l *Layout) Resolve(kind string) (string, error) {
	dir, ok := l.dirs[kind]
	if !ok {
		return "", fmt.Errorf("unknown artifact kind '%s' — define it in install.layout: {%s: <dir>}", kind, kind)
	}
	return dir, nil
}

// Path returns the prefix-relative path of the file name installed as kind.
func (l *Layout) Path(kind, name string) (string, error) {
	dir, err := l.Resolve(kind)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(name)), nil
}

// Kinds returns all known artifact kinds, sorted.
func (l *Layout) Kinds() []string {
	kinds := make([]string, 0, len(l.dirs))
	for kind := range l.dirs {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// IsCustom reports whether kind was overridden or added by the recipe.
func (l *Layout) IsCustom(kind string) bool {
	builtin, isBuiltin := builtinDirs[kind]
	dir, isDefined := l.dirs[kind]
	return isDefined && (!isBuiltin || dir != builtin)
}
