// Package textutil holds small text helpers used when rendering scripts.
package textutil

import "strings"

// Dedent removes the longest run of leading spaces and tabs common to every
// non-blank line. Blank lines are emptied.
func Dedent(s string) string {
	lines := strings.Split(s, "\n")

	prefix, found := "", false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !found {
			prefix, found = indent, true
			continue
		}
		prefix = commonPrefix(prefix, indent)
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}

// DedentCompressed dedents s and joins its lines with single spaces, for
// turning an indented block into one command line.
func DedentCompressed(s string) string {
	d := strings.TrimSuffix(Dedent(s), "\n")
	return strings.ReplaceAll(d, "\n", " ")
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
