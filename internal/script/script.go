// Package script renders the shell and expect scripts run around the native
// build: the OPAM dependency bootstrap and the boot smoke test.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"mvdan.cc/sh/v3/syntax"

	"github.com/bianoble/hyperkit-recipe/internal/textutil"
)

// Render executes tmpl against vars. Templates are dedented first, and a
// reference to a variable missing from vars is an error.
func Render(tmpl string, vars map[string]string) (string, error) {
	t, err := template.New("").Option("missingkey=error").Parse(textutil.Dedent(tmpl))
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return strings.TrimLeft(buf.String(), "\n"), nil
}

// Validate parses a POSIX shell script and reports syntax errors.
func Validate(name, src string) error {
	if _, err := syntax.NewParser(syntax.Variant(syntax.LangPOSIX)).Parse(strings.NewReader(src), name); err != nil {
		return fmt.Errorf("script syntax error: %w", err)
	}
	return nil
}

// QuoteWord quotes a single word for a POSIX shell.
func QuoteWord(s string) (string, error) {
	q, err := syntax.Quote(s, syntax.LangPOSIX)
	if err != nil {
		return "", fmt.Errorf("quoting %q: %w", s, err)
	}
	return q, nil
}

// Quote renders argv as a shell command line, for logs and dry runs.
func Quote(argv []string) string {
	words := make([]string, len(argv))
	for i, arg := range argv {
		q, err := QuoteWord(arg)
		if err != nil {
			q = fmt.Sprintf("%q", arg)
		}
		words[i] = q
	}
	return strings.Join(words, " ")
}

// QuoteAll quotes every element of words and joins them with spaces.
func QuoteAll(words []string) (string, error) {
	quoted := make([]string, len(words))
	for i, w := range words {
		q, err := QuoteWord(w)
		if err != nil {
			return "", err
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " "), nil
}

// ErrTclWord is returned for values that cannot be embedded in an expect
// script as a single literal word.
var ErrTclWord = errors.New("value cannot be quoted for Tcl")

// TclWord renders s as one literal Tcl word. Words made only of path-like
// characters pass through unchanged; anything else is brace-quoted. Values
// holding characters that would escape the braces are rejected.
func TclWord(s string) (string, error) {
	if strings.ContainsAny(s, "{}\\\r\n\x00") {
		return "", fmt.Errorf("%w: %q", ErrTclWord, s)
	}
	if s != "" && strings.IndexFunc(s, notTclPlain) < 0 {
		return s, nil
	}
	return "{" + s + "}", nil
}

func notTclPlain(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("/._-=:,+@%", r)
}
