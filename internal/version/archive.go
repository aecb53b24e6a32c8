package version

import (
	"fmt"
	"regexp"
)

// DefaultArchiveName is the project name expected in release archive names.
const DefaultArchiveName = "hyperkit"

// ArchiveParser extracts the identity from a release archive URL of the form
// .../<Name>-<8 digits>-<hex>.tar.gz.
type ArchiveParser struct {
	Name string
}

func (a ArchiveParser) pattern() *regexp.Regexp {
	name := a.Name
	if name == "" {
		name = DefaultArchiveName
	}
	return regexp.MustCompile(regexp.QuoteMeta(name) + `-(\d{8})-([A-Fa-f\d]+)\.tar\.gz$`)
}

// Parse returns the date token and commit token captured from url, unchanged.
func (a ArchiveParser) Parse(url string) (Pair, error) {
	m := a.pattern().FindStringSubmatch(url)
	if m == nil {
		return Pair{}, &ResolveError{
			Strategy:  "archive",
			Operation: "parse",
			Err:       fmt.Errorf("%w: %s", ErrMalformedURL, url),
			Hint:      "release archives must be named like hyperkit-20170515-fa78d94.tar.gz",
		}
	}
	return Pair{Version: m[1], Commit: m[2]}, nil
}

// FromArchiveURL parses a hyperkit release archive URL.
func FromArchiveURL(url string) (Pair, error) {
	return ArchiveParser{}.Parse(url)
}
