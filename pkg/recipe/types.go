package recipe

// Pair is a resolved build identity.
type Pair struct {
	Version string
	Commit  string
}

// String returns "<version>-<commit>".
func (p Pair) String() string {
	return p.Version + "-" + p.Commit
}

// Step is one stage of an install.
type Step struct {
	Name   string
	Detail string
	Action string // "ran", "planned", "skipped"
}

// InstallOptions configures an install.
type InstallOptions struct {
	DryRun   bool
	SkipDeps bool
}

// InstallResult holds the outcome of an install.
type InstallResult struct {
	Mode  string
	Pair  Pair // zero for bottle builds
	Steps []Step
}

// FetchResult describes the source tree prepared by Fetch.
type FetchResult struct {
	Path     string
	Files    int  // files unpacked; zero for checkouts
	CacheHit bool // archive served from the cache
}
