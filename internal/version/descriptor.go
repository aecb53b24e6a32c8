package version

import "strings"

// ShortCommitLen is the length of the abbreviated commit hash.
const ShortCommitLen = 7

// Descriptor is a tag and full revision declared by the recipe.
type Descriptor struct {
	Tag      string
	Revision string
}

// FromDescriptor returns the declared tag and the revision abbreviated to
// ShortCommitLen characters.
func FromDescriptor(d Descriptor) (Pair, error) {
	tag := strings.TrimSpace(d.Tag)
	rev := strings.TrimSpace(d.Revision)

	if tag == "" {
		return Pair{}, &ResolveError{Strategy: "resource", Operation: "read", Err: ErrMissingTag, Hint: "add 'tag: <version>' to stable.resource"}
	}
	if rev == "" {
		return Pair{}, &ResolveError{Strategy: "resource", Operation: "read", Err: ErrMissingRevision, Hint: "add 'revision: <full commit hash>' to stable.resource"}
	}

	if len(rev) > ShortCommitLen {
		rev = rev[:ShortCommitLen]
	}
	return Pair{Version: tag, Commit: rev}, nil
}
