// Package path implements pathkv's addressing grammar: parsing, validating,
// and normalizing slash-delimited paths, computing parents, and matching
// wildcard (*) and capturing ($name) patterns against concrete paths.
//
// The byte-scanning style of Normalize favors a single forward pass over
// the input bytes with no regexp and no intermediate []string allocation
// on the common path. Normalize never rewrites ".."/"." segments away —
// any empty segment is an error, not something to clean up silently.
package path

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/pathkv/pathkv/pkg/types"
)

// MaxLength is the hard byte-length ceiling a normalized path may not
// exceed.
const MaxLength = 1024

// Root is the normalized root path.
const Root = "/"

// Path is a normalized, validated path string. The zero value is invalid;
// construct one with Normalize.
type Path string

// Normalize validates s against the path grammar and strips a single
// trailing slash (except for the root itself). It rejects anything that
// doesn't start with "/", any embedded empty segment ("//"), and anything
// over MaxLength bytes.
func Normalize(s string) (Path, error) {
	if s == "" || s[0] != '/' {
		return "", types.ErrInvalidPath.Wrapf(nil, "path %q must start with '/'", s)
	}
	if len(s) > MaxLength {
		return "", types.ErrInvalidPath.Wrapf(nil, "path exceeds %d bytes", MaxLength)
	}
	if s == Root {
		return Path(Root), nil
	}

	trimmed := s
	if strings.HasSuffix(trimmed, "/") {
		trimmed = trimmed[:len(trimmed)-1]
	}
	if trimmed == "" {
		// Only "/" trims to "", and it is handled above; inputs such as
		// "//" trim to "/" and fail the empty-segment scan below.
		return "", types.ErrInvalidPath.Wrapf(nil, "path %q has an empty segment", s)
	}

	start := 1
	for i := 1; i <= len(trimmed); i++ {
		if i == len(trimmed) || trimmed[i] == '/' {
			if i == start {
				return "", types.ErrInvalidPath.Wrapf(nil, "path %q has an empty segment", s)
			}
			start = i + 1
		}
	}

	if !utf8.ValidString(trimmed) {
		return "", types.ErrInvalidPath.Wrapf(nil, "path %q is not valid UTF-8", s)
	}
	// NFC-normalize so visually identical segment names (e.g. a combining
	// accent written two different ways) land on the same backing-store
	// key.
	return Path(norm.NFC.String(trimmed)), nil
}

// String returns the underlying normalized string.
func (p Path) String() string { return string(p) }

// IsRoot reports whether p is the root path.
func (p Path) IsRoot() bool { return string(p) == Root }

// Segments decomposes p into its ordered list of segments; the root
// returns an empty slice.
func Segments(p Path) []string {
	s := string(p)
	if s == Root {
		return nil
	}
	return strings.Split(s[1:], "/")
}

// Join appends a child segment to p, returning a normalized Path. Child
// must not itself contain '/'.
func Join(p Path, child string) Path {
	if p.IsRoot() {
		return Path("/" + child)
	}
	return Path(string(p) + "/" + child)
}

// Parent returns p's parent and true, or ("", false) if p is the root.
func Parent(p Path) (Path, bool) {
	if p.IsRoot() {
		return "", false
	}
	s := string(p)
	idx := strings.LastIndexByte(s, '/')
	if idx == 0 {
		return Path(Root), true
	}
	return Path(s[:idx]), true
}

// Matches reports whether path satisfies pattern segment-wise, where a "*"
// segment in pattern matches exactly one arbitrary segment of path.
// Patterns are not normalized by this package; callers pass raw patterns
// containing "*"/"$name" segments that Normalize would otherwise reject.
func Matches(path, pattern string) bool {
	ps := rawSegments(path)
	qs := rawSegments(pattern)
	if len(ps) != len(qs) {
		return false
	}
	for i, q := range qs {
		if q == "*" {
			continue
		}
		if q != ps[i] {
			return false
		}
	}
	return true
}

// Extract matches path against a pattern whose segments may be "$name"
// capturing segments, returning the captured segment-name -> value
// bindings. It fails with ErrInvalidArgument (PatternMismatch) if the
// segment counts differ or a literal segment doesn't match.
func Extract(path, pattern string) (map[string]string, error) {
	ps := rawSegments(path)
	qs := rawSegments(pattern)
	if len(ps) != len(qs) {
		return nil, types.ErrInvalidArgument.Wrapf(nil, "pattern %q mismatches path %q", pattern, path)
	}
	out := make(map[string]string, len(qs))
	for i, q := range qs {
		switch {
		case strings.HasPrefix(q, "$") && len(q) > 1:
			out[q[1:]] = ps[i]
		case q == "*":
			// wildcard: matches but does not capture
		case q != ps[i]:
			return nil, types.ErrInvalidArgument.Wrapf(nil, "pattern %q mismatches path %q", pattern, path)
		}
	}
	return out, nil
}

// rawSegments splits a possibly-unnormalized "/"-rooted string into
// segments without validating it; used only for pattern matching, where
// "*" and "$name" are not valid Path segments under Normalize.
func rawSegments(s string) []string {
	if s == "" || s == Root {
		return nil
	}
	trimmed := strings.TrimPrefix(s, "/")
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// HasPrefix reports whether path is p itself or a descendant of p (i.e.
// path == string(p) or path starts with string(p)+"/"). Root is a prefix
// of every path.
func HasPrefix(p Path, candidate string) bool {
	if p.IsRoot() {
		return true
	}
	base := string(p)
	return candidate == base || strings.HasPrefix(candidate, base+"/")
}

// ChildPrefix returns the key prefix under which p's direct children are
// stored: "/" for the root, otherwise p+"/".
func ChildPrefix(p Path) string {
	if p.IsRoot() {
		return Root
	}
	return string(p) + "/"
}
