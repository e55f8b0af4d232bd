package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Version is a tag-like version token, e.g. "v1.2.0". The leading "v" carries
// no meaning for comparison.
type Version string

var (
	releaseRe   = regexp.MustCompile(`^v?[0-9]+\.[0-9]+\.[0-9]+$`)
	versionedRe = regexp.MustCompile(`^v?[0-9]+\.[0-9]+\.[0-9]+`)
)

// String returns the version as written, including any leading "v".
func (v Version) String() string {
	return string(v)
}

// canonical strips the optional leading "v".
func (v Version) canonical() string {
	return strings.TrimPrefix(string(v), "v")
}

// IsRelease reports whether the version is a plain release of the form
// v{major}.{minor}.{patch} with no postfix.
func (v Version) IsRelease() bool {
	return releaseRe.MatchString(string(v))
}

// IsPreRelease reports whether the version is a versioned tag with a postfix,
// e.g. "v1.2.3-rc1" or "v1.2.3pre1".
func (v Version) IsPreRelease() bool {
	return versionedRe.MatchString(string(v)) && !v.IsRelease()
}

// IsVersioned reports whether the version starts with a parseable
// {major}.{minor}.{patch} triple at all. Tags that fail this check are branch
// names or free-form labels and never participate in ordered selection.
func (v Version) IsVersioned() bool {
	return versionedRe.MatchString(string(v))
}

// CompareVersions orders two versions. Components are compared numerically
// pairwise after splitting on ".". When the two versions have a different
// number of components, or any component is not a plain integer, the whole
// comparison falls back to lexical ordering of the canonical strings. The
// fallback is deliberately permissive; mixed-format tags sort by byte order.
func CompareVersions(a, b Version) int {
	ca, cb := a.canonical(), b.canonical()
	if ca == cb {
		return 0
	}

	as := strings.Split(ca, ".")
	bs := strings.Split(cb, ".")
	if len(as) != len(bs) {
		return strings.Compare(ca, cb)
	}
	for i := range as {
		na, errA := strconv.Atoi(as[i])
		nb, errB := strconv.Atoi(bs[i])
		if errA != nil || errB != nil {
			return strings.Compare(ca, cb)
		}
		if na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports whether v orders before o.
func (v Version) Less(o Version) bool {
	return CompareVersions(v, o) < 0
}
