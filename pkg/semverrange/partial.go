// SPDX-License-Identifier: MPL-2.0

package semverrange

import (
	"regexp"
	"strconv"

	"github.com/Masterminds/semver/v3"
)

const (
	// wildcard marks a version part that was omitted or written as x, X or *.
	wildcard = -1

	// maxPart is the largest numeric part accepted (2^53-1), so bumping a
	// part for an upper bound cannot overflow.
	maxPart = 1<<53 - 1
)

// partialRegex matches a possibly incomplete version such as "1", "1.2.x",
// "v1.2.3-beta.1+build.5". Numeric parts have no leading zeros. Prerelease
// and build are only allowed after a full major.minor.patch triple.
var partialRegex = regexp.MustCompile(
	`^v?(0|[1-9]\d*|[xX*])(?:\.(0|[1-9]\d*|[xX*])(?:\.(0|[1-9]\d*|[xX*])` +
		`(?:-([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?` +
		`(?:\+([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?)?)?$`)

// partial is a version whose trailing parts may be wildcards.
type partial struct {
	major int64
	minor int64
	patch int64
	pre   string
}

func parsePartial(s string) (partial, bool) {
	m := partialRegex.FindStringSubmatch(s)
	if m == nil {
		return partial{}, false
	}

	var p partial
	var ok bool
	if p.major, ok = parsePart(m[1]); !ok {
		return partial{}, false
	}
	if p.minor, ok = parsePart(m[2]); !ok {
		return partial{}, false
	}
	if p.patch, ok = parsePart(m[3]); !ok {
		return partial{}, false
	}

	// A wildcard swallows everything after it: "1.x.3" means "1.x".
	if p.major == wildcard {
		p.minor, p.patch = wildcard, wildcard
	}
	if p.minor == wildcard {
		p.patch = wildcard
	}
	if p.patch != wildcard {
		p.pre = m[4]
	}

	return p, true
}

func parsePart(s string) (int64, bool) {
	switch s {
	case "", "x", "X", "*":
		return wildcard, true
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n > maxPart {
		return 0, false
	}
	return n, true
}

func (p partial) anyWildcard() bool {
	return p.major == wildcard || p.minor == wildcard || p.patch == wildcard
}

// version returns the concrete version with wildcards read as zero.
func (p partial) version() *semver.Version {
	return ver(zeroIfWild(p.major), zeroIfWild(p.minor), zeroIfWild(p.patch), p.pre)
}

func zeroIfWild(n int64) int64 {
	if n == wildcard {
		return 0
	}
	return n
}

func ver(major, minor, patch int64, pre string) *semver.Version {
	return semver.New(uint64(major), uint64(minor), uint64(patch), pre, "")
}

// floor returns major.minor.patch-0, the lowest version of that triple.
func floor(major, minor, patch int64) *semver.Version {
	return ver(major, minor, patch, "0")
}
