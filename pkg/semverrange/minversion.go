// SPDX-License-Identifier: MPL-2.0

package semverrange

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Zero returns the 0.0.0 version, the lowest release any range can admit.
func Zero() *semver.Version {
	return ver(0, 0, 0, "")
}

// MinVersion parses expr and returns the lowest version that satisfies it.
func MinVersion(expr string) (*semver.Version, error) {
	r, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return r.MinVersion()
}

// MinVersion returns the lowest version that satisfies the range.
//
// 0.0.0 and 0.0.0-0 are tried first. Otherwise each comparator set
// contributes its greatest lower bound and the smallest of those is
// checked against the whole range.
func (r *Range) MinVersion() (*semver.Version, error) {
	if v := Zero(); r.Satisfies(v) {
		return v, nil
	}
	if v := floor(0, 0, 0); r.Satisfies(v) {
		return v, nil
	}

	var lowest *semver.Version
	for _, set := range r.sets {
		var setLow *semver.Version
		for _, c := range set {
			var candidate *semver.Version
			switch c.Op {
			case OpGT:
				candidate = successor(c.Version)
			case OpGTE, OpEQ:
				candidate = c.Version
			default:
				continue
			}
			if setLow == nil || candidate.GreaterThan(setLow) {
				setLow = candidate
			}
		}
		if setLow != nil && (lowest == nil || lowest.GreaterThan(setLow)) {
			lowest = setLow
		}
	}

	if lowest != nil && r.Satisfies(lowest) {
		return lowest, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNoSatisfyingVersion, string(r.expr))
}

// successor returns the lowest version strictly greater than v that a range
// would consider: the next patch for releases, or the prerelease extended
// with ".0".
func successor(v *semver.Version) *semver.Version {
	if v.Prerelease() == "" {
		return semver.New(v.Major(), v.Minor(), v.Patch()+1, "", "")
	}
	return semver.New(v.Major(), v.Minor(), v.Patch(), v.Prerelease()+".0", "")
}
