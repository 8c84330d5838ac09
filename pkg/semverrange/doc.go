// SPDX-License-Identifier: MPL-2.0

// Package semverrange parses npm-style version range expressions and computes
// the lowest version a range admits.
//
// Ranges are desugared into comparator sets the same way the npm ecosystem
// does it:
//
//	^1.2.3        >=1.2.3 <2.0.0-0
//	~1.2          >=1.2.0 <1.3.0-0
//	1.x           >=1.0.0 <2.0.0-0
//	1.2 - 2.3.4   >=1.2.0 <=2.3.4
//	>=1 <2 || 3   (>=1.0.0 <2.0.0-0) or (>=3.0.0 <4.0.0-0)
//
// Concrete versions are github.com/Masterminds/semver/v3 values so callers can
// compare them with the usual Compare/LessThan/GreaterThan methods.
package semverrange
