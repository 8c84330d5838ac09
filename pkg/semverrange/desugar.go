// SPDX-License-Identifier: MPL-2.0

package semverrange

// anyVersion is the comparator set for "*", "x" and the empty range.
func anyVersion() []Comparator {
	return []Comparator{{Op: OpGTE, Version: ver(0, 0, 0, "")}}
}

// noVersion is a comparator set nothing can satisfy (e.g. ">*").
func noVersion() []Comparator {
	return []Comparator{{Op: OpLT, Version: floor(0, 0, 0)}}
}

func between(lower *Comparator, upper *Comparator) []Comparator {
	var set []Comparator
	if lower != nil {
		set = append(set, *lower)
	}
	if upper != nil {
		set = append(set, *upper)
	}
	if len(set) == 0 {
		return anyVersion()
	}
	return set
}

// caretRange allows changes that do not modify the left-most non-zero part.
func caretRange(p partial) []Comparator {
	switch {
	case p.major == wildcard:
		return anyVersion()
	case p.minor == wildcard:
		return between(
			&Comparator{OpGTE, ver(p.major, 0, 0, "")},
			&Comparator{OpLT, floor(p.major+1, 0, 0)},
		)
	case p.patch == wildcard:
		upper := floor(p.major+1, 0, 0)
		if p.major == 0 {
			upper = floor(p.major, p.minor+1, 0)
		}
		return between(
			&Comparator{OpGTE, ver(p.major, p.minor, 0, "")},
			&Comparator{OpLT, upper},
		)
	}

	var upper = floor(p.major+1, 0, 0)
	if p.major == 0 {
		if p.minor == 0 {
			upper = floor(p.major, p.minor, p.patch+1)
		} else {
			upper = floor(p.major, p.minor+1, 0)
		}
	}
	return between(
		&Comparator{OpGTE, p.version()},
		&Comparator{OpLT, upper},
	)
}

// tildeRange allows patch-level changes when a minor version is given,
// minor-level changes otherwise.
func tildeRange(p partial) []Comparator {
	switch {
	case p.major == wildcard:
		return anyVersion()
	case p.minor == wildcard:
		return between(
			&Comparator{OpGTE, ver(p.major, 0, 0, "")},
			&Comparator{OpLT, floor(p.major+1, 0, 0)},
		)
	}
	return between(
		&Comparator{OpGTE, p.version()},
		&Comparator{OpLT, floor(p.major, p.minor+1, 0)},
	)
}

// xRange handles plain and primitive-operator comparators, rounding partial
// versions the way npm does: ">1.2" is ">=1.3.0" and "<=1.2" is "<1.3.0-0".
func xRange(op Op, p partial) []Comparator {
	if op == "" {
		op = OpEQ
	}

	if !p.anyWildcard() {
		return []Comparator{{op, p.version()}}
	}

	if p.major == wildcard {
		if op == OpGT || op == OpLT {
			return noVersion()
		}
		return anyVersion()
	}

	if op == OpEQ {
		// "1" and "1.2" behave like "1.x" and "1.2.x".
		if p.minor == wildcard {
			return between(
				&Comparator{OpGTE, ver(p.major, 0, 0, "")},
				&Comparator{OpLT, floor(p.major+1, 0, 0)},
			)
		}
		return between(
			&Comparator{OpGTE, ver(p.major, p.minor, 0, "")},
			&Comparator{OpLT, floor(p.major, p.minor+1, 0)},
		)
	}

	major, minor := p.major, p.minor
	if minor == wildcard {
		minor = 0
	}

	switch op {
	case OpGT:
		op = OpGTE
		if p.minor == wildcard {
			major, minor = major+1, 0
		} else {
			minor++
		}
	case OpLTE:
		op = OpLT
		if p.minor == wildcard {
			major++
		} else {
			minor++
		}
	}

	if op == OpLT {
		return []Comparator{{op, floor(major, minor, 0)}}
	}
	return []Comparator{{op, ver(major, minor, 0, "")}}
}

// hyphenRange turns "a - b" into an inclusive range, treating a partial
// upper bound as "anything below the next release".
func hyphenRange(from, to string) ([]Comparator, error) {
	lo, ok := parsePartial(from)
	if !ok {
		return nil, &InvalidExprError{Token: from}
	}
	hi, ok := parsePartial(to)
	if !ok {
		return nil, &InvalidExprError{Token: to}
	}

	var lower *Comparator
	if lo.major != wildcard {
		lower = &Comparator{OpGTE, lo.version()}
	}

	var upper *Comparator
	switch {
	case hi.major == wildcard:
	case hi.minor == wildcard:
		upper = &Comparator{OpLT, floor(hi.major+1, 0, 0)}
	case hi.patch == wildcard:
		upper = &Comparator{OpLT, floor(hi.major, hi.minor+1, 0)}
	default:
		upper = &Comparator{OpLTE, hi.version()}
	}

	return between(lower, upper), nil
}
