// SPDX-License-Identifier: MPL-2.0

package semverrange

import (
	"errors"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Op is a comparator operator.
type Op string

const (
	// OpEQ matches exactly one version.
	OpEQ Op = "="
	// OpLT matches versions strictly lower than the operand.
	OpLT Op = "<"
	// OpLTE matches versions lower than or equal to the operand.
	OpLTE Op = "<="
	// OpGT matches versions strictly greater than the operand.
	OpGT Op = ">"
	// OpGTE matches versions greater than or equal to the operand.
	OpGTE Op = ">="
)

type (
	// Comparator is a single operator/version pair such as ">=1.2.0".
	Comparator struct {
		Op      Op
		Version *semver.Version
	}

	// Range is a parsed version range: a union of comparator sets. A version
	// satisfies the range when it satisfies every comparator of at least one set.
	Range struct {
		expr Expr
		sets [][]Comparator
	}
)

var (
	// operatorSpaceRegex joins an operator with the version that follows it,
	// so ">= 1.2.3" and "^ 1.2" tokenize as one comparator.
	operatorSpaceRegex = regexp.MustCompile(`(<=|>=|~>|[<>=~^])\s+`)

	// hyphenRegex matches a whole "a - b" comparator set.
	hyphenRegex = regexp.MustCompile(`^(\S+)\s+-\s+(\S+)$`)

	// comparatorRegex splits a token into its operator and version part.
	comparatorRegex = regexp.MustCompile(`^(<=|>=|~>|[<>=~^])?=?\s*(.*)$`)
)

// Parse parses a range expression into comparator sets.
func Parse(expr string) (*Range, error) {
	r := &Range{expr: Expr(expr)}

	for raw := range strings.SplitSeq(expr, "||") {
		set, err := parseSet(strings.TrimSpace(raw))
		if err != nil {
			var ie *InvalidExprError
			if errors.As(err, &ie) {
				ie.Value = Expr(expr)
			}
			return nil, err
		}
		r.sets = append(r.sets, set)
	}

	return r, nil
}

// MustParse is like Parse but panics on error. Intended for constants in
// tests and package-level tables.
func MustParse(expr string) *Range {
	r, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return r
}

func parseSet(s string) ([]Comparator, error) {
	if m := hyphenRegex.FindStringSubmatch(s); m != nil {
		return hyphenRange(m[1], m[2])
	}

	s = operatorSpaceRegex.ReplaceAllString(s, "$1")
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return anyVersion(), nil
	}

	var set []Comparator
	for _, tok := range tokens {
		cs, err := parseComparator(tok)
		if err != nil {
			return nil, err
		}
		set = append(set, cs...)
	}
	return set, nil
}

func parseComparator(tok string) ([]Comparator, error) {
	m := comparatorRegex.FindStringSubmatch(tok)
	if m == nil {
		return nil, &InvalidExprError{Token: tok}
	}

	p, ok := parsePartial(m[2])
	if !ok {
		return nil, &InvalidExprError{Token: tok}
	}

	switch m[1] {
	case "^":
		return caretRange(p), nil
	case "~", "~>":
		return tildeRange(p), nil
	default:
		return xRange(Op(m[1]), p), nil
	}
}

// Satisfies reports whether v satisfies at least one comparator set.
func (r *Range) Satisfies(v *semver.Version) bool {
	if v == nil {
		return false
	}
	for _, set := range r.sets {
		if setSatisfies(set, v) {
			return true
		}
	}
	return false
}

func setSatisfies(set []Comparator, v *semver.Version) bool {
	for _, c := range set {
		if !c.matches(v) {
			return false
		}
	}

	if v.Prerelease() == "" {
		return true
	}

	// A prerelease only matches when a comparator of the same set opts into
	// prereleases of that exact major.minor.patch tuple.
	for _, c := range set {
		if c.Version.Prerelease() == "" {
			continue
		}
		if c.Version.Major() == v.Major() && c.Version.Minor() == v.Minor() && c.Version.Patch() == v.Patch() {
			return true
		}
	}
	return false
}

func (c Comparator) matches(v *semver.Version) bool {
	cmp := v.Compare(c.Version)
	switch c.Op {
	case OpEQ:
		return cmp == 0
	case OpLT:
		return cmp < 0
	case OpLTE:
		return cmp <= 0
	case OpGT:
		return cmp > 0
	case OpGTE:
		return cmp >= 0
	default:
		return false
	}
}

// String returns the comparator in "op version" form, e.g. ">=1.2.0".
func (c Comparator) String() string {
	return string(c.Op) + c.Version.String()
}

// Sets returns the desugared comparator sets.
func (r *Range) Sets() [][]Comparator {
	out := make([][]Comparator, len(r.sets))
	for i, set := range r.sets {
		out[i] = append([]Comparator(nil), set...)
	}
	return out
}

// Expr returns the expression the range was parsed from.
func (r *Range) Expr() Expr { return r.expr }

// String returns the desugared form, e.g. ">=1.2.3 <2.0.0-0 || >=3.0.0".
func (r *Range) String() string {
	sets := make([]string, len(r.sets))
	for i, set := range r.sets {
		parts := make([]string, len(set))
		for j, c := range set {
			parts[j] = c.String()
		}
		sets[i] = strings.Join(parts, " ")
	}
	return strings.Join(sets, " || ")
}
