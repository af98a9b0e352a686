package framework

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

// AsFilter runs a test if it, or a subtest it may contain, matches MustMatch, and it does not
// match MustNotMatch.
func (r RegexFilters) AsFilter(id TestID) bool {
	return (!r.MustMatch.IsDefined() || r.MustMatch.AnyMatchPath(id)) &&
		!r.MustNotMatch.AnyMatch(id.String())
}

type RegexList struct {
	patterns []*regexp.Regexp
	// levels holds each pattern split at "/", one regex per level of the test path; nil if
	// the pattern cannot be split that way.
	levels [][]*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	r.patterns = append(r.patterns, rx)
	r.levels = append(r.levels, splitLevels(value))
	return nil
}

// splitLevels splits a pattern at each "/" that is outside of brackets and parentheses.
func splitLevels(value string) []*regexp.Regexp {
	var parts []string
	brackets, parens := 0, 0
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '\\':
			i++
		case '[':
			brackets++
		case ']':
			if brackets > 0 {
				brackets--
			}
		case '(':
			if brackets == 0 {
				parens++
			}
		case ')':
			if brackets == 0 {
				parens--
			}
		case '/':
			if brackets == 0 && parens == 0 {
				parts = append(parts, value[:i])
				value = value[i+1:]
				i = -1
			}
		}
	}
	parts = append(parts, value)

	levels := make([]*regexp.Regexp, 0, len(parts))
	for _, part := range parts {
		rx, err := regexp.Compile(part)
		if err != nil {
			return nil
		}
		levels = append(levels, rx)
	}
	return levels
}

func (r *RegexList) Type() string {
	return "regex"
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// AnyMatchPath is like AnyMatch on the full name of id, but also accepts a test whose path
// matches the leading levels of a pattern, since one of its subtests may match the rest.
func (r RegexList) AnyMatchPath(id TestID) bool {
	if r.AnyMatch(id.String()) {
		return true
	}
	for _, levels := range r.levels {
		if len(levels) <= len(id.Path) {
			continue
		}
		matched := true
		for i, name := range id.Path {
			if !levels[i].MatchString(name) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// ExactTestPattern returns a regex that matches only the given test and its subtests.
func ExactTestPattern(id TestID) string {
	return "^" + regexp.QuoteMeta(id.String()) + "(/|$)"
}

func PrintFilterDescription(out io.Writer, filters RegexFilters) {
	if filters.MustMatch.IsDefined() || filters.MustNotMatch.IsDefined() {
		fmt.Fprintln(out, "Some tests will be skipped based on the filter criteria for this test run:")
		if filters.MustMatch.IsDefined() {
			fmt.Fprintf(out, "  skip any not matching %s\n", filters.MustMatch)
		}
		if filters.MustNotMatch.IsDefined() {
			fmt.Fprintf(out, "  skip any matching %s\n", filters.MustNotMatch)
		}
		fmt.Fprintln(out)
	}
}
