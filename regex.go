package bson

import "sort"

// Regex is the BSON RegularExpression variant: a pattern and an options
// string. Options are stored sorted ascending by rune (Unicode code
// point) so that two
// regexes built from the same option set in different input orderings
// compare equal (spec.md §4.D).
type Regex struct {
	Pattern string
	Options string
}

func newRegex(pattern, options string) Regex {
	return Regex{Pattern: pattern, Options: sortOptions(options)}
}

func sortOptions(options string) string {
	r := []rune(options)
	sort.Slice(r, func(i, j int) bool { return r[i] < r[j] })
	return string(r)
}
