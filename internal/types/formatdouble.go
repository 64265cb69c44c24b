package types

import "strconv"

// FormatDouble renders v with up to 10 significant digits and strips any
// leading whitespace the underlying formatter might otherwise have
// produced (spec.md §4.4). Go's strconv never pads with spaces, but -0 is
// normalized to "0" since it is only ever produced trivially here (a
// scale/offset combination that nets out to exactly zero).
func FormatDouble(v float64) string {
	if v == 0 {
		return "0"
	}
	s := strconv.FormatFloat(v, 'g', 10, 64)
	for len(s) > 0 && s[0] == ' ' {
		s = s[1:]
	}
	return s
}
