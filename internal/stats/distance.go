package stats

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseDistance converts a raw killfeed distance value to meters. The feed
// records distance as free text, usually with a trailing unit ("147m");
// anything unparseable counts as 0. Every piece of distance arithmetic in
// this package goes through here - raw strings never reach a comparison.
func ParseDistance(raw string) float64 {
	v, _ := parseDistance(raw)
	return v
}

// parseDistance additionally reports whether the value actually parsed, so
// distance distributions can exclude garbage instead of counting it as a
// zero-meter kill.
func parseDistance(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	// Strip a trailing non-numeric unit suffix.
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	s = strings.TrimSpace(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
