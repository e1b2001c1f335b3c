package geometry

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Normalize canonicalizes the decimal separator of a human typed number.
//
// Whitespace is removed. When the token contains ',' or '.', the separator
// occurring last is taken as the decimal point and every other ',' or '.' is
// dropped as a thousands-group marker:
//
//	"21,770"        → "21.770"
//	"1.234.567,89"  → "1234567.89"
//	"1,234,567.89"  → "1234567.89"
//	"21,"           → "21."  (rejected later by ParseNumber)
//
// Normalize never rejects input; ParseNumber decides whether the result is a
// number.
func Normalize(raw string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	dec := strings.LastIndexAny(s, ",.")
	if dec < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch {
		case i == dec:
			b.WriteByte('.')
		case s[i] == ',' || s[i] == '.':
			// group marker
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

var numberPattern = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d+)?|\.\d+)(?:[eE][+-]?\d+)?$`)

// ParseNumber parses a normalized decimal string. A trailing decimal point,
// hex/inf/nan spellings and values that overflow float64 are rejected.
func ParseNumber(s string) (float64, bool) {
	if !numberPattern.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}

// NumberFromText is ParseNumber(Normalize(raw)).
func NumberFromText(raw string) (float64, bool) {
	return ParseNumber(Normalize(raw))
}
