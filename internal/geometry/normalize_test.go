package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"comma decimal", "21,770", "21.770"},
		{"dot decimal", "21.770", "21.770"},
		{"european grouping", "1.234.567,89", "1234567.89"},
		{"english grouping", "1,234,567.89", "1234567.89"},
		{"repeated commas", "1,234,5", "1234.5"},
		{"repeated dots", "1.234.5", "1234.5"},
		{"no separator", "21", "21"},
		{"surrounding whitespace", "  40,35 \t", "40.35"},
		{"inner whitespace", "1 234,5", "1234.5"},
		{"trailing separator", "21,", "21."},
		{"empty", "", ""},
		{"negative", "-0,5", "-0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestParseNumber(t *testing.T) {
	valid := map[string]float64{
		"21.770": 21.77,
		"-0.5":   -0.5,
		"+3":     3,
		".5":     0.5,
		"1e3":    1000,
	}
	for in, want := range valid {
		got, ok := ParseNumber(in)
		assert.True(t, ok, in)
		assert.InDelta(t, want, got, 1e-12, in)
	}

	for _, in := range []string{"", "21.", ".", "abc", "Inf", "NaN", "0x10", "1e400", "1_000", "21.770.40"} {
		_, ok := ParseNumber(in)
		assert.False(t, ok, in)
	}
}

func TestNumberFromTextTrailingSeparatorIsInvalid(t *testing.T) {
	_, ok := NumberFromText("21,")
	assert.False(t, ok)

	v, ok := NumberFromText("21,5")
	assert.True(t, ok)
	assert.Equal(t, 21.5, v)
}
