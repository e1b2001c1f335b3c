package geometry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToWKTFormat(t *testing.T) {
	ring := Close([]Coordinate{
		FromNumbers(21.77, 40.35),
		FromNumbers(-0.000001, 40.36),
		FromNumbers(21.78, 1234.5),
	})
	assert.Equal(t, "POLYGON((21.77 40.35, -0.000001 40.36, 21.78 1234.5, 21.77 40.35))", ToWKT(ring))
}

func TestToWKTUsesParsedValues(t *testing.T) {
	ring := Close([]Coordinate{
		NewCoordinate("21,770", "40,350"),
		NewCoordinate("21,780", "40,350"),
		NewCoordinate("21,780", "40,360"),
	})
	assert.Equal(t, "POLYGON((21.77 40.35, 21.78 40.35, 21.78 40.36, 21.77 40.35))", ToWKT(ring))
}

func TestToWKTProperty(t *testing.T) {
	rings := []Ring{
		Close(square()),
		Close([]Coordinate{FromNumbers(-180, -90), FromNumbers(180, -90), FromNumbers(0, 90)}),
		Close([]Coordinate{FromNumbers(0.1, 0.2), FromNumbers(0.30000000000000004, 0.2), FromNumbers(0.3, 1e-9), FromNumbers(12.5, 7)}),
	}
	for _, r := range rings {
		s := ToWKT(r)
		assert.True(t, strings.HasPrefix(s, "POLYGON(("), s)
		assert.True(t, strings.HasSuffix(s, "))"), s)

		pairs := strings.Split(strings.TrimSuffix(strings.TrimPrefix(s, "POLYGON(("), "))"), ", ")
		assert.Equal(t, pairs[0], pairs[len(pairs)-1])
		assert.NotContains(t, s, "e")
	}
}

func TestReadWKTRoundTrip(t *testing.T) {
	rings := []Ring{
		Close(square()),
		Close([]Coordinate{FromNumbers(0.1, 0.2), FromNumbers(0.30000000000000004, 0.2), FromNumbers(0.3, 1e-9)}),
		Close([]Coordinate{FromNumbers(-179.999999, -89.5), FromNumbers(179.25, -89.5), FromNumbers(0, 89.999)}),
	}
	for _, r := range rings {
		back, err := ReadWKT(ToWKT(r))
		require.NoError(t, err)
		assert.True(t, back.Equal(r), "%v != %v", back, r)
	}
}

func TestReadWKTRejects(t *testing.T) {
	_, err := ReadWKT("POINT(1 2)")
	assert.ErrorIs(t, err, ErrUnsupportedWKT)

	_, err = ReadWKT("POLYGON((0 0, 10 0, 10 10, 0 0), (1 1, 2 1, 2 2, 1 1))")
	assert.ErrorIs(t, err, ErrUnsupportedWKT)

	_, err = ReadWKT("POLYGON((0 0, 1")
	assert.Error(t, err)
}
