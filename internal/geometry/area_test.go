package geometry

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/stretchr/testify/assert"
)

func TestAreaMatchesGeodesic(t *testing.T) {
	ring := Close(square())
	got := Area(ring)
	want := geo.Area(orb.Polygon{ring.Orb()})

	assert.Greater(t, got, 0.0)
	assert.InEpsilon(t, want, got, 0.01)
}

func TestAreaOrientationIndependent(t *testing.T) {
	sq := square()
	rev := []Coordinate{sq[3], sq[2], sq[1], sq[0]}
	assert.InDelta(t, Area(Close(sq)), Area(Close(rev)), 1e-6)
}

func TestAreaDegenerate(t *testing.T) {
	assert.Zero(t, Area(Ring{FromNumbers(1, 1), FromNumbers(2, 2)}))
}

func TestAreaAtThePoles(t *testing.T) {
	south := Close([]Coordinate{FromNumbers(0, -90), FromNumbers(10, -89), FromNumbers(10, -80)})
	north := Close([]Coordinate{FromNumbers(0, 90), FromNumbers(10, 89), FromNumbers(10, 80)})

	for name, ring := range map[string]Ring{"south": south, "north": north} {
		a := Area(ring)
		assert.False(t, math.IsNaN(a) || math.IsInf(a, 0), name)
		assert.GreaterOrEqual(t, a, 0.0, name)
		// Bounded by the surface of the earth.
		assert.Less(t, a, 5.1e14, name)
	}
	assert.InDelta(t, Area(south), Area(north), 1e-3*Area(north))
}
