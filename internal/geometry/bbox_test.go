package geometry

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestFromViewportPassesThrough(t *testing.T) {
	b := Bounds{West: 170.5, South: -95, East: -170.25, North: 91}
	bbox := FromViewport(b)
	assert.Equal(t, BBox{MinX: 170.5, MinY: -95, MaxX: -170.25, MaxY: 91}, bbox)
	assert.Equal(t, b, bbox.Bounds())
}

func TestBoundsOf(t *testing.T) {
	poly := orb.Polygon{Close(square()).Orb()}
	assert.Equal(t, Bounds{West: 21.70, South: 40.30, East: 21.71, North: 40.31}, BoundsOf(poly))
}
