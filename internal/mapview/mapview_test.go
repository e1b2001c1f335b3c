package mapview

import (
	"testing"

	"installations-bknd/internal/geometry"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogSurfaceListeners(t *testing.T) {
	s := NewLogSurface(geometry.Bounds{West: 0, South: 0, East: 1, North: 1}, zap.NewNop())

	var got []geometry.Bounds
	detach := s.OnViewportChanged(func(b geometry.Bounds) { got = append(got, b) })
	assert.Equal(t, 1, s.Listeners())

	moved := geometry.Bounds{West: 2, South: 2, East: 3, North: 3}
	s.Move(moved)
	assert.Equal(t, []geometry.Bounds{moved}, got)
	assert.Equal(t, moved, s.ViewportBounds())

	s.FitToBounds(geometry.Bounds{West: 5, South: 5, East: 6, North: 6})
	assert.Len(t, got, 1)

	detach()
	assert.Equal(t, 0, s.Listeners())
	s.Move(geometry.Bounds{})
	assert.Len(t, got, 1)
}

func TestLogSurfaceSetFeaturesNil(t *testing.T) {
	s := NewLogSurface(geometry.Bounds{}, zap.NewNop())
	s.SetFeatures(nil)
	require.NotNil(t, s.Features())
	assert.Empty(t, s.Features().Features)
	assert.Equal(t, 1, s.Renders())
}

func TestPreviewPolygon(t *testing.T) {
	s := NewLogSurface(geometry.Bounds{}, zap.NewNop())
	ring := geometry.Ring{
		geometry.FromNumbers(21.7, 40.3),
		geometry.FromNumbers(21.71, 40.3),
		geometry.FromNumbers(21.71, 40.31),
	}

	f := Preview(s, geometry.NewPolygon(ring), map[string]interface{}{"code": "PV-1"})
	poly, ok := f.Geometry.(orb.Polygon)
	require.True(t, ok)
	assert.Len(t, poly[0], 4)
	assert.Equal(t, "PV-1", f.Properties["code"])

	require.Len(t, s.Features().Features, 1)
	assert.Equal(t, geometry.Bounds{West: 21.7, South: 40.3, East: 21.71, North: 40.31}, s.ViewportBounds())
}

func TestPreviewPointIsPadded(t *testing.T) {
	s := NewLogSurface(geometry.Bounds{}, zap.NewNop())
	Preview(s, geometry.NewPoint(geometry.FromNumbers(21.7, 40.3)), nil)

	b := s.ViewportBounds()
	assert.Less(t, b.West, 21.7)
	assert.Greater(t, b.North, 40.3)
}
