package geometry

import "github.com/paulmach/orb"

// Bounds are the edges of a map viewport.
type Bounds struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// BBox is the payload of a spatial query.
type BBox struct {
	MinX float64 `json:"minx"`
	MinY float64 `json:"miny"`
	MaxX float64 `json:"maxx"`
	MaxY float64 `json:"maxy"`
}

// FromViewport maps viewport edges onto query bounds as received. There is
// no clamping and no antimeridian handling.
func FromViewport(b Bounds) BBox {
	return BBox{MinX: b.West, MinY: b.South, MaxX: b.East, MaxY: b.North}
}

func (b BBox) Bounds() Bounds {
	return Bounds{West: b.MinX, South: b.MinY, East: b.MaxX, North: b.MaxY}
}

// BoundsOf returns the extent of an orb geometry, e.g. to fit a preview.
func BoundsOf(g orb.Geometry) Bounds {
	bound := g.Bound()
	return Bounds{West: bound.Min.Lon(), South: bound.Min.Lat(), East: bound.Max.Lon(), North: bound.Max.Lat()}
}
