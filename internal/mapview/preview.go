package mapview

import (
	"installations-bknd/internal/geometry"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Preview renders a single geometry with props and fits the view to it.
// Polygons are closed before rendering.
func Preview(s Surface, g geometry.Geometry, props map[string]interface{}) *geojson.Feature {
	if g.Kind == geometry.KindPolygon {
		g = geometry.NewPolygon(geometry.Close(g.Ring))
	}

	f := geojson.NewFeature(g.Orb())
	for k, v := range props {
		f.Properties[k] = v
	}

	fc := geojson.NewFeatureCollection()
	fc.Append(f)
	s.SetFeatures(fc)

	b := geometry.BoundsOf(f.Geometry)
	if _, ok := f.Geometry.(orb.Point); ok {
		const pad = 0.001
		b = geometry.Bounds{West: b.West - pad, South: b.South - pad, East: b.East + pad, North: b.North + pad}
	}
	s.FitToBounds(b)
	return f
}
