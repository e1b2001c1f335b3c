package geometry

import (
	"math"

	"github.com/wroge/wgs84"
)

// maxMercatorLat is the latitude limit of EPSG:3857.
const maxMercatorLat = 85.05112878

// Area returns the approximate surface of a ring in square metres.
//
// Vertices are projected to web mercator (EPSG:3857) and the planar shoelace
// area is scaled back by cos² of the mean latitude. Good to well under 1% for
// installation-sized polygons. Latitudes beyond the projection limit are
// clamped to it, and a result that is not finite is reported as 0.
func Area(r Ring) float64 {
	n := r.Vertices()
	if n < MinRingVertices {
		return 0
	}
	toMercator := wgs84.EPSG().Transform(4326, 3857)

	xs := make([]float64, n)
	ys := make([]float64, n)
	var latSum float64
	for i := 0; i < n; i++ {
		lat := math.Max(-maxMercatorLat, math.Min(maxMercatorLat, r[i].Lat))
		xs[i], ys[i], _ = toMercator(r[i].Lon, lat, 0)
		latSum += lat
	}

	var twice float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		twice += xs[i]*ys[j] - xs[j]*ys[i]
	}
	scale := math.Cos(latSum / float64(n) * math.Pi / 180)
	area := math.Abs(twice) / 2 * scale * scale
	if !isFinite(area) {
		return 0
	}
	return area
}
