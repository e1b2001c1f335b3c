package geometry

import (
	"math"
	"strconv"

	"github.com/paulmach/orb"
)

// Coordinate is a longitude/latitude pair. The raw strings are what the user
// typed; Lon and Lat hold the parsed values (NaN when the raw text did not
// parse).
type Coordinate struct {
	LonRaw string  `json:"lon_raw,omitempty"`
	LatRaw string  `json:"lat_raw,omitempty"`
	Lon    float64 `json:"lon"`
	Lat    float64 `json:"lat"`
}

// NewCoordinate normalizes and parses the raw ordinate text.
func NewCoordinate(lonRaw, latRaw string) Coordinate {
	c := Coordinate{LonRaw: lonRaw, LatRaw: latRaw, Lon: math.NaN(), Lat: math.NaN()}
	if v, ok := ParseNumber(Normalize(lonRaw)); ok {
		c.Lon = v
	}
	if v, ok := ParseNumber(Normalize(latRaw)); ok {
		c.Lat = v
	}
	return c
}

// FromNumbers builds a Coordinate from already parsed values.
func FromNumbers(lon, lat float64) Coordinate {
	return Coordinate{
		LonRaw: formatOrdinate(lon),
		LatRaw: formatOrdinate(lat),
		Lon:    lon,
		Lat:    lat,
	}
}

func (c Coordinate) Finite() bool {
	return isFinite(c.Lon) && isFinite(c.Lat)
}

func (c Coordinate) InRange() bool {
	return c.Lon >= -180 && c.Lon <= 180 && c.Lat >= -90 && c.Lat <= 90
}

// Valid reports whether both ordinates are finite and within range.
func (c Coordinate) Valid() bool {
	return c.Finite() && c.InRange()
}

// Equal compares parsed values only; raw text is ignored.
func (c Coordinate) Equal(o Coordinate) bool {
	return c.Lon == o.Lon && c.Lat == o.Lat
}

func (c Coordinate) Orb() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// Ring is a polygon boundary. A Ring produced by Close is always closed.
type Ring []Coordinate

// Closed reports whether the last coordinate equals the first by value.
func (r Ring) Closed() bool {
	return len(r) > 1 && r[0].Equal(r[len(r)-1])
}

// Vertices is the vertex count without the closing duplicate.
func (r Ring) Vertices() int {
	if r.Closed() {
		return len(r) - 1
	}
	return len(r)
}

func (r Ring) Equal(o Ring) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if !r[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

func (r Ring) Orb() orb.Ring {
	out := make(orb.Ring, len(r))
	for i, c := range r {
		out[i] = c.Orb()
	}
	return out
}

// Kind tags a Geometry variant. Values match the GeoJSON type names.
type Kind string

const (
	KindPoint   Kind = "Point"
	KindPolygon Kind = "Polygon"
)

// Geometry is either a Point or a single-ring Polygon.
type Geometry struct {
	Kind  Kind
	Point Coordinate
	Ring  Ring
}

func NewPoint(c Coordinate) Geometry {
	return Geometry{Kind: KindPoint, Point: c}
}

func NewPolygon(r Ring) Geometry {
	return Geometry{Kind: KindPolygon, Ring: r}
}

// Orb converts the geometry to its orb representation. Unknown kinds yield nil.
func (g Geometry) Orb() orb.Geometry {
	switch g.Kind {
	case KindPoint:
		return g.Point.Orb()
	case KindPolygon:
		return orb.Polygon{g.Ring.Orb()}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func formatOrdinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
