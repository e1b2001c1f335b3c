package services

import (
	"errors"
	"fmt"

	"github.com/peterstace/simplefeatures/geom"
)

// ErrInvalidWKT is returned when a submission's WKT is not a single-ring
// closed polygon.
var ErrInvalidWKT = errors.New("invalid polygon wkt")

// CheckPolygonWKT verifies that s is a POLYGON with one closed ring.
func CheckPolygonWKT(s string) error {
	g, err := geom.UnmarshalWKT(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWKT, err)
	}
	if g.Type() != geom.TypePolygon {
		return fmt.Errorf("%w: got %s", ErrInvalidWKT, g.Type())
	}

	poly := g.MustAsPolygon()
	if poly.NumInteriorRings() != 0 {
		return fmt.Errorf("%w: holes are not supported", ErrInvalidWKT)
	}
	if ring := poly.ExteriorRing(); ring.IsEmpty() || !ring.IsClosed() {
		return fmt.Errorf("%w: ring is not closed", ErrInvalidWKT)
	}
	return nil
}
