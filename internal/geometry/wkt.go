package geometry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// ToWKT renders a closed ring as POLYGON((lon lat, lon lat, ...)). Ordinates
// use the shortest decimal form that round-trips, without exponent or group
// separators.
func ToWKT(r Ring) string {
	var b strings.Builder
	b.WriteString("POLYGON((")
	for i, c := range r {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(c.Lon, 'f', -1, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(c.Lat, 'f', -1, 64))
	}
	b.WriteString("))")
	return b.String()
}

// ErrUnsupportedWKT is returned by ReadWKT for anything but a single-ring
// polygon.
var ErrUnsupportedWKT = errors.New("only single-ring POLYGON is supported")

// ReadWKT parses POLYGON text produced by ToWKT (or any single-ring polygon)
// back into a Ring.
func ReadWKT(s string) (Ring, error) {
	g, err := wkt.Unmarshal(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("parse wkt: %w", err)
	}
	poly, ok := g.(orb.Polygon)
	if !ok || len(poly) != 1 {
		return nil, ErrUnsupportedWKT
	}
	ring := make(Ring, len(poly[0]))
	for i, p := range poly[0] {
		ring[i] = FromNumbers(p.Lon(), p.Lat())
	}
	return ring, nil
}
