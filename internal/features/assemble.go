package features

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkbhex"
)

// ErrMalformedGeometry marks a stored geometry that cannot be rendered.
var ErrMalformedGeometry = errors.New("malformed geometry")

// Record is a stored row as returned by the query layer. The geometry comes
// either as GeoJSON text (ST_AsGeoJSON) or as hex encoded EWKB.
type Record struct {
	ID         interface{}
	GeoJSON    string
	EWKB       string
	Properties map[string]interface{}
}

// Assemble converts rows into a FeatureCollection. Rows whose geometry is
// missing or malformed are left out; the rest keep their order.
func Assemble(rows []Record) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, row := range rows {
		f, err := FeatureFromRecord(row)
		if err != nil {
			continue
		}
		fc.Append(f)
	}
	return fc
}

// FeatureFromRecord builds a single Feature. Properties are copied, and the
// identifier is mirrored into properties["id"] when not already present.
func FeatureFromRecord(rec Record) (*geojson.Feature, error) {
	var (
		g   orb.Geometry
		err error
	)
	switch {
	case rec.GeoJSON != "":
		g, err = decodeGeoJSON([]byte(rec.GeoJSON))
	case rec.EWKB != "":
		g, err = decodeEWKB(rec.EWKB)
	default:
		err = fmt.Errorf("%w: no geometry", ErrMalformedGeometry)
	}
	if err != nil {
		return nil, err
	}

	f := geojson.NewFeature(g)
	f.ID = rec.ID
	props := make(geojson.Properties, len(rec.Properties)+1)
	for k, v := range rec.Properties {
		props[k] = v
	}
	if _, ok := props["id"]; !ok && rec.ID != nil {
		props["id"] = rec.ID
	}
	f.Properties = props
	return f, nil
}

// DecodeCollection reads a FeatureCollection document. Features with a
// malformed geometry are dropped and counted instead of failing the whole
// document.
func DecodeCollection(data []byte) (*geojson.FeatureCollection, int, error) {
	var doc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, fmt.Errorf("decode feature collection: %w", err)
	}
	if doc.Type != "FeatureCollection" {
		return nil, 0, fmt.Errorf("decode feature collection: unexpected type %q", doc.Type)
	}

	rows := make([]Record, 0, len(doc.Features))
	dropped := 0
	for _, raw := range doc.Features {
		var f struct {
			Type       string                 `json:"type"`
			ID         interface{}            `json:"id"`
			Geometry   json.RawMessage        `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		}
		if err := json.Unmarshal(raw, &f); err != nil || f.Type != "Feature" || len(f.Geometry) == 0 {
			dropped++
			continue
		}
		rows = append(rows, Record{ID: f.ID, GeoJSON: string(f.Geometry), Properties: f.Properties})
	}

	fc := Assemble(rows)
	dropped += len(rows) - len(fc.Features)
	return fc, dropped, nil
}

func decodeGeoJSON(data []byte) (orb.Geometry, error) {
	var head struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGeometry, err)
	}
	if len(head.Coordinates) == 0 || string(head.Coordinates) == "null" {
		return nil, fmt.Errorf("%w: missing coordinates", ErrMalformedGeometry)
	}
	if err := checkPositions(head.Type, head.Coordinates); err != nil {
		return nil, err
	}

	gj, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGeometry, err)
	}
	return checkShape(gj.Geometry())
}

// checkPositions requires every position to carry at least a longitude and
// a latitude. orb reads positions into fixed pairs and would zero-fill.
func checkPositions(typ string, raw json.RawMessage) error {
	var positions [][]float64
	switch typ {
	case "Point":
		var p []float64
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedGeometry, err)
		}
		positions = [][]float64{p}
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(raw, &rings); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedGeometry, err)
		}
		for _, r := range rings {
			positions = append(positions, r...)
		}
	default:
		return fmt.Errorf("%w: unsupported type %q", ErrMalformedGeometry, typ)
	}
	for _, p := range positions {
		if len(p) < 2 {
			return fmt.Errorf("%w: position needs longitude and latitude, got %d values", ErrMalformedGeometry, len(p))
		}
	}
	return nil
}

func decodeEWKB(hex string) (orb.Geometry, error) {
	t, err := ewkbhex.Decode(hex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGeometry, err)
	}
	if t.Empty() {
		return nil, fmt.Errorf("%w: empty %T", ErrMalformedGeometry, t)
	}
	switch g := t.(type) {
	case *geom.Point:
		return checkShape(orb.Point{g.X(), g.Y()})
	case *geom.Polygon:
		poly := make(orb.Polygon, 0, g.NumLinearRings())
		for i := 0; i < g.NumLinearRings(); i++ {
			coords := g.LinearRing(i).Coords()
			ring := make(orb.Ring, len(coords))
			for j, c := range coords {
				ring[j] = orb.Point{c.X(), c.Y()}
			}
			poly = append(poly, ring)
		}
		return checkShape(poly)
	}
	return nil, fmt.Errorf("%w: unsupported type %T", ErrMalformedGeometry, t)
}

func checkShape(g orb.Geometry) (orb.Geometry, error) {
	switch v := g.(type) {
	case orb.Point:
		if !finite(v) {
			return nil, fmt.Errorf("%w: point is not finite", ErrMalformedGeometry)
		}
		return v, nil
	case orb.Polygon:
		if len(v) == 0 || len(v[0]) < 4 {
			return nil, fmt.Errorf("%w: polygon without a ring", ErrMalformedGeometry)
		}
		for _, r := range v {
			for _, p := range r {
				if !finite(p) {
					return nil, fmt.Errorf("%w: ring position is not finite", ErrMalformedGeometry)
				}
			}
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: unsupported type %T", ErrMalformedGeometry, g)
}

func finite(p orb.Point) bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
