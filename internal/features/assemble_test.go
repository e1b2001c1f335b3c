package features

import (
	"encoding/binary"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkbhex"
)

const squareGeoJSON = `{"type":"Polygon","coordinates":[[[21.7,40.3],[21.71,40.3],[21.71,40.31],[21.7,40.31],[21.7,40.3]]]}`

func TestAssembleKeepsOrderAndDropsMalformed(t *testing.T) {
	rows := []Record{
		{ID: int64(1), GeoJSON: squareGeoJSON, Properties: map[string]interface{}{"code": "PV-1", "region": "Κρήτη"}},
		{ID: int64(2), GeoJSON: `{"type":"LineString","coordinates":[[0,0],[1,1]]}`},
		{ID: int64(3), GeoJSON: `{"type":"Polygon"}`},
		{ID: int64(4), GeoJSON: `{"type":"Point","coordinates":null}`},
		{ID: int64(5)},
		{ID: int64(6), GeoJSON: `{"type":"Point","coordinates":[21.7,40.3]}`, Properties: map[string]interface{}{"code": "PV-6"}},
	}

	fc := Assemble(rows)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, int64(1), fc.Features[0].ID)
	assert.Equal(t, int64(6), fc.Features[1].ID)

	poly, ok := fc.Features[0].Geometry.(orb.Polygon)
	require.True(t, ok)
	assert.Len(t, poly[0], 5)
	assert.Equal(t, "PV-1", fc.Features[0].Properties["code"])
	assert.Equal(t, int64(1), fc.Features[0].Properties["id"])

	assert.Equal(t, orb.Point{21.7, 40.3}, fc.Features[1].Geometry)
}

func TestAssembleEmpty(t *testing.T) {
	fc := Assemble(nil)
	require.NotNil(t, fc)
	assert.Empty(t, fc.Features)
}

func TestFeatureFromRecordDoesNotAliasProperties(t *testing.T) {
	props := map[string]interface{}{"name": "north field"}
	f, err := FeatureFromRecord(Record{ID: "a", GeoJSON: squareGeoJSON, Properties: props})
	require.NoError(t, err)

	f.Properties["name"] = "changed"
	assert.Equal(t, "north field", props["name"])
	_, hasID := props["id"]
	assert.False(t, hasID)
}

func TestFeatureFromRecordEWKB(t *testing.T) {
	poly := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{21.7, 40.3}, {21.71, 40.3}, {21.71, 40.31}, {21.7, 40.3},
	}}).SetSRID(4326)
	hex, err := ewkbhex.Encode(poly, binary.LittleEndian)
	require.NoError(t, err)

	f, err := FeatureFromRecord(Record{ID: "uuid-1", EWKB: hex})
	require.NoError(t, err)
	got, ok := f.Geometry.(orb.Polygon)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, orb.Ring{{21.7, 40.3}, {21.71, 40.3}, {21.71, 40.31}, {21.7, 40.3}}, got[0])

	pt := geom.NewPoint(geom.XY).MustSetCoords(geom.Coord{21.7, 40.3})
	hex, err = ewkbhex.Encode(pt, binary.LittleEndian)
	require.NoError(t, err)
	f, err = FeatureFromRecord(Record{EWKB: hex})
	require.NoError(t, err)
	assert.Equal(t, orb.Point{21.7, 40.3}, f.Geometry)
}

func TestFeatureFromRecordRejects(t *testing.T) {
	line := geom.NewLineString(geom.XY).MustSetCoords([]geom.Coord{{0, 0}, {1, 1}})
	lineHex, err := ewkbhex.Encode(line, binary.LittleEndian)
	require.NoError(t, err)

	for name, rec := range map[string]Record{
		"no geometry":     {ID: 1},
		"bad json":        {GeoJSON: `{"type":`},
		"wrong tag":       {GeoJSON: `{"type":"MultiPolygon","coordinates":[]}`},
		"empty polygon":   {GeoJSON: `{"type":"Polygon","coordinates":[]}`},
		"short ring":      {GeoJSON: `{"type":"Polygon","coordinates":[[[0,0],[1,1],[0,0]]]}`},
		"bad hex":         {EWKB: "zz"},
		"ewkb linestring": {EWKB: lineHex},
		"point no coords": {GeoJSON: `{"type":"Point","coordinates":[]}`},
		"point one value": {GeoJSON: `{"type":"Point","coordinates":[21.5]}`},
		"ring one value":  {GeoJSON: `{"type":"Polygon","coordinates":[[[0,0],[1],[1,1],[0,0]]]}`},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := FeatureFromRecord(rec)
			assert.ErrorIs(t, err, ErrMalformedGeometry)
		})
	}
}

func TestAssembleDropsEmptyStoredPoints(t *testing.T) {
	// PostGIS writes POINT EMPTY as a point with NaN ordinates.
	const emptyPoint = "0101000020E6100000000000000000F87F000000000000F87F"

	emptyHex, err := ewkbhex.Encode(geom.NewPointEmpty(geom.XY), binary.LittleEndian)
	require.NoError(t, err)
	emptyPoly, err := ewkbhex.Encode(geom.NewPolygon(geom.XY), binary.LittleEndian)
	require.NoError(t, err)

	fc := Assemble([]Record{
		{ID: 1, EWKB: emptyPoint},
		{ID: 2, EWKB: emptyHex},
		{ID: 3, EWKB: emptyPoly},
		{ID: 4, GeoJSON: `{"type":"Point","coordinates":[]}`},
		{ID: 5, GeoJSON: `{"type":"Point","coordinates":[21.5]}`},
		{ID: 6, GeoJSON: `{"type":"Point","coordinates":[21.5,40.3]}`},
	})
	require.Len(t, fc.Features, 1)
	assert.Equal(t, 6, fc.Features[0].ID)
	assert.Equal(t, orb.Point{21.5, 40.3}, fc.Features[0].Geometry)
}

func TestDecodeCollection(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","id":7,"geometry":` + squareGeoJSON + `,"properties":{"code":"PV-7","region":"Αττική"}},
		{"type":"Feature","geometry":null,"properties":{}},
		{"type":"Feature","geometry":{"type":"Polygon","coordinates":null},"properties":{}},
		{"type":"Nope"}
	]}`

	fc, dropped, err := DecodeCollection([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 3, dropped)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "PV-7", fc.Features[0].Properties["code"])
}

func TestDecodeCollectionRejectsNonCollection(t *testing.T) {
	_, _, err := DecodeCollection([]byte(`{"type":"Feature"}`))
	assert.Error(t, err)

	_, _, err = DecodeCollection([]byte(`not json`))
	assert.Error(t, err)
}
