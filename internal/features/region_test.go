package features

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
)

func feature(region interface{}) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{21.7, 40.3})
	if region != nil {
		f.Properties["region"] = region
	}
	return f
}

func TestFilterByRegionNormalizes(t *testing.T) {
	fs := []*geojson.Feature{
		feature("Κρήτη"),
		feature("  κρήτη "),
		feature("Αττική"),
		feature(nil),
		feature(42),
	}

	got := FilterByRegion(fs, " ΚΡΉΤΗ")
	assert.Equal(t, []*geojson.Feature{fs[0], fs[1]}, got)

	assert.Empty(t, FilterByRegion(fs, "Θεσσαλία"))
}

func TestFilterByRegionAllIsIdentity(t *testing.T) {
	fs := []*geojson.Feature{feature("Κρήτη"), feature(nil)}
	for _, sel := range []string{"ALL", "all", "", "  ", "ΟΛΕΣ", "Ολες"} {
		assert.Equal(t, fs, FilterByRegion(fs, sel), sel)
	}
}

func TestFilterByRegionDoesNotMutate(t *testing.T) {
	fs := []*geojson.Feature{feature("Κρήτη"), feature("Αττική")}
	before := fs[1].Properties["region"]

	_ = FilterByRegion(fs, "Κρήτη")
	assert.Len(t, fs, 2)
	assert.Equal(t, before, fs[1].Properties["region"])
}

func TestCollection(t *testing.T) {
	fs := []*geojson.Feature{feature("Κρήτη")}
	fc := Collection(fs)
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Len(t, fc.Features, 1)
}
