package features

import (
	"strings"

	"github.com/paulmach/orb/geojson"
)

// AllRegions is the filter value that disables region filtering.
const AllRegions = "ALL"

// IsAllRegions reports whether a region selector means "no filter". Besides
// AllRegions the empty string and the Greek "ΟΛΕΣ" label are accepted.
func IsAllRegions(region string) bool {
	r := strings.TrimSpace(region)
	return r == "" || strings.EqualFold(r, AllRegions) || strings.EqualFold(r, "ΟΛΕΣ")
}

// FilterByRegion keeps features whose "region" property matches region after
// trimming and lower-casing. With the "no filter" selector the input slice is
// returned as is. Features are never copied or modified.
func FilterByRegion(fs []*geojson.Feature, region string) []*geojson.Feature {
	if IsAllRegions(region) {
		return fs
	}
	target := normalizeRegion(region)
	out := make([]*geojson.Feature, 0, len(fs))
	for _, f := range fs {
		r, _ := f.Properties["region"].(string)
		if normalizeRegion(r) == target {
			out = append(out, f)
		}
	}
	return out
}

// Collection wraps features in a new FeatureCollection.
func Collection(fs []*geojson.Feature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Features = append(fc.Features, fs...)
	return fc
}

func normalizeRegion(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
