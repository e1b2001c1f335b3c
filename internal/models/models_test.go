package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleTextAcceptsNumbersAndStrings(t *testing.T) {
	var req SubmitInstallationRequest
	body := `{"code":"PV-1","power_max":12.5,"powerAvg":"7,25","coords":[[21.77,"40,35"],["21,78",40.36]]}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, "12.5", req.MaxPower())
	assert.Equal(t, "7,25", req.AvgPower())
	require.Len(t, req.Coords, 2)
	assert.Equal(t, FlexibleText("21.77"), req.Coords[0][0])
	assert.Equal(t, FlexibleText("40,35"), req.Coords[0][1])
	assert.Equal(t, FlexibleText("21,78"), req.Coords[1][0])
}

func TestFlexibleTextNumericCode(t *testing.T) {
	var req SubmitInstallationRequest
	require.NoError(t, json.Unmarshal([]byte(`{"code":1042,"text":"x"}`), &req))
	assert.Equal(t, FlexibleText("1042"), req.Code)
}

func TestFlexibleTextNullAndInvalid(t *testing.T) {
	var n FlexibleText = "x"
	require.NoError(t, json.Unmarshal([]byte(`null`), &n))
	assert.Equal(t, FlexibleText(""), n)

	assert.Error(t, json.Unmarshal([]byte(`true`), &n))
}

func TestPowerPrefersSnakeCase(t *testing.T) {
	req := SubmitInstallationRequest{PowerMax: "1", PowerMaxAlt: "2", PowerAvgAlt: "3"}
	assert.Equal(t, "1", req.MaxPower())
	assert.Equal(t, "3", req.AvgPower())
}

func TestCanonicalRegion(t *testing.T) {
	r, ok := CanonicalRegion("  κρήτη ")
	assert.True(t, ok)
	assert.Equal(t, "Κρήτη", r)

	r, ok = CanonicalRegion("ΑΤΤΙΚΉ")
	assert.True(t, ok)
	assert.Equal(t, "Αττική", r)

	_, ok = CanonicalRegion("Atlantis")
	assert.False(t, ok)
	assert.Len(t, Regions, 13)
}

func TestAreaGeometryJSON(t *testing.T) {
	var feature SubmitAreaRequest
	require.NoError(t, json.Unmarshal([]byte(`{"type":"Feature","geometry":{"type":"Point","coordinates":[21.7,40.3]},"name":"pump"}`), &feature))
	g, err := feature.GeometryJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Point","coordinates":[21.7,40.3]}`, string(g))

	var bare SubmitAreaRequest
	require.NoError(t, json.Unmarshal([]byte(`{"type":"Point","coordinates":[21.7,40.3]}`), &bare))
	g, err = bare.GeometryJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Point","coordinates":[21.7,40.3]}`, string(g))
}
