package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Installation is a stored installation footprint.
type Installation struct {
	bun.BaseModel `bun:"table:app.installations,alias:inst"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Code      string    `bun:"code,notnull" json:"code"`
	PowerMax  float64   `bun:"power_max,notnull" json:"power_max"`
	PowerAvg  float64   `bun:"power_avg,notnull" json:"power_avg"`
	Region    *string   `bun:"region" json:"region"`
	AreaM2    float64   `bun:"area_m2" json:"area_m2"`
	TheGeom   string    `bun:"the_geom,type:geometry" json:"-"` // written through ST_GeomFromText
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// NewInstallation is a validated submission ready to be stored.
type NewInstallation struct {
	Code     string
	PowerMax float64
	PowerAvg float64
	Region   *string
	AreaM2   float64
	WKT      string
}

// InstallationQueryParams filters installation reads.
type InstallationQueryParams struct {
	Regions []string
}

// SubmitInstallationRequest is the body of POST /installations. Exactly one
// geometry form is expected: wkt, coords ([[lon, lat], ...]) or free text.
// Both snake_case and camelCase power fields are accepted.
type SubmitInstallationRequest struct {
	Code        FlexibleText      `json:"code" validate:"max=64"`
	PowerMax    FlexibleText      `json:"power_max" validate:"max=32"`
	PowerAvg    FlexibleText      `json:"power_avg" validate:"max=32"`
	PowerMaxAlt FlexibleText      `json:"powerMax" validate:"max=32"`
	PowerAvgAlt FlexibleText      `json:"powerAvg" validate:"max=32"`
	Region      *string           `json:"region" validate:"omitempty,max=128"`
	WKT         string            `json:"wkt" validate:"required_without_all=Coords Text"`
	Coords      [][2]FlexibleText `json:"coords" validate:"required_without_all=WKT Text"`
	Text        string            `json:"text" validate:"required_without_all=WKT Coords"`
}

// MaxPower returns the power_max value, preferring the snake_case field.
func (r SubmitInstallationRequest) MaxPower() string {
	if r.PowerMax != "" {
		return string(r.PowerMax)
	}
	return string(r.PowerMaxAlt)
}

// AvgPower returns the power_avg value, preferring the snake_case field.
func (r SubmitInstallationRequest) AvgPower() string {
	if r.PowerAvg != "" {
		return string(r.PowerAvg)
	}
	return string(r.PowerAvgAlt)
}

// SubmitResponse is returned by the submit endpoints.
type SubmitResponse struct {
	Success bool        `json:"success"`
	ID      interface{} `json:"id,omitempty"`
	Error   string      `json:"error,omitempty"`
	Rule    string      `json:"rule,omitempty"`
	Row     int         `json:"row,omitempty"`
}
