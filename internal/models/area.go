package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Area is a stored free-form area (marker or polygon).
type Area struct {
	bun.BaseModel `bun:"table:app.areas,alias:ar"`

	ID         uuid.UUID              `bun:"id,pk,type:uuid" json:"id"`
	Name       *string                `bun:"name" json:"name"`
	Properties map[string]interface{} `bun:"properties,type:jsonb" json:"properties"`
	TheGeom    string                 `bun:"the_geom,type:geometry" json:"-"` // written through ST_GeomFromGeoJSON
	CreatedAt  time.Time              `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// NewArea is a validated area submission.
type NewArea struct {
	Name       *string
	Properties map[string]interface{}
	GeoJSON    string
}

// SubmitAreaRequest is the body of POST /areas. It is either a GeoJSON
// Feature or a bare Point/Polygon geometry.
type SubmitAreaRequest struct {
	Type        string                 `json:"type" validate:"required,oneof=Feature Point Polygon"`
	Geometry    json.RawMessage        `json:"geometry"`
	Coordinates json.RawMessage        `json:"coordinates"`
	Name        *string                `json:"name" validate:"omitempty,max=200"`
	Properties  map[string]interface{} `json:"properties"`
}

// GeometryJSON returns the geometry member, or a re-encoded bare geometry.
func (r SubmitAreaRequest) GeometryJSON() ([]byte, error) {
	if r.Type == "Feature" {
		return r.Geometry, nil
	}
	return json.Marshal(struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}{r.Type, r.Coordinates})
}
