package client

import (
	"installations-bknd/internal/geometry"
)

// Installation is a validated installation ready to be sent.
type Installation struct {
	Code     string
	PowerMax float64
	PowerAvg float64
	Region   *string
	Ring     geometry.Ring
}

// SubmitStrategy encodes an installation in one of the request forms the
// backend accepts.
type SubmitStrategy interface {
	Name() string
	Body(in Installation) interface{}
}

type submitBody struct {
	Code     string       `json:"code"`
	PowerMax float64      `json:"power_max"`
	PowerAvg float64      `json:"power_avg"`
	Region   *string      `json:"region"`
	WKT      string       `json:"wkt,omitempty"`
	Coords   [][2]float64 `json:"coords,omitempty"`
}

// WKTStrategy sends the ring as a WKT POLYGON.
type WKTStrategy struct{}

func (WKTStrategy) Name() string { return "wkt" }

func (WKTStrategy) Body(in Installation) interface{} {
	return submitBody{
		Code:     in.Code,
		PowerMax: in.PowerMax,
		PowerAvg: in.PowerAvg,
		Region:   in.Region,
		WKT:      geometry.ToWKT(in.Ring),
	}
}

// CoordsStrategy sends the ring as a [[lon, lat], ...] list.
type CoordsStrategy struct{}

func (CoordsStrategy) Name() string { return "coords" }

func (CoordsStrategy) Body(in Installation) interface{} {
	coords := make([][2]float64, len(in.Ring))
	for i, c := range in.Ring {
		coords[i] = [2]float64{c.Lon, c.Lat}
	}
	return submitBody{
		Code:     in.Code,
		PowerMax: in.PowerMax,
		PowerAvg: in.PowerAvg,
		Region:   in.Region,
		Coords:   coords,
	}
}

// DefaultStrategies tries WKT first and falls back to the coordinate list.
func DefaultStrategies() []SubmitStrategy {
	return []SubmitStrategy{WKTStrategy{}, CoordsStrategy{}}
}
