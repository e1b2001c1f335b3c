package models

// BBoxRequest is the body of POST .../bbox, mirroring the stored procedure
// arguments. The same names are accepted as query parameters on GET.
type BBoxRequest struct {
	MinX   *float64 `json:"minx" validate:"required,gte=-180,lte=180"`
	MinY   *float64 `json:"miny" validate:"required,gte=-90,lte=90"`
	MaxX   *float64 `json:"maxx" validate:"required,gte=-180,lte=180"`
	MaxY   *float64 `json:"maxy" validate:"required,gte=-90,lte=90"`
	Region string   `json:"region" validate:"max=128"`
}

// PreviewRequest is the body of POST /geometry/preview.
type PreviewRequest struct {
	Text     string `json:"text" validate:"required,max=1048576"`
	Code     string `json:"code"`
	PowerMax string `json:"power_max"`
	PowerAvg string `json:"power_avg"`
}
