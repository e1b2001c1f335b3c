package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"installations-bknd/internal/geometry"
	"installations-bknd/internal/models"
)

// bboxFromRequest reads a box from a POST body or GET query parameters.
// GET accepts either minx/miny/maxx/maxy or bbox=w,s,e,n.
func bboxFromRequest(r *http.Request) (geometry.BBox, string, error) {
	var req models.BBoxRequest

	if r.Method == http.MethodPost {
		if err := decodeBody(r, &req); err != nil {
			return geometry.BBox{}, "", err
		}
	} else {
		q := r.URL.Query()
		req.Region = q.Get("region")

		if raw := q.Get("bbox"); raw != "" {
			vals, err := parseCSVFloat(raw)
			if err != nil {
				return geometry.BBox{}, "", err
			}
			if len(vals) != 4 {
				return geometry.BBox{}, "", errors.New("bbox needs four values: west,south,east,north")
			}
			req.MinX, req.MinY, req.MaxX, req.MaxY = &vals[0], &vals[1], &vals[2], &vals[3]
		} else {
			for _, p := range []struct {
				name string
				dst  **float64
			}{
				{"minx", &req.MinX}, {"miny", &req.MinY}, {"maxx", &req.MaxX}, {"maxy", &req.MaxY},
			} {
				raw := q.Get(p.name)
				if raw == "" {
					continue
				}
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return geometry.BBox{}, "", fmt.Errorf("invalid %s", p.name)
				}
				*p.dst = &v
			}
		}
		if err := validate.Struct(&req); err != nil {
			return geometry.BBox{}, "", describeValidation(err)
		}
	}

	box := geometry.BBox{MinX: *req.MinX, MinY: *req.MinY, MaxX: *req.MaxX, MaxY: *req.MaxY}
	if box.MinX > box.MaxX || box.MinY > box.MaxY {
		return geometry.BBox{}, "", errors.New("bbox minimum exceeds maximum")
	}
	return box, req.Region, nil
}
