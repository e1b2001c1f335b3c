package handlers

import (
	"net/http"
	"strings"

	"installations-bknd/internal/geometry"
	"installations-bknd/internal/metrics"
	"installations-bknd/internal/models"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

type PreviewHandler struct {
	metrics *metrics.Collector
	logr    *zap.Logger
}

func NewPreviewHandler(m *metrics.Collector, logr *zap.Logger) *PreviewHandler {
	return &PreviewHandler{metrics: m, logr: logr}
}

// PreviewResponse describes what a pasted coordinate list would submit.
type PreviewResponse struct {
	geometry.ParseResult
	Valid   bool                        `json:"valid"`
	Errors  []*geometry.ValidationError `json:"errors"`
	WKT     string                      `json:"wkt,omitempty"`
	Feature *geojson.Feature            `json:"feature,omitempty"`
	AreaM2  float64                     `json:"area_m2,omitempty"`
	BBox    *geometry.BBox              `json:"bbox,omitempty"`
}

// Preview handles POST /geometry/preview. Only coordinate rules are checked
// unless code or power values are supplied.
func (h *PreviewHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req models.PreviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := geometry.ParseReport(req.Text)
	h.metrics.AddSkippedLines(len(res.Skipped))

	var errs []*geometry.ValidationError
	if strings.TrimSpace(req.Code+req.PowerMax+req.PowerAvg) != "" {
		errs = geometry.ValidateAll(req.Code, req.PowerMax, req.PowerAvg, res.Coordinates)
	} else {
		errs = geometry.ValidateCoordinates(res.Coordinates)
	}

	resp := PreviewResponse{ParseResult: res, Valid: len(errs) == 0, Errors: errs}
	if resp.Errors == nil {
		resp.Errors = []*geometry.ValidationError{}
	}
	if resp.Valid {
		ring := geometry.Close(res.Coordinates)
		f := geojson.NewFeature(orb.Polygon{ring.Orb()})
		f.Properties["code"] = req.Code
		box := geometry.FromViewport(geometry.BoundsOf(f.Geometry))

		resp.WKT = geometry.ToWKT(ring)
		resp.Feature = f
		resp.AreaM2 = geometry.Area(ring)
		resp.BBox = &box
	}

	h.logr.Debug("geometry preview",
		zap.Int("coordinates", len(res.Coordinates)),
		zap.Int("skipped", len(res.Skipped)),
		zap.Bool("valid", resp.Valid))

	writeJSON(w, http.StatusOK, resp)
}
