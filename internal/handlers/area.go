package handlers

import (
	"context"
	"errors"
	"net/http"

	"installations-bknd/internal/events"
	"installations-bknd/internal/features"
	"installations-bknd/internal/geometry"
	"installations-bknd/internal/metrics"
	"installations-bknd/internal/models"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// AreaStore persists and queries areas.
type AreaStore interface {
	Create(ctx context.Context, in models.NewArea) (uuid.UUID, error)
	QueryBBox(ctx context.Context, box geometry.BBox) ([]features.Record, error)
}

type AreaHandler struct {
	store   AreaStore
	events  events.Publisher
	metrics *metrics.Collector
	logr    *zap.Logger
}

func NewAreaHandler(store AreaStore, pub events.Publisher, m *metrics.Collector, logr *zap.Logger) *AreaHandler {
	if pub == nil {
		pub = events.Discard{}
	}
	return &AreaHandler{store: store, events: pub, metrics: m, logr: logr}
}

// Submit handles POST /areas
func (h *AreaHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitAreaRequest
	if err := decodeBody(r, &req); err != nil {
		h.logr.Warn("invalid area request", zap.Error(err))
		h.metrics.ObserveSubmission("area", "rejected")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	raw, err := req.GeometryJSON()
	if err == nil {
		err = checkAreaGeometry(raw)
	}
	if err != nil {
		h.logr.Warn("area geometry rejected", zap.Error(err))
		h.metrics.ObserveSubmission("area", "rejected")
		writeValidationError(w, err)
		return
	}

	id, err := h.store.Create(r.Context(), models.NewArea{
		Name:       req.Name,
		Properties: req.Properties,
		GeoJSON:    string(raw),
	})
	if err != nil {
		h.logr.Error("failed to store area", zap.Error(err))
		h.metrics.ObserveSubmission("area", "failed")
		writeError(w, http.StatusInternalServerError, "failed to store area")
		return
	}

	h.events.Publish(events.Event{Type: events.AreasReload, ID: id.String()})
	h.metrics.ObserveSubmission("area", "stored")
	h.logr.Info("area stored", zap.String("id", id.String()))

	writeJSON(w, http.StatusCreated, models.SubmitResponse{Success: true, ID: id.String()})
}

// checkAreaGeometry accepts a Point or a single-ring Polygon whose
// coordinates pass the range rules.
func checkAreaGeometry(raw []byte) error {
	f, err := features.FeatureFromRecord(features.Record{GeoJSON: string(raw)})
	if err != nil {
		return err
	}

	switch g := f.Geometry.(type) {
	case orb.Point:
		return geometry.ValidatePoint(geometry.FromNumbers(g[0], g[1]))
	case orb.Polygon:
		if len(g) != 1 {
			return errors.New("polygons with holes are not supported")
		}
		coords := make([]geometry.Coordinate, len(g[0]))
		for i, p := range g[0] {
			coords[i] = geometry.FromNumbers(p[0], p[1])
		}
		if !geometry.Ring(coords).Closed() {
			return errors.New("polygon ring is not closed")
		}
		if errs := geometry.ValidateCoordinates(coords); len(errs) > 0 {
			return errs[0]
		}
	}
	return nil
}

// QueryBBox handles GET|POST /areas/bbox
func (h *AreaHandler) QueryBBox(w http.ResponseWriter, r *http.Request) {
	box, _, err := bboxFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.store.QueryBBox(r.Context(), box)
	if err != nil {
		h.logr.Error("failed to query areas by bbox", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to retrieve areas")
		return
	}

	writeJSON(w, http.StatusOK, features.Assemble(records))
}
