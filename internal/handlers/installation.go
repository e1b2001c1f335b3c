package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"installations-bknd/internal/events"
	"installations-bknd/internal/features"
	"installations-bknd/internal/geometry"
	"installations-bknd/internal/metrics"
	"installations-bknd/internal/models"
	"installations-bknd/internal/services"
	"installations-bknd/internal/utils"

	"go.uber.org/zap"
)

// InstallationStore persists and queries installations.
type InstallationStore interface {
	Create(ctx context.Context, in models.NewInstallation) (int64, error)
	QueryBBox(ctx context.Context, box geometry.BBox, regions []string) ([]features.Record, error)
	QueryRegion(ctx context.Context, params models.InstallationQueryParams) ([]features.Record, error)
}

type InstallationHandler struct {
	store   InstallationStore
	events  events.Publisher
	metrics *metrics.Collector
	logr    *zap.Logger
}

func NewInstallationHandler(store InstallationStore, pub events.Publisher, m *metrics.Collector, logr *zap.Logger) *InstallationHandler {
	if pub == nil {
		pub = events.Discard{}
	}
	return &InstallationHandler{store: store, events: pub, metrics: m, logr: logr}
}

// Submit handles POST /installations
func (h *InstallationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitInstallationRequest
	if err := decodeBody(r, &req); err != nil {
		h.logr.Warn("invalid installation request", zap.Error(err))
		h.metrics.ObserveSubmission("installation", "rejected")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	coords, err := h.coordinates(req)
	if err != nil {
		h.metrics.ObserveSubmission("installation", "rejected")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	region, err := submittedRegion(req.Region)
	if err != nil {
		h.metrics.ObserveSubmission("installation", "rejected")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	valid, err := geometry.Validate(string(req.Code), req.MaxPower(), req.AvgPower(), coords)
	if err != nil {
		h.logr.Warn("installation failed validation", zap.Error(err), zap.String("code", string(req.Code)))
		h.metrics.ObserveSubmission("installation", "rejected")
		writeValidationError(w, err)
		return
	}

	id, err := h.store.Create(r.Context(), models.NewInstallation{
		Code:     valid.Code,
		PowerMax: valid.PowerMax,
		PowerAvg: valid.PowerAvg,
		Region:   region,
		AreaM2:   geometry.Area(valid.Ring),
		WKT:      valid.WKT(),
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidWKT) {
			h.metrics.ObserveSubmission("installation", "rejected")
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logr.Error("failed to store installation", zap.Error(err), zap.String("code", valid.Code))
		h.metrics.ObserveSubmission("installation", "failed")
		writeError(w, http.StatusInternalServerError, "failed to store installation")
		return
	}

	ev := events.Event{Type: events.InstallationsReload, ID: strconv.FormatInt(id, 10)}
	if region != nil {
		ev.Region = *region
	}
	h.events.Publish(ev)
	h.metrics.ObserveSubmission("installation", "stored")

	h.logr.Info("installation stored",
		zap.Int64("id", id),
		zap.String("code", valid.Code),
		zap.Int("vertices", valid.Ring.Vertices()))

	writeJSON(w, http.StatusCreated, models.SubmitResponse{Success: true, ID: id})
}

// coordinates resolves the submitted geometry form into a vertex list.
// wkt wins over coords, coords over text.
func (h *InstallationHandler) coordinates(req models.SubmitInstallationRequest) ([]geometry.Coordinate, error) {
	switch {
	case strings.TrimSpace(req.WKT) != "":
		ring, err := geometry.ReadWKT(req.WKT)
		if err != nil {
			return nil, err
		}
		return ring, nil

	case len(req.Coords) > 0:
		coords := make([]geometry.Coordinate, len(req.Coords))
		for i, c := range req.Coords {
			coords[i] = geometry.NewCoordinate(string(c[0]), string(c[1]))
		}
		return coords, nil
	}

	res := geometry.ParseReport(req.Text)
	for _, s := range res.Skipped {
		h.logr.Debug("skipped coordinate line", zap.Int("line", s.Line), zap.String("reason", s.Reason))
	}
	h.metrics.AddSkippedLines(len(res.Skipped))
	return res.Coordinates, nil
}

// submittedRegion maps an optional region onto its catalogue spelling.
func submittedRegion(raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	region, ok := models.CanonicalRegion(*raw)
	if !ok {
		return nil, errors.New("unknown region " + strconv.Quote(strings.TrimSpace(*raw)))
	}
	return &region, nil
}

// QueryRegion handles GET /installations?region=
func (h *InstallationHandler) QueryRegion(w http.ResponseWriter, r *http.Request) {
	regions := utils.ParseQueryList(r.URL.Query(), "region")

	records, err := h.store.QueryRegion(r.Context(), models.InstallationQueryParams{Regions: regions})
	if err != nil {
		h.logr.Error("failed to query installations", zap.Error(err), zap.Strings("regions", regions))
		writeError(w, http.StatusInternalServerError, "failed to retrieve installations")
		return
	}

	fc := features.Assemble(records)
	if len(regions) == 1 {
		fc = features.Collection(features.FilterByRegion(fc.Features, regions[0]))
	}
	writeJSON(w, http.StatusOK, fc)
}

// QueryBBox handles GET|POST /installations/bbox
func (h *InstallationHandler) QueryBBox(w http.ResponseWriter, r *http.Request) {
	box, region, err := bboxFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var regions []string
	if !features.IsAllRegions(region) {
		regions = []string{region}
	}

	records, err := h.store.QueryBBox(r.Context(), box, regions)
	if err != nil {
		h.logr.Error("failed to query installations by bbox", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to retrieve installations")
		return
	}

	fc := features.Assemble(records)
	fc = features.Collection(features.FilterByRegion(fc.Features, region))
	writeJSON(w, http.StatusOK, fc)
}
