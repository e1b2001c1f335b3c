package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"installations-bknd/internal/features"
	"installations-bknd/internal/geometry"
	"installations-bknd/internal/metrics"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

// Client talks to the installations API.
type Client struct {
	baseURL    string
	http       *http.Client
	strategies []SubmitStrategy
	metrics    *metrics.Collector
	logr       *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithStrategies replaces the ordered submit strategies.
func WithStrategies(s ...SubmitStrategy) Option {
	return func(c *Client) { c.strategies = s }
}

func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logr = l }
}

// New creates a client for baseURL, e.g. http://localhost:8780/api/v1.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: timeout},
		strategies: DefaultStrategies(),
		logr:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitInstallation tries each strategy in order and returns the id from
// the first that succeeds. Cancellation stops the sequence immediately.
func (c *Client) SubmitInstallation(ctx context.Context, in Installation) (int64, error) {
	var attempts []Attempt
	for _, s := range c.strategies {
		var resp struct {
			Success bool        `json:"success"`
			ID      json.Number `json:"id"`
		}
		err := c.do(ctx, http.MethodPost, "/installations", s.Body(in), &resp)
		if err == nil {
			var id int64
			id, err = resp.ID.Int64()
			if err != nil {
				err = &TransportError{Op: "submit " + s.Name(), Message: "response has no numeric id", Err: err}
			} else {
				c.metrics.ObserveSubmitAttempt(s.Name(), "ok")
				c.logr.Info("installation submitted", zap.String("strategy", s.Name()), zap.Int64("id", id))
				return id, nil
			}
		}

		c.metrics.ObserveSubmitAttempt(s.Name(), "failed")
		attempts = append(attempts, Attempt{Strategy: s.Name(), Err: err})
		if ctx.Err() != nil {
			break
		}
		c.logr.Warn("submit strategy failed", zap.String("strategy", s.Name()), zap.Error(err))
	}

	err := &SubmitError{Attempts: attempts}
	c.logr.Error("installation submit failed", zap.Error(err))
	return 0, err
}

// SubmitArea stores a Point or Polygon feature and returns its identifier.
func (c *Client) SubmitArea(ctx context.Context, f *geojson.Feature, name *string) (string, error) {
	body := map[string]interface{}{
		"type":       "Feature",
		"geometry":   geojson.NewGeometry(f.Geometry),
		"properties": f.Properties,
		"name":       name,
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/areas", body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

type bboxBody struct {
	MinX   float64 `json:"minx"`
	MinY   float64 `json:"miny"`
	MaxX   float64 `json:"maxx"`
	MaxY   float64 `json:"maxy"`
	Region string  `json:"region,omitempty"`
}

// QueryBBox fetches installations within box, optionally for one region.
func (c *Client) QueryBBox(ctx context.Context, box geometry.BBox, region string) (*geojson.FeatureCollection, error) {
	body := bboxBody{MinX: box.MinX, MinY: box.MinY, MaxX: box.MaxX, MaxY: box.MaxY}
	if !features.IsAllRegions(region) {
		body.Region = region
	}
	return c.collection(ctx, http.MethodPost, "/installations/bbox", body)
}

// QueryAreasBBox fetches areas within box.
func (c *Client) QueryAreasBBox(ctx context.Context, box geometry.BBox) (*geojson.FeatureCollection, error) {
	body := bboxBody{MinX: box.MinX, MinY: box.MinY, MaxX: box.MaxX, MaxY: box.MaxY}
	return c.collection(ctx, http.MethodPost, "/areas/bbox", body)
}

// QueryRegion fetches every installation of a region, or all of them for
// the "all" selector.
func (c *Client) QueryRegion(ctx context.Context, region string) (*geojson.FeatureCollection, error) {
	path := "/installations"
	if !features.IsAllRegions(region) {
		path += "?region=" + url.QueryEscape(strings.TrimSpace(region))
	}
	return c.collection(ctx, http.MethodGet, path, nil)
}

func (c *Client) collection(ctx context.Context, method, path string, body interface{}) (*geojson.FeatureCollection, error) {
	var raw json.RawMessage
	if err := c.do(ctx, method, path, body, &raw); err != nil {
		return nil, err
	}
	fc, dropped, err := features.DecodeCollection(raw)
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Message: "malformed response", Err: err}
	}
	if dropped > 0 {
		c.logr.Debug("dropped malformed features", zap.String("path", path), zap.Int("dropped", dropped))
	}
	return fc, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Op: op, Status: resp.StatusCode, Message: errorMessage(data, resp.Status)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}

// errorMessage extracts {"error": "..."} or {"message": "..."} from a body.
func errorMessage(data []byte, fallback string) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	if s := strings.TrimSpace(string(data)); s != "" && len(s) < 200 {
		return s
	}
	return fallback
}
