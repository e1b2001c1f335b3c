package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"installations-bknd/internal/client"
	"installations-bknd/internal/events"
	"installations-bknd/internal/features"
	"installations-bknd/internal/geometry"
	"installations-bknd/internal/mapview"
	"installations-bknd/internal/models"
	"installations-bknd/internal/viewsync"

	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

const statusInterval = 10 * time.Second

func (a *app) readInput(path string) (string, error) {
	var r io.Reader = a.stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

func (a *app) writeJSON(v interface{}) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) parse(args []string) error {
	fs := a.flags("parse")
	file := fs.String("file", "-", "coordinate list, one \"lon lat\" pair per line (- for stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	text, err := a.readInput(*file)
	if err != nil {
		return err
	}
	res := geometry.ParseReport(text)
	for _, s := range res.Skipped {
		a.logr.Debug("line skipped", zap.Int("line", s.Line), zap.String("reason", s.Reason))
	}
	return a.writeJSON(res)
}

type previewOutput struct {
	Feature  *geojson.Feature `json:"feature"`
	WKT      string           `json:"wkt"`
	AreaM2   float64          `json:"area_m2"`
	Bounds   geometry.Bounds  `json:"bounds"`
	Vertices int              `json:"vertices"`
	Skipped  int              `json:"skipped"`
}

func (a *app) preview(args []string) error {
	fs := a.flags("preview")
	file := fs.String("file", "-", "coordinate list (- for stdin)")
	code := fs.String("code", "", "installation code shown on the feature")
	if err := fs.Parse(args); err != nil {
		return err
	}

	text, err := a.readInput(*file)
	if err != nil {
		return err
	}
	res := geometry.ParseReport(text)
	if errs := geometry.ValidateCoordinates(res.Coordinates); len(errs) > 0 {
		return errs[0]
	}

	surface := mapview.NewLogSurface(geometry.Bounds{}, a.logr)
	ring := geometry.Close(res.Coordinates)
	f := mapview.Preview(surface, geometry.NewPolygon(ring), map[string]interface{}{"code": *code})

	return a.writeJSON(previewOutput{
		Feature:  f,
		WKT:      geometry.ToWKT(ring),
		AreaM2:   geometry.Area(ring),
		Bounds:   surface.ViewportBounds(),
		Vertices: ring.Vertices(),
		Skipped:  len(res.Skipped),
	})
}

func (a *app) submit(ctx context.Context, args []string) error {
	fs := a.flags("submit")
	file := fs.String("file", "-", "coordinate list (- for stdin)")
	code := fs.String("code", "", "installation code")
	powerMax := fs.String("power-max", "", "maximum power, e.g. 12,5")
	powerAvg := fs.String("power-avg", "", "average power")
	region := fs.String("region", "", "region name from the catalogue")
	if err := fs.Parse(args); err != nil {
		return err
	}

	text, err := a.readInput(*file)
	if err != nil {
		return err
	}
	valid, err := geometry.Validate(*code, *powerMax, *powerAvg, geometry.Parse(text))
	if err != nil {
		return err
	}

	in := client.Installation{
		Code:     valid.Code,
		PowerMax: valid.PowerMax,
		PowerAvg: valid.PowerAvg,
		Ring:     valid.Ring,
	}
	if strings.TrimSpace(*region) != "" {
		canonical, ok := models.CanonicalRegion(*region)
		if !ok {
			return fmt.Errorf("unknown region %q", *region)
		}
		in.Region = &canonical
	}

	c := client.New(a.cfg.APIBaseURL, a.cfg.APITimeout, client.WithLogger(a.logr))
	id, err := c.SubmitInstallation(ctx, in)
	if err != nil {
		var se *client.SubmitError
		if errors.As(err, &se) {
			return errors.New(se.Message())
		}
		return err
	}
	return a.writeJSON(models.SubmitResponse{Success: true, ID: id})
}

func (a *app) watch(ctx context.Context, args []string) error {
	fs := a.flags("watch")
	bbox := fs.String("bbox", "", "initial view as west,south,east,north")
	region := fs.String("region", features.AllRegions, "region filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	initial, err := parseBounds(*bbox)
	if err != nil {
		return err
	}
	wsURL, err := eventsURL(a.cfg.APIBaseURL)
	if err != nil {
		return err
	}

	c := client.New(a.cfg.APIBaseURL, a.cfg.APITimeout, client.WithLogger(a.logr))
	surface := mapview.NewLogSurface(initial, a.logr)
	ctrl := viewsync.New(surface, viewsync.FetcherFunc(func(ctx context.Context, q viewsync.Query) (*geojson.FeatureCollection, error) {
		return c.QueryBBox(ctx, q.BBox, q.Region)
	}), viewsync.WithLogger(a.logr))
	defer ctrl.Close()

	if err := ctrl.Start(ctx, *region); err != nil {
		return err
	}
	ctrl.Follow(events.Listen(ctx, wsURL, a.logr), events.InstallationsReload)

	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			ctrl.Close()
			return a.writeJSON(statusOutput(ctrl.Status()))
		case <-ticker.C:
			st := ctrl.Status()
			a.logr.Info("view status",
				zap.Stringer("state", st.State),
				zap.Int("features", st.Features),
				zap.Int("stale", st.Stale))
		}
	}
}

func statusOutput(st viewsync.Status) map[string]interface{} {
	out := map[string]interface{}{
		"state":    st.State.String(),
		"region":   st.Region,
		"features": st.Features,
		"stale":    st.Stale,
	}
	if st.Err != nil {
		out["error"] = st.Err.Error()
	}
	return out
}

// parseBounds reads "west,south,east,north".
func parseBounds(s string) (geometry.Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geometry.Bounds{}, fmt.Errorf("bbox must be west,south,east,north, got %q", s)
	}
	v := make([]float64, 4)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geometry.Bounds{}, fmt.Errorf("bbox value %q is not a number", p)
		}
		v[i] = f
	}
	b := geometry.Bounds{West: v[0], South: v[1], East: v[2], North: v[3]}
	if b.West > b.East || b.South > b.North {
		return geometry.Bounds{}, fmt.Errorf("bbox %q has min greater than max", s)
	}
	return b, nil
}

// eventsURL maps http(s)://host/api/v1 to ws(s)://host/api/v1/events.
func eventsURL(apiBase string) (string, error) {
	u, err := url.Parse(strings.TrimRight(apiBase, "/"))
	if err != nil {
		return "", fmt.Errorf("api base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("api base url %q must be http or https", apiBase)
	}
	u.Path += "/events"
	return u.String(), nil
}
