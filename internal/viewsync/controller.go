package viewsync

import (
	"context"
	"errors"
	"sync"

	"installations-bknd/internal/events"
	"installations-bknd/internal/features"
	"installations-bknd/internal/geometry"
	"installations-bknd/internal/mapview"
	"installations-bknd/internal/metrics"

	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

var (
	// ErrStaleResponse marks a fetch result that was superseded by a newer
	// trigger. It is only logged and counted.
	ErrStaleResponse = errors.New("stale response discarded")

	ErrNotStarted = errors.New("view controller not started")
	ErrStarted    = errors.New("view controller already started")
	ErrClosed     = errors.New("view controller closed")
)

type State int

const (
	Idle State = iota
	Fetching
	Ready
	Failed
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Query is what a fetch asks the backend for.
type Query struct {
	BBox   geometry.BBox
	Region string
}

// Fetcher loads the features for a query.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (*geojson.FeatureCollection, error)
}

type FetcherFunc func(ctx context.Context, q Query) (*geojson.FeatureCollection, error)

func (f FetcherFunc) Fetch(ctx context.Context, q Query) (*geojson.FeatureCollection, error) {
	return f(ctx, q)
}

// Status is a snapshot of the controller.
type Status struct {
	State    State
	Seq      uint64
	Region   string
	Features int
	Stale    int
	Err      error
}

type triggerKind int

const (
	triggerViewport triggerKind = iota
	triggerRegion
	triggerReload
)

func (k triggerKind) String() string {
	switch k {
	case triggerViewport:
		return "viewport"
	case triggerRegion:
		return "region"
	}
	return "reload"
}

type trigger struct {
	kind   triggerKind
	region string
}

type result struct {
	seq uint64
	fc  *geojson.FeatureCollection
	err error
}

// Controller keeps a map surface in sync with the backend for the current
// viewport and region. One goroutine owns all view state; every trigger
// starts a new fetch and only the newest fetch may update the surface.
type Controller struct {
	surface mapview.Surface
	fetcher Fetcher
	metrics *metrics.Collector
	logr    *zap.Logger

	triggers  chan trigger
	statusReq chan chan Status
	closeReq  chan struct{}
	done      chan struct{}

	mu      sync.Mutex
	started bool
	closed  bool
	final   Status
}

type Option func(*Controller)

func WithMetrics(m *metrics.Collector) Option {
	return func(c *Controller) { c.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logr = l }
}

func New(surface mapview.Surface, fetcher Fetcher, opts ...Option) *Controller {
	c := &Controller{
		surface:   surface,
		fetcher:   fetcher,
		logr:      zap.NewNop(),
		triggers:  make(chan trigger, 32),
		statusReq: make(chan chan Status),
		closeReq:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start attaches to the surface and issues the first fetch. Cancelling ctx
// tears the view down like Close.
func (c *Controller) Start(ctx context.Context, region string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.closed:
		return ErrClosed
	case c.started:
		return ErrStarted
	}
	c.started = true

	detach := c.surface.OnViewportChanged(func(geometry.Bounds) {
		c.send(trigger{kind: triggerViewport})
	})
	go c.run(ctx, region, detach)
	return nil
}

// Reload refetches with the current viewport and region.
func (c *Controller) Reload() error {
	return c.trigger(trigger{kind: triggerReload})
}

// SetRegion changes the region filter. The last fetched collection is
// re-filtered immediately, then a fresh fetch is issued.
func (c *Controller) SetRegion(region string) error {
	return c.trigger(trigger{kind: triggerRegion, region: region})
}

// Follow turns matching events into reloads until ch closes or the
// controller stops. With no types every event matches.
func (c *Controller) Follow(ch <-chan events.Event, types ...events.Type) {
	go func() {
		for {
			select {
			case <-c.done:
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				if matches(ev.Type, types) {
					c.logr.Debug("reload event", zap.String("type", string(ev.Type)), zap.String("id", ev.ID))
					_ = c.Reload()
				}
			}
		}
	}()
}

func matches(t events.Type, types []events.Type) bool {
	if len(types) == 0 {
		return true
	}
	for _, want := range types {
		if t == want {
			return true
		}
	}
	return false
}

// Status returns a snapshot of the controller state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	started, closed := c.started, c.closed
	c.mu.Unlock()
	if !started && !closed {
		return Status{State: Idle}
	}

	reply := make(chan Status, 1)
	select {
	case c.statusReq <- reply:
		return <-reply
	case <-c.done:
		return c.final
	}
}

// Close cancels the in-flight fetch, detaches from the surface and clears
// the rendered overlay. It waits for the controller to stop.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		<-c.done
		return
	}
	c.closed = true
	started := c.started
	c.mu.Unlock()

	if !started {
		c.final = Status{State: Closed}
		close(c.done)
		return
	}
	close(c.closeReq)
	<-c.done
}

func (c *Controller) trigger(t trigger) error {
	c.mu.Lock()
	started, closed := c.started, c.closed
	c.mu.Unlock()
	switch {
	case closed:
		return ErrClosed
	case !started:
		return ErrNotStarted
	}
	c.send(t)
	return nil
}

func (c *Controller) send(t trigger) {
	select {
	case c.triggers <- t:
	case <-c.done:
	}
}

func (c *Controller) run(ctx context.Context, region string, detach func()) {
	var (
		state   = Idle
		seq     uint64
		stale   int
		lastErr error
		raw     *geojson.FeatureCollection
		shown   int
		cancel  = context.CancelFunc(func() {})
		results = make(chan result)
	)

	status := func() Status {
		return Status{State: state, Seq: seq, Region: region, Features: shown, Stale: stale, Err: lastErr}
	}

	render := func() {
		fc := features.Collection(features.FilterByRegion(raw.Features, region))
		shown = len(fc.Features)
		c.surface.SetFeatures(fc)
	}

	fetch := func(reason string) {
		cancel()
		seq++
		var fctx context.Context
		fctx, cancel = context.WithCancel(ctx)

		q := Query{BBox: geometry.FromViewport(c.surface.ViewportBounds()), Region: region}
		state = Fetching
		c.logr.Debug("fetching view", zap.Uint64("seq", seq), zap.String("trigger", reason), zap.String("region", region))

		go func(seq uint64) {
			fc, err := c.fetcher.Fetch(fctx, q)
			select {
			case results <- result{seq: seq, fc: fc, err: err}:
			case <-c.done:
			}
		}(seq)
	}

	defer func() {
		cancel()
		detach()
		c.surface.SetFeatures(geojson.NewFeatureCollection())
		state, shown = Closed, 0
		c.final = status()
		close(c.done)
	}()

	fetch("start")
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closeReq:
			return

		case t := <-c.triggers:
			if t.kind == triggerRegion {
				region = t.region
				if raw != nil {
					render()
				}
			}
			fetch(t.kind.String())

		case res := <-results:
			switch {
			case res.seq != seq:
				stale++
				c.metrics.ObserveViewFetch("stale")
				c.logr.Debug("discarding fetch result", zap.Error(ErrStaleResponse),
					zap.Uint64("seq", res.seq), zap.Uint64("current", seq))
			case res.err != nil:
				state, lastErr = Failed, res.err
				c.metrics.ObserveViewFetch("failed")
				c.logr.Error("view fetch failed, keeping current features", zap.Error(res.err), zap.Uint64("seq", res.seq))
			default:
				raw = res.fc
				if raw == nil {
					raw = geojson.NewFeatureCollection()
				}
				render()
				state, lastErr = Ready, nil
				c.metrics.ObserveViewFetch("applied")
			}

		case reply := <-c.statusReq:
			reply <- status()
		}
	}
}
