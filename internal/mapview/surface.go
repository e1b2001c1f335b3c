package mapview

import (
	"sync"

	"installations-bknd/internal/geometry"

	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

// Surface is the map rendering collaborator.
type Surface interface {
	SetFeatures(fc *geojson.FeatureCollection)
	ViewportBounds() geometry.Bounds
	// OnViewportChanged registers fn and returns a function that detaches it.
	OnViewportChanged(fn func(geometry.Bounds)) (detach func())
	FitToBounds(b geometry.Bounds)
}

// LogSurface is a headless Surface that keeps the current overlay in memory
// and logs every change. It backs the CLI and tests.
type LogSurface struct {
	mu        sync.Mutex
	logr      *zap.Logger
	bounds    geometry.Bounds
	features  *geojson.FeatureCollection
	listeners map[int]func(geometry.Bounds)
	nextID    int
	renders   int
}

func NewLogSurface(initial geometry.Bounds, logr *zap.Logger) *LogSurface {
	return &LogSurface{
		logr:      logr,
		bounds:    initial,
		features:  geojson.NewFeatureCollection(),
		listeners: make(map[int]func(geometry.Bounds)),
	}
}

func (s *LogSurface) SetFeatures(fc *geojson.FeatureCollection) {
	if fc == nil {
		fc = geojson.NewFeatureCollection()
	}
	s.mu.Lock()
	s.features = fc
	s.renders++
	s.mu.Unlock()
	s.logr.Info("map overlay replaced", zap.Int("features", len(fc.Features)))
}

func (s *LogSurface) ViewportBounds() geometry.Bounds {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}

func (s *LogSurface) OnViewportChanged(fn func(geometry.Bounds)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// FitToBounds moves the viewport without notifying listeners.
func (s *LogSurface) FitToBounds(b geometry.Bounds) {
	s.mu.Lock()
	s.bounds = b
	s.mu.Unlock()
	s.logr.Info("map fitted",
		zap.Float64("west", b.West), zap.Float64("south", b.South),
		zap.Float64("east", b.East), zap.Float64("north", b.North))
}

// Move pans the viewport as a user would and notifies listeners.
func (s *LogSurface) Move(b geometry.Bounds) {
	s.mu.Lock()
	s.bounds = b
	fns := make([]func(geometry.Bounds), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(b)
	}
}

// Features returns the currently rendered collection.
func (s *LogSurface) Features() *geojson.FeatureCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.features
}

// Renders counts SetFeatures calls.
func (s *LogSurface) Renders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}

// Listeners is the number of attached viewport listeners.
func (s *LogSurface) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}
