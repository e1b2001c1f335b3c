package events

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"installations-bknd/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startHub(t *testing.T, m *metrics.Collector) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(zap.NewNop(), m, nil)
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h
}

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestHubLocalSubscribers(t *testing.T) {
	h := startHub(t, nil)

	a, cancelA := h.Subscribe(4)
	b, cancelB := h.Subscribe(4)
	defer cancelB()

	h.Publish(Event{Type: InstallationsReload, ID: "42"})
	evA := receive(t, a)
	evB := receive(t, b)
	assert.Equal(t, InstallationsReload, evA.Type)
	assert.Equal(t, "42", evB.ID)
	assert.False(t, evA.At.IsZero())

	cancelA()
	_, ok := <-a
	assert.False(t, ok)

	h.Publish(Event{Type: AreasReload})
	assert.Equal(t, AreasReload, receive(t, b).Type)
}

func TestHubStopClosesSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(zap.NewNop(), nil, nil)
	go h.Run(ctx)

	ch, _ := h.Subscribe(1)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber not closed")
	}

	late, unsubscribe := h.Subscribe(1)
	_, ok := <-late
	assert.False(t, ok)
	unsubscribe()
}

func TestWebsocketRoundTrip(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewCollector(reg)
	require.NoError(t, err)
	h := startHub(t, m)

	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := Listen(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), zap.NewNop())

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.EventClients) == 1
	}, 2*time.Second, 10*time.Millisecond)

	h.Publish(Event{Type: AreasReload, ID: "abc", Region: "Κρήτη"})
	ev := receive(t, events)
	assert.Equal(t, AreasReload, ev.Type)
	assert.Equal(t, "abc", ev.ID)
	assert.Equal(t, "Κρήτη", ev.Region)

	cancel()
	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("listener not closed")
	}
}

func TestDiscard(t *testing.T) {
	var p Publisher = Discard{}
	assert.NotPanics(t, func() { p.Publish(Event{Type: AreasReload}) })
}
