package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const maxBackoff = 30 * time.Second

// Listen connects to a hub's websocket endpoint and delivers events on the
// returned channel. Dropped connections are redialed with exponential
// backoff. The channel is closed once ctx is done.
func Listen(ctx context.Context, wsURL string, logr *zap.Logger) <-chan Event {
	out := make(chan Event, sendBuffer)

	go func() {
		defer close(out)
		backoff := time.Second
		for {
			conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
			if err == nil {
				backoff = time.Second
				logr.Debug("event stream connected", zap.String("url", wsURL))
				readEvents(ctx, conn, out, logr)
			} else if ctx.Err() == nil {
				logr.Warn("event stream dial failed", zap.String("url", wsURL), zap.Error(err))
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}
	}()

	return out
}

func readEvents(ctx context.Context, conn *websocket.Conn, out chan<- Event, logr *zap.Logger) {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				logr.Warn("event stream read failed", zap.Error(err))
			}
			return
		}
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil || ev.Type == "" {
			logr.Debug("ignoring non-event message", zap.ByteString("raw", msg))
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}
