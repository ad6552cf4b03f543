package services

import (
	"context"
	"time"

	"github.com/claireundgeorge/accessible-site/internal/modules/persona"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
	"github.com/claireundgeorge/accessible-site/internal/realtime"
	"github.com/claireundgeorge/accessible-site/internal/realtime/bus"
)

type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

type HubEmitter struct{ Hub *realtime.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.Hub.Broadcast(msg)
}

// RedisEmitter publishes through the bus; each instance's forwarder
// delivers to its local hub.
type RedisEmitter struct {
	Bus bus.Bus
	Log *logger.Logger
}

func (e *RedisEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	if err := e.Bus.Publish(ctx, msg); err != nil && e.Log != nil {
		e.Log.Warn("Failed to publish SSE message", "channel", msg.Channel, "event", string(msg.Event), "error", err)
	}
}

// PersonaNotifier turns persona store events into SSE messages on the
// visitor's channel.
type PersonaNotifier struct {
	Emitter SSEEmitter
}

func (n PersonaNotifier) PersonaEvent(ev persona.Event) {
	if n.Emitter == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	n.Emitter.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.VisitorChannel(ev.VisitorID),
		Event:   realtime.SSEEvent(ev.Type),
		Data:    ev.Snapshot,
	})
}
