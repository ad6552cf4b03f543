package app

import (
	"fmt"

	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
	"github.com/claireundgeorge/accessible-site/internal/realtime"
	"github.com/claireundgeorge/accessible-site/internal/realtime/bus"
	"github.com/claireundgeorge/accessible-site/internal/services"
)

type Realtime struct {
	Hub     *realtime.SSEHub
	Bus     bus.Bus
	Emitter services.SSEEmitter
}

// wireRealtime delivers persona events to the local hub, or through the
// redis bus when SSE_BUS=redis so every instance's streams see them.
func wireRealtime(log *logger.Logger, cfg Config, clients Clients) (Realtime, error) {
	hub := realtime.NewSSEHub(log)
	if cfg.SSEBus != "redis" {
		return Realtime{Hub: hub, Emitter: &services.HubEmitter{Hub: hub}}, nil
	}
	b, err := bus.NewRedisBus(log, clients.Redis, cfg.SSEBusChannel)
	if err != nil {
		return Realtime{}, fmt.Errorf("init redis SSE bus: %w", err)
	}
	return Realtime{
		Hub:     hub,
		Bus:     b,
		Emitter: &services.RedisEmitter{Bus: b, Log: log.With("component", "RedisEmitter")},
	}, nil
}
