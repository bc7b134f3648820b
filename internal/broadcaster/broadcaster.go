package broadcaster

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/metrics"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/router"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/websocket"
	"github.com/rs/zerolog"
)

// Broadcaster periodically pushes dashboard snapshots to the hub
type Broadcaster struct {
	router   *router.Router
	hub      *websocket.Hub
	interval time.Duration
	window   time.Duration
	logger   zerolog.Logger
}

// New creates a broadcaster. window bounds the completed-calls counter
// in the snapshot.
func New(r *router.Router, hub *websocket.Hub, interval, window time.Duration, logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		router:   r,
		hub:      hub,
		interval: interval,
		window:   window,
		logger:   logger.With().Str("component", "broadcaster").Logger(),
	}
}

// Start broadcasts snapshots until the context is cancelled
func (b *Broadcaster) Start(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	m := metrics.Get()
	b.logger.Info().Dur("interval", b.interval).Msg("broadcaster started")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("broadcaster stopped")
			return

		case <-ticker.C:
			cycleStart := time.Now()

			snapshot := b.router.Snapshot(b.window)
			m.UpdateStats(snapshot.Stats)

			if b.hub.ClientCount() == 0 {
				continue
			}

			data, err := json.Marshal(snapshot)
			if err != nil {
				b.logger.Error().Err(err).Msg("failed to marshal snapshot")
				continue
			}

			b.hub.Broadcast(data)
			m.RecordBroadcastCycle(time.Since(cycleStart))

			b.logger.Debug().
				Int("active_calls", snapshot.Stats.ActiveCalls).
				Int("queue_length", snapshot.Stats.QueueLength).
				Int("clients", b.hub.ClientCount()).
				Msg("snapshot broadcasted")
		}
	}
}
