package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/bus"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/router"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/types"
	"github.com/rs/zerolog"
)

// Monitor periodically derives system metrics, evaluates alert rules
// and publishes a system_metrics event for any interested subscriber
type Monitor struct {
	bus            *bus.Bus
	router         *router.Router
	interval       time.Duration
	window         time.Duration
	queueThreshold int
	logger         zerolog.Logger
}

// New creates a monitor. queueThreshold is the waiting-call count
// above which a queue-depth alert fires.
func New(b *bus.Bus, r *router.Router, interval, window time.Duration, queueThreshold int, logger zerolog.Logger) *Monitor {
	return &Monitor{
		bus:            b,
		router:         r,
		interval:       interval,
		window:         window,
		queueThreshold: queueThreshold,
		logger:         logger.With().Str("component", "monitor").Logger(),
	}
}

// Start runs the monitoring loop until the context is cancelled
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Info().Dur("interval", m.interval).Msg("monitor started")

	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("monitor stopped")
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

// tick publishes one system_metrics event
func (m *Monitor) tick(ctx context.Context) {
	stats := m.router.Stats(m.window)
	alerts := CheckAlerts(stats, m.queueThreshold)

	if len(alerts) > 0 {
		m.logger.Warn().Strs("alerts", alerts).Msg("system alerts")
	}

	m.bus.Publish(ctx, types.NewEvent(types.SystemMetrics{
		Stats:  stats,
		Alerts: alerts,
	}))
}

// CheckAlerts evaluates the alert rules against current stats
func CheckAlerts(stats types.DashboardStats, queueThreshold int) []string {
	var alerts []string

	if stats.QueueLength > queueThreshold {
		alerts = append(alerts, fmt.Sprintf("high queue length: %d", stats.QueueLength))
	}
	if stats.AvailableAgents == 0 && stats.QueueLength > 0 {
		alerts = append(alerts, "no available agents with queued calls")
	}

	return alerts
}
