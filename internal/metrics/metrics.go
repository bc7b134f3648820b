package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/types"
)

// Metrics holds all application metrics
type Metrics struct {
	mu sync.RWMutex

	// Bus metrics
	EventsPublishedTotal int64
	HandlerFailuresTotal int64

	// Routing metrics
	AssignmentsTotal      int64
	QueuedTotal           int64
	CompletionsTotal      int64
	AssignmentRacesTotal  int64
	DrainCyclesTotal      int64
	DroppedEventsTotal    int64 // unknown call/agent references
	ValidationErrorsTotal int64 // rejected at ingestion

	// WebSocket metrics
	WebSocketConnectionsTotal    int64
	WebSocketDisconnectionsTotal int64
	activeConnections            int64

	// Broadcast metrics
	BroadcastCyclesTotal  int64
	lastBroadcastDuration time.Duration

	// Current state gauges, refreshed each broadcast cycle
	stats types.DashboardStats

	startTime time.Time
}

var instance *Metrics
var once sync.Once

// Get returns the singleton metrics instance
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{startTime: time.Now()}
	})
	return instance
}

// RecordEventPublished increments the published event counter
func (m *Metrics) RecordEventPublished() {
	m.mu.Lock()
	m.EventsPublishedTotal++
	m.mu.Unlock()
}

// RecordHandlerFailure increments the handler failure counter
func (m *Metrics) RecordHandlerFailure() {
	m.mu.Lock()
	m.HandlerFailuresTotal++
	m.mu.Unlock()
}

// RecordAssignment increments the assignment counter
func (m *Metrics) RecordAssignment() {
	m.mu.Lock()
	m.AssignmentsTotal++
	m.mu.Unlock()
}

// RecordQueued increments the queued call counter
func (m *Metrics) RecordQueued() {
	m.mu.Lock()
	m.QueuedTotal++
	m.mu.Unlock()
}

// RecordCompletion increments the completed call counter
func (m *Metrics) RecordCompletion() {
	m.mu.Lock()
	m.CompletionsTotal++
	m.mu.Unlock()
}

// RecordAssignmentRace counts a busy-claim retry during assignment
func (m *Metrics) RecordAssignmentRace() {
	m.mu.Lock()
	m.AssignmentRacesTotal++
	m.mu.Unlock()
}

// RecordDrainCycle increments the queue drain counter
func (m *Metrics) RecordDrainCycle() {
	m.mu.Lock()
	m.DrainCyclesTotal++
	m.mu.Unlock()
}

// RecordDroppedEvent counts an event dropped for an unknown reference
func (m *Metrics) RecordDroppedEvent() {
	m.mu.Lock()
	m.DroppedEventsTotal++
	m.mu.Unlock()
}

// RecordValidationError counts a payload rejected at ingestion
func (m *Metrics) RecordValidationError() {
	m.mu.Lock()
	m.ValidationErrorsTotal++
	m.mu.Unlock()
}

// RecordWebSocketConnect increments connection counters
func (m *Metrics) RecordWebSocketConnect() {
	m.mu.Lock()
	m.WebSocketConnectionsTotal++
	m.activeConnections++
	m.mu.Unlock()
}

// RecordWebSocketDisconnect increments disconnection counters
func (m *Metrics) RecordWebSocketDisconnect() {
	m.mu.Lock()
	m.WebSocketDisconnectionsTotal++
	m.activeConnections--
	m.mu.Unlock()
}

// RecordBroadcastCycle records a dashboard broadcast cycle
func (m *Metrics) RecordBroadcastCycle(duration time.Duration) {
	m.mu.Lock()
	m.BroadcastCyclesTotal++
	m.lastBroadcastDuration = duration
	m.mu.Unlock()
}

// UpdateStats refreshes the current state gauges
func (m *Metrics) UpdateStats(stats types.DashboardStats) {
	m.mu.Lock()
	m.stats = stats
	m.mu.Unlock()
}

// GetActiveConnections returns current WebSocket connections
func (m *Metrics) GetActiveConnections() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeConnections
}

// Handler returns an HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.RLock()
		defer m.mu.RUnlock()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		write := func(name string, value interface{}) {
			switch v := value.(type) {
			case int:
				w.Write([]byte(name + " " + strconv.Itoa(v) + "\n"))
			case int64:
				w.Write([]byte(name + " " + strconv.FormatInt(v, 10) + "\n"))
			case float64:
				w.Write([]byte(name + " " + strconv.FormatFloat(v, 'f', 6, 64) + "\n"))
			}
		}

		write("satim_uptime_seconds", time.Since(m.startTime).Seconds())

		write("satim_events_published_total", m.EventsPublishedTotal)
		write("satim_handler_failures_total", m.HandlerFailuresTotal)

		write("satim_assignments_total", m.AssignmentsTotal)
		write("satim_calls_queued_total", m.QueuedTotal)
		write("satim_calls_completed_total", m.CompletionsTotal)
		write("satim_assignment_races_total", m.AssignmentRacesTotal)
		write("satim_drain_cycles_total", m.DrainCyclesTotal)
		write("satim_dropped_events_total", m.DroppedEventsTotal)
		write("satim_validation_errors_total", m.ValidationErrorsTotal)

		write("satim_websocket_connections_total", m.WebSocketConnectionsTotal)
		write("satim_websocket_disconnections_total", m.WebSocketDisconnectionsTotal)
		write("satim_websocket_active_connections", m.activeConnections)
		write("satim_broadcast_cycles_total", m.BroadcastCyclesTotal)
		write("satim_broadcast_duration_seconds", m.lastBroadcastDuration.Seconds())

		write("satim_active_calls", m.stats.ActiveCalls)
		write("satim_available_agents", m.stats.AvailableAgents)
		write("satim_busy_agents", m.stats.BusyAgents)
		write("satim_queue_length", m.stats.QueueLength)
		write("satim_agents_total", m.stats.TotalAgents)
	}
}
