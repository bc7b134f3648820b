package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/bus"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/router"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// QueryHandler exposes the read-only query surface. Everything it
// serves is derived from Directory/Queue/Call state.
type QueryHandler struct {
	router *router.Router
	bus    *bus.Bus
	store  storage.Store
	window time.Duration
	logger zerolog.Logger
}

// NewQueryHandler creates a new QueryHandler. window is the default
// completed-calls window for the dashboard.
func NewQueryHandler(r *router.Router, b *bus.Bus, store storage.Store, window time.Duration, logger zerolog.Logger) *QueryHandler {
	return &QueryHandler{
		router: r,
		bus:    b,
		store:  store,
		window: window,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// HandleQueue handles GET /queue
func (h *QueryHandler) HandleQueue(w http.ResponseWriter, r *http.Request) {
	contents := h.router.QueueContents()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"length":  len(contents),
		"entries": contents,
	})
}

// HandleAgents handles GET /agents
func (h *QueryHandler) HandleAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.router.AgentLoads())
}

// HandleDashboard handles GET /dashboard. An optional windowSecs query
// parameter overrides the configured completed-calls window.
func (h *QueryHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	window := h.window
	if raw := r.URL.Query().Get("windowSecs"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs < 0 {
			http.Error(w, "invalid windowSecs parameter", http.StatusBadRequest)
			return
		}
		window = time.Duration(secs) * time.Second
	}
	writeJSON(w, http.StatusOK, h.router.Stats(window))
}

// HandleGetCall handles GET /calls/{callID}
func (h *QueryHandler) HandleGetCall(w http.ResponseWriter, r *http.Request) {
	callID := chi.URLParam(r, "callID")

	call, err := h.router.GetCall(callID)
	if err != nil {
		if errors.Is(err, router.ErrCallNotFound) {
			http.Error(w, "call not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, call)
}

// HandleEventHistory handles GET /events/history
func (h *QueryHandler) HandleEventHistory(w http.ResponseWriter, r *http.Request) {
	history := h.bus.History()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(history),
		"events": history,
	})
}

// HandleCallRecords handles GET /records/calls?date=YYYY-MM-DD
func (h *QueryHandler) HandleCallRecords(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	records, err := h.store.GetCallRecords(date)
	if err != nil {
		h.logger.Error().Err(err).Str("date", date).Msg("failed to fetch call records")
		http.Error(w, "failed to fetch call records", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":    date,
		"records": records,
	})
}

// HandleAgentHistory handles GET /records/agents/{agentID}. With a
// ?date=YYYY-MM-DD parameter it returns that day's individual call
// records instead of the daily totals.
func (h *QueryHandler) HandleAgentHistory(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentID")

	if date := r.URL.Query().Get("date"); date != "" {
		records, err := h.store.GetAgentCallsByDate(agentID, date)
		if err != nil {
			h.logger.Error().Err(err).Str("agent_id", agentID).Str("date", date).Msg("failed to fetch agent calls")
			http.Error(w, "failed to fetch agent calls", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"agentId": agentID,
			"date":    date,
			"calls":   records,
		})
		return
	}

	stats, err := h.store.GetAgentDailyStats(agentID)
	if err != nil {
		h.logger.Error().Err(err).Str("agent_id", agentID).Msg("failed to fetch agent stats")
		http.Error(w, "failed to fetch agent stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"agentId": agentID,
		"days":    stats,
	})
}
