package api

import (
	"encoding/json"
	"net/http"

	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/router"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/storage"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/types"
	"github.com/rs/zerolog"
)

// AdminHandler serves internal endpoints: bulk agent registration and
// state resets
type AdminHandler struct {
	router *router.Router
	store  storage.Store
	logger zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(r *router.Router, store storage.Store, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		router: r,
		store:  store,
		logger: logger.With().Str("component", "admin").Logger(),
	}
}

// rosterEntry represents a single agent in the roster payload
type rosterEntry struct {
	AgentID string            `json:"agentId"`
	Name    string            `json:"name,omitempty"`
	Status  types.AgentStatus `json:"status,omitempty"`
	Skills  []string          `json:"skills,omitempty"`
}

// HandleRoster handles POST /internal/agents/roster. Registration goes
// through the router so a newly available agent immediately picks up
// waiting calls.
func (h *AdminHandler) HandleRoster(w http.ResponseWriter, r *http.Request) {
	var roster []rosterEntry
	if err := json.NewDecoder(r.Body).Decode(&roster); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	registered := 0
	for _, entry := range roster {
		if entry.AgentID == "" {
			continue
		}
		if entry.Status != "" && !types.ValidAgentStatus(entry.Status) {
			continue
		}
		h.router.RegisterAgent(r.Context(), types.Agent{
			ID:     entry.AgentID,
			Name:   entry.Name,
			Status: entry.Status,
			Skills: entry.Skills,
		})
		registered++
	}

	h.logger.Info().Int("registered", registered).Msg("roster received")
	writeJSON(w, http.StatusOK, map[string]int{"registered": registered})
}

// HandleWipe handles DELETE /internal/calls, clearing in-memory state
// and the persisted records
func (h *AdminHandler) HandleWipe(w http.ResponseWriter, r *http.Request) {
	calls, entries := h.router.Reset()

	if err := h.store.TruncateAll(); err != nil {
		h.logger.Error().Err(err).Msg("failed to truncate persisted records")
		http.Error(w, "failed to clear persisted records", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "all calls wiped",
		"clearedCalls":   calls,
		"clearedEntries": entries,
	})
}
