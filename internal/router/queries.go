package router

import (
	"time"

	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/types"
)

// GetCall returns a copy of a call by ID
func (r *Router) GetCall(callID string) (types.Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	call, ok := r.calls[callID]
	if !ok {
		return types.Call{}, ErrCallNotFound
	}
	return *call, nil
}

// QueueContents returns the waiting queue in serve order with
// positions and wait times
func (r *Router) QueueContents() []types.QueueEntryView {
	waiting := r.queue.Waiting()
	now := time.Now()

	out := make([]types.QueueEntryView, 0, len(waiting))
	for i, entry := range waiting {
		out = append(out, types.QueueEntryView{
			EntryID:  entry.EntryID,
			CallerID: entry.CallerID,
			Priority: entry.Priority,
			Position: i + 1,
			WaitSecs: now.Sub(entry.CreatedAt).Seconds(),
		})
	}
	return out
}

// AgentLoads returns every agent with its current active call count
func (r *Router) AgentLoads() []types.AgentLoad {
	agents := r.dir.All()

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]types.AgentLoad, 0, len(agents))
	for _, agent := range agents {
		out = append(out, types.AgentLoad{
			AgentID:     agent.ID,
			Status:      agent.Status,
			ActiveCalls: r.activeCallsLocked(agent.ID),
		})
	}
	return out
}

// Stats derives the aggregate dashboard counters. window bounds the
// completed-calls count; a zero window counts all completions.
func (r *Router) Stats(window time.Duration) types.DashboardStats {
	available, busy, offline := r.dir.CountByStatus()

	r.mu.Lock()
	active := 0
	completed := 0
	cutoff := time.Now().Add(-window)
	for _, call := range r.calls {
		switch call.Status {
		case types.CallStatusActive:
			active++
		case types.CallStatusCompleted:
			if window <= 0 || (call.EndTime != nil && call.EndTime.After(cutoff)) {
				completed++
			}
		}
	}
	r.mu.Unlock()

	return types.DashboardStats{
		ActiveCalls:       active,
		AvailableAgents:   available,
		BusyAgents:        busy,
		OfflineAgents:     offline,
		TotalAgents:       available + busy + offline,
		QueueLength:       r.queue.Len(),
		CompletedInWindow: completed,
		WindowSecs:        int(window.Seconds()),
	}
}

// Snapshot builds the full dashboard payload
func (r *Router) Snapshot(window time.Duration) types.Snapshot {
	return types.Snapshot{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Stats:     r.Stats(window),
		Agents:    r.AgentLoads(),
		Queue:     r.QueueContents(),
	}
}

// Reset wipes all calls and queue entries, returning the counts
// cleared. Agents keep their registration but busy agents are freed.
func (r *Router) Reset() (calls, entries int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, call := range r.calls {
		if call.Status == types.CallStatusActive {
			if err := r.dir.Release(call.AgentID); err != nil {
				r.logger.Error().Err(err).Str("agent_id", call.AgentID).Msg("failed to release agent during reset")
			}
		}
	}
	calls = len(r.calls)
	r.calls = make(map[string]*types.Call)
	r.daily = make(map[string]*types.AgentDailyStats)
	entries = r.queue.Wipe()

	r.logger.Info().Int("calls", calls).Int("entries", entries).Msg("router state wiped")
	return calls, entries
}
