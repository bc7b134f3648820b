package types

import "time"

// QueueEntry is a caller waiting for an agent. An entry with a
// non-empty AssignedAgent has left the waiting set and remains only
// as an audit record.
type QueueEntry struct {
	EntryID       string    `json:"entryId"`
	CallerID      string    `json:"callerId"`
	Priority      int       `json:"priority"`
	CreatedAt     time.Time `json:"createdAt"`
	Seq           uint64    `json:"-"`
	AssignedAgent string    `json:"assignedAgent,omitempty"`
}

// Waiting reports whether the entry is still in the waiting set
func (e *QueueEntry) Waiting() bool {
	return e.AssignedAgent == ""
}

// QueueEntryView is a waiting entry as exposed by the query surface
type QueueEntryView struct {
	EntryID  string  `json:"entryId"`
	CallerID string  `json:"callerId"`
	Priority int     `json:"priority"`
	Position int     `json:"position"`
	WaitSecs float64 `json:"waitSecs"`
}

// DashboardStats holds the aggregate counters shown on the dashboard.
// All values are derived from Directory/Queue/Call state, never
// separately stored.
type DashboardStats struct {
	ActiveCalls       int `json:"activeCalls"`
	AvailableAgents   int `json:"availableAgents"`
	BusyAgents        int `json:"busyAgents"`
	OfflineAgents     int `json:"offlineAgents"`
	TotalAgents       int `json:"totalAgents"`
	QueueLength       int `json:"queueLength"`
	CompletedInWindow int `json:"completedInWindow"`
	WindowSecs        int `json:"windowSecs"`
}

// Snapshot is the single payload broadcast to dashboard clients every tick
type Snapshot struct {
	Type      string           `json:"type"` // always "snapshot"
	Timestamp time.Time        `json:"timestamp"`
	Stats     DashboardStats   `json:"stats"`
	Agents    []AgentLoad      `json:"agents"`
	Queue     []QueueEntryView `json:"queue"`
}
