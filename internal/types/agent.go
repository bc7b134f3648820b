package types

import "time"

// AgentStatus represents an agent's availability
type AgentStatus string

const (
	StatusAvailable AgentStatus = "available"
	StatusBusy      AgentStatus = "busy"
	StatusOffline   AgentStatus = "offline"
)

// ValidAgentStatus reports whether s is part of the status vocabulary
func ValidAgentStatus(s AgentStatus) bool {
	switch s {
	case StatusAvailable, StatusBusy, StatusOffline:
		return true
	}
	return false
}

// Agent represents a call-center worker. Agents are never deleted
// during normal operation; retirement is the offline status.
type Agent struct {
	ID          string      `json:"agentId"`
	Name        string      `json:"name,omitempty"`
	Status      AgentStatus `json:"status"`
	Skills      []string    `json:"skills,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	StatusSince time.Time   `json:"statusSince"`
}

// AgentLoad is the per-agent view exposed by the query surface
type AgentLoad struct {
	AgentID     string      `json:"agentId"`
	Status      AgentStatus `json:"status"`
	ActiveCalls int         `json:"activeCalls"`
}
