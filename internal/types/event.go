package types

import "time"

// EventType identifies an event on the bus
type EventType string

const (
	// Inbound lifecycle events
	EventCallIncoming       EventType = "call_incoming"
	EventAgentStatusChanged EventType = "agent_status_changed"
	EventCallEnded          EventType = "call_ended"

	// Derived events published by the router
	EventCallAssigned EventType = "call_assigned"
	EventCallQueued   EventType = "call_queued"

	// Boundary events exchanged with external collaborators
	EventQuestionAsked       EventType = "question_asked"
	EventTranscriptCompleted EventType = "transcript_completed"
	EventDataExtracted       EventType = "data_extracted"

	// Monitoring
	EventSystemMetrics EventType = "system_metrics"
)

// Payload is implemented by every event payload struct. Each payload
// carries its own event type so that a payload can never be published
// under the wrong tag.
type Payload interface {
	EventType() EventType
}

// Event is an immutable record distributed by the bus. Subscribers
// receive the same Data value and must not mutate it.
type Event struct {
	Type          EventType `json:"type"`
	Data          Payload   `json:"data"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlationId,omitempty"`
}

// NewEvent creates an event for the given payload, stamped now
func NewEvent(data Payload) Event {
	return Event{
		Type:      data.EventType(),
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewCorrelatedEvent creates an event carrying a correlation ID that
// groups all events belonging to one call
func NewCorrelatedEvent(data Payload, correlationID string) Event {
	evt := NewEvent(data)
	evt.CorrelationID = correlationID
	return evt
}

// CallIncoming is published when a new call reaches the system
type CallIncoming struct {
	CallerID string `json:"callerId"`
	Priority int    `json:"priority"`
}

func (CallIncoming) EventType() EventType { return EventCallIncoming }

// AgentStatusChanged is published when an agent's availability changes
// outside the router (login, logout, break)
type AgentStatusChanged struct {
	AgentID   string      `json:"agentId"`
	OldStatus AgentStatus `json:"oldStatus,omitempty"`
	NewStatus AgentStatus `json:"newStatus"`
}

func (AgentStatusChanged) EventType() EventType { return EventAgentStatusChanged }

// CallEnded is published when an active call hangs up
type CallEnded struct {
	CallID  string `json:"callId"`
	AgentID string `json:"agentId"`
}

func (CallEnded) EventType() EventType { return EventCallEnded }

// CallAssigned is published by the router after a successful assignment
type CallAssigned struct {
	CallID    string `json:"callId"`
	CallerID  string `json:"callerId"`
	AgentID   string `json:"agentId"`
	AgentName string `json:"agentName,omitempty"`
}

func (CallAssigned) EventType() EventType { return EventCallAssigned }

// CallQueued is published by the router when no agent is available
type CallQueued struct {
	EntryID  string `json:"entryId"`
	CallerID string `json:"callerId"`
	Priority int    `json:"priority"`
	Position int    `json:"position"`
}

func (CallQueued) EventType() EventType { return EventCallQueued }

// QuestionAsked is routed to the FAQ collaborator
type QuestionAsked struct {
	Question string `json:"question"`
	CallerID string `json:"callerId,omitempty"`
	CallID   string `json:"callId,omitempty"`
}

func (QuestionAsked) EventType() EventType { return EventQuestionAsked }

// TranscriptCompleted arrives from the speech-to-text collaborator
// once a call's transcript is final
type TranscriptCompleted struct {
	CallID     string `json:"callId"`
	Transcript string `json:"transcript"`
}

func (TranscriptCompleted) EventType() EventType { return EventTranscriptCompleted }

// DataExtracted arrives from the extraction collaborator
type DataExtracted struct {
	CallID          string            `json:"callId"`
	ExtractedFields map[string]string `json:"extractedFields"`
}

func (DataExtracted) EventType() EventType { return EventDataExtracted }

// SystemMetrics is published periodically by the monitor
type SystemMetrics struct {
	Stats  DashboardStats `json:"stats"`
	Alerts []string       `json:"alerts,omitempty"`
}

func (SystemMetrics) EventType() EventType { return EventSystemMetrics }
