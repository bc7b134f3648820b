package types

import "time"

// CallStatus represents the lifecycle state of a call
type CallStatus string

const (
	CallStatusPending   CallStatus = "pending"
	CallStatusActive    CallStatus = "active"
	CallStatusCompleted CallStatus = "completed"
)

// ValidCallTransition reports whether a call may move from one status
// to another: pending becomes active through a successful assignment,
// active becomes completed when the call ends. Completed is terminal.
func ValidCallTransition(from, to CallStatus) bool {
	switch from {
	case CallStatusPending:
		return to == CallStatusActive
	case CallStatusActive:
		return to == CallStatusCompleted
	default:
		return false
	}
}

// Call represents a call handled by the system. AgentID is non-empty
// exactly while the call is active; DurationSecs is set only once the
// call is completed.
type Call struct {
	CallID       string     `json:"callId"`
	CallerID     string     `json:"callerId"`
	AgentID      string     `json:"agentId,omitempty"`
	Status       CallStatus `json:"status"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	DurationSecs int        `json:"durationSecs,omitempty"`
	Transcript   string     `json:"transcript,omitempty"`
	Summary      string     `json:"summary,omitempty"`
	Resolved     bool       `json:"resolved"`
}

// CallRecord is the persisted form of a completed call
type CallRecord struct {
	DateKey      string `json:"DateKey" dynamodbav:"DateKey"`
	CallID       string `json:"CallID" dynamodbav:"CallID"`
	CallerID     string `json:"CallerID" dynamodbav:"CallerID"`
	AgentID      string `json:"AgentID" dynamodbav:"AgentID"`
	StartTime    string `json:"StartTime" dynamodbav:"StartTime"`
	EndTime      string `json:"EndTime" dynamodbav:"EndTime"`
	DurationSecs int    `json:"DurationSecs" dynamodbav:"DurationSecs"`
	Resolved     bool   `json:"Resolved" dynamodbav:"Resolved"`
}

// AgentDailyStats is a per-agent per-day rollup of handled calls
type AgentDailyStats struct {
	AgentID       string `json:"AgentID" dynamodbav:"AgentID"`
	Date          string `json:"Date" dynamodbav:"Date"`
	CallsHandled  int    `json:"CallsHandled" dynamodbav:"CallsHandled"`
	TotalTalkSecs int    `json:"TotalTalkSecs" dynamodbav:"TotalTalkSecs"`
}
