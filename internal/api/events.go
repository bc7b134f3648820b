package api

import (
	"encoding/json"
	"net/http"

	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/bus"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/metrics"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/types"
	"github.com/rs/zerolog"
)

// EventHandler validates external payloads and turns them into events
// on the bus. Malformed payloads are rejected here and never
// published.
type EventHandler struct {
	bus    *bus.Bus
	logger zerolog.Logger
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(b *bus.Bus, logger zerolog.Logger) *EventHandler {
	return &EventHandler{
		bus:    b,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// incomingCallRequest is the JSON body for POST /call/incoming
type incomingCallRequest struct {
	CallerID string `json:"callerId"`
	Priority int    `json:"priority"`
}

// HandleIncomingCall handles POST /call/incoming
func (h *EventHandler) HandleIncomingCall(w http.ResponseWriter, r *http.Request) {
	var req incomingCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.reject(w, "invalid JSON body")
		return
	}
	if req.CallerID == "" {
		h.reject(w, "missing callerId field")
		return
	}
	if req.Priority == 0 {
		req.Priority = 1
	}

	h.bus.Publish(r.Context(), types.NewEvent(types.CallIncoming{
		CallerID: req.CallerID,
		Priority: req.Priority,
	}))

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":   "call_received",
		"callerId": req.CallerID,
	})
}

// agentStatusRequest is the JSON body for POST /agent/status
type agentStatusRequest struct {
	AgentID   string            `json:"agentId"`
	OldStatus types.AgentStatus `json:"oldStatus,omitempty"`
	NewStatus types.AgentStatus `json:"newStatus"`
}

// HandleAgentStatus handles POST /agent/status
func (h *EventHandler) HandleAgentStatus(w http.ResponseWriter, r *http.Request) {
	var req agentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.reject(w, "invalid JSON body")
		return
	}
	if req.AgentID == "" {
		h.reject(w, "missing agentId field")
		return
	}
	if !types.ValidAgentStatus(req.NewStatus) {
		h.reject(w, "invalid newStatus value")
		return
	}

	h.bus.Publish(r.Context(), types.NewEvent(types.AgentStatusChanged{
		AgentID:   req.AgentID,
		OldStatus: req.OldStatus,
		NewStatus: req.NewStatus,
	}))

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "status_received",
		"agentId": req.AgentID,
	})
}

// callEndedRequest is the JSON body for POST /call/ended
type callEndedRequest struct {
	CallID  string `json:"callId"`
	AgentID string `json:"agentId,omitempty"`
}

// HandleCallEnded handles POST /call/ended
func (h *EventHandler) HandleCallEnded(w http.ResponseWriter, r *http.Request) {
	var req callEndedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.reject(w, "invalid JSON body")
		return
	}
	if req.CallID == "" {
		h.reject(w, "missing callId field")
		return
	}

	h.bus.Publish(r.Context(), types.NewCorrelatedEvent(types.CallEnded{
		CallID:  req.CallID,
		AgentID: req.AgentID,
	}, "call_"+req.CallID))

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "call_end_received",
		"callId": req.CallID,
	})
}

// askQuestionRequest is the JSON body for POST /faq/ask
type askQuestionRequest struct {
	Question string `json:"question"`
	CallerID string `json:"callerId,omitempty"`
	CallID   string `json:"callId,omitempty"`
}

// HandleAskQuestion handles POST /faq/ask, routing the question to the
// FAQ collaborator via the bus
func (h *EventHandler) HandleAskQuestion(w http.ResponseWriter, r *http.Request) {
	var req askQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.reject(w, "invalid JSON body")
		return
	}
	if req.Question == "" {
		h.reject(w, "missing question field")
		return
	}

	h.bus.Publish(r.Context(), types.NewEvent(types.QuestionAsked{
		Question: req.Question,
		CallerID: req.CallerID,
		CallID:   req.CallID,
	}))

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":   "question_received",
		"question": req.Question,
	})
}

// transcriptRequest is the JSON body for POST /transcript
type transcriptRequest struct {
	CallID     string `json:"callId"`
	Transcript string `json:"transcript"`
}

// HandleTranscript handles POST /transcript, the callback from the
// speech-to-text collaborator
func (h *EventHandler) HandleTranscript(w http.ResponseWriter, r *http.Request) {
	var req transcriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.reject(w, "invalid JSON body")
		return
	}
	if req.CallID == "" {
		h.reject(w, "missing callId field")
		return
	}
	if req.Transcript == "" {
		h.reject(w, "missing transcript field")
		return
	}

	h.bus.Publish(r.Context(), types.NewCorrelatedEvent(types.TranscriptCompleted{
		CallID:     req.CallID,
		Transcript: req.Transcript,
	}, "call_"+req.CallID))

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "transcript_received",
		"callId": req.CallID,
	})
}

// extractedDataRequest is the JSON body for POST /call/data
type extractedDataRequest struct {
	CallID          string            `json:"callId"`
	ExtractedFields map[string]string `json:"extractedFields"`
}

// HandleExtractedData handles POST /call/data, the callback from the
// extraction collaborator
func (h *EventHandler) HandleExtractedData(w http.ResponseWriter, r *http.Request) {
	var req extractedDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.reject(w, "invalid JSON body")
		return
	}
	if req.CallID == "" {
		h.reject(w, "missing callId field")
		return
	}
	if len(req.ExtractedFields) == 0 {
		h.reject(w, "missing extractedFields")
		return
	}

	h.bus.Publish(r.Context(), types.NewCorrelatedEvent(types.DataExtracted{
		CallID:          req.CallID,
		ExtractedFields: req.ExtractedFields,
	}, "call_"+req.CallID))

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "data_received",
		"callId": req.CallID,
	})
}

// reject reports a validation failure to the producer; the event is
// not published
func (h *EventHandler) reject(w http.ResponseWriter, reason string) {
	metrics.Get().RecordValidationError()
	h.logger.Debug().Str("reason", reason).Msg("payload rejected")
	http.Error(w, reason, http.StatusBadRequest)
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
