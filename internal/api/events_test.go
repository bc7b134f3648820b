package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/bus"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/types"
	"github.com/rs/zerolog"
)

// eventSink collects everything published on the bus
type eventSink struct {
	mu     sync.Mutex
	events []types.Event
}

func (s *eventSink) subscribe(b *bus.Bus, eventTypes ...types.EventType) {
	for _, et := range eventTypes {
		b.Subscribe(et, func(ctx context.Context, evt types.Event) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.events = append(s.events, evt)
			return nil
		})
	}
}

func (s *eventSink) all() []types.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.Event(nil), s.events...)
}

func TestHandleIncomingCall(t *testing.T) {
	b := bus.New(10, zerolog.Nop())
	sink := &eventSink{}
	sink.subscribe(b, types.EventCallIncoming)
	h := NewEventHandler(b, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/call/incoming", strings.NewReader(`{"callerId":"caller-1","priority":3}`))
	rec := httptest.NewRecorder()
	h.HandleIncomingCall(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", rec.Code)
	}
	events := sink.all()
	if len(events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(events))
	}
	payload := events[0].Data.(types.CallIncoming)
	if payload.CallerID != "caller-1" || payload.Priority != 3 {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestHandleIncomingCallDefaultPriority(t *testing.T) {
	b := bus.New(10, zerolog.Nop())
	sink := &eventSink{}
	sink.subscribe(b, types.EventCallIncoming)
	h := NewEventHandler(b, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/call/incoming", strings.NewReader(`{"callerId":"caller-1"}`))
	rec := httptest.NewRecorder()
	h.HandleIncomingCall(rec, req)

	payload := sink.all()[0].Data.(types.CallIncoming)
	if payload.Priority != 1 {
		t.Errorf("expected default priority 1, got %d", payload.Priority)
	}
}

func TestHandleIncomingCallRejectsBadPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `{not json`},
		{"missing callerId", `{"priority":1}`},
		{"empty callerId", `{"callerId":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bus.New(10, zerolog.Nop())
			sink := &eventSink{}
			sink.subscribe(b, types.EventCallIncoming)
			h := NewEventHandler(b, zerolog.Nop())

			req := httptest.NewRequest(http.MethodPost, "/call/incoming", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.HandleIncomingCall(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			if got := len(sink.all()); got != 0 {
				t.Errorf("rejected payload must not be published, got %d events", got)
			}
		})
	}
}

func TestHandleAgentStatus(t *testing.T) {
	b := bus.New(10, zerolog.Nop())
	sink := &eventSink{}
	sink.subscribe(b, types.EventAgentStatusChanged)
	h := NewEventHandler(b, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/agent/status", strings.NewReader(`{"agentId":"agent-1","newStatus":"available"}`))
	rec := httptest.NewRecorder()
	h.HandleAgentStatus(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", rec.Code)
	}
	payload := sink.all()[0].Data.(types.AgentStatusChanged)
	if payload.AgentID != "agent-1" || payload.NewStatus != types.StatusAvailable {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestHandleAgentStatusRejectsUnknownStatus(t *testing.T) {
	b := bus.New(10, zerolog.Nop())
	h := NewEventHandler(b, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/agent/status", strings.NewReader(`{"agentId":"agent-1","newStatus":"sleeping"}`))
	rec := httptest.NewRecorder()
	h.HandleAgentStatus(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown status, got %d", rec.Code)
	}
}

func TestHandleCallEnded(t *testing.T) {
	b := bus.New(10, zerolog.Nop())
	sink := &eventSink{}
	sink.subscribe(b, types.EventCallEnded)
	h := NewEventHandler(b, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/call/ended", strings.NewReader(`{"callId":"call-9"}`))
	rec := httptest.NewRecorder()
	h.HandleCallEnded(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", rec.Code)
	}
	events := sink.all()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].CorrelationID != "call_call-9" {
		t.Errorf("expected correlation call_call-9, got %s", events[0].CorrelationID)
	}
}

func TestHandleCallEndedRejectsMissingID(t *testing.T) {
	b := bus.New(10, zerolog.Nop())
	h := NewEventHandler(b, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/call/ended", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.HandleCallEnded(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleAskQuestion(t *testing.T) {
	b := bus.New(10, zerolog.Nop())
	sink := &eventSink{}
	sink.subscribe(b, types.EventQuestionAsked)
	h := NewEventHandler(b, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/faq/ask", strings.NewReader(`{"question":"What are your opening hours?","callerId":"caller-1"}`))
	rec := httptest.NewRecorder()
	h.HandleAskQuestion(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", rec.Code)
	}
	payload := sink.all()[0].Data.(types.QuestionAsked)
	if payload.Question != "What are your opening hours?" {
		t.Errorf("unexpected question %q", payload.Question)
	}
}

func TestHandleTranscript(t *testing.T) {
	b := bus.New(10, zerolog.Nop())
	sink := &eventSink{}
	sink.subscribe(b, types.EventTranscriptCompleted)
	h := NewEventHandler(b, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/transcript", strings.NewReader(`{"callId":"c1","transcript":"hello"}`))
	rec := httptest.NewRecorder()
	h.HandleTranscript(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", rec.Code)
	}
	payload := sink.all()[0].Data.(types.TranscriptCompleted)
	if payload.CallID != "c1" || payload.Transcript != "hello" {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestHandleTranscriptRejectsEmpty(t *testing.T) {
	b := bus.New(10, zerolog.Nop())
	h := NewEventHandler(b, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/transcript", strings.NewReader(`{"callId":"c1"}`))
	rec := httptest.NewRecorder()
	h.HandleTranscript(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing transcript, got %d", rec.Code)
	}
}

func TestHandleExtractedData(t *testing.T) {
	b := bus.New(10, zerolog.Nop())
	sink := &eventSink{}
	sink.subscribe(b, types.EventDataExtracted)
	h := NewEventHandler(b, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/call/data", strings.NewReader(`{"callId":"c1","extractedFields":{"summary":"card issue"}}`))
	rec := httptest.NewRecorder()
	h.HandleExtractedData(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", rec.Code)
	}
	payload := sink.all()[0].Data.(types.DataExtracted)
	if payload.ExtractedFields["summary"] != "card issue" {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestHandleExtractedDataRejectsEmptyFields(t *testing.T) {
	b := bus.New(10, zerolog.Nop())
	h := NewEventHandler(b, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/call/data", strings.NewReader(`{"callId":"c1","extractedFields":{}}`))
	rec := httptest.NewRecorder()
	h.HandleExtractedData(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty fields, got %d", rec.Code)
	}
}
