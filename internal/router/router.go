package router

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/bus"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/directory"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/metrics"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/queue"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrCallNotFound is returned for an unknown call ID
	ErrCallNotFound = errors.New("call not found")
	// ErrNoAgentAvailable signals that an incoming call must wait
	ErrNoAgentAvailable = errors.New("no agent available")
)

// CallStore is the subset of storage.Store needed by the Router
type CallStore interface {
	SaveCallRecord(record types.CallRecord) error
	SaveAgentDailyStats(stats types.AgentDailyStats) error
}

// Router assigns incoming calls to agents or parks them in the
// waiting queue. Every read-decide-mutate assignment sequence over
// the Directory, the queue and the call table runs under one mutex,
// so a candidate agent can never be bound to two calls at once.
// The call_queued event is published while the mutex is still held,
// so per caller it always precedes the call_assigned a later drain
// emits for the same entry. Assignment events are published after the
// critical section with values computed inside it. The router never
// subscribes to its own derived events, so publishing under the lock
// cannot re-enter it.
type Router struct {
	bus      *bus.Bus
	dir      *directory.Directory
	queue    *queue.WaitingQueue
	strategy Strategy
	store    CallStore

	calls map[string]*types.Call
	daily map[string]*types.AgentDailyStats
	mu    sync.Mutex

	logger zerolog.Logger
}

// New creates a router using the least-loaded assignment policy
func New(b *bus.Bus, dir *directory.Directory, q *queue.WaitingQueue, logger zerolog.Logger) *Router {
	return &Router{
		bus:      b,
		dir:      dir,
		queue:    q,
		strategy: LeastLoaded{},
		calls:    make(map[string]*types.Call),
		daily:    make(map[string]*types.AgentDailyStats),
		logger:   logger.With().Str("component", "router").Logger(),
	}
}

// SetStore sets the persistence store for completed call records
func (r *Router) SetStore(store CallStore) {
	r.store = store
}

// Subscribe registers the router's lifecycle handlers on the bus
func (r *Router) Subscribe() {
	r.bus.Subscribe(types.EventCallIncoming, r.handleIncomingCall)
	r.bus.Subscribe(types.EventAgentStatusChanged, r.handleAgentStatusChanged)
	r.bus.Subscribe(types.EventCallEnded, r.handleCallEnded)
	r.bus.Subscribe(types.EventTranscriptCompleted, r.handleTranscriptCompleted)
	r.bus.Subscribe(types.EventDataExtracted, r.handleDataExtracted)
}

func (r *Router) handleIncomingCall(ctx context.Context, evt types.Event) error {
	payload, ok := evt.Data.(types.CallIncoming)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", evt.Data, evt.Type)
	}
	r.HandleIncomingCall(ctx, payload.CallerID, payload.Priority)
	return nil
}

func (r *Router) handleAgentStatusChanged(ctx context.Context, evt types.Event) error {
	payload, ok := evt.Data.(types.AgentStatusChanged)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", evt.Data, evt.Type)
	}
	r.HandleAgentStatusChanged(ctx, payload.AgentID, payload.NewStatus)
	return nil
}

func (r *Router) handleCallEnded(ctx context.Context, evt types.Event) error {
	payload, ok := evt.Data.(types.CallEnded)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", evt.Data, evt.Type)
	}
	r.HandleCallEnded(ctx, payload.CallID, payload.AgentID)
	return nil
}

func (r *Router) handleTranscriptCompleted(ctx context.Context, evt types.Event) error {
	payload, ok := evt.Data.(types.TranscriptCompleted)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", evt.Data, evt.Type)
	}
	r.AttachTranscript(payload.CallID, payload.Transcript)
	return nil
}

func (r *Router) handleDataExtracted(ctx context.Context, evt types.Event) error {
	payload, ok := evt.Data.(types.DataExtracted)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", evt.Data, evt.Type)
	}
	r.AttachExtractedData(payload.CallID, payload.ExtractedFields)
	return nil
}

// HandleIncomingCall attempts an immediate assignment, falling back to
// the waiting queue when every agent is occupied
func (r *Router) HandleIncomingCall(ctx context.Context, callerID string, priority int) {
	r.mu.Lock()
	call, err := r.assignLocked(callerID)
	if err == nil {
		r.mu.Unlock()
		metrics.Get().RecordAssignment()
		r.logger.Info().
			Str("call_id", call.CallID).
			Str("caller_id", callerID).
			Str("agent_id", call.AgentID).
			Msg("call assigned")
		r.publishAssigned(ctx, call)
		return
	}

	entry := r.queue.Enqueue(callerID, priority)
	position, _ := r.queue.Position(entry.EntryID)

	metrics.Get().RecordQueued()
	r.logger.Info().
		Str("entry_id", entry.EntryID).
		Str("caller_id", callerID).
		Int("priority", priority).
		Int("position", position).
		Msg("call queued")

	// Published before the mutex is released: a drain on another
	// goroutine may serve this entry the moment the lock is free, and
	// its call_assigned must not overtake the call_queued.
	r.bus.Publish(ctx, types.NewCorrelatedEvent(types.CallQueued{
		EntryID:  entry.EntryID,
		CallerID: callerID,
		Priority: priority,
		Position: position,
	}, "queue_"+entry.EntryID))
	r.mu.Unlock()
}

// HandleAgentStatusChanged applies an externally driven status
// transition. An agent becoming available triggers a queue drain;
// every other transition is a pure state update.
func (r *Router) HandleAgentStatusChanged(ctx context.Context, agentID string, newStatus types.AgentStatus) {
	if !types.ValidAgentStatus(newStatus) {
		metrics.Get().RecordDroppedEvent()
		r.logger.Warn().
			Str("agent_id", agentID).
			Str("status", string(newStatus)).
			Msg("unknown agent status, event dropped")
		return
	}

	r.mu.Lock()
	if err := r.dir.SetStatus(agentID, newStatus); err != nil {
		r.mu.Unlock()
		metrics.Get().RecordDroppedEvent()
		r.logger.Warn().
			Str("agent_id", agentID).
			Msg("status change for unknown agent, event dropped")
		return
	}

	var assigned []types.Call
	if newStatus == types.StatusAvailable {
		assigned = r.drainLocked()
	}
	r.mu.Unlock()

	for _, call := range assigned {
		r.publishAssigned(ctx, call)
	}
}

// HandleCallEnded completes a call, frees its agent and drains the
// queue. Ending an unknown or already completed call is a logged no-op.
func (r *Router) HandleCallEnded(ctx context.Context, callID, agentID string) {
	r.mu.Lock()
	call, ok := r.calls[callID]
	if !ok || !types.ValidCallTransition(call.Status, types.CallStatusCompleted) {
		r.mu.Unlock()
		metrics.Get().RecordDroppedEvent()
		r.logger.Warn().Str("call_id", callID).Msg("call ended for unknown or inactive call, event dropped")
		return
	}
	if agentID != "" && agentID != call.AgentID {
		r.logger.Warn().
			Str("call_id", callID).
			Str("event_agent_id", agentID).
			Str("call_agent_id", call.AgentID).
			Msg("call ended event names a different agent, trusting call record")
	}

	now := time.Now()
	boundAgent := call.AgentID
	call.Status = types.CallStatusCompleted
	call.EndTime = &now
	call.DurationSecs = int(now.Sub(call.StartTime).Seconds())
	call.AgentID = ""

	if err := r.dir.Release(boundAgent); err != nil {
		r.logger.Error().Err(err).Str("agent_id", boundAgent).Msg("failed to release agent")
	}

	record := callToRecord(*call, boundAgent)
	daily := r.tallyDailyLocked(boundAgent, *call)
	assigned := r.drainLocked()
	r.mu.Unlock()

	metrics.Get().RecordCompletion()
	r.logger.Info().
		Str("call_id", callID).
		Str("agent_id", boundAgent).
		Int("duration_secs", record.DurationSecs).
		Msg("call completed")

	if r.store != nil {
		go func() {
			if err := r.store.SaveCallRecord(record); err != nil {
				r.logger.Error().Err(err).Str("call_id", record.CallID).Msg("failed to save call record")
			}
			if err := r.store.SaveAgentDailyStats(daily); err != nil {
				r.logger.Error().Err(err).Str("agent_id", daily.AgentID).Msg("failed to save agent daily stats")
			}
		}()
	}

	for _, call := range assigned {
		r.publishAssigned(ctx, call)
	}
}

// RegisterAgent adds an agent to the directory through the router's
// serialized path. An agent arriving available drains the queue
// immediately.
func (r *Router) RegisterAgent(ctx context.Context, agent types.Agent) {
	r.mu.Lock()
	r.dir.Register(agent)
	var assigned []types.Call
	if agent.Status == types.StatusAvailable {
		assigned = r.drainLocked()
	}
	r.mu.Unlock()

	for _, call := range assigned {
		r.publishAssigned(ctx, call)
	}
}

// ProcessQueue drains the waiting queue to a fixed point and
// publishes an assignment event per served entry
func (r *Router) ProcessQueue(ctx context.Context) {
	r.mu.Lock()
	assigned := r.drainLocked()
	r.mu.Unlock()

	for _, call := range assigned {
		r.publishAssigned(ctx, call)
	}
}

// assignLocked binds the least-loaded available agent to a new active
// call. Callers must hold r.mu. A busy claim that fails is an
// invariant violation: it is logged and the selection retried against
// a freshly computed candidate.
func (r *Router) assignLocked(callerID string) (types.Call, error) {
	for {
		available := r.dir.Available()
		agent, ok := r.strategy.Select(available, r.activeCallsLocked)
		if !ok {
			return types.Call{}, ErrNoAgentAvailable
		}

		if err := r.dir.ClaimBusy(agent.ID); err != nil {
			metrics.Get().RecordAssignmentRace()
			r.logger.Error().Err(err).
				Str("agent_id", agent.ID).
				Msg("selected agent could not be claimed, retrying with fresh candidate")
			continue
		}

		call := &types.Call{
			CallID:    uuid.New().String(),
			CallerID:  callerID,
			AgentID:   agent.ID,
			Status:    types.CallStatusActive,
			StartTime: time.Now(),
		}
		r.calls[call.CallID] = call
		return *call, nil
	}
}

// drainLocked serves waiting entries while an agent is free. Callers
// must hold r.mu. One freed agent picks up the next waiting call
// immediately rather than waiting for another external event.
func (r *Router) drainLocked() []types.Call {
	metrics.Get().RecordDrainCycle()

	var assigned []types.Call
	for {
		entry, ok := r.queue.PeekNext()
		if !ok {
			return assigned
		}

		call, err := r.assignLocked(entry.CallerID)
		if err != nil {
			return assigned
		}

		if err := r.queue.MarkAssigned(entry.EntryID, call.AgentID); err != nil {
			r.logger.Error().Err(err).Str("entry_id", entry.EntryID).Msg("failed to retire queue entry")
		}
		metrics.Get().RecordAssignment()
		r.logger.Info().
			Str("call_id", call.CallID).
			Str("caller_id", call.CallerID).
			Str("agent_id", call.AgentID).
			Float64("wait_secs", time.Since(entry.CreatedAt).Seconds()).
			Msg("queued call routed to agent")
		assigned = append(assigned, call)
	}
}

func (r *Router) publishAssigned(ctx context.Context, call types.Call) {
	agentName := ""
	if agent, err := r.dir.Get(call.AgentID); err == nil {
		agentName = agent.Name
	}
	r.bus.Publish(ctx, types.NewCorrelatedEvent(types.CallAssigned{
		CallID:    call.CallID,
		CallerID:  call.CallerID,
		AgentID:   call.AgentID,
		AgentName: agentName,
	}, "call_"+call.CallID))
}

// activeCallsLocked counts an agent's active calls. Callers must hold r.mu.
func (r *Router) activeCallsLocked(agentID string) int {
	n := 0
	for _, call := range r.calls {
		if call.Status == types.CallStatusActive && call.AgentID == agentID {
			n++
		}
	}
	return n
}

// AttachTranscript stores the final transcript on a known call.
// Transcripts for unknown calls are dropped; the collaborator may
// outlive the in-memory call table.
func (r *Router) AttachTranscript(callID, transcript string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	call, ok := r.calls[callID]
	if !ok {
		metrics.Get().RecordDroppedEvent()
		r.logger.Warn().Str("call_id", callID).Msg("transcript for unknown call, dropped")
		return
	}
	call.Transcript = transcript
}

// AttachExtractedData folds extraction results into a known call. The
// summary and resolved fields are recognized; everything else belongs
// to the extraction collaborator.
func (r *Router) AttachExtractedData(callID string, fields map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	call, ok := r.calls[callID]
	if !ok {
		metrics.Get().RecordDroppedEvent()
		r.logger.Warn().Str("call_id", callID).Msg("extracted data for unknown call, dropped")
		return
	}
	if summary, ok := fields["summary"]; ok {
		call.Summary = summary
	}
	if resolved, ok := fields["resolved"]; ok {
		call.Resolved = resolved == "true"
	}
}

// tallyDailyLocked folds a completed call into the agent's running
// daily totals and returns the updated tally for persistence. Callers
// must hold r.mu.
func (r *Router) tallyDailyLocked(agentID string, call types.Call) types.AgentDailyStats {
	date := call.StartTime.Format("2006-01-02")
	key := agentID + "#" + date
	tally, ok := r.daily[key]
	if !ok {
		tally = &types.AgentDailyStats{AgentID: agentID, Date: date}
		r.daily[key] = tally
	}
	tally.CallsHandled++
	tally.TotalTalkSecs += call.DurationSecs
	return *tally
}

// callToRecord converts a completed call to its persisted form
func callToRecord(call types.Call, agentID string) types.CallRecord {
	record := types.CallRecord{
		DateKey:      call.StartTime.Format("2006-01-02"),
		CallID:       call.CallID,
		CallerID:     call.CallerID,
		AgentID:      agentID,
		StartTime:    call.StartTime.Format(time.RFC3339),
		DurationSecs: call.DurationSecs,
		Resolved:     call.Resolved,
	}
	if call.EndTime != nil {
		record.EndTime = call.EndTime.Format(time.RFC3339)
	}
	return record
}
