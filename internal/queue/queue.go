package queue

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrEntryNotFound is returned for an unknown entry ID
var ErrEntryNotFound = errors.New("queue entry not found")

// WaitingQueue holds callers awaiting assignment. Ordering is highest
// priority first, insertion order within a priority band. Assigned
// entries leave the waiting set but are retained as audit records.
type WaitingQueue struct {
	entries []*types.QueueEntry
	byID    map[string]*types.QueueEntry
	seq     uint64
	mu      sync.RWMutex
	logger  zerolog.Logger
}

// New creates an empty waiting queue
func New(logger zerolog.Logger) *WaitingQueue {
	return &WaitingQueue{
		byID:   make(map[string]*types.QueueEntry),
		logger: logger.With().Str("component", "queue").Logger(),
	}
}

// Enqueue appends a new waiting entry and returns a copy of it.
// The insertion sequence number makes the queue order total even for
// entries created in the same instant.
func (q *WaitingQueue) Enqueue(callerID string, priority int) types.QueueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	entry := &types.QueueEntry{
		EntryID:   uuid.New().String(),
		CallerID:  callerID,
		Priority:  priority,
		CreatedAt: time.Now(),
		Seq:       q.seq,
	}
	q.entries = append(q.entries, entry)
	q.byID[entry.EntryID] = entry

	q.logger.Debug().
		Str("entry_id", entry.EntryID).
		Str("caller_id", callerID).
		Int("priority", priority).
		Msg("caller enqueued")

	return *entry
}

// PeekNext returns a copy of the entry to serve next without removing
// it, or false for an empty waiting set. The answer is stable until
// the queue is mutated.
func (q *WaitingQueue) PeekNext() (types.QueueEntry, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	var best *types.QueueEntry
	for _, e := range q.entries {
		if !e.Waiting() {
			continue
		}
		if best == nil || before(e, best) {
			best = e
		}
	}
	if best == nil {
		return types.QueueEntry{}, false
	}
	return *best, true
}

// MarkAssigned removes an entry from the waiting set by binding it to
// an agent. Only the queue may retire its entries.
func (q *WaitingQueue) MarkAssigned(entryID, agentID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	entry, ok := q.byID[entryID]
	if !ok {
		return ErrEntryNotFound
	}
	entry.AssignedAgent = agentID
	return nil
}

// Position returns the 1-based rank of a waiting entry: the count of
// waiting entries with higher priority, or equal priority enqueued no
// later than it
func (q *WaitingQueue) Position(entryID string) (int, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	entry, ok := q.byID[entryID]
	if !ok {
		return 0, ErrEntryNotFound
	}

	pos := 0
	for _, e := range q.entries {
		if !e.Waiting() {
			continue
		}
		if e.Priority > entry.Priority || (e.Priority == entry.Priority && e.Seq <= entry.Seq) {
			pos++
		}
	}
	return pos, nil
}

// Len returns the number of waiting entries
func (q *WaitingQueue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	n := 0
	for _, e := range q.entries {
		if e.Waiting() {
			n++
		}
	}
	return n
}

// Waiting returns copies of all waiting entries in serve order
func (q *WaitingQueue) Waiting() []types.QueueEntry {
	q.mu.RLock()
	defer q.mu.RUnlock()

	out := make([]types.QueueEntry, 0)
	for _, e := range q.entries {
		if e.Waiting() {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return before(&out[i], &out[j]) })
	return out
}

// LongestWaitSecs returns the wait time of the oldest waiting entry
func (q *WaitingQueue) LongestWaitSecs() float64 {
	q.mu.RLock()
	defer q.mu.RUnlock()

	var oldest *types.QueueEntry
	for _, e := range q.entries {
		if e.Waiting() && (oldest == nil || e.Seq < oldest.Seq) {
			oldest = e
		}
	}
	if oldest == nil {
		return 0
	}
	return time.Since(oldest.CreatedAt).Seconds()
}

// Wipe clears all entries, returning the count of waiting entries cleared
func (q *WaitingQueue) Wipe() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	cleared := 0
	for _, e := range q.entries {
		if e.Waiting() {
			cleared++
		}
	}
	q.entries = nil
	q.byID = make(map[string]*types.QueueEntry)
	return cleared
}

// before reports whether a should be served ahead of b
func before(a, b *types.QueueEntry) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.Seq < b.Seq
}
