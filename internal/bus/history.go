package bus

import (
	"sync"

	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/types"
)

// History keeps a bounded in-memory record of published events. It is
// an observability aid, not part of the delivery contract.
type History struct {
	mu     sync.RWMutex
	events []types.Event
	limit  int
}

// NewHistory creates a history retaining at most limit events.
// A limit of zero or less disables retention.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Add appends an event, evicting the oldest once the limit is reached
func (h *History) Add(evt types.Event) {
	if h.limit <= 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, evt)
	if len(h.events) > h.limit {
		h.events = h.events[len(h.events)-h.limit:]
	}
}

// All returns a copy of the retained events, oldest first
func (h *History) All() []types.Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]types.Event, len(h.events))
	copy(out, h.events)
	return out
}

// Size returns the number of retained events
func (h *History) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.events)
}
