package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/metrics"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/types"
	"github.com/rs/zerolog"
)

// Handler processes one event. A non-nil error is reported to the
// bus's log sink and never reaches the publisher.
type Handler func(ctx context.Context, evt types.Event) error

// Bus is a typed publish/subscribe mediator. It owns the registry of
// event type to ordered handler list and the fan-out policy; it knows
// nothing about call-center semantics.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[types.EventType][]Handler
	history     *History
	logger      zerolog.Logger
}

// New creates a bus retaining up to historyLimit published events for
// inspection. A limit of zero disables history.
func New(historyLimit int, logger zerolog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[types.EventType][]Handler),
		history:     NewHistory(historyLimit),
		logger:      logger.With().Str("component", "bus").Logger(),
	}
}

// Subscribe registers handler for every future publish of eventType.
// Handlers are invoked in registration order; subscribing the same
// handler twice invokes it twice.
func (b *Bus) Subscribe(eventType types.EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish delivers evt to every handler registered for its type and
// waits for all of them to finish. Handlers start in registration
// order but run concurrently. A handler that fails or panics is
// logged and never affects its siblings or the publisher. With no
// subscribers Publish is a silent no-op.
func (b *Bus) Publish(ctx context.Context, evt types.Event) {
	b.history.Add(evt)
	metrics.Get().RecordEventPublished()

	b.mu.RLock()
	handlers := b.subscribers[evt.Type]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	var wg sync.WaitGroup
	for i, h := range handlers {
		wg.Add(1)
		go func(idx int, handler Handler) {
			defer wg.Done()
			b.invoke(ctx, idx, handler, evt)
		}(i, h)
	}
	wg.Wait()
}

// invoke runs one handler, containing errors and panics
func (b *Bus) invoke(ctx context.Context, idx int, handler Handler, evt types.Event) {
	defer func() {
		if r := recover(); r != nil {
			metrics.Get().RecordHandlerFailure()
			b.logger.Error().
				Str("event_type", string(evt.Type)).
				Int("handler", idx).
				Msg(fmt.Sprintf("handler panicked: %v", r))
		}
	}()

	if err := handler(ctx, evt); err != nil {
		metrics.Get().RecordHandlerFailure()
		b.logger.Error().Err(err).
			Str("event_type", string(evt.Type)).
			Str("correlation_id", evt.CorrelationID).
			Int("handler", idx).
			Msg("event handler failed")
	}
}

// SubscriberCount returns the number of handlers registered for eventType
func (b *Bus) SubscriberCount(eventType types.EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[eventType])
}

// History returns the retained published events, oldest first
func (b *Bus) History() []types.Event {
	return b.history.All()
}
