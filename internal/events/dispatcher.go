package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/praneethvg/video-summarizer/internal/logging"
)

// Handler consumes published envelopes. Name identifies the subscriber for
// delivery reports and deduplication.
type Handler interface {
	Name() string
	Handle(ctx context.Context, env Envelope) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc struct {
	HandlerName string
	Fn          func(ctx context.Context, env Envelope) error
}

func (h HandlerFunc) Name() string { return h.HandlerName }

func (h HandlerFunc) Handle(ctx context.Context, env Envelope) error {
	if h.Fn == nil {
		return nil
	}
	return h.Fn(ctx, env)
}

// Delivery records the outcome of invoking one subscriber.
type Delivery struct {
	Subscriber string
	Err        error
}

// Result summarizes a publish call across all subscribers.
type Result struct {
	Event      Envelope
	Deliveries []Delivery
}

// Failed returns the deliveries whose handlers reported an error.
func (r Result) Failed() []Delivery {
	var failed []Delivery
	for _, d := range r.Deliveries {
		if d.Err != nil {
			failed = append(failed, d)
		}
	}
	return failed
}

// Ok reports whether every subscriber handled the event without error.
func (r Result) Ok() bool {
	for _, d := range r.Deliveries {
		if d.Err != nil {
			return false
		}
	}
	return true
}

type subscriptionTable map[Type][]Handler

// Dispatcher routes envelopes to subscribers synchronously and in
// subscription order. Publish never blocks on subscription changes: the
// subscriber table is swapped atomically, so concurrent publishers read a
// consistent snapshot.
type Dispatcher struct {
	logger *slog.Logger

	mu    sync.Mutex
	table atomic.Pointer[subscriptionTable]
}

// NewDispatcher constructs an empty dispatcher.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NopLogger()
	}
	d := &Dispatcher{logger: logging.WithComponent(logger, "events")}
	empty := make(subscriptionTable)
	d.table.Store(&empty)
	return d
}

// Subscribe registers the handler for the event type. Handlers run in the
// order they subscribed. A handler whose name already appears for the type
// replaces the earlier subscription in place.
func (d *Dispatcher) Subscribe(eventType Type, handler Handler) error {
	if eventType == "" {
		return fmt.Errorf("subscribe: event type required")
	}
	if handler == nil {
		return fmt.Errorf("subscribe: handler required")
	}
	if handler.Name() == "" {
		return fmt.Errorf("subscribe: handler name required")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	next := d.cloneTable()
	handlers := next[eventType]
	replaced := false
	for i, existing := range handlers {
		if existing.Name() == handler.Name() {
			handlers[i] = handler
			replaced = true
			break
		}
	}
	if !replaced {
		handlers = append(handlers, handler)
	}
	next[eventType] = handlers
	d.table.Store(&next)
	return nil
}

// Unsubscribe removes the named handler from the event type. Removing a
// handler that is not subscribed is a no-op.
func (d *Dispatcher) Unsubscribe(eventType Type, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := d.cloneTable()
	handlers := next[eventType]
	for i, existing := range handlers {
		if existing.Name() == name {
			handlers = append(handlers[:i], handlers[i+1:]...)
			break
		}
	}
	if len(handlers) == 0 {
		delete(next, eventType)
	} else {
		next[eventType] = handlers
	}
	d.table.Store(&next)
}

// UnsubscribeAll removes the named handler from every event type. Plugin
// unload uses this so a single call detaches all of a plugin's handlers.
func (d *Dispatcher) UnsubscribeAll(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := d.cloneTable()
	for eventType, handlers := range next {
		filtered := handlers[:0:0]
		for _, existing := range handlers {
			if existing.Name() != name {
				filtered = append(filtered, existing)
			}
		}
		if len(filtered) == 0 {
			delete(next, eventType)
		} else {
			next[eventType] = filtered
		}
	}
	d.table.Store(&next)
}

// SubscriberNames returns the handler names registered for the event type in
// invocation order.
func (d *Dispatcher) SubscriberNames(eventType Type) []string {
	table := *d.table.Load()
	handlers := table[eventType]
	names := make([]string, 0, len(handlers))
	for _, h := range handlers {
		names = append(names, h.Name())
	}
	return names
}

// Publish delivers the envelope to every subscriber of its type, on the
// caller's goroutine, in subscription order. A handler error or panic is
// captured in the delivery report and does not stop later handlers. With no
// subscribers the result is empty and Ok.
func (d *Dispatcher) Publish(ctx context.Context, env Envelope) Result {
	if env.ID == "" {
		env.ID = uuid.NewString()
	}
	if env.OccurredAt.IsZero() {
		env.OccurredAt = time.Now().UTC()
	}

	table := *d.table.Load()
	handlers := table[env.Type]

	result := Result{Event: env}
	if len(handlers) == 0 {
		return result
	}

	result.Deliveries = make([]Delivery, 0, len(handlers))
	for _, handler := range handlers {
		err := d.invoke(ctx, handler, env)
		if err != nil {
			d.logger.Warn("event handler failed",
				slog.String("event_type", string(env.Type)),
				slog.String("event_id", env.ID),
				slog.String("subscriber", handler.Name()),
				slog.String("error", err.Error()))
		}
		result.Deliveries = append(result.Deliveries, Delivery{
			Subscriber: handler.Name(),
			Err:        err,
		})
	}
	return result
}

func (d *Dispatcher) invoke(ctx context.Context, handler Handler, env Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %s panicked: %v", handler.Name(), r)
		}
	}()
	return handler.Handle(ctx, env)
}

// cloneTable copies the current table so mutations never touch a snapshot a
// concurrent publisher may be iterating. Callers must hold d.mu.
func (d *Dispatcher) cloneTable() subscriptionTable {
	current := *d.table.Load()
	next := make(subscriptionTable, len(current))
	for eventType, handlers := range current {
		copied := make([]Handler, len(handlers))
		copy(copied, handlers)
		next[eventType] = copied
	}
	return next
}
