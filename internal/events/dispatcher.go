package events

import (
	"context"
	"log/slog"
	"sync"
)

type Kind string

const (
	OrderPlaced    Kind = "order.placed"
	AccountCreated Kind = "account.created"
)

// Handler consumes one event kind. Returned errors are logged and dropped;
// a handler can never fail the publisher or starve its siblings.
type Handler interface {
	Name() string
	Handle(ctx context.Context, payload any) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc struct {
	HandlerName string
	Fn          func(ctx context.Context, payload any) error
}

func (h HandlerFunc) Name() string { return h.HandlerName }

func (h HandlerFunc) Handle(ctx context.Context, payload any) error {
	return h.Fn(ctx, payload)
}

// Dispatcher is a best-effort, in-process fan-out. Delivery is synchronous
// and at most once per handler: there is no persistence or replay, so a
// handler that is down simply misses the event.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
	logger   *slog.Logger
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		handlers: make(map[Kind][]Handler),
		logger:   logger,
	}
}

func (d *Dispatcher) Register(kind Kind, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[kind] = append(d.handlers[kind], handler)
}

// Publish hands the payload to every handler registered for kind. It is
// fire-and-forget from the publisher's perspective: errors and panics are
// caught and logged here, and every remaining handler still runs.
func (d *Dispatcher) Publish(ctx context.Context, kind Kind, payload any) {

	d.mu.RLock()
	handlers := make([]Handler, len(d.handlers[kind]))
	copy(handlers, d.handlers[kind])
	d.mu.RUnlock()

	for _, handler := range handlers {
		d.deliver(ctx, kind, handler, payload)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, kind Kind, handler Handler, payload any) {

	defer func() {
		if p := recover(); p != nil {
			d.logger.Error("event handler panicked",
				slog.String("event", string(kind)),
				slog.String("handler", handler.Name()),
				slog.Any("panic", p))
		}
	}()

	if err := handler.Handle(ctx, payload); err != nil {
		d.logger.Error("event handler failed",
			slog.String("event", string(kind)),
			slog.String("handler", handler.Name()),
			slog.String("error", err.Error()))
	}
}
