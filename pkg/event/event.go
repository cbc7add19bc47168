// Package event provides a synchronous in-process event dispatcher.
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/glamify/pkg/logger"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload any) error

// Dispatcher routes named events to listeners.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func New() *Dispatcher {
	return &Dispatcher{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (d *Dispatcher) Listen(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], h)
}

// Fire runs every listener of name in registration order. Listener errors
// and panics are logged and never reach the caller.
func (d *Dispatcher) Fire(ctx context.Context, name string, payload any) {
	if d == nil {
		return
	}
	d.mu.RLock()
	hs := append([]Handler(nil), d.handlers[name]...)
	d.mu.RUnlock()

	for _, h := range hs {
		if err := call(ctx, h, payload); err != nil {
			logger.WithCtx(ctx).Warn("event listener failed", "event", name, "error", err)
		}
	}
}

func call(ctx context.Context, h Handler, payload any) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return h(ctx, payload)
}
