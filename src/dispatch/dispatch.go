// Package dispatch implements a type-indexed publish/subscribe bus.
//
// Subscribers register for a runtime type E; publishing an E invokes
// every callback registered for that type, in registration order, on
// the publishing thread. A faulty subscriber is isolated: its panic is
// recovered, logged, and never prevents later subscribers from seeing
// the event.
package dispatch

import (
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Dispatcher is the type-indexed multicast bus. The zero value is not
// usable; construct with New.
type Dispatcher struct {
	mu          sync.Mutex
	subscribers map[reflect.Type][]func(any)
	logger      *zap.Logger
}

// New builds a Dispatcher that logs subscriber failures through logger.
func New(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		subscribers: make(map[reflect.Type][]func(any)),
		logger:      logger,
	}
}

// Subscribe registers callback for every future Publish of type E.
// Registering the same callback twice causes it to run twice per event.
// Safe to call from any goroutine, including from inside a callback.
func Subscribe[E any](d *Dispatcher, callback func(E)) {
	var zero E
	t := reflect.TypeOf(zero)

	wrapper := func(v any) {
		callback(v.(E))
	}

	d.mu.Lock()
	d.subscribers[t] = append(d.subscribers[t], wrapper)
	d.mu.Unlock()
}

// Publish invokes every callback registered for type E, in registration
// order, on the calling goroutine. The subscriber list is copied under
// the lock and invoked outside it, so a subscriber that calls Subscribe
// or Publish does not deadlock against this call.
func Publish[E any](d *Dispatcher, event E) {
	t := reflect.TypeOf(event)

	d.mu.Lock()
	callbacks := append([]func(any){}, d.subscribers[t]...)
	d.mu.Unlock()

	for _, cb := range callbacks {
		invoke(d.logger, t, cb, event)
	}
}

// invoke runs a single subscriber callback, recovering and logging any
// panic so that one faulty subscriber cannot stop later subscribers
// from observing the event.
func invoke(logger *zap.Logger, t reflect.Type, cb func(any), event any) {
	defer func() {
		if r := recover(); r != nil {
			if logger != nil {
				logger.Error("subscriber panicked",
					zap.Stringer("event_type", t),
					zap.Any("panic", r),
				)
			}
		}
	}()
	cb(event)
}
