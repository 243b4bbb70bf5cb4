// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package host

import "sync"

// Emitter is a typed event source. Listeners subscribe with Event and are
// called synchronously, in subscription order, by Fire.
type Emitter[T any] struct {
	mu        sync.Mutex
	next      int
	order     []int
	listeners map[int]func(T)
	disposed  bool
}

// NewEmitter creates an emitter with no listeners.
func NewEmitter[T any]() *Emitter[T] {
	return &Emitter[T]{
		listeners: make(map[int]func(T)),
	}
}

// Event subscribes listener. After the emitter is disposed the returned
// Disposable is inert and the listener is never called.
func (e *Emitter[T]) Event(listener func(T)) Disposable {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disposed || listener == nil {
		return Nop
	}
	id := e.next
	e.next++
	e.listeners[id] = listener
	e.order = append(e.order, id)

	return NewDisposable(func() error {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners, id)
		return nil
	})
}

// Fire delivers v to every current listener. No-op once disposed.
func (e *Emitter[T]) Fire(v T) {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	live := e.order[:0]
	fns := make([]func(T), 0, len(e.listeners))
	for _, id := range e.order {
		if fn, ok := e.listeners[id]; ok {
			live = append(live, id)
			fns = append(fns, fn)
		}
	}
	e.order = live
	e.mu.Unlock()

	// listeners may subscribe, unsubscribe or fire again
	for _, fn := range fns {
		fn(v)
	}
}

// ListenerCount returns the number of live listeners.
func (e *Emitter[T]) ListenerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Dispose drops all listeners and stops further delivery.
func (e *Emitter[T]) Dispose() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.disposed = true
	e.listeners = make(map[int]func(T))
	e.order = nil
	return nil
}

// Disposed reports whether Dispose has been called.
func (e *Emitter[T]) Disposed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disposed
}
