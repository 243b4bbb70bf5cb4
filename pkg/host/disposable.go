// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package host

import (
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Disposable is a resource that is released by calling Dispose.
type Disposable interface {
	Dispose() error
}

// DisposableFunc adapts a function to Disposable.
// Unlike NewDisposable it does not guard against repeated calls.
type DisposableFunc func() error

// Dispose calls f.
func (f DisposableFunc) Dispose() error {
	if f == nil {
		return nil
	}
	return f()
}

// onceDisposable runs its release function at most once.
type onceDisposable struct {
	once sync.Once
	fn   func() error
	err  error
}

// NewDisposable returns a Disposable that calls fn on the first Dispose only.
func NewDisposable(fn func() error) Disposable {
	return &onceDisposable{fn: fn}
}

func (d *onceDisposable) Dispose() error {
	d.once.Do(func() {
		if d.fn != nil {
			d.err = d.fn()
		}
	})
	return d.err
}

// Nop is an inert Disposable.
var Nop Disposable = DisposableFunc(nil)

// From joins disposables into one. Disposing it releases every member in
// registration order, once, and reports all failures together.
func From(disposables ...Disposable) Disposable {
	members := make([]Disposable, 0, len(disposables))
	for _, d := range disposables {
		if d != nil {
			members = append(members, d)
		}
	}
	return NewDisposable(func() error {
		var result *multierror.Error
		for _, d := range members {
			if err := d.Dispose(); err != nil {
				result = multierror.Append(result, err)
			}
		}
		return result.ErrorOrNil()
	})
}
