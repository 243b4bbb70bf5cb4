// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package obfuscate defines the source-to-source transform that produces
// obfuscated code, and adapters for invoking it.
package obfuscate

import (
	"context"
	"sync/atomic"
)

// Options is the fixed option record passed to the transform.
type Options struct {
	// Compact emits minimally formatted output.
	Compact bool `yaml:"compact" json:"compact"`
	// ControlFlowFlattening restructures control flow.
	ControlFlowFlattening bool `yaml:"control_flow_flattening" json:"controlFlowFlattening"`
	// DisableConsoleOutput neutralizes console logging calls.
	DisableConsoleOutput bool `yaml:"disable_console_output" json:"disableConsoleOutput"`
}

// DefaultOptions returns compact=false, controlFlowFlattening=true,
// disableConsoleOutput=false.
func DefaultOptions() Options {
	return Options{
		Compact:               false,
		ControlFlowFlattening: true,
		DisableConsoleOutput:  false,
	}
}

// Transformer turns source text into obfuscated text.
type Transformer interface {
	Transform(ctx context.Context, source string, opts Options) (string, error)
}

// TransformerFunc adapts a function to Transformer.
type TransformerFunc func(ctx context.Context, source string, opts Options) (string, error)

// Transform calls f.
func (f TransformerFunc) Transform(ctx context.Context, source string, opts Options) (string, error) {
	return f(ctx, source, opts)
}

// Counting wraps a Transformer and counts invocations.
type Counting struct {
	Next  Transformer
	calls atomic.Int64
}

// NewCounting wraps next.
func NewCounting(next Transformer) *Counting {
	return &Counting{Next: next}
}

// Transform counts the call and delegates.
func (c *Counting) Transform(ctx context.Context, source string, opts Options) (string, error) {
	c.calls.Add(1)
	return c.Next.Transform(ctx, source, opts)
}

// Calls returns the number of Transform invocations so far.
func (c *Counting) Calls() int64 {
	return c.calls.Load()
}
