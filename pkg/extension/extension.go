// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package extension wires the obfuscated content provider and the
// obfuscate command into a host.
package extension

import (
	"context"
	"sync"

	"github.com/preemptive-obfuscator/obfview/pkg/host"
	"github.com/preemptive-obfuscator/obfview/pkg/location"
	"github.com/preemptive-obfuscator/obfview/pkg/observability"
	"github.com/preemptive-obfuscator/obfview/pkg/obfuscate"
	"github.com/preemptive-obfuscator/obfview/pkg/provider"
)

// CommandObfuscate opens an obfuscated view of the focused document next
// to it.
const CommandObfuscate = "preemptiveObfuscator.obfuscate"

// Extension is an activated obfuscator.
type Extension struct {
	host     *host.Host
	provider *provider.Provider
	log      observability.Logger

	mu   sync.Mutex
	last host.Editor

	subscriptions host.Disposable
}

type settings struct {
	opts obfuscate.Options
	log  observability.Logger
}

// Option configures activation.
type Option func(*settings)

// WithTransformOptions overrides the default transform options.
func WithTransformOptions(opts obfuscate.Options) Option {
	return func(s *settings) {
		s.opts = opts
	}
}

// WithLogger sets the logger.
func WithLogger(log observability.Logger) Option {
	return func(s *settings) {
		if log != nil {
			s.log = log
		}
	}
}

// Activate registers the provider for location.Scheme and the
// CommandObfuscate command with h.
func Activate(h *host.Host, t obfuscate.Transformer, options ...Option) (*Extension, error) {
	s := settings{opts: obfuscate.DefaultOptions(), log: observability.Nop()}
	for _, option := range options {
		option(&s)
	}

	p := provider.New(h.Workspace, t,
		provider.WithOptions(s.opts),
		provider.WithLogger(s.log.With(observability.String("component", "provider"))))

	e := &Extension{host: h, provider: p, log: s.log}

	registration, err := h.Workspace.RegisterTextDocumentContentProvider(location.Scheme, p)
	if err != nil {
		_ = p.Dispose()
		return nil, err
	}
	command, err := h.Commands.RegisterTextEditorCommand(CommandObfuscate, e.obfuscate)
	if err != nil {
		_ = host.From(registration, p).Dispose()
		return nil, err
	}

	e.subscriptions = host.From(registration, command, p)
	s.log.Debug("obfuscator activated", observability.String("scheme", location.Scheme))
	return e, nil
}

// Provider returns the content provider backing the virtual documents.
func (e *Extension) Provider() *provider.Provider {
	return e.provider
}

// Obfuscate runs CommandObfuscate on the focused editor and returns the
// pane it opened.
func (e *Extension) Obfuscate(ctx context.Context) (host.Editor, error) {
	if err := e.host.Commands.ExecuteCommand(ctx, CommandObfuscate); err != nil {
		return host.Editor{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last, nil
}

// Dispose unregisters the command and provider and tears the provider down.
func (e *Extension) Dispose() error {
	return e.subscriptions.Dispose()
}

func (e *Extension) obfuscate(ctx context.Context, editor host.Editor) error {
	uri := location.EncodeDocument(editor.Document)

	doc, err := e.host.Workspace.OpenTextDocument(ctx, uri)
	if err != nil {
		e.log.Error("cannot open obfuscated view",
			observability.String("source", editor.Document.URI()),
			observability.Err(err))
		return err
	}

	pane := e.host.Window.ShowTextDocument(doc, editor.ViewColumn+1)
	e.log.Info("obfuscated view opened",
		observability.String("source", editor.Document.URI()),
		observability.String("identifier", uri),
		observability.Int("column", pane.ViewColumn))

	e.mu.Lock()
	e.last = pane
	e.mu.Unlock()
	return nil
}
