// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package provider serves obfuscated virtual documents. Content is
// computed once per identifier, cached, and dropped when the source or
// the virtual document is closed.
package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/preemptive-obfuscator/obfview/pkg/cache"
	"github.com/preemptive-obfuscator/obfview/pkg/errors"
	"github.com/preemptive-obfuscator/obfview/pkg/host"
	"github.com/preemptive-obfuscator/obfview/pkg/location"
	"github.com/preemptive-obfuscator/obfview/pkg/observability"
	"github.com/preemptive-obfuscator/obfview/pkg/obfuscate"
)

// Workspace is the part of the host the provider reads from.
type Workspace interface {
	Document(uri string) (*host.TextDocument, bool)
	OnDidCloseTextDocument(listener func(*host.TextDocument)) host.Disposable
}

// Provider implements host.ContentProvider for location.Scheme.
type Provider struct {
	// mu serializes content requests, close handling and Dispose the way
	// a single host event loop would.
	mu       sync.Mutex
	disposed bool

	ws          Workspace
	transformer obfuscate.Transformer
	opts        obfuscate.Options
	log         observability.Logger

	docs          *cache.Cache[string, *ObfuscatedDocument]
	onDidChange   *host.Emitter[string]
	subscriptions host.Disposable
}

var _ host.ContentProvider = (*Provider)(nil)

// Option configures the Provider.
type Option func(*Provider)

// WithOptions sets the transform options.
func WithOptions(opts obfuscate.Options) Option {
	return func(p *Provider) {
		p.opts = opts
	}
}

// WithLogger sets the logger.
func WithLogger(log observability.Logger) Option {
	return func(p *Provider) {
		if log != nil {
			p.log = log
		}
	}
}

// New creates a provider and subscribes it to ws close events. The
// subscription, cache and change emitter are released together by Dispose.
func New(ws Workspace, t obfuscate.Transformer, options ...Option) *Provider {
	p := &Provider{
		ws:          ws,
		transformer: t,
		opts:        obfuscate.DefaultOptions(),
		log:         observability.Nop(),
		docs:        cache.New[string, *ObfuscatedDocument](),
		onDidChange: host.NewEmitter[string](),
	}
	for _, option := range options {
		option(p)
	}

	p.subscriptions = ws.OnDidCloseTextDocument(func(doc *host.TextDocument) {
		p.SourceClosed(doc.URI())
	})
	return p
}

// ProvideContent returns the obfuscated text for id, computing it on the
// first request. The source document is the one encoded in id.
func (p *Provider) ProvideContent(ctx context.Context, id string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.disposed {
		return "", errors.DisposedError("obfuscated content provider")
	}

	if doc, ok := p.docs.Get(id); ok {
		return doc.Text(ctx)
	}

	loc, err := location.Parse(id)
	if err != nil {
		return "", err
	}
	src, ok := p.ws.Document(loc.Source)
	if !ok {
		return "", errors.NoSourceDocumentError(fmt.Sprintf("source document %s is not open", loc.Source)).
			WithContext("identifier", id)
	}

	doc := NewObfuscatedDocument(id, src, p.transformer, p.opts)
	text, err := doc.Text(ctx)
	if err != nil {
		p.log.Warn("obfuscation failed",
			observability.String("identifier", id),
			observability.String("source", loc.Source),
			observability.Err(err))
		return "", err
	}

	p.docs.Set(id, doc)
	p.log.Debug("obfuscated content cached",
		observability.String("identifier", id),
		observability.Int("bytes", len(text)))
	return text, nil
}

// ProvideTextDocumentContent implements host.ContentProvider.
func (p *Provider) ProvideTextDocumentContent(ctx context.Context, uri string) (string, error) {
	return p.ProvideContent(ctx, uri)
}

// OnDidChange subscribes to content-change notifications. Obfuscated
// output never changes once computed, so nothing is ever fired.
func (p *Provider) OnDidChange(listener func(uri string)) host.Disposable {
	return p.onDidChange.Event(listener)
}

// SourceClosed drops the entry cached under key and every entry computed
// from the source document key. It returns how many entries were removed.
func (p *Provider) SourceClosed(key string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.disposed {
		return 0
	}

	removed := 0
	if p.docs.Delete(key) {
		removed++
	}
	removed += p.docs.DeleteFunc(func(_ string, doc *ObfuscatedDocument) bool {
		return doc.Source() == key
	})

	if removed > 0 {
		p.log.Debug("obfuscated content invalidated",
			observability.String("closed", key),
			observability.Int("removed", removed))
	}
	return removed
}

// Has reports whether content for id is cached.
func (p *Provider) Has(id string) bool {
	return p.docs.Contains(id)
}

// Len returns the number of cached documents.
func (p *Provider) Len() int {
	return p.docs.Len()
}

// Stats returns cache statistics.
func (p *Provider) Stats() cache.Stats {
	return p.docs.Stats()
}

// Dispose releases the close subscription, empties the cache and closes
// the change emitter. Later calls are no-ops.
func (p *Provider) Dispose() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.disposed {
		return nil
	}
	p.disposed = true

	err := host.From(p.subscriptions, p.onDidChange).Dispose()
	p.docs.Close()
	return err
}
