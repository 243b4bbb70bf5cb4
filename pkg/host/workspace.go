// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package host

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/preemptive-obfuscator/obfview/pkg/errors"
)

// Workspace holds the open documents and the content-provider registry.
type Workspace struct {
	mu        sync.RWMutex
	docs      map[string]*TextDocument
	providers map[string]ContentProvider
	active    string

	onDidClose *Emitter[*TextDocument]
}

// NewWorkspace creates an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{
		docs:       make(map[string]*TextDocument),
		providers:  make(map[string]ContentProvider),
		onDidClose: NewEmitter[*TextDocument](),
	}
}

// OpenSource opens (or updates) a writable source document. An empty
// fileName defaults to uri. A read-only virtual document open under uri is
// closed first, so its close listeners run before it is replaced.
func (w *Workspace) OpenSource(uri, fileName, text string) *TextDocument {
	if fileName == "" {
		fileName = uri
	}

	w.mu.Lock()
	existing, ok := w.docs[uri]
	if ok && !existing.readOnly {
		existing.setText(text)
		w.mu.Unlock()
		return existing
	}
	doc := &TextDocument{uri: uri, fileName: fileName, text: text}
	w.docs[uri] = doc
	w.mu.Unlock()

	if ok {
		w.onDidClose.Fire(existing)
	}
	return doc
}

// Document looks up an open document by uri.
func (w *Workspace) Document(uri string) (*TextDocument, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	doc, ok := w.docs[uri]
	return doc, ok
}

// Documents returns the open documents sorted by uri.
func (w *Workspace) Documents() []*TextDocument {
	w.mu.RLock()
	defer w.mu.RUnlock()

	docs := make([]*TextDocument, 0, len(w.docs))
	for _, doc := range w.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].uri < docs[j].uri })
	return docs
}

// CloseDocument closes uri and notifies OnDidCloseTextDocument listeners.
// It reports whether the document was open.
func (w *Workspace) CloseDocument(uri string) bool {
	w.mu.Lock()
	doc, ok := w.docs[uri]
	if ok {
		delete(w.docs, uri)
		if w.active == uri {
			w.active = ""
		}
	}
	w.mu.Unlock()

	if ok {
		w.onDidClose.Fire(doc)
	}
	return ok
}

// OnDidCloseTextDocument subscribes to document close events. Both source
// and virtual documents are reported.
func (w *Workspace) OnDidCloseTextDocument(listener func(*TextDocument)) Disposable {
	return w.onDidClose.Event(listener)
}

// RegisterTextDocumentContentProvider makes p the resolver for scheme.
// When p reports a change for an open virtual document, its content is
// requested again.
func (w *Workspace) RegisterTextDocumentContentProvider(scheme string, p ContentProvider) (Disposable, error) {
	if scheme == "" {
		return nil, errors.ValidationError("content provider scheme must not be empty", nil)
	}
	if p == nil {
		return nil, errors.ValidationError("content provider must not be nil", nil)
	}

	w.mu.Lock()
	if _, exists := w.providers[scheme]; exists {
		w.mu.Unlock()
		return nil, errors.ValidationError(fmt.Sprintf("content provider already registered for scheme %q", scheme), nil)
	}
	w.providers[scheme] = p
	w.mu.Unlock()

	changes := p.OnDidChange(func(uri string) {
		w.refresh(context.Background(), uri)
	})

	return From(changes, NewDisposable(func() error {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.providers[scheme] == p {
			delete(w.providers, scheme)
		}
		return nil
	})), nil
}

// OpenTextDocument returns the document for uri, opening it through the
// content provider registered for its scheme when it is not open yet.
func (w *Workspace) OpenTextDocument(ctx context.Context, uri string) (*TextDocument, error) {
	w.mu.RLock()
	doc, ok := w.docs[uri]
	p := w.providers[SchemeOf(uri)]
	w.mu.RUnlock()

	if ok {
		return doc, nil
	}
	if p == nil {
		return nil, errors.NoSourceDocumentError(fmt.Sprintf("document %s is not open and no content provider handles it", uri))
	}

	text, err := p.ProvideTextDocumentContent(ctx, uri)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if existing, ok := w.docs[uri]; ok {
		return existing, nil
	}
	doc = &TextDocument{uri: uri, fileName: uri, text: text, readOnly: true}
	w.docs[uri] = doc
	return doc, nil
}

// SetActive focuses an open document.
func (w *Workspace) SetActive(uri string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.docs[uri]; !ok {
		return errors.NoSourceDocumentError(fmt.Sprintf("document %s is not open", uri))
	}
	w.active = uri
	return nil
}

// ActiveDocument returns the focused document, if any.
func (w *Workspace) ActiveDocument() (*TextDocument, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.active == "" {
		return nil, false
	}
	doc, ok := w.docs[w.active]
	return doc, ok
}

// Dispose drops close listeners. Documents stay readable.
func (w *Workspace) Dispose() error {
	return w.onDidClose.Dispose()
}

func (w *Workspace) refresh(ctx context.Context, uri string) {
	w.mu.RLock()
	doc, ok := w.docs[uri]
	p := w.providers[SchemeOf(uri)]
	w.mu.RUnlock()

	if !ok || !doc.readOnly || p == nil {
		return
	}
	if text, err := p.ProvideTextDocumentContent(ctx, uri); err == nil {
		doc.setText(text)
	}
}
