// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package host is an in-process editor host: it tracks open documents,
// resolves virtual documents through registered content providers, records
// window panes and dispatches editor commands.
package host

import (
	"context"
	"strings"
	"sync"
)

// SourceDocument is the read-only view of a document that content
// providers consume.
type SourceDocument interface {
	// URI is the stable key the host knows the document by.
	URI() string
	// FileName is the path-like name of the document.
	FileName() string
	// Text returns the current content.
	Text() string
}

// ContentProvider resolves virtual documents for one scheme.
type ContentProvider interface {
	ProvideTextDocumentContent(ctx context.Context, uri string) (string, error)
	// OnDidChange subscribes to notifications that a previously provided
	// uri has new content.
	OnDidChange(listener func(uri string)) Disposable
}

// TextDocument is a document open in the host.
type TextDocument struct {
	mu       sync.RWMutex
	uri      string
	fileName string
	text     string
	readOnly bool
}

var _ SourceDocument = (*TextDocument)(nil)

// URI returns the document key.
func (d *TextDocument) URI() string { return d.uri }

// FileName returns the path-like name of the document.
func (d *TextDocument) FileName() string { return d.fileName }

// Text returns the current content.
func (d *TextDocument) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}

// IsReadOnly reports whether the document is a virtual, provider-backed one.
func (d *TextDocument) IsReadOnly() bool { return d.readOnly }

func (d *TextDocument) setText(text string) {
	d.mu.Lock()
	d.text = text
	d.mu.Unlock()
}

// SchemeOf returns the scheme part of uri, or "" when uri has none.
// Single-letter prefixes are treated as drive letters, not schemes.
func SchemeOf(uri string) string {
	i := strings.IndexByte(uri, ':')
	if i < 2 {
		return ""
	}
	for j, r := range uri[:i] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case j > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return ""
		}
	}
	return uri[:i]
}
