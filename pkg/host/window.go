// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package host

import "sync"

// Editor is a document shown in a view column.
type Editor struct {
	Document   *TextDocument
	ViewColumn int
}

// Window records the panes the host is displaying.
type Window struct {
	mu    sync.RWMutex
	panes []Editor
}

// NewWindow creates a window with no panes.
func NewWindow() *Window {
	return &Window{}
}

// ShowTextDocument shows doc in column, replacing whatever that column
// displayed. Columns start at 1.
func (w *Window) ShowTextDocument(doc *TextDocument, column int) Editor {
	if column < 1 {
		column = 1
	}
	editor := Editor{Document: doc, ViewColumn: column}

	w.mu.Lock()
	defer w.mu.Unlock()
	for i, p := range w.panes {
		if p.ViewColumn == column {
			w.panes[i] = editor
			return editor
		}
	}
	w.panes = append(w.panes, editor)
	return editor
}

// Panes returns the visible editors in the order they were opened.
func (w *Window) Panes() []Editor {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Editor, len(w.panes))
	copy(out, w.panes)
	return out
}

// ColumnOf returns the column showing uri.
func (w *Window) ColumnOf(uri string) (int, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, p := range w.panes {
		if p.Document.URI() == uri {
			return p.ViewColumn, true
		}
	}
	return 0, false
}

// closeDocument drops every pane showing uri.
func (w *Window) closeDocument(uri string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	kept := w.panes[:0]
	for _, p := range w.panes {
		if p.Document.URI() != uri {
			kept = append(kept, p)
		}
	}
	w.panes = kept
}
