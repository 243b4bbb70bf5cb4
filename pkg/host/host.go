// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package host

// Host bundles the workspace, window and command registry.
type Host struct {
	Workspace *Workspace
	Window    *Window
	Commands  *Commands

	panes Disposable
}

// New creates an empty host. Closing a document also removes its panes.
func New() *Host {
	h := &Host{
		Workspace: NewWorkspace(),
		Window:    NewWindow(),
	}
	h.Commands = NewCommands(h.ActiveEditor)
	h.panes = h.Workspace.OnDidCloseTextDocument(func(doc *TextDocument) {
		h.Window.closeDocument(doc.URI())
	})
	return h
}

// ActiveEditor returns the focused document together with the column it
// is shown in. A focused document without a pane is in column 1.
func (h *Host) ActiveEditor() (Editor, bool) {
	doc, ok := h.Workspace.ActiveDocument()
	if !ok {
		return Editor{}, false
	}
	column, shown := h.Window.ColumnOf(doc.URI())
	if !shown {
		column = 1
	}
	return Editor{Document: doc, ViewColumn: column}, true
}

// Focus opens a source document, focuses it and shows it in column 1.
func (h *Host) Focus(uri, fileName, text string) *TextDocument {
	doc := h.Workspace.OpenSource(uri, fileName, text)
	_ = h.Workspace.SetActive(uri)
	h.Window.ShowTextDocument(doc, 1)
	return doc
}

// Dispose tears down host-level subscriptions.
func (h *Host) Dispose() error {
	return From(h.panes, h.Workspace).Dispose()
}
