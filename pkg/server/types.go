// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package server

import (
	"github.com/preemptive-obfuscator/obfview/pkg/cache"
)

// ServerInfo holds server metadata and a snapshot of host state.
type ServerInfo struct {
	Name      string         `json:"name"`
	Version   string         `json:"version"`
	SessionID string         `json:"sessionId"`
	Scheme    string         `json:"scheme"`
	Commands  []string       `json:"commands"`
	Documents []DocumentInfo `json:"documents"`
	Cache     cache.Stats    `json:"cache"`
}

// OpenDocumentParams opens a source document.
type OpenDocumentParams struct {
	URI      string `json:"uri"`
	FileName string `json:"fileName,omitempty"`
	Text     string `json:"text"`
}

// CloseDocumentParams closes a document.
type CloseDocumentParams struct {
	URI string `json:"uri"`
}

// ExecuteCommandParams runs a command; URI, when set, is focused first.
type ExecuteCommandParams struct {
	Command string `json:"command"`
	URI     string `json:"uri,omitempty"`
}

// ReadContentParams asks for the content of a virtual document.
type ReadContentParams struct {
	URI string `json:"uri"`
}

// DocumentInfo describes an open document.
type DocumentInfo struct {
	URI      string `json:"uri"`
	FileName string `json:"fileName"`
	ReadOnly bool   `json:"readOnly"`
}

// ViewResult is the pane opened by the obfuscate command.
type ViewResult struct {
	URI        string `json:"uri"`
	ViewColumn int    `json:"viewColumn"`
	Text       string `json:"text"`
}

// ResourceContent represents virtual document content.
type ResourceContent struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType"`
	Text     string `json:"text,omitempty"`
}
