// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package server exposes the host over HTTP so an out-of-process editor
// can open and close documents, run the obfuscate command and read
// virtual document content. Responses follow JSON-RPC result/error shape.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/preemptive-obfuscator/obfview/pkg/errors"
	"github.com/preemptive-obfuscator/obfview/pkg/extension"
	"github.com/preemptive-obfuscator/obfview/pkg/host"
	"github.com/preemptive-obfuscator/obfview/pkg/location"
	"github.com/preemptive-obfuscator/obfview/pkg/observability"
	"github.com/preemptive-obfuscator/obfview/pkg/version"
)

// JSON-RPC error codes.
const (
	CodeParseError       = -32700
	CodeMethodNotFound   = -32601
	CodeInvalidParams    = -32602
	CodeInternalError    = -32603
	CodeNoSourceDocument = -32001
	CodeTransformFailure = -32002
)

// Server is the HTTP bridge.
type Server struct {
	address string
	host    *host.Host
	ext     *extension.Extension
	log     observability.Logger
	info    *ServerInfo

	// mu stands in for the host's single event thread.
	mu         sync.Mutex
	httpServer *http.Server
}

// NewServer creates a bridge for h with ext activated on it.
func NewServer(address string, h *host.Host, ext *extension.Extension, log observability.Logger) *Server {
	if log == nil {
		log = observability.Nop()
	}
	return &Server{
		address: address,
		host:    h,
		ext:     ext,
		log:     log,
		info: &ServerInfo{
			Name:      "obfview",
			Version:   version.String(),
			SessionID: uuid.New().String(),
			Scheme:    location.Scheme,
			Commands:  h.Commands.List(),
		},
	}
}

// Info returns the server metadata with the open documents and cache
// counters as of now.
func (s *Server) Info() ServerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := *s.info
	info.Commands = s.host.Commands.List()
	docs := s.host.Workspace.Documents()
	info.Documents = make([]DocumentInfo, 0, len(docs))
	for _, doc := range docs {
		info.Documents = append(info.Documents, DocumentInfo{
			URI:      doc.URI(),
			FileName: doc.FileName(),
			ReadOnly: doc.IsReadOnly(),
		})
	}
	info.Cache = s.ext.Provider().Stats()
	return info
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1", s.handleInfo)
	mux.HandleFunc("/v1/documents/open", s.post(s.handleDocumentOpen))
	mux.HandleFunc("/v1/documents/close", s.post(s.handleDocumentClose))
	mux.HandleFunc("/v1/commands/execute", s.post(s.handleCommandExecute))
	mux.HandleFunc("/v1/content/read", s.post(s.handleContentRead))

	return mux
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.ListenAndServe()
	}()

	s.log.Info("bridge listening",
		observability.String("address", s.address),
		observability.String("session", s.info.SessionID))

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return s.httpServer.Shutdown(context.Background())
	}
}

// Stop stops the server.
func (s *Server) Stop() error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(context.Background())
	}
	return nil
}

func (s *Server) post(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

// handleInfo handles server info requests.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := s.Info()
	s.writeResponse(w, &info)
}

// handleDocumentOpen opens a source document and focuses it.
func (s *Server) handleDocumentOpen(w http.ResponseWriter, r *http.Request) {
	var req OpenDocumentParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, CodeParseError, "parse error")
		return
	}
	if req.URI == "" {
		s.writeError(w, CodeInvalidParams, "uri is required")
		return
	}

	s.mu.Lock()
	doc := s.host.Focus(req.URI, req.FileName, req.Text)
	s.mu.Unlock()

	s.log.Debug("document opened", observability.String("uri", req.URI))
	s.writeResponse(w, &DocumentInfo{
		URI:      doc.URI(),
		FileName: doc.FileName(),
		ReadOnly: doc.IsReadOnly(),
	})
}

// handleDocumentClose closes a source or virtual document.
func (s *Server) handleDocumentClose(w http.ResponseWriter, r *http.Request) {
	var req CloseDocumentParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, CodeParseError, "parse error")
		return
	}

	s.mu.Lock()
	closed := s.host.Workspace.CloseDocument(req.URI)
	s.mu.Unlock()

	s.writeResponse(w, map[string]any{
		"uri":    req.URI,
		"closed": closed,
	})
}

// handleCommandExecute runs a command, optionally focusing uri first.
func (s *Server) handleCommandExecute(w http.ResponseWriter, r *http.Request) {
	var req ExecuteCommandParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, CodeParseError, "parse error")
		return
	}
	if req.Command == "" {
		req.Command = extension.CommandObfuscate
	}

	if !s.hasCommand(req.Command) {
		s.writeError(w, CodeMethodNotFound, fmt.Sprintf("command %q not found", req.Command))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.URI != "" {
		if err := s.host.Workspace.SetActive(req.URI); err != nil {
			s.writeFailure(w, err)
			return
		}
	}

	if req.Command != extension.CommandObfuscate {
		if err := s.host.Commands.ExecuteCommand(r.Context(), req.Command); err != nil {
			s.writeFailure(w, err)
			return
		}
		s.writeResponse(w, map[string]any{"command": req.Command})
		return
	}

	pane, err := s.ext.Obfuscate(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeResponse(w, &ViewResult{
		URI:        pane.Document.URI(),
		ViewColumn: pane.ViewColumn,
		Text:       pane.Document.Text(),
	})
}

// handleContentRead provides the content for a synthetic identifier.
func (s *Server) handleContentRead(w http.ResponseWriter, r *http.Request) {
	var req ReadContentParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, CodeParseError, "parse error")
		return
	}

	s.mu.Lock()
	text, err := s.ext.Provider().ProvideContent(r.Context(), req.URI)
	s.mu.Unlock()

	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeResponse(w, &ResourceContent{
		URI:      req.URI,
		MIMEType: "application/javascript",
		Text:     text,
	})
}

// writeResponse writes a JSON-RPC response.
func (s *Server) writeResponse(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"result":  result,
	})
}

// writeFailure maps err onto a JSON-RPC error.
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	s.log.Warn("request failed", observability.Err(err))
	s.writeError(w, errorCode(err), err.Error())
}

// writeError writes a JSON-RPC error response.
func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

func (s *Server) hasCommand(name string) bool {
	for _, c := range s.host.Commands.List() {
		if c == name {
			return true
		}
	}
	return false
}

func errorCode(err error) int {
	typ, ok := errors.TypeOf(err)
	if !ok {
		return CodeInternalError
	}
	switch typ {
	case errors.ErrNoSourceDocument:
		return CodeNoSourceDocument
	case errors.ErrTransform:
		return CodeTransformFailure
	case errors.ErrValidation:
		return CodeInvalidParams
	default:
		return CodeInternalError
	}
}
