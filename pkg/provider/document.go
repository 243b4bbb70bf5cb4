// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package provider

import (
	"context"
	"strings"
	"sync"

	"github.com/preemptive-obfuscator/obfview/pkg/errors"
	"github.com/preemptive-obfuscator/obfview/pkg/host"
	"github.com/preemptive-obfuscator/obfview/pkg/obfuscate"
)

// ObfuscatedDocument is the obfuscated rendition of one source document
// under one identifier. Its text is computed on first use and then reused.
type ObfuscatedDocument struct {
	id          string
	source      host.SourceDocument
	transformer obfuscate.Transformer
	opts        obfuscate.Options

	mu       sync.Mutex
	text     string
	computed bool
}

// NewObfuscatedDocument prepares the document; nothing is computed yet.
func NewObfuscatedDocument(id string, source host.SourceDocument, t obfuscate.Transformer, opts obfuscate.Options) *ObfuscatedDocument {
	return &ObfuscatedDocument{
		id:          id,
		source:      source,
		transformer: t,
		opts:        opts,
	}
}

// ID returns the identifier the document was requested under.
func (d *ObfuscatedDocument) ID() string { return d.id }

// Source returns the key of the originating document.
func (d *ObfuscatedDocument) Source() string { return d.source.URI() }

// Computed reports whether Text has succeeded at least once.
func (d *ObfuscatedDocument) Computed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.computed
}

// Text returns the provenance line followed by the obfuscated source.
// A failed transform leaves the document uncomputed.
func (d *ObfuscatedDocument) Text(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.computed {
		return d.text, nil
	}

	out, err := d.transformer.Transform(ctx, d.source.Text(), d.opts)
	if err != nil {
		if errors.IsType(err, errors.ErrTransform) {
			return "", err
		}
		return "", errors.TransformError("obfuscate "+d.source.FileName(), err)
	}

	d.text = ProvenanceHeader(ProvenanceFileName(d.source.FileName())) + out
	d.computed = true
	return d.text, nil
}

// ProvenanceFileName normalizes separators to "/" and returns the last
// path segment.
func ProvenanceFileName(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// ProvenanceHeader is the comment line naming the originating file,
// followed by a blank line.
func ProvenanceHeader(fileName string) string {
	return "// This is the obfuscated version of " + fileName + "\n\n"
}
