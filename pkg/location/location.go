// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package location encodes source documents as synthetic identifiers of
// the form
//
//	<scheme>:<label>?<json-encoded-source-key>#<sequence>
//
// The key is percent-escaped before JSON encoding so that keys which are
// not valid UTF-8 survive the round trip.
//
// The sequence comes from a process-wide counter, so every call yields a
// new identifier even for the same source.
package location

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/preemptive-obfuscator/obfview/pkg/errors"
	"github.com/preemptive-obfuscator/obfview/pkg/host"
)

const (
	// Scheme routes identifiers to the obfuscated content provider.
	Scheme = "javascript"
	// Label is the display name of every obfuscated view.
	Label = "Obfuscated.js"
)

// seq starts at 0 with the process. Only next touches it.
var seq atomic.Uint64

func next() uint64 {
	return seq.Add(1) - 1
}

// Location is a decoded identifier.
type Location struct {
	Scheme string
	Label  string
	Source string
	Seq    uint64
}

// String encodes l. Parse(l.String()) returns l.
func (l Location) String() string {
	query, _ := json.Marshal(url.PathEscape(l.Source))
	return fmt.Sprintf("%s:%s?%s#%d", l.Scheme, l.Label, query, l.Seq)
}

// Encode returns a fresh identifier for the source key.
func Encode(source string) string {
	return Location{
		Scheme: Scheme,
		Label:  Label,
		Source: source,
		Seq:    next(),
	}.String()
}

// EncodeDocument returns a fresh identifier for doc.
func EncodeDocument(doc host.SourceDocument) string {
	return Encode(doc.URI())
}

// Parse decodes an identifier produced by Encode.
func Parse(id string) (Location, error) {
	invalid := func(msg string, cause error) (Location, error) {
		return Location{}, errors.ValidationError(msg, cause).WithContext("identifier", id)
	}

	scheme, rest, ok := strings.Cut(id, ":")
	if !ok || scheme != Scheme {
		return invalid(fmt.Sprintf("identifier scheme must be %q", Scheme), nil)
	}

	hash := strings.LastIndexByte(rest, '#')
	if hash < 0 {
		return invalid("identifier has no sequence fragment", nil)
	}
	n, err := strconv.ParseUint(rest[hash+1:], 10, 64)
	if err != nil {
		return invalid("identifier sequence is not a number", err)
	}

	label, query, ok := strings.Cut(rest[:hash], "?")
	if !ok {
		return invalid("identifier has no source query", nil)
	}
	var escaped string
	if err := json.Unmarshal([]byte(query), &escaped); err != nil {
		return invalid("identifier source query is not a JSON string", err)
	}
	source, err := url.PathUnescape(escaped)
	if err != nil {
		return invalid("identifier source query is not percent-encoded", err)
	}

	return Location{Scheme: scheme, Label: label, Source: source, Seq: n}, nil
}
