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

// TextEditorCommand runs against the focused editor.
type TextEditorCommand func(ctx context.Context, editor Editor) error

// Commands is the command registry.
type Commands struct {
	mu       sync.RWMutex
	commands map[string]TextEditorCommand
	active   func() (Editor, bool)
}

// NewCommands creates a registry that resolves the focused editor with active.
func NewCommands(active func() (Editor, bool)) *Commands {
	return &Commands{
		commands: make(map[string]TextEditorCommand),
		active:   active,
	}
}

// RegisterTextEditorCommand registers fn under name.
func (c *Commands) RegisterTextEditorCommand(name string, fn TextEditorCommand) (Disposable, error) {
	if name == "" || fn == nil {
		return nil, errors.ValidationError("command name and handler are required", nil)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.commands[name]; exists {
		return nil, errors.ValidationError(fmt.Sprintf("command %q already registered", name), nil)
	}
	c.commands[name] = fn

	return NewDisposable(func() error {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.commands, name)
		return nil
	}), nil
}

// ExecuteCommand runs name against the focused editor. Without a focused
// editor the command fails with a NoSourceDocument error.
func (c *Commands) ExecuteCommand(ctx context.Context, name string) error {
	c.mu.RLock()
	fn, ok := c.commands[name]
	c.mu.RUnlock()

	if !ok {
		return errors.ValidationError(fmt.Sprintf("command %q not found", name), nil)
	}

	editor, ok := c.active()
	if !ok {
		return errors.NoSourceDocumentError(fmt.Sprintf("command %q needs an active editor", name))
	}
	return fn(ctx, editor)
}

// List returns the registered command names, sorted.
func (c *Commands) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
