// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package obfuscate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/preemptive-obfuscator/obfview/pkg/errors"
)

// nodeScript reads the source from stdin, the options from argv and
// prints the obfuscated code.
const nodeScript = `
const obfuscator = require(process.argv[1]);
const options = JSON.parse(process.argv[2]);
let source = '';
process.stdin.setEncoding('utf8');
process.stdin.on('data', chunk => { source += chunk; });
process.stdin.on('end', () => {
  process.stdout.write(obfuscator.obfuscate(source, options).getObfuscatedCode());
});
`

// CommandTransformer runs the javascript-obfuscator package under Node.
// Nothing is written to disk: source goes through stdin and the result
// comes back on stdout.
type CommandTransformer struct {
	// Node is the node executable.
	Node string
	// Module is the package name or path passed to require.
	Module string
	// Env is appended to the inherited environment.
	Env []string
}

// NewCommandTransformer creates a transformer using node and module,
// falling back to "node" and "javascript-obfuscator".
func NewCommandTransformer(node, module string) *CommandTransformer {
	if node == "" {
		node = "node"
	}
	if module == "" {
		module = "javascript-obfuscator"
	}
	return &CommandTransformer{Node: node, Module: module}
}

// Args returns the node arguments for opts.
func (c *CommandTransformer) Args(opts Options) ([]string, error) {
	encoded, err := json.Marshal(opts)
	if err != nil {
		return nil, err
	}
	return []string{"-e", nodeScript, c.Module, string(encoded)}, nil
}

// Transform runs the obfuscator once. The process is killed if ctx is
// cancelled; there is no timeout of its own.
func (c *CommandTransformer) Transform(ctx context.Context, source string, opts Options) (string, error) {
	args, err := c.Args(opts)
	if err != nil {
		return "", errors.TransformError("encode obfuscator options", err)
	}

	cmd := exec.CommandContext(ctx, c.Node, args...)
	cmd.Stdin = strings.NewReader(source)
	if len(c.Env) > 0 {
		cmd.Env = append(cmd.Environ(), c.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "obfuscator exited abnormally"
		}
		return "", errors.TransformError(fmt.Sprintf("%s: %s", c.Node, firstLine(msg)), err)
	}
	return stdout.String(), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
