// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package config provides configuration management for obfview.
//
// Configuration Loading Order (later overrides earlier):
// 1. Defaults (hardcoded)
// 2. Global Config: $HOME/.obfview/config.yaml
// 3. Project Config: ./.obfview.yaml
// 4. Explicit file passed with --config
// 5. Environment Variables: OBFVIEW_*
package config

import (
	"github.com/preemptive-obfuscator/obfview/pkg/obfuscate"
)

// Config represents the complete application configuration.
type Config struct {
	Obfuscator obfuscate.Options `yaml:"obfuscator"`
	Transform  TransformConfig   `yaml:"transform"`
	Server     ServerConfig      `yaml:"server"`
	Global     GlobalConfig      `yaml:"global"`
}

// TransformConfig selects how the javascript-obfuscator package is run.
type TransformConfig struct {
	Node   string   `yaml:"node"`          // node executable
	Module string   `yaml:"module"`        // package name or path for require()
	Env    []string `yaml:"env,omitempty"` // extra KEY=VALUE pairs, e.g. NODE_PATH
}

// ServerConfig contains HTTP bridge settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// GlobalConfig contains global application settings.
type GlobalConfig struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
}
