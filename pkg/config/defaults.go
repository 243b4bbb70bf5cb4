// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"os"
	"path/filepath"

	"github.com/preemptive-obfuscator/obfview/pkg/obfuscate"
)

// DefaultConfig returns the default configuration.
// These values are used when no config file is present.
func DefaultConfig() *Config {
	return &Config{
		Obfuscator: obfuscate.DefaultOptions(),
		Transform:  DefaultTransformConfig(),
		Server: ServerConfig{
			Address: "127.0.0.1:8765",
		},
		Global: GlobalConfig{
			LogLevel: "info",
		},
	}
}

// DefaultTransformConfig returns the default transform settings.
func DefaultTransformConfig() TransformConfig {
	return TransformConfig{
		Node:   "node",
		Module: "javascript-obfuscator",
	}
}

// GetDefaultConfigPath returns the default global config file path.
func GetDefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, GlobalConfigDir, GlobalConfigFile)
}

// GetProjectConfigPath returns the project config file path.
func GetProjectConfigPath(projectRoot string) string {
	if projectRoot == "" {
		projectRoot = "."
	}
	return filepath.Join(projectRoot, ProjectConfigFile)
}
