// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	obferrors "github.com/preemptive-obfuscator/obfview/pkg/errors"
)

const (
	// EnvPrefix is the prefix for all environment variables.
	EnvPrefix = "OBFVIEW"
	// ProjectConfigFile is the project-level config file name.
	ProjectConfigFile = ".obfview.yaml"
	// GlobalConfigDir is the global config directory name.
	GlobalConfigDir = ".obfview"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Loader loads configuration from files and environment.
type Loader struct {
	projectRoot string
	explicit    string
	skipGlobal  bool
	logLevel    string
	getenv      func(string) string
}

// NewLoader creates a new config loader.
func NewLoader() *Loader {
	return &Loader{getenv: os.Getenv}
}

// WithProjectRoot sets the project root directory.
func (l *Loader) WithProjectRoot(root string) *Loader {
	l.projectRoot = root
	return l
}

// WithFile adds an explicit config file; unlike the global and project
// files it must exist.
func (l *Loader) WithFile(path string) *Loader {
	l.explicit = path
	return l
}

// SkipGlobal skips loading global config.
func (l *Loader) SkipGlobal() *Loader {
	l.skipGlobal = true
	return l
}

// WithLogLevel overrides global.log_level after files and environment are
// applied. The value is validated like any other.
func (l *Loader) WithLogLevel(level string) *Loader {
	l.logLevel = level
	return l
}

// WithEnv replaces the environment lookup, mainly for tests.
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	l.getenv = getenv
	return l
}

// Load loads configuration with full precedence order and validates it.
// Each file only overrides the keys it sets.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if !l.skipGlobal {
		if err := mergeFile(cfg, GetDefaultConfigPath(), true); err != nil {
			return nil, err
		}
	}
	if err := mergeFile(cfg, GetProjectConfigPath(l.projectRoot), true); err != nil {
		return nil, err
	}
	if l.explicit != "" {
		if err := mergeFile(cfg, l.explicit, false); err != nil {
			return nil, err
		}
	}

	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if l.logLevel != "" {
		cfg.Global.LogLevel = l.logLevel
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, obferrors.ConfigError("config validation failed", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path on top of the
// defaults, without environment overrides or validation.
func (l *Loader) LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := mergeFile(cfg, path, false); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string, optional bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return obferrors.ConfigError(fmt.Sprintf("failed to read config file: %s", path), err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return obferrors.ConfigError(fmt.Sprintf("failed to parse config file: %s", path), err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (l *Loader) applyEnvOverrides(cfg *Config) error {
	if v := l.env("LOG_LEVEL"); v != "" {
		cfg.Global.LogLevel = v
	}
	if v := l.env("NODE"); v != "" {
		cfg.Transform.Node = v
	}
	if v := l.env("MODULE"); v != "" {
		cfg.Transform.Module = v
	}
	if v := l.env("SERVER_ADDR"); v != "" {
		cfg.Server.Address = v
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"COMPACT", &cfg.Obfuscator.Compact},
		{"CONTROL_FLOW_FLATTENING", &cfg.Obfuscator.ControlFlowFlattening},
		{"DISABLE_CONSOLE_OUTPUT", &cfg.Obfuscator.DisableConsoleOutput},
	}
	for _, f := range flags {
		v := l.env(f.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return obferrors.ConfigError(fmt.Sprintf("invalid boolean in %s_%s", EnvPrefix, f.name), err)
		}
		*f.dst = b
	}
	return nil
}

func (l *Loader) env(key string) string {
	return l.getenv(EnvPrefix + "_" + key)
}

// DetectProjectRoot finds the project root by looking for the config file.
func DetectProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return ".", nil
		}
		dir = parent
	}
}
