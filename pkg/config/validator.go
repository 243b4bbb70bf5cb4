// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"fmt"
	"net"
	"strings"
)

// Validator validates configuration.
type Validator struct{}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates a configuration.
func (v *Validator) Validate(cfg *Config) error {
	if err := v.ValidateTransform(&cfg.Transform); err != nil {
		return err
	}
	if err := v.ValidateServer(&cfg.Server); err != nil {
		return err
	}
	if err := v.ValidateGlobal(&cfg.Global); err != nil {
		return err
	}
	return nil
}

// ValidateTransform validates the transform settings.
func (v *Validator) ValidateTransform(cfg *TransformConfig) error {
	if strings.TrimSpace(cfg.Node) == "" {
		return &ValidationError{
			Field:   "transform.node",
			Message: "must be set",
		}
	}
	if strings.TrimSpace(cfg.Module) == "" {
		return &ValidationError{
			Field:   "transform.module",
			Message: "must be set",
		}
	}
	for _, kv := range cfg.Env {
		if !strings.Contains(kv, "=") {
			return &ValidationError{
				Field:   "transform.env",
				Value:   kv,
				Message: "entries must be KEY=VALUE",
			}
		}
	}
	return nil
}

// ValidateServer validates the HTTP bridge settings.
func (v *Validator) ValidateServer(cfg *ServerConfig) error {
	if _, _, err := net.SplitHostPort(cfg.Address); err != nil {
		return &ValidationError{
			Field:   "server.address",
			Value:   cfg.Address,
			Message: "must be host:port",
		}
	}
	return nil
}

// ValidateGlobal validates global configuration.
func (v *Validator) ValidateGlobal(cfg *GlobalConfig) error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if cfg.LogLevel != "" {
		valid := false
		for _, level := range validLogLevels {
			if strings.EqualFold(cfg.LogLevel, level) {
				valid = true
				break
			}
		}
		if !valid {
			return &ValidationError{
				Field:   "global.log_level",
				Value:   cfg.LogLevel,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(validLogLevels, ", ")),
			}
		}
	}
	return nil
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation error for %s: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}
