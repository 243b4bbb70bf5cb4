// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package main provides the obfview CLI application.
package main

import (
	"github.com/spf13/cobra"

	"github.com/preemptive-obfuscator/obfview/pkg/config"
	"github.com/preemptive-obfuscator/obfview/pkg/extension"
	"github.com/preemptive-obfuscator/obfview/pkg/host"
	"github.com/preemptive-obfuscator/obfview/pkg/obfuscate"
	"github.com/preemptive-obfuscator/obfview/pkg/observability"
	"github.com/preemptive-obfuscator/obfview/pkg/version"
)

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "obfview",
	Short: "Obfuscated JavaScript viewer",
	Long: `obfview shows what JavaScript source looks like after it has been run
through javascript-obfuscator, without writing anything to disk.

Each view is a read-only virtual document opened beside its source.`,
	Version:       version.FullString(),
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.obfview/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// app is one activated host.
type app struct {
	cfg  *config.Config
	log  observability.Logger
	host *host.Host
	ext  *extension.Extension
}

// loadConfig reads the layered configuration with flag overrides on top.
func loadConfig() (*config.Config, error) {
	loader := config.NewLoader()
	if root, err := config.DetectProjectRoot(); err == nil {
		loader = loader.WithProjectRoot(root)
	}
	if cfgFile != "" {
		loader = loader.WithFile(cfgFile)
	}
	return loader.WithLogLevel(logLevel).Load()
}

// newApp activates the extension on a fresh host.
func newApp(cfg *config.Config, log observability.Logger, t obfuscate.Transformer) (*app, error) {
	h := host.New()
	ext, err := extension.Activate(h, t,
		extension.WithTransformOptions(cfg.Obfuscator),
		extension.WithLogger(log))
	if err != nil {
		_ = h.Dispose()
		return nil, err
	}
	return &app{cfg: cfg, log: log, host: h, ext: ext}, nil
}

// setup loads configuration and starts an app backed by node.
func setup() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := observability.NewLogger(cfg.Global.LogLevel)

	t := obfuscate.NewCommandTransformer(cfg.Transform.Node, cfg.Transform.Module)
	t.Env = cfg.Transform.Env
	return newApp(cfg, log, t)
}

func (a *app) Close() error {
	err := a.ext.Dispose()
	if herr := a.host.Dispose(); err == nil {
		err = herr
	}
	return err
}
