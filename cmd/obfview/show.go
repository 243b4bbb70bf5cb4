// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/preemptive-obfuscator/obfview/pkg/observability"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show FILE...",
	Short: "Print the obfuscated view of each file",
	Long: `Open each file as the focused editor, run the obfuscate command and
print the virtual document it produces. Every file gets a fresh view.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.show(cmd.Context(), cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// show obfuscates files in order. A failing file does not stop the rest.
func (a *app) show(ctx context.Context, out io.Writer, files []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var result error
	for _, file := range files {
		if err := a.showFile(ctx, out, file); err != nil {
			a.log.Error("show failed", observability.String("file", file), observability.Err(err))
			result = multierror.Append(result, fmt.Errorf("%s: %w", file, err))
		}
	}
	return result
}

func (a *app) showFile(ctx context.Context, out io.Writer, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	path, err := filepath.Abs(file)
	if err != nil {
		return err
	}

	a.host.Focus(path, path, string(data))
	pane, err := a.ext.Obfuscate(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "==> %s (column %d) <==\n", pane.Document.URI(), pane.ViewColumn)
	fmt.Fprintln(out, pane.Document.Text())
	return nil
}
