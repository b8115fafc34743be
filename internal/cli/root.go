// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package cli implements the receiptguard command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"fillmore-labs.com/receiptguard/internal/logger"
	"fillmore-labs.com/receiptguard/internal/settings"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitReview = 1 // NEEDS_REVIEW with --fail-on-review
	ExitBlock  = 2 // BLOCK
	ExitError  = 3
)

// exitError carries an exit code without a message.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// globals are the persistent flags shared by all commands.
type globals struct {
	configFile string
	logLevel   string
	logJSON    bool
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)

	var exit exitError
	switch {
	case err == nil:
		return ExitOK

	case errors.As(err, &exit):
		return exit.code

	default:
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)

		return ExitError
	}
}

// NewRootCmd creates the receiptguard command tree.
func NewRootCmd() *cobra.Command {
	var g globals

	root := &cobra.Command{
		Use:           "receiptguard [command]",
		Short:         "receiptguard checks AI agent code for unverifiable tool calls.",
		Long: `receiptguard analyzes JavaScript, TypeScript and Python programs that call tools,
language models and agents. It reports calls without receipts or error handling,
missing resilience and provenance, hardcoded secrets, unguarded destructive
operations, unreachable code and discarded tool results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVar(&g.configFile, "config", "", "configuration file (default "+settings.FileName+" if present)")
	pf.StringVar(&g.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	pf.BoolVar(&g.logJSON, "log-json", false, "log in JSON format")

	root.AddCommand(
		newAnalyzeCmd(&g),
		newServeCmd(&g),
		newRulesCmd(),
		newVersionCmd(),
	)

	return root
}

// load reads the configuration file and creates the logger.
func (g *globals) load(stderr io.Writer) (*settings.Settings, hclog.Logger, error) {
	s, err := g.settings()
	if err != nil {
		return nil, nil, err
	}

	cfg := s.Logger
	if g.logLevel != "" {
		cfg.Level = g.logLevel
	}
	if g.logJSON {
		cfg.JSON = true
	}

	return s, logger.New(cfg, "receiptguard", stderr), nil
}

func (g *globals) settings() (*settings.Settings, error) {
	if g.configFile != "" {
		return settings.Load(g.configFile)
	}

	s, err := settings.Load(settings.FileName)
	if errors.Is(err, os.ErrNotExist) {
		return &settings.Settings{}, nil
	}

	return s, err
}
