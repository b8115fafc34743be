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

package cli

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"fillmore-labs.com/receiptguard/analyzer"
	"fillmore-labs.com/receiptguard/internal/cache"
	"fillmore-labs.com/receiptguard/internal/export"
	"fillmore-labs.com/receiptguard/internal/report"
	"fillmore-labs.com/receiptguard/internal/settings"
	"fillmore-labs.com/receiptguard/internal/syntax"
)

// skipDirs are never descended into.
var skipDirs = []string{".git", "node_modules", "__pycache__", ".venv", "venv", "dist", "build", ".next"}

type analyzeFlags struct {
	format       string
	output       string
	cache        string
	language     string
	failOnReview bool
	verbose      bool
	noColor      bool
}

func newAnalyzeCmd(g *globals) *cobra.Command {
	var f analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Analyze files and directories",
		Long: `Analyze files and directories. Directories are searched recursively for
JavaScript, TypeScript and Python sources. A single "-" reads from standard input.

The exit status is 2 when the ship decision is BLOCK, and 1 when it is
NEEDS_REVIEW and --fail-on-review is given.`,
		Args: cobra.ArbitraryArgs,
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.format, "format", "f", string(export.Text), "output format (text, json, sarif)")
	fl.StringVarP(&f.output, "output", "o", "", "write output to a file instead of standard output")
	fl.StringVar(&f.cache, "cache", "", "path of a persistent result cache")
	fl.StringVar(&f.language, "language", "javascript", "language of standard input")
	fl.BoolVar(&f.failOnReview, "fail-on-review", false, "exit with status 1 when the decision is NEEDS_REVIEW")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "include fix hints in text output")
	fl.BoolVar(&f.noColor, "no-color", false, "disable colored output")

	flagOptions := analyzer.RegisterFlags(fl)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(f.format)
		if err != nil {
			return err
		}

		s, log, err := g.load(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		opts := append(s.Options(), analyzer.WithLogger(log))

		c, err := f.openCache(s, log)
		if err != nil {
			return err
		}
		if c != nil {
			defer func() { _ = c.Close() }()
			opts = append(opts, analyzer.WithCache(c))
		}

		a := analyzer.New(append(opts, flagOptions()...)...)

		inputs, err := f.inputs(cmd.InOrStdin(), args, log)
		if err != nil {
			return err
		}

		results, err := a.AnalyzeFiles(cmd.Context(), inputs)
		if err != nil {
			return err
		}

		if err := f.write(cmd.OutOrStdout(), format, results); err != nil {
			return err
		}

		return f.exit(report.Merge(results...).Decision)
	}

	return cmd
}

func (f *analyzeFlags) openCache(s *settings.Settings, log hclog.Logger) (*cache.SQLite, error) {
	path := f.cache
	if path == "" && s.Cache != nil {
		path = *s.Cache
	}

	if path == "" {
		return nil, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	log.Debug("opening cache", "path", path)

	return cache.OpenSQLite(path, 0)
}

// inputs reads the files named by args, expanding directories.
func (f *analyzeFlags) inputs(stdin io.Reader, args []string, log hclog.Logger) ([]analyzer.Input, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	if len(args) == 1 && args[0] == "-" {
		lang, err := syntax.ParseLanguage(f.language)
		if err != nil {
			return nil, err
		}

		src, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read standard input: %w", err)
		}

		return []analyzer.Input{{Path: "stdin" + lang.Extension(), Src: src}}, nil
	}

	var paths []string
	for _, arg := range args {
		found, err := collect(arg)
		if err != nil {
			return nil, err
		}

		paths = append(paths, found...)
	}

	slices.Sort(paths)
	paths = slices.Compact(paths)

	log.Debug("collected files", "count", len(paths))

	inputs := make([]analyzer.Input, 0, len(paths))
	for _, p := range paths {
		src, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}

		inputs = append(inputs, analyzer.Input{Path: filepath.ToSlash(p), Src: src})
	}

	return inputs, nil
}

// collect returns the source files at root. A file given explicitly is kept regardless of its extension.
func collect(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{root}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && slices.Contains(skipDirs, d.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		if syntax.LanguageFor(path) != syntax.UnknownLanguage {
			paths = append(paths, path)
		}

		return nil
	})

	return paths, err
}

func (f *analyzeFlags) write(stdout io.Writer, format export.Format, results []*report.Result) error {
	o := export.Options{
		Color:   !f.noColor && f.output == "" && !color.NoColor,
		Verbose: f.verbose,
		Version: version(),
	}

	if f.output == "" {
		return export.Write(stdout, format, results, o)
	}

	file, err := os.Create(f.output)
	if err != nil {
		return err
	}

	if err := export.Write(file, format, results, o); err != nil {
		_ = file.Close()

		return err
	}

	return file.Close()
}

func (f *analyzeFlags) exit(d report.Decision) error {
	switch {
	case d == report.Block:
		return exitError{ExitBlock}

	case d == report.NeedsReview && f.failOnReview:
		return exitError{ExitReview}

	default:
		return nil
	}
}
