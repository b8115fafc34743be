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

package export

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"fillmore-labs.com/receiptguard/internal/report"
)

// Options control human-readable output.
type Options struct {
	// Color enables ANSI colors.
	Color bool
	// Verbose adds fix hints and examples.
	Verbose bool
	// Version is reported as the tool version in SARIF output.
	Version string
}

type palette struct {
	severity map[report.Severity]*color.Color
	path     *color.Color
	decision map[report.Decision]*color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		severity: map[report.Severity]*color.Color{
			report.Critical: color.New(color.FgRed, color.Bold),
			report.High:     color.New(color.FgRed),
			report.Medium:   color.New(color.FgYellow),
			report.Low:      color.New(color.FgCyan),
		},
		path: color.New(color.Bold),
		decision: map[report.Decision]*color.Color{
			report.Ship:        color.New(color.FgGreen, color.Bold),
			report.NeedsReview: color.New(color.FgYellow, color.Bold),
			report.Block:       color.New(color.FgRed, color.Bold),
		},
	}

	for _, c := range p.all() {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

func (p palette) all() []*color.Color {
	all := []*color.Color{p.path}
	for _, c := range p.severity {
		all = append(all, c)
	}
	for _, c := range p.decision {
		all = append(all, c)
	}

	return all
}

// WriteText writes one line per issue followed by the merged summary.
func WriteText(w io.Writer, results []*report.Result, o Options) error {
	p := newPalette(o.Color)
	ew := &errWriter{w: w}

	for _, r := range results {
		if r.Skipped != "" {
			continue
		}

		for _, i := range r.Issues {
			ew.printf("%s:%d:%d: %s %s %s\n",
				p.path.Sprint(r.Path), i.Start.Line, i.Start.Column,
				p.severity[i.Severity].Sprintf("[%s]", i.Severity), i.Rule, i.Message)

			if o.Verbose {
				ew.printf("    %s\n", i.FixHint)
				if i.BusinessImpact != "" {
					ew.printf("    impact: %s (risk %d)\n", i.BusinessImpact, i.RiskScore)
				}
			}
		}

		for _, n := range r.Notes {
			ew.printf("%s: note: %s\n", p.path.Sprint(r.Path), n)
		}
	}

	s := report.Merge(results...)
	c := s.Counts

	ew.printf("\n%d issue(s): %d critical, %d high, %d medium, %d low\n", c.Total, c.Critical, c.High, c.Medium, c.Low)
	ew.printf("%d call site(s), receipt coverage %.1f%%, error handling coverage %.1f%%\n",
		s.CallSites, s.ReceiptCoverage, s.ErrorHandlingCoverage)
	ew.printf("%s: %s\n", p.decision[s.Decision].Sprint(s.Decision), s.Reason)

	return ew.err
}

// errWriter keeps the first write error.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, a ...any) {
	if e.err != nil {
		return
	}

	_, e.err = fmt.Fprintf(e.w, format, a...)
}
