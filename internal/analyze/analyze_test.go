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

package analyze_test

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "fillmore-labs.com/receiptguard/internal/analyze"
	"fillmore-labs.com/receiptguard/internal/config"
	"fillmore-labs.com/receiptguard/internal/report"
	"fillmore-labs.com/receiptguard/internal/testsource"
)

var wantPattern = regexp.MustCompile(`(?://|#)\s*want((?:\s+FK\d{3})+)`)

type finding struct {
	Line int
	Rule report.Rule
}

func (f finding) String() string { return fmt.Sprintf("%d:%s", f.Line, f.Rule) }

// expected collects the `want` annotations of a fixture.
func expected(src []byte) []finding {
	var want []finding

	line := 0
	for text := range strings.Lines(string(src)) {
		line++

		m := wantPattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		for _, id := range strings.Fields(m[1]) {
			want = append(want, finding{line, report.Rule(id)})
		}
	}

	return want
}

func findings(r *report.Result) []finding {
	got := make([]finding, 0, len(r.Issues))
	for _, i := range r.Issues {
		got = append(got, finding{i.Start.Line, i.Rule})
	}

	return got
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	archives := []string{
		"receipts.txtar",
		"errors.txtar",
		"agents.txtar",
		"secrets.txtar",
		"flow.txtar",
		"sideeffects.txtar",
		"suppress.txtar",
	}

	for _, name := range archives {
		ar := testsource.Archive(t, name)

		for _, f := range ar.Files {
			t.Run(strings.TrimSuffix(name, ".txtar")+"/"+f.Name, func(t *testing.T) {
				t.Parallel()

				r := DefaultOptions().Run(context.Background(), f.Name, f.Data)

				assert.ElementsMatch(t, expected(f.Data), findings(r))
			})
		}
	}
}

func TestDeterminism(t *testing.T) {
	t.Parallel()

	ar := testsource.Archive(t, "agents.txtar")

	for _, f := range ar.Files {
		first := DefaultOptions().Run(context.Background(), f.Name, f.Data)
		second := DefaultOptions().Run(context.Background(), f.Name, f.Data)

		assert.Equal(t, first, second, f.Name)
	}
}

func TestOneIssuePerRuleAndLine(t *testing.T) {
	t.Parallel()

	src := []byte(`async function f() {
  await db.update(a); await db.insert(b);
}
`)

	r := DefaultOptions().Run(context.Background(), "dup.js", src)

	type key struct {
		rule report.Rule
		line int
	}

	seen := make(map[key]bool)
	for _, i := range r.Issues {
		k := key{i.Rule, i.Start.Line}
		assert.False(t, seen[k], "duplicate %s on line %d", i.Rule, i.Start.Line)
		seen[k] = true
	}

	assert.Len(t, r.CallSites, 2)
	assert.True(t, seen[key{report.MissingReceipt, 2}])
}

func TestStrict(t *testing.T) {
	t.Parallel()

	files := testsource.Files(testsource.Archive(t, "receipts.txtar"))
	src, ok := files["window.js"]
	require.True(t, ok)

	o := DefaultOptions()

	r := o.Run(context.Background(), "window.js", src)
	assert.Empty(t, r.Issues)

	o.Behavior.Enable(config.StrictDataFlow)

	r = o.Run(context.Background(), "window.js", src)
	require.Len(t, r.Issues, 1)
	assert.Equal(t, report.MissingReceipt, r.Issues[0].Rule)
}

func TestLinkedReceipt(t *testing.T) {
	t.Parallel()

	files := testsource.Files(testsource.Archive(t, "receipts.txtar"))

	r := DefaultOptions().Run(context.Background(), "covered.js", files["covered.js"])

	require.Len(t, r.CallSites, 1)
	site := r.CallSites[0]
	assert.True(t, site.HasReceipt)
	assert.True(t, site.Linked)
	assert.True(t, site.HasErrorHandling)
	assert.Equal(t, report.Ship, r.Summary.Decision)
	assert.InDelta(t, 100.0, r.Summary.ReceiptCoverage, 0.01)
}

func TestExclusion(t *testing.T) {
	t.Parallel()

	src := []byte("await db.update(x);\n")

	o := DefaultOptions()

	r := o.Run(context.Background(), "src/foo.test.js", src)
	assert.Equal(t, "test file", r.Skipped)
	assert.Empty(t, r.Issues)

	o.Behavior.Enable(config.IncludeTests)

	r = o.Run(context.Background(), "src/foo.test.js", src)
	assert.Empty(t, r.Skipped)
	assert.NotEmpty(t, r.Issues)
}

func TestNoAgentCode(t *testing.T) {
	t.Parallel()

	src := []byte(`export function add(a, b) {
  return a + b;
}
`)

	r := DefaultOptions().Run(context.Background(), "math.js", src)

	assert.Empty(t, r.Issues)
	assert.Empty(t, r.CallSites)
	assert.Equal(t, report.Ship, r.Summary.Decision)
}

func TestRuleSelection(t *testing.T) {
	t.Parallel()

	src := []byte(`async function f() {
  await db.update(x);
}
`)

	o := DefaultOptions()
	o.Rules.Disable(config.MissingReceipt)

	r := o.Run(context.Background(), "rules.js", src)

	require.Len(t, r.Issues, 1)
	assert.Equal(t, report.MissingErrorHandling, r.Issues[0].Rule)
}

func TestDegraded(t *testing.T) {
	t.Parallel()

	files := testsource.Files(testsource.Archive(t, "suppress.txtar"))

	r := DefaultOptions().Run(context.Background(), "degraded.js", files["degraded.js"])

	assert.True(t, r.Degraded)
	assert.NotEmpty(t, r.Notes)

	for _, site := range r.CallSites {
		assert.True(t, site.Degraded)
	}
}

func TestSuppressedSite(t *testing.T) {
	t.Parallel()

	files := testsource.Files(testsource.Archive(t, "suppress.txtar"))

	r := DefaultOptions().Run(context.Background(), "suppressed.js", files["suppressed.js"])

	var suppressed int
	for _, site := range r.CallSites {
		if site.Suppressed {
			suppressed++
		}
	}

	assert.Equal(t, 1, suppressed)
	assert.Equal(t, 1, r.Summary.CallSites)
}

func TestClassification(t *testing.T) {
	t.Parallel()

	src := []byte(`async function pay(input) {
  const charge = await stripe.charges.create(input);
  return charge;
}
`)

	r := DefaultOptions().Run(context.Background(), "pay.js", src)

	require.NotEmpty(t, r.Issues)

	i := r.Issues[0]
	assert.Equal(t, report.MissingReceipt, i.Rule)
	assert.Equal(t, report.Critical, i.Severity)
	assert.Equal(t, "payment", i.ToolCategory)
	assert.Contains(t, i.FixHint, "receipt")
	assert.Contains(t, i.Reproduction[0], "pay.js")
	assert.Equal(t, report.Block, r.Summary.Decision)
}

func TestTraceGraph(t *testing.T) {
	t.Parallel()

	var buf strings.Builder

	opts := DefaultOptions()
	opts.Logger = hclog.New(&hclog.LoggerOptions{Level: hclog.Trace, Output: &buf})

	src := "async function save(x) {\n  await db.update(x);\n}\n"
	_ = opts.Run(context.Background(), "save.js", []byte(src))

	assert.Contains(t, buf.String(), "control flow graph")
	assert.Contains(t, buf.String(), "digraph")
}
