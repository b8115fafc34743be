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

package export_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "fillmore-labs.com/receiptguard/internal/export"
	"fillmore-labs.com/receiptguard/internal/report"
)

func results() []*report.Result {
	r := &report.Result{
		Path: "agent.js",
		Issues: []report.Issue{
			{
				Rule:     report.MissingReceipt,
				Severity: report.Critical,
				Start:    report.Position{Line: 2, Column: 9},
				End:      report.Position{Line: 2, Column: 40},
				Message:  "stripe.charges.create has no receipt",
				FixHint:  "Build a receipt",
			},
			{
				Rule:     report.MissingErrorHandling,
				Severity: report.Medium,
				Start:    report.Position{Line: 2, Column: 9},
				Message:  "stripe.charges.create is not covered by error handling",
			},
		},
		CallSites: []report.CallSite{{Callee: "stripe.charges.create", RequiresReceipt: true, RequiresErrorHandling: true}},
		Notes:     []string{"function save: analyzed with text patterns"},
	}
	r.Finish()

	skipped := &report.Result{Path: "agent.test.js", Skipped: "test file"}
	skipped.Finish()

	return []*report.Result{r, skipped}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"text", "json", "sarif"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, Format(name), f)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Text, results(), Options{Verbose: true}))

	out := buf.String()
	assert.Contains(t, out, "agent.js:2:9: [critical] FK001 stripe.charges.create has no receipt\n")
	assert.Contains(t, out, "    Build a receipt\n")
	assert.Contains(t, out, "agent.js: note: function save")
	assert.Contains(t, out, "2 issue(s): 1 critical, 0 high, 1 medium, 0 low")
	assert.Contains(t, out, "BLOCK: ")
	assert.NotContains(t, out, "agent.test.js")
	assert.NotContains(t, out, "\x1b[")
}

func TestTextColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, results(), Options{Color: true}))

	assert.Contains(t, buf.String(), "\x1b[")
}

func TestJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, JSON, results(), Options{}))

	var doc struct {
		Results []struct {
			Path   string `json:"path"`
			Issues []struct {
				Rule string `json:"rule"`
			} `json:"issues"`
		} `json:"results"`
		Summary struct {
			Decision string `json:"shipDecision"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	require.Len(t, doc.Results, 2)
	assert.Len(t, doc.Results[0].Issues, 2)
	assert.Equal(t, "BLOCK", doc.Summary.Decision)
}

func TestSARIF(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, SARIF, results(), Options{Version: "1.2.3"}))

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name    string `json:"name"`
					Version string `json:"version"`
					Rules   []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID string `json:"ruleId"`
				Level  string `json:"level"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))

	assert.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)

	run := log.Runs[0]
	assert.Equal(t, "receiptguard", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)
	assert.Len(t, run.Tool.Driver.Rules, len(report.Rules))
	require.Len(t, run.Results, 2)
	assert.Equal(t, "FK001", run.Results[0].RuleID)
	assert.Equal(t, "error", run.Results[0].Level)
	assert.Equal(t, "warning", run.Results[1].Level)
}
