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

package report

// CallSite is an enumerated tool, LLM or agent call with its evaluated flags.
type CallSite struct {
	Start    Position `json:"start"`
	Callee   string   `json:"callee"`
	Family   string   `json:"family"`
	Category string   `json:"category"`
	Pattern  string   `json:"pattern"`
	Function string   `json:"function"`

	RequiresReceipt       bool `json:"requiresReceipt"`
	RequiresErrorHandling bool `json:"requiresErrorHandling"`
	HasReceipt            bool `json:"hasReceipt"`
	HasErrorHandling      bool `json:"hasErrorHandling"`
	HasResilience         bool `json:"hasResilience,omitempty"`
	HasProvenance         bool `json:"hasProvenance,omitempty"`

	// Linked is set when data flow tied a receipt to the call's result.
	Linked bool `json:"linked,omitempty"`
	// Suppressed call sites were skipped by a disable marker.
	Suppressed bool `json:"suppressed,omitempty"`
	// Degraded call sites were evaluated with text patterns only.
	Degraded bool `json:"degraded,omitempty"`
}

// Result is the outcome of analyzing one file.
type Result struct {
	Path      string     `json:"path"`
	Language  string     `json:"language,omitempty"`
	Issues    []Issue    `json:"issues"`
	CallSites []CallSite `json:"callSites"`
	Summary   Summary    `json:"summary"`
	Functions int        `json:"functions"`

	// Skipped holds the reason a file was excluded without analysis.
	Skipped string `json:"skipped,omitempty"`
	// Degraded is set when some function fell back to pattern-only findings.
	Degraded bool     `json:"degraded,omitempty"`
	Notes    []string `json:"notes,omitempty"`
}

// Finish deduplicates and orders the issues, then computes the summary.
func (r *Result) Finish() {
	r.Issues = Dedup(r.Issues)
	Sort(r.Issues)

	if r.Issues == nil {
		r.Issues = []Issue{}
	}

	if r.CallSites == nil {
		r.CallSites = []CallSite{}
	}

	r.Summary = Summarize(r.Issues, r.CallSites)
}
