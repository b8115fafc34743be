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

package report_test

import (
	"encoding/json"
	"testing"

	. "fillmore-labs.com/receiptguard/internal/report"
)

func issues(sevs ...Severity) []Issue {
	is := make([]Issue, 0, len(sevs))
	for i, s := range sevs {
		is = append(is, Issue{Rule: MissingReceipt, Severity: s, Start: Position{Line: i + 1, Column: 1}})
	}

	return is
}

func TestDecide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		issues []Issue
		want   Decision
	}{
		{"none", nil, Ship},
		{"one_critical", issues(Critical), Block},
		{"critical_wins", issues(Low, Low, Low, Low, Low, Critical), Block},
		{"four_high", issues(High, High, High, High), NeedsReview},
		{"three_high", issues(High, High, High), NeedsReview},
		{"five_low", issues(Low, Low, Low, Low, Low), NeedsReview},
		{"one_low", issues(Low), NeedsReview},
		{"two_high_two_medium", issues(High, High, Medium, Medium), NeedsReview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := Summarize(tt.issues, nil)
			if s.Decision != tt.want {
				t.Errorf("Got decision %s (%s), expected %s", s.Decision, s.Reason, tt.want)
			}
		})
	}
}

func TestDedup(t *testing.T) {
	t.Parallel()

	in := []Issue{
		{Rule: MissingReceipt, Start: Position{Line: 3}, Message: "first"},
		{Rule: MissingErrorHandling, Start: Position{Line: 3}},
		{Rule: MissingReceipt, Start: Position{Line: 3}, Message: "second"},
		{Rule: MissingReceipt, Start: Position{Line: 4}},
	}

	got := Dedup(in)

	if len(got) != 3 {
		t.Fatalf("Got %d issues, expected 3", len(got))
	}

	if got[0].Message != "first" {
		t.Errorf("Expected first issue to be kept, got %q", got[0].Message)
	}

	// Dedup is idempotent
	if again := Dedup(got); len(again) != len(got) {
		t.Errorf("Second dedup removed %d issues", len(got)-len(again))
	}
}

func TestSort(t *testing.T) {
	t.Parallel()

	is := []Issue{
		{Rule: MissingErrorHandling, Start: Position{Line: 2, Column: 5}},
		{Rule: MissingReceipt, Start: Position{Line: 2, Column: 5}},
		{Rule: SecretExposure, Start: Position{Line: 1, Column: 9}},
	}

	Sort(is)

	want := []Rule{SecretExposure, MissingReceipt, MissingErrorHandling}
	for i, r := range want {
		if is[i].Rule != r {
			t.Errorf("Position %d: got %s, expected %s", i, is[i].Rule, r)
		}
	}
}

func TestCoverage(t *testing.T) {
	t.Parallel()

	sites := []CallSite{
		{RequiresReceipt: true, HasReceipt: true, RequiresErrorHandling: true},
		{RequiresReceipt: true, RequiresErrorHandling: true, HasErrorHandling: true},
		{RequiresReceipt: true, Suppressed: true},
		{RequiresErrorHandling: true, HasErrorHandling: true},
	}

	s := Summarize(nil, sites)

	if s.ReceiptCoverage != 50 {
		t.Errorf("Got receipt coverage %v, expected 50", s.ReceiptCoverage)
	}

	if s.ErrorHandlingCoverage != 66.6 {
		t.Errorf("Got error handling coverage %v, expected 66.6", s.ErrorHandlingCoverage)
	}

	if s.CallSites != 3 {
		t.Errorf("Got %d call sites, expected 3", s.CallSites)
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	a := &Result{Issues: issues(High, High)}
	b := &Result{Issues: issues(High)}

	s := Merge(a, nil, b)

	if s.Counts.High != 3 || s.Decision != NeedsReview {
		t.Errorf("Got %+v, expected three high issues needing review", s)
	}
}

func TestSeverityJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Issue{Rule: SecretExposure, Severity: Critical})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var i Issue
	if err := json.Unmarshal(data, &i); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if i.Severity != Critical {
		t.Errorf("Got severity %s, expected critical", i.Severity)
	}

	if _, err := ParseSeverity("fatal"); err == nil {
		t.Error("Expected error for unknown severity")
	}
}

func TestRuleCategory(t *testing.T) {
	t.Parallel()

	for _, r := range Rules {
		if r.Category() == "" || r.Title() == "" {
			t.Errorf("Rule %s lacks category or title", r)
		}
	}
}
