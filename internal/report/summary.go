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

import "fmt"

// Decision is the aggregate verdict over a set of issues.
type Decision string

const (
	Ship        Decision = "SHIP"
	NeedsReview Decision = "NEEDS_REVIEW"
	Block       Decision = "BLOCK"
)

// Thresholds for [Decide].
const (
	reviewHighIssues  = 3
	reviewTotalIssues = 5
)

// Counts tallies issues by severity.
type Counts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Total    int `json:"total"`
}

// Add records one issue of the given severity.
func (c *Counts) Add(s Severity) {
	switch s {
	case Critical:
		c.Critical++
	case High:
		c.High++
	case Medium:
		c.Medium++
	default:
		c.Low++
	}

	c.Total++
}

// Summary aggregates the issues of one or more analyzed files.
type Summary struct {
	Counts                Counts   `json:"counts"`
	CallSites             int      `json:"callSites"`
	ReceiptCoverage       float64  `json:"receiptCoverage"`
	ErrorHandlingCoverage float64  `json:"errorHandlingCoverage"`
	Decision              Decision `json:"shipDecision"`
	Reason                string   `json:"reason"`

	receiptRequired, receiptCovered int
	errorsRequired, errorsCovered   int
}

// Summarize computes the summary of a single issue list and its call sites.
func Summarize(issues []Issue, sites []CallSite) Summary {
	var s Summary
	s.add(issues, sites)
	s.finish()

	return s
}

// Merge combines the summaries of several results into one.
func Merge(results ...*Result) Summary {
	var s Summary
	for _, r := range results {
		if r == nil {
			continue
		}

		s.add(r.Issues, r.CallSites)
	}

	s.finish()

	return s
}

func (s *Summary) add(issues []Issue, sites []CallSite) {
	for i := range issues {
		s.Counts.Add(issues[i].Severity)
	}

	for _, site := range sites {
		if site.Suppressed {
			continue
		}

		s.CallSites++

		if site.RequiresReceipt {
			s.receiptRequired++
			if site.HasReceipt {
				s.receiptCovered++
			}
		}

		if site.RequiresErrorHandling {
			s.errorsRequired++
			if site.HasErrorHandling {
				s.errorsCovered++
			}
		}
	}
}

func (s *Summary) finish() {
	s.ReceiptCoverage = percent(s.receiptCovered, s.receiptRequired)
	s.ErrorHandlingCoverage = percent(s.errorsCovered, s.errorsRequired)
	s.Decision, s.Reason = Decide(s.Counts)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 100
	}

	return float64(n*1000/total) / 10
}

// Decide reduces severity counts to a ship decision.
//
// Any critical issue blocks. Three or more high issues, or five or more issues
// in total, need review. No issues ship. Anything else needs review.
func Decide(c Counts) (Decision, string) {
	switch {
	case c.Critical > 0:
		return Block, fmt.Sprintf("%d critical issue(s) must be fixed before shipping", c.Critical)

	case c.High >= reviewHighIssues:
		return NeedsReview, fmt.Sprintf("%d high-severity issues need review", c.High)

	case c.Total >= reviewTotalIssues:
		return NeedsReview, fmt.Sprintf("%d issues need review", c.Total)

	case c.Total == 0:
		return Ship, "no issues found"

	default:
		return NeedsReview, fmt.Sprintf("%d issue(s) need review", c.Total)
	}
}
