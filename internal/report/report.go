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

// Package report defines the findings produced by receiptguard and the
// deterministic reductions over them: deduplication, ordering and the ship decision.
package report

import (
	"cmp"
	"slices"
)

// Rule identifies a check.
type Rule string

const (
	AnalysisIncomplete    Rule = "FK000"
	MissingReceipt        Rule = "FK001"
	MissingErrorHandling  Rule = "FK002"
	SecretExposure        Rule = "FK003"
	UnconfirmedSideEffect Rule = "FK004"
	MissingResilience     Rule = "FK005"
	MissingProvenance     Rule = "FK006"
	HardcodedCredential   Rule = "FK007"
	TaskErrorHandler      Rule = "FK008"
	AgentTermination      Rule = "FK009"
	UnreachableCode       Rule = "FK010"
	DiscardedResult       Rule = "FK011"
)

// Rules lists all rules in identifier order.
var Rules = []Rule{
	AnalysisIncomplete, MissingReceipt, MissingErrorHandling, SecretExposure, UnconfirmedSideEffect,
	MissingResilience, MissingProvenance, HardcodedCredential, TaskErrorHandler, AgentTermination,
	UnreachableCode, DiscardedResult,
}

// Category groups rules by the kind of problem they report.
type Category string

const (
	CategoryIncomplete  Category = "analysis_incomplete"
	CategoryReceipt     Category = "receipt_missing"
	CategoryErrors      Category = "error_handling"
	CategorySecret      Category = "secret_exposure"
	CategorySideEffect  Category = "side_effect_unconfirmed"
	CategoryResilience  Category = "resilience"
	CategoryProvenance  Category = "provenance"
	CategoryAgentSafety Category = "agent_safety"
	CategoryUnreachable Category = "unreachable_code"
	CategoryDiscarded   Category = "result_discarded"
)

var ruleInfo = map[Rule]struct {
	category Category
	severity Severity
	title    string
}{
	AnalysisIncomplete:    {CategoryIncomplete, Low, "Analysis Incomplete"},
	MissingReceipt:        {CategoryReceipt, High, "Missing Receipt"},
	MissingErrorHandling:  {CategoryErrors, Medium, "Missing Error Handling"},
	SecretExposure:        {CategorySecret, Critical, "Secret Exposure"},
	UnconfirmedSideEffect: {CategorySideEffect, High, "Side-Effect Without Confirmation"},
	MissingResilience:     {CategoryResilience, Low, "Missing LLM Resilience"},
	MissingProvenance:     {CategoryProvenance, Medium, "Missing Provenance"},
	HardcodedCredential:   {CategorySecret, Critical, "Hardcoded Credential"},
	TaskErrorHandler:      {CategoryErrors, Medium, "Agent Task Missing Error Handler"},
	AgentTermination:      {CategoryAgentSafety, Medium, "Agent Missing Termination Bound"},
	UnreachableCode:       {CategoryUnreachable, Low, "Unreachable Code"},
	DiscardedResult:       {CategoryDiscarded, Low, "Discarded Tool Result"},
}

// Category returns the problem category of the rule.
func (r Rule) Category() Category { return ruleInfo[r].category }

// DefaultSeverity returns the severity of the rule before tool-category adjustments.
func (r Rule) DefaultSeverity() Severity { return ruleInfo[r].severity }

// Title returns a short human-readable rule name.
func (r Rule) Title() string { return ruleInfo[r].title }

// Position is a 1-based line and column.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// RootCause names what is missing and where.
type RootCause struct {
	Type      string `json:"type"`
	Component string `json:"component"`
	Action    string `json:"action"`
}

// Issue is a single finding.
type Issue struct {
	Rule           Rule      `json:"rule"`
	Category       Category  `json:"category"`
	Severity       Severity  `json:"severity"`
	Start          Position  `json:"start"`
	End            Position  `json:"end"`
	Message        string    `json:"message"`
	Callee         string    `json:"callee,omitempty"`
	ToolCategory   string    `json:"toolCategory,omitempty"`
	BusinessImpact string    `json:"businessImpact"`
	RiskScore      int       `json:"riskScore"`
	FixHint        string    `json:"fixHint"`
	FixExample     string    `json:"fixExample,omitempty"`
	RootCause      RootCause `json:"rootCause"`
	Reproduction   []string  `json:"reproduction"`
}

// Line returns the starting line of the issue.
func (i *Issue) Line() int { return i.Start.Line }

// Dedup keeps the first issue per rule and line, preserving order.
func Dedup(issues []Issue) []Issue {
	type key struct {
		rule Rule
		line int
	}

	seen := make(map[key]struct{}, len(issues))

	return slices.DeleteFunc(issues, func(i Issue) bool {
		k := key{i.Rule, i.Start.Line}
		if _, ok := seen[k]; ok {
			return true
		}
		seen[k] = struct{}{}

		return false
	})
}

// Sort orders issues by position, then rule. The sort is stable.
func Sort(issues []Issue) {
	slices.SortStableFunc(issues, func(a, b Issue) int {
		return cmp.Or(
			cmp.Compare(a.Start.Line, b.Start.Line),
			cmp.Compare(a.Start.Column, b.Start.Column),
			cmp.Compare(a.Rule, b.Rule),
		)
	})
}
