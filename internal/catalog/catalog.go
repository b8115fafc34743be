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

// Package catalog holds the declarative pattern tables that map call shapes and
// string literals to the semantic categories receiptguard reasons about.
//
// A [Pattern] is a closed set of variants: [ToolPattern], [LLMPattern],
// [AgentPattern], [SecretPattern] and [SideEffectPattern]. Code that needs to
// distinguish them uses a type switch over all five; see [Describe].
package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"fillmore-labs.com/receiptguard/internal/report"
)

// Family is the coarse classification of a [Pattern].
type Family uint8

//go:generate go tool stringer -type Family -linecomment
const (
	// ToolCall is an operation with external effects.
	ToolCall Family = iota + 1 // tool

	// LLMCall is a language model invocation.
	LLMCall // llm

	// AgentCall is an agent framework entry point.
	AgentCall // agent

	// SecretLiteral is a credential embedded in source.
	SecretLiteral // secret

	// SideEffectCall is a destructive operation.
	SideEffectCall // side_effect
)

// Category is the fine-grained kind of operation a pattern detects.
type Category string

const (
	Payment       Category = "payment"
	Database      Category = "database"
	HTTP          Category = "http"
	File          Category = "file"
	Email         Category = "email"
	Messaging     Category = "messaging"
	Cloud         Category = "cloud"
	Shell         Category = "shell"
	VectorStore   Category = "vector_store"
	LangChainTool Category = "langchain_tool"
	GenericTool   Category = "generic"
	LLM           Category = "llm"
	Agent         Category = "agent"
	Secret        Category = "secret"
	SideEffect    Category = "side_effect"
)

// Target selects which text a call pattern is matched against.
type Target uint8

const (
	// MatchCallee matches the normalized callee followed by "(", e.g. "db.users.update(".
	MatchCallee Target = iota

	// MatchCall matches the normalized text of the complete call expression.
	MatchCall
)

// AgentCheck selects the argument check applied to an agent construction.
type AgentCheck uint8

const (
	// NoAgentCheck applies only the provenance check.
	NoAgentCheck AgentCheck = iota

	// CheckErrorCallback requires an error callback argument.
	CheckErrorCallback

	// CheckTermination requires a termination bound argument.
	CheckTermination
)

// Pattern is one of [ToolPattern], [LLMPattern], [AgentPattern], [SecretPattern] or [SideEffectPattern].
type Pattern interface {
	Family() Family
	ID() string
	pattern()
}

// Call is the part shared by all call-shaped patterns.
type Call struct {
	Name        string
	Description string
	Re          *regexp.Regexp
	Target      Target

	// Generic patterns are tried after all specific patterns of every family.
	Generic bool

	RequiresReceipt       bool
	RequiresErrorHandling bool
}

// ID returns the pattern name.
func (c Call) ID() string { return c.Name }

// Match reports whether the pattern matches the normalized callee or call text.
//
// A callee match must end at the final parenthesis, so `a.create(x).then(` does not
// match a pattern for `a.create(`. Call text patterns only apply to plain callee paths.
func (c Call) Match(callee, call string) bool {
	if c.Target == MatchCall {
		return !strings.Contains(callee, "(") && c.Re.MatchString(call)
	}

	s := callee + "("
	locs := c.Re.FindAllStringIndex(s, -1)

	return len(locs) > 0 && locs[len(locs)-1][1] == len(s)
}

// ToolPattern detects a tool call with external effects.
type ToolPattern struct {
	Call
	Category Category
}

// LLMPattern detects a language model call or client construction.
type LLMPattern struct {
	Call
	Provider string
}

// AgentPattern detects an agent framework entry point.
type AgentPattern struct {
	Call
	Framework string

	// Requires restricts the pattern to files mentioning this framework.
	Requires *regexp.Regexp

	Check AgentCheck
}

// SecretPattern detects a secret literal in raw source text.
type SecretPattern struct {
	Name        string
	Description string
	Re          *regexp.Regexp
	Severity    report.Severity

	// Credential patterns match a credential-named assignment rather than a provider key shape.
	Credential bool
}

// ID returns the pattern name.
func (s SecretPattern) ID() string { return s.Name }

// SideEffectPattern detects a destructive operation.
type SideEffectPattern struct {
	Call
	Operation string
	Severity  report.Severity
}

func (ToolPattern) Family() Family       { return ToolCall }
func (LLMPattern) Family() Family        { return LLMCall }
func (AgentPattern) Family() Family      { return AgentCall }
func (SecretPattern) Family() Family     { return SecretLiteral }
func (SideEffectPattern) Family() Family { return SideEffectCall }

func (ToolPattern) pattern()       {}
func (LLMPattern) pattern()        {}
func (AgentPattern) pattern()      {}
func (SecretPattern) pattern()     {}
func (SideEffectPattern) pattern() {}

// Describe returns the family and category of a pattern.
func Describe(p Pattern) (Family, Category) {
	switch p := p.(type) {
	case ToolPattern:
		return ToolCall, p.Category

	case LLMPattern:
		return LLMCall, LLM

	case AgentPattern:
		return AgentCall, Agent

	case SecretPattern:
		return SecretLiteral, Secret

	case SideEffectPattern:
		return SideEffectCall, SideEffect

	default:
		msg := fmt.Errorf("unexpected pattern type: %T", p)
		panic(msg)
	}
}

// Requirements returns whether a call matched by p needs a receipt and error handling.
func Requirements(p Pattern) (receipt, errorHandling bool) {
	switch p := p.(type) {
	case ToolPattern:
		return p.RequiresReceipt, p.RequiresErrorHandling

	case LLMPattern:
		return p.RequiresReceipt, p.RequiresErrorHandling

	case AgentPattern:
		return p.RequiresReceipt, p.RequiresErrorHandling

	case SecretPattern, SideEffectPattern:
		return false, false

	default:
		msg := fmt.Errorf("unexpected pattern type: %T", p)
		panic(msg)
	}
}
