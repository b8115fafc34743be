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

package config

// Rules represents individually switchable checks.
type Rules uint16

//go:generate go tool stringer -type Rules -linecomment
const (
	// MissingReceipt reports tool calls without a receipt built from their result.
	MissingReceipt Rules = 1 << iota // FK001

	// MissingErrorHandling reports tool calls not covered by a catch handler.
	MissingErrorHandling // FK002

	// SecretExposure reports provider-shaped secret literals.
	SecretExposure // FK003

	// UnconfirmedSideEffect reports destructive operations without an upstream confirmation.
	UnconfirmedSideEffect // FK004

	// MissingResilience reports LLM calls without timeout or retry configuration.
	MissingResilience // FK005

	// MissingProvenance reports agent invocations without action id or timestamp.
	MissingProvenance // FK006

	// HardcodedCredential reports credential-named variables assigned a literal.
	HardcodedCredential // FK007

	// TaskErrorHandler reports agent tasks without an error callback.
	TaskErrorHandler // FK008

	// AgentTermination reports conversational agents without a termination bound.
	AgentTermination // FK009

	// UnreachableCode reports statements no execution path reaches.
	UnreachableCode // FK010

	// DiscardedResult reports tool and LLM results that are never read.
	DiscardedResult // FK011
)

// AllRules enables every check.
const AllRules = MissingReceipt | MissingErrorHandling | SecretExposure | UnconfirmedSideEffect |
	MissingResilience | MissingProvenance | HardcodedCredential | TaskErrorHandler |
	AgentTermination | UnreachableCode | DiscardedResult

// RuleByID returns the flag for a rule identifier such as "FK001".
func RuleByID(id string) (Rules, bool) {
	for r := MissingReceipt; r <= DiscardedResult; r <<= 1 {
		if r.String() == id {
			return r, true
		}
	}

	return 0, false
}

// Behavior represents analysis behavior options.
type Behavior uint8

const (
	// IncludeTests specifies whether test files are analyzed.
	IncludeTests Behavior = 1 << iota

	// IncludeConfig specifies whether configuration and declaration files are analyzed.
	IncludeConfig

	// StrictDataFlow requires a data-flow link between a call result and its receipt.
	StrictDataFlow
)
