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

// Package dataflow computes reaching definitions and live variables over a
// control-flow graph, and answers where the value bound to a name came from.
package dataflow

import (
	"github.com/RoaringBitmap/roaring/v2"

	"fillmore-labs.com/receiptguard/internal/catalog"
	"fillmore-labs.com/receiptguard/internal/cfg"
	"fillmore-labs.com/receiptguard/internal/syntax"
)

// DefKind is how a definition binds its name.
type DefKind uint8

const (
	Declaration DefKind = iota
	Assignment
	Parameter
	LoopBinding
	Binding
	Hoisted
)

// Def is a variable definition.
type Def struct {
	ID   uint32
	Name string
	Pos  syntax.Pos
	Kind DefKind
	Node cfg.NodeID

	// Init is the initializer or assigned value, nil for parameters and loop bindings.
	Init *syntax.Expr
	// Alias is the root identifier an initializer copies or projects, as in `x = y` or `x = y.data`.
	Alias string

	// Call is the tool, LLM or agent call within the initializer, with its pattern.
	Call    *syntax.Expr
	Pattern catalog.Pattern

	IsToolResult, IsLLMResult bool

	at int // offset where the binding takes effect
}

// UseContext is the syntactic role of an identifier use.
type UseContext uint8

const (
	// Read is a plain read, including method receivers and closure captures.
	Read UseContext = iota
	// Call is the callee of a call expression.
	Call
	// Argument is a call argument.
	Argument
	// Property is an object literal value.
	Property
	// Write is the target of a compound assignment.
	Write
)

// Use is an identifier use.
type Use struct {
	Name    string
	Pos     syntax.Pos
	Context UseContext
	Node    cfg.NodeID
}

// Facts are the per-node data-flow facts.
type Facts struct {
	// Defs maps names to the last definition in this node.
	Defs map[string]*Def
	// Uses maps names to their uses in this node.
	Uses map[string][]Use
	// Order lists the definitions in this node in evaluation order.
	Order []*Def

	// Reach holds the definition IDs reaching the node entry, ReachOut those leaving it.
	Reach, ReachOut *roaring.Bitmap
	// Live holds the variable IDs live at node entry, LiveOut those live at its exit.
	Live, LiveOut *roaring.Bitmap

	gen, kill *roaring.Bitmap // definitions
	use, def  *roaring.Bitmap // variables
}

// Matcher recognizes tool, LLM and agent calls.
type Matcher func(call *syntax.Expr) (catalog.Pattern, bool)

// DefaultMaxIterations bounds the number of node visits of both analyses together.
const DefaultMaxIterations = 50_000

// Config controls the analysis.
type Config struct {
	// MaxIterations bounds the node visits. Zero selects [DefaultMaxIterations].
	MaxIterations int
	// Match tags definitions initialized from recognized calls.
	Match Matcher
	// OnUpdate is called after each node visit with the sizes of the outgoing reaching set
	// and incoming live set.
	OnUpdate func(iteration int, node cfg.NodeID, reach, live uint64)
}
