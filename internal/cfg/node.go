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

package cfg

import (
	"slices"

	"fillmore-labs.com/receiptguard/internal/syntax"
)

// NodeID identifies a node within its [Graph].
type NodeID int32

// NoNode is the absent node.
const NoNode NodeID = -1

// Kind is the role of a node in the graph.
type Kind uint8

//go:generate go tool stringer -type Kind -linecomment
const (
	EntryNode    Kind = iota // entry
	ExitNode                 // exit
	BlockNode                // block
	BranchNode               // branch
	LoopHeadNode             // loop-head
	LoopBodyNode             // loop-body
	TryNode                  // try
	CatchNode                // catch
	FinallyNode              // finally
	ThrowNode                // throw
	ReturnNode               // return
)

// Node represents a [basic block] in the control-flow graph.
//
// Items holds the simple statements and condition expressions evaluated in this node, in order.
// Compound statements never appear as items; their parts are distributed over nodes.
//
// [basic block]: https://en.wikipedia.org/wiki/Basic_block
type Node struct {
	ID    NodeID
	Kind  Kind
	Items []syntax.Node

	// StartLine and EndLine are zero for nodes without items.
	StartLine, EndLine int

	Succs, Preds []NodeID

	// Handler is the catch or finally node receiving exceptions thrown here.
	Handler NodeID
	// Catch and Finally are the associated handlers of a try node.
	Catch, Finally NodeID
	// LoopHead and LoopExit are set for loop heads and bodies.
	LoopHead, LoopExit NodeID

	// Cond is the branch condition of branch and loop-head nodes.
	Cond *syntax.Expr

	// Throws is set when an item contains a call or await.
	Throws bool
}

// Empty reports whether the node holds no items.
func (n *Node) Empty() bool {
	return len(n.Items) == 0
}

// add appends an item, extending the line range.
func (n *Node) add(item syntax.Node) {
	n.Items = append(n.Items, item)

	start, end := item.Pos().Line, item.End().Line
	if n.StartLine == 0 || start < n.StartLine {
		n.StartLine = start
	}
	if end > n.EndLine {
		n.EndLine = end
	}
}

// link adds an edge between two nodes, ignoring duplicates.
func link(from, to *Node) {
	if from == nil || to == nil || slices.Contains(from.Succs, to.ID) {
		return
	}

	from.Succs = append(from.Succs, to.ID)
	to.Preds = append(to.Preds, from.ID)
}
