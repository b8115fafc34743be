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

// Package cfg builds control-flow graphs for single functions.
//
// Nodes live in an arena owned by the [Graph] and refer to each other by [NodeID].
// Construction follows the structure of the statement tree: branches, loops with
// head, body and exit nodes, try statements with catch and finally nodes, switch
// fall-through, and jumps for return, throw, break and continue.
package cfg

import (
	"context"
	"errors"
	"runtime/trace"
	"slices"

	"fillmore-labs.com/receiptguard/internal/syntax"
)

var (
	// ErrUnsupported is returned for statements the builder cannot model, including syntax errors.
	ErrUnsupported = errors.New("unsupported syntax")

	// ErrTooLarge is returned when a function exceeds the node limit.
	ErrTooLarge = errors.New("function too large")
)

// DefaultMaxNodes is the node limit used when none is given.
const DefaultMaxNodes = 20_000

// Graph is the control-flow graph of one function.
type Graph struct {
	Nodes       []*Node
	Entry, Exit NodeID
	Name        string
	Async       bool
	Func        *syntax.FuncDecl

	// Item intervals, strictly sorted by start offset for binary search
	intervals []interval

	reachable []bool

	// Reusable BFS state to avoid allocations on each reachability check
	seen  []bool
	queue []NodeID
}

// interval is the source range of one node item.
type interval struct {
	start, end int
	node       NodeID
}

// compare returns whether the offset p is within the interval, before or after.
func (i interval) compare(p int) int {
	switch {
	case i.end <= p:
		return -1

	case i.start > p:
		return 1

	default:
		return 0
	}
}

// Build constructs the control-flow graph of a function body.
// maxNodes limits the graph size; zero selects [DefaultMaxNodes].
func Build(ctx context.Context, fn *syntax.FuncDecl, maxNodes int) (g *Graph, err error) {
	defer trace.StartRegion(ctx, "CFG").End()

	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}

	b := builder{
		factory: factory{limit: maxNodes},
		labels:  make(map[string]*LabelTarget),
	}

	defer func() {
		if r := recover(); r != nil {
			bail, ok := r.(bailout)
			if !ok {
				panic(r)
			}

			g, err = nil, bail.err
		}
	}()

	entry := b.New(EntryNode)
	b.exit = b.New(ExitNode)

	end := b.appendStmtList(entry, fn.Body)
	link(end, b.exit)

	g = &Graph{
		Nodes: b.All(),
		Entry: entry.ID,
		Exit:  b.exit.ID,
		Name:  fn.Name,
		Async: fn.Async,
		Func:  fn,
	}
	g.init()

	return g, nil
}

func (g *Graph) init() {
	for _, n := range g.Nodes {
		for _, item := range n.Items {
			if item.Pos().Offset < item.End().Offset {
				g.intervals = append(g.intervals, interval{item.Pos().Offset, item.End().Offset, n.ID})
			}
		}
	}

	slices.SortFunc(g.intervals, func(a, b interval) int { return a.start - b.start })

	// Allocate reusable BFS state sized to the number of nodes.
	// These are reset on each reachability check rather than reallocated.
	g.seen = make([]bool, len(g.Nodes))
	g.queue = make([]NodeID, len(g.Nodes))
}

// Node returns the node with the given ID.
func (g *Graph) Node(id NodeID) *Node {
	if id == NoNode {
		return nil
	}

	return g.Nodes[id]
}

// NodeAt returns the node holding the item at the given byte offset.
func (g *Graph) NodeAt(offset int) NodeID {
	i, ok := slices.BinarySearchFunc(g.intervals, offset, interval.compare)
	if !ok {
		return NoNode
	}

	return g.intervals[i].node
}

// Reachable returns, per node, whether it is reachable from the entry.
func (g *Graph) Reachable() []bool {
	if g.reachable == nil {
		g.reachable = g.ReachableFrom(g.Entry)
		g.reachable[g.Entry] = true
	}

	return g.reachable
}

// ReachableFrom returns, per node, whether it is reachable from id by at least one edge.
func (g *Graph) ReachableFrom(id NodeID) []bool {
	result := make([]bool, len(g.Nodes))
	g.bfs(id, func(n *Node) []NodeID { return n.Succs }, result)

	return result
}

// Ancestors returns, per node, whether it can reach id by at least one edge.
func (g *Graph) Ancestors(id NodeID) []bool {
	result := make([]bool, len(g.Nodes))
	g.bfs(id, func(n *Node) []NodeID { return n.Preds }, result)

	return result
}

// CanReach determines if the node `to` is reachable from the node `from`.
// A node reaches itself.
func (g *Graph) CanReach(from, to NodeID) bool {
	if from == NoNode || to == NoNode {
		return false
	}

	if from == to {
		return true
	}

	clear(g.seen) // Reset visited set from previous checks

	// We use a ring buffer queue to minimize allocations.
	qTail := g.enqueue(g.Nodes[from].Succs, 0)

	// Determine reachability using BFS.
	for qHead := 0; qHead < qTail; qHead++ {
		curr := g.queue[qHead]

		if curr == to {
			return true
		}

		qTail = g.enqueue(g.Nodes[curr].Succs, qTail)
	}

	return false
}

func (g *Graph) bfs(start NodeID, next func(*Node) []NodeID, seen []bool) {
	queue := g.queue[:0]
	for _, s := range next(g.Nodes[start]) {
		if !seen[s] {
			seen[s] = true
			queue = append(queue, s)
		}
	}

	for qHead := 0; qHead < len(queue); qHead++ {
		for _, s := range next(g.Nodes[queue[qHead]]) {
			if !seen[s] {
				seen[s] = true
				queue = append(queue, s)
			}
		}
	}
}

// enqueue adds unseen nodes to the queue.
func (g *Graph) enqueue(ids []NodeID, qTail int) int {
	for _, id := range ids {
		if g.seen[id] {
			continue
		}
		g.seen[id] = true

		g.queue[qTail] = id
		qTail++
	}

	return qTail
}

// Unreachable returns the first item of each unreachable region.
// Function and class declarations are hoisted and never reported.
func (g *Graph) Unreachable() []syntax.Node {
	reachable := g.Reachable()

	var items []syntax.Node
	for _, n := range g.Nodes {
		if reachable[n.ID] || !g.regionStart(n, reachable) {
			continue
		}

		for _, item := range n.Items {
			switch item.(type) {
			case *syntax.FuncDecl, *syntax.ClassDecl:
				continue
			}

			items = append(items, item)

			break
		}
	}

	slices.SortFunc(items, func(a, b syntax.Node) int { return a.Pos().Offset - b.Pos().Offset })

	return items
}

// regionStart reports whether an unreachable node is not preceded by another unreachable node with items.
func (g *Graph) regionStart(n *Node, reachable []bool) bool {
	for _, p := range n.Preds {
		if !reachable[p] && hasStatements(g.Nodes[p]) {
			return false
		}
	}

	return true
}

func hasStatements(n *Node) bool {
	for _, item := range n.Items {
		switch item.(type) {
		case *syntax.FuncDecl, *syntax.ClassDecl:

		default:
			return true
		}
	}

	return false
}
