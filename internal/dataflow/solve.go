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

package dataflow

import (
	"context"
	"runtime/trace"

	"github.com/RoaringBitmap/roaring/v2"

	"fillmore-labs.com/receiptguard/internal/cfg"
	"fillmore-labs.com/receiptguard/internal/syntax"
)

// Result holds the data-flow facts of a single function.
type Result struct {
	Graph *cfg.Graph

	// Defs lists all definitions, indexed by ID.
	Defs []*Def
	// Uses lists all identifier uses in node order.
	Uses []Use
	// Vars lists variable names, indexed by variable ID.
	Vars []string
	// Facts are indexed by node ID.
	Facts []Facts

	// Converged is false when the iteration bound was hit before a fixed point.
	// Facts are then an under-approximation and must not be relied on.
	Converged  bool
	Iterations int

	varID     map[string]uint32
	byVar     [][]uint32 // definition IDs per variable
	defByCall map[*syntax.Expr]*Def
}

// Analyze computes reaching definitions and liveness for the function of g.
func Analyze(ctx context.Context, g *cfg.Graph, config Config) *Result {
	defer trace.StartRegion(ctx, "dataflow").End()

	r := &Result{
		Graph:     g,
		Facts:     make([]Facts, len(g.Nodes)),
		varID:     make(map[string]uint32),
		defByCall: make(map[*syntax.Expr]*Def),
	}

	for i := range r.Facts {
		r.Facts[i] = newFacts()
	}

	c := collector{Result: r, match: config.Match}
	c.collect()

	r.transfer()

	limit := config.MaxIterations
	if limit <= 0 {
		limit = DefaultMaxIterations
	}

	s := solver{Result: r, limit: limit, onUpdate: config.OnUpdate}
	r.Converged = s.reaching() && s.liveness()
	r.Iterations = s.visits

	return r
}

// transfer computes the gen and kill sets of every node.
func (r *Result) transfer() {
	for i := range r.Facts {
		f := &r.Facts[i]

		for name, d := range f.Defs {
			f.gen.Add(d.ID)

			for _, id := range r.byVar[r.varID[name]] {
				if id != d.ID {
					f.kill.Add(id)
				}
			}
		}
	}
}

type solver struct {
	*Result
	limit    int
	visits   int
	onUpdate func(iteration int, node cfg.NodeID, reach, live uint64)

	inList []bool
}

// budget counts a visit and reports whether more are allowed.
func (s *solver) budget() bool {
	if s.visits >= s.limit {
		return false
	}
	s.visits++

	return true
}

func (s *solver) update(id cfg.NodeID) {
	if s.onUpdate == nil {
		return
	}

	f := &s.Facts[id]
	s.onUpdate(s.visits, id, f.ReachOut.GetCardinality(), f.Live.GetCardinality())
}

// reaching solves the forward reaching-definitions problem:
//
//	Reach(n)    = ∪ ReachOut(p) for p in preds(n)
//	ReachOut(n) = gen(n) ∪ (Reach(n) − kill(n))
func (s *solver) reaching() bool {
	work := s.worklist(true)

	for len(work) > 0 {
		if !s.budget() {
			return false
		}

		id := work[0]
		work = work[1:]
		s.inList[id] = false

		n := s.Graph.Node(id)
		f := &s.Facts[id]

		in := roaring.New()
		for _, p := range n.Preds {
			in.Or(s.Facts[p].ReachOut)
		}
		f.Reach = in

		out := in.Clone()
		out.AndNot(f.kill)
		out.Or(f.gen)

		changed := !out.Equals(f.ReachOut)
		f.ReachOut = out
		s.update(id)

		if !changed {
			continue
		}

		for _, succ := range n.Succs {
			if !s.inList[succ] {
				s.inList[succ] = true
				work = append(work, succ)
			}
		}
	}

	return true
}

// liveness solves the backward live-variables problem:
//
//	LiveOut(n) = ∪ Live(s) for s in succs(n)
//	Live(n)    = use(n) ∪ (LiveOut(n) − def(n))
func (s *solver) liveness() bool {
	work := s.worklist(false)

	for len(work) > 0 {
		if !s.budget() {
			return false
		}

		id := work[0]
		work = work[1:]
		s.inList[id] = false

		n := s.Graph.Node(id)
		f := &s.Facts[id]

		out := roaring.New()
		for _, succ := range n.Succs {
			out.Or(s.Facts[succ].Live)
		}
		f.LiveOut = out

		in := out.Clone()
		in.AndNot(f.def)
		in.Or(f.use)

		changed := !in.Equals(f.Live)
		f.Live = in
		s.update(id)

		if !changed {
			continue
		}

		for _, p := range n.Preds {
			if !s.inList[p] {
				s.inList[p] = true
				work = append(work, p)
			}
		}
	}

	return true
}

// worklist seeds all nodes, in ID order for forward problems and reversed for backward ones.
func (s *solver) worklist(forward bool) []cfg.NodeID {
	n := len(s.Graph.Nodes)
	work := make([]cfg.NodeID, 0, n)

	for i := range n {
		id := cfg.NodeID(i)
		if !forward {
			id = cfg.NodeID(n - 1 - i)
		}
		work = append(work, id)
	}

	s.inList = make([]bool, n)
	for i := range s.inList {
		s.inList[i] = true
	}

	return work
}
