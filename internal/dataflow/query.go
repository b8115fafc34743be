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
	"slices"

	"fillmore-labs.com/receiptguard/internal/cfg"
	"fillmore-labs.com/receiptguard/internal/syntax"
)

// ReachingAt returns the definitions of name that may reach the byte offset.
func (r *Result) ReachingAt(name string, offset int) []*Def {
	id := r.Graph.NodeAt(offset)
	if id == cfg.NoNode {
		return nil
	}

	f := &r.Facts[id]

	for _, d := range slices.Backward(f.Order) {
		if d.Name == name && d.at <= offset {
			return []*Def{d}
		}
	}

	v, ok := r.varID[name]
	if !ok {
		return nil
	}

	var defs []*Def
	for _, did := range r.byVar[v] {
		if f.Reach.Contains(did) {
			defs = append(defs, r.Defs[did])
		}
	}

	return defs
}

// Provenance describes where a value came from.
type Provenance struct {
	// Sources are the tagged definitions the value derives from.
	Sources []*Def

	Tool, LLM bool
}

// Origin follows aliases backwards from a use of name at offset and collects the
// tool, LLM and agent results the value may derive from.
func (r *Result) Origin(name string, offset int) Provenance {
	var (
		p    Provenance
		seen = make(map[uint32]struct{})
		work = r.ReachingAt(name, offset)
	)

	for len(work) > 0 {
		d := work[len(work)-1]
		work = work[:len(work)-1]

		if _, ok := seen[d.ID]; ok {
			continue
		}
		seen[d.ID] = struct{}{}

		if d.IsToolResult || d.IsLLMResult {
			p.Sources = append(p.Sources, d)
			p.Tool = p.Tool || d.IsToolResult
			p.LLM = p.LLM || d.IsLLMResult

			continue
		}

		if d.Alias != "" && d.Init != nil {
			work = append(work, r.ReachingAt(d.Alias, d.Init.Pos().Offset)...)
		}
	}

	slices.SortFunc(p.Sources, func(a, b *Def) int { return int(a.ID) - int(b.ID) })

	return p
}

// DerivedFrom reports whether the value of name at offset may derive from def.
func (r *Result) DerivedFrom(name string, offset int, def *Def) bool {
	if def == nil {
		return false
	}

	return slices.Contains(r.Origin(name, offset).Sources, def)
}

// DefForCall returns the definition whose value is the result of the call, or nil.
func (r *Result) DefForCall(call *syntax.Expr) *Def {
	return r.defByCall[call]
}

// UsedAfter reports whether the value bound by def may be read later.
func (r *Result) UsedAfter(def *Def) bool {
	f := &r.Facts[def.Node]

	next := -1 // offset of the next redefinition in the same node
	for _, d := range f.Order {
		if d.Name == def.Name && d.at > def.at {
			next = d.at
			break
		}
	}

	for _, u := range f.Uses[def.Name] {
		if u.Pos.Offset >= def.at && (next < 0 || u.Pos.Offset < next) {
			return true
		}
	}

	if next >= 0 {
		return false
	}

	return f.LiveOut.Contains(r.varID[def.Name])
}

// DeadStores returns the tool and LLM results that are never read.
func (r *Result) DeadStores() []*Def {
	var dead []*Def

	for _, d := range r.Defs {
		if !d.IsToolResult && !d.IsLLMResult {
			continue
		}

		if d.Kind != Declaration && d.Kind != Assignment {
			continue
		}

		if !r.UsedAfter(d) {
			dead = append(dead, d)
		}
	}

	return dead
}
