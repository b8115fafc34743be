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
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"fillmore-labs.com/receiptguard/internal/catalog"
	"fillmore-labs.com/receiptguard/internal/cfg"
	"fillmore-labs.com/receiptguard/internal/syntax"
)

// collector gathers definitions and uses per node.
type collector struct {
	*Result
	match Matcher

	node    cfg.NodeID
	facts   *Facts
	defined map[string]struct{} // names defined so far in the current node
}

func (c *collector) collect() {
	for _, n := range c.Graph.Nodes {
		c.node = n.ID
		c.facts = &c.Facts[n.ID]
		c.defined = make(map[string]struct{})

		if n.ID == c.Graph.Entry {
			for _, p := range c.Graph.Func.Params {
				c.define(p, c.Graph.Func.Pos(), c.Graph.Func.Pos().Offset, Parameter, nil)
			}
		}

		for _, item := range n.Items {
			c.item(item)
		}
	}
}

func (c *collector) item(item syntax.Node) {
	switch item := item.(type) {
	case *syntax.Expr:
		c.expr(item, Read)

	case *syntax.ExprStmt:
		c.expr(item.X, Read)

	case *syntax.DeclStmt:
		c.decl(item)

	case *syntax.ReturnStmt:
		c.expr(item.X, Read)

	case *syntax.ThrowStmt:
		c.expr(item.X, Read)

	case *syntax.FuncDecl:
		for _, d := range item.Decorators {
			c.expr(d, Read)
		}
		c.captures(item, item.Pos())
		c.define(item.Name, item.Pos(), item.Pos().Offset, Hoisted, nil)

	case *syntax.ClassDecl:
		for _, b := range item.Bases {
			c.expr(b, Read)
		}
		syntax.InspectList(item.Body, func(n syntax.Node) bool {
			if e, ok := n.(*syntax.Expr); ok {
				c.expr(e, Read)
				return false
			}

			return true
		})
		for _, m := range item.Methods {
			c.captures(m, item.Pos())
		}
		c.define(item.Name, item.Pos(), item.Pos().Offset, Hoisted, nil)

	case *syntax.BranchStmt:

	default:
		msg := fmt.Errorf("unexpected item type: %T", item)
		panic(msg)
	}
}

func (c *collector) decl(s *syntax.DeclStmt) {
	c.expr(s.Value, Read)

	if s.Target != nil {
		c.expr(s.Target, Read)
	}

	kind := Declaration
	switch s.Kind {
	case syntax.AssignDecl:
		kind = Assignment

	case syntax.LoopVarDecl:
		kind = LoopBinding

	case syntax.WithDecl:
		kind = Binding
	}

	for _, name := range s.Names {
		if s.Compound {
			c.use(name, s.Pos(), Write)
		}

		c.define(name, s.Pos(), s.End().Offset, kind, s.Value)
	}
}

// expr records uses and nested assignments of an expression in evaluation order.
func (c *collector) expr(e *syntax.Expr, ctx UseContext) {
	if e == nil {
		return
	}

	switch e.Kind {
	case syntax.ExprIdent:
		c.use(e.Name, e.Pos(), ctx)

	case syntax.ExprMember:
		c.expr(e.X, Read)

	case syntax.ExprIndex:
		c.expr(e.X, Read)
		c.exprs(e.Args, Read)

	case syntax.ExprCall, syntax.ExprNew:
		if e.X != nil && e.X.Kind == syntax.ExprIdent {
			c.use(e.X.Name, e.X.Pos(), Call)
		} else {
			c.expr(e.X, Read)
		}
		c.exprs(e.Args, Argument)

	case syntax.ExprAwait:
		c.expr(e.X, ctx)

	case syntax.ExprObject:
		for _, p := range e.Props {
			c.expr(p.Value, Property)
		}

	case syntax.ExprAssign:
		c.assign(e)

	case syntax.ExprFunc:
		for _, d := range e.Func.Decorators {
			c.expr(d, Read)
		}
		c.captures(e.Func, e.Pos())

	case syntax.ExprKeyword:
		c.expr(e.X, Argument)

	default:
		c.exprs(e.Args, ctx)
	}
}

func (c *collector) exprs(xs []*syntax.Expr, ctx UseContext) {
	for _, x := range xs {
		c.expr(x, ctx)
	}
}

func (c *collector) assign(e *syntax.Expr) {
	c.expr(e.X, Read)

	lhs := e.Lhs
	if lhs == nil {
		return
	}

	if lhs.Kind != syntax.ExprIdent {
		c.expr(lhs, Read)
		return
	}

	switch e.Name {
	case "=", ":=":

	default:
		c.use(lhs.Name, lhs.Pos(), Write)
	}

	c.define(lhs.Name, lhs.Pos(), e.End().Offset, Assignment, e.X)
}

// captures records the identifiers a nested function reads as reads at its definition.
func (c *collector) captures(fn *syntax.FuncDecl, pos syntax.Pos) {
	for name := range syntax.Idents(fn) {
		c.use(name, pos, Read)
	}
}

func (c *collector) use(name string, pos syntax.Pos, ctx UseContext) {
	v := c.variable(name)

	c.facts.Uses[name] = append(c.facts.Uses[name], Use{Name: name, Pos: pos, Context: ctx, Node: c.node})
	c.Uses = append(c.Uses, Use{Name: name, Pos: pos, Context: ctx, Node: c.node})

	if _, ok := c.defined[name]; !ok {
		c.facts.use.Add(v) // upward exposed
	}
}

// define records a definition taking effect at the given offset.
func (c *collector) define(name string, pos syntax.Pos, at int, kind DefKind, init *syntax.Expr) {
	if name == "" || name == "_" {
		return
	}

	v := c.variable(name)

	d := &Def{
		ID:   uint32(len(c.Defs)),
		Name: name,
		Pos:  pos,
		Kind: kind,
		Node: c.node,
		Init: init,
		at:   at,
	}

	if init != nil {
		d.Alias = init.Unparen().RootIdent()
		c.tag(d)
	}

	c.Defs = append(c.Defs, d)
	c.byVar[v] = append(c.byVar[v], d.ID)

	c.facts.Defs[name] = d
	c.facts.Order = append(c.facts.Order, d)
	c.facts.def.Add(v)
	c.defined[name] = struct{}{}
}

// tag marks definitions initialized from recognized calls.
func (c *collector) tag(d *Def) {
	syntax.Inspect(d.Init, func(n syntax.Node) bool {
		if d.Call != nil {
			return false
		}

		e, ok := n.(*syntax.Expr)
		if !ok || (e.Kind != syntax.ExprCall && e.Kind != syntax.ExprNew) {
			return true
		}

		if c.match == nil {
			return true
		}

		p, ok := c.match(e)
		if !ok {
			return true
		}

		switch fam, _ := catalog.Describe(p); fam {
		case catalog.ToolCall, catalog.AgentCall:
			d.IsToolResult = true

		case catalog.LLMCall:
			d.IsLLMResult = true

		default:
			return true
		}

		d.Call, d.Pattern = e, p
		c.defByCall[e] = d

		return false
	})
}

func (c *collector) variable(name string) uint32 {
	if v, ok := c.varID[name]; ok {
		return v
	}

	v := uint32(len(c.Vars))
	c.Vars = append(c.Vars, name)
	c.varID[name] = v
	c.byVar = append(c.byVar, nil)

	return v
}

func newFacts() Facts {
	return Facts{
		Defs:     make(map[string]*Def),
		Uses:     make(map[string][]Use),
		Reach:    roaring.New(),
		ReachOut: roaring.New(),
		Live:     roaring.New(),
		LiveOut:  roaring.New(),
		gen:      roaring.New(),
		kill:     roaring.New(),
		use:      roaring.New(),
		def:      roaring.New(),
	}
}
