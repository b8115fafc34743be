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

// Package scope builds the lexical and exception scope tree of a source file.
//
// The tree answers whether a specific catch block covers a specific call,
// independent of how close a catch keyword is in the text.
package scope

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"runtime/trace"
	"slices"

	"fillmore-labs.com/receiptguard/internal/syntax"
)

// ID identifies a scope within its [Tree].
type ID int32

// NoScope is the absent scope.
const NoScope ID = -1

// Scope is a node of the scope tree.
type Scope struct {
	ID       ID
	Kind     Kind
	Span     syntax.Span
	Parent   ID
	Children []ID

	// Catch is the first handler of a try scope.
	Catch ID
	// Finally is the finally block of a try scope.
	Finally ID

	// Func is set for function and module scopes.
	Func *syntax.FuncDecl
}

// Tree is the scope tree of one file. The module scope is the root.
type Tree struct {
	Scopes []*Scope
}

// Build constructs the scope tree of a file.
func Build(ctx context.Context, f *syntax.File) *Tree {
	defer trace.StartRegion(ctx, "Scope").End()

	t := &Tree{}
	b := builder{Tree: t, seen: make(map[*syntax.FuncDecl]struct{})}

	span := f.Module.Span
	span.From = syntax.Pos{Offset: 0, Line: 1, Column: 1}
	span.To.Offset = max(span.To.Offset, len(f.Src))

	root := b.open(Module, span, NoScope)
	t.Scopes[root].Func = f.Module
	b.stmts(root, f.Module.Body)

	for _, s := range t.Scopes {
		slices.SortFunc(s.Children, func(a, b ID) int {
			return cmp.Compare(t.Scopes[a].Span.From.Offset, t.Scopes[b].Span.From.Offset)
		})
	}

	return t
}

// Root returns the module scope.
func (t *Tree) Root() *Scope {
	return t.Scopes[0]
}

// Scope returns the scope with the given ID.
func (t *Tree) Scope(id ID) *Scope {
	if id == NoScope {
		return nil
	}

	return t.Scopes[id]
}

// Innermost returns the innermost scope containing the byte offset.
func (t *Tree) Innermost(offset int) *Scope {
	s := t.Root()

	for {
		i, ok := slices.BinarySearchFunc(s.Children, offset, func(id ID, offset int) int {
			span := t.Scopes[id].Span
			switch {
			case span.To.Offset <= offset:
				return -1

			case span.From.Offset > offset:
				return 1

			default:
				return 0
			}
		})
		if !ok {
			return s
		}

		s = t.Scopes[s.Children[i]]
	}
}

// Ancestors yields a scope and its parents, up to and including the enclosing function, class or module.
func (t *Tree) Ancestors(id ID) iter.Seq[*Scope] {
	return func(yield func(*Scope) bool) {
		for s := t.Scope(id); s != nil; s = t.Scope(s.Parent) {
			if !yield(s) || s.Kind.Boundary() {
				break
			}
		}
	}
}

// Protection returns the innermost try scope with a catch handler that contains the offset
// within the same function. A catch or finally block does not protect its own statements.
func (t *Tree) Protection(offset int) (try *Scope, ok bool) {
	for s := range t.Ancestors(t.Innermost(offset).ID) {
		if s.Kind == Try && s.Catch != NoScope {
			return s, true
		}
	}

	return nil, false
}

// Validate checks that every scope lies within its parent.
func (t *Tree) Validate() error {
	for _, s := range t.Scopes {
		p := t.Scope(s.Parent)
		if p == nil {
			continue
		}

		if s.Span.From.Offset < p.Span.From.Offset || s.Span.To.Offset > p.Span.To.Offset {
			return fmt.Errorf("%s scope at lines %d-%d escapes %s scope at lines %d-%d",
				s.Kind, s.Span.From.Line, s.Span.To.Line, p.Kind, p.Span.From.Line, p.Span.To.Line)
		}
	}

	return nil
}

type builder struct {
	*Tree
	seen map[*syntax.FuncDecl]struct{}
}

// open creates a child scope. Empty spans do not open a scope.
func (b *builder) open(kind Kind, span syntax.Span, parent ID) ID {
	if parent != NoScope && span.To.Offset <= span.From.Offset {
		return parent
	}

	id := ID(len(b.Scopes))
	b.Scopes = append(b.Scopes, &Scope{
		ID:      id,
		Kind:    kind,
		Span:    span,
		Parent:  parent,
		Catch:   NoScope,
		Finally: NoScope,
	})

	if parent != NoScope {
		p := b.Scopes[parent]
		p.Children = append(p.Children, id)
	}

	return id
}

func (b *builder) idOr(s *Scope, fallback ID) ID {
	if s == nil {
		return fallback
	}

	return s.ID
}

func (b *builder) stmts(parent ID, list []syntax.Stmt) {
	for _, s := range list {
		b.stmt(parent, s)
	}
}

func (b *builder) stmt(parent ID, stmt syntax.Stmt) {
	switch s := stmt.(type) {
	case nil:

	case *syntax.FuncDecl:
		b.function(parent, s)

	case *syntax.ClassDecl:
		id := b.open(Class, s.Span, parent)
		b.exprs(id, s.Bases...)
		b.stmts(id, s.Body)
		for _, m := range s.Methods {
			b.function(id, m)
		}

	case *syntax.BlockStmt:
		if s == nil {
			return
		}
		b.stmts(b.open(Block, s.Span, parent), s.List)

	case *syntax.IfStmt:
		id := b.open(If, s.Span, parent)
		b.exprs(id, s.Cond)
		b.stmt(id, s.Then)
		b.stmt(id, s.Else)

	case *syntax.LoopStmt:
		id := b.open(Loop, s.Span, parent)
		b.stmt(id, s.Init)
		b.exprs(id, s.Cond, s.Post)
		b.stmt(id, s.Body)
		b.stmt(id, s.Else)

	case *syntax.TryStmt:
		var try *Scope
		if id := b.open(Try, s.Body.Span, parent); id != parent {
			try = b.Scopes[id]
		}
		b.stmts(b.idOr(try, parent), s.Body.List)

		for _, c := range s.Catches {
			id := b.open(Catch, c.Span, parent)
			b.exprs(id, c.Type)
			b.stmts(id, c.Body.List)

			if try != nil && id != parent && try.Catch == NoScope {
				try.Catch = id
			}
		}

		if s.Else != nil {
			b.stmt(parent, s.Else)
		}

		if s.Finally != nil {
			id := b.open(Finally, s.Finally.Span, parent)
			b.stmts(id, s.Finally.List)

			if try != nil && id != parent {
				try.Finally = id
			}
		}

	case *syntax.SwitchStmt:
		id := b.open(Switch, s.Span, parent)
		b.exprs(id, s.Tag)
		for _, c := range s.Cases {
			b.exprs(id, c.Values...)
			b.stmts(id, c.Body)
		}

	case *syntax.LabeledStmt:
		b.stmt(parent, s.Stmt)

	case *syntax.ExprStmt:
		b.exprs(parent, s.X)

	case *syntax.DeclStmt:
		if s == nil {
			return
		}
		b.exprs(parent, s.Target, s.Value)

	case *syntax.ReturnStmt:
		b.exprs(parent, s.X)

	case *syntax.ThrowStmt:
		b.exprs(parent, s.X)

	case *syntax.BranchStmt, *syntax.BadStmt:

	default:
		msg := fmt.Errorf("unexpected statement type: %T", s)
		panic(msg)
	}
}

// exprs opens function scopes for function literals within expressions.
func (b *builder) exprs(parent ID, xs ...*syntax.Expr) {
	for _, x := range xs {
		syntax.Inspect(x, func(n syntax.Node) bool {
			if e, ok := n.(*syntax.Expr); ok && e.Kind == syntax.ExprFunc {
				b.function(parent, e.Func)
			}

			return true
		})
	}
}

func (b *builder) function(parent ID, fn *syntax.FuncDecl) {
	if _, ok := b.seen[fn]; ok {
		return
	}
	b.seen[fn] = struct{}{}

	b.exprs(parent, fn.Decorators...)

	id := b.open(Function, fn.Span, parent)
	if id != parent {
		b.Scopes[id].Func = fn
	}

	b.stmts(id, fn.Body)
}
