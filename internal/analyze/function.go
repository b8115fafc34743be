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

package analyze

import (
	"fmt"

	"fillmore-labs.com/receiptguard/internal/catalog"
	"fillmore-labs.com/receiptguard/internal/cfg"
	"fillmore-labs.com/receiptguard/internal/dataflow"
	"fillmore-labs.com/receiptguard/internal/report"
	"fillmore-labs.com/receiptguard/internal/syntax"
)

// function holds the structural facts of one function and the findings derived from them.
type function struct {
	*file
	fn *syntax.FuncDecl

	graph *cfg.Graph
	flow  *dataflow.Result

	calls    []*syntax.Expr
	receipts []receipt

	// wrapped holds calls lexically inside a receipt.
	wrapped map[*syntax.Expr]struct{}
	// handled holds calls with a chained rejection handler.
	handled map[*syntax.Expr]struct{}

	issues []report.Issue
	sites  []report.CallSite
}

// receipt is a receipt-shaped expression: an object literal with receipt keys or a receipt call.
type receipt struct {
	expr *syntax.Expr
	node cfg.NodeID
}

// analyzeFunction builds the graph and data-flow facts of fn and checks its call sites.
// Panics from inconsistent input are recovered into an error.
func (f *file) analyzeFunction(fn *syntax.FuncDecl) (fa *function, err error) {
	defer func() {
		if p := recover(); p != nil {
			fa, err = nil, fmt.Errorf("%w: %v", ErrInternal, p)
		}
	}()

	g, err := cfg.Build(f.ctx, fn, f.MaxNodes)
	if err != nil {
		return nil, err
	}

	if f.Logger.IsTrace() {
		f.Logger.Trace("control flow graph", "path", f.src.Path, "function", fn.Name, "dot", g.Dot())
	}

	flow := dataflow.Analyze(f.ctx, g, dataflow.Config{MaxIterations: f.MaxIterations, Match: f.match})

	fa = &function{
		file:    f,
		fn:      fn,
		graph:   g,
		flow:    flow,
		wrapped: make(map[*syntax.Expr]struct{}),
		handled: make(map[*syntax.Expr]struct{}),
	}

	fa.collect()
	fa.check()

	return fa, nil
}

// collect enumerates the calls, receipts and handler chains of the function body.
func (fa *function) collect() {
	syntax.InspectList(fa.fn.Body, func(n syntax.Node) bool {
		e, ok := n.(*syntax.Expr)
		if !ok {
			return true
		}

		switch e.Kind {
		case syntax.ExprCall, syntax.ExprNew:
			fa.calls = append(fa.calls, e)

			if fa.isReceiptCall(e) {
				fa.addReceipt(e)
			}

			fa.markHandled(e)

		case syntax.ExprObject:
			if fa.Catalog.IsReceiptObject(e.Keys()) {
				fa.addReceipt(e)
			}
		}

		return true
	})
}

// isReceiptCall reports whether the call produces a receipt, by name or by its keyword arguments.
func (fa *function) isReceiptCall(call *syntax.Expr) bool {
	if fa.Catalog.IsReceiptCall(catalog.Normalize(call.Callee())) {
		return true
	}

	var keys []string
	for _, a := range call.Args {
		if a.Kind == syntax.ExprKeyword {
			keys = append(keys, a.Name)
		}
	}

	return fa.Catalog.IsReceiptObject(keys)
}

func (fa *function) addReceipt(e *syntax.Expr) {
	fa.receipts = append(fa.receipts, receipt{expr: e, node: fa.graph.NodeAt(e.Pos().Offset)})

	syntax.Inspect(e, func(n syntax.Node) bool {
		if c, ok := n.(*syntax.Expr); ok && c != e && (c.Kind == syntax.ExprCall || c.Kind == syntax.ExprNew) {
			fa.wrapped[c] = struct{}{}
		}

		return true
	})
}

// markHandled records the calls in the receiver chain of `.catch(h)` or `.then(f, h)`.
func (fa *function) markHandled(e *syntax.Expr) {
	m := e.X
	if m == nil || m.Kind != syntax.ExprMember {
		return
	}

	if m.Name != "catch" && (m.Name != "then" || len(e.Args) < 2) {
		return
	}

	for x := m.X; x != nil; {
		switch x.Kind {
		case syntax.ExprCall, syntax.ExprNew:
			fa.handled[x] = struct{}{}
			x = x.X

		case syntax.ExprMember, syntax.ExprAwait:
			x = x.X

		default:
			return
		}
	}
}

// check evaluates every call site, then the whole-function rules.
func (fa *function) check() {
	for _, call := range fa.calls {
		fa.checkCall(call)
	}

	fa.unreachable()
	fa.discarded()
}

func (fa *function) add(rule report.Rule, category catalog.Category, n syntax.Node, callee, message string) *report.Issue {
	start, end := positions(n)

	i, ok := fa.newIssue(rule, category, start, end, callee, message)
	if !ok {
		return nil
	}

	fa.issues = append(fa.issues, i)

	return &fa.issues[len(fa.issues)-1]
}

// unreachable reports the first statement of every region no path from the entry reaches.
func (fa *function) unreachable() {
	for _, item := range fa.graph.Unreachable() {
		fa.add(report.UnreachableCode, "", item, fa.fn.Name,
			fmt.Sprintf("Unreachable code in %s", fa.fn.Name))
	}
}

// discarded reports tool and LLM results bound to a name that is never read.
func (fa *function) discarded() {
	if !fa.flow.Converged {
		return
	}

	var captured map[string]struct{}

	for _, d := range fa.flow.DeadStores() {
		if d.Call == nil {
			continue
		}

		if llm, ok := d.Pattern.(catalog.LLMPattern); ok && llm.Provider == clientProvider {
			continue // a client, not a result
		}

		if captured == nil {
			captured = fa.captured()
		}

		if _, ok := captured[d.Name]; ok {
			continue
		}

		callee := catalog.Normalize(d.Call.Callee())
		_, category := catalog.Describe(d.Pattern)

		pos := report.Position{Line: d.Pos.Line, Column: d.Pos.Column}
		if i, ok := fa.newIssue(report.DiscardedResult, category, pos, pos, callee,
			fmt.Sprintf("Result of %s is assigned to %s but never used", callee, d.Name)); ok {
			fa.issues = append(fa.issues, i)
		}
	}
}

// captured returns the names mentioned by functions nested in this one.
func (fa *function) captured() map[string]struct{} {
	names := make(map[string]struct{})

	if fa.tree == nil {
		return names
	}

	for _, nested := range fa.tree.Funcs {
		if nested.Parent != fa.fn {
			continue
		}

		for name := range syntax.Idents(nested) {
			names[name] = struct{}{}
		}
	}

	return names
}
