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

// checkCall evaluates a single call site.
func (fa *function) checkCall(call *syntax.Expr) {
	callee := catalog.Normalize(call.Callee())
	text := catalog.Normalize(call.Text)

	p, isCall := fa.Catalog.Match(callee, text, fa.text)
	effect, isEffect := fa.Catalog.SideEffect(callee, text)

	if !isCall && !isEffect {
		return
	}

	line := call.Pos().Line
	suppressed := fa.src.SuppressedAll(line)

	category := catalog.SideEffect
	if isCall {
		var family catalog.Family
		family, category = catalog.Describe(p)

		site := fa.callSite(call, callee, p, family, category)
		site.Suppressed = suppressed

		if !suppressed {
			fa.checkPattern(call, callee, p, family, category, &site)
		}

		fa.sites = append(fa.sites, site)
	}

	if suppressed || !isEffect || fa.confirmed(call) {
		return
	}

	if i := fa.add(report.UnconfirmedSideEffect, category, call, callee,
		fmt.Sprintf("Destructive %s operation %s has no confirmation guard", effect.Operation, callee)); i != nil {
		i.Severity = max(i.Severity, effect.Severity)
	}
}

func (fa *function) callSite(call *syntax.Expr, callee string, p catalog.Pattern, family catalog.Family, category catalog.Category) report.CallSite {
	receiptRequired, errorsRequired := catalog.Requirements(p)
	start, _ := positions(call)

	return report.CallSite{
		Start:                 start,
		Callee:                callee,
		Family:                family.String(),
		Category:              string(category),
		Pattern:               p.ID(),
		Function:              fa.fn.Name,
		RequiresReceipt:       receiptRequired,
		RequiresErrorHandling: errorsRequired,
	}
}

// checkPattern runs the receipt, error handling and family-specific checks.
func (fa *function) checkPattern(call *syntax.Expr, callee string, p catalog.Pattern, family catalog.Family, category catalog.Category, site *report.CallSite) {
	site.HasReceipt, site.Linked = fa.receipt(call)
	site.HasErrorHandling = fa.protected(call)

	if site.RequiresReceipt && !site.HasReceipt {
		fa.add(report.MissingReceipt, category, call, callee,
			fmt.Sprintf("%s call %s has no receipt built from its result", title(family), callee))
	}

	if site.RequiresErrorHandling && !site.HasErrorHandling {
		fa.add(report.MissingErrorHandling, category, call, callee,
			fmt.Sprintf("%s call %s is not covered by an error handler", title(family), callee))
	}

	switch p := p.(type) {
	case catalog.LLMPattern:
		site.HasResilience = fa.resilient(call)
		if !site.HasResilience {
			fa.add(report.MissingResilience, category, call, callee,
				fmt.Sprintf("LLM call %s has no timeout or retry configuration", callee))
		}

	case catalog.AgentPattern:
		site.HasProvenance = fa.provenance(call)
		if !site.HasProvenance {
			fa.add(report.MissingProvenance, category, call, callee,
				fmt.Sprintf("Agent call %s records no action id or timestamp", callee))
		}

		fa.agentArguments(call, callee, p)

	case catalog.ToolPattern:

	default:
		msg := fmt.Errorf("unexpected pattern type: %T", p)
		panic(msg)
	}
}

func (fa *function) agentArguments(call *syntax.Expr, callee string, p catalog.AgentPattern) {
	switch p.Check {
	case catalog.CheckErrorCallback:
		if !fa.Catalog.ErrorCallback.Match(call.Text) {
			fa.add(report.TaskErrorHandler, catalog.Agent, call, callee,
				fmt.Sprintf("Agent task %s has no error callback", callee))
		}

	case catalog.CheckTermination:
		if !fa.Catalog.Termination.Match(call.Text) {
			fa.add(report.AgentTermination, catalog.Agent, call, callee,
				fmt.Sprintf("Agent %s has no termination bound", callee))
		}

	case catalog.NoAgentCheck:
	}
}

// receipt reports whether the call is covered by a receipt, and whether data flow
// linked the receipt to the call's result.
//
// A call inside a receipt, or in a method of a receipt-generating class, is covered.
// Otherwise a receipt must be reachable after the call within the same function.
// When the call's result is bound to a name and data flow converged, that receipt
// must consume the result. Without a binding, receipts within the receipt window
// count, unless strict data flow is requested.
func (fa *function) receipt(call *syntax.Expr) (covered, linked bool) {
	if _, ok := fa.wrapped[call]; ok {
		return true, false
	}

	if fa.inReceiptClass() {
		return true, false
	}

	node := fa.graph.NodeAt(call.Pos().Offset)

	var after []receipt
	for _, r := range fa.receipts {
		if r.node == cfg.NoNode || r.expr == call {
			continue
		}

		if r.node == node && r.expr.Pos().Offset < call.End().Offset {
			continue
		}

		if fa.graph.CanReach(node, r.node) {
			after = append(after, r)
		}
	}

	if def := fa.flow.DefForCall(call); def != nil && fa.flow.Converged {
		for _, r := range after {
			if fa.consumes(r.expr, def) {
				return true, true
			}
		}

		return false, false
	}

	if fa.Strict() {
		return false, false
	}

	for _, r := range after {
		if r.expr.Pos().Line-call.Pos().Line <= fa.ReceiptWindow {
			return true, false
		}
	}

	return false, false
}

// consumes reports whether any identifier in the receipt may carry the value of def.
func (fa *function) consumes(e *syntax.Expr, def *dataflow.Def) bool {
	found := false

	syntax.Inspect(e, func(n syntax.Node) bool {
		if found {
			return false
		}

		if id, ok := n.(*syntax.Expr); ok && id.Kind == syntax.ExprIdent {
			found = fa.flow.DerivedFrom(id.Name, id.Pos().Offset, def)
		}

		return !found
	})

	return found
}

// inReceiptClass reports whether the function is, or is nested in, a method of a receipt-generating class.
func (fa *function) inReceiptClass() bool {
	for fn := fa.fn; fn != nil; fn = fn.Parent {
		if fn.Class == nil {
			continue
		}

		for _, b := range fn.Class.Bases {
			if fa.Catalog.IsReceiptBase(catalog.Normalize(b.Text)) {
				return true
			}
		}
	}

	return false
}

// protected reports whether a catch handler of the same function, or a chained rejection handler, covers the call.
func (fa *function) protected(call *syntax.Expr) bool {
	if _, ok := fa.handled[call]; ok {
		return true
	}

	_, ok := fa.scopes.Protection(call.Pos().Offset)

	return ok
}

// resilient reports whether an LLM call has timeout or retry configuration in its arguments,
// a decorator, the preceding lines or a client constructed in the same file.
func (fa *function) resilient(call *syntax.Expr) bool {
	m := fa.Catalog.Resilience

	if fa.resilientClient || m.Match(call.Text) {
		return true
	}

	for fn := fa.fn; fn != nil; fn = fn.Parent {
		for _, d := range fn.Decorators {
			if m.Match("@" + d.Text) {
				return true
			}
		}
	}

	line := call.Pos().Line

	return m.Match(fa.src.Lines(line-fa.ResilienceWindow, line))
}

// provenance reports whether an action id or timestamp accompanies an agent call.
func (fa *function) provenance(call *syntax.Expr) bool {
	m := fa.Catalog.Provenance

	if m.Match(call.Text) {
		return true
	}

	line := call.Pos().Line
	last := min(line+fa.ReceiptWindow, fa.fn.End().Line)

	return m.Match(fa.src.Lines(line, last))
}

// confirmed reports whether a confirmation marker appears upstream of the call:
// in a branch condition or statement of a node that can reach it, or earlier in its own node.
func (fa *function) confirmed(call *syntax.Expr) bool {
	m := fa.Catalog.Confirmation

	node := fa.graph.NodeAt(call.Pos().Offset)
	if node == cfg.NoNode {
		line := call.Pos().Line
		return m.Match(fa.src.Lines(line-fa.ReceiptWindow, line))
	}

	for _, item := range fa.graph.Node(node).Items {
		if item.End().Offset <= call.Pos().Offset && m.Match(fa.itemText(item)) {
			return true
		}
	}

	for id, ok := range fa.graph.Ancestors(node) {
		if !ok {
			continue
		}

		n := fa.graph.Node(cfg.NodeID(id))
		if n.Cond != nil && m.Match(n.Cond.Text) {
			return true
		}

		for _, item := range n.Items {
			if m.Match(fa.itemText(item)) {
				return true
			}
		}
	}

	return false
}

// itemText returns the source of a graph item. Declarations contribute their name only.
func (fa *function) itemText(item syntax.Node) string {
	switch item := item.(type) {
	case *syntax.FuncDecl:
		return item.Name

	case *syntax.ClassDecl:
		return item.Name

	default:
		return fa.text[item.Pos().Offset:item.End().Offset]
	}
}

func title(f catalog.Family) string {
	switch f {
	case catalog.ToolCall:
		return "Tool"

	case catalog.LLMCall:
		return "LLM"

	case catalog.AgentCall:
		return "Agent"

	default:
		return f.String()
	}
}
