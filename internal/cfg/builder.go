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
	"fmt"
	"slices"

	"fillmore-labs.com/receiptguard/internal/syntax"
)

// builder constructs the control flow graph.
// It traverses the statement tree and creates nodes and edges based on control flow semantics.
//
// The append* methods return the next node where statements should be added.
type builder struct {
	factory                               // All nodes created during traversal
	labels       map[string]*LabelTarget // Maps label names to their targets
	targetScopes branchTargetScopes      // Current break/continue targets
	tries        []*tryContext           // Active try statements, innermost last
	exit         *Node
}

// bailout aborts construction with an error.
type bailout struct{ err error }

// appendStmtList appends a list of statements to the current node.
func (b *builder) appendStmtList(current *Node, list []syntax.Stmt) *Node {
	for _, s := range list {
		current = b.appendStmt(current, s, nil)
	}

	return current
}

// appendStmt appends a single statement to the current node.
// labeled is the label target of a directly labeled loop or switch.
func (b *builder) appendStmt(current *Node, stmt syntax.Stmt, labeled *LabelTarget) *Node {
	switch stmt := stmt.(type) {
	case nil:
		return current

	case *syntax.BadStmt:
		panic(bailout{fmt.Errorf("%w: syntax error at line %d", ErrUnsupported, stmt.Pos().Line)})

	case *syntax.BlockStmt:
		return b.appendStmtList(current, stmt.List)

	case *syntax.BranchStmt:
		return b.appendBranchStmt(current, stmt)

	case *syntax.ClassDecl, *syntax.DeclStmt, *syntax.ExprStmt, *syntax.FuncDecl:
		b.addItem(current, stmt)
		return current

	case *syntax.IfStmt:
		return b.appendIfStmt(current, stmt)

	case *syntax.LabeledStmt:
		return b.appendLabeledStmt(current, stmt)

	case *syntax.LoopStmt:
		return b.appendLoopStmt(current, stmt, labeled)

	case *syntax.ReturnStmt:
		return b.appendReturnStmt(current, stmt)

	case *syntax.SwitchStmt:
		return b.appendSwitchStmt(current, stmt, labeled)

	case *syntax.ThrowStmt:
		return b.appendThrowStmt(current, stmt)

	case *syntax.TryStmt:
		return b.appendTryStmt(current, stmt)

	default:
		msg := fmt.Errorf("%w: unexpected statement type: %T", ErrUnsupported, stmt)
		panic(bailout{msg})
	}
}

// addItem adds a simple statement or expression, wiring an exception edge when it may throw.
func (b *builder) addItem(current *Node, item syntax.Node) {
	current.add(item)

	if !current.Throws && throws(item) {
		b.markThrows(current)
	}
}

// markThrows records that the node may throw and links it to the active handler.
func (b *builder) markThrows(n *Node) {
	n.Throws = true

	if h := b.handler(); h != nil {
		n.Handler = h.ID
		link(n, h)
	}
}

// handler returns the node receiving exceptions at the current position, or nil when unhandled.
func (b *builder) handler() *Node {
	for i := len(b.tries) - 1; i >= 0; i-- {
		t := b.tries[i]
		if t.catch != nil {
			return t.catch
		}

		if t.finally != nil {
			t.abrupt = true
			return t.finally
		}
	}

	return nil
}

// finallyTarget returns the innermost finally node a return passes through, or the exit.
func (b *builder) finallyTarget(from int) *Node {
	for i := from - 1; i >= 0; i-- {
		if t := b.tries[i]; t.finally != nil {
			t.abrupt = true
			return t.finally
		}
	}

	return b.exit
}

func throws(item syntax.Node) bool {
	var found bool

	syntax.Inspect(item, func(n syntax.Node) bool {
		if e, ok := n.(*syntax.Expr); ok {
			switch e.Kind {
			case syntax.ExprCall, syntax.ExprNew, syntax.ExprAwait:
				found = true
			}
		}

		return !found
	})

	return found
}

// appendLabeledStmt handles labeled statements.
func (b *builder) appendLabeledStmt(current *Node, stmt *syntax.LabeledStmt) *Node {
	labeled := &LabelTarget{}

	old, shadowed := b.labels[stmt.Label]
	b.labels[stmt.Label] = labeled

	defer func() {
		if shadowed {
			b.labels[stmt.Label] = old
		} else {
			delete(b.labels, stmt.Label)
		}
	}()

	switch stmt.Stmt.(type) {
	case *syntax.LoopStmt, *syntax.SwitchStmt:
		return b.appendStmt(current, stmt.Stmt, labeled)

	default:
		after := b.New(BlockNode) // after labeled block
		labeled.SetBreak(after)

		end := b.appendStmt(current, stmt.Stmt, nil)
		link(end, after)

		return after
	}
}

// appendBranchStmt handles break and continue.
func (b *builder) appendBranchStmt(current *Node, stmt *syntax.BranchStmt) *Node {
	var target *Node
	if stmt.Label == "" {
		target = b.targetScopes.branchTarget(stmt.Tok)
	} else if labeled, ok := b.labels[stmt.Label]; ok {
		target = labeled.BranchTarget(stmt.Tok)
	}

	current.add(stmt)
	link(current, target)

	return b.New(BlockNode) // unreachable after break or continue
}

// appendReturnStmt handles return statements.
func (b *builder) appendReturnStmt(current *Node, stmt *syntax.ReturnStmt) *Node {
	ret := b.New(ReturnNode)
	link(current, ret)
	b.addItem(ret, stmt)

	link(ret, b.finallyTarget(len(b.tries)))

	return b.New(BlockNode) // unreachable after return
}

// appendThrowStmt handles throw and raise statements.
func (b *builder) appendThrowStmt(current *Node, stmt *syntax.ThrowStmt) *Node {
	thr := b.New(ThrowNode)
	link(current, thr)
	thr.add(stmt)
	b.markThrows(thr)

	if thr.Handler == NoNode {
		link(thr, b.exit) // unhandled
	}

	return b.New(BlockNode) // unreachable after throw
}

// appendIfStmt handles if statements.
func (b *builder) appendIfStmt(current *Node, stmt *syntax.IfStmt) *Node {
	branch := b.New(BranchNode)
	link(current, branch)

	branch.Cond = stmt.Cond
	if stmt.Cond != nil {
		b.addItem(branch, stmt.Cond)
	}

	body := b.New(BlockNode) // if body
	link(branch, body)

	after := b.New(BlockNode) // after if

	afterBody := b.appendStmt(body, stmt.Then, nil)
	link(afterBody, after)

	if stmt.Else != nil {
		elseBranch := b.New(BlockNode) // else branch
		link(branch, elseBranch)

		afterElse := b.appendStmt(elseBranch, stmt.Else, nil)
		link(afterElse, after)
	} else {
		link(branch, after)
	}

	return after
}

// appendLoopStmt handles all loops.
func (b *builder) appendLoopStmt(current *Node, stmt *syntax.LoopStmt, labeled *LabelTarget) *Node {
	current = b.appendStmt(current, stmt.Init, nil)

	iteration := stmt.Kind == syntax.ForInLoop || stmt.Kind == syntax.ForOfLoop
	if iteration && stmt.Cond != nil {
		b.addItem(current, stmt.Cond) // iterable, evaluated once
	}

	head := b.New(LoopHeadNode)
	body := b.New(LoopBodyNode)
	after, old := b.newAfterNode(labeled) // after loop

	for _, n := range [...]*Node{head, body} {
		n.LoopHead, n.LoopExit = head.ID, after.ID
	}

	switch {
	case iteration:
		if stmt.Var != nil {
			head.add(stmt.Var)
		}

	case stmt.Cond != nil:
		head.Cond = stmt.Cond
		b.addItem(head, stmt.Cond)
	}

	continueTarget := head
	if stmt.Post != nil {
		continueTarget = b.New(BlockNode) // post statement
		b.addItem(continueTarget, stmt.Post)
		link(continueTarget, head)
	}

	if labeled != nil {
		labeled.SetContinue(continueTarget)
	}

	if stmt.Kind == syntax.DoWhileLoop {
		link(current, body)
	} else {
		link(current, head)
	}

	link(head, body)

	exit := after
	if stmt.Else != nil {
		exit = b.New(BlockNode) // loop else
	}

	if !forever(stmt) {
		link(head, exit)
	}

	oldc := b.targetScopes.pushContinue(continueTarget)

	bodyEnd := b.appendStmt(body, stmt.Body, nil)
	link(bodyEnd, continueTarget)

	b.targetScopes.popContinue(oldc)
	b.popAfterBreak(old)

	if stmt.Else != nil {
		link(b.appendStmt(exit, stmt.Else, nil), after)
	}

	return after
}

// forever reports whether a loop can only be left by a jump.
func forever(stmt *syntax.LoopStmt) bool {
	switch stmt.Kind {
	case syntax.ForLoop:
		return stmt.Cond == nil

	case syntax.WhileLoop, syntax.DoWhileLoop:
		if stmt.Cond == nil {
			return true
		}

		switch stmt.Cond.Text {
		case "true", "True", "1", "(true)":
			return true
		}
	}

	return false
}

// appendSwitchStmt handles switch and match statements.
func (b *builder) appendSwitchStmt(current *Node, stmt *syntax.SwitchStmt, labeled *LabelTarget) *Node {
	if stmt.Tag != nil {
		b.addItem(current, stmt.Tag)
	}

	numCases := len(stmt.Cases)
	if numCases == 0 {
		return current
	}

	after, old := b.newAfterNode(labeled) // after switch

	bodies := make([]*Node, numCases)
	for i := range bodies {
		bodies[i] = b.New(BlockNode) // case body
	}

	// no default, switch can fall through
	defaultTarget := after

	// case tests, linked current -> test1 -> test2 -> default
	prevTest := current

	for i, clause := range stmt.Cases {
		if clause.Values == nil {
			defaultTarget = bodies[i]
			continue
		}

		test := b.New(BranchNode)
		test.Cond = clause.Values[0]
		for _, v := range clause.Values {
			b.addItem(test, v)
		}

		link(prevTest, test)
		link(test, bodies[i])
		prevTest = test
	}

	link(prevTest, defaultTarget)

	for i, clause := range stmt.Cases {
		end := b.appendStmtList(bodies[i], clause.Body)

		if stmt.NoFallthrough || i == numCases-1 {
			link(end, after)
		} else {
			link(end, bodies[i+1]) // fall through
		}
	}

	b.popAfterBreak(old)

	return after
}

// appendTryStmt handles try statements with their catch, else and finally blocks.
func (b *builder) appendTryStmt(current *Node, stmt *syntax.TryStmt) *Node {
	try := b.New(TryNode)
	link(current, try)

	ctx := &tryContext{}

	if len(stmt.Catches) > 0 {
		ctx.catch = b.New(CatchNode)
		try.Catch = ctx.catch.ID
	}

	if stmt.Finally != nil {
		ctx.finally = b.New(FinallyNode)
		try.Finally = ctx.finally.ID
	}

	// any statement in try may throw
	if ctx.catch != nil {
		link(try, ctx.catch)
	} else {
		link(try, ctx.finally)
		ctx.abrupt = true
	}

	after := b.New(BlockNode) // after try

	level := len(b.tries)
	b.tries = append(b.tries, ctx)

	body := b.New(BlockNode) // try body
	link(try, body)
	ends := []*Node{b.appendStmtList(body, stmt.Body.List)}

	// handlers and else only see the finally of this statement
	handlers := *ctx
	handlers.catch = nil
	b.tries[level] = &handlers

	if stmt.Else != nil {
		elseBlock := b.New(BlockNode) // try else
		link(ends[0], elseBlock)
		ends[0] = b.appendStmtList(elseBlock, stmt.Else.List)
	}

	if ctx.catch != nil {
		ends = b.appendCatches(ctx.catch, stmt.Catches, ends)
	}

	b.tries = b.tries[:level]
	ctx.abrupt = ctx.abrupt || handlers.abrupt

	if ctx.finally == nil {
		for _, end := range ends {
			link(end, after)
		}

		return after
	}

	for _, end := range ends {
		link(end, ctx.finally)
	}

	finEnd := b.appendStmtList(ctx.finally, stmt.Finally.List)
	if b.completes(try, ends) {
		link(finEnd, after)
	}

	if ctx.abrupt {
		// continue the pending return or exception
		link(finEnd, b.finallyTarget(level))
		if h := b.handler(); h != nil {
			link(finEnd, h)
		}
	}

	return after
}

// completes reports whether one of ends is reachable from start, that is, whether
// the try statement can finish normally. Edges into the statement's nodes are
// complete at this point, so the search walks predecessors only.
func (b *builder) completes(start *Node, ends []*Node) bool {
	seen := make(map[NodeID]struct{})
	stack := slices.Clone(ends)

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n == start {
			return true
		}

		if _, ok := seen[n.ID]; ok {
			continue
		}
		seen[n.ID] = struct{}{}

		for _, p := range n.Preds {
			stack = append(stack, b.Node(p))
		}
	}

	return false
}

// appendCatches lowers catch clauses. A single clause is lowered into the catch node,
// several clauses are dispatched from it.
func (b *builder) appendCatches(catch *Node, clauses []*syntax.CatchClause, ends []*Node) []*Node {
	for _, clause := range clauses {
		start := catch
		if len(clauses) > 1 {
			start = b.New(CatchNode) // catch clause
			link(catch, start)
		}

		if clause.Type != nil {
			b.addItem(start, clause.Type)
		}

		if clause.Param != "" {
			start.add(&syntax.DeclStmt{
				Span:  syntax.Span{From: clause.Pos(), To: clause.Pos()},
				Kind:  syntax.LetDecl,
				Names: []string{clause.Param},
			})
		}

		ends = append(ends, b.appendStmtList(start, clause.Body.List))
	}

	return ends
}

func (b *builder) newAfterNode(labeled *LabelTarget) (after, old *Node) {
	after = b.New(BlockNode) // after

	if labeled != nil {
		labeled.SetBreak(after)
	}

	old = b.targetScopes.pushBreak(after)

	return after, old
}

func (b *builder) popAfterBreak(old *Node) {
	b.targetScopes.popBreak(old)
}
