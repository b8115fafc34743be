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

package syntax

// Inspect traverses the statements and expressions under n in depth-first order,
// calling f for each node. If f returns false, the children of that node are skipped.
//
// Inspect does not descend into the bodies of nested functions or class methods:
// those run in a different activation and are analyzed separately. Decorators,
// class bases and non-method class members are evaluated in place and are visited.
func Inspect(n Node, f func(Node) bool) {
	switch n := n.(type) {
	case nil:
		return

	case *Expr:
		if n == nil || !f(n) {
			return
		}
		inspectExpr(n, f)

	case Stmt:
		if isNil(n) || !f(n) {
			return
		}
		inspectStmt(n, f)
	}
}

// InspectList calls [Inspect] for each statement of a list.
func InspectList(list []Stmt, f func(Node) bool) {
	for _, s := range list {
		Inspect(s, f)
	}
}

func inspectExpr(e *Expr, f func(Node) bool) {
	if e.Lhs != nil {
		Inspect(e.Lhs, f)
	}

	if e.X != nil {
		Inspect(e.X, f)
	}

	for _, a := range e.Args {
		Inspect(a, f)
	}

	for _, p := range e.Props {
		Inspect(p.Value, f)
	}

	if e.Func != nil {
		for _, d := range e.Func.Decorators {
			Inspect(d, f)
		}
	}
}

func inspectStmt(s Stmt, f func(Node) bool) {
	switch s := s.(type) {
	case *FuncDecl:
		for _, d := range s.Decorators {
			Inspect(d, f)
		}

	case *ClassDecl:
		for _, b := range s.Bases {
			Inspect(b, f)
		}
		InspectList(s.Body, f)

	case *BlockStmt:
		InspectList(s.List, f)

	case *ExprStmt:
		Inspect(s.X, f)

	case *DeclStmt:
		Inspect(s.Target, f)
		Inspect(s.Value, f)

	case *IfStmt:
		Inspect(s.Cond, f)
		Inspect(s.Then, f)
		Inspect(s.Else, f)

	case *LoopStmt:
		Inspect(s.Init, f)
		if s.Var != nil {
			Inspect(s.Var, f)
		}
		Inspect(s.Cond, f)
		Inspect(s.Body, f)
		Inspect(s.Post, f)
		Inspect(s.Else, f)

	case *TryStmt:
		Inspect(s.Body, f)
		for _, c := range s.Catches {
			Inspect(c.Type, f)
			Inspect(c.Body, f)
		}
		if s.Else != nil {
			Inspect(s.Else, f)
		}
		if s.Finally != nil {
			Inspect(s.Finally, f)
		}

	case *ThrowStmt:
		Inspect(s.X, f)

	case *ReturnStmt:
		Inspect(s.X, f)

	case *SwitchStmt:
		Inspect(s.Tag, f)
		for _, c := range s.Cases {
			for _, v := range c.Values {
				Inspect(v, f)
			}
			InspectList(c.Body, f)
		}

	case *LabeledStmt:
		Inspect(s.Stmt, f)

	case *BranchStmt, *BadStmt:
	}
}

// isNil catches typed nil statements stored in interface fields.
func isNil(s Stmt) bool {
	switch s := s.(type) {
	case *BlockStmt:
		return s == nil
	case *DeclStmt:
		return s == nil
	case *IfStmt:
		return s == nil
	case *FuncDecl:
		return s == nil
	default:
		return false
	}
}

// Idents returns the identifiers read anywhere within a function, including
// its nested functions. It approximates the variables a closure captures.
func Idents(fn *FuncDecl) map[string]struct{} {
	ids := make(map[string]struct{})

	var visit func(Node) bool
	visit = func(n Node) bool {
		switch n := n.(type) {
		case *Expr:
			switch n.Kind {
			case ExprIdent:
				ids[n.Name] = struct{}{}

			case ExprFunc:
				InspectList(n.Func.Body, visit)
			}

		case *FuncDecl:
			InspectList(n.Body, visit)

		case *ClassDecl:
			for _, m := range n.Methods {
				InspectList(m.Body, visit)
			}
		}

		return true
	}

	InspectList(fn.Body, visit)

	return ids
}

// Calls returns the call and new expressions directly within a statement list,
// in source order, excluding those inside nested functions.
func Calls(list []Stmt) []*Expr {
	var calls []*Expr

	InspectList(list, func(n Node) bool {
		if e, ok := n.(*Expr); ok && (e.Kind == ExprCall || e.Kind == ExprNew) {
			calls = append(calls, e)
		}

		return true
	})

	return calls
}
