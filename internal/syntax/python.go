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

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// pyStmt lowers a Python statement.
func (l *lowerer) pyStmt(n *sitter.Node) []Stmt {
	switch n.Type() {
	case "expression_statement":
		xs := namedChildren(n)
		switch {
		case len(xs) == 0:
			return nil

		case len(xs) > 1:
			return []Stmt{&ExprStmt{Span: l.span(n), X: &Expr{Span: l.span(n), Text: l.text(n), Args: l.pyList(n)}}}
		}

		switch x := xs[0]; x.Type() {
		case "assignment":
			return []Stmt{l.pyAssign(n, x)}

		case "augmented_assignment":
			s := &DeclStmt{Span: l.span(n), Kind: AssignDecl, Compound: true}
			l.assignTarget(s, field(x, "left"))
			s.Value = l.pyExpr(field(x, "right"))

			return []Stmt{s}

		default:
			return []Stmt{&ExprStmt{Span: l.span(n), X: l.pyExpr(x)}}
		}

	case "function_definition":
		return []Stmt{l.pyFunc(n, DeclaredFunc, nil)}

	case "class_definition":
		return []Stmt{l.pyClass(n)}

	case "decorated_definition":
		var decorators []*Expr
		for _, d := range namedChildren(n) {
			if d.Type() == "decorator" {
				decorators = append(decorators, l.pyExpr(firstNamed(d)))
			}
		}

		switch def := field(n, "definition"); {
		case def == nil:
			return nil

		case def.Type() == "class_definition":
			return []Stmt{l.pyClass(def)}

		default:
			return []Stmt{l.pyFunc(def, DeclaredFunc, decorators)}
		}

	case "block":
		return []Stmt{l.block(n)}

	case "if_statement":
		var alt Stmt
		clauses := namedChildren(n)
		for i := len(clauses) - 1; i >= 0; i-- {
			switch c := clauses[i]; c.Type() {
			case "else_clause":
				alt = l.block(field(c, "body"))

			case "elif_clause":
				alt = &IfStmt{
					Span: l.span(c),
					Cond: l.pyExpr(field(c, "condition")),
					Then: l.block(field(c, "consequence")),
					Else: alt,
				}
			}
		}

		return []Stmt{&IfStmt{
			Span: l.span(n),
			Cond: l.pyExpr(field(n, "condition")),
			Then: l.block(field(n, "consequence")),
			Else: alt,
		}}

	case "for_statement":
		return []Stmt{&LoopStmt{
			Span: l.span(n),
			Kind: ForOfLoop,
			Var:  l.loopVar(field(n, "left")),
			Cond: l.pyExpr(field(n, "right")),
			Body: l.block(field(n, "body")),
			Else: l.pyElse(field(n, "alternative")),
		}}

	case "while_statement":
		return []Stmt{&LoopStmt{
			Span: l.span(n),
			Kind: WhileLoop,
			Cond: l.pyExpr(field(n, "condition")),
			Body: l.block(field(n, "body")),
			Else: l.pyElse(field(n, "alternative")),
		}}

	case "try_statement":
		return []Stmt{l.pyTry(n)}

	case "with_statement":
		return l.pyWith(n)

	case "raise_statement":
		return []Stmt{&ThrowStmt{Span: l.span(n), X: l.pyExpr(firstNamed(n))}}

	case "return_statement":
		return []Stmt{&ReturnStmt{Span: l.span(n), X: l.pyExpr(firstNamed(n))}}

	case "break_statement":
		return []Stmt{&BranchStmt{Span: l.span(n), Tok: Break}}

	case "continue_statement":
		return []Stmt{&BranchStmt{Span: l.span(n), Tok: Continue}}

	case "match_statement":
		return []Stmt{l.pyMatch(n)}

	case "pass_statement", "import_statement", "import_from_statement", "future_import_statement",
		"global_statement", "nonlocal_statement", "comment", "type_alias_statement":
		return nil

	default:
		return []Stmt{&ExprStmt{Span: l.span(n), X: l.pyExpr(n)}}
	}
}

func (l *lowerer) pyElse(alt *sitter.Node) Stmt {
	if alt == nil {
		return nil
	}

	return l.block(field(alt, "body"))
}

// pyAssign lowers a possibly chained assignment into a single declaration.
func (l *lowerer) pyAssign(n, x *sitter.Node) *DeclStmt {
	s := &DeclStmt{Span: l.span(n), Kind: AssignDecl}

	for {
		left, right := field(x, "left"), field(x, "right")

		t := &DeclStmt{}
		l.assignTarget(t, left)
		s.Names = append(s.Names, t.Names...)
		if s.Target == nil {
			s.Target = t.Target
		}

		if right == nil || right.Type() != "assignment" {
			s.Value = l.pyExprNamed(right, l.text(left))

			return s
		}

		x = right
	}
}

func (l *lowerer) pyTry(n *sitter.Node) *TryStmt {
	s := &TryStmt{Span: l.span(n), Body: l.block(field(n, "body"))}

	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "except_clause", "except_group_clause":
			s.Catches = append(s.Catches, l.pyExcept(c))

		case "else_clause":
			s.Else = l.block(field(c, "body"))

		case "finally_clause":
			for _, b := range namedChildren(c) {
				if b.Type() == "block" {
					s.Finally = l.block(b)
				}
			}
		}
	}

	return s
}

func (l *lowerer) pyExcept(c *sitter.Node) *CatchClause {
	cc := &CatchClause{Span: l.span(c)}

	var exprs []*sitter.Node
	for _, x := range namedChildren(c) {
		if x.Type() == "block" {
			cc.Body = l.block(x)

			continue
		}
		exprs = append(exprs, x)
	}

	if cc.Body == nil {
		cc.Body = &BlockStmt{Span: cc.Span}
	}

	if len(exprs) == 0 {
		return cc
	}

	if v := field(c, "value"); v != nil {
		exprs[0] = v
	}

	if exprs[0].Type() == "as_pattern" {
		as := exprs[0]
		if alias := field(as, "alias"); alias != nil {
			cc.Param = l.text(firstNamed(alias))
			if cc.Param == "" {
				cc.Param = l.text(alias)
			}
		}
		cc.Type = l.pyExpr(firstNamed(as))

		return cc
	}

	cc.Type = l.pyExpr(exprs[0])
	if alias := field(c, "alias"); alias != nil {
		cc.Param = l.text(alias)
	} else if len(exprs) > 1 {
		cc.Param = l.text(exprs[1])
	}

	return cc
}

func (l *lowerer) pyWith(n *sitter.Node) []Stmt {
	var stmts []Stmt

	for _, c := range namedChildren(n) {
		if c.Type() != "with_clause" {
			continue
		}

		for _, item := range namedChildren(c) {
			value := field(item, "value")
			if value == nil {
				value = firstNamed(item)
			}

			alias := field(item, "alias")
			if value != nil && value.Type() == "as_pattern" {
				alias = field(value, "alias")
				value = firstNamed(value)
			}

			if alias == nil {
				stmts = append(stmts, &ExprStmt{Span: l.span(item), X: l.pyExpr(value)})

				continue
			}

			stmts = append(stmts, &DeclStmt{
				Span:  l.span(item),
				Kind:  WithDecl,
				Names: l.bindingNames(alias),
				Value: l.pyExpr(value),
			})
		}
	}

	return append(stmts, l.block(field(n, "body")))
}

func (l *lowerer) pyMatch(n *sitter.Node) *SwitchStmt {
	s := &SwitchStmt{Span: l.span(n), NoFallthrough: true}

	if subject := field(n, "subject"); subject != nil {
		s.Tag = l.pyExpr(subject)
	}

	for _, c := range namedChildren(field(n, "body")) {
		if c.Type() != "case_clause" {
			continue
		}

		cc := &CaseClause{Span: l.span(c)}
		for _, x := range namedChildren(c) {
			switch x.Type() {
			case "block":
				cc.Body = l.block(x).List

			default:
				cc.Values = append(cc.Values, l.pyExpr(x))
			}
		}

		s.Cases = append(s.Cases, cc)
	}

	return s
}

func (l *lowerer) pyFunc(n *sitter.Node, kind FuncKind, decorators []*Expr) *FuncDecl {
	fn := &FuncDecl{
		Span:       l.span(n),
		Name:       l.text(field(n, "name")),
		Kind:       kind,
		Async:      hasToken(n, "async"),
		Params:     l.params(field(n, "parameters")),
		Decorators: decorators,
	}

	leave := l.enter(fn)
	defer leave()

	fn.Body = l.list(field(n, "body"))

	return fn
}

func (l *lowerer) pyClass(n *sitter.Node) *ClassDecl {
	c := &ClassDecl{Span: l.span(n), Name: l.text(field(n, "name"))}
	if sc := field(n, "superclasses"); sc != nil {
		c.Bases = l.pyList(sc)
	}

	l.classes = append(l.classes, c)

	saved := l.class
	l.class = c
	defer func() { l.class = saved }()

	body := field(n, "body")
	for _, m := range namedChildren(body) {
		def, decorators := m, []*Expr(nil)
		if m.Type() == "decorated_definition" {
			for _, d := range namedChildren(m) {
				if d.Type() == "decorator" {
					decorators = append(decorators, l.pyExpr(firstNamed(d)))
				}
			}
			def = field(m, "definition")
		}

		if def != nil && def.Type() == "function_definition" && !headerError(m) {
			fn := l.pyFunc(def, MethodFunc, decorators)
			fn.Class = c
			c.Methods = append(c.Methods, fn)

			continue
		}

		c.Body = append(c.Body, l.stmt(m)...)
	}

	return c
}

func (l *lowerer) pyExpr(n *sitter.Node) *Expr {
	return l.pyExprNamed(n, "")
}

// pyExprNamed lowers an expression. name is used for lambdas bound to a name.
func (l *lowerer) pyExprNamed(n *sitter.Node, name string) *Expr {
	if n == nil {
		return nil
	}

	e := &Expr{Span: l.span(n), Text: l.text(n)}

	if n.IsError() || n.IsMissing() {
		e.Kind = ExprBad

		return e
	}

	switch n.Type() {
	case "identifier":
		e.Kind = ExprIdent
		e.Name = e.Text

	case "parenthesized_expression":
		if x := firstNamed(n); x != nil {
			return l.pyExprNamed(x, name)
		}

	case "attribute":
		e.Kind = ExprMember
		e.X = l.pyExpr(field(n, "object"))
		e.Name = l.text(field(n, "attribute"))

	case "subscript":
		e.Kind = ExprIndex
		e.X = l.pyExpr(field(n, "value"))
		for _, s := range fieldChildren(n, "subscript") {
			e.Args = append(e.Args, l.pyExpr(s))
		}

	case "call":
		e.Kind = ExprCall
		e.X = l.pyExpr(field(n, "function"))
		if args := field(n, "arguments"); args != nil {
			if args.Type() == "argument_list" {
				e.Args = l.pyList(args)
			} else {
				e.Args = []*Expr{l.pyExpr(args)}
			}
		}

	case "await":
		e.Kind = ExprAwait
		e.X = l.pyExpr(firstNamed(n))

	case "string", "concatenated_string":
		e.Kind = ExprString
		e.Args = l.interpolations(n)
		if len(e.Args) > 0 {
			e.Kind = ExprTemplate
		}

	case "dictionary":
		e.Kind = ExprObject
		for _, c := range namedChildren(n) {
			switch c.Type() {
			case "pair":
				key := l.propKey(field(c, "key"))
				e.Props = append(e.Props, &Property{Span: l.span(c), Key: key, Value: l.pyExprNamed(field(c, "value"), key)})

			case "dictionary_splat":
				e.Props = append(e.Props, &Property{Span: l.span(c), Key: "**", Value: l.pyExpr(firstNamed(c))})
			}
		}

	case "list", "tuple", "set", "expression_list", "pattern_list":
		e.Kind = ExprArray
		e.Args = l.pyList(n)

	case "lambda":
		fn := &FuncDecl{Span: e.Span, Name: name, Kind: ArrowFunc, Params: l.params(field(n, "parameters"))}
		if fn.Name == "" {
			fn.Name = "<lambda>"
		}

		leave := l.enter(fn)
		if body := l.pyExpr(field(n, "body")); body != nil {
			fn.Body = []Stmt{&ReturnStmt{Span: body.Span, X: body}}
		}
		leave()

		e.Kind = ExprFunc
		e.Func = fn

	case "named_expression":
		e.Kind = ExprAssign
		e.Name = ":="
		e.Lhs = l.pyExpr(field(n, "name"))
		e.X = l.pyExpr(field(n, "value"))

	case "keyword_argument":
		e.Kind = ExprKeyword
		e.Name = l.text(field(n, "name"))
		e.X = l.pyExprNamed(field(n, "value"), e.Name)

	case "integer", "float", "true", "false", "none", "ellipsis":

	default:
		e.Args = l.pyList(n)
	}

	return e
}

func (l *lowerer) pyList(n *sitter.Node) []*Expr {
	var args []*Expr
	for _, c := range namedChildren(n) {
		if c.Type() == "type" {
			continue
		}
		args = append(args, l.pyExpr(c))
	}

	return args
}

// interpolations returns the expressions embedded in f-strings.
func (l *lowerer) interpolations(n *sitter.Node) []*Expr {
	var args []*Expr
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "interpolation":
			if x := field(c, "expression"); x != nil {
				args = append(args, l.pyExpr(x))
			} else if x := firstNamed(c); x != nil {
				args = append(args, l.pyExpr(x))
			}

		case "string":
			args = append(args, l.interpolations(c)...)
		}
	}

	return args
}
