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
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// jsStmt lowers a JavaScript or TypeScript statement.
func (l *lowerer) jsStmt(n *sitter.Node) []Stmt {
	switch n.Type() {
	case "expression_statement":
		x := firstNamed(n)
		if x == nil {
			return nil
		}

		return []Stmt{l.jsExprStmt(n, x)}

	case "lexical_declaration", "variable_declaration":
		return l.jsDecl(n)

	case "statement_block":
		return []Stmt{l.block(n)}

	case "if_statement":
		s := &IfStmt{
			Span: l.span(n),
			Cond: l.jsExpr(field(n, "condition")),
			Then: l.single(field(n, "consequence")),
		}
		if alt := field(n, "alternative"); alt != nil {
			s.Else = l.single(firstNamed(alt))
		}

		return []Stmt{s}

	case "for_statement":
		return []Stmt{l.jsFor(n)}

	case "for_in_statement":
		kind := ForInLoop
		if op := field(n, "operator"); op != nil && op.Type() == "of" {
			kind = ForOfLoop
		} else {
			for i := range int(n.ChildCount()) {
				if c := n.Child(i); !c.IsNamed() && c.Type() == "of" {
					kind = ForOfLoop
				}
			}
		}

		return []Stmt{&LoopStmt{
			Span: l.span(n),
			Kind: kind,
			Var:  l.loopVar(field(n, "left")),
			Cond: l.jsExpr(field(n, "right")),
			Body: l.single(field(n, "body")),
		}}

	case "while_statement":
		return []Stmt{&LoopStmt{
			Span: l.span(n),
			Kind: WhileLoop,
			Cond: l.jsExpr(field(n, "condition")),
			Body: l.single(field(n, "body")),
		}}

	case "do_statement":
		return []Stmt{&LoopStmt{
			Span: l.span(n),
			Kind: DoWhileLoop,
			Cond: l.jsExpr(field(n, "condition")),
			Body: l.single(field(n, "body")),
		}}

	case "try_statement":
		s := &TryStmt{Span: l.span(n), Body: l.block(field(n, "body"))}
		if h := field(n, "handler"); h != nil {
			c := &CatchClause{Span: l.span(h), Body: l.block(field(h, "body"))}
			if p := field(h, "parameter"); p != nil {
				c.Param = l.text(p)
			}
			s.Catches = append(s.Catches, c)
		}
		if f := field(n, "finalizer"); f != nil {
			s.Finally = l.block(field(f, "body"))
		}

		return []Stmt{s}

	case "throw_statement":
		return []Stmt{&ThrowStmt{Span: l.span(n), X: l.jsExpr(firstNamed(n))}}

	case "return_statement":
		return []Stmt{&ReturnStmt{Span: l.span(n), X: l.jsExpr(firstNamed(n))}}

	case "break_statement", "continue_statement":
		s := &BranchStmt{Span: l.span(n), Tok: Break}
		if n.Type() == "continue_statement" {
			s.Tok = Continue
		}
		if label := field(n, "label"); label != nil {
			s.Label = l.text(label)
		}

		return []Stmt{s}

	case "switch_statement":
		return []Stmt{l.jsSwitch(n)}

	case "labeled_statement":
		body := field(n, "body")
		if body == nil {
			cs := namedChildren(n)
			body = cs[len(cs)-1]
		}

		return []Stmt{&LabeledStmt{
			Span:  l.span(n),
			Label: l.text(field(n, "label")),
			Stmt:  l.single(body),
		}}

	case "function_declaration", "generator_function_declaration":
		return []Stmt{l.jsFunc(n, DeclaredFunc, "")}

	case "class_declaration", "abstract_class_declaration", "class":
		return []Stmt{l.jsClass(n)}

	case "export_statement":
		if d := field(n, "declaration"); d != nil {
			return l.stmt(d)
		}
		if v := field(n, "value"); v != nil {
			return []Stmt{&ExprStmt{Span: l.span(n), X: l.jsExpr(v)}}
		}

		return nil

	case "module", "internal_module":
		if body := field(n, "body"); body != nil {
			return []Stmt{l.block(body)}
		}

		return nil

	case "with_statement":
		return []Stmt{l.block(field(n, "body"))}

	case "empty_statement", "debugger_statement", "import_statement", "comment",
		"interface_declaration", "type_alias_declaration", "enum_declaration",
		"ambient_declaration", "function_signature", "import_alias", "hash_bang_line":
		return nil

	default:
		return []Stmt{&ExprStmt{Span: l.span(n), X: l.jsExpr(n)}}
	}
}

// jsExprStmt lowers an expression statement, turning plain assignments into declarations.
func (l *lowerer) jsExprStmt(n, x *sitter.Node) Stmt {
	switch x.Type() {
	case "assignment_expression", "augmented_assignment_expression":
		left := field(x, "left")
		s := &DeclStmt{
			Span:     l.span(n),
			Kind:     AssignDecl,
			Compound: x.Type() == "augmented_assignment_expression",
		}
		l.assignTarget(s, left)
		s.Value = l.jsExprNamed(field(x, "right"), l.text(left))

		return s

	default:
		return &ExprStmt{Span: l.span(n), X: l.jsExpr(x)}
	}
}

// assignTarget sets the bound names or the target expression of an assignment.
func (l *lowerer) assignTarget(s *DeclStmt, left *sitter.Node) {
	for left != nil && left.Type() == "parenthesized_expression" {
		left = firstNamed(left)
	}

	if left == nil {
		return
	}

	switch left.Type() {
	case "member_expression", "subscript_expression", "attribute", "subscript":
		s.Target = l.lowerExpr(left)

	default:
		s.Names = l.bindingNames(left)
	}
}

func (l *lowerer) jsDecl(n *sitter.Node) []Stmt {
	kind := VarDecl
	if n.Type() == "lexical_declaration" {
		kind = LetDecl
		if hasToken(n, "const") {
			kind = ConstDecl
		}
	}

	var stmts []Stmt
	for _, d := range namedChildren(n) {
		if d.Type() != "variable_declarator" {
			continue
		}

		name := field(d, "name")
		stmts = append(stmts, &DeclStmt{
			Span:  l.span(d),
			Kind:  kind,
			Names: l.bindingNames(name),
			Value: l.jsExprNamed(field(d, "value"), l.text(name)),
		})
	}

	return stmts
}

func (l *lowerer) jsFor(n *sitter.Node) *LoopStmt {
	s := &LoopStmt{Span: l.span(n), Kind: ForLoop, Body: l.single(field(n, "body"))}

	if init := field(n, "initializer"); init != nil {
		switch init.Type() {
		case "empty_statement":

		case "lexical_declaration", "variable_declaration", "expression_statement":
			s.Init = l.single(init)

		default:
			s.Init = l.jsExprStmt(init, init)
		}
	}

	if cond := field(n, "condition"); cond != nil {
		switch cond.Type() {
		case "empty_statement":

		case "expression_statement":
			s.Cond = l.jsExpr(firstNamed(cond))

		default:
			s.Cond = l.jsExpr(cond)
		}
	}

	s.Post = l.jsExpr(field(n, "increment"))

	return s
}

// loopVar lowers the binding of an iteration loop.
func (l *lowerer) loopVar(left *sitter.Node) *DeclStmt {
	if left == nil {
		return nil
	}

	s := &DeclStmt{Span: l.span(left), Kind: LoopVarDecl}

	switch left.Type() {
	case "lexical_declaration", "variable_declaration":
		if d := firstNamed(left); d != nil && d.Type() == "variable_declarator" {
			left = field(d, "name")
		}
	}

	l.assignTarget(s, left)

	return s
}

func (l *lowerer) jsSwitch(n *sitter.Node) *SwitchStmt {
	s := &SwitchStmt{Span: l.span(n), Tag: l.jsExpr(field(n, "value"))}

	for _, c := range namedChildren(field(n, "body")) {
		cc := &CaseClause{Span: l.span(c)}

		value := field(c, "value")
		if c.Type() == "switch_case" && value != nil {
			cc.Values = []*Expr{l.jsExpr(value)}
		}

		for _, b := range namedChildren(c) {
			if value != nil && b.StartByte() == value.StartByte() && b.EndByte() == value.EndByte() {
				continue
			}
			cc.Body = append(cc.Body, l.stmt(b)...)
		}

		s.Cases = append(s.Cases, cc)
	}

	return s
}

// jsFunc lowers a function, arrow function or method.
func (l *lowerer) jsFunc(n *sitter.Node, kind FuncKind, name string) *FuncDecl {
	fn := &FuncDecl{Span: l.span(n), Name: name, Kind: kind, Async: hasToken(n, "async")}

	if nm := field(n, "name"); nm != nil {
		fn.Name = l.text(nm)
	}
	if fn.Name == "" {
		fn.Name = "<anonymous>"
	}

	if p := field(n, "parameters"); p != nil {
		fn.Params = l.params(p)
	} else if p := field(n, "parameter"); p != nil {
		fn.Params = l.params(p)
	}

	leave := l.enter(fn)
	defer leave()

	body := field(n, "body")
	switch {
	case body == nil:

	case body.Type() == "statement_block":
		fn.Body = l.list(body)

	case headerError(body):
		fn.Body = []Stmt{l.badStmt(body)}

	default:
		x := l.jsExpr(body)
		fn.Body = []Stmt{&ReturnStmt{Span: x.Span, X: x}}
	}

	return fn
}

func (l *lowerer) jsClass(n *sitter.Node) *ClassDecl {
	c := &ClassDecl{Span: l.span(n), Name: l.text(field(n, "name"))}
	if c.Name == "" {
		c.Name = "<anonymous>"
	}

	l.classes = append(l.classes, c)

	for _, h := range namedChildren(n) {
		if h.Type() != "class_heritage" {
			continue
		}

		for _, x := range namedChildren(h) {
			switch x.Type() {
			case "extends_clause":
				for _, v := range namedChildren(x) {
					if v.Type() != "type_arguments" {
						c.Bases = append(c.Bases, l.jsExpr(v))
					}
				}

			case "implements_clause":

			default:
				c.Bases = append(c.Bases, l.jsExpr(x))
			}
		}
	}

	saved := l.class
	l.class = c
	defer func() { l.class = saved }()

	for _, m := range namedChildren(field(n, "body")) {
		switch m.Type() {
		case "method_definition":
			fn := l.jsFunc(m, MethodFunc, "")
			fn.Class = c
			c.Methods = append(c.Methods, fn)

		case "field_definition", "public_field_definition":
			prop := field(m, "property")
			if prop == nil {
				prop = field(m, "name")
			}

			value := field(m, "value")
			if value == nil {
				continue
			}

			x := l.jsExprNamed(value, l.text(prop))
			if x.Kind == ExprFunc {
				x.Func.Class = c
				c.Methods = append(c.Methods, x.Func)
			}

			c.Body = append(c.Body, &DeclStmt{
				Span:   l.span(m),
				Kind:   AssignDecl,
				Target: &Expr{Span: l.span(prop), Kind: ExprMember, Text: "this." + l.text(prop), Name: l.text(prop)},
				Value:  x,
			})

		case "class_static_block":
			c.Body = append(c.Body, l.block(field(m, "body")))
		}
	}

	return c
}

func (l *lowerer) jsExpr(n *sitter.Node) *Expr {
	return l.jsExprNamed(n, "")
}

// jsExprNamed lowers an expression. name is used for anonymous functions bound to a name.
func (l *lowerer) jsExprNamed(n *sitter.Node, name string) *Expr {
	if n == nil {
		return nil
	}

	e := &Expr{Span: l.span(n), Text: l.text(n)}

	if n.IsError() || n.IsMissing() {
		e.Kind = ExprBad

		return e
	}

	switch n.Type() {
	case "identifier", "property_identifier", "shorthand_property_identifier",
		"private_property_identifier", "this", "super", "undefined":
		e.Kind = ExprIdent
		e.Name = e.Text

	case "parenthesized_expression":
		if x := firstNamed(n); x != nil {
			return l.jsExprNamed(x, name)
		}

	case "member_expression":
		e.Kind = ExprMember
		e.X = l.jsExpr(field(n, "object"))
		e.Name = l.text(field(n, "property"))

	case "subscript_expression":
		e.Kind = ExprIndex
		e.X = l.jsExpr(field(n, "object"))
		if idx := field(n, "index"); idx != nil {
			e.Args = []*Expr{l.jsExpr(idx)}
		}

	case "call_expression":
		e.Kind = ExprCall
		e.X = l.jsExpr(field(n, "function"))
		e.Args = l.jsArgs(field(n, "arguments"))

	case "new_expression":
		e.Kind = ExprNew
		e.X = l.jsExpr(field(n, "constructor"))
		e.Args = l.jsArgs(field(n, "arguments"))

	case "await_expression":
		e.Kind = ExprAwait
		e.X = l.jsExpr(firstNamed(n))

	case "assignment_expression", "augmented_assignment_expression":
		left := field(n, "left")
		e.Kind = ExprAssign
		e.Name = "="
		if op := field(n, "operator"); op != nil {
			e.Name = l.text(op)
		}
		e.Lhs = l.jsExpr(left)
		e.X = l.jsExprNamed(field(n, "right"), l.text(left))

	case "update_expression":
		e.Kind = ExprAssign
		e.Name = l.text(field(n, "operator"))
		e.Lhs = l.jsExpr(field(n, "argument"))

	case "object":
		e.Kind = ExprObject
		e.Props = l.jsProps(n)

	case "array":
		e.Kind = ExprArray
		e.Args = l.jsList(n)

	case "string":
		e.Kind = ExprString

	case "template_string":
		e.Kind = ExprTemplate
		for _, c := range namedChildren(n) {
			if c.Type() == "template_substitution" {
				e.Args = append(e.Args, l.jsExpr(firstNamed(c)))
			}
		}

	case "arrow_function":
		e.Kind = ExprFunc
		e.Func = l.jsFunc(n, ArrowFunc, name)

	case "function", "function_expression", "generator_function":
		e.Kind = ExprFunc
		e.Func = l.jsFunc(n, FuncExpr, name)

	case "class":
		l.jsClass(n)

	case "number", "regex", "true", "false", "null":

	default:
		e.Args = l.jsList(n)
	}

	return e
}

func (l *lowerer) jsList(n *sitter.Node) []*Expr {
	var args []*Expr
	for _, c := range namedChildren(n) {
		if isTypeNode(c) {
			continue
		}
		args = append(args, l.jsExpr(c))
	}

	return args
}

func (l *lowerer) jsArgs(n *sitter.Node) []*Expr {
	switch {
	case n == nil:
		return nil

	case n.Type() == "arguments":
		return l.jsList(n)

	default:
		return []*Expr{l.jsExpr(n)}
	}
}

func (l *lowerer) jsProps(n *sitter.Node) []*Property {
	var props []*Property
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "pair":
			key := l.propKey(field(c, "key"))
			props = append(props, &Property{Span: l.span(c), Key: key, Value: l.jsExprNamed(field(c, "value"), key)})

		case "shorthand_property_identifier":
			props = append(props, &Property{Span: l.span(c), Key: l.text(c), Value: l.jsExpr(c)})

		case "method_definition":
			fn := l.jsFunc(c, MethodFunc, "")
			props = append(props, &Property{
				Span:  l.span(c),
				Key:   fn.Name,
				Value: &Expr{Span: l.span(c), Kind: ExprFunc, Text: l.text(c), Func: fn},
			})

		case "spread_element":
			props = append(props, &Property{Span: l.span(c), Key: "...", Value: l.jsExpr(firstNamed(c))})
		}
	}

	return props
}

func (l *lowerer) propKey(k *sitter.Node) string {
	if k == nil {
		return ""
	}

	switch k.Type() {
	case "string":
		return unquote(l.text(k))

	default:
		return l.text(k)
	}
}

func isTypeNode(n *sitter.Node) bool {
	return strings.Contains(n.Type(), "type")
}
