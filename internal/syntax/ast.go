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

// Package syntax lowers JavaScript, TypeScript and Python concrete syntax trees
// into a small typed statement tree suited to control-flow and data-flow analysis.
//
// Statements form a closed set: [FuncDecl], [ClassDecl], [BlockStmt], [ExprStmt],
// [DeclStmt], [IfStmt], [LoopStmt], [TryStmt], [ThrowStmt], [ReturnStmt],
// [BranchStmt], [SwitchStmt], [LabeledStmt] and [BadStmt]. Expressions share the
// single [Expr] type, discriminated by [ExprKind].
package syntax

// Pos is a source position. Offset is a byte offset, Line and Column are 1-based.
type Pos struct {
	Offset, Line, Column int
}

// Span is the source range of a node.
type Span struct {
	From, To Pos
}

// Pos returns the start of the span.
func (s Span) Pos() Pos { return s.From }

// End returns the position just after the span.
func (s Span) End() Pos { return s.To }

// Contains reports whether the byte offset lies within the span.
func (s Span) Contains(offset int) bool {
	return s.From.Offset <= offset && offset < s.To.Offset
}

// Node is any statement or expression.
type Node interface {
	Pos() Pos
	End() Pos
}

// Stmt is a statement.
type Stmt interface {
	Node
	stmtNode()
}

// FuncKind distinguishes how a function was written.
type FuncKind uint8

const (
	// ModuleFunc is the pseudo-function holding top-level statements.
	ModuleFunc FuncKind = iota
	DeclaredFunc
	FuncExpr
	ArrowFunc
	MethodFunc
)

// FuncDecl is a function declaration, and also the payload of function-valued expressions.
type FuncDecl struct {
	Span
	Name       string
	Kind       FuncKind
	Async      bool
	Params     []string
	Decorators []*Expr
	Body       []Stmt

	// Class is the enclosing class of a method.
	Class *ClassDecl
	// Parent is the lexically enclosing function, nil for the module.
	Parent *FuncDecl
}

// ClassDecl is a class declaration. Methods are analyzed as functions of their own.
type ClassDecl struct {
	Span
	Name    string
	Bases   []*Expr
	Methods []*FuncDecl

	// Body holds non-method members evaluated when the class is defined.
	Body []Stmt
}

// BlockStmt is a braced or indented statement list.
type BlockStmt struct {
	Span
	List []Stmt
}

// ExprStmt is an expression evaluated for its effects.
type ExprStmt struct {
	Span
	X *Expr
}

// DeclKind distinguishes declarations and assignments.
type DeclKind uint8

const (
	VarDecl DeclKind = iota
	LetDecl
	ConstDecl
	AssignDecl
	LoopVarDecl
	WithDecl
)

// DeclStmt binds Value to Names, or to the member or index expression Target.
type DeclStmt struct {
	Span
	Kind   DeclKind
	Names  []string
	Target *Expr
	Value  *Expr

	// Compound assignments also read their target.
	Compound bool
}

// IfStmt is a conditional. Else is nil, a nested *IfStmt or a *BlockStmt.
type IfStmt struct {
	Span
	Cond *Expr
	Then Stmt
	Else Stmt
}

// LoopKind distinguishes loop statements.
type LoopKind uint8

const (
	ForLoop LoopKind = iota
	WhileLoop
	DoWhileLoop
	ForInLoop
	ForOfLoop
)

// LoopStmt is any loop. For iteration loops, Var is bound on each iteration
// from the iterable in Cond.
type LoopStmt struct {
	Span
	Kind LoopKind
	Init Stmt
	Cond *Expr
	Post *Expr
	Var  *DeclStmt
	Body Stmt

	// Else runs when the loop terminates without break.
	Else Stmt
}

// CatchClause is an exception handler.
type CatchClause struct {
	Span
	Param string
	Type  *Expr
	Body  *BlockStmt
}

// TryStmt is a try statement with optional handlers, else and finally blocks.
type TryStmt struct {
	Span
	Body    *BlockStmt
	Catches []*CatchClause
	Else    *BlockStmt
	Finally *BlockStmt
}

// ThrowStmt raises an exception.
type ThrowStmt struct {
	Span
	X *Expr
}

// ReturnStmt returns from the function.
type ReturnStmt struct {
	Span
	X *Expr
}

// BranchToken is break or continue.
type BranchToken uint8

const (
	Break BranchToken = iota
	Continue
)

// BranchStmt is break or continue, optionally labeled.
type BranchStmt struct {
	Span
	Tok   BranchToken
	Label string
}

// CaseClause is a switch case. Values is nil for the default clause.
type CaseClause struct {
	Span
	Values []*Expr
	Body   []Stmt
}

// SwitchStmt is a switch or match statement.
type SwitchStmt struct {
	Span
	Tag   *Expr
	Cases []*CaseClause

	// NoFallthrough is set for match statements, where case bodies never fall through.
	NoFallthrough bool
}

// LabeledStmt is a labeled statement.
type LabeledStmt struct {
	Span
	Label string
	Stmt  Stmt
}

// BadStmt is a statement that could not be parsed.
type BadStmt struct {
	Span
	Text string
}

func (*FuncDecl) stmtNode()    {}
func (*ClassDecl) stmtNode()   {}
func (*BlockStmt) stmtNode()   {}
func (*ExprStmt) stmtNode()    {}
func (*DeclStmt) stmtNode()    {}
func (*IfStmt) stmtNode()      {}
func (*LoopStmt) stmtNode()    {}
func (*TryStmt) stmtNode()     {}
func (*ThrowStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode()  {}
func (*BranchStmt) stmtNode()  {}
func (*SwitchStmt) stmtNode()  {}
func (*LabeledStmt) stmtNode() {}
func (*BadStmt) stmtNode()     {}

// ExprKind discriminates [Expr].
type ExprKind uint8

//go:generate go tool stringer -type ExprKind -trimprefix Expr
const (
	ExprOther ExprKind = iota
	ExprIdent
	ExprMember
	ExprIndex
	ExprCall
	ExprNew
	ExprAwait
	ExprObject
	ExprArray
	ExprString
	ExprTemplate
	ExprAssign
	ExprFunc
	ExprKeyword
	ExprBad
)

// Expr is an expression.
//
// Field usage by kind:
//
//	Ident     Name
//	Member    X.Name
//	Index     X[Args[0]]
//	Call, New X(Args...)
//	Await     await X
//	Object    {Props...}
//	Array     [Args...]
//	Template  substitutions in Args
//	Assign    Lhs Name X, with Name the operator; X is nil for increments
//	Func      Func
//	Keyword   Name=X, a keyword argument
//	Other     operands in Args
type Expr struct {
	Span
	Kind  ExprKind
	Text  string
	Name  string
	X     *Expr
	Lhs   *Expr
	Args  []*Expr
	Props []*Property
	Func  *FuncDecl
}

// Property is an object literal or dictionary entry.
type Property struct {
	Span
	Key   string
	Value *Expr
}

// Callee returns the source text of the called expression of a call or new expression.
func (e *Expr) Callee() string {
	if e == nil || (e.Kind != ExprCall && e.Kind != ExprNew) || e.X == nil {
		return ""
	}

	return e.X.Text
}

// Keys returns the property keys of an object literal.
func (e *Expr) Keys() []string {
	keys := make([]string, 0, len(e.Props))
	for _, p := range e.Props {
		keys = append(keys, p.Key)
	}

	return keys
}

// Unparen strips await from an expression.
func (e *Expr) Unparen() *Expr {
	for e != nil && e.Kind == ExprAwait && e.X != nil {
		e = e.X
	}

	return e
}

// RootIdent returns the leftmost identifier of a member or index chain.
func (e *Expr) RootIdent() string {
	for e != nil {
		switch e.Kind {
		case ExprIdent:
			return e.Name

		case ExprMember, ExprIndex:
			e = e.X

		default:
			return ""
		}
	}

	return ""
}
