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
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"fillmore-labs.com/receiptguard/internal/scan"
)

// Language is a supported source language.
type Language uint8

const (
	UnknownLanguage Language = iota
	JavaScript
	TypeScript
	TSX
	Python
)

func (l Language) String() string {
	switch l {
	case JavaScript:
		return "javascript"
	case TypeScript:
		return "typescript"
	case TSX:
		return "tsx"
	case Python:
		return "python"
	default:
		return "unknown"
	}
}

// LanguageFor determines the language from a file extension.
func LanguageFor(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return JavaScript
	case ".ts", ".mts", ".cts":
		return TypeScript
	case ".tsx":
		return TSX
	case ".py", ".pyi":
		return Python
	default:
		return UnknownLanguage
	}
}

// ParseLanguage resolves a language name as used on the command line.
func ParseLanguage(name string) (Language, error) {
	switch strings.ToLower(name) {
	case "javascript", "js", "jsx":
		return JavaScript, nil
	case "typescript", "ts":
		return TypeScript, nil
	case "tsx":
		return TSX, nil
	case "python", "py":
		return Python, nil
	default:
		return UnknownLanguage, fmt.Errorf("unknown language %q", name)
	}
}

// Extension returns the canonical file extension of the language.
func (l Language) Extension() string {
	switch l {
	case TypeScript:
		return ".ts"
	case TSX:
		return ".tsx"
	case Python:
		return ".py"
	default:
		return ".js"
	}
}

// CommentStyle returns the comment syntax of the language.
func (l Language) CommentStyle() scan.CommentStyle {
	if l == Python {
		return scan.HashComments
	}

	return scan.SlashComments
}

func (l Language) grammar() *sitter.Language {
	switch l {
	case JavaScript:
		return javascript.GetLanguage()
	case TypeScript:
		return typescript.GetLanguage()
	case TSX:
		return tsx.GetLanguage()
	case Python:
		return python.GetLanguage()
	default:
		return nil
	}
}

var (
	// ErrParse is returned when a file cannot be parsed at all.
	ErrParse = errors.New("parse failed")

	// ErrLanguage is returned for unsupported languages.
	ErrLanguage = errors.New("unsupported language")
)

// File is a lowered source file.
type File struct {
	Path string
	Lang Language
	Src  []byte

	// Module holds the top-level statements.
	Module *FuncDecl
	// Funcs lists the module and every function, method and lambda in pre-order.
	Funcs []*FuncDecl
	// Classes lists every class declaration.
	Classes []*ClassDecl
	// HasErrors is set when the concrete tree contained syntax errors.
	HasErrors bool
}

// Parse parses a file in the given language.
//
// Syntax errors do not fail the parse: erroneous statements are lowered to
// [BadStmt]. ErrParse is returned only when no tree could be produced.
func Parse(ctx context.Context, lang Language, path string, src []byte) (*File, error) {
	g := lang.grammar()
	if g == nil {
		return nil, fmt.Errorf("%w: %s", ErrLanguage, path)
	}

	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(g)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}

	if tree == nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("%w: %s: no syntax tree", ErrParse, path)
	}

	l := &lowerer{src: src}
	f := &File{Path: path, Lang: lang, Src: src, HasErrors: root.HasError()}

	module := &FuncDecl{Span: l.span(root), Name: "<module>", Kind: ModuleFunc}
	l.funcs = append(l.funcs, module)
	l.fn = module

	if lang == Python {
		l.lowerStmt, l.lowerExpr = l.pyStmt, l.pyExpr
	} else {
		l.lowerStmt, l.lowerExpr = l.jsStmt, l.jsExpr
	}

	module.Body = l.list(root)

	f.Module = module
	f.Funcs = l.funcs
	f.Classes = l.classes

	return f, nil
}

type lowerer struct {
	src       []byte
	funcs     []*FuncDecl
	classes   []*ClassDecl
	fn        *FuncDecl
	class     *ClassDecl
	lowerStmt func(*sitter.Node) []Stmt
	lowerExpr func(*sitter.Node) *Expr
}

func (l *lowerer) pos(p sitter.Point, offset uint32) Pos {
	return Pos{Offset: int(offset), Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

func (l *lowerer) span(n *sitter.Node) Span {
	return Span{
		From: l.pos(n.StartPoint(), n.StartByte()),
		To:   l.pos(n.EndPoint(), n.EndByte()),
	}
}

func (l *lowerer) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}

	return n.Content(l.src)
}

// list lowers the named statement children of n.
func (l *lowerer) list(n *sitter.Node) []Stmt {
	if n == nil {
		return nil
	}

	var stmts []Stmt
	for i := range int(n.NamedChildCount()) {
		c := n.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}

		stmts = append(stmts, l.stmt(c)...)
	}

	return stmts
}

// stmt lowers one statement, replacing it with a [BadStmt] on syntax errors.
func (l *lowerer) stmt(n *sitter.Node) []Stmt {
	if headerError(n) {
		return []Stmt{l.badStmt(n)}
	}

	return l.lowerStmt(n)
}

// headerError reports whether a syntax error lies in n outside its nested blocks.
// Errors inside nested blocks are reported by the statements of that block.
func headerError(n *sitter.Node) bool {
	if n.IsError() || n.IsMissing() {
		return true
	}

	if !n.HasError() {
		return false
	}

	for i := range int(n.ChildCount()) {
		c := n.Child(i)
		switch c.Type() {
		case "statement_block", "block", "class_body", "switch_body", "else_clause",
			"elif_clause", "except_clause", "except_group_clause", "catch_clause", "finally_clause":
			continue
		}

		if headerError(c) {
			return true
		}
	}

	return false
}

func (l *lowerer) badStmt(n *sitter.Node) *BadStmt {
	return &BadStmt{Span: l.span(n), Text: l.text(n)}
}

// block lowers a statement as a block.
func (l *lowerer) block(n *sitter.Node) *BlockStmt {
	if n == nil {
		return &BlockStmt{}
	}

	switch n.Type() {
	case "statement_block", "block":
		return &BlockStmt{Span: l.span(n), List: l.list(n)}

	default:
		return &BlockStmt{Span: l.span(n), List: l.stmt(n)}
	}
}

// single lowers a statement position that holds exactly one statement.
func (l *lowerer) single(n *sitter.Node) Stmt {
	if n == nil {
		return nil
	}

	b := l.block(n)
	if len(b.List) == 1 {
		return b.List[0]
	}

	return b
}

// enter starts lowering a nested function body.
func (l *lowerer) enter(fn *FuncDecl) (leave func()) {
	fn.Parent = l.fn
	l.funcs = append(l.funcs, fn)

	saved, savedClass := l.fn, l.class
	l.fn = fn

	return func() { l.fn, l.class = saved, savedClass }
}

// field returns the named field child of n.
func field(n *sitter.Node, name string) *sitter.Node {
	if n == nil {
		return nil
	}

	return n.ChildByFieldName(name)
}

// fieldChildren returns all children of n for a repeated field.
func fieldChildren(n *sitter.Node, name string) []*sitter.Node {
	var out []*sitter.Node
	for i := range int(n.ChildCount()) {
		if n.FieldNameForChild(i) == name {
			out = append(out, n.Child(i))
		}
	}

	return out
}

// hasToken reports whether n has an anonymous child of the given type
// before its first named child.
func hasToken(n *sitter.Node, token string) bool {
	for i := range int(n.ChildCount()) {
		c := n.Child(i)
		if c.IsNamed() {
			if c.Type() == "comment" || c.Type() == "decorator" {
				continue
			}

			return false
		}

		if c.Type() == token {
			return true
		}
	}

	return false
}

func firstNamed(n *sitter.Node) *sitter.Node {
	if cs := namedChildren(n); len(cs) > 0 {
		return cs[0]
	}

	return nil
}

// namedChildren returns the named children of n, skipping comments.
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}

	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := range int(n.NamedChildCount()) {
		c := n.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}

		out = append(out, c)
	}

	return out
}

// bindingNames collects the identifiers bound by a declaration pattern.
func (l *lowerer) bindingNames(n *sitter.Node) []string {
	if n == nil {
		return nil
	}

	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return []string{l.text(n)}

	case "pair_pattern":
		return l.bindingNames(field(n, "value"))

	case "assignment_pattern", "object_assignment_pattern":
		return l.bindingNames(field(n, "left"))

	case "default_parameter", "typed_default_parameter":
		return l.bindingNames(field(n, "name"))

	case "required_parameter", "optional_parameter":
		return l.bindingNames(field(n, "pattern"))

	case "typed_parameter":
		for _, c := range namedChildren(n) {
			if c.Type() != "type" {
				return l.bindingNames(c)
			}
		}

		return nil

	case "member_expression", "subscript_expression", "attribute", "subscript",
		"type_annotation", "type", "string", "number", "integer":
		return nil
	}

	var names []string
	for _, c := range namedChildren(n) {
		names = append(names, l.bindingNames(c)...)
	}

	return names
}

// params collects parameter names.
func (l *lowerer) params(n *sitter.Node) []string {
	if n == nil {
		return nil
	}

	if n.Type() == "identifier" {
		return []string{l.text(n)}
	}

	var names []string
	for _, c := range namedChildren(n) {
		names = append(names, l.bindingNames(c)...)
	}

	return names
}

// unquote strips string delimiters and prefixes from a string literal.
func unquote(s string) string {
	if i := strings.IndexAny(s, "\"'`"); i > 0 && i <= 2 && strings.Trim(s[:i], "rRbBuUfF") == "" {
		s = s[i:]
	}

	for _, q := range []string{`"""`, `'''`, `"`, `'`, "`"} {
		if len(s) >= 2*len(q) && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			return s[len(q) : len(s)-len(q)]
		}
	}

	return s
}
