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

package cfg_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "fillmore-labs.com/receiptguard/internal/cfg"
	"fillmore-labs.com/receiptguard/internal/syntax"
	"fillmore-labs.com/receiptguard/internal/testsource"
)

func build(t *testing.T, lang syntax.Language, src string) *Graph {
	t.Helper()

	_, fn := testsource.Parse(t, lang, src)

	g, err := Build(context.Background(), fn, 0)
	require.NoError(t, err)

	return g
}

func TestUnreachable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lang syntax.Language
		src  string
		want []int
	}{
		{"after_return", syntax.JavaScript, "foo();\nreturn 1;\nbar();", []int{4}},
		{"conditional_return", syntax.JavaScript, "if (x) {\n  return 1;\n}\nbar();", nil},
		{"both_branches", syntax.JavaScript, "if (x) {\n  return 1;\n} else {\n  throw e;\n}\nbar();", []int{7}},
		{"hoisted_function", syntax.JavaScript, "return 1;\nfunction f() {}", nil},
		{"after_break", syntax.JavaScript, "for (;;) {\n  break;\n  foo();\n}", []int{4}},
		{"infinite_loop", syntax.JavaScript, "while (true) {\n  foo();\n}\nbar();", []int{5}},
		{"labeled_break", syntax.JavaScript, "outer: while (true) {\n  while (true) {\n    break outer;\n  }\n  never();\n}\ndone();", []int{6}},
		{"switch_fallthrough", syntax.JavaScript, "switch (x) {\n  case 1:\n    a();\n  case 2:\n    b();\n    break;\n}\nc();", nil},
		{"region_reported_once", syntax.JavaScript, "return;\nif (a) {\n  b();\n}\nc();", []int{3}},
		{"python_raise", syntax.Python, "raise ValueError()\nfoo()", []int{3}},
		{"finally_after_return", syntax.JavaScript, "try {\n  return 1;\n} finally {\n  cleanup();\n}\nbar();", []int{7}},
		{"finally_after_rethrow", syntax.JavaScript, "try {\n  return a();\n} catch (e) {\n  throw e;\n} finally {\n  c();\n}\nbar();", []int{9}},
		{"finally_completes", syntax.JavaScript, "try {\n  a();\n} finally {\n  c();\n}\nbar();", nil},
		{"finally_caught", syntax.JavaScript, "try {\n  return a();\n} catch (e) {\n  log(e);\n} finally {\n  c();\n}\nbar();", nil},
		{"python_finally_return", syntax.Python, "try:\n    return 1\nfinally:\n    cleanup()\nfoo()", []int{6}},
		{"python_caught", syntax.Python, "try:\n    raise ValueError()\nexcept ValueError:\n    pass\nfoo()", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := build(t, tt.lang, tt.src)

			var got []int
			for _, item := range g.Unreachable() {
				got = append(got, item.Pos().Line)
			}

			if !assert.Equal(t, tt.want, got) {
				t.Log(g.Dot())
			}
		})
	}
}

func TestTryEdges(t *testing.T) {
	t.Parallel()

	_, fn := testsource.Parse(t, syntax.JavaScript, "try {\n  await db.update(x);\n} catch (e) {\n  log(e);\n}\nafter();")

	g, err := Build(context.Background(), fn, 0)
	require.NoError(t, err)

	calls := syntax.Calls(fn.Body)
	require.NotEmpty(t, calls)

	id := g.NodeAt(calls[0].Pos().Offset)
	require.NotEqual(t, NoNode, id)

	n := g.Node(id)
	assert.True(t, n.Throws)
	require.NotEqual(t, NoNode, n.Handler)
	assert.Equal(t, CatchNode, g.Node(n.Handler).Kind)

	last := g.NodeAt(calls[len(calls)-1].Pos().Offset)
	assert.True(t, g.CanReach(id, last))
	assert.True(t, g.CanReach(n.Handler, last))
	assert.True(t, g.CanReach(id, g.Exit))
	assert.False(t, g.CanReach(last, id))
}

func TestReturnThroughFinally(t *testing.T) {
	t.Parallel()

	g := build(t, syntax.JavaScript, "try {\n  return a();\n} finally {\n  cleanup();\n}")

	var ret *Node
	for _, n := range g.Nodes {
		if n.Kind == ReturnNode {
			ret = n
		}
	}
	require.NotNil(t, ret)

	var fin NodeID = NoNode
	for _, s := range ret.Succs {
		if g.Node(s).Kind == FinallyNode {
			fin = s
		}
	}
	require.NotEqual(t, NoNode, fin, "return does not pass through finally")

	assert.True(t, g.CanReach(fin, g.Exit))
	assert.NotContains(t, ret.Succs, g.Exit)
}

func TestLoopStructure(t *testing.T) {
	t.Parallel()

	g := build(t, syntax.JavaScript, "for (let i = 0; i < n; i++) {\n  if (i == 3) continue;\n  work(i);\n}")

	var heads []*Node
	for _, n := range g.Nodes {
		if n.Kind == LoopHeadNode {
			heads = append(heads, n)
		}
	}
	require.Len(t, heads, 1)

	head := heads[0]
	require.NotNil(t, head.Cond)
	assert.Equal(t, "i < n", head.Cond.Text)
	assert.NotEqual(t, NoNode, head.LoopExit)
	assert.Contains(t, head.Succs, head.LoopExit)

	var body NodeID = NoNode
	for _, n := range g.Nodes {
		if n.Kind == LoopBodyNode {
			body = n.ID
		}
	}
	require.NotEqual(t, NoNode, body)
	assert.True(t, g.CanReach(body, head.ID), "missing back edge")

	reachable := g.Reachable()
	for _, n := range g.Nodes {
		if !n.Empty() {
			assert.True(t, reachable[n.ID], "node %d (%s) unreachable", n.ID, n.Kind)
		}
	}
}

func TestAncestors(t *testing.T) {
	t.Parallel()

	_, fn := testsource.Parse(t, syntax.JavaScript, "if (confirmed) {\n  await db.delete(id);\n}\nother();")

	g, err := Build(context.Background(), fn, 0)
	require.NoError(t, err)

	calls := syntax.Calls(fn.Body)
	require.Len(t, calls, 2)

	del, other := g.NodeAt(calls[0].Pos().Offset), g.NodeAt(calls[1].Pos().Offset)

	var branch NodeID = NoNode
	for _, n := range g.Nodes {
		if n.Kind == BranchNode {
			branch = n.ID
		}
	}
	require.NotEqual(t, NoNode, branch)

	assert.True(t, g.Ancestors(del)[branch])
	assert.True(t, g.Ancestors(other)[branch])
	assert.False(t, g.Ancestors(branch)[del])
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	t.Run("bad_statement", func(t *testing.T) {
		t.Parallel()

		fn := &syntax.FuncDecl{Name: "f", Body: []syntax.Stmt{&syntax.BadStmt{Text: "foo(;"}}}

		_, err := Build(context.Background(), fn, 0)
		if !errors.Is(err, ErrUnsupported) {
			t.Errorf("Got %v, expected %v", err, ErrUnsupported)
		}
	})

	t.Run("too_large", func(t *testing.T) {
		t.Parallel()

		_, fn := testsource.Parse(t, syntax.JavaScript, strings.Repeat("if (a) { b(); }\n", 5))

		_, err := Build(context.Background(), fn, 8)
		if !errors.Is(err, ErrTooLarge) {
			t.Errorf("Got %v, expected %v", err, ErrTooLarge)
		}
	})
}

func TestDot(t *testing.T) {
	t.Parallel()

	g := build(t, syntax.JavaScript, "if (a) {\n  return;\n}\nb();")

	dot := g.Dot()
	assert.True(t, strings.HasPrefix(dot, `digraph "_" {`))
	assert.Contains(t, dot, "branch 2-2")
	assert.Contains(t, dot, "->")
}
