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

package dataflow_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fillmore-labs.com/receiptguard/internal/catalog"
	"fillmore-labs.com/receiptguard/internal/cfg"
	. "fillmore-labs.com/receiptguard/internal/dataflow"
	"fillmore-labs.com/receiptguard/internal/syntax"
	"fillmore-labs.com/receiptguard/internal/testsource"
)

func match(call *syntax.Expr) (catalog.Pattern, bool) {
	return catalog.Default().Match(catalog.Normalize(call.Callee()), catalog.Normalize(call.Text), "")
}

func analyze(t *testing.T, lang syntax.Language, src string, config Config) (*syntax.File, *Result) {
	t.Helper()

	f, fn := testsource.Parse(t, lang, src)

	g, err := cfg.Build(context.Background(), fn, 0)
	require.NoError(t, err)

	if config.Match == nil {
		config.Match = match
	}

	return f, Analyze(context.Background(), g, config)
}

// offset returns the byte offset of the first occurrence of needle plus delta.
func offset(t *testing.T, f *syntax.File, needle string, delta int) int {
	t.Helper()

	i := strings.Index(string(f.Src), needle)
	require.GreaterOrEqual(t, i, 0, "needle %q not found", needle)

	return i + delta
}

func TestReachingAt(t *testing.T) {
	t.Parallel()

	const src = "let a = 1;\nif (x) {\n  a = 2;\n}\nuse(a);\na = 3;"

	f, r := analyze(t, syntax.JavaScript, src, Config{})
	require.True(t, r.Converged)

	defs := r.ReachingAt("a", offset(t, f, "use(a)", 4))

	var lines []int
	for _, d := range defs {
		lines = append(lines, d.Pos.Line)
	}

	assert.ElementsMatch(t, []int{2, 4}, lines)
}

func TestReachingSelfReference(t *testing.T) {
	t.Parallel()

	f, r := analyze(t, syntax.JavaScript, "let a = 1;\na = a + 1;", Config{})

	defs := r.ReachingAt("a", offset(t, f, "a + 1", 0))
	require.Len(t, defs, 1)
	assert.Equal(t, 2, defs[0].Pos.Line)
}

func TestOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		lang      syntax.Language
		src       string
		needle    string
		tool, llm bool
	}{
		{"direct", syntax.JavaScript, "const r = await stripe.charges.create({});\nlog(r);", "log(r", true, false},
		{"alias_chain", syntax.JavaScript, "const r = await stripe.charges.create({});\nconst d = r.data;\nconst e = d;\nlog(e);", "log(e", true, false},
		{"llm", syntax.Python, "resp = client.chat.completions.create(model=m)\ntext = resp.choices[0]\nprint(text)", "print(text", false, true},
		{"unrelated", syntax.JavaScript, "const r = await stripe.charges.create({});\nconst e = other;\nlog(e);", "log(e", false, false},
		{"branch_merge", syntax.JavaScript, "let e = 1;\nif (c) {\n  e = await db.users.update(q);\n}\nlog(e);", "log(e", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, r := analyze(t, tt.lang, tt.src, Config{})

			name := tt.needle[strings.IndexByte(tt.needle, '(')+1:]
			p := r.Origin(name, offset(t, f, tt.needle, len(tt.needle)-1))

			assert.Equal(t, tt.tool, p.Tool, "tool")
			assert.Equal(t, tt.llm, p.LLM, "llm")
			assert.Equal(t, tt.tool || tt.llm, len(p.Sources) > 0, "sources")
		})
	}
}

func TestDerivedFrom(t *testing.T) {
	t.Parallel()

	const src = "const r = await stripe.charges.create({});\nconst id = r.id;\nsave(id);"

	f, r := analyze(t, syntax.JavaScript, src, Config{})

	calls := syntax.Calls(f.Funcs[1].Body)
	require.NotEmpty(t, calls)

	def := r.DefForCall(calls[0])
	require.NotNil(t, def)
	assert.True(t, def.IsToolResult)
	assert.Equal(t, "stripe", def.Pattern.ID())

	assert.True(t, r.DerivedFrom("id", offset(t, f, "save(id", 5), def))
	assert.False(t, r.DerivedFrom("id", offset(t, f, "save(id", 5), nil))
}

func TestDeadStores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lang syntax.Language
		src  string
		want []int
	}{
		{"discarded", syntax.JavaScript, "const r = await stripe.charges.create({});\nreturn 1;", []int{2}},
		{"returned", syntax.JavaScript, "const r = await db.users.update(x);\nreturn r;", nil},
		{"overwritten", syntax.Python, "r = client.chat.completions.create(model=m)\nr = 2\nprint(r)", []int{2}},
		{"used_next_iteration", syntax.JavaScript, "let r;\nfor (const x of xs) {\n  if (r) use(r);\n  r = await tool.invoke(x);\n}", nil},
		{"captured", syntax.JavaScript, "const r = await stripe.charges.create({});\nsetTimeout(() => log(r));", nil},
		{"untagged", syntax.JavaScript, "const r = compute();\nreturn 1;", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, r := analyze(t, tt.lang, tt.src, Config{})
			require.True(t, r.Converged)

			var got []int
			for _, d := range r.DeadStores() {
				got = append(got, d.Pos.Line)
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonotonicUpdates(t *testing.T) {
	t.Parallel()

	const src = "let a = 0;\nlet b = 1;\nwhile (c) {\n  a = a + b;\n  if (a > 10) {\n    b = 2;\n  }\n}\nuse(a, b);"

	type sizes struct{ reach, live uint64 }

	last := make(map[cfg.NodeID]sizes)
	violations := 0

	config := Config{
		OnUpdate: func(_ int, node cfg.NodeID, reach, live uint64) {
			prev := last[node]
			if reach < prev.reach || live < prev.live {
				violations++
			}
			last[node] = sizes{reach, live}
		},
	}

	_, r := analyze(t, syntax.JavaScript, src, config)

	assert.True(t, r.Converged)
	assert.Zero(t, violations)
	assert.NotEmpty(t, last)
}

func TestIterationBound(t *testing.T) {
	t.Parallel()

	_, r := analyze(t, syntax.JavaScript, "let a = 0;\nwhile (c) {\n  a = a + 1;\n}\nuse(a);", Config{MaxIterations: 1})

	assert.False(t, r.Converged)
	assert.Equal(t, 1, r.Iterations)
}

func TestParameters(t *testing.T) {
	t.Parallel()

	f := testsource.ParseFile(t, syntax.Python, "def handler(event, ctx):\n    return event\n")

	g, err := cfg.Build(context.Background(), f.Funcs[1], 0)
	require.NoError(t, err)

	r := Analyze(context.Background(), g, Config{})

	defs := r.ReachingAt("event", strings.Index(string(f.Src), "return event")+7)
	require.Len(t, defs, 1)
	assert.Equal(t, Parameter, defs[0].Kind)
}
