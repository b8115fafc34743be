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

package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "fillmore-labs.com/receiptguard/internal/syntax"
	"fillmore-labs.com/receiptguard/internal/testsource"
)

func names(fns []*FuncDecl) []string {
	out := make([]string, 0, len(fns))
	for _, fn := range fns {
		out = append(out, fn.Name)
	}

	return out
}

func callees(list []Stmt) []string {
	var out []string
	for _, c := range Calls(list) {
		out = append(out, c.Callee())
	}

	return out
}

func TestParseJavaScript(t *testing.T) {
	t.Parallel()

	const src = `import x from "y";
const client = new OpenAI();
async function pay(amount) {
  try {
    const r = await stripe.charges.create({ amount, currency: "usd" });
    return r;
  } catch (e) {
    throw e;
  } finally {
    done();
  }
}
class Refund extends BaseTool {
  async run(id) { return db.update(id); }
}
const h = async (a, b) => a + b;
`

	f := testsource.ParseFile(t, JavaScript, src)

	assert.False(t, f.HasErrors)
	assert.Equal(t, []string{"<module>", "pay", "run", "h"}, names(f.Funcs))
	require.Len(t, f.Module.Body, 4)

	client, ok := f.Module.Body[0].(*DeclStmt)
	require.True(t, ok, "Got %T, expected *DeclStmt", f.Module.Body[0])
	assert.Equal(t, ConstDecl, client.Kind)
	assert.Equal(t, []string{"client"}, client.Names)
	assert.Equal(t, ExprNew, client.Value.Kind)
	assert.Equal(t, "OpenAI", client.Value.Callee())

	pay := f.Funcs[1]
	assert.True(t, pay.Async)
	assert.Equal(t, []string{"amount"}, pay.Params)
	assert.Equal(t, 3, pay.Pos().Line)
	assert.Same(t, f.Module, pay.Parent)

	require.Len(t, pay.Body, 1)
	try, ok := pay.Body[0].(*TryStmt)
	require.True(t, ok, "Got %T, expected *TryStmt", pay.Body[0])
	require.Len(t, try.Catches, 1)
	assert.Equal(t, "e", try.Catches[0].Param)
	assert.NotNil(t, try.Finally)
	assert.Nil(t, try.Else)

	assert.Equal(t, []string{"stripe.charges.create", "done"}, callees(pay.Body))

	create := Calls(pay.Body)[0]
	require.Len(t, create.Args, 1)
	assert.Equal(t, []string{"amount", "currency"}, create.Args[0].Keys())

	require.Len(t, f.Classes, 1)
	refund := f.Classes[0]
	assert.Equal(t, "Refund", refund.Name)
	require.Len(t, refund.Bases, 1)
	assert.Equal(t, "BaseTool", refund.Bases[0].Text)
	require.Len(t, refund.Methods, 1)
	assert.Same(t, refund, refund.Methods[0].Class)

	h, ok := f.Module.Body[3].(*DeclStmt)
	require.True(t, ok)
	require.Equal(t, ExprFunc, h.Value.Kind)
	assert.Equal(t, ArrowFunc, h.Value.Func.Kind)
	assert.True(t, h.Value.Func.Async)
	assert.Equal(t, []string{"a", "b"}, h.Value.Func.Params)

	ret, ok := h.Value.Func.Body[0].(*ReturnStmt)
	require.True(t, ok)
	assert.Equal(t, "a + b", ret.X.Text)
}

func TestParseTypeScript(t *testing.T) {
	t.Parallel()

	const src = `interface Args { id: string }
export class Charge extends StructuredTool<Args> implements Runner {
  private client: Stripe = new Stripe(key);
  async _call(args: Args): Promise<string> {
    const res = await this.client.refunds.create({ charge: args.id } as any);
    return res.id;
  }
}
`

	f := testsource.ParseFile(t, TypeScript, src)

	require.Len(t, f.Classes, 1)
	c := f.Classes[0]
	assert.Equal(t, "Charge", c.Name)
	require.Len(t, c.Bases, 1)
	assert.Equal(t, "StructuredTool", c.Bases[0].Text)
	require.Len(t, c.Methods, 1)
	assert.Equal(t, "_call", c.Methods[0].Name)
	assert.Equal(t, []string{"args"}, c.Methods[0].Params)
	assert.Equal(t, []string{"this.client.refunds.create"}, callees(c.Methods[0].Body))

	require.Len(t, c.Body, 1)
	field, ok := c.Body[0].(*DeclStmt)
	require.True(t, ok)
	assert.Equal(t, "client", field.Target.Name)
	assert.Equal(t, "Stripe", field.Value.Callee())
}

func TestParsePython(t *testing.T) {
	t.Parallel()

	const src = `from x import y

@retry(stop=3)
async def ask(prompt):
    with open("f") as fh:
        data = fh.read()
    try:
        resp = await client.chat.completions.create(model="gpt", messages=[])
    except (ValueError, KeyError) as err:
        raise
    else:
        log(resp)
    finally:
        close()
    return resp

class Tool(BaseTool):
    name = "t"

    def _run(self, q):
        return requests.post(q)
`

	f := testsource.ParseFile(t, Python, src)

	assert.False(t, f.HasErrors)
	assert.Equal(t, []string{"<module>", "ask", "_run"}, names(f.Funcs))

	ask := f.Funcs[1]
	assert.True(t, ask.Async)
	assert.Equal(t, []string{"prompt"}, ask.Params)
	require.Len(t, ask.Decorators, 1)
	assert.Equal(t, "retry", ask.Decorators[0].Callee())

	require.Len(t, ask.Body, 4)

	with, ok := ask.Body[0].(*DeclStmt)
	require.True(t, ok, "Got %T, expected *DeclStmt", ask.Body[0])
	assert.Equal(t, WithDecl, with.Kind)
	assert.Equal(t, []string{"fh"}, with.Names)

	try, ok := ask.Body[2].(*TryStmt)
	require.True(t, ok, "Got %T, expected *TryStmt", ask.Body[2])
	require.Len(t, try.Catches, 1)
	assert.Equal(t, "err", try.Catches[0].Param)
	assert.NotNil(t, try.Else)
	assert.NotNil(t, try.Finally)

	assert.Equal(t, []string{"client.chat.completions.create", "log", "close"}, callees(ask.Body[2:]))

	create := Calls(try.Body.List)[0]
	require.Len(t, create.Args, 2)
	assert.Equal(t, ExprKeyword, create.Args[0].Kind)
	assert.Equal(t, "model", create.Args[0].Name)

	require.Len(t, f.Classes, 1)
	tool := f.Classes[0]
	assert.Equal(t, "BaseTool", tool.Bases[0].Text)
	require.Len(t, tool.Body, 1)
	assert.Equal(t, []string{"name"}, tool.Body[0].(*DeclStmt).Names)
	require.Len(t, tool.Methods, 1)
	assert.Equal(t, MethodFunc, tool.Methods[0].Kind)
	assert.Same(t, tool, tool.Methods[0].Class)
}

func TestControlStatements(t *testing.T) {
	t.Parallel()

	_, fn := testsource.Parse(t, JavaScript, `outer: for (const x of xs) {
  switch (x) {
    case 1: break outer;
    default: continue;
  }
}`)

	require.Len(t, fn.Body, 1)
	labeled, ok := fn.Body[0].(*LabeledStmt)
	require.True(t, ok, "Got %T, expected *LabeledStmt", fn.Body[0])
	assert.Equal(t, "outer", labeled.Label)
	assert.Equal(t, 2, labeled.Pos().Line)

	loop, ok := labeled.Stmt.(*LoopStmt)
	require.True(t, ok, "Got %T, expected *LoopStmt", labeled.Stmt)
	assert.Equal(t, ForOfLoop, loop.Kind)
	assert.Equal(t, []string{"x"}, loop.Var.Names)
	assert.Equal(t, "xs", loop.Cond.Text)

	sw, ok := loop.Body.(*SwitchStmt)
	require.True(t, ok, "Got %T, expected *SwitchStmt", loop.Body)
	require.Len(t, sw.Cases, 2)
	assert.Len(t, sw.Cases[0].Values, 1)
	assert.Nil(t, sw.Cases[1].Values)

	br, ok := sw.Cases[0].Body[0].(*BranchStmt)
	require.True(t, ok)
	assert.Equal(t, Break, br.Tok)
	assert.Equal(t, "outer", br.Label)
}

func TestPythonIfElif(t *testing.T) {
	t.Parallel()

	_, fn := testsource.Parse(t, Python, `if a:
    one()
elif b:
    two()
else:
    three()
`)

	require.Len(t, fn.Body, 1)
	s, ok := fn.Body[0].(*IfStmt)
	require.True(t, ok)

	elif, ok := s.Else.(*IfStmt)
	require.True(t, ok, "Got %T, expected *IfStmt", s.Else)
	assert.Equal(t, "b", elif.Cond.Text)
	assert.IsType(t, &BlockStmt{}, elif.Else)
	assert.Equal(t, []string{"one", "two", "three"}, callees(fn.Body))
}

func TestNestedFunctions(t *testing.T) {
	t.Parallel()

	f, fn := testsource.Parse(t, JavaScript, `a();
const f = () => { b(); };
c(() => d(x));`)

	assert.Equal(t, []string{"a", "c"}, callees(fn.Body))
	assert.Equal(t, []string{"<module>", "_", "f", "<anonymous>"}, names(f.Funcs))

	ids := Idents(fn)
	for _, id := range []string{"a", "b", "c", "d", "x"} {
		assert.Contains(t, ids, id)
	}
}

func TestBadStatements(t *testing.T) {
	t.Parallel()

	f := testsource.ParseFile(t, JavaScript, "function f() {\n  foo(;\n}\nbar();\n")

	assert.True(t, f.HasErrors)

	var bad int
	for _, fn := range f.Funcs {
		InspectList(fn.Body, func(n Node) bool {
			if _, ok := n.(*BadStmt); ok {
				bad++
			}

			return true
		})
	}

	assert.Positive(t, bad)
}

func TestLanguageFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want Language
	}{
		{"agent.py", Python},
		{"src/tool.ts", TypeScript},
		{"App.tsx", TSX},
		{"index.mjs", JavaScript},
		{"README.md", UnknownLanguage},
	}

	for _, tt := range tests {
		if got := LanguageFor(tt.path); got != tt.want {
			t.Errorf("Got %s for %s, expected %s", got, tt.path, tt.want)
		}
	}
}
