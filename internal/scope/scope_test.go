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

package scope_test

import (
	"context"
	"strings"
	"testing"

	. "fillmore-labs.com/receiptguard/internal/scope"
	"fillmore-labs.com/receiptguard/internal/syntax"
	"fillmore-labs.com/receiptguard/internal/testsource"
)

const jsSource = `async function a() {
  try {
    await db.update(x);
  } catch (e) {
    await notify(e);
  } finally {
    close();
  }
  await pay();
}
function b() {
  try {
    const f = () => db.delete(y);
  } catch (e) {}
}
try {
  outer();
} catch {}
`

const pySource = `def run(q):
    try:
        requests.post(q)
    except ValueError as err:
        report(err)
    else:
        after_success()
    with lock:
        unprotected()
`

func TestProtection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		lang      syntax.Language
		src       string
		needle    string
		protected bool
	}{
		{"inside_try", syntax.JavaScript, jsSource, "db.update", true},
		{"inside_catch", syntax.JavaScript, jsSource, "notify", false},
		{"inside_finally", syntax.JavaScript, jsSource, "close", false},
		{"after_try", syntax.JavaScript, jsSource, "pay", false},
		{"closure_in_try", syntax.JavaScript, jsSource, "db.delete", false},
		{"module_level", syntax.JavaScript, jsSource, "outer", true},
		{"python_try", syntax.Python, pySource, "requests.post", true},
		{"python_except", syntax.Python, pySource, "report", false},
		{"python_else", syntax.Python, pySource, "after_success", false},
		{"python_with", syntax.Python, pySource, "unprotected", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := testsource.ParseFile(t, tt.lang, tt.src)
			tree := Build(context.Background(), f)

			if err := tree.Validate(); err != nil {
				t.Fatalf("Invalid scope tree: %v", err)
			}

			offset := strings.Index(tt.src, tt.needle)
			if offset < 0 {
				t.Fatalf("Needle %q not found", tt.needle)
			}

			try, ok := tree.Protection(offset)
			if ok != tt.protected {
				t.Errorf("Got protected %t, expected %t (innermost %s)", ok, tt.protected, tree.Innermost(offset).Kind)
			}

			if ok && try.Kind != Try {
				t.Errorf("Got %s scope, expected %s", try.Kind, Try)
			}
		})
	}
}

func TestTryHandlers(t *testing.T) {
	t.Parallel()

	f := testsource.ParseFile(t, syntax.JavaScript, jsSource)
	tree := Build(context.Background(), f)

	try, ok := tree.Protection(strings.Index(jsSource, "db.update"))
	if !ok {
		t.Fatal("Expected db.update to be protected")
	}

	catch := tree.Scope(try.Catch)
	if catch == nil || catch.Kind != Catch {
		t.Fatal("Expected catch scope")
	}

	if !catch.Span.Contains(strings.Index(jsSource, "notify")) {
		t.Error("Expected notify to be in the catch handler")
	}

	if catch.Span.Contains(strings.Index(jsSource, "close")) {
		t.Error("Expected close not to be in the catch handler")
	}

	if try.Finally == NoScope {
		t.Error("Expected finally scope")
	}
}

func TestInnermost(t *testing.T) {
	t.Parallel()

	f := testsource.ParseFile(t, syntax.JavaScript, jsSource)
	tree := Build(context.Background(), f)

	if got := tree.Innermost(0).Kind; got != Function {
		t.Errorf("Got %s, expected %s", got, Function)
	}

	s := tree.Innermost(strings.Index(jsSource, "db.delete"))
	if s.Kind != Function || s.Func == nil || s.Func.Kind != syntax.ArrowFunc {
		t.Errorf("Got %s scope, expected arrow function", s.Kind)
	}

	var kinds []Kind
	for a := range tree.Ancestors(tree.Innermost(strings.Index(jsSource, "notify")).ID) {
		kinds = append(kinds, a.Kind)
	}

	if len(kinds) != 2 || kinds[0] != Catch || kinds[1] != Function {
		t.Errorf("Got ancestors %v, expected [catch function]", kinds)
	}

	if got := tree.Root().Kind; got != Module {
		t.Errorf("Got root %s, expected %s", got, Module)
	}
}
