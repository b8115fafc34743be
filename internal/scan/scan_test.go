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

package scan_test

import (
	"strings"
	"testing"

	"fillmore-labs.com/receiptguard/internal/catalog"
	. "fillmore-labs.com/receiptguard/internal/scan"
)

func TestScan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		agent bool
	}{
		{"plain", "function add(a, b) { return a + b }", false},
		{"db_update", "async function f() { await db.update(id, data) }", true},
		{"multiline_llm", "const r = await client.chat\n  .completions\n  .create({ model })", true},
		{"secret", `const key = "sk_live_abcdef1234567890ABCDEF";`, true},
		{"python_tool", "requests.post(url, json=payload)\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := Scan([]byte(tt.src), catalog.Default())
			if r.HasAgentCode != tt.agent {
				t.Errorf("Got HasAgentCode %t with %d matches, expected %t", r.HasAgentCode, r.Matches, tt.agent)
			}
		})
	}
}

func TestCalls(t *testing.T) {
	t.Parallel()

	text := "x = await openai.chat.completions.create(req)\nawait db.update(1)\nretriever.invoke(q)\n"

	matches := Calls(text, catalog.Default())

	want := []string{"openai_chat", "db_mutation", "generic_complete"}
	if len(matches) != len(want) {
		t.Fatalf("Got %d matches, expected %d", len(matches), len(want))
	}

	for i, m := range matches {
		if m.Pattern.ID() != want[i] {
			t.Errorf("Match %d: got %s, expected %s", i, m.Pattern.ID(), want[i])
		}
	}
}

func TestMaskComments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		style CommentStyle
		want  string
	}{
		{"line", "a // sk_live\nb", SlashComments, "a" + strings.Repeat(" ", 11) + "\nb"},
		{"block", "a /* x\ny */ b", SlashComments, "a     \n     b"},
		{"string", `s = "// not a comment"`, SlashComments, `s = "// not a comment"`},
		{"hash", "x = 1 # secret\ny", HashComments, "x = 1" + strings.Repeat(" ", 9) + "\ny"},
		{"triple", `"""# doc"""` + " # c", HashComments, `"""# doc"""` + "    "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := string(MaskComments([]byte(tt.src), tt.style))
			if got != tt.want {
				t.Errorf("Got %q, expected %q", got, tt.want)
			}

			if len(got) != len(tt.src) || strings.Count(got, "\n") != strings.Count(tt.src, "\n") {
				t.Error("Masking changed offsets")
			}
		})
	}
}
