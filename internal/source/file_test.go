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

package source_test

import (
	"testing"

	"fillmore-labs.com/receiptguard/internal/report"
	. "fillmore-labs.com/receiptguard/internal/source"
)

const src = `await db.update(a) // receiptguard:ignore
// receiptguard:ignore FK001, FK005 - audited elsewhere
await db.update(b)
await db.update(c) // nolint:receiptguard
await db.update(d) // nolint:other
requests.post(u)  # noqa: FK002
`

func TestSuppressed(t *testing.T) {
	t.Parallel()

	f := NewFile("x.js", []byte(src))

	tests := []struct {
		name string
		line int
		rule report.Rule
		want bool
	}{
		{"same_line_all", 1, report.MissingErrorHandling, true},
		{"line_above_listed", 3, report.MissingReceipt, true},
		{"line_above_unlisted", 3, report.MissingErrorHandling, false},
		{"nolint", 4, report.MissingReceipt, true},
		{"nolint_other", 5, report.MissingReceipt, true}, // covered by line 4
		{"noqa_listed", 6, report.MissingErrorHandling, true},
		{"noqa_unlisted", 6, report.MissingReceipt, false},
		{"two_lines_below", 7, report.MissingReceipt, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := f.Suppressed(tt.line, tt.rule); got != tt.want {
				t.Errorf("Suppressed(%d, %s) = %t, expected %t", tt.line, tt.rule, got, tt.want)
			}
		})
	}

	if !f.SuppressedAll(2) || f.SuppressedAll(3) {
		t.Error("Unexpected SuppressedAll result")
	}
}

func TestPosition(t *testing.T) {
	t.Parallel()

	f := NewFile("x.js", []byte("ab\ncd\n\nef"))

	tests := []struct {
		offset       int
		line, column int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{6, 3, 1},
		{8, 4, 2},
	}

	for _, tt := range tests {
		if got := f.Position(tt.offset); got.Line != tt.line || got.Column != tt.column {
			t.Errorf("Position(%d) = %d:%d, expected %d:%d", tt.offset, got.Line, got.Column, tt.line, tt.column)
		}
	}

	if got := f.LineText(2); got != "cd" {
		t.Errorf("LineText(2) = %q, expected %q", got, "cd")
	}

	if got := f.Lines(1, 2); got != "ab\ncd\n" {
		t.Errorf("Lines(1, 2) = %q", got)
	}

	if f.LineCount() != 4 {
		t.Errorf("Got %d lines, expected 4", f.LineCount())
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want Kind
	}{
		{"src/agent.ts", Regular},
		{"src/agent.test.ts", Test},
		{"src/__tests__/agent.js", Test},
		{"tests/test_agent.py", Test},
		{"agent_test.py", Test},
		{"jest.config.js", Config},
		{"types/index.d.ts", Declaration},
		{"dist/bundle.min.js", Minified},
		{`src\tools\payment.py`, Regular},
	}

	for _, tt := range tests {
		if got := Classify(tt.path); got != tt.want {
			t.Errorf("Classify(%q) = %s, expected %s", tt.path, got, tt.want)
		}
	}
}
