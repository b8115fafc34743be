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

// Package testsource provides utilities for parsing source fragments in tests.
//
// It handles the boilerplate of wrapping statement-level fragments into a
// function and loading multi-file fixtures from txtar archives.
package testsource

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"fillmore-labs.com/receiptguard/internal/syntax"
)

// Parse parses a source code fragment.
// The fragment is wrapped in an async function named `_`, so it starts on line 2.
// For Python, the fragment is indented to form the function body.
//
// Returns:
//   - *syntax.File: The lowered file.
//   - *syntax.FuncDecl: The function wrapping the fragment.
func Parse(tb testing.TB, lang syntax.Language, src string) (*syntax.File, *syntax.FuncDecl) {
	tb.Helper()

	f := ParseFile(tb, lang, wrapSource(lang, src))

	for _, fn := range f.Funcs {
		if fn.Name == "_" {
			return f, fn
		}
	}

	tb.Fatal("Can't find function")

	return nil, nil
}

// ParseFile parses a complete source file.
func ParseFile(tb testing.TB, lang syntax.Language, src string) *syntax.File {
	tb.Helper()

	f, err := syntax.Parse(context.Background(), lang, "test"+lang.Extension(), []byte(src))
	if err != nil {
		tb.Fatalf("Failed to parse source %q: %v", src, err)
	}

	return f
}

// Archive loads a txtar archive from the testdata directory.
func Archive(tb testing.TB, name string) *txtar.Archive {
	tb.Helper()

	ar, err := txtar.ParseFile(filepath.Join("testdata", name))
	if err != nil {
		tb.Fatalf("Failed to load archive %s: %v", name, err)
	}

	return ar
}

// Files returns the files of an archive keyed by name.
func Files(ar *txtar.Archive) map[string][]byte {
	files := make(map[string][]byte, len(ar.Files))
	for _, f := range ar.Files {
		files[f.Name] = f.Data
	}

	return files
}

func wrapSource(lang syntax.Language, src string) string {
	var b strings.Builder

	if lang == syntax.Python {
		b.WriteString("async def _():\n")
		for line := range strings.Lines(src) {
			if strings.TrimSpace(line) != "" {
				b.WriteString("    ")
			}
			b.WriteString(line)
		}
		b.WriteString("\n    pass\n")

		return b.String()
	}

	b.WriteString("async function _() {\n")
	b.WriteString(src)
	b.WriteString("\n}\n")

	return b.String()
}
