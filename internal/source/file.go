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

// Package source provides line bookkeeping, disable markers and file-kind
// classification for analyzed source files.
package source

import (
	"regexp"
	"slices"
	"strings"

	"fillmore-labs.com/receiptguard/internal/report"
)

const receiptguard = "receiptguard"

// File is an analyzed source text with its line index and suppression markers.
type File struct {
	Path string
	Src  []byte

	lines        []int // byte offsets of line starts
	suppressions map[int]suppression
}

// suppression disables all rules when rules is nil.
type suppression struct {
	rules []report.Rule
}

// NewFile indexes the lines and disable markers of src.
func NewFile(path string, src []byte) *File {
	f := &File{Path: path, Src: src, lines: []int{0}}

	for i, c := range src {
		if c == '\n' {
			f.lines = append(f.lines, i+1)
		}
	}

	f.suppressions = make(map[int]suppression)
	for line := 1; line <= len(f.lines); line++ {
		if s, ok := parseDirective(f.LineText(line)); ok {
			f.suppressions[line] = s
		}
	}

	return f
}

// LineCount returns the number of lines.
func (f *File) LineCount() int {
	return len(f.lines)
}

// Line returns the 1-based line containing the byte offset.
func (f *File) Line(offset int) int {
	i, found := slices.BinarySearch(f.lines, offset)
	if found {
		return i + 1
	}

	return i
}

// Position returns the 1-based line and column of the byte offset.
func (f *File) Position(offset int) report.Position {
	line := f.Line(offset)

	return report.Position{Line: line, Column: offset - f.lines[line-1] + 1}
}

// LineStart returns the byte offset of a 1-based line.
func (f *File) LineStart(line int) int {
	switch {
	case line < 1:
		return 0

	case line > len(f.lines):
		return len(f.Src)

	default:
		return f.lines[line-1]
	}
}

// LineText returns the text of a 1-based line without its line break.
func (f *File) LineText(line int) string {
	if line < 1 || line > len(f.lines) {
		return ""
	}

	start, end := f.lines[line-1], len(f.Src)
	if line < len(f.lines) {
		end = f.lines[line] - 1
	}

	return strings.TrimSuffix(string(f.Src[start:end]), "\r")
}

// Lines returns the text from line first through line last, inclusive.
func (f *File) Lines(first, last int) string {
	first = max(first, 1)
	last = min(last, len(f.lines))

	if first > last {
		return ""
	}

	return string(f.Src[f.LineStart(first):f.LineStart(last+1)])
}

// Suppressed reports whether a disable marker on the line or the line immediately above covers the rule.
func (f *File) Suppressed(line int, rule report.Rule) bool {
	for _, l := range [...]int{line, line - 1} {
		s, ok := f.suppressions[l]
		if !ok {
			continue
		}

		if s.rules == nil || slices.Contains(s.rules, rule) {
			return true
		}
	}

	return false
}

// SuppressedAll reports whether a disable marker covering every rule applies to the line.
func (f *File) SuppressedAll(line int) bool {
	for _, l := range [...]int{line, line - 1} {
		if s, ok := f.suppressions[l]; ok && s.rules == nil {
			return true
		}
	}

	return false
}

var (
	ignorePattern = regexp.MustCompile(`(?://|#|/\*).*?\b` + receiptguard + `:(?:ignore|disable)(?:-next-line)?\b([ \t]+[A-Z]{2}\d{3}(?:[ \t]*,[ \t]*[A-Z]{2}\d{3})*)?`)
	nolintPattern = regexp.MustCompile(`(?://|#)\s*nolint:([a-zA-Z0-9,_-]+)`)
	noqaPattern   = regexp.MustCompile(`#\s*noqa:\s*([A-Z]{2}\d{3}(?:\s*,\s*[A-Z]{2}\d{3})*)`)
)

// parseDirective extracts a disable marker from a line.
func parseDirective(text string) (suppression, bool) {
	if !strings.Contains(text, receiptguard) && !strings.Contains(text, "noqa") {
		return suppression{}, false
	}

	if m := ignorePattern.FindStringSubmatch(text); m != nil {
		return suppression{rules: parseRules(m[1])}, true
	}

	if m := nolintPattern.FindStringSubmatch(text); m != nil {
		// Parse comma-separated linter list
		for linter := range strings.SplitSeq(m[1], ",") {
			if l := strings.ToLower(strings.TrimSpace(linter)); l == receiptguard || l == "all" {
				return suppression{}, true
			}
		}
	}

	if m := noqaPattern.FindStringSubmatch(text); m != nil {
		return suppression{rules: parseRules(m[1])}, true
	}

	return suppression{}, false
}

func parseRules(list string) []report.Rule {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil
	}

	var rules []report.Rule
	for r := range strings.SplitSeq(list, ",") {
		rules = append(rules, report.Rule(strings.TrimSpace(r)))
	}

	return rules
}
