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

// Package scan implements the cheap text-only pass that decides whether a file
// contains agent-relevant code at all, and the pattern-only matching used when
// structural analysis of a function is not possible.
package scan

import (
	"cmp"
	"fmt"
	"slices"

	"fillmore-labs.com/receiptguard/internal/catalog"
)

// Result summarizes the quick scan of a file.
type Result struct {
	HasAgentCode bool
	Matches      int
	ByFamily     map[catalog.Family]int
}

// Scan tests every catalog pattern against the whole text.
//
// Call patterns see layout-normalized text, secret patterns the raw text.
// A file without any match cannot produce findings.
func Scan(src []byte, c *catalog.Catalog) Result {
	raw := string(src)
	normalized := catalog.Normalize(raw)

	r := Result{ByFamily: make(map[catalog.Family]int)}

	for _, p := range c.All() {
		var n int

		switch p := p.(type) {
		case catalog.ToolPattern:
			n = count(p.Call, normalized)

		case catalog.LLMPattern:
			n = count(p.Call, normalized)

		case catalog.AgentPattern:
			if p.Requires != nil && !p.Requires.MatchString(raw) {
				continue
			}

			n = count(p.Call, normalized)

		case catalog.SideEffectPattern:
			n = count(p.Call, normalized)

		case catalog.SecretPattern:
			n = len(p.Re.FindAllStringIndex(raw, -1))

		default:
			msg := fmt.Errorf("unexpected pattern type: %T", p)
			panic(msg)
		}

		if n == 0 {
			continue
		}

		r.Matches += n
		r.ByFamily[p.Family()] += n
	}

	r.HasAgentCode = r.Matches > 0

	return r
}

func count(c catalog.Call, text string) int {
	return len(c.Re.FindAllStringIndex(text, -1))
}

// Match is a call pattern matched in raw text.
type Match struct {
	Pattern    catalog.Pattern
	Start, End int // byte offsets into the scanned text
}

// Calls finds tool, LLM and agent call patterns in raw text.
// When several patterns match a call ending at the same offset, the first in
// catalog order wins, with specific patterns preferred over generic ones.
func Calls(text string, c *catalog.Catalog) []Match {
	var matches []Match

	seen := make(map[int]struct{})

	add := func(p catalog.Pattern, re catalog.Call) {
		for _, loc := range re.Re.FindAllStringIndex(text, -1) {
			if _, ok := seen[loc[1]]; ok {
				continue
			}
			seen[loc[1]] = struct{}{}

			matches = append(matches, Match{Pattern: p, Start: loc[0], End: loc[1]})
		}
	}

	for _, generic := range [...]bool{false, true} {
		for _, p := range c.Tools {
			if p.Generic == generic {
				add(p, p.Call)
			}
		}

		for _, p := range c.LLMs {
			if p.Generic == generic {
				add(p, p.Call)
			}
		}

		for _, p := range c.Agents {
			if p.Generic == generic && (p.Requires == nil || p.Requires.MatchString(text)) {
				add(p, p.Call)
			}
		}
	}

	slices.SortFunc(matches, func(a, b Match) int { return cmp.Compare(a.Start, b.Start) })

	return matches
}

// SideEffects finds destructive-operation patterns in raw text.
func SideEffects(text string, c *catalog.Catalog) []Match {
	var matches []Match
	for _, p := range c.SideEffects {
		for _, loc := range p.Re.FindAllStringIndex(text, -1) {
			matches = append(matches, Match{Pattern: p, Start: loc[0], End: loc[1]})
		}
	}

	slices.SortFunc(matches, func(a, b Match) int { return cmp.Compare(a.Start, b.Start) })

	return matches
}
