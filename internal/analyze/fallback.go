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

package analyze

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"fillmore-labs.com/receiptguard/internal/catalog"
	"fillmore-labs.com/receiptguard/internal/report"
	"fillmore-labs.com/receiptguard/internal/scan"
	"fillmore-labs.com/receiptguard/internal/syntax"
)

var (
	tryKeyword   = regexp.MustCompile(`\btry\s*[:{]`)
	catchKeyword = regexp.MustCompile(`\b(?:catch|except)\b|\.catch\(`)
	objectKey    = regexp.MustCompile(`["']?(\w+)["']?\s*[:=]`)
)

// maxCallText bounds the text scanned for the end of a call's argument list.
const maxCallText = 4096

// fallback checks the text from start to end with patterns only, skipping the holes.
func (f *file) fallback(start, end int, holes []syntax.Span) {
	inHole := func(offset int) bool {
		return slices.ContainsFunc(holes, func(s syntax.Span) bool { return s.Contains(offset) })
	}

	region := f.masked[start:end]

	for _, m := range scan.Calls(region, f.Catalog) {
		paren := start + m.End - 1
		if inHole(paren) {
			continue
		}

		f.fallbackCall(m.Pattern, start+m.Start, paren)
	}

	for _, m := range scan.SideEffects(region, f.Catalog) {
		paren := start + m.End - 1
		if inHole(paren) {
			continue
		}

		f.fallbackSideEffect(m.Pattern.(catalog.SideEffectPattern), start+m.Start, paren)
	}
}

func (f *file) fallbackCall(p catalog.Pattern, matchStart, paren int) {
	line := f.src.Line(paren)
	callee := calleeText(f.text[matchStart:paren])
	call := f.callText(matchStart, paren)

	family, category := catalog.Describe(p)
	receiptRequired, errorsRequired := catalog.Requirements(p)

	site := report.CallSite{
		Start:                 f.src.Position(matchStart + strings.Index(f.text[matchStart:paren], callee)),
		Callee:                callee,
		Family:                family.String(),
		Category:              string(category),
		Pattern:               p.ID(),
		RequiresReceipt:       receiptRequired,
		RequiresErrorHandling: errorsRequired,
		Degraded:              true,
		Suppressed:            f.src.SuppressedAll(line),
	}

	if site.Suppressed {
		f.result.CallSites = append(f.result.CallSites, site)

		return
	}

	if fn := f.enclosing(paren); fn != nil {
		site.Function = fn.Name
	}

	pos, end := site.Start, f.src.Position(paren+1)
	emit := func(rule report.Rule, message string) {
		if i, ok := f.newIssue(rule, category, pos, end, callee, message); ok {
			f.result.Issues = append(f.result.Issues, i)
		}
	}

	site.HasReceipt = !f.Strict() && f.receiptText(f.src.Lines(line, line+f.ReceiptWindow))
	if receiptRequired && !site.HasReceipt {
		emit(report.MissingReceipt, fmt.Sprintf("%s call %s has no receipt nearby", title(family), callee))
	}

	site.HasErrorHandling = f.protectedText(paren, line)
	if errorsRequired && !site.HasErrorHandling {
		emit(report.MissingErrorHandling, fmt.Sprintf("%s call %s does not appear inside a try block", title(family), callee))
	}

	switch p := p.(type) {
	case catalog.LLMPattern:
		site.HasResilience = f.resilientClient || f.Catalog.Resilience.Match(call) ||
			f.Catalog.Resilience.Match(f.src.Lines(line-f.ResilienceWindow, line))
		if !site.HasResilience {
			emit(report.MissingResilience, fmt.Sprintf("LLM call %s has no timeout or retry configuration", callee))
		}

	case catalog.AgentPattern:
		site.HasProvenance = f.Catalog.Provenance.Match(f.src.Lines(line, line+f.ReceiptWindow))
		if !site.HasProvenance {
			emit(report.MissingProvenance, fmt.Sprintf("Agent call %s records no action id or timestamp", callee))
		}

		switch p.Check {
		case catalog.CheckErrorCallback:
			if !f.Catalog.ErrorCallback.Match(call) {
				emit(report.TaskErrorHandler, fmt.Sprintf("Agent task %s has no error callback", callee))
			}

		case catalog.CheckTermination:
			if !f.Catalog.Termination.Match(call) {
				emit(report.AgentTermination, fmt.Sprintf("Agent %s has no termination bound", callee))
			}

		case catalog.NoAgentCheck:
		}

	case catalog.ToolPattern:

	default:
		msg := fmt.Errorf("unexpected pattern type: %T", p)
		panic(msg)
	}

	f.result.CallSites = append(f.result.CallSites, site)
}

func (f *file) fallbackSideEffect(p catalog.SideEffectPattern, matchStart, paren int) {
	line := f.src.Line(paren)
	if f.src.SuppressedAll(line) {
		return
	}

	before := f.src.Lines(line-f.ReceiptWindow, line-1) + f.text[f.src.LineStart(line):matchStart]
	if f.Catalog.Confirmation.Match(before) {
		return
	}

	callee := calleeText(f.text[matchStart:paren])
	pos := f.src.Position(matchStart + strings.Index(f.text[matchStart:paren], callee))

	if i, ok := f.newIssue(report.UnconfirmedSideEffect, catalog.SideEffect, pos, f.src.Position(paren+1), callee,
		fmt.Sprintf("Destructive %s operation %s has no confirmation guard", p.Operation, callee)); ok {
		i.Severity = max(i.Severity, p.Severity)
		f.result.Issues = append(f.result.Issues, i)
	}
}

// receiptText reports whether the text holds a receipt call or a receipt-shaped set of keys.
func (f *file) receiptText(text string) bool {
	if f.Catalog.Receipt.Match(catalog.Normalize(text)) {
		return true
	}

	var keys []string
	for _, m := range objectKey.FindAllStringSubmatch(text, -1) {
		keys = append(keys, m[1])
	}

	return f.Catalog.IsReceiptObject(keys)
}

// protectedText uses the scope tree when the file parsed, and keywords around the call otherwise.
func (f *file) protectedText(offset, line int) bool {
	if f.scopes != nil {
		_, ok := f.scopes.Protection(offset)

		return ok
	}

	return tryKeyword.MatchString(f.src.Lines(line-f.ReceiptWindow, line)) &&
		catchKeyword.MatchString(f.src.Lines(line, line+2*f.ReceiptWindow))
}

// callText returns the text of a call from the match start through its closing parenthesis.
func (f *file) callText(matchStart, paren int) string {
	depth := 0
	limit := min(len(f.masked), paren+maxCallText)

	for i := paren; i < limit; i++ {
		switch f.masked[i] {
		case '(':
			depth++

		case ')':
			depth--
			if depth == 0 {
				return f.text[matchStart : i+1]
			}
		}
	}

	return f.text[matchStart:limit]
}

// enclosing returns the innermost function containing the offset, if the file parsed.
func (f *file) enclosing(offset int) *syntax.FuncDecl {
	if f.tree == nil {
		return nil
	}

	var inner *syntax.FuncDecl
	for _, fn := range f.tree.Funcs {
		if fn.Span.Contains(offset) {
			inner = fn // pre-order: later matches are nested deeper
		}
	}

	return inner
}

// calleeText strips the leading boundary character a pattern may have consumed.
func calleeText(s string) string {
	return strings.TrimLeftFunc(s, func(r rune) bool {
		return r != '_' && r != '$' && !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9')
	})
}
