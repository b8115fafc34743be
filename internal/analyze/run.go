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
	"context"
	"errors"
	"fmt"
	"runtime/trace"

	"fillmore-labs.com/receiptguard/internal/catalog"
	"fillmore-labs.com/receiptguard/internal/config"
	"fillmore-labs.com/receiptguard/internal/report"
	"fillmore-labs.com/receiptguard/internal/scan"
	"fillmore-labs.com/receiptguard/internal/scope"
	"fillmore-labs.com/receiptguard/internal/source"
	"fillmore-labs.com/receiptguard/internal/syntax"
)

// ErrInternal wraps a recovered inconsistency in the analysis of a function.
var ErrInternal = errors.New("internal error")

// Run analyzes one file.
//
// Run never fails: functions or files that cannot be analyzed structurally are
// checked with text patterns and annotated as degraded.
func (o *Options) Run(ctx context.Context, path string, src []byte) *report.Result {
	ctx, task := trace.NewTask(ctx, "receiptguard")
	defer task.End()

	trace.Log(ctx, "file", path)

	lang := syntax.LanguageFor(path)
	if lang == syntax.UnknownLanguage {
		lang = syntax.JavaScript
	}

	r := &report.Result{Path: path, Language: lang.String()}

	if kind, skip := o.exclude(path); skip {
		r.Skipped = kind.String()
		r.Finish()

		return r
	}

	if q := scan.Scan(src, o.Catalog); !q.HasAgentCode {
		r.Finish()

		return r
	}

	f := &file{
		Options: o,
		ctx:     ctx,
		lang:    lang,
		src:     source.NewFile(path, src),
		text:    string(src),
		masked:  string(scan.MaskComments(src, lang.CommentStyle())),
		result:  r,
	}

	f.run()

	r.Finish()

	return r
}

// exclude reports whether the file kind is skipped by the current options.
func (o *Options) exclude(path string) (source.Kind, bool) {
	switch kind := source.Classify(path); kind {
	case source.Test:
		return kind, !o.Behavior.Enabled(config.IncludeTests)

	case source.Config, source.Declaration:
		return kind, !o.Behavior.Enabled(config.IncludeConfig)

	case source.Minified:
		return kind, true

	default:
		return kind, false
	}
}

// file holds the state of one file's analysis.
type file struct {
	*Options
	ctx context.Context

	lang   syntax.Language
	src    *source.File
	text   string // raw source
	masked string // source with comments blanked

	tree   *syntax.File // nil when the file could not be parsed
	scopes *scope.Tree

	// resilientClient is set when an LLM client in the file is constructed with timeout or retry configuration.
	resilientClient bool

	result *report.Result
}

func (f *file) run() {
	tree, err := syntax.Parse(f.ctx, f.lang, f.src.Path, f.src.Src)
	if err != nil {
		f.degrade(nil, err)
	} else {
		f.tree = tree
		f.scopes = scope.Build(f.ctx, tree)
		if err := f.scopes.Validate(); err != nil {
			f.Logger.Warn("inconsistent scope tree", "path", f.src.Path, "error", err)
		}
		f.resilientClient = f.hasResilientClient()
		f.result.Functions = len(tree.Funcs)

		for _, fn := range tree.Funcs {
			f.function(fn)
		}
	}

	f.secrets()
}

// function analyzes one function, degrading it on failure.
func (f *file) function(fn *syntax.FuncDecl) {
	fa, err := f.analyzeFunction(fn)
	if err != nil {
		f.degrade(fn, err)

		return
	}

	f.result.Issues = append(f.result.Issues, fa.issues...)
	f.result.CallSites = append(f.result.CallSites, fa.sites...)

	if !fa.flow.Converged {
		f.Logger.Debug("data flow did not converge", "path", f.src.Path, "function", fn.Name, "iterations", fa.flow.Iterations)

		f.result.Degraded = true
		f.result.Notes = append(f.result.Notes,
			fmt.Sprintf("%s (line %d): data flow stopped after %d iterations; receipts matched by proximity",
				fn.Name, fn.Pos().Line, fa.flow.Iterations))
	}
}

// degrade records an FK000 note and falls back to text patterns for the function, or the whole file when fn is nil.
func (f *file) degrade(fn *syntax.FuncDecl, err error) {
	name, line := "<file>", 1
	start, end := 0, len(f.text)

	var holes []syntax.Span
	if fn != nil {
		name, line = fn.Name, fn.Pos().Line
		start, end = fn.Pos().Offset, fn.End().Offset

		for _, nested := range f.tree.Funcs {
			if nested.Parent == fn {
				holes = append(holes, nested.Span)
			}
		}
	}

	f.Logger.Debug("function degraded", "path", f.src.Path, "function", name, "line", line, "error", err)

	f.result.Degraded = true
	f.result.Notes = append(f.result.Notes, fmt.Sprintf("%s (line %d): %v", name, line, err))

	pos := report.Position{Line: line, Column: 1}
	msg := fmt.Sprintf("Analysis incomplete for %s: %v; falling back to pattern matching", name, err)

	if i, ok := f.newIssue(report.AnalysisIncomplete, "", pos, pos, name, msg); ok {
		f.result.Issues = append(f.result.Issues, i)
	}

	f.fallback(start, end, holes)
}

// hasResilientClient reports whether an LLM client constructor in the file carries resilience configuration.
func (f *file) hasResilientClient() bool {
	for _, fn := range f.tree.Funcs {
		for _, call := range syntax.Calls(fn.Body) {
			p, ok := f.match(call)
			if !ok {
				continue
			}

			if llm, ok := p.(catalog.LLMPattern); ok && llm.Provider == clientProvider && f.Catalog.Resilience.Match(call.Text) {
				return true
			}
		}
	}

	return false
}

// clientProvider is the provider name of LLM client constructors.
const clientProvider = "client"

// match classifies a call expression with the catalog.
func (f *file) match(call *syntax.Expr) (catalog.Pattern, bool) {
	return f.Catalog.Match(catalog.Normalize(call.Callee()), catalog.Normalize(call.Text), f.text)
}

// newIssue builds a classified issue, or reports false when the rule is disabled or suppressed at the line.
func (f *file) newIssue(rule report.Rule, category catalog.Category, start, end report.Position, callee, message string) (report.Issue, bool) {
	if !f.Enabled(rule) || f.src.Suppressed(start.Line, rule) {
		return report.Issue{}, false
	}

	i := report.Issue{
		Rule:         rule,
		Category:     rule.Category(),
		Start:        start,
		End:          end,
		Message:      message,
		Callee:       callee,
		ToolCategory: string(category),
	}

	classify(rule, category).render(&i, f.lang == syntax.Python, f.src.Path, callee)

	return i, true
}

// positions returns the start and end of a node.
func positions(n syntax.Node) (start, end report.Position) {
	s, e := n.Pos(), n.End()

	return report.Position{Line: s.Line, Column: s.Column}, report.Position{Line: e.Line, Column: e.Column}
}
