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

package analyzer

import (
	"log/slog"

	"github.com/hashicorp/go-hclog"

	"fillmore-labs.com/receiptguard/internal/cache"
	"fillmore-labs.com/receiptguard/internal/catalog"
	"fillmore-labs.com/receiptguard/internal/config"
)

// Option configures specific behavior of a [New] receiptguard analyzer.
type Option interface {
	apply(r *runOptions)
	LogAttr() slog.Attr
}

// Options is a list of [Option] values that itself satisfies the [Option] interface.
type Options []Option

// LogValue implements [slog.LogValuer].
func (o Options) LogValue() slog.Value {
	as := make([]slog.Attr, 0, len(o))
	as = appendOptions(as, o)

	return slog.GroupValue(as...)
}

func appendOptions(as []slog.Attr, o Options) []slog.Attr {
	for _, opt := range o {
		switch opt := opt.(type) {
		case nil:
			as = append(as, slog.String("nil", "<nil>"))

		case Options:
			as = appendOptions(as, opt)

		default:
			as = append(as, opt.LogAttr())
		}
	}

	return as
}

func (o Options) apply(r *runOptions) {
	for _, opt := range o {
		if opt == nil {
			continue
		}

		opt.apply(r)
	}
}

// LogAttr is for logging with [slog.Logger.LogAttrs].
func (o Options) LogAttr() slog.Attr {
	return slog.Any("options", o)
}

// WithRules is an [Option] to enable exactly the given set of rules.
func WithRules(rules config.Rules) Option { return rulesOption{rules: rules} }

type rulesOption struct{ rules config.Rules }

func (o rulesOption) apply(r *runOptions) {
	r.analyze.Rules = config.NewBitMask(o.rules)
}

func (o rulesOption) LogAttr() slog.Attr {
	return slog.String("rules", o.rules.String())
}

// WithRule is an [Option] to switch a single rule on or off.
func WithRule(rule config.Rules, enabled bool) Option {
	return ruleOption{rule: rule, enabled: enabled}
}

type ruleOption struct {
	rule    config.Rules
	enabled bool
}

func (o ruleOption) apply(r *runOptions) {
	r.analyze.Rules.Set(o.rule, o.enabled)
}

func (o ruleOption) LogAttr() slog.Attr {
	return slog.Bool(o.rule.String(), o.enabled)
}

// WithTests is an [Option] to configure whether test files are analyzed.
func WithTests(tests bool) Option { return testsOption{tests: tests} }

type testsOption struct{ tests bool }

func (o testsOption) apply(r *runOptions) {
	r.analyze.Behavior.Set(config.IncludeTests, o.tests)
}

func (o testsOption) LogAttr() slog.Attr {
	return slog.Bool("tests", o.tests)
}

// WithConfigFiles is an [Option] to configure whether configuration and declaration files are analyzed.
func WithConfigFiles(configFiles bool) Option { return configFilesOption{configFiles: configFiles} }

type configFilesOption struct{ configFiles bool }

func (o configFilesOption) apply(r *runOptions) {
	r.analyze.Behavior.Set(config.IncludeConfig, o.configFiles)
}

func (o configFilesOption) LogAttr() slog.Attr {
	return slog.Bool("config-files", o.configFiles)
}

// WithStrictDataFlow is an [Option] to require a data-flow link between a call's result and its receipt.
func WithStrictDataFlow(strict bool) Option { return strictOption{strict: strict} }

type strictOption struct{ strict bool }

func (o strictOption) apply(r *runOptions) {
	r.analyze.Behavior.Set(config.StrictDataFlow, o.strict)
}

func (o strictOption) LogAttr() slog.Attr {
	return slog.Bool("strict", o.strict)
}

// WithReceiptWindow is an [Option] to configure the number of lines searched for a receipt after a call.
func WithReceiptWindow(lines int) Option { return receiptWindowOption{lines: lines} }

type receiptWindowOption struct{ lines int }

func (o receiptWindowOption) apply(r *runOptions) {
	r.analyze.ReceiptWindow = o.lines
}

func (o receiptWindowOption) LogAttr() slog.Attr {
	return slog.Int("receipt-window", o.lines)
}

// WithResilienceWindow is an [Option] to configure the number of lines searched for resilience settings before an LLM call.
func WithResilienceWindow(lines int) Option { return resilienceWindowOption{lines: lines} }

type resilienceWindowOption struct{ lines int }

func (o resilienceWindowOption) apply(r *runOptions) {
	r.analyze.ResilienceWindow = o.lines
}

func (o resilienceWindowOption) LogAttr() slog.Attr {
	return slog.Int("resilience-window", o.lines)
}

// WithMaxIterations is an [Option] to bound the data-flow fixed point per function.
func WithMaxIterations(n int) Option { return maxIterationsOption{n: n} }

type maxIterationsOption struct{ n int }

func (o maxIterationsOption) apply(r *runOptions) {
	r.analyze.MaxIterations = o.n
}

func (o maxIterationsOption) LogAttr() slog.Attr {
	return slog.Int("max-iterations", o.n)
}

// WithMaxNodes is an [Option] to bound the control-flow graph size per function.
func WithMaxNodes(n int) Option { return maxNodesOption{n: n} }

type maxNodesOption struct{ n int }

func (o maxNodesOption) apply(r *runOptions) {
	r.analyze.MaxNodes = o.n
}

func (o maxNodesOption) LogAttr() slog.Attr {
	return slog.Int("max-nodes", o.n)
}

// WithConcurrency is an [Option] to bound the number of files analyzed in parallel.
// Non-positive values use GOMAXPROCS.
func WithConcurrency(n int) Option { return concurrencyOption{n: n} }

type concurrencyOption struct{ n int }

func (o concurrencyOption) apply(r *runOptions) {
	r.concurrency = o.n
}

func (o concurrencyOption) LogAttr() slog.Attr {
	return slog.Int("concurrency", o.n)
}

// WithCache is an [Option] to reuse results of unchanged files.
func WithCache(c cache.Cache) Option { return cacheOption{cache: c} }

type cacheOption struct{ cache cache.Cache }

func (o cacheOption) apply(r *runOptions) {
	r.cache = o.cache
}

func (o cacheOption) LogAttr() slog.Attr {
	return slog.Bool("cache", o.cache != nil)
}

// WithLogger is an [Option] to set the logger. The default discards all output.
func WithLogger(logger hclog.Logger) Option { return loggerOption{logger: logger} }

type loggerOption struct{ logger hclog.Logger }

func (o loggerOption) apply(r *runOptions) {
	if o.logger == nil {
		r.analyze.Logger = hclog.NewNullLogger()

		return
	}

	r.analyze.Logger = o.logger
}

func (o loggerOption) LogAttr() slog.Attr {
	name := "<nil>"
	if o.logger != nil {
		name = o.logger.Name()
	}

	return slog.String("logger", name)
}

// WithCatalog is an [Option] to replace the built-in pattern catalog.
func WithCatalog(c *catalog.Catalog) Option { return catalogOption{catalog: c} }

type catalogOption struct{ catalog *catalog.Catalog }

func (o catalogOption) apply(r *runOptions) {
	if o.catalog == nil {
		r.analyze.Catalog = catalog.Default()

		return
	}

	r.analyze.Catalog = o.catalog
}

func (o catalogOption) LogAttr() slog.Attr {
	n := 0
	if o.catalog != nil {
		n = len(o.catalog.All())
	}

	return slog.Int("catalog", n)
}
