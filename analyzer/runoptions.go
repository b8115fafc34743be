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
	"fmt"
	"runtime"
	"strings"

	"fillmore-labs.com/receiptguard/internal/analyze"
	"fillmore-labs.com/receiptguard/internal/cache"
)

// resultFormat changes whenever cached results would no longer match fresh ones.
const resultFormat = "1"

// runOptions represent configuration options for the receiptguard analyzer.
type runOptions struct {
	// analyze holds the per-file analysis options.
	analyze *analyze.Options

	// cache stores results by content; nil disables caching.
	cache cache.Cache

	// concurrency bounds the number of files analyzed in parallel.
	concurrency int
}

// makeRunOptions returns a [runOptions] struct with overriding [Options] applied.
func makeRunOptions(opts Options) *runOptions {
	r := defaultRunOptions()
	opts.apply(r)

	if r.concurrency <= 0 {
		r.concurrency = runtime.GOMAXPROCS(0)
	}

	return r
}

// defaultRunOptions initializes and returns a new runOptions instance with default values.
func defaultRunOptions() *runOptions {
	return &runOptions{
		analyze:     analyze.DefaultOptions(),
		concurrency: runtime.GOMAXPROCS(0),
	}
}

// fingerprint describes every option that influences a file's result.
func (r *runOptions) fingerprint() string {
	o := r.analyze

	var b strings.Builder
	fmt.Fprintf(&b, "%s|%d|%d|%d|%d|%d|%d", resultFormat,
		o.Rules.Value(), o.Behavior.Value(), o.ReceiptWindow, o.ResilienceWindow, o.MaxIterations, o.MaxNodes)

	for _, p := range o.Catalog.All() {
		b.WriteByte('|')
		b.WriteString(p.ID())
	}

	return b.String()
}
