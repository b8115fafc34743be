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
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"fillmore-labs.com/receiptguard/internal/analyze"
	"fillmore-labs.com/receiptguard/internal/cache"
	"fillmore-labs.com/receiptguard/internal/report"
)

// Analyzer runs receiptguard over source files.
type Analyzer struct {
	opts        *analyze.Options
	cache       cache.Cache
	concurrency int
	fingerprint string
	logger      hclog.Logger
}

// Input is a file to analyze.
type Input struct {
	Path string
	Src  []byte
}

// New creates an [Analyzer] configured by opts.
func New(opts ...Option) *Analyzer {
	r := makeRunOptions(opts)

	a := &Analyzer{
		opts:        r.analyze,
		cache:       r.cache,
		concurrency: r.concurrency,
		fingerprint: r.fingerprint(),
		logger:      r.analyze.Logger,
	}

	if a.logger.IsDebug() {
		a.logger.Debug("analyzer configured", "options", Options(opts).LogAttr().Value.Resolve().String())
	}

	return a
}

// Analyze analyzes a single file.
//
// Findings never produce an error; errors are limited to cancellation.
func (a *Analyzer) Analyze(ctx context.Context, src []byte, path string) (*report.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if a.cache == nil {
		return a.opts.Run(ctx, path, src), nil
	}

	key := cache.NewKey(path, src, a.fingerprint)

	r, ok, err := a.cache.Get(ctx, key)
	switch {
	case err != nil:
		a.logger.Warn("cache lookup failed", "path", path, "error", err)

	case ok:
		a.logger.Trace("cache hit", "path", path, "key", key)

		return r, nil
	}

	r = a.opts.Run(ctx, path, src)

	if err := a.cache.Put(ctx, key, r); err != nil {
		a.logger.Warn("cache store failed", "path", path, "error", err)
	}

	return r, nil
}

// AnalyzeFiles analyzes files concurrently. Results are returned in input order.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, inputs []Input) ([]*report.Result, error) {
	results := make([]*report.Result, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, in := range inputs {
		g.Go(func() error {
			r, err := a.Analyze(ctx, in.Src, in.Path)
			if err != nil {
				return fmt.Errorf("analyze %s: %w", in.Path, err)
			}

			results[i] = r

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
