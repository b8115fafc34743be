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

// Package analyzer is the programmatic entry point of receiptguard.
//
// # Overview
//
// receiptguard reports tool, LLM and agent calls in JavaScript, TypeScript and
// Python code that leave no verifiable receipt, are not covered by error
// handling, or lack resilience, provenance or confirmation guards. It also
// flags hardcoded secrets, unreachable statements and discarded tool results.
//
// # Example
//
//	a := analyzer.New(analyzer.WithStrictDataFlow(true), analyzer.WithCache(cache.NewMemory(0)))
//
//	results, err := a.AnalyzeFiles(ctx, inputs)
//	if err != nil {
//	    return err
//	}
//
//	summary := report.Merge(results...)
//
// # Concurrency
//
// An [Analyzer] is safe for concurrent use. [Analyzer.AnalyzeFiles] analyzes
// files in parallel, bounded by [WithConcurrency], and returns results in input
// order. The only state shared between files is the optional [cache.Cache].
package analyzer
