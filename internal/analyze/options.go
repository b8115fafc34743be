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
	"github.com/hashicorp/go-hclog"

	"fillmore-labs.com/receiptguard/internal/catalog"
	"fillmore-labs.com/receiptguard/internal/config"
	"fillmore-labs.com/receiptguard/internal/report"
)

// Default window sizes in lines.
const (
	DefaultReceiptWindow    = 15
	DefaultResilienceWindow = 10
)

// Options represent configuration options for the receiptguard analysis.
type Options struct {
	// Rules determines which checks are enabled. FK000 is always reported.
	Rules config.BitMask[config.Rules]

	// Behavior holds file selection and receipt matching options.
	Behavior config.BitMask[config.Behavior]

	// ReceiptWindow is the number of lines after a call searched for a receipt when
	// data flow cannot link one, and for provenance fields.
	ReceiptWindow int

	// ResilienceWindow is the number of lines before an LLM call searched for timeout or retry configuration.
	ResilienceWindow int

	// MaxIterations bounds the data-flow fixed point, MaxNodes the graph size per function.
	MaxIterations, MaxNodes int

	Catalog *catalog.Catalog
	Logger  hclog.Logger
}

// DefaultOptions initializes and returns a new Options instance with default values.
func DefaultOptions() *Options {
	return &Options{
		Rules:            config.NewBitMask(config.AllRules),
		ReceiptWindow:    DefaultReceiptWindow,
		ResilienceWindow: DefaultResilienceWindow,
		Catalog:          catalog.Default(),
		Logger:           hclog.NewNullLogger(),
	}
}

// Enabled reports whether a rule is switched on.
func (o *Options) Enabled(rule report.Rule) bool {
	if rule == report.AnalysisIncomplete {
		return true
	}

	flag, ok := config.RuleByID(string(rule))

	return ok && o.Rules.Enabled(flag)
}

// Strict reports whether receipts must be linked to call results by data flow.
func (o *Options) Strict() bool {
	return o.Behavior.Enabled(config.StrictDataFlow)
}
