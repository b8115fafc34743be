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
	"strings"

	"github.com/spf13/pflag"

	"fillmore-labs.com/receiptguard/internal/analyze"
	"fillmore-labs.com/receiptguard/internal/config"
)

type ruleValue = boolValue[config.Rules, *config.BitMask[config.Rules]]

// RegisterFlags binds analyzer options to command line flags.
//
// The returned function yields options for the flags given explicitly on the
// command line, so they can be appended to options from a configuration file.
func RegisterFlags(flags *pflag.FlagSet) func() Options {
	d := analyze.DefaultOptions()

	rules := d.Rules
	names := make(map[string]config.Rules)

	for r := config.MissingReceipt; r <= config.DiscardedResult; r <<= 1 {
		name := strings.ToLower(r.String())
		names[name] = r

		flags.Var(ruleValue{flags: &rules, value: r}, name, "enable "+r.String()+" checks")
		flags.Lookup(name).NoOptDefVal = "true"
	}

	tests := flags.Bool("tests", false, "analyze test files")
	configFiles := flags.Bool("config-files", false, "analyze configuration and declaration files")
	strict := flags.Bool("strict", false, "require a data-flow link between a call result and its receipt")
	receiptWindow := flags.Int("receipt-window", d.ReceiptWindow, "lines after a call searched for a receipt")
	resilienceWindow := flags.Int("resilience-window", d.ResilienceWindow, "lines before an LLM call searched for timeout or retry settings")
	maxIterations := flags.Int("max-iterations", 0, "data-flow iteration bound per function (0 for the default)")
	maxNodes := flags.Int("max-nodes", 0, "control-flow graph size bound per function (0 for the default)")
	concurrency := flags.IntP("concurrency", "j", 0, "files analyzed in parallel (0 for GOMAXPROCS)")

	return func() Options {
		var opts Options

		flags.Visit(func(f *pflag.Flag) {
			if r, ok := names[f.Name]; ok {
				opts = append(opts, WithRule(r, rules.Enabled(r)))

				return
			}

			switch f.Name {
			case "tests":
				opts = append(opts, WithTests(*tests))
			case "config-files":
				opts = append(opts, WithConfigFiles(*configFiles))
			case "strict":
				opts = append(opts, WithStrictDataFlow(*strict))
			case "receipt-window":
				opts = append(opts, WithReceiptWindow(*receiptWindow))
			case "resilience-window":
				opts = append(opts, WithResilienceWindow(*resilienceWindow))
			case "max-iterations":
				opts = append(opts, WithMaxIterations(*maxIterations))
			case "max-nodes":
				opts = append(opts, WithMaxNodes(*maxNodes))
			case "concurrency":
				opts = append(opts, WithConcurrency(*concurrency))
			}
		})

		return opts
	}
}
