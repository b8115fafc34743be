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

package analyzer_test

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"

	. "fillmore-labs.com/receiptguard/analyzer"
	"fillmore-labs.com/receiptguard/internal/config"
)

func TestFlagValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		initial config.Rules
		args    []string
		want    bool
	}{
		{
			name:    "Enable",
			initial: config.MissingErrorHandling,
			args:    []string{"--fk001"},
			want:    true,
		},
		{
			name:    "Disable",
			initial: config.MissingReceipt,
			args:    []string{"--fk001=false"},
			want:    false,
		},
		{
			name:    "Unchanged",
			initial: config.MissingReceipt,
			args:    nil,
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags := config.NewBitMask(tt.initial)

			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

			const value = config.MissingReceipt
			fv := NewRuleValue(&flags, value)
			fs.Var(fv, "fk001", "enable FK001 checks")
			fs.Lookup("fk001").NoOptDefVal = "true"

			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			if fv.Get() != tt.want {
				t.Errorf("Flag get = %v, want %v", fv.Get(), tt.want)
			}

			if flags.Enabled(value) != tt.want {
				t.Errorf("MissingReceipt enabled = %v, want %v", flags.Enabled(value), tt.want)
			}
		})
	}
}

func TestFlagValueInvalid(t *testing.T) {
	t.Parallel()

	var flags config.BitMask[config.Rules]

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(&strings.Builder{})
	fs.Var(NewRuleValue(&flags, config.MissingReceipt), "fk001", "enable FK001 checks")

	if err := fs.Parse([]string{"--fk001=maybe"}); err == nil {
		t.Error("Parse succeeded, want error")
	}
}

func TestUsage(t *testing.T) {
	t.Parallel()

	flags := config.NewBitMask(config.MissingReceipt)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Var(NewRuleValue(&flags, config.MissingReceipt), "fk001", "enable FK001 checks")

	if got, want := fs.FlagUsages(), "enable FK001 checks (default true)"; !strings.Contains(got, want) {
		t.Errorf("FlagUsages() = %q, want %q", got, want)
	}
}

func TestRegisterFlags(t *testing.T) {
	t.Parallel()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	options := RegisterFlags(fs)

	if err := fs.Parse([]string{"--fk005=false", "--strict", "--receipt-window", "5"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	opts := options()

	if got, want := len(opts), 3; got != want {
		t.Fatalf("Got %d options, want %d", got, want)
	}

	got := opts.LogAttr().Value.Resolve().String()
	for _, want := range []string{"FK005=false", "strict=true", "receipt-window=5"} {
		if !strings.Contains(got, want) {
			t.Errorf("Options %s missing %s", got, want)
		}
	}
}
