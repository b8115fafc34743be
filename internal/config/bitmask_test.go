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

package config_test

import (
	"testing"

	. "fillmore-labs.com/receiptguard/internal/config"
)

func TestBitMask(t *testing.T) {
	t.Parallel()

	b := NewBitMask(MissingReceipt, SecretExposure)

	if !b.Enabled(MissingReceipt) || !b.Enabled(SecretExposure) {
		t.Fatalf("Expected initial flags to be enabled, got %#x", b.Value())
	}

	b.Set(SecretExposure, false)
	b.Set(UnreachableCode, true)

	if b.Enabled(SecretExposure) {
		t.Error("Expected SecretExposure to be disabled")
	}

	if got, want := b.Count(), 2; got != want {
		t.Errorf("Got %d enabled flags, expected %d", got, want)
	}
}

func TestRuleByID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want Rules
		ok   bool
	}{
		{"FK001", MissingReceipt, true},
		{"FK007", HardcodedCredential, true},
		{"FK011", DiscardedResult, true},
		{"FK000", 0, false},
		{"fk001", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()

			got, ok := RuleByID(tt.id)
			if got != tt.want || ok != tt.ok {
				t.Errorf("RuleByID(%q) = %v, %t, expected %v, %t", tt.id, got, ok, tt.want, tt.ok)
			}
		})
	}
}
