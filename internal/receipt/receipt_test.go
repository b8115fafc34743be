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

package receipt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	. "fillmore-labs.com/receiptguard/internal/receipt"
)

var hash = "sha256:" + strings.Repeat("ab", 32)

func valid() map[string]any {
	return map[string]any{
		"action_id":   "act_1234",
		"tool_name":   "stripe",
		"timestamp":   "2026-01-02T03:04:05Z",
		"status":      "success",
		"input_hash":  hash,
		"output_hash": hash,
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(map[string]any)
		errors []string
	}{
		{"valid", func(map[string]any) {}, nil},
		{"naive timestamp", func(r map[string]any) { r["timestamp"] = "2026-01-02T03:04:05.123" }, nil},
		{"missing", func(r map[string]any) { delete(r, "tool_name") }, []string{"Missing tool_name"}},
		{"empty", func(r map[string]any) { r["status"] = "" }, []string{"Missing status"}},
		{"wrong type", func(r map[string]any) { r["action_id"] = 42 }, []string{"Missing action_id"}},
		{"action id", func(r map[string]any) { r["action_id"] = "act 1" }, []string{"Invalid action_id format"}},
		{"timestamp", func(r map[string]any) { r["timestamp"] = "yesterday" }, []string{"Invalid timestamp format (must be ISO-8601)"}},
		{"status", func(r map[string]any) { r["status"] = "ok" }, []string{`Invalid status (must be "success" or "failed")`}},
		{"hash", func(r map[string]any) { r["output_hash"] = "md5:abc" }, []string{"Invalid output_hash format (must be sha256:...)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := valid()
			tt.modify(r)

			got := Validate(r)

			assert.Equal(t, tt.errors == nil, got.Valid)
			assert.Equal(t, tt.errors, got.Errors)
		})
	}
}
