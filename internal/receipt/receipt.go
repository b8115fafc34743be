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

// Package receipt validates action receipts.
//
// A receipt records that a tool was invoked, with hashes of its input and
// output, so the action can later be audited.
package receipt

import (
	"fmt"
	"regexp"
	"time"
)

// Statuses of a receipt.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Validation is the outcome of [Validate].
type Validation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

var (
	actionID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	digest   = regexp.MustCompile(`^sha256:[a-f0-9]{64}$`)
)

var timestampLayouts = [...]string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

var required = [...]string{"action_id", "tool_name", "timestamp", "status", "input_hash", "output_hash"}

// Validate checks a decoded receipt against the receipt schema.
func Validate(r map[string]any) Validation {
	var errs []string

	field := func(name string) (string, bool) {
		s, ok := r[name].(string)

		return s, ok && s != ""
	}

	for _, name := range required {
		if _, ok := field(name); !ok {
			errs = append(errs, "Missing "+name)
		}
	}

	if id, ok := field("action_id"); ok && !actionID.MatchString(id) {
		errs = append(errs, "Invalid action_id format")
	}

	if ts, ok := field("timestamp"); ok && !validTimestamp(ts) {
		errs = append(errs, "Invalid timestamp format (must be ISO-8601)")
	}

	if status, ok := field("status"); ok && status != StatusSuccess && status != StatusFailed {
		errs = append(errs, `Invalid status (must be "success" or "failed")`)
	}

	for _, name := range [...]string{"input_hash", "output_hash"} {
		if h, ok := field(name); ok && !digest.MatchString(h) {
			errs = append(errs, fmt.Sprintf("Invalid %s format (must be sha256:...)", name))
		}
	}

	return Validation{Valid: len(errs) == 0, Errors: errs}
}

func validTimestamp(ts string) bool {
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, ts); err == nil {
			return true
		}
	}

	return false
}
