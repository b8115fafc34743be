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

// Package export renders analysis results as text, JSON or SARIF.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"fillmore-labs.com/receiptguard/internal/report"
)

// Format selects an output encoding.
type Format string

const (
	Text  Format = "text"
	JSON  Format = "json"
	SARIF Format = "sarif"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Text, JSON, SARIF:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or sarif)", s)
	}
}

// Document is the JSON encoding of a multi-file run.
type Document struct {
	Results []*report.Result `json:"results"`
	Summary report.Summary   `json:"summary"`
}

// Write renders results in the given format.
func Write(w io.Writer, f Format, results []*report.Result, o Options) error {
	switch f {
	case JSON:
		return WriteJSON(w, results)

	case SARIF:
		return WriteSARIF(w, results, o.Version)

	default:
		return WriteText(w, results, o)
	}
}

// WriteJSON writes results with their merged summary.
func WriteJSON(w io.Writer, results []*report.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(Document{Results: results, Summary: report.Merge(results...)})
}
