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

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"fillmore-labs.com/receiptguard/analyzer"
	"fillmore-labs.com/receiptguard/internal/export"
	"fillmore-labs.com/receiptguard/internal/receipt"
	"fillmore-labs.com/receiptguard/internal/report"
)

type analyzeRequest struct {
	Source string `json:"source"`
	Path   string `json:"path"`
}

type batchRequest struct {
	Files []analyzeRequest `json:"files"`
}

type ruleInfo struct {
	ID       report.Rule     `json:"id"`
	Title    string          `json:"title"`
	Category report.Category `json:"category"`
	Severity report.Severity `json:"severity"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.Path == "" {
		req.Path = "input.js"
	}

	res, err := s.analyzer.Analyze(r.Context(), []byte(req.Source), req.Path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)

		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !s.decode(w, r, &req) {
		return
	}

	inputs := make([]analyzer.Input, 0, len(req.Files))
	for _, f := range req.Files {
		if f.Path == "" {
			http.Error(w, "missing path", http.StatusBadRequest)

			return
		}

		inputs = append(inputs, analyzer.Input{Path: f.Path, Src: []byte(f.Source)})
	}

	results, err := s.analyzer.AnalyzeFiles(r.Context(), inputs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)

		return
	}

	writeJSON(w, http.StatusOK, export.Document{Results: results, Summary: report.Merge(results...)})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if !s.decode(w, r, &req) {
		return
	}

	writeJSON(w, http.StatusOK, receipt.Validate(req))
}

func (s *Server) handleRules(w http.ResponseWriter, _ *http.Request) {
	rules := make([]ruleInfo, 0, len(report.Rules))
	for _, rule := range report.Rules {
		rules = append(rules, ruleInfo{
			ID:       rule,
			Title:    rule.Title(),
			Category: rule.Category(),
			Severity: rule.DefaultSeverity(),
		})
	}

	writeJSON(w, http.StatusOK, rules)
}

// decode reads a JSON body, answering the request on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err := dec.Decode(v); err != nil {
		status := http.StatusBadRequest

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}

		http.Error(w, "invalid request body: "+err.Error(), status)

		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
