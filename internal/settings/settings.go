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

// Package settings reads the receiptguard configuration file.
package settings

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"fillmore-labs.com/receiptguard/analyzer"
	"fillmore-labs.com/receiptguard/internal/config"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".receiptguard.yaml"

// ErrUnknownRule is returned for a rule identifier that does not exist.
var ErrUnknownRule = errors.New("unknown rule")

// Settings represents the contents of a configuration file.
// Only values present in the file override defaults.
type Settings struct {
	Analysis `yaml:",inline"`

	// Cache is the path of a persistent result cache.
	Cache *string `yaml:"cache"`

	Logger Logger `yaml:"logger"`
	Server Server `yaml:"server"`
}

// Analysis holds the settings that become [analyzer.Option] values.
type Analysis struct {
	// Rules switches individual rules, keyed by identifier ("FK001").
	Rules map[string]bool `yaml:"rules"`
	// Tests enables analysis of test files.
	Tests *bool `yaml:"tests"`
	// ConfigFiles enables analysis of configuration and declaration files.
	ConfigFiles *bool `yaml:"config-files"`
	// Strict requires a data-flow link between a call result and its receipt.
	Strict *bool `yaml:"strict"`
	// ReceiptWindow sets the number of lines searched for a receipt after a call.
	ReceiptWindow *int `yaml:"receipt-window"`
	// ResilienceWindow sets the number of lines searched for resilience settings before an LLM call.
	ResilienceWindow *int `yaml:"resilience-window"`
	// MaxIterations bounds the data-flow fixed point per function.
	MaxIterations *int `yaml:"max-iterations"`
	// MaxNodes bounds the control-flow graph per function.
	MaxNodes *int `yaml:"max-nodes"`
	// Concurrency bounds the number of files analyzed in parallel.
	Concurrency *int `yaml:"concurrency"`
}

// Logger configures diagnostic output.
type Logger struct {
	Level           string `yaml:"level"`
	JSON            bool   `yaml:"json"`
	IncludeLocation bool   `yaml:"include-location"`
}

// Server configures the HTTP service.
type Server struct {
	Addr *string `yaml:"addr"`
}

// Load reads settings from path. An empty file yields zero settings.
func Load(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Decode reads settings from r, rejecting unknown fields and rule identifiers.
func Decode(r io.Reader) (*Settings, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Settings
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	for id := range s.Rules {
		if _, ok := config.RuleByID(strings.ToUpper(id)); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRule, id)
		}
	}

	return &s, nil
}

// Options converts [Analysis] into a list of [analyzer.Option].
// It processes settings and applies them only when explicitly set (non-nil).
func (s Analysis) Options() analyzer.Options {
	var opts analyzer.Options

	ids := make([]string, 0, len(s.Rules))
	for id := range s.Rules {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		if rule, ok := config.RuleByID(strings.ToUpper(id)); ok {
			opts = append(opts, analyzer.WithRule(rule, s.Rules[id]))
		}
	}

	opts = appendOption(opts, s.Tests, analyzer.WithTests)
	opts = appendOption(opts, s.ConfigFiles, analyzer.WithConfigFiles)
	opts = appendOption(opts, s.Strict, analyzer.WithStrictDataFlow)
	opts = appendOption(opts, s.ReceiptWindow, analyzer.WithReceiptWindow)
	opts = appendOption(opts, s.ResilienceWindow, analyzer.WithResilienceWindow)
	opts = appendOption(opts, s.MaxIterations, analyzer.WithMaxIterations)
	opts = appendOption(opts, s.MaxNodes, analyzer.WithMaxNodes)
	opts = appendOption(opts, s.Concurrency, analyzer.WithConcurrency)

	return opts
}

// appendOption appends a non-nil setting to an [analyzer.Option] list.
func appendOption[T any](opts analyzer.Options, value *T, constructor func(T) analyzer.Option) analyzer.Options {
	if value == nil {
		return opts
	}

	return append(opts, constructor(*value))
}
