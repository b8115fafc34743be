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

// Package logger creates the diagnostic logger of the receiptguard commands.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"fillmore-labs.com/receiptguard/internal/settings"
)

// LevelEnv overrides the configured log level.
const LevelEnv = "RECEIPTGUARD_LOG_LEVEL"

// New creates a [hclog.Logger] based on the logger settings and the provided name.
// Output goes to w, or standard error when w is nil.
func New(cfg settings.Logger, name string, w io.Writer) hclog.Logger {
	if w == nil {
		w = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:            name,
		Level:           determineLevel(cfg, w),
		Output:          w,
		JSONFormat:      cfg.JSON,
		IncludeLocation: cfg.IncludeLocation,
		DisableTime:     !cfg.JSON,
	})
}

// determineLevel returns the level from the environment, then the configuration.
// It defaults to WARN.
func determineLevel(cfg settings.Logger, w io.Writer) hclog.Level {
	level := cfg.Level
	if env := os.Getenv(LevelEnv); env != "" {
		level = env
	}

	if level == "" {
		return hclog.Warn
	}

	l := hclog.LevelFromString(strings.TrimSpace(level))
	if l == hclog.NoLevel {
		hclog.New(&hclog.LoggerOptions{
			Level:       hclog.Warn,
			DisableTime: true,
			Output:      w,
		}).Warn("unrecognized log level, defaulting to WARN", "level", level)

		return hclog.Warn
	}

	return l
}
