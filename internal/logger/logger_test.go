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

package logger_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	. "fillmore-labs.com/receiptguard/internal/logger"
	"fillmore-labs.com/receiptguard/internal/settings"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		cfg   settings.Logger
		env   string
		debug bool
		info  bool
	}{
		{name: "default", info: false},
		{name: "config", cfg: settings.Logger{Level: "debug"}, debug: true, info: true},
		{name: "env overrides", cfg: settings.Logger{Level: "debug"}, env: "error"},
		{name: "env", env: "INFO", info: true},
		{name: "invalid", cfg: settings.Logger{Level: "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(LevelEnv, tt.env)

			var out strings.Builder
			l := New(tt.cfg, "test", &out)

			assert.Equal(t, tt.debug, l.IsDebug())
			assert.Equal(t, tt.info, l.IsInfo())
		})
	}
}

func TestJSON(t *testing.T) {
	t.Setenv(LevelEnv, "")

	var out strings.Builder
	l := New(settings.Logger{Level: "info", JSON: true}, "test", &out)

	l.Info("analyzed", "files", 3)

	assert.Contains(t, out.String(), `"files":3`)
	assert.Contains(t, out.String(), `"@module":"test"`)
}
