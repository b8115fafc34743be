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

package settings_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "fillmore-labs.com/receiptguard/internal/settings"
)

const allSettings = `
rules:
  FK005: false
tests: true
config-files: false
strict: true
receipt-window: 10
resilience-window: 5
max-iterations: 1000
max-nodes: 500
concurrency: 4
cache: .receiptguard/cache.db
logger:
  level: debug
  json: true
server:
  addr: ":9090"
`

func TestSettings(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		name     string
		settings string
		want     int
	}{
		{"all", allSettings, reflect.TypeFor[Analysis]().NumField()},
		{"rules", "rules: {fk001: false, FK002: true}", 2},
		{"none", `{}`, 0},
		{"empty", ``, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, err := Decode(strings.NewReader(tc.settings))
			require.NoError(t, err)

			got := s.Options()
			assert.Len(t, got, tc.want, "options: %s", got.LogValue())
		})
	}
}

func TestSettingsFields(t *testing.T) {
	t.Parallel()

	s, err := Decode(strings.NewReader(allSettings))
	require.NoError(t, err)

	require.NotNil(t, s.Cache)
	assert.Equal(t, ".receiptguard/cache.db", *s.Cache)
	assert.Equal(t, "debug", s.Logger.Level)
	assert.True(t, s.Logger.JSON)
	require.NotNil(t, s.Server.Addr)
	assert.Equal(t, ":9090", *s.Server.Addr)
}

func TestSettingsInvalid(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		name     string
		settings string
		err      error
	}{
		{"unknown field", "colour: red", nil},
		{"unknown rule", "rules: {FK999: true}", ErrUnknownRule},
		{"wrong type", "receipt-window: many", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(strings.NewReader(tc.settings))
			require.Error(t, err)

			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("strict: true\n"), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, s.Strict)
	assert.True(t, *s.Strict)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
