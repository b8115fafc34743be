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

package cache_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "fillmore-labs.com/receiptguard/internal/cache"
	"fillmore-labs.com/receiptguard/internal/report"
)

func sample(path string) *report.Result {
	r := &report.Result{
		Path:     path,
		Language: "javascript",
		Issues: []report.Issue{{
			Rule:     report.MissingReceipt,
			Category: report.CategoryReceipt,
			Severity: report.High,
			Start:    report.Position{Line: 3, Column: 5},
			Message:  "missing receipt",
		}},
		CallSites: []report.CallSite{{Callee: "db.update", RequiresReceipt: true}},
	}
	r.Finish()

	return r
}

func TestKey(t *testing.T) {
	t.Parallel()

	base := NewKey("a.js", []byte("x"), "v1")

	tests := []struct {
		name string
		key  Key
		same bool
	}{
		{"identical", NewKey("a.js", []byte("x"), "v1"), true},
		{"path", NewKey("b.js", []byte("x"), "v1"), false},
		{"content", NewKey("a.js", []byte("y"), "v1"), false},
		{"fingerprint", NewKey("a.js", []byte("x"), "v2"), false},
		{"boundary", NewKey("a.jsx", []byte(""), "v1"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.same, base == tt.key)
		})
	}

	assert.Len(t, base.String(), 64)
}

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewMemory(2)

	k1, k2, k3 := NewKey("1", nil, ""), NewKey("2", nil, ""), NewKey("3", nil, "")

	_, ok, err := c.Get(ctx, k1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, k1, sample("1")))
	require.NoError(t, c.Put(ctx, k2, sample("2")))

	r, ok, err := c.Get(ctx, k1) // k1 is now most recently used
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", r.Path)

	require.NoError(t, c.Put(ctx, k3, sample("3")))

	assert.Equal(t, 2, c.Len())

	_, ok, _ = c.Get(ctx, k2)
	assert.False(t, ok, "least recently used entry should be evicted")

	_, ok, _ = c.Get(ctx, k1)
	assert.True(t, ok)
}

func TestMemoryConcurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewMemory(0)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			path := fmt.Sprintf("f%d.js", i)
			k := NewKey(path, []byte(path), "")

			assert.NoError(t, c.Put(ctx, k, sample(path)))

			r, ok, err := c.Get(ctx, k)
			if assert.NoError(t, err) && assert.True(t, ok) {
				assert.Equal(t, path, r.Path)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 16, c.Len())
}

func TestSQLite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	c, err := OpenSQLite(path, 2)
	require.NoError(t, err)

	k := NewKey("agent.js", []byte("await db.update(x)"), "v1")

	_, ok, err := c.Get(ctx, k)
	require.NoError(t, err)
	assert.False(t, ok)

	want := sample("agent.js")
	require.NoError(t, c.Put(ctx, k, want))
	require.NoError(t, c.Put(ctx, k, want)) // replaces

	require.NoError(t, c.Close())

	c, err = OpenSQLite(path, 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	got, ok, err := c.Get(ctx, k)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, want.Path, got.Path)
	assert.Equal(t, want.Issues, got.Issues)
	assert.Equal(t, want.CallSites, got.CallSites)
	assert.Equal(t, want.Summary.Decision, got.Summary.Decision)
	assert.Equal(t, want.Summary.Counts, got.Summary.Counts)
}
