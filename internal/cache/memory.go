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

package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"fillmore-labs.com/receiptguard/internal/report"
)

// DefaultSize is the number of results kept by [NewMemory] when no size is given.
const DefaultSize = 4096

// Memory is a bounded in-process cache evicting the least recently used result.
type Memory struct {
	entries *lru.Cache[Key, *report.Result]
}

var _ Cache = (*Memory)(nil)

// NewMemory creates a cache holding at most size results.
func NewMemory(size int) *Memory {
	if size <= 0 {
		size = DefaultSize
	}

	entries, err := lru.New[Key, *report.Result](size)
	if err != nil { // only for non-positive sizes
		panic(err)
	}

	return &Memory{entries: entries}
}

func (m *Memory) Get(_ context.Context, key Key) (*report.Result, bool, error) {
	r, ok := m.entries.Get(key)

	return r, ok, nil
}

func (m *Memory) Put(_ context.Context, key Key, r *report.Result) error {
	m.entries.Add(key, r)

	return nil
}

// Len returns the number of cached results.
func (m *Memory) Len() int { return m.entries.Len() }
