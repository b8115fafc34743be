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

// Package cache stores analysis results keyed by file content.
//
// A cache is passed into the analyzer explicitly; the package keeps no global state.
package cache

import (
	"context"
	"encoding/hex"

	"github.com/zeebo/blake3"

	"fillmore-labs.com/receiptguard/internal/report"
)

// Cache is a concurrency-safe store of per-file results.
//
// Results returned by Get are shared and must not be modified.
type Cache interface {
	Get(ctx context.Context, key Key) (*report.Result, bool, error)
	Put(ctx context.Context, key Key, r *report.Result) error
}

// Key identifies a file's content analyzed under specific options.
type Key [32]byte

// NewKey hashes path, content and an options fingerprint.
func NewKey(path string, src []byte, fingerprint string) Key {
	h := blake3.New()

	for _, part := range [][]byte{[]byte(path), src, []byte(fingerprint)} {
		_, _ = h.Write(part)
		_, _ = h.Write([]byte{0})
	}

	var k Key
	copy(k[:], h.Sum(nil))

	return k
}

func (k Key) String() string { return hex.EncodeToString(k[:]) }
