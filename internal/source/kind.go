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

package source

import (
	"path"
	"strings"
)

// Kind classifies a file by its path.
type Kind uint8

const (
	// Regular is an ordinary source file.
	Regular Kind = iota

	// Test is a test file or lives in a test directory.
	Test

	// Config is a configuration file.
	Config

	// Declaration is a type declaration file.
	Declaration

	// Minified is minified bundle output.
	Minified
)

// String returns a human-readable reason for excluding the file kind.
func (k Kind) String() string {
	switch k {
	case Test:
		return "test file"
	case Config:
		return "configuration file"
	case Declaration:
		return "declaration file"
	case Minified:
		return "minified file"
	default:
		return "source file"
	}
}

// Classify decides the kind of file from its path alone.
func Classify(filePath string) Kind {
	p := strings.ReplaceAll(filePath, `\`, "/")
	base := path.Base(p)

	switch {
	case strings.HasSuffix(base, ".d.ts"), strings.HasSuffix(base, ".d.mts"), strings.HasSuffix(base, ".d.cts"):
		return Declaration

	case strings.Contains(base, ".min."):
		return Minified

	case strings.Contains(base, ".test."), strings.Contains(base, ".spec."),
		strings.HasPrefix(base, "test_") && strings.HasSuffix(base, ".py"),
		strings.HasSuffix(base, "_test.py"), base == "conftest.py",
		strings.Contains("/"+p, "/__tests__/"), strings.Contains("/"+p, "/tests/"), strings.Contains("/"+p, "/test/"):
		return Test

	case strings.Contains(base, ".config."), strings.HasPrefix(base, ".eslintrc"), strings.HasPrefix(base, ".prettierrc"),
		base == "setup.py", base == "noxfile.py":
		return Config

	default:
		return Regular
	}
}
