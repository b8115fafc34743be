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

package catalog

import (
	"regexp"
	"strings"
)

// Markers is a list of expressions whose presence signals an idiom, like a retry wrapper.
type Markers []*regexp.Regexp

func markers(res ...string) Markers {
	m := make(Markers, 0, len(res))
	for _, re := range res {
		m = append(m, regexp.MustCompile(re))
	}

	return m
}

// Match reports whether any marker matches s.
func (m Markers) Match(s string) bool {
	for _, re := range m {
		if re.MatchString(s) {
			return true
		}
	}

	return false
}

// Overlaps reports whether any marker match in s intersects the byte range [start, end).
func (m Markers) Overlaps(s string, start, end int) bool {
	for _, re := range m {
		for _, loc := range re.FindAllStringIndex(s, -1) {
			if loc[0] < end && start < loc[1] {
				return true
			}
		}
	}

	return false
}

// Normalize removes layout from call text so patterns see "a.b.c(" regardless of
// line breaks, optional chaining or spacing around member accesses.
func Normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	pendingSpace := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case ' ', '\t', '\n', '\r':
			pendingSpace = true
			continue

		case '?':
			if i+1 < len(s) && s[i+1] == '.' {
				continue // optional chaining
			}

		case '.', '(', ')', ',':
			pendingSpace = false
		}

		if pendingSpace {
			if last := lastByte(&sb); last != 0 && last != '.' && last != '(' && last != ',' {
				sb.WriteByte(' ')
			}

			pendingSpace = false
		}

		sb.WriteByte(c)
	}

	return sb.String()
}

func lastByte(sb *strings.Builder) byte {
	s := sb.String()
	if s == "" {
		return 0
	}

	return s[len(s)-1]
}
