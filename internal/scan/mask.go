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

package scan

// CommentStyle selects the comment syntax for [MaskComments].
type CommentStyle uint8

const (
	// SlashComments are // line and /* block */ comments.
	SlashComments CommentStyle = iota

	// HashComments are # line comments.
	HashComments
)

type maskState uint8

const (
	inCode maskState = iota
	inLineComment
	inBlockComment
	inString
)

// MaskComments returns a copy of src with comment text replaced by spaces.
// Line breaks and string literals are kept, so offsets and lines stay valid.
func MaskComments(src []byte, style CommentStyle) []byte {
	out := make([]byte, len(src))
	copy(out, src)

	state := inCode

	var quote byte

	triple := false

	for i := 0; i < len(out); i++ {
		c := out[i]

		switch state {
		case inCode:
			switch {
			case c == '"' || c == '\'' || c == '`':
				quote, state = c, inString
				triple = style == HashComments && c != '`' && i+2 < len(out) && out[i+1] == c && out[i+2] == c
				if triple {
					i += 2
				}

			case style == HashComments && c == '#':
				state = inLineComment
				out[i] = ' '

			case style == SlashComments && c == '/' && i+1 < len(out) && out[i+1] == '/':
				state = inLineComment
				out[i], out[i+1] = ' ', ' '
				i++

			case style == SlashComments && c == '/' && i+1 < len(out) && out[i+1] == '*':
				state = inBlockComment
				out[i], out[i+1] = ' ', ' '
				i++
			}

		case inLineComment:
			if c == '\n' {
				state = inCode
			} else {
				out[i] = ' '
			}

		case inBlockComment:
			if c == '*' && i+1 < len(out) && out[i+1] == '/' {
				out[i], out[i+1] = ' ', ' '
				i++
				state = inCode
			} else if c != '\n' {
				out[i] = ' '
			}

		case inString:
			switch {
			case c == '\\':
				i++

			case c == '\n' && quote != '`' && !triple:
				state = inCode // unterminated literal

			case c == quote && !triple:
				state = inCode

			case c == quote && i+2 < len(out) && out[i+1] == quote && out[i+2] == quote:
				i += 2
				state = inCode
			}
		}
	}

	return out
}
