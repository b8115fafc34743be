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

package scope

// Kind is the syntactic construct that opened a scope.
type Kind uint8

//go:generate go tool stringer -type Kind -linecomment
const (
	Module   Kind = iota // module
	Function             // function
	Class                // class
	Block                // block
	If                   // if
	Loop                 // loop
	Try                  // try
	Catch                // catch
	Finally              // finally
	Switch               // switch
)

// Boundary reports whether the scope kind delimits an activation.
// Exception protection never crosses a boundary.
func (k Kind) Boundary() bool {
	switch k {
	case Module, Function, Class:
		return true

	default:
		return false
	}
}
