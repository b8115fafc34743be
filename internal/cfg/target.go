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

package cfg

import (
	"fmt"

	"fillmore-labs.com/receiptguard/internal/syntax"
)

// branchTargetScopes maintains the current branch targets representing nested
// control structures (loops and switches).
type branchTargetScopes struct {
	currentBreak *Node

	currentContinue *Node
}

func (s *branchTargetScopes) branchTarget(tok syntax.BranchToken) *Node {
	switch tok {
	case syntax.Break:
		return s.currentBreak

	case syntax.Continue:
		return s.currentContinue

	default:
		panic(fmt.Sprintf("unexpected branch token: %d", tok))
	}
}

// pushBreak sets the current "break" branch target scope, returning the old.
func (s *branchTargetScopes) pushBreak(b *Node) (old *Node) {
	old, s.currentBreak = s.currentBreak, b
	return old
}

// popBreak restores the previous "break" branch target scope.
func (s *branchTargetScopes) popBreak(old *Node) {
	s.currentBreak = old
}

// pushContinue sets the current "continue" branch target scope, returning the old.
func (s *branchTargetScopes) pushContinue(c *Node) (old *Node) {
	old, s.currentContinue = s.currentContinue, c
	return old
}

// popContinue restores the previous "continue" branch target scope.
func (s *branchTargetScopes) popContinue(old *Node) {
	s.currentContinue = old
}

// LabelTarget represents the control flow targets for a labeled statement.
type LabelTarget struct {
	breakTarget    *Node // Where to jump on 'break label'
	continueTarget *Node // Where to jump on 'continue label'
}

// SetBreak sets the break target node for the labeled statement.
func (l *LabelTarget) SetBreak(b *Node) {
	l.breakTarget = b
}

// SetContinue sets the continue target node for the labeled statement.
func (l *LabelTarget) SetContinue(c *Node) {
	l.continueTarget = c
}

// BranchTarget returns the node that a branch statement should
// jump to based on the branch token type.
func (l *LabelTarget) BranchTarget(tok syntax.BranchToken) *Node {
	switch tok {
	case syntax.Break:
		return l.breakTarget

	case syntax.Continue:
		return l.continueTarget

	default:
		panic(fmt.Sprintf("unexpected labeled branch token: %d", tok))
	}
}

// tryContext is an active try statement during construction.
type tryContext struct {
	catch, finally *Node

	// abrupt is set when a return or uncaught exception is routed into finally.
	abrupt bool
}
