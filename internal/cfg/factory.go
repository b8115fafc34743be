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

// factory creates [Node]s in a [slab list] and indexes them by ID.
//
// [slab list]: https://en.wikipedia.org/wiki/Slab_allocation
type factory struct {
	current *chunk
	count   int
	nodes   []*Node
	limit   int
}

// chunk is a fixed-size array of Nodes.
type chunk struct {
	nodes [chunkSize]Node
}

// chunkSize defines the number of Nodes stored in a single chunk.
const chunkSize = 127

// New creates a node of the given kind. It bails out with [ErrTooLarge] when the node limit is reached.
func (f *factory) New(kind Kind) *Node {
	if f.limit > 0 && len(f.nodes) >= f.limit {
		panic(bailout{ErrTooLarge})
	}

	if f.current == nil || f.count == chunkSize {
		f.current = new(chunk)
		f.count = 0
	}

	f.count++

	n := &f.current.nodes[f.count-1]
	*n = Node{
		ID:       NodeID(len(f.nodes)),
		Kind:     kind,
		Handler:  NoNode,
		Catch:    NoNode,
		Finally:  NoNode,
		LoopHead: NoNode,
		LoopExit: NoNode,
	}
	f.nodes = append(f.nodes, n)

	return n
}

// Node returns the node with the given ID, or nil.
func (f *factory) Node(id NodeID) *Node {
	if id == NoNode {
		return nil
	}

	return f.nodes[id]
}

// All returns all nodes in creation order.
func (f *factory) All() []*Node {
	return f.nodes
}
