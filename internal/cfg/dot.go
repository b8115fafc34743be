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
	"strings"
)

// Dot renders the graph in Graphviz format.
func (g *Graph) Dot() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "digraph %q {\n", g.Name)
	sb.WriteString("  node [shape=box];\n")

	reachable := g.Reachable()

	for _, n := range g.Nodes {
		label := n.Kind.String()
		if n.StartLine > 0 {
			label += fmt.Sprintf(" %d-%d", n.StartLine, n.EndLine)
		}

		style := ""
		if !reachable[n.ID] {
			style = ", style=dashed"
		}

		fmt.Fprintf(&sb, "  n%d [label=%q%s];\n", n.ID, label, style)

		for _, s := range n.Succs {
			attr := ""
			if n.Handler == s {
				attr = " [style=dotted]"
			}

			fmt.Fprintf(&sb, "  n%d -> n%d%s;\n", n.ID, s, attr)
		}
	}

	sb.WriteString("}\n")

	return sb.String()
}
