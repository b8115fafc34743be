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

package analyze

import (
	"fmt"

	"fillmore-labs.com/receiptguard/internal/catalog"
	"fillmore-labs.com/receiptguard/internal/report"
)

// secrets matches secret patterns against the source with comments masked.
// Matches inside an environment access and placeholder values are skipped.
// A hardcoded credential is not reported on a line that already exposes a provider secret.
func (f *file) secrets() {
	exposed := make(map[int]struct{})

	for _, p := range f.Catalog.Secrets {
		rule := report.SecretExposure
		if p.Credential {
			rule = report.HardcodedCredential
		}

		if !f.Enabled(rule) {
			continue
		}

		for _, loc := range p.Re.FindAllStringIndex(f.masked, -1) {
			line := f.src.Line(loc[0])

			if f.Catalog.Placeholder.Match(f.text[loc[0]:loc[1]]) {
				continue
			}

			start := f.src.LineStart(line)
			if f.Catalog.EnvReference.Overlaps(f.src.LineText(line), loc[0]-start, loc[1]-start) {
				continue
			}

			if _, ok := exposed[line]; ok && p.Credential {
				continue
			}

			i, ok := f.newIssue(rule, catalog.Secret, f.src.Position(loc[0]), f.src.Position(loc[1]), p.Name,
				fmt.Sprintf("%s in source", p.Description))
			if !ok {
				continue
			}

			i.Severity = p.Severity
			f.result.Issues = append(f.result.Issues, i)

			if !p.Credential {
				exposed[line] = struct{}{}
			}
		}
	}
}
