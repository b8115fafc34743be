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

package export

import (
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"fillmore-labs.com/receiptguard/internal/report"
)

const informationURI = "https://pkg.go.dev/fillmore-labs.com/receiptguard"

// WriteSARIF writes results as a SARIF 2.1.0 log with one run.
func WriteSARIF(w io.Writer, results []*report.Result, version string) error {
	log, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}

	run := sarif.NewRunWithInformationURI("receiptguard", informationURI)
	if version != "" {
		run.Tool.Driver.Version = &version
	}

	for _, rule := range report.Rules {
		run.AddRule(string(rule)).
			WithName(rule.Title()).
			WithDescription(rule.Title()).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{
				Level: level(rule.DefaultSeverity()),
			})
	}

	for _, r := range results {
		for _, i := range r.Issues {
			region := sarif.NewRegion().
				WithStartLine(i.Start.Line).
				WithStartColumn(i.Start.Column)

			if i.End.Line > 0 {
				region.WithEndLine(i.End.Line).WithEndColumn(i.End.Column)
			}

			location := sarif.NewLocation().WithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewArtifactLocation().WithUri(r.Path)).
					WithRegion(region),
			)

			result := sarif.NewRuleResult(string(i.Rule)).
				WithMessage(sarif.NewTextMessage(i.Message)).
				WithLevel(level(i.Severity)).
				WithLocations([]*sarif.Location{location})

			run.AddResult(result)
		}
	}

	log.AddRun(run)

	return log.PrettyWrite(w)
}

func level(s report.Severity) string {
	switch s {
	case report.Critical, report.High:
		return "error"
	case report.Medium:
		return "warning"
	default:
		return "note"
	}
}
