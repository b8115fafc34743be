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
	"strconv"
	"strings"

	"fillmore-labs.com/receiptguard/internal/catalog"
	"fillmore-labs.com/receiptguard/internal/report"
)

// class is the classification of an issue: everything but its location and message.
type class struct {
	severity report.Severity
	impact   string
	risk     int
	hint     string
	example  [2]string // JavaScript, Python
	cause    report.RootCause
	steps    []string // templates over {path}, {line} and {callee}
}

// adjustment raises a rule's classification for a tool category.
type adjustment struct {
	severity report.Severity
	impact   string
	risk     int
}

type classKey struct {
	rule     report.Rule
	category catalog.Category
}

var classes = map[report.Rule]class{
	report.AnalysisIncomplete: {
		severity: report.Low,
		impact:   "Part of the file was checked with text patterns only; findings may be incomplete.",
		risk:     10,
		hint:     "Fix the syntax error or simplify the construct so the function can be analyzed structurally.",
		cause:    report.RootCause{Type: "analysis_degraded", Component: "{callee}", Action: "Make the function parseable"},
		steps: []string{
			"Open {path} at line {line}",
			"Run the analysis and observe the degraded function",
		},
	},
	report.MissingReceipt: {
		severity: report.High,
		impact:   "The tool call leaves no verifiable record; its effect cannot be audited or disputed.",
		risk:     70,
		hint:     "Build a receipt from the call's input and result right after the call.",
		example: [2]string{
			"const result = await {callee}(input);\nawait createReceipt({ action_id: id, tool_name: '{callee}', input_hash: hash(input), output_hash: hash(result), timestamp: now(), status: 'success' });",
			"result = {callee}(input)\ncreate_receipt(action_id=id, tool_name='{callee}', input_hash=hash_data(input), output_hash=hash_data(result))",
		},
		cause: report.RootCause{Type: "missing_receipt", Component: "{callee}", Action: "Generate a receipt from the call result"},
		steps: []string{
			"Open {path} at line {line}",
			"Call {callee} through any execution path",
			"Observe that no receipt references the call result",
		},
	},
	report.MissingErrorHandling: {
		severity: report.Medium,
		impact:   "A failing call propagates unhandled and may leave the operation half-done.",
		risk:     50,
		hint:     "Wrap the call in a try block with a handler, or attach a rejection handler.",
		example: [2]string{
			"try {\n  await {callee}(input);\n} catch (err) {\n  await escalate(err);\n}",
			"try:\n    {callee}(input)\nexcept Exception as err:\n    escalate(err)",
		},
		cause: report.RootCause{Type: "missing_error_handling", Component: "{callee}", Action: "Handle failures of the call"},
		steps: []string{
			"Open {path} at line {line}",
			"Make {callee} fail, for example by cutting network access",
			"Observe the unhandled exception",
		},
	},
	report.SecretExposure: {
		severity: report.Critical,
		impact:   "Anyone with access to the source can use the credential.",
		risk:     95,
		hint:     "Remove the secret, rotate it and load it from the environment or a secret manager.",
		example: [2]string{
			"const key = process.env.API_KEY;",
			"key = os.environ[\"API_KEY\"]",
		},
		cause: report.RootCause{Type: "secret_in_source", Component: "{callee}", Action: "Rotate and externalize the secret"},
		steps: []string{
			"Open {path} at line {line}",
			"Observe the literal credential",
		},
	},
	report.UnconfirmedSideEffect: {
		severity: report.High,
		impact:   "An agent can trigger a destructive operation without a human or policy check.",
		risk:     75,
		hint:     "Require an explicit confirmation or approval before the operation.",
		example: [2]string{
			"if (await confirmAction('{callee}', args)) {\n  await {callee}(args);\n}",
			"if confirm_action('{callee}', args):\n    {callee}(args)",
		},
		cause: report.RootCause{Type: "unconfirmed_side_effect", Component: "{callee}", Action: "Gate the operation on a confirmation"},
		steps: []string{
			"Open {path} at line {line}",
			"Reach {callee} without any confirmation step",
		},
	},
	report.MissingResilience: {
		severity: report.Low,
		impact:   "A slow or failing model provider stalls or fails the agent.",
		risk:     30,
		hint:     "Configure a timeout and retries on the client or the call.",
		example: [2]string{
			"const client = new OpenAI({ timeout: 30_000, maxRetries: 3 });",
			"client = OpenAI(timeout=30, max_retries=3)",
		},
		cause: report.RootCause{Type: "missing_resilience", Component: "{callee}", Action: "Add timeout and retry configuration"},
		steps: []string{
			"Open {path} at line {line}",
			"Delay the provider response",
			"Observe the call waiting indefinitely",
		},
	},
	report.MissingProvenance: {
		severity: report.Medium,
		impact:   "Agent actions cannot be traced back to a run or a point in time.",
		risk:     45,
		hint:     "Attach an action id and a timestamp to the agent invocation.",
		example: [2]string{
			"await {callee}({ input, action_id: randomUUID(), timestamp: new Date().toISOString() });",
			"{callee}(input, config={\"run_id\": uuid4(), \"timestamp\": now()})",
		},
		cause: report.RootCause{Type: "missing_provenance", Component: "{callee}", Action: "Record an action id and timestamp"},
		steps: []string{
			"Open {path} at line {line}",
			"Run the agent and look for an identifier of the run",
		},
	},
	report.HardcodedCredential: {
		severity: report.Critical,
		impact:   "A credential-named variable holds a literal that ships with the source.",
		risk:     90,
		hint:     "Load the credential from the environment or a secret manager.",
		example: [2]string{
			"const password = process.env.DB_PASSWORD;",
			"password = os.getenv(\"DB_PASSWORD\")",
		},
		cause: report.RootCause{Type: "hardcoded_credential", Component: "{callee}", Action: "Externalize the credential"},
		steps: []string{
			"Open {path} at line {line}",
			"Observe the literal assigned to a credential name",
		},
	},
	report.TaskErrorHandler: {
		severity: report.Medium,
		impact:   "A failing agent task aborts the crew without cleanup or escalation.",
		risk:     45,
		hint:     "Pass an error callback or guardrail to the task.",
		example: [2]string{
			"",
			"Task(description=d, agent=a, callback=on_task_done, guardrail=validate)",
		},
		cause: report.RootCause{Type: "missing_task_error_handler", Component: "{callee}", Action: "Register an error callback"},
		steps: []string{
			"Open {path} at line {line}",
			"Make the task fail",
			"Observe the failure propagating to the crew",
		},
	},
	report.AgentTermination: {
		severity: report.Medium,
		impact:   "Conversational agents can loop without bound and burn budget.",
		risk:     55,
		hint:     "Bound the conversation with a maximum reply count or a termination predicate.",
		example: [2]string{
			"",
			"AssistantAgent(name, llm_config=cfg, max_consecutive_auto_reply=5)",
		},
		cause: report.RootCause{Type: "missing_termination", Component: "{callee}", Action: "Add a termination bound"},
		steps: []string{
			"Open {path} at line {line}",
			"Start a conversation that never satisfies a stop condition",
		},
	},
	report.UnreachableCode: {
		severity: report.Low,
		impact:   "Code that never runs may hide a missing receipt or error handler.",
		risk:     15,
		hint:     "Remove the statement or fix the control flow that skips it.",
		cause:    report.RootCause{Type: "unreachable_code", Component: "{callee}", Action: "Remove or reconnect the statement"},
		steps: []string{
			"Open {path} at line {line}",
			"Follow the preceding return, throw, break or continue",
		},
	},
	report.DiscardedResult: {
		severity: report.Low,
		impact:   "The result of an external operation is never checked.",
		risk:     25,
		hint:     "Check the result, include it in a receipt or drop the binding.",
		cause:    report.RootCause{Type: "result_discarded", Component: "{callee}", Action: "Use or verify the call result"},
		steps: []string{
			"Open {path} at line {line}",
			"Observe that the value bound from {callee} is never read",
		},
	},
}

var adjustments = map[classKey]adjustment{
	{report.MissingReceipt, catalog.Payment}: {
		report.Critical, "Money moves without a verifiable record; charges and refunds cannot be reconciled or disputed.", 95,
	},
	{report.MissingReceipt, catalog.Database}: {
		report.High, "Data changes without a verifiable record; corruption cannot be traced to an agent action.", 80,
	},
	{report.MissingReceipt, catalog.Email}: {
		report.High, "Messages leave the system without a record of what was sent to whom.", 70,
	},
	{report.MissingReceipt, catalog.LLM}: {
		report.Medium, "Model output used by the agent cannot be reproduced or audited.", 50,
	},
	{report.MissingErrorHandling, catalog.Payment}: {
		report.High, "A failed charge or refund goes unnoticed and leaves the customer in an inconsistent state.", 80,
	},
	{report.MissingErrorHandling, catalog.Database}: {
		report.High, "A failed write leaves partial data behind.", 70,
	},
	{report.UnconfirmedSideEffect, catalog.Payment}: {
		report.Critical, "An agent can move money without approval.", 95,
	},
	{report.UnconfirmedSideEffect, catalog.Database}: {
		report.Critical, "An agent can delete or overwrite records without approval.", 90,
	},
	{report.UnconfirmedSideEffect, catalog.Shell}: {
		report.Critical, "An agent can run destructive commands on the host without approval.", 95,
	},
	{report.UnconfirmedSideEffect, catalog.Cloud}: {
		report.Critical, "An agent can destroy cloud resources without approval.", 90,
	},
	{report.DiscardedResult, catalog.Payment}: {
		report.Medium, "A payment result is never checked; failed charges look like successes.", 45,
	},
}

// classify returns the classification of a rule for a tool category.
func classify(rule report.Rule, category catalog.Category) class {
	c := classes[rule]

	if a, ok := adjustments[classKey{rule, category}]; ok {
		c.severity, c.impact, c.risk = a.severity, a.impact, a.risk
	}

	return c
}

// render fills the classification templates.
func (c class) render(i *report.Issue, python bool, path, callee string) {
	component := callee
	if component == "" {
		component = "line " + strconv.Itoa(i.Start.Line)
	}

	r := strings.NewReplacer("{path}", path, "{line}", strconv.Itoa(i.Start.Line), "{callee}", component)

	i.Severity = c.severity
	i.BusinessImpact = c.impact
	i.RiskScore = c.risk
	i.FixHint = c.hint

	example := c.example[0]
	if python {
		example = c.example[1]
	}
	i.FixExample = r.Replace(example)

	i.RootCause = report.RootCause{
		Type:      c.cause.Type,
		Component: r.Replace(c.cause.Component),
		Action:    c.cause.Action,
	}

	i.Reproduction = make([]string, 0, len(c.steps))
	for _, s := range c.steps {
		i.Reproduction = append(i.Reproduction, r.Replace(s))
	}
}
