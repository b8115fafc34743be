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

// Package analyze implements the receiptguard analysis pipeline for a single file.
//
// # Overview
//
// receiptguard inspects JavaScript, TypeScript and Python programs that drive
// tools, language models and agents, and reports call sites that lack a receipt,
// error handling that actually covers them, resilience or provenance, as well as
// hardcoded secrets and destructive operations without a confirmation guard.
//
// # Example
//
// Reported:
//
//	const result = await stripe.charges.create(input); // FK001, FK002
//
// Accepted:
//
//	try {
//	  const result = await stripe.charges.create(input);
//	  await createReceipt({ action_id: id, tool_name: "stripe", output_hash: h(result) });
//	} catch (e) {
//	  escalate(e);
//	}
//
// # Architecture
//
// The pipeline has four stages:
//
//  1. Scan: a text-only pass decides whether the file mentions any cataloged call at all
//  2. Parse: the file is lowered into a small statement tree, and its scope tree is built
//  3. Functions: each function gets a control-flow graph and data-flow facts,
//     and every call site in it is checked against them
//  4. Text: secrets are matched in the raw text with comments masked
//
// # Degradation
//
// A function whose graph cannot be built is checked with text patterns only,
// and an FK000 note records the degradation. A file that cannot be parsed is
// degraded as a whole. Neither aborts the analysis.
package analyze
