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
	"sync"

	"fillmore-labs.com/receiptguard/internal/report"
)

// Catalog is an immutable set of pattern tables and marker lists.
type Catalog struct {
	Tools       []ToolPattern
	LLMs        []LLMPattern
	Agents      []AgentPattern
	Secrets     []SecretPattern
	SideEffects []SideEffectPattern

	// Receipt matches callees that produce a receipt.
	Receipt Markers
	// ReceiptKeys are object keys that make a literal receipt-shaped.
	ReceiptKeys map[string]bool
	// ReceiptBases are base classes whose subclasses generate receipts implicitly.
	ReceiptBases []string

	Provenance    Markers
	Resilience    Markers
	Confirmation  Markers
	ErrorCallback Markers
	Termination   Markers
	EnvReference  Markers
	Placeholder   Markers
}

// Default returns the built-in catalog.
var Default = sync.OnceValue(newDefault)

// Match returns the first call pattern matching the normalized callee and call text.
// Specific patterns of all families are tried before generic ones.
// fileText gates framework-specific agent patterns.
func (c *Catalog) Match(callee, call, fileText string) (Pattern, bool) {
	for _, generic := range [...]bool{false, true} {
		for _, p := range c.Tools {
			if p.Generic == generic && p.Match(callee, call) {
				return p, true
			}
		}

		for _, p := range c.LLMs {
			if p.Generic == generic && p.Match(callee, call) {
				return p, true
			}
		}

		for _, p := range c.Agents {
			if p.Generic == generic && p.Match(callee, call) && (p.Requires == nil || p.Requires.MatchString(fileText)) {
				return p, true
			}
		}
	}

	return nil, false
}

// SideEffect returns the destructive-operation pattern matching the call, if any.
func (c *Catalog) SideEffect(callee, call string) (SideEffectPattern, bool) {
	for _, p := range c.SideEffects {
		if p.Match(callee, call) {
			return p, true
		}
	}

	return SideEffectPattern{}, false
}

// All returns every pattern in matching order.
func (c *Catalog) All() []Pattern {
	all := make([]Pattern, 0, len(c.Tools)+len(c.LLMs)+len(c.Agents)+len(c.Secrets)+len(c.SideEffects))
	for _, p := range c.Tools {
		all = append(all, p)
	}

	for _, p := range c.LLMs {
		all = append(all, p)
	}

	for _, p := range c.Agents {
		all = append(all, p)
	}

	for _, p := range c.Secrets {
		all = append(all, p)
	}

	for _, p := range c.SideEffects {
		all = append(all, p)
	}

	return all
}

// IsReceiptCall reports whether the normalized callee produces a receipt.
func (c *Catalog) IsReceiptCall(callee string) bool {
	return c.Receipt.Match(callee + "(")
}

// IsReceiptObject reports whether an object literal with the given keys is receipt-shaped.
func (c *Catalog) IsReceiptObject(keys []string) bool {
	var n, strong int
	for _, k := range keys {
		isStrong, ok := c.ReceiptKeys[k]
		if !ok {
			continue
		}

		n++
		if isStrong {
			strong++
		}
	}

	return n >= 2 && strong >= 1
}

// IsReceiptBase reports whether a class extending base generates receipts.
func (c *Catalog) IsReceiptBase(base string) bool {
	for _, b := range c.ReceiptBases {
		if base == b || hasSuffixDot(base, b) {
			return true
		}
	}

	return false
}

func hasSuffixDot(s, suffix string) bool {
	n := len(s) - len(suffix)

	return n > 0 && s[n-1] == '.' && s[n:] == suffix
}

func tool(name, re string, category Category, description string) ToolPattern {
	return ToolPattern{
		Call: Call{
			Name:                  name,
			Description:           description,
			Re:                    regexp.MustCompile(re),
			RequiresReceipt:       true,
			RequiresErrorHandling: true,
		},
		Category: category,
	}
}

func llm(name, re, provider, description string) LLMPattern {
	return LLMPattern{
		Call: Call{
			Name:                  name,
			Description:           description,
			Re:                    regexp.MustCompile(re),
			RequiresErrorHandling: true,
		},
		Provider: provider,
	}
}

func agent(name, re, framework, description string) AgentPattern {
	return AgentPattern{
		Call: Call{
			Name:                  name,
			Description:           description,
			Re:                    regexp.MustCompile(re),
			RequiresErrorHandling: true,
		},
		Framework: framework,
	}
}

func secret(name, re string, severity report.Severity, description string) SecretPattern {
	return SecretPattern{Name: name, Description: description, Re: regexp.MustCompile(re), Severity: severity}
}

func credential(name, re string, severity report.Severity, description string) SecretPattern {
	p := secret(name, re, severity, description)
	p.Credential = true

	return p
}

func sideEffect(name, re, operation string, severity report.Severity) SideEffectPattern {
	return SideEffectPattern{
		Call: Call{
			Name:        name,
			Description: operation + " operation",
			Re:          regexp.MustCompile(re),
		},
		Operation: operation,
		Severity:  severity,
	}
}

func generic[P ToolPattern | LLMPattern | AgentPattern](p P) P {
	switch p := any(&p).(type) {
	case *ToolPattern:
		p.Generic = true
	case *LLMPattern:
		p.Generic = true
	case *AgentPattern:
		p.Generic = true
	}

	return p
}

func onCall[P ToolPattern | LLMPattern](p P) P {
	switch p := any(&p).(type) {
	case *ToolPattern:
		p.Target = MatchCall
	case *LLMPattern:
		p.Target = MatchCall
	}

	return p
}

func constructor(p LLMPattern) LLMPattern {
	p.RequiresErrorHandling = false

	return p
}

func gated(p AgentPattern, requires string, check AgentCheck) AgentPattern {
	if requires != "" {
		p.Requires = regexp.MustCompile(requires)
	}

	p.Check = check

	return p
}

// The callee patterns avoid "^" so the same expressions work on whole-file text in the quick scanner.
const start = `(?:^|[^\w.$])`

func newDefault() *Catalog {
	return &Catalog{
		Tools: []ToolPattern{
			tool("stripe", `\bstripe(?:\.\w+)+\(`, Payment, "Stripe API operation"),
			tool("payment_provider", `\b(?:paypal|braintree|square|adyen|razorpay)(?:\.\w+)+\(`, Payment, "Payment provider operation"),
			tool("payment_charge", `\.(?:charge|refund|payout|transfer)\(`, Payment, "Payment charge or transfer"),
			tool("db_mutation", `\b(?:db|database|prisma|knex|sequelize|mongoose|supabase|collection|repo|repository|model|orm|table)(?:\.\w+)*\.(?:insert\w*|update\w*|upsert|delete\w*|destroy|create\w*|save|remove|bulkWrite|findOneAndUpdate|findOneAndDelete|rpc|query|execute|exec)\(`, Database, "Database mutation"),
			tool("db_cursor", `\bcursor\.(?:execute|executemany)\(`, Database, "Database cursor execute"),
			tool("db_session", `\bsession\.(?:add|delete|merge|execute|commit)\(`, Database, "Database session operation"),
			tool("db_commit", `\.commit\(`, Database, "Database commit"),
			tool("http_mutation", `\b(?:requests|httpx|axios|got|ky|superagent|http|client|session)\.(?:post|put|patch|delete)\(`, HTTP, "HTTP mutation request"),
			onCall(tool("fetch_mutation", start+`fetch\(.*method:\s*['"](?:POST|PUT|PATCH|DELETE)['"]`, HTTP, "fetch mutation request")),
			tool("fs_write", `\bfs(?:\.promises)?\.(?:writeFile|writeFileSync|appendFile|appendFileSync|unlink|unlinkSync|rm|rmSync|rmdir|rename|renameSync)\(`, File, "File system write"),
			tool("os_file", `\bos\.(?:remove|unlink|rmdir|rename|replace|makedirs)\(`, File, "File system operation"),
			tool("shutil", `\bshutil\.(?:rmtree|move|copy|copyfile|copytree)\(`, File, "File copy or removal"),
			onCall(tool("file_open_write", start+`open\(.*,\s*['"](?:w|a|wb|ab|w\+|x)['"]`, File, "File opened for writing")),
			tool("email_send", start+`(?:send_email|sendEmail|sendMail|send_mail)\(`, Email, "Email send"),
			tool("email_client", `\b(?:sendgrid|sgMail|mailgun|resend|ses|transporter|smtp|mailer)(?:\.\w+)*\.(?:send|sendMail|sendmail|send_message|sendEmail)\(`, Email, "Email client send"),
			tool("message_send", `\.(?:send_message|sendMessage|postMessage|chat_postMessage)\(`, Messaging, "Message send"),
			tool("messaging_client", `\b(?:slack|twilio|discord|telegram|bot|sns|sqs|kafka|producer)(?:\.\w+)*\.(?:send|create|publish|produce)\(`, Messaging, "Messaging client send"),
			tool("cloud_storage", `\b(?:s3|s3Client|s3_client|boto3|gcs|storage|bucket|blob|blobClient|lambdaClient)(?:\.\w+)*\.(?:put_object|putObject|upload\w*|delete_object|deleteObject|copy_object|invoke|send)\(`, Cloud, "Cloud resource operation"),
			tool("shell_exec", start+`(?:child_process\.)?(?:exec|execSync|spawn|spawnSync|execFile|execFileSync)\(`, Shell, "Shell command execution"),
			tool("subprocess", `\b(?:subprocess\.(?:run|call|Popen|check_output|check_call)|os\.system|os\.popen)\(`, Shell, "Subprocess execution"),
			tool("vector_upsert", `\b(?:pinecone|index|vectorstore|vectorStore|vector_store|qdrant|weaviate|chroma)(?:\.\w+)*\.(?:upsert|add_documents|addDocuments|add_texts|addVectors|delete)\(`, VectorStore, "Vector store mutation"),
			tool("langchain_tool", `\btools?(?:\[[^\]]*\])?\.(?:invoke|ainvoke|run|arun|call)\(`, LangChainTool, "LangChain tool invocation"),
			generic(tool("generic_execute", `\.(?:execute|run_tool|runTool|call_tool|callTool|executeTool|execute_tool)\(`, GenericTool, "Generic tool execution")),
		},
		LLMs: []LLMPattern{
			llm("openai_chat", `\b\w+\.chat\.completions\.(?:create|parse|stream)\(`, "openai", "OpenAI Chat Completions call"),
			llm("openai_responses", `\b\w+\.(?:responses|completions|embeddings)\.create\(`, "openai", "OpenAI API call"),
			llm("anthropic_messages", `\b\w+(?:\.beta)?\.messages\.(?:create|stream)\(`, "anthropic", "Anthropic Messages call"),
			llm("google_generate", `\.(?:generateContent|generate_content|generateContentStream)\(`, "google", "Google Gemini call"),
			llm("cohere_chat", `\b(?:co|cohere)\.(?:chat|generate)\(`, "cohere", "Cohere call"),
			llm("mistral_chat", `\bmistral(?:\.\w+)*\.(?:complete|stream|chat)\w*\(`, "mistral", "Mistral call"),
			llm("bedrock_invoke", `\.(?:invoke_model|invokeModel|converse)\(`, "bedrock", "Bedrock model invocation"),
			llm("langchain_llm", `\b(?:llm|model|chat|chain|chatModel|chat_model)\.(?:invoke|ainvoke|call|generate|agenerate|predict|apredict|stream|batch)\(`, "langchain", "LangChain model invocation"),
			llm("vercel_ai", start+`(?:generateText|streamText|generateObject|streamObject)\(`, "vercel_ai", "Vercel AI SDK call"),
			constructor(llm("llm_client", start+`(?:new )?(?:OpenAI|AsyncOpenAI|Anthropic|AsyncAnthropic|ChatOpenAI|ChatAnthropic|ChatGoogleGenerativeAI|AzureOpenAI|ChatMistralAI)\(`, "client", "LLM client construction")),
			generic(llm("generic_complete", `\.(?:complete|generate|invoke|ainvoke|chat)\(`, "generic", "Generic model call")),
		},
		Agents: []AgentPattern{
			agent("langchain_executor", start+`(?:new )?(?:AgentExecutor|create_react_agent|createReactAgent|create_openai_functions_agent|initialize_agent|initializeAgentExecutorWithOptions)\(`, "langchain", "LangChain agent construction"),
			agent("langgraph", start+`(?:new )?(?:StateGraph|MessageGraph)\(`, "langgraph", "LangGraph graph construction"),
			agent("executor_invoke", `\b(?:agent_executor|agentExecutor|executor|agent|graph|app)\.(?:invoke|ainvoke|run|arun|stream)\(`, "langchain", "Agent invocation"),
			gated(agent("crewai_crew", start+`Crew\(`, "crewai", "CrewAI crew construction"), `crewai`, NoAgentCheck),
			gated(agent("crewai_kickoff", `\.kickoff\w*\(`, "crewai", "CrewAI crew kickoff"), `crewai`, NoAgentCheck),
			gated(agent("crewai_task", start+`Task\(`, "crewai", "CrewAI task construction"), `crewai`, CheckErrorCallback),
			gated(agent("autogen_agent", start+`(?:AssistantAgent|UserProxyAgent|ConversableAgent)\(`, "autogen", "AutoGen agent construction"), `autogen`, CheckTermination),
			gated(agent("autogen_groupchat", start+`GroupChat\(`, "autogen", "AutoGen group chat"), `autogen`, CheckTermination),
			gated(agent("autogen_chat", `\.(?:initiate_chat|a_initiate_chat)\(`, "autogen", "AutoGen chat initiation"), `autogen`, NoAgentCheck),
			gated(agent("haystack_pipeline", start+`Pipeline\(`, "haystack", "Haystack pipeline construction"), `haystack`, NoAgentCheck),
			agent("openai_agents", `\bRunner\.(?:run|run_sync|run_streamed)\(`, "openai_agents", "OpenAI Agents SDK run"),
		},
		Secrets: []SecretPattern{
			secret("stripe_live_key", `\b[sr]k[-_]live[-_][a-zA-Z0-9]{20,}`, report.Critical, "Stripe live secret key"),
			secret("stripe_test_key", `\b[sr]k[-_]test[-_][a-zA-Z0-9]{20,}`, report.High, "Stripe test secret key"),
			secret("aws_access_key", `\bAKIA[0-9A-Z]{16}\b`, report.Critical, "AWS access key id"),
			secret("anthropic_key", `\bsk-ant-[a-zA-Z0-9_-]{32,}`, report.Critical, "Anthropic API key"),
			secret("openai_key", `\bsk-(?:proj-)?[a-zA-Z0-9_-]{32,}`, report.Critical, "OpenAI API key"),
			secret("github_token", `\bgh[pousr]_[a-zA-Z0-9]{36}\b`, report.Critical, "GitHub token"),
			secret("slack_token", `\bxox[baprs]-[0-9a-zA-Z-]{10,}`, report.Critical, "Slack token"),
			secret("google_api_key", `\bAIza[0-9A-Za-z_-]{35}\b`, report.Critical, "Google API key"),
			secret("private_key", `-----BEGIN (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`, report.Critical, "Private key block"),
			credential("password", `(?i)\b(?:password|passwd|pwd)['"]?\s*[:=]\s*['"][^'"\s]{6,}['"]`, report.Critical, "Hardcoded password"),
			credential("api_key", `(?i)\bapi[_-]?key['"]?\s*[:=]\s*['"][^'"\s]{16,}['"]`, report.Critical, "Hardcoded API key"),
			credential("secret_key", `(?i)\b(?:secret[_-]?key|client[_-]?secret|auth[_-]?token|access[_-]?token|private[_-]?key)['"]?\s*[:=]\s*['"][^'"\s]{10,}['"]`, report.Critical, "Hardcoded secret"),
		},
		SideEffects: []SideEffectPattern{
			sideEffect("delete", `\.(?:delete|deleteMany|delete_many|deleteOne|delete_one|remove|unlink)\(`, "delete", report.High),
			sideEffect("destroy", `\.(?:destroy|purge|wipe)\w*\(`, "destroy", report.Critical),
			sideEffect("drop", `\.(?:drop|dropTable|drop_table|dropDatabase)\(`, "drop", report.Critical),
			sideEffect("truncate", `\.truncate\w*\(`, "truncate", report.Critical),
			sideEffect("rmtree", `\b(?:shutil\.rmtree|fs\.rm|fs\.rmSync|rimraf)\(`, "recursive delete", report.Critical),
			sideEffect("publish", `\.publish\(`, "publish", report.Medium),
		},
		Receipt: markers(
			`(?i)\b(?:create|generate|build|make|emit|record|write|log|save|issue|sign)_?(?:action_?)?receipt\w*\(`,
			`\b(?:new )?(?:Receipt|ActionReceipt|ToolReceipt)\(`,
			`\bhash_data\(`,
			`(?i)\baudit_?log(?:ger)?\.(?:log|record|write|append)\w*\(`,
			`\breceipts?\.(?:create|add|append|push|record|save|write)\(`,
		),
		ReceiptKeys: map[string]bool{
			"action_id": true, "actionId": true,
			"tool_name": true, "toolName": true,
			"input_hash": true, "inputHash": true,
			"output_hash": true, "outputHash": true,
			"receipt_id": true, "receiptId": true,
			"timestamp": false, "status": false,
		},
		ReceiptBases: []string{"ReceiptGeneratingTool", "ReceiptTool", "AuditedTool"},
		Provenance: markers(
			`(?i)\baction_?id\b`,
			`\btimestamp\b`,
			`(?i)\b(?:trace|run|request|correlation)_?id\b`,
			`\bcreated_at\b`,
		),
		Resilience: markers(
			`(?i)\btimeout['"]?\s*[:=]`,
			`(?i)\bmax_?retries['"]?\s*[:=]`,
			`@retry\b`,
			`(?i)\bwith_?retry\(`,
			`\b(?:retry|pRetry|backoff)\(`,
			`(?i)\bfallbacks?['"]?\s*[:=]`,
			`\.with_fallbacks\(`,
			`\bAbortSignal\.timeout\(`,
			`\btenacity\b`,
		),
		Confirmation: markers(
			`(?i)\bconfirm\w*`,
			`(?i)\bapprov\w*`,
			`(?i)\bconsent\w*`,
			`(?i)\bdry_?run\b`,
			`(?i)\bhuman_?in_?the_?loop\b`,
			`(?i)\bask_?user\b`,
		),
		ErrorCallback: markers(
			`\b(?:on_error|error_callback|callback|step_callback|error_handler|guardrail)\s*=`,
		),
		Termination: markers(
			`\b(?:max_consecutive_auto_reply|max_turns|max_round|is_termination_msg|termination_condition|max_iter)\s*=`,
		),
		EnvReference: markers(
			`\bprocess\.env(?:\.[\w$]+|\[[^\]\n]*\])?`,
			`\bimport\.meta\.env(?:\.[\w$]+|\[[^\]\n]*\])?`,
			`\bos\.environ(?:\[[^\]\n]*\]|\.get\(\s*['"][^'"\n]*['"])?`,
			`\b(?:os\.)?getenv\(\s*['"][^'"\n]*['"]`,
			`\bDeno\.env(?:\.get\(\s*['"][^'"\n]*['"])?`,
		),
		Placeholder: markers(
			`(?i)your[-_]`,
			`(?i)x{4,}`,
			`(?i)changeme`,
			`(?i)example`,
			`(?i)placeholder`,
			`(?i)dummy`,
			`\$\{`,
			`\{\{`,
			`<[^>]+>`,
		),
	}
}
