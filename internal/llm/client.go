// Package llm provides a provider-agnostic interface for tool-calling LLMs.
package llm

import "context"

// ToolClient sends a conversation plus tool catalog to a model and returns
// its reply, which may request tool invocations.
// Implementations exist for Anthropic and OpenAI-compatible APIs.
type ToolClient interface {
	ChatWithTools(ctx context.Context, systemPrompt string,
		messages []ToolMessage, tools []ToolDef) (*Response, error)
}
