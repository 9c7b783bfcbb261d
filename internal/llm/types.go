package llm

import (
	"encoding/json"
	"strings"
)

// ToolDef defines a tool the LLM can call.
type ToolDef struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
	// Cache marks the definition as a prompt-cache breakpoint (Anthropic only).
	Cache bool `json:"-"`
}

// ToolCall represents the LLM requesting a tool invocation.
type ToolCall struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// ToolResult is the response to a tool call.
type ToolResult struct {
	ToolCallID string `json:"tool_use_id"`
	Content    string `json:"content"`
	IsError    bool   `json:"is_error,omitempty"`
}

// ContentBlock is a single block in a message (text or tool_use).
type ContentBlock struct {
	Type     string    `json:"type"` // "text" or "tool_use"
	Text     string    `json:"text,omitempty"`
	ToolCall *ToolCall `json:"tool_call,omitempty"`
}

// Usage is the token accounting reported by the provider.
type Usage struct {
	InputTokens         int `json:"input_tokens"`
	OutputTokens        int `json:"output_tokens"`
	CacheCreationTokens int `json:"cache_creation_tokens,omitempty"`
	CacheReadTokens     int `json:"cache_read_tokens,omitempty"`
}

// Response is the LLM's response, possibly containing tool calls.
type Response struct {
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"` // "end_turn", "tool_use", "max_tokens"
	Model      string         `json:"model,omitempty"`
	Usage      Usage          `json:"usage"`
}

// ToolCalls returns the tool_use blocks of the response in order.
func (r *Response) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, b := range r.Content {
		if b.Type == "tool_use" && b.ToolCall != nil {
			calls = append(calls, *b.ToolCall)
		}
	}
	return calls
}

// Text joins the text blocks of the response with newlines.
func (r *Response) Text() string {
	var parts []string
	for _, b := range r.Content {
		if b.Type == "text" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// ToolMessage is a rich message that can contain text, tool calls, or tool results.
type ToolMessage struct {
	Role        string         `json:"role"` // "user", "assistant", "tool_result"
	Content     []ContentBlock `json:"content,omitempty"`
	ToolResults []ToolResult   `json:"tool_results,omitempty"`
}

// TextMessage builds a plain text message for role.
func TextMessage(role, text string) ToolMessage {
	return ToolMessage{Role: role, Content: []ContentBlock{{Type: "text", Text: text}}}
}
