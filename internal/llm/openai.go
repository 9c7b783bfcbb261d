package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient implements ToolClient for OpenAI-compatible APIs.
// Works with OpenAI, Azure OpenAI, and any compatible endpoint.
type OpenAIClient struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIClient creates a client for OpenAI-compatible APIs.
// If baseURL is empty, the library default (https://api.openai.com/v1) is used.
func NewOpenAIClient(apiKey, model, baseURL string, maxTokens int) *OpenAIClient {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIClient{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (c *OpenAIClient) ChatWithTools(ctx context.Context, systemPrompt string,
	messages []ToolMessage, tools []ToolDef) (*Response, error) {

	req := openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  toOpenAIMessages(systemPrompt, messages),
		Tools:     toOpenAITools(tools),
		MaxTokens: c.maxTokens,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: no choices in response")
	}

	choice := resp.Choices[0]

	// Map finish_reason to our StopReason
	stopReason := "end_turn"
	switch choice.FinishReason {
	case openai.FinishReasonToolCalls, openai.FinishReasonFunctionCall:
		stopReason = "tool_use"
	case openai.FinishReasonLength:
		stopReason = "max_tokens"
	}
	// Some compatible servers report "stop" alongside tool calls.
	if len(choice.Message.ToolCalls) > 0 {
		stopReason = "tool_use"
	}

	result := &Response{
		StopReason: stopReason,
		Model:      resp.Model,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}
	if choice.Message.Content != "" {
		result.Content = append(result.Content, ContentBlock{Type: "text", Text: choice.Message.Content})
	}
	for _, tc := range choice.Message.ToolCalls {
		args := tc.Function.Arguments
		if strings.TrimSpace(args) == "" {
			args = "{}"
		}
		result.Content = append(result.Content, ContentBlock{
			Type: "tool_use",
			ToolCall: &ToolCall{
				ID:    tc.ID,
				Name:  tc.Function.Name,
				Input: json.RawMessage(args),
			},
		})
	}

	return result, nil
}

func toOpenAITools(tools []ToolDef) []openai.Tool {
	apiTools := make([]openai.Tool, 0, len(tools))
	for _, td := range tools {
		apiTools = append(apiTools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        td.Name,
				Description: td.Description,
				Parameters:  td.InputSchema,
			},
		})
	}
	return apiTools
}

func toOpenAIMessages(systemPrompt string, messages []ToolMessage) []openai.ChatCompletionMessage {
	var apiMessages []openai.ChatCompletionMessage
	if systemPrompt != "" {
		apiMessages = append(apiMessages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}

	for _, msg := range messages {
		switch msg.Role {
		case "user":
			var parts []string
			for _, b := range msg.Content {
				if b.Type == "text" {
					parts = append(parts, b.Text)
				}
			}
			apiMessages = append(apiMessages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: strings.Join(parts, "\n"),
			})

		case "assistant":
			amsg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant}
			var textParts []string
			for _, b := range msg.Content {
				if b.Type == "text" && b.Text != "" {
					textParts = append(textParts, b.Text)
				}
				if b.Type == "tool_use" && b.ToolCall != nil {
					amsg.ToolCalls = append(amsg.ToolCalls, openai.ToolCall{
						ID:   b.ToolCall.ID,
						Type: openai.ToolTypeFunction,
						Function: openai.FunctionCall{
							Name:      b.ToolCall.Name,
							Arguments: string(b.ToolCall.Input),
						},
					})
				}
			}
			amsg.Content = strings.Join(textParts, "\n")
			apiMessages = append(apiMessages, amsg)

		case "tool_result":
			// OpenAI uses separate messages per tool result with role="tool"
			for _, tr := range msg.ToolResults {
				apiMessages = append(apiMessages, openai.ChatCompletionMessage{
					Role:       openai.ChatMessageRoleTool,
					Content:    tr.Content,
					ToolCallID: tr.ToolCallID,
				})
			}
		}
	}
	return apiMessages
}
