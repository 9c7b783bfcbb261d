package llm

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

const (
	DefaultAnthropicModel = "claude-3-haiku-20240307"
	DefaultMaxTokens      = 4096
)

// AnthropicClient wraps the Anthropic SDK.
type AnthropicClient struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// NewAnthropicClient builds a client. Retries are left to RetryLLMCall, so
// the SDK's own retry loop is disabled.
func NewAnthropicClient(apiKey, model, baseURL string, maxTokens int) *AnthropicClient {
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = DefaultAnthropicModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	c := anthropic.NewClient(opts...)
	return &AnthropicClient{
		client:    &c,
		model:     model,
		maxTokens: maxTokens,
	}
}

// ChatWithTools sends a message with tool definitions and returns the response,
// which may include tool-use requests.
func (c *AnthropicClient) ChatWithTools(ctx context.Context, systemPrompt string,
	messages []ToolMessage, tools []ToolDef) (*Response, error) {

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages:  toAnthropicMessages(messages),
		Tools:     toAnthropicTools(tools),
	}
	if systemPrompt != "" {
		sysBlocks := []anthropic.TextBlockParam{{Text: systemPrompt}}
		sysBlocks[len(sysBlocks)-1].CacheControl = anthropic.NewCacheControlEphemeralParam()
		params.System = sysBlocks
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	result := &Response{
		StopReason: string(resp.StopReason),
		Model:      string(resp.Model),
		Usage: Usage{
			InputTokens:         int(resp.Usage.InputTokens),
			OutputTokens:        int(resp.Usage.OutputTokens),
			CacheCreationTokens: int(resp.Usage.CacheCreationInputTokens),
			CacheReadTokens:     int(resp.Usage.CacheReadInputTokens),
		},
	}
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			result.Content = append(result.Content, ContentBlock{
				Type: "text",
				Text: block.Text,
			})
		case "tool_use":
			toolUse := block.AsToolUse()
			result.Content = append(result.Content, ContentBlock{
				Type: "tool_use",
				ToolCall: &ToolCall{
					ID:    toolUse.ID,
					Name:  toolUse.Name,
					Input: toolUse.Input,
				},
			})
		}
	}

	return result, nil
}

func toAnthropicTools(tools []ToolDef) []anthropic.ToolUnionParam {
	apiTools := make([]anthropic.ToolUnionParam, len(tools))
	for i, td := range tools {
		props, _ := td.InputSchema["properties"].(map[string]interface{})
		schema := anthropic.ToolInputSchemaParam{
			Properties: props,
		}
		switch req := td.InputSchema["required"].(type) {
		case []string:
			schema.Required = req
		case []interface{}:
			reqStrings := make([]string, len(req))
			for j, r := range req {
				reqStrings[j], _ = r.(string)
			}
			schema.Required = reqStrings
		}
		t := anthropic.ToolUnionParamOfTool(schema, td.Name)
		if td.Description != "" {
			t.OfTool.Description = param.NewOpt(td.Description)
		}
		if td.Cache {
			t.OfTool.CacheControl = anthropic.NewCacheControlEphemeralParam()
		}
		apiTools[i] = t
	}
	return apiTools
}

// toAnthropicMessages maps our messages onto the Messages API. Tool results
// travel as user-role messages.
func toAnthropicMessages(messages []ToolMessage) []anthropic.MessageParam {
	apiMessages := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case "user":
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Content))
			for _, b := range msg.Content {
				if b.Type == "text" {
					blocks = append(blocks, anthropic.NewTextBlock(b.Text))
				}
			}
			apiMessages = append(apiMessages, anthropic.NewUserMessage(blocks...))

		case "assistant":
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Content))
			for _, b := range msg.Content {
				switch b.Type {
				case "text":
					if b.Text != "" {
						blocks = append(blocks, anthropic.NewTextBlock(b.Text))
					}
				case "tool_use":
					if b.ToolCall != nil {
						inputMap := map[string]interface{}{}
						_ = json.Unmarshal(b.ToolCall.Input, &inputMap)
						blocks = append(blocks, anthropic.NewToolUseBlock(b.ToolCall.ID, inputMap, b.ToolCall.Name))
					}
				}
			}
			apiMessages = append(apiMessages, anthropic.NewAssistantMessage(blocks...))

		case "tool_result":
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.ToolResults))
			for _, tr := range msg.ToolResults {
				blocks = append(blocks, anthropic.NewToolResultBlock(tr.ToolCallID, tr.Content, tr.IsError))
			}
			apiMessages = append(apiMessages, anthropic.NewUserMessage(blocks...))
		}
	}
	return apiMessages
}
