// Package chat runs one conversational turn: the model is called with the
// tool catalog, requested tools are executed, and their results are fed back
// until the model produces a final answer or the round cap is hit.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/iter"

	"github.com/HexSleeves/hrchat/internal/bus"
	"github.com/HexSleeves/hrchat/internal/compact"
	hrerrors "github.com/HexSleeves/hrchat/internal/errors"
	"github.com/HexSleeves/hrchat/internal/llm"
	"github.com/HexSleeves/hrchat/internal/logging"
	"github.com/HexSleeves/hrchat/internal/tools"
)

// DefaultMaxRounds bounds the number of tool rounds in one turn.
const DefaultMaxRounds = 10

const previewLen = 200

// HistoryMessage is one prior turn supplied by the client.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result is the outcome of a turn. ToolsUsed lists every tool call in
// execution order, duplicates included, and is never nil.
type Result struct {
	Response  string   `json:"response"`
	ToolsUsed []string `json:"tools_used"`
}

// Config bounds a chat run.
type Config struct {
	MaxRounds     int
	MaxRetries    int
	ParallelTools bool
	Timeout       time.Duration
	SystemPrompt  string
	// HistoryTokens is the estimated token budget for client history.
	// Older turns beyond it are folded into the system prompt. 0 disables.
	HistoryTokens int
}

// Orchestrator runs the tool-calling loop between the model and the executor.
type Orchestrator struct {
	client   llm.ToolClient
	executor *tools.Executor
	defs     []llm.ToolDef
	cfg      Config
	bus      *bus.MessageBus
	logger   *slog.Logger
}

// New builds an orchestrator. b may be nil.
func New(client llm.ToolClient, executor *tools.Executor, cfg Config, b *bus.MessageBus, logger *slog.Logger) *Orchestrator {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = DefaultMaxRounds
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Orchestrator{
		client:   client,
		executor: executor,
		defs:     executor.Registry().Definitions(),
		cfg:      cfg,
		bus:      b,
		logger:   logger,
	}
}

// Chat runs one turn for message on top of history.
func (o *Orchestrator) Chat(ctx context.Context, message string, history []HistoryMessage) (*Result, error) {
	if strings.TrimSpace(message) == "" {
		return nil, hrerrors.New(hrerrors.CodeInvalidRequest, "Message is required")
	}
	messages, summary, err := buildMessages(history, message, o.cfg.HistoryTokens)
	if err != nil {
		return nil, err
	}
	system := o.cfg.SystemPrompt
	if summary != "" {
		system += "\n\n## Earlier conversation\n\n" + summary
	}

	if o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()
	}

	chatID := uuid.NewString()
	logger := o.logger.With("chat_id", chatID)
	logger.Info("chat started", "history", len(history), "history_compacted", summary != "")
	o.bus.Publish(bus.Message{Type: bus.MsgChatStarted, ChatID: chatID, Payload: message})

	result, err := o.loop(ctx, chatID, logger, system, messages)
	if err != nil {
		logger.Error("chat failed", "error", err)
		o.bus.Publish(bus.Message{Type: bus.MsgChatFailed, ChatID: chatID, Payload: err.Error()})
		return nil, err
	}

	logger.Info("chat completed", "tools_used", len(result.ToolsUsed))
	o.bus.Publish(bus.Message{Type: bus.MsgChatCompleted, ChatID: chatID, Payload: result})
	return result, nil
}

func (o *Orchestrator) loop(ctx context.Context, chatID string, logger *slog.Logger, system string, messages []llm.ToolMessage) (*Result, error) {
	toolsUsed := []string{}
	rounds := 0

	for {
		resp, err := llm.RetryLLMCall(ctx, o.cfg.MaxRetries, logger, func() (*llm.Response, error) {
			return o.client.ChatWithTools(ctx, system, messages, o.defs)
		})
		if err != nil {
			return nil, hrerrors.Wrap(hrerrors.CodeChat, err, "")
		}

		calls := resp.ToolCalls()
		if resp.StopReason != "tool_use" || len(calls) == 0 {
			return &Result{Response: resp.Text(), ToolsUsed: toolsUsed}, nil
		}
		if rounds >= o.cfg.MaxRounds {
			return nil, hrerrors.New(hrerrors.CodeLoopExceeded,
				"exceeded the maximum of %d tool rounds without a final answer", o.cfg.MaxRounds)
		}

		rounds++
		logger.Debug("executing tools", "round", rounds, "count", len(calls))
		o.bus.Publish(bus.Message{Type: bus.MsgChatRound, ChatID: chatID, Round: rounds, Payload: len(calls)})

		results := o.executeRound(ctx, chatID, rounds, calls)
		for _, c := range calls {
			toolsUsed = append(toolsUsed, c.Name)
		}

		messages = append(messages,
			llm.ToolMessage{Role: "assistant", Content: resp.Content},
			llm.ToolMessage{Role: "tool_result", ToolResults: results},
		)
	}
}

// executeRound runs the calls of one round and returns their results in
// request order.
func (o *Orchestrator) executeRound(ctx context.Context, chatID string, round int, calls []llm.ToolCall) []llm.ToolResult {
	run := func(c *llm.ToolCall) llm.ToolResult {
		return o.executeOne(ctx, chatID, round, *c)
	}
	if o.cfg.ParallelTools && len(calls) > 1 {
		return iter.Map(calls, run)
	}
	results := make([]llm.ToolResult, len(calls))
	for i := range calls {
		results[i] = run(&calls[i])
	}
	return results
}

func (o *Orchestrator) executeOne(ctx context.Context, chatID string, round int, call llm.ToolCall) llm.ToolResult {
	o.bus.Publish(bus.Message{Type: bus.MsgToolCalled, ChatID: chatID, Tool: call.Name, Round: round, Payload: json.RawMessage(call.Input)})

	start := time.Now()
	result := llm.ToolResult{ToolCallID: call.ID}

	args, err := decodeInput(call.Input)
	if err == nil {
		var resp *tools.Response
		resp, err = o.executor.Execute(ctx, call.Name, args)
		if err == nil {
			result.Content = resp.Text()
		}
	}
	if err != nil {
		result.Content = "Error: " + hrerrors.MessageOf(err)
		result.IsError = true
	}

	o.bus.Publish(bus.Message{
		Type:   bus.MsgToolResult,
		ChatID: chatID,
		Tool:   call.Name,
		Round:  round,
		Payload: bus.ToolResultPayload{
			IsError:  result.IsError,
			Preview:  preview(result.Content),
			Duration: time.Since(start),
		},
	})
	return result
}

func decodeInput(raw json.RawMessage) (map[string]any, error) {
	args := map[string]any{}
	if len(raw) == 0 {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, hrerrors.Wrap(hrerrors.CodeInvalidRequest, err,
			fmt.Sprintf("tool input is not a JSON object: %v", err))
	}
	return args, nil
}

// buildMessages validates history, fits it into budget tokens and appends
// the new user message. summary holds the folded turns, if any.
func buildMessages(history []HistoryMessage, message string, budget int) ([]llm.ToolMessage, string, error) {
	h := compact.NewHistory(budget)
	for i, m := range history {
		if m.Role != "user" && m.Role != "assistant" {
			return nil, "", hrerrors.New(hrerrors.CodeInvalidRequest,
				"conversation_history[%d]: role must be user or assistant, got %q", i, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		h.Add(m.Role, m.Content)
	}
	if err := h.Fit(compact.DefaultSummarizer); err != nil {
		return nil, "", hrerrors.Wrap(hrerrors.CodeChat, err, "")
	}

	turns := h.Turns()
	messages := make([]llm.ToolMessage, 0, len(turns)+1)
	for _, t := range turns {
		messages = append(messages, llm.TextMessage(t.Role, t.Content))
	}
	return append(messages, llm.TextMessage("user", message)), h.Summary(), nil
}

// preview keeps the first previewLen runes of s.
func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewLen {
		return s
	}
	return string([]rune(s)[:previewLen]) + "..."
}
