package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/HexSleeves/hrchat/internal/llm"
)

// scriptedClient replays canned responses and records what it was sent.
type scriptedClient struct {
	mu        sync.Mutex
	responses []*llm.Response
	err       error
	calls     [][]llm.ToolMessage
	systems   []string
	tools     [][]llm.ToolDef
	// repeat makes the last response repeat forever.
	repeat bool
}

func (s *scriptedClient) ChatWithTools(_ context.Context, system string, messages []llm.ToolMessage, tools []llm.ToolDef) (*llm.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, append([]llm.ToolMessage(nil), messages...))
	s.systems = append(s.systems, system)
	s.tools = append(s.tools, tools)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.responses) == 0 {
		return nil, errors.New("script exhausted")
	}
	resp := s.responses[0]
	if len(s.responses) > 1 || !s.repeat {
		s.responses = s.responses[1:]
	}
	return resp, nil
}

func textReply(parts ...string) *llm.Response {
	resp := &llm.Response{StopReason: "end_turn"}
	for _, p := range parts {
		resp.Content = append(resp.Content, llm.ContentBlock{Type: "text", Text: p})
	}
	return resp
}

type call struct {
	id, name string
	input    any
}

func toolReply(text string, calls ...call) *llm.Response {
	resp := &llm.Response{StopReason: "tool_use"}
	if text != "" {
		resp.Content = append(resp.Content, llm.ContentBlock{Type: "text", Text: text})
	}
	for _, c := range calls {
		raw, _ := json.Marshal(c.input)
		resp.Content = append(resp.Content, llm.ContentBlock{
			Type:     "tool_use",
			ToolCall: &llm.ToolCall{ID: c.id, Name: c.name, Input: raw},
		})
	}
	return resp
}
