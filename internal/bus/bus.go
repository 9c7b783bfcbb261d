// Package bus is a small in-process publish/subscribe hub for chat
// lifecycle events. The REPL and verbose CLI output subscribe to it.
package bus

import (
	"sync"
	"time"
)

type MsgType string

const (
	MsgChatStarted   MsgType = "chat.started"
	MsgChatRound     MsgType = "chat.round"
	MsgToolCalled    MsgType = "tool.called"
	MsgToolResult    MsgType = "tool.result"
	MsgChatCompleted MsgType = "chat.completed"
	MsgChatFailed    MsgType = "chat.failed"
)

// wildcard is the handler key that receives every message type.
const wildcard MsgType = "*"

type Message struct {
	Type    MsgType     `json:"type"`
	ChatID  string      `json:"chat_id,omitempty"`
	Tool    string      `json:"tool,omitempty"`
	Round   int         `json:"round,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
	Time    time.Time   `json:"time"`
}

// ToolResultPayload accompanies MsgToolResult.
type ToolResultPayload struct {
	IsError  bool          `json:"is_error"`
	Preview  string        `json:"preview"`
	Duration time.Duration `json:"duration"`
}

type Handler func(msg Message)

type MessageBus struct {
	mu       sync.RWMutex
	handlers map[MsgType][]Handler
	history  []Message
	maxHist  int
}

func New(maxHistory int) *MessageBus {
	if maxHistory <= 0 {
		maxHistory = 1000
	}
	return &MessageBus{
		handlers: make(map[MsgType][]Handler),
		maxHist:  maxHistory,
	}
}

func (b *MessageBus) Subscribe(msgType MsgType, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[msgType] = append(b.handlers[msgType], h)
}

func (b *MessageBus) SubscribeAll(h Handler) {
	b.Subscribe(wildcard, h)
}

// Publish stamps msg if needed, records it and calls handlers synchronously.
// A nil bus drops the message so callers need no guard.
func (b *MessageBus) Publish(msg Message) {
	if b == nil {
		return
	}
	if msg.Time.IsZero() {
		msg.Time = time.Now()
	}

	b.mu.Lock()
	b.history = append(b.history, msg)
	if len(b.history) > b.maxHist {
		b.history = b.history[len(b.history)-b.maxHist:]
	}
	// Copy handlers under lock
	specific := append([]Handler(nil), b.handlers[msg.Type]...)
	all := append([]Handler(nil), b.handlers[wildcard]...)
	b.mu.Unlock()

	for _, h := range specific {
		h(msg)
	}
	for _, h := range all {
		h(msg)
	}
}

// History returns the last n messages, oldest first (n <= 0 means all).
func (b *MessageBus) History(n int) []Message {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if n <= 0 || n > len(b.history) {
		n = len(b.history)
	}
	start := len(b.history) - n
	result := make([]Message, n)
	copy(result, b.history[start:])
	return result
}
