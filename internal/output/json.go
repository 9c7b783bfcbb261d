package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/HexSleeves/hrchat/internal/bus"
)

// EventType represents the type of JSON output event.
type EventType string

const (
	EventTools      EventType = "tools"
	EventToolResult EventType = "tool_result"
	EventChatResult EventType = "chat_result"
	// EventProgress wraps a chat bus message.
	EventProgress EventType = "progress"
	EventError    EventType = "error"
)

// ErrorEvent mirrors the HTTP error envelope.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSONEvent is the wrapper for all JSON output events.
type JSONEvent struct {
	Type      EventType    `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	ChatID    string       `json:"chat_id,omitempty"`
	Error     *ErrorEvent  `json:"error,omitempty"`
	Progress  *bus.Message `json:"progress,omitempty"`
	Data      interface{}  `json:"data,omitempty"`
}

// JSONWriter writes one event per line. It is safe for concurrent use since
// bus handlers may fire from parallel tool goroutines.
type JSONWriter struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w, now: time.Now}
}

func (jw *JSONWriter) writeEvent(event JSONEvent) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	event.Timestamp = jw.now()
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(jw.w, string(data))
	return err
}

// WriteTools emits the tool catalog.
func (jw *JSONWriter) WriteTools(tools interface{}) error {
	return jw.writeEvent(JSONEvent{Type: EventTools, Data: tools})
}

// WriteToolResult emits a direct tool call response.
func (jw *JSONWriter) WriteToolResult(resp interface{}) error {
	return jw.writeEvent(JSONEvent{Type: EventToolResult, Data: resp})
}

// WriteChatResult emits the final answer of a chat turn.
func (jw *JSONWriter) WriteChatResult(chatID string, result interface{}) error {
	return jw.writeEvent(JSONEvent{Type: EventChatResult, ChatID: chatID, Data: result})
}

// WriteProgress forwards a bus message. Use it as a bus.Handler.
func (jw *JSONWriter) WriteProgress(msg bus.Message) {
	_ = jw.writeEvent(JSONEvent{Type: EventProgress, ChatID: msg.ChatID, Progress: &msg})
}

// WriteError emits an error event.
func (jw *JSONWriter) WriteError(code, message string) error {
	return jw.writeEvent(JSONEvent{Type: EventError, Error: &ErrorEvent{Code: code, Message: message}})
}
