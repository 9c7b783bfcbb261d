package tui

import "github.com/HexSleeves/hrchat/internal/chat"

// TUI event types. Progress messages are forwarded from the chat bus via
// tea.Program.Send; answers come back from the chat command.

// RoundMsg marks the start of a tool round.
type RoundMsg struct {
	Round int
	Calls int
}

// ToolCallMsg is sent when the model invokes a tool.
type ToolCallMsg struct {
	Name  string
	Input string // truncated JSON
}

// ToolResultMsg is the outcome of a tool call.
type ToolResultMsg struct {
	Name    string
	Preview string
	IsError bool
}

// AnswerMsg carries the final result of a chat turn.
type AnswerMsg struct {
	Question string
	Result   *chat.Result
}

// ErrorMsg reports a failed chat turn.
type ErrorMsg struct {
	Err error
}

// TickMsg is a periodic timer for updating the elapsed time.
type TickMsg struct{}
