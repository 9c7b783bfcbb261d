package tui

import (
	"context"
	"encoding/json"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/HexSleeves/hrchat/internal/bus"
)

// Program wraps a Bubble Tea program and feeds it chat progress events.
type Program struct {
	program *tea.Program
	mu      sync.Mutex
	running bool
}

// NewProgram creates the REPL. When b is non-nil its chat events are
// forwarded to the UI.
func NewProgram(ctx context.Context, chatter Chatter, b *bus.MessageBus) *Program {
	p := &Program{
		program: tea.NewProgram(New(ctx, chatter), tea.WithAltScreen(), tea.WithContext(ctx)),
	}
	if b != nil {
		b.SubscribeAll(p.forward)
	}
	return p
}

// Run starts the TUI (blocking).
func (p *Program) Run() (tea.Model, error) {
	p.mu.Lock()
	p.running = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()
	return p.program.Run()
}

// Send sends a message to the TUI. Messages sent while the program is not
// running are dropped.
func (p *Program) Send(msg tea.Msg) {
	p.mu.Lock()
	running := p.running
	p.mu.Unlock()
	if running {
		p.program.Send(msg)
	}
}

func (p *Program) forward(msg bus.Message) {
	if m := translate(msg); m != nil {
		p.Send(m)
	}
}

// translate maps a bus message onto a TUI message, or nil when the UI does
// not show it.
func translate(msg bus.Message) tea.Msg {
	switch msg.Type {
	case bus.MsgChatRound:
		calls, _ := msg.Payload.(int)
		return RoundMsg{Round: msg.Round, Calls: calls}
	case bus.MsgToolCalled:
		input := ""
		if raw, ok := msg.Payload.(json.RawMessage); ok {
			input = string(raw)
		}
		return ToolCallMsg{Name: msg.Tool, Input: input}
	case bus.MsgToolResult:
		r, _ := msg.Payload.(bus.ToolResultPayload)
		return ToolResultMsg{Name: msg.Tool, Preview: r.Preview, IsError: r.IsError}
	}
	return nil
}
