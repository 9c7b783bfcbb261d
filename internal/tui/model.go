package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/HexSleeves/hrchat/internal/chat"
	hrerrors "github.com/HexSleeves/hrchat/internal/errors"
)

const (
	maxTranscriptLines = 2000
	tickInterval       = time.Second
	previewWidth       = 120
)

// Chatter runs one chat turn.
type Chatter interface {
	Chat(ctx context.Context, message string, history []chat.HistoryMessage) (*chat.Result, error)
}

type line struct {
	text string
	kind string // "user", "answer", "tool", "result", "ok", "error", "info"
}

// Model is the Bubble Tea model of the chat REPL. Conversation history is
// kept here and sent with every turn.
type Model struct {
	ctx     context.Context
	chatter Chatter

	history    []chat.HistoryMessage
	transcript []line
	round      int
	turns      int

	input    textinput.Model
	viewport viewport.Model

	busy      bool
	startTime time.Time
	width     int
	height    int
	ready     bool
	quitting  bool
}

// New creates a REPL model. ctx bounds every chat turn started from it.
func New(ctx context.Context, chatter Chatter) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about employees, salaries, promotions..."
	ti.Prompt = "› "
	ti.CharLimit = 4000
	ti.Focus()

	return Model{
		ctx:        ctx,
		chatter:    chatter,
		history:    []chat.HistoryMessage{},
		transcript: []line{{text: "Type a question and press Enter. Ctrl+C or Esc to quit, Ctrl+L to start over.", kind: "info"}},
		input:      ti,
		viewport:   viewport.New(80, 20),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// History returns the conversation so far.
func (m Model) History() []chat.HistoryMessage {
	return append([]chat.HistoryMessage(nil), m.history...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyCtrlL:
			if !m.busy {
				m.history = []chat.HistoryMessage{}
				m.transcript = []line{{text: "Conversation cleared.", kind: "info"}}
				m.turns = 0
				m.refresh()
			}
			return m, nil
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case RoundMsg:
		m.round = msg.Round
		m.addLine(fmt.Sprintf("round %d: %d tool call(s)", msg.Round, msg.Calls), "info")

	case ToolCallMsg:
		text := "→ " + msg.Name
		if msg.Input != "" && msg.Input != "{}" && msg.Input != "null" {
			text += " " + truncate(msg.Input, previewWidth)
		}
		m.addLine(text, "tool")

	case ToolResultMsg:
		kind, icon := "ok", "✔"
		if msg.IsError {
			kind, icon = "error", "✖"
		}
		m.addLine(fmt.Sprintf("%s %s: %s", icon, msg.Name, truncate(firstLine(msg.Preview), previewWidth)), kind)

	case AnswerMsg:
		m.busy = false
		m.turns++
		m.history = append(m.history,
			chat.HistoryMessage{Role: "user", Content: msg.Question},
			chat.HistoryMessage{Role: "assistant", Content: msg.Result.Response},
		)
		for _, l := range strings.Split(msg.Result.Response, "\n") {
			m.addLine(l, "answer")
		}
		if len(msg.Result.ToolsUsed) > 0 {
			m.addLine("tools used: "+strings.Join(msg.Result.ToolsUsed, ", "), "info")
		}
		m.addLine("", "info")

	case ErrorMsg:
		m.busy = false
		code := hrerrors.CodeOf(msg.Err, hrerrors.CodeChat)
		m.addLine(fmt.Sprintf("%s: %s", code, hrerrors.MessageOf(msg.Err)), "error")
		m.addLine("", "info")

	case TickMsg:
		return m, tickCmd()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit starts a chat turn for the current input.
func (m Model) submit() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	if question == "" || m.busy {
		return m, nil
	}
	m.input.SetValue("")
	m.busy = true
	m.round = 0
	m.startTime = time.Now()
	m.addLine("you: "+question, "user")

	ctx, chatter, history := m.ctx, m.chatter, m.History()
	return m, func() tea.Msg {
		res, err := chatter.Chat(ctx, question, history)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return AnswerMsg{Question: question, Result: res}
	}
}

func (m *Model) addLine(text, kind string) {
	m.transcript = append(m.transcript, line{text: text, kind: kind})
	if len(m.transcript) > maxTranscriptLines {
		m.transcript = m.transcript[len(m.transcript)-maxTranscriptLines:]
	}
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m *Model) resize() {
	w := m.width - 4 // border + padding
	if w < 20 {
		w = 20
	}
	h := m.height - 6 // title, input, status bar, borders
	if h < 3 {
		h = 3
	}
	m.viewport.Width = w
	m.viewport.Height = h
	m.input.Width = m.width - 4
	m.refresh()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
