package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HexSleeves/hrchat/internal/bus"
	"github.com/HexSleeves/hrchat/internal/chat"
	hrerrors "github.com/HexSleeves/hrchat/internal/errors"
)

type fakeChatter struct {
	history []chat.HistoryMessage
	err     error
}

func (f *fakeChatter) Chat(_ context.Context, message string, history []chat.HistoryMessage) (*chat.Result, error) {
	f.history = history
	if f.err != nil {
		return nil, f.err
	}
	return &chat.Result{Response: "answer to " + message, ToolsUsed: []string{"show_tables"}}, nil
}

func typeText(m Model, text string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(Model)
}

// submitAndRun presses Enter and feeds the resulting chat message back.
func submitAndRun(t *testing.T, m Model) Model {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.True(t, m.busy)
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	return next.(Model)
}

func TestSubmitKeepsHistory(t *testing.T) {
	fc := &fakeChatter{}
	m := New(context.Background(), fc)

	m = submitAndRun(t, typeText(m, "who earns most?"))
	assert.False(t, m.busy)
	assert.Empty(t, fc.history)
	assert.Equal(t, []chat.HistoryMessage{
		{Role: "user", Content: "who earns most?"},
		{Role: "assistant", Content: "answer to who earns most?"},
	}, m.History())

	m = submitAndRun(t, typeText(m, "and their department?"))
	assert.Len(t, fc.history, 2)
	assert.Len(t, m.History(), 4)
	assert.Equal(t, 2, m.turns)
}

func TestEmptyInputIsIgnored(t *testing.T) {
	m := New(context.Background(), &fakeChatter{})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, next.(Model).busy)
}

func TestErrorIsShownAndHistoryUnchanged(t *testing.T) {
	fc := &fakeChatter{err: hrerrors.New(hrerrors.CodeLoopExceeded, "too many rounds")}
	m := submitAndRun(t, typeText(New(context.Background(), fc), "loop"))

	assert.False(t, m.busy)
	assert.Empty(t, m.History())
	last := m.transcript[len(m.transcript)-2]
	assert.Equal(t, "error", last.kind)
	assert.Equal(t, "loop_exceeded: too many rounds", last.text)
}

func TestClearResetsConversation(t *testing.T) {
	m := submitAndRun(t, typeText(New(context.Background(), &fakeChatter{}), "hi"))
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = next.(Model)
	assert.Empty(t, m.History())
	assert.Equal(t, 0, m.turns)
}

func TestProgressMessagesRender(t *testing.T) {
	m := New(context.Background(), &fakeChatter{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)

	for _, msg := range []tea.Msg{
		RoundMsg{Round: 1, Calls: 1},
		ToolCallMsg{Name: "promotion_gap", Input: `{"limit":1}`},
		ToolResultMsg{Name: "promotion_gap", Preview: "# Employees by Time Since Last Promotion\n| ..."},
		ToolResultMsg{Name: "run_query", Preview: "Error: Only SELECT queries are allowed", IsError: true},
	} {
		next, _ = m.Update(msg)
		m = next.(Model)
	}

	out := m.renderTranscript()
	assert.Contains(t, out, `→ promotion_gap {"limit":1}`)
	assert.Contains(t, out, "✔ promotion_gap: # Employees by Time Since Last Promotion")
	assert.Contains(t, out, "✖ run_query: Error: Only SELECT queries are allowed")
	assert.Equal(t, 1, m.round)
	assert.NotEmpty(t, m.View())
}

func TestQuitKeys(t *testing.T) {
	m := New(context.Background(), &fakeChatter{})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, next.(Model).quitting)
	assert.Equal(t, "", next.(Model).View())
}

func TestTranslate(t *testing.T) {
	assert.Equal(t, RoundMsg{Round: 2, Calls: 3}, translate(bus.Message{Type: bus.MsgChatRound, Round: 2, Payload: 3}))
	assert.Equal(t, ToolCallMsg{Name: "show_tables", Input: "{}"},
		translate(bus.Message{Type: bus.MsgToolCalled, Tool: "show_tables", Payload: json.RawMessage("{}")}))
	assert.Equal(t, ToolResultMsg{Name: "x", Preview: "p", IsError: true},
		translate(bus.Message{Type: bus.MsgToolResult, Tool: "x", Payload: bus.ToolResultPayload{Preview: "p", IsError: true}}))
	assert.Nil(t, translate(bus.Message{Type: bus.MsgChatCompleted}))
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{""}, wrapText("", 10))
	assert.Equal(t, []string{"short"}, wrapText("short", 10))

	lines := wrapText("the quick brown fox jumps over the lazy dog", 12)
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 12, l)
	}
	assert.Equal(t, "the quick brown fox jumps over the lazy dog", strings.Join(lines, " "))
}

func TestChatErrorFallbackCode(t *testing.T) {
	m := submitAndRun(t, typeText(New(context.Background(), &fakeChatter{err: errors.New("boom")}), "hi"))
	assert.Equal(t, "chat_error: boom", m.transcript[len(m.transcript)-2].text)
}
