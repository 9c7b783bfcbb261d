package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HexSleeves/hrchat/internal/chat"
	hrerrors "github.com/HexSleeves/hrchat/internal/errors"
	"github.com/HexSleeves/hrchat/internal/output"
	"github.com/HexSleeves/hrchat/internal/store"
)

// setupWorkspace seeds a demo database and writes a config pointing at it.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	for _, key := range []string{"DB_DRIVER", "DB_PATH", "LLM_PROVIDER", "ANTHROPIC_API_KEY", "OPENAI_API_KEY", "PORT", "DB_PORT", "HRCHAT_MAX_ROUNDS"} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "hr.db")
	require.NoError(t, store.Seed(context.Background(), dbPath))

	cfg := map[string]any{
		"database": map[string]any{"driver": "sqlite", "path": dbPath},
		"logging":  map[string]any{"level": "error"},
	}
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	cfgPath := filepath.Join(dir, "hrchat.json")
	require.NoError(t, os.WriteFile(cfgPath, data, 0644))
	return cfgPath
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	err := app.Run(context.Background(), append([]string{"hrchat"}, args...))
	return buf.String(), err
}

func TestParseToolArgs(t *testing.T) {
	args, err := parseToolArgs(`{"query":"SELECT 1","limit":2}`, []string{"limit=5", "name=Ada Lovelace", "flag=true"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", args["query"])
	assert.Equal(t, float64(5), args["limit"])
	assert.Equal(t, "Ada Lovelace", args["name"])
	assert.Equal(t, true, args["flag"])

	args, err = parseToolArgs("", nil)
	require.NoError(t, err)
	assert.Empty(t, args)

	_, err = parseToolArgs("[1,2]", nil)
	assert.Error(t, err)

	_, err = parseToolArgs("", []string{"novalue"})
	assert.Error(t, err)
}

func TestToolsCallShowTables(t *testing.T) {
	cfgPath := setupWorkspace(t)

	out, err := runApp(t, "--config", cfgPath, "tools", "call", "show_tables")
	require.NoError(t, err)
	assert.Contains(t, out, "Available Tables")
	assert.Contains(t, out, "employees")
	assert.Contains(t, out, "contracts")
}

func TestToolsCallJSON(t *testing.T) {
	cfgPath := setupWorkspace(t)

	out, err := runApp(t, "--config", cfgPath, "--json", "tools", "call", "--arg", "table_name=departments", "describe_table")
	require.NoError(t, err)

	var event struct {
		Type string `json:"type"`
		Data struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &event))
	assert.Equal(t, "tool_result", event.Type)
	require.Len(t, event.Data.Content, 1)
	assert.Contains(t, event.Data.Content[0].Text, "# Table: departments")
}

func TestToolsCallErrors(t *testing.T) {
	cfgPath := setupWorkspace(t)

	_, err := runApp(t, "--config", cfgPath, "tools", "call", "no_such_tool")
	require.Error(t, err)
	assert.Equal(t, hrerrors.CodeToolNotFound, hrerrors.CodeOf(err, ""))

	out, err := runApp(t, "--config", cfgPath, "--json", "tools", "call", "--arg", "query=DELETE FROM employees", "run_query")
	require.Error(t, err)
	assert.Equal(t, hrerrors.CodeRejectedQuery, hrerrors.CodeOf(err, ""))
	assert.Contains(t, out, `"type":"error"`)
	assert.Contains(t, out, `"code":"rejected_query"`)

	_, err = runApp(t, "--config", cfgPath, "tools", "call")
	assert.Error(t, err)
}

func TestToolsList(t *testing.T) {
	cfgPath := setupWorkspace(t)

	out, err := runApp(t, "--config", cfgPath, "tools", "list")
	require.NoError(t, err)
	for _, name := range []string{"get_glossary", "run_query", "search_employees_by_name"} {
		assert.Contains(t, out, name)
	}

	out, err = runApp(t, "--config", cfgPath, "--json", "tools", "list")
	require.NoError(t, err)
	var event struct {
		Type string            `json:"type"`
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &event))
	assert.Equal(t, "tools", event.Type)
	assert.Len(t, event.Data, 10)
}

func TestAskWithoutAPIKey(t *testing.T) {
	cfgPath := setupWorkspace(t)

	_, err := runApp(t, "--config", cfgPath, "ask", "who earns the most?")
	require.Error(t, err)
	assert.Equal(t, hrerrors.CodeChat, hrerrors.CodeOf(err, ""))

	_, err = runApp(t, "--config", cfgPath, "ask")
	assert.Error(t, err)
}

func TestSeedAndInit(t *testing.T) {
	t.Setenv("DB_PATH", "")
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "demo.db")
	cfgPath := filepath.Join(dir, "hrchat.yaml")

	out, err := runApp(t, "--config", cfgPath, "seed", "--path", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, dbPath)
	_, err = os.Stat(dbPath)
	require.NoError(t, err)

	_, err = runApp(t, "--config", cfgPath, "init")
	require.NoError(t, err)
	_, err = runApp(t, "--config", cfgPath, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	_, err = runApp(t, "--config", cfgPath, "init", "--force")
	assert.NoError(t, err)
}

func TestConfigMasksSecrets(t *testing.T) {
	cfgPath := setupWorkspace(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-1234567890abcdef")

	out, err := runApp(t, "--config", cfgPath, "--json", "config")
	require.NoError(t, err)
	assert.NotContains(t, out, "sk-ant-1234567890abcdef")
	assert.Contains(t, out, "sk-a****cdef")
}

type fakeChatter struct {
	histories [][]chat.HistoryMessage
	fail      map[string]error
}

func (f *fakeChatter) Chat(ctx context.Context, message string, history []chat.HistoryMessage) (*chat.Result, error) {
	f.histories = append(f.histories, append([]chat.HistoryMessage(nil), history...))
	if err := f.fail[message]; err != nil {
		return nil, err
	}
	return &chat.Result{Response: "answer to " + message, ToolsUsed: []string{}}, nil
}

func TestLineReplKeepsHistory(t *testing.T) {
	chatter := &fakeChatter{fail: map[string]error{
		"broken": hrerrors.New(hrerrors.CodeLoopExceeded, "too many tool rounds"),
	}}
	in := strings.NewReader("first\n\nbroken\nsecond\nexit\nnever\n")
	var out bytes.Buffer
	tp := &turnPrinter{json: output.NewJSONWriter(&out)}

	require.NoError(t, runLineRepl(context.Background(), chatter, in, tp, &out, false))

	require.Len(t, chatter.histories, 3)
	assert.Empty(t, chatter.histories[0])
	// The failed turn is not added to the history.
	assert.Len(t, chatter.histories[1], 2)
	assert.Equal(t, []chat.HistoryMessage{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "answer to first"},
	}, chatter.histories[2])

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"type":"chat_result"`)
	assert.Contains(t, lines[1], `"code":"loop_exceeded"`)
	assert.Contains(t, lines[2], "answer to second")
}

func TestLineReplStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	chatter := &fakeChatter{fail: map[string]error{"q": context.Canceled}}
	tp := &turnPrinter{json: output.NewJSONWriter(&bytes.Buffer{})}

	err := runLineRepl(ctx, chatter, strings.NewReader("q\n"), tp, &bytes.Buffer{}, false)
	assert.True(t, errors.Is(err, context.Canceled))
}
