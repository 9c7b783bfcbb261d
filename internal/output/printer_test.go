package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/HexSleeves/hrchat/internal/bus"
)

func TestPrinterActiveOnlyInPlainMode(t *testing.T) {
	t.Helper()

	modes := []struct {
		mode   Mode
		name   string
		active bool
	}{
		{ModePlain, "plain", true},
		{ModeTUI, "tui", false},
		{ModeJSON, "json", false},
		{ModeQuiet, "quiet", false},
	}

	for _, m := range modes {
		t.Run(m.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrinter(m.mode, false, &buf)
			p.Info("hello %s", "world")
			hasOutput := buf.Len() > 0
			if hasOutput != m.active {
				t.Errorf("mode=%s: expected active=%v, got output=%v (len=%d)",
					m.name, m.active, hasOutput, buf.Len())
			}
		})
	}
}

func TestPrinterDebugRequiresVerbose(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(ModePlain, false, &buf)
	p.Debug("hidden")
	if buf.Len() > 0 {
		t.Error("Debug printed without verbose")
	}

	buf.Reset()
	p2 := NewPrinter(ModePlain, true, &buf)
	p2.Debug("shown")
	if buf.Len() == 0 {
		t.Error("Debug did not print with verbose")
	}
}

func TestPrinterTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(ModePlain, false, &buf)
	p.Table(
		[]string{"Name", "Description"},
		[][]string{
			{"show_tables", "Shows all tables"},
			{"run_query", "Executes a SELECT query"},
		},
	)
	out := buf.String()
	if len(out) == 0 {
		t.Error("Table produced no output")
	}
	// Should contain both data values
	if !bytes.Contains(buf.Bytes(), []byte("show_tables")) {
		t.Error("Table missing show_tables")
	}
	if !bytes.Contains(buf.Bytes(), []byte("run_query")) {
		t.Error("Table missing run_query")
	}
}

func TestPrinterKeyValue(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(ModePlain, false, &buf)
	p.KeyValue([][]string{
		{"Tools used", "promotion_gap, get_employee_by_id"},
		{"Chat", "abc123"},
	})
	out := buf.String()
	if len(out) == 0 {
		t.Error("KeyValue produced no output")
	}
}

func TestToolIcon(t *testing.T) {
	if ToolIcon(true) == ToolIcon(false) {
		t.Error("error and success icons must differ")
	}
}

func TestSpinnerNilSafe(t *testing.T) {
	// Outside plain mode Spinner returns nil; Stop and Fail must not panic.
	p := NewPrinter(ModeQuiet, false, &bytes.Buffer{})
	sp := p.Spinner("test")
	sp.Stop("done") // should not panic
	sp.Fail("oops") // should not panic
}

func TestPrinterMarkdown(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(ModePlain, false, &buf)
	p.Markdown("# Available Tables\n\ncontracts\nemployees")
	out := buf.String()
	if !strings.Contains(out, "Available Tables") || strings.Contains(out, "# Available") {
		t.Errorf("heading not rendered: %q", out)
	}
	if !strings.Contains(out, "contracts\nemployees\n") {
		t.Errorf("body lines missing: %q", out)
	}
}

func TestPrinterProgressIsVerboseOnly(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(ModePlain, false, &buf).Progress(bus.Message{Type: bus.MsgToolCalled, Tool: "show_tables"})
	if buf.Len() > 0 {
		t.Error("Progress printed without verbose")
	}

	NewPrinter(ModePlain, true, &buf).Progress(bus.Message{
		Type:    bus.MsgToolResult,
		Tool:    "show_tables",
		Payload: bus.ToolResultPayload{Duration: 3 * time.Millisecond},
	})
	if !strings.Contains(buf.String(), "show_tables") {
		t.Errorf("Progress output = %q", buf.String())
	}
}

func TestPrinterDivider(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(ModePlain, false, &buf)
	p.Divider()
	if buf.Len() == 0 {
		t.Error("Divider produced no output")
	}
}
