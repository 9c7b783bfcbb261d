package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
)

// Printer renders CLI results with pterm. Everything is a no-op outside
// plain mode; JSON mode goes through JSONWriter instead.
type Printer struct {
	mode    Mode
	verbose bool
	w       io.Writer
}

// NewPrinter creates a Printer writing to w. Debug lines need verbose.
func NewPrinter(mode Mode, verbose bool, w io.Writer) *Printer {
	return &Printer{mode: mode, verbose: verbose, w: w}
}

func (p *Printer) active() bool {
	return p.mode == ModePlain
}

var debugPrefix = pterm.PrefixPrinter{
	Prefix: pterm.Prefix{
		Text:  " DEBUG ",
		Style: pterm.NewStyle(pterm.BgGray, pterm.FgWhite),
	},
}

// status prints one prefixed status line through a copy of pp.
func (p *Printer) status(pp pterm.PrefixPrinter, format string, args []interface{}) {
	if !p.active() {
		return
	}
	pp.WithWriter(p.w).Printfln(format, args...)
}

// Info, Success, Warning and Error print one status line in plain mode.
func (p *Printer) Info(format string, args ...interface{}) { p.status(pterm.Info, format, args) }

func (p *Printer) Success(format string, args ...interface{}) { p.status(pterm.Success, format, args) }

func (p *Printer) Warning(format string, args ...interface{}) { p.status(pterm.Warning, format, args) }

func (p *Printer) Error(format string, args ...interface{}) { p.status(pterm.Error, format, args) }

// Debug prints tool progress; only with --verbose.
func (p *Printer) Debug(format string, args ...interface{}) {
	if !p.verbose {
		return
	}
	p.status(debugPrefix, format, args)
}

// Header prints the banner above the config listing.
func (p *Printer) Header(text string) {
	if !p.active() {
		return
	}
	pterm.DefaultHeader.
		WithWriter(p.w).
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack, pterm.Bold)).
		Println(text)
}

// Table prints the tool catalog (or any header + rows grid).
func (p *Printer) Table(headers []string, rows [][]string) {
	if !p.active() {
		return
	}
	pterm.DefaultTable.
		WithWriter(p.w).
		WithHasHeader().
		WithData(append(pterm.TableData{headers}, rows...)).
		Render() //nolint:errcheck
}

// KeyValue prints aligned "key: value" pairs; malformed pairs are skipped.
func (p *Printer) KeyValue(pairs [][]string) {
	if !p.active() {
		return
	}
	for _, pair := range pairs {
		if len(pair) == 2 {
			fmt.Fprintf(p.w, "  %s  %s\n", pterm.LightCyan(pair[0]+":"), pair[1])
		}
	}
}

// SpinnerHandle is the "Thinking..." indicator of ask. A nil handle is valid.
type SpinnerHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Stop ends the spinner with a success line.
func (h *SpinnerHandle) Stop(msg string) {
	if h == nil || h.spinner == nil {
		return
	}
	h.spinner.Success(msg)
}

func (h *SpinnerHandle) Fail(msg string) {
	if h == nil || h.spinner == nil {
		return
	}
	h.spinner.Fail(msg)
}

// Spinner starts a spinner, or returns nil outside plain mode.
func (p *Printer) Spinner(text string) *SpinnerHandle {
	if !p.active() {
		return nil
	}
	sp, _ := pterm.DefaultSpinner.WithWriter(p.w).Start(text)
	return &SpinnerHandle{spinner: sp}
}

// ToolIcon returns a colored marker for a tool result.
func ToolIcon(isError bool) string {
	if isError {
		return pterm.Red("✖")
	}
	return pterm.Green("✔")
}

// Markdown prints a tool or chat answer. Headings are highlighted, the rest
// is printed as is.
func (p *Printer) Markdown(text string) {
	if !p.active() {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "#") {
			fmt.Fprintln(p.w, pterm.Bold.Sprint(pterm.LightCyan(strings.TrimLeft(line, "# "))))
			continue
		}
		fmt.Fprintln(p.w, line)
	}
}

// Divider separates an answer from its tools-used footer.
func (p *Printer) Divider() {
	if !p.active() {
		return
	}
	fmt.Fprintln(p.w, pterm.Gray(strings.Repeat("─", 50)))
}
