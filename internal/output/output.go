// Package output renders CLI results either as styled terminal text (pterm)
// or as newline-delimited JSON for scripting.
package output

// Mode represents the output mode.
type Mode int

const (
	// ModeTUI is the interactive terminal UI mode (repl on a TTY).
	ModeTUI Mode = iota
	// ModePlain is styled line output.
	ModePlain
	// ModeJSON is newline-delimited JSON on stdout.
	ModeJSON
	// ModeQuiet suppresses everything except results.
	ModeQuiet
)

func (m Mode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModePlain:
		return "plain"
	case ModeJSON:
		return "json"
	case ModeQuiet:
		return "quiet"
	}
	return "unknown"
}

// DetectMode picks the mode for a command. JSON wins over everything;
// interactive commands get the TUI only on a terminal.
func DetectMode(jsonFlag, interactive, isTTY bool) Mode {
	switch {
	case jsonFlag:
		return ModeJSON
	case interactive && isTTY:
		return ModeTUI
	default:
		return ModePlain
	}
}
