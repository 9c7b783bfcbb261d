package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorTeal    = lipgloss.Color("#2A9D8F")
	colorSand    = lipgloss.Color("#E9C46A")
	colorDimGray = lipgloss.Color("#555555")
	colorGreen   = lipgloss.Color("#50C878")
	colorRed     = lipgloss.Color("#FF6B6B")
	colorCyan    = lipgloss.Color("#88C0D0")
	colorWhite   = lipgloss.Color("#E6E6E6")
	colorSubtle  = lipgloss.Color("#888888")
)

var (
	transcriptBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorTeal).
				Padding(0, 1)

	statusBar = lipgloss.NewStyle().
			Foreground(colorSand).
			Bold(true).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorTeal).
			Bold(true)

	subtleStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	userStyle = lipgloss.NewStyle().
			Foreground(colorSand).
			Bold(true)

	answerStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	toolCallStyle = lipgloss.NewStyle().
			Foreground(colorCyan)

	toolResultStyle = lipgloss.NewStyle().
			Foreground(colorDimGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	successStyle = lipgloss.NewStyle().
			Foreground(colorGreen)
)

// lineStyles maps transcript line kinds to their style.
var lineStyles = map[string]lipgloss.Style{
	"user":   userStyle,
	"answer": answerStyle,
	"tool":   toolCallStyle,
	"result": toolResultStyle,
	"ok":     successStyle,
	"error":  errorStyle,
	"info":   subtleStyle,
}

func lineStyle(kind string) lipgloss.Style {
	if s, ok := lineStyles[kind]; ok {
		return s
	}
	return subtleStyle
}
