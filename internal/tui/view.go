package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("hrchat"))
	b.WriteString(subtleStyle.Render("  HR assistant"))
	b.WriteString("\n")
	b.WriteString(transcriptBorder.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m Model) renderStatus() string {
	if m.busy {
		elapsed := time.Since(m.startTime).Round(time.Second)
		status := fmt.Sprintf("thinking... %s", elapsed)
		if m.round > 0 {
			status += fmt.Sprintf(" | tool round %d", m.round)
		}
		return statusBar.Render(status)
	}
	return statusBar.Render(fmt.Sprintf("%d turn(s) | history %d message(s)", m.turns, len(m.history)))
}

func (m Model) renderTranscript() string {
	width := m.viewport.Width
	var b strings.Builder
	for _, l := range m.transcript {
		style := lineStyle(l.kind)
		for _, wrapped := range wrapText(l.text, width) {
			b.WriteString(style.Render(wrapped))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// wrapText wraps a string to fit within maxWidth display columns,
// correctly handling emoji and CJK characters.
func wrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		maxWidth = 80
	}
	if len(text) == 0 {
		return []string{""}
	}
	if runewidth.StringWidth(text) <= maxWidth {
		return []string{text}
	}

	var lines []string
	for runewidth.StringWidth(text) > maxWidth {
		// Find the byte offset that fits within maxWidth display columns
		colW := 0
		byteOff := 0
		for i, r := range text {
			rw := runewidth.RuneWidth(r)
			if colW+rw > maxWidth {
				break
			}
			colW += rw
			byteOff = i + len(string(r))
		}
		if byteOff == 0 {
			// Single character wider than maxWidth: force advance
			byteOff = len(string([]rune(text)[0]))
		}
		// Try to break on a space within the last third
		cut := byteOff
		if idx := strings.LastIndex(text[:byteOff], " "); idx > byteOff/3 {
			cut = idx
		}
		lines = append(lines, text[:cut])
		text = strings.TrimLeft(text[cut:], " ")
	}
	if text != "" {
		lines = append(lines, text)
	}
	return lines
}
