package tools

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numbers = message.NewPrinter(language.English)

// formatMoney groups thousands and only shows cents when there are any.
func formatMoney(v float64) string {
	if v == math.Trunc(v) {
		return numbers.Sprintf("%d", int64(v))
	}
	return numbers.Sprintf("%.2f", v)
}

func formatDays(v float64) string {
	if v == math.Trunc(v) {
		return numbers.Sprintf("%d", int64(v))
	}
	return numbers.Sprintf("%.1f", v)
}

// cell escapes a value for a Markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
