// Package compact keeps client-supplied conversation history within a
// token budget by folding older turns into a summary.
package compact

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Turn is one prior message of a conversation.
type Turn struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	TokenEst int    `json:"token_est"`
}

// Summarizer condenses folded turns into text. It could call an LLM or use
// a simple heuristic.
type Summarizer func(turns []Turn) (string, error)

// History is the conversation before the current message.
type History struct {
	turns            []Turn
	summaries        []string
	maxTokens        int
	currentTokens    int
	compactThreshold float64 // compact above this share of maxTokens
}

// NewHistory creates a history with a budget of maxTokens. A budget of zero
// or less never compacts.
func NewHistory(maxTokens int) *History {
	return &History{
		turns:            make([]Turn, 0, 16),
		maxTokens:        maxTokens,
		compactThreshold: 0.75,
	}
}

// Add appends a turn and updates the token estimate.
func (h *History) Add(role, content string) {
	tokens := EstimateTokens(content)
	h.turns = append(h.turns, Turn{Role: role, Content: content, TokenEst: tokens})
	h.currentTokens += tokens
}

// NeedsCompaction returns true if the history is approaching the budget.
func (h *History) NeedsCompaction() bool {
	if h.maxTokens <= 0 {
		return false
	}
	return float64(h.currentTokens) > float64(h.maxTokens)*h.compactThreshold
}

// Compact folds the older turns into a summary and keeps the most recent
// quarter (at least two). The kept turns always start with a user turn.
func (h *History) Compact(summarizer Summarizer) error {
	if len(h.turns) < 4 {
		return nil
	}

	keepCount := len(h.turns) / 4
	if keepCount < 2 {
		keepCount = 2
	}
	split := len(h.turns) - keepCount
	for split < len(h.turns) && h.turns[split].Role != "user" {
		split++
	}

	summary, err := summarizer(h.turns[:split])
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	h.summaries = append(h.summaries, summary)
	h.turns = append([]Turn(nil), h.turns[split:]...)
	h.recalcTokens()
	return nil
}

// Fit compacts until the history is within budget or cannot shrink further.
func (h *History) Fit(summarizer Summarizer) error {
	for h.NeedsCompaction() {
		before := len(h.turns)
		if err := h.Compact(summarizer); err != nil {
			return err
		}
		if len(h.turns) == before {
			return nil
		}
	}
	return nil
}

// Turns returns the turns that were not folded.
func (h *History) Turns() []Turn {
	return append([]Turn(nil), h.turns...)
}

// Summary joins the summaries of folded turns, oldest first. It is empty
// when nothing was folded.
func (h *History) Summary() string {
	return strings.Join(h.summaries, "\n---\n")
}

func (h *History) Len() int {
	return len(h.turns)
}

// TokenCount returns the estimated token count, summaries included.
func (h *History) TokenCount() int {
	return h.currentTokens
}

func (h *History) recalcTokens() {
	h.currentTokens = 0
	for _, s := range h.summaries {
		h.currentTokens += EstimateTokens(s)
	}
	for _, t := range h.turns {
		h.currentTokens += t.TokenEst
	}
}

// EstimateTokens gives a rough token count (~4 chars per token).
func EstimateTokens(s string) int {
	return len(s) / 4
}

// DefaultSummarizer provides a simple extractive summary without calling an LLM.
func DefaultSummarizer(turns []Turn) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Summary of %d earlier messages:\n", len(turns))
	for _, t := range turns {
		preview := t.Content
		if utf8.RuneCountInString(preview) > 200 {
			preview = string([]rune(preview)[:200]) + "..."
		}
		fmt.Fprintf(&b, "- [%s] %s\n", t.Role, preview)
	}
	return b.String(), nil
}
