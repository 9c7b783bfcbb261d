package tools

import "strings"

// Source tells where a handler failure came from.
type Source string

const (
	SourceNone     Source = ""
	SourceDatabase Source = "database"
	SourceNetwork  Source = "network"
)

// Result is what every handler returns: either text blocks, or a failure
// tagged with its source. Network failures also carry the text to show
// when the failure policy renders them instead of raising.
type Result struct {
	Text   []string
	Err    error
	Source Source
}

// OK is a successful result with the given text blocks.
func OK(text ...string) Result {
	return Result{Text: text}
}

// Fail is a failed result. fallback is the text shown when the failure is
// rendered rather than raised.
func Fail(source Source, err error, fallback ...string) Result {
	return Result{Err: err, Source: source, Text: fallback}
}

// TextContent is one content entry of a tool response.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Response is the success envelope: {"content":[{"type":"text","text":...}]}.
type Response struct {
	Content []TextContent `json:"content"`
}

func newResponse(text []string) *Response {
	r := &Response{Content: make([]TextContent, 0, len(text))}
	for _, t := range text {
		r.Content = append(r.Content, TextContent{Type: "text", Text: t})
	}
	return r
}

// Text joins all content entries with newlines.
func (r *Response) Text() string {
	parts := make([]string, len(r.Content))
	for i, c := range r.Content {
		parts[i] = c.Text
	}
	return strings.Join(parts, "\n")
}
