package mcpserver

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hrerrors "github.com/HexSleeves/hrchat/internal/errors"
	"github.com/HexSleeves/hrchat/internal/tools"
)

func newServer(t *testing.T) *MCPServer {
	t.Helper()
	reg, err := tools.NewRegistry(
		tools.Tool{
			Spec: mcp.Tool{Name: "run_query", InputSchema: mcp.ToolInputSchema{
				Type:     "object",
				Required: []string{"query"},
			}},
			Handler: func(_ context.Context, a tools.Args) tools.Result {
				if a["query"] != "SELECT 1" {
					return tools.Fail(tools.SourceNone, hrerrors.New(hrerrors.CodeRejectedQuery, "Only SELECT queries are allowed"))
				}
				return tools.OK("# Query Results", "[1]")
			},
		},
	)
	require.NoError(t, err)
	return New(context.Background(), tools.NewExecutor(reg, tools.PolicyRender, nil), "test", nil)
}

func TestHandlerSuccess(t *testing.T) {
	res, err := newServer(t).handler("run_query")(map[string]interface{}{"query": "SELECT 1"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{
		mcp.TextContent{Type: "text", Text: "# Query Results"},
		mcp.TextContent{Type: "text", Text: "[1]"},
	}, res.Content)
}

func TestHandlerErrors(t *testing.T) {
	s := newServer(t)

	_, err := s.handler("run_query")(map[string]interface{}{"query": "DELETE FROM employees"})
	assert.EqualError(t, err, "rejected_query: Only SELECT queries are allowed")

	_, err = s.handler("run_query")(nil)
	assert.EqualError(t, err, "invalid_request: query argument is required")

	_, err = s.handler("nope")(nil)
	assert.EqualError(t, err, "tool_not_found: Tool 'nope' not found")
}
