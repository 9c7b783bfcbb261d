package tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, Args) Result { return OK("ok") }

func TestCatalogOrder(t *testing.T) {
	reg, err := NewRegistry(Catalog(Deps{})...)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"get_glossary",
		"show_tables",
		"describe_table",
		"run_query",
		"get_highest_paid_employee",
		"promotion_gap",
		"recent_promotions",
		"avg_promotion_interval",
		"get_employee_by_id",
		"search_employees_by_name",
	}, reg.Names())
}

func TestCatalogSchemas(t *testing.T) {
	reg, err := NewRegistry(Catalog(Deps{})...)
	require.NoError(t, err)

	required := map[string][]string{
		"describe_table":           {"table_name"},
		"run_query":                {"query"},
		"get_employee_by_id":       {"id"},
		"search_employees_by_name": {"name"},
	}
	for _, d := range reg.Descriptors() {
		assert.NotEmpty(t, d.Description, d.Name)
		assert.Equal(t, "object", d.InputSchema.Type, d.Name)
		assert.NotNil(t, d.InputSchema.Properties, d.Name)
		assert.Equal(t, required[d.Name], nilIfEmpty(d.InputSchema.Required), d.Name)
	}

	gap, ok := reg.Lookup("promotion_gap")
	require.True(t, ok)
	limit := gap.Spec.InputSchema.Properties["limit"].(map[string]interface{})
	assert.Equal(t, "integer", limit["type"])
	assert.Equal(t, 1, limit["minimum"])
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestNewRegistryRejectsBadTools(t *testing.T) {
	named := func(n string) mcp.Tool { return mcp.Tool{Name: n} }

	_, err := NewRegistry(Tool{Spec: named(""), Handler: noop})
	assert.Error(t, err)

	_, err = NewRegistry(Tool{Spec: named("a")})
	assert.Error(t, err)

	_, err = NewRegistry(Tool{Spec: named("a"), Handler: noop}, Tool{Spec: named("a"), Handler: noop})
	assert.ErrorContains(t, err, "duplicate")
}

func TestDefinitions(t *testing.T) {
	reg, err := NewRegistry(Catalog(Deps{})...)
	require.NoError(t, err)

	defs := reg.Definitions()
	require.Len(t, defs, reg.Len())
	for i, d := range defs {
		assert.Equal(t, i == len(defs)-1, d.Cache, d.Name)
		assert.Equal(t, "object", d.InputSchema["type"])
	}

	assert.Equal(t, "run_query", defs[3].Name)
	assert.Equal(t, []string{"query"}, defs[3].InputSchema["required"])
	_, hasRequired := defs[0].InputSchema["required"]
	assert.False(t, hasRequired)
}
