package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HexSleeves/hrchat/internal/employeeapi"
	"github.com/HexSleeves/hrchat/internal/logging"
	"github.com/HexSleeves/hrchat/internal/safety"
	"github.com/HexSleeves/hrchat/internal/store"
)

// Database is the read side of the HR store the tools need.
type Database interface {
	ListTables(ctx context.Context) ([]string, error)
	DescribeTable(ctx context.Context, table string) ([]store.Column, error)
	Query(ctx context.Context, query string, maxRows int) (*store.QueryResult, error)
	HighestPaidEmployee(ctx context.Context) (*store.HighestPaid, error)
	ContractHistory(ctx context.Context) ([]store.Contract, error)
}

// Directory is the employee lookup service.
type Directory interface {
	GetByID(ctx context.Context, id int64) (*employeeapi.EnrichedEmployee, error)
	SearchByName(ctx context.Context, term string) (*employeeapi.Page[employeeapi.EmployeeSummary], error)
}

type Deps struct {
	DB        Database
	Guard     *safety.Guard
	Directory Directory
	// MaxRows caps run_query results; 0 means unlimited.
	MaxRows int
	// Now is the clock for promotion gaps. Defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

type handlers struct {
	db        Database
	guard     *safety.Guard
	directory Directory
	maxRows   int
	now       func() time.Time
	logger    *slog.Logger
}

// Catalog returns the HR tools in their published order.
func Catalog(deps Deps) []Tool {
	h := &handlers{
		db:        deps.DB,
		guard:     deps.Guard,
		directory: deps.Directory,
		maxRows:   deps.MaxRows,
		now:       deps.Now,
		logger:    deps.Logger,
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.logger == nil {
		h.logger = logging.Discard()
	}

	return []Tool{
		{
			Spec:    noArgs("get_glossary", "Returns a glossary of business terms and their definitions related to the HR database"),
			Handler: h.getGlossary,
		},
		{
			Spec:    noArgs("show_tables", "Shows all tables available in the database"),
			Handler: h.showTables,
		},
		{
			Spec: mcp.Tool{
				Name:        "describe_table",
				Description: "Describes the structure and fields of a specific table",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"table_name": map[string]interface{}{
							"type":        "string",
							"description": "The name of the table to describe",
						},
					},
					Required: []string{"table_name"},
				},
			},
			Handler: h.describeTable,
		},
		{
			Spec: mcp.Tool{
				Name:        "run_query",
				Description: "Executes a SELECT query to retrieve data insights. Only SELECT statements are allowed.",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"query": map[string]interface{}{
							"type":        "string",
							"description": "The SELECT SQL query to execute",
						},
					},
					Required: []string{"query"},
				},
			},
			Handler: h.runQuery,
		},
		{
			Spec:    noArgs("get_highest_paid_employee", "Returns information about the highest paid employee in the company"),
			Handler: h.highestPaidEmployee,
		},
		{
			Spec: limitTool("promotion_gap",
				"List employees ordered by time since their last promotion (or first contract if never promoted). Useful for finding employees longest without promotion.",
				"How many employees to return (default 10)."),
			Handler: h.promotionGap,
		},
		{
			Spec: limitTool("recent_promotions",
				"List the most recently promoted employees, ordered by promotion date descending.",
				"How many recent promotions to return (default 5)."),
			Handler: h.recentPromotions,
		},
		{
			Spec:    noArgs("avg_promotion_interval", "Calculate the average number of days between promotions across all employees."),
			Handler: h.avgPromotionInterval,
		},
		{
			Spec: mcp.Tool{
				Name:        "get_employee_by_id",
				Description: "Fetch detailed employee info by ID.",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"id": map[string]interface{}{
							"type":        "integer",
							"description": "The employee ID",
						},
					},
					Required: []string{"id"},
				},
			},
			Handler: h.employeeByID,
		},
		{
			Spec: mcp.Tool{
				Name:        "search_employees_by_name",
				Description: "Search for employees by partial or full name.",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"name": map[string]interface{}{
							"type":        "string",
							"description": "The name to search for",
						},
					},
					Required: []string{"name"},
				},
			},
			Handler: h.searchEmployeesByName,
		},
	}
}

func noArgs(name, description string) mcp.Tool {
	return mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

func limitTool(name, description, limitDescription string) mcp.Tool {
	return mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": limitDescription,
					"minimum":     1,
				},
			},
		},
	}
}
