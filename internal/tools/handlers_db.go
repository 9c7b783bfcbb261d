package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	hrerrors "github.com/HexSleeves/hrchat/internal/errors"
)

func (h *handlers) getGlossary(ctx context.Context, _ Args) Result {
	return OK(glossaryText())
}

func (h *handlers) showTables(ctx context.Context, _ Args) Result {
	tables, err := h.db.ListTables(ctx)
	if err != nil {
		return Fail(SourceDatabase, err)
	}
	return OK("# Available Tables\n\n" + strings.Join(tables, "\n"))
}

func (h *handlers) describeTable(ctx context.Context, args Args) Result {
	var in struct {
		TableName string `json:"table_name"`
	}
	if err := args.Decode(&in); err != nil {
		return invalidArgs("describe_table", err)
	}
	if err := h.guard.CheckTable(in.TableName); err != nil {
		return Fail(SourceNone, err)
	}

	cols, err := h.db.DescribeTable(ctx, in.TableName)
	if err != nil {
		return Fail(SourceDatabase, err)
	}

	lines := make([]string, len(cols))
	for i, c := range cols {
		var b strings.Builder
		fmt.Fprintf(&b, "- **%s** (%s): ", c.Field, c.Type)
		if c.Nullable {
			b.WriteString("Nullable")
		} else {
			b.WriteString("Not Null")
		}
		if c.Key != "" {
			b.WriteString(", Key: " + c.Key)
		}
		if c.Extra != "" {
			b.WriteString(", " + c.Extra)
		}
		lines[i] = b.String()
	}
	return OK(fmt.Sprintf("# Table: %s\n\n%s", in.TableName, strings.Join(lines, "\n")))
}

func (h *handlers) runQuery(ctx context.Context, args Args) Result {
	var in struct {
		Query string `json:"query"`
	}
	if err := args.Decode(&in); err != nil {
		return invalidArgs("run_query", err)
	}
	if err := h.guard.CheckQuery(in.Query); err != nil {
		return Fail(SourceNone, err)
	}

	h.logger.Info("running query", "query", strings.TrimSpace(in.Query))
	res, err := h.db.Query(ctx, in.Query, h.maxRows)
	if err != nil {
		return Fail(SourceDatabase, err)
	}

	data, err := json.MarshalIndent(res.Rows, "", "  ")
	if err != nil {
		return Fail(SourceNone, fmt.Errorf("encode rows: %w", err))
	}
	text := "# Query Results\n\n```json\n" + string(data) + "\n```"
	if res.Truncated {
		text += fmt.Sprintf("\n\nOnly the first %d rows are shown. Narrow the query to see the rest.", h.maxRows)
	}
	return OK(text)
}

func (h *handlers) highestPaidEmployee(ctx context.Context, _ Args) Result {
	emp, err := h.db.HighestPaidEmployee(ctx)
	if err != nil {
		return Fail(SourceDatabase, err)
	}
	if emp == nil {
		return OK("No employees found in the database.")
	}
	return OK(fmt.Sprintf(`# Highest Paid Employee

**Name**: %s
**Employee ID**: %d
**Date of Birth**: %s
**Department**: %s
**Job Title**: %s
**Salary**: %s`,
		fullName(emp.FirstName, emp.LastName), emp.ID, emp.DateOfBirth,
		emp.Department, emp.JobTitle, formatMoney(emp.Salary)))
}

func invalidArgs(tool string, err error) Result {
	return Fail(SourceNone, hrerrors.Wrap(hrerrors.CodeInvalidRequest, err,
		fmt.Sprintf("invalid arguments for %s: %v", tool, err)))
}
