package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HexSleeves/hrchat/internal/employeeapi"
)

func (h *handlers) employeeByID(ctx context.Context, args Args) Result {
	var in struct {
		ID int64 `json:"id"`
	}
	if err := args.Decode(&in); err != nil {
		return invalidArgs("get_employee_by_id", err)
	}

	emp, err := h.directory.GetByID(ctx, in.ID)
	if errors.Is(err, employeeapi.ErrNotFound) {
		return OK(fmt.Sprintf("No employee found with ID %d.", in.ID))
	}
	if err != nil {
		return Fail(SourceNetwork, err,
			fmt.Sprintf("Could not fetch employee %d from the employee service: %v", in.ID, err))
	}

	salary := "N/A"
	if emp.Salary != nil {
		salary = formatMoney(*emp.Salary)
	}
	return OK(fmt.Sprintf(`# Employee %d

**Name**: %s
**Date of Birth**: %s
**Department**: %s
**Job Title**: %s
**Salary**: %s`,
		emp.ID, fullName(emp.FirstName, emp.LastName), emp.DateOfBirth,
		orNA(emp.DepartmentName), orNA(emp.JobTitle), salary))
}

func (h *handlers) searchEmployeesByName(ctx context.Context, args Args) Result {
	var in struct {
		Name string `json:"name"`
	}
	if err := args.Decode(&in); err != nil {
		return invalidArgs("search_employees_by_name", err)
	}
	name := strings.TrimSpace(in.Name)

	page, err := h.directory.SearchByName(ctx, name)
	if err != nil && !errors.Is(err, employeeapi.ErrNotFound) {
		return Fail(SourceNetwork, err,
			fmt.Sprintf("Could not search the employee service for %q: %v", name, err))
	}
	if err != nil || len(page.Data) == 0 {
		return OK(fmt.Sprintf("No employees found matching %q.", name))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Employees matching %q\n\n", name)
	for _, e := range page.Data {
		fmt.Fprintf(&b, "- **%s** (ID: %d", fullName(e.FirstName, e.LastName), e.ID)
		if e.Email != "" {
			b.WriteString(", " + e.Email)
		}
		b.WriteString(")\n")
	}
	if page.TotalResults > int64(len(page.Data)) {
		fmt.Fprintf(&b, "\nShowing %d of %d matches.", len(page.Data), page.TotalResults)
	}
	return OK(strings.TrimRight(b.String(), "\n"))
}
