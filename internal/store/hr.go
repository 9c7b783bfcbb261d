package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// HighestPaid is the employee holding the best-paid active contract.
type HighestPaid struct {
	ID          int64
	FirstName   string
	LastName    string
	DateOfBirth string
	Department  string
	JobTitle    string
	Salary      float64
}

const highestPaidQuery = `
SELECT e.id, e.first_name, e.last_name, e.date_of_birth, d.name, c.job_title, c.salary
FROM employees e
JOIN contracts c ON e.id = c.employee_id
JOIN departments d ON d.id = c.department_id
WHERE c.is_active = 1
ORDER BY c.salary DESC, e.id ASC
LIMIT 1`

// HighestPaidEmployee returns nil, nil when there are no active contracts.
func (s *Store) HighestPaidEmployee(ctx context.Context) (*HighestPaid, error) {
	var (
		h   HighestPaid
		dob any
	)
	err := s.db.QueryRowContext(ctx, highestPaidQuery).
		Scan(&h.ID, &h.FirstName, &h.LastName, &dob, &h.Department, &h.JobTitle, &h.Salary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("highest paid employee: %w", err)
	}
	h.DateOfBirth = asDateString(dob)
	return &h, nil
}

// Contract is one contract row joined with its employee and department.
type Contract struct {
	ID         int64
	EmployeeID int64
	FirstName  string
	LastName   string
	JobTitle   string
	Department string
	Salary     float64
	StartDate  time.Time
}

const contractHistoryQuery = `
SELECT c.id, c.employee_id, e.first_name, e.last_name, c.job_title, d.name, c.salary, c.start_date
FROM contracts c
JOIN employees e ON e.id = c.employee_id
LEFT JOIN departments d ON d.id = c.department_id
ORDER BY c.employee_id, c.start_date, c.id`

// ContractHistory returns every contract, grouped by employee and ordered by
// start date. Promotion analytics are computed from it.
func (s *Store) ContractHistory(ctx context.Context) ([]Contract, error) {
	rows, err := s.db.QueryContext(ctx, contractHistoryQuery)
	if err != nil {
		return nil, fmt.Errorf("contract history: %w", err)
	}
	defer rows.Close()

	var out []Contract
	for rows.Next() {
		var (
			c     Contract
			dept  sql.NullString
			start any
		)
		if err := rows.Scan(&c.ID, &c.EmployeeID, &c.FirstName, &c.LastName, &c.JobTitle, &dept, &c.Salary, &start); err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		c.Department = dept.String
		if c.StartDate, err = asTime(start); err != nil {
			return nil, fmt.Errorf("contract %d start_date: %w", c.ID, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
