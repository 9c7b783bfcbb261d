package store

import (
	"context"
	"database/sql"
	"fmt"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS departments (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS employees (
	id            INTEGER PRIMARY KEY,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL,
	date_of_birth DATE NOT NULL
);

CREATE TABLE IF NOT EXISTS contracts (
	id            INTEGER PRIMARY KEY,
	employee_id   INTEGER NOT NULL REFERENCES employees(id),
	department_id INTEGER NOT NULL REFERENCES departments(id),
	job_title     TEXT NOT NULL,
	salary        DECIMAL(10,2) NOT NULL,
	start_date    DATE NOT NULL,
	end_date      DATE,
	is_active     INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_contracts_employee ON contracts(employee_id);
`

var seedDepartments = []struct {
	id   int
	name string
}{
	{1, "Engineering"},
	{2, "Sales"},
	{3, "Human Resources"},
	{4, "Finance"},
}

var seedEmployees = []struct {
	id                 int
	first, last, birth string
}{
	{1, "Ada", "Lovelace", "1985-12-10"},
	{2, "Grace", "Hopper", "1979-06-09"},
	{3, "Alan", "Turing", "1990-06-23"},
	{4, "Katherine", "Johnson", "1988-08-26"},
	{5, "Linus", "Torvalds", "1992-12-28"},
	{6, "Margaret", "Hamilton", "1986-08-17"},
}

var seedContracts = []struct {
	id, employee, department int
	title                    string
	salary                   float64
	start                    string
	end                      any
	active                   int
}{
	{1, 1, 1, "Software Engineer", 85000, "2018-03-01", "2020-02-29", 0},
	{2, 1, 1, "Senior Software Engineer", 105000, "2020-03-01", "2023-06-30", 0},
	{3, 1, 1, "Staff Engineer", 130000, "2023-07-01", nil, 1},
	{4, 2, 4, "Financial Analyst", 70000, "2017-01-15", "2021-12-31", 0},
	{5, 2, 4, "Finance Manager", 98000, "2022-01-01", nil, 1},
	{6, 3, 1, "Data Scientist", 95000, "2021-05-10", nil, 1},
	{7, 4, 2, "Sales Associate", 52000, "2016-09-01", "2019-08-31", 0},
	{8, 4, 2, "Account Executive", 50000, "2019-09-01", "2022-03-31", 0},
	{9, 4, 2, "Sales Manager", 88000, "2022-04-01", nil, 1},
	{10, 5, 3, "HR Generalist", 61000, "2019-11-04", nil, 1},
	{11, 6, 1, "Engineering Manager", 142000, "2015-02-02", nil, 1},
}

// Seed creates (or opens) the SQLite database at path, creates the HR schema
// and loads the demo data when the tables are empty.
func Seed(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", sqliteDSN(path, false))
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	return SeedDB(ctx, db)
}

// SeedDB applies the schema and demo rows to an open SQLite pool.
func SeedDB(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM employees").Scan(&n); err != nil {
		return fmt.Errorf("count employees: %w", err)
	}
	if n > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, d := range seedDepartments {
		if _, err := tx.ExecContext(ctx, "INSERT INTO departments (id, name) VALUES (?, ?)", d.id, d.name); err != nil {
			return fmt.Errorf("insert department %d: %w", d.id, err)
		}
	}
	for _, e := range seedEmployees {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO employees (id, first_name, last_name, date_of_birth) VALUES (?, ?, ?, ?)",
			e.id, e.first, e.last, e.birth); err != nil {
			return fmt.Errorf("insert employee %d: %w", e.id, err)
		}
	}
	for _, c := range seedContracts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO contracts (id, employee_id, department_id, job_title, salary, start_date, end_date, is_active)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.id, c.employee, c.department, c.title, c.salary, c.start, c.end, c.active); err != nil {
			return fmt.Errorf("insert contract %d: %w", c.id, err)
		}
	}
	return tx.Commit()
}
