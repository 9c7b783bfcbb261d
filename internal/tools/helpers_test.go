package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HexSleeves/hrchat/internal/config"
	"github.com/HexSleeves/hrchat/internal/employeeapi"
	"github.com/HexSleeves/hrchat/internal/safety"
	"github.com/HexSleeves/hrchat/internal/store"
)

var fixedNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

type fakeDirectory struct {
	byID    map[int64]*employeeapi.EnrichedEmployee
	results []employeeapi.EmployeeSummary
	total   int64
	err     error
	terms   []string
}

func (f *fakeDirectory) GetByID(_ context.Context, id int64) (*employeeapi.EnrichedEmployee, error) {
	if f.err != nil {
		return nil, f.err
	}
	emp, ok := f.byID[id]
	if !ok {
		return nil, employeeapi.ErrNotFound
	}
	return emp, nil
}

func (f *fakeDirectory) SearchByName(_ context.Context, term string) (*employeeapi.Page[employeeapi.EmployeeSummary], error) {
	f.terms = append(f.terms, term)
	if f.err != nil {
		return nil, f.err
	}
	total := f.total
	if total == 0 {
		total = int64(len(f.results))
	}
	return &employeeapi.Page[employeeapi.EmployeeSummary]{
		CurrentPage:  1,
		TotalResults: total,
		Data:         f.results,
	}, nil
}

func strPtr(s string) *string { return &s }

func seededDB(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hr.db")
	require.NoError(t, store.Seed(context.Background(), path))
	s, err := store.Open(context.Background(), config.DatabaseConfig{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// newTestExecutor wires the full catalog over a seeded database.
func newTestExecutor(t *testing.T, dir Directory, policy FailurePolicy) *Executor {
	t.Helper()
	if dir == nil {
		dir = &fakeDirectory{}
	}
	reg, err := NewRegistry(Catalog(Deps{
		DB:        seededDB(t),
		Guard:     safety.NewGuard(config.DefaultConfig().Safety),
		Directory: dir,
		MaxRows:   3,
		Now:       func() time.Time { return fixedNow },
	})...)
	require.NoError(t, err)
	return NewExecutor(reg, policy, nil)
}

// historyDB serves a fixed contract history and nothing else.
type historyDB struct {
	Database
	contracts []store.Contract
}

func (h historyDB) ContractHistory(context.Context) ([]store.Contract, error) {
	return h.contracts, nil
}

// promotedStaff builds n employees who each got one raise, the i-th on a
// different day in 2020.
func promotedStaff(n int) []store.Contract {
	var out []store.Contract
	for i := 1; i <= n; i++ {
		id := int64(i)
		hired := time.Date(2015, 1, i, 0, 0, 0, 0, time.UTC)
		out = append(out,
			store.Contract{ID: 2*id - 1, EmployeeID: id, FirstName: "Emp", LastName: fmt.Sprint(i), JobTitle: "Analyst", Department: "Finance", Salary: 50000, StartDate: hired},
			store.Contract{ID: 2 * id, EmployeeID: id, FirstName: "Emp", LastName: fmt.Sprint(i), JobTitle: "Senior Analyst", Department: "Finance", Salary: 60000, StartDate: hired.AddDate(5, 0, 0)},
		)
	}
	return out
}

// newHistoryExecutor wires the catalog over a fake contract history.
func newHistoryExecutor(t *testing.T, contracts []store.Contract) *Executor {
	t.Helper()
	reg, err := NewRegistry(Catalog(Deps{
		DB:        historyDB{contracts: contracts},
		Guard:     safety.NewGuard(config.DefaultConfig().Safety),
		Directory: &fakeDirectory{},
		Now:       func() time.Time { return fixedNow },
	})...)
	require.NoError(t, err)
	return NewExecutor(reg, PolicyRender, nil)
}
