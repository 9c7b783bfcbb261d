package promotion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HexSleeves/hrchat/internal/store"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func contract(id, emp int64, name string, salary float64, start string) store.Contract {
	return store.Contract{
		ID: id, EmployeeID: emp, FirstName: name, LastName: "Test",
		JobTitle: "Title " + name, Department: "Dept", Salary: salary, StartDate: day(start),
	}
}

// history:
//
//	emp 1: 100 (2024-01-01) -> 110 (2024-01-11) -> 150 (2024-01-31)
//	emp 2: 200 (2024-01-01) -> 180 (2024-02-01)   pay cut, no promotion
//	emp 3: 300 (2024-01-21)                       single contract
//	emp 4: 400 (2024-01-01) -> 500 (2024-01-06)
func fixture() []store.Contract {
	// deliberately unsorted
	return []store.Contract{
		contract(3, 1, "Ana", 150, "2024-01-31"),
		contract(5, 2, "Bo", 180, "2024-02-01"),
		contract(1, 1, "Ana", 100, "2024-01-01"),
		contract(6, 3, "Cy", 300, "2024-01-21"),
		contract(2, 1, "Ana", 110, "2024-01-11"),
		contract(4, 2, "Bo", 200, "2024-01-01"),
		contract(7, 4, "Di", 400, "2024-01-01"),
		contract(8, 4, "Di", 500, "2024-01-06"),
	}
}

func TestEvents(t *testing.T) {
	events := Events(fixture())
	require.Len(t, events, 3)

	assert.Equal(t, day("2024-01-31"), events[0].Date)
	assert.EqualValues(t, 1, events[0].EmployeeID)
	assert.Equal(t, 110.0, events[0].OldSalary)
	assert.Equal(t, 150.0, events[0].NewSalary)

	assert.Equal(t, day("2024-01-11"), events[1].Date)
	assert.Equal(t, day("2024-01-06"), events[2].Date)
	assert.EqualValues(t, 4, events[2].EmployeeID)
}

func TestEqualSalaryIsNotPromotion(t *testing.T) {
	history := []store.Contract{
		contract(1, 1, "Ana", 100, "2024-01-01"),
		contract(2, 1, "Ana", 100, "2024-06-01"),
	}
	assert.Empty(t, Events(history))
}

func TestSameStartDateOrderedByID(t *testing.T) {
	history := []store.Contract{
		contract(2, 1, "Ana", 120, "2024-01-01"),
		contract(1, 1, "Ana", 100, "2024-01-01"),
	}
	events := Events(history)
	require.Len(t, events, 1)
	assert.Equal(t, 100.0, events[0].OldSalary)
	assert.Equal(t, 120.0, events[0].NewSalary)
}

func TestRecent(t *testing.T) {
	assert.Len(t, Recent(fixture(), 2), 2)
	assert.Len(t, Recent(fixture(), 10), 3)
	assert.Len(t, Recent(fixture(), 0), 3)
	assert.Empty(t, Recent(nil, 5))
}

func TestGaps(t *testing.T) {
	now := day("2024-03-01")
	gaps := Gaps(fixture(), now)
	require.Len(t, gaps, 4)

	// Bo: never promoted, since 2024-01-01 -> 60 days
	// Di: promoted 2024-01-06 -> 55 days
	// Cy: never promoted, since 2024-01-21 -> 40 days
	// Ana: promoted 2024-01-31 -> 30 days
	want := []struct {
		id       int64
		days     int
		promoted bool
	}{
		{2, 60, false},
		{4, 55, true},
		{3, 40, false},
		{1, 30, true},
	}
	for i, w := range want {
		assert.Equal(t, w.id, gaps[i].EmployeeID, "rank %d", i)
		assert.Equal(t, w.days, gaps[i].Days, "rank %d", i)
		assert.Equal(t, w.promoted, gaps[i].Promoted, "rank %d", i)
	}
	assert.Equal(t, "Title Bo", gaps[0].JobTitle, "latest contract title")
}

func TestGapsTieBreakByID(t *testing.T) {
	history := []store.Contract{
		contract(1, 9, "Zed", 100, "2024-01-01"),
		contract(2, 3, "Amy", 100, "2024-01-01"),
	}
	gaps := Gaps(history, day("2024-01-11"))
	require.Len(t, gaps, 2)
	assert.EqualValues(t, 3, gaps[0].EmployeeID)
	assert.EqualValues(t, 9, gaps[1].EmployeeID)
}

func TestTopGaps(t *testing.T) {
	now := day("2024-03-01")
	top := TopGaps(fixture(), now, 3)
	require.Len(t, top, 3)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Days, top[i].Days)
	}
	assert.Len(t, TopGaps(fixture(), now, 100), 4)
}

func TestAverageInterval(t *testing.T) {
	iv, ok := AverageInterval(fixture())
	require.True(t, ok)
	// Ana: 10 + 20, Di: 5 -> 35 / 3
	assert.Equal(t, 3, iv.Intervals)
	assert.Equal(t, 2, iv.Employees)
	assert.InDelta(t, 35.0/3.0, iv.AverageDays, 1e-9)
}

func TestAverageIntervalNone(t *testing.T) {
	history := []store.Contract{
		contract(1, 1, "Ana", 100, "2024-01-01"),
		contract(2, 2, "Bo", 100, "2024-01-01"),
	}
	_, ok := AverageInterval(history)
	assert.False(t, ok)

	_, ok = AverageInterval(nil)
	assert.False(t, ok)
}

func TestDaysIgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2024, 2, 28, 23, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, Days(a, b))
	assert.Equal(t, -2, Days(b, a))
}
