// Package promotion derives promotion analytics from contract history.
//
// A promotion is a contract whose salary is strictly greater than the
// salary of the same employee's previous contract (ordered by start date,
// then id). Its date is that contract's start date.
package promotion

import (
	"math"
	"sort"
	"time"

	"github.com/HexSleeves/hrchat/internal/store"
)

// Event is a single salary increase.
type Event struct {
	EmployeeID int64
	FirstName  string
	LastName   string
	JobTitle   string
	Department string
	Date       time.Time
	OldSalary  float64
	NewSalary  float64
}

// Gap is how long an employee has gone without a promotion.
type Gap struct {
	EmployeeID int64
	FirstName  string
	LastName   string
	JobTitle   string // title of the latest contract
	Department string
	// Since is the last promotion date, or the first contract start when
	// the employee was never promoted.
	Since    time.Time
	Promoted bool
	Days     int
}

// Interval summarizes the time between promotions.
type Interval struct {
	AverageDays float64
	Intervals   int
	Employees   int
}

type employeeHistory struct {
	contracts []store.Contract
	events    []Event
}

// group splits history per employee, each ordered by start date then id,
// and returns the employee ids in ascending order.
func group(history []store.Contract) ([]int64, map[int64]*employeeHistory) {
	sorted := append([]store.Contract(nil), history...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.EmployeeID != b.EmployeeID {
			return a.EmployeeID < b.EmployeeID
		}
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return a.ID < b.ID
	})

	var ids []int64
	byEmployee := make(map[int64]*employeeHistory)
	for _, c := range sorted {
		h, ok := byEmployee[c.EmployeeID]
		if !ok {
			h = &employeeHistory{}
			byEmployee[c.EmployeeID] = h
			ids = append(ids, c.EmployeeID)
		}
		if n := len(h.contracts); n > 0 && c.Salary > h.contracts[n-1].Salary {
			h.events = append(h.events, Event{
				EmployeeID: c.EmployeeID,
				FirstName:  c.FirstName,
				LastName:   c.LastName,
				JobTitle:   c.JobTitle,
				Department: c.Department,
				Date:       c.StartDate,
				OldSalary:  h.contracts[n-1].Salary,
				NewSalary:  c.Salary,
			})
		}
		h.contracts = append(h.contracts, c)
	}
	return ids, byEmployee
}

// Events returns all promotions, most recent first. Same-day events are
// ordered by employee id.
func Events(history []store.Contract) []Event {
	ids, byEmployee := group(history)
	var out []Event
	for _, id := range ids {
		out = append(out, byEmployee[id].events...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}

// Recent returns at most limit events from Events.
func Recent(history []store.Contract, limit int) []Event {
	events := Events(history)
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events
}

// Gaps ranks every employee by days since their last promotion as of now,
// longest first. Ties are broken by employee id.
func Gaps(history []store.Contract, now time.Time) []Gap {
	ids, byEmployee := group(history)
	out := make([]Gap, 0, len(ids))
	for _, id := range ids {
		h := byEmployee[id]
		latest := h.contracts[len(h.contracts)-1]
		g := Gap{
			EmployeeID: id,
			FirstName:  latest.FirstName,
			LastName:   latest.LastName,
			JobTitle:   latest.JobTitle,
			Department: latest.Department,
			Since:      h.contracts[0].StartDate,
		}
		if n := len(h.events); n > 0 {
			g.Since = h.events[n-1].Date
			g.Promoted = true
		}
		g.Days = Days(g.Since, now)
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Days != out[j].Days {
			return out[i].Days > out[j].Days
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}

// TopGaps returns at most limit entries from Gaps.
func TopGaps(history []store.Contract, now time.Time, limit int) []Gap {
	gaps := Gaps(history, now)
	if limit > 0 && len(gaps) > limit {
		gaps = gaps[:limit]
	}
	return gaps
}

// AverageInterval is the mean number of days between consecutive
// promotions, where each employee's first interval runs from their first
// contract start. ok is false when nobody was ever promoted.
func AverageInterval(history []store.Contract) (Interval, bool) {
	ids, byEmployee := group(history)
	var (
		total     int
		intervals int
		employees int
	)
	for _, id := range ids {
		h := byEmployee[id]
		if len(h.events) == 0 {
			continue
		}
		employees++
		prev := h.contracts[0].StartDate
		for _, e := range h.events {
			total += Days(prev, e.Date)
			intervals++
			prev = e.Date
		}
	}
	if intervals == 0 {
		return Interval{}, false
	}
	return Interval{
		AverageDays: float64(total) / float64(intervals),
		Intervals:   intervals,
		Employees:   employees,
	}, true
}

// Days counts calendar days from a to b, ignoring time of day.
func Days(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(db.Sub(da).Hours() / 24))
}
