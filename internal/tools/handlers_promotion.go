package tools

import (
	"context"
	"fmt"
	"math"
	"strings"

	hrerrors "github.com/HexSleeves/hrchat/internal/errors"
	"github.com/HexSleeves/hrchat/internal/promotion"
)

const (
	defaultGapLimit    = 10
	defaultRecentLimit = 5
)

// Limit is decoded as a float so 2.7 is rejected instead of truncated.
type limitArgs struct {
	Limit *float64 `json:"limit"`
}

func decodeLimit(tool string, args Args, def int) (int, *Result) {
	var in limitArgs
	if err := args.Decode(&in); err != nil {
		r := invalidArgs(tool, err)
		return 0, &r
	}
	if in.Limit == nil {
		return def, nil
	}
	limit := *in.Limit
	if math.IsInf(limit, 0) || limit != math.Trunc(limit) {
		r := Fail(SourceNone, hrerrors.New(hrerrors.CodeInvalidRequest, "limit must be a whole number"))
		return 0, &r
	}
	if limit < 1 {
		r := Fail(SourceNone, hrerrors.New(hrerrors.CodeInvalidRequest, "limit must be at least 1"))
		return 0, &r
	}
	return int(limit), nil
}

func (h *handlers) promotionGap(ctx context.Context, args Args) Result {
	limit, bad := decodeLimit("promotion_gap", args, defaultGapLimit)
	if bad != nil {
		return *bad
	}

	history, err := h.db.ContractHistory(ctx)
	if err != nil {
		return Fail(SourceDatabase, err)
	}
	gaps := promotion.TopGaps(history, h.now(), limit)
	if len(gaps) == 0 {
		return OK("No contracts found, so there is no promotion history to rank.")
	}

	var b strings.Builder
	b.WriteString("# Employees by Time Since Last Promotion\n\n")
	b.WriteString("| Rank | Employee ID | Name | Job Title | Last Promotion | Days Since |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for i, g := range gaps {
		since := g.Since.Format("2006-01-02")
		if !g.Promoted {
			since = "Never (first contract " + since + ")"
		}
		fmt.Fprintf(&b, "| %d | %d | %s | %s | %s | %s |\n",
			i+1, g.EmployeeID, cell(fullName(g.FirstName, g.LastName)), cell(g.JobTitle),
			since, numbers.Sprintf("%d", g.Days))
	}
	return OK(strings.TrimRight(b.String(), "\n"))
}

func (h *handlers) recentPromotions(ctx context.Context, args Args) Result {
	limit, bad := decodeLimit("recent_promotions", args, defaultRecentLimit)
	if bad != nil {
		return *bad
	}

	history, err := h.db.ContractHistory(ctx)
	if err != nil {
		return Fail(SourceDatabase, err)
	}
	events := promotion.Recent(history, limit)
	if len(events) == 0 {
		return OK("No promotions found in the contract history.")
	}

	var b strings.Builder
	b.WriteString("# Most Recent Promotions\n\n")
	b.WriteString("| Date | Employee ID | Name | Job Title | Department | Previous Salary | New Salary |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, e := range events {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s |\n",
			e.Date.Format("2006-01-02"), e.EmployeeID, cell(fullName(e.FirstName, e.LastName)),
			cell(e.JobTitle), cell(e.Department), formatMoney(e.OldSalary), formatMoney(e.NewSalary))
	}
	return OK(strings.TrimRight(b.String(), "\n"))
}

func (h *handlers) avgPromotionInterval(ctx context.Context, _ Args) Result {
	history, err := h.db.ContractHistory(ctx)
	if err != nil {
		return Fail(SourceDatabase, err)
	}
	iv, ok := promotion.AverageInterval(history)
	if !ok {
		return OK("No promotions found, so there is no average promotion interval (none).")
	}
	return OK(fmt.Sprintf(`# Average Promotion Interval

**Average**: %s days (about %s years)
**Intervals measured**: %d
**Employees promoted**: %d`,
		formatDays(iv.AverageDays), numbers.Sprintf("%.1f", iv.AverageDays/365.25),
		iv.Intervals, iv.Employees))
}
