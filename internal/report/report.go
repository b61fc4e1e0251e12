// Package report holds the read-only queries over a FinanceData snapshot.
// Every function is total: empty collections yield zero-filled results.
package report

import (
	"sort"
	"time"

	"ghostledger/internal/core"
)

// ComputeTotals derives the aggregate snapshot for the month containing now.
func ComputeTotals(d core.FinanceData, now time.Time, policy core.TimePolicy) core.Totals {
	year, month := policy.CurrentMonth(now)
	gross := sumInMonth(d.Income, year, month)
	expenses := sumInMonth(d.Expenses, year, month)
	net := gross.Sub(expenses)
	return core.Totals{
		GrossIncome:   gross,
		TotalExpenses: expenses,
		NetIncome:     net,
		FinalBalance:  net,
	}
}

func sumInMonth[C core.Category](records []core.Record[C], year int, month time.Month) core.Money {
	var total core.Money
	for _, r := range records {
		if r.OccurredOn.InMonth(year, month) {
			total = total.Add(r.Amount)
		}
	}
	return total
}

func totalsByCategory[C core.Category](records []core.Record[C], cats []C, year int, month time.Month) map[C]core.Money {
	out := make(map[C]core.Money, len(cats))
	for _, c := range cats {
		out[c] = core.Money{}
	}
	for _, r := range records {
		if !r.OccurredOn.InMonth(year, month) {
			continue
		}
		out[r.Category] = out[r.Category].Add(r.Amount)
	}
	return out
}

// ExpenseTotalsByCategory maps every expense category to its spend in the
// current month.
func ExpenseTotalsByCategory(expenses []core.Expense, now time.Time, policy core.TimePolicy) map[core.ExpenseCategory]core.Money {
	year, month := policy.CurrentMonth(now)
	return totalsByCategory(expenses, core.ExpenseCategories(), year, month)
}

// IncomeTotalsByCategory maps every income category to its total in the
// current month.
func IncomeTotalsByCategory(income []core.Income, now time.Time, policy core.TimePolicy) map[core.IncomeCategory]core.Money {
	year, month := policy.CurrentMonth(now)
	return totalsByCategory(income, core.IncomeCategories(), year, month)
}

// TopExpenseCategories returns at most n categories with non-zero spend in
// the current month, highest first. Equal amounts keep declaration order.
func TopExpenseCategories(expenses []core.Expense, n int, now time.Time, policy core.TimePolicy) []core.CategoryAmount {
	totals := ExpenseTotalsByCategory(expenses, now, policy)
	ranked := make([]core.CategoryAmount, 0, len(totals))
	for _, c := range core.ExpenseCategories() {
		if amt := totals[c]; !amt.IsZero() {
			ranked = append(ranked, core.CategoryAmount{Category: c, Amount: amt})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount.Cents > ranked[j].Amount.Cents
	})
	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// MonthlySeries returns twelve points, January to December of year.
func MonthlySeries(d core.FinanceData, year int) []core.MonthPoint {
	points := make([]core.MonthPoint, 12)
	for i := range points {
		m := time.Month(i + 1)
		points[i] = core.MonthPoint{
			Year:          year,
			Month:         m,
			TotalIncome:   sumInMonth(d.Income, year, m),
			TotalExpenses: sumInMonth(d.Expenses, year, m),
		}
	}
	return points
}

// LimitStatuses reports every active limit of the current month with the
// spend recorded against it.
func LimitStatuses(d core.FinanceData, now time.Time, policy core.TimePolicy) []core.LimitStatus {
	year, month := policy.CurrentMonth(now)
	spend := totalsByCategory(d.Expenses, core.ExpenseCategories(), year, month)

	var out []core.LimitStatus
	for _, l := range d.Limits {
		if !l.Active || l.Year != year || l.Month != int(month)-1 {
			continue
		}
		spent := spend[l.Category]
		st := core.LimitStatus{
			Limit:    l,
			Spent:    spent,
			Exceeded: spent.Cents > l.LimitAmount.Cents,
		}
		if l.LimitAmount.Cents > 0 {
			st.Percent = float64(spent.Cents) / float64(l.LimitAmount.Cents) * 100
		}
		out = append(out, st)
	}
	return out
}

// LimitAlerts returns the statuses whose spend is strictly above the limit.
// Spending exactly the limit does not alert.
func LimitAlerts(d core.FinanceData, now time.Time, policy core.TimePolicy) []core.LimitStatus {
	var out []core.LimitStatus
	for _, st := range LimitStatuses(d, now, policy) {
		if st.Exceeded {
			out = append(out, st)
		}
	}
	return out
}

// GoalProgress computes the status of a single goal.
func GoalProgress(g core.Goal) core.GoalStatus {
	st := core.GoalStatus{
		Goal:      g,
		Completed: g.CurrentAmount.Cents >= g.TargetAmount.Cents,
	}
	if rem := g.TargetAmount.Sub(g.CurrentAmount); rem.Cents > 0 {
		st.Remaining = rem
	}
	switch {
	case g.TargetAmount.Cents <= 0:
		st.Percent = 100
	default:
		st.Percent = float64(g.CurrentAmount.Cents) / float64(g.TargetAmount.Cents) * 100
		if st.Percent > 100 {
			st.Percent = 100
		}
		if st.Percent < 0 {
			st.Percent = 0
		}
	}
	return st
}

// GoalStatuses returns the progress of every goal, optionally active only.
func GoalStatuses(goals []core.Goal, activeOnly bool) []core.GoalStatus {
	out := make([]core.GoalStatus, 0, len(goals))
	for _, g := range goals {
		if activeOnly && !g.Active {
			continue
		}
		out = append(out, GoalProgress(g))
	}
	return out
}

// RecentTransactions returns the n newest entries of both collections by
// creation time.
func RecentTransactions(d core.FinanceData, n int) []core.Entry {
	entries := d.Entries()
	sortNewestFirst(entries)
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// PeriodTotals sums a filtered statement.
func PeriodTotals(entries []core.Entry) core.PeriodTotals {
	var t core.PeriodTotals
	for _, e := range entries {
		switch e.Kind {
		case core.KindIncome:
			t.Income = t.Income.Add(e.Amount)
		case core.KindExpense:
			t.Expense = t.Expense.Add(e.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}

func sortNewestFirst(entries []core.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}
