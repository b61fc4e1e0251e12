package report

import (
	"fmt"
	"strings"
	"time"

	"ghostledger/internal/core"
)

// Window selects the date range of a statement.
type Window string

const (
	Last7Days  Window = "7d"
	Last30Days Window = "30d"
	Custom     Window = "custom"
)

// KindFilter selects which collections a statement includes.
type KindFilter string

const (
	AllKinds    KindFilter = "all"
	IncomeOnly  KindFilter = "income"
	ExpenseOnly KindFilter = "expense"
)

// Filter describes a statement query. Start and End are only read for the
// Custom window; a zero bound leaves that side open.
type Filter struct {
	Window   Window
	Start    core.Date
	End      core.Date
	Kind     KindFilter
	Category string
}

// ParseWindow accepts the CLI spellings of a window.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "7d", "7", "last7", "7dias":
		return Last7Days, nil
	case "30d", "30", "last30", "30dias", "":
		return Last30Days, nil
	case "custom", "personalizado":
		return Custom, nil
	}
	return "", fmt.Errorf("unknown window %q (use 7d, 30d or custom)", s)
}

// ParseKind accepts the CLI spellings of a kind filter.
func ParseKind(s string) (KindFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "todos":
		return AllKinds, nil
	case "income", "ganho":
		return IncomeOnly, nil
	case "expense", "despesa":
		return ExpenseOnly, nil
	}
	return "", fmt.Errorf("unknown transaction type %q (use all, income or expense)", s)
}

// Bounds resolves the inclusive date range of the filter against now. The
// relative windows cover N calendar days ending today, so repeated calls
// move with the clock.
func (f Filter) Bounds(now time.Time, policy core.TimePolicy) (from, to core.Date) {
	today := policy.Today(now)
	switch f.Window {
	case Last7Days:
		return today.AddDays(-6), today
	case Custom:
		return f.Start, f.End
	default:
		return today.AddDays(-29), today
	}
}

// FilterTransactions merges both collections, keeps the entries matching f
// and sorts them newest first by creation time.
func FilterTransactions(d core.FinanceData, f Filter, now time.Time, policy core.TimePolicy) []core.Entry {
	from, to := f.Bounds(now, policy)
	var out []core.Entry
	for _, e := range d.Entries() {
		if !matchesKind(f.Kind, e.Kind) {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if !from.IsZero() && e.OccurredOn.Before(from.Time) {
			continue
		}
		if !to.IsZero() && e.OccurredOn.After(to.Time) {
			continue
		}
		out = append(out, e)
	}
	sortNewestFirst(out)
	return out
}

func matchesKind(f KindFilter, k core.Kind) bool {
	switch f {
	case IncomeOnly:
		return k == core.KindIncome
	case ExpenseOnly:
		return k == core.KindExpense
	default:
		return true
	}
}
