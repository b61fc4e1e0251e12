package report

import (
	"time"

	"ghostledger/internal/cache"
	"ghostledger/internal/core"
)

// Source is the read side of the finance store.
type Source interface {
	Snapshot() core.FinanceData
	Revision() uint64
}

type seriesKey struct {
	year     int
	revision uint64
}

type statementKey struct {
	from, to core.Date
	kind     KindFilter
	category string
	revision uint64
}

// Reporter runs the queries against the store's current snapshot. The yearly
// series and statements are cached by store revision, so a mutation makes
// every earlier entry unreachable.
type Reporter struct {
	src    Source
	clock  core.Clock
	policy core.TimePolicy

	series     *cache.LRUCache[seriesKey, []core.MonthPoint]
	statements *cache.LRUCache[statementKey, []core.Entry]
}

// NewReporter builds a reporter with a small cache; ttl bounds how long an
// entry may outlive its usefulness.
func NewReporter(src Source, clock core.Clock, policy core.TimePolicy, ttl time.Duration) *Reporter {
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &Reporter{
		src:        src,
		clock:      clock,
		policy:     policy,
		series:     cache.NewLRUCache[seriesKey, []core.MonthPoint](16, ttl),
		statements: cache.NewLRUCache[statementKey, []core.Entry](32, ttl),
	}
}

func (r *Reporter) Totals() core.Totals {
	return ComputeTotals(r.src.Snapshot(), r.clock.Now(), r.policy)
}

func (r *Reporter) ExpensesByCategory() map[core.ExpenseCategory]core.Money {
	return ExpenseTotalsByCategory(r.src.Snapshot().Expenses, r.clock.Now(), r.policy)
}

func (r *Reporter) IncomeByCategory() map[core.IncomeCategory]core.Money {
	return IncomeTotalsByCategory(r.src.Snapshot().Income, r.clock.Now(), r.policy)
}

func (r *Reporter) TopExpenses(n int) []core.CategoryAmount {
	return TopExpenseCategories(r.src.Snapshot().Expenses, n, r.clock.Now(), r.policy)
}

// Series returns the monthly series of year, served from cache when the
// store has not changed since it was computed.
func (r *Reporter) Series(year int) []core.MonthPoint {
	key := seriesKey{year: year, revision: r.src.Revision()}
	if pts, ok := r.series.Get(key); ok {
		return append([]core.MonthPoint(nil), pts...)
	}
	pts := MonthlySeries(r.src.Snapshot(), year)
	r.series.Set(key, pts)
	return append([]core.MonthPoint(nil), pts...)
}

// Statement filters the transactions. The window is resolved against the
// clock on every call before the cache is consulted.
func (r *Reporter) Statement(f Filter) ([]core.Entry, core.PeriodTotals) {
	now := r.clock.Now()
	from, to := f.Bounds(now, r.policy)
	key := statementKey{from: from, to: to, kind: f.Kind, category: f.Category, revision: r.src.Revision()}

	entries, ok := r.statements.Get(key)
	if !ok {
		entries = FilterTransactions(r.src.Snapshot(), f, now, r.policy)
		r.statements.Set(key, entries)
	}
	entries = append([]core.Entry(nil), entries...)
	return entries, PeriodTotals(entries)
}

func (r *Reporter) Limits() []core.LimitStatus {
	return LimitStatuses(r.src.Snapshot(), r.clock.Now(), r.policy)
}

func (r *Reporter) Alerts() []core.LimitStatus {
	return LimitAlerts(r.src.Snapshot(), r.clock.Now(), r.policy)
}

func (r *Reporter) Goals(activeOnly bool) []core.GoalStatus {
	return GoalStatuses(r.src.Snapshot().Goals, activeOnly)
}

func (r *Reporter) Recent(n int) []core.Entry {
	return RecentTransactions(r.src.Snapshot(), n)
}

// Prune drops expired cache entries and returns the number removed.
func (r *Reporter) Prune() int {
	return r.series.CleanExpired() + r.statements.CleanExpired()
}

// CacheStats reports series and statement cache effectiveness.
func (r *Reporter) CacheStats() (series, statements cache.Stats) {
	return r.series.Stats(), r.statements.Stats()
}
