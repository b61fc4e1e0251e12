package store

import (
	"context"
	"time"

	"ghostledger/internal/core"
	"ghostledger/internal/log"
)

// AddExpense records a new expense at the head of the collection. Input
// validation is the caller's job.
func (s *FinanceStore) AddExpense(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	var created core.Expense
	err := s.mutate(ctx, core.EntityExpense, log.OpCreate, func(d *core.FinanceData) (string, bool, error) {
		created = newRecord(in, s.ids(), s.clock.Now())
		d.Expenses = prepend(d.Expenses, created)
		return created.ID, true, nil
	})
	return created, err
}

// AddIncome records a new income at the head of the collection.
func (s *FinanceStore) AddIncome(ctx context.Context, in core.IncomeInput) (core.Income, error) {
	var created core.Income
	err := s.mutate(ctx, core.EntityIncome, log.OpCreate, func(d *core.FinanceData) (string, bool, error) {
		created = newRecord(in, s.ids(), s.clock.Now())
		d.Income = prepend(d.Income, created)
		return created.ID, true, nil
	})
	return created, err
}

// DeleteExpense removes the expense with id. A missing id is not an error;
// removed reports whether anything was deleted.
func (s *FinanceStore) DeleteExpense(ctx context.Context, id string) (removed bool, err error) {
	err = s.mutate(ctx, core.EntityExpense, log.OpDelete, func(d *core.FinanceData) (string, bool, error) {
		d.Expenses, removed = removeFirst(d.Expenses, func(r core.Expense) bool { return r.ID == id })
		return id, removed, nil
	})
	return removed && err == nil, err
}

// DeleteIncome removes the income with id.
func (s *FinanceStore) DeleteIncome(ctx context.Context, id string) (removed bool, err error) {
	err = s.mutate(ctx, core.EntityIncome, log.OpDelete, func(d *core.FinanceData) (string, bool, error) {
		d.Income, removed = removeFirst(d.Income, func(r core.Income) bool { return r.ID == id })
		return id, removed, nil
	})
	return removed && err == nil, err
}

func newRecord[C core.Category](in core.RecordInput[C], id string, now time.Time) core.Record[C] {
	return core.Record[C]{
		ID:           id,
		Amount:       in.Amount,
		Description:  in.Description,
		Category:     in.Category,
		OccurredOn:   in.OccurredOn,
		CreatedAt:    now.UTC(),
		Note:         copyString(in.Note),
		ReceiptImage: copyString(in.ReceiptImage),
	}
}

func prepend[T any](s []T, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, v)
	return append(out, s...)
}

func removeFirst[T any](s []T, match func(T) bool) ([]T, bool) {
	for i, v := range s {
		if match(v) {
			return append(s[:i:i], s[i+1:]...), true
		}
	}
	return s, false
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
