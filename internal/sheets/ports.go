// Package sheets mirrors the ledger statement to a spreadsheet.
package sheets

import (
	"context"

	"ghostledger/internal/core"
	"ghostledger/internal/locale"
)

// Statement is a rendered table: one header row plus one row per entry.
type Statement struct {
	Header []string
	Rows   [][]string
}

// StatementWriter replaces the whole mirrored statement.
type StatementWriter interface {
	ReplaceStatement(ctx context.Context, s Statement) error
}

// BuildStatement renders entries with the locale's date layout and labels,
// followed by a blank row and the period totals.
func BuildStatement(entries []core.Entry, totals core.PeriodTotals, loc locale.Locale) Statement {
	s := Statement{
		Header: []string{"Date", "Type", "Description", "Category", "Amount", "Note"},
		Rows:   make([][]string, 0, len(entries)+4),
	}
	for _, e := range entries {
		note := ""
		if e.Note != nil {
			note = *e.Note
		}
		s.Rows = append(s.Rows, []string{
			loc.FormatDate(e.OccurredOn),
			loc.KindLabel(e.Kind),
			e.Description,
			loc.CategoryName(e),
			e.Amount.String(),
			note,
		})
	}
	s.Rows = append(s.Rows,
		[]string{},
		[]string{"", loc.IncomeLabel, "", "", totals.Income.String(), ""},
		[]string{"", loc.ExpenseLabel, "", "", totals.Expense.String(), ""},
		[]string{"", "Balance", "", "", totals.Balance.String(), ""},
	)
	return s
}
