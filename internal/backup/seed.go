package backup

import (
	"ghostledger/internal/core"
	"ghostledger/internal/locale"
)

type seedRecord struct {
	id          string
	amount      int64
	description string
	category    string
	on          core.Date
}

var seeds = map[string]struct {
	expenses []seedRecord
	income   []seedRecord
}{
	locale.TagPortuguese: {
		expenses: []seedRecord{
			{"1", 8550, "Almoço com pimenta fantasma", "food", core.NewDate(2024, 1, 15)},
			{"2", 4500, "Uber para casa assombrada", "transport", core.NewDate(2024, 1, 14)},
		},
		income: []seedRecord{
			{"1", 350000, "Salário - Caçadores de Fantasmas Ltda", "salary", core.NewDate(2024, 1, 1)},
			{"2", 50000, "Freelance - Assombração Premium", "freelance", core.NewDate(2024, 1, 10)},
		},
	},
	locale.TagEnglish: {
		expenses: []seedRecord{
			{"1", 2550, "Ghost pepper lunch", "food", core.NewDate(2024, 1, 15)},
			{"2", 1500, "Haunted house transport", "transport", core.NewDate(2024, 1, 14)},
			{"3", 6000, "Spooky game night", "entertainment", core.NewDate(2024, 1, 13)},
		},
		income: []seedRecord{
			{"1", 250000, "Salary - Ghost Hunter Inc.", "salary", core.NewDate(2024, 1, 1)},
		},
	},
}

// Seed returns the example ledger shown on first run for loc. Creation times
// equal the occurrence dates at midnight UTC.
func Seed(loc locale.Locale) core.FinanceData {
	data := core.NewFinanceData()
	s, ok := seeds[loc.Tag]
	if !ok {
		return data
	}
	for _, r := range s.expenses {
		data.Expenses = append(data.Expenses, seedOf[core.ExpenseCategory](r))
	}
	for _, r := range s.income {
		data.Income = append(data.Income, seedOf[core.IncomeCategory](r))
	}
	return data
}

func seedOf[C core.Category](r seedRecord) core.Record[C] {
	return core.Record[C]{
		ID:          r.id,
		Amount:      core.Money{Cents: r.amount},
		Description: r.description,
		Category:    C(r.category),
		OccurredOn:  r.on,
		CreatedAt:   r.on.Time,
	}
}
