// Package locale binds the canonical domain to the two presentations the app
// ships with: Brazilian Portuguese and English.
package locale

import (
	"fmt"
	"strings"

	"ghostledger/internal/core"
)

// Locale holds everything that differs between presentations. The domain
// logic never branches on it.
type Locale struct {
	Tag          string
	StorageKey   string
	ExportPrefix string
	DateLayout   string
	ExpenseLabel string
	IncomeLabel  string
	MonthNames   [12]string

	expenseNames map[core.ExpenseCategory]string
	incomeNames  map[core.IncomeCategory]string
}

const (
	TagPortuguese = "pt-BR"
	TagEnglish    = "en-US"
)

var portuguese = Locale{
	Tag:          TagPortuguese,
	StorageKey:   "gengar-financas-dados",
	ExportPrefix: "gengar-financas",
	DateLayout:   "02/01/2006",
	ExpenseLabel: "Saída",
	IncomeLabel:  "Entrada",
	MonthNames:   [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"},
	expenseNames: map[core.ExpenseCategory]string{
		core.ExpenseFood:          "Alimentação",
		core.ExpenseTransport:     "Transporte",
		core.ExpenseEntertainment: "Lazer",
		core.ExpenseShopping:      "Compras",
		core.ExpenseBills:         "Contas",
		core.ExpenseHealth:        "Saúde",
		core.ExpenseEducation:     "Educação",
		core.ExpenseOther:         "Outros",
	},
	incomeNames: map[core.IncomeCategory]string{
		core.IncomeSalary:      "Salário",
		core.IncomeBonus:       "Extra",
		core.IncomeInvestments: "Investimentos",
		core.IncomeSales:       "Vendas",
		core.IncomeFreelance:   "Freelance",
		core.IncomeOther:       "Outros",
	},
}

var english = Locale{
	Tag:          TagEnglish,
	StorageKey:   "gengar-finance-data",
	ExportPrefix: "gengar-finance",
	DateLayout:   "01/02/2006",
	ExpenseLabel: "Expense",
	IncomeLabel:  "Income",
	MonthNames:   [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	expenseNames: map[core.ExpenseCategory]string{
		core.ExpenseFood:          "Food",
		core.ExpenseTransport:     "Transport",
		core.ExpenseEntertainment: "Entertainment",
		core.ExpenseShopping:      "Shopping",
		core.ExpenseBills:         "Bills",
		core.ExpenseHealth:        "Health",
		core.ExpenseEducation:     "Education",
		core.ExpenseOther:         "Other",
	},
	incomeNames: map[core.IncomeCategory]string{
		core.IncomeSalary:      "Salary",
		core.IncomeBonus:       "Bonus",
		core.IncomeInvestments: "Investments",
		core.IncomeSales:       "Sales",
		core.IncomeFreelance:   "Freelance",
		core.IncomeOther:       "Other",
	},
}

// Portuguese returns the pt-BR binding.
func Portuguese() Locale { return portuguese }

// English returns the en-US binding.
func English() Locale { return english }

// Lookup resolves a tag such as "pt-BR", "pt" or "en".
func Lookup(tag string) (Locale, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "pt-br", "pt", "pt_br":
		return portuguese, nil
	case "en-us", "en", "en_us":
		return english, nil
	}
	return Locale{}, fmt.Errorf("unsupported locale %q", tag)
}

// Tags lists the supported locale tags.
func Tags() []string {
	return []string{TagPortuguese, TagEnglish}
}

// KindLabel is the statement label for a transaction kind.
func (l Locale) KindLabel(k core.Kind) string {
	if k == core.KindIncome {
		return l.IncomeLabel
	}
	return l.ExpenseLabel
}

// FormatDate renders a calendar date with the locale layout.
func (l Locale) FormatDate(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(l.DateLayout)
}

// ExpenseName is the display name of an expense category.
func (l Locale) ExpenseName(c core.ExpenseCategory) string {
	if n, ok := l.expenseNames[c]; ok {
		return n
	}
	return string(c)
}

// IncomeName is the display name of an income category.
func (l Locale) IncomeName(c core.IncomeCategory) string {
	if n, ok := l.incomeNames[c]; ok {
		return n
	}
	return string(c)
}

// CategoryName resolves the display name of an entry's category.
func (l Locale) CategoryName(e core.Entry) string {
	if e.Kind == core.KindIncome {
		return l.IncomeName(core.IncomeCategory(e.Category))
	}
	return l.ExpenseName(core.ExpenseCategory(e.Category))
}

// MonthName returns the short month name for m (1-12).
func (l Locale) MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return l.MonthNames[m-1]
}
