package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"ghostledger/internal/core"
	"ghostledger/internal/locale"
	"ghostledger/internal/report"
)

func (a *app) cmdSummary(_ context.Context, _ []string) error {
	year, month := a.policy.CurrentMonth(a.now())
	t := a.reporter.Totals()

	printTitle(a.out, fmt.Sprintf("%s %d", a.locale.MonthName(int(month)), year))
	printKV(a.out,
		[2]string{"Gross income", incomeStyle.Render(t.GrossIncome.String())},
		[2]string{"Expenses", expenseStyle.Render(t.TotalExpenses.String())},
		[2]string{"Net income", t.NetIncome.String()},
		[2]string{"Balance", t.FinalBalance.String()},
	)
	fmt.Fprintln(a.out)

	printTitle(a.out, "Top categories")
	a.printTop(3)
	a.printAlerts()
	return nil
}

func (a *app) printTop(n int) {
	var rows [][]string
	for i, ca := range a.reporter.TopExpenses(n) {
		rows = append(rows, []string{strconv.Itoa(i + 1), a.locale.ExpenseName(ca.Category), ca.Amount.String()})
	}
	printTable(a.out, "No expenses this month.", []string{"#", "Category", "Spent"}, rows)
}

// cmdByCategory prints this month's totals for every category, zeros
// included, in declaration order.
func (a *app) cmdByCategory(_ context.Context, args []string) error {
	fs := a.newFlagSet("by-category")
	kind := fs.String("type", "all", "all, income or expense")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	k, err := report.ParseKind(*kind)
	if err != nil {
		return err
	}

	if k != report.IncomeOnly {
		spent := a.reporter.ExpensesByCategory()
		rows := make([][]string, 0, len(spent))
		for _, c := range core.ExpenseCategories() {
			rows = append(rows, []string{string(c), a.locale.ExpenseName(c), expenseStyle.Render(spent[c].String())})
		}
		printTitle(a.out, "Expenses by category")
		printTable(a.out, "", []string{"Tag", "Category", "Spent"}, rows)
	}
	if k != report.ExpenseOnly {
		earned := a.reporter.IncomeByCategory()
		rows := make([][]string, 0, len(earned))
		for _, c := range core.IncomeCategories() {
			rows = append(rows, []string{string(c), a.locale.IncomeName(c), incomeStyle.Render(earned[c].String())})
		}
		printTitle(a.out, "Income by category")
		printTable(a.out, "", []string{"Tag", "Category", "Received"}, rows)
	}
	return nil
}

func (a *app) cmdTop(_ context.Context, args []string) error {
	fs := a.newFlagSet("top")
	n := fs.Int("n", 3, "number of categories")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	a.printTop(*n)
	return nil
}

func (a *app) cmdSeries(_ context.Context, args []string) error {
	fs := a.newFlagSet("series")
	current, _ := a.policy.CurrentMonth(a.now())
	year := fs.Int("year", current, "calendar year")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	var rows [][]string
	for _, p := range a.reporter.Series(*year) {
		rows = append(rows, []string{
			a.locale.MonthName(int(p.Month)),
			incomeStyle.Render(p.TotalIncome.String()),
			expenseStyle.Render(p.TotalExpenses.String()),
			p.TotalIncome.Sub(p.TotalExpenses).String(),
		})
	}
	printTitle(a.out, strconv.Itoa(*year))
	printTable(a.out, "", []string{"Month", "Income", "Expenses", "Net"}, rows)
	return nil
}

type filterFlags struct {
	window, from, to, kind, category string
}

func bindFilterFlags(fs *flag.FlagSet) *filterFlags {
	f := &filterFlags{}
	fs.StringVar(&f.window, "window", "30d", "7d, 30d or custom")
	fs.StringVar(&f.from, "from", "", "custom window start, YYYY-MM-DD")
	fs.StringVar(&f.to, "to", "", "custom window end, YYYY-MM-DD")
	fs.StringVar(&f.kind, "type", "all", "all, income or expense")
	fs.StringVar(&f.category, "category", "", "category tag")
	return f
}

// filter builds a report.Filter. Passing -from or -to implies the custom
// window.
func (f *filterFlags) filter() (report.Filter, error) {
	var out report.Filter
	var err error
	if out.Window, err = report.ParseWindow(f.window); err != nil {
		return out, err
	}
	if out.Kind, err = report.ParseKind(f.kind); err != nil {
		return out, err
	}
	if f.from != "" || f.to != "" {
		out.Window = report.Custom
	}
	if out.Start, err = parseDateOr(f.from, core.Date{}); err != nil {
		return out, err
	}
	if out.End, err = parseDateOr(f.to, core.Date{}); err != nil {
		return out, err
	}
	if f.category != "" {
		if out.Category, err = categoryTag(out.Kind, f.category); err != nil {
			return out, err
		}
	}
	return out, nil
}

// categoryTag resolves a filter tag, accepting the legacy Portuguese tags,
// against the categories of the selected kind.
func categoryTag(kind report.KindFilter, raw string) (string, error) {
	tag := strings.ToLower(strings.TrimSpace(raw))
	switch kind {
	case report.ExpenseOnly:
		c, err := core.ParseExpenseCategory(locale.CanonicalExpenseTag(tag))
		return string(c), err
	case report.IncomeOnly:
		c, err := core.ParseIncomeCategory(locale.CanonicalIncomeTag(tag))
		return string(c), err
	}
	if c := locale.CanonicalExpenseTag(tag); core.ExpenseCategory(c).Valid() {
		return c, nil
	}
	return core.ParseCategoryTag(locale.CanonicalIncomeTag(tag))
}

func (a *app) entryRows(entries []core.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		amount := expenseStyle.Render("-" + e.Amount.String())
		if e.Kind == core.KindIncome {
			amount = incomeStyle.Render("+" + e.Amount.String())
		}
		rows = append(rows, []string{
			e.ID,
			a.locale.FormatDate(e.OccurredOn),
			a.locale.KindLabel(e.Kind),
			e.Description,
			a.locale.CategoryName(e),
			amount,
		})
	}
	return rows
}

var entryHeaders = []string{"ID", "Date", "Type", "Description", "Category", "Amount"}

func (a *app) cmdStatement(_ context.Context, args []string) error {
	fs := a.newFlagSet("statement")
	ff := bindFilterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	f, err := ff.filter()
	if err != nil {
		return err
	}
	entries, totals := a.reporter.Statement(f)
	from, to := f.Bounds(a.now(), a.policy)
	printTitle(a.out, fmt.Sprintf("Statement %s - %s", a.dateOrOpen(from), a.dateOrOpen(to)))
	printTable(a.out, "No transactions in this period.", entryHeaders, a.entryRows(entries))
	printKV(a.out,
		[2]string{a.locale.IncomeLabel, incomeStyle.Render(totals.Income.String())},
		[2]string{a.locale.ExpenseLabel, expenseStyle.Render(totals.Expense.String())},
		[2]string{"Balance", totals.Balance.String()},
	)
	return nil
}

func (a *app) dateOrOpen(d core.Date) string {
	if d.IsZero() {
		return "..."
	}
	return a.locale.FormatDate(d)
}

func (a *app) cmdRecent(_ context.Context, args []string) error {
	fs := a.newFlagSet("recent")
	n := fs.Int("n", 5, "number of transactions")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	printTable(a.out, "No transactions yet.", entryHeaders, a.entryRows(a.reporter.Recent(*n)))
	return nil
}
