package main

import (
	"context"
	"flag"
	"fmt"

	"ghostledger/internal/core"
)

type recordFlags struct {
	amount, desc, category, date, note string
}

func bindRecordFlags(fs *flag.FlagSet) *recordFlags {
	f := &recordFlags{}
	fs.StringVar(&f.amount, "amount", "", "amount, dot or comma decimals")
	fs.StringVar(&f.desc, "desc", "", "description")
	fs.StringVar(&f.category, "category", "", "category tag")
	fs.StringVar(&f.date, "date", "", "YYYY-MM-DD, defaults to today")
	fs.StringVar(&f.note, "note", "", "optional note")
	return f
}

func recordInput[C core.Category](f *recordFlags, parse func(string) (C, error), today core.Date) (core.RecordInput[C], error) {
	amount, err := parseMoney(f.amount)
	if err != nil {
		return core.RecordInput[C]{}, err
	}
	cat, err := parse(f.category)
	if err != nil {
		return core.RecordInput[C]{}, err
	}
	date, err := parseDateOr(f.date, today)
	if err != nil {
		return core.RecordInput[C]{}, err
	}
	in := core.RecordInput[C]{
		Amount:      amount,
		Description: f.desc,
		Category:    cat,
		OccurredOn:  date,
		Note:        optionalString(f.note),
	}
	return in, in.Validate()
}

func (a *app) cmdAddExpense(ctx context.Context, args []string) error {
	fs := a.newFlagSet("add-expense")
	f := bindRecordFlags(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	in, err := recordInput(f, core.ParseExpenseCategory, a.today())
	if err != nil {
		return err
	}
	e, err := a.store.AddExpense(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added expense %s: %s %s\n", e.ID, expenseStyle.Render(e.Amount.String()), e.Description)
	a.printAlerts()
	return nil
}

func (a *app) cmdAddIncome(ctx context.Context, args []string) error {
	fs := a.newFlagSet("add-income")
	f := bindRecordFlags(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	in, err := recordInput(f, core.ParseIncomeCategory, a.today())
	if err != nil {
		return err
	}
	i, err := a.store.AddIncome(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added income %s: %s %s\n", i.ID, incomeStyle.Render(i.Amount.String()), i.Description)
	return nil
}

func (a *app) cmdDeleteExpense(ctx context.Context, args []string) error {
	id, err := requireID(a.newFlagSet("delete-expense"), args)
	if err != nil {
		return err
	}
	removed, err := a.store.DeleteExpense(ctx, id)
	if err != nil {
		return err
	}
	a.printRemoved("expense", id, removed)
	return nil
}

func (a *app) cmdDeleteIncome(ctx context.Context, args []string) error {
	id, err := requireID(a.newFlagSet("delete-income"), args)
	if err != nil {
		return err
	}
	removed, err := a.store.DeleteIncome(ctx, id)
	if err != nil {
		return err
	}
	a.printRemoved("income", id, removed)
	return nil
}

func (a *app) printRemoved(what, id string, removed bool) {
	if removed {
		fmt.Fprintf(a.out, "Deleted %s %s\n", what, id)
		return
	}
	fmt.Fprintln(a.out, mutedStyle.Render(fmt.Sprintf("No %s with id %s; nothing changed", what, id)))
}

func (a *app) printAlerts() {
	for _, st := range a.reporter.Alerts() {
		fmt.Fprintln(a.out, warnStyle.Render(fmt.Sprintf("! %s over limit: %s of %s (%.0f%%)",
			a.locale.ExpenseName(st.Limit.Category), st.Spent, st.Limit.LimitAmount, st.Percent)))
	}
}

func (a *app) cmdCategories(_ context.Context, _ []string) error {
	rows := [][]string{}
	for _, c := range core.ExpenseCategories() {
		rows = append(rows, []string{a.locale.ExpenseLabel, string(c), a.locale.ExpenseName(c)})
	}
	for _, c := range core.IncomeCategories() {
		rows = append(rows, []string{a.locale.IncomeLabel, string(c), a.locale.IncomeName(c)})
	}
	printTable(a.out, "", []string{"Type", "Tag", "Name"}, rows)
	return nil
}
