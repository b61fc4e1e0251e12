package main

import (
	"context"
	"fmt"
	"strconv"

	"ghostledger/internal/core"
	"ghostledger/internal/report"
)

func (a *app) cmdGoals(_ context.Context, args []string) error {
	fs := a.newFlagSet("goals")
	activeOnly := fs.Bool("active", false, "only active goals")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	var rows [][]string
	for _, st := range a.reporter.Goals(*activeOnly) {
		status := "active"
		switch {
		case st.Completed:
			status = incomeStyle.Render("done")
		case !st.Goal.Active:
			status = mutedStyle.Render("paused")
		}
		rows = append(rows, []string{
			st.Goal.ID,
			st.Goal.Title,
			st.Goal.CurrentAmount.String() + " / " + st.Goal.TargetAmount.String(),
			progressBar(st.Percent, 10) + fmt.Sprintf(" %3.0f%%", st.Percent),
			st.Remaining.String(),
			a.locale.FormatDate(st.Goal.EndDate),
			status,
		})
	}
	printTable(a.out, "No goals yet.", []string{"ID", "Goal", "Saved", "Progress", "Remaining", "Due", "Status"}, rows)
	return nil
}

func (a *app) cmdGoalAdd(ctx context.Context, args []string) error {
	fs := a.newFlagSet("goal-add")
	title := fs.String("title", "", "goal title")
	target := fs.String("target", "", "target amount")
	current := fs.String("current", "", "amount already saved")
	start := fs.String("start", "", "start date, defaults to today")
	end := fs.String("end", "", "end date")
	inactive := fs.Bool("inactive", false, "create the goal paused")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	in := core.GoalInput{Title: *title, Active: !*inactive}
	var err error
	if in.TargetAmount, err = parseMoney(*target); err != nil {
		return err
	}
	if *current != "" {
		if in.CurrentAmount, err = parseSavedAmount(*current); err != nil {
			return err
		}
	}
	if in.StartDate, err = parseDateOr(*start, a.today()); err != nil {
		return err
	}
	if in.EndDate, err = parseDateOr(*end, core.Date{}); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}

	g, err := a.store.AddGoal(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added goal %s: %s\n", g.ID, g.Title)
	return nil
}

func (a *app) cmdGoalUpdate(ctx context.Context, args []string) error {
	fs := a.newFlagSet("goal-update")
	title := fs.String("title", "", "new title")
	target := fs.String("target", "", "new target amount")
	current := fs.String("current", "", "new saved amount")
	start := fs.String("start", "", "new start date")
	end := fs.String("end", "", "new end date")
	active := fs.Bool("active", true, "whether the goal is active")
	id, err := requireID(fs, args)
	if err != nil {
		return err
	}

	set := visited(fs)
	var patch core.GoalPatch
	if set["title"] {
		patch.Title = title
	}
	if set["target"] {
		m, err := parseMoney(*target)
		if err != nil {
			return err
		}
		patch.TargetAmount = &m
	}
	if set["current"] {
		m, err := parseSavedAmount(*current)
		if err != nil {
			return err
		}
		patch.CurrentAmount = &m
	}
	if set["start"] {
		d, err := core.ParseDate(*start)
		if err != nil {
			return err
		}
		patch.StartDate = &d
	}
	if set["end"] {
		d, err := core.ParseDate(*end)
		if err != nil {
			return err
		}
		patch.EndDate = &d
	}
	if set["active"] {
		patch.Active = active
	}

	g, found, err := a.store.UpdateGoal(ctx, id, patch)
	if err != nil {
		return err
	}
	if !found {
		a.printRemoved("goal", id, false)
		return nil
	}
	fmt.Fprintf(a.out, "Updated goal %s: %s %.0f%%\n", g.ID, g.Title, report.GoalProgress(g).Percent)
	return nil
}

func (a *app) cmdGoalDelete(ctx context.Context, args []string) error {
	id, err := requireID(a.newFlagSet("goal-delete"), args)
	if err != nil {
		return err
	}
	removed, err := a.store.DeleteGoal(ctx, id)
	if err != nil {
		return err
	}
	a.printRemoved("goal", id, removed)
	return nil
}

func (a *app) limitRows(statuses []core.LimitStatus) [][]string {
	var rows [][]string
	for _, st := range statuses {
		spent := st.Spent.String()
		if st.Exceeded {
			spent = expenseStyle.Render(spent)
		}
		rows = append(rows, []string{
			st.Limit.ID,
			a.locale.ExpenseName(st.Limit.Category),
			a.locale.MonthName(st.Limit.Month+1) + " " + strconv.Itoa(st.Limit.Year),
			st.Limit.LimitAmount.String(),
			spent,
			fmt.Sprintf("%.0f%%", st.Percent),
		})
	}
	return rows
}

var limitHeaders = []string{"ID", "Category", "Month", "Limit", "Spent", "Used"}

func (a *app) cmdLimits(_ context.Context, _ []string) error {
	printTable(a.out, "No active limits this month.", limitHeaders, a.limitRows(a.reporter.Limits()))
	return nil
}

func (a *app) cmdAlerts(_ context.Context, _ []string) error {
	printTable(a.out, "No limit exceeded this month.", limitHeaders, a.limitRows(a.reporter.Alerts()))
	return nil
}

func (a *app) cmdLimitSet(ctx context.Context, args []string) error {
	fs := a.newFlagSet("limit-set")
	category := fs.String("category", "", "expense category tag")
	amount := fs.String("amount", "", "monthly limit")
	year, month := a.policy.CurrentMonth(a.now())
	monthFlag := fs.Int("month", int(month), "month 1-12, defaults to the current one")
	yearFlag := fs.Int("year", year, "year, defaults to the current one")
	inactive := fs.Bool("inactive", false, "store the limit disabled")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cat, err := core.ParseExpenseCategory(*category)
	if err != nil {
		return err
	}
	m, err := parseMoney(*amount)
	if err != nil {
		return err
	}
	in := core.LimitInput{
		Category:    cat,
		LimitAmount: m,
		Active:      !*inactive,
		Month:       *monthFlag - 1,
		Year:        *yearFlag,
	}
	if err := in.Validate(); err != nil {
		return err
	}
	l, err := a.store.SetCategoryLimit(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Limit %s: %s %s in %s %d\n", l.ID, a.locale.ExpenseName(l.Category),
		l.LimitAmount, a.locale.MonthName(l.Month+1), l.Year)
	a.printAlerts()
	return nil
}

func (a *app) cmdLimitDelete(ctx context.Context, args []string) error {
	id, err := requireID(a.newFlagSet("limit-delete"), args)
	if err != nil {
		return err
	}
	removed, err := a.store.DeleteCategoryLimit(ctx, id)
	if err != nil {
		return err
	}
	a.printRemoved("limit", id, removed)
	return nil
}
