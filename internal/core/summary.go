package core

import "time"

// CategoryAmount is an amount aggregated by expense category.
type CategoryAmount struct {
	Category ExpenseCategory
	Amount   Money
}

// MonthPoint is one month of a yearly income/expense series.
type MonthPoint struct {
	Year          int
	Month         time.Month
	TotalIncome   Money
	TotalExpenses Money
}

// LimitStatus pairs a limit with the spend recorded against it.
type LimitStatus struct {
	Limit    CategoryLimit
	Spent    Money
	Percent  float64
	Exceeded bool // Spent > LimitAmount, strictly
}

// GoalStatus pairs a goal with its progress.
type GoalStatus struct {
	Goal      Goal
	Percent   float64 // capped at 100
	Remaining Money
	Completed bool
}

// PeriodTotals sums a statement.
type PeriodTotals struct {
	Income  Money
	Expense Money
	Balance Money
}
