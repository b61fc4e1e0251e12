package core

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

type (
	// ExpenseCategory tags an expense.
	ExpenseCategory string

	// IncomeCategory tags an income record.
	IncomeCategory string
)

const (
	ExpenseFood          ExpenseCategory = "food"
	ExpenseTransport     ExpenseCategory = "transport"
	ExpenseEntertainment ExpenseCategory = "entertainment"
	ExpenseShopping      ExpenseCategory = "shopping"
	ExpenseBills         ExpenseCategory = "bills"
	ExpenseHealth        ExpenseCategory = "health"
	ExpenseEducation     ExpenseCategory = "education"
	ExpenseOther         ExpenseCategory = "other"
)

const (
	IncomeSalary      IncomeCategory = "salary"
	IncomeBonus       IncomeCategory = "bonus"
	IncomeInvestments IncomeCategory = "investments"
	IncomeSales       IncomeCategory = "sales"
	IncomeFreelance   IncomeCategory = "freelance"
	IncomeOther       IncomeCategory = "other"
)

// ExpenseCategories lists every expense tag in declaration order. Ranking
// ties are broken by this order.
func ExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{
		ExpenseFood, ExpenseTransport, ExpenseEntertainment, ExpenseShopping,
		ExpenseBills, ExpenseHealth, ExpenseEducation, ExpenseOther,
	}
}

// IncomeCategories lists every income tag in declaration order.
func IncomeCategories() []IncomeCategory {
	return []IncomeCategory{
		IncomeSalary, IncomeBonus, IncomeInvestments, IncomeSales, IncomeFreelance, IncomeOther,
	}
}

func (c ExpenseCategory) Valid() bool {
	for _, v := range ExpenseCategories() {
		if v == c {
			return true
		}
	}
	return false
}

func (c IncomeCategory) Valid() bool {
	for _, v := range IncomeCategories() {
		if v == c {
			return true
		}
	}
	return false
}

// ParseExpenseCategory resolves a user-supplied tag. Unknown tags produce an
// ErrUnknownCategory carrying the closest known tag when one is near enough.
func ParseExpenseCategory(s string) (ExpenseCategory, error) {
	c := ExpenseCategory(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c, nil
	}
	names := make([]string, 0, 8)
	for _, v := range ExpenseCategories() {
		names = append(names, string(v))
	}
	return "", unknownCategory(string(c), names)
}

// ParseIncomeCategory is ParseExpenseCategory for income tags.
func ParseIncomeCategory(s string) (IncomeCategory, error) {
	c := IncomeCategory(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c, nil
	}
	names := make([]string, 0, 6)
	for _, v := range IncomeCategories() {
		names = append(names, string(v))
	}
	return "", unknownCategory(string(c), names)
}

// ParseCategoryTag resolves a tag of either kind, for filters spanning both
// collections.
func ParseCategoryTag(s string) (string, error) {
	tag := strings.ToLower(strings.TrimSpace(s))
	if ExpenseCategory(tag).Valid() || IncomeCategory(tag).Valid() {
		return tag, nil
	}
	var names []string
	seen := make(map[string]bool)
	for _, v := range ExpenseCategories() {
		names = append(names, string(v))
		seen[string(v)] = true
	}
	for _, v := range IncomeCategories() {
		if !seen[string(v)] {
			names = append(names, string(v))
		}
	}
	return "", unknownCategory(tag, names)
}

func unknownCategory(got string, known []string) error {
	if s := closest(got, known); s != "" {
		return fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownCategory, got, s)
	}
	return fmt.Errorf("%w %q (known: %s)", ErrUnknownCategory, got, strings.Join(known, ", "))
}

// closest returns the known name within edit distance 2 of s, or "".
func closest(s string, known []string) string {
	if s == "" {
		return ""
	}
	best, bestDist := "", 3
	for _, k := range known {
		if d := levenshtein.ComputeDistance(s, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}
