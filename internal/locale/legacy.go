package locale

// Tags written by the Portuguese build before the canonical English tags
// were adopted. Used by the backup migrations.
var (
	legacyExpenseTags = map[string]string{
		"alimentacao": "food",
		"transporte":  "transport",
		"lazer":       "entertainment",
		"compras":     "shopping",
		"contas":      "bills",
		"saude":       "health",
		"educacao":    "education",
		"outros":      "other",
	}
	legacyIncomeTags = map[string]string{
		"salario":       "salary",
		"extra":         "bonus",
		"investimentos": "investments",
		"vendas":        "sales",
		"freelance":     "freelance",
		"outros":        "other",
	}
)

// CanonicalExpenseTag maps a legacy Portuguese expense tag to its canonical
// form. Unknown tags are returned unchanged.
func CanonicalExpenseTag(tag string) string {
	if c, ok := legacyExpenseTags[tag]; ok {
		return c
	}
	return tag
}

// CanonicalIncomeTag is CanonicalExpenseTag for income tags.
func CanonicalIncomeTag(tag string) string {
	if c, ok := legacyIncomeTags[tag]; ok {
		return c
	}
	return tag
}
