package locale

import (
	"testing"

	"ghostledger/internal/core"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		tag     string
		want    string
		wantErr bool
	}{
		{"pt-BR", TagPortuguese, false},
		{"pt", TagPortuguese, false},
		{"EN", TagEnglish, false},
		{"en_US", TagEnglish, false},
		{"fr", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			l, err := Lookup(tt.tag)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup(%q) error = %v, wantErr %v", tt.tag, err, tt.wantErr)
			}
			if l.Tag != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.tag, l.Tag, tt.want)
			}
		})
	}
}

func TestEveryCategoryHasAName(t *testing.T) {
	for _, l := range []Locale{Portuguese(), English()} {
		for _, c := range core.ExpenseCategories() {
			if l.ExpenseName(c) == string(c) {
				t.Errorf("%s: expense category %q has no display name", l.Tag, c)
			}
		}
		for _, c := range core.IncomeCategories() {
			if l.IncomeName(c) == string(c) && c != core.IncomeFreelance {
				t.Errorf("%s: income category %q has no display name", l.Tag, c)
			}
		}
	}
}

func TestFormatDateAndLabels(t *testing.T) {
	d := core.NewDate(2024, 1, 15)
	if got := Portuguese().FormatDate(d); got != "15/01/2024" {
		t.Errorf("pt-BR date = %q", got)
	}
	if got := English().FormatDate(d); got != "01/15/2024" {
		t.Errorf("en-US date = %q", got)
	}
	if got := Portuguese().KindLabel(core.KindExpense); got != "Saída" {
		t.Errorf("pt-BR expense label = %q", got)
	}
	if got := English().KindLabel(core.KindIncome); got != "Income" {
		t.Errorf("en-US income label = %q", got)
	}
}

func TestCanonicalTags(t *testing.T) {
	if got := CanonicalExpenseTag("alimentacao"); got != "food" {
		t.Errorf("alimentacao -> %q", got)
	}
	if got := CanonicalIncomeTag("extra"); got != "bonus" {
		t.Errorf("extra -> %q", got)
	}
	if got := CanonicalExpenseTag("food"); got != "food" {
		t.Errorf("canonical tags must pass through, got %q", got)
	}
	for legacy, canonical := range legacyExpenseTags {
		if !core.ExpenseCategory(canonical).Valid() {
			t.Errorf("legacy %q maps to unknown %q", legacy, canonical)
		}
	}
	for legacy, canonical := range legacyIncomeTags {
		if !core.IncomeCategory(canonical).Valid() {
			t.Errorf("legacy %q maps to unknown %q", legacy, canonical)
		}
	}
}
