package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"2024-01-15", NewDate(2024, 1, 15), true},
		{"2024-01-15T00:00:00.000Z", NewDate(2024, 1, 15), true},
		{"2024-01-15T23:30:00-03:00", NewDate(2024, 1, 15), true},
		{"15/01/2024", Date{}, false},
		{"", Date{}, false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(tc.want.Time) {
				t.Fatalf("%q: expected %v, got %v (err=%v)", tc.in, tc.want, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, 1, 15))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-01-15"` {
		t.Fatalf("unexpected date json: %s", b)
	}
	var d Date
	if err := json.Unmarshal([]byte(`"2024-03-01T12:00:00Z"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !d.InMonth(2024, time.March) || d.Day() != 1 {
		t.Fatalf("unexpected date: %v", d)
	}
}

func TestRecordInputValidate(t *testing.T) {
	good := ExpenseInput{
		Amount:      Money{Cents: 1250},
		Description: "Lunch",
		Category:    ExpenseFood,
		OccurredOn:  NewDate(2024, 1, 15),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []ExpenseInput{
		{Amount: Money{Cents: 1}, Description: "a", Category: ExpenseFood},
		{Amount: Money{Cents: 1}, Description: " ", Category: ExpenseFood, OccurredOn: NewDate(2024, 1, 1)},
		{Amount: Money{Cents: 0}, Description: "a", Category: ExpenseFood, OccurredOn: NewDate(2024, 1, 1)},
		{Amount: Money{Cents: 1}, Description: "a", Category: "pets", OccurredOn: NewDate(2024, 1, 1)},
		{Amount: Money{Cents: 1}, Description: strings.Repeat("x", 201), Category: ExpenseFood, OccurredOn: NewDate(2024, 1, 1)},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}

	income := IncomeInput{Amount: Money{Cents: 1}, Description: "x", Category: "food", OccurredOn: NewDate(2024, 1, 1)}
	if err := income.Validate(); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory for income tagged food, got %v", err)
	}
}

func TestParseExpenseCategorySuggests(t *testing.T) {
	c, err := ParseExpenseCategory(" Food ")
	if err != nil || c != ExpenseFood {
		t.Fatalf("expected food, got %q (err=%v)", c, err)
	}

	_, err = ParseExpenseCategory("trasnport")
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if !strings.Contains(err.Error(), `"transport"`) {
		t.Fatalf("expected suggestion for transport, got %v", err)
	}

	_, err = ParseIncomeCategory("lottery")
	if !errors.Is(err, ErrUnknownCategory) || !strings.Contains(err.Error(), "known:") {
		t.Fatalf("expected known list for far-off tag, got %v", err)
	}
}

func TestParseCategoryTag(t *testing.T) {
	for in, want := range map[string]string{"food": "food", " Salary": "salary", "OTHER": "other"} {
		if got, err := ParseCategoryTag(in); err != nil || got != want {
			t.Errorf("ParseCategoryTag(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	_, err := ParseCategoryTag("bonsu")
	if !errors.Is(err, ErrUnknownCategory) || !strings.Contains(err.Error(), `"bonus"`) {
		t.Errorf("expected suggestion for bonus, got %v", err)
	}
}

func TestValidatePIN(t *testing.T) {
	for _, pin := range []string{"0000", "1234"} {
		if err := ValidatePIN(pin); err != nil {
			t.Errorf("%q: unexpected error %v", pin, err)
		}
	}
	for _, pin := range []string{"", "123", "12345", "12a4", "١٢٣٤"} {
		if err := ValidatePIN(pin); err == nil {
			t.Errorf("%q: expected error", pin)
		}
	}
}

func TestFinanceDataCloneIsDeep(t *testing.T) {
	note := "n"
	d := NewFinanceData()
	d.Expenses = append(d.Expenses, Expense{ID: "1", Note: &note})
	d.Goals = append(d.Goals, Goal{ID: "g"})

	c := d.Clone()
	c.Expenses[0].ID = "changed"
	*c.Expenses[0].Note = "changed"
	c.Goals[0].Title = "changed"

	if d.Expenses[0].ID != "1" || *d.Expenses[0].Note != "n" || d.Goals[0].Title != "" {
		t.Fatalf("clone shares state with original: %+v", d)
	}
}

func TestTimePolicyCurrentMonth(t *testing.T) {
	// 02:00 UTC on Feb 1st is still January 31st in UTC-3.
	instant := time.Date(2024, 2, 1, 2, 0, 0, 0, time.UTC)
	year, month := DefaultTimePolicy().CurrentMonth(instant)
	if year != 2024 || month != time.January {
		t.Fatalf("expected 2024-01, got %d-%02d", year, month)
	}
	if got := NewTimePolicy(0).Today(instant); !got.Equal(NewDate(2024, 2, 1).Time) {
		t.Fatalf("expected 2024-02-01 in UTC, got %v", got)
	}
}

func TestHashAndCheckPIN(t *testing.T) {
	PINHashCost = 4
	h, err := HashPIN("1234")
	if err != nil {
		t.Fatalf("HashPIN: %v", err)
	}
	if h == "1234" {
		t.Fatal("hash must not be the clear PIN")
	}
	if !CheckPIN(h, "1234") {
		t.Error("matching PIN rejected")
	}
	if CheckPIN(h, "4321") || CheckPIN("", "1234") {
		t.Error("wrong PIN accepted")
	}
}

func TestDateUnmarshalEmptyString(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`""`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !d.IsZero() {
		t.Errorf("empty string should decode to the zero date, got %v", d)
	}
}

func TestSequentialIDs(t *testing.T) {
	next := SequentialIDs("e")
	if a, b := next(), next(); a != "e1" || b != "e2" {
		t.Errorf("ids = %s, %s", a, b)
	}
	if NewID() == NewID() {
		t.Error("NewID repeated")
	}
}
