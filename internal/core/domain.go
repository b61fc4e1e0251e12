package core

import (
	"errors"
	"strings"
	"time"
)

// Kind distinguishes the two transaction collections.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// Category is the set of tag types a transaction may carry.
type Category interface {
	ExpenseCategory | IncomeCategory
}

type (
	// Record is a single income or expense entry. It is never mutated after
	// creation; ID is unique within its own collection only.
	Record[C Category] struct {
		ID           string    `json:"id"`
		Amount       Money     `json:"amount"`
		Description  string    `json:"description"`
		Category     C         `json:"category"`
		OccurredOn   Date      `json:"occurredOn"`
		CreatedAt    time.Time `json:"createdAt"`
		Note         *string   `json:"note,omitempty"`
		ReceiptImage *string   `json:"receiptImage,omitempty"` // base64
	}

	Expense = Record[ExpenseCategory]
	Income  = Record[IncomeCategory]

	// RecordInput carries every Record field the caller chooses.
	RecordInput[C Category] struct {
		Amount       Money
		Description  string
		Category     C
		OccurredOn   Date
		Note         *string
		ReceiptImage *string
	}

	ExpenseInput = RecordInput[ExpenseCategory]
	IncomeInput  = RecordInput[IncomeCategory]

	// Entry is a transaction from either collection tagged with its origin.
	Entry struct {
		Kind         Kind
		ID           string
		Amount       Money
		Description  string
		Category     string
		OccurredOn   Date
		CreatedAt    time.Time
		Note         *string
		ReceiptImage *string
	}

	Goal struct {
		ID            string    `json:"id"`
		Title         string    `json:"title"`
		TargetAmount  Money     `json:"targetAmount"`
		CurrentAmount Money     `json:"currentAmount"`
		StartDate     Date      `json:"startDate"`
		EndDate       Date      `json:"endDate"`
		Active        bool      `json:"active"`
		CreatedAt     time.Time `json:"createdAt"`
	}

	GoalInput struct {
		Title         string
		TargetAmount  Money
		CurrentAmount Money
		StartDate     Date
		EndDate       Date
		Active        bool
	}

	// GoalPatch is shallow-merged onto a Goal; nil fields are left alone.
	GoalPatch struct {
		Title         *string
		TargetAmount  *Money
		CurrentAmount *Money
		StartDate     *Date
		EndDate       *Date
		Active        *bool
	}

	// CategoryLimit caps monthly spend for one expense category. At most one
	// limit exists per (Category, Month, Year).
	CategoryLimit struct {
		ID          string          `json:"id"`
		Category    ExpenseCategory `json:"category"`
		LimitAmount Money           `json:"limitAmount"`
		Active      bool            `json:"active"`
		Month       int             `json:"month"` // 0-11
		Year        int             `json:"year"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	LimitInput struct {
		Category    ExpenseCategory
		LimitAmount Money
		Active      bool
		Month       int // 0-11
		Year        int
	}

	// SecurityConfig guards the app with an optional 4-digit PIN. Only the
	// bcrypt hash is kept.
	SecurityConfig struct {
		PinEnabled bool   `json:"pinEnabled"`
		PinHash    string `json:"pinHash,omitempty"`
	}

	// SecurityPatch is shallow-merged onto SecurityConfig. PIN is the clear
	// value; it is hashed before it reaches the container.
	SecurityPatch struct {
		PinEnabled *bool
		PIN        *string
	}

	// Totals is the derived snapshot for the current calendar month.
	Totals struct {
		GrossIncome   Money `json:"grossIncome"`
		TotalExpenses Money `json:"totalExpenses"`
		NetIncome     Money `json:"netIncome"`
		FinalBalance  Money `json:"finalBalance"`
	}

	// FinanceData is the whole container, persisted as one unit.
	FinanceData struct {
		Expenses       []Expense       `json:"expenses"`
		Income         []Income        `json:"income"`
		Goals          []Goal          `json:"goals"`
		Limits         []CategoryLimit `json:"limits"`
		SecurityConfig SecurityConfig  `json:"securityConfig"`
		Totals
	}

	// Change describes a committed store mutation. Duration covers applying
	// and persisting it.
	Change struct {
		Entity   string        `json:"entity"`
		Op       string        `json:"op"`
		ID       string        `json:"id,omitempty"`
		Revision uint64        `json:"revision"`
		At       time.Time     `json:"at"`
		Duration time.Duration `json:"durationNs,omitempty"`
	}
)

// Entities named in Change events.
const (
	EntityExpense  = "expense"
	EntityIncome   = "income"
	EntityGoal     = "goal"
	EntityLimit    = "limit"
	EntitySecurity = "security"
	EntityAll      = "all"
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyTitle       = errors.New("empty title")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidPIN       = errors.New("PIN must be exactly 4 digits")
)

// NewFinanceData returns an empty container with non-nil collections.
func NewFinanceData() FinanceData {
	return FinanceData{
		Expenses: []Expense{},
		Income:   []Income{},
		Goals:    []Goal{},
		Limits:   []CategoryLimit{},
	}
}

// Clone returns a deep copy; the result shares no slices with d.
func (d FinanceData) Clone() FinanceData {
	out := d
	out.Expenses = cloneRecords(d.Expenses)
	out.Income = cloneRecords(d.Income)
	out.Goals = append(make([]Goal, 0, len(d.Goals)), d.Goals...)
	out.Limits = append(make([]CategoryLimit, 0, len(d.Limits)), d.Limits...)
	return out
}

// Normalize replaces nil collections with empty ones so the persisted form
// always carries arrays.
func (d *FinanceData) Normalize() {
	if d.Expenses == nil {
		d.Expenses = []Expense{}
	}
	if d.Income == nil {
		d.Income = []Income{}
	}
	if d.Goals == nil {
		d.Goals = []Goal{}
	}
	if d.Limits == nil {
		d.Limits = []CategoryLimit{}
	}
}

func cloneRecords[C Category](in []Record[C]) []Record[C] {
	out := make([]Record[C], len(in))
	for i, r := range in {
		r.Note = cloneString(r.Note)
		r.ReceiptImage = cloneString(r.ReceiptImage)
		out[i] = r
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// Entry tags the record with kind.
func (r Record[C]) Entry(kind Kind) Entry {
	return Entry{
		Kind:         kind,
		ID:           r.ID,
		Amount:       r.Amount,
		Description:  r.Description,
		Category:     string(r.Category),
		OccurredOn:   r.OccurredOn,
		CreatedAt:    r.CreatedAt,
		Note:         r.Note,
		ReceiptImage: r.ReceiptImage,
	}
}

// Entries merges both collections, expenses first, preserving stored order.
func (d FinanceData) Entries() []Entry {
	out := make([]Entry, 0, len(d.Expenses)+len(d.Income))
	for _, e := range d.Expenses {
		out = append(out, e.Entry(KindExpense))
	}
	for _, i := range d.Income {
		out = append(out, i.Entry(KindIncome))
	}
	return out
}

// Validate checks form-level constraints. The store itself does not call it;
// callers that accept user input do.
func (in RecordInput[C]) Validate() error {
	if err := in.OccurredOn.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(in.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(in.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if in.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	switch c := any(in.Category).(type) {
	case ExpenseCategory:
		if !c.Valid() {
			return ErrUnknownCategory
		}
	case IncomeCategory:
		if !c.Valid() {
			return ErrUnknownCategory
		}
	}
	return nil
}

func (in GoalInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrEmptyTitle
	}
	if in.TargetAmount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if in.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !in.StartDate.IsZero() && !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate.Time) {
		return errors.New("end date must not be before start date")
	}
	return nil
}

func (in LimitInput) Validate() error {
	if !in.Category.Valid() {
		return ErrUnknownCategory
	}
	if in.LimitAmount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if in.Month < 0 || in.Month > 11 {
		return ErrInvalidMonth
	}
	if in.Year < 1 {
		return errors.New("invalid year")
	}
	return nil
}

// ValidatePIN checks the 4-digit rule.
func ValidatePIN(pin string) error {
	if len(pin) != 4 {
		return ErrInvalidPIN
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return ErrInvalidPIN
		}
	}
	return nil
}

// Matches reports whether the limit covers the given month (0-11) and year.
func (l CategoryLimit) Matches(category ExpenseCategory, month, year int) bool {
	return l.Category == category && l.Month == month && l.Year == year
}
