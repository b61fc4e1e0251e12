package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"ghostledger/internal/backup"
	"ghostledger/internal/core"
	"ghostledger/internal/locale"
	"ghostledger/internal/storage"
)

func init() { core.PINHashCost = 4 }

type fakePersister struct {
	mu      sync.Mutex
	initial core.FinanceData
	saved   []core.FinanceData
	failErr error
}

func (p *fakePersister) Load(context.Context) (core.FinanceData, error) {
	return p.initial, nil
}

func (p *fakePersister) Save(_ context.Context, d core.FinanceData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failErr != nil {
		return p.failErr
	}
	p.saved = append(p.saved, d.Clone())
	return nil
}

func (p *fakePersister) writes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.saved)
}

type fakeNotifier struct {
	changes []core.Change
	err     error
}

func (n *fakeNotifier) PublishChange(_ context.Context, c core.Change) error {
	n.changes = append(n.changes, c)
	return n.err
}

type fakeRecorder struct{ failures int }

func (r *fakeRecorder) ObserveMutation(_, _ string, err error, _ time.Duration) {
	if err != nil {
		r.failures++
	}
}

var testNow = time.Date(2024, 1, 20, 15, 0, 0, 0, time.UTC)

func openStore(t *testing.T, p *fakePersister, n *fakeNotifier) *FinanceStore {
	t.Helper()
	if p.initial.Expenses == nil {
		p.initial = core.NewFinanceData()
	}
	opts := Options{
		Clock:    core.FixedClock{T: testNow},
		IDs:      core.SequentialIDs("id"),
		Recorder: &fakeRecorder{},
	}
	if n != nil {
		opts.Notifier = n
	}
	s, err := Open(context.Background(), p, opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func expenseInput(cents int64, cat core.ExpenseCategory) core.ExpenseInput {
	return core.ExpenseInput{Amount: core.Money{Cents: cents}, Description: "x", Category: cat, OccurredOn: core.NewDate(2024, 1, 15)}
}

func TestAddExpensePrependsAndPersists(t *testing.T) {
	p := &fakePersister{}
	n := &fakeNotifier{}
	s := openStore(t, p, n)
	ctx := context.Background()

	first, err := s.AddExpense(ctx, expenseInput(1000, core.ExpenseFood))
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	second, _ := s.AddExpense(ctx, expenseInput(250, core.ExpenseBills))

	if first.ID != "id1" || second.ID != "id2" || !first.CreatedAt.Equal(testNow) {
		t.Errorf("ids/createdAt = %s %s %v", first.ID, second.ID, first.CreatedAt)
	}
	snap := s.Snapshot()
	if snap.Expenses[0].ID != "id2" {
		t.Errorf("newest expense should be first, got %s", snap.Expenses[0].ID)
	}
	if snap.TotalExpenses.Cents != 1250 || snap.NetIncome.Cents != -1250 {
		t.Errorf("totals = %+v", snap.Totals)
	}
	if p.writes() != 2 || p.saved[1].TotalExpenses.Cents != 1250 {
		t.Errorf("writes = %d, persisted totals = %+v", p.writes(), p.saved[len(p.saved)-1].Totals)
	}
	if s.Revision() != 2 || len(n.changes) != 2 || n.changes[1].Entity != core.EntityExpense || n.changes[1].Revision != 2 {
		t.Errorf("revision %d, changes %+v", s.Revision(), n.changes)
	}
}

func TestDeleteMissingIDIsNoOp(t *testing.T) {
	p := &fakePersister{}
	s := openStore(t, p, nil)
	ctx := context.Background()

	income, _ := s.AddIncome(ctx, core.IncomeInput{Amount: core.Money{Cents: 100}, Description: "i", Category: core.IncomeSales, OccurredOn: core.NewDate(2024, 1, 2)})
	before := p.writes()

	for _, del := range []func(context.Context, string) (bool, error){s.DeleteExpense, s.DeleteIncome, s.DeleteGoal, s.DeleteCategoryLimit} {
		removed, err := del(ctx, "missing")
		if err != nil || removed {
			t.Errorf("delete missing = %v, %v", removed, err)
		}
	}
	if p.writes() != before || s.Revision() != 1 {
		t.Errorf("no-op delete wrote: writes %d -> %d, revision %d", before, p.writes(), s.Revision())
	}

	removed, err := s.DeleteIncome(ctx, income.ID)
	if err != nil || !removed || len(s.Snapshot().Income) != 0 {
		t.Errorf("delete existing = %v, %v", removed, err)
	}
	removed, _ = s.DeleteIncome(ctx, income.ID)
	if removed {
		t.Error("second delete should be a no-op")
	}
}

func TestSetCategoryLimitReplacesSameMonth(t *testing.T) {
	s := openStore(t, &fakePersister{}, nil)
	ctx := context.Background()

	in := core.LimitInput{Category: core.ExpenseFood, LimitAmount: core.Money{Cents: 10000}, Active: true, Month: 0, Year: 2024}
	if _, err := s.SetCategoryLimit(ctx, in); err != nil {
		t.Fatal(err)
	}
	other := in
	other.Month = 1
	s.SetCategoryLimit(ctx, other)

	replacement := in
	replacement.LimitAmount = core.Money{Cents: 5000}
	replacement.Active = false
	created, _ := s.SetCategoryLimit(ctx, replacement)

	limits := s.Snapshot().Limits
	if len(limits) != 2 {
		t.Fatalf("limits = %+v, want 2", limits)
	}
	var got core.CategoryLimit
	for _, l := range limits {
		if l.Month == 0 {
			got = l
		}
	}
	if got.ID != created.ID || got.LimitAmount.Cents != 5000 || got.Active {
		t.Errorf("replacement merged fields from old limit: %+v", got)
	}
}

func TestGoalLifecycle(t *testing.T) {
	s := openStore(t, &fakePersister{}, nil)
	ctx := context.Background()

	g, err := s.AddGoal(ctx, core.GoalInput{Title: "Trip", TargetAmount: core.Money{Cents: 100000}, Active: true})
	if err != nil {
		t.Fatal(err)
	}
	cur := core.Money{Cents: 40000}
	updated, found, err := s.UpdateGoal(ctx, g.ID, core.GoalPatch{CurrentAmount: &cur})
	if err != nil || !found {
		t.Fatalf("UpdateGoal = %v, %v", found, err)
	}
	if updated.CurrentAmount != cur || updated.Title != "Trip" || !updated.Active {
		t.Errorf("patch not shallow-merged: %+v", updated)
	}

	rev := s.Revision()
	if _, found, _ := s.UpdateGoal(ctx, "nope", core.GoalPatch{CurrentAmount: &cur}); found || s.Revision() != rev {
		t.Error("update of missing goal must be a no-op")
	}
	if removed, _ := s.DeleteGoal(ctx, g.ID); !removed || len(s.Snapshot().Goals) != 0 {
		t.Error("goal not deleted")
	}
}

func TestSecurityConfig(t *testing.T) {
	s := openStore(t, &fakePersister{}, nil)
	ctx := context.Background()
	on, off := true, false

	if err := s.UpdateSecurityConfig(ctx, core.SecurityPatch{PinEnabled: &on}); !errors.Is(err, core.ErrInvalidPIN) {
		t.Errorf("enable without PIN = %v", err)
	}
	bad := "12a4"
	if err := s.UpdateSecurityConfig(ctx, core.SecurityPatch{PIN: &bad}); !errors.Is(err, core.ErrInvalidPIN) {
		t.Errorf("bad PIN = %v", err)
	}
	if !s.VerifyPIN("anything") {
		t.Error("unlocked ledger should accept any PIN")
	}

	pin := "4321"
	if err := s.UpdateSecurityConfig(ctx, core.SecurityPatch{PinEnabled: &on, PIN: &pin}); err != nil {
		t.Fatalf("enable: %v", err)
	}
	snap := s.Snapshot()
	if !snap.SecurityConfig.PinEnabled || snap.SecurityConfig.PinHash == "" || strings.Contains(snap.SecurityConfig.PinHash, pin) {
		t.Errorf("security = %+v", snap.SecurityConfig)
	}
	if !s.Locked() || !s.VerifyPIN("4321") || s.VerifyPIN("0000") {
		t.Error("PIN verification wrong")
	}

	if err := s.UpdateSecurityConfig(ctx, core.SecurityPatch{PinEnabled: &off}); err != nil {
		t.Fatal(err)
	}
	if s.Locked() || s.Snapshot().SecurityConfig.PinHash == "" {
		t.Error("disabling should keep the hash and unlock")
	}
}

func TestFailedWriteLeavesStateUntouched(t *testing.T) {
	p := &fakePersister{}
	n := &fakeNotifier{}
	s := openStore(t, p, n)
	ctx := context.Background()
	s.AddExpense(ctx, expenseInput(100, core.ExpenseFood))

	p.failErr = errors.New("quota exceeded")
	_, err := s.AddExpense(ctx, expenseInput(999, core.ExpenseFood))
	if !errors.Is(err, storage.ErrWrite) {
		t.Fatalf("err = %v, want ErrWrite", err)
	}
	snap := s.Snapshot()
	if len(snap.Expenses) != 1 || snap.TotalExpenses.Cents != 100 || s.Revision() != 1 || len(n.changes) != 1 {
		t.Errorf("state changed after failed write: %+v rev %d", snap.Expenses, s.Revision())
	}
	if s.recorder.(*fakeRecorder).failures != 1 {
		t.Error("failure not recorded")
	}
}

func TestNotifierFailureDoesNotFailMutation(t *testing.T) {
	n := &fakeNotifier{err: errors.New("broker down")}
	s := openStore(t, &fakePersister{}, n)
	if _, err := s.AddExpense(context.Background(), expenseInput(100, core.ExpenseFood)); err != nil {
		t.Errorf("AddExpense = %v", err)
	}
}

func TestImport(t *testing.T) {
	p := &fakePersister{}
	s := openStore(t, p, nil)
	ctx := context.Background()
	s.AddExpense(ctx, expenseInput(100, core.ExpenseFood))

	if err := s.Import(ctx, strings.NewReader(`{"foo": 1}`), time.Second); !errors.Is(err, backup.ErrInvalidBackupFormat) {
		t.Fatalf("Import = %v", err)
	}
	if len(s.Snapshot().Expenses) != 1 || s.Revision() != 1 {
		t.Error("rejected import changed the ledger")
	}

	if err := s.Import(ctx, strings.NewReader(`{"despesas": [], "ganhos": [{"id": "9", "valor": 10, "descricao": "g", "categoria": "salario", "data": "2024-01-05"}]}`), time.Second); err != nil {
		t.Fatalf("Import legacy: %v", err)
	}
	snap := s.Snapshot()
	if len(snap.Expenses) != 0 || len(snap.Income) != 1 || snap.Income[0].Category != core.IncomeSalary {
		t.Errorf("import was not a full overwrite: %+v", snap)
	}
	if snap.GrossIncome.Cents != 1000 {
		t.Errorf("totals not recomputed: %+v", snap.Totals)
	}
}

func TestOpenWithSlotPersisterSeeds(t *testing.T) {
	slot := storage.NewMemorySlot()
	p := backup.NewSlotPersister(slot, "", locale.English(), true, nil)
	s, err := Open(context.Background(), p, Options{Clock: core.FixedClock{T: time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)}})
	if err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if len(snap.Expenses) != 3 || snap.TotalExpenses.Cents != 10050 || snap.GrossIncome.Cents != 250000 {
		t.Errorf("seeded snapshot = %+v", snap.Totals)
	}

	if _, err := s.AddExpense(context.Background(), expenseInput(50, core.ExpenseOther)); err != nil {
		t.Fatal(err)
	}
	reopened, err := Open(context.Background(), p, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(reopened.Snapshot().Expenses) != 4 {
		t.Error("mutation was not written through to the slot")
	}
}
