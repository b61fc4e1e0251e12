package report

import (
	"testing"
	"time"

	"ghostledger/internal/core"
)

type fakeSource struct {
	data     core.FinanceData
	revision uint64
	reads    int
}

func (f *fakeSource) Snapshot() core.FinanceData {
	f.reads++
	return f.data.Clone()
}

func (f *fakeSource) Revision() uint64 { return f.revision }

func TestReporterSeriesCachedByRevision(t *testing.T) {
	src := &fakeSource{data: core.NewFinanceData()}
	src.data.Income = []core.Income{income("i", 1000, core.IncomeSalary, core.NewDate(2024, 1, 1), now)}
	r := NewReporter(src, core.FixedClock{T: now}, policy, time.Minute)

	first := r.Series(2024)
	r.Series(2024)
	if src.reads != 1 {
		t.Errorf("snapshot read %d times, want 1", src.reads)
	}

	src.data.Income = append(src.data.Income, income("j", 500, core.IncomeSalary, core.NewDate(2024, 1, 2), now))
	src.revision++
	second := r.Series(2024)
	if src.reads != 2 {
		t.Errorf("snapshot read %d times after mutation, want 2", src.reads)
	}
	if first[0].TotalIncome == second[0].TotalIncome {
		t.Error("series did not reflect the new revision")
	}

	series, _ := r.CacheStats()
	if series.Hits != 1 || series.Misses != 2 {
		t.Errorf("series stats = %+v", series)
	}
}

func TestReporterStatement(t *testing.T) {
	src := &fakeSource{data: core.NewFinanceData()}
	src.data.Expenses = []core.Expense{expense("e", 1250, core.ExpenseFood, core.NewDate(2024, 1, 18), now)}
	src.data.Income = []core.Income{income("i", 5000, core.IncomeSales, core.NewDate(2024, 1, 19), now)}
	r := NewReporter(src, core.FixedClock{T: now}, policy, time.Minute)

	entries, totals := r.Statement(Filter{Window: Last7Days, Kind: AllKinds})
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if totals.Balance != cents(3750) {
		t.Errorf("balance = %v, want 37.50", totals.Balance)
	}

	entries[0].ID = "mutated"
	again, _ := r.Statement(Filter{Window: Last7Days, Kind: AllKinds})
	if again[0].ID == "mutated" {
		t.Error("cached statement shared with caller")
	}
	if r.Prune() != 0 {
		t.Error("nothing should have expired")
	}
}
