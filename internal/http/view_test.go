package http

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KhemraButh/Loan-Performance/internal/core"
)

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"950", "$950.00"},
		{"1000", "$1,000.00"},
		{"1234567.891", "$1,234,567.89"},
		{"-2500", "-$2,500.00"},
	}
	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.in)
		if err != nil {
			t.Fatalf("bad test input %q: %v", tt.in, err)
		}
		if got := formatUSD(d); got != tt.want {
			t.Errorf("formatUSD(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMissingValues(t *testing.T) {
	if got := formatMaybeUSD(decimal.NullDecimal{}); got != missingValue {
		t.Errorf("formatMaybeUSD(absent) = %q, want %q", got, missingValue)
	}
	if got := formatRate(decimal.NullDecimal{}); got != missingValue {
		t.Errorf("formatRate(absent) = %q, want %q", got, missingValue)
	}
	rate := decimal.NullDecimal{Decimal: decimal.RequireFromString("8.5"), Valid: true}
	if got := formatRate(rate); got != "8.50%" {
		t.Errorf("formatRate(8.5) = %q, want %q", got, "8.50%")
	}
}

func TestBarWidth(t *testing.T) {
	tests := []struct {
		part, max int64
		want      int
	}{
		{0, 100, 0},
		{50, 100, 50},
		{100, 100, 100},
		{1, 100, 2}, // never invisible
		{50, 0, 0},
	}
	for _, tt := range tests {
		got := barWidth(decimal.NewFromInt(tt.part), decimal.NewFromInt(tt.max))
		if got != tt.want {
			t.Errorf("barWidth(%d, %d) = %d, want %d", tt.part, tt.max, got, tt.want)
		}
	}
}

func viewRecord(month, branch, rm, product, quarter string, amount int64) core.LoanRecord {
	return core.LoanRecord{
		Date:        time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Month:       month,
		Amount:      decimal.NullDecimal{Decimal: decimal.NewFromInt(amount), Valid: true},
		Branch:      branch,
		RMName:      rm,
		ProductType: product,
		Quarter:     quarter,
	}
}

func TestBuildDashboardViewMonthly(t *testing.T) {
	records := []core.LoanRecord{
		viewRecord("March 2024", "SRB", "A", "SME", "Q1", 1000),
		viewRecord("March 2024", "BTK", "B", "SME", "Q1", 500),
	}
	st := core.NewNavigation()

	view, err := buildDashboardView(records, st, time.Now(), false)
	if err != nil {
		t.Fatalf("buildDashboardView: %v", err)
	}
	if view.Level != "monthly" {
		t.Errorf("Level = %q, want monthly", view.Level)
	}
	if len(view.MonthRows) != 1 {
		t.Fatalf("MonthRows = %d, want 1", len(view.MonthRows))
	}
	row := view.MonthRows[0]
	if row.TotalAmount != "$1,500.00" {
		t.Errorf("TotalAmount = %q, want $1,500.00", row.TotalAmount)
	}
	if view.Stats.DistinctBranches != 2 {
		t.Errorf("DistinctBranches = %d, want 2", view.Stats.DistinctBranches)
	}
}

func TestBuildDashboardViewBranchOrdering(t *testing.T) {
	records := []core.LoanRecord{
		viewRecord("March 2024", "SRB", "A", "SME", "Q1", 400),
		viewRecord("March 2024", "BTK", "B", "SME", "Q1", 900),
	}
	st, err := core.NewNavigation().SelectMonth("March 2024")
	if err != nil {
		t.Fatalf("SelectMonth: %v", err)
	}

	view, err := buildDashboardView(records, st, time.Now(), false)
	if err != nil {
		t.Fatalf("buildDashboardView: %v", err)
	}
	if len(view.BranchRows) != 2 {
		t.Fatalf("BranchRows = %d, want 2", len(view.BranchRows))
	}
	if view.BranchRows[0].Branch != "BTK" {
		t.Errorf("first branch = %q, want BTK (largest total first)", view.BranchRows[0].Branch)
	}
	if view.BranchRows[0].BarWidth != 100 {
		t.Errorf("top branch BarWidth = %d, want 100", view.BranchRows[0].BarWidth)
	}
}

func TestBuildDashboardViewFilteredEmpty(t *testing.T) {
	records := []core.LoanRecord{
		viewRecord("March 2024", "SRB", "A", "SME", "Q1", 400),
	}
	st := core.NewNavigation().WithFilters("Q4", "All")

	view, err := buildDashboardView(records, st, time.Now(), false)
	if err != nil {
		t.Fatalf("buildDashboardView: %v", err)
	}
	if !view.Empty {
		t.Error("expected Empty for filter matching nothing")
	}
	if view.Stats.LoanCount != 0 {
		t.Errorf("LoanCount = %d, want 0", view.Stats.LoanCount)
	}
	if view.Stats.AvgLoanSize != missingValue {
		t.Errorf("AvgLoanSize = %q, want %q", view.Stats.AvgLoanSize, missingValue)
	}
}
