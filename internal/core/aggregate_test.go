package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func rec(month, branch, rm, product, quarter, amount string) LoanRecord {
	r := LoanRecord{Month: month, Branch: branch, RMName: rm, ProductType: product, Quarter: quarter}
	if month != "" {
		r.Date = ParseDate("2024-03-01")
	}
	if amount != "" {
		r.Amount = CleanNumber(amount)
	}
	return r
}

func testRecords() []LoanRecord {
	return []LoanRecord{
		rec("March 2024", "SRB", "A", "SME", "Q1", "1000"),
		rec("March 2024", "SRB", "B", "Mortgage", "Q1", "2000"),
		rec("March 2024", "BTK", "C", "SME", "Q1", "500"),
		rec("April 2024", "SRB", "A", "SME", "Q2", "3000"),
	}
}

func TestMonthlySummariesConcreteScenario(t *testing.T) {
	recs := Normalize([]RawRow{
		{Amount: "$1,000.00", Branch: "SRB", RMName: "A", Date: "2024-03-01"},
		{Amount: "$2,000", Branch: "SRB", RMName: "B", Date: "2024-03-15"},
	})
	got := MonthlySummaries(recs, Filters{})
	if len(got) != 1 {
		t.Fatalf("expected 1 group, got %d", len(got))
	}
	m := got[0]
	if m.Month != "March 2024" {
		t.Fatalf("expected March 2024, got %q", m.Month)
	}
	if !m.TotalAmount.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("expected total 3000, got %s", m.TotalAmount)
	}
	if m.LoanCount != 2 || m.DistinctRMs != 2 {
		t.Fatalf("expected count=2 distinctRM=2, got count=%d distinctRM=%d", m.LoanCount, m.DistinctRMs)
	}
}

func TestMonthlySumMatchesWholeInput(t *testing.T) {
	records := testRecords()
	groups := MonthlySummaries(records, Filters{})
	var grouped decimal.Decimal
	for _, g := range groups {
		grouped = grouped.Add(g.TotalAmount)
	}
	var whole decimal.Decimal
	for _, r := range records {
		if r.Amount.Valid {
			whole = whole.Add(r.Amount.Decimal)
		}
	}
	if !grouped.Equal(whole) {
		t.Fatalf("group totals %s != input total %s", grouped, whole)
	}
}

func TestMonthlyExcludesRecordsWithoutDate(t *testing.T) {
	records := append(testRecords(), rec("", "SRB", "Z", "", "Q1", "9999"))
	for _, g := range MonthlySummaries(records, Filters{}) {
		if g.Month == "" || g.Month == Unknown {
			t.Fatalf("dateless record leaked into month grouping: %+v", g)
		}
	}
}

func TestMonthlyQuarterFilter(t *testing.T) {
	got := MonthlySummaries(testRecords(), Filters{Quarter: "Q2"})
	if len(got) != 1 || got[0].Month != "April 2024" {
		t.Fatalf("expected only April 2024, got %+v", got)
	}
}

func TestMonthlyEmptyAfterFilter(t *testing.T) {
	got := MonthlySummaries(testRecords(), Filters{Quarter: "Q4"})
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestBranchSummariesRequireMonthScope(t *testing.T) {
	if _, err := BranchSummaries(testRecords(), Filters{}, ""); !errors.Is(err, ErrScopeMissing) {
		t.Fatalf("expected ErrScopeMissing, got %v", err)
	}
}

func TestBranchSummaries(t *testing.T) {
	got, err := BranchSummaries(testRecords(), Filters{}, "March 2024")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(got))
	}
	// Ordered by descending total amount.
	if got[0].Branch != "SRB" || got[1].Branch != "BTK" {
		t.Fatalf("unexpected order: %q, %q", got[0].Branch, got[1].Branch)
	}
	if !got[0].TotalAmount.Equal(decimal.NewFromInt(3000)) || got[0].DistinctRMs != 2 {
		t.Fatalf("SRB: expected total=3000 distinctRM=2, got %+v", got[0])
	}
}

func TestBranchMeanRateSkipsMissing(t *testing.T) {
	records := []LoanRecord{
		rec("March 2024", "SRB", "A", "", "Q1", "100"),
		rec("March 2024", "SRB", "B", "", "Q1", "200"),
	}
	records[0].InterestRate = CleanNumber("8.0")
	// records[1] has no rate: the mean averages present values only.
	got, err := BranchSummaries(records, Filters{}, "March 2024")
	if err != nil {
		t.Fatal(err)
	}
	rate := got[0].MeanInterestRate
	if !rate.Valid || !rate.Decimal.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("expected mean rate 8, got %+v", rate)
	}
}

func TestBranchMeanRateAllMissing(t *testing.T) {
	records := []LoanRecord{rec("March 2024", "SRB", "A", "", "Q1", "100")}
	got, err := BranchSummaries(records, Filters{}, "March 2024")
	if err != nil {
		t.Fatal(err)
	}
	if got[0].MeanInterestRate.Valid {
		t.Fatalf("mean over zero present rates must stay missing, got %+v", got[0].MeanInterestRate)
	}
}

func TestRMSummariesRequireBothScopeKeys(t *testing.T) {
	cases := []struct{ month, branch string }{
		{"", ""},
		{"March 2024", ""},
		{"", "SRB"},
	}
	for _, tc := range cases {
		if _, err := RMSummaries(testRecords(), Filters{}, tc.month, tc.branch); !errors.Is(err, ErrScopeMissing) {
			t.Fatalf("month=%q branch=%q: expected ErrScopeMissing, got %v", tc.month, tc.branch, err)
		}
	}
}

func TestRMSummaries(t *testing.T) {
	got, err := RMSummaries(testRecords(), Filters{}, "March 2024", "SRB")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 RMs, got %d", len(got))
	}
	if got[0].RMName != "B" {
		t.Fatalf("expected top RM by amount to be B, got %q", got[0].RMName)
	}
	if !got[0].MeanAmount.Valid || !got[0].MeanAmount.Decimal.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("expected mean amount 2000, got %+v", got[0].MeanAmount)
	}
}

func TestRMTopProductTieBreaksOnInputOrder(t *testing.T) {
	records := []LoanRecord{
		rec("March 2024", "SRB", "A", "Mortgage", "Q1", "100"),
		rec("March 2024", "SRB", "A", "SME", "Q1", "100"),
		rec("March 2024", "SRB", "A", "SME", "Q1", "100"),
		rec("March 2024", "SRB", "A", "Mortgage", "Q1", "100"),
	}
	got, err := RMSummaries(records, Filters{}, "March 2024", "SRB")
	if err != nil {
		t.Fatal(err)
	}
	// Two votes each; Mortgage appeared first.
	if got[0].TopProduct != "Mortgage" {
		t.Fatalf("expected first-seen tie-break Mortgage, got %q", got[0].TopProduct)
	}
}

func TestOverview(t *testing.T) {
	stats := Overview(testRecords(), Filters{})
	if stats.LoanCount != 4 || stats.DistinctBranches != 2 || stats.DistinctRMs != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if !stats.TotalAmount.Equal(decimal.NewFromInt(6500)) {
		t.Fatalf("expected total 6500, got %s", stats.TotalAmount)
	}
	if !stats.AvgLoanSize.Valid || !stats.AvgLoanSize.Decimal.Equal(decimal.NewFromInt(1625)) {
		t.Fatalf("expected avg 1625, got %+v", stats.AvgLoanSize)
	}
}

func TestQuartersAndProductsFirstSeenOrder(t *testing.T) {
	records := testRecords()
	if got := Quarters(records); len(got) != 2 || got[0] != "Q1" || got[1] != "Q2" {
		t.Fatalf("unexpected quarters: %v", got)
	}
	if got := Products(records); len(got) != 2 || got[0] != "SME" || got[1] != "Mortgage" {
		t.Fatalf("unexpected products: %v", got)
	}
}
