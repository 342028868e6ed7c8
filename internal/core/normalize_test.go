package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCleanNumber(t *testing.T) {
	cases := []struct {
		in    string
		out   string
		valid bool
	}{
		{"$1,000.00", "1000", true},
		{"$2,000", "2000", true},
		{"1234.56", "1234.56", true},
		{" 7.5% ", "7.5", true},
		{"USD 12,345.67", "12345.67", true},
		{"-150.25", "-150.25", true},
		{"($500)", "500", true}, // accounting parens are not a minus sign
		{"", "", false},
		{"n/a", "", false},
		{"--", "", false},
		{"1.2.3", "", false},
	}
	for _, tc := range cases {
		got := CleanNumber(tc.in)
		if tc.valid {
			want, _ := decimal.NewFromString(tc.out)
			if !got.Valid || !got.Decimal.Equal(want) {
				t.Fatalf("%q: expected %s, got %v (valid=%v)", tc.in, tc.out, got.Decimal, got.Valid)
			}
		} else if got.Valid {
			t.Fatalf("%q: expected missing, got %v", tc.in, got.Decimal)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"03/15/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"15-Mar-2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"not a date", time.Time{}},
		{"", time.Time{}},
	}
	for _, tc := range cases {
		got := ParseDate(tc.in)
		if !got.Equal(tc.want) {
			t.Fatalf("%q: expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestNormalizeRowFillsUnknown(t *testing.T) {
	rec := NormalizeRow(RawRow{Amount: "100"})
	if rec.Branch != Unknown {
		t.Fatalf("expected branch %q, got %q", Unknown, rec.Branch)
	}
	if rec.RMName != Unknown {
		t.Fatalf("expected rm %q, got %q", Unknown, rec.RMName)
	}
	if rec.Quarter != Unknown {
		t.Fatalf("expected quarter %q, got %q", Unknown, rec.Quarter)
	}
	if rec.ProductType != "" {
		t.Fatalf("product type should stay empty when absent, got %q", rec.ProductType)
	}
}

func TestNormalizeRowDatePriority(t *testing.T) {
	// Primary date column wins; fallbacks apply only when earlier ones fail.
	rec := NormalizeRow(RawRow{Date: "2024-03-01", ValueDate: "2024-05-01"})
	if rec.Month != "March 2024" {
		t.Fatalf("expected March 2024, got %q", rec.Month)
	}
	rec = NormalizeRow(RawRow{Date: "garbage", ValueDate: "2024-05-01"})
	if rec.Month != "May 2024" {
		t.Fatalf("expected fallback May 2024, got %q", rec.Month)
	}
	rec = NormalizeRow(RawRow{Date: "garbage"})
	if rec.Month != "" || !rec.Date.IsZero() {
		t.Fatalf("expected missing date, got month=%q date=%v", rec.Month, rec.Date)
	}
}

func TestNormalizeConcreteScenario(t *testing.T) {
	rows := []RawRow{
		{Amount: "$1,000.00", Branch: "SRB", RMName: "A", Date: "2024-03-01"},
		{Amount: "$2,000", Branch: "SRB", RMName: "B", Date: "2024-03-15"},
	}
	recs := Normalize(rows)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	wants := []string{"1000", "2000"}
	for i, rec := range recs {
		want, _ := decimal.NewFromString(wants[i])
		if !rec.Amount.Valid || !rec.Amount.Decimal.Equal(want) {
			t.Fatalf("record %d: expected amount %s, got %v", i, wants[i], rec.Amount)
		}
		if rec.Month != "March 2024" {
			t.Fatalf("record %d: expected month March 2024, got %q", i, rec.Month)
		}
	}
}

func TestNormalizeMalformedNumbersBecomeMissing(t *testing.T) {
	recs := Normalize([]RawRow{
		{Amount: "abc", Outstanding: "N/A", InterestRate: "??"},
		{Amount: "$9.99"},
	})
	if recs[0].Amount.Valid || recs[0].Outstanding.Valid || recs[0].InterestRate.Valid {
		t.Fatalf("malformed numerics must become missing, got %+v", recs[0])
	}
	if !recs[1].Amount.Valid {
		t.Fatalf("valid amount lost: %+v", recs[1])
	}
}
