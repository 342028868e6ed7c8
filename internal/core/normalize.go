// Package core holds the portfolio domain model: row normalization, the
// drill-down aggregator, and the navigation state machine. It has no I/O;
// record sources and the HTTP layer live in their own packages.
package core

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order when parsing date cells. Spreadsheet
// exports in the wild mix ISO, slash and spelled-out forms.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// CleanNumber coerces a currency-formatted cell to a decimal. Every
// character that is not a digit or a decimal point is stripped; a minus
// sign appearing before the first digit keeps the value negative. Cells
// that still fail to parse become absent, never zero.
func CleanNumber(raw string) decimal.NullDecimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}
	}
	var b strings.Builder
	neg := false
	sawDigit := false
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			sawDigit = true
			b.WriteRune(r)
		case r == '.':
			b.WriteRune(r)
		case r == '-' && !sawDigit:
			neg = true
		}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.NullDecimal{}
	}
	if neg {
		d = d.Neg()
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// ParseDate parses a date cell against the accepted layouts. The zero time
// means the cell was empty or unparseable.
func ParseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// MonthLabel renders the human-readable month bucket for a date,
// e.g. "March 2024".
func MonthLabel(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2006")
}

// NormalizeRow maps one raw spreadsheet row to a LoanRecord. The primary
// date is the first parseable of Date, VALUE DATE, MATUR_DATE. Records
// whose every date cell is unparseable keep a zero Date and an empty Month
// label; the aggregator excludes them from month-level grouping rather
// than inventing a bucket.
func NormalizeRow(raw RawRow) LoanRecord {
	rec := LoanRecord{
		Amount:       CleanNumber(raw.Amount),
		Outstanding:  CleanNumber(raw.Outstanding),
		InterestRate: CleanNumber(raw.InterestRate),
		Branch:       fillUnknown(raw.Branch),
		RMName:       fillUnknown(raw.RMName),
		ProductType:  strings.TrimSpace(raw.ProductType),
		Quarter:      fillUnknown(raw.Quarter),
	}
	for _, cell := range []string{raw.Date, raw.ValueDate, raw.MaturityDate} {
		if t := ParseDate(cell); !t.IsZero() {
			rec.Date = t
			break
		}
	}
	rec.Month = MonthLabel(rec.Date)
	return rec
}

// Normalize maps a whole raw table, preserving row order. Row order
// matters downstream: modal product-type ties break on first appearance.
func Normalize(rows []RawRow) []LoanRecord {
	out := make([]LoanRecord, 0, len(rows))
	for _, raw := range rows {
		out = append(out, NormalizeRow(raw))
	}
	return out
}

func fillUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unknown
	}
	return s
}
