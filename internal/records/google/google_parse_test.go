package google

import "testing"

func row(vals ...string) []interface{} {
	out := make([]interface{}, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func TestParseRowsMapsNamedColumns(t *testing.T) {
	values := [][]interface{}{
		row("Date", "AMOUNT IN USD", "OUTSTANDING", "INTEREST RATE", "Branch/Outlet", "RM Name", "PRODUCT_TYPE", "Quarter"),
		row("2024-03-01", "$1,000.00", "800", "7.5%", "SRB", "HENG Leangmey", "SME", "Q1"),
		row("2024-03-15", "$2,000", "1500", "8%", "BTK", "BUN Ammatak", "Mortgage", "Q1"),
	}
	rows := parseRows(values)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	first := rows[0]
	if first.Date != "2024-03-01" || first.Amount != "$1,000.00" || first.Branch != "SRB" {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if first.RMName != "HENG Leangmey" || first.ProductType != "SME" || first.Quarter != "Q1" {
		t.Fatalf("unexpected first row: %+v", first)
	}
}

func TestParseRowsHeaderMatchIsCaseInsensitive(t *testing.T) {
	values := [][]interface{}{
		row("date", "amount in usd", "rm name"),
		row("2024-01-05", "900", "PEN Samnang"),
	}
	rows := parseRows(values)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Amount != "900" || rows[0].RMName != "PEN Samnang" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

func TestParseRowsAbsentColumnsAreAllMissing(t *testing.T) {
	values := [][]interface{}{
		row("Date", "AMOUNT IN USD"),
		row("2024-02-01", "500"),
	}
	rows := parseRows(values)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.Branch != "" || r.RMName != "" || r.Quarter != "" || r.Outstanding != "" {
		t.Fatalf("absent columns must map to empty fields, got %+v", r)
	}
}

func TestParseRowsSkipsBlankAndShortRows(t *testing.T) {
	values := [][]interface{}{
		row("Date", "AMOUNT IN USD", "Branch/Outlet"),
		row("", "", ""),
		row("2024-02-01"), // short row: missing cells are empty, row kept
	}
	rows := parseRows(values)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Date != "2024-02-01" || rows[0].Amount != "" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

func TestParseRowsHeaderOnly(t *testing.T) {
	values := [][]interface{}{row("Date", "AMOUNT IN USD")}
	if rows := parseRows(values); rows != nil {
		t.Fatalf("expected nil, got %v", rows)
	}
}
