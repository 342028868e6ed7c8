// Package memory serves a hardcoded demo portfolio so the dashboard runs
// without spreadsheet credentials.
package memory

import (
	"context"
	"sync"

	"github.com/KhemraButh/Loan-Performance/internal/core"
	"github.com/KhemraButh/Loan-Performance/internal/records"
)

type Store struct {
	mu   sync.Mutex
	rows []core.RawRow
}

var _ records.Fetcher = (*Store)(nil)

// New wraps a fixed row set.
func New(rows []core.RawRow) *Store {
	return &Store{rows: rows}
}

// NewDemo returns the built-in demo portfolio: four branches, five
// relationship managers, five months of 2024. Amounts are deliberately
// currency-formatted strings so the demo path exercises the normalizer.
func NewDemo() *Store {
	return New(demoRows())
}

// FetchRecords returns a copy of the rows; callers may not mutate the seed.
func (s *Store) FetchRecords(_ context.Context) ([]core.RawRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.RawRow, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func demoRows() []core.RawRow {
	r := func(date, amount, outstanding, rate, branch, rm, product, quarter string) core.RawRow {
		return core.RawRow{
			Date:         date,
			Amount:       amount,
			Outstanding:  outstanding,
			InterestRate: rate,
			Branch:       branch,
			RMName:       rm,
			ProductType:  product,
			Quarter:      quarter,
		}
	}
	return []core.RawRow{
		r("2024-01-08", "$120,000.00", "$118,500.00", "7.8%", "SRB", "HENG Leangmey", "SME", "Q1"),
		r("2024-01-15", "$85,000.00", "$82,000.00", "8.2%", "BTK", "BUN Ammatak", "Mortgage", "Q1"),
		r("2024-01-22", "$64,500.00", "$61,000.00", "9.0%", "NRD", "PEN Samnang", "SME", "Q1"),
		r("2024-01-29", "$45,000.00", "$44,100.00", "8.5%", "TLK", "NHIM Heang", "Consumer", "Q1"),
		r("2024-02-05", "$98,000.00", "$95,200.00", "7.6%", "SRB", "LUN Phally", "Mortgage", "Q1"),
		r("2024-02-12", "$77,250.00", "$74,000.00", "8.1%", "BTK", "BUN Ammatak", "SME", "Q1"),
		r("2024-02-19", "$52,000.00", "$50,500.00", "8.9%", "NRD", "PEN Samnang", "Consumer", "Q1"),
		r("2024-02-26", "$39,800.00", "$38,200.00", "9.2%", "TLK", "NHIM Heang", "SME", "Q1"),
		r("2024-03-04", "$132,000.00", "$130,000.00", "7.4%", "SRB", "HENG Leangmey", "SME", "Q1"),
		r("2024-03-11", "$88,500.00", "$85,900.00", "8.0%", "SRB", "LUN Phally", "Consumer", "Q1"),
		r("2024-03-18", "$91,000.00", "$89,300.00", "8.3%", "BTK", "BUN Ammatak", "Mortgage", "Q1"),
		r("2024-03-25", "$58,400.00", "$56,000.00", "8.8%", "NRD", "PEN Samnang", "SME", "Q1"),
		r("2024-04-01", "$104,000.00", "$103,000.00", "7.7%", "SRB", "HENG Leangmey", "Mortgage", "Q2"),
		r("2024-04-08", "$69,900.00", "$67,400.00", "8.4%", "BTK", "BUN Ammatak", "SME", "Q2"),
		r("2024-04-15", "$61,200.00", "$59,800.00", "8.7%", "NRD", "PEN Samnang", "Consumer", "Q2"),
		r("2024-04-22", "$47,500.00", "$46,000.00", "9.1%", "TLK", "NHIM Heang", "SME", "Q2"),
		r("2024-04-29", "$83,000.00", "$81,500.00", "7.9%", "SRB", "LUN Phally", "SME", "Q2"),
		r("2024-05-06", "$140,000.00", "$139,000.00", "7.3%", "SRB", "HENG Leangmey", "SME", "Q2"),
		r("2024-05-13", "$95,600.00", "$93,100.00", "8.0%", "BTK", "BUN Ammatak", "Mortgage", "Q2"),
		r("2024-05-20", "$66,800.00", "$64,200.00", "8.6%", "NRD", "PEN Samnang", "SME", "Q2"),
		r("2024-05-27", "$51,300.00", "$49,700.00", "9.0%", "TLK", "NHIM Heang", "Consumer", "Q2"),
		// Rows with gaps, as real exports have them.
		r("2024-05-27", "$18,000.00", "", "", "", "LUN Phally", "", "Q2"),
		r("", "$25,000.00", "$24,000.00", "8.2%", "SRB", "HENG Leangmey", "SME", "Q2"),
	}
}
