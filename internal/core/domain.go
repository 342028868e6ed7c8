package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	LevelMonthly Level = "monthly"
	LevelBranch  Level = "branch"
	LevelRM      Level = "rm"
)

// Unknown is the fill value for absent categorical fields.
const Unknown = "Unknown"

// FilterAll disables a filter dimension.
const FilterAll = "All"

type (
	// Level identifies a drill-down depth in the month → branch → RM hierarchy.
	Level string

	// RawRow is one spreadsheet row as delivered by a record source, before
	// normalization. All fields are raw cell text; absent columns are "".
	RawRow struct {
		Date         string
		ValueDate    string
		MaturityDate string
		Amount       string
		Outstanding  string
		InterestRate string
		Branch       string
		RMName       string
		ProductType  string
		Quarter      string
	}

	// LoanRecord is a normalized portfolio row. Numeric fields are either a
	// finite decimal or explicitly absent (Valid=false), never a malformed
	// string and never a silent zero.
	LoanRecord struct {
		Date         time.Time // zero when no date column parsed
		Month        string    // "March 2024"; empty when Date is missing
		Amount       decimal.NullDecimal
		Outstanding  decimal.NullDecimal
		InterestRate decimal.NullDecimal
		Branch       string
		RMName       string
		ProductType  string // empty when absent
		Quarter      string
	}

	// Filters narrows the record set before grouping. Empty or FilterAll
	// disables the corresponding dimension.
	Filters struct {
		Quarter string
		Product string
	}

	// Scope carries the ancestor selections required by deeper levels.
	Scope struct {
		Month  string
		Branch string
	}

	MonthSummary struct {
		Month            string
		TotalAmount      decimal.Decimal
		LoanCount        int
		TotalOutstanding decimal.Decimal
		DistinctRMs      int
	}

	BranchSummary struct {
		Month            string
		Branch           string
		TotalAmount      decimal.Decimal
		LoanCount        int
		TotalOutstanding decimal.Decimal
		DistinctRMs      int
		MeanInterestRate decimal.NullDecimal
	}

	RMSummary struct {
		Month            string
		Branch           string
		RMName           string
		TotalAmount      decimal.Decimal
		LoanCount        int
		MeanAmount       decimal.NullDecimal
		TotalOutstanding decimal.Decimal
		MeanInterestRate decimal.NullDecimal
		TopProduct       string
	}

	// PortfolioStats is the KPI strip shown above every level.
	PortfolioStats struct {
		TotalAmount      decimal.Decimal
		LoanCount        int
		AvgLoanSize      decimal.NullDecimal
		DistinctBranches int
		DistinctRMs      int
	}
)

var (
	// ErrScopeMissing is returned when a drill-down level is requested
	// without the ancestor key that scopes it.
	ErrScopeMissing = errors.New("missing scope key for requested level")

	// ErrSourceUnavailable is returned when the record source cannot be
	// reached and no cached data exists to fall back on.
	ErrSourceUnavailable = errors.New("record source unavailable")
)

// Matches reports whether the record passes the quarter/product filters.
func (f Filters) Matches(r LoanRecord) bool {
	if f.Quarter != "" && f.Quarter != FilterAll && r.Quarter != f.Quarter {
		return false
	}
	if f.Product != "" && f.Product != FilterAll && r.ProductType != f.Product {
		return false
	}
	return true
}
