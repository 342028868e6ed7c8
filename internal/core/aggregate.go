package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// groupAcc accumulates one group's running totals. Sums and means skip
// absent values; a mean over zero present values stays absent.
type groupAcc struct {
	order     int
	firstDate time.Time

	count   int
	amount  decimal.Decimal
	amountN int
	outst   decimal.Decimal
	rate    decimal.Decimal
	rateN   int

	rms          map[string]struct{}
	productVotes map[string]int
	productOrder []string
}

func newGroupAcc(order int) *groupAcc {
	return &groupAcc{
		order:        order,
		rms:          map[string]struct{}{},
		productVotes: map[string]int{},
	}
}

func (g *groupAcc) add(r LoanRecord) {
	g.count++
	if g.firstDate.IsZero() || (!r.Date.IsZero() && r.Date.Before(g.firstDate)) {
		g.firstDate = r.Date
	}
	if r.Amount.Valid {
		g.amount = g.amount.Add(r.Amount.Decimal)
		g.amountN++
	}
	if r.Outstanding.Valid {
		g.outst = g.outst.Add(r.Outstanding.Decimal)
	}
	if r.InterestRate.Valid {
		g.rate = g.rate.Add(r.InterestRate.Decimal)
		g.rateN++
	}
	g.rms[r.RMName] = struct{}{}
	if r.ProductType != "" {
		if _, seen := g.productVotes[r.ProductType]; !seen {
			g.productOrder = append(g.productOrder, r.ProductType)
		}
		g.productVotes[r.ProductType]++
	}
}

func (g *groupAcc) meanAmount() decimal.NullDecimal {
	return mean(g.amount, g.amountN)
}

func (g *groupAcc) meanRate() decimal.NullDecimal {
	return mean(g.rate, g.rateN)
}

// topProduct returns the modal product type. Ties resolve to the value
// that appeared first in row order.
func (g *groupAcc) topProduct() string {
	best := ""
	bestVotes := 0
	for _, p := range g.productOrder {
		if g.productVotes[p] > bestVotes {
			best, bestVotes = p, g.productVotes[p]
		}
	}
	return best
}

func mean(sum decimal.Decimal, n int) decimal.NullDecimal {
	if n == 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: sum.Div(decimal.NewFromInt(int64(n))), Valid: true}
}

// MonthlySummaries groups the filtered records by month label. Records
// without a parseable date carry no month label and are excluded here.
// An empty filtered set yields an empty slice, not an error.
func MonthlySummaries(records []LoanRecord, f Filters) []MonthSummary {
	groups := map[string]*groupAcc{}
	var keys []string
	for _, r := range records {
		if !f.Matches(r) || r.Month == "" {
			continue
		}
		g, ok := groups[r.Month]
		if !ok {
			g = newGroupAcc(len(keys))
			groups[r.Month] = g
			keys = append(keys, r.Month)
		}
		g.add(r)
	}
	sort.Slice(keys, func(i, j int) bool {
		gi, gj := groups[keys[i]], groups[keys[j]]
		if gi.firstDate.Equal(gj.firstDate) {
			return gi.order < gj.order
		}
		return gi.firstDate.Before(gj.firstDate)
	})
	out := make([]MonthSummary, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		out = append(out, MonthSummary{
			Month:            k,
			TotalAmount:      g.amount,
			LoanCount:        g.count,
			TotalOutstanding: g.outst,
			DistinctRMs:      len(g.rms),
		})
	}
	return out
}

// BranchSummaries groups one month's records by branch. The month scope
// key is mandatory: drilling into branches without a selected month fails
// with ErrScopeMissing.
func BranchSummaries(records []LoanRecord, f Filters, month string) ([]BranchSummary, error) {
	if month == "" {
		return nil, ErrScopeMissing
	}
	groups := map[string]*groupAcc{}
	var keys []string
	for _, r := range records {
		if !f.Matches(r) || r.Month != month {
			continue
		}
		g, ok := groups[r.Branch]
		if !ok {
			g = newGroupAcc(len(keys))
			groups[r.Branch] = g
			keys = append(keys, r.Branch)
		}
		g.add(r)
	}
	sortByAmountDesc(keys, groups)
	out := make([]BranchSummary, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		out = append(out, BranchSummary{
			Month:            month,
			Branch:           k,
			TotalAmount:      g.amount,
			LoanCount:        g.count,
			TotalOutstanding: g.outst,
			DistinctRMs:      len(g.rms),
			MeanInterestRate: g.meanRate(),
		})
	}
	return out, nil
}

// RMSummaries groups records by relationship manager within one
// (month, branch) pair. Both ancestor keys are mandatory: the RM level is
// jointly scoped so that drilling down and backing up always re-filters
// the same slice of the portfolio.
func RMSummaries(records []LoanRecord, f Filters, month, branch string) ([]RMSummary, error) {
	if month == "" || branch == "" {
		return nil, ErrScopeMissing
	}
	groups := map[string]*groupAcc{}
	var keys []string
	for _, r := range records {
		if !f.Matches(r) || r.Month != month || r.Branch != branch {
			continue
		}
		g, ok := groups[r.RMName]
		if !ok {
			g = newGroupAcc(len(keys))
			groups[r.RMName] = g
			keys = append(keys, r.RMName)
		}
		g.add(r)
	}
	sortByAmountDesc(keys, groups)
	out := make([]RMSummary, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		out = append(out, RMSummary{
			Month:            month,
			Branch:           branch,
			RMName:           k,
			TotalAmount:      g.amount,
			LoanCount:        g.count,
			MeanAmount:       g.meanAmount(),
			TotalOutstanding: g.outst,
			MeanInterestRate: g.meanRate(),
			TopProduct:       g.topProduct(),
		})
	}
	return out, nil
}

// Overview computes the portfolio-wide KPI strip over the filtered set.
func Overview(records []LoanRecord, f Filters) PortfolioStats {
	g := newGroupAcc(0)
	branches := map[string]struct{}{}
	for _, r := range records {
		if !f.Matches(r) {
			continue
		}
		g.add(r)
		branches[r.Branch] = struct{}{}
	}
	return PortfolioStats{
		TotalAmount:      g.amount,
		LoanCount:        g.count,
		AvgLoanSize:      g.meanAmount(),
		DistinctBranches: len(branches),
		DistinctRMs:      len(g.rms),
	}
}

// Quarters lists the distinct quarter labels in first-seen order, for the
// filter dropdown.
func Quarters(records []LoanRecord) []string {
	return distinctValues(records, func(r LoanRecord) string { return r.Quarter })
}

// Products lists the distinct product types in first-seen order, skipping
// records without one.
func Products(records []LoanRecord) []string {
	return distinctValues(records, func(r LoanRecord) string { return r.ProductType })
}

func distinctValues(records []LoanRecord, pick func(LoanRecord) string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range records {
		v := pick(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func sortByAmountDesc(keys []string, groups map[string]*groupAcc) {
	sort.SliceStable(keys, func(i, j int) bool {
		gi, gj := groups[keys[i]], groups[keys[j]]
		if c := gi.amount.Cmp(gj.amount); c != 0 {
			return c > 0
		}
		return gi.order < gj.order
	})
}
