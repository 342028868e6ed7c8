package http

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KhemraButh/Loan-Performance/internal/core"
)

// dashboardView is everything the dashboard partial needs to render one
// drill-down level, pre-formatted so templates stay free of logic.
type dashboardView struct {
	Level          string
	SelectedMonth  string
	SelectedBranch string

	Quarter  string
	Product  string
	Quarters []string
	Products []string

	Stats statsView

	Stale     bool
	FetchedAt string

	MonthRows  []monthRow
	BranchRows []branchRow
	RMRows     []rmRow
	Empty      bool
}

type statsView struct {
	TotalAmount      string
	LoanCount        int
	AvgLoanSize      string
	DistinctBranches int
	DistinctRMs      int
}

type monthRow struct {
	Month            string
	TotalAmount      string
	LoanCount        int
	TotalOutstanding string
	DistinctRMs      int
	BarWidth         int
}

type branchRow struct {
	Branch           string
	TotalAmount      string
	LoanCount        int
	TotalOutstanding string
	DistinctRMs      int
	MeanInterestRate string
	BarWidth         int
}

type rmRow struct {
	RMName           string
	TotalAmount      string
	LoanCount        int
	MeanAmount       string
	TotalOutstanding string
	MeanInterestRate string
	TopProduct       string
	BarWidth         int
}

const missingValue = "—"

func formatUSD(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	dot := strings.IndexByte(s, '.')
	out := "$" + groupThousands(s[:dot]) + s[dot:]
	if d.IsNegative() {
		return "-" + out
	}
	return out
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	rem := n % 3
	if rem > 0 {
		b.WriteString(digits[:rem])
	}
	for i := rem; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func formatMaybeUSD(nd decimal.NullDecimal) string {
	if !nd.Valid {
		return missingValue
	}
	return formatUSD(nd.Decimal)
}

func formatRate(nd decimal.NullDecimal) string {
	if !nd.Valid {
		return missingValue
	}
	return nd.Decimal.StringFixed(2) + "%"
}

// barWidth sizes a row's bar as a percentage of the largest total at the
// level; non-zero totals always get a visible sliver.
func barWidth(part, max decimal.Decimal) int {
	if max.IsZero() || part.IsZero() {
		return 0
	}
	pct := int(part.Mul(decimal.NewFromInt(100)).Div(max).IntPart())
	if pct < 2 {
		return 2
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func buildDashboardView(records []core.LoanRecord, st core.NavigationState, fetchedAt time.Time, stale bool) (dashboardView, error) {
	f := st.Filters()
	view := dashboardView{
		Level:          string(st.Level),
		SelectedMonth:  st.SelectedMonth,
		SelectedBranch: st.SelectedBranch,
		Quarter:        st.Quarter,
		Product:        st.Product,
		Quarters:       core.Quarters(records),
		Products:       core.Products(records),
		Stale:          stale,
		FetchedAt:      fetchedAt.Local().Format("2 Jan 2006 15:04"),
	}

	stats := core.Overview(records, f)
	view.Stats = statsView{
		TotalAmount:      formatUSD(stats.TotalAmount),
		LoanCount:        stats.LoanCount,
		AvgLoanSize:      formatMaybeUSD(stats.AvgLoanSize),
		DistinctBranches: stats.DistinctBranches,
		DistinctRMs:      stats.DistinctRMs,
	}

	switch st.Level {
	case core.LevelBranch:
		sums, err := core.BranchSummaries(records, f, st.SelectedMonth)
		if err != nil {
			return dashboardView{}, err
		}
		max := maxAmount(len(sums), func(i int) decimal.Decimal { return sums[i].TotalAmount })
		for _, s := range sums {
			view.BranchRows = append(view.BranchRows, branchRow{
				Branch:           s.Branch,
				TotalAmount:      formatUSD(s.TotalAmount),
				LoanCount:        s.LoanCount,
				TotalOutstanding: formatUSD(s.TotalOutstanding),
				DistinctRMs:      s.DistinctRMs,
				MeanInterestRate: formatRate(s.MeanInterestRate),
				BarWidth:         barWidth(s.TotalAmount, max),
			})
		}
		view.Empty = len(sums) == 0
	case core.LevelRM:
		sums, err := core.RMSummaries(records, f, st.SelectedMonth, st.SelectedBranch)
		if err != nil {
			return dashboardView{}, err
		}
		max := maxAmount(len(sums), func(i int) decimal.Decimal { return sums[i].TotalAmount })
		for _, s := range sums {
			view.RMRows = append(view.RMRows, rmRow{
				RMName:           s.RMName,
				TotalAmount:      formatUSD(s.TotalAmount),
				LoanCount:        s.LoanCount,
				MeanAmount:       formatMaybeUSD(s.MeanAmount),
				TotalOutstanding: formatUSD(s.TotalOutstanding),
				MeanInterestRate: formatRate(s.MeanInterestRate),
				TopProduct:       orMissing(s.TopProduct),
				BarWidth:         barWidth(s.TotalAmount, max),
			})
		}
		view.Empty = len(sums) == 0
	default:
		sums := core.MonthlySummaries(records, f)
		max := maxAmount(len(sums), func(i int) decimal.Decimal { return sums[i].TotalAmount })
		for _, s := range sums {
			view.MonthRows = append(view.MonthRows, monthRow{
				Month:            s.Month,
				TotalAmount:      formatUSD(s.TotalAmount),
				LoanCount:        s.LoanCount,
				TotalOutstanding: formatUSD(s.TotalOutstanding),
				DistinctRMs:      s.DistinctRMs,
				BarWidth:         barWidth(s.TotalAmount, max),
			})
		}
		view.Empty = len(sums) == 0
	}
	return view, nil
}

func maxAmount(n int, at func(int) decimal.Decimal) decimal.Decimal {
	max := decimal.Zero
	for i := 0; i < n; i++ {
		if d := at(i); d.GreaterThan(max) {
			max = d
		}
	}
	return max
}

func orMissing(s string) string {
	if s == "" {
		return missingValue
	}
	return s
}
