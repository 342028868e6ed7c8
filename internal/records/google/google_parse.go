package google

import (
	"fmt"
	"strings"

	"github.com/KhemraButh/Loan-Performance/internal/core"
)

// Worksheet column headers. Presence is not guaranteed; a missing column
// leaves the corresponding field empty on every row.
const (
	colDate         = "Date"
	colValueDate    = "VALUE DATE"
	colMaturityDate = "MATUR_DATE"
	colAmount       = "AMOUNT IN USD"
	colOutstanding  = "OUTSTANDING"
	colInterestRate = "INTEREST RATE"
	colBranch       = "Branch/Outlet"
	colRMName       = "RM Name"
	colProductType  = "PRODUCT_TYPE"
	colQuarter      = "Quarter"
)

// parseRows converts a values matrix (as returned by the Sheets API, first
// row being the header) into raw records. Rows with no non-empty cell are
// dropped; everything else is kept as-is for the normalizer to judge.
func parseRows(values [][]interface{}) []core.RawRow {
	if len(values) < 2 {
		return nil
	}
	headers := toStrings(values[0])
	idx := func(name string) int { return indexOf(headers, name) }
	cols := struct {
		date, valueDate, maturityDate        int
		amount, outstanding, interestRate    int
		branch, rmName, productType, quarter int
	}{
		date:         idx(colDate),
		valueDate:    idx(colValueDate),
		maturityDate: idx(colMaturityDate),
		amount:       idx(colAmount),
		outstanding:  idx(colOutstanding),
		interestRate: idx(colInterestRate),
		branch:       idx(colBranch),
		rmName:       idx(colRMName),
		productType:  idx(colProductType),
		quarter:      idx(colQuarter),
	}

	out := make([]core.RawRow, 0, len(values)-1)
	for _, rowVals := range values[1:] {
		row := toStrings(rowVals)
		raw := core.RawRow{
			Date:         safeGet(row, cols.date),
			ValueDate:    safeGet(row, cols.valueDate),
			MaturityDate: safeGet(row, cols.maturityDate),
			Amount:       safeGet(row, cols.amount),
			Outstanding:  safeGet(row, cols.outstanding),
			InterestRate: safeGet(row, cols.interestRate),
			Branch:       safeGet(row, cols.branch),
			RMName:       safeGet(row, cols.rmName),
			ProductType:  safeGet(row, cols.productType),
			Quarter:      safeGet(row, cols.quarter),
		}
		if isEmptyRow(raw) {
			continue
		}
		out = append(out, raw)
	}
	return out
}

func isEmptyRow(r core.RawRow) bool {
	return r.Date == "" && r.ValueDate == "" && r.MaturityDate == "" &&
		r.Amount == "" && r.Outstanding == "" && r.InterestRate == "" &&
		r.Branch == "" && r.RMName == "" && r.ProductType == "" && r.Quarter == ""
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
