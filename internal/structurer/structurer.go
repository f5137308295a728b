// Package structurer infers a canonical column mapping from a raw table
// of string cells. It is the terminal fallback of the conversion
// pipeline: when no bank-specific parser applies, it locates a header
// row by keyword scan, or failing that sniffs column roles from cell
// content, and normalizes whatever rows carry a parseable date. Rows
// it cannot place are dropped rather than failing the whole table.
package structurer

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

// columnMap names the role of each inferred column. An index of -1
// means the role was not found. When AmountCol is set instead of the
// Withdrawal/Deposit pair, direction is inferred from the running
// balance delta.
type columnMap struct {
	Date        int
	Description int
	Withdrawal  int
	Deposit     int
	Amount      int
	Balance     int
}

func emptyColumnMap() columnMap {
	return columnMap{Date: -1, Description: -1, Withdrawal: -1, Deposit: -1, Amount: -1, Balance: -1}
}

var (
	headerDateKeywords = []string{"txndate", "transactiondate", "valuedate", "date"}
	headerDescKeywords = []string{"description", "narration", "particulars", "transactiondetails", "details", "remarks"}
	headerWdrlKeywords = []string{"withdrawalamt", "withdrawal", "debitamount", "debit", "dr"}
	headerDepKeywords  = []string{"depositamt", "deposit", "creditamount", "credit", "cr"}
	headerBalKeywords  = []string{"closingbalance", "runningbalance", "balance"}
	headerAmtKeywords  = []string{"amountinr", "amount", "amt"}

	nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)
	amountCleanRE   = regexp.MustCompile(`[,\s₹]`)
)

var dateLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"2006-01-02",
	"02-01-06",
	"02/01/06",
	"02 Jan 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"02-Jan-06",
}

// Structure maps a raw table to canonical transaction records. Rows
// without a parseable date are dropped silently.
func Structure(table models.RawTable) ([]models.TransactionRecord, error) {
	table.PadRows()
	if len(table.Rows) == 0 || table.Width() == 0 {
		return []models.TransactionRecord{}, nil
	}

	cols, dataStart := mapByHeader(table.Rows)
	if cols.Date < 0 {
		cols = mapByContent(table.Rows)
		dataStart = 0
	}
	if cols.Date < 0 {
		return []models.TransactionRecord{}, nil
	}

	records := []models.TransactionRecord{}
	var prevBalance *decimal.Decimal

	for _, row := range table.Rows[dataStart:] {
		txnDate, ok := parseDateCell(cellAt(row, cols.Date))
		if !ok {
			continue
		}

		rec := models.TransactionRecord{
			TxnDate:     txnDate,
			Description: strings.TrimSpace(cellAt(row, cols.Description)),
		}
		if bal, ok := parseAmountCell(cellAt(row, cols.Balance)); ok {
			rec.Balance = &bal
		}

		switch {
		case cols.Withdrawal >= 0 || cols.Deposit >= 0:
			wd, wdOK := parseAmountCell(cellAt(row, cols.Withdrawal))
			dep, depOK := parseAmountCell(cellAt(row, cols.Deposit))
			switch {
			case wdOK && !wd.IsZero() && (!depOK || dep.IsZero()):
				rec.WithdrawalAmt = &wd
			case depOK && !dep.IsZero() && (!wdOK || wd.IsZero()):
				rec.DepositAmt = &dep
			case wdOK && depOK && !wd.IsZero() && !dep.IsZero():
				// Both populated: trust the balance delta when we
				// have one, otherwise take the withdrawal cell.
				if deposit := balanceSaysCredit(prevBalance, rec.Balance); deposit {
					rec.DepositAmt = &dep
				} else {
					rec.WithdrawalAmt = &wd
				}
			}
		case cols.Amount >= 0:
			if amt, ok := parseAmountCell(cellAt(row, cols.Amount)); ok && !amt.IsZero() {
				if balanceSaysCredit(prevBalance, rec.Balance) {
					rec.DepositAmt = &amt
				} else {
					rec.WithdrawalAmt = &amt
				}
			}
		}

		if rec.Balance != nil {
			prevBalance = rec.Balance
		}
		if rec.WithdrawalAmt == nil && rec.DepositAmt == nil {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// balanceSaysCredit reports whether the running-balance delta marks the
// current row as a credit. With no usable delta it answers false: the
// default direction is debit, a known-imprecise heuristic carried from
// the statement formats themselves.
func balanceSaysCredit(prev, cur *decimal.Decimal) bool {
	if prev == nil || cur == nil {
		return false
	}
	return cur.GreaterThan(*prev)
}

// mapByHeader scans the leading rows for a header row naming a date
// column and at least one amount-like column. Returns the mapping and
// the index of the first data row, or a mapping with Date == -1.
func mapByHeader(rows [][]string) (columnMap, int) {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}

	for i := 0; i < limit; i++ {
		cols := emptyColumnMap()
		for j, cell := range rows[i] {
			key := nonAlnumPattern.ReplaceAllString(strings.ToLower(cell), "")
			if key == "" {
				continue
			}
			switch {
			case cols.Date < 0 && matchesHeader(key, headerDateKeywords):
				cols.Date = j
			case cols.Description < 0 && matchesHeader(key, headerDescKeywords):
				cols.Description = j
			case cols.Withdrawal < 0 && matchesHeader(key, headerWdrlKeywords):
				cols.Withdrawal = j
			case cols.Deposit < 0 && matchesHeader(key, headerDepKeywords):
				cols.Deposit = j
			case cols.Balance < 0 && matchesHeader(key, headerBalKeywords):
				cols.Balance = j
			case cols.Amount < 0 && matchesHeader(key, headerAmtKeywords):
				cols.Amount = j
			}
		}
		if cols.Date >= 0 && (cols.Withdrawal >= 0 || cols.Deposit >= 0 || cols.Amount >= 0) {
			return cols, i + 1
		}
	}
	return emptyColumnMap(), 0
}

func matchesHeader(key string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

// mapByContent sniffs column roles from cell values when no header row
// exists. The column whose values mostly parse as dates is the date
// column; of the numeric-or-empty columns to its right the rightmost
// is the balance, the pair before it withdrawal/deposit, and a lone
// remaining column a direction-ambiguous amount.
func mapByContent(rows [][]string) columnMap {
	cols := emptyColumnMap()
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	type colStats struct {
		nonEmpty int
		dates    int
		amounts  int
	}
	stats := make([]colStats, width)
	for _, row := range rows {
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			stats[j].nonEmpty++
			if _, ok := parseDateCell(cell); ok {
				stats[j].dates++
			} else if _, ok := parseAmountCell(cell); ok {
				stats[j].amounts++
			}
		}
	}

	bestDateFrac := 0.0
	for j, s := range stats {
		if s.nonEmpty == 0 {
			continue
		}
		frac := float64(s.dates) / float64(s.nonEmpty)
		if frac >= 0.5 && frac > bestDateFrac {
			bestDateFrac = frac
			cols.Date = j
		}
	}
	if cols.Date < 0 {
		return cols
	}

	// Numeric-or-empty columns right of the date column are amount
	// candidates; everything else is narrative.
	var amountCols []int
	for j := cols.Date + 1; j < width; j++ {
		s := stats[j]
		if s.nonEmpty == 0 || float64(s.amounts)/float64(s.nonEmpty) >= 0.6 {
			amountCols = append(amountCols, j)
			continue
		}
		if cols.Description < 0 && float64(s.dates)/float64(s.nonEmpty) < 0.5 {
			cols.Description = j
		}
	}

	switch len(amountCols) {
	case 0:
	case 1:
		cols.Amount = amountCols[0]
	case 2:
		cols.Amount = amountCols[0]
		cols.Balance = amountCols[1]
	default:
		n := len(amountCols)
		cols.Balance = amountCols[n-1]
		cols.Withdrawal = amountCols[n-3]
		cols.Deposit = amountCols[n-2]
	}
	return cols
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseDateCell(cell string) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseAmountCell(cell string) (decimal.Decimal, bool) {
	cell = amountCleanRE.ReplaceAllString(strings.TrimSpace(cell), "")
	if cell == "" || cell == "-" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(cell)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
