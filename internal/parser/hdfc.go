package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

// HDFCParser handles HDFC Bank statements in two layouts.
//
// Single-line: every transaction on one physical line,
//
//	DD/MM/YY NARRATION REF DD/MM/YY AMOUNT CLOSING_BALANCE
//
// Vertical: date on its own line, then narration, an optional ref line,
// an amount line, and a closing-balance line. A second date line is
// treated as the next transaction's boundary, not a value date.
//
// Neither layout states the direction; it is inferred by comparing the
// closing balance against the previous transaction's closing balance.
// The first transaction of a document defaults to debit.
type HDFCParser struct{}

func (p *HDFCParser) BankName() string { return "HDFC" }

func (p *HDFCParser) BankCode() models.BankCode { return models.BankHDFC }

var (
	hdfcSingleLinePattern = regexp.MustCompile(
		`^(\d{2}/\d{2}/\d{2})\s+(.+)\s+(\d{2}/\d{2}/\d{2})\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s*$`)
	hdfcDatePattern   = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{2})$`)
	hdfcAmountPattern = regexp.MustCompile(`^([\d,]+\.\d{1,2})$`)
	hdfcRefPattern    = regexp.MustCompile(`^\d+`)

	hdfcSkipFragments = []string{"datenarrationchq./ref.no.", "statementofaccount", "hdfcbanklimited"}
)

// parseHDFCDate parses DD/MM/YY with a two-digit-year pivot: years
// below 50 land in the 2000s, the rest in the 1900s.
func parseHDFCDate(s string) (time.Time, bool) {
	m := hdfcDatePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}
	yy := atoiSafe(m[3], -1)
	if yy < 0 {
		return time.Time{}, false
	}
	year := 1900 + yy
	if yy < 50 {
		year = 2000 + yy
	}
	month := atoiSafe(m[2], 0)
	day := atoiSafe(m[1], 0)
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

func hdfcSkipLine(line string) bool {
	squashed := strings.ReplaceAll(strings.ToLower(line), " ", "")
	for _, frag := range hdfcSkipFragments {
		if strings.Contains(squashed, frag) {
			return true
		}
	}
	return false
}

func (p *HDFCParser) Parse(lines []string) ([]models.TransactionRecord, error) {
	if len(lines) == 0 {
		return nil, models.ErrNotApplicable
	}
	if !strings.Contains(headSample(lines, 80), "hdfc") {
		return nil, models.ErrNotApplicable
	}

	if records := p.parseSingleLine(lines); len(records) > 0 {
		return records, nil
	}
	return p.parseVertical(lines), nil
}

// parseSingleLine handles statements where each transaction occupies
// one line ending with amount and closing balance.
func (p *HDFCParser) parseSingleLine(lines []string) []models.TransactionRecord {
	var records []models.TransactionRecord
	var prevBalance *decimal.Decimal

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || len(line) < 30 || hdfcSkipLine(line) {
			continue
		}

		m := hdfcSingleLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		txnDate, ok := parseHDFCDate(m[1])
		if !ok {
			continue
		}
		amount, errA := parseAmount(m[4])
		closing, errB := parseAmount(m[5])
		if errA != nil || errB != nil {
			continue
		}

		rec := models.TransactionRecord{
			TxnDate:     txnDate,
			Description: strings.TrimSpace(m[2]),
			Balance:     amountPtr(closing),
		}
		if prevBalance != nil && closing.GreaterThan(*prevBalance) {
			rec.DepositAmt = amountPtr(amount)
		} else {
			rec.WithdrawalAmt = amountPtr(amount)
		}
		records = append(records, rec)
		prevBalance = amountPtr(closing)
	}

	return records
}

// parseVertical handles statements where each transaction spans several
// lines: date, narration fragments, an optional ref, a value date, then
// amount and balance on consecutive short lines.
func (p *HDFCParser) parseVertical(lines []string) []models.TransactionRecord {
	records := []models.TransactionRecord{}
	i := 0

	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if !hdfcDatePattern.MatchString(line) {
			i++
			continue
		}
		txnDateStr := line
		i++

		var narrationParts []string
		var rawTxnID string
		var withdrawal, deposit, closing *decimal.Decimal

		for i < len(lines) {
			candidate := strings.TrimSpace(lines[i])

			// A fresh date line is the next transaction's boundary.
			if hdfcDatePattern.MatchString(candidate) {
				break
			}

			if rawTxnID == "" && (strings.HasPrefix(candidate, "UPI-") || hdfcRefPattern.MatchString(candidate)) &&
				!hdfcAmountDecimal(candidate) {
				rawTxnID = candidate
				i++
				continue
			}

			// An amount line is the bare figure, decimal part included.
			if m := hdfcAmountPattern.FindStringSubmatch(candidate); m != nil {
				amount, err := parseAmount(m[1])
				if err == nil && i+1 < len(lines) {
					next := strings.TrimSpace(lines[i+1])
					nm := hdfcAmountPattern.FindStringSubmatch(next)
					if nm != nil {
						if balance, err := parseAmount(nm[1]); err == nil {
							closing = amountPtr(balance)
							if len(records) > 0 && records[len(records)-1].Balance != nil &&
								balance.GreaterThan(*records[len(records)-1].Balance) {
								deposit = amountPtr(amount)
							} else {
								withdrawal = amountPtr(amount)
							}
							i += 2
							break
						}
					}
				}
			}

			if candidate != "" {
				narrationParts = append(narrationParts, candidate)
			}
			i++
		}

		if withdrawal == nil && deposit == nil {
			continue
		}

		txnDate, ok := parseHDFCDate(txnDateStr)
		if !ok {
			continue
		}

		records = append(records, models.TransactionRecord{
			TxnDate:       txnDate,
			Description:   joinDescription(narrationParts),
			WithdrawalAmt: withdrawal,
			DepositAmt:    deposit,
			Balance:       closing,
			RawTxnID:      rawTxnID,
		})
	}

	return records
}

// hdfcAmountDecimal reports whether a line looks like a monetary figure
// rather than a bare reference number.
func hdfcAmountDecimal(line string) bool {
	return strings.Contains(line, ".") && hdfcAmountPattern.MatchString(line)
}
