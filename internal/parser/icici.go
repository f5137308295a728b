package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

// ICICIParser handles ICICI Bank statements when table extraction comes
// up short. ICICI PDFs render vertically: a date-only line (several
// separator variants), optionally a second date line (value date and
// transaction date side by side, the second one wins), remark lines,
// then amounts. Amounts close a transaction in three shapes: amount +
// amount + balance across three lines, amount + balance across two, or
// a lone amount. Direction comes from the balance delta against the
// previous record; the first record defaults to debit.
type ICICIParser struct{}

func (p *ICICIParser) BankName() string { return "ICICI" }

func (p *ICICIParser) BankCode() models.BankCode { return models.BankICICI }

var (
	iciciDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})$`),
		regexp.MustCompile(`^(\d{2}-\d{2}-\d{4})$`),
		regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4})$`),
		regexp.MustCompile(`^(\d{1,2}-\d{1,2}-\d{4})$`),
	}
	// Anchored and decimal-bearing: cheque numbers and UPI refs are
	// digit runs too, but never carry a fractional part.
	iciciAmountPattern = regexp.MustCompile(`^([\d,]+\.\d{1,2})$`)
)

func iciciMatchDate(line string) string {
	line = strings.TrimSpace(line)
	for _, pat := range iciciDatePatterns {
		if m := pat.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}

func parseICICIDate(s string) (time.Time, bool) {
	sep := "/"
	if strings.Contains(s, "-") {
		sep = "-"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day := atoiSafe(parts[0], 0)
	month := atoiSafe(parts[1], 0)
	year := atoiSafe(parts[2], 0)
	if day < 1 || day > 31 || month < 1 || month > 12 || year < 1900 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

func (p *ICICIParser) Parse(lines []string) ([]models.TransactionRecord, error) {
	if len(lines) == 0 {
		return nil, models.ErrNotApplicable
	}

	applicable := false
	limit := len(lines)
	if limit > 50 {
		limit = 50
	}
	for _, line := range lines[:limit] {
		if strings.Contains(strings.ToLower(line), "icici") {
			applicable = true
			break
		}
	}
	if !applicable {
		return nil, models.ErrNotApplicable
	}

	records := []models.TransactionRecord{}
	i := p.findTableStart(lines)

	for i < len(lines) {
		dateStr := iciciMatchDate(lines[i])
		if dateStr == "" {
			i++
			continue
		}
		i++

		// Value date and transaction date can appear as two consecutive
		// date lines; the transaction date (second) wins.
		if i < len(lines) {
			if second := iciciMatchDate(lines[i]); second != "" {
				dateStr = second
				i++
			}
		}

		var descParts []string
		var withdrawal, deposit, balance *decimal.Decimal

		for i < len(lines) {
			candidate := strings.TrimSpace(lines[i])

			if iciciMatchDate(candidate) != "" {
				break
			}

			m := iciciAmountPattern.FindStringSubmatch(candidate)
			if m == nil {
				descParts = append(descParts, candidate)
				i++
				continue
			}
			amount, err := parseAmount(m[1])
			if err != nil {
				descParts = append(descParts, candidate)
				i++
				continue
			}

			if closed, w, d, b, advance := p.closeAmounts(lines, i, amount, records); closed {
				withdrawal, deposit, balance = w, d, b
				i += advance
				break
			}

			// Lone amount with nothing usable after it: record as a
			// withdrawal with no balance.
			withdrawal = amountPtr(amount)
			i++
			break
		}

		// Lines between the closing balance and the next date line are
		// footers and page furniture; the outer scan drops them.

		if withdrawal == nil && deposit == nil {
			continue
		}
		txnDate, ok := parseICICIDate(dateStr)
		if !ok {
			continue
		}
		records = append(records, models.TransactionRecord{
			TxnDate:       txnDate,
			Description:   joinDescription(descParts),
			WithdrawalAmt: withdrawal,
			DepositAmt:    deposit,
			Balance:       balance,
		})
	}

	return records, nil
}

// findTableStart scans a bounded prefix for the transaction header so
// preamble rows are not mistaken for transactions. Falls back to the
// top of the document when no header is found.
func (p *ICICIParser) findTableStart(lines []string) int {
	limit := len(lines)
	if limit > 100 {
		limit = 100
	}
	for j, line := range lines[:limit] {
		lower := strings.ReplaceAll(strings.ToLower(line), " ", "")
		if strings.Contains(lower, "valuedate") || strings.Contains(lower, "transactiondate") {
			return j + 1
		}
	}
	return 0
}

// closeAmounts tries the three-line (amount, amount, balance) and
// two-line (amount, balance) closures starting at lines[i], which has
// already parsed to amount. Returns the resolved roles and how many
// lines were consumed.
func (p *ICICIParser) closeAmounts(lines []string, i int, amount decimal.Decimal, prior []models.TransactionRecord) (bool, *decimal.Decimal, *decimal.Decimal, *decimal.Decimal, int) {
	if i+1 >= len(lines) {
		return false, nil, nil, nil, 0
	}
	next := strings.TrimSpace(lines[i+1])
	nm := iciciAmountPattern.FindStringSubmatch(next)
	if nm == nil {
		return false, nil, nil, nil, 0
	}
	nextAmount, err := parseAmount(nm[1])
	if err != nil {
		return false, nil, nil, nil, 0
	}

	// Three lines: amount, amount, balance.
	if i+2 < len(lines) {
		third := strings.TrimSpace(lines[i+2])
		if tm := iciciAmountPattern.FindStringSubmatch(third); tm != nil {
			if balance, err := parseAmount(tm[1]); err == nil {
				// When the first figure is a zero-filled column, the
				// second one is the live amount.
				figure := amount
				if figure.IsZero() && !nextAmount.IsZero() {
					figure = nextAmount
				}
				w, d := iciciDirection(figure, balance, prior)
				return true, w, d, amountPtr(balance), 3
			}
		}
	}

	// Two lines: amount, balance.
	w, d := iciciDirection(amount, nextAmount, prior)
	return true, w, d, amountPtr(nextAmount), 2
}

// iciciDirection classifies by balance delta: balance above the
// previous record's balance means deposit, otherwise withdrawal. With
// no prior balance the amount defaults to withdrawal.
func iciciDirection(amount, balance decimal.Decimal, prior []models.TransactionRecord) (*decimal.Decimal, *decimal.Decimal) {
	if len(prior) > 0 && prior[len(prior)-1].Balance != nil &&
		balance.GreaterThan(*prior[len(prior)-1].Balance) {
		return nil, amountPtr(amount)
	}
	return amountPtr(amount), nil
}
