package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

// AxisParser handles Axis Bank statements, primarily credit-card
// exports with this layout:
//
//	Date | Transaction Details | Amount (INR) | Debit/Credit
//
// Date format: DD Mon 'YY (e.g. 24 Jan '26). The amount carries a rupee
// sign and an explicit Debit/Credit token, so direction never needs to
// be inferred.
type AxisParser struct{}

func (p *AxisParser) BankName() string { return "Axis" }

func (p *AxisParser) BankCode() models.BankCode { return models.BankAxis }

const axisMonths = `Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec`

var (
	// "24 Jan '26 EMI Interest - 34/49, Ref# 42250246 ₹ 2,528.05 Debit"
	axisDateFirstPattern = regexp.MustCompile(
		`(?i)^(\d{1,2}\s+(?:` + axisMonths + `)\s+'\d{2})\s+(.+?)\s+₹\s+([\d,]+\.\d{2})\s+(Debit|Credit)\s*$`)
	// "BBPS Payment Received - 03 Jan '26 ₹ 19,089.74 Credit"
	axisDateMidPattern = regexp.MustCompile(
		`(?i)^(.+?)\s+(\d{1,2}\s+(?:` + axisMonths + `)\s+'\d{2})\s+₹\s+([\d,]+\.\d{2})\s+(Debit|Credit)\s*$`)
	// "03 Jan '26 ₹ 19,089.74 Credit" (description on the previous line)
	axisDateOnlyPattern = regexp.MustCompile(
		`(?i)^(\d{1,2}\s+(?:` + axisMonths + `)\s+'\d{2})\s+₹\s+([\d,]+\.\d{2})\s+(Debit|Credit)\s*$`)

	axisDatePattern = regexp.MustCompile(
		`(?i)^(\d{1,2})\s+(` + axisMonths + `)\s+'(\d{2})\s*$`)
	axisDateLineStart = regexp.MustCompile(
		`(?i)^\d{1,2}\s+(?:` + axisMonths + `)`)

	axisSkipPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^Date\s+Transaction\s+Details\s+Amount`),
		regexp.MustCompile(`^\*\*End of Transaction Summary\*\*`),
		regexp.MustCompile(`^\*\*End of Active Loans Summary\*\*`),
		regexp.MustCompile(`(?i)^Page\s+\d+\s+of\s+\d+`),
		regexp.MustCompile(`(?i)^View Active Loans`),
		regexp.MustCompile(`(?i)^Payment Summary`),
		regexp.MustCompile(`(?i)^Transaction Summary`),
		regexp.MustCompile(`(?i)^Active Loans Summary`),
		regexp.MustCompile(`(?i)^S\.No\s+Loan Type`),
		regexp.MustCompile(`(?i)^Total\s+Remaining`),
	}
)

// parseAxisDate parses DD Mon 'YY into a calendar date.
func parseAxisDate(s string) (time.Time, bool) {
	m := axisDatePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}
	month, ok := monthNum(m[2])
	if !ok {
		return time.Time{}, false
	}
	day := atoiSafe(m[1], 0)
	year := 2000 + atoiSafe(m[3], 0)
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

func axisSkipLine(line string) bool {
	for _, pat := range axisSkipPatterns {
		if pat.MatchString(line) {
			return true
		}
	}
	return false
}

func (p *AxisParser) Parse(lines []string) ([]models.TransactionRecord, error) {
	if len(lines) == 0 {
		return nil, models.ErrNotApplicable
	}

	haystack := headSample(lines, 80)
	if !strings.Contains(haystack, "axis") {
		return nil, models.ErrNotApplicable
	}
	if !strings.Contains(haystack, "transaction") &&
		!strings.Contains(haystack, "debit") &&
		!strings.Contains(haystack, "credit") {
		return nil, models.ErrNotApplicable
	}

	records := []models.TransactionRecord{}
	inSection := false
	prevDescContinuation := ""

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if strings.Contains(line, "Transaction Summary") || strings.Contains(line, "Date Transaction Details") {
			inSection = true
		}
		if strings.Contains(line, "**End of Transaction Summary**") {
			break
		}
		if axisSkipLine(line) {
			continue
		}
		if !inSection && !strings.Contains(line, "₹") {
			continue
		}

		var dateStr, desc, amountStr, direction string

		if m := axisDateOnlyPattern.FindStringSubmatch(line); m != nil && prevDescContinuation != "" {
			dateStr, amountStr, direction = m[1], m[2], m[3]
			desc = prevDescContinuation
			prevDescContinuation = ""
		} else {
			prevDescContinuation = ""
			if m := axisDateFirstPattern.FindStringSubmatch(line); m != nil {
				dateStr, desc, amountStr, direction = m[1], m[2], m[3], m[4]
			} else if m := axisDateMidPattern.FindStringSubmatch(line); m != nil {
				desc = strings.TrimSpace(m[1] + " " + m[2])
				dateStr, amountStr, direction = m[2], m[3], m[4]
			} else {
				// A bare text line inside the section is a description
				// waiting for its date+amount on the next line.
				if inSection && !strings.Contains(line, "₹") && !axisDateLineStart.MatchString(line) {
					prevDescContinuation = line
				}
				continue
			}
		}

		txnDate, ok := parseAxisDate(dateStr)
		if !ok {
			continue
		}
		amount, err := parseAmount(amountStr)
		if err != nil {
			continue
		}

		rec := models.TransactionRecord{
			TxnDate:     txnDate,
			Description: strings.TrimSpace(desc),
		}
		if strings.EqualFold(strings.TrimSpace(direction), "credit") {
			rec.DepositAmt = amountPtr(amount)
		} else {
			rec.WithdrawalAmt = amountPtr(amount)
		}
		records = append(records, rec)
	}

	return records, nil
}
