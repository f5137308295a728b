package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

// FederalParser handles Federal Bank statements.
//
// Federal dates transactions with day and month only ("02 Apr"); the
// year is inferred from the statement-period header, which spans an
// April–March fiscal year. Amount and balance follow the description,
// either together on one line or on two consecutive lines.
type FederalParser struct{}

func (p *FederalParser) BankName() string { return "Federal" }

func (p *FederalParser) BankCode() models.BankCode { return models.BankFederal }

var (
	federalDatePattern = regexp.MustCompile(
		`(?i)^(\d{2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s*$`)
	federalAmountBalancePattern = regexp.MustCompile(`^([\d,]+\.?\d*)\s+([\d,]+\.?\d*)\s*$`)
	federalSingleAmountPattern  = regexp.MustCompile(`^([\d,]+\.?\d*)\s*$`)
	federalRefLinePattern       = regexp.MustCompile(`^\d{1,6}$`)
)

// federalIsCredit applies Federal's narration heuristic: inbound UPI
// transfers are marked "UPI IN"; everything else defaults to debit.
func federalIsCredit(desc string) bool {
	lower := strings.ToLower(desc)
	return strings.Contains(lower, "upi in") || strings.Contains(lower, "upiin")
}

func (p *FederalParser) Parse(lines []string) ([]models.TransactionRecord, error) {
	if len(lines) == 0 {
		return nil, models.ErrNotApplicable
	}

	haystack := headSample(lines, 100)
	if !strings.Contains(haystack, "federal") && !strings.Contains(haystack, "fdrl") {
		return nil, models.ErrNotApplicable
	}

	startYear, endYear := inferFiscalYears(lines, 2025, 2026)

	records := []models.TransactionRecord{}
	i := 0

	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		dm := federalDatePattern.FindStringSubmatch(line)
		if dm == nil {
			i++
			continue
		}

		month, ok := monthNum(dm[2])
		if !ok {
			i++
			continue
		}
		year := fiscalYearFor(month, startYear, endYear)
		txnDate := time.Date(year, month, atoiSafe(dm[1], 1), 0, 0, 0, 0, time.UTC)
		i++

		var descParts []string
		var rec *models.TransactionRecord

		for i < len(lines) {
			candidate := strings.TrimSpace(lines[i])

			if federalDatePattern.MatchString(candidate) {
				break
			}

			// Pure numeric ref lines (0, 0000, 5411) sit between the
			// narration and the amounts; they are not amounts.
			if federalRefLinePattern.MatchString(candidate) {
				i++
				continue
			}

			// Same line: "5,000.00 17,860.76"
			if m := federalAmountBalancePattern.FindStringSubmatch(candidate); m != nil {
				if amount, err := parseAmount(m[1]); err == nil {
					rec = federalPromote(txnDate, descParts, amount, m[2])
					i++
					break
				}
			}

			// Separate lines: "5,000.00" then "17,860.76"
			if m := federalSingleAmountPattern.FindStringSubmatch(candidate); m != nil && len(descParts) > 0 && i+1 < len(lines) {
				next := strings.TrimSpace(lines[i+1])
				if federalSingleAmountPattern.MatchString(next) {
					if amount, err := parseAmount(m[1]); err == nil {
						rec = federalPromote(txnDate, descParts, amount, next)
						i += 2
						break
					}
				}
			}

			if candidate != "" {
				descParts = append(descParts, candidate)
			}
			i++
		}

		if rec != nil {
			records = append(records, *rec)
		}
	}

	return records, nil
}

func federalPromote(txnDate time.Time, descParts []string, amount decimal.Decimal, balanceStr string) *models.TransactionRecord {
	desc := joinDescription(descParts)
	rec := &models.TransactionRecord{
		TxnDate:     txnDate,
		Description: desc,
	}
	if balance, err := parseAmount(balanceStr); err == nil {
		rec.Balance = amountPtr(balance)
	}
	if federalIsCredit(desc) {
		rec.DepositAmt = amountPtr(amount)
	} else {
		rec.WithdrawalAmt = amountPtr(amount)
	}
	return rec
}
