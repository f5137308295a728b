package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

// SBIParser handles State Bank of India statements.
//
// SBI dates transactions "DD Mon YYYY". A transaction either carries
// its amount and balance on the date line ("... DESC AMOUNT BALANCE")
// or spreads the description over following lines with the amount and
// balance arriving later. Direction comes from narration keywords
// (transfer credits, sweep-ins, UPI/NEFT/IMPS credit markers); anything
// unmatched is a withdrawal.
//
// Known degradation, kept deliberately: when lines accumulate without
// an amount ever resolving before the next date line, the accumulation
// is dropped rather than attributed to a neighboring transaction.
type SBIParser struct{}

func (p *SBIParser) BankName() string { return "SBI" }

func (p *SBIParser) BankCode() models.BankCode { return models.BankSBI }

var (
	sbiDatePattern = regexp.MustCompile(
		`(?i)^(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{4})\b`)
	sbiAmountBalancePattern = regexp.MustCompile(`^(.+?)\s+([\d,]+\.?\d*)\s+([\d,]+\.?\d*)\s*$`)

	sbiSkipPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^--\s+\d+\s+of\s+\d+\s+--\s*$`),
		regexp.MustCompile(`(?i)^Txn\s+Date\s+Value\s*$`),
		regexp.MustCompile(`(?i)^Date\s+Description\s+Ref`),
		regexp.MustCompile(`(?i)^No\.\s+Debit\s+Credit`),
		regexp.MustCompile(`(?i)^Balance\s*$`),
	}
)

func sbiSkipLine(line string) bool {
	for _, pat := range sbiSkipPatterns {
		if pat.MatchString(line) {
			return true
		}
	}
	return false
}

// sbiIsCredit applies SBI's narration keyword heuristic.
func sbiIsCredit(desc string) bool {
	lower := strings.ToLower(desc)
	switch {
	case strings.Contains(lower, "by transfer") || strings.Contains(lower, "transfer credit"):
		return true
	case strings.Contains(lower, "sweep from"):
		return true
	case strings.Contains(lower, "credit") && !strings.Contains(firstN(lower, 30), "debit"):
		return true
	case strings.Contains(lower, "upi/cr") || strings.Contains(lower, "upi cr"):
		return true
	case strings.Contains(lower, "neft") && strings.Contains(lower, "from"):
		return true
	case strings.Contains(lower, "imps") && strings.Contains(lower, "transfer from"):
		return true
	}
	return false
}

func firstN(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func (p *SBIParser) Parse(lines []string) ([]models.TransactionRecord, error) {
	if len(lines) == 0 {
		return nil, models.ErrNotApplicable
	}

	haystack := headSample(lines, 100)
	if !strings.Contains(haystack, "sbi") && !strings.Contains(haystack, "sbin") &&
		!strings.Contains(haystack, "state bank") {
		return nil, models.ErrNotApplicable
	}
	if !strings.Contains(haystack, "account statement from") && !strings.Contains(haystack, "txn date") {
		return nil, models.ErrNotApplicable
	}

	records := []models.TransactionRecord{}
	i := 0

	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		if sbiSkipLine(line) {
			i++
			continue
		}

		dm := sbiDatePattern.FindStringSubmatch(line)
		if dm == nil {
			i++
			continue
		}

		month, _ := monthNum(dm[2])
		txnDate := time.Date(atoiSafe(dm[3], 0), month, atoiSafe(dm[1], 1), 0, 0, 0, 0, time.UTC)
		afterDate := strings.TrimSpace(line[len(dm[0]):])

		var descParts []string
		var withdrawal, deposit, balance *decimal.Decimal

		// Same line: "... DESC AMOUNT BALANCE".
		if m := sbiAmountBalancePattern.FindStringSubmatch(afterDate); m != nil {
			if amount, err := parseAmount(m[2]); err == nil {
				if prefix := strings.TrimSpace(m[1]); prefix != "" {
					descParts = append(descParts, prefix)
				}
				withdrawal, deposit = sbiDirection(joinDescription(descParts), amount)
				if bal, err := parseAmount(m[3]); err == nil {
					balance = amountPtr(bal)
				}
				i++
			} else {
				descParts = append(descParts, afterDate)
				i++
			}
		} else {
			// Description here, amount on a later line.
			if afterDate != "" {
				descParts = append(descParts, afterDate)
			}
			i++

			for i < len(lines) {
				candidate := strings.TrimSpace(lines[i])
				if sbiDatePattern.MatchString(candidate) {
					break
				}
				if sbiSkipLine(candidate) {
					i++
					continue
				}

				// Amount line: "REF AMOUNT BALANCE" or "AMOUNT BALANCE".
				if m := sbiAmountBalancePattern.FindStringSubmatch(candidate); m != nil {
					if amount, err := parseAmount(m[2]); err == nil {
						withdrawal, deposit = sbiDirection(joinDescription(descParts), amount)
						if bal, err := parseAmount(m[3]); err == nil {
							balance = amountPtr(bal)
						}
						i++
						break
					}
				}

				if candidate != "" {
					descParts = append(descParts, candidate)
				}
				i++
			}
		}

		// Trailing continuations before the next date line.
		for i < len(lines) {
			candidate := strings.TrimSpace(lines[i])
			if sbiDatePattern.MatchString(candidate) {
				break
			}
			if candidate == "" || sbiSkipLine(candidate) {
				i++
				continue
			}
			descParts = append(descParts, candidate)
			i++
		}

		if withdrawal == nil && deposit == nil {
			// Accumulated lines never resolved to an amount: drop them
			// rather than mis-attribute to a neighboring transaction.
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

func sbiDirection(desc string, amount decimal.Decimal) (*decimal.Decimal, *decimal.Decimal) {
	if sbiIsCredit(desc) {
		return nil, amountPtr(amount)
	}
	return amountPtr(amount), nil
}
