package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

// CanaraParser handles Canara Bank statements laid out as
// Date / Particulars / Deposits-Withdrawals / Balance. The amount
// always arrives on a "DD-MM-YYYY [desc] AMOUNT BALANCE" line;
// narration for a transaction may precede that line across several
// description lines. Direction comes from channel markers in the
// narration (IMPS-CR, UPI/CR, NEFT CR and friends).
type CanaraParser struct{}

func (p *CanaraParser) BankName() string { return "Canara" }

func (p *CanaraParser) BankCode() models.BankCode { return models.BankCanara }

var (
	canaraAmountWithDescPattern = regexp.MustCompile(
		`^(\d{2}-\d{2}-\d{4})\s+(.+?)\s+([\d,]+\.?\d*)\s+([\d,]+\.?\d*)\s*$`)
	canaraAmountNoDescPattern = regexp.MustCompile(
		`^(\d{2}-\d{2}-\d{4})\s+([\d,]+\.?\d*)\s+([\d,]+\.?\d*)\s*$`)
	canaraDatePattern        = regexp.MustCompile(`^(\d{2}-\d{2}-\d{4})\b`)
	canaraSectionPattern     = regexp.MustCompile(`(?i)^(Date\s+Particulars\s+Deposits|Opening\s+Balance)`)
	canaraNumericOnlyPattern = regexp.MustCompile(`^[\d,.\s]+$`)
	canaraTrailingAmtPattern = regexp.MustCompile(`[\d,]+\.?\d*\s+[\d,]+\.?\d*\s*$`)
	canaraAmountFragPattern  = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}\s+[\d,]+\.?\d*\s+[\d,]+\.?\d*$`)
	canaraChqPattern         = regexp.MustCompile(`^Chq:\s*\d*$`)

	canaraSkipPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^--\s+\d+\s+of\s+\d+\s+--\s*$`),
		regexp.MustCompile(`(?i)^Date\s+Particulars\s+Deposits`),
		regexp.MustCompile(`(?i)^Opening\s+Balance`),
		regexp.MustCompile(`(?i)^page\s+\d+\s*$`),
		regexp.MustCompile(`^Chq:\s*\d*$`),
	}

	canaraCreditMarkers = []string{
		"MOB-IMPS-CR", "IMPS-CR",
		"UPI/CR", "UPI CR",
		"SBINT",
		"INET-IMPS-CR", "INET-IMPS CR",
		"NEFT CR", "NEFT-CR", "RTGS CR", "RTGS-CR",
	}
)

func canaraSkipLine(line string) bool {
	for _, pat := range canaraSkipPatterns {
		if pat.MatchString(line) {
			return true
		}
	}
	return false
}

func canaraIsCredit(desc string) bool {
	upper := strings.ToUpper(desc)
	for _, marker := range canaraCreditMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	if idx := strings.Index(upper, "CR/"); idx >= 0 {
		prefixEnd := idx - 3
		if prefixEnd < 0 {
			prefixEnd = 0
		}
		if !strings.Contains(upper[:prefixEnd], "DR/") {
			return true
		}
	}
	return false
}

func (p *CanaraParser) Parse(lines []string) ([]models.TransactionRecord, error) {
	if len(lines) == 0 {
		return nil, models.ErrNotApplicable
	}

	haystack := headSample(lines, 80)
	if !strings.Contains(haystack, "canara") && !strings.Contains(haystack, "cnrb") {
		return nil, models.ErrNotApplicable
	}
	if !strings.Contains(haystack, "statement for") && !strings.Contains(haystack, "particulars") {
		return nil, models.ErrNotApplicable
	}

	records := []models.TransactionRecord{}
	var descParts []string
	inSection := false

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		if canaraSectionPattern.MatchString(line) {
			inSection = true
		}
		if canaraSkipLine(line) {
			continue
		}
		if !inSection {
			continue
		}

		m := canaraAmountWithDescPattern.FindStringSubmatch(line)
		var dateStr, descPart, amountStr, balanceStr string
		if m != nil {
			dateStr, descPart, amountStr, balanceStr = m[1], strings.TrimSpace(m[2]), m[3], m[4]
		} else if m = canaraAmountNoDescPattern.FindStringSubmatch(line); m != nil {
			dateStr, amountStr, balanceStr = m[1], m[2], m[3]
		}

		if m != nil {
			amount, amtErr := parseAmount(amountStr)
			txnDate, dateErr := time.Parse("02-01-2006", dateStr)
			if amtErr == nil && dateErr == nil {
				// Keep the middle of the amount line only when it reads as
				// narration rather than stray numeric columns.
				if descPart != "" && !canaraNumericOnlyPattern.MatchString(descPart) &&
					!canaraTrailingAmtPattern.MatchString(descPart) {
					descParts = append(descParts, descPart)
				}

				var clean []string
				for _, part := range descParts {
					part = strings.TrimSpace(part)
					if part == "" || canaraAmountFragPattern.MatchString(part) {
						continue
					}
					clean = append(clean, part)
				}
				description := strings.Join(clean, " ")

				rec := models.TransactionRecord{
					TxnDate:     txnDate,
					Description: description,
				}
				if bal, err := parseAmount(balanceStr); err == nil {
					rec.Balance = amountPtr(bal)
				}
				if canaraIsCredit(description) {
					rec.DepositAmt = amountPtr(amount)
				} else {
					rec.WithdrawalAmt = amountPtr(amount)
				}
				records = append(records, rec)
			}

			descParts = nil
			continue
		}

		// Date line without amounts starts a new block; narration may
		// trail the date.
		if dm := canaraDatePattern.FindStringSubmatch(line); dm != nil {
			rest := strings.TrimSpace(line[len(dm[0]):])
			if rest != "" {
				descParts = append(descParts, rest)
			}
			continue
		}

		if line != "" && !canaraChqPattern.MatchString(line) {
			descParts = append(descParts, line)
		}
	}

	return records, nil
}
