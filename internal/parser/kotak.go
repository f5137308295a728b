package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

// KotakParser handles Kotak Mahindra Bank statements.
//
// Kotak lays each transaction out vertically: a date-only line
// (DD-MM-YYYY), narration lines, then an amount line and a balance line
// where every figure carries an explicit direction suffix:
//
//	12-03-2025
//	UPI/MERCHANT NAME/512345678901
//	1,250.00(Dr)
//	18,430.55(Cr)
type KotakParser struct{}

func (p *KotakParser) BankName() string { return "Kotak" }

func (p *KotakParser) BankCode() models.BankCode { return models.BankKotak }

var (
	kotakDatePattern   = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`)
	kotakAmountPattern = regexp.MustCompile(`(?i)([\d,.]+)\((Cr|Dr)\)`)
)

func (p *KotakParser) Parse(lines []string) ([]models.TransactionRecord, error) {
	if len(lines) == 0 {
		return nil, models.ErrNotApplicable
	}

	applicable := false
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), "kotak") {
			applicable = true
			break
		}
	}
	if !applicable {
		return nil, models.ErrNotApplicable
	}

	records := []models.TransactionRecord{}
	i := 0

	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		dm := kotakDatePattern.FindStringSubmatch(line)
		if dm == nil {
			i++
			continue
		}

		txnDate := time.Date(
			atoiSafe(dm[3], 0), time.Month(atoiSafe(dm[2], 1)), atoiSafe(dm[1], 1),
			0, 0, 0, 0, time.UTC)
		i++

		var narrationParts []string
		amountLine := ""
		for i < len(lines) {
			candidate := strings.TrimSpace(lines[i])
			if kotakAmountPattern.MatchString(candidate) {
				amountLine = candidate
				break
			}
			if kotakDatePattern.MatchString(candidate) {
				break
			}
			narrationParts = append(narrationParts, candidate)
			i++
		}

		if amountLine == "" || i >= len(lines) {
			continue
		}

		// The balance line, also direction-suffixed, directly follows
		// the amount line.
		balanceIdx := i + 1
		amountMatch := kotakAmountPattern.FindStringSubmatch(amountLine)
		if amountMatch == nil || balanceIdx >= len(lines) {
			i++
			continue
		}
		balanceMatch := kotakAmountPattern.FindStringSubmatch(strings.TrimSpace(lines[balanceIdx]))
		if balanceMatch == nil {
			i++
			continue
		}

		amount, errA := parseAmount(amountMatch[1])
		balance, errB := parseAmount(balanceMatch[1])
		if errA != nil || errB != nil {
			i++
			continue
		}

		rec := models.TransactionRecord{
			TxnDate:     txnDate,
			Description: joinDescription(narrationParts),
		}
		if strings.EqualFold(balanceMatch[2], "dr") {
			// Overdrawn accounts report a Dr balance; record it negative.
			balance = balance.Neg()
		}
		rec.Balance = amountPtr(balance)
		if strings.EqualFold(amountMatch[2], "dr") {
			rec.WithdrawalAmt = amountPtr(amount)
		} else {
			rec.DepositAmt = amountPtr(amount)
		}

		records = append(records, rec)
		i = balanceIdx + 1
	}

	return records, nil
}
