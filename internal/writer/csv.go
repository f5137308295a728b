package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

// CSVWriter writes canonical transaction records to CSV format.
type CSVWriter struct{}

// WriteToFile writes records to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, records []models.TransactionRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, records)
}

// Write writes records in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, records []models.TransactionRecord) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	header := []string{"Date", "Description", "Withdrawal", "Deposit", "Balance", "BankCode", "RefID"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.TxnDate.Format("2006-01-02"),
			rec.Description,
			formatAmount(rec.WithdrawalAmt),
			formatAmount(rec.DepositAmt),
			formatAmount(rec.Balance),
			rec.BankCode,
			rec.RawTxnID,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return writer.Error()
}

func formatAmount(amount *decimal.Decimal) string {
	if amount == nil {
		return ""
	}
	return amount.StringFixed(2)
}
