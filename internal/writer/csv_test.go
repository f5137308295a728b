package writer

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCSVWriter_Write(t *testing.T) {
	records := []models.TransactionRecord{
		{
			TxnDate:     time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
			Description: "Salary Credit",
			DepositAmt:  dec("50000"),
			Balance:     dec("150000"),
			BankCode:    "hdfc_bank",
			RawTxnID:    "UPI-512345",
		},
		{
			TxnDate:       time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC),
			Description:   "ATM Withdrawal",
			WithdrawalAmt: dec("2000"),
		},
	}

	var buf bytes.Buffer
	w := &CSVWriter{}
	require.NoError(t, w.Write(&buf, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Date", "Description", "Withdrawal", "Deposit", "Balance", "BankCode", "RefID"}, rows[0])
	assert.Equal(t, []string{"2025-04-01", "Salary Credit", "", "50000.00", "150000.00", "hdfc_bank", "UPI-512345"}, rows[1])
	assert.Equal(t, []string{"2025-04-02", "ATM Withdrawal", "2000.00", "", "", "", ""}, rows[2])
}

func TestCSVWriter_EmptyRecords(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	require.NoError(t, w.Write(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
