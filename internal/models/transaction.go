package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is the canonical output unit of the pipeline.
// Exactly one of WithdrawalAmt/DepositAmt is set on a promoted record;
// both are nil only on a transitional candidate, which is never emitted.
type TransactionRecord struct {
	TxnDate       time.Time        `json:"txnDate"`
	Description   string           `json:"description"`
	WithdrawalAmt *decimal.Decimal `json:"withdrawalAmt,omitempty"`
	DepositAmt    *decimal.Decimal `json:"depositAmt,omitempty"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
	BankCode      string           `json:"bankCode,omitempty"`
	RawTxnID      string           `json:"rawTxnId,omitempty"`
}

// IsDebit reports whether the record carries a withdrawal amount.
func (t TransactionRecord) IsDebit() bool {
	return t.WithdrawalAmt != nil
}

// RawTable is the low-level tabular representation produced by the
// extraction strategy selector: ordered rows of raw string cells.
// Ragged rows are padded to the widest row width with empty strings
// before the table is handed downstream.
type RawTable struct {
	Rows [][]string
}

// PadRows normalizes all rows to the widest row width.
func (t *RawTable) PadRows() {
	maxCols := 0
	for _, row := range t.Rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}
	for i, row := range t.Rows {
		for len(row) < maxCols {
			row = append(row, "")
		}
		t.Rows[i] = row
	}
}

// Width returns the column count of the widest row.
func (t *RawTable) Width() int {
	w := 0
	for _, row := range t.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}
