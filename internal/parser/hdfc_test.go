package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHDFCParser_SingleLine(t *testing.T) {
	p := &HDFCParser{}

	lines := fixtureLines(`
		HDFC BANK LIMITED
		Statement of account
		01/04/25 UPI-SWIGGY-FOOD ORDER 0000123456789 01/04/25 500.00 9,500.00
		02/04/25 SALARY CREDIT ACME CORP 0000987654321 02/04/25 50,000.00 59,500.00
		03/04/25 ATM WITHDRAWAL MUMBAI 0000111122223 03/04/25 2,000.00 57,500.00
	`)

	records, err := p.Parse(lines)
	require.NoError(t, err)
	require.Len(t, records, 3)
	requireAmountExclusivity(t, records)

	// First transaction has no prior balance: defaults to debit.
	require.NotNil(t, records[0].WithdrawalAmt)
	assert.Equal(t, "500", records[0].WithdrawalAmt.String())
	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), records[0].TxnDate)

	// Balance rose: credit.
	require.NotNil(t, records[1].DepositAmt)
	assert.Equal(t, "50000", records[1].DepositAmt.String())

	// Balance fell: debit.
	require.NotNil(t, records[2].WithdrawalAmt)
	assert.Equal(t, "2000", records[2].WithdrawalAmt.String())
	require.NotNil(t, records[2].Balance)
	assert.Equal(t, "57500", records[2].Balance.String())
}

func TestHDFCParser_Vertical(t *testing.T) {
	p := &HDFCParser{}

	lines := fixtureLines(`
		HDFC BANK
		Account Statement
		01/04/25
		POS PURCHASE ZOMATO
		UPI-512345678901
		750.00
		9,250.00
		02/04/25
		NEFT FROM ACME
		0000987654
		10,000.00
		19,250.00
	`)

	records, err := p.Parse(lines)
	require.NoError(t, err)
	require.Len(t, records, 2)
	requireAmountExclusivity(t, records)

	assert.Equal(t, "POS PURCHASE ZOMATO", records[0].Description)
	assert.Equal(t, "UPI-512345678901", records[0].RawTxnID)
	require.NotNil(t, records[0].WithdrawalAmt)
	assert.Equal(t, "750", records[0].WithdrawalAmt.String())
	require.NotNil(t, records[0].Balance)
	assert.Equal(t, "9250", records[0].Balance.String())

	assert.Equal(t, "0000987654", records[1].RawTxnID)
	require.NotNil(t, records[1].DepositAmt)
	assert.Equal(t, "10000", records[1].DepositAmt.String())
}

func TestHDFCParser_NotApplicable(t *testing.T) {
	p := &HDFCParser{}
	_, err := p.Parse(fixtureLines(`
		Some Other Bank
		01/04/25 GROCERIES REF01234567890 01/04/25 500.00 9,500.00
	`))
	assert.Error(t, err)
}

func TestParseHDFCDate_CenturyPivot(t *testing.T) {
	d, ok := parseHDFCDate("01/04/25")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), d)

	d, ok = parseHDFCDate("01/04/75")
	require.True(t, ok)
	assert.Equal(t, time.Date(1975, time.April, 1, 0, 0, 0, 0, time.UTC), d)

	_, ok = parseHDFCDate("41/04/25")
	assert.False(t, ok)
}
