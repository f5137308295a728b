package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSBIParser_Parse(t *testing.T) {
	p := &SBIParser{}

	lines := fixtureLines(`
		State Bank of India
		Account Statement from 1 Apr 2025 to 30 Apr 2025
		Txn Date Value
		3 Apr 2025
		TO TRANSFER-UPI/DR/509988776655/GROCERY
		509988776655 1,450.00 8,550.00
		5 Apr 2025 BY TRANSFER-NEFT/ACME CORP 52,000.00 60,550.00
		-- 1 of 3 --
		8 Apr 2025
		ATM WDL-MUMBAI CENTRAL
		REF0045120 2,000.00 58,550.00
	`)

	records, err := p.Parse(lines)
	require.NoError(t, err)
	require.Len(t, records, 3)
	requireAmountExclusivity(t, records)

	assert.Equal(t, time.Date(2025, time.April, 3, 0, 0, 0, 0, time.UTC), records[0].TxnDate)
	require.NotNil(t, records[0].WithdrawalAmt)
	assert.Equal(t, "1450", records[0].WithdrawalAmt.String())
	require.NotNil(t, records[0].Balance)
	assert.Equal(t, "8550", records[0].Balance.String())

	// "BY TRANSFER" narration marks a credit; amount on the date line.
	assert.Equal(t, time.Date(2025, time.April, 5, 0, 0, 0, 0, time.UTC), records[1].TxnDate)
	require.NotNil(t, records[1].DepositAmt)
	assert.Equal(t, "52000", records[1].DepositAmt.String())

	require.NotNil(t, records[2].WithdrawalAmt)
	assert.Equal(t, "2000", records[2].WithdrawalAmt.String())
}

func TestSBIParser_DropsUnresolvedAccumulation(t *testing.T) {
	p := &SBIParser{}

	// The first block never resolves an amount before the next date
	// line; it is dropped rather than attributed to a neighbor.
	lines := fixtureLines(`
		State Bank of India
		Account Statement from 1 Apr 2025 to 30 Apr 2025
		3 Apr 2025
		SOME NARRATION WITHOUT AMOUNTS
		5 Apr 2025
		ATM WDL-MUMBAI
		REF0045120 2,000.00 58,550.00
	`)

	records, err := p.Parse(lines)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, time.Date(2025, time.April, 5, 0, 0, 0, 0, time.UTC), records[0].TxnDate)
	assert.Equal(t, "ATM WDL-MUMBAI", records[0].Description)
}

func TestSBIParser_GuardNeedsStatementVocabulary(t *testing.T) {
	p := &SBIParser{}

	// Bank keyword without the statement header vocabulary is not enough.
	_, err := p.Parse(fixtureLines(`
		SBI Life Insurance brochure
		Premium schedule
	`))
	assert.Error(t, err)
}

func TestSBIIsCredit(t *testing.T) {
	assert.True(t, sbiIsCredit("BY TRANSFER-NEFT/ACME"))
	assert.True(t, sbiIsCredit("transfer credit from deposit"))
	assert.True(t, sbiIsCredit("SWEEP FROM 00001234"))
	assert.True(t, sbiIsCredit("UPI/CR/509988/refund"))
	assert.False(t, sbiIsCredit("TO TRANSFER-UPI/DR/509988/GROCERY"))
	assert.False(t, sbiIsCredit("ATM WDL-MUMBAI"))
}
