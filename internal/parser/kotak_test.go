package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKotakParser_Parse(t *testing.T) {
	p := &KotakParser{}

	lines := fixtureLines(`
		Kotak Mahindra Bank
		Account Statement
		12-03-2025
		UPI/MERCHANT NAME/512345678901
		1,250.00(Dr)
		18,430.55(Cr)
		13-03-2025
		IMPS/REFUND/998877
		500.00(Cr)
		18,930.55(Cr)
	`)

	records, err := p.Parse(lines)
	require.NoError(t, err)
	require.Len(t, records, 2)
	requireAmountExclusivity(t, records)

	assert.Equal(t, time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC), records[0].TxnDate)
	assert.Equal(t, "UPI/MERCHANT NAME/512345678901", records[0].Description)
	require.NotNil(t, records[0].WithdrawalAmt)
	assert.Equal(t, "1250", records[0].WithdrawalAmt.String())
	require.NotNil(t, records[0].Balance)
	assert.Equal(t, "18430.55", records[0].Balance.String())

	require.NotNil(t, records[1].DepositAmt)
	assert.Equal(t, "500", records[1].DepositAmt.String())
}

func TestKotakParser_OverdrawnBalance(t *testing.T) {
	p := &KotakParser{}

	lines := fixtureLines(`
		Kotak Mahindra Bank
		14-03-2025
		EMI DEBIT HOME LOAN
		20,000.00(Dr)
		1,569.45(Dr)
	`)

	records, err := p.Parse(lines)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// A Dr-suffixed balance is an overdraft, recorded negative.
	require.NotNil(t, records[0].Balance)
	assert.Equal(t, "-1569.45", records[0].Balance.String())
	require.NotNil(t, records[0].WithdrawalAmt)
	assert.Equal(t, "20000", records[0].WithdrawalAmt.String())
}

func TestKotakParser_NotApplicable(t *testing.T) {
	p := &KotakParser{}
	_, err := p.Parse(fixtureLines(`
		Generic Bank
		12-03-2025
		SOMETHING
		1,250.00(Dr)
		18,430.55(Cr)
	`))
	assert.Error(t, err)
}
