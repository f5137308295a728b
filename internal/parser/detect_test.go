package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

func TestDetectBank_Filename(t *testing.T) {
	cases := []struct {
		filename string
		want     models.BankCode
	}{
		{"hdfc_statement_apr.pdf", models.BankHDFC},
		{"ICICI-2025.xlsx", models.BankICICI},
		{"kotak_march.pdf", models.BankKotak},
		{"statement.pdf", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectBank(tc.filename, ""), "filename %q", tc.filename)
	}
}

func TestDetectBank_ContentSample(t *testing.T) {
	sample := "Account Statement State Bank of India Branch MUMBAI"
	assert.Equal(t, models.BankSBI, DetectBank("statement.pdf", sample))

	sample = "AXIS BANK Credit Card Statement"
	assert.Equal(t, models.BankAxis, DetectBank("upload.pdf", sample))

	// IFSC-style codes count as identity keywords.
	assert.Equal(t, models.BankCanara, DetectBank("x.pdf", "IFSC CNRB0001234"))
}

func TestDetectBank_PriorityOrder(t *testing.T) {
	// Kotak outranks SBI when both keywords appear.
	sample := "Kotak Mahindra Bank sweep to SBI deposit"
	assert.Equal(t, models.BankKotak, DetectBank("statement.pdf", sample))
}

func TestMatchesFilename(t *testing.T) {
	assert.True(t, MatchesFilename(models.BankHDFC, "hdfc_apr.pdf"))
	assert.False(t, MatchesFilename(models.BankHDFC, "statement.pdf"))
}

func TestForBank(t *testing.T) {
	p := ForBank(models.BankAxis)
	assert.NotNil(t, p)
	assert.Equal(t, "Axis", p.BankName())

	assert.Nil(t, ForBank(models.BankCode("unknown_bank")))
}
