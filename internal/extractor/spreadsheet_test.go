package extractor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

func TestReadSpreadsheet_CSV(t *testing.T) {
	data := []byte(
		"Date,Narration,Debit,Credit,Balance\n" +
			"01-04-2025,UPI GROCERY,450.00,,9550.00\n" +
			"\n" +
			"02-04-2025,\"NEFT, SALARY\",,50000.00,59550.00\n")

	table, err := ReadSpreadsheet(data, "statement.csv")
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, 5, table.Width())
	assert.Equal(t, "NEFT, SALARY", table.Rows[2][1])
}

func TestReadSpreadsheet_CSVRaggedRowsPadded(t *testing.T) {
	data := []byte("a,b,c\nd,e\n")
	table, err := ReadSpreadsheet(data, "ragged.csv")
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"d", "e", ""}, table.Rows[1])
}

func TestReadSpreadsheet_UnsupportedExtension(t *testing.T) {
	_, err := ReadSpreadsheet([]byte("data"), "statement.ods")
	assert.True(t, errors.Is(err, models.ErrUnsupportedFormat))
}

func TestReadSpreadsheet_XLSTextFallback(t *testing.T) {
	// Banks ship tab-separated text with an .xls extension; the binary
	// reader fails and the text fallback takes over.
	data := []byte("01-04-2025\tUPI GROCERY\t450.00\t\t9550.00\n" +
		"02-04-2025\tNEFT SALARY\t\t50000.00\t59550.00\n")

	table, err := ReadSpreadsheet(data, "statement.xls")
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "UPI GROCERY", table.Rows[0][1])
}

func TestReadSpreadsheet_XLSXTextFallback(t *testing.T) {
	// Same trick with an .xlsx extension: excelize rejects the bytes and
	// the text fallback still salvages the rows.
	data := []byte("01-04-2025\tUPI GROCERY\t450.00\t\t9550.00\n" +
		"02-04-2025\tNEFT SALARY\t\t50000.00\t59550.00\n")

	table, err := ReadSpreadsheet(data, "statement.xlsx")
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "NEFT SALARY", table.Rows[1][1])
}

func TestReadSpreadsheet_XLSXUnreadable(t *testing.T) {
	_, err := ReadSpreadsheet(nil, "broken.xlsx")
	var sheetErr *models.SpreadsheetError
	require.True(t, errors.As(err, &sheetErr))
	assert.Contains(t, err.Error(), "broken.xlsx")
}

func TestReadSpreadsheet_XLSUnreadable(t *testing.T) {
	// Neither a binary workbook nor salvageable text.
	_, err := ReadSpreadsheet(nil, "broken.xls")
	var sheetErr *models.SpreadsheetError
	require.True(t, errors.As(err, &sheetErr))
	assert.Contains(t, err.Error(), "broken.xls")
}

func TestSplitMultiSpace(t *testing.T) {
	cells := splitMultiSpace("01-04-2025  UPI GROCERY  450.00")
	assert.Equal(t, []string{"01-04-2025", "UPI GROCERY", "450.00"}, cells)

	assert.Empty(t, splitMultiSpace("   "))
}

func TestDecodeBytes_Latin1Fallback(t *testing.T) {
	// 0xE9 is é in Latin-1 and invalid as a standalone UTF-8 byte.
	got := decodeBytes([]byte{'c', 'a', 'f', 0xE9})
	assert.Equal(t, "café", got)

	assert.Equal(t, "plain", decodeBytes([]byte("plain")))
}
