package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

func testPipeline() *Pipeline {
	return New(nil)
}

func kotakLines() []string {
	raw := `
		Kotak Mahindra Bank
		12-03-2025
		UPI/MERCHANT/512345
		1,250.00(Dr)
		18,430.55(Cr)
	`
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

func TestProcess_UnsupportedExtension(t *testing.T) {
	p := testPipeline()
	_, err := p.Process([]byte("data"), "statement.docx", "")
	assert.True(t, errors.Is(err, models.ErrUnsupportedFormat))
}

func TestProcess_PasswordErrorsPropagate(t *testing.T) {
	p := testPipeline()
	p.extractLines = func(data []byte, password string) ([]string, error) {
		return nil, models.ErrPasswordRequired
	}
	p.extractTable = func(data []byte, password string) (*models.RawTable, error) {
		return nil, models.ErrPasswordRequired
	}

	_, err := p.Process([]byte("%PDF"), "statement.pdf", "")
	assert.True(t, errors.Is(err, models.ErrPasswordRequired))

	p.extractLines = func(data []byte, password string) ([]string, error) {
		return nil, models.ErrIncorrectPassword
	}
	p.extractTable = func(data []byte, password string) (*models.RawTable, error) {
		return nil, models.ErrIncorrectPassword
	}
	_, err = p.Process([]byte("%PDF"), "statement.pdf", "wrong")
	assert.True(t, errors.Is(err, models.ErrIncorrectPassword))
}

func TestProcess_NoContentDiagnostics(t *testing.T) {
	p := testPipeline()
	p.extractLines = func(data []byte, password string) ([]string, error) {
		return nil, nil
	}
	p.extractTable = func(data []byte, password string) (*models.RawTable, error) {
		return nil, &models.NoContentError{PagesProcessed: 3, PagesWithTables: 0}
	}

	_, err := p.Process([]byte("%PDF"), "statement.pdf", "")
	var noContent *models.NoContentError
	require.True(t, errors.As(err, &noContent))
	assert.Equal(t, 3, noContent.PagesProcessed)
	assert.Equal(t, 0, noContent.PagesWithTables)
	assert.Contains(t, err.Error(), "3 page(s)")
}

func TestProcess_LineFirstBankSkipsTablePath(t *testing.T) {
	p := testPipeline()
	p.extractLines = func(data []byte, password string) ([]string, error) {
		return kotakLines(), nil
	}
	tableCalled := false
	p.extractTable = func(data []byte, password string) (*models.RawTable, error) {
		tableCalled = true
		return nil, &models.NoContentError{}
	}

	records, err := p.Process([]byte("%PDF"), "kotak_statement.pdf", "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, tableCalled, "line parser succeeded; the table path must not run")
	assert.Equal(t, string(models.BankKotak), records[0].BankCode)
}

func TestProcess_FallbackSweepDerivesBankCode(t *testing.T) {
	p := testPipeline()
	// Filename gives no bank hint and content detection is bypassed by
	// making the first text extraction fail softly.
	extractCalls := 0
	p.extractLines = func(data []byte, password string) ([]string, error) {
		extractCalls++
		if extractCalls == 1 {
			return nil, errors.New("backend hiccup")
		}
		return kotakLines(), nil
	}
	p.extractTable = func(data []byte, password string) (*models.RawTable, error) {
		return nil, &models.NoContentError{PagesProcessed: 1}
	}

	records, err := p.Process([]byte("%PDF"), "statement.pdf", "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, string(models.BankKotak), records[0].BankCode)
}

func TestProcess_TableFailureSurfacesWhenSweepFails(t *testing.T) {
	p := testPipeline()
	p.extractLines = func(data []byte, password string) ([]string, error) {
		return []string{"nothing parseable here"}, nil
	}
	p.extractTable = func(data []byte, password string) (*models.RawTable, error) {
		return nil, &models.NoContentError{PagesProcessed: 2}
	}

	_, err := p.Process([]byte("%PDF"), "statement.pdf", "")
	var noContent *models.NoContentError
	require.True(t, errors.As(err, &noContent))
	assert.Equal(t, 2, noContent.PagesProcessed)
}

func TestProcess_SpreadsheetGenericPath(t *testing.T) {
	p := testPipeline()
	p.readSpreadsheet = func(data []byte, filename string) (*models.RawTable, error) {
		return &models.RawTable{Rows: [][]string{
			{"01-04-2025", "Salary Credit", "", "50000.00", "150000.00"},
		}}, nil
	}

	records, err := p.Process([]byte("csvdata"), "statement.csv", "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].DepositAmt)
	assert.Equal(t, "50000", records[0].DepositAmt.String())
}

func TestProcess_SpreadsheetTagsDetectedBank(t *testing.T) {
	p := testPipeline()
	p.readSpreadsheet = func(data []byte, filename string) (*models.RawTable, error) {
		return &models.RawTable{Rows: [][]string{
			{"HDFC Bank Statement", "", "", "", ""},
			{"01-04-2025", "UPI GROCERY", "450.00", "", "9550.00"},
		}}, nil
	}

	records, err := p.Process([]byte("xlsx"), "statement.xlsx", "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, string(models.BankHDFC), records[0].BankCode)
}

func TestProcess_Idempotent(t *testing.T) {
	p := testPipeline()
	p.extractLines = func(data []byte, password string) ([]string, error) {
		return kotakLines(), nil
	}

	first, err := p.Process([]byte("%PDF"), "kotak.pdf", "")
	require.NoError(t, err)
	second, err := p.Process([]byte("%PDF"), "kotak.pdf", "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProcess_PanickingParserIsSwallowed(t *testing.T) {
	p := testPipeline()

	// Registry parsers only see non-matching lines, so the sweep ends
	// with the primary table error; nothing may panic through.
	p.extractLines = func(data []byte, password string) ([]string, error) {
		return []string{"no bank keywords at all"}, nil
	}
	p.extractTable = func(data []byte, password string) (*models.RawTable, error) {
		return nil, &models.NoContentError{}
	}

	assert.NotPanics(t, func() {
		_, err := p.Process([]byte("%PDF"), "statement.pdf", "")
		assert.Error(t, err)
	})
}
