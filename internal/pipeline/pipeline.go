// Package pipeline sequences bank detection, bank-specific line
// parsing, table extraction and generic structuring into one
// per-document conversion with a tiered fallback policy. Access and
// unsupported-format errors always propagate; everything else is
// swallowed tier by tier, and only the terminal failure of the last
// exhausted tier reaches the caller.
package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/insightdelivered/statement-normalizer/internal/extractor"
	"github.com/insightdelivered/statement-normalizer/internal/models"
	"github.com/insightdelivered/statement-normalizer/internal/parser"
	"github.com/insightdelivered/statement-normalizer/internal/structurer"
)

// Table extraction on these banks merges cells badly; text-line parsing
// goes first for them.
var lineFirstBanks = map[models.BankCode]bool{
	models.BankSBI:    true,
	models.BankCanara: true,
	models.BankAxis:   true,
	models.BankKotak:  true,
}

// Pipeline converts one statement file at a time. The extraction hooks
// default to the real backends; tests swap them for fixtures.
type Pipeline struct {
	logger *log.Logger

	extractLines    func(data []byte, password string) ([]string, error)
	extractTable    func(data []byte, password string) (*models.RawTable, error)
	readSpreadsheet func(data []byte, filename string) (*models.RawTable, error)
}

func New(logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		logger:          logger,
		extractLines:    extractor.ExtractLines,
		extractTable:    extractor.ExtractTable,
		readSpreadsheet: extractor.ReadSpreadsheet,
	}
}

// Process converts raw document bytes into canonical transaction
// records. The password applies to PDF input only.
func (p *Pipeline) Process(data []byte, filename, password string) ([]models.TransactionRecord, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return p.processPDF(data, filename, password)
	case ".csv", ".xls", ".xlsx":
		return p.processSpreadsheet(data, filename)
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func (p *Pipeline) processPDF(data []byte, filename, password string) ([]models.TransactionRecord, error) {
	bank := parser.DetectBank(filename, "")
	var lines []string

	// Filenames often carry no bank hint; the statement header does.
	if bank == "" {
		var err error
		lines, err = p.extractLines(data, password)
		if err != nil {
			if models.IsFatal(err) {
				return nil, err
			}
			p.logger.Debug("text extraction for detection failed", "file", filename, "err", err)
			lines = nil
		}
		if len(lines) > 0 {
			bank = parser.DetectBank(filename, strings.Join(sampleLines(lines, 80), " "))
		}
	}

	if lineFirstBanks[bank] {
		p.logger.Info("using line-based parser", "file", filename, "bank", bank)
		if lines == nil {
			var err error
			lines, err = p.extractLines(data, password)
			if err != nil {
				if models.IsFatal(err) {
					return nil, err
				}
				lines = nil
			}
		}
		if lp := parser.ForBank(bank); lp != nil && len(lines) > 0 {
			records, err := runParser(lp, lines)
			if err != nil {
				if models.IsFatal(err) {
					return nil, err
				}
				p.logger.Warn("line parser failed, falling back to table extraction",
					"bank", lp.BankName(), "file", filename, "err", err)
			} else if len(records) > 0 {
				p.logger.Info("parsed with line-based parser",
					"bank", lp.BankName(), "file", filename, "transactions", len(records))
				return tagBank(records, bank), nil
			} else {
				p.logger.Warn("line parser returned no transactions, falling back to table extraction",
					"bank", lp.BankName(), "file", filename)
			}
		}
	}

	records, primaryErr := p.tablePath(data, password)
	if primaryErr == nil {
		return tagBank(records, bank), nil
	}
	if models.IsFatal(primaryErr) {
		return nil, primaryErr
	}

	// Terminal table failure: sweep every line parser in priority
	// order and accept the first non-empty result.
	p.logger.Info("table extraction failed, trying text fallback", "file", filename, "err", primaryErr)
	if lines == nil {
		var err error
		lines, err = p.extractLines(data, password)
		if err != nil {
			if models.IsFatal(err) {
				return nil, err
			}
			lines = nil
		}
	}
	if len(lines) == 0 {
		p.logger.Warn("text extraction fallback produced no lines", "file", filename)
		return nil, primaryErr
	}

	for _, lp := range parser.Registry {
		records, err := runParser(lp, lines)
		if err != nil {
			if models.IsFatal(err) {
				return nil, err
			}
			p.logger.Debug("parser not viable", "bank", lp.BankName(), "err", err)
			continue
		}
		if len(records) == 0 {
			continue
		}
		p.logger.Info("parsed with fallback line parser", "bank", lp.BankName(), "file", filename)
		effective := bank
		if effective == "" {
			effective = lp.BankCode()
		}
		return tagBank(records, effective), nil
	}

	p.logger.Warn("all parsing strategies failed", "file", filename, "lines", len(lines))
	return nil, primaryErr
}

// tablePath extracts a raw table and structures it. A successfully
// extracted table that structures to zero records counts as no
// content, so the caller still gets the exhaustive parser sweep.
func (p *Pipeline) tablePath(data []byte, password string) ([]models.TransactionRecord, error) {
	table, err := p.extractTable(data, password)
	if err != nil {
		return nil, err
	}
	records, err := structurer.Structure(*table)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &models.NoContentError{PagesProcessed: 0, PagesWithTables: 0}
	}
	return records, nil
}

func (p *Pipeline) processSpreadsheet(data []byte, filename string) ([]models.TransactionRecord, error) {
	table, err := p.readSpreadsheet(data, filename)
	if err != nil {
		return nil, err
	}

	bank := parser.DetectBank(filename, tableSample(table, 5))
	records, err := structurer.Structure(*table)
	if err != nil {
		return nil, err
	}
	return tagBank(records, bank), nil
}

// runParser shields the orchestrator from a panicking line parser; a
// panic is the parser declaring itself not viable for this document.
func runParser(lp parser.LineParser, lines []string) (records []models.TransactionRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			records = nil
			err = fmt.Errorf("%s parser fault: %v", lp.BankName(), r)
		}
	}()
	return lp.Parse(lines)
}

func tagBank(records []models.TransactionRecord, bank models.BankCode) []models.TransactionRecord {
	if bank == "" {
		return records
	}
	for i := range records {
		records[i].BankCode = string(bank)
	}
	return records
}

func sampleLines(lines []string, n int) []string {
	if len(lines) < n {
		return lines
	}
	return lines[:n]
}

func tableSample(table *models.RawTable, rows int) string {
	var parts []string
	for i, row := range table.Rows {
		if i >= rows {
			break
		}
		parts = append(parts, strings.Join(row, " "))
	}
	return strings.Join(parts, " ")
}
