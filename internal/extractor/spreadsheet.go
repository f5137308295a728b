package extractor

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

// ReadSpreadsheet decodes a CSV/XLS/XLSX export into a raw table with no
// header assumption: row 0 is data, not labels. Excel files that are
// really tab- or space-delimited text dumps (a common bank export trick)
// fall back to delimited-text parsing.
func ReadSpreadsheet(data []byte, filename string) (*models.RawTable, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return readCSV(data)
	case ".xlsx", ".xls":
		var table *models.RawTable
		var err error
		if ext == ".xlsx" {
			table, err = readXLSX(data)
		} else {
			table, err = readXLS(data)
		}
		if err == nil {
			return table, nil
		}
		if table := readTextLike(data); table != nil {
			return table, nil
		}
		return nil, &models.SpreadsheetError{Filename: filename, Cause: err}
	default:
		return nil, fmt.Errorf("%w: unsupported spreadsheet extension %q", models.ErrUnsupportedFormat, ext)
	}
}

func readCSV(data []byte) (*models.RawTable, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to read CSV file: %w", err)
	}

	table := &models.RawTable{}
	for _, record := range records {
		row := make([]string, len(record))
		for i, cell := range record {
			row[i] = strings.TrimSpace(cell)
		}
		if rowHasContent(row) {
			table.Rows = append(table.Rows, row)
		}
	}
	table.PadRows()
	return table, nil
}

func readXLSX(data []byte) (*models.RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error opening XLSX workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("error reading XLSX sheet %q: %w", sheets[0], err)
	}

	table := &models.RawTable{}
	for _, row := range rows {
		cleaned := make([]string, len(row))
		for i, cell := range row {
			cleaned[i] = strings.TrimSpace(cell)
		}
		if rowHasContent(cleaned) {
			table.Rows = append(table.Rows, cleaned)
		}
	}
	table.PadRows()
	return table, nil
}

func readXLS(data []byte) (*models.RawTable, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("error opening XLS workbook: %w", err)
	}

	rows := workbook.ReadAllCells(10000)
	table := &models.RawTable{}
	for _, row := range rows {
		cleaned := make([]string, len(row))
		for i, cell := range row {
			cleaned[i] = strings.TrimSpace(cell)
		}
		if rowHasContent(cleaned) {
			table.Rows = append(table.Rows, cleaned)
		}
	}
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("no data found in XLS sheet")
	}
	table.PadRows()
	return table, nil
}

// readTextLike parses a byte stream as delimited text: tab-separated
// when tabs are present, otherwise split on runs of two or more spaces.
// Returns nil when the content yields no rows.
func readTextLike(data []byte) *models.RawTable {
	text := decodeBytes(data)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	hasTab := strings.Contains(text, "\t")
	table := &models.RawTable{}
	for _, rawLine := range strings.Split(text, "\n") {
		if strings.TrimSpace(rawLine) == "" {
			continue
		}
		var cells []string
		if hasTab {
			for _, cell := range strings.Split(rawLine, "\t") {
				cells = append(cells, strings.TrimSpace(cell))
			}
		} else {
			for _, segment := range splitMultiSpace(rawLine) {
				cells = append(cells, strings.TrimSpace(segment))
			}
			if len(cells) == 0 {
				cells = []string{strings.TrimSpace(rawLine)}
			}
		}
		table.Rows = append(table.Rows, cells)
	}

	if len(table.Rows) == 0 {
		return nil
	}
	table.PadRows()
	return table
}

// splitMultiSpace splits on runs of two or more spaces, dropping empty
// segments.
func splitMultiSpace(line string) []string {
	var segments []string
	for _, seg := range strings.Split(line, "  ") {
		if s := strings.TrimSpace(seg); s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// decodeBytes interprets raw bytes as UTF-8, falling back to Latin-1 for
// legacy exports.
func decodeBytes(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}
