package extractor

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

// GeometryPreset is one configuration of the table-boundary detection
// used when reconstructing a table from a page's positioned text.
// RowTolerance is the maximum Y distance for two fragments to share a
// row; ColumnGap is the minimum X gap that starts a new cell.
type GeometryPreset struct {
	Name         string
	RowTolerance float64
	ColumnGap    float64
}

// TablePresets are tried in order for every page. Tight line-style
// geometry first would often "look successful" while merging several
// transactions into one row, so each page keeps whichever preset yields
// the most non-empty rows instead of the first that yields any.
var TablePresets = []GeometryPreset{
	{Name: "default", RowTolerance: 2, ColumnGap: 10},
	{Name: "lines", RowTolerance: 1, ColumnGap: 6},
	{Name: "lines-text", RowTolerance: 2.5, ColumnGap: 14},
	{Name: "text", RowTolerance: 3.5, ColumnGap: 20},
}

// ExtractTable extracts tabular rows from every page of a PDF, trying
// each geometry preset per page and keeping the preset with the most
// populated rows. Rows from all pages are concatenated in page order and
// padded to the document's maximum column count.
func ExtractTable(data []byte, password string) (*models.RawTable, error) {
	r, err := openPDF(data, password)
	if err != nil {
		return nil, err
	}

	table := &models.RawTable{}
	totalPages := r.NumPage()
	pagesWithTables := 0

	for i := 1; i <= totalPages; i++ {
		fragments := pageFragments(r, i)
		if len(fragments) == 0 {
			continue
		}

		var best [][]string
		for _, preset := range TablePresets {
			rows := buildRows(fragments, preset)
			if len(rows) > len(best) {
				best = rows
			}
		}
		if len(best) > 0 {
			pagesWithTables++
			table.Rows = append(table.Rows, best...)
		}
	}

	if len(table.Rows) == 0 {
		return nil, &models.NoContentError{
			PagesProcessed:  totalPages,
			PagesWithTables: pagesWithTables,
		}
	}

	table.PadRows()
	return table, nil
}

// fragment is one positioned piece of page text.
type fragment struct {
	x, y float64
	s    string
}

func pageFragments(r *pdf.Reader, pageNum int) (frags []fragment) {
	defer func() {
		if rec := recover(); rec != nil {
			frags = nil
		}
	}()

	page := r.Page(pageNum)
	if page.V.IsNull() {
		return nil
	}
	for _, t := range page.Content().Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		frags = append(frags, fragment{x: t.X, y: t.Y, s: t.S})
	}
	return frags
}

// buildRows reconstructs table rows from positioned fragments under one
// geometry preset. It is a pure function of its inputs: fragments are
// grouped into rows by Y proximity (PDF Y grows bottom-to-top, so rows
// sort descending), then split into cells wherever the X gap between
// adjacent fragments exceeds the preset's column gap.
func buildRows(frags []fragment, preset GeometryPreset) [][]string {
	if len(frags) == 0 {
		return nil
	}

	sorted := make([]fragment, len(frags))
	copy(sorted, frags)
	sort.Slice(sorted, func(a, b int) bool {
		if sorted[a].y != sorted[b].y {
			return sorted[a].y > sorted[b].y
		}
		return sorted[a].x < sorted[b].x
	})

	var rows [][]string
	var current []fragment
	rowY := sorted[0].y

	flush := func() {
		if row := splitCells(current, preset.ColumnGap); rowHasContent(row) {
			rows = append(rows, row)
		}
		current = current[:0]
	}

	for _, f := range sorted {
		if math.Abs(f.y-rowY) > preset.RowTolerance {
			flush()
			rowY = f.y
		}
		current = append(current, f)
	}
	flush()

	return rows
}

// splitCells orders a row's fragments left to right and breaks them into
// cells at large horizontal gaps. Fragments within a cell are joined
// with single spaces.
func splitCells(frags []fragment, columnGap float64) []string {
	if len(frags) == 0 {
		return nil
	}
	sort.Slice(frags, func(a, b int) bool { return frags[a].x < frags[b].x })

	var cells []string
	var cell []string
	prevEnd := frags[0].x

	for i, f := range frags {
		if i > 0 && f.x-prevEnd > columnGap {
			cells = append(cells, strings.TrimSpace(strings.Join(cell, " ")))
			cell = cell[:0]
		}
		cell = append(cell, f.s)
		// Approximate the fragment's right edge from its text length;
		// the library does not expose glyph widths here.
		prevEnd = f.x + float64(len(f.s))*4.5
	}
	cells = append(cells, strings.TrimSpace(strings.Join(cell, " ")))
	return cells
}

func rowHasContent(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return true
		}
	}
	return false
}
