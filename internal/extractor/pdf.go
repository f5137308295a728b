package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

// Acceptance thresholds for a text backend's output. A backend that
// produces less than this is treated as a failed extraction and the
// next backend is tried.
const (
	minTextLength = 100
	minTextLines  = 10
)

// openPDF opens a PDF reader over raw bytes, authenticating with the
// caller-supplied password when the document is encrypted. Missing and
// incorrect passwords are distinguished for the caller.
func openPDF(data []byte, password string) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r = nil
			err = fmt.Errorf("PDF library crashed: %v", rec)
		}
	}()

	reader := bytes.NewReader(data)
	if password == "" {
		r, err = pdf.NewReader(reader, int64(len(data)))
		if err != nil {
			if errors.Is(err, pdf.ErrInvalidPassword) {
				return nil, models.ErrPasswordRequired
			}
			return nil, fmt.Errorf("unable to read PDF file: %w", err)
		}
		return r, nil
	}

	// NewReaderEncrypted retries the password callback until it returns "",
	// so hand the password over exactly once.
	used := false
	r, err = pdf.NewReaderEncrypted(reader, int64(len(data)), func() string {
		if used {
			return ""
		}
		used = true
		return password
	})
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, models.ErrIncorrectPassword
		}
		return nil, fmt.Errorf("unable to read PDF file: %w", err)
	}
	return r, nil
}

// ExtractLines pulls trimmed, non-blank text lines from a PDF in reading
// order. It tries the row-grouping backend first, then whole-page plain
// text as a fallback, accepting a backend's output only when it clears
// the minimum text thresholds.
func ExtractLines(data []byte, password string) ([]string, error) {
	r, err := openPDF(data, password)
	if err != nil {
		return nil, err
	}

	if lines := extractLinesByRow(r); acceptLines(lines) {
		return lines, nil
	}
	if lines := extractLinesPlainText(r); acceptLines(lines) {
		return lines, nil
	}
	return nil, fmt.Errorf("no readable text could be extracted from PDF")
}

// acceptLines applies the backend acceptance gate: enough raw text or
// enough distinct non-blank lines.
func acceptLines(lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	total := 0
	for _, l := range lines {
		total += len(l)
	}
	return total >= minTextLength || len(lines) >= minTextLines
}

// extractLinesByRow reconstructs lines from per-row word groups.
func extractLinesByRow(r *pdf.Reader) (lines []string) {
	defer func() {
		if rec := recover(); rec != nil {
			lines = nil
		}
	}()

	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

// extractLinesPlainText uses the whole-document plain text path, which
// follows a different decoding route and succeeds on some PDFs where
// row grouping yields nothing.
func extractLinesPlainText(r *pdf.Reader) (lines []string) {
	defer func() {
		if rec := recover(); rec != nil {
			lines = nil
		}
	}()

	reader, err := r.GetPlainText()
	if err != nil {
		return nil
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil
	}
	for _, line := range strings.Split(string(raw), "\n") {
		if s := strings.TrimSpace(line); s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}
