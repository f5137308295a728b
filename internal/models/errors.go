package models

import (
	"errors"
	"fmt"
)

// The pipeline error taxonomy. Fatal errors bypass the orchestrator's
// fallback chain and always reach the caller; everything else is swallowed
// per strategy and only the terminal failure of the last tier surfaces.
var (
	// ErrUnsupportedFormat: unknown file extension. Fatal, no fallback.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrPasswordRequired: document is encrypted and no password was supplied.
	ErrPasswordRequired = errors.New("PDF is password protected. Enter the password before uploading")

	// ErrIncorrectPassword: the supplied password failed authentication.
	ErrIncorrectPassword = errors.New("incorrect PDF password. Please re-enter and try again")

	// ErrNotApplicable: a bank-specific parser determined its bank's
	// signature is absent. Soft, always swallowed.
	ErrNotApplicable = errors.New("parser not applicable to this document")
)

// IsFatal reports whether err belongs to the distinguished error subset
// that must propagate even from inside a fallback attempt.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrPasswordRequired) ||
		errors.Is(err, ErrIncorrectPassword)
}

// NoContentError is the terminal extraction failure: no usable rows or
// lines were produced by any backend. It carries page diagnostics so the
// caller can tell a scanned PDF from a malformed one.
type NoContentError struct {
	PagesProcessed  int
	PagesWithTables int
}

func (e *NoContentError) Error() string {
	return fmt.Sprintf(
		"no tabular data found in PDF file: processed %d page(s), found tables on %d page(s). "+
			"The PDF may be scanned (image-based) or use a non-standard format",
		e.PagesProcessed, e.PagesWithTables)
}

// SpreadsheetError marks corrupt or unreadable spreadsheet content.
type SpreadsheetError struct {
	Filename string
	Cause    error
}

func (e *SpreadsheetError) Error() string {
	return fmt.Sprintf("unable to read spreadsheet contents from %s: please upload a valid Excel/CSV export", e.Filename)
}

func (e *SpreadsheetError) Unwrap() error {
	return e.Cause
}
