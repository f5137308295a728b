// Package parser holds the per-bank line-based statement parsers.
//
// Each parser is a state machine over a sequence of extracted text
// lines: it guards on its bank's identity keywords, tracks header and
// terminal markers, accumulates multi-line descriptions, and promotes a
// transaction only once a date and exactly one of withdrawal/deposit
// are resolved.
package parser

import (
	"github.com/insightdelivered/statement-normalizer/internal/models"
)

// LineParser is the shared capability of all per-bank parsers: consume
// extracted text lines, return canonical records or signal that the
// bank's signature is absent via models.ErrNotApplicable. An applicable
// document with zero transactions returns an empty, non-nil slice.
type LineParser interface {
	Parse(lines []string) ([]models.TransactionRecord, error)
	BankName() string
	BankCode() models.BankCode
}

// Registry lists all bank parsers in fallback priority order. The order
// matters: when the orchestrator sweeps every parser, the first
// non-empty result wins.
var Registry = []LineParser{
	&KotakParser{},
	&HDFCParser{},
	&ICICIParser{},
	&FederalParser{},
	&AxisParser{},
	&SBIParser{},
	&CanaraParser{},
}

// ForBank returns the parser registered for the given bank code, or nil
// when the bank has no line-based parser.
func ForBank(code models.BankCode) LineParser {
	for _, p := range Registry {
		if p.BankCode() == code {
			return p
		}
	}
	return nil
}
