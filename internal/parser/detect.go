package parser

import (
	"strings"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

// DetectBank infers a bank code from the filename and an optional text
// sample (typically the first ~80 lines of the document joined). The
// profile keyword tables are checked in fixed priority order so that
// more specific banks are not shadowed by generic terms. Returns ""
// when nothing matches, which routes the document to the generic path.
func DetectBank(filename, sampleText string) models.BankCode {
	haystack := strings.ToLower(filename)
	if sampleText != "" {
		haystack += " " + strings.ToLower(sampleText)
	}

	for _, profile := range models.Profiles {
		for _, keyword := range profile.Keywords {
			if strings.Contains(haystack, keyword) {
				return profile.Code
			}
		}
	}
	return ""
}

// MatchesFilename reports whether any of the bank's keywords appears in
// the filename itself, a stronger hint than a content-only match.
func MatchesFilename(code models.BankCode, filename string) bool {
	lower := strings.ToLower(filename)
	for _, profile := range models.Profiles {
		if profile.Code != code {
			continue
		}
		for _, keyword := range profile.Keywords {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
	}
	return false
}
