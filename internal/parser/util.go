package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var monthToNum = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// monthNum resolves an abbreviated month name, case-insensitively.
func monthNum(name string) (time.Month, bool) {
	m, ok := monthToNum[strings.ToLower(name)[:3]]
	return m, ok
}

// parseAmount converts strings like "1,234.56", "₹ 2,528.05" to a
// decimal. Thousands separators, currency symbols, and surrounding
// whitespace are stripped.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimSpace(s)
	return decimal.NewFromString(s)
}

// amountPtr boxes a decimal for the optional record fields.
func amountPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// joinDescription whitespace-joins accumulated description fragments,
// dropping empties.
func joinDescription(parts []string) string {
	var kept []string
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, " ")
}

var (
	fiscalStartPattern = regexp.MustCompile(`(?i)(?:1\s+)?(?:April|Apr)\s+(\d{4})`)
	fiscalEndPattern   = regexp.MustCompile(`(?i)(?:31\s+)?(?:March|Mar)\s+(\d{4})`)
)

// inferFiscalYears scans a bounded header region for Indian fiscal-year
// statement-period markers (April YYYY start, March YYYY end) and
// returns the year pair. Falls back to the supplied defaults when the
// header carries no period.
func inferFiscalYears(lines []string, defaultStart, defaultEnd int) (int, int) {
	startYear, endYear := defaultStart, defaultEnd
	limit := len(lines)
	if limit > 60 {
		limit = 60
	}
	for _, line := range lines[:limit] {
		if m := fiscalStartPattern.FindStringSubmatch(line); m != nil {
			startYear = atoiSafe(m[1], defaultStart)
			break
		}
	}
	for _, line := range lines[:limit] {
		if m := fiscalEndPattern.FindStringSubmatch(line); m != nil {
			endYear = atoiSafe(m[1], defaultEnd)
			break
		}
	}
	return startYear, endYear
}

func atoiSafe(s string, fallback int) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return fallback
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		return fallback
	}
	return n
}

// fiscalYearFor picks the year half for a month in an April–March
// statement period: April through December belong to the start year,
// January through March to the end year.
func fiscalYearFor(month time.Month, startYear, endYear int) int {
	if month >= time.April {
		return startYear
	}
	return endYear
}

// headSample joins up to n lines for bank-identity guards.
func headSample(lines []string, n int) string {
	if len(lines) < n {
		n = len(lines)
	}
	return strings.ToLower(strings.Join(lines[:n], " "))
}
