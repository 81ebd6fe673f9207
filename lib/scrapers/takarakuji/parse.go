package takarakuji

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// DrawResult is one row of a detail range page: the draw label as
// displayed ("第0001回"), the draw date as displayed ("2024/09/02")
// and the winning number reduced to exactly 4 ascii digits.
type DrawResult struct {
	Label  string
	Date   string
	Number string
}

// MonthResult is one per-draw table of a monthly page, which also
// carries the payout amounts. A nil payout field means the page showed
// 該当なし (no winner in that tier) or no amount at all.
type MonthResult struct {
	DrawResult
	Straight    *int64
	Box         *int64
	SetStraight *int64
	SetBox      *int64
}

var nonDigit = regexp.MustCompile(`\D`)

// extracts the bare digits out of scraped number text, folding
// full-width digits to ascii first since the site renders some
// numbers in zenkaku
func digitsOnly(s string) string {
	return nonDigit.ReplaceAllString(width.Narrow.String(s), "")
}

var drawNoPattern = regexp.MustCompile(`(\d+)`)

// DrawNoFromLabel parses a display label like "第0001回" into 1.
// Returns false when no number can be found in the label.
func DrawNoFromLabel(label string) (int, bool) {
	m := drawNoPattern.FindString(width.Narrow.String(label))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParsePayout extracts a yen amount from payout cell text.
//
//	"940,800円" -> 940800, true
//	"該当なし"  -> 0, false
func ParsePayout(text string) (int64, bool) {
	if text == "" || strings.Contains(text, "該当なし") {
		return 0, false
	}
	cleaned := digitsOnly(text)
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
