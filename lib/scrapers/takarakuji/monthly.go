package takarakuji

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"numbers4-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// PayoutEra is the first month for which the monthly back-number pages
// exist; draws before it have no payout source at all.
var PayoutEra = time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)

// Months renders the inclusive list of YYYYMM page names between two
// dates. Callers decide the bounds ("as of" plus however far ahead the
// site publishes) so that nothing in here depends on the wall clock.
func Months(from, until time.Time) []string {
	var months []string
	current := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(until.Year(), until.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !current.After(last) {
		months = append(months, current.Format("200601"))
		current = current.AddDate(0, 1, 0)
	}
	return months
}

var dateMonthPattern = regexp.MustCompile(`^(\d{4})/(\d{2})/\d{2}`)

// MonthOfDate maps a scraped draw date ("2024/09/02") to the monthly
// page name that covers it ("202409").
func MonthOfDate(date string) (string, bool) {
	m := dateMonthPattern.FindStringSubmatch(date)
	if m == nil {
		return "", false
	}
	return m[1] + m[2], true
}

func (c *Client) monthPath(month string) string {
	return fmt.Sprintf("/numbers4/%s/", month)
}

// FetchMonth scrapes one monthly page, which carries one table per
// draw including the payout rows. Months in the future (or otherwise
// absent) return an empty slice, not an error.
func (c *Client) FetchMonth(ctx context.Context, month string) ([]MonthResult, error) {
	ctx, span := tracer.Start(ctx, "FetchMonth")
	defer span.End()

	doc, err := c.fetchDocument(ctx, c.monthPath(month))
	if err != nil {
		return nil, err
	}
	return parseMonthTables(ctx, doc), nil
}

func parseMonthTables(ctx context.Context, doc *goquery.Document) []MonthResult {
	var results []MonthResult

	doc.Find("table.tblType02.tblNumberGuid").Each(func(_ int, table *goquery.Selection) {
		var result MonthResult

		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			th := tr.Find("th")
			if th.Length() == 0 {
				return
			}

			label := htmlutil.CleanText(th.First().Text())
			tds := tr.Find("td")

			switch label {
			case "回号":
				// the draw label sits in a second th, not a td
				if th.Length() > 1 {
					result.Label = htmlutil.CleanText(th.Eq(1).Text())
				}
			case "抽せん日":
				if tds.Length() > 0 {
					result.Date = htmlutil.CleanText(tds.First().Text())
				}
			case "当せん番号":
				if tds.Length() > 0 {
					number := digitsOnly(tds.First().Text())
					if len(number) == 4 {
						result.Number = number
					}
				}
			case "ストレート":
				result.Straight = payoutCell(tds)
			case "ボックス":
				result.Box = payoutCell(tds)
			case "セット（ストレート）":
				result.SetStraight = payoutCell(tds)
			case "セット（ボックス）":
				result.SetBox = payoutCell(tds)
			}
		})

		if result.Label == "" || result.Number == "" {
			return
		}
		results = append(results, result)
	})

	return results
}

// payout rows are "<tier> | <winner count> | <amount>", the amount is
// the second td
func payoutCell(tds *goquery.Selection) *int64 {
	if tds.Length() < 2 {
		return nil
	}
	amount, ok := ParsePayout(htmlutil.CleanText(tds.Eq(1).Text()))
	if !ok {
		return nil
	}
	return &amount
}

// CollectPayouts walks the given monthly pages and returns payout
// amounts keyed by draw number. When targets is non-nil, draws outside
// it are ignored. Failed months are logged and skipped, the rest of
// the lookup is still returned.
func (c *Client) CollectPayouts(ctx context.Context, months []string, targets map[int]bool) map[int]MonthResult {
	ctx, span := tracer.Start(ctx, "CollectPayouts")
	defer span.End()

	payouts := map[int]MonthResult{}
	for i, month := range months {
		if i > 0 {
			if err := c.Throttle(ctx); err != nil {
				slog.WarnContext(ctx, "payout collection interrupted", "err", err)
				return payouts
			}
		}

		results, err := c.FetchMonth(ctx, month)
		if err != nil {
			slog.WarnContext(ctx, "failed to fetch monthly page", "month", month, "err", err)
			continue
		}

		for _, r := range results {
			drawNo, ok := DrawNoFromLabel(r.Label)
			if !ok {
				continue
			}
			if targets != nil && !targets[drawNo] {
				continue
			}
			payouts[drawNo] = r
		}
	}

	return payouts
}
