package takarakuji

import (
	"context"
	"fmt"
	"log/slog"

	"numbers4-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// DetailSpanSize is how many consecutive draws one detail page covers.
// The archive is laid out in fixed 20 draw chunks (0001-0020,
// 0021-0040, ...), so the partition boundaries decide exactly which
// pages get requested.
const DetailSpanSize = 20

type DrawSpan struct {
	Start int
	End   int
}

// DetailSpans partitions [start, end] into the fixed-size chunks the
// archive serves. Bounds are clamped so start >= 1 and end >= start.
func DetailSpans(start, end int) []DrawSpan {
	s := max(1, start)
	e := max(s, end)

	var spans []DrawSpan
	for st := s; st <= e; st += DetailSpanSize {
		spans = append(spans, DrawSpan{
			Start: st,
			End:   min(st+DetailSpanSize-1, e),
		})
	}
	return spans
}

func (c *Client) detailPath(span DrawSpan) string {
	return fmt.Sprintf("/numbers4_detail/%04d-%04d/", span.Start, span.End)
}

// FetchDetailSpan scrapes one detail range page. Rows whose number
// cell does not reduce to exactly 4 digits are skipped.
func (c *Client) FetchDetailSpan(ctx context.Context, span DrawSpan) ([]DrawResult, error) {
	ctx, otelSpan := tracer.Start(ctx, "FetchDetailSpan")
	defer otelSpan.End()

	doc, err := c.fetchDocument(ctx, c.detailPath(span))
	if err != nil {
		return nil, err
	}
	return parseDetailTable(ctx, doc), nil
}

func parseDetailTable(ctx context.Context, doc *goquery.Document) []DrawResult {
	var results []DrawResult

	table := doc.Find("table.tblType02.tblNumbers4")
	if table.Length() == 0 {
		return results
	}

	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		// header rows and spacer rows don't have the 3 data cells
		if tds.Length() != 3 {
			return
		}

		label := htmlutil.CleanText(tds.Eq(0).Text())
		date := htmlutil.CleanText(tds.Eq(1).Text())
		number := digitsOnly(tds.Eq(2).Text())

		if len(number) != 4 {
			slog.WarnContext(
				ctx, "skipping row with malformed winning number",
				"label", label,
				"date", date,
			)
			return
		}

		results = append(results, DrawResult{
			Label:  label,
			Date:   date,
			Number: number,
		})
	})

	return results
}
