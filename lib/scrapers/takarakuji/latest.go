package takarakuji

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

var detailHrefPattern = regexp.MustCompile(`/numbers4_detail/(\d{4})-(\d{4})/?$`)

// LatestDrawFromArchive estimates the newest draw number from the
// archive index: the largest range end among the detail page links.
func (c *Client) LatestDrawFromArchive(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "LatestDrawFromArchive")
	defer span.End()

	doc, err := c.fetchDocument(ctx, "/numbers4_past/")
	if err != nil {
		return 0, err
	}

	maxEnd := 0
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		m := detailHrefPattern.FindStringSubmatch(href)
		if m == nil {
			return
		}
		end, err := strconv.Atoi(m[2])
		if err == nil && end > maxEnd {
			maxEnd = end
		}
	})

	if maxEnd == 0 {
		return 0, fmt.Errorf("no detail range links found on archive page")
	}
	return maxEnd, nil
}

// LatestDrawFromMonths estimates the newest draw number from the
// monthly pages, walking the given months newest-first. The monthly
// pages usually run ahead of the archive index, which is why two
// independent estimates exist at all.
func (c *Client) LatestDrawFromMonths(ctx context.Context, months []string) (int, error) {
	ctx, span := tracer.Start(ctx, "LatestDrawFromMonths")
	defer span.End()

	for i := len(months) - 1; i >= 0; i-- {
		if i < len(months)-1 {
			if err := c.Throttle(ctx); err != nil {
				return 0, err
			}
		}

		results, err := c.FetchMonth(ctx, months[i])
		if err != nil {
			slog.DebugContext(ctx, "skipping month", "month", months[i], "err", err)
			continue
		}

		maxDraw := 0
		for _, r := range results {
			drawNo, ok := DrawNoFromLabel(r.Label)
			if ok && drawNo > maxDraw {
				maxDraw = drawNo
			}
		}
		if maxDraw > 0 {
			return maxDraw, nil
		}
	}

	return 0, fmt.Errorf("no draws found in any of %d months", len(months))
}
