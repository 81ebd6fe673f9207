package numbers4

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"sort"
	"time"

	"numbers4-backend/lib/scrapers/takarakuji"
	"numbers4-backend/lib/timezone"
	"numbers4-backend/services/numbers4/db"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/numbers4")

// DefaultLatestDraw is the fallback end estimate used when both
// auto-detection sources fail.
const DefaultLatestDraw = 6546

// monthsAhead is how far past "as of" the site is assumed to publish
// monthly pages; future months simply come back empty.
const monthsAhead = 2

type Service struct {
	client *takarakuji.Client
	qry    *db.Queries
}

// NewService wires the scraping client and an optional run journal.
// A nil journal disables run accounting entirely.
func NewService(client *takarakuji.Client, journal *sql.DB) Service {
	var qry *db.Queries
	if journal != nil {
		qry = db.New(journal)
	}
	return Service{client: client, qry: qry}
}

type ScrapeOptions struct {
	CsvPath string
	// first draw to fetch, defaults to 1
	Start int
	// last draw to fetch, 0 means auto-detect
	End int
	// only fetch draws newer than the stored maximum
	Append bool
	// also collect payout amounts from the monthly pages
	WithPayouts bool
	// reference time for month enumeration, defaults to now in JST
	AsOf time.Time
}

type ScrapeSummary struct {
	Range         DrawRange
	Pages         int
	NewRecords    int
	PayoutsFilled int
	Total         int
	Complete      int
	UpToDate      bool
}

func (s Service) Scrape(ctx context.Context, opts ScrapeOptions) (ScrapeSummary, error) {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()

	startedAt := timezone.Now()
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = startedAt
	}
	months := takarakuji.Months(takarakuji.PayoutEra, asOf.AddDate(0, monthsAhead, 0))

	var existing []DrawRecord
	if opts.Append {
		var err error
		existing, err = ReadCSV(ctx, opts.CsvPath)
		if err != nil && !os.IsNotExist(err) {
			return ScrapeSummary{}, err
		}
		if os.IsNotExist(err) {
			slog.WarnContext(ctx, "no existing dataset, doing a full scrape", "csv", opts.CsvPath)
		}
	}
	existingMax := 0
	for _, r := range existing {
		if r.DrawNo > existingMax {
			existingMax = r.DrawNo
		}
	}

	autoEnd := s.detectLatestDraw(ctx, months)

	rng, ok := ResolveDrawRange(opts.Start, opts.End, autoEnd, existingMax, opts.Append)
	if !ok {
		slog.InfoContext(ctx, "dataset is already up to date", "max_draw", existingMax)
		return ScrapeSummary{UpToDate: true, Total: len(existing), Complete: completePayouts(existing)}, nil
	}

	spans := takarakuji.DetailSpans(rng.Start, rng.End)
	slog.InfoContext(
		ctx, "scraping draw range",
		"start", FormatDrawLabel(rng.Start),
		"end", FormatDrawLabel(rng.End),
		"pages", len(spans),
	)

	var scraped []DrawRecord
	for i, pageSpan := range spans {
		if i > 0 {
			if err := s.client.Throttle(ctx); err != nil {
				return ScrapeSummary{}, err
			}
		}

		results, err := s.client.FetchDetailSpan(ctx, pageSpan)
		if err != nil {
			slog.WarnContext(
				ctx, "failed to scrape detail page",
				"start", pageSpan.Start,
				"end", pageSpan.End,
				"err", err,
			)
			continue
		}
		for _, result := range results {
			record, err := NewRecord(result.Label, result.Date, result.Number)
			if err != nil {
				slog.WarnContext(ctx, "excluding malformed record", "label", result.Label, "err", err)
				continue
			}
			scraped = append(scraped, record)
		}
	}

	// collapse duplicates across page boundaries before merging
	incoming := Merge(nil, scraped)

	filled := 0
	if len(incoming) > 0 && (opts.WithPayouts || opts.Append) {
		targets := map[int]bool{}
		for _, r := range incoming {
			targets[r.DrawNo] = true
		}
		lookup := s.collectPayouts(ctx, months, targets)
		incoming, filled = FillMissingPayouts(incoming, lookup)
		slog.InfoContext(ctx, "collected payout data", "draws", len(lookup), "fields_filled", filled)
	}

	if len(incoming) == 0 {
		slog.InfoContext(ctx, "no new records scraped, dataset left unchanged")
		return ScrapeSummary{
			Range:    rng,
			Pages:    len(spans),
			Total:    len(existing),
			Complete: completePayouts(existing),
		}, nil
	}

	dataset := Merge(existing, incoming)
	err := WriteCSV(opts.CsvPath, dataset)
	if err != nil {
		return ScrapeSummary{}, err
	}

	summary := ScrapeSummary{
		Range:         rng,
		Pages:         len(spans),
		NewRecords:    len(dataset) - len(existing),
		PayoutsFilled: filled,
		Total:         len(dataset),
		Complete:      completePayouts(dataset),
	}

	mode := "scrape"
	if opts.Append {
		mode = "append"
	}
	s.recordRun(ctx, db.RecordRunParams{
		Mode:          mode,
		StartedAt:     startedAt.Unix(),
		FinishedAt:    timezone.Now().Unix(),
		StartNo:       int64(rng.Start),
		EndNo:         int64(rng.End),
		Pages:         int64(summary.Pages),
		RecordsAdded:  int64(summary.NewRecords),
		PayoutsFilled: int64(summary.PayoutsFilled),
	})

	return summary, nil
}

type FillSummary struct {
	Missing  int
	Filled   int
	Total    int
	Complete int
}

// FillPayouts backfills payout data for stored records that have none,
// fetching only the monthly pages their draw dates fall into.
func (s Service) FillPayouts(ctx context.Context, csvPath string) (FillSummary, error) {
	ctx, span := tracer.Start(ctx, "FillPayouts")
	defer span.End()

	startedAt := timezone.Now()

	dataset, err := ReadCSV(ctx, csvPath)
	if err != nil {
		return FillSummary{}, err
	}

	targets := map[int]bool{}
	monthSet := map[string]bool{}
	for _, r := range dataset {
		if !r.Payouts.Empty() {
			continue
		}
		targets[r.DrawNo] = true
		if month, ok := takarakuji.MonthOfDate(r.Date); ok {
			monthSet[month] = true
		}
	}

	if len(targets) == 0 {
		slog.InfoContext(ctx, "no records are missing payout data")
		return FillSummary{Total: len(dataset), Complete: completePayouts(dataset)}, nil
	}

	months := make([]string, 0, len(monthSet))
	for month := range monthSet {
		months = append(months, month)
	}
	sort.Strings(months)

	slog.InfoContext(ctx, "backfilling payouts", "missing", len(targets), "months", len(months))

	lookup := s.collectPayouts(ctx, months, targets)
	filled := 0
	dataset, filled = FillMissingPayouts(dataset, lookup)

	err = WriteCSV(csvPath, dataset)
	if err != nil {
		return FillSummary{}, err
	}

	s.recordRun(ctx, db.RecordRunParams{
		Mode:          "fill-payouts",
		StartedAt:     startedAt.Unix(),
		FinishedAt:    timezone.Now().Unix(),
		Pages:         int64(len(months)),
		PayoutsFilled: int64(filled),
	})

	return FillSummary{
		Missing:  len(targets),
		Filled:   filled,
		Total:    len(dataset),
		Complete: completePayouts(dataset),
	}, nil
}

// Convert projects the canonical dataset into the publication
// artifacts. No network involved; fails when the input is missing.
func Convert(ctx context.Context, input, outputDir string, compact bool, now time.Time) (VersionInfo, error) {
	ctx, span := tracer.Start(ctx, "Convert")
	defer span.End()

	records, err := ReadCSV(ctx, input)
	if err != nil {
		return VersionInfo{}, err
	}

	artifacts, err := BuildArtifacts(records, now)
	if err != nil {
		return VersionInfo{}, err
	}

	err = WriteArtifacts(outputDir, artifacts, compact)
	if err != nil {
		return VersionInfo{}, err
	}
	return artifacts.Version, nil
}

// Runs lists recent journal entries, newest first.
func (s Service) Runs(ctx context.Context, limit int64) ([]db.Run, error) {
	if s.qry == nil {
		return nil, nil
	}
	return s.qry.ListRuns(ctx, limit)
}

// the larger of the two independent estimates wins, the monthly pages
// usually run ahead of the archive index
func (s Service) detectLatestDraw(ctx context.Context, months []string) int {
	archiveEnd, err := s.client.LatestDrawFromArchive(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to detect latest draw from archive", "err", err)
	}
	monthEnd, err := s.client.LatestDrawFromMonths(ctx, months)
	if err != nil {
		slog.WarnContext(ctx, "failed to detect latest draw from monthly pages", "err", err)
	}

	autoEnd := max(archiveEnd, monthEnd)
	if autoEnd == 0 {
		slog.WarnContext(ctx, "both latest draw estimates failed", "fallback", DefaultLatestDraw)
		return DefaultLatestDraw
	}
	slog.InfoContext(
		ctx, "detected latest draw",
		"archive", FormatDrawLabel(archiveEnd),
		"monthly", FormatDrawLabel(monthEnd),
		"using", FormatDrawLabel(autoEnd),
	)
	return autoEnd
}

func (s Service) collectPayouts(ctx context.Context, months []string, targets map[int]bool) map[int]Payouts {
	raw := s.client.CollectPayouts(ctx, months, targets)
	lookup := make(map[int]Payouts, len(raw))
	for drawNo, result := range raw {
		lookup[drawNo] = payoutsFromScrape(result)
	}
	return lookup
}

func (s Service) recordRun(ctx context.Context, params db.RecordRunParams) {
	if s.qry == nil {
		return
	}
	err := s.qry.RecordRun(ctx, params)
	if err != nil {
		slog.WarnContext(ctx, "failed to record run in journal", "err", err)
	}
}

func completePayouts(records []DrawRecord) int {
	count := 0
	for _, r := range records {
		if r.Payouts.Complete() {
			count++
		}
	}
	return count
}
