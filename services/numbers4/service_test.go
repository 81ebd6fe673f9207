package numbers4

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"numbers4-backend/lib/scrapers/takarakuji"
	"numbers4-backend/lib/timezone"

	"github.com/stretchr/testify/require"
)

const testArchivePage = `
<html><body>
<a href="/backnumber/numbers4_detail/6521-6540/">第6521回～第6540回</a>
<a href="/backnumber/numbers4_detail/6541-6542/">第6541回～第6542回</a>
</body></html>`

const testDetailPage = `
<html><body>
<table class="tblType02 tblNumbers4">
<tr><th>回号</th><th>抽せん日</th><th>ナンバーズ4</th></tr>
<tr><td>第6541回</td><td>2024/09/02</td><td>0 1 2 3</td></tr>
<tr><td>第6542回</td><td>2024/09/03</td><td>9 8 7 6</td></tr>
</table>
</body></html>`

const testMonthPage = `
<html><body>
<table class="tblType02 tblNumberGuid">
<tr><th>回号</th><th>第6541回</th></tr>
<tr><th>抽せん日</th><td>2024/09/02</td></tr>
<tr><th>当せん番号</th><td>0123</td></tr>
<tr><th>ストレート</th><td>12口</td><td>940,800円</td></tr>
<tr><th>ボックス</th><td>88口</td><td>39,200円</td></tr>
<tr><th>セット（ストレート）</th><td>9口</td><td>490,000円</td></tr>
<tr><th>セット（ボックス）</th><td>104口</td><td>19,600円</td></tr>
</table>
<table class="tblType02 tblNumberGuid">
<tr><th>回号</th><th>第6542回</th></tr>
<tr><th>抽せん日</th><td>2024/09/03</td></tr>
<tr><th>当せん番号</th><td>9876</td></tr>
<tr><th>ストレート</th><td>0口</td><td>該当なし</td></tr>
<tr><th>ボックス</th><td>45口</td><td>104,300円</td></tr>
</table>
</body></html>`

func testService(t *testing.T) Service {
	mux := http.NewServeMux()
	mux.HandleFunc("/numbers4_past/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testArchivePage))
	})
	mux.HandleFunc("/numbers4_detail/6541-6542/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testDetailPage))
	})
	mux.HandleFunc("/numbers4/202409/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testMonthPage))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := takarakuji.NewClient(takarakuji.ClientOptions{
		BaseUrl: server.URL,
		Delay:   -1,
	})
	require.NoError(t, err)
	return NewService(client, nil)
}

func TestScrapeAndAppend(t *testing.T) {
	service := testService(t)
	ctx := context.Background()
	csvPath := filepath.Join(t.TempDir(), "numbers4_results.csv")
	asOf := time.Date(2024, 9, 15, 0, 0, 0, 0, timezone.Location)

	summary, err := service.Scrape(ctx, ScrapeOptions{
		CsvPath:     csvPath,
		Start:       6541,
		WithPayouts: true,
		AsOf:        asOf,
	})
	require.NoError(t, err)
	require.False(t, summary.UpToDate)
	require.Equal(t, DrawRange{Start: 6541, End: 6542}, summary.Range)
	require.Equal(t, 1, summary.Pages)
	require.Equal(t, 2, summary.NewRecords)
	// 4 tiers for 6541, only box for 6542 (straight was 該当なし)
	require.Equal(t, 5, summary.PayoutsFilled)
	require.Equal(t, 2, summary.Total)
	require.Equal(t, 1, summary.Complete)

	stored, err := ReadCSV(ctx, csvPath)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	require.Equal(t, "0123", stored[0].WinningNumber)
	require.Equal(t, Yen(940800), stored[0].Payouts.Straight)
	require.True(t, stored[0].Payouts.Complete())
	require.False(t, stored[1].Payouts.Straight.Known)
	require.Equal(t, Yen(104300), stored[1].Payouts.Box)

	// the dataset already covers the detected latest draw, appending
	// again is a no-op
	summary, err = service.Scrape(ctx, ScrapeOptions{
		CsvPath: csvPath,
		Append:  true,
		AsOf:    asOf,
	})
	require.NoError(t, err)
	require.True(t, summary.UpToDate)
	require.Equal(t, 2, summary.Total)
}

func TestScrapeAppendWithoutDataset(t *testing.T) {
	service := testService(t)
	csvPath := filepath.Join(t.TempDir(), "numbers4_results.csv")

	// append against a missing file degrades to a full scrape
	summary, err := service.Scrape(context.Background(), ScrapeOptions{
		CsvPath: csvPath,
		Start:   6541,
		Append:  true,
		AsOf:    time.Date(2024, 9, 15, 0, 0, 0, 0, timezone.Location),
	})
	require.NoError(t, err)
	require.False(t, summary.UpToDate)
	require.Equal(t, 2, summary.Total)
}

func TestFillPayoutsService(t *testing.T) {
	service := testService(t)
	ctx := context.Background()
	csvPath := filepath.Join(t.TempDir(), "numbers4_results.csv")

	partial := record(6542, "2024/09/03", "9876")
	partial.Payouts.Box = Yen(104300)
	err := WriteCSV(csvPath, []DrawRecord{
		record(6541, "2024/09/02", "0123"),
		partial,
	})
	require.NoError(t, err)

	summary, err := service.FillPayouts(ctx, csvPath)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Missing)
	require.Equal(t, 4, summary.Filled)
	require.Equal(t, 2, summary.Total)
	require.Equal(t, 1, summary.Complete)

	stored, err := ReadCSV(ctx, csvPath)
	require.NoError(t, err)
	require.True(t, stored[0].Payouts.Complete())
	// a partially enriched record is left alone
	require.False(t, stored[1].Payouts.Straight.Known)

	// a second pass finds nothing left to fill
	summary, err = service.FillPayouts(ctx, csvPath)
	require.NoError(t, err)
	require.Equal(t, 0, summary.Missing)
	require.Equal(t, 0, summary.Filled)
}

func TestConvert(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "numbers4_results.csv")

	err := WriteCSV(csvPath, []DrawRecord{
		record(6541, "2024/09/02", "0123"),
		record(6542, "2024/09/03", "9876"),
	})
	require.NoError(t, err)

	version, err := Convert(ctx, csvPath, filepath.Join(dir, "api", "v1"), false, timezone.Now())
	require.NoError(t, err)
	require.Equal(t, "2024-09-03-6542", version.Version)
	require.Equal(t, 2, version.TotalRecords)

	_, err = Convert(ctx, filepath.Join(dir, "missing.csv"), dir, false, timezone.Now())
	require.Error(t, err)
}
