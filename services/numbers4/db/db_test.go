package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	sqldb, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	_, err = sqldb.Exec(Schema)
	require.NoError(t, err)
	return sqldb
}

func TestRunJournal(t *testing.T) {
	qry := New(openTestDB(t))
	ctx := context.Background()

	runs, err := qry.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 0)

	err = qry.RecordRun(ctx, RecordRunParams{
		Mode:         "scrape",
		StartedAt:    1000,
		FinishedAt:   1060,
		StartNo:      1,
		EndNo:        6546,
		Pages:        328,
		RecordsAdded: 6546,
	})
	require.NoError(t, err)

	err = qry.RecordRun(ctx, RecordRunParams{
		Mode:          "fill-payouts",
		StartedAt:     2000,
		FinishedAt:    2010,
		PayoutsFilled: 48,
	})
	require.NoError(t, err)

	runs, err = qry.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// newest first
	require.Equal(t, "fill-payouts", runs[0].Mode)
	require.Equal(t, int64(48), runs[0].PayoutsFilled)
	require.Equal(t, "scrape", runs[1].Mode)
	require.Equal(t, int64(328), runs[1].Pages)

	runs, err = qry.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "fill-payouts", runs[0].Mode)
}
