package db

import (
	"context"
	"database/sql"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

type Run struct {
	ID            int64
	Mode          string
	StartedAt     int64
	FinishedAt    int64
	StartNo       int64
	EndNo         int64
	Pages         int64
	RecordsAdded  int64
	PayoutsFilled int64
}

type RecordRunParams struct {
	Mode          string
	StartedAt     int64
	FinishedAt    int64
	StartNo       int64
	EndNo         int64
	Pages         int64
	RecordsAdded  int64
	PayoutsFilled int64
}

const recordRun = `
INSERT INTO scrape_runs (mode, started_at, finished_at, start_no, end_no, pages, records_added, payouts_filled)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) RecordRun(ctx context.Context, arg RecordRunParams) error {
	_, err := q.db.ExecContext(ctx, recordRun,
		arg.Mode,
		arg.StartedAt,
		arg.FinishedAt,
		arg.StartNo,
		arg.EndNo,
		arg.Pages,
		arg.RecordsAdded,
		arg.PayoutsFilled,
	)
	return err
}

const listRuns = `
SELECT id, mode, started_at, finished_at, start_no, end_no, pages, records_added, payouts_filled
FROM scrape_runs
ORDER BY started_at DESC
LIMIT ?
`

func (q *Queries) ListRuns(ctx context.Context, limit int64) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx, listRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		err = rows.Scan(
			&r.ID,
			&r.Mode,
			&r.StartedAt,
			&r.FinishedAt,
			&r.StartNo,
			&r.EndNo,
			&r.Pages,
			&r.RecordsAdded,
			&r.PayoutsFilled,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
