package numbers4

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// the canonical dataset columns, in order. The first three keep the
// japanese labels the original spreadsheet consumers expect.
var csvColumns = []string{
	"回号", "抽せん日", "当せん番号",
	"digit1", "digit2", "digit3", "digit4",
	"straight_payout", "box_payout", "set_straight_payout", "set_box_payout",
}

const utf8Bom = "\xef\xbb\xbf"

// ReadCSV loads the canonical dataset. Rows that cannot be turned into
// a valid record are logged and skipped rather than failing the load.
func ReadCSV(ctx context.Context, path string) ([]DrawRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(raw), utf8Bom)))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse '%s': %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var records []DrawRecord
	for _, row := range rows[1:] {
		if len(row) < 3 {
			continue
		}

		// spreadsheet round trips tend to strip leading zeros
		number := row[2]
		for len(number) > 0 && len(number) < 4 {
			number = "0" + number
		}

		record, err := NewRecord(row[0], row[1], number)
		if err != nil {
			slog.WarnContext(ctx, "skipping malformed csv row", "label", row[0], "err", err)
			continue
		}
		if len(row) >= 11 {
			record.Payouts = Payouts{
				Straight:    parseCsvAmount(row[7]),
				Box:         parseCsvAmount(row[8]),
				SetStraight: parseCsvAmount(row[9]),
				SetBox:      parseCsvAmount(row[10]),
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// WriteCSV persists the canonical dataset with a UTF-8 BOM so that the
// japanese column labels survive a double click into Excel.
func WriteCSV(path string, records []DrawRecord) error {
	var out strings.Builder
	out.WriteString(utf8Bom)

	writer := csv.NewWriter(&out)
	if err := writer.Write(csvColumns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Label,
			r.Date,
			r.WinningNumber,
			strconv.Itoa(r.Digits[0]),
			strconv.Itoa(r.Digits[1]),
			strconv.Itoa(r.Digits[2]),
			strconv.Itoa(r.Digits[3]),
			formatCsvAmount(r.Payouts.Straight),
			formatCsvAmount(r.Payouts.Box),
			formatCsvAmount(r.Payouts.SetStraight),
			formatCsvAmount(r.Payouts.SetBox),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(out.String()), 0644)
}

func parseCsvAmount(cell string) Amount {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return Amount{}
	}
	v, err := strconv.ParseInt(cell, 10, 64)
	if err != nil {
		return Amount{}
	}
	return Yen(v)
}

func formatCsvAmount(a Amount) string {
	if !a.Known {
		return ""
	}
	return strconv.FormatInt(a.Value, 10)
}
