package numbers4

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// SchemaVersion tags every version.json so that static consumers can
// detect layout changes.
const SchemaVersion = "1.0.0"

// FullRecord is one entry of the detailed history artifact.
type FullRecord struct {
	DrawNo        int     `json:"draw_no"`
	Date          string  `json:"date"`
	Digits        [4]int  `json:"digits"`
	WinningNumber string  `json:"winning_number"`
	Prize         Payouts `json:"prize"`
}

// MinRecord is one entry of the lightweight history artifact.
type MinRecord struct {
	DrawNo int    `json:"draw_no"`
	Date   string `json:"date"`
	Digits [4]int `json:"digits"`
}

// VersionInfo describes the published dataset as a whole.
type VersionInfo struct {
	Version      string `json:"version"`
	Schema       string `json:"schema"`
	LastUpdate   string `json:"last_update"`
	LatestDrawNo int    `json:"latest_draw_no"`
	LatestDate   string `json:"latest_date"`
	TotalRecords int    `json:"total_records"`
}

// Artifacts is the full set of files published for static consumption.
type Artifacts struct {
	Latest  FullRecord
	AllMin  []MinRecord
	AllFull []FullRecord
	Version VersionInfo
}

// BuildArtifacts projects the canonical dataset into the publication
// artifacts. `now` is caller-supplied so builds are reproducible.
func BuildArtifacts(records []DrawRecord, now time.Time) (Artifacts, error) {
	if len(records) == 0 {
		return Artifacts{}, fmt.Errorf("cannot publish an empty dataset")
	}

	sorted := Merge(nil, records)
	latest := sorted[len(sorted)-1]

	allMin := make([]MinRecord, len(sorted))
	allFull := make([]FullRecord, len(sorted))
	for i, r := range sorted {
		allMin[i] = MinRecord{
			DrawNo: r.DrawNo,
			Date:   NormalizeDate(r.Date),
			Digits: r.Digits,
		}
		allFull[i] = FullRecord{
			DrawNo:        r.DrawNo,
			Date:          NormalizeDate(r.Date),
			Digits:        r.Digits,
			WinningNumber: r.WinningNumber,
			Prize:         r.Payouts,
		}
	}

	latestDate := NormalizeDate(latest.Date)
	return Artifacts{
		Latest:  allFull[len(allFull)-1],
		AllMin:  allMin,
		AllFull: allFull,
		Version: VersionInfo{
			Version:      fmt.Sprintf("%s-%03d", latestDate, latest.DrawNo),
			Schema:       SchemaVersion,
			LastUpdate:   now.Format(time.RFC3339),
			LatestDrawNo: latest.DrawNo,
			LatestDate:   latestDate,
			TotalRecords: len(sorted),
		},
	}, nil
}

// WriteArtifacts writes the four JSON files into dir. `compact` drops
// the indentation of the two history lists; latest.json and
// version.json are small and always stay readable.
func WriteArtifacts(dir string, artifacts Artifacts, compact bool) error {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return err
	}

	files := []struct {
		name    string
		data    any
		compact bool
	}{
		{name: "latest.json", data: artifacts.Latest},
		{name: "numbers4_all_min.json", data: artifacts.AllMin, compact: compact},
		{name: "numbers4_all_full.json", data: artifacts.AllFull, compact: compact},
		{name: "version.json", data: artifacts.Version},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		encoded, err := encodeJson(f.data, f.compact)
		if err != nil {
			return fmt.Errorf("encode %s: %w", f.name, err)
		}
		err = os.WriteFile(path, encoded, 0644)
		if err != nil {
			return err
		}
		slog.Info("wrote artifact", "path", path, "kb", fmt.Sprintf("%.1f", float64(len(encoded))/1024))
	}

	return nil
}

func encodeJson(data any, compact bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// the artifacts carry japanese text, keep it readable
	enc.SetEscapeHTML(false)
	if !compact {
		enc.SetIndent("", "  ")
	}
	err := enc.Encode(data)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
