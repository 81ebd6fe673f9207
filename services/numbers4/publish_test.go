package numbers4

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"numbers4-backend/lib/timezone"

	"github.com/stretchr/testify/require"
)

func TestBuildArtifacts(t *testing.T) {
	latest := record(6546, "2024/09/02", "0479")
	latest.Payouts.Straight = Yen(940800)
	records := []DrawRecord{
		latest,
		record(1, "1994/10/07", "9287"),
		record(6545, "2024/08/30", "1234"),
	}

	now := time.Date(2024, 9, 3, 12, 0, 0, 0, timezone.Location)
	artifacts, err := BuildArtifacts(records, now)
	require.NoError(t, err)

	require.Equal(t, "2024-09-02-6546", artifacts.Version.Version)
	require.Equal(t, SchemaVersion, artifacts.Version.Schema)
	require.Equal(t, now.Format(time.RFC3339), artifacts.Version.LastUpdate)
	require.Equal(t, 6546, artifacts.Version.LatestDrawNo)
	require.Equal(t, "2024-09-02", artifacts.Version.LatestDate)
	require.Equal(t, 3, artifacts.Version.TotalRecords)

	require.Equal(t, 6546, artifacts.Latest.DrawNo)
	require.Equal(t, "0479", artifacts.Latest.WinningNumber)
	require.Equal(t, Yen(940800), artifacts.Latest.Prize.Straight)

	// both lists come out ascending regardless of input order
	require.Len(t, artifacts.AllMin, 3)
	require.Len(t, artifacts.AllFull, 3)
	require.Equal(t, 1, artifacts.AllMin[0].DrawNo)
	require.Equal(t, 6546, artifacts.AllFull[2].DrawNo)
	require.Equal(t, "1994-10-07", artifacts.AllMin[0].Date)
}

func TestBuildArtifactsVersionPadding(t *testing.T) {
	artifacts, err := BuildArtifacts([]DrawRecord{record(7, "1994/11/18", "1234")}, timezone.Now())
	require.NoError(t, err)
	require.Equal(t, "1994-11-18-007", artifacts.Version.Version)
}

func TestBuildArtifactsEmpty(t *testing.T) {
	_, err := BuildArtifacts(nil, timezone.Now())
	require.Error(t, err)
}

func TestWriteArtifacts(t *testing.T) {
	artifacts, err := BuildArtifacts([]DrawRecord{
		record(1, "1994/10/07", "9287"),
		record(2, "1994/10/14", "0056"),
	}, timezone.Now())
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "api", "v1")
	err = WriteArtifacts(dir, artifacts, false)
	require.NoError(t, err)

	for _, name := range []string{"latest.json", "numbers4_all_min.json", "numbers4_all_full.json", "version.json"} {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		require.True(t, json.Valid(raw), name)
	}

	var full []FullRecord
	raw, err := os.ReadFile(filepath.Join(dir, "numbers4_all_full.json"))
	require.NoError(t, err)
	err = json.Unmarshal(raw, &full)
	require.NoError(t, err)
	require.Len(t, full, 2)
	require.Equal(t, "0056", full[1].WinningNumber)
	require.False(t, full[1].Prize.Straight.Known)
	// unset tiers publish as null, not zero
	require.Contains(t, string(raw), `"straight": null`)
}

func TestWriteArtifactsCompact(t *testing.T) {
	artifacts, err := BuildArtifacts([]DrawRecord{record(1, "1994/10/07", "9287")}, timezone.Now())
	require.NoError(t, err)

	dir := t.TempDir()
	err = WriteArtifacts(dir, artifacts, true)
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "numbers4_all_full.json"))
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(raw), "\n"))

	// latest.json stays indented even in compact mode
	raw, err = os.ReadFile(filepath.Join(dir, "latest.json"))
	require.NoError(t, err)
	require.Greater(t, strings.Count(string(raw), "\n"), 1)
}
