package numbers4

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestCsvRoundTrip(t *testing.T) {
	withPayouts := record(6546, "2024/09/02", "0479")
	withPayouts.Payouts = Payouts{
		Straight:    Yen(940800),
		Box:         Yen(39500),
		SetStraight: Yen(490100),
		SetBox:      Yen(19700),
	}
	partial := record(6545, "2024/08/30", "1234")
	partial.Payouts.Box = Yen(100)
	bare := record(1, "1994/10/07", "9287")

	records := []DrawRecord{bare, partial, withPayouts}
	path := filepath.Join(t.TempDir(), "numbers4_results.csv")

	err := WriteCSV(path, records)
	require.NoError(t, err)

	loaded, err := ReadCSV(context.Background(), path)
	require.NoError(t, err)
	diff := cmp.Diff(records, loaded)
	require.Empty(t, diff)
}

func TestCsvBomAndHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	err := WriteCSV(path, []DrawRecord{record(1, "1994/10/07", "9287")})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(raw), utf8Bom))

	lines := strings.Split(strings.TrimPrefix(string(raw), utf8Bom), "\n")
	require.True(t, strings.HasPrefix(lines[0], "回号,抽せん日,当せん番号,digit1"))
}

func TestReadCsvRestoresLeadingZeros(t *testing.T) {
	// a spreadsheet round trip turns 0479 into 479
	path := filepath.Join(t.TempDir(), "stripped.csv")
	content := strings.Join([]string{
		strings.Join(csvColumns, ","),
		"第6546回,2024/09/02,479,0,4,7,9,,,,",
		"",
	}, "\n")
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)

	loaded, err := ReadCSV(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, "0479", loaded[0].WinningNumber)
	require.Equal(t, [4]int{0, 4, 7, 9}, loaded[0].Digits)
}

func TestReadCsvSkipsMalformedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.csv")
	content := strings.Join([]string{
		strings.Join(csvColumns, ","),
		"第0001回,1994/10/07,9287,9,2,8,7,,,,",
		"garbage,1994/10/14,1234,1,2,3,4,,,,",
		"第0003回,1994/10/21,1b34,1,2,3,4,,,,",
		"第0004回,1994/10/28,5656,5,6,5,6,,,,",
		"",
	}, "\n")
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)

	loaded, err := ReadCSV(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.Equal(t, 1, loaded[0].DrawNo)
	require.Equal(t, 4, loaded[1].DrawNo)
}

func TestReadCsvMissingFile(t *testing.T) {
	_, err := ReadCSV(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	require.True(t, os.IsNotExist(err))
}
