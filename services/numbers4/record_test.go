package numbers4

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	r, err := NewRecord("第6546回", "2024/09/02", "0479")
	require.NoError(t, err)
	require.Equal(t, 6546, r.DrawNo)
	require.Equal(t, "0479", r.WinningNumber)
	require.Equal(t, [4]int{0, 4, 7, 9}, r.Digits)
	require.Equal(t, "2024/09/02", r.Date)
	require.True(t, r.Payouts.Empty())
}

func TestNewRecordMalformed(t *testing.T) {
	for _, tc := range []struct {
		label  string
		number string
	}{
		{label: "not a label", number: "1234"},
		{label: "第6546回", number: "123"},
		{label: "第6546回", number: "12345"},
		{label: "第6546回", number: "12a4"},
		{label: "第6546回", number: ""},
	} {
		_, err := NewRecord(tc.label, "2024/09/02", tc.number)
		require.Error(t, err, "label=%s number=%s", tc.label, tc.number)
	}
}

func TestFormatDrawLabelRoundTrip(t *testing.T) {
	r, err := NewRecord(FormatDrawLabel(1), "1994/10/07", "1234")
	require.NoError(t, err)
	require.Equal(t, 1, r.DrawNo)
	require.Equal(t, "第0001回", r.Label)
}

func TestDigitsRoundTrip(t *testing.T) {
	for _, digits := range [][4]int{
		{0, 0, 0, 0},
		{0, 4, 7, 9},
		{9, 9, 9, 9},
		{1, 0, 2, 0},
	} {
		number := ""
		for _, d := range digits {
			number += string(rune('0' + d))
		}
		r, err := NewRecord("第0001回", "2024/09/02", number)
		require.NoError(t, err)
		require.Equal(t, digits, r.Digits)
		require.Equal(t, number, r.WinningNumber)
	}
}

func TestNormalizeDate(t *testing.T) {
	require.Equal(t, "2024-09-02", NormalizeDate("2024/09/02"))
	require.Equal(t, "2024-09-02", NormalizeDate("2024-09-02"))
}

func TestAmountJson(t *testing.T) {
	encoded, err := json.Marshal(Payouts{Straight: Yen(940800)})
	require.NoError(t, err)
	require.JSONEq(t, `{"straight":940800,"box":null,"set_straight":null,"set_box":null}`, string(encoded))

	var decoded Payouts
	err = json.Unmarshal(encoded, &decoded)
	require.NoError(t, err)
	require.Equal(t, Yen(940800), decoded.Straight)
	require.False(t, decoded.Box.Known)
}

func TestPayoutsEmptyComplete(t *testing.T) {
	var p Payouts
	require.True(t, p.Empty())
	require.False(t, p.Complete())

	p.SetBox = Yen(19700)
	require.False(t, p.Empty())
	require.False(t, p.Complete())

	p.Straight = Yen(1)
	p.Box = Yen(2)
	p.SetStraight = Yen(3)
	require.True(t, p.Complete())
}
