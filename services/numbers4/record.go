package numbers4

import (
	"encoding/json"
	"fmt"
	"strings"

	"numbers4-backend/lib/scrapers/takarakuji"
)

// Amount is a payout amount in yen that is either a known value or
// not applicable (no winner in a tier is absent, never zero).
type Amount struct {
	Value int64
	Known bool
}

func Yen(v int64) Amount {
	return Amount{Value: v, Known: true}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Known {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Amount{}
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = Yen(v)
	return nil
}

// Payouts holds the four prize tiers of one draw. Each field is
// independently known or absent.
type Payouts struct {
	Straight    Amount `json:"straight"`
	Box         Amount `json:"box"`
	SetStraight Amount `json:"set_straight"`
	SetBox      Amount `json:"set_box"`
}

// Empty reports whether none of the four tiers is set, which is what
// flags a record as "not yet enriched".
func (p Payouts) Empty() bool {
	return !p.Straight.Known && !p.Box.Known && !p.SetStraight.Known && !p.SetBox.Known
}

// Complete reports whether all four tiers are set.
func (p Payouts) Complete() bool {
	return p.Straight.Known && p.Box.Known && p.SetStraight.Known && p.SetBox.Known
}

// DrawRecord is one lottery draw of the canonical dataset.
type DrawRecord struct {
	DrawNo        int
	Label         string // display label, e.g. "第0001回"
	Date          string // as published, "2006/01/02"
	WinningNumber string // exactly 4 decimal digits, leading zeros significant
	Digits        [4]int
	Payouts       Payouts
}

// NewRecord builds a validated record from scraped cells. The winning
// number must already be reduced to bare digits; anything that is not
// exactly 4 of them is a malformed record.
func NewRecord(label, date, number string) (DrawRecord, error) {
	drawNo, ok := takarakuji.DrawNoFromLabel(label)
	if !ok {
		return DrawRecord{}, fmt.Errorf("cannot derive draw number from label '%s'", label)
	}

	if len(number) != 4 {
		return DrawRecord{}, fmt.Errorf("winning number '%s' is not 4 digits", number)
	}
	var digits [4]int
	for i, c := range number {
		if c < '0' || c > '9' {
			return DrawRecord{}, fmt.Errorf("winning number '%s' is not 4 digits", number)
		}
		digits[i] = int(c - '0')
	}

	return DrawRecord{
		DrawNo:        drawNo,
		Label:         label,
		Date:          date,
		WinningNumber: number,
		Digits:        digits,
	}, nil
}

// FormatDrawLabel renders a draw number back into its display label.
func FormatDrawLabel(drawNo int) string {
	return fmt.Sprintf("第%04d回", drawNo)
}

// NormalizeDate converts a published draw date ("2006/01/02") to the
// ISO form used by the JSON artifacts ("2006-01-02"). Dates already in
// ISO form pass through unchanged.
func NormalizeDate(date string) string {
	return strings.ReplaceAll(date, "/", "-")
}

func payoutsFromScrape(r takarakuji.MonthResult) Payouts {
	var p Payouts
	if r.Straight != nil {
		p.Straight = Yen(*r.Straight)
	}
	if r.Box != nil {
		p.Box = Yen(*r.Box)
	}
	if r.SetStraight != nil {
		p.SetStraight = Yen(*r.SetStraight)
	}
	if r.SetBox != nil {
		p.SetBox = Yen(*r.SetBox)
	}
	return p
}
