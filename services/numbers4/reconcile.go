package numbers4

import (
	"slices"
	"strings"
)

// Merge reconciles a previously persisted dataset with a freshly
// scraped batch: one record per draw number, ascending. When both
// sides define the same draw, the incoming record wins, which is why
// incoming is concatenated after existing and the stable sort keeps
// concatenation order for equal keys.
func Merge(existing, incoming []DrawRecord) []DrawRecord {
	combined := make([]DrawRecord, 0, len(existing)+len(incoming))
	combined = append(combined, existing...)
	combined = append(combined, incoming...)

	slices.SortStableFunc(combined, func(a, b DrawRecord) int {
		if a.DrawNo != b.DrawNo {
			return a.DrawNo - b.DrawNo
		}
		// date is a tie-break only, the same draw should not
		// carry two different dates
		return strings.Compare(a.Date, b.Date)
	})

	var out []DrawRecord
	for i, r := range combined {
		if i+1 < len(combined) && combined[i+1].DrawNo == r.DrawNo {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FillMissingPayouts enriches records that have no payout data at all
// from the lookup, field by field. A record with even one tier already
// set is never touched. Returns the new dataset (same order, same
// cardinality) and how many fields were filled.
func FillMissingPayouts(dataset []DrawRecord, lookup map[int]Payouts) ([]DrawRecord, int) {
	out := slices.Clone(dataset)
	filled := 0

	for i := range out {
		if !out[i].Payouts.Empty() {
			continue
		}
		p, ok := lookup[out[i].DrawNo]
		if !ok {
			continue
		}

		if p.Straight.Known {
			out[i].Payouts.Straight = p.Straight
			filled++
		}
		if p.Box.Known {
			out[i].Payouts.Box = p.Box
			filled++
		}
		if p.SetStraight.Known {
			out[i].Payouts.SetStraight = p.SetStraight
			filled++
		}
		if p.SetBox.Known {
			out[i].Payouts.SetBox = p.SetBox
			filled++
		}
	}

	return out, filled
}

type DrawRange struct {
	Start int
	End   int
}

// ResolveDrawRange decides which draw numbers need to be fetched.
// The explicit start defaults to 1; the explicit end falls back to the
// auto-detected estimate when unset or below start. In incremental
// mode the start is floored to one past the highest stored draw.
// Returns false when the floor already exceeds the end, meaning the
// dataset is up to date and there is nothing to fetch.
func ResolveDrawRange(explicitStart, explicitEnd, autoEnd, existingMax int, incremental bool) (DrawRange, bool) {
	start := max(1, explicitStart)

	end := explicitEnd
	if end < start {
		end = autoEnd
	}

	if incremental && existingMax+1 > start {
		start = existingMax + 1
	}

	if start > end {
		return DrawRange{}, false
	}
	return DrawRange{Start: start, End: end}, true
}
