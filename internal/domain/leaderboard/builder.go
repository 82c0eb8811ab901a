package leaderboard

import (
	"cmp"
	"math"
	"slices"

	"github.com/okian/crewboard/internal/domain/model"
	"github.com/samber/lo"
)

// groupKey identifies one crew member within one carrier.
type groupKey struct {
	carrier string
	crewID  string
}

// Build aggregates rows into a ranked, tiered leaderboard. It is a pure, total
// function of its input: identical rows always produce an equal leaderboard, and
// an empty input produces an empty leaderboard.
//
// Totals are keyed by (carrier, crew id) and saturate at math.MaxInt64; rows
// from Parse never reach that bound. When one crew id appears with several
// names, the name on its first row wins. Equal totals keep the order in which the
// crew member first appeared in rows.
func Build(rows []model.SalesRecord) *Leaderboard {
	totals := aggregate(rows)

	byCarrier := make(map[string][]CrewTotal)
	for _, t := range totals {
		byCarrier[t.CarrierCode] = append(byCarrier[t.CarrierCode], t)
	}

	entries := make(map[string][]RankedEntry, len(byCarrier))
	for carrier, list := range byCarrier {
		entries[carrier] = rank(list)
	}

	carriers := lo.Keys(byCarrier)
	slices.Sort(carriers)

	return &Leaderboard{
		carriers: carriers,
		entries:  entries,
	}
}

// aggregate sums quantities per group. The result is in first-occurrence order.
func aggregate(rows []model.SalesRecord) []CrewTotal {
	pos := make(map[groupKey]int)
	var totals []CrewTotal
	for _, r := range rows {
		k := groupKey{carrier: r.CarrierCode, crewID: r.CrewID}
		if i, ok := pos[k]; ok {
			totals[i].TotalQuantity = addSaturated(totals[i].TotalQuantity, r.Quantity)
			continue
		}
		pos[k] = len(totals)
		totals = append(totals, CrewTotal{
			CarrierCode:   r.CarrierCode,
			CrewID:        r.CrewID,
			CrewName:      r.CrewName,
			TotalQuantity: r.Quantity,
		})
	}
	return totals
}

// addSaturated sums two non-negative quantities, pinning at math.MaxInt64.
func addSaturated(a, b int64) int64 {
	if b > math.MaxInt64-a {
		return math.MaxInt64
	}
	return a + b
}

// rank orders one carrier's totals and assigns rank and tier. The input must be
// in first-occurrence order; the stable sort keeps that order among ties.
func rank(list []CrewTotal) []RankedEntry {
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(a, b CrewTotal) int {
		return cmp.Compare(b.TotalQuantity, a.TotalQuantity)
	})

	out := make([]RankedEntry, len(sorted))
	for i, t := range sorted {
		r := i + 1
		out[i] = RankedEntry{CrewTotal: t, Rank: r, Tier: TierForRank(r)}
	}
	return out
}
