// Package leaderboard aggregates sales rows per crew member, ranks crew within
// each carrier and splits every carrier's ranking into presentation tiers.
package leaderboard

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Tier boundaries. Ranks are 1-based.
const (
	PodiumSize    = 3  // ranks 1..3
	RunnerUpLimit = 10 // ranks 4..10; anything beyond is computed but not exposed
)

// Tier is the presentation band an entry falls into.
type Tier int

// Tier values.
const (
	TierPodium Tier = iota + 1
	TierRunnerUp
	TierUnranked
)

// TierForRank maps a 1-based rank to its tier.
func TierForRank(rank int) Tier {
	switch {
	case rank <= PodiumSize:
		return TierPodium
	case rank <= RunnerUpLimit:
		return TierRunnerUp
	default:
		return TierUnranked
	}
}

func (t Tier) String() string {
	switch t {
	case TierPodium:
		return "PODIUM"
	case TierRunnerUp:
		return "RUNNER_UP"
	case TierUnranked:
		return "UNRANKED"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// MarshalText renders the tier name in JSON and YAML output.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// CrewTotal is the summed quantity of one crew member within one carrier.
type CrewTotal struct {
	CarrierCode   string
	CrewID        string
	CrewName      string
	TotalQuantity int64
}

// RankedEntry is a CrewTotal with its rank and tier inside its carrier.
type RankedEntry struct {
	CrewTotal
	Rank int
	Tier Tier
}

// Entry is the shape exposed to presentation collaborators.
type Entry struct {
	Rank          int    `json:"rank" yaml:"rank"`
	CrewName      string `json:"crew_name" yaml:"crew_name"`
	CrewID        string `json:"crew_id" yaml:"crew_id"`
	TotalQuantity int64  `json:"total_quantity" yaml:"total_quantity"`
}

// CarrierView is the exposed part of one carrier's ranking.
type CarrierView struct {
	Carrier string  `json:"carrier" yaml:"carrier"`
	Podium  []Entry `json:"podium" yaml:"podium"`
	Others  []Entry `json:"others" yaml:"others"`
}

// Leaderboard maps carrier codes to their ranked entries. It is immutable once
// built and safe for concurrent readers; accessors return copies.
type Leaderboard struct {
	carriers []string
	entries  map[string][]RankedEntry
}

// Carriers returns carrier codes in ascending order.
func (l *Leaderboard) Carriers() []string {
	if l == nil {
		return nil
	}
	return slices.Clone(l.carriers)
}

// Entries returns every ranked entry of a carrier, including UNRANKED ones.
func (l *Leaderboard) Entries(carrier string) []RankedEntry {
	if l == nil {
		return nil
	}
	return slices.Clone(l.entries[carrier])
}

// Podium returns the carrier's ranks 1..3.
func (l *Leaderboard) Podium(carrier string) []RankedEntry {
	return l.tier(carrier, TierPodium)
}

// Others returns the carrier's ranks 4..10.
func (l *Leaderboard) Others(carrier string) []RankedEntry {
	return l.tier(carrier, TierRunnerUp)
}

func (l *Leaderboard) tier(carrier string, t Tier) []RankedEntry {
	if l == nil {
		return nil
	}
	return lo.Filter(l.entries[carrier], func(e RankedEntry, _ int) bool {
		return e.Tier == t
	})
}

// Carrier returns the exposed view of one carrier.
func (l *Leaderboard) Carrier(code string) (CarrierView, bool) {
	if l == nil {
		return CarrierView{}, false
	}
	if _, ok := l.entries[code]; !ok {
		return CarrierView{}, false
	}
	return CarrierView{
		Carrier: code,
		Podium:  lo.Map(l.Podium(code), toEntry),
		Others:  lo.Map(l.Others(code), toEntry),
	}, true
}

// View returns the exposed view of every carrier, in carrier order.
func (l *Leaderboard) View() []CarrierView {
	if l == nil {
		return []CarrierView{}
	}
	views := make([]CarrierView, 0, len(l.carriers))
	for _, code := range l.carriers {
		v, _ := l.Carrier(code)
		views = append(views, v)
	}
	return views
}

// CrewCount returns the number of ranked crew members across all carriers.
func (l *Leaderboard) CrewCount() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, list := range l.entries {
		n += len(list)
	}
	return n
}

// IsEmpty reports whether the leaderboard has no carriers.
func (l *Leaderboard) IsEmpty() bool {
	return l == nil || len(l.carriers) == 0
}

func toEntry(e RankedEntry, _ int) Entry {
	return Entry{
		Rank:          e.Rank,
		CrewName:      e.CrewName,
		CrewID:        e.CrewID,
		TotalQuantity: e.TotalQuantity,
	}
}
