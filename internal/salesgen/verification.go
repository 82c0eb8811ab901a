package salesgen

import (
	"fmt"

	"github.com/okian/crewboard/internal/domain/leaderboard"
)

// Mismatch is one difference between the expected and the served leaderboard.
type Mismatch struct {
	Carrier string
	Detail  string
}

func (m Mismatch) String() string {
	if m.Carrier == "" {
		return m.Detail
	}
	return m.Carrier + ": " + m.Detail
}

// Verify compares the served board against the expected one built locally from
// the same rows. Order matters: carriers, ranks and ties must line up exactly.
func Verify(expected *leaderboard.Leaderboard, got *Board) []Mismatch {
	want := expected.View()
	var out []Mismatch

	if got.Empty != expected.IsEmpty() {
		out = append(out, Mismatch{Detail: fmt.Sprintf("empty flag is %t, want %t", got.Empty, expected.IsEmpty())})
	}
	if len(got.Carriers) != len(want) {
		out = append(out, Mismatch{Detail: fmt.Sprintf("%d carriers served, want %d", len(got.Carriers), len(want))})
		return out
	}

	for i, w := range want {
		g := got.Carriers[i]
		if g.Carrier != w.Carrier {
			out = append(out, Mismatch{Detail: fmt.Sprintf("carrier #%d is %q, want %q", i+1, g.Carrier, w.Carrier)})
			continue
		}
		out = append(out, compareTier(w.Carrier, "podium", w.Podium, g.Podium)...)
		out = append(out, compareTier(w.Carrier, "others", w.Others, g.Others)...)
	}
	return out
}

func compareTier(carrier, tier string, want, got []leaderboard.Entry) []Mismatch {
	if len(got) != len(want) {
		return []Mismatch{{Carrier: carrier, Detail: fmt.Sprintf("%s has %d entries, want %d", tier, len(got), len(want))}}
	}
	var out []Mismatch
	for i := range want {
		if got[i] != want[i] {
			out = append(out, Mismatch{
				Carrier: carrier,
				Detail:  fmt.Sprintf("%s rank %d is %+v, want %+v", tier, want[i].Rank, got[i], want[i]),
			})
		}
	}
	return out
}
