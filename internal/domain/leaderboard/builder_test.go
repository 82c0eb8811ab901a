package leaderboard_test

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/okian/crewboard/internal/domain/leaderboard"
	"github.com/okian/crewboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(carrier, id, name string, qty int64) model.SalesRecord {
	return model.SalesRecord{CarrierCode: carrier, CrewID: id, CrewName: name, Quantity: qty}
}

// crewRows builds one row per crew member with quantities n, n-1, ..., 1.
func crewRows(carrier string, n int) []model.SalesRecord {
	rows := make([]model.SalesRecord, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("C%02d", i+1)
		rows = append(rows, rec(carrier, id, "Crew "+id, int64(n-i)))
	}
	return rows
}

func randomRows(rng *rand.Rand, n int) []model.SalesRecord {
	carriers := []string{"AA", "BB", "CC", "DD"}
	rows := make([]model.SalesRecord, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("C%d", rng.Intn(25))
		rows = append(rows, rec(carriers[rng.Intn(len(carriers))], id, "Name "+id, int64(rng.Intn(20))))
	}
	return rows
}

func TestBuild_Example(t *testing.T) {
	Convey("Given rows for two carriers", t, func() {
		rows := []model.SalesRecord{
			rec("AA", "C1", "Alice", 5),
			rec("AA", "C2", "Bob", 9),
			rec("AA", "C1", "Alice", 3),
			rec("BB", "C3", "Carl", 1),
		}

		Convey("When building the leaderboard", func() {
			lb := leaderboard.Build(rows)

			Convey("Then carriers are listed in code order", func() {
				So(lb.Carriers(), ShouldResemble, []string{"AA", "BB"})
			})

			Convey("And AA ranks Bob over Alice on the podium", func() {
				podium := lb.Podium("AA")
				So(podium, ShouldHaveLength, 2)
				So(podium[0].CrewName, ShouldEqual, "Bob")
				So(podium[0].TotalQuantity, ShouldEqual, 9)
				So(podium[0].Rank, ShouldEqual, 1)
				So(podium[1].CrewName, ShouldEqual, "Alice")
				So(podium[1].TotalQuantity, ShouldEqual, 8)
				So(podium[1].Rank, ShouldEqual, 2)
				So(lb.Others("AA"), ShouldBeEmpty)
			})

			Convey("And BB has a single podium entry and no others", func() {
				view, ok := lb.Carrier("BB")
				So(ok, ShouldBeTrue)
				So(view.Podium, ShouldResemble, []leaderboard.Entry{
					{Rank: 1, CrewName: "Carl", CrewID: "C3", TotalQuantity: 1},
				})
				So(view.Others, ShouldBeEmpty)
			})
		})
	})
}

func TestBuild_Empty(t *testing.T) {
	Convey("Given no rows", t, func() {
		lb := leaderboard.Build(nil)

		Convey("Then the leaderboard is empty but usable", func() {
			So(lb, ShouldNotBeNil)
			So(lb.IsEmpty(), ShouldBeTrue)
			So(lb.Carriers(), ShouldBeEmpty)
			So(lb.View(), ShouldBeEmpty)
			So(lb.CrewCount(), ShouldEqual, 0)
		})

		Convey("And an unknown carrier is reported as missing", func() {
			_, ok := lb.Carrier("AA")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestBuild_AggregationCorrectness(t *testing.T) {
	Convey("Given random row sets", t, func() {
		rng := rand.New(rand.NewSource(7))

		for round := 0; round < 20; round++ {
			rows := randomRows(rng, 200)
			lb := leaderboard.Build(rows)

			want := map[string]int64{}
			for _, r := range rows {
				want[r.CarrierCode] += r.Quantity
			}

			got := map[string]int64{}
			for _, c := range lb.Carriers() {
				for _, e := range lb.Entries(c) {
					got[c] += e.TotalQuantity
				}
			}

			So(got, ShouldResemble, want)
		}
	})
}

func TestBuild_RankTotality(t *testing.T) {
	Convey("Given random row sets", t, func() {
		rng := rand.New(rand.NewSource(11))

		Convey("Then every carrier has ranks 1..count without gaps", func() {
			for round := 0; round < 20; round++ {
				lb := leaderboard.Build(randomRows(rng, 150))
				for _, c := range lb.Carriers() {
					entries := lb.Entries(c)
					for i, e := range entries {
						So(e.Rank, ShouldEqual, i+1)
						if i > 0 {
							So(entries[i-1].TotalQuantity, ShouldBeGreaterThanOrEqualTo, e.TotalQuantity)
						}
					}
				}
			}
		})
	})
}

func TestBuild_TieBreak(t *testing.T) {
	Convey("Given crew members with equal totals", t, func() {
		rows := []model.SalesRecord{
			rec("AA", "Z", "Zed", 4),
			rec("AA", "A", "Amy", 2),
			rec("AA", "M", "Max", 4),
			rec("AA", "A", "Amy", 2),
		}

		Convey("Then ties keep first-occurrence order", func() {
			entries := leaderboard.Build(rows).Entries("AA")
			So(entries, ShouldHaveLength, 3)
			So(entries[0].CrewID, ShouldEqual, "Z")
			So(entries[1].CrewID, ShouldEqual, "A")
			So(entries[2].CrewID, ShouldEqual, "M")
		})

		Convey("And reordering later rows of tied crew does not change the order", func() {
			reordered := []model.SalesRecord{
				rec("AA", "Z", "Zed", 4),
				rec("AA", "A", "Amy", 2),
				rec("AA", "A", "Amy", 2),
				rec("AA", "M", "Max", 4),
			}
			So(leaderboard.Build(reordered).View(), ShouldResemble, leaderboard.Build(rows).View())
		})

		Convey("And the order is not alphabetical", func() {
			entries := leaderboard.Build([]model.SalesRecord{
				rec("AA", "B", "Bee", 1),
				rec("AA", "A", "Ace", 1),
			}).Entries("AA")
			So(entries[0].CrewID, ShouldEqual, "B")
			So(entries[1].CrewID, ShouldEqual, "A")
		})
	})
}

func TestBuild_Tiers(t *testing.T) {
	Convey("Given a carrier with fifteen crew members", t, func() {
		lb := leaderboard.Build(crewRows("AA", 15))

		Convey("Then ranks map onto tiers", func() {
			entries := lb.Entries("AA")
			So(entries, ShouldHaveLength, 15)
			So(entries[2].Tier, ShouldEqual, leaderboard.TierPodium)
			So(entries[3].Tier, ShouldEqual, leaderboard.TierRunnerUp)
			So(entries[9].Tier, ShouldEqual, leaderboard.TierRunnerUp)
			So(entries[10].Tier, ShouldEqual, leaderboard.TierUnranked)
		})

		Convey("And the exposed view stops at rank ten", func() {
			view, ok := lb.Carrier("AA")
			So(ok, ShouldBeTrue)
			So(view.Podium, ShouldHaveLength, 3)
			So(view.Others, ShouldHaveLength, 7)
			So(view.Others[0].Rank, ShouldEqual, 4)
			So(view.Others[6].Rank, ShouldEqual, 10)
		})
	})

	Convey("Given a carrier with two crew members", t, func() {
		lb := leaderboard.Build(crewRows("BB", 2))

		Convey("Then the podium is not padded", func() {
			So(lb.Podium("BB"), ShouldHaveLength, 2)
			So(lb.Others("BB"), ShouldBeEmpty)
		})
	})

	Convey("Given tier names", t, func() {
		So(leaderboard.TierPodium.String(), ShouldEqual, "PODIUM")
		So(leaderboard.TierRunnerUp.String(), ShouldEqual, "RUNNER_UP")
		So(leaderboard.TierUnranked.String(), ShouldEqual, "UNRANKED")
		So(leaderboard.TierForRank(1), ShouldEqual, leaderboard.TierPodium)
		So(leaderboard.TierForRank(11), ShouldEqual, leaderboard.TierUnranked)
	})
}

func TestBuild_Idempotence(t *testing.T) {
	Convey("Given the same rows built twice", t, func() {
		rows := randomRows(rand.New(rand.NewSource(3)), 300)
		a := leaderboard.Build(rows)
		b := leaderboard.Build(rows)

		Convey("Then the leaderboards are equal in content but distinct", func() {
			So(a, ShouldNotPointTo, b)
			So(a, ShouldResemble, b)
			So(a.View(), ShouldResemble, b.View())
		})
	})
}

func TestBuild_NamePolicy(t *testing.T) {
	Convey("Given one crew id with two names", t, func() {
		rows := []model.SalesRecord{
			rec("AA", "C1", "Alice", 1),
			rec("AA", "C1", "Alicia", 2),
		}

		Convey("Then the first name wins and totals are merged", func() {
			entries := leaderboard.Build(rows).Entries("AA")
			So(entries, ShouldHaveLength, 1)
			So(entries[0].CrewName, ShouldEqual, "Alice")
			So(entries[0].TotalQuantity, ShouldEqual, 3)
		})
	})

	Convey("Given one crew id under two carriers", t, func() {
		lb := leaderboard.Build([]model.SalesRecord{
			rec("AA", "C1", "Alice", 1),
			rec("BB", "C1", "Alice", 2),
		})

		Convey("Then each carrier ranks it separately", func() {
			So(lb.Podium("AA")[0].TotalQuantity, ShouldEqual, 1)
			So(lb.Podium("BB")[0].TotalQuantity, ShouldEqual, 2)
			So(lb.CrewCount(), ShouldEqual, 2)
		})
	})
}

func TestBuild_LargeTotals(t *testing.T) {
	Convey("Given a crew member whose rows sum past int64", t, func() {
		rows := []model.SalesRecord{
			rec("AA", "C1", "Alice", math.MaxInt64),
			rec("AA", "C1", "Alice", 1),
			rec("AA", "C2", "Bob", 5),
		}

		Convey("Then the total saturates and keeps its rank", func() {
			entries := leaderboard.Build(rows).Entries("AA")
			So(entries, ShouldHaveLength, 2)
			So(entries[0].CrewID, ShouldEqual, "C1")
			So(entries[0].TotalQuantity, ShouldEqual, int64(math.MaxInt64))
			So(entries[1].CrewID, ShouldEqual, "C2")
			So(entries[1].TotalQuantity, ShouldEqual, 5)
		})
	})
}

func TestLeaderboard_ReturnsCopies(t *testing.T) {
	Convey("Given a built leaderboard", t, func() {
		lb := leaderboard.Build(crewRows("AA", 3))

		Convey("When a caller mutates returned slices", func() {
			entries := lb.Entries("AA")
			entries[0].TotalQuantity = 999
			carriers := lb.Carriers()
			carriers[0] = "ZZ"

			Convey("Then the leaderboard is unchanged", func() {
				So(lb.Entries("AA")[0].TotalQuantity, ShouldEqual, 3)
				So(lb.Carriers(), ShouldResemble, []string{"AA"})
			})
		})
	})
}
