package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/okian/crewboard/internal/domain/leaderboard"
)

var csvHeader = []string{"carrier", "tier", "rank", "crew_id", "crew_name", "total_quantity"} //nolint:gochecknoglobals // read-only header

// WriteCSV writes one row per exposed entry. An empty leaderboard produces the header only.
func WriteCSV(w io.Writer, doc Document) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, view := range doc.Carriers {
		for _, entries := range [][]leaderboard.Entry{view.Podium, view.Others} {
			for _, e := range entries {
				record := []string{
					view.Carrier,
					leaderboard.TierForRank(e.Rank).String(),
					strconv.Itoa(e.Rank),
					e.CrewID,
					e.CrewName,
					strconv.FormatInt(e.TotalQuantity, 10),
				}
				if err := writer.Write(record); err != nil {
					return err
				}
			}
		}
	}
	writer.Flush()
	return writer.Error()
}
