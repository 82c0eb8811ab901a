package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/okian/crewboard/internal/domain/leaderboard"
)

// Column widths in mm; they add up to the A4 printable width of 190.
const (
	colRank  = 18.0
	colMedal = 24.0
	colID    = 38.0
	colName  = 70.0
	colTotal = 40.0
)

// medalColors are fill colours for podium rows, indexed by rank-1.
var medalColors = [3][3]int{ //nolint:gochecknoglobals // read-only palette
	{255, 215, 0},
	{192, 192, 192},
	{205, 127, 50},
}

// WritePDF renders doc as an A4 report with one section per carrier.
func WritePDF(w io.Writer, doc Document, title string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footer := fmt.Sprintf("Generated %s", doc.GeneratedAt.Format("2006-01-02 15:04 MST"))
		pdf.CellFormat(0, 10, tr(footer), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 14, tr("  "+title), "", 1, "L", true, 0, "")
	pdf.Ln(6)

	if doc.Empty {
		pdf.SetFont("Arial", "", 12)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.CellFormat(0, 10, "No data available", "", 1, "C", false, 0, "")
		return pdf.Output(w)
	}

	for _, view := range doc.Carriers {
		// keep a carrier heading together with at least its first rows
		if pdf.GetY() > 240 {
			pdf.AddPage()
		}

		pdf.SetFont("Arial", "B", 13)
		pdf.SetTextColor(0, 0, 0)
		pdf.Cell(0, 8, tr("Carrier "+view.Carrier))
		pdf.Ln(8)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(2)

		pdf.SetFont("Arial", "B", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.CellFormat(colRank, 7, "Rank", "B", 0, "L", false, 0, "")
		pdf.CellFormat(colMedal, 7, "Medal", "B", 0, "L", false, 0, "")
		pdf.CellFormat(colID, 7, "Crew ID", "B", 0, "L", false, 0, "")
		pdf.CellFormat(colName, 7, "Crew Name", "B", 0, "L", false, 0, "")
		pdf.CellFormat(colTotal, 7, "Bottles Sold", "B", 1, "R", false, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, entries := range [][]leaderboard.Entry{view.Podium, view.Others} {
			for _, e := range entries {
				fill := false
				if e.Rank >= 1 && e.Rank <= len(medalColors) {
					c := medalColors[e.Rank-1]
					pdf.SetFillColor(c[0], c[1], c[2])
					fill = true
				}
				pdf.CellFormat(colRank, 6, strconv.Itoa(e.Rank), "", 0, "L", fill, 0, "")
				pdf.CellFormat(colMedal, 6, Medal(e.Rank), "", 0, "L", fill, 0, "")
				pdf.CellFormat(colID, 6, tr(e.CrewID), "", 0, "L", fill, 0, "")
				pdf.CellFormat(colName, 6, tr(e.CrewName), "", 0, "L", fill, 0, "")
				pdf.CellFormat(colTotal, 6, Quantity(e.TotalQuantity), "", 1, "R", fill, 0, "")
			}
		}
		pdf.Ln(8)
	}

	return pdf.Output(w)
}
