package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/okian/crewboard/internal/adapters/export"
	"github.com/okian/crewboard/internal/domain/leaderboard"
	"github.com/okian/crewboard/internal/domain/snapshot"
)

// Medal colours for ranks 1..3.
var (
	gold   = color.New(color.FgYellow, color.Bold).SprintFunc()
	silver = color.New(color.FgWhite, color.Bold).SprintFunc()
	bronze = color.New(color.FgRed).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

// retryHint is shown under load failures; refresh is the only way out of LOAD_FAILED.
const retryHint = "Run `crewboard refresh` to retry once the source is fixed."

// renderer writes leaderboard views as terminal tables.
type renderer struct {
	out io.Writer
}

func newRenderer(out io.Writer) *renderer {
	return &renderer{out: out}
}

// Board renders every carrier, or the empty notice.
func (r *renderer) Board(lb *leaderboard.Leaderboard) {
	if lb.IsEmpty() {
		r.Empty()
		return
	}
	for _, view := range lb.View() {
		r.Carrier(view)
	}
}

// Carrier renders one carrier's podium and runners-up.
func (r *renderer) Carrier(view leaderboard.CarrierView) {
	fmt.Fprint(r.out, pterm.DefaultSection.Sprint("Carrier "+view.Carrier))

	data := pterm.TableData{{"Rank", "Medal", "Crew", "ID", "Bottles Sold"}}
	for _, e := range view.Podium {
		data = append(data, []string{
			strconv.Itoa(e.Rank),
			medal(e.Rank),
			e.CrewName,
			faint(e.CrewID),
			export.Quantity(e.TotalQuantity),
		})
	}
	for _, e := range view.Others {
		data = append(data, []string{
			strconv.Itoa(e.Rank),
			"",
			e.CrewName,
			faint(e.CrewID),
			export.Quantity(e.TotalQuantity),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		fmt.Fprintln(r.out, pterm.Error.Sprint(err.Error()))
		return
	}
	fmt.Fprintln(r.out, table)
}

// Empty renders the notice for a successfully loaded but empty snapshot.
func (r *renderer) Empty() {
	fmt.Fprintln(r.out, pterm.Info.Sprint("No data available"))
}

// Error renders a failure. Load errors show their kind and a retry hint.
func (r *renderer) Error(err error) {
	var le *snapshot.LoadError
	if errors.As(err, &le) {
		fmt.Fprintln(r.out, pterm.Error.Sprint(fmt.Sprintf("[%s] %s", le.Kind, le.Message)))
		fmt.Fprintln(r.out, pterm.Info.Sprint(retryHint))
		return
	}
	fmt.Fprintln(r.out, pterm.Error.Sprint(err.Error()))
}

// Success renders a one-line confirmation.
func (r *renderer) Success(msg string) {
	fmt.Fprintln(r.out, pterm.Success.Sprint(msg))
}

func medal(rank int) string {
	name := export.Medal(rank)
	switch rank {
	case 1:
		return gold(name)
	case 2:
		return silver(name)
	case 3:
		return bronze(name)
	default:
		return name
	}
}
