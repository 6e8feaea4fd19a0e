package resolver

import (
	"log"

	"github.com/henrye1/credit-paper/pkg/resolver/formula"
	"github.com/henrye1/credit-paper/pkg/resolver/models"
	"github.com/henrye1/credit-paper/pkg/resolver/store"
)

// Stats summarizes one resolution run.
type Stats struct {
	// FormulaCells is the number of formula cells scheduled for resolution.
	FormulaCells int
	// Resolved is the number of formula cells that obtained a value.
	Resolved int
	// Unresolved is the number left blank after the pass budget.
	Unresolved int
	// Passes is the number of passes actually run.
	Passes int
}

// workItem pairs an outstanding formula cell with its parsed shape, so the
// shape is recognized once rather than on every pass.
type workItem struct {
	cell models.Cell
	form formula.Formula
}

// seed populates a fresh store from the snapshot and returns the outstanding
// formula cells in snapshot order (sheet order, then row-major). Literal
// cells are stored directly; a formula cell carrying a cached value is
// seeded with that value and never scheduled, since the cache reflects the
// workbook's last calculated state.
func seed(wb *models.Workbook, st *store.Store) []workItem {
	var outstanding []workItem
	for _, sh := range wb.Sheets {
		for _, c := range sh.Cells {
			if !c.IsFormula() {
				if c.Value != "" {
					st.Set(c.Sheet, c.Coord, c.Value)
				}
				continue
			}
			if c.Value != "" {
				st.Set(c.Sheet, c.Coord, c.Value)
				continue
			}
			outstanding = append(outstanding, workItem{cell: c, form: formula.Parse(c.Formula)})
		}
	}
	return outstanding
}

// runPasses drives evaluation to a fixed point: each pass walks a snapshot
// of the outstanding list in stable order, writes successful results into
// the store immediately (later cells in the same pass see them), and drops
// resolved cells from the list. The loop ends when a pass resolves nothing
// or the budget is spent; both are normal termination.
func runPasses(outstanding []workItem, st *store.Store, maxPasses int, verbose bool) Stats {
	stats := Stats{FormulaCells: len(outstanding)}

	for pass := 1; pass <= maxPasses && len(outstanding) > 0; pass++ {
		stats.Passes = pass
		remaining := outstanding[:0:0]
		resolved := 0
		for _, item := range outstanding {
			v, ok := item.form.Eval(item.cell.Sheet, st)
			if !ok {
				remaining = append(remaining, item)
				continue
			}
			st.Set(item.cell.Sheet, item.cell.Coord, v)
			resolved++
		}
		if verbose {
			log.Printf("pass %d: resolved %d of %d formula cells", pass, resolved, len(outstanding))
		}
		outstanding = remaining
		if resolved == 0 {
			break
		}
	}

	stats.Unresolved = len(outstanding)
	stats.Resolved = stats.FormulaCells - stats.Unresolved
	return stats
}
