package solver

import (
	"github.com/nexusfield/missionpack/internal/constraint"
)

// greedyOutcome carries the heuristic's picks plus the canonical-order tail
// it pruned before consideration.
type greedyOutcome struct {
	selected []Candidate
	pruned   []Candidate
}

// solveGreedy fills the remaining budget heuristically: canonical-order
// insertion skipping infeasible items, followed by a bounded local-search
// pass that swaps a selected item for an unselected one whenever the swap
// raises total utility and stays feasible. A final fill pass picks up
// anything the swaps made room for, so no admissible item is ever left out.
//
// The pool must already be in canonical order.
func solveGreedy(pool []Candidate, c constraint.Constraints, start constraint.Totals, opts Options) greedyOutcome {
	var out greedyOutcome
	if len(pool) > opts.HeuristicPoolLimit {
		out.pruned = append(out.pruned, pool[opts.HeuristicPoolLimit:]...)
		pool = pool[:opts.HeuristicPoolLimit]
	}

	totals := start.Clone()
	var unselected []Candidate
	for _, cand := range pool {
		if ok, _ := c.Admit(totals, cand.Item); ok {
			totals.Add(cand.Item)
			out.selected = append(out.selected, cand)
		} else {
			unselected = append(unselected, cand)
		}
	}

	for swaps := 0; swaps < opts.SwapBudget; swaps++ {
		if !applyBestSwap(&out.selected, &unselected, &totals, c) {
			break
		}
	}

	// Fill pass: swaps can free capacity for items skipped earlier.
	for _, cand := range unselected {
		if ok, _ := c.Admit(totals, cand.Item); ok {
			totals.Add(cand.Item)
			out.selected = append(out.selected, cand)
		}
	}

	return out
}

// applyBestSwap applies the first utility-improving feasible pairwise swap
// in deterministic scan order and reports whether one was found.
func applyBestSwap(selected, unselected *[]Candidate, totals *constraint.Totals, c constraint.Constraints) bool {
	for si, sel := range *selected {
		for ui, cand := range *unselected {
			if cand.Utility <= sel.Utility {
				continue
			}
			totals.Remove(sel.Item)
			ok, _ := c.Admit(*totals, cand.Item)
			if !ok {
				totals.Add(sel.Item)
				continue
			}
			totals.Add(cand.Item)
			(*selected)[si] = cand
			(*unselected)[ui] = sel
			sortCanonical(*unselected)
			return true
		}
	}
	return false
}
