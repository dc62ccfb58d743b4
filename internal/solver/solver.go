// Package solver is the combinatorial core of the mission-packing
// optimizer. It selects the utility-maximizing feasible subset of scored
// candidates in two phases: mandatory category coverage, then budget-fill
// over the remaining pool using either an exact bounded dynamic program or
// a greedy heuristic with local search, depending on pool size.
//
// The solve is a pure function of its inputs: no state survives between
// calls, and identical inputs always produce identical solutions.
package solver

import (
	"context"
	"time"

	"github.com/nexusfield/missionpack/internal/constraint"
)

// Solve computes the packing for the given scored candidates under the
// given constraints. Candidates must be pre-validated; Solve does not
// mutate them. An exceeded context deadline downgrades the exact path to
// the greedy heuristic rather than blocking; Solve itself never fails.
func Solve(ctx context.Context, candidates []Candidate, c constraint.Constraints, opts Options) Solution {
	opts = opts.withDefaults()

	ordered := append([]Candidate(nil), candidates...)
	sortCanonical(ordered)

	cov := reserveCoverage(ordered, c)

	pool := make([]Candidate, 0, len(ordered))
	for _, cand := range ordered {
		if _, reserved := cov.taken[cand.Item.ID]; !reserved {
			pool = append(pool, cand)
		}
	}

	solution := Solution{
		UnmetCategories: cov.unmet,
	}

	exactEligible := len(pool) <= opts.ExactPoolLimit
	deadlineExpired := false
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		deadlineExpired = true
	}

	var picked []Candidate
	var pruned []Candidate
	switch {
	case exactEligible && !deadlineExpired:
		exact, done := solveDP(ctx, pool, c, cov.totals, opts.WeightBuckets)
		if done {
			picked = exact
			solution.Strategy = StrategyExactDP
			break
		}
		// Deadline hit mid-table: abandon the exact path.
		fallthrough
	default:
		outcome := solveGreedy(pool, c, cov.totals, opts)
		picked = outcome.selected
		pruned = outcome.pruned
		solution.Strategy = StrategyGreedy
		solution.DeadlineFallback = exactEligible
	}

	solution.Selected = append(append([]Candidate(nil), cov.reserved...), picked...)

	solution.Rejected = buildRejections(pool, picked, pruned, c, finalTotals(solution.Selected))
	return solution
}

func finalTotals(selected []Candidate) constraint.Totals {
	totals := constraint.NewTotals()
	for _, cand := range selected {
		totals.Add(cand.Item)
	}
	return totals
}

// buildRejections assigns exactly one reason to every excluded pool item,
// by first applicable rule relative to the final selection: capacity, then
// category quota, then item count. Heuristic-pruned items keep their
// below-threshold reason.
func buildRejections(pool, picked, pruned []Candidate, c constraint.Constraints, totals constraint.Totals) []Rejection {
	selectedIDs := make(map[string]struct{}, len(picked))
	for _, cand := range picked {
		selectedIDs[cand.Item.ID] = struct{}{}
	}
	prunedIDs := make(map[string]struct{}, len(pruned))
	for _, cand := range pruned {
		prunedIDs[cand.Item.ID] = struct{}{}
	}

	var rejections []Rejection
	for _, cand := range pool {
		if _, ok := selectedIDs[cand.Item.ID]; ok {
			continue
		}
		reason := ReasonCapacityExceeded
		if _, ok := prunedIDs[cand.Item.ID]; ok {
			reason = ReasonBelowUtilityThreshold
		} else if admitted, violation := c.Admit(totals, cand.Item); !admitted {
			reason = reasonForViolation(violation)
		}
		rejections = append(rejections, Rejection{Candidate: cand, Reason: reason})
	}
	return rejections
}

// reasonForViolation maps an admission violation onto the rejection-reason
// taxonomy. The admission rule order already matches the first-applicable
// policy. The exact path can also exclude an item that nominally still
// admits, through conservative weight rounding; that case stays
// CAPACITY_EXCEEDED.
func reasonForViolation(v constraint.Violation) RejectionReason {
	switch v {
	case constraint.ViolationWeightExceeded, constraint.ViolationVolumeExceeded:
		return ReasonCapacityExceeded
	case constraint.ViolationCategoryMaxExceeded:
		return ReasonCategoryQuotaFull
	case constraint.ViolationItemCountExceeded:
		return ReasonItemCountLimit
	default:
		return ReasonCapacityExceeded
	}
}
