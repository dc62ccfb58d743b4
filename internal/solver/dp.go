package solver

import (
	"context"
	"math"
	"math/bits"
	"time"

	"github.com/nexusfield/missionpack/internal/constraint"
	"github.com/nexusfield/missionpack/internal/manifest"
)

// solveDP runs the exact bounded dynamic program over the remaining pool
// and remaining budget. The weight dimension is discretized into buckets;
// volume, item count, and category maximums act as admissibility filters
// while states are extended. The table is a flat pre-sized array indexed by
// weight bucket with a uint64 selection mask per state, so memory is
// bounded deterministically and reconstruction needs no recursion.
//
// Item weights round up to whole buckets, so the real weight of any
// reconstructed selection never exceeds the budget.
//
// The pool must already be in canonical order. Returns done=false when the
// context deadline expires mid-table; the caller falls back to the greedy
// heuristic.
func solveDP(ctx context.Context, pool []Candidate, c constraint.Constraints, start constraint.Totals, buckets int) (selected []Candidate, done bool) {
	n := len(pool)
	if n == 0 {
		return nil, true
	}

	remWeight := c.MaxWeight - start.Weight
	remVolume := c.MaxVolume - start.Volume
	if remWeight < 0 || remVolume < 0 {
		return nil, true
	}
	remCount := -1 // unbounded
	if c.MaxItems > 0 {
		remCount = c.MaxItems - start.Count
		if remCount <= 0 {
			return nil, true
		}
	}

	width := buckets
	granularity := remWeight / float64(buckets)
	if remWeight == 0 {
		width = 0
		granularity = 1
	}

	itemBuckets := make([]int, n)
	for i, cand := range pool {
		if cand.Item.Weight <= 0 {
			continue
		}
		itemBuckets[i] = int(math.Ceil(cand.Item.Weight / granularity))
	}

	// Per-category pool masks for O(1) quota checks against a state mask.
	catMask := make(map[manifest.Category]uint64, len(c.CategoryMaximums))
	for i, cand := range pool {
		catMask[cand.Item.Category] |= 1 << uint(i)
	}
	remCatMax := make(map[manifest.Category]int, len(c.CategoryMaximums))
	for cat, maximum := range c.CategoryMaximums {
		remCatMax[cat] = maximum - start.PerCategory[cat]
	}

	reachable := make([]bool, width+1)
	utility := make([]float64, width+1)
	volume := make([]float64, width+1)
	count := make([]int, width+1)
	mask := make([]uint64, width+1)
	reachable[0] = true

	deadline, hasDeadline := ctx.Deadline()

	for i, cand := range pool {
		if hasDeadline && time.Now().After(deadline) {
			return nil, false
		}
		wb := itemBuckets[i]
		if wb > width {
			continue
		}
		bit := uint64(1) << uint(i)

		for w := width; w >= wb; w-- {
			prev := w - wb
			if !reachable[prev] {
				continue
			}
			if volume[prev]+cand.Item.Volume > remVolume {
				continue
			}
			if remCount >= 0 && count[prev]+1 > remCount {
				continue
			}
			if limit, bounded := remCatMax[cand.Item.Category]; bounded {
				used := bits.OnesCount64(mask[prev] & catMask[cand.Item.Category])
				if used+1 > limit {
					continue
				}
			}
			gain := utility[prev] + cand.Utility
			if !reachable[w] || gain > utility[w] {
				reachable[w] = true
				utility[w] = gain
				volume[w] = volume[prev] + cand.Item.Volume
				count[w] = count[prev] + 1
				mask[w] = mask[prev] | bit
			}
		}
	}

	// Best bucket not exceeding the budget; ties resolve to the lighter
	// bucket for determinism.
	best := 0
	for w := 1; w <= width; w++ {
		if reachable[w] && utility[w] > utility[best] {
			best = w
		}
	}

	chosen := mask[best]
	for i := range pool {
		if chosen&(1<<uint(i)) != 0 {
			selected = append(selected, pool[i])
		}
	}
	return selected, true
}
