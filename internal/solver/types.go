package solver

import (
	"github.com/nexusfield/missionpack/internal/manifest"
)

// Candidate is a scored item offered to the solver. Utility comes from the
// scoring layer and is treated as opaque here.
type Candidate struct {
	Item    manifest.Item
	Utility float64
}

// RejectionReason explains why an item was excluded from the selection.
type RejectionReason string

const (
	// ReasonCapacityExceeded: the item could not fit in the remaining
	// weight or volume budget.
	ReasonCapacityExceeded RejectionReason = "CAPACITY_EXCEEDED"
	// ReasonCategoryQuotaFull: the item's category maximum was already
	// reached.
	ReasonCategoryQuotaFull RejectionReason = "CATEGORY_QUOTA_FULL"
	// ReasonItemCountLimit: the maximum item count was reached.
	ReasonItemCountLimit RejectionReason = "ITEM_COUNT_LIMIT"
	// ReasonBelowUtilityThreshold: the heuristic path pruned the item
	// before consideration. Never emitted by the exact path.
	ReasonBelowUtilityThreshold RejectionReason = "BELOW_UTILITY_THRESHOLD"
)

// Rejection pairs an excluded candidate with its reason.
type Rejection struct {
	Candidate
	Reason RejectionReason
}

// Strategy names the budget-filling algorithm that produced a solution.
type Strategy string

const (
	StrategyExactDP Strategy = "exact_dp"
	StrategyGreedy  Strategy = "greedy"
)

const (
	defaultExactPoolLimit     = 40
	defaultWeightBuckets      = 2000
	defaultSwapBudget         = 64
	defaultHeuristicPoolLimit = 512

	// The DP selection mask is a uint64, so the exact path can never
	// track more than 64 pool items regardless of configuration.
	maxExactPool = 64
)

// Options tune the solver. Zero values select the documented defaults.
type Options struct {
	// ExactPoolLimit is the largest remaining pool the exact DP path
	// accepts; larger pools use the greedy heuristic. Capped at 64.
	ExactPoolLimit int
	// WeightBuckets is the number of discrete weight buckets in the DP
	// table.
	WeightBuckets int
	// SwapBudget bounds the number of improving pairwise swaps applied
	// by the local-search pass of the heuristic.
	SwapBudget int
	// HeuristicPoolLimit caps the pool considered by the greedy
	// heuristic; the canonical-order tail beyond it is pruned with
	// ReasonBelowUtilityThreshold.
	HeuristicPoolLimit int
}

// DefaultOptions returns the documented solver defaults.
func DefaultOptions() Options {
	return Options{
		ExactPoolLimit:     defaultExactPoolLimit,
		WeightBuckets:      defaultWeightBuckets,
		SwapBudget:         defaultSwapBudget,
		HeuristicPoolLimit: defaultHeuristicPoolLimit,
	}
}

func (o Options) withDefaults() Options {
	if o.ExactPoolLimit <= 0 {
		o.ExactPoolLimit = defaultExactPoolLimit
	}
	if o.ExactPoolLimit > maxExactPool {
		o.ExactPoolLimit = maxExactPool
	}
	if o.WeightBuckets <= 0 {
		o.WeightBuckets = defaultWeightBuckets
	}
	if o.SwapBudget <= 0 {
		o.SwapBudget = defaultSwapBudget
	}
	if o.HeuristicPoolLimit <= 0 {
		o.HeuristicPoolLimit = defaultHeuristicPoolLimit
	}
	return o
}

// Solution is the raw solver output consumed by the result assembler.
// Selected preserves insertion order: mandatory-coverage reservations
// first, then budget-fill picks.
type Solution struct {
	Selected         []Candidate
	Rejected         []Rejection
	UnmetCategories  []manifest.Category
	Strategy         Strategy
	DeadlineFallback bool
}
