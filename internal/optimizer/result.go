package optimizer

import (
	"sort"
	"time"

	"github.com/nexusfield/missionpack/internal/constraint"
	"github.com/nexusfield/missionpack/internal/manifest"
	"github.com/nexusfield/missionpack/internal/solver"
)

// SelectedItem is one packed item with its marginal utility contribution.
type SelectedItem struct {
	ItemID   string            `json:"item_id"`
	Name     string            `json:"name"`
	Category manifest.Category `json:"category"`
	Weight   float64           `json:"weight"`
	Volume   float64           `json:"volume"`
	Utility  float64           `json:"utility"`
}

// RejectedItem is one excluded item with its single rejection reason.
type RejectedItem struct {
	ItemID   string                 `json:"item_id"`
	Name     string                 `json:"name"`
	Category manifest.Category      `json:"category"`
	Weight   float64                `json:"weight"`
	Volume   float64                `json:"volume"`
	Utility  float64                `json:"utility"`
	Reason   solver.RejectionReason `json:"reason"`
}

// Result is the structured packing plan produced for downstream narration.
// Selected items are ordered by marginal utility, most valuable first;
// rejected items are grouped by reason. Downstream consumers never need to
// re-derive any packing arithmetic.
type Result struct {
	Selected          []SelectedItem      `json:"selected_items"`
	Rejected          []RejectedItem      `json:"rejected_items"`
	TotalWeight       float64             `json:"total_weight"`
	TotalVolume       float64             `json:"total_volume"`
	TotalUtility      float64             `json:"total_utility"`
	WeightUtilization float64             `json:"weight_utilization"`
	VolumeUtilization float64             `json:"volume_utilization"`
	Feasible          bool                `json:"feasible"`
	UnmetCategories   []manifest.Category `json:"unmet_categories,omitempty"`
	Preset            string              `json:"preset,omitempty"`
	Strategy          solver.Strategy     `json:"strategy"`
	DeadlineFallback  bool                `json:"deadline_fallback,omitempty"`
	ElapsedMs         int64               `json:"elapsed_ms"`
}

// rejectionGroupOrder fixes the order rejection groups appear in.
var rejectionGroupOrder = []solver.RejectionReason{
	solver.ReasonCapacityExceeded,
	solver.ReasonCategoryQuotaFull,
	solver.ReasonItemCountLimit,
	solver.ReasonBelowUtilityThreshold,
}

// assemble converts a raw solver solution into the caller-facing result.
func assemble(sol solver.Solution, c constraint.Constraints, elapsed time.Duration) Result {
	res := Result{
		Selected: make([]SelectedItem, 0, len(sol.Selected)),
		Rejected: make([]RejectedItem, 0, len(sol.Rejected)),
		Preset:   c.PresetName,
		Strategy: sol.Strategy,

		DeadlineFallback: sol.DeadlineFallback,
		ElapsedMs:        elapsed.Milliseconds(),
	}

	items := make([]manifest.Item, 0, len(sol.Selected))
	for _, cand := range sol.Selected {
		items = append(items, cand.Item)
		res.TotalWeight += cand.Item.Weight
		res.TotalVolume += cand.Item.Volume
		res.TotalUtility += cand.Utility
		res.Selected = append(res.Selected, SelectedItem{
			ItemID:   cand.Item.ID,
			Name:     cand.Item.Name,
			Category: cand.Item.Category,
			Weight:   cand.Item.Weight,
			Volume:   cand.Item.Volume,
			Utility:  cand.Utility,
		})
	}

	// Most valuable first; the model is additive, so an item's marginal
	// contribution is its utility. Stable sort keeps solver insertion
	// order on ties.
	sort.SliceStable(res.Selected, func(i, j int) bool {
		return res.Selected[i].Utility > res.Selected[j].Utility
	})

	// Group rejections by reason, preserving the solver's canonical
	// order inside each group.
	for _, reason := range rejectionGroupOrder {
		for _, rej := range sol.Rejected {
			if rej.Reason != reason {
				continue
			}
			res.Rejected = append(res.Rejected, RejectedItem{
				ItemID:   rej.Item.ID,
				Name:     rej.Item.Name,
				Category: rej.Item.Category,
				Weight:   rej.Item.Weight,
				Volume:   rej.Item.Volume,
				Utility:  rej.Utility,
				Reason:   rej.Reason,
			})
		}
	}

	res.WeightUtilization = res.TotalWeight / c.MaxWeight
	res.VolumeUtilization = res.TotalVolume / c.MaxVolume

	// Feasibility of the final plan is judged by the same checker the
	// solver searched with. Capacity bounds hold by construction; only
	// coverage and category minimums can remain unmet.
	res.UnmetCategories = unmetRequired(items, c)
	_, violations := constraint.Check(items, c)
	res.Feasible = true
	for _, v := range violations {
		if v == constraint.ViolationRequiredCategoryMissing || v == constraint.ViolationCategoryMinUnmet {
			res.Feasible = false
		}
	}
	return res
}

func unmetRequired(items []manifest.Item, c constraint.Constraints) []manifest.Category {
	present := make(map[manifest.Category]struct{}, len(items))
	for _, it := range items {
		present[it.Category] = struct{}{}
	}
	var unmet []manifest.Category
	for _, cat := range c.SortedRequiredCategories() {
		if _, ok := present[cat]; !ok {
			unmet = append(unmet, cat)
		}
	}
	return unmet
}
