package optimizer

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nexusfield/missionpack/internal/constraint"
	"github.com/nexusfield/missionpack/internal/manifest"
	"github.com/nexusfield/missionpack/internal/metrics"
	"github.com/nexusfield/missionpack/internal/scoring"
	"github.com/nexusfield/missionpack/internal/solver"
)

func testItem(id string, cat manifest.Category, weight, volume, relevance float64) manifest.Item {
	return manifest.Item{
		ID:        id,
		Name:      id,
		Category:  cat,
		Weight:    weight,
		Volume:    volume,
		Relevance: relevance,
	}
}

func newTestOptimizer(opts ...Option) *Optimizer {
	return New(constraint.NewRegistry(), opts...)
}

func TestOptimizeExplicitConstraints(t *testing.T) {
	t.Parallel()

	items := []manifest.Item{
		testItem("kit", manifest.CategoryMedical, 2, 1, 0.9),
		testItem("tarp", manifest.CategoryShelter, 5, 3, 0.7),
		testItem("bar", manifest.CategoryFood, 1, 0.5, 0.4),
	}
	req := Request{
		Items: items,
		Constraints: &constraint.Constraints{
			MaxWeight:          6,
			MaxVolume:          4,
			RequiredCategories: []manifest.Category{manifest.CategoryMedical},
		},
	}

	result, err := newTestOptimizer().Optimize(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, result.Selected, 2)
	require.Equal(t, "kit", result.Selected[0].ItemID, "selected items ordered by utility, best first")
	require.Equal(t, "bar", result.Selected[1].ItemID)

	require.Len(t, result.Rejected, 1)
	require.Equal(t, "tarp", result.Rejected[0].ItemID)
	require.Equal(t, solver.ReasonCapacityExceeded, result.Rejected[0].Reason)

	require.True(t, result.Feasible)
	require.Empty(t, result.UnmetCategories)
	require.Equal(t, solver.StrategyExactDP, result.Strategy)
	require.Empty(t, result.Preset)

	require.InDelta(t, 3.0, result.TotalWeight, 1e-9)
	require.InDelta(t, 1.5, result.TotalVolume, 1e-9)
	require.InDelta(t, 0.5, result.WeightUtilization, 1e-9)
	require.InDelta(t, 0.375, result.VolumeUtilization, 1e-9)
	require.GreaterOrEqual(t, result.ElapsedMs, int64(0))
}

func TestOptimizePresetCarriedIntoResult(t *testing.T) {
	t.Parallel()

	req := Request{
		Items: []manifest.Item{
			testItem("kit", manifest.CategoryMedical, 1, 1, 0.9),
			testItem("bottle", manifest.CategoryWater, 0.8, 1, 0.8),
			testItem("multitool", manifest.CategoryTools, 0.3, 0.2, 0.6),
		},
		Preset: constraint.Preset24hRecon,
	}

	result, err := newTestOptimizer().Optimize(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, constraint.Preset24hRecon, result.Preset)
	require.True(t, result.Feasible)
	require.Len(t, result.Selected, 3)
}

func TestOptimizePresetWithOverrides(t *testing.T) {
	t.Parallel()

	maxItems := 1
	req := Request{
		Items: []manifest.Item{
			testItem("kit", manifest.CategoryMedical, 1, 1, 0.9),
			testItem("bottle", manifest.CategoryWater, 0.8, 1, 0.8),
		},
		Preset:    constraint.PresetUltralightDayHike,
		Overrides: &constraint.Overrides{MaxItems: &maxItems},
	}

	// Coverage reserves the required water item; the override leaves no
	// room for anything else.
	result, err := newTestOptimizer().Optimize(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Selected, 1)
	require.Equal(t, "bottle", result.Selected[0].ItemID)
	require.Equal(t, "kit", result.Rejected[0].ItemID)
	require.Equal(t, solver.ReasonItemCountLimit, result.Rejected[0].Reason)
}

func TestOptimizeResolvesByDuration(t *testing.T) {
	t.Parallel()

	req := Request{
		Items: []manifest.Item{
			testItem("kit", manifest.CategoryMedical, 1, 1, 0.9),
			testItem("bottle", manifest.CategoryWater, 0.8, 1, 0.8),
		},
		DurationHours: 30,
	}

	result, err := newTestOptimizer().Optimize(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, constraint.Preset48hColdWeather, result.Preset)
}

func TestOptimizeErrors(t *testing.T) {
	t.Parallel()

	valid := []manifest.Item{testItem("kit", manifest.CategoryMedical, 1, 1, 0.9)}

	t.Run("UnknownPreset", func(t *testing.T) {
		_, err := newTestOptimizer().Optimize(context.Background(), Request{Items: valid, Preset: "nope"})
		require.ErrorIs(t, err, constraint.ErrUnknownPreset)
	})

	t.Run("InvalidItem", func(t *testing.T) {
		bad := []manifest.Item{testItem("kit", manifest.CategoryMedical, -1, 1, 0.9)}
		_, err := newTestOptimizer().Optimize(context.Background(), Request{Items: bad, Preset: constraint.Preset24hRecon})
		require.ErrorIs(t, err, manifest.ErrInvalidItem)
	})

	t.Run("NoConstraintSource", func(t *testing.T) {
		_, err := newTestOptimizer().Optimize(context.Background(), Request{Items: valid})
		require.ErrorIs(t, err, constraint.ErrInvalidConstraint)
	})

	t.Run("InvalidExplicitConstraints", func(t *testing.T) {
		_, err := newTestOptimizer().Optimize(context.Background(), Request{
			Items:       valid,
			Constraints: &constraint.Constraints{MaxWeight: -1, MaxVolume: 1},
		})
		require.ErrorIs(t, err, constraint.ErrInvalidConstraint)
	})

	t.Run("InvalidRequestWeights", func(t *testing.T) {
		_, err := newTestOptimizer().Optimize(context.Background(), Request{
			Items:   valid,
			Preset:  constraint.Preset24hRecon,
			Weights: &scoring.Weights{},
		})
		require.Error(t, err)
	})
}

func TestOptimizeInfeasibleBestEffort(t *testing.T) {
	t.Parallel()

	// No medical candidate exists, so the required category cannot be
	// covered; the plan is still produced.
	req := Request{
		Items: []manifest.Item{
			testItem("bottle", manifest.CategoryWater, 1, 1, 0.8),
			testItem("bar", manifest.CategoryFood, 1, 1, 0.5),
		},
		Constraints: &constraint.Constraints{
			MaxWeight:          10,
			MaxVolume:          10,
			RequiredCategories: []manifest.Category{manifest.CategoryMedical},
		},
	}

	result, err := newTestOptimizer().Optimize(context.Background(), req)
	require.NoError(t, err)
	require.False(t, result.Feasible)
	require.Equal(t, []manifest.Category{manifest.CategoryMedical}, result.UnmetCategories)
	require.Len(t, result.Selected, 2)
}

func TestOptimizeRejectionGroupOrder(t *testing.T) {
	t.Parallel()

	// One capacity rejection and two quota rejections; capacity groups
	// first regardless of item order.
	req := Request{
		Items: []manifest.Item{
			testItem("knife", manifest.CategoryTools, 1, 1, 0.9),
			testItem("saw", manifest.CategoryTools, 1, 1, 0.8),
			testItem("anvil", manifest.CategoryTools, 50, 1, 0.95),
			testItem("bar", manifest.CategoryFood, 1, 1, 0.4),
		},
		Constraints: &constraint.Constraints{
			MaxWeight:        10,
			MaxVolume:        10,
			CategoryMaximums: map[manifest.Category]int{manifest.CategoryTools: 1},
		},
	}

	result, err := newTestOptimizer().Optimize(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Rejected, 2)
	require.Equal(t, solver.ReasonCapacityExceeded, result.Rejected[0].Reason)
	require.Equal(t, "anvil", result.Rejected[0].ItemID)
	require.Equal(t, solver.ReasonCategoryQuotaFull, result.Rejected[1].Reason)
	require.Equal(t, "saw", result.Rejected[1].ItemID)
}

func TestOptimizePerRequestWeights(t *testing.T) {
	t.Parallel()

	// With relevance-only weights the second item wins; with
	// durability-only weights the first one does.
	items := []manifest.Item{
		{
			ID: "rugged", Name: "rugged", Category: manifest.CategoryTools,
			Weight: 1, Volume: 1, Relevance: 0.2,
			Attributes: manifest.Attributes{Durability: 10},
		},
		{
			ID: "relevant", Name: "relevant", Category: manifest.CategoryTools,
			Weight: 1, Volume: 1, Relevance: 0.9,
		},
	}
	c := &constraint.Constraints{MaxWeight: 1, MaxVolume: 10}

	opt := newTestOptimizer()

	byRelevance, err := opt.Optimize(context.Background(), Request{
		Items: items, Constraints: c, Weights: &scoring.Weights{Relevance: 1},
	})
	require.NoError(t, err)
	require.Equal(t, "relevant", byRelevance.Selected[0].ItemID)

	byDurability, err := opt.Optimize(context.Background(), Request{
		Items: items, Constraints: c, Weights: &scoring.Weights{Durability: 1},
	})
	require.NoError(t, err)
	require.Equal(t, "rugged", byDurability.Selected[0].ItemID)
}

func TestOptimizeRecordsMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	opt := newTestOptimizer(
		WithLogger(zap.NewNop()),
		WithMetrics(metrics.New(reg)),
	)

	_, err := opt.Optimize(context.Background(), Request{
		Items: []manifest.Item{
			testItem("bottle", manifest.CategoryWater, 1, 1, 0.8),
		},
		Constraints: &constraint.Constraints{
			MaxWeight:          10,
			MaxVolume:          10,
			RequiredCategories: []manifest.Category{manifest.CategoryMedical},
		},
	})
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() != nil {
				byName[mf.GetName()] += m.GetCounter().GetValue()
			}
		}
	}
	require.Equal(t, 1.0, byName["missionpack_solves_total"])
	require.Equal(t, 1.0, byName["missionpack_infeasible_results_total"])
}

func TestOptimizeEmptyManifest(t *testing.T) {
	t.Parallel()

	result, err := newTestOptimizer().Optimize(context.Background(), Request{
		Constraints: &constraint.Constraints{MaxWeight: 5, MaxVolume: 5},
	})
	require.NoError(t, err)
	require.Empty(t, result.Selected)
	require.Empty(t, result.Rejected)
	require.True(t, result.Feasible)
	require.Zero(t, result.TotalUtility)
}
