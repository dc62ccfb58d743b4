// Package scoring derives a single utility value per candidate item from
// its semantic relevance and intrinsic attributes. Scoring is a pure
// function of the item and the weight configuration; it performs no I/O and
// holds no state.
package scoring

import (
	"fmt"
	"math"

	"github.com/nexusfield/missionpack/internal/manifest"
)

// Weights configures how relevance and intrinsic attributes combine into a
// utility value. Weights must be non-negative with at least one positive
// entry; they are normalized by their sum, so only ratios matter.
type Weights struct {
	Relevance       float64 `yaml:"relevance"`
	Thermal         float64 `yaml:"thermal"`
	Durability      float64 `yaml:"durability"`
	Compressibility float64 `yaml:"compressibility"`
}

// DefaultWeights returns the documented default blend: relevance dominates,
// intrinsic attributes refine.
func DefaultWeights() Weights {
	return Weights{
		Relevance:       0.55,
		Thermal:         0.15,
		Durability:      0.20,
		Compressibility: 0.10,
	}
}

// Validate checks the weight configuration.
func (w Weights) Validate() error {
	for _, entry := range []struct {
		name  string
		value float64
	}{
		{"relevance", w.Relevance},
		{"thermal", w.Thermal},
		{"durability", w.Durability},
		{"compressibility", w.Compressibility},
	} {
		if math.IsNaN(entry.value) || math.IsInf(entry.value, 0) || entry.value < 0 {
			return fmt.Errorf("scoring weight %s must be a non-negative finite number, got %v", entry.name, entry.value)
		}
	}
	if w.sum() <= 0 {
		return fmt.Errorf("scoring weights must have a positive sum")
	}
	return nil
}

func (w Weights) sum() float64 {
	return w.Relevance + w.Thermal + w.Durability + w.Compressibility
}

// Score computes the utility of an item in [0,1]. The result is a weighted
// combination of the semantic relevance score and the intrinsic attributes
// normalized to their scale. Holding attributes fixed, utility is
// monotonically non-decreasing in relevance.
func Score(item manifest.Item, w Weights) float64 {
	sum := w.sum()
	if sum <= 0 {
		return 0
	}

	utility := w.Relevance*item.Relevance +
		w.Thermal*(item.Attributes.ThermalRating/manifest.AttributeScale) +
		w.Durability*(item.Attributes.Durability/manifest.AttributeScale) +
		w.Compressibility*(item.Attributes.Compressibility/manifest.AttributeScale)
	utility /= sum

	// Inputs are validated to their ranges, so this only trims float
	// rounding at the boundaries.
	return math.Min(1, math.Max(0, utility))
}
