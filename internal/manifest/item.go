package manifest

import (
	"fmt"
	"math"
)

// AttributeScale is the upper bound of the intrinsic attribute scales.
// Attributes are scored 0..AttributeScale and normalized against it when
// combined into a utility value.
const AttributeScale = 10.0

// Attributes are the intrinsic utility inputs of an item, each on a
// 0..AttributeScale scale.
type Attributes struct {
	ThermalRating   float64 `yaml:"thermal_rating" json:"thermal_rating"`
	Durability      float64 `yaml:"durability" json:"durability"`
	Compressibility float64 `yaml:"compressibility" json:"compressibility"`
}

// Item is a candidate physical item offered to the optimizer. Items are
// value types owned by the caller; the optimizer never mutates them.
//
// Weight is in kilograms, Volume in liters. Relevance is the pre-computed
// semantic relevance score from upstream retrieval, in [0,1].
type Item struct {
	ID         string     `yaml:"item_id" json:"item_id"`
	Name       string     `yaml:"name" json:"name"`
	Category   Category   `yaml:"category" json:"category"`
	Weight     float64    `yaml:"weight" json:"weight"`
	Volume     float64    `yaml:"volume" json:"volume"`
	Relevance  float64    `yaml:"relevance" json:"relevance"`
	Attributes Attributes `yaml:"attributes" json:"attributes"`
}

// Validate checks a single item against the input contract. It fails fast
// on the first offending field rather than clamping silently.
func (it Item) Validate() error {
	if it.ID == "" {
		return fmt.Errorf("%w: missing item_id", ErrInvalidItem)
	}
	if !it.Category.Known() {
		return fmt.Errorf("%w: item %q has unknown category %q", ErrInvalidItem, it.ID, it.Category)
	}
	if !isFiniteNonNegative(it.Weight) {
		return fmt.Errorf("%w: item %q weight %v must be a non-negative finite number", ErrInvalidItem, it.ID, it.Weight)
	}
	if !isFiniteNonNegative(it.Volume) {
		return fmt.Errorf("%w: item %q volume %v must be a non-negative finite number", ErrInvalidItem, it.ID, it.Volume)
	}
	if math.IsNaN(it.Relevance) || it.Relevance < 0 || it.Relevance > 1 {
		return fmt.Errorf("%w: item %q relevance %v must be in [0,1]", ErrInvalidItem, it.ID, it.Relevance)
	}
	for _, attr := range []struct {
		name  string
		value float64
	}{
		{"thermal_rating", it.Attributes.ThermalRating},
		{"durability", it.Attributes.Durability},
		{"compressibility", it.Attributes.Compressibility},
	} {
		if math.IsNaN(attr.value) || attr.value < 0 || attr.value > AttributeScale {
			return fmt.Errorf("%w: item %q %s %v must be in [0,%v]", ErrInvalidItem, it.ID, attr.name, attr.value, AttributeScale)
		}
	}
	return nil
}

// ValidateAll validates every item and rejects duplicate identifiers, which
// would break the selected/rejected partition invariant.
func ValidateAll(items []Item) error {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("%w: duplicate item_id %q", ErrInvalidItem, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}

func isFiniteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
