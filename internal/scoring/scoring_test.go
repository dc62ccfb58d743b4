package scoring

import (
	"testing"

	"github.com/nexusfield/missionpack/internal/manifest"
)

func item(relevance, thermal, durability, compressibility float64) manifest.Item {
	return manifest.Item{
		ID:        "itm",
		Category:  manifest.CategoryClothing,
		Weight:    1,
		Volume:    1,
		Relevance: relevance,
		Attributes: manifest.Attributes{
			ThermalRating:   thermal,
			Durability:      durability,
			Compressibility: compressibility,
		},
	}
}

func TestDefaultWeightsValid(t *testing.T) {
	t.Parallel()

	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights must validate: %v", err)
	}
}

func TestWeightsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{name: "Defaults", weights: DefaultWeights()},
		{name: "SingleComponent", weights: Weights{Relevance: 1}},
		{name: "Unnormalized", weights: Weights{Relevance: 3, Durability: 1}},
		{name: "AllZero", weights: Weights{}, wantErr: true},
		{name: "Negative", weights: Weights{Relevance: -1, Durability: 2}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.weights.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestScoreRange(t *testing.T) {
	t.Parallel()

	extremes := []manifest.Item{
		item(0, 0, 0, 0),
		item(1, 10, 10, 10),
		item(0.5, 3, 7, 2),
	}
	for _, it := range extremes {
		got := Score(it, DefaultWeights())
		if got < 0 || got > 1 {
			t.Fatalf("utility %v out of [0,1] for item %+v", got, it)
		}
	}

	if got := Score(item(1, 10, 10, 10), DefaultWeights()); got != 1 {
		t.Fatalf("maximal item must score 1, got %v", got)
	}
	if got := Score(item(0, 0, 0, 0), DefaultWeights()); got != 0 {
		t.Fatalf("minimal item must score 0, got %v", got)
	}
}

func TestScoreMonotonicInRelevance(t *testing.T) {
	t.Parallel()

	weights := DefaultWeights()
	prev := -1.0
	for relevance := 0.0; relevance <= 1.0; relevance += 0.05 {
		got := Score(item(relevance, 4, 6, 3), weights)
		if got < prev {
			t.Fatalf("utility decreased from %v to %v as relevance rose to %v", prev, got, relevance)
		}
		prev = got
	}
}

func TestScoreNormalizesWeights(t *testing.T) {
	t.Parallel()

	it := item(0.6, 5, 5, 5)
	base := Score(it, Weights{Relevance: 1, Thermal: 1, Durability: 1, Compressibility: 1})
	scaled := Score(it, Weights{Relevance: 4, Thermal: 4, Durability: 4, Compressibility: 4})
	if base != scaled {
		t.Fatalf("scaling all weights must not change utility: %v vs %v", base, scaled)
	}
}

func TestScoreRelevanceOnly(t *testing.T) {
	t.Parallel()

	got := Score(item(0.73, 10, 10, 10), Weights{Relevance: 1})
	if got != 0.73 {
		t.Fatalf("relevance-only weights must pass relevance through, got %v", got)
	}
}
