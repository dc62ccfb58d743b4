package constraint

import (
	"fmt"
	"sort"

	"github.com/nexusfield/missionpack/internal/manifest"
)

// Registry is an immutable mapping from preset name to a fully-populated
// Constraints bundle. It is built once from a fixed table at construction
// and never mutated afterwards, so it is safe for concurrent use without
// locking.
type Registry struct {
	presets map[string]Constraints
}

// Preset names for the mission archetypes shipped with the registry.
const (
	PresetUltralightDayHike = "ultralight_day_hike"
	Preset24hRecon          = "24h_recon"
	Preset48hColdWeather    = "48h_cold_weather"
	Preset72hExpedition     = "72h_expedition"
	PresetBaseCamp          = "base_camp"
)

func defaultPresets() map[string]Constraints {
	return map[string]Constraints{
		PresetUltralightDayHike: {
			MaxWeight:            6,
			MaxVolume:            10,
			MaxItems:             8,
			RequiredCategories:   []manifest.Category{manifest.CategoryWater},
			CategoryMaximums:     map[manifest.Category]int{manifest.CategoryTools: 1},
			MissionDurationHours: 12,
			PresetName:           PresetUltralightDayHike,
		},
		Preset24hRecon: {
			MaxWeight:            12,
			MaxVolume:            20,
			MaxItems:             10,
			RequiredCategories:   []manifest.Category{manifest.CategoryMedical, manifest.CategoryWater},
			CategoryMaximums:     map[manifest.Category]int{manifest.CategoryTools: 2},
			MissionDurationHours: 24,
			PresetName:           Preset24hRecon,
		},
		Preset48hColdWeather: {
			MaxWeight:            18,
			MaxVolume:            35,
			MaxItems:             14,
			RequiredCategories:   []manifest.Category{manifest.CategoryMedical, manifest.CategoryShelter, manifest.CategoryWater},
			CategoryMinimums:     map[manifest.Category]int{manifest.CategoryClothing: 2},
			MissionDurationHours: 48,
			PresetName:           Preset48hColdWeather,
		},
		Preset72hExpedition: {
			MaxWeight:            25,
			MaxVolume:            55,
			MaxItems:             20,
			RequiredCategories:   []manifest.Category{manifest.CategoryFood, manifest.CategoryMedical, manifest.CategoryShelter, manifest.CategoryWater},
			CategoryMinimums:     map[manifest.Category]int{manifest.CategoryFood: 2},
			MissionDurationHours: 72,
			PresetName:           Preset72hExpedition,
		},
		PresetBaseCamp: {
			MaxWeight:            45,
			MaxVolume:            120,
			RequiredCategories:   []manifest.Category{manifest.CategoryFood, manifest.CategoryShelter, manifest.CategoryWater},
			MissionDurationHours: 168,
			PresetName:           PresetBaseCamp,
		},
	}
}

// NewRegistry builds the registry from the fixed preset table.
func NewRegistry() *Registry {
	return &Registry{presets: defaultPresets()}
}

// Resolve returns a copy of the named preset, or ErrUnknownPreset.
func (r *Registry) Resolve(name string) (Constraints, error) {
	preset, ok := r.presets[name]
	if !ok {
		return Constraints{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return preset.Clone(), nil
}

// Merge resolves a preset and applies caller overrides on top of it.
// Unspecified override fields retain the preset value. The merged result is
// re-validated since overrides can break constraint invariants.
func (r *Registry) Merge(name string, overrides Overrides) (Constraints, error) {
	preset, err := r.Resolve(name)
	if err != nil {
		return Constraints{}, err
	}
	merged := overrides.apply(preset)
	if err := merged.Validate(); err != nil {
		return Constraints{}, err
	}
	return merged, nil
}

// ResolveByDuration selects the preset with the shortest mission duration
// covering the requested hours, falling back to the longest preset when the
// request exceeds every archetype.
func (r *Registry) ResolveByDuration(hours int) (Constraints, error) {
	if hours <= 0 {
		return Constraints{}, fmt.Errorf("%w: mission duration must be positive, got %d", ErrInvalidConstraint, hours)
	}

	var best, longest *Constraints
	for name := range r.presets {
		preset := r.presets[name]
		if longest == nil || preset.MissionDurationHours > longest.MissionDurationHours {
			longest = &preset
		}
		if preset.MissionDurationHours < hours {
			continue
		}
		if best == nil ||
			preset.MissionDurationHours < best.MissionDurationHours ||
			(preset.MissionDurationHours == best.MissionDurationHours && preset.PresetName < best.PresetName) {
			best = &preset
		}
	}
	if best == nil {
		best = longest
	}
	return best.Clone(), nil
}

// Names lists the registered preset names in lexicographic order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.presets))
	for name := range r.presets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
