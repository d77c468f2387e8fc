package preset

import (
	"fmt"
	"math/rand/v2"

	"github.com/opus-assemble/sonicore/internal/coreerr"
	"github.com/opus-assemble/sonicore/internal/corelog"
	"github.com/opus-assemble/sonicore/internal/events"
)

// Resolve merges selector and variation against the catalog into a
// Resolved voice spec. Resolving the same (selector, variation) pair
// against the same rng position always yields the same Resolved value —
// resolution never mutates the catalog, so it is safe to resolve a
// PresetSelector more than once.
func Resolve(selector events.PresetSelector, variationName string, rng *rand.Rand) (Resolved, error) {
	var p Preset
	switch selector.Mode {
	case events.SelectByName:
		found, ok := Lookup(selector.ByName)
		if !ok {
			return Resolved{}, &coreerr.ValidationError{Violations: []string{fmt.Sprintf("unresolved preset name %q", selector.ByName)}}
		}
		p = found
	case events.SelectByCategory:
		matches := ByCategory(selector.ByCategory)
		if len(matches) == 0 {
			return Resolved{}, &coreerr.ResourceError{Resource: "preset-category", Err: fmt.Errorf("no presets in category %v", selector.ByCategory)}
		}
		p = matches[rng.IntN(len(matches))]
	case events.SelectRandom:
		all := All()
		if len(all) == 0 {
			return Resolved{}, &coreerr.ResourceError{Resource: "preset-catalog", Err: fmt.Errorf("catalog is empty")}
		}
		p = all[rng.IntN(len(all))]
	default:
		return Resolved{}, &coreerr.ResourceError{Resource: "preset-selector", Err: fmt.Errorf("selector sets no mode")}
	}

	return applyVariation(p, variationName)
}

func applyVariation(p Preset, variationName string) (Resolved, error) {
	out := Resolved{
		Name:         p.Name,
		Algorithm:    p.Algorithm,
		Params:       p.BaseParams,
		Envelope:     p.Envelope,
		Filter:       p.Filter,
		FrequencyMul: 1.0,
	}

	if variationName == "" {
		return out, nil
	}
	v, ok := p.Variations[variationName]
	if !ok {
		corelog.Named("preset").Warn().
			Str("preset", p.Name).
			Str("variation", variationName).
			Msg("unknown variation, falling back to base preset")
		return out, nil
	}

	if v.SetParams {
		out.Params = v.Params
	}
	if v.SetFrequencyMul {
		out.Params.Frequency = p.BaseParams.Frequency * v.FrequencyMul
		out.FrequencyMul = v.FrequencyMul
	}
	if v.SetEnvelope {
		out.Envelope = v.Envelope
	}
	if v.SetFilter {
		out.Filter = v.Filter
	}

	return out, nil
}
