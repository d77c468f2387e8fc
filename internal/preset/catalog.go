// Package preset implements the named preset catalog and resolver (C6):
// a fixed library of synth voices (name, category, base algorithm
// params, tagged variations) resolved by name, or by a uniform random
// pick within a category or across the whole catalog.
//
// New content grounded on spec.md §4.6's preset data model and the
// "Minimoog Bass"/bright-variation example from spec.md §8 (E6); there is
// no teacher analog for a named preset library, so the catalog entries
// themselves are authored here rather than ported.
package preset

import (
	"sort"

	"github.com/opus-assemble/sonicore/internal/algorithm"
	"github.com/opus-assemble/sonicore/internal/events"
)

// Variation is a named partial overlay applied on top of a Preset's base
// params. A field group is applied only when its Set flag is true —
// Variation carries an explicit Set mask per field group instead of
// relying on zero being a meaningful default, since some base params
// (e.g. PulseWidth 0.5) are legitimately nonzero defaults a variation
// should be able to zero out.
type Variation struct {
	Name string

	SetFrequencyMul bool
	FrequencyMul    float64 // multiplies BaseParams.Frequency

	SetFilter bool
	Filter    events.Filter

	SetEnvelope bool
	Envelope    events.Envelope

	SetParams bool
	Params    algorithm.Params // replaces BaseParams wholesale when set
}

// Preset is one catalog entry.
type Preset struct {
	Name        string
	Category    events.Category
	Algorithm   algorithm.Kind
	BaseParams  algorithm.Params
	Envelope    events.Envelope
	Filter      events.Filter
	Variations  map[string]Variation
	Tags        []string
	Inspiration string
}

// Resolved is the fully merged, ready-to-play output of Resolve.
type Resolved struct {
	Name      string
	Algorithm algorithm.Kind
	Params    algorithm.Params
	Envelope  events.Envelope
	Filter    events.Filter

	// FrequencyMul is the variation's frequency multiplier, if any
	// (1.0 when the variation sets no multiplier). A preset event's
	// pitch still drives the played frequency; callers multiply the
	// pitch-mapped frequency by this instead of using Params.Frequency
	// directly, so a pitched note and a frequency-multiplying variation
	// (e.g. "sub") compose instead of one silently overriding the other.
	FrequencyMul float64
}

var catalog = buildCatalog()

func buildCatalog() map[string]Preset {
	presets := []Preset{
		{
			Name:      "Minimoog Bass",
			Category:  events.CategoryBass,
			Algorithm: algorithm.Sawtooth,
			BaseParams: algorithm.Params{
				Frequency: 55,
			},
			Envelope: events.Envelope{Set: true, Attack: 0.005, Decay: 0.08, Sustain: 0.7, Release: 0.12},
			Filter:   events.Filter{Set: true, Kind: events.LowPass, CutoffHz: 900, Resonance: 0.4},
			Variations: map[string]Variation{
				"bright": {
					Name:      "bright",
					SetFilter: true,
					Filter:    events.Filter{Set: true, Kind: events.LowPass, CutoffHz: 2400, Resonance: 0.08},
				},
				"sub": {
					Name:            "sub",
					SetFrequencyMul: true,
					FrequencyMul:    0.5,
				},
			},
			Tags:        []string{"bass", "analog", "classic"},
			Inspiration: "Moog Minimoog Model D bass patch",
		},
		{
			Name:      "Glass Pad",
			Category:  events.CategoryPad,
			Algorithm: algorithm.Pad,
			BaseParams: algorithm.Params{
				Frequency: 220, Warmth: 0.6, Movement: 0.4, Space: 0.7, HarmonicEvolution: 0.08,
			},
			Envelope: events.Envelope{Set: true, Attack: 1.2, Decay: 0.5, Sustain: 0.85, Release: 2.0},
			Filter:   events.Filter{Set: true, Kind: events.LowPass, CutoffHz: 3200, Resonance: 0.15},
			Variations: map[string]Variation{
				"dark": {
					Name:      "dark",
					SetFilter: true,
					Filter:    events.Filter{Set: true, Kind: events.LowPass, CutoffHz: 1200, Resonance: 0.1},
				},
			},
			Tags:        []string{"pad", "ambient", "evolving"},
			Inspiration: "glassy FM-era digital pad",
		},
		{
			Name:      "DX Bell Lead",
			Category:  events.CategoryLead,
			Algorithm: algorithm.FM,
			BaseParams: algorithm.Params{
				Frequency: 440,
				DX7Algo:   algorithm.OperatorsCascade,
				Operators: []algorithm.FMOperator{
					{FreqRatio: 1.0, OutputLevel: 1.0},
					{FreqRatio: 3.5, OutputLevel: 0.6, Detune: 0.8},
					{FreqRatio: 7.0, OutputLevel: 0.25},
				},
			},
			Envelope:    events.Envelope{Set: true, Attack: 0.002, Decay: 0.6, Sustain: 0.3, Release: 0.4},
			Filter:      events.Filter{Set: true, Kind: events.HighPass, CutoffHz: 150, Resonance: 0.1},
			Tags:        []string{"lead", "fm", "bell"},
			Inspiration: "Yamaha DX7-style cascade FM bell",
		},
		{
			Name:      "Vintage Organ",
			Category:  events.CategoryOrgan,
			Algorithm: algorithm.Square,
			BaseParams: algorithm.Params{
				Frequency: 220, PulseWidth: 0.5,
			},
			Envelope:    events.Envelope{Set: true, Attack: 0.01, Decay: 0.01, Sustain: 1.0, Release: 0.05},
			Filter:      events.Filter{Set: true, Kind: events.LowPass, CutoffHz: 4000, Resonance: 0.05},
			Tags:        []string{"organ", "sustained"},
			Inspiration: "transistor combo-organ tone",
		},
		{
			Name:      "Pluck Arp",
			Category:  events.CategoryArp,
			Algorithm: algorithm.Triangle,
			BaseParams: algorithm.Params{
				Frequency: 330,
			},
			Envelope:    events.Envelope{Set: true, Attack: 0.001, Decay: 0.15, Sustain: 0.0, Release: 0.05},
			Filter:      events.Filter{Set: true, Kind: events.BandPass, CutoffHz: 1500, Resonance: 0.3},
			Tags:        []string{"arp", "pluck", "short"},
			Inspiration: "short decaying sequencer pluck",
		},
		{
			Name:       "Tight Kick",
			Category:   events.CategoryDrums,
			Algorithm:  algorithm.Kick,
			BaseParams: algorithm.Params{Punch: 0.8, Sustain: 0.3, ClickFreq: 2500, BodyFreq: 60},
			Envelope:   events.Envelope{Set: true, Attack: 0.0005, Decay: 0.15, Sustain: 0.0, Release: 0.02},
			Tags:       []string{"drum", "kick", "punchy"},
			Inspiration: "808-style tight kick",
		},
		{
			Name:       "Snappy Snare",
			Category:   events.CategoryDrums,
			Algorithm:  algorithm.Snare,
			BaseParams: algorithm.Params{Snap: 0.7, Buzz: 0.5, ToneFreq: 200, NoiseAmount: 0.6},
			Envelope:   events.Envelope{Set: true, Attack: 0.0005, Decay: 0.12, Sustain: 0.0, Release: 0.02},
			Tags:       []string{"drum", "snare"},
			Inspiration: "acoustic-leaning snappy snare",
		},
		{
			Name:       "Laser Zap",
			Category:   events.CategoryEffects,
			Algorithm:  algorithm.Zap,
			BaseParams: algorithm.Params{Frequency: 2000, Energy: 1.0, HarmonicContent: 0.7},
			Envelope:   events.Envelope{Set: true, Attack: 0.001, Decay: 0.08, Sustain: 0.0, Release: 0.02},
			Tags:       []string{"fx", "sci-fi", "zap"},
			Inspiration: "arcade-style laser zap",
		},
		{
			Name:       "Deep Drone",
			Category:   events.CategoryPad,
			Algorithm:  algorithm.Drone,
			BaseParams: algorithm.Params{Frequency: 65, OvertoneSpread: 0.4, Modulation: 0.15},
			Envelope:   events.Envelope{Set: true, Attack: 2.0, Decay: 1.0, Sustain: 0.9, Release: 3.0},
			Tags:       []string{"drone", "ambient", "deep"},
			Inspiration: "sustained modular drone voice",
		},
		{
			Name:       "Granular Cloud",
			Category:   events.CategoryEffects,
			Algorithm:  algorithm.Granular,
			BaseParams: algorithm.Params{Frequency: 440, GrainSize: 0.05, Density: 40, PitchCoherence: 0.6, Spread: 0.3, Overlap: 0.5},
			Envelope:   events.Envelope{Set: true, Attack: 0.3, Decay: 0.2, Sustain: 0.6, Release: 0.8},
			Tags:       []string{"texture", "granular", "experimental"},
			Inspiration: "granular synthesis cloud texture",
		},
	}

	m := make(map[string]Preset, len(presets))
	for _, p := range presets {
		m[p.Name] = p
	}
	return m
}

// Lookup returns the catalog entry named name.
func Lookup(name string) (Preset, bool) {
	p, ok := catalog[name]
	return p, ok
}

// ByCategory returns every catalog entry tagged with category, in a
// stable name-sorted order (Go map iteration order is not stable, so the
// catalog's declaration order is not kept).
func ByCategory(category events.Category) []Preset {
	var out []Preset
	for _, name := range sortedNames() {
		p := catalog[name]
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// All returns every catalog entry in a stable name-sorted order.
func All() []Preset {
	var out []Preset
	for _, name := range sortedNames() {
		out = append(out, catalog[name])
	}
	return out
}

func sortedNames() []string {
	names := make([]string, 0, len(catalog))
	for n := range catalog {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
