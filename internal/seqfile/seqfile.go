// Package seqfile loads a Sequence from a JSON document on disk. It is the
// CLI-facing ingest path: internal/events.Sequence has no JSON tags of its
// own (it is the core's in-memory model, not a wire format), so this
// package owns the one-way conversion from a human-editable document into
// that model, grounded on grahamseamans-go-sequence's plain encoding/json
// project-file loader (sequencer/project.go).
package seqfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/opus-assemble/sonicore/internal/algorithm"
	"github.com/opus-assemble/sonicore/internal/coreerr"
	"github.com/opus-assemble/sonicore/internal/events"
)

// Document is the on-disk JSON shape: a tempo plus an unordered list of
// notes. Every note names its kind by string; enum-valued fields (filter
// kind, emotion, effect kind, preset category) are also strings, resolved
// against the events package's Parse* helpers at Load time.
type Document struct {
	TempoBPM float64    `json:"tempo_bpm"`
	Notes    []NoteJSON `json:"notes"`
}

// NoteJSON mirrors events.Event field-for-field but as a JSON-friendly,
// string-enum DTO. Only the fields relevant to Kind need be set.
type NoteJSON struct {
	Kind     string  `json:"kind"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Velocity *int    `json:"velocity,omitempty"`

	// Midi
	Pitch       int                 `json:"pitch,omitempty"`
	Channel     int                 `json:"channel,omitempty"`
	Program     *int                `json:"program,omitempty"`
	Controllers *ControllersJSON    `json:"controllers,omitempty"`

	// Synth
	Algorithm string             `json:"algorithm,omitempty"`
	Params    *algorithm.Params  `json:"params,omitempty"`
	Envelope  *EnvelopeJSON      `json:"envelope,omitempty"`
	Filter    *FilterJSON        `json:"filter,omitempty"`
	Effects   []EffectJSON       `json:"effects,omitempty"`

	// Emotion
	Emotion       string  `json:"emotion,omitempty"`
	Intensity     float64 `json:"intensity,omitempty"`
	Complexity    int     `json:"complexity,omitempty"`
	PitchRangeMin float64 `json:"pitch_range_min,omitempty"`
	PitchRangeMax float64 `json:"pitch_range_max,omitempty"`

	// Preset
	PresetName     string `json:"preset_name,omitempty"`
	PresetCategory string `json:"preset_category,omitempty"`
	PresetRandom   bool   `json:"preset_random,omitempty"`
	Variation      string `json:"variation,omitempty"`
}

type ControllersJSON struct {
	Volume     int `json:"volume"`
	Pan        int `json:"pan"`
	Reverb     int `json:"reverb"`
	Chorus     int `json:"chorus"`
	Expression int `json:"expression"`
}

type EnvelopeJSON struct {
	Attack  float64 `json:"attack"`
	Decay   float64 `json:"decay"`
	Sustain float64 `json:"sustain"`
	Release float64 `json:"release"`
}

type FilterJSON struct {
	Kind      string  `json:"kind"`
	CutoffHz  float64 `json:"cutoff_hz"`
	Resonance float64 `json:"resonance"`
}

type EffectJSON struct {
	Kind      string  `json:"kind"`
	Intensity float64 `json:"intensity"`
	DelayTime float64 `json:"delay_time,omitempty"`
}

// Load reads and parses path into a ready-to-validate events.Sequence.
// It does not call events.Validate itself — that's BuildTimeline's job —
// but it rejects JSON it cannot map onto the event model (unknown kind or
// enum name).
func Load(path string) (events.Sequence, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return events.Sequence{}, err
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return events.Sequence{}, fmt.Errorf("seqfile: %w", err)
	}

	seq := events.Sequence{TempoBPM: doc.TempoBPM}
	for i, n := range doc.Notes {
		ev, err := convertNote(n)
		if err != nil {
			return events.Sequence{}, &coreerr.ValidationError{
				Violations: []string{fmt.Sprintf("note[%d]: %v", i, err)},
			}
		}
		seq.Notes = append(seq.Notes, ev)
	}
	return seq, nil
}

func convertNote(n NoteJSON) (events.Event, error) {
	kind, ok := events.ParseKind(n.Kind)
	if !ok {
		return events.Event{}, fmt.Errorf("unknown event kind %q", n.Kind)
	}

	ev := events.Event{
		Kind:     kind,
		Start:    n.Start,
		Duration: n.Duration,
		Pitch:    n.Pitch,
		Channel:  n.Channel,
	}
	if n.Velocity != nil {
		ev.HasVelocity = true
		ev.Velocity = *n.Velocity
	}

	switch kind {
	case events.KindMidi:
		if n.Program != nil {
			ev.HasProgram = true
			ev.Program = *n.Program
		}
		if n.Controllers != nil {
			ev.Controllers = events.Controllers{
				Set:        true,
				Volume:     n.Controllers.Volume,
				Pan:        n.Controllers.Pan,
				Reverb:     n.Controllers.Reverb,
				Chorus:     n.Controllers.Chorus,
				Expression: n.Controllers.Expression,
			}
		}

	case events.KindSynth:
		algo, ok := algorithm.ParseKind(n.Algorithm)
		if !ok {
			return events.Event{}, fmt.Errorf("unknown algorithm %q", n.Algorithm)
		}
		ev.Algorithm = algo
		if n.Params != nil {
			ev.Params = *n.Params
		}
		if n.Envelope != nil {
			ev.Envelope = events.Envelope{Set: true, Attack: n.Envelope.Attack, Decay: n.Envelope.Decay, Sustain: n.Envelope.Sustain, Release: n.Envelope.Release}
		}
		if n.Filter != nil {
			fk, ok := events.ParseFilterKind(n.Filter.Kind)
			if !ok {
				return events.Event{}, fmt.Errorf("unknown filter kind %q", n.Filter.Kind)
			}
			ev.Filter = events.Filter{Set: true, Kind: fk, CutoffHz: n.Filter.CutoffHz, Resonance: n.Filter.Resonance}
		}
		for _, e := range n.Effects {
			ek, ok := events.ParseEffectKind(e.Kind)
			if !ok {
				return events.Event{}, fmt.Errorf("unknown effect kind %q", e.Kind)
			}
			ev.Effects = append(ev.Effects, events.Effect{Kind: ek, Intensity: e.Intensity, DelayTime: e.DelayTime})
		}

	case events.KindEmotion:
		emo, ok := events.ParseEmotion(n.Emotion)
		if !ok {
			return events.Event{}, fmt.Errorf("unknown emotion %q", n.Emotion)
		}
		ev.Emotion = emo
		ev.Intensity = n.Intensity
		ev.Complexity = n.Complexity
		ev.PitchRangeMin = n.PitchRangeMin
		ev.PitchRangeMax = n.PitchRangeMax

	case events.KindPreset:
		ev.Variation = n.Variation
		switch {
		case n.PresetName != "":
			ev.Preset = events.PresetSelector{Mode: events.SelectByName, ByName: n.PresetName}
		case n.PresetCategory != "":
			cat, ok := events.ParseCategory(n.PresetCategory)
			if !ok {
				return events.Event{}, fmt.Errorf("unknown preset category %q", n.PresetCategory)
			}
			ev.Preset = events.PresetSelector{Mode: events.SelectByCategory, ByCategory: cat}
		case n.PresetRandom:
			ev.Preset = events.PresetSelector{Mode: events.SelectRandom}
		default:
			return events.Event{}, fmt.Errorf("preset event must set preset_name, preset_category, or preset_random")
		}
	}

	return ev, nil
}
