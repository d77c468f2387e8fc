// Package events defines the note-sequence data model the core consumes:
// tagged events with a real-valued (start, duration) in seconds, plus the
// validation rules enforced at ingest.
package events

import (
	"fmt"
	"strings"

	"github.com/opus-assemble/sonicore/internal/algorithm"
	"github.com/opus-assemble/sonicore/internal/coreerr"
)

// Kind tags the four event production kinds the core understands.
type Kind int

const (
	KindMidi Kind = iota
	KindSynth
	KindEmotion
	KindPreset
)

func (k Kind) String() string {
	switch k {
	case KindMidi:
		return "Midi"
	case KindSynth:
		return "Synth"
	case KindEmotion:
		return "Emotion"
	case KindPreset:
		return "Preset"
	default:
		return "Unknown"
	}
}

// ParseKind resolves a Kind by its String() name, case-insensitively, for
// sequence-file loaders.
func ParseKind(name string) (Kind, bool) {
	for _, k := range []Kind{KindMidi, KindSynth, KindEmotion, KindPreset} {
		if strings.EqualFold(k.String(), name) {
			return k, true
		}
	}
	return 0, false
}

// FilterKind selects the per-voice/per-bus filter topology.
type FilterKind int

const (
	FilterNone FilterKind = iota
	LowPass
	HighPass
	BandPass
)

var filterKindNames = [...]string{"None", "LowPass", "HighPass", "BandPass"}

func (k FilterKind) String() string {
	if int(k) < 0 || int(k) >= len(filterKindNames) {
		return "Unknown"
	}
	return filterKindNames[k]
}

// ParseFilterKind resolves a FilterKind by name, case-insensitively.
func ParseFilterKind(name string) (FilterKind, bool) {
	for i, n := range filterKindNames {
		if strings.EqualFold(n, name) {
			return FilterKind(i), true
		}
	}
	return 0, false
}

// EffectKind selects an effect-chain stage (C8).
type EffectKind int

const (
	EffectReverb EffectKind = iota
	EffectChorus
	EffectDelay
)

var effectKindNames = [...]string{"Reverb", "Chorus", "Delay"}

func (k EffectKind) String() string {
	if int(k) < 0 || int(k) >= len(effectKindNames) {
		return "Unknown"
	}
	return effectKindNames[k]
}

// ParseEffectKind resolves an EffectKind by name, case-insensitively.
func ParseEffectKind(name string) (EffectKind, bool) {
	for i, n := range effectKindNames {
		if strings.EqualFold(n, name) {
			return EffectKind(i), true
		}
	}
	return 0, false
}

// Category groups presets for PresetEvent.by_category and for catalog
// introspection.
type Category int

const (
	CategoryBass Category = iota
	CategoryPad
	CategoryLead
	CategoryKeys
	CategoryOrgan
	CategoryArp
	CategoryDrums
	CategoryEffects
)

var categoryNames = [...]string{
	"Bass", "Pad", "Lead", "Keys", "Organ", "Arp", "Drums", "Effects",
}

func (c Category) String() string {
	if int(c) < 0 || int(c) >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[c]
}

// ParseCategory resolves a Category by name, case-insensitively.
func ParseCategory(name string) (Category, bool) {
	for i, n := range categoryNames {
		if strings.EqualFold(n, name) {
			return Category(i), true
		}
	}
	return 0, false
}

// Emotion enumerates the nine robotic-vocalization emotional states (C4).
type Emotion int

const (
	Happy Emotion = iota
	Sad
	Excited
	Worried
	Curious
	Affirmative
	Negative
	Surprised
	Thoughtful
)

var emotionNames = [...]string{
	"Happy", "Sad", "Excited", "Worried", "Curious",
	"Affirmative", "Negative", "Surprised", "Thoughtful",
}

func (e Emotion) String() string {
	if int(e) < 0 || int(e) >= len(emotionNames) {
		return "Unknown"
	}
	return emotionNames[e]
}

// ParseEmotion resolves an Emotion by name, case-insensitively.
func ParseEmotion(name string) (Emotion, bool) {
	for i, n := range emotionNames {
		if strings.EqualFold(n, name) {
			return Emotion(i), true
		}
	}
	return 0, false
}

// Envelope carries optional ADSR override seconds for a SynthEvent. A
// zero-value Envelope (all fields zero with Set=false) means "use the
// algorithm/voice manager default."
type Envelope struct {
	Set     bool
	Attack  float64
	Decay   float64
	Sustain float64 // level 0..1, not a time
	Release float64
}

// Filter carries an optional per-voice filter override.
type Filter struct {
	Set       bool
	Kind      FilterKind
	CutoffHz  float64
	Resonance float64 // 0..1
}

// Effect is one stage of an ordered effects chain.
type Effect struct {
	Kind      EffectKind
	Intensity float64 // 0..1
	DelayTime float64 // seconds, only meaningful for EffectDelay
}

// Controllers holds the optional MIDI CC overlay fields for a MidiEvent.
type Controllers struct {
	Set        bool
	Volume     int // CC7
	Pan        int // CC10
	Reverb     int // CC91
	Chorus     int // CC93
	Expression int // CC11
}

// PresetSelector picks a preset by exactly one of the three modes.
type PresetSelector struct {
	ByName     string
	ByCategory Category
	Random     bool
	Mode       PresetSelectMode
}

type PresetSelectMode int

const (
	SelectByName PresetSelectMode = iota
	SelectByCategory
	SelectRandom
)

// Event is a tagged union over the four production kinds. Only the fields
// relevant to Kind are meaningful; Validate inspects only those.
type Event struct {
	Kind     Kind
	Start    float64 // seconds, >= 0
	Duration float64 // seconds, > 0
	Velocity int     // 0..127, defaults to 100 if unset (Velocity == 0 and HasVelocity == false)

	HasVelocity bool

	// MidiEvent fields.
	Pitch       int // 0..127
	Channel     int // 0..15
	HasProgram  bool
	Program     int // 0..127
	Controllers Controllers

	// SynthEvent fields.
	Algorithm algorithm.Kind
	Params    algorithm.Params
	Envelope  Envelope
	Filter    Filter
	Effects   []Effect

	// EmotionEvent fields.
	Emotion       Emotion
	Intensity     float64 // 0..1
	Complexity    int     // 1..5
	PitchRangeMin float64
	PitchRangeMax float64

	// PresetEvent fields.
	Preset    PresetSelector
	Variation string
}

// EffectiveVelocity returns the event's velocity, defaulting to 100 when
// unset, per spec.md §3.
func (e Event) EffectiveVelocity() int {
	if !e.HasVelocity {
		return 100
	}
	return e.Velocity
}

// Sequence is the top-level request payload: an unordered collection of
// events plus an informational tempo.
type Sequence struct {
	TempoBPM float64
	Notes    []Event
}

// Validate enforces the invariants from spec.md §3 against every event in
// seq. It does not resolve PresetEvents (that's C6's job at ingest); it
// only checks the shape of PresetSelector itself.
func Validate(seq Sequence) error {
	var violations []string
	for i, ev := range seq.Notes {
		for _, msg := range validateEvent(i, ev) {
			violations = append(violations, msg)
		}
	}
	if len(violations) > 0 {
		return &coreerr.ValidationError{Violations: violations}
	}
	return nil
}

func validateEvent(i int, ev Event) []string {
	var v []string
	tag := func(msg string) string { return fmt.Sprintf("event[%d] (%s): %s", i, ev.Kind, msg) }

	if ev.Start < 0 {
		v = append(v, tag("start must be >= 0"))
	}
	if ev.Duration <= 0 {
		v = append(v, tag("duration must be > 0"))
	}
	if ev.HasVelocity && (ev.Velocity < 0 || ev.Velocity > 127) {
		v = append(v, tag("velocity must be within 0..127"))
	}

	switch ev.Kind {
	case KindMidi:
		if ev.Pitch < 0 || ev.Pitch > 127 {
			v = append(v, tag("pitch must be within 0..127"))
		}
		if ev.Channel < 0 || ev.Channel > 15 {
			v = append(v, tag("channel must be within 0..15"))
		}
		if ev.HasProgram && (ev.Program < 0 || ev.Program > 127) {
			v = append(v, tag("program must be within 0..127"))
		}
	case KindSynth:
		if ev.Filter.Set && (ev.Filter.Resonance < 0 || ev.Filter.Resonance > 1) {
			v = append(v, tag("filter resonance must be within [0,1]"))
		}
	case KindEmotion:
		if ev.Intensity < 0 || ev.Intensity > 1 {
			v = append(v, tag("intensity must be within [0,1]"))
		}
		if ev.Complexity < 1 || ev.Complexity > 5 {
			v = append(v, tag("complexity must be within 1..5"))
		}
		if !(50 <= ev.PitchRangeMin && ev.PitchRangeMin < ev.PitchRangeMax && ev.PitchRangeMax <= 2000) {
			v = append(v, tag("pitch_range must satisfy 50<=min<max<=2000"))
		}
	case KindPreset:
		switch ev.Preset.Mode {
		case SelectByName:
			if ev.Preset.ByName == "" {
				v = append(v, tag("by_name preset selector requires a name"))
			}
		case SelectByCategory, SelectRandom:
			// resolved against the catalog at ingest; nothing to check here.
		default:
			v = append(v, tag("preset selector must set exactly one of by_name/by_category/random"))
		}
		if ev.Pitch < 0 || ev.Pitch > 127 {
			v = append(v, tag("pitch must be within 0..127"))
		}
	default:
		v = append(v, tag("unknown event kind"))
	}

	return v
}
