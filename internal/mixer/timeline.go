// Package mixer implements the event-sequence-to-audio scheduler and
// production loop (C7): it validates and resolves a Sequence into a
// sample-indexed timeline, then walks that timeline one sample at a time,
// pulling from every active bus and summing into a single output stream.
//
// Grounded on the teacher's SIDEngine (sid_engine.go): the `events
// []SIDEvent` + `eventIndex` cursor in TickSample() is generalized here
// from a flat register-write log to a tagged Action list covering all
// four event kinds, walked the same way — a monotonic index into a
// pre-sorted slice, no per-sample allocation or re-scan.
package mixer

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/opus-assemble/sonicore/internal/algorithm"
	"github.com/opus-assemble/sonicore/internal/coreerr"
	"github.com/opus-assemble/sonicore/internal/events"
	"github.com/opus-assemble/sonicore/internal/fx"
	"github.com/opus-assemble/sonicore/internal/preset"
	"github.com/opus-assemble/sonicore/internal/soundfont"
	"github.com/opus-assemble/sonicore/internal/vocal"
)

const sampleRateHz = 44100.0

// ActionKind tags one scheduled timeline action. Order within the same
// sample index is MidiNoteOn, SynthNoteOn, EmitPrerendered, then the two
// NoteOff kinds — NoteOn always precedes NoteOff at an identical sample so
// a note that starts exactly when another ends is never clipped by the
// tie-break, per spec.md §3's ordering invariant.
type ActionKind int

const (
	ActionMidiNoteOn ActionKind = iota
	ActionSynthNoteOn
	ActionEmitPrerendered
	ActionMidiNoteOff
	ActionSynthNoteOff
)

func (k ActionKind) sortRank() int {
	switch k {
	case ActionMidiNoteOn:
		return 0
	case ActionSynthNoteOn:
		return 1
	case ActionEmitPrerendered:
		return 2
	case ActionMidiNoteOff:
		return 3
	case ActionSynthNoteOff:
		return 4
	default:
		return 5
	}
}

// Action is one sample-indexed entry in the production timeline. Only the
// fields relevant to Kind are populated.
type Action struct {
	SampleIndex int64
	Kind        ActionKind

	// Midi
	MidiChannel int
	MidiPitch   int
	MidiVel     int
	HasProgram  bool
	Program     soundfont.Program
	Controllers events.Controllers

	// Synth / Preset-resolved-to-synth
	SynthKind     algorithm.Kind
	SynthParams   algorithm.Params
	SynthVel      int
	SynthAttack   float64
	SynthDecay    float64
	SynthSustain  float64
	SynthRelease  float64
	SynthFilter   fx.FilterKind
	SynthCutoffHz float64
	SynthResonant float64
	SynthEffects  []events.Effect
	NoteID        int64 // correlates a SynthNoteOn with its SynthNoteOff across voice-pool allocation

	// EmitPrerendered
	PrerenderedSamples []float32
}

// Timeline is a sample-sorted, ready-to-walk Action list.
type Timeline struct {
	Actions      []Action
	TotalSamples int64
}

// BuildTimeline validates seq, resolves every PresetEvent against the
// catalog, converts every event's (start, duration) from seconds to
// sample indices, and returns a sorted Timeline. rng drives
// SelectByCategory/SelectRandom preset resolution — pass a seeded rng for
// reproducible playback.
func BuildTimeline(seq events.Sequence, rng *rand.Rand) (Timeline, error) {
	if err := events.Validate(seq); err != nil {
		return Timeline{}, err
	}

	var actions []Action
	var totalSamples int64
	var nextNoteID int64

	for _, ev := range seq.Notes {
		startSample := roundSamples(ev.Start * sampleRateHz)
		durSamples := roundSamples(ev.Duration * sampleRateHz)
		endSample := startSample + durSamples
		if endSample > totalSamples {
			totalSamples = endSample
		}

		switch ev.Kind {
		case events.KindMidi:
			onAction := Action{
				SampleIndex: startSample,
				Kind:        ActionMidiNoteOn,
				MidiChannel: ev.Channel,
				MidiPitch:   ev.Pitch,
				MidiVel:     ev.EffectiveVelocity(),
				HasProgram:  ev.HasProgram,
				Program:     soundfont.Program(ev.Program),
				Controllers: ev.Controllers,
			}
			offAction := Action{
				SampleIndex: endSample,
				Kind:        ActionMidiNoteOff,
				MidiChannel: ev.Channel,
				MidiPitch:   ev.Pitch,
			}
			actions = append(actions, onAction, offAction)

		case events.KindSynth:
			on, off := synthActions(ev.Algorithm, ev.Params, ev, startSample, endSample, nextNoteID)
			nextNoteID++
			actions = append(actions, on, off)

		case events.KindEmotion:
			samples := vocal.Render(vocal.Request{
				Emotion:       vocal.Emotion(ev.Emotion),
				Intensity:     ev.Intensity,
				Complexity:    ev.Complexity,
				DurationSec:   ev.Duration,
				PitchRangeMin: ev.PitchRangeMin,
				PitchRangeMax: ev.PitchRangeMax,
			})
			if end := startSample + int64(len(samples)); end > totalSamples {
				totalSamples = end
			}
			actions = append(actions, Action{
				SampleIndex:        startSample,
				Kind:                ActionEmitPrerendered,
				PrerenderedSamples: samples,
			})

		case events.KindPreset:
			resolved, err := preset.Resolve(ev.Preset, ev.Variation, rng)
			if err != nil {
				return Timeline{}, err
			}
			params := resolved.Params
			params.Frequency = pitchToFreq(ev.Pitch) * resolved.FrequencyMul

			on, off := synthActionsFromResolved(resolved, params, ev, startSample, endSample, nextNoteID)
			nextNoteID++
			actions = append(actions, on, off)

		default:
			return Timeline{}, &coreerr.ValidationError{Violations: []string{"unreachable event kind in BuildTimeline"}}
		}
	}

	sort.SliceStable(actions, func(i, j int) bool {
		if actions[i].SampleIndex != actions[j].SampleIndex {
			return actions[i].SampleIndex < actions[j].SampleIndex
		}
		return actions[i].Kind.sortRank() < actions[j].Kind.sortRank()
	})

	return Timeline{Actions: actions, TotalSamples: totalSamples}, nil
}

func synthActions(kind algorithm.Kind, params algorithm.Params, ev events.Event, start, end, noteID int64) (Action, Action) {
	attack, decay, sustain, release := envelopeDefaults()
	if ev.Envelope.Set {
		attack, decay, sustain, release = ev.Envelope.Attack, ev.Envelope.Decay, ev.Envelope.Sustain, ev.Envelope.Release
	}
	filterKind, cutoff, resonance := fx.None, 0.0, 0.0
	if ev.Filter.Set {
		filterKind, cutoff, resonance = toFxFilterKind(ev.Filter.Kind), ev.Filter.CutoffHz, ev.Filter.Resonance
	}

	on := Action{
		SampleIndex:   start,
		Kind:          ActionSynthNoteOn,
		SynthKind:     kind,
		SynthParams:   params,
		SynthVel:      ev.EffectiveVelocity(),
		SynthAttack:   attack,
		SynthDecay:    decay,
		SynthSustain:  sustain,
		SynthRelease:  release,
		SynthFilter:   filterKind,
		SynthCutoffHz: cutoff,
		SynthResonant: resonance,
		SynthEffects:  ev.Effects,
		NoteID:        noteID,
	}
	off := Action{SampleIndex: end, Kind: ActionSynthNoteOff, NoteID: noteID}
	return on, off
}

func synthActionsFromResolved(resolved preset.Resolved, params algorithm.Params, ev events.Event, start, end, noteID int64) (Action, Action) {
	attack, decay, sustain, release := envelopeDefaults()
	if resolved.Envelope.Set {
		attack, decay, sustain, release = resolved.Envelope.Attack, resolved.Envelope.Decay, resolved.Envelope.Sustain, resolved.Envelope.Release
	}
	filterKind, cutoff, resonance := fx.None, 0.0, 0.0
	if resolved.Filter.Set {
		filterKind, cutoff, resonance = toFxFilterKind(resolved.Filter.Kind), resolved.Filter.CutoffHz, resolved.Filter.Resonance
	}

	on := Action{
		SampleIndex:   start,
		Kind:          ActionSynthNoteOn,
		SynthKind:     resolved.Algorithm,
		SynthParams:   params,
		SynthVel:      ev.EffectiveVelocity(),
		SynthAttack:   attack,
		SynthDecay:    decay,
		SynthSustain:  sustain,
		SynthRelease:  release,
		SynthFilter:   filterKind,
		SynthCutoffHz: cutoff,
		SynthResonant: resonance,
		SynthEffects:  ev.Effects,
		NoteID:        noteID,
	}
	off := Action{SampleIndex: end, Kind: ActionSynthNoteOff, NoteID: noteID}
	return on, off
}

func envelopeDefaults() (attack, decay, sustain, release float64) {
	return 0.01, 0.05, 0.8, 0.1
}

func toFxFilterKind(k events.FilterKind) fx.FilterKind {
	switch k {
	case events.LowPass:
		return fx.LowPass
	case events.HighPass:
		return fx.HighPass
	case events.BandPass:
		return fx.BandPass
	default:
		return fx.None
	}
}

// pitchToFreq converts a MIDI pitch number to Hz, A4 (69) = 440Hz.
func pitchToFreq(pitch int) float64 {
	return 440.0 * math.Exp2((float64(pitch)-69.0)/12.0)
}

// roundSamples converts a seconds-scaled sample count to the nearest
// sample index, per spec's round(duration*sample_rate) — truncating here
// would systematically shorten every note and drift the NoteOff index
// under accumulation.
func roundSamples(samples float64) int64 {
	return int64(math.Round(samples))
}
