package mixer

import (
	"math/rand/v2"
	"testing"

	"github.com/opus-assemble/sonicore/internal/algorithm"
	"github.com/opus-assemble/sonicore/internal/events"
	"github.com/stretchr/testify/require"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestBuildTimeline_SynthNoteProducesOnOffPairAtSampleBounds(t *testing.T) {
	seq := events.Sequence{Notes: []events.Event{
		{
			Kind:      events.KindSynth,
			Start:     0.1,
			Duration:  0.2,
			Algorithm: algorithm.Sine,
			Params:    algorithm.Params{Frequency: 440},
		},
	}}

	tl, err := BuildTimeline(seq, testRNG())
	require.NoError(t, err)
	require.Len(t, tl.Actions, 2)

	on, off := tl.Actions[0], tl.Actions[1]
	require.Equal(t, ActionSynthNoteOn, on.Kind)
	require.Equal(t, int64(0.1*sampleRateHz), on.SampleIndex)
	require.Equal(t, ActionSynthNoteOff, off.Kind)
	require.Equal(t, int64(0.3*sampleRateHz), off.SampleIndex)
	require.Equal(t, on.NoteID, off.NoteID, "on/off must share a NoteID for voice-pool correlation")
}

func TestBuildTimeline_NoteOnPrecedesNoteOffAtIdenticalSample(t *testing.T) {
	seq := events.Sequence{Notes: []events.Event{
		{Kind: events.KindSynth, Start: 0, Duration: 0.1, Algorithm: algorithm.Sine, Params: algorithm.Params{Frequency: 220}},
		{Kind: events.KindSynth, Start: 0.1, Duration: 0.1, Algorithm: algorithm.Sine, Params: algorithm.Params{Frequency: 330}},
	}}

	tl, err := BuildTimeline(seq, testRNG())
	require.NoError(t, err)

	var sawOffAt, sawOnAt int
	for i, a := range tl.Actions {
		if a.SampleIndex == int64(0.1*sampleRateHz) {
			switch a.Kind {
			case ActionSynthNoteOff:
				sawOffAt = i
			case ActionSynthNoteOn:
				sawOnAt = i
			}
		}
	}
	require.Less(t, sawOnAt, sawOffAt, "a note starting exactly when another ends must not be clipped by the tie-break")
}

func TestBuildTimeline_EmotionEventEmitsSinglePrerenderedAction(t *testing.T) {
	seq := events.Sequence{Notes: []events.Event{
		{
			Kind:          events.KindEmotion,
			Start:         0,
			Duration:      0.3,
			Emotion:       events.Happy,
			Intensity:     0.8,
			Complexity:    2,
			PitchRangeMin: 200,
			PitchRangeMax: 800,
		},
	}}

	tl, err := BuildTimeline(seq, testRNG())
	require.NoError(t, err)
	require.Len(t, tl.Actions, 1)
	require.Equal(t, ActionEmitPrerendered, tl.Actions[0].Kind)
	require.NotEmpty(t, tl.Actions[0].PrerenderedSamples)
}

func TestBuildTimeline_PresetEventResolvesPitchToFrequency(t *testing.T) {
	seq := events.Sequence{Notes: []events.Event{
		{
			Kind:     events.KindPreset,
			Start:    0,
			Duration: 0.1,
			Pitch:    69, // A4
			Preset:   events.PresetSelector{Mode: events.SelectByName, ByName: "Minimoog Bass"},
		},
	}}

	tl, err := BuildTimeline(seq, testRNG())
	require.NoError(t, err)
	require.Len(t, tl.Actions, 2)
	require.InDelta(t, 440.0, tl.Actions[0].SynthParams.Frequency, 0.01)
}

func TestBuildTimeline_InvalidSequenceReturnsValidationError(t *testing.T) {
	seq := events.Sequence{Notes: []events.Event{
		{Kind: events.KindMidi, Start: -1, Duration: 0.1, Pitch: 60, Channel: 0},
	}}

	_, err := BuildTimeline(seq, testRNG())
	require.Error(t, err)
}

func TestBuildTimeline_UnknownPresetNameReturnsError(t *testing.T) {
	seq := events.Sequence{Notes: []events.Event{
		{
			Kind:     events.KindPreset,
			Start:    0,
			Duration: 0.1,
			Pitch:    60,
			Preset:   events.PresetSelector{Mode: events.SelectByName, ByName: "does-not-exist"},
		},
	}}

	_, err := BuildTimeline(seq, testRNG())
	require.Error(t, err)
}
