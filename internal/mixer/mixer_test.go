package mixer

import (
	"context"
	"testing"

	"github.com/opus-assemble/sonicore/internal/algorithm"
	"github.com/opus-assemble/sonicore/internal/coreerr"
	"github.com/opus-assemble/sonicore/internal/events"
	"github.com/opus-assemble/sonicore/internal/voicepool"
	"github.com/stretchr/testify/require"
)

func TestMixer_ReadSampleProducesSoundWhileVoiceActiveThenSilence(t *testing.T) {
	seq := events.Sequence{Notes: []events.Event{
		{Kind: events.KindSynth, Start: 0, Duration: 0.02, Algorithm: algorithm.Sine, Params: algorithm.Params{Frequency: 440}},
	}}
	tl, err := BuildTimeline(seq, testRNG())
	require.NoError(t, err)

	m := New(tl, 1)
	var sawNonZero bool
	for !m.Done() {
		s := m.ReadSample()
		if s != 0 {
			sawNonZero = true
		}
	}
	require.True(t, sawNonZero, "the synth note should have produced audible samples before the mixer went idle")
}

func TestMixer_OutputStaysWithinUnitRangeAfterSoftClip(t *testing.T) {
	seq := events.Sequence{Notes: []events.Event{
		{Kind: events.KindSynth, Start: 0, Duration: 0.05, Algorithm: algorithm.Sine, Params: algorithm.Params{Frequency: 220}, Velocity: 127, HasVelocity: true},
		{Kind: events.KindSynth, Start: 0, Duration: 0.05, Algorithm: algorithm.Sine, Params: algorithm.Params{Frequency: 221}, Velocity: 127, HasVelocity: true},
		{Kind: events.KindSynth, Start: 0, Duration: 0.05, Algorithm: algorithm.Sine, Params: algorithm.Params{Frequency: 222}, Velocity: 127, HasVelocity: true},
	}}
	tl, err := BuildTimeline(seq, testRNG())
	require.NoError(t, err)

	m := New(tl, 1, WithVoiceStealStrategy(voicepool.LowestVolume))
	for !m.Done() {
		s := m.ReadSample()
		require.LessOrEqual(t, s, float32(1.0))
		require.GreaterOrEqual(t, s, float32(-1.0))
	}
}

func TestPlay_RunsToCompletionAndReportsVoiceUsage(t *testing.T) {
	seq := events.Sequence{Notes: []events.Event{
		{Kind: events.KindSynth, Start: 0, Duration: 0.01, Algorithm: algorithm.Sine, Params: algorithm.Params{Frequency: 440}},
	}}

	summary, err := Play(context.Background(), seq, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), summary.VoicesUsed)
	require.Equal(t, int64(0), summary.VoicesStolen)
	require.Greater(t, summary.SamplesEmitted, int64(0))
}

func TestPlay_CancellationReturnsCancellationAckBeforeCompletion(t *testing.T) {
	seq := events.Sequence{Notes: []events.Event{
		{Kind: events.KindSynth, Start: 0, Duration: 5, Algorithm: algorithm.Sine, Params: algorithm.Params{Frequency: 440}},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := Play(ctx, seq, 1)
	require.Error(t, err)
	var ack *coreerr.CancellationAck
	require.ErrorAs(t, err, &ack)
	require.Less(t, summary.SamplesEmitted, int64(5*sampleRateHz))
}
