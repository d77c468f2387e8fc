package voice

import (
	"testing"

	"github.com/opus-assemble/sonicore/internal/algorithm"
	"github.com/opus-assemble/sonicore/internal/events"
	"github.com/stretchr/testify/require"
)

func TestADSR_AttackRampsToOne(t *testing.T) {
	e := &ADSR{AttackSec: 0.01, DecaySec: 0.01, SustainLvl: 0.5, ReleaseSec: 0.01}
	e.Gate()

	var peak float64
	for i := 0; i < int(0.02*sampleRateHz); i++ {
		lvl := e.Tick()
		if lvl > peak {
			peak = lvl
		}
	}
	require.InDelta(t, 1.0, peak, 0.01, "attack should reach full scale")
}

func TestADSR_ReleaseDecaysToIdle(t *testing.T) {
	e := &ADSR{AttackSec: 0.001, DecaySec: 0.001, SustainLvl: 0.8, ReleaseSec: 0.01}
	e.Gate()
	for i := 0; i < int(0.01*sampleRateHz); i++ {
		e.Tick()
	}
	require.Equal(t, Sustain, e.CurrentStage())

	e.Release()
	for i := 0; i < int(0.2*sampleRateHz); i++ {
		e.Tick()
	}
	require.True(t, e.Done(), "envelope should reach Idle well within 200ms of a 10ms release")
}

func TestADSR_ReleaseNeverJumps(t *testing.T) {
	e := &ADSR{AttackSec: 0.01, DecaySec: 0.2, SustainLvl: 0.3, ReleaseSec: 0.05}
	e.Gate()
	for i := 0; i < int(0.005*sampleRateHz); i++ {
		e.Tick()
	}
	preRelease := e.Tick()
	e.Release()
	postRelease := e.Tick()
	require.InDelta(t, preRelease, postRelease, 0.02, "release should continue from the level it was interrupted at, not jump")
}

func TestVoice_TickProducesSoundThenGoesIdleAfterRelease(t *testing.T) {
	v := NewVoice(0, 1)
	v.Allocate(AllocSpec{
		Kind:        algorithm.Sine,
		Params:      algorithm.Params{Frequency: 440},
		Velocity:    100,
		DurationSec: 0.05,
		Attack:      0.001,
		Decay:       0.001,
		Sustain:     0.8,
		Release:     0.01,
	})

	require.True(t, v.Active())

	var sawNonZero bool
	for i := 0; i < int(0.02*sampleRateHz); i++ {
		s, active := v.Tick()
		if s != 0 {
			sawNonZero = true
		}
		require.True(t, active || i > 0)
	}
	require.True(t, sawNonZero)

	v.NoteOff()
	for i := 0; i < int(0.2*sampleRateHz); i++ {
		_, active := v.Tick()
		if !active {
			return
		}
	}
	t.Fatal("voice should have gone idle after note-off + release")
}

func TestVoice_VelocityScalesOutputAmplitude(t *testing.T) {
	spec := func(vel int) AllocSpec {
		return AllocSpec{
			Kind:        algorithm.Sine,
			Params:      algorithm.Params{Frequency: 440},
			Velocity:    vel,
			DurationSec: 0.05,
			Attack:      0.0001,
			Decay:       0.0001,
			Sustain:     1.0,
			Release:     0.01,
		}
	}

	quiet := NewVoice(0, 1)
	quiet.Allocate(spec(1))
	loud := NewVoice(0, 1)
	loud.Allocate(spec(127))

	var quietPeak, loudPeak float32
	for i := 0; i < int(0.01*sampleRateHz); i++ {
		qs, _ := quiet.Tick()
		if abs32(qs) > quietPeak {
			quietPeak = abs32(qs)
		}
		ls, _ := loud.Tick()
		if abs32(ls) > loudPeak {
			loudPeak = abs32(ls)
		}
	}

	require.Greater(t, loudPeak, quietPeak, "velocity 127 should render louder than velocity 1")
	require.InDelta(t, float64(1.0/127.0), float64(quietPeak/loudPeak), 0.05)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func TestVoice_EffectsChainAppliesInOrderWithoutAllocating(t *testing.T) {
	v := NewVoice(0, 1)
	v.Allocate(AllocSpec{
		Kind:        algorithm.Sine,
		Params:      algorithm.Params{Frequency: 440},
		Velocity:    100,
		DurationSec: 0.05,
		Attack:      0.001,
		Decay:       0.001,
		Sustain:     0.8,
		Release:     0.01,
		Effects: []events.Effect{
			{Kind: events.EffectReverb, Intensity: 0.4},
			{Kind: events.EffectDelay, Intensity: 0.3, DelayTime: 0.05},
		},
	})

	for i := 0; i < int(0.02*sampleRateHz); i++ {
		_, active := v.Tick()
		require.True(t, active)
	}

	require.InDelta(t, 0.4, v.reverb.Mix, 1e-9)
	require.InDelta(t, 0.3, v.delay.Mix, 1e-9)
	require.InDelta(t, 0, v.chorus.Mix, 1e-9, "chorus was not requested by this note's effects chain")

	v.Allocate(AllocSpec{
		Kind:        algorithm.Sine,
		Params:      algorithm.Params{Frequency: 440},
		Velocity:    100,
		DurationSec: 0.05,
		Attack:      0.001,
		Decay:       0.001,
		Sustain:     0.8,
		Release:     0.01,
	})
	require.Zero(t, v.reverb.Mix, "reallocating without effects must clear the previous note's chain")
	require.Zero(t, v.delay.Mix)
}
