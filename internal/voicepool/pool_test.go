package voicepool

import (
	"testing"

	"github.com/opus-assemble/sonicore/internal/algorithm"
	"github.com/opus-assemble/sonicore/internal/voice"
	"github.com/stretchr/testify/require"
)

func basicNote(vel int) NoteSpec {
	return NoteSpec{
		Kind:        algorithm.Sine,
		Params:      algorithm.Params{Frequency: 440},
		Velocity:    vel,
		DurationSec: 1.0,
		Attack:      0.01,
		Decay:       0.01,
		Sustain:     0.8,
		Release:     0.05,
	}
}

func TestPool_AllocatesUpToCapacityWithoutStealing(t *testing.T) {
	p := New(OldestFirst, 1)
	for i := 0; i < Capacity; i++ {
		p.Allocate(basicNote(100))
	}
	require.Equal(t, Capacity, p.ActiveVoices())
	require.Equal(t, int64(0), p.TotalStolen())
}

func TestPool_StealsOldestFirstWhenFull(t *testing.T) {
	p := New(OldestFirst, 1)
	var indices []int
	for i := 0; i < Capacity; i++ {
		indices = append(indices, p.Allocate(basicNote(100)))
		p.TickSum() // advance the sample clock so allocation order is distinguishable
	}

	stolenIdx := p.Allocate(basicNote(100))
	require.Equal(t, indices[0], stolenIdx, "the first-allocated voice should be the one stolen")
	require.Equal(t, int64(1), p.TotalStolen())
}

func TestPool_StealsLowestPriorityWhenFull(t *testing.T) {
	p := New(LowestPriority, 1)
	var quietIdx int
	for i := 0; i < Capacity; i++ {
		vel := 100
		if i == 5 {
			vel = 1
			quietIdx = i
		}
		idx := p.Allocate(basicNote(vel))
		require.Equal(t, i, idx)
	}
	_ = quietIdx

	stolen := p.Allocate(basicNote(100))
	require.Equal(t, 5, stolen, "the lowest-velocity voice should be stolen")
}

func TestPool_TickSumStaysWithinUnitRange(t *testing.T) {
	p := New(OldestFirst, 1)
	for i := 0; i < Capacity; i++ {
		p.Allocate(basicNote(127))
	}
	for i := 0; i < 1000; i++ {
		s := p.TickSum()
		require.LessOrEqual(t, s, float32(1.0))
		require.GreaterOrEqual(t, s, float32(-1.0))
	}
}

func TestPool_StealDefersReallocationAndReleasesVictimFirst(t *testing.T) {
	p := New(OldestFirst, 1)
	var indices []int
	for i := 0; i < Capacity; i++ {
		indices = append(indices, p.Allocate(basicNote(100)))
		p.TickSum()
	}

	stolenIdx := p.Allocate(basicNote(100))
	require.Equal(t, indices[0], stolenIdx)

	// One sample after the steal, the victim must be observed in
	// Release — not yet overwritten by the new note.
	p.TickSum()
	require.Equal(t, voice.Release, p.StageOf(stolenIdx))

	// The deferred allocation applies on the next tick, putting the
	// slot into the new note's Attack stage.
	p.TickSum()
	require.Equal(t, voice.Attack, p.StageOf(stolenIdx))
}

func TestPool_NoteOffTransitionsVoiceToReleaseThenIdle(t *testing.T) {
	p := New(OldestFirst, 1)
	idx := p.Allocate(basicNote(100))
	p.NoteOff(idx)

	for i := 0; i < int(0.3*44100); i++ {
		p.TickSum()
	}
	require.Equal(t, 0, p.ActiveVoices())
}
