// Package voicepool implements the fixed-capacity polyphonic voice pool
// (C3): 32 pre-constructed voices, allocated to new notes and, once full,
// stolen from an existing voice according to a configurable strategy.
//
// Generalizes the teacher's fixed [4]*Channel array (audio_chip.go) —
// constructed once at startup, never resized — to a 32-voice pool with
// the statistics surface `sid_engine.go`'s register bookkeeping shows.
package voicepool

import (
	"math"
	"sync"

	"github.com/opus-assemble/sonicore/internal/algorithm"
	"github.com/opus-assemble/sonicore/internal/events"
	"github.com/opus-assemble/sonicore/internal/fx"
	"github.com/opus-assemble/sonicore/internal/voice"
)

// Capacity is the pool's fixed polyphony ceiling.
const Capacity = 32

// stealReleaseSec is the forced release time applied to a stolen voice,
// per spec: 5ms is long enough to avoid an audible click but short
// enough that the outgoing note is inaudible by the time it would
// otherwise have decayed naturally.
const stealReleaseSec = 0.005

// StealStrategy selects which active voice is sacrificed when the pool is
// full and a new note needs a slot.
type StealStrategy int

const (
	OldestFirst StealStrategy = iota
	LowestPriority
	LowestVolume
)

// pendingAlloc is a steal-triggered allocation deferred by one sample so
// the stolen voice is observably in Release before it is overwritten.
type pendingAlloc struct {
	spec    voice.AllocSpec
	readyAt int64
}

// Pool owns Capacity pre-allocated voices and never allocates a new one
// at steady state.
type Pool struct {
	mu       sync.RWMutex
	voices   [Capacity]*voice.Voice
	strategy StealStrategy
	pending  map[int]pendingAlloc

	totalAllocated int64
	totalStolen    int64
	sampleClock    int64
}

// New constructs a pool with all voices idle, seeded for reproducible
// per-voice noise.
func New(strategy StealStrategy, baseSeed uint64) *Pool {
	p := &Pool{strategy: strategy, pending: make(map[int]pendingAlloc)}
	for i := range p.voices {
		p.voices[i] = voice.NewVoice(i, baseSeed+uint64(i))
	}
	return p
}

// NoteSpec is everything the pool needs to start a new note on some voice.
type NoteSpec struct {
	Kind            algorithm.Kind
	Params          algorithm.Params
	Velocity        int
	DurationSec     float64
	Attack          float64
	Decay           float64
	Sustain         float64
	Release         float64
	FilterKind      fx.FilterKind
	FilterCutoffHz  float64
	FilterResonance float64
	Effects         []events.Effect
}

// Allocate finds an idle voice and starts spec on it immediately, or, if
// every voice is active, steals one per the pool's strategy: the victim
// is forced into a 5ms release right away, but spec is not actually
// applied to the slot until the first TickSum call whose sample clock
// has moved past the steal's sample (the second TickSum after this call), so
// the victim is observably in Release for exactly one sample before the
// new note takes over. Either way it returns the voice's stable pool
// index immediately.
func (p *Pool) Allocate(spec NoteSpec) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	as := voice.AllocSpec{
		Kind:            spec.Kind,
		Params:          spec.Params,
		Velocity:        spec.Velocity,
		DurationSec:     spec.DurationSec,
		Attack:          spec.Attack,
		Decay:           spec.Decay,
		Sustain:         spec.Sustain,
		Release:         spec.Release,
		FilterKind:      spec.FilterKind,
		FilterCutoffHz:  spec.FilterCutoffHz,
		FilterResonance: spec.FilterResonance,
		Effects:         spec.Effects,
	}

	idx := p.findIdle()
	if idx >= 0 {
		as.AllocatedAt = p.sampleClock
		p.voices[idx].Allocate(as)
		p.totalAllocated++
		return idx
	}

	idx = p.steal()
	p.totalStolen++
	as.AllocatedAt = p.sampleClock + 1
	p.pending[idx] = pendingAlloc{spec: as, readyAt: p.sampleClock + 1}
	p.totalAllocated++
	return idx
}

func (p *Pool) findIdle() int {
	for i, v := range p.voices {
		if !v.Active() {
			return i
		}
	}
	return -1
}

// steal picks a victim voice under the pool's configured strategy and
// forces it into a short release instead of cutting it to silence.
// Voices already holding a steal-deferred allocation are excluded from
// candidacy: their Active()/AllocatedAt()/Priority() won't reflect the
// pending note until TickSum applies it, so without this exclusion every
// steal that lands in the same sample would pick the same victim.
// Callers must hold p.mu.
func (p *Pool) steal() int {
	idx := -1
	switch p.strategy {
	case LowestPriority:
		best := math.MaxInt
		for i, v := range p.voices {
			if _, pending := p.pending[i]; pending {
				continue
			}
			if v.Priority() < best {
				best, idx = v.Priority(), i
			}
		}
	case LowestVolume:
		best := math.MaxFloat64
		for i, v := range p.voices {
			if _, pending := p.pending[i]; pending {
				continue
			}
			if a := v.Amplitude(); a < best {
				best, idx = a, i
			}
		}
	default: // OldestFirst
		best := int64(math.MaxInt64)
		for i, v := range p.voices {
			if _, pending := p.pending[i]; pending {
				continue
			}
			if v.AllocatedAt() < best {
				best, idx = v.AllocatedAt(), i
			}
		}
	}
	if idx < 0 {
		// Every voice already has a pending steal-reallocation in this
		// same sample (more than 2x Capacity simultaneous note-ons); fall
		// back to overwriting the first pending slot rather than
		// panicking on an unselected victim.
		idx = 0
	}
	p.voices[idx].ForceRelease(stealReleaseSec)
	return idx
}

// NoteOff begins the release stage of the voice at idx, if it is still
// the same allocation (callers track idx -> note identity themselves).
func (p *Pool) NoteOff(idx int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if idx < 0 || idx >= Capacity {
		return
	}
	p.voices[idx].NoteOff()
}

// TickSum applies any steal-deferred allocation whose one-sample wait has
// elapsed, advances every active voice by one sample, sums their outputs,
// and applies a soft clip (tanh) so summing many voices never produces a
// hard clip. Advances the pool's internal sample clock for OldestFirst
// bookkeeping.
func (p *Pool) TickSum() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()

	for idx, pa := range p.pending {
		if pa.readyAt <= p.sampleClock {
			p.voices[idx].Allocate(pa.spec)
			delete(p.pending, idx)
		}
	}

	var sum float64
	for _, v := range p.voices {
		s, _ := v.Tick()
		sum += float64(s)
	}
	p.sampleClock++
	return float32(math.Tanh(sum))
}

// ActiveVoices returns the count of voices currently producing sound
// (including Release-stage tails).
func (p *Pool) ActiveVoices() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := 0
	for _, v := range p.voices {
		if v.Active() {
			n++
		}
	}
	return n
}

// StageOf returns the envelope stage of the voice at idx, for
// observability (e.g. confirming a stolen voice spends its deferred
// sample in Release before reallocation).
func (p *Pool) StageOf(idx int) voice.Stage {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if idx < 0 || idx >= Capacity {
		return voice.Idle
	}
	return p.voices[idx].Stage()
}

// VoicesByState returns a count of active voices per envelope stage.
func (p *Pool) VoicesByState() map[voice.Stage]int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := map[voice.Stage]int{}
	for _, v := range p.voices {
		if v.Active() {
			out[v.Stage()]++
		}
	}
	return out
}

// TotalStolen returns the lifetime count of voice-steal events.
func (p *Pool) TotalStolen() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.totalStolen
}

// TotalAllocated returns the lifetime count of note allocations
// (including those that triggered a steal).
func (p *Pool) TotalAllocated() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.totalAllocated
}
