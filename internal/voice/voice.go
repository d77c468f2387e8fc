package voice

import (
	"github.com/opus-assemble/sonicore/internal/algorithm"
	"github.com/opus-assemble/sonicore/internal/events"
	"github.com/opus-assemble/sonicore/internal/fx"
)

// Voice is one slot of the pool (C3): an algorithm, its phase state, an
// envelope, and an optional filter. A Voice is constructed once and reused
// across notes via Allocate, matching the teacher's fixed [4]*Channel
// array (never growing the channel slice at runtime).
type Voice struct {
	id int

	active        bool
	priority      int     // velocity at allocation time, used by LowestPriority stealing
	velocityScale float64 // priority/127, multiplied into every sample in Tick
	allocAt       int64   // absolute sample index at allocation, used by OldestFirst stealing

	kind            algorithm.Kind
	params          algorithm.Params
	noteDurationSec float64
	elapsedSamples  int64

	phase  *algorithm.PhaseState
	env    ADSR
	filter fx.OnePoleResonant

	// Effects chain stages. Each voice owns exactly one of each kind,
	// built once here and reconfigured (never reallocated) per note in
	// Allocate, so a 32-voice pool never grows its steady-state footprint
	// regardless of how many notes request reverb/chorus/delay.
	reverb *fx.Reverb
	chorus *fx.Chorus
	delay  *fx.Delay
	chain  []events.Effect // this note's active stages, in order
}

// NewVoice constructs an idle voice with a seeded phase state. id should be
// the voice's stable index within the pool; seed alone seeds the phase
// state's RNG, so callers pass a distinct seed per voice (the pool uses
// baseSeed+id).
func NewVoice(id int, seed uint64) *Voice {
	return &Voice{
		id:     id,
		phase:  algorithm.NewPhaseState(seed),
		reverb: fx.NewReverb(0),
		chorus: fx.NewChorus(0, 0, 0),
		delay:  fx.NewDelay(0, 0, 0),
	}
}

// AllocSpec bundles everything Allocate needs to start a new note on this
// voice.
type AllocSpec struct {
	Kind            algorithm.Kind
	Params          algorithm.Params
	Velocity        int // 0..127
	DurationSec     float64
	Attack          float64
	Decay           float64
	Sustain         float64
	Release         float64
	FilterKind      fx.FilterKind
	FilterCutoffHz  float64
	FilterResonance float64
	Effects         []events.Effect // ordered effect-chain stages for this note
	AllocatedAt     int64           // absolute sample index
}

// Allocate resets and starts this voice on a new note, overwriting
// whatever it was previously playing.
func (v *Voice) Allocate(spec AllocSpec) {
	v.active = true
	v.priority = spec.Velocity
	v.velocityScale = clamp01(float64(spec.Velocity) / 127.0)
	v.allocAt = spec.AllocatedAt
	v.kind = spec.Kind
	v.params = spec.Params
	v.params.Duration = spec.DurationSec
	v.noteDurationSec = spec.DurationSec
	v.elapsedSamples = 0

	v.env.Reset()
	v.env.AttackSec = spec.Attack
	v.env.DecaySec = spec.Decay
	v.env.SustainLvl = spec.Sustain
	v.env.ReleaseSec = spec.Release
	v.env.Gate()

	v.filter.Reset()
	v.filter.Kind = spec.FilterKind
	v.filter.CutoffHz = spec.FilterCutoffHz
	v.filter.Resonance = spec.FilterResonance

	v.reverb.Reset()
	v.reverb.Mix = 0
	v.chorus.Reset()
	v.chorus.Mix = 0
	v.delay.Reset()
	v.delay.Mix = 0
	v.chain = spec.Effects
	for _, e := range spec.Effects {
		switch e.Kind {
		case events.EffectReverb:
			v.reverb.Mix = clamp01(e.Intensity)
		case events.EffectChorus:
			v.chorus.Mix = clamp01(e.Intensity)
		case events.EffectDelay:
			v.delay.Configure(e.DelayTime*1000, 0.35, clamp01(e.Intensity))
		}
	}

	v.phase.Phase = 0
	v.phase.NoisePhase = 0
	v.phase.WavetablePhase = 0
	v.phase.LFOPhase = 0
	v.phase.Grains = v.phase.Grains[:0]
}

// NoteOff begins this voice's release stage without stopping it
// immediately; the voice keeps producing samples until the envelope
// reaches Idle.
func (v *Voice) NoteOff() {
	v.env.Release()
}

// Tick produces the voice's next sample (raw algorithm output, enveloped,
// filtered) and advances its internal clocks by one sample. It returns
// (sample, stillActive).
func (v *Voice) Tick() (float32, bool) {
	if !v.active {
		return 0, false
	}

	t := float64(v.elapsedSamples) / sampleRateHz
	v.elapsedSamples++

	raw := algorithm.Sample(v.kind, v.params, t, v.phase)
	level := v.env.Tick()
	sample := raw * float32(level) * float32(v.velocityScale)

	if v.filter.Kind != fx.None {
		sample = v.filter.Process(sample)
	}

	for _, e := range v.chain {
		switch e.Kind {
		case events.EffectReverb:
			sample = v.reverb.Process(sample)
		case events.EffectChorus:
			sample = v.chorus.Process(sample)
		case events.EffectDelay:
			sample = v.delay.Process(sample)
		}
	}

	if v.env.Done() {
		v.active = false
	}
	return sample, v.active
}

// Active reports whether this voice is currently producing sound
// (including Release-stage tails).
func (v *Voice) Active() bool { return v.active }

// Amplitude returns the voice's current envelope level, used by
// LowestVolume voice stealing.
func (v *Voice) Amplitude() float64 { return v.env.level }

// Priority returns the velocity this voice was allocated with, used by
// LowestPriority voice stealing.
func (v *Voice) Priority() int { return v.priority }

// AllocatedAt returns the absolute sample index this voice was allocated
// at, used by OldestFirst voice stealing.
func (v *Voice) AllocatedAt() int64 { return v.allocAt }

// Stage exposes the voice's envelope stage, for observability.
func (v *Voice) Stage() Stage { return v.env.CurrentStage() }

// ID returns this voice's stable pool index.
func (v *Voice) ID() int { return v.id }

// ForceRelease puts the voice into a short forced release instead of
// cutting it to silence, used when the pool steals this voice for a new
// note: the outgoing note fades over releaseSec rather than clicking, and
// stays observably active (Stage() == Release) until the pool's deferred
// reallocation actually overwrites it via Allocate.
func (v *Voice) ForceRelease(releaseSec float64) {
	v.env.ForceRelease(releaseSec)
}

// clamp01 restricts x to the 0..1 range.
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
