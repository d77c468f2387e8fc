// Package voice implements a single polyphonic voice (C2): an ADSR
// envelope driving one algorithm.Sample call per tick, through an
// optional per-voice fx.OnePoleResonant filter.
//
// Generalizes the teacher's Channel.updateEnvelope/generateSample pair
// (audio_chip.go) from a fixed linear-in-samples envelope to the spec's
// exponential-decay/release envelope, and from a hardware waveform switch
// to the full algorithm.Kind bank.
package voice

import "math"

// Stage is the envelope's current phase.
type Stage int

const (
	Idle Stage = iota
	Attack
	Decay
	Sustain
	Release
)

func (s Stage) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Attack:
		return "Attack"
	case Decay:
		return "Decay"
	case Sustain:
		return "Sustain"
	case Release:
		return "Release"
	default:
		return "Unknown"
	}
}

// ADSR tracks one voice's envelope. Attack is linear (matching the
// teacher's default ENV_ATTACK ramp); Decay and Release are exponential,
// approaching their target level with a time constant derived from the
// configured time so the curve never produces the teacher's audible
// linear "ramp-off" click.
type ADSR struct {
	AttackSec  float64
	DecaySec   float64
	SustainLvl float64 // 0..1
	ReleaseSec float64

	stage Stage
	level float64
}

const sampleRateHz = 44100.0

// minEnvTimeSec mirrors the teacher's MIN_ENV_TIME floor: a zero-length
// stage still takes at least one sample so the envelope never divides by
// zero or pops.
const minEnvTimeSec = 1.0 / sampleRateHz

// Gate starts the envelope's Attack stage (note-on).
func (e *ADSR) Gate() {
	e.stage = Attack
}

// Release starts the envelope's Release stage (note-off), carrying
// forward whatever level the envelope is currently at so release never
// jumps.
func (e *ADSR) Release() {
	if e.stage == Idle {
		return
	}
	e.stage = Release
}

// ForceRelease overrides the release time and starts Release immediately,
// regardless of current stage (including Idle). Used when a voice is
// stolen for a new note: it must decay audibly instead of cutting to
// silence, so the pool can observe it in Release before reallocating the
// slot.
func (e *ADSR) ForceRelease(releaseSec float64) {
	e.ReleaseSec = releaseSec
	e.stage = Release
}

// CurrentStage reports the envelope's current phase.
func (e *ADSR) CurrentStage() Stage { return e.stage }

// Done reports whether the envelope has finished releasing.
func (e *ADSR) Done() bool { return e.stage == Idle }

// Tick advances the envelope by one sample and returns its level in 0..1.
func (e *ADSR) Tick() float64 {
	switch e.stage {
	case Attack:
		at := math.Max(e.AttackSec, minEnvTimeSec)
		e.level += 1.0 / (at * sampleRateHz)
		if e.level >= 1.0 {
			e.level = 1.0
			e.stage = Decay
		}
	case Decay:
		dt := math.Max(e.DecaySec, minEnvTimeSec)
		coeff := math.Exp(-1.0 / (dt * sampleRateHz))
		e.level = e.SustainLvl + (e.level-e.SustainLvl)*coeff
		if math.Abs(e.level-e.SustainLvl) < 1e-4 {
			e.level = e.SustainLvl
			e.stage = Sustain
		}
	case Sustain:
		e.level = e.SustainLvl
	case Release:
		rt := math.Max(e.ReleaseSec, minEnvTimeSec)
		coeff := math.Exp(-1.0 / (rt * sampleRateHz))
		e.level *= coeff
		if e.level < 1e-4 {
			e.level = 0
			e.stage = Idle
		}
	case Idle:
		e.level = 0
	}
	return e.level
}

// Reset returns the envelope to Idle with zero level, for voice reuse.
func (e *ADSR) Reset() {
	e.stage = Idle
	e.level = 0
}
