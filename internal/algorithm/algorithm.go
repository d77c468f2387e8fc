// Package algorithm is the oscillator/algorithm bank (C1): pure functions
// that, given (algorithm, params, t, phase_state), produce one
// un-enveloped sample in approximately [-1, 1]. Every algorithm is
// deterministic given its params and an initial phase seed; noise sources
// draw from a per-voice seeded RNG, never global state.
//
// Generalizes the teacher's Channel.generateSample() waveform switch
// (audio_chip.go) from 4 hardware waveforms to the full 19-algorithm bank.
package algorithm

import (
	"math/rand/v2"
	"strings"
)

// Kind enumerates the 19 synthesis algorithms.
type Kind int

const (
	Sine Kind = iota
	Square
	Sawtooth
	Triangle
	Noise
	FM
	Wavetable
	Granular
	Kick
	Snare
	HiHat
	Cymbal
	Swoosh
	Zap
	Chime
	Burst
	Pad
	Texture
	Drone
)

var names = [...]string{
	"Sine", "Square", "Sawtooth", "Triangle", "Noise",
	"FM", "Wavetable", "Granular",
	"Kick", "Snare", "HiHat", "Cymbal",
	"Swoosh", "Zap", "Chime", "Burst",
	"Pad", "Texture", "Drone",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// ParseKind resolves a Kind by its String() name, case-insensitively. Used
// by sequence-file loaders so JSON/YAML documents can name an algorithm
// instead of carrying its raw integer.
func ParseKind(name string) (Kind, bool) {
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return Kind(i), true
		}
	}
	return 0, false
}

// NoiseColor selects the noise-generation spectrum for Kind Noise.
type NoiseColor int

const (
	White NoiseColor = iota
	Pink
	Brown
)

// FMOperator is one operator of a multi-operator FM voice, grounded on
// original_source's DX7Operator (frequency_ratio/output_level/detune/
// envelope). Every operator with OutputLevel > 0 participates in the sum —
// silently dropping a configured operator is a defect.
type FMOperator struct {
	FreqRatio   float64 `json:"freq_ratio"`   // multiplies the carrier/base frequency
	OutputLevel float64 `json:"output_level"` // 0..1
	Detune      float64 `json:"detune"`       // fine detune in Hz, added to FreqRatio*f
	FeedbackLvl float64 `json:"feedback_lvl"` // self-feedback amount, 0..1
}

// DX7Algorithm selects how configured operators combine.
type DX7Algorithm int

const (
	OperatorsCarrierSum DX7Algorithm = iota // all operators sum directly to output
	OperatorsCascade                        // operators modulate the next in series, last is carrier
)

// Params bundles every knob any of the 19 algorithms reads. Only the
// fields relevant to the active Kind are meaningful, mirroring the
// teacher's single Channel struct carrying fields for every waveform.
// Fields left at their zero value fall back to the documented default for
// that algorithm.
type Params struct {
	Frequency float64 `json:"frequency,omitempty"` // Hz, the base/carrier frequency "f"
	Duration  float64 `json:"duration,omitempty"`  // seconds, the note's nominal duration (for duration-relative sweeps)

	// Square
	PulseWidth float64 `json:"pulse_width,omitempty"` // default 0.5, clamped to [0.05, 0.95]

	// Noise
	Color NoiseColor `json:"color,omitempty"`

	// FM (2-operator)
	ModulatorFreq   float64 `json:"modulator_freq,omitempty"`
	ModulationIndex float64 `json:"modulation_index,omitempty"`

	// DX7FM (multi-operator)
	DX7Algo   DX7Algorithm `json:"dx7_algo,omitempty"`
	Operators []FMOperator `json:"operators,omitempty"`

	// Wavetable
	Position   float64 `json:"position,omitempty"`    // 0..1, selects stage pair sine->tri->saw->square
	MorphSpeed float64 `json:"morph_speed,omitempty"` // Hz, LFO rate driving Position

	// Granular
	GrainSize      float64 `json:"grain_size,omitempty"` // seconds
	Density        float64 `json:"density,omitempty"`    // grains/sec
	PitchCoherence float64 `json:"pitch_coherence,omitempty"` // 0..1, default 0.8
	Spread         float64 `json:"spread,omitempty"`          // epsilon spread for detuned grains
	Overlap        float64 `json:"overlap,omitempty"`         // spawn jitter control

	// Kick
	Punch     float64 `json:"punch,omitempty"`
	Sustain   float64 `json:"sustain,omitempty"`
	ClickFreq float64 `json:"click_freq,omitempty"`
	BodyFreq  float64 `json:"body_freq,omitempty"`

	// Snare
	Snap        float64 `json:"snap,omitempty"`
	Buzz        float64 `json:"buzz,omitempty"`
	ToneFreq    float64 `json:"tone_freq,omitempty"`
	NoiseAmount float64 `json:"noise_amount,omitempty"`

	// HiHat
	Metallic   float64 `json:"metallic,omitempty"`
	Decay      float64 `json:"decay,omitempty"`
	Brightness float64 `json:"brightness,omitempty"`

	// Cymbal
	Size            float64 `json:"size,omitempty"`
	StrikeIntensity float64 `json:"strike_intensity,omitempty"`

	// Swoosh
	Direction   float64 `json:"direction,omitempty"` // -1..1
	Intensity   float64 `json:"intensity,omitempty"`
	SweepFromHz float64 `json:"sweep_from_hz,omitempty"`
	SweepToHz   float64 `json:"sweep_to_hz,omitempty"`

	// Zap
	Energy          float64 `json:"energy,omitempty"`
	HarmonicContent float64 `json:"harmonic_content,omitempty"`

	// Chime
	Fundamental   float64 `json:"fundamental,omitempty"`
	HarmonicCount int     `json:"harmonic_count,omitempty"`
	Inharmonicity float64 `json:"inharmonicity,omitempty"`

	// Burst
	CenterFreq float64 `json:"center_freq,omitempty"`
	Bandwidth  float64 `json:"bandwidth,omitempty"`
	Shape      float64 `json:"shape,omitempty"` // 0=Gaussian .. 1=exponential

	// Pad
	Warmth            float64 `json:"warmth,omitempty"`
	Movement          float64 `json:"movement,omitempty"`
	Space             float64 `json:"space,omitempty"`
	HarmonicEvolution float64 `json:"harmonic_evolution,omitempty"`

	// Texture
	Roughness    float64 `json:"roughness,omitempty"`
	Evolution    float64 `json:"evolution,omitempty"`
	SpectralTilt float64 `json:"spectral_tilt,omitempty"`

	// Drone
	OvertoneSpread float64 `json:"overtone_spread,omitempty"`
	Modulation     float64 `json:"modulation,omitempty"`
}

// PhaseState carries per-voice oscillator memory between samples: phase
// accumulators, filter/noise state, the grain cloud, and a private RNG so
// noise is reproducible under replay (spec.md §5 "RNGs: per-voice, seeded").
type PhaseState struct {
	Rng *rand.Rand

	Phase      float64 // radians, 0..2pi
	NoisePhase float64
	NoiseSR    uint32 // LFSR state, grounded on the teacher's 23-bit generator
	PinkState  [7]float64
	BrownState float64

	WavetablePhase float64
	LFOPhase       float64

	OperatorPhase [6]float64
	OperatorEnv   [6]float64

	Grains []grain

	NoiseFilterState float64
}

// NewPhaseState returns a freshly seeded PhaseState. seed should be unique
// per voice allocation for reproducible-but-independent noise streams.
func NewPhaseState(seed uint64) *PhaseState {
	return &PhaseState{
		Rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		NoiseSR: 0x7FFFFF,
	}
}

// Sample produces one un-enveloped sample at t_local seconds since
// note-on for the given algorithm and params, advancing ph in place.
func Sample(kind Kind, p Params, t float64, ph *PhaseState) float32 {
	switch kind {
	case Sine:
		return sineSample(p, ph)
	case Square:
		return squareSample(p, ph)
	case Sawtooth:
		return sawtoothSample(p, ph)
	case Triangle:
		return triangleSample(p, ph)
	case Noise:
		return noiseSample(p, ph)
	case FM:
		return fmSample(p, t, ph)
	case Wavetable:
		return wavetableSample(p, ph)
	case Granular:
		return granularSample(p, t, ph)
	case Kick:
		return kickSample(p, t)
	case Snare:
		return snareSample(p, t, ph)
	case HiHat:
		return hihatSample(p, t, ph)
	case Cymbal:
		return cymbalSample(p, t, ph)
	case Swoosh:
		return swooshSample(p, t, ph)
	case Zap:
		return zapSample(p, t, ph)
	case Chime:
		return chimeSample(p, t, ph)
	case Burst:
		return burstSample(p, t, ph)
	case Pad:
		return padSample(p, t, ph)
	case Texture:
		return textureSample(p, t, ph)
	case Drone:
		return droneSample(p, t, ph)
	default:
		return 0
	}
}
