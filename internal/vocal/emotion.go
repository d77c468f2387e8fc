// Package vocal implements the robotic emotional vocalization voice
// (C4): a ring-modulated carrier/modulator pair shaped by a per-emotion
// preset table, rendered as a pure function of its inputs.
//
// Ring modulation is grounded on the teacher's Channel.ringModSource
// (audio_chip.go: "rawSample *= ch.ringModSource.prevRawSample") and
// SIDEngine.applyModulation (sid_engine.go), generalized from
// channel-to-channel modulation to a dedicated carrier/modulator pair.
// The emotion preset table is ported from original_source's
// R2D2Voice.emotion_presets (r2d2.rs).
package vocal

// Emotion enumerates the nine vocalization presets.
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

// Preset bundles one emotion's fixed synthesis character. PitchContour
// values are 0..1 multipliers into the caller-supplied pitch range, never
// absolute frequencies — carrying over the original's explicit comment
// that these are multipliers, not Hz values.
type Preset struct {
	CarrierFreqMin  float64
	CarrierFreqMax  float64
	ModulationDepth float64
	FormantShift    float64
	PitchContour    []float64
	HarmonicContent float64
	FilterResonance float64
	AttackSpeed     float64
}

var presets = map[Emotion]Preset{
	Happy: {
		CarrierFreqMin: 294, CarrierFreqMax: 587,
		ModulationDepth: 0.8, FormantShift: 1.3,
		PitchContour:    []float64{0.4, 0.8, 0.3, 0.9, 0.2, 0.7, 0.4, 0.85}, HarmonicContent: 0.9,
		FilterResonance: 0.5, AttackSpeed: 0.1,
	},
	Sad: {
		CarrierFreqMin: 100, CarrierFreqMax: 500,
		ModulationDepth: 0.3, FormantShift: 0.6,
		PitchContour:    []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1, 0.0}, HarmonicContent: 0.2,
		FilterResonance: 0.3, AttackSpeed: 0.05,
	},
	Excited: {
		CarrierFreqMin: 440, CarrierFreqMax: 880,
		ModulationDepth: 1.0, FormantShift: 1.6,
		PitchContour:    []float64{0.6, 1.0, 0.2, 0.9, 0.1, 1.0, 0.3, 0.8, 0.1, 0.95}, HarmonicContent: 1.2,
		FilterResonance: 0.7, AttackSpeed: 0.2,
	},
	Worried: {
		CarrierFreqMin: 174, CarrierFreqMax: 349,
		ModulationDepth: 0.6, FormantShift: 0.85,
		PitchContour:    []float64{0.5, 0.3, 0.7, 0.2, 0.6, 0.35, 0.55, 0.25}, HarmonicContent: 0.4,
		FilterResonance: 0.4, AttackSpeed: 0.1,
	},
	Curious: {
		CarrierFreqMin: 130, CarrierFreqMax: 520,
		ModulationDepth: 0.7, FormantShift: 1.2,
		PitchContour:    []float64{0.1, 0.15, 0.35, 0.65, 1.0}, HarmonicContent: 0.8,
		FilterResonance: 0.6, AttackSpeed: 0.15,
	},
	Affirmative: {
		CarrierFreqMin: 146, CarrierFreqMax: 233,
		ModulationDepth: 0.5, FormantShift: 1.1,
		PitchContour:    []float64{0.8, 0.85, 0.9, 0.85}, HarmonicContent: 0.7,
		FilterResonance: 0.5, AttackSpeed: 0.05,
	},
	Negative: {
		CarrierFreqMin: 110, CarrierFreqMax: 175,
		ModulationDepth: 0.4, FormantShift: 0.7,
		PitchContour:    []float64{0.7, 0.3, 0.1}, HarmonicContent: 0.3,
		FilterResonance: 0.3, AttackSpeed: 0.05,
	},
	Surprised: {
		CarrierFreqMin: 220, CarrierFreqMax: 880,
		ModulationDepth: 1.1, FormantShift: 1.5,
		PitchContour:    []float64{0.05, 0.95, 0.1, 0.8}, HarmonicContent: 1.0,
		FilterResonance: 0.8, AttackSpeed: 0.2,
	},
	Thoughtful: {
		CarrierFreqMin: 82, CarrierFreqMax: 164,
		ModulationDepth: 0.15, FormantShift: 0.7,
		PitchContour:    []float64{0.4, 0.6, 0.45, 0.65, 0.5, 0.35}, HarmonicContent: 0.25,
		FilterResonance: 0.2, AttackSpeed: 0.05,
	},
}

// PresetFor returns the fixed preset for e. Every Emotion value has an
// entry; there is no fallback case.
func PresetFor(e Emotion) Preset {
	return presets[e]
}
