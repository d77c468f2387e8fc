package vocal

import (
	"math"

	"github.com/opus-assemble/sonicore/internal/fx"
)

const sampleRateHz = 44100.0

// Request bundles everything Render needs; it carries no hidden state, so
// Render is a pure function of Request (modulo a caller-supplied RNG seed
// this voice does not need — no noise source is used).
type Request struct {
	Emotion       Emotion
	Intensity     float64 // 0..1
	Complexity    int     // 1..5 syllables
	DurationSec   float64
	PitchRangeMin float64 // Hz
	PitchRangeMax float64 // Hz
}

// Render synthesizes the full multi-syllable phrase for req and returns
// its samples. Intensity scales only modulation depth and per-syllable
// envelope amplitude; it never touches the pitch contour's mapping into
// pitch_range, per the decision recorded for this synthesizer (the
// original implementation's base_freq/intensity coupling is not carried
// over — pitch is driven purely by contour position and pitch_range).
func Render(req Request) []float32 {
	preset := PresetFor(req.Emotion)

	syllables := req.Complexity
	if syllables < 1 {
		syllables = 1
	}

	// Total length must equal req.DurationSec regardless of emotion or
	// complexity, so syllables split it evenly rather than each claiming
	// a preset-scaled share.
	syllableDuration := req.DurationSec / float64(syllables)

	var out []float32
	for i := 0; i < syllables; i++ {
		intensityVariation := 0.1 * (float64(i)/float64(syllables) - 0.5)
		syllableIntensity := clamp01(req.Intensity + intensityVariation)

		out = append(out, renderSyllable(preset, syllableIntensity, syllableDuration, req.PitchRangeMin, req.PitchRangeMax)...)
	}

	// Rounding req.DurationSec/syllables to whole samples per syllable can
	// drift the total away from round(req.DurationSec*sampleRateHz) by a
	// few samples; pad or trim the last syllable's tail so the returned
	// buffer matches exactly (±1 for the same half-sample rounding every
	// other duration conversion in this module uses).
	want := int(math.Round(req.DurationSec * sampleRateHz))
	if len(out) > want {
		out = out[:want]
	} else if len(out) < want {
		out = append(out, make([]float32, want-len(out))...)
	}
	return out
}

func renderSyllable(preset Preset, intensity, durationSec, pitchMin, pitchMax float64) []float32 {
	if durationSec <= 0 {
		return nil
	}
	n := int(durationSec * sampleRateHz)
	samples := make([]float32, n)

	depth := clamp01(preset.ModulationDepth * intensity)
	modulatorRatio := 2.0 + preset.HarmonicContent

	formant := &fx.OnePoleResonant{
		Kind:      fx.BandPass,
		CutoffHz:  800 * preset.FormantShift,
		Resonance: preset.FilterResonance,
	}

	attackSec := math.Max(preset.AttackSpeed*durationSec, 1.0/sampleRateHz)
	releaseSec := math.Max(durationSec*0.15, 1.0/sampleRateHz)
	sustainSec := durationSec - attackSec - releaseSec
	if sustainSec < 0 {
		sustainSec = 0
	}

	for i := 0; i < n; i++ {
		t := float64(i) / sampleRateHz
		frac := t / durationSec

		freq := contourFreq(preset.PitchContour, frac, pitchMin, pitchMax)

		carrier := math.Sin(2 * math.Pi * freq * t)
		modulator := math.Sin(2 * math.Pi * freq * modulatorRatio * t)
		ringModulated := carrier * modulator

		raw := carrier*(1-depth) + ringModulated*depth

		env := envelopeAt(t, attackSec, sustainSec, releaseSec) * intensity

		s := float32(raw * env)
		samples[i] = formant.Process(s)
	}
	return samples
}

// contourFreq linearly interpolates contour at fractional position frac
// (0..1 across the syllable) and maps the resulting 0..1 multiplier into
// [pitchMin, pitchMax].
func contourFreq(contour []float64, frac float64, pitchMin, pitchMax float64) float64 {
	if len(contour) == 0 {
		return (pitchMin + pitchMax) / 2
	}
	if len(contour) == 1 {
		return pitchMin + (pitchMax-pitchMin)*contour[0]
	}
	pos := frac * float64(len(contour)-1)
	i0 := int(pos)
	if i0 >= len(contour)-1 {
		return pitchMin + (pitchMax-pitchMin)*contour[len(contour)-1]
	}
	i1 := i0 + 1
	localFrac := pos - float64(i0)
	c := contour[i0]*(1-localFrac) + contour[i1]*localFrac
	return pitchMin + (pitchMax-pitchMin)*c
}

// envelopeAt is a simple linear attack/sustain/release shape local to this
// renderer; it does not reuse voice.ADSR because the phrase is rendered
// offline in one pass rather than ticked sample-by-sample by a live voice.
func envelopeAt(t, attack, sustain, release float64) float64 {
	switch {
	case t < attack:
		if attack <= 0 {
			return 1
		}
		return t / attack
	case t < attack+sustain:
		return 1
	default:
		releaseT := t - attack - sustain
		if release <= 0 {
			return 0
		}
		return math.Max(0, 1-releaseT/release)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
