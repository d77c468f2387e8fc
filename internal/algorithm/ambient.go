package algorithm

import "math"

// padSample sums eight harmonics of f with slowly evolving gains driven by
// a HarmonicEvolution LFO; Warmth low-passes the result and Movement
// modulates individual harmonic gains. Space nudges the upper harmonics to
// sound airier (the actual reverb send lives in the effects chain, not
// here — see internal/fx).
func padSample(p Params, t float64, ph *PhaseState) float32 {
	f := p.Frequency
	if f <= 0 {
		f = 220
	}
	evoRate := p.HarmonicEvolution
	if evoRate <= 0 {
		evoRate = 0.1
	}
	warmth := p.Warmth
	movement := p.Movement
	space := p.Space

	var sum float64
	const harmonics = 8
	for n := 1; n <= harmonics; n++ {
		gain := 1.0 / float64(n)
		if movement > 0 {
			gain *= 0.8 + 0.2*math.Sin(twoPi*evoRate*t+float64(n))
		}
		if space > 0 && n > 4 {
			gain *= 1 + 0.15*space
		}
		sum += gain * math.Sin(twoPi*f*float64(n)*t)
	}
	sum /= harmonics

	if warmth > 0 {
		coeff := math.Exp(-twoPi * (2000 - 1500*warmth) / sampleRateHz)
		ph.NoiseFilterState = coeff*ph.NoiseFilterState + (1-coeff)*sum
		sum = ph.NoiseFilterState
	}

	return float32(sum)
}

// textureSample blends a small oscillator stack with noise, weighted by
// SpectralTilt (>0 brightens, <0 darkens); Roughness adds amplitude
// modulation and Evolution slowly drifts the blend over time.
func textureSample(p Params, t float64, ph *PhaseState) float32 {
	f := p.Frequency
	if f <= 0 {
		f = 150
	}
	tilt := p.SpectralTilt
	roughness := p.Roughness
	evolution := p.Evolution
	if evolution == 0 {
		evolution = 0.05
	}

	drift := 0.5 + 0.5*math.Sin(twoPi*evolution*t)
	osc := math.Sin(twoPi*f*t) + 0.5*math.Sin(twoPi*f*2*t)*(0.5+0.5*tilt)
	white := ph.Rng.Float64()*2 - 1

	mix := drift*osc + (1-drift)*white

	if roughness > 0 {
		am := 1 + roughness*math.Sin(twoPi*30*t)
		mix *= am
	}

	return float32(mix * 0.6)
}

// droneSample sums a fundamental with detuned overtones (spread by
// OvertoneSpread) and a slow Modulation LFO on both pitch and amplitude.
func droneSample(p Params, t float64, ph *PhaseState) float32 {
	f := p.Frequency
	if f <= 0 {
		f = 110
	}
	spread := p.OvertoneSpread
	modRate := p.Modulation
	if modRate <= 0 {
		modRate = 0.2
	}

	lfo := math.Sin(twoPi * modRate * t)
	pitchMod := 1 + 0.005*lfo
	ampMod := 0.85 + 0.15*lfo

	const overtones = 3
	var sum float64
	for n := 0; n <= overtones; n++ {
		detune := 1 + spread*float64(n)*0.002
		sum += math.Sin(twoPi*f*float64(n+1)*pitchMod*detune*t) / float64(n+1)
	}
	sum /= overtones + 1

	_ = ph
	return float32(sum * ampMod)
}
