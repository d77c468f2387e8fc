package algorithm

import "math"

// kickSample is a dual-component kick drum. The body sweeps from ~4x
// body_freq down to body_freq over roughly 200ms; the click is a brief
// high-frequency tick in the first 50ms. Deterministic given t, so it
// needs no phase state.
func kickSample(p Params, t float64) float32 {
	bodyFreq := p.BodyFreq
	if bodyFreq <= 0 {
		bodyFreq = 60
	}
	clickFreq := p.ClickFreq
	if clickFreq <= 0 {
		clickFreq = 2000
	}

	pitch := bodyFreq * (1 + 3*math.Exp(-15*t))
	bodyEnv := math.Exp(-t * (3 + p.Sustain*5))
	body := math.Sin(twoPi*pitch*t) * bodyEnv

	var click float64
	if t < 0.05 {
		click = math.Sin(twoPi*clickFreq*t) * math.Exp(-20*p.Punch*t)
	}

	return float32(body*0.8 + click*0.2)
}

// snareSample combines a tone, a buzz component amplitude-modulated by
// low-frequency noise, and white noise, with a fast attack and
// snap-controlled decay.
func snareSample(p Params, t float64, ph *PhaseState) float32 {
	toneFreq := p.ToneFreq
	if toneFreq <= 0 {
		toneFreq = 200
	}
	snap := p.Snap
	if snap <= 0 {
		snap = 0.5
	}
	noiseAmount := p.NoiseAmount
	if noiseAmount == 0 {
		noiseAmount = 0.6
	}
	buzz := p.Buzz
	if buzz == 0 {
		buzz = 0.5
	}

	attack := math.Min(1, t/0.001)
	decay := math.Exp(-t * (4 + snap*10))
	env := attack * decay

	tone := math.Sin(twoPi * toneFreq * t)

	lowFreqNoise := math.Sin(twoPi * 20 * t)
	buzzTone := math.Sin(twoPi*2.5*toneFreq*t) * (0.5 + 0.5*lowFreqNoise)

	white := ph.Rng.Float64()*2 - 1

	s := (1-noiseAmount)*tone + buzz*buzzTone + noiseAmount*white
	return float32(s * env)
}

var hihatRatios = [...]float64{1, math.Sqrt2, math.Sqrt(3), 2, 3}

// hihatSample layers metallic harmonics with band-passed noise; Decay
// controls the overall envelope and Brightness scales the higher
// harmonics' contribution.
func hihatSample(p Params, t float64, ph *PhaseState) float32 {
	decay := p.Decay
	if decay <= 0 {
		decay = 0.1
	}
	brightness := p.Brightness
	if brightness == 0 {
		brightness = 0.6
	}
	freq := p.Frequency
	if freq <= 0 {
		freq = 5000
	}

	env := math.Exp(-t / decay)

	var harmonics float64
	for i, ratio := range hihatRatios {
		weight := 1.0 / float64(i+1)
		if i > 1 {
			weight *= brightness
		}
		harmonics += weight * math.Sin(twoPi*freq*ratio*t)
	}

	white := ph.Rng.Float64()*2 - 1
	ph.NoiseFilterState = 0.7*ph.NoiseFilterState + 0.3*white
	bandpassed := white - ph.NoiseFilterState

	s := 0.5*harmonics/float64(len(hihatRatios)) + 0.5*bandpassed
	return float32(s * env)
}

var cymbalRatios = [...]float64{1, 1.593, 2.135, math.E, math.Pi, 4.236}

// cymbalSample sums six inharmonic partials with a 4Hz shimmer LFO;
// Size stretches the decay, StrikeIntensity scales the initial transient.
func cymbalSample(p Params, t float64, ph *PhaseState) float32 {
	size := p.Size
	if size <= 0 {
		size = 1
	}
	strike := p.StrikeIntensity
	if strike == 0 {
		strike = 0.8
	}
	fundamental := p.Frequency
	if fundamental <= 0 {
		fundamental = 300
	}

	decayTime := 0.5 + size*2
	env := math.Exp(-t / decayTime)

	shimmer := 1 + 0.1*math.Sin(twoPi*4*t)

	var sum float64
	for _, ratio := range cymbalRatios {
		sum += math.Sin(twoPi * fundamental * ratio * shimmer * t)
	}
	sum /= float64(len(cymbalRatios))

	transient := 0.0
	if t < 0.01 {
		transient = strike * (ph.Rng.Float64()*2 - 1) * (1 - t/0.01)
	}

	return float32(sum*env + transient)
}
