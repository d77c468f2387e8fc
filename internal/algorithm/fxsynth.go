package algorithm

import "math"

// swooshSample band-passes noise around a center frequency that sweeps
// from SweepFromHz to SweepToHz over the note's Duration; Direction
// inverts the sweep and Intensity scales the amplitude envelope.
func swooshSample(p Params, t float64, ph *PhaseState) float32 {
	from, to := p.SweepFromHz, p.SweepToHz
	if from <= 0 {
		from = 200
	}
	if to <= 0 {
		to = 2000
	}
	if p.Direction < 0 {
		from, to = to, from
	}

	dur := p.Duration
	if dur <= 0 {
		dur = 1
	}
	progress := t / dur
	if progress > 1 {
		progress = 1
	}
	centerFreq := from + (to-from)*progress

	intensity := p.Intensity
	if intensity == 0 {
		intensity = 0.7
	}
	env := intensity * math.Sin(math.Pi*progress) // rises and falls across the note

	white := ph.Rng.Float64()*2 - 1
	// One-pole bandpass around centerFreq via a simple leaky difference.
	coeff := math.Exp(-twoPi * centerFreq / sampleRateHz)
	ph.NoiseFilterState = coeff*ph.NoiseFilterState + (1-coeff)*white
	bandpassed := white - ph.NoiseFilterState

	return float32(bandpassed * env)
}

// zapSample is an aggressive sci-fi zap: a sweeping fundamental plus two
// inharmonic overtones, mixed against a chaotic noise burst whose share of
// the output grows with Energy.
func zapSample(p Params, t float64, ph *PhaseState) float32 {
	energy := p.Energy
	if energy == 0 {
		energy = 0.7
	}
	f := p.Frequency
	if f <= 0 {
		f = 800
	}

	sweepFactor := 1 + energy*(2*t-1)
	if sweepFactor < 0.3 {
		sweepFactor = 0.3
	}
	curFreq := f * sweepFactor

	fundamental := math.Sin(twoPi * curFreq * t)
	overtone1 := math.Sin(twoPi * curFreq * 2.3 * t)
	overtone2 := math.Sin(twoPi * curFreq * 3.7 * t)
	harmonicSum := (fundamental + 0.5*overtone1 + 0.33*overtone2) / 1.83

	chaosMod := math.Sin(twoPi * curFreq * 7.1 * t)
	white := ph.Rng.Float64()*2 - 1
	noise := white * (0.5 + 0.5*chaosMod)

	env := math.Exp(-25 * energy * t)
	chaos := 0.3 * energy

	s := (harmonicSum*(1-chaos) + noise*chaos*env) * env * energy
	return float32(s)
}

// chimeSample sums HarmonicCount inharmonic partials (integer ratios
// stretched by Inharmonicity), each with its own independent exponential
// decay so higher partials die out faster.
func chimeSample(p Params, t float64, ph *PhaseState) float32 {
	fundamental := p.Fundamental
	if fundamental <= 0 {
		fundamental = p.Frequency
	}
	if fundamental <= 0 {
		fundamental = 440
	}
	count := p.HarmonicCount
	if count <= 0 {
		count = 6
	}
	decay := p.Decay
	if decay <= 0 {
		decay = 2
	}
	inharm := p.Inharmonicity

	var sum float64
	for n := 1; n <= count; n++ {
		ratio := float64(n) * (1 + inharm*float64(n-1)*float64(n-1))
		partialDecay := decay / float64(n)
		env := math.Exp(-t / partialDecay)
		sum += env * math.Sin(twoPi*fundamental*ratio*t) / float64(n)
	}
	_ = ph
	return float32(sum)
}

// burstSample is a noise burst band-limited around CenterFreq with
// Bandwidth, shaped either Gaussian (Shape=0) or exponentially (Shape=1).
func burstSample(p Params, t float64, ph *PhaseState) float32 {
	center := p.CenterFreq
	if center <= 0 {
		center = 1000
	}
	bandwidth := p.Bandwidth
	if bandwidth <= 0 {
		bandwidth = 500
	}
	intensity := p.Intensity
	if intensity == 0 {
		intensity = 1
	}
	dur := p.Duration
	if dur <= 0 {
		dur = 0.3
	}

	white := ph.Rng.Float64()*2 - 1
	coeff := math.Exp(-twoPi * bandwidth / sampleRateHz)
	ph.NoiseFilterState = coeff*ph.NoiseFilterState + (1-coeff)*white
	modulated := ph.NoiseFilterState * math.Cos(twoPi*center*t)

	var env float64
	if p.Shape >= 0.5 {
		env = math.Exp(-4 * t / dur)
	} else {
		x := (t - dur/2) / (dur / 4)
		env = math.Exp(-x * x)
	}

	return float32(modulated * env * intensity)
}
