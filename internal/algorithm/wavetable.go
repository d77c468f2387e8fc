package algorithm

import "math"

// wavetableStages are the four waveform shapes wavetableSample morphs
// between. Package-scope so a steady-state Tick never allocates a
// closure slice per sample.
var wavetableStages = [4]func(*PhaseState) float64{
	func(s *PhaseState) float64 { return math.Sin(s.WavetablePhase) },
	func(s *PhaseState) float64 {
		frac := s.WavetablePhase / twoPi
		return 2*math.Abs(2*frac-1) - 1
	},
	func(s *PhaseState) float64 {
		frac := s.WavetablePhase / twoPi
		return 2*frac - 1
	},
	func(s *PhaseState) float64 {
		if s.WavetablePhase < math.Pi {
			return 1
		}
		return -1
	},
}

// wavetableSample morphs through sine -> triangle -> sawtooth -> square.
// Position in [0,1] selects the adjacent stage pair and the blend within
// it; MorphSpeed drives an LFO that sweeps Position over time when set.
func wavetableSample(p Params, ph *PhaseState) float32 {
	pos := p.Position
	if p.MorphSpeed != 0 {
		ph.LFOPhase += p.MorphSpeed * twoPi / sampleRateHz
		if ph.LFOPhase >= twoPi {
			ph.LFOPhase -= twoPi
		}
		pos = 0.5 + 0.5*math.Sin(ph.LFOPhase)
	}
	if pos < 0 {
		pos = 0
	} else if pos > 1 {
		pos = 1
	}

	scaled := pos * float64(len(wavetableStages)-1)
	idx := int(scaled)
	if idx >= len(wavetableStages)-1 {
		idx = len(wavetableStages) - 2
	}
	frac := scaled - float64(idx)

	a := wavetableStages[idx](ph)
	b := wavetableStages[idx+1](ph)
	s := a*(1-frac) + b*frac

	ph.WavetablePhase += p.Frequency * twoPi / sampleRateHz
	if ph.WavetablePhase >= twoPi {
		ph.WavetablePhase -= twoPi
	}

	return float32(s)
}
