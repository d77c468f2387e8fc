package algorithm

import "math"

// fmSample implements FM synthesis. With no Operators configured it is
// classic 2-operator FM: carrier at f, modulator at modulator_freq,
// output = sin(2*pi*f*t + index*sin(2*pi*mf*t)). With Operators configured
// (3-6, DX7-style) it sums every operator with nonzero OutputLevel — per
// spec.md §9's open question, no operator is silently truncated.
func fmSample(p Params, t float64, ph *PhaseState) float32 {
	if len(p.Operators) > 0 {
		return dx7Sample(p, t, ph)
	}
	mod := math.Sin(twoPi * p.ModulatorFreq * t)
	s := math.Sin(twoPi*p.Frequency*t + p.ModulationIndex*mod)
	_ = ph // phase is driven directly from t for FM; ph reserved for future sync use
	return float32(s)
}

// dx7Sample sums every configured operator with nonzero OutputLevel.
// OperatorsCarrierSum treats every operator as an independent carrier
// (weighted sum); OperatorsCascade feeds each operator's output as phase
// modulation into the next, with the last nonzero operator acting as the
// final carrier, grounded on original_source's DX7Operator chain.
func dx7Sample(p Params, t float64, ph *PhaseState) float32 {
	ops := p.Operators
	if len(ops) == 0 {
		return 0
	}
	if len(ops) > 6 {
		ops = ops[:6]
	}

	switch p.DX7Algo {
	case OperatorsCascade:
		var modPhase float64
		for i, op := range ops {
			if op.OutputLevel <= 0 {
				continue
			}
			freq := p.Frequency*op.FreqRatio + op.Detune
			phase := twoPi*freq*t + modPhase
			if op.FeedbackLvl > 0 {
				phase += op.FeedbackLvl * ph.OperatorPhase[i%len(ph.OperatorPhase)]
			}
			out := math.Sin(phase)
			ph.OperatorPhase[i%len(ph.OperatorPhase)] = out
			modPhase = out * op.OutputLevel
		}
		// The last participating (nonzero) operator is the carrier.
		return float32(modPhase)
	default: // OperatorsCarrierSum
		var sum float64
		for i, op := range ops {
			if op.OutputLevel <= 0 {
				continue
			}
			freq := p.Frequency*op.FreqRatio + op.Detune
			phase := twoPi * freq * t
			if op.FeedbackLvl > 0 {
				phase += op.FeedbackLvl * ph.OperatorPhase[i%len(ph.OperatorPhase)]
			}
			out := math.Sin(phase)
			ph.OperatorPhase[i%len(ph.OperatorPhase)] = out
			sum += out * op.OutputLevel
		}
		// Normalize by the number of participating (nonzero) operators so
		// the sum stays in the expected ~[-1,1] envelope range.
		var active int
		for _, op := range ops {
			if op.OutputLevel > 0 {
				active++
			}
		}
		if active == 0 {
			return 0
		}
		return float32(sum / float64(active))
	}
}
