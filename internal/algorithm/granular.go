package algorithm

import "math"

// grain is one active overlapping grain in a Granular cloud.
type grain struct {
	freq       float64
	phase      float64
	ageSamples int
	lenSamples int
}

// granularSample emits overlapping, Hann-windowed grains at rate Density
// grains/sec, each GrainSize seconds long. Each grain's frequency is
// f*(1+eps*(1-PitchCoherence)) with eps drawn uniformly from
// [-Spread,+Spread]; with the default PitchCoherence=0.8 the pitched
// component dominates. Each sample mixes the tonal grain (0.7) with
// low-level noise (0.3); Overlap controls spawn-time jitter.
func granularSample(p Params, t float64, ph *PhaseState) float32 {
	density := p.Density
	if density <= 0 {
		density = 20
	}
	grainSize := p.GrainSize
	if grainSize <= 0 {
		grainSize = 0.05
	}
	coherence := p.PitchCoherence
	if coherence == 0 {
		coherence = 0.8
	}
	spread := p.Spread
	if spread == 0 {
		spread = 0.3
	}

	spawnProb := density / sampleRateHz
	if p.Overlap > 0 {
		spawnProb *= 1 + ph.Rng.Float64()*p.Overlap
	}
	if ph.Rng.Float64() < spawnProb {
		eps := (ph.Rng.Float64()*2 - 1) * spread
		freq := p.Frequency * (1 + eps*(1-coherence))
		ph.Grains = append(ph.Grains, grain{
			freq:       freq,
			lenSamples: int(grainSize * sampleRateHz),
		})
	}

	var out float64
	live := ph.Grains[:0]
	for _, g := range ph.Grains {
		if g.ageSamples >= g.lenSamples || g.lenSamples <= 0 {
			continue
		}
		window := 0.5 * (1 - math.Cos(twoPi*float64(g.ageSamples)/float64(g.lenSamples)))
		tone := math.Sin(g.phase)
		noise := ph.Rng.Float64()*2 - 1
		out += window * (0.7*tone + 0.3*noise)

		g.phase += g.freq * twoPi / sampleRateHz
		if g.phase >= twoPi {
			g.phase -= twoPi
		}
		g.ageSamples++
		live = append(live, g)
	}
	ph.Grains = live

	if out > 1 {
		out = 1
	} else if out < -1 {
		out = -1
	}
	_ = t
	return float32(out)
}
