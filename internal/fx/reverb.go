package fx

// Reverb is a parallel-comb + series-allpass network, generalized from the
// teacher's SoundChip.applyReverb (audio_chip.go): the teacher fixes 4 comb
// delays (1687/1601/2053/2251 samples) and 2 allpass stages (389/307
// samples) tuned for its 4-channel chip bus. This implementation instead
// derives 5 comb taps at {25,45,75,125,200}ms with comb feedback
// 0.6+0.08*(4-k) (k=tap index: 0.92 for the 25ms tap down to 0.60 for the
// 200ms tap), so it scales to any voice's output without the teacher's
// hand-picked prime constants, but keeps the same pre-delay -> parallel
// comb -> series allpass -> wet/dry topology. The taps are summed with
// equal weight; no 0.6^k per-tap gain is applied.
type Reverb struct {
	Mix float64 // 0..1 wet/dry ratio

	preDelay    []float32
	preDelayPos int

	combs [5]comb

	allpass   [2]allpass
	initiated bool
}

type comb struct {
	buffer []float32
	decay  float32
	pos    int
}

type allpass struct {
	buffer []float32
	coef   float32
	pos    int
}

var reverbTapMs = [5]float64{25, 45, 75, 125, 200}

const reverbPreDelayMs = 8

// reverbHeadroomMs bounds how far any fx delay line may reach so the
// longest tap (200ms reverb) plus modulation/feedback slop never exceeds
// the buffers sized for it.
const reverbHeadroomMs = 320

func NewReverb(mix float64) *Reverb {
	r := &Reverb{Mix: clamp(mix, 0, 1)}
	r.preDelay = make([]float32, msToSamples(reverbPreDelayMs))
	for i, ms := range reverbTapMs {
		if ms > reverbHeadroomMs {
			ms = reverbHeadroomMs
		}
		r.combs[i] = comb{
			buffer: make([]float32, msToSamples(ms)),
			decay:  float32(0.6 + 0.08*float64(4-i)), // longer taps decay slower, shorter feel denser
		}
	}
	r.allpass[0] = allpass{buffer: make([]float32, msToSamples(8.8)), coef: 0.7}
	r.allpass[1] = allpass{buffer: make([]float32, msToSamples(7.0)), coef: 0.5}
	r.initiated = true
	return r
}

func msToSamples(ms float64) int {
	n := int(ms * sampleRateHz / 1000)
	if n < 1 {
		n = 1
	}
	return n
}

// Process runs one sample through the reverb and returns the wet/dry mix.
func (r *Reverb) Process(in float32) float32 {
	if !r.initiated || r.Mix <= 0 {
		return in
	}

	delayed := r.preDelay[r.preDelayPos]
	r.preDelay[r.preDelayPos] = in
	r.preDelayPos = (r.preDelayPos + 1) % len(r.preDelay)

	var out float32
	for i := range r.combs {
		c := &r.combs[i]
		tap := c.buffer[c.pos]
		c.buffer[c.pos] = delayed + tap*c.decay
		out += tap
		c.pos = (c.pos + 1) % len(c.buffer)
	}
	out /= float32(len(r.combs))

	for i := range r.allpass {
		a := &r.allpass[i]
		tap := a.buffer[a.pos]
		a.buffer[a.pos] = out + tap*a.coef
		out = tap - out
		a.pos = (a.pos + 1) % len(a.buffer)
	}

	wet := out
	return in*float32(1-r.Mix) + wet*float32(r.Mix)
}

// Reset silences every comb/allpass/pre-delay line, used when a voice is
// reallocated to a new note.
func (r *Reverb) Reset() {
	for i := range r.preDelay {
		r.preDelay[i] = 0
	}
	r.preDelayPos = 0
	for i := range r.combs {
		for j := range r.combs[i].buffer {
			r.combs[i].buffer[j] = 0
		}
		r.combs[i].pos = 0
	}
	for i := range r.allpass {
		for j := range r.allpass[i].buffer {
			r.allpass[i].buffer[j] = 0
		}
		r.allpass[i].pos = 0
	}
}
