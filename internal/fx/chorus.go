package fx

import "math"

// Chorus is an LFO-modulated delay line: a single voice sweeping between
// 10ms and 30ms at a slow rate, summed with the dry signal. Grounded on
// the same delay-line-plus-wet-mix shape as Reverb/Delay, with the comb's
// fixed tap replaced by a continuously varying one.
type Chorus struct {
	Mix     float64 // 0..1 wet/dry ratio
	RateHz  float64 // LFO rate, default 0.8Hz
	DepthMs float64 // sweep depth around the 20ms center, default 10ms

	buffer []float32
	pos    int
	phase  float64
}

const (
	chorusCenterMs = 20
	chorusMinMs    = 10
	chorusMaxMs    = 30
)

func NewChorus(mix, rateHz, depthMs float64) *Chorus {
	if rateHz <= 0 {
		rateHz = 0.8
	}
	if depthMs <= 0 {
		depthMs = 10
	}
	return &Chorus{
		Mix:     clamp(mix, 0, 1),
		RateHz:  rateHz,
		DepthMs: clamp(depthMs, 0, chorusCenterMs-chorusMinMs),
		buffer:  make([]float32, msToSamples(reverbHeadroomMs)),
	}
}

// Process runs one sample through the chorus line.
func (c *Chorus) Process(in float32) float32 {
	if c.Mix <= 0 {
		return in
	}

	c.buffer[c.pos] = in
	c.pos = (c.pos + 1) % len(c.buffer)

	lfo := math.Sin(2 * math.Pi * c.phase)
	c.phase += c.RateHz / sampleRateHz
	if c.phase >= 1 {
		c.phase -= 1
	}

	delayMs := chorusCenterMs + c.DepthMs*lfo
	wet := c.readInterpolated(delayMs)

	return in*float32(1-c.Mix) + wet*float32(c.Mix)
}

// readInterpolated linearly interpolates between the two nearest integer
// sample offsets for a fractional delay in milliseconds.
func (c *Chorus) readInterpolated(delayMs float64) float32 {
	delaySamples := delayMs * sampleRateHz / 1000
	n := len(c.buffer)

	idx := float64(c.pos) - delaySamples
	for idx < 0 {
		idx += float64(n)
	}
	i0 := int(idx) % n
	i1 := (i0 + 1) % n
	frac := float32(idx - math.Floor(idx))

	return c.buffer[i0]*(1-frac) + c.buffer[i1]*frac
}

// Reset silences the chorus line's buffered history and restarts its LFO
// phase, used when a voice is reallocated to a new note.
func (c *Chorus) Reset() {
	for i := range c.buffer {
		c.buffer[i] = 0
	}
	c.pos = 0
	c.phase = 0
}
