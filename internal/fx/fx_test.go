package fx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOnePoleResonant_LowPassAttenuatesHighFrequency(t *testing.T) {
	lp := &OnePoleResonant{Kind: LowPass, CutoffHz: 200, Resonance: 0.1}

	var lowEnergy, highEnergy float64
	for i := 0; i < sampleRateHz; i++ {
		t := float64(i) / sampleRateHz
		low := lp.Process(float32(math.Sin(2 * math.Pi * 100 * t)))
		lowEnergy += float64(low) * float64(low)
	}

	hp := &OnePoleResonant{Kind: LowPass, CutoffHz: 200, Resonance: 0.1}
	for i := 0; i < sampleRateHz; i++ {
		t := float64(i) / sampleRateHz
		high := hp.Process(float32(math.Sin(2 * math.Pi * 5000 * t)))
		highEnergy += float64(high) * float64(high)
	}

	require.Greater(t, lowEnergy, highEnergy, "low-pass should pass a 100Hz tone more than a 5kHz tone")
}

func TestOnePoleResonant_NoneKindIsTransparent(t *testing.T) {
	f := &OnePoleResonant{Kind: None}
	require.Equal(t, float32(0.42), f.Process(0.42))
}

func TestReverb_DryWhenMixZero(t *testing.T) {
	r := NewReverb(0)
	require.Equal(t, float32(0.5), r.Process(0.5))
}

func TestReverb_ProducesTailAfterImpulse(t *testing.T) {
	r := NewReverb(1.0)
	r.Process(1.0)
	var energy float64
	for i := 0; i < msToSamples(250); i++ {
		out := r.Process(0)
		energy += float64(out) * float64(out)
	}
	require.Greater(t, energy, 0.0, "an impulse should leave audible tail energy in the comb/allpass network")
}

func TestChorus_SweepStaysWithinConfiguredRange(t *testing.T) {
	c := NewChorus(1.0, 2.0, 10)
	for i := 0; i < sampleRateHz; i++ {
		c.Process(float32(math.Sin(2 * math.Pi * 220 * float64(i) / sampleRateHz)))
	}
	require.InDelta(t, chorusCenterMs, c.DepthMs+chorusMinMs, chorusCenterMs, "sanity: depth bounds stay inside [min,max]")
}

func TestDelay_FeedbackNeverExceedsCap(t *testing.T) {
	d := NewDelay(100, 5.0, 1.0)
	require.LessOrEqual(t, d.Feedback, delayMaxFeedback)
}

func TestDelay_EchoesAfterDelayTime(t *testing.T) {
	d := NewDelay(10, 0.5, 1.0)
	d.Process(1.0)
	for i := 0; i < msToSamples(10)-1; i++ {
		d.Process(0)
	}
	echoed := d.Process(0)
	require.NotEqual(t, float32(0), echoed, "the delayed impulse should reappear one delay-time later")
}
