package vocal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_ProducesNonSilentPhrase(t *testing.T) {
	out := Render(Request{
		Emotion:       Happy,
		Intensity:     0.8,
		Complexity:    2,
		DurationSec:   0.4,
		PitchRangeMin: 200,
		PitchRangeMax: 900,
	})
	require.NotEmpty(t, out)

	var peak float32
	for _, s := range out {
		if math.Abs(float64(s)) > float64(peak) {
			peak = float32(math.Abs(float64(s)))
		}
	}
	require.Greater(t, peak, float32(0.01))
}

func TestRender_IntensityNeverChangesBufferLength(t *testing.T) {
	low := Render(Request{
		Emotion: Curious, Intensity: 0.1, Complexity: 1,
		DurationSec: 0.2, PitchRangeMin: 100, PitchRangeMax: 400,
	})
	high := Render(Request{
		Emotion: Curious, Intensity: 0.9, Complexity: 1,
		DurationSec: 0.2, PitchRangeMin: 100, PitchRangeMax: 400,
	})
	require.Equal(t, len(low), len(high), "intensity must not change the rendered sample count/duration shape")
}

func TestRender_BufferLengthMatchesDurationRegardlessOfEmotionOrComplexity(t *testing.T) {
	for _, e := range []Emotion{Happy, Sad, Excited, Worried, Curious, Affirmative, Negative, Surprised, Thoughtful} {
		for _, complexity := range []int{1, 2, 5} {
			out := Render(Request{
				Emotion: e, Intensity: 0.6, Complexity: complexity,
				DurationSec: 1.0, PitchRangeMin: 100, PitchRangeMax: 400,
			})
			require.InDelta(t, 44100, len(out), 1, "emotion %v complexity %d", e, complexity)
		}
	}
}

func TestRender_ZeroComplexityTreatedAsOneSyllable(t *testing.T) {
	out := Render(Request{
		Emotion: Sad, Intensity: 0.5, Complexity: 0,
		DurationSec: 0.3, PitchRangeMin: 100, PitchRangeMax: 300,
	})
	require.NotEmpty(t, out)
}

func TestContourFreq_InterpolatesWithinRange(t *testing.T) {
	contour := []float64{0, 1}
	f := contourFreq(contour, 0.5, 100, 200)
	require.InDelta(t, 150, f, 1e-9)
}
