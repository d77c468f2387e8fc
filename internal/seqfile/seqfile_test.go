package seqfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opus-assemble/sonicore/internal/events"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seq.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_SynthNoteRoundTripsAlgorithmAndParams(t *testing.T) {
	path := writeTemp(t, `{
		"tempo_bpm": 120,
		"notes": [
			{"kind": "synth", "start": 0, "duration": 0.5, "algorithm": "Sine", "params": {"frequency": 440}}
		]
	}`)

	seq, err := Load(path)
	require.NoError(t, err)
	require.Len(t, seq.Notes, 1)
	require.Equal(t, events.KindSynth, seq.Notes[0].Kind)
	require.InDelta(t, 440.0, seq.Notes[0].Params.Frequency, 0.001)
}

func TestLoad_MidiNoteWithControllers(t *testing.T) {
	path := writeTemp(t, `{
		"notes": [
			{"kind": "midi", "start": 0, "duration": 1, "pitch": 60, "channel": 0, "program": 0,
			 "controllers": {"volume": 100, "pan": 64, "reverb": 20, "chorus": 10, "expression": 127}}
		]
	}`)

	seq, err := Load(path)
	require.NoError(t, err)
	ev := seq.Notes[0]
	require.True(t, ev.HasProgram)
	require.True(t, ev.Controllers.Set)
	require.Equal(t, 100, ev.Controllers.Volume)
}

func TestLoad_EmotionEventResolvesEnum(t *testing.T) {
	path := writeTemp(t, `{
		"notes": [
			{"kind": "emotion", "start": 0, "duration": 0.4, "emotion": "Curious", "intensity": 0.7,
			 "complexity": 3, "pitch_range_min": 200, "pitch_range_max": 900}
		]
	}`)

	seq, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, events.Curious, seq.Notes[0].Emotion)
}

func TestLoad_PresetEventByName(t *testing.T) {
	path := writeTemp(t, `{
		"notes": [
			{"kind": "preset", "start": 0, "duration": 0.5, "pitch": 48, "preset_name": "Minimoog Bass", "variation": "bright"}
		]
	}`)

	seq, err := Load(path)
	require.NoError(t, err)
	ev := seq.Notes[0]
	require.Equal(t, events.SelectByName, ev.Preset.Mode)
	require.Equal(t, "Minimoog Bass", ev.Preset.ByName)
	require.Equal(t, "bright", ev.Variation)
}

func TestLoad_SynthEffectsChainResolvesKinds(t *testing.T) {
	path := writeTemp(t, `{
		"notes": [
			{"kind": "synth", "start": 0, "duration": 0.5, "algorithm": "Pad",
			 "effects": [{"kind": "Reverb", "intensity": 0.4}, {"kind": "Delay", "intensity": 0.2, "delay_time": 0.15}]}
		]
	}`)

	seq, err := Load(path)
	require.NoError(t, err)
	require.Len(t, seq.Notes[0].Effects, 2)
	require.Equal(t, events.EffectDelay, seq.Notes[0].Effects[1].Kind)
	require.InDelta(t, 0.15, seq.Notes[0].Effects[1].DelayTime, 0.001)
}

func TestLoad_UnknownAlgorithmNameReturnsError(t *testing.T) {
	path := writeTemp(t, `{
		"notes": [
			{"kind": "synth", "start": 0, "duration": 0.5, "algorithm": "NotARealAlgorithm"}
		]
	}`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.Error(t, err)
}
