package soundfont

import (
	"fmt"

	"github.com/sqweek/fluidsynth"

	"github.com/opus-assemble/sonicore/internal/corelog"
)

// Synth wraps a fluidsynth engine as the GM bus: one soundfont loaded
// once at construction, 16 MIDI channels addressed by NoteOn/NoteOff/
// ProgramChange/Controller, and a stereo pull of a block of frames via
// WriteFrames.
//
// Grounded on sqweek-sqribe's SynthInit (synth.go) for construction and
// playback.go's Synth.NoteOn/NoteOff/WriteFrames call shape. The binding
// renders into an int16 buffer there (it configures
// "audio.sample-format": "16bits", same as below), so WriteFrames keeps
// an int16 scratch buffer internally and converts to the float32 the
// rest of the mixer's buses use.
type Synth struct {
	engine  *fluidsynth.Synth
	scratch []int16
}

// New constructs a Synth with sfontPath loaded at sampleRateHz.
func New(sampleRateHz int, sfontPath string) (*Synth, error) {
	settings := make(map[string]interface{})
	settings["audio.period-size"] = sampleRateHz
	settings["audio.sample-format"] = "16bits"
	settings["synth.gain"] = 0.6

	engine := fluidsynth.NewSynth(settings)
	if ok := engine.SFLoad(sfontPath, true); !ok {
		return nil, fmt.Errorf("soundfont: failed to load %q", sfontPath)
	}

	corelog.Named("soundfont").Info().Str("sfont", sfontPath).Int("sample_rate", sampleRateHz).Msg("loaded soundfont")
	return &Synth{engine: engine}, nil
}

// NoteOn starts a note on channel ch (0..15) at pitch (0..127) with
// velocity (0..127).
func (s *Synth) NoteOn(ch, pitch, velocity int) {
	s.engine.NoteOn(ch, pitch, velocity)
}

// NoteOff stops a note on channel ch at pitch.
func (s *Synth) NoteOff(ch, pitch int) {
	s.engine.NoteOff(ch, pitch)
}

// ProgramChange selects program (a GM Program) on channel ch.
func (s *Synth) ProgramChange(ch int, program Program) {
	s.engine.ProgramChange(ch, int(program))
}

// Controller writes a MIDI CC value (0..127) on channel ch.
func (s *Synth) Controller(ch, cc, value int) {
	s.engine.CC(ch, cc, value)
}

// WriteFrames renders len(buf)/2 stereo frames into buf (interleaved
// L/R float32, matching the mixer bus format used by every other
// component so the mixer can sum buses without per-format conversion).
// The underlying engine writes 16-bit PCM (configured at construction),
// so this renders into a reused int16 scratch buffer and rescales.
func (s *Synth) WriteFrames(buf []float32) {
	if len(s.scratch) != len(buf) {
		s.scratch = make([]int16, len(buf))
	}
	s.engine.WriteFrames(s.scratch)
	for i, v := range s.scratch {
		buf[i] = float32(v) / 32768.0
	}
}

// Close releases the underlying fluidsynth engine.
func (s *Synth) Close() error {
	s.engine.Delete()
	return nil
}
