// Package midiutil turns a loaded MIDI events.Event into the human-readable
// text gomidi/midi/v2 already knows how to produce for a wire message,
// sparing the CLI from re-deriving note names and message descriptions by
// hand. Grounded on grahamseamans-go-sequence's midi/manager.go, which
// builds the same library's Message values from sequencer note data before
// logging them.
package midiutil

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/opus-assemble/sonicore/internal/events"
)

// Describe renders a single MIDI-kind event as gomidi would describe the
// wire message it produces, e.g. "NoteOn channel 0 key 60 velocity 100".
// ev.Kind is assumed to be events.KindMidi; callers filter the sequence
// themselves before calling this.
func Describe(ev events.Event) string {
	ch := uint8(ev.Channel)
	key := uint8(ev.Pitch)
	vel := uint8(ev.EffectiveVelocity())

	msg := midi.NoteOn(ch, key, vel)
	s := msg.String()
	if ev.HasProgram {
		s += " | " + midi.ProgramChange(ch, uint8(ev.Program)).String()
	}
	if ev.Controllers.Set {
		s += " | " + midi.ControlChange(ch, 7, uint8(ev.Controllers.Volume)).String()
	}
	return s
}
