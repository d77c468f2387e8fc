package midiutil

import (
	"strings"
	"testing"

	"github.com/opus-assemble/sonicore/internal/events"
	"github.com/stretchr/testify/require"
)

func TestDescribe_NoteOnlyEvent(t *testing.T) {
	ev := events.Event{Kind: events.KindMidi, Channel: 0, Pitch: 60, HasVelocity: true, Velocity: 100}
	s := Describe(ev)
	require.Contains(t, s, "60")
}

func TestDescribe_IncludesProgramAndControllers(t *testing.T) {
	ev := events.Event{
		Kind: events.KindMidi, Channel: 1, Pitch: 64, HasVelocity: true, Velocity: 90,
		HasProgram: true, Program: 5,
		Controllers: events.Controllers{Set: true, Volume: 110},
	}
	s := Describe(ev)
	require.True(t, strings.Contains(s, "|"))
}
