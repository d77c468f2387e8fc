// Package corelog wraps zerolog so every component logs through one
// leveled sink instead of calling the stdlib log package directly, the way
// the pack's sequencer teacher centralizes logging behind a single
// package. The production loop never logs per-sample; the preset
// resolver's unknown-variation fallback logs at Warn, lifecycle events
// (soundfont load, playback cancellation) at Info. Voice steals and
// validation failures are not logged.
package corelog

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	current = zerolog.New(io.Discard).With().Timestamp().Logger()
)

// Configure installs a console-writing logger at the given level. Call it
// once at process startup; components obtain the active logger via Get.
func Configure(level zerolog.Level) {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}
	l := zerolog.New(w).Level(level).With().Timestamp().Logger()
	mu.Lock()
	current = l
	mu.Unlock()
}

// Get returns the process-wide logger. Until Configure is called it
// discards everything, so unit tests and library embedders get silence by
// default.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Named returns a child logger tagged with a "component" field, matching
// the teacher's per-subsystem log-line prefixes (e.g. SID/PSG/AHX engines
// each logging under their own name).
func Named(component string) zerolog.Logger {
	return Get().With().Str("component", component).Logger()
}
