package mixer

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/opus-assemble/sonicore/internal/coreerr"
	"github.com/opus-assemble/sonicore/internal/corelog"
	"github.com/opus-assemble/sonicore/internal/events"
	"github.com/opus-assemble/sonicore/internal/soundfont"
	"github.com/opus-assemble/sonicore/internal/voicepool"
)

// overlay is a single in-flight prerendered clip (an emotion phrase)
// being summed into the output stream sample-by-sample until exhausted.
type overlay struct {
	samples []float32
	pos     int
}

// Mixer is the single production-loop owner: it walks a Timeline one
// sample at a time, firing actions due at the current sample, pulling
// the synth voice-pool bus and (if configured) the GM soundfont bus, and
// summing everything into one soft-clipped mono stream.
//
// Grounded on SIDEngine.TickSample (sid_engine.go)'s cursor-over-sorted-
// events loop, generalized from one register-write log to four event
// kinds feeding three buses (voice pool, GM soundfont, prerendered
// overlays).
type Mixer struct {
	timeline Timeline
	cursor   int
	sample   int64

	pool *voicepool.Pool
	gm   *soundfont.Synth

	gmFrameBuf []float32 // interleaved stereo scratch, refilled in chunks
	gmFramePos int

	activeVoices map[int64]int // NoteID -> voice-pool slot
	overlays     []overlay

	poolStrategy voicepool.StealStrategy
}

// Option configures a Mixer at construction, following the teacher's
// NewSoundChip(backend)-style constructor generalized to a functional
// options slice (see SPEC_FULL.md's config section).
type Option func(*Mixer)

// WithGMSynth attaches a GM soundfont bus. Without this option, MIDI
// events in the timeline produce silence on that bus.
func WithGMSynth(gm *soundfont.Synth) Option {
	return func(m *Mixer) { m.gm = gm }
}

// WithVoiceStealStrategy selects the voice pool's stealing policy.
func WithVoiceStealStrategy(strategy voicepool.StealStrategy) Option {
	return func(m *Mixer) { m.poolStrategy = strategy }
}

// NewTimelineRNG derives the seeded RNG BuildTimeline uses for
// SelectByCategory/SelectRandom preset resolution, so callers building a
// timeline outside of Play (e.g. a live-playback CLI) seed it identically.
func NewTimelineRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// New constructs a Mixer ready to walk timeline.
func New(timeline Timeline, seed uint64, opts ...Option) *Mixer {
	m := &Mixer{
		timeline:     timeline,
		activeVoices: make(map[int64]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.pool = voicepool.New(m.poolStrategy, seed)
	return m
}

// ReadSample implements audioio.Source: it fires due actions, ticks every
// bus, and returns one soft-clipped mono sample. Each call advances the
// production loop by exactly one sample.
func (m *Mixer) ReadSample() float32 {
	m.fireDueActions()

	synthSample := m.pool.TickSum()
	gmSample := m.tickGM()
	overlaySample := m.tickOverlays()

	m.sample++

	sum := float64(synthSample) + float64(gmSample) + float64(overlaySample)
	return float32(math.Tanh(sum))
}

func (m *Mixer) fireDueActions() {
	for m.cursor < len(m.timeline.Actions) && m.timeline.Actions[m.cursor].SampleIndex == m.sample {
		m.fire(m.timeline.Actions[m.cursor])
		m.cursor++
	}
}

func (m *Mixer) fire(a Action) {
	switch a.Kind {
	case ActionMidiNoteOn:
		if m.gm == nil {
			return
		}
		if a.HasProgram {
			m.gm.ProgramChange(a.MidiChannel, a.Program)
		}
		if a.Controllers.Set {
			m.gm.Controller(a.MidiChannel, soundfont.CCVolume, a.Controllers.Volume)
			m.gm.Controller(a.MidiChannel, soundfont.CCPan, a.Controllers.Pan)
			m.gm.Controller(a.MidiChannel, soundfont.CCReverbSend, a.Controllers.Reverb)
			m.gm.Controller(a.MidiChannel, soundfont.CCChorusSend, a.Controllers.Chorus)
			m.gm.Controller(a.MidiChannel, soundfont.CCExpression, a.Controllers.Expression)
		}
		m.gm.NoteOn(a.MidiChannel, a.MidiPitch, a.MidiVel)

	case ActionMidiNoteOff:
		if m.gm == nil {
			return
		}
		m.gm.NoteOff(a.MidiChannel, a.MidiPitch)

	case ActionSynthNoteOn:
		slot := m.pool.Allocate(voicepool.NoteSpec{
			Kind:            a.SynthKind,
			Params:          a.SynthParams,
			Velocity:        a.SynthVel,
			DurationSec:     a.SynthParams.Duration,
			Attack:          a.SynthAttack,
			Decay:           a.SynthDecay,
			Sustain:         a.SynthSustain,
			Release:         a.SynthRelease,
			FilterKind:      a.SynthFilter,
			FilterCutoffHz:  a.SynthCutoffHz,
			FilterResonance: a.SynthResonant,
			Effects:         a.SynthEffects,
		})
		m.activeVoices[a.NoteID] = slot

	case ActionSynthNoteOff:
		if slot, ok := m.activeVoices[a.NoteID]; ok {
			m.pool.NoteOff(slot)
			delete(m.activeVoices, a.NoteID)
		}

	case ActionEmitPrerendered:
		m.overlays = append(m.overlays, overlay{samples: a.PrerenderedSamples})
	}
}

func (m *Mixer) tickGM() float32 {
	if m.gm == nil {
		return 0
	}
	const chunkFrames = 256
	if m.gmFramePos >= len(m.gmFrameBuf) {
		m.gmFrameBuf = make([]float32, chunkFrames*2)
		m.gm.WriteFrames(m.gmFrameBuf)
		m.gmFramePos = 0
	}
	l, r := m.gmFrameBuf[m.gmFramePos], m.gmFrameBuf[m.gmFramePos+1]
	m.gmFramePos += 2
	return (l + r) / 2
}

func (m *Mixer) tickOverlays() float32 {
	if len(m.overlays) == 0 {
		return 0
	}
	var sum float32
	live := m.overlays[:0]
	for _, ov := range m.overlays {
		if ov.pos < len(ov.samples) {
			sum += ov.samples[ov.pos]
			ov.pos++
		}
		if ov.pos < len(ov.samples) {
			live = append(live, ov)
		}
	}
	m.overlays = live
	return sum
}

// Done reports whether every scheduled action has fired, every voice has
// gone idle, and every overlay has finished — i.e. there is nothing left
// for ReadSample to produce but silence.
func (m *Mixer) Done() bool {
	return m.cursor >= len(m.timeline.Actions) &&
		m.pool.ActiveVoices() == 0 &&
		len(m.overlays) == 0
}

// PlaybackSummary reports what a Play call actually produced.
type PlaybackSummary struct {
	SamplesEmitted int64
	VoicesStolen   int64
	VoicesUsed     int64
}

// Play validates, resolves, and renders seq offline, pumping samples
// until the timeline is exhausted or ctx is cancelled; the samples are
// discarded (no audio sink is opened) and only the summary is returned.
// opts configure the Mixer (GM synth attachment, steal
// strategy); seed drives both preset random-selection and per-voice
// noise reproducibility.
func Play(ctx context.Context, seq events.Sequence, seed uint64, opts ...Option) (PlaybackSummary, error) {
	log := corelog.Named("mixer")

	rng := NewTimelineRNG(seed)
	timeline, err := BuildTimeline(seq, rng)
	if err != nil {
		return PlaybackSummary{}, err
	}

	m := New(timeline, seed, opts...)

	var emitted int64
	for {
		select {
		case <-ctx.Done():
			log.Info().Int64("samples_emitted", emitted).Msg("playback cancelled")
			return PlaybackSummary{
				SamplesEmitted: emitted,
				VoicesStolen:   m.pool.TotalStolen(),
				VoicesUsed:     m.pool.TotalAllocated(),
			}, &coreerr.CancellationAck{SamplesEmitted: emitted}
		default:
		}

		if m.Done() {
			break
		}
		m.ReadSample()
		emitted++
	}

	return PlaybackSummary{
		SamplesEmitted: emitted,
		VoicesStolen:   m.pool.TotalStolen(),
		VoicesUsed:     m.pool.TotalAllocated(),
	}, nil
}
