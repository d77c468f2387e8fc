// Package audioio owns the one audio output stream the process opens.
// It is constructed once, by cmd/sonicore-play's live-playback path, which
// wires a *mixer.Mixer in as its Source; internal/mixer itself never
// opens one. The Sink pulls samples from its Source via the same
// io.Reader-style contract the teacher's OtoPlayer uses.
//
// Grounded on audio_backend_oto.go (!headless build tag) and
// audio_backend_headless.go (headless build tag): this package keeps the
// identical build-tag split and Start/Stop/Close/Read surface, adapted
// from a *SoundChip source to the Source interface below so it has no
// dependency on any one upstream component.
package audioio

// Source is anything that can produce the next output sample on demand.
// internal/mixer implements this directly; no other package should.
type Source interface {
	ReadSample() float32
}

const SampleRateHz = 44100
