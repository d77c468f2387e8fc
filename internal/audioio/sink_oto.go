//go:build !headless

package audioio

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

// Sink plays a Source through the system's audio output, mono
// float32LE, matching the teacher's OtoPlayer (audio_backend_oto.go).
type Sink struct {
	ctx       *oto.Context
	player    *oto.Player
	source    atomic.Pointer[Source]
	sampleBuf []float32
	started   bool
	mutex     sync.Mutex
}

// NewSink opens the system audio output at SampleRateHz, mono.
func NewSink() (*Sink, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SampleRateHz,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	return &Sink{ctx: ctx}, nil
}

// SetupSource wires src as this sink's sample source and prepares the
// underlying player. Must be called exactly once before Start.
func (s *Sink) SetupSource(src Source) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.source.Store(&src)
	s.player = s.ctx.NewPlayer(s)
	s.sampleBuf = make([]float32, 4096)
}

// Read implements io.Reader by pulling samples from the configured
// Source, one at a time — the atomic load keeps the hot path lock-free,
// mirroring the teacher's chip pointer load in Read().
func (s *Sink) Read(p []byte) (int, error) {
	srcPtr := s.source.Load()
	if srcPtr == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	src := *srcPtr

	numSamples := len(p) / 4
	if numSamples == 0 {
		return len(p), nil
	}
	if len(s.sampleBuf) < numSamples {
		s.sampleBuf = make([]float32, numSamples)
	}
	samples := s.sampleBuf[:numSamples]
	for i := 0; i < numSamples; i++ {
		samples[i] = src.ReadSample()
	}

	copy(p, (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[:len(p)])
	return len(p), nil
}

func (s *Sink) Start() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !s.started && s.player != nil {
		s.player.Play()
		s.started = true
	}
}

func (s *Sink) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.started && s.player != nil {
		s.player.Close()
		s.started = false
	}
}

func (s *Sink) Close() {
	s.Stop()
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.player != nil {
		s.player.Close()
		s.player = nil
	}
}

func (s *Sink) IsStarted() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.started
}
