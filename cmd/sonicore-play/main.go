// Command sonicore-play loads a JSON note sequence and renders it through
// the mixer, either to the system audio device or, with -summary-only, as
// an offline pass that reports what would have played. Flag handling
// mirrors the teacher's main.go: a ContinueOnError FlagSet with a custom
// Usage printer (main.go's flagSet.Usage pattern).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opus-assemble/sonicore/internal/audioio"
	"github.com/opus-assemble/sonicore/internal/corelog"
	"github.com/opus-assemble/sonicore/internal/events"
	"github.com/opus-assemble/sonicore/internal/midiutil"
	"github.com/opus-assemble/sonicore/internal/mixer"
	"github.com/opus-assemble/sonicore/internal/seqfile"
	"github.com/opus-assemble/sonicore/internal/soundfont"
	"github.com/opus-assemble/sonicore/internal/voicepool"
	"github.com/rs/zerolog"
)

func main() {
	var (
		seqPath     string
		sfontPath   string
		seed        int64
		stealFlag   string
		summaryOnly bool
		dumpMidi    bool
		verbose     bool
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&seqPath, "seq", "", "path to a JSON note sequence")
	flagSet.StringVar(&sfontPath, "sfont", "", "path to a SoundFont (.sf2) file, enables MIDI events")
	flagSet.Int64Var(&seed, "seed", 1, "RNG seed for preset/random selection and per-voice noise")
	flagSet.StringVar(&stealFlag, "steal", "oldest", "voice-steal strategy: oldest, priority, or volume")
	flagSet.BoolVar(&summaryOnly, "summary-only", false, "render offline without opening the audio device")
	flagSet.BoolVar(&dumpMidi, "dump-midi", false, "print each MIDI event in the sequence before playing")
	flagSet.BoolVar(&verbose, "v", false, "enable info-level logging")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: sonicore-play -seq sequence.json [-sfont path.sf2] [-seed N] [-steal oldest|priority|volume] [-summary-only] [-dump-midi]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if verbose {
		corelog.Configure(zerolog.InfoLevel)
	}

	if seqPath == "" {
		fmt.Println("Error: -seq is required")
		flagSet.Usage()
		os.Exit(1)
	}

	strategy, ok := parseStealStrategy(stealFlag)
	if !ok {
		fmt.Printf("Error: unknown -steal strategy %q\n", stealFlag)
		os.Exit(1)
	}

	seq, err := seqfile.Load(seqPath)
	if err != nil {
		fmt.Printf("Error loading sequence: %v\n", err)
		os.Exit(1)
	}

	if dumpMidi {
		for _, ev := range seq.Notes {
			if ev.Kind == events.KindMidi {
				fmt.Println(midiutil.Describe(ev))
			}
		}
	}

	var opts []mixer.Option
	if sfontPath != "" {
		gm, err := soundfont.New(audioio.SampleRateHz, sfontPath)
		if err != nil {
			fmt.Printf("Error loading soundfont: %v\n", err)
			os.Exit(1)
		}
		defer gm.Close()
		opts = append(opts, mixer.WithGMSynth(gm))
	}
	opts = append(opts, mixer.WithVoiceStealStrategy(strategy))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if summaryOnly {
		summary, err := mixer.Play(ctx, seq, uint64(seed), opts...)
		if err != nil {
			fmt.Printf("Playback ended: %v\n", err)
		}
		fmt.Printf("samples_emitted=%d voices_used=%d voices_stolen=%d\n",
			summary.SamplesEmitted, summary.VoicesUsed, summary.VoicesStolen)
		return
	}

	if err := playLive(ctx, seq, uint64(seed), opts...); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// playLive opens the system audio device and streams the sequence through
// it in real time, blocking until the timeline is exhausted or ctx is
// cancelled. Unlike Play (which discards samples for offline summaries),
// this path is the one that actually reaches the speakers.
func playLive(ctx context.Context, seq events.Sequence, seed uint64, opts ...mixer.Option) error {
	rng := mixer.NewTimelineRNG(seed)
	timeline, err := mixer.BuildTimeline(seq, rng)
	if err != nil {
		return err
	}

	m := mixer.New(timeline, seed, opts...)

	sink, err := audioio.NewSink()
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	defer sink.Close()

	sink.SetupSource(m)
	sink.Start()

	const pollInterval = 20 * time.Millisecond
	for !m.Done() {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(pollInterval):
		}
	}
	return nil
}

func parseStealStrategy(name string) (voicepool.StealStrategy, bool) {
	switch name {
	case "oldest":
		return voicepool.OldestFirst, true
	case "priority":
		return voicepool.LowestPriority, true
	case "volume":
		return voicepool.LowestVolume, true
	default:
		return 0, false
	}
}
