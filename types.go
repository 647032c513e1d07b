package splitter

import (
	"errors"
	"time"

	"github.com/spidy-senpai/splitter/internal/hpss"
	"github.com/spidy-senpai/splitter/internal/types"
)

// AudioSignal is a mono PCM buffer at a known sample rate.
type AudioSignal = types.AudioSignal

// AnalysisRate is the sample rate every input is resampled to before
// separation. All output stems carry this rate.
const AnalysisRate = types.AnalysisRate

// Error taxonomy. Every failure out of Separate wraps exactly one of
// these; Process additionally records ErrUpload per stem without aborting
// its siblings.
var (
	// ErrDecode means the input cannot be parsed as audio.
	ErrDecode = errors.New("cannot decode input as audio")

	// ErrAudioTooShort means the decoded duration is under the minimum.
	// The wrapping message reports the measured duration.
	ErrAudioTooShort = errors.New("audio too short")

	// ErrSeparation covers any failure during decomposition or stem
	// reconstruction.
	ErrSeparation = errors.New("separation failed")

	// ErrUpload marks a per-stem storage failure in Process results.
	ErrUpload = errors.New("stem upload failed")
)

// Event reports pipeline progress to an optional sink.
type Event struct {
	Stage   string // "load", "decompose", "synthesize", "encode", "upload"
	Detail  string // stem name or file path, when applicable
	Status  string // "start", "done", "error"
	Elapsed time.Duration
}

// EventSink receives pipeline progress events. Sinks must be fast; the
// pipeline calls them synchronously.
type EventSink func(Event)

// Options configures a separation run.
type Options struct {
	// Margin biases harmonic/percussive assignment toward silence for
	// ambiguous bins. Zero selects the default (2.0).
	Margin float64

	// StreamIndex selects which audio stream of the container to decode.
	StreamIndex int

	// Events, when set, receives progress events. Never required for
	// correctness.
	Events EventSink
}

// DefaultOptions returns the reference separation parameters.
func DefaultOptions() Options {
	return Options{
		Margin: hpss.DefaultMargin,
	}
}

func (o Options) emit(stage, detail, status string, started time.Time) {
	if o.Events == nil {
		return
	}

	o.Events(Event{
		Stage:   stage,
		Detail:  detail,
		Status:  status,
		Elapsed: time.Since(started),
	})
}

// StemResult is one isolated output waveform. Err is always nil on a
// successful Separate call; only layers that tolerate partial failure
// (per-stem upload) populate it.
type StemResult struct {
	Name     string
	Waveform *AudioSignal
	Err      error
}

// SeparationResult holds all stems of one pipeline run. The caller owns
// it exclusively once returned; the pipeline keeps no reference.
type SeparationResult struct {
	Stems          map[string]*StemResult
	SampleRate     int
	SourceDuration float64
}
