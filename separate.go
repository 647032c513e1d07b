//nolint:wrapcheck
package splitter

import (
	"context"
	"fmt"
	"time"

	"github.com/spidy-senpai/splitter/internal/hpss"
	"github.com/spidy-senpai/splitter/internal/stems"
	"github.com/spidy-senpai/splitter/internal/stft"
)

/*
Usage:

result, err := splitter.Separate(ctx, "song.mp3", splitter.DefaultOptions())
if err != nil {
    // errors.Is against splitter.ErrDecode / ErrAudioTooShort / ErrSeparation
}

for name, stem := range result.Stems {
    fmt.Printf("%s: %d samples at %d Hz\n", name, len(stem.Waveform.Samples), result.SampleRate)
}

// With progress events
opts := splitter.DefaultOptions()
opts.Events = func(e splitter.Event) {
    fmt.Printf("%s %s %s (%v)\n", e.Stage, e.Detail, e.Status, e.Elapsed)
}
result, err = splitter.Separate(ctx, "song.mp3", opts)
*/

// Separate runs the whole pipeline on an audio file: decode, decompose
// into harmonic and percussive components, and synthesize all nine stems.
//
// The call is all-or-nothing: the first fatal error aborts it and nothing
// partial is returned. On success the result always carries all nine
// stems, including ones that are near-silent for the given input. Two
// calls on the same input produce numerically identical stems.
func Separate(ctx context.Context, path string, opts Options) (*SeparationResult, error) {
	signal, err := Load(ctx, path, opts)
	if err != nil {
		return nil, err
	}

	return SeparateSignal(signal, opts)
}

// SeparateSignal runs the pipeline minus the loader on an already-decoded
// signal. Input shorter than one analysis frame fails with ErrSeparation;
// Load has already enforced the stricter minimum duration for file input.
func SeparateSignal(signal *AudioSignal, opts Options) (*SeparationResult, error) {
	started := time.Now()
	opts.emit("decompose", "", "start", started)

	transform := stft.New()
	if transform.NumFrames(len(signal.Samples)) == 0 {
		opts.emit("decompose", "", "error", started)

		return nil, fmt.Errorf("%w: input shorter than one analysis frame", ErrSeparation)
	}

	decomposition := hpss.Decompose(signal, opts.Margin)
	opts.emit("decompose", "", "done", started)

	result := &SeparationResult{
		Stems:          make(map[string]*StemResult, len(stemDefinitions)),
		SampleRate:     signal.SampleRate,
		SourceDuration: signal.Duration(),
	}

	for _, def := range stemDefinitions {
		stemStart := time.Now()
		opts.emit("synthesize", def.Name, "start", stemStart)

		waveform := stems.Synthesize(transform, decomposition.Spec(def.Source), def.Mask, signal.SampleRate)
		if len(waveform.Samples) == 0 {
			opts.emit("synthesize", def.Name, "error", stemStart)

			return nil, fmt.Errorf("%w: reconstruction of %q produced no samples", ErrSeparation, def.Name)
		}

		result.Stems[def.Name] = &StemResult{Name: def.Name, Waveform: waveform}

		opts.emit("synthesize", def.Name, "done", stemStart)
	}

	return result, nil
}

// Decompose exposes the harmonic/percussive split on its own, for callers
// that want the two components without stem synthesis.
func Decompose(signal *AudioSignal, opts Options) (harmonic, percussive *AudioSignal) {
	d := hpss.Decompose(signal, opts.Margin)

	return d.Harmonic, d.Percussive
}
