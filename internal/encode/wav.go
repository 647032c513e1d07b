// Package encode writes stem waveforms to WAV artifacts.
package encode

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/spidy-senpai/splitter/internal/types"
)

const (
	bitDepth = 16
	pcmScale = 32767
)

// WriteWAV encodes a signal as mono 16-bit PCM WAV at the given path.
// Samples outside [-1, 1] are clamped.
func WriteWAV(path string, signal *types.AudioSignal) error {
	out, err := os.Create(path) //nolint:gosec // artifact paths come from our own workspace
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer out.Close()

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  signal.SampleRate,
		},
		Data:           make([]int, len(signal.Samples)),
		SourceBitDepth: bitDepth,
	}

	for i, v := range signal.Samples {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}

		buf.Data[i] = int(v * pcmScale)
	}

	encoder := wav.NewEncoder(out, signal.SampleRate, bitDepth, 1, 1)

	if err := encoder.Write(buf); err != nil {
		encoder.Close()

		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalizing %s: %w", path, err)
	}

	return out.Close()
}

// ReadWAV decodes a WAV file into a mono signal, averaging channels.
// Mostly a test and tooling convenience; the loader proper goes through
// ffmpeg.
func ReadWAV(path string) (*types.AudioSignal, error) {
	file, err := os.Open(path) //nolint:gosec // tooling reads user-chosen files
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%s: not a valid WAV file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("%s: no channels", path)
	}

	depth := buf.SourceBitDepth
	if depth <= 0 {
		depth = bitDepth
	}

	scale := float64(int(1) << (depth - 1))
	frames := len(buf.Data) / channels
	samples := make([]float64, frames)

	for i := range frames {
		var sum float64
		for ch := range channels {
			sum += float64(buf.Data[i*channels+ch]) / scale
		}

		samples[i] = sum / float64(channels)
	}

	return &types.AudioSignal{Samples: samples, SampleRate: buf.Format.SampleRate}, nil
}
