// Package ffmpeg decodes audio containers to analysis-ready PCM by piping
// them through the ffmpeg binary.
package ffmpeg

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"time"

	"github.com/farcloser/primordium/fault"

	binaries "github.com/spidy-senpai/splitter/internal/integration/binary"
)

const (
	name = "ffmpeg"
	// Large uploads on slow storage take a while to transcode.
	timeout = 120 * time.Second

	codec = "pcm_f32le"
)

// Decode transcodes an audio container into mono float32 PCM at the given
// sample rate and returns the samples as float64. The stream index selects
// which audio stream of the container to decode (0 for the first).
func Decode(ctx context.Context, input io.Reader, streamIndex, sampleRate int) ([]float64, error) {
	slog.Debug("ffmpeg.Decode", "stream index", streamIndex, "sample rate", sampleRate, "stage", "start")

	ffmpegPath, found := binaries.Available(name)
	if !found {
		return nil, fmt.Errorf("%w: %s", fault.ErrMissingRequirements, name)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-i", "-",
		"-map", "0:a:"+strconv.Itoa(streamIndex),
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-f", "f32le",
		"-acodec", codec,
		"-v", "quiet",
		"-",
	)

	var pcm bytes.Buffer

	cmd.Stdout = &pcm
	cmd.Stdin = input

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Debug("ffmpeg.Decode", "stream index", streamIndex, "stage", "timeout")

			return nil, fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		slog.Debug("ffmpeg.Decode", "stream index", streamIndex, "stage", "error")

		return nil, fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	slog.Debug("ffmpeg.Decode", "stream index", streamIndex, "stage", "done", "bytes", pcm.Len())

	return parseFloat32LE(pcm.Bytes()), nil
}

// parseFloat32LE converts little-endian float32 PCM bytes to float64
// samples, dropping any trailing partial sample.
func parseFloat32LE(data []byte) []float64 {
	const sampleSize = 4

	count := len(data) / sampleSize
	samples := make([]float64, count)

	for i := range count {
		bits := binary.LittleEndian.Uint32(data[i*sampleSize:])
		samples[i] = float64(math.Float32frombits(bits))
	}

	return samples
}
