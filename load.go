package splitter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spidy-senpai/splitter/internal/integration/ffmpeg"
	"github.com/spidy-senpai/splitter/internal/integration/ffprobe"
	"github.com/spidy-senpai/splitter/internal/types"
)

// Extensions accepted by Load. Size limits are the caller's concern.
//
//nolint:gochecknoglobals // static accept list, effectively const
var allowedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
	".m4a":  true,
}

// AllowedExtension reports whether the path carries a supported audio
// extension.
func AllowedExtension(path string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Load decodes an audio file into a mono signal at the analysis rate.
//
// The container is probed first, then transcoded through ffmpeg with
// downmix and resampling. Anything that cannot be parsed as audio returns
// ErrDecode. Decoded material shorter than half a second returns
// ErrAudioTooShort; the check runs on the actual decoded sample count,
// never on container metadata.
func Load(ctx context.Context, path string, opts Options) (*AudioSignal, error) {
	started := time.Now()
	opts.emit("load", path, "start", started)

	if !AllowedExtension(path) {
		opts.emit("load", path, "error", started)

		return nil, fmt.Errorf("%w: unsupported extension %q", ErrDecode, filepath.Ext(path))
	}

	probed, err := ffprobe.Probe(ctx, path)
	if err != nil {
		opts.emit("load", path, "error", started)

		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if _, ok := probed.AudioStream(opts.StreamIndex); !ok {
		opts.emit("load", path, "error", started)

		return nil, fmt.Errorf("%w: no audio stream at index %d", ErrDecode, opts.StreamIndex)
	}

	file, err := os.Open(path) //nolint:gosec // callers hand us user-chosen audio paths on purpose
	if err != nil {
		opts.emit("load", path, "error", started)

		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer file.Close()

	samples, err := ffmpeg.Decode(ctx, file, opts.StreamIndex, types.AnalysisRate)
	if err != nil {
		opts.emit("load", path, "error", started)

		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	signal := &AudioSignal{Samples: samples, SampleRate: types.AnalysisRate}

	if signal.Duration() < types.MinDuration {
		opts.emit("load", path, "error", started)

		return nil, fmt.Errorf(
			"%w: %.2fs, minimum %.1fs required",
			ErrAudioTooShort, signal.Duration(), types.MinDuration,
		)
	}

	opts.emit("load", path, "done", started)

	return signal, nil
}
