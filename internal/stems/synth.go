package stems

import (
	"github.com/spidy-senpai/splitter/internal/stft"
	"github.com/spidy-senpai/splitter/internal/types"
)

// TargetLevel is the peak every non-silent stem is normalized to.
const TargetLevel = 0.95

// Synthesize applies a mask to the source component's magnitude,
// recombines with that component's original phase, inverts, and
// peak-normalizes the waveform.
func Synthesize(
	transform *stft.Transform,
	source *types.SpectralFrame,
	mask Mask,
	sampleRate int,
) *types.AudioSignal {
	gains := mask.Gains(source.Bins(), transform.BinHz(sampleRate))

	mag := make([][]float64, source.Bins())
	for b, row := range source.Magnitude {
		mag[b] = make([]float64, len(row))
		for i, v := range row {
			mag[b][i] = v * gains[b]
		}
	}

	out := &types.AudioSignal{
		Samples:    transform.InversePolar(mag, source.Phase),
		SampleRate: sampleRate,
	}
	Normalize(out)

	return out
}

// Normalize scales the waveform so its peak hits TargetLevel. An all-zero
// waveform is left untouched: silence stays silence, and there is no
// division by zero.
func Normalize(signal *types.AudioSignal) {
	peak := signal.Peak()
	if peak <= 0 {
		return
	}

	scale := TargetLevel / peak
	for i := range signal.Samples {
		signal.Samples[i] *= scale
	}
}
