// Package hpss separates a signal into harmonic and percussive components
// using median-filtering spectral separation (Fitzgerald, DAFx 2010):
// sustained energy is smooth along time, transient energy is smooth along
// frequency. Soft masks derived from the two median-enhanced magnitude
// estimates are applied to the original complex spectrogram, preserving
// phase, and inverted back to waveforms.
package hpss

import (
	"math"
	"sort"

	"github.com/spidy-senpai/splitter/internal/stft"
	"github.com/spidy-senpai/splitter/internal/types"
)

const (
	// kernelSize is the median filter width, in frames along the time
	// axis and in bins along the frequency axis.
	kernelSize = 17

	// maskPower is the soft mask exponent (Wiener-style, power 2).
	maskPower = 2
)

// DefaultMargin widens the ambiguous region between the harmonic and
// percussive assignment. Bins where neither estimate dominates by this
// factor lean toward silence in both outputs rather than double-counting
// energy, so the two components are not required to sum to the input.
const DefaultMargin = 2.0

// Decomposition holds the two separated components and their spectral
// frames, all on the shared analysis grid.
type Decomposition struct {
	Harmonic   *types.AudioSignal
	Percussive *types.AudioSignal

	// Spectra of the reconstructed component waveforms. Stem synthesis
	// reads magnitude and phase from these.
	HarmonicSpec   *types.SpectralFrame
	PercussiveSpec *types.SpectralFrame
}

// Spec returns the spectral frame for the requested component.
func (d *Decomposition) Spec(c types.SourceComponent) *types.SpectralFrame {
	if c == types.ComponentPercussive {
		return d.PercussiveSpec
	}

	return d.HarmonicSpec
}

// Decompose splits a signal into harmonic and percussive components.
// margin <= 0 falls back to DefaultMargin.
func Decompose(signal *types.AudioSignal, margin float64) *Decomposition {
	if margin <= 0 {
		margin = DefaultMargin
	}

	transform := stft.New()
	spec := transform.Forward(signal.Samples)

	bins := len(spec)
	frames := 0
	if bins > 0 {
		frames = len(spec[0])
	}

	mag := make([][]float64, bins)
	for b := range spec {
		mag[b] = make([]float64, frames)
		for i, c := range spec[b] {
			re, im := real(c), imag(c)
			mag[b][i] = math.Sqrt(re*re + im*im)
		}
	}

	harmEnhanced := medianTime(mag, kernelSize)
	percEnhanced := medianFrequency(mag, kernelSize)

	harmSpec := make([][]complex128, bins)
	percSpec := make([][]complex128, bins)

	for b := range bins {
		harmSpec[b] = make([]complex128, frames)
		percSpec[b] = make([]complex128, frames)

		for i := range frames {
			mh := softMask(harmEnhanced[b][i], margin*percEnhanced[b][i])
			mp := softMask(percEnhanced[b][i], margin*harmEnhanced[b][i])

			harmSpec[b][i] = spec[b][i] * complex(mh, 0)
			percSpec[b][i] = spec[b][i] * complex(mp, 0)
		}
	}

	harmonic := &types.AudioSignal{
		Samples:    transform.Inverse(harmSpec),
		SampleRate: signal.SampleRate,
	}
	percussive := &types.AudioSignal{
		Samples:    transform.Inverse(percSpec),
		SampleRate: signal.SampleRate,
	}

	return &Decomposition{
		Harmonic:       harmonic,
		Percussive:     percussive,
		HarmonicSpec:   stft.Split(transform.Forward(harmonic.Samples)),
		PercussiveSpec: stft.Split(transform.Forward(percussive.Samples)),
	}
}

// softMask computes x^p / (x^p + ref^p), returning 0 when both terms
// vanish so ambiguous bins decay to silence instead of splitting energy.
func softMask(x, ref float64) float64 {
	xp := math.Pow(x, maskPower)
	refp := math.Pow(ref, maskPower)

	const tiny = 1e-30

	denom := xp + refp
	if denom < tiny {
		return 0
	}

	return xp / denom
}

// medianTime median-filters each bin row along the time axis.
func medianTime(mag [][]float64, kernel int) [][]float64 {
	out := make([][]float64, len(mag))
	half := kernel / 2

	for b, row := range mag {
		out[b] = make([]float64, len(row))
		buf := make([]float64, 0, kernel)

		for i := range row {
			lo := max(0, i-half)
			hi := min(len(row), i+half+1)
			out[b][i] = median(row[lo:hi], buf)
		}
	}

	return out
}

// medianFrequency median-filters each time column along the frequency axis.
func medianFrequency(mag [][]float64, kernel int) [][]float64 {
	bins := len(mag)
	out := make([][]float64, bins)

	for b := range out {
		out[b] = make([]float64, len(mag[b]))
	}

	if bins == 0 {
		return out
	}

	frames := len(mag[0])
	half := kernel / 2
	column := make([]float64, bins)
	buf := make([]float64, 0, kernel)

	for i := range frames {
		for b := range bins {
			column[b] = mag[b][i]
		}

		for b := range bins {
			lo := max(0, b-half)
			hi := min(bins, b+half+1)
			out[b][i] = median(column[lo:hi], buf)
		}
	}

	return out
}

// median computes the median of window using buf as scratch space.
// The window edges are truncated rather than padded, which keeps the
// filter deterministic at the borders.
func median(window, buf []float64) float64 {
	buf = append(buf[:0], window...)
	sort.Float64s(buf)

	n := len(buf)
	if n%2 == 1 {
		return buf[n/2]
	}

	return (buf[n/2-1] + buf[n/2]) / 2
}
