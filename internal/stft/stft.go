// Package stft implements the short-time Fourier transform pair used by
// every stage of the separation pipeline. Parameters are fixed for a whole
// run: divergence between stages would put spectra on different bin/frame
// grids and break phase reuse.
package stft

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/spidy-senpai/splitter/internal/types"
)

// Transform holds the FFT plan and analysis window for one pipeline run.
// It is not safe for concurrent use; each goroutine needs its own.
type Transform struct {
	fftSize int
	hop     int
	window  []float64
	fft     *fourier.FFT
}

// New returns a Transform with the fixed analysis parameters
// (FFT size 2048, hop 512, periodic Hann window).
func New() *Transform {
	return &Transform{
		fftSize: types.FFTSize,
		hop:     types.HopSize,
		window:  hannWindow(types.FFTSize),
		fft:     fourier.NewFFT(types.FFTSize),
	}
}

// hannWindow returns a periodic Hann window of the given size.
func hannWindow(size int) []float64 {
	window := make([]float64, size)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size)))
	}

	return window
}

// Bins returns the number of frequency bins per frame.
func (t *Transform) Bins() int {
	return t.fftSize/2 + 1
}

// BinHz returns the width of one frequency bin in Hz at the given rate.
func (t *Transform) BinHz(sampleRate int) float64 {
	return float64(sampleRate) / float64(t.fftSize)
}

// NumFrames returns how many full frames fit in a signal of n samples.
func (t *Transform) NumFrames(n int) int {
	if n < t.fftSize {
		return 0
	}

	return (n-t.fftSize)/t.hop + 1
}

// Forward computes the complex spectrogram of a signal, bins-major:
// spec[bin][frame], with fftSize/2+1 bins.
func (t *Transform) Forward(samples []float64) [][]complex128 {
	numFrames := t.NumFrames(len(samples))
	bins := t.Bins()

	spec := make([][]complex128, bins)
	for b := range spec {
		spec[b] = make([]complex128, numFrames)
	}

	frame := make([]float64, t.fftSize)

	for i := range numFrames {
		start := i * t.hop
		for j := range frame {
			frame[j] = samples[start+j] * t.window[j]
		}

		coeffs := t.fft.Coefficients(nil, frame)
		for b := range bins {
			spec[b][i] = coeffs[b]
		}
	}

	return spec
}

// Split decomposes a complex spectrogram into magnitude and phase planes.
func Split(spec [][]complex128) *types.SpectralFrame {
	mag := make([][]float64, len(spec))
	phase := make([][]float64, len(spec))

	for b, row := range spec {
		mag[b] = make([]float64, len(row))
		phase[b] = make([]float64, len(row))

		for i, c := range row {
			mag[b][i] = cmplx.Abs(c)

			// Atan2 maps a negative-zero imaginary part to -pi; fold it
			// onto pi to keep phases in (-pi, pi].
			p := math.Atan2(imag(c), real(c))
			if p == -math.Pi {
				p = math.Pi
			}

			phase[b][i] = p
		}
	}

	return &types.SpectralFrame{Magnitude: mag, Phase: phase}
}

// Inverse reconstructs a signal from a bins-major complex spectrogram by
// windowed overlap-add. The result is normalized by the accumulated squared
// window, so framing edge effects stay bounded; the output length is
// (frames-1)*hop + fftSize, which callers must tolerate.
func (t *Transform) Inverse(spec [][]complex128) []float64 {
	bins := t.Bins()
	if len(spec) != bins || len(spec[0]) == 0 {
		return nil
	}

	numFrames := len(spec[0])
	out := make([]float64, (numFrames-1)*t.hop+t.fftSize)
	wsum := make([]float64, len(out))

	coeffs := make([]complex128, bins)
	frame := make([]float64, t.fftSize)

	for i := range numFrames {
		for b := range bins {
			coeffs[b] = spec[b][i]
		}

		t.fft.Sequence(frame, coeffs)

		// gonum's Sequence is unnormalized.
		start := i * t.hop
		for j := range frame {
			v := frame[j] / float64(t.fftSize)
			out[start+j] += v * t.window[j]
			wsum[start+j] += t.window[j] * t.window[j]
		}
	}

	const tiny = 1e-8

	for i := range out {
		if wsum[i] > tiny {
			out[i] /= wsum[i]
		}
	}

	return out
}

// InversePolar recombines magnitude with phase and reconstructs the signal.
func (t *Transform) InversePolar(mag, phase [][]float64) []float64 {
	spec := make([][]complex128, len(mag))
	for b := range mag {
		spec[b] = make([]complex128, len(mag[b]))
		for i := range mag[b] {
			spec[b][i] = cmplx.Rect(mag[b][i], phase[b][i])
		}
	}

	return t.Inverse(spec)
}
