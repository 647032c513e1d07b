package stft

import (
	"math"
	"testing"

	"github.com/spidy-senpai/splitter/internal/types"
)

func sine(freq float64, seconds float64) []float64 {
	n := int(seconds * types.AnalysisRate)
	out := make([]float64, n)

	for i := range out {
		out[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/types.AnalysisRate)
	}

	return out
}

func TestForwardShape(t *testing.T) {
	transform := New()
	samples := sine(440, 1.0)

	spec := transform.Forward(samples)

	wantBins := types.FFTSize/2 + 1
	if len(spec) != wantBins {
		t.Fatalf("bins=%d, want %d", len(spec), wantBins)
	}

	wantFrames := (len(samples)-types.FFTSize)/types.HopSize + 1
	if len(spec[0]) != wantFrames {
		t.Fatalf("frames=%d, want %d", len(spec[0]), wantFrames)
	}
}

func TestForwardShortInput(t *testing.T) {
	transform := New()

	spec := transform.Forward(make([]float64, types.FFTSize-1))
	if got := len(spec[0]); got != 0 {
		t.Fatalf("frames=%d for sub-frame input, want 0", got)
	}
}

func TestSinePeakBin(t *testing.T) {
	transform := New()
	spec := transform.Forward(sine(440, 1.0))
	frame := Split(spec)

	midFrame := frame.Frames() / 2

	best := 0
	for b := range frame.Bins() {
		if frame.Magnitude[b][midFrame] > frame.Magnitude[best][midFrame] {
			best = b
		}
	}

	want := int(math.Round(440 / transform.BinHz(types.AnalysisRate)))
	if best < want-1 || best > want+1 {
		t.Fatalf("peak bin=%d, want %d±1", best, want)
	}
}

func TestPhaseRange(t *testing.T) {
	transform := New()
	frame := Split(transform.Forward(sine(523.25, 0.5)))

	for b := range frame.Bins() {
		for i := range frame.Frames() {
			p := frame.Phase[b][i]
			if p <= -math.Pi || p > math.Pi {
				t.Fatalf("phase[%d][%d]=%v out of (-pi, pi]", b, i, p)
			}
		}
	}
}

func TestSplitNegativeZeroImaginary(t *testing.T) {
	// Atan2(-0, x<0) is -pi; Split must fold that onto pi.
	negZero := math.Copysign(0, -1)
	spec := [][]complex128{{complex(-1, negZero), complex(-2.5, 0)}}

	frame := Split(spec)

	for i := range 2 {
		if got := frame.Phase[0][i]; got != math.Pi {
			t.Fatalf("phase[0][%d]=%v, want %v", i, got, math.Pi)
		}
	}

	if got := frame.Magnitude[0][1]; got != 2.5 {
		t.Fatalf("magnitude=%v, want 2.5", got)
	}
}

func TestRoundTrip(t *testing.T) {
	transform := New()

	// Deterministic broadband-ish signal.
	samples := make([]float64, types.AnalysisRate)
	for i := range samples {
		x := float64(i)
		samples[i] = 0.4*math.Sin(2*math.Pi*220*x/types.AnalysisRate) +
			0.2*math.Sin(2*math.Pi*1731*x/types.AnalysisRate) +
			0.1*math.Sin(2*math.Pi*5500*x/types.AnalysisRate)
	}

	out := transform.Inverse(transform.Forward(samples))

	if len(out) > len(samples) {
		t.Fatalf("reconstruction longer than input: %d > %d", len(out), len(samples))
	}

	// The first and last frame have partial window coverage, so compare
	// only the fully overlapped interior.
	const tolerance = 1e-9

	for i := types.FFTSize; i < len(out)-types.FFTSize; i++ {
		if diff := math.Abs(out[i] - samples[i]); diff > tolerance {
			t.Fatalf("sample %d: |%v - %v| = %v > %v", i, out[i], samples[i], diff, tolerance)
		}
	}
}

func TestInversePolarMatchesInverse(t *testing.T) {
	transform := New()
	samples := sine(880, 0.6)

	spec := transform.Forward(samples)
	frame := Split(spec)

	direct := transform.Inverse(spec)
	polar := transform.InversePolar(frame.Magnitude, frame.Phase)

	if len(direct) != len(polar) {
		t.Fatalf("length mismatch: %d vs %d", len(direct), len(polar))
	}

	const tolerance = 1e-9

	for i := range direct {
		if diff := math.Abs(direct[i] - polar[i]); diff > tolerance {
			t.Fatalf("sample %d: |%v - %v| = %v > %v", i, direct[i], polar[i], diff, tolerance)
		}
	}
}
