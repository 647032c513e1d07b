package stems

import (
	"math"
	"testing"

	"github.com/spidy-senpai/splitter/internal/stft"
	"github.com/spidy-senpai/splitter/internal/types"
)

func toneFrame(t *testing.T, transform *stft.Transform, freq float64) *types.SpectralFrame {
	t.Helper()

	samples := make([]float64, types.AnalysisRate)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/types.AnalysisRate)
	}

	return stft.Split(transform.Forward(samples))
}

func bandEnergy(transform *stft.Transform, samples []float64, freq float64) float64 {
	frame := stft.Split(transform.Forward(samples))
	center := int(math.Round(freq / transform.BinHz(types.AnalysisRate)))

	var sum float64
	for b := center - 2; b <= center+2; b++ {
		for _, v := range frame.Magnitude[b] {
			sum += v * v
		}
	}

	return sum
}

func TestSynthesizeNormalizesPeak(t *testing.T) {
	transform := stft.New()
	source := toneFrame(t, transform, 440)

	out := Synthesize(transform, source, Mask{Base: 1}, types.AnalysisRate)

	if peak := out.Peak(); math.Abs(peak-TargetLevel) > 1e-9 {
		t.Fatalf("peak=%v, want %v", peak, TargetLevel)
	}

	if out.SampleRate != types.AnalysisRate {
		t.Fatalf("sample rate=%d, want %d", out.SampleRate, types.AnalysisRate)
	}
}

func TestSynthesizeZeroMask(t *testing.T) {
	transform := stft.New()
	source := toneFrame(t, transform, 440)

	out := Synthesize(transform, source, Mask{Base: 0}, types.AnalysisRate)

	for i, s := range out.Samples {
		if s != 0 {
			t.Fatalf("sample %d=%v for all-zero mask, want 0", i, s)
		}
	}
}

func TestSynthesizeBandSelectivity(t *testing.T) {
	transform := stft.New()

	// Two tones; the mask keeps only the band around the lower one.
	samples := make([]float64, types.AnalysisRate)
	for i := range samples {
		x := float64(i)
		samples[i] = 0.4*math.Sin(2*math.Pi*200*x/types.AnalysisRate) +
			0.4*math.Sin(2*math.Pi*3500*x/types.AnalysisRate)
	}

	source := stft.Split(transform.Forward(samples))
	mask := Mask{Base: 0, Bands: []Band{{LowHz: 100, HighHz: 400, Gain: 1}}}

	out := Synthesize(transform, source, mask, types.AnalysisRate)

	kept := bandEnergy(transform, out.Samples, 200)
	dropped := bandEnergy(transform, out.Samples, 3500)

	if kept <= dropped*100 {
		t.Fatalf("in-band energy %v not dominant over out-of-band %v", kept, dropped)
	}
}

func TestVocalsEmphasisComposition(t *testing.T) {
	transform := stft.New()

	// Energy at 200 Hz (inside the 150..3000 Hz emphasis band) and at
	// 3500 Hz (inside the primary band only). Relative to an unmasked
	// reference, the 3500 Hz content must come out more attenuated.
	samples := make([]float64, types.AnalysisRate)
	for i := range samples {
		x := float64(i)
		samples[i] = 0.4*math.Sin(2*math.Pi*200*x/types.AnalysisRate) +
			0.4*math.Sin(2*math.Pi*3500*x/types.AnalysisRate)
	}

	source := stft.Split(transform.Forward(samples))

	vocals := Mask{Bands: []Band{
		{LowHz: 80, HighHz: 4000, Gain: 1.2},
		{LowHz: 150, HighHz: 3000, Gain: 1.3, Multiply: true},
	}}

	masked := Synthesize(transform, source, vocals, types.AnalysisRate)
	reference := Synthesize(transform, source, Mask{Base: 1}, types.AnalysisRate)

	maskedRatio := bandEnergy(transform, masked.Samples, 3500) /
		bandEnergy(transform, masked.Samples, 200)
	referenceRatio := bandEnergy(transform, reference.Samples, 3500) /
		bandEnergy(transform, reference.Samples, 200)

	if maskedRatio >= referenceRatio {
		t.Fatalf("3500/200 Hz energy ratio %v not reduced from reference %v", maskedRatio, referenceRatio)
	}
}

func TestNormalizeZeroGuard(t *testing.T) {
	signal := &types.AudioSignal{
		Samples:    make([]float64, 1024),
		SampleRate: types.AnalysisRate,
	}

	Normalize(signal)

	for i, s := range signal.Samples {
		if s != 0 {
			t.Fatalf("sample %d=%v after normalizing silence, want 0", i, s)
		}
	}
}

func TestNormalizeScalesToTarget(t *testing.T) {
	signal := &types.AudioSignal{
		Samples:    []float64{0.1, -0.25, 0.05},
		SampleRate: types.AnalysisRate,
	}

	Normalize(signal)

	if got := signal.Peak(); math.Abs(got-TargetLevel) > 1e-12 {
		t.Fatalf("peak=%v, want %v", got, TargetLevel)
	}

	// Relative shape survives scaling.
	if math.Abs(signal.Samples[0]/signal.Samples[2]-2) > 1e-9 {
		t.Fatalf("relative sample shape changed: %v", signal.Samples)
	}
}
