package types

// Fixed analysis parameters. Every transform in a separation run shares
// these, so harmonic, percussive and stem spectra live on the same
// bin/frame grid and phases can be reused across stages.
const (
	// AnalysisRate is the sample rate all input is resampled to.
	AnalysisRate = 22050

	// FFTSize is the STFT frame length in samples.
	FFTSize = 2048

	// HopSize is the STFT hop in samples.
	HopSize = 512

	// MinDuration is the minimum accepted input duration in seconds,
	// measured on the decoded signal after resampling.
	MinDuration = 0.5
)

// AudioSignal is a mono PCM buffer at a known sample rate.
type AudioSignal struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the signal length in seconds.
func (s *AudioSignal) Duration() float64 {
	if s.SampleRate == 0 {
		return 0
	}

	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// Peak returns the maximum absolute sample value.
func (s *AudioSignal) Peak() float64 {
	var peak float64

	for _, v := range s.Samples {
		if v < 0 {
			v = -v
		}

		if v > peak {
			peak = v
		}
	}

	return peak
}

// SpectralFrame is a time-frequency representation of a signal: magnitude
// and phase, both bins-major ([bin][frame], FFTSize/2+1 rows). Phase values
// are in (-pi, pi].
type SpectralFrame struct {
	Magnitude [][]float64
	Phase     [][]float64
}

// Bins returns the number of frequency bins.
func (f *SpectralFrame) Bins() int {
	return len(f.Magnitude)
}

// Frames returns the number of time frames.
func (f *SpectralFrame) Frames() int {
	if len(f.Magnitude) == 0 {
		return 0
	}

	return len(f.Magnitude[0])
}

// SourceComponent identifies which HPSS output a stem draws from.
type SourceComponent int

const (
	ComponentHarmonic SourceComponent = iota
	ComponentPercussive
)

func (c SourceComponent) String() string {
	if c == ComponentPercussive {
		return "percussive"
	}

	return "harmonic"
}
