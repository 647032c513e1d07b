// Package stems turns a separated component spectrum into an isolated
// stem waveform: a per-bin gain vector shapes the magnitude, the
// component's own phase is reused for reconstruction, and the result is
// peak-normalized.
package stems

import "math"

// Band is one frequency-band gain rule. Edges are strict (low < f < high);
// use math.Inf for open-ended bands.
type Band struct {
	LowHz  float64
	HighHz float64
	Gain   float64

	// Multiply composes with the gain already assigned to the bin
	// instead of overwriting it, so a nested emphasis band scales its
	// enclosing band rather than replacing it.
	Multiply bool
}

// Mask is an ordered set of band rules over the frequency axis. Base is
// the gain of bins no rule touches: 0 for stems that zero out-of-band
// content, 1 for suppress-only stems that keep it at unity.
type Mask struct {
	Base  float64
	Bands []Band
}

// Gains materializes the mask as a per-bin gain vector. Bin b sits at
// frequency b*binHz.
func (m Mask) Gains(bins int, binHz float64) []float64 {
	gains := make([]float64, bins)
	for b := range gains {
		gains[b] = m.Base
	}

	for _, band := range m.Bands {
		for b := range gains {
			freq := float64(b) * binHz
			if freq <= band.LowHz || freq >= band.HighHz {
				continue
			}

			if band.Multiply {
				gains[b] *= band.Gain
			} else {
				gains[b] = band.Gain
			}
		}
	}

	return gains
}

// Below returns a band covering everything under highHz.
func Below(highHz, gain float64, multiply bool) Band {
	return Band{LowHz: math.Inf(-1), HighHz: highHz, Gain: gain, Multiply: multiply}
}

// Above returns a band covering everything over lowHz.
func Above(lowHz, gain float64, multiply bool) Band {
	return Band{LowHz: lowHz, HighHz: math.Inf(1), Gain: gain, Multiply: multiply}
}
