package spectral

// ZeroCrossingRate calculates the zero crossing rate of a signal.
// High ZCR indicates fricatives/unvoiced speech, low ZCR indicates
// voiced speech or low-frequency noise.
type ZeroCrossingRate struct {
	sampleRate int
}

// NewZeroCrossingRate creates a new zero crossing rate calculator
func NewZeroCrossingRate(sampleRate int) *ZeroCrossingRate {
	return &ZeroCrossingRate{
		sampleRate: sampleRate,
	}
}

// Compute calculates the mean sign-change rate of the signal as a
// fraction in [0, 1]: the mean of |sign(x[i+1]) - sign(x[i])| over all
// consecutive sample pairs, normalized by 2. Exact zeros contribute a
// half-step, matching the sign-difference formulation.
func (zcr *ZeroCrossingRate) Compute(signal []float64) float64 {
	if len(signal) < 2 {
		return 0.0
	}

	sum := 0.0
	for i := 1; i < len(signal); i++ {
		d := sign(signal[i]) - sign(signal[i-1])
		if d < 0 {
			d = -d
		}
		sum += d
	}

	return sum / float64(len(signal)-1) / 2.0
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
