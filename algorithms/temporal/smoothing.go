package temporal

// MovingAverage provides same-length moving-average smoothing for
// envelopes and gain curves, used to avoid clicks and pumping when a
// per-sample mask or gain is applied to audio
type MovingAverage struct {
	windowSize int
}

// NewMovingAverage creates a smoother with the given window length
func NewMovingAverage(windowSize int) *MovingAverage {
	if windowSize < 1 {
		windowSize = 1
	}
	return &MovingAverage{windowSize: windowSize}
}

// Smooth convolves the input with a normalized rectangular window and
// returns the centered same-length result. The signal is treated as
// zero-padded, so values near the edges average in implicit zeros; the
// divisor stays the full window length throughout.
func (ma *MovingAverage) Smooth(signal []float64) []float64 {
	n := len(signal)
	if n == 0 {
		return []float64{}
	}

	w := ma.windowSize
	if w == 1 {
		out := make([]float64, n)
		copy(out, signal)
		return out
	}

	// Prefix sums make each window a constant-time lookup
	prefix := make([]float64, n+1)
	for i, v := range signal {
		prefix[i+1] = prefix[i] + v
	}

	offset := (w - 1) / 2
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		k := i + offset
		lo := k - w + 1
		if lo < 0 {
			lo = 0
		}
		hi := k
		if hi > n-1 {
			hi = n - 1
		}
		out[i] = (prefix[hi+1] - prefix[lo]) / float64(w)
	}

	return out
}
