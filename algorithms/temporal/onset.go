package temporal

import (
	"math"
)

// OnsetStrength measures transient energy as the RMS of the signal's
// first difference. A cheap proxy for onset density that avoids full
// onset detection machinery.
type OnsetStrength struct {
	// No state needed - stateless calculation
}

// NewOnsetStrength creates a new onset strength calculator
func NewOnsetStrength() *OnsetStrength {
	return &OnsetStrength{}
}

// Compute returns the RMS of consecutive-sample differences.
// Returns 0 for signals shorter than two samples.
func (o *OnsetStrength) Compute(signal []float64) float64 {
	if len(signal) < 2 {
		return 0.0
	}

	sumSquares := 0.0
	for i := 1; i < len(signal); i++ {
		d := signal[i] - signal[i-1]
		sumSquares += d * d
	}

	return math.Sqrt(sumSquares / float64(len(signal)-1))
}
