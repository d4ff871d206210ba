package spectral

// SpectralRolloff computes the spectral rolloff frequency: the lowest
// bin frequency below which a given fraction of the cumulative spectral
// magnitude is concentrated
type SpectralRolloff struct {
	sampleRate  int
	freqBins    []float64 // Pre-calculated frequency bins
	initialized bool
}

// NewSpectralRolloff creates a new spectral rolloff calculator
func NewSpectralRolloff(sampleRate int) *SpectralRolloff {
	return &SpectralRolloff{
		sampleRate: sampleRate,
	}
}

// Compute calculates spectral rolloff for a single magnitude spectrum
// threshold: typically 0.85 for the 85th percentile of magnitude
func (sr *SpectralRolloff) Compute(spectrum []float64, threshold float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}

	if !sr.initialized || len(sr.freqBins) != len(spectrum) {
		sr.initializeFreqBins(len(spectrum))
	}

	total := 0.0
	for _, mag := range spectrum {
		total += mag
	}

	if total == 0 {
		return 0
	}

	target := threshold * total
	cumulative := 0.0

	for i := 0; i < len(spectrum); i++ {
		cumulative += spectrum[i]
		if cumulative >= target {
			return sr.freqBins[i]
		}
	}

	return 0
}

// initializeFreqBins pre-calculates frequency bins
func (sr *SpectralRolloff) initializeFreqBins(numBins int) {
	sr.freqBins = make([]float64, numBins)
	for i := 0; i < numBins; i++ {
		sr.freqBins[i] = float64(i) * float64(sr.sampleRate) / float64((numBins-1)*2)
	}
	sr.initialized = true
}
