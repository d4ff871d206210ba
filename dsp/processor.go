// Package dsp applies validated processing strategies to audio through
// an ordered chain of spectral-domain transforms.
//
// Every spectral stage operates on the transform of the whole buffer,
// which is acceptable for the bounded-duration frames this pipeline
// processes. Continuous/streaming audio needs overlap-add block
// processing instead; the per-stage math here carries over unchanged.
package dsp

import (
	"math"
	"math/cmplx"

	"github.com/RyanBlaney/sonido-aid/algorithms/common"
	"github.com/RyanBlaney/sonido-aid/algorithms/spectral"
	"github.com/RyanBlaney/sonido-aid/algorithms/temporal"
	"github.com/RyanBlaney/sonido-aid/logging"
	"github.com/RyanBlaney/sonido-aid/strategy"
)

// Stage tuning constants
const (
	// noiseFloorPercentile picks the quiet bins as the noise estimate
	noiseFloorPercentile = 0.10

	// suppressionEnergyFloor keeps at least 10% of each bin's original
	// energy to avoid musical-noise artifacts from over-suppression
	suppressionEnergyFloor = 0.10

	// gateThresholdScale scales the linear gate threshold
	gateThresholdScale = 0.1

	// gateSmoothingWindow is the moving-average length for the gate
	// mask, long enough to remove audible clicks
	gateSmoothingWindow = 100

	// Speech band for the enhancement stage, in Hz
	speechBandLowHz  = 300.0
	speechBandHighHz = 3000.0

	// speechEmphasisScale maps enhancement level to band gain
	speechEmphasisScale = 0.5

	// compressionThreshold is the amplitude above which gain reduction
	// engages
	compressionThreshold = 0.5

	// compressionSmoothingWindow smooths the gain envelope to avoid
	// pumping artifacts
	compressionSmoothingWindow = 50

	// Band edges for custom emphasis, in Hz
	bandLowMaxHz     = 500.0
	bandMidLowMaxHz  = 2000.0
	bandMidHighMaxHz = 8000.0

	// Shelf edges for the fixed high/low adjustments, in Hz
	highShelfHz = 4000.0
	lowShelfHz  = 200.0
)

// Processor applies a strategy's transform chain to waveforms.
// Deterministic for identical input and strategy; output always has
// the input's length with samples clamped to [-1, 1].
type Processor struct {
	sampleRate int

	fft          *spectral.FFT
	gateSmoother *temporal.MovingAverage
	gainSmoother *temporal.MovingAverage

	logger logging.Logger
}

// NewProcessor creates an audio processor for the given sample rate
func NewProcessor(sampleRate int) *Processor {
	return &Processor{
		sampleRate:   sampleRate,
		fft:          spectral.NewFFT(),
		gateSmoother: temporal.NewMovingAverage(gateSmoothingWindow),
		gainSmoother: temporal.NewMovingAverage(compressionSmoothingWindow),
		logger: logging.WithFields(logging.Fields{
			"component": "audio_processor",
		}),
	}
}

// Apply runs the full transform chain. Order matters: each stage
// consumes the previous stage's output.
func (p *Processor) Apply(signal []float64, st strategy.Strategy) []float64 {
	if len(signal) == 0 {
		return []float64{}
	}

	processed := make([]float64, len(signal))
	copy(processed, signal)

	if st.NoiseSuppression > 0 {
		processed = p.suppressNoise(processed, st.NoiseSuppression)
	}

	processed = p.applyGate(processed, st.NoiseGateThresholdDB)

	if st.SpeechEnhancement > 0 {
		processed = p.enhanceSpeech(processed, st.SpeechEnhancement)
	}

	if st.CompressionRatio > 1.0 {
		processed = p.compress(processed, st.CompressionRatio)
	}

	if len(st.FrequencyEmphasis) > 0 {
		processed = p.applyEmphasis(processed, st.FrequencyEmphasis)
	}

	processed = p.applyShelves(processed, st.HighFreqBoostDB, st.LowFreqReductionDB)

	for i := range processed {
		processed[i] = common.Clamp(processed[i]*st.AdaptiveGain, -1.0, 1.0)
	}

	return processed
}

// suppressNoise performs spectral subtraction: the 10th percentile of
// per-bin energy estimates the noise floor, strength times that floor
// is subtracted from every bin's energy, and each bin keeps at least
// 10% of its original energy. Original phase is preserved.
func (p *Processor) suppressNoise(signal []float64, strength float64) []float64 {
	spectrum := p.fft.Compute(signal)

	energies := make([]float64, len(spectrum))
	for i, bin := range spectrum {
		mag := cmplx.Abs(bin)
		energies[i] = mag * mag
	}

	noiseFloor := common.Percentile(energies, noiseFloorPercentile)

	suppressed := make([]complex128, len(spectrum))
	for i, bin := range spectrum {
		energy := energies[i] - strength*noiseFloor
		if floor := suppressionEnergyFloor * energies[i]; energy < floor {
			energy = floor
		}
		mag := math.Sqrt(energy)
		phase := cmplx.Phase(bin)
		suppressed[i] = cmplx.Rect(mag, phase)
	}

	return p.fft.ComputeInverseReal(suppressed)
}

// applyGate computes a binary open/close mask against the linear gate
// threshold and smooths it with a moving average before multiplying it
// into the signal
func (p *Processor) applyGate(signal []float64, thresholdDB float64) []float64 {
	threshold := common.DBToLinear(thresholdDB) * gateThresholdScale

	mask := make([]float64, len(signal))
	for i, v := range signal {
		if math.Abs(v) > threshold {
			mask[i] = 1.0
		}
	}

	mask = p.gateSmoother.Smooth(mask)

	out := make([]float64, len(signal))
	for i := range signal {
		out[i] = signal[i] * mask[i]
	}
	return out
}

// enhanceSpeech multiplies the 300-3000 Hz bins by 1 + 0.5*level,
// leaving every other bin unchanged
func (p *Processor) enhanceSpeech(signal []float64, level float64) []float64 {
	gain := 1.0 + level*speechEmphasisScale
	return p.scaleBins(signal, func(freq float64) float64 {
		if freq >= speechBandLowHz && freq <= speechBandHighHz {
			return gain
		}
		return 1.0
	})
}

// compress computes a per-sample gain that reduces amplitude above the
// fixed threshold according to the ratio, then smooths the gain
// envelope before applying it
func (p *Processor) compress(signal []float64, ratio float64) []float64 {
	gain := make([]float64, len(signal))
	for i, v := range signal {
		a := math.Abs(v)
		if a > compressionThreshold {
			gain[i] = compressionThreshold * (1.0/ratio - 1.0 + a) / a
		} else {
			gain[i] = 1.0
		}
	}

	gain = p.gainSmoother.Smooth(gain)

	out := make([]float64, len(signal))
	for i := range signal {
		out[i] = signal[i] * gain[i]
	}
	return out
}

// applyEmphasis scales the named frequency bands by their dB gains
func (p *Processor) applyEmphasis(signal []float64, emphasis map[string]float64) []float64 {
	gains := make(map[string]float64, len(emphasis))
	for band, db := range emphasis {
		gains[band] = common.DBToLinear(db)
	}

	return p.scaleBins(signal, func(freq float64) float64 {
		g := 1.0
		if v, ok := gains[strategy.BandLow]; ok && freq < bandLowMaxHz {
			g *= v
		}
		if v, ok := gains[strategy.BandMidLow]; ok && freq >= bandLowMaxHz && freq < bandMidLowMaxHz {
			g *= v
		}
		if v, ok := gains[strategy.BandMidHigh]; ok && freq >= bandMidLowMaxHz && freq < bandMidHighMaxHz {
			g *= v
		}
		if v, ok := gains[strategy.BandHigh]; ok && freq >= bandMidHighMaxHz {
			g *= v
		}
		return g
	})
}

// applyShelves boosts bins above 4 kHz and attenuates bins below
// 200 Hz by the configured fixed adjustments
func (p *Processor) applyShelves(signal []float64, highBoostDB, lowReductionDB float64) []float64 {
	if highBoostDB == 0 && lowReductionDB == 0 {
		return signal
	}

	highGain := common.DBToLinear(highBoostDB)
	lowGain := common.DBToLinear(lowReductionDB)

	return p.scaleBins(signal, func(freq float64) float64 {
		switch {
		case highBoostDB != 0 && freq > highShelfHz:
			return highGain
		case lowReductionDB != 0 && freq < lowShelfHz:
			return lowGain
		default:
			return 1.0
		}
	})
}

// scaleBins applies a frequency-dependent gain across the full
// spectrum. Bin frequencies mirror above N/2 so conjugate symmetry is
// preserved and the inverse transform stays real.
func (p *Processor) scaleBins(signal []float64, gainAt func(freq float64) float64) []float64 {
	spectrum := p.fft.Compute(signal)
	n := len(spectrum)

	for i := range spectrum {
		freq := p.fft.BinFrequency(i, n, p.sampleRate)
		if g := gainAt(freq); g != 1.0 {
			spectrum[i] *= complex(g, 0)
		}
	}

	return p.fft.ComputeInverseReal(spectrum)
}
