package spectral

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT provides Fast Fourier Transform functionality for full-buffer
// spectral processing
type FFT struct {
	// No state needed for now
}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the forward transform using mjibson/go-dsp
// Takes []float64 input and returns the full []complex128 spectrum
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	// mjibson/go-dsp handles all sizes efficiently, including non-power-of-2
	return fft.FFTReal(x)
}

// ComputeInverse computes inverse FFT
func (f *FFT) ComputeInverse(x []complex128) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.IFFT(x)
}

// ComputeInverseReal computes inverse FFT and returns real part only
func (f *FFT) ComputeInverseReal(x []complex128) []float64 {
	if len(x) == 0 {
		return []float64{}
	}

	result := fft.IFFT(x)
	realResult := make([]float64, len(result))

	for i, val := range result {
		realResult[i] = real(val)
	}

	return realResult
}

// Magnitudes returns per-bin magnitudes for the first half of the
// spectrum (bins 0..N/2), which is all a real signal carries
func (f *FFT) Magnitudes(spectrum []complex128) []float64 {
	if len(spectrum) == 0 {
		return []float64{}
	}

	half := len(spectrum)/2 + 1
	mags := make([]float64, half)
	for i := 0; i < half; i++ {
		mags[i] = cmplx.Abs(spectrum[i])
	}

	return mags
}

// BinFrequency returns the center frequency in Hz of bin i in a full
// N-point spectrum. Bins above N/2 mirror down so that symmetric
// per-bin gains keep the inverse transform real.
func (f *FFT) BinFrequency(i, n, sampleRate int) float64 {
	if n == 0 {
		return 0
	}
	if i > n/2 {
		i = n - i
	}
	return float64(i) * float64(sampleRate) / float64(n)
}

// IsFinite reports whether every sample is a finite number
func IsFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
