package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSampleRate = 16000

func sine(freq float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / testSampleRate)
	}
	return out
}

func TestFFTRoundTrip(t *testing.T) {
	f := NewFFT()
	signal := sine(440, 1024)

	spectrum := f.Compute(signal)
	require.Len(t, spectrum, len(signal))

	back := f.ComputeInverseReal(spectrum)
	require.Len(t, back, len(signal))
	for i := range signal {
		assert.InDelta(t, signal[i], back[i], 1e-9)
	}
}

func TestFFTEmptyInput(t *testing.T) {
	f := NewFFT()
	assert.Empty(t, f.Compute(nil))
	assert.Empty(t, f.ComputeInverse(nil))
	assert.Empty(t, f.ComputeInverseReal(nil))
	assert.Empty(t, f.Magnitudes(nil))
}

func TestFFTNonPowerOfTwo(t *testing.T) {
	f := NewFFT()
	signal := sine(500, 1000)

	spectrum := f.Compute(signal)
	back := f.ComputeInverseReal(spectrum)

	require.Len(t, back, 1000)
	for i := range signal {
		assert.InDelta(t, signal[i], back[i], 1e-9)
	}
}

func TestMagnitudesPeakAtToneBin(t *testing.T) {
	f := NewFFT()

	// 1000 Hz over 2048 samples at 16 kHz lands exactly on bin 128
	mags := f.Magnitudes(f.Compute(sine(1000, 2048)))
	require.Len(t, mags, 1025)

	peak := 0
	for i, m := range mags {
		if m > mags[peak] {
			peak = i
		}
	}
	assert.Equal(t, 128, peak)
}

func TestBinFrequency(t *testing.T) {
	f := NewFFT()

	assert.Equal(t, 0.0, f.BinFrequency(0, 2048, testSampleRate))
	assert.InDelta(t, 1000.0, f.BinFrequency(128, 2048, testSampleRate), 1e-9)
	assert.InDelta(t, 8000.0, f.BinFrequency(1024, 2048, testSampleRate), 1e-9)

	// Bins above N/2 mirror down
	assert.Equal(t, f.BinFrequency(128, 2048, testSampleRate), f.BinFrequency(2048-128, 2048, testSampleRate))

	assert.Equal(t, 0.0, f.BinFrequency(5, 0, testSampleRate))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite([]float64{0, 1.5, -2}))
	assert.True(t, IsFinite(nil))
	assert.False(t, IsFinite([]float64{0, math.NaN()}))
	assert.False(t, IsFinite([]float64{math.Inf(1)}))
	assert.False(t, IsFinite([]float64{math.Inf(-1)}))
}
