package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-aid/strategy"
)

const testSampleRate = 16000

func sine(freq, amp float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/testSampleRate)
	}
	return out
}

func neutralStrategy() strategy.Strategy {
	return strategy.Strategy{
		Name:                 "neutral",
		CompressionRatio:     1.0,
		AdaptiveGain:         1.0,
		NoiseGateThresholdDB: -60.0,
		FrequencyProfile:     strategy.ProfileNeutral,
	}
}

func TestApplyPreservesLength(t *testing.T) {
	p := NewProcessor(testSampleRate)

	st := strategy.Strategy{
		Name:                 "full_chain",
		NoiseSuppression:     0.5,
		SpeechEnhancement:    0.6,
		CompressionRatio:     3.0,
		HighFreqBoostDB:      4.0,
		LowFreqReductionDB:   -3.0,
		AdaptiveGain:         1.2,
		NoiseGateThresholdDB: -40.0,
		FrequencyProfile:     strategy.ProfileSpeechOptimized,
		FrequencyEmphasis:    strategy.EmphasisForProfile(strategy.ProfileSpeechOptimized),
	}

	for _, n := range []int{256, 1000, 2048} {
		signal := sine(800, 0.5, n)
		out := p.Apply(signal, st)
		require.Len(t, out, n)
	}
}

func TestApplyEmptySignal(t *testing.T) {
	p := NewProcessor(testSampleRate)
	out := p.Apply(nil, neutralStrategy())
	assert.Empty(t, out)
}

func TestApplyClampsOutput(t *testing.T) {
	p := NewProcessor(testSampleRate)

	st := neutralStrategy()
	st.AdaptiveGain = 2.0

	out := p.Apply(sine(440, 0.9, 1024), st)
	for _, v := range out {
		require.GreaterOrEqual(t, v, -1.0)
		require.LessOrEqual(t, v, 1.0)
	}
}

func TestApplyDeterministic(t *testing.T) {
	p := NewProcessor(testSampleRate)
	st := strategy.Strategy{
		Name:                 "repeatable",
		NoiseSuppression:     0.4,
		SpeechEnhancement:    0.3,
		CompressionRatio:     2.0,
		AdaptiveGain:         1.0,
		NoiseGateThresholdDB: -50.0,
		FrequencyProfile:     strategy.ProfileNeutral,
	}

	signal := sine(1000, 0.5, 1024)
	a := p.Apply(signal, st)
	b := p.Apply(signal, st)

	assert.Equal(t, a, b)
}

func TestApplyOutputIsFinite(t *testing.T) {
	p := NewProcessor(testSampleRate)
	st := strategy.Strategy{
		Name:                 "everything",
		NoiseSuppression:     0.95,
		SpeechEnhancement:    0.9,
		CompressionRatio:     8.0,
		HighFreqBoostDB:      10.0,
		LowFreqReductionDB:   -12.0,
		AdaptiveGain:         2.0,
		NoiseGateThresholdDB: -10.0,
		FrequencyProfile:     strategy.ProfileClarityBoost,
		FrequencyEmphasis:    strategy.EmphasisForProfile(strategy.ProfileClarityBoost),
	}

	out := p.Apply(sine(2000, 0.8, 2048), st)
	for _, v := range out {
		require.False(t, math.IsNaN(v))
		require.False(t, math.IsInf(v, 0))
	}
}

func TestAdaptiveGainScalesAmplitude(t *testing.T) {
	p := NewProcessor(testSampleRate)

	quiet := neutralStrategy()
	quiet.AdaptiveGain = 0.5

	signal := sine(440, 0.4, 1024)
	out := p.Apply(signal, quiet)

	var inPeak, outPeak float64
	for i := range signal {
		inPeak = math.Max(inPeak, math.Abs(signal[i]))
		outPeak = math.Max(outPeak, math.Abs(out[i]))
	}

	assert.InDelta(t, inPeak*0.5, outPeak, 0.05)
}

func TestCompressReducesPeaks(t *testing.T) {
	p := NewProcessor(testSampleRate)

	signal := sine(440, 0.9, 2048)
	out := p.compress(signal, 4.0)

	var inPeak, outPeak float64
	for i := range signal {
		inPeak = math.Max(inPeak, math.Abs(signal[i]))
		outPeak = math.Max(outPeak, math.Abs(out[i]))
	}

	assert.Less(t, outPeak, inPeak)
	// The smoothed gain envelope attenuates but never mutes the signal
	assert.Greater(t, outPeak, 0.1)
}

func TestGateSilencesQuietSignal(t *testing.T) {
	p := NewProcessor(testSampleRate)

	// -10 dB threshold scaled by 0.1 gives a linear gate around 0.032;
	// a 0.001 amplitude signal sits far below it
	quiet := sine(440, 0.001, 1024)
	out := p.applyGate(quiet, -10.0)

	for _, v := range out {
		require.InDelta(t, 0.0, v, 1e-9)
	}
}

func TestGatePassesLoudSignal(t *testing.T) {
	p := NewProcessor(testSampleRate)

	loud := sine(440, 0.8, 1024)
	out := p.applyGate(loud, -60.0)

	var energy float64
	for _, v := range out {
		energy += v * v
	}
	assert.Greater(t, energy, 100.0)
}

func TestEnhanceSpeechBoostsSpeechBand(t *testing.T) {
	p := NewProcessor(testSampleRate)

	inBand := sine(1000, 0.3, 2048)
	outOfBand := sine(6000, 0.3, 2048)

	inBandOut := p.enhanceSpeech(inBand, 1.0)
	outOfBandOut := p.enhanceSpeech(outOfBand, 1.0)

	assert.Greater(t, rms(inBandOut), rms(inBand)*1.3)
	assert.InDelta(t, rms(outOfBand), rms(outOfBandOut), 0.01)
}

func TestApplyShelves(t *testing.T) {
	p := NewProcessor(testSampleRate)

	high := sine(6000, 0.3, 2048)
	boosted := p.applyShelves(high, 6.0, 0.0)
	assert.Greater(t, rms(boosted), rms(high)*1.5)

	low := sine(100, 0.3, 2048)
	cut := p.applyShelves(low, 0.0, -12.0)
	assert.Less(t, rms(cut), rms(low)*0.5)

	// Zero adjustments return the signal untouched
	same := p.applyShelves(high, 0.0, 0.0)
	assert.Equal(t, high, same)
}

func TestSuppressNoiseKeepsEnergyFloor(t *testing.T) {
	p := NewProcessor(testSampleRate)

	signal := sine(440, 0.5, 2048)
	out := p.suppressNoise(signal, 0.95)

	require.Len(t, out, len(signal))
	// The dominant tone survives maximum suppression
	assert.Greater(t, rms(out), rms(signal)*0.3)
}

func rms(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}
