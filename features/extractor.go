package features

import (
	"math"
	"time"

	"github.com/RyanBlaney/sonido-aid/algorithms/common"
	"github.com/RyanBlaney/sonido-aid/algorithms/spectral"
	"github.com/RyanBlaney/sonido-aid/algorithms/temporal"
	"github.com/RyanBlaney/sonido-aid/logging"
)

// rmsFloor keeps the dB conversion away from -Inf on silent input
const rmsFloor = 1e-10

// rolloffThreshold is the cumulative magnitude fraction for the rolloff frequency
const rolloffThreshold = 0.85

// Speech probability heuristics: speech centroids cluster near 2 kHz
// and voiced/unvoiced mixes sit near the middle of the ZCR range
const (
	speechCentroidPeakHz = 2000.0
	speechCentroidWidth  = 4000.0
	speechZCRPeak        = 0.5
	speechZCRWidth       = 1.0
)

// Noise type centroid thresholds in Hz
const (
	noiseLowMaxHz  = 500.0
	noiseMidMaxHz  = 2000.0
	noiseHighMaxHz = 8000.0
)

// Extractor converts waveforms into AudioFeatureSet descriptors.
// Extraction is a deterministic, pure function of the input samples;
// malformed input yields conservative defaults, never an error.
type Extractor struct {
	sampleRate int

	fft      *spectral.FFT
	centroid *spectral.SpectralCentroid
	rolloff  *spectral.SpectralRolloff
	zcr      *spectral.ZeroCrossingRate
	onset    *temporal.OnsetStrength

	logger logging.Logger
}

// NewExtractor creates a feature extractor for the given sample rate
func NewExtractor(sampleRate int) *Extractor {
	return &Extractor{
		sampleRate: sampleRate,
		fft:        spectral.NewFFT(),
		centroid:   spectral.NewSpectralCentroid(sampleRate),
		rolloff:    spectral.NewSpectralRolloff(sampleRate),
		zcr:        spectral.NewZeroCrossingRate(sampleRate),
		onset:      temporal.NewOnsetStrength(),
		logger: logging.WithFields(logging.Fields{
			"component": "feature_extractor",
		}),
	}
}

// SampleRate returns the configured sample rate
func (e *Extractor) SampleRate() int {
	return e.sampleRate
}

// Extract computes the full descriptor bundle for one analysis window.
// durationHintMS overrides the duration metadata when positive;
// otherwise duration is derived from the sample count.
func (e *Extractor) Extract(signal []float64, durationHintMS float64) *AudioFeatureSet {
	fs := &AudioFeatureSet{
		SampleRate: e.sampleRate,
		Timestamp:  time.Now(),
	}

	if durationHintMS > 0 {
		fs.DurationMS = durationHintMS
	} else {
		fs.DurationMS = float64(len(signal)) / float64(e.sampleRate) * 1000
	}

	if len(signal) == 0 || !spectral.IsFinite(signal) {
		e.logger.Warn("malformed input signal, returning conservative defaults", logging.Fields{
			"samples": len(signal),
		})
		return e.defaultFeatures(fs)
	}

	mags := e.fft.Magnitudes(e.fft.Compute(signal))

	fs.SpectralCentroid = e.centroid.Compute(mags)
	fs.SpectralRolloff = e.rolloff.Compute(mags, rolloffThreshold)

	fs.ZeroCrossingRate = e.zcr.Compute(signal)
	fs.OnsetStrength = e.onset.Compute(signal)

	rms := common.RMS(signal)
	fs.NoiseLevelDB = common.LinearToDB(rms, rmsFloor)
	fs.SpeechProbability = speechProbability(fs.SpectralCentroid, fs.ZeroCrossingRate)

	fs.IsSilence = fs.NoiseLevelDB < SilenceThresholdDB
	fs.IsSpeechPresent = fs.SpeechProbability > SpeechPresenceThreshold

	fs.NoiseType = classifyNoise(fs.SpectralCentroid)
	fs.SoundEventClass = classifySoundEvent(fs.NoiseLevelDB, fs.SpeechProbability)

	return fs
}

// defaultFeatures fills zeroed spectral fields and the floored noise
// level for input the extractor cannot analyze
func (e *Extractor) defaultFeatures(fs *AudioFeatureSet) *AudioFeatureSet {
	fs.NoiseLevelDB = common.LinearToDB(0, rmsFloor)
	fs.IsSilence = true
	fs.NoiseType = NoiseLowFrequency
	fs.SoundEventClass = EventSilence
	return fs
}

// speechProbability averages a centroid-proximity score peaked at 2 kHz
// and a ZCR-proximity score peaked at 0.5, each clamped to [0, 1]
func speechProbability(centroid, zcr float64) float64 {
	centroidScore := common.Clamp(1-math.Abs(centroid-speechCentroidPeakHz)/speechCentroidWidth, 0, 1)
	zcrScore := common.Clamp(1-math.Abs(zcr-speechZCRPeak)/speechZCRWidth, 0, 1)
	return (centroidScore + zcrScore) / 2
}

func classifyNoise(centroid float64) string {
	switch {
	case centroid < noiseLowMaxHz:
		return NoiseLowFrequency
	case centroid < noiseMidMaxHz:
		return NoiseMidFrequency
	case centroid < noiseHighMaxHz:
		return NoiseHighFrequency
	default:
		return NoiseVeryHighFrequency
	}
}

func classifySoundEvent(noiseLevelDB, speechProb float64) string {
	switch {
	case noiseLevelDB < SilenceThresholdDB:
		return EventSilence
	case speechProb > SpeechEventThreshold:
		return EventSpeech
	case noiseLevelDB > LoudNoiseThresholdDB:
		return EventLoudNoise
	default:
		return EventBackgroundSound
	}
}
