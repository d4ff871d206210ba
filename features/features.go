package features

import (
	"fmt"
	"time"
)

// Classification thresholds shared by the extractor and its tests
const (
	// SilenceThresholdDB is the noise floor below which a frame counts as silent
	SilenceThresholdDB = 30.0

	// LoudNoiseThresholdDB marks frames loud enough to classify as loud noise
	LoudNoiseThresholdDB = 60.0

	// SpeechPresenceThreshold is the probability above which speech is flagged present
	SpeechPresenceThreshold = 0.5

	// SpeechEventThreshold is the stricter probability for the speech sound-event class
	SpeechEventThreshold = 0.7
)

// Noise type labels derived from the spectral centroid
const (
	NoiseLowFrequency      = "low_frequency"
	NoiseMidFrequency      = "mid_frequency"
	NoiseHighFrequency     = "high_frequency"
	NoiseVeryHighFrequency = "very_high_frequency"
)

// Sound event classes
const (
	EventSilence         = "silence"
	EventSpeech          = "speech"
	EventLoudNoise       = "loud_noise"
	EventBackgroundSound = "background_sound"
)

// AudioFeatureSet bundles the spectral, temporal, and semantic
// descriptors extracted from one analysis window. Created fresh per
// input frame and never mutated after population.
type AudioFeatureSet struct {
	// Spectral features
	SpectralCentroid float64 `json:"spectral_centroid"` // Hz, center of spectral mass
	SpectralRolloff  float64 `json:"spectral_rolloff"`  // Hz, 85% magnitude rolloff

	// Temporal features
	ZeroCrossingRate float64 `json:"zero_crossing_rate"` // fraction in [0, 1]
	OnsetStrength    float64 `json:"onset_strength"`     // RMS of first difference

	// Semantic descriptors
	NoiseLevelDB      float64 `json:"noise_level_db"`     // estimated noise floor
	SpeechProbability float64 `json:"speech_probability"` // 0-1 speech presence
	NoiseType         string  `json:"noise_type"`
	SoundEventClass   string  `json:"sound_event_class"`
	IsSilence         bool    `json:"is_silence"`
	IsSpeechPresent   bool    `json:"is_speech_present"`

	// AcousticScene is a scene label attached by a surrounding system
	// (room classifier, user selection). The extractor never sets it;
	// empty means unknown.
	AcousticScene string `json:"acoustic_scene,omitempty"`

	// Metadata
	SampleRate int       `json:"sample_rate"`
	DurationMS float64   `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// ToContext renders the feature set as the one-line summary handed to
// advisors and logs. No raw signal data appears here.
func (f *AudioFeatureSet) ToContext() string {
	parts := make([]string, 0, 5)

	if f.IsSilence {
		parts = append(parts, "Environment: Silent or very quiet")
	} else {
		parts = append(parts, fmt.Sprintf("Environment: Sound detected at %.1fdB", f.NoiseLevelDB))
	}

	if f.IsSpeechPresent {
		parts = append(parts, fmt.Sprintf("Speech: Present (%.0f%% confidence)", f.SpeechProbability*100))
	} else {
		parts = append(parts, fmt.Sprintf("Speech: Not detected (%.0f%% confidence)", f.SpeechProbability*100))
	}

	if f.NoiseType != "" {
		parts = append(parts, fmt.Sprintf("Noise type: %s", f.NoiseType))
	}

	if f.SoundEventClass != "" {
		parts = append(parts, fmt.Sprintf("Sound event: %s", f.SoundEventClass))
	}

	if f.SpectralCentroid > 0 {
		parts = append(parts, fmt.Sprintf("Spectral profile: %.0fHz centroid", f.SpectralCentroid))
	}

	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " | "
		}
		out += p
	}
	return out
}
