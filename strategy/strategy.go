package strategy

// FrequencyProfile names a broad tonal shaping goal. The processor maps
// profiles onto band emphasis; advisors may only emit one of the four
// enumerated values.
type FrequencyProfile string

const (
	ProfileNeutral         FrequencyProfile = "neutral"
	ProfileSpeechOptimized FrequencyProfile = "speech_optimized"
	ProfileClarityBoost    FrequencyProfile = "clarity_boost"
	ProfileComfortFocus    FrequencyProfile = "comfort_focus"
)

// IsValid reports whether the profile is one of the enumerated values
func (p FrequencyProfile) IsValid() bool {
	switch p {
	case ProfileNeutral, ProfileSpeechOptimized, ProfileClarityBoost, ProfileComfortFocus:
		return true
	}
	return false
}

// Frequency band names for custom emphasis maps
const (
	BandLow     = "low"      // < 500 Hz
	BandMidLow  = "mid_low"  // 500-2000 Hz
	BandMidHigh = "mid_high" // 2000-8000 Hz
	BandHigh    = "high"     // >= 8000 Hz
)

// Hard parameter bounds. These are the authoritative ranges for every
// bounded field; the safety validator rejects anything outside them and
// the clamping utility pulls values back inside them.
const (
	MinNoiseSuppression = 0.0
	MaxNoiseSuppression = 0.95

	MinSpeechEnhancement = 0.0
	MaxSpeechEnhancement = 0.9

	MinCompressionRatio = 1.0
	MaxCompressionRatio = 8.0

	MinHighFreqBoostDB = -0.5 // dB
	MaxHighFreqBoostDB = 10.0 // dB

	MinLowFreqReductionDB = -12.0 // dB
	MaxLowFreqReductionDB = 0.0   // dB

	MinAdaptiveGain = 0.3
	MaxAdaptiveGain = 2.0

	MinNoiseGateThresholdDB = -60.0 // dB
	MaxNoiseGateThresholdDB = -10.0 // dB

	MinDurationSeconds = 10   // oscillation guard
	MaxDurationSeconds = 3600 // staleness guard

	MinRationaleLength = 20
)

// Strategy is the bounded control vector handed from the decision
// engine to the audio processor. Produced once per decision cycle and
// superseded, never mutated, by the next cycle.
type Strategy struct {
	Name string `json:"strategy_name" yaml:"strategy_name"`

	NoiseSuppression     float64 `json:"noise_suppression_strength" yaml:"noise_suppression_strength"`
	SpeechEnhancement    float64 `json:"speech_enhancement_strength" yaml:"speech_enhancement_strength"`
	CompressionRatio     float64 `json:"compression_ratio" yaml:"compression_ratio"`
	HighFreqBoostDB      float64 `json:"high_freq_boost_db" yaml:"high_freq_boost_db"`
	LowFreqReductionDB   float64 `json:"low_freq_reduction_db" yaml:"low_freq_reduction_db"`
	AdaptiveGain         float64 `json:"adaptive_gain" yaml:"adaptive_gain"`
	NoiseGateThresholdDB float64 `json:"noise_gate_threshold_db" yaml:"noise_gate_threshold_db"`

	FrequencyProfile  FrequencyProfile   `json:"frequency_profile" yaml:"frequency_profile"`
	FrequencyEmphasis map[string]float64 `json:"frequency_emphasis,omitempty" yaml:"frequency_emphasis,omitempty"`

	Rationale       string  `json:"rationale" yaml:"rationale"`
	Confidence      float64 `json:"confidence" yaml:"confidence"`
	DurationSeconds int     `json:"duration_seconds" yaml:"duration_seconds"`
	IsReversible    bool    `json:"is_reversible" yaml:"is_reversible"`
}

// Clone returns a deep copy so callers can derive a new strategy
// without mutating the one currently in effect
func (s Strategy) Clone() Strategy {
	out := s
	if s.FrequencyEmphasis != nil {
		out.FrequencyEmphasis = make(map[string]float64, len(s.FrequencyEmphasis))
		for k, v := range s.FrequencyEmphasis {
			out.FrequencyEmphasis[k] = v
		}
	}
	return out
}

// EmphasisForProfile translates an enumerated frequency profile into
// per-band dB adjustments for the processor's banded emphasis stage
func EmphasisForProfile(profile FrequencyProfile) map[string]float64 {
	switch profile {
	case ProfileSpeechOptimized:
		return map[string]float64{
			BandLow:     -2.0,
			BandMidLow:  2.0,
			BandMidHigh: 3.0,
		}
	case ProfileClarityBoost:
		return map[string]float64{
			BandMidHigh: 4.0,
			BandHigh:    2.0,
		}
	case ProfileComfortFocus:
		return map[string]float64{
			BandMidHigh: -1.5,
			BandHigh:    -3.0,
		}
	default:
		return nil
	}
}
