package strategy

// Preset is a named, predefined processing strategy
type Preset struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Strategy    Strategy `json:"strategy"`
}

// Library holds the standard strategy presets keyed by identifier
type Library struct {
	presets map[string]Preset
	order   []string
}

// NewLibrary creates the standard preset library
func NewLibrary() *Library {
	l := &Library{presets: make(map[string]Preset)}

	l.add(Preset{
		Name:        "Silence",
		Description: "Minimal processing for quiet environments",
		Strategy: Strategy{
			Name:                 "silence",
			NoiseSuppression:     0.1,
			SpeechEnhancement:    0.0,
			CompressionRatio:     1.0,
			HighFreqBoostDB:      0.0,
			LowFreqReductionDB:   0.0,
			AdaptiveGain:         1.0,
			NoiseGateThresholdDB: -60.0,
			FrequencyProfile:     ProfileNeutral,
			Rationale:            "Minimal processing - environment is quiet",
			Confidence:           0.85,
			DurationSeconds:      30,
			IsReversible:         true,
		},
	})

	l.add(Preset{
		Name:        "Quiet Office",
		Description: "Light processing for quiet office environments",
		Strategy: Strategy{
			Name:                 "quiet_office",
			NoiseSuppression:     0.3,
			SpeechEnhancement:    0.3,
			CompressionRatio:     2.0,
			HighFreqBoostDB:      1.0,
			LowFreqReductionDB:   -2.0,
			AdaptiveGain:         1.0,
			NoiseGateThresholdDB: -45.0,
			FrequencyProfile:     ProfileSpeechOptimized,
			Rationale:            "Light noise suppression with speech emphasis for quiet rooms",
			Confidence:           0.8,
			DurationSeconds:      30,
			IsReversible:         true,
		},
	})

	l.add(Preset{
		Name:        "Busy Office",
		Description: "Moderate processing for busy office with background noise",
		Strategy: Strategy{
			Name:                 "busy_office",
			NoiseSuppression:     0.6,
			SpeechEnhancement:    0.5,
			CompressionRatio:     3.0,
			HighFreqBoostDB:      2.0,
			LowFreqReductionDB:   -3.0,
			AdaptiveGain:         1.1,
			NoiseGateThresholdDB: -40.0,
			FrequencyProfile:     ProfileSpeechOptimized,
			Rationale:            "Moderate suppression against office chatter and keyboard noise",
			Confidence:           0.8,
			DurationSeconds:      30,
			IsReversible:         true,
		},
	})

	l.add(Preset{
		Name:        "Crowded Restaurant",
		Description: "Strong processing for high-noise environments",
		Strategy: Strategy{
			Name:                 "crowded_restaurant",
			NoiseSuppression:     0.8,
			SpeechEnhancement:    0.7,
			CompressionRatio:     4.5,
			HighFreqBoostDB:      3.0,
			LowFreqReductionDB:   -4.0,
			AdaptiveGain:         1.2,
			NoiseGateThresholdDB: -35.0,
			FrequencyProfile:     ProfileClarityBoost,
			Rationale:            "Strong speech extraction in a very noisy environment",
			Confidence:           0.75,
			DurationSeconds:      30,
			IsReversible:         true,
		},
	})

	l.add(Preset{
		Name:        "Outdoor",
		Description: "Moderate processing for outdoor environments",
		Strategy: Strategy{
			Name:                 "outdoor",
			NoiseSuppression:     0.5,
			SpeechEnhancement:    0.4,
			CompressionRatio:     2.5,
			HighFreqBoostDB:      1.5,
			LowFreqReductionDB:   -2.5,
			AdaptiveGain:         1.0,
			NoiseGateThresholdDB: -42.0,
			FrequencyProfile:     ProfileNeutral,
			Rationale:            "Balanced approach for wind and traffic outdoors",
			Confidence:           0.75,
			DurationSeconds:      30,
			IsReversible:         true,
		},
	})

	l.add(Preset{
		Name:        "Music",
		Description: "Minimal processing to preserve music quality",
		Strategy: Strategy{
			Name:                 "music",
			NoiseSuppression:     0.2,
			SpeechEnhancement:    0.1,
			CompressionRatio:     1.5,
			HighFreqBoostDB:      0.5,
			LowFreqReductionDB:   -1.0,
			AdaptiveGain:         1.0,
			NoiseGateThresholdDB: -50.0,
			FrequencyProfile:     ProfileNeutral,
			Rationale:            "Preserve dynamics and timbre for music listening",
			Confidence:           0.8,
			DurationSeconds:      60,
			IsReversible:         true,
		},
	})

	l.add(Preset{
		Name:        "Phone Call",
		Description: "Optimize for phone call clarity",
		Strategy: Strategy{
			Name:                 "phone_call",
			NoiseSuppression:     0.7,
			SpeechEnhancement:    0.8,
			CompressionRatio:     5.0,
			HighFreqBoostDB:      4.0,
			LowFreqReductionDB:   -5.0,
			AdaptiveGain:         1.3,
			NoiseGateThresholdDB: -38.0,
			FrequencyProfile:     ProfileClarityBoost,
			Rationale:            "Optimize intelligibility for telephone speech",
			Confidence:           0.8,
			DurationSeconds:      30,
			IsReversible:         true,
		},
	})

	l.add(Preset{
		Name:        "Comfort Mode",
		Description: "Gentle processing prioritizing comfort over clarity",
		Strategy: Strategy{
			Name:                 "comfort_mode",
			NoiseSuppression:     0.4,
			SpeechEnhancement:    0.2,
			CompressionRatio:     2.0,
			HighFreqBoostDB:      0.5,
			LowFreqReductionDB:   -1.0,
			AdaptiveGain:         0.9,
			NoiseGateThresholdDB: -50.0,
			FrequencyProfile:     ProfileComfortFocus,
			Rationale:            "Gentle processing for comfortable long listening sessions",
			Confidence:           0.8,
			DurationSeconds:      60,
			IsReversible:         true,
		},
	})

	return l
}

func (l *Library) add(p Preset) {
	l.presets[p.Strategy.Name] = p
	l.order = append(l.order, p.Strategy.Name)
}

// Get returns the preset with the given identifier, or false when the
// identifier is unknown
func (l *Library) Get(name string) (Preset, bool) {
	p, ok := l.presets[name]
	return p, ok
}

// Names lists preset identifiers in registration order
func (l *Library) Names() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Description returns the human-readable description for a preset
func (l *Library) Description(name string) (string, bool) {
	p, ok := l.presets[name]
	if !ok {
		return "", false
	}
	return p.Description, true
}
