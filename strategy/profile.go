package strategy

// UserProfile carries the listener's hearing characteristics and
// processing preferences. Only descriptive data lives here; advisors
// see it alongside the acoustic observation, never raw audio.
type UserProfile struct {
	// Hearing characteristics
	HearingLossPattern string `json:"hearing_loss_pattern" yaml:"hearing_loss_pattern"` // flat, high_frequency, low_frequency, sloping

	// Processing preferences
	Preference              string `json:"preference" yaml:"preference"`                               // clarity, comfort, balanced, natural
	PowerMode               string `json:"power_mode" yaml:"power_mode"`                               // battery_saver, normal, performance
	BackgroundNoiseTolerance string `json:"background_noise_tolerance" yaml:"background_noise_tolerance"` // low, medium, high

	// Listening context
	ListeningIntent string `json:"listening_intent" yaml:"listening_intent"` // conversation, speech_recovery, music, ambient

	// User settings
	UserID string `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`

	// Adaptation settings
	LearningEnabled bool   `json:"learning_enabled" yaml:"learning_enabled"`
	AdaptationSpeed string `json:"adaptation_speed" yaml:"adaptation_speed"` // slow, medium, fast

	// Frequency preferences (dB adjustments per band)
	FrequencyPreferences map[string]float64 `json:"frequency_preferences,omitempty" yaml:"frequency_preferences,omitempty"`

	// Usage patterns
	TypicalEnvironments []string `json:"typical_environments,omitempty" yaml:"typical_environments,omitempty"`
}

// DefaultProfile returns a balanced profile with learning enabled
func DefaultProfile() UserProfile {
	return UserProfile{
		HearingLossPattern:       "flat",
		Preference:               "balanced",
		PowerMode:                "normal",
		BackgroundNoiseTolerance: "medium",
		ListeningIntent:          "conversation",
		LearningEnabled:          true,
		AdaptationSpeed:          "medium",
		FrequencyPreferences: map[string]float64{
			BandLow:     0.0,
			BandMidLow:  0.0,
			BandMidHigh: 0.0,
			BandHigh:    0.0,
		},
	}
}

// ClarityProfile favors speech intelligibility for listeners with
// high-frequency loss
func ClarityProfile() UserProfile {
	p := DefaultProfile()
	p.HearingLossPattern = "high_frequency"
	p.Preference = "clarity"
	p.BackgroundNoiseTolerance = "low"
	return p
}

// ComfortProfile favors gentle processing over maximum clarity
func ComfortProfile() UserProfile {
	p := DefaultProfile()
	p.Preference = "comfort"
	p.BackgroundNoiseTolerance = "high"
	return p
}

// NaturalProfile keeps processing as transparent as possible
func NaturalProfile() UserProfile {
	p := DefaultProfile()
	p.Preference = "natural"
	return p
}

// BatterySaverProfile trades adaptation speed for power
func BatterySaverProfile() UserProfile {
	p := DefaultProfile()
	p.PowerMode = "battery_saver"
	p.AdaptationSpeed = "slow"
	return p
}
