package advisor

import (
	"context"
	"fmt"

	"github.com/RyanBlaney/sonido-aid/features"
	"github.com/RyanBlaney/sonido-aid/logging"
	"github.com/RyanBlaney/sonido-aid/strategy"
)

// Noise level breakpoints for scene-to-preset selection, in dB
const (
	ruleQuietMaxDB = 30.0
	ruleBusyMinDB  = 45.0
	ruleLoudMinDB  = 60.0
)

// RuleAdvisor is the deterministic, in-process reasoning policy. It
// maps the observed environment onto the preset library and then shapes
// the preset with the listener's profile. Useful on its own for offline
// operation and as the inner advisor behind a cache.
type RuleAdvisor struct {
	library *strategy.Library
	logger  logging.Logger
}

// NewRuleAdvisor creates a rule-based advisor over the standard preset library
func NewRuleAdvisor() *RuleAdvisor {
	return &RuleAdvisor{
		library: strategy.NewLibrary(),
		logger: logging.WithFields(logging.Fields{
			"component": "rule_advisor",
		}),
	}
}

func (r *RuleAdvisor) Name() string {
	return "rule"
}

// Propose selects a preset for the observation and tailors it to the
// profile. It never fails except on context cancellation.
func (r *RuleAdvisor) Propose(ctx context.Context, obs Observation, profile strategy.UserProfile) (strategy.Strategy, error) {
	if err := ctx.Err(); err != nil {
		return strategy.Strategy{}, err
	}

	name := r.selectPreset(obs, profile)
	preset, ok := r.library.Get(name)
	if !ok {
		return strategy.Strategy{}, fmt.Errorf("%w: preset %q not found", ErrUnavailable, name)
	}

	st := preset.Strategy.Clone()
	st.Rationale = fmt.Sprintf("%s (scene: %s, noise %.0f dB)", st.Rationale, obs.AcousticScene, obs.NoiseLevelDB)
	st.FrequencyEmphasis = r.emphasisFor(st, profile)

	r.logger.Debug("rule advisor proposal", logging.Fields{
		"preset": name,
		"scene":  obs.AcousticScene,
	})

	return st, nil
}

// selectPreset is the deterministic scene mapping. Listening intent
// takes priority over acoustic classification, preference breaks ties.
func (r *RuleAdvisor) selectPreset(obs Observation, profile strategy.UserProfile) string {
	switch profile.ListeningIntent {
	case "music":
		return "music"
	case "phone_call":
		return "phone_call"
	}

	if obs.SoundEvent == features.EventSilence || obs.NoiseLevelDB < ruleQuietMaxDB {
		return "silence"
	}

	if profile.Preference == "comfort" {
		return "comfort_mode"
	}

	if obs.SpeechPresent {
		switch {
		case obs.NoiseLevelDB > ruleLoudMinDB:
			return "crowded_restaurant"
		case obs.NoiseLevelDB > ruleBusyMinDB:
			return "busy_office"
		default:
			return "quiet_office"
		}
	}

	if obs.NoiseLevelDB > ruleLoudMinDB {
		return "outdoor"
	}
	return "quiet_office"
}

// emphasisFor merges the profile-derived band emphasis with the
// listener's explicit frequency preferences
func (r *RuleAdvisor) emphasisFor(st strategy.Strategy, profile strategy.UserProfile) map[string]float64 {
	emphasis := strategy.EmphasisForProfile(st.FrequencyProfile)

	for band, db := range profile.FrequencyPreferences {
		if db == 0 {
			continue
		}
		if emphasis == nil {
			emphasis = make(map[string]float64)
		}
		emphasis[band] += db
	}

	return emphasis
}
