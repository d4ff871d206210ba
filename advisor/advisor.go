// Package advisor defines the boundary to the pluggable reasoning
// policy that proposes processing strategies. The core treats every
// advisor as untrusted: whatever comes back crosses the safety
// validator before it can touch audio, and a failing or timing-out
// advisor simply means the engine falls back to its conservative
// strategy.
//
// Observations carry high-level acoustic descriptors only. Raw samples,
// spectra, or filter internals never cross this boundary.
package advisor

import (
	"context"
	"errors"
	"time"

	"github.com/RyanBlaney/sonido-aid/strategy"
)

// ErrUnavailable signals that the advisor could not produce a proposal.
// The decision engine treats it like any other advisor failure.
var ErrUnavailable = errors.New("advisor unavailable")

// RecentAction summarizes one prior decision for stability checking
type RecentAction struct {
	StrategyName string    `json:"strategy_name"`
	Confidence   float64   `json:"confidence"`
	Timestamp    time.Time `json:"timestamp"`
}

// FeedbackRecord summarizes one learning outcome for the advisor
type FeedbackRecord struct {
	StrategyName  string    `json:"strategy_name"`
	Effectiveness float64   `json:"effectiveness"`
	Timestamp     time.Time `json:"timestamp"`
}

// TemporalContext is coarse clock context, useful for advisors that
// adapt to daily routines
type TemporalContext struct {
	TimeOfDay string `json:"time_of_day"`
	DayOfWeek string `json:"day_of_week"`
}

// DeviceState carries device health numbers, never signal data
type DeviceState struct {
	BatteryPercent     float64 `json:"battery_percent"`
	TemperatureCelsius float64 `json:"temperature_celsius"`
	ProcessingLoad     float64 `json:"processing_load"`
}

// Observation is the complete advisor-facing context assembled once per
// decision cycle and discarded afterwards
type Observation struct {
	AcousticScene    string  `json:"acoustic_scene"`
	NoiseLevelDB     float64 `json:"noise_level_db"`
	SpeechConfidence float64 `json:"speech_confidence"`
	SpeechPresent    bool    `json:"speech_present"`
	ASRTranscript    string  `json:"asr_transcript,omitempty"`
	NoiseType        string  `json:"noise_type"`
	SoundEvent       string  `json:"sound_event"`

	UserPreference  string `json:"user_preference"`
	ListeningIntent string `json:"listening_intent"`

	RecentActions   []RecentAction   `json:"recent_actions,omitempty"`
	FeedbackHistory []FeedbackRecord `json:"feedback_history,omitempty"`

	Temporal TemporalContext `json:"temporal_context"`
	Device   DeviceState     `json:"device_state"`
}

// Advisor proposes a candidate strategy for an observation. Proposals
// are candidates only - callers must validate them before use. The
// context bounds slow implementations; a canceled context should
// surface as an error, not a partial proposal.
type Advisor interface {
	Propose(ctx context.Context, obs Observation, profile strategy.UserProfile) (strategy.Strategy, error)

	// Name identifies the advisor variant for logs and status output
	Name() string
}
