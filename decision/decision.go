package decision

import (
	"time"

	"github.com/RyanBlaney/sonido-aid/strategy"
)

// Adjustment is a conditional follow-up attached to a decision
type Adjustment struct {
	Condition  string `json:"condition"`
	Adjustment string `json:"adjustment"`
}

// Decision records one complete reasoning cycle: the validated primary
// strategy plus the engine's own confidence assessment. Appended to the
// engine's bounded history and never mutated afterwards.
type Decision struct {
	Strategy        strategy.Strategy `json:"strategy"`
	Confidence      float64           `json:"confidence"`
	Rationale       string            `json:"rationale"`
	DurationSeconds int               `json:"duration_seconds"`
	Secondary       []Adjustment      `json:"secondary_adjustments,omitempty"`
	IsReversible    bool              `json:"is_reversible"`
	Timestamp       time.Time         `json:"timestamp"`
}

// Outcome carries the objective feedback metrics for one interaction
type Outcome struct {
	ASRConfidenceChange float64 `json:"asr_confidence_change"`
	UserOverride        bool    `json:"user_override"`
}

// Summary aggregates recent decision parameters for status reporting
type Summary struct {
	DecisionsRecorded    int     `json:"decisions_recorded"`
	RecentDecisions      int     `json:"recent_decisions"`
	AvgNoiseSuppression  float64 `json:"avg_noise_suppression"`
	AvgSpeechEnhancement float64 `json:"avg_speech_enhancement"`
	AvgConfidence        float64 `json:"avg_confidence"`
}
