// Package decision implements the Observe-Reason-Act-Learn loop that
// turns acoustic descriptors into validated processing strategies.
//
// The engine owns a bounded decision history and a per-strategy
// effectiveness log; both belong to exactly one engine instance and
// must not be mutated by concurrent callers. When frames arrive
// concurrently, decisions for a session must be serialized upstream so
// the minimum-interval oscillation guard holds.
package decision

import (
	"context"
	"time"

	"github.com/RyanBlaney/sonido-aid/advisor"
	"github.com/RyanBlaney/sonido-aid/features"
	"github.com/RyanBlaney/sonido-aid/logging"
	"github.com/RyanBlaney/sonido-aid/safety"
	"github.com/RyanBlaney/sonido-aid/strategy"
)

// History retention: once the log exceeds maxHistory entries it is
// trimmed to the most recent trimmedHistory, preserving order
const (
	maxHistory     = 10000
	trimmedHistory = 5000
)

// recentActionWindow is how many prior decisions the observation carries
const recentActionWindow = 5

// Confidence assessment constants
const (
	intentConfidenceBonus = 0.1 // conversational or speech-recovery intent
	unknownScenePenalty   = 0.2
	unknownSceneFloor     = 0.4
	confidenceFloor       = 0.3
	confidenceCeiling     = 1.0
)

// Low-certainty strategies are capped to these processing ceilings
const (
	lowCertaintyConfidence     = 0.6
	lowCertaintyMaxSuppression = 0.5
	lowCertaintyMaxEnhancement = 0.3
)

// DefaultMinInterval is the minimum spacing between decision cycles
const DefaultMinInterval = time.Second

// Engine runs the four-phase decision loop. One instance per
// device/session; not safe for concurrent use.
type Engine struct {
	advisor   advisor.Advisor
	validator *safety.Validator

	history       []Decision
	effectiveness map[string][]float64
	lastDecision  time.Time
	minInterval   time.Duration

	deviceState advisor.DeviceState

	clock  func() time.Time
	logger logging.Logger
}

// NewEngine creates a decision engine around the given advisor
func NewEngine(adv advisor.Advisor) *Engine {
	return &Engine{
		advisor:       adv,
		validator:     safety.NewValidator(),
		effectiveness: make(map[string][]float64),
		minInterval:   DefaultMinInterval,
		deviceState: advisor.DeviceState{
			BatteryPercent:     100,
			TemperatureCelsius: 25.0,
			ProcessingLoad:     30,
		},
		clock: time.Now,
		logger: logging.WithFields(logging.Fields{
			"component": "decision_engine",
		}),
	}
}

// SetMinInterval adjusts the oscillation-guard spacing between cycles
func (e *Engine) SetMinInterval(d time.Duration) {
	if d > 0 {
		e.minInterval = d
	}
}

// SetDeviceState updates the device health snapshot included in
// observations
func (e *Engine) SetDeviceState(state advisor.DeviceState) {
	e.deviceState = state
}

// SetClock replaces the time source, for tests
func (e *Engine) SetClock(clock func() time.Time) {
	if clock != nil {
		e.clock = clock
	}
}

// ShouldDecide reports whether the minimum interval has elapsed since
// the last decision. The very first cycle always decides.
func (e *Engine) ShouldDecide() bool {
	if e.lastDecision.IsZero() {
		return true
	}
	return e.clock().Sub(e.lastDecision) >= e.minInterval
}

// Decide runs one full Observe-Reason-Act cycle. The returned decision
// has always passed safety validation: unsafe or missing advisor
// proposals are discarded wholesale and replaced by the conservative
// fallback, never patched up. The Learn phase runs separately through
// IntegrateFeedback.
func (e *Engine) Decide(ctx context.Context, fs *features.AudioFeatureSet, profile strategy.UserProfile, feedback []advisor.FeedbackRecord) (Decision, safety.Check) {
	// Phase 1: OBSERVE - descriptors and profile only, no raw audio
	obs := e.observe(fs, profile, feedback)

	// Phase 2: REASON - consult the advisor and assess confidence
	dec, err := e.reason(ctx, obs, profile)

	// Phase 3: ACT - gate through safety, fall back when anything is off
	var check safety.Check
	if err != nil {
		e.logger.Warn("advisor failed, using conservative fallback", logging.Fields{
			"advisor": e.advisor.Name(),
			"error":   err.Error(),
		})
		dec = e.fallback()
		check = e.validator.Validate(dec.Strategy)
	} else {
		check = e.validator.Validate(dec.Strategy)
		if !check.IsSafe {
			e.logger.Error(nil, "safety violations detected, discarding candidate", logging.Fields{
				"violations": check.Violations,
			})
			dec = e.fallback()
			check = e.validator.Validate(dec.Strategy)
		}
	}

	e.record(dec)
	e.lastDecision = e.clock()

	e.logger.Info("decision made", logging.Fields{
		"strategy":   dec.Strategy.Name,
		"confidence": dec.Confidence,
	})

	return dec, check
}

// observe assembles the transient per-cycle context. It is discarded
// after the cycle; only the resulting Decision persists.
func (e *Engine) observe(fs *features.AudioFeatureSet, profile strategy.UserProfile, feedback []advisor.FeedbackRecord) advisor.Observation {
	scene := fs.AcousticScene
	if scene == "" {
		scene = "unknown"
	}

	recent := e.history
	if len(recent) > recentActionWindow {
		recent = recent[len(recent)-recentActionWindow:]
	}
	actions := make([]advisor.RecentAction, 0, len(recent))
	for _, d := range recent {
		actions = append(actions, advisor.RecentAction{
			StrategyName: d.Strategy.Name,
			Confidence:   d.Confidence,
			Timestamp:    d.Timestamp,
		})
	}

	now := e.clock()
	return advisor.Observation{
		AcousticScene:    scene,
		NoiseLevelDB:     fs.NoiseLevelDB,
		SpeechConfidence: fs.SpeechProbability,
		SpeechPresent:    fs.IsSpeechPresent,
		NoiseType:        fs.NoiseType,
		SoundEvent:       fs.SoundEventClass,
		UserPreference:   profile.Preference,
		ListeningIntent:  profile.ListeningIntent,
		RecentActions:    actions,
		FeedbackHistory:  feedback,
		Temporal: advisor.TemporalContext{
			TimeOfDay: now.Format("15:04"),
			DayOfWeek: now.Weekday().String(),
		},
		Device: e.deviceState,
	}
}

// reason invokes the advisor and shapes the candidate: confidence is
// computed here rather than trusted from the advisor, duration is
// floored at the oscillation guard, and low-certainty candidates are
// capped to gentle processing.
func (e *Engine) reason(ctx context.Context, obs advisor.Observation, profile strategy.UserProfile) (Decision, error) {
	st, err := e.advisor.Propose(ctx, obs, profile)
	if err != nil {
		return Decision{}, err
	}

	confidence := e.assessConfidence(obs)
	st.Confidence = confidence

	if confidence < lowCertaintyConfidence {
		if st.NoiseSuppression > lowCertaintyMaxSuppression {
			st.NoiseSuppression = lowCertaintyMaxSuppression
		}
		if st.SpeechEnhancement > lowCertaintyMaxEnhancement {
			st.SpeechEnhancement = lowCertaintyMaxEnhancement
		}
	}

	if st.DurationSeconds < strategy.MinDurationSeconds {
		st.DurationSeconds = strategy.MinDurationSeconds
	}

	return Decision{
		Strategy:        st,
		Confidence:      confidence,
		Rationale:       st.Rationale,
		DurationSeconds: st.DurationSeconds,
		IsReversible:    st.IsReversible,
		Timestamp:       e.clock(),
	}, nil
}

// assessConfidence derives decision confidence from the observation:
// base speech confidence, a bonus for clarity-critical intents, a
// penalty for unknown scenes, clamped to [0.3, 1.0]
func (e *Engine) assessConfidence(obs advisor.Observation) float64 {
	confidence := obs.SpeechConfidence

	if obs.ListeningIntent == "conversation" || obs.ListeningIntent == "speech_recovery" {
		confidence += intentConfidenceBonus
		if confidence > confidenceCeiling {
			confidence = confidenceCeiling
		}
	}

	if obs.AcousticScene == "unknown" {
		confidence -= unknownScenePenalty
		if confidence < unknownSceneFloor {
			confidence = unknownSceneFloor
		}
	}

	if confidence < confidenceFloor {
		confidence = confidenceFloor
	}
	if confidence > confidenceCeiling {
		confidence = confidenceCeiling
	}
	return confidence
}

// fallback is the minimal-intervention strategy substituted whenever a
// candidate fails validation. It must always validate cleanly itself.
func (e *Engine) fallback() Decision {
	return Decision{
		Strategy: strategy.Strategy{
			Name:                 "minimal_intervention_monitoring",
			NoiseSuppression:     0.3,
			SpeechEnhancement:    0.0,
			CompressionRatio:     1.0,
			HighFreqBoostDB:      0.0,
			LowFreqReductionDB:   0.0,
			AdaptiveGain:         1.0,
			NoiseGateThresholdDB: -40.0,
			FrequencyProfile:     strategy.ProfileNeutral,
			Rationale:            "Safety check failed. Using minimal intervention while monitoring.",
			Confidence:           0.6,
			DurationSeconds:      strategy.MinDurationSeconds,
			IsReversible:         true,
		},
		Confidence:      0.6,
		Rationale:       "Safety check failed. Using minimal intervention while monitoring.",
		DurationSeconds: strategy.MinDurationSeconds,
		Secondary: []Adjustment{
			{
				Condition:  "if_safety_cleared",
				Adjustment: "return_to_previous_strategy",
			},
		},
		IsReversible: true,
		Timestamp:    e.clock(),
	}
}

// record appends to the bounded history, trimming the oldest entries
// once the high-water mark is exceeded
func (e *Engine) record(dec Decision) {
	e.history = append(e.history, dec)
	if len(e.history) > maxHistory {
		tail := make([]Decision, trimmedHistory)
		copy(tail, e.history[len(e.history)-trimmedHistory:])
		e.history = tail
	}
}

// IntegrateFeedback is the Learn phase, invoked by the surrounding
// system after an interaction rather than automatically. The computed
// effectiveness signal in [-1, 1] is appended to the most recent
// decision's strategy label; appends never overwrite earlier signals,
// so the learning record stays incremental and reversible. Returns the
// signal and whether a decision existed to attach it to.
func (e *Engine) IntegrateFeedback(outcome Outcome, satisfaction *float64) (float64, bool) {
	if len(e.history) == 0 {
		return 0, false
	}

	signal := computeEffectiveness(outcome, satisfaction)
	label := e.history[len(e.history)-1].Strategy.Name
	e.effectiveness[label] = append(e.effectiveness[label], signal)

	e.logger.Info("feedback integrated", logging.Fields{
		"strategy":      label,
		"effectiveness": signal,
	})
	return signal, true
}

// computeEffectiveness blends objective and subjective feedback into a
// single signal: 0.5 neutral baseline, plus half the ASR confidence
// change, plus 0.3 of normalized satisfaction, minus 0.3 for overrides
func computeEffectiveness(outcome Outcome, satisfaction *float64) float64 {
	effectiveness := 0.5

	effectiveness += outcome.ASRConfidenceChange * 0.5

	if satisfaction != nil {
		effectiveness += (*satisfaction - 50) / 50 * 0.3
	}

	if outcome.UserOverride {
		effectiveness -= 0.3
	}

	if effectiveness > 1.0 {
		effectiveness = 1.0
	}
	if effectiveness < -1.0 {
		effectiveness = -1.0
	}
	return effectiveness
}

// Effectiveness returns the most recent effectiveness signal recorded
// for a strategy label
func (e *Engine) Effectiveness(label string) (float64, bool) {
	signals := e.effectiveness[label]
	if len(signals) == 0 {
		return 0, false
	}
	return signals[len(signals)-1], true
}

// EffectivenessHistory returns every signal recorded for a label, in
// arrival order
func (e *Engine) EffectivenessHistory(label string) []float64 {
	signals := e.effectiveness[label]
	out := make([]float64, len(signals))
	copy(out, signals)
	return out
}

// History returns a copy of the decision log, oldest first
func (e *Engine) History() []Decision {
	out := make([]Decision, len(e.history))
	copy(out, e.history)
	return out
}

// HistoryLen returns the number of retained decisions
func (e *Engine) HistoryLen() int {
	return len(e.history)
}

// Summarize aggregates the most recent decisions for status output
func (e *Engine) Summarize() Summary {
	s := Summary{DecisionsRecorded: len(e.history)}
	if len(e.history) == 0 {
		return s
	}

	recent := e.history
	if len(recent) > 100 {
		recent = recent[len(recent)-100:]
	}
	s.RecentDecisions = len(recent)

	for _, d := range recent {
		s.AvgNoiseSuppression += d.Strategy.NoiseSuppression
		s.AvgSpeechEnhancement += d.Strategy.SpeechEnhancement
		s.AvgConfidence += d.Confidence
	}
	n := float64(len(recent))
	s.AvgNoiseSuppression /= n
	s.AvgSpeechEnhancement /= n
	s.AvgConfidence /= n
	return s
}
