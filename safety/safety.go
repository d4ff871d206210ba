// Package safety validates candidate processing strategies against hard
// parameter bounds before they are allowed anywhere near audio.
//
// Validation is pure and stateless: the same strategy always yields the
// same result. Two recovery paths exist and are not interchangeable -
// the decision engine discards unsafe candidates entirely and falls
// back to a conservative strategy, while ApplyBounds clamps values for
// callers that explicitly choose correction over rejection.
package safety

import (
	"fmt"
	"strings"

	"github.com/RyanBlaney/sonido-aid/algorithms/common"
	"github.com/RyanBlaney/sonido-aid/logging"
	"github.com/RyanBlaney/sonido-aid/strategy"
)

// prohibitedTerms must never appear in advisor-facing text. An advisor
// referencing signal-level data is a breach of the privacy contract,
// not a tunable threshold.
var prohibitedTerms = []string{
	"raw audio",
	"waveform",
	"sample rate",
	"fft",
	"coefficient",
	"impulse response",
	"filter design",
	"dsp",
	"digital signal",
}

// aggressivenessLimit is the warning threshold for combined processing
// intensity across suppression, enhancement, compression, and boost
const aggressivenessLimit = 2.0

// lowConfidenceWarning is the confidence below which a minimal
// intervention recommendation is attached
const lowConfidenceWarning = 0.5

// Check is the result of validating one candidate strategy
type Check struct {
	IsSafe     bool     `json:"is_safe"`
	Violations []string `json:"violations"`
	Warnings   []string `json:"warnings"`
	Message    string   `json:"message"`
}

// Validator enforces the strategy parameter contract
type Validator struct {
	logger logging.Logger
}

// NewValidator creates a strategy validator
func NewValidator() *Validator {
	return &Validator{
		logger: logging.WithFields(logging.Fields{
			"component": "safety_validator",
		}),
	}
}

// Validate checks a candidate strategy for bound, structural, and
// content violations. Structural failures (prohibited terms, missing
// fields) short-circuit the numeric bound checks.
func (v *Validator) Validate(s strategy.Strategy) Check {
	var violations, warnings []string

	// 1. Prohibited content scan over advisor-controlled text
	text := strings.ToLower(s.Name + " " + s.Rationale)
	for _, term := range prohibitedTerms {
		if strings.Contains(text, term) {
			violations = append(violations, fmt.Sprintf(
				"CRITICAL: prohibited term detected: %q - advisors must never reference raw signal data", term))
		}
	}

	// 2. Required fields
	if s.Name == "" {
		violations = append(violations, "missing required field: strategy_name")
	}
	if s.Rationale == "" {
		violations = append(violations, "missing required field: rationale")
	}

	// Structural failures make the numeric values meaningless
	if len(violations) > 0 {
		return v.finish(violations, warnings)
	}

	// 3. Bounded numeric fields
	if s.NoiseSuppression < strategy.MinNoiseSuppression || s.NoiseSuppression > strategy.MaxNoiseSuppression {
		violations = append(violations, fmt.Sprintf(
			"noise_suppression_strength out of bounds: %.2f (valid: [%g, %g])",
			s.NoiseSuppression, strategy.MinNoiseSuppression, strategy.MaxNoiseSuppression))
	}
	if s.SpeechEnhancement < strategy.MinSpeechEnhancement || s.SpeechEnhancement > strategy.MaxSpeechEnhancement {
		violations = append(violations, fmt.Sprintf(
			"speech_enhancement_strength out of bounds: %.2f (valid: [%g, %g])",
			s.SpeechEnhancement, strategy.MinSpeechEnhancement, strategy.MaxSpeechEnhancement))
	}
	if s.CompressionRatio < strategy.MinCompressionRatio || s.CompressionRatio > strategy.MaxCompressionRatio {
		violations = append(violations, fmt.Sprintf(
			"compression_ratio out of bounds: %.2f (valid: [%g, %g])",
			s.CompressionRatio, strategy.MinCompressionRatio, strategy.MaxCompressionRatio))
	}
	if s.HighFreqBoostDB < strategy.MinHighFreqBoostDB || s.HighFreqBoostDB > strategy.MaxHighFreqBoostDB {
		violations = append(violations, fmt.Sprintf(
			"high_freq_boost_db out of bounds: %.1fdB (valid: [%g, %g])",
			s.HighFreqBoostDB, strategy.MinHighFreqBoostDB, strategy.MaxHighFreqBoostDB))
	}
	if s.LowFreqReductionDB < strategy.MinLowFreqReductionDB || s.LowFreqReductionDB > strategy.MaxLowFreqReductionDB {
		violations = append(violations, fmt.Sprintf(
			"low_freq_reduction_db out of bounds: %.1fdB (valid: [%g, %g])",
			s.LowFreqReductionDB, strategy.MinLowFreqReductionDB, strategy.MaxLowFreqReductionDB))
	}
	if s.AdaptiveGain < strategy.MinAdaptiveGain || s.AdaptiveGain > strategy.MaxAdaptiveGain {
		violations = append(violations, fmt.Sprintf(
			"adaptive_gain out of bounds: %.2f (valid: [%g, %g])",
			s.AdaptiveGain, strategy.MinAdaptiveGain, strategy.MaxAdaptiveGain))
	}
	if s.NoiseGateThresholdDB < strategy.MinNoiseGateThresholdDB || s.NoiseGateThresholdDB > strategy.MaxNoiseGateThresholdDB {
		violations = append(violations, fmt.Sprintf(
			"noise_gate_threshold_db out of bounds: %.1fdB (valid: [%g, %g])",
			s.NoiseGateThresholdDB, strategy.MinNoiseGateThresholdDB, strategy.MaxNoiseGateThresholdDB))
	}

	// 4. Frequency profile enum
	if !s.FrequencyProfile.IsValid() {
		violations = append(violations, fmt.Sprintf(
			"invalid frequency_profile: %q (valid: neutral, speech_optimized, clarity_boost, comfort_focus)",
			s.FrequencyProfile))
	}

	// 5. Confidence range
	if s.Confidence < 0.0 || s.Confidence > 1.0 {
		violations = append(violations, fmt.Sprintf(
			"confidence out of bounds: %.2f (valid: [0.0, 1.0])", s.Confidence))
	}

	// 6. Duration guards, independently reported
	if s.DurationSeconds < strategy.MinDurationSeconds {
		violations = append(violations, fmt.Sprintf(
			"duration too short: %ds (minimum: %ds) - prevents rapid oscillation",
			s.DurationSeconds, strategy.MinDurationSeconds))
	}
	if s.DurationSeconds > strategy.MaxDurationSeconds {
		violations = append(violations, fmt.Sprintf(
			"duration too long: %ds (maximum: %ds)",
			s.DurationSeconds, strategy.MaxDurationSeconds))
	}

	// 7. Reversibility is a hard requirement, never a warning
	if !s.IsReversible {
		violations = append(violations,
			"CRITICAL: strategy must be reversible - every decision must include revert capability")
	}

	// 8. Rationale length
	if len(s.Rationale) < strategy.MinRationaleLength {
		violations = append(violations, fmt.Sprintf(
			"rationale must be a clear explanation (minimum %d characters)", strategy.MinRationaleLength))
	}

	// Non-blocking warnings
	if s.Confidence < lowConfidenceWarning {
		warnings = append(warnings, fmt.Sprintf(
			"low confidence decision (%.0f%%) - recommend minimal intervention strategy", s.Confidence*100))
	}

	aggressiveness := s.NoiseSuppression + s.SpeechEnhancement +
		(s.CompressionRatio-1.0)/7.0 + s.HighFreqBoostDB/10.0
	if aggressiveness > aggressivenessLimit {
		warnings = append(warnings, fmt.Sprintf(
			"high aggressiveness score (%.1f) - recommend a gentler strategy", aggressiveness))
	}

	return v.finish(violations, warnings)
}

func (v *Validator) finish(violations, warnings []string) Check {
	var message string
	isSafe := len(violations) == 0

	switch {
	case !isSafe && len(warnings) > 0:
		message = fmt.Sprintf("safety validation FAILED: %d violation(s) + %d warning(s)", len(violations), len(warnings))
	case !isSafe:
		message = fmt.Sprintf("safety validation FAILED: %d violation(s)", len(violations))
	case len(warnings) > 0:
		message = fmt.Sprintf("safety validation passed with %d warning(s)", len(warnings))
	default:
		message = "safety validation passed - all constraints respected"
	}

	switch {
	case !isSafe:
		v.logger.Error(nil, message, logging.Fields{"violations": violations})
	case len(warnings) > 0:
		v.logger.Warn(message, logging.Fields{"warnings": warnings})
	default:
		v.logger.Debug(message)
	}

	return Check{
		IsSafe:     isSafe,
		Violations: violations,
		Warnings:   warnings,
		Message:    message,
	}
}

// ApplyBounds clamps every bounded numeric field into its valid range
// and returns the corrected strategy together with an audit list of the
// fields that changed. Structural properties (rationale, reversibility,
// profile) are left untouched. Intended only as a fallback path after a
// failed validation, never as the primary path.
func (v *Validator) ApplyBounds(s strategy.Strategy) (strategy.Strategy, []string) {
	out := s.Clone()
	var corrections []string

	clampField := func(name string, value *float64, lo, hi float64) {
		clamped := common.Clamp(*value, lo, hi)
		if clamped != *value {
			corrections = append(corrections, fmt.Sprintf("%s: %.2f -> %.2f", name, *value, clamped))
			*value = clamped
		}
	}

	clampField("noise_suppression_strength", &out.NoiseSuppression, strategy.MinNoiseSuppression, strategy.MaxNoiseSuppression)
	clampField("speech_enhancement_strength", &out.SpeechEnhancement, strategy.MinSpeechEnhancement, strategy.MaxSpeechEnhancement)
	clampField("compression_ratio", &out.CompressionRatio, strategy.MinCompressionRatio, strategy.MaxCompressionRatio)
	clampField("high_freq_boost_db", &out.HighFreqBoostDB, strategy.MinHighFreqBoostDB, strategy.MaxHighFreqBoostDB)
	clampField("low_freq_reduction_db", &out.LowFreqReductionDB, strategy.MinLowFreqReductionDB, strategy.MaxLowFreqReductionDB)
	clampField("adaptive_gain", &out.AdaptiveGain, strategy.MinAdaptiveGain, strategy.MaxAdaptiveGain)
	clampField("noise_gate_threshold_db", &out.NoiseGateThresholdDB, strategy.MinNoiseGateThresholdDB, strategy.MaxNoiseGateThresholdDB)
	clampField("confidence", &out.Confidence, 0.0, 1.0)

	if out.DurationSeconds < strategy.MinDurationSeconds {
		corrections = append(corrections, fmt.Sprintf("duration_seconds: %d -> %d", out.DurationSeconds, strategy.MinDurationSeconds))
		out.DurationSeconds = strategy.MinDurationSeconds
	} else if out.DurationSeconds > strategy.MaxDurationSeconds {
		corrections = append(corrections, fmt.Sprintf("duration_seconds: %d -> %d", out.DurationSeconds, strategy.MaxDurationSeconds))
		out.DurationSeconds = strategy.MaxDurationSeconds
	}

	if len(corrections) > 0 {
		v.logger.Warn("safety bounds applied", logging.Fields{
			"corrections": strings.Join(corrections, "; "),
		})
	}

	return out, corrections
}
