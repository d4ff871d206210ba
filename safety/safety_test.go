package safety

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-aid/strategy"
)

func validStrategy() strategy.Strategy {
	return strategy.Strategy{
		Name:                 "test_strategy",
		NoiseSuppression:     0.5,
		SpeechEnhancement:    0.4,
		CompressionRatio:     2.0,
		HighFreqBoostDB:      3.0,
		LowFreqReductionDB:   -2.0,
		AdaptiveGain:         1.0,
		NoiseGateThresholdDB: -40.0,
		FrequencyProfile:     strategy.ProfileSpeechOptimized,
		Rationale:            "Moderate enhancement for a typical conversational setting",
		Confidence:           0.8,
		DurationSeconds:      60,
		IsReversible:         true,
	}
}

func TestValidateAcceptsValidStrategy(t *testing.T) {
	v := NewValidator()
	check := v.Validate(validStrategy())

	require.True(t, check.IsSafe, "violations: %v", check.Violations)
	assert.Empty(t, check.Violations)
	assert.Empty(t, check.Warnings)
	assert.Contains(t, check.Message, "passed")
}

func TestValidateBoundaryValues(t *testing.T) {
	v := NewValidator()

	// Exact bounds are inclusive on both ends
	s := validStrategy()
	s.NoiseSuppression = 0.0
	s.SpeechEnhancement = 0.9
	s.CompressionRatio = 8.0
	s.HighFreqBoostDB = -0.5
	s.LowFreqReductionDB = -12.0
	s.AdaptiveGain = 0.3
	s.NoiseGateThresholdDB = -60.0
	check := v.Validate(s)
	require.True(t, check.IsSafe, "violations: %v", check.Violations)

	s = validStrategy()
	s.NoiseSuppression = 0.95
	check = v.Validate(s)
	require.True(t, check.IsSafe, "violations: %v", check.Violations)
}

func TestValidateOutOfBoundsNamesField(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*strategy.Strategy)
		field  string
	}{
		{"noise suppression high", func(s *strategy.Strategy) { s.NoiseSuppression = 0.96 }, "noise_suppression_strength"},
		{"noise suppression negative", func(s *strategy.Strategy) { s.NoiseSuppression = -0.1 }, "noise_suppression_strength"},
		{"speech enhancement high", func(s *strategy.Strategy) { s.SpeechEnhancement = 0.91 }, "speech_enhancement_strength"},
		{"compression low", func(s *strategy.Strategy) { s.CompressionRatio = 0.5 }, "compression_ratio"},
		{"compression high", func(s *strategy.Strategy) { s.CompressionRatio = 9.0 }, "compression_ratio"},
		{"boost high", func(s *strategy.Strategy) { s.HighFreqBoostDB = 11.0 }, "high_freq_boost_db"},
		{"reduction positive", func(s *strategy.Strategy) { s.LowFreqReductionDB = 1.0 }, "low_freq_reduction_db"},
		{"gain low", func(s *strategy.Strategy) { s.AdaptiveGain = 0.1 }, "adaptive_gain"},
		{"gain high", func(s *strategy.Strategy) { s.AdaptiveGain = 2.5 }, "adaptive_gain"},
		{"gate high", func(s *strategy.Strategy) { s.NoiseGateThresholdDB = -5.0 }, "noise_gate_threshold_db"},
		{"confidence high", func(s *strategy.Strategy) { s.Confidence = 1.5 }, "confidence"},
	}

	v := NewValidator()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validStrategy()
			tc.mutate(&s)
			check := v.Validate(s)

			require.False(t, check.IsSafe)
			require.Len(t, check.Violations, 1)
			assert.Contains(t, check.Violations[0], tc.field)
		})
	}
}

func TestValidateDurationGuards(t *testing.T) {
	v := NewValidator()

	s := validStrategy()
	s.DurationSeconds = 5
	check := v.Validate(s)
	require.False(t, check.IsSafe)
	assert.Contains(t, check.Violations[0], "duration too short")

	s.DurationSeconds = 7200
	check = v.Validate(s)
	require.False(t, check.IsSafe)
	assert.Contains(t, check.Violations[0], "duration too long")
}

func TestValidateReversibilityIsCritical(t *testing.T) {
	v := NewValidator()
	s := validStrategy()
	s.IsReversible = false

	check := v.Validate(s)
	require.False(t, check.IsSafe)
	require.Len(t, check.Violations, 1)
	assert.Contains(t, check.Violations[0], "CRITICAL")
	assert.Contains(t, check.Violations[0], "reversible")
}

func TestValidateProhibitedTerms(t *testing.T) {
	v := NewValidator()

	for _, term := range []string{"waveform", "FFT", "raw audio", "Digital Signal"} {
		t.Run(term, func(t *testing.T) {
			s := validStrategy()
			s.Rationale = fmt.Sprintf("Adjusting based on the %s characteristics we observed here", term)
			check := v.Validate(s)

			require.False(t, check.IsSafe)
			assert.Contains(t, check.Violations[0], "prohibited term")
			assert.Contains(t, check.Violations[0], strings.ToLower(term))
		})
	}
}

func TestValidateMissingFieldsShortCircuit(t *testing.T) {
	v := NewValidator()
	s := validStrategy()
	s.Name = ""
	s.Rationale = ""
	s.NoiseSuppression = 5.0 // would also violate, but must not be reported

	check := v.Validate(s)
	require.False(t, check.IsSafe)
	require.Len(t, check.Violations, 2)
	assert.Contains(t, check.Violations[0], "strategy_name")
	assert.Contains(t, check.Violations[1], "rationale")
}

func TestValidateShortRationale(t *testing.T) {
	v := NewValidator()
	s := validStrategy()
	s.Rationale = "too short"

	check := v.Validate(s)
	require.False(t, check.IsSafe)
	assert.Contains(t, check.Violations[0], "rationale")
}

func TestValidateInvalidProfile(t *testing.T) {
	v := NewValidator()
	s := validStrategy()
	s.FrequencyProfile = "bass_heavy"

	check := v.Validate(s)
	require.False(t, check.IsSafe)
	assert.Contains(t, check.Violations[0], "frequency_profile")
}

func TestValidateWarnings(t *testing.T) {
	v := NewValidator()

	s := validStrategy()
	s.Confidence = 0.4
	check := v.Validate(s)
	require.True(t, check.IsSafe)
	require.Len(t, check.Warnings, 1)
	assert.Contains(t, check.Warnings[0], "low confidence")

	s = validStrategy()
	s.NoiseSuppression = 0.9
	s.SpeechEnhancement = 0.8
	s.CompressionRatio = 5.0
	s.HighFreqBoostDB = 8.0
	check = v.Validate(s)
	require.True(t, check.IsSafe, "violations: %v", check.Violations)
	require.NotEmpty(t, check.Warnings)
	assert.Contains(t, check.Warnings[0], "aggressiveness")
}

func TestApplyBoundsClampsAndReports(t *testing.T) {
	v := NewValidator()
	s := validStrategy()
	s.NoiseSuppression = 1.4
	s.AdaptiveGain = 0.1
	s.NoiseGateThresholdDB = -80.0
	s.DurationSeconds = 3

	out, corrections := v.ApplyBounds(s)

	assert.Equal(t, 0.95, out.NoiseSuppression)
	assert.Equal(t, 0.3, out.AdaptiveGain)
	assert.Equal(t, -60.0, out.NoiseGateThresholdDB)
	assert.Equal(t, 10, out.DurationSeconds)
	assert.Len(t, corrections, 4)

	// Clamped result must now pass validation on numeric grounds
	check := v.Validate(out)
	assert.True(t, check.IsSafe, "violations: %v", check.Violations)

	// Original is untouched
	assert.Equal(t, 1.4, s.NoiseSuppression)
}

func TestPresetLibraryPassesValidation(t *testing.T) {
	v := NewValidator()
	lib := strategy.NewLibrary()

	for _, name := range lib.Names() {
		p, ok := lib.Get(name)
		require.True(t, ok)

		t.Run(name, func(t *testing.T) {
			check := v.Validate(p.Strategy)
			assert.True(t, check.IsSafe, "violations: %v", check.Violations)
		})
	}
}

func TestApplyBoundsIdempotent(t *testing.T) {
	v := NewValidator()
	s := validStrategy()
	s.CompressionRatio = 12.0

	once, corrections := v.ApplyBounds(s)
	require.NotEmpty(t, corrections)

	twice, corrections := v.ApplyBounds(once)
	assert.Empty(t, corrections)
	assert.Equal(t, once, twice)
}
