package decision

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-aid/advisor"
	"github.com/RyanBlaney/sonido-aid/features"
	"github.com/RyanBlaney/sonido-aid/strategy"
)

// stubAdvisor hands back a canned proposal and remembers the last
// observation it saw
type stubAdvisor struct {
	strategy strategy.Strategy
	err      error
	lastObs  advisor.Observation
	calls    int
}

func (s *stubAdvisor) Propose(ctx context.Context, obs advisor.Observation, profile strategy.UserProfile) (strategy.Strategy, error) {
	s.calls++
	s.lastObs = obs
	if s.err != nil {
		return strategy.Strategy{}, s.err
	}
	return s.strategy.Clone(), nil
}

func (s *stubAdvisor) Name() string { return "stub" }

func safeProposal() strategy.Strategy {
	return strategy.Strategy{
		Name:                 "proposed_strategy",
		NoiseSuppression:     0.7,
		SpeechEnhancement:    0.5,
		CompressionRatio:     2.5,
		HighFreqBoostDB:      3.0,
		LowFreqReductionDB:   -2.0,
		AdaptiveGain:         1.1,
		NoiseGateThresholdDB: -45.0,
		FrequencyProfile:     strategy.ProfileSpeechOptimized,
		Rationale:            "Enhancing speech for the observed conversational scene",
		Confidence:           0.9,
		DurationSeconds:      60,
		IsReversible:         true,
	}
}

func speechFeatures() *features.AudioFeatureSet {
	return &features.AudioFeatureSet{
		NoiseLevelDB:      50.0,
		SpeechProbability: 0.8,
		IsSpeechPresent:   true,
		NoiseType:         features.NoiseMidFrequency,
		SoundEventClass:   features.EventSpeech,
		AcousticScene:     "office",
	}
}

func TestDecideAcceptsSafeProposal(t *testing.T) {
	stub := &stubAdvisor{strategy: safeProposal()}
	e := NewEngine(stub)

	dec, check := e.Decide(context.Background(), speechFeatures(), strategy.DefaultProfile(), nil)

	require.True(t, check.IsSafe, "violations: %v", check.Violations)
	assert.Equal(t, "proposed_strategy", dec.Strategy.Name)
	assert.True(t, dec.IsReversible)
	assert.Equal(t, 1, e.HistoryLen())
}

func TestDecideFallsBackOnAdvisorError(t *testing.T) {
	stub := &stubAdvisor{err: advisor.ErrUnavailable}
	e := NewEngine(stub)

	dec, check := e.Decide(context.Background(), speechFeatures(), strategy.DefaultProfile(), nil)

	assert.True(t, check.IsSafe, "fallback must validate cleanly: %v", check.Violations)
	assert.Equal(t, "minimal_intervention_monitoring", dec.Strategy.Name)
	assert.True(t, dec.IsReversible)
	assert.GreaterOrEqual(t, dec.DurationSeconds, strategy.MinDurationSeconds)
	require.Len(t, dec.Secondary, 1)
	assert.Equal(t, "if_safety_cleared", dec.Secondary[0].Condition)
}

func TestDecideDiscardsUnsafeProposal(t *testing.T) {
	unsafe := safeProposal()
	unsafe.NoiseSuppression = 1.5
	stub := &stubAdvisor{strategy: unsafe}
	e := NewEngine(stub)

	dec, check := e.Decide(context.Background(), speechFeatures(), strategy.DefaultProfile(), nil)

	// The unsafe candidate is replaced wholesale, not clamped
	assert.True(t, check.IsSafe)
	assert.Equal(t, "minimal_intervention_monitoring", dec.Strategy.Name)
}

func TestDecideDiscardsIrreversibleProposal(t *testing.T) {
	irreversible := safeProposal()
	irreversible.IsReversible = false
	stub := &stubAdvisor{strategy: irreversible}
	e := NewEngine(stub)

	dec, _ := e.Decide(context.Background(), speechFeatures(), strategy.DefaultProfile(), nil)
	assert.Equal(t, "minimal_intervention_monitoring", dec.Strategy.Name)
}

func TestObservationNeverCarriesScene(t *testing.T) {
	stub := &stubAdvisor{strategy: safeProposal()}
	e := NewEngine(stub)

	fs := speechFeatures()
	fs.AcousticScene = ""
	e.Decide(context.Background(), fs, strategy.DefaultProfile(), nil)

	assert.Equal(t, "unknown", stub.lastObs.AcousticScene)
}

func TestConfidenceAssessment(t *testing.T) {
	e := NewEngine(&stubAdvisor{strategy: safeProposal()})

	cases := []struct {
		name string
		obs  advisor.Observation
		want float64
	}{
		{"base speech confidence", advisor.Observation{AcousticScene: "office", SpeechConfidence: 0.7}, 0.7},
		{"conversation bonus", advisor.Observation{AcousticScene: "office", SpeechConfidence: 0.7, ListeningIntent: "conversation"}, 0.8},
		{"bonus capped at one", advisor.Observation{AcousticScene: "office", SpeechConfidence: 0.95, ListeningIntent: "speech_recovery"}, 1.0},
		{"unknown scene penalty", advisor.Observation{AcousticScene: "unknown", SpeechConfidence: 0.7}, 0.5},
		{"unknown scene floor", advisor.Observation{AcousticScene: "unknown", SpeechConfidence: 0.45}, 0.4},
		{"global floor", advisor.Observation{AcousticScene: "office", SpeechConfidence: 0.1}, 0.3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, e.assessConfidence(tc.obs), 1e-9)
		})
	}
}

func TestLowCertaintyCapsProcessing(t *testing.T) {
	stub := &stubAdvisor{strategy: safeProposal()}
	e := NewEngine(stub)

	// Unknown scene with weak speech evidence forces low confidence
	fs := speechFeatures()
	fs.AcousticScene = ""
	fs.SpeechProbability = 0.35

	dec, check := e.Decide(context.Background(), fs, strategy.UserProfile{}, nil)

	require.True(t, check.IsSafe, "violations: %v", check.Violations)
	assert.Less(t, dec.Confidence, 0.6)
	assert.LessOrEqual(t, dec.Strategy.NoiseSuppression, 0.5)
	assert.LessOrEqual(t, dec.Strategy.SpeechEnhancement, 0.3)
}

func TestDecideRespectsMinInterval(t *testing.T) {
	stub := &stubAdvisor{strategy: safeProposal()}
	e := NewEngine(stub)
	e.SetMinInterval(time.Second)

	now := time.Now()
	e.SetClock(func() time.Time { return now })

	assert.True(t, e.ShouldDecide())
	e.Decide(context.Background(), speechFeatures(), strategy.DefaultProfile(), nil)
	assert.False(t, e.ShouldDecide())

	now = now.Add(500 * time.Millisecond)
	assert.False(t, e.ShouldDecide())

	now = now.Add(600 * time.Millisecond)
	assert.True(t, e.ShouldDecide())
}

func TestRecentActionsWindow(t *testing.T) {
	stub := &stubAdvisor{strategy: safeProposal()}
	e := NewEngine(stub)

	for i := 0; i < 8; i++ {
		e.Decide(context.Background(), speechFeatures(), strategy.DefaultProfile(), nil)
	}

	assert.Len(t, stub.lastObs.RecentActions, 5)
	assert.Equal(t, 8, e.HistoryLen())
}

func TestHistoryTrim(t *testing.T) {
	e := NewEngine(&stubAdvisor{strategy: safeProposal()})

	for i := 0; i < 10001; i++ {
		e.record(Decision{DurationSeconds: i})
	}

	require.Equal(t, 5000, e.HistoryLen())

	// Trim keeps the most recent entries in order
	hist := e.History()
	assert.Equal(t, 5001, hist[0].DurationSeconds)
	assert.Equal(t, 10000, hist[len(hist)-1].DurationSeconds)
}

func TestComputeEffectiveness(t *testing.T) {
	sat := func(v float64) *float64 { return &v }

	cases := []struct {
		name         string
		outcome      Outcome
		satisfaction *float64
		want         float64
	}{
		{"neutral", Outcome{}, nil, 0.5},
		{"improved asr and happy user", Outcome{ASRConfidenceChange: 0.15}, sat(85), 0.785},
		{"worse asr and override", Outcome{ASRConfidenceChange: -0.10, UserOverride: true}, sat(25), 0.0},
		{"ceiling", Outcome{ASRConfidenceChange: 1.0}, sat(100), 1.0},
		{"floor", Outcome{ASRConfidenceChange: -3.0, UserOverride: true}, sat(0), -1.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, computeEffectiveness(tc.outcome, tc.satisfaction), 1e-9)
		})
	}
}

func TestIntegrateFeedbackAppends(t *testing.T) {
	stub := &stubAdvisor{strategy: safeProposal()}
	e := NewEngine(stub)

	// No decision yet: nothing to attach feedback to
	_, ok := e.IntegrateFeedback(Outcome{}, nil)
	assert.False(t, ok)

	e.Decide(context.Background(), speechFeatures(), strategy.DefaultProfile(), nil)

	signal, ok := e.IntegrateFeedback(Outcome{ASRConfidenceChange: 0.15}, nil)
	require.True(t, ok)
	assert.Greater(t, signal, 0.5)

	sat := 25.0
	_, ok = e.IntegrateFeedback(Outcome{ASRConfidenceChange: -0.10, UserOverride: true}, &sat)
	require.True(t, ok)

	// Appends accumulate, never overwrite
	history := e.EffectivenessHistory("proposed_strategy")
	require.Len(t, history, 2)
	assert.Greater(t, history[0], 0.5)
	assert.Less(t, history[1], 0.5)

	latest, ok := e.Effectiveness("proposed_strategy")
	require.True(t, ok)
	assert.Equal(t, history[1], latest)
}

func TestSummarize(t *testing.T) {
	stub := &stubAdvisor{strategy: safeProposal()}
	e := NewEngine(stub)

	assert.Zero(t, e.Summarize().DecisionsRecorded)

	for i := 0; i < 3; i++ {
		e.Decide(context.Background(), speechFeatures(), strategy.DefaultProfile(), nil)
	}

	s := e.Summarize()
	assert.Equal(t, 3, s.DecisionsRecorded)
	assert.Equal(t, 3, s.RecentDecisions)
	assert.InDelta(t, 0.7, s.AvgNoiseSuppression, 1e-9)
	assert.Greater(t, s.AvgConfidence, 0.0)
}
