// Package controller wires the pipeline together: feature extraction,
// the decision engine, and the audio processor, with a minimum decision
// interval so strategies cannot oscillate frame to frame.
package controller

import (
	"context"
	"sync"
	"time"

	"github.com/RyanBlaney/sonido-aid/advisor"
	"github.com/RyanBlaney/sonido-aid/algorithms/common"
	"github.com/RyanBlaney/sonido-aid/decision"
	"github.com/RyanBlaney/sonido-aid/dsp"
	"github.com/RyanBlaney/sonido-aid/features"
	"github.com/RyanBlaney/sonido-aid/logging"
	"github.com/RyanBlaney/sonido-aid/safety"
	"github.com/RyanBlaney/sonido-aid/strategy"
)

// defaultPreset is the strategy used before the first decision cycle
const defaultPreset = "quiet_office"

// Status values reported in Result
const (
	StatusSuccess  = "success"
	StatusDisabled = "disabled"
)

// Result is the outcome of processing one frame
type Result struct {
	Status       string                    `json:"status"`
	Processed    []float64                 `json:"-"`
	Strategy     strategy.Strategy         `json:"strategy"`
	Features     *features.AudioFeatureSet `json:"audio_features,omitempty"`
	DecisionMade bool                      `json:"decision_made"`
	Check        *safety.Check             `json:"safety_check,omitempty"`
}

// Status is a snapshot of controller state for reporting
type Status struct {
	ProcessingEnabled bool             `json:"processing_enabled"`
	CurrentStrategy   string           `json:"current_strategy"`
	Profile           string           `json:"profile"`
	AvailablePresets  []string         `json:"available_presets"`
	Decisions         decision.Summary `json:"decisions"`
}

// ProcessOptions tunes a single Process call
type ProcessOptions struct {
	// ForceDecision runs a new decision cycle even inside the minimum
	// interval
	ForceDecision bool

	// SkipAdvisor keeps the current strategy and skips the decision
	// engine entirely
	SkipAdvisor bool
}

// Controller owns one processing session. The internal mutex
// serializes Process calls so concurrent callers cannot break the
// decision-interval guarantee; decisions for distinct sessions need
// distinct controllers.
type Controller struct {
	mu sync.Mutex

	sampleRate int
	extractor  *features.Extractor
	processor  *dsp.Processor
	engine     *decision.Engine
	library    *strategy.Library

	profile strategy.UserProfile
	current *strategy.Strategy
	enabled bool

	logger logging.Logger
}

// NewController creates a controller around the given advisor using
// the default user profile
func NewController(sampleRate int, adv advisor.Advisor) *Controller {
	return &Controller{
		sampleRate: sampleRate,
		extractor:  features.NewExtractor(sampleRate),
		processor:  dsp.NewProcessor(sampleRate),
		engine:     decision.NewEngine(adv),
		library:    strategy.NewLibrary(),
		profile:    strategy.DefaultProfile(),
		enabled:    true,
		logger: logging.WithFields(logging.Fields{
			"component": "controller",
		}),
	}
}

// SetDecisionInterval adjusts the minimum spacing between decisions
func (c *Controller) SetDecisionInterval(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine.SetMinInterval(d)
}

// SetProfile replaces the active user profile
func (c *Controller) SetProfile(profile strategy.UserProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile = profile
	c.logger.Info("user profile updated", logging.Fields{
		"profile": profileName(profile),
	})
}

// Engine exposes the decision engine for feedback integration and
// history inspection
func (c *Controller) Engine() *decision.Engine {
	return c.engine
}

// Process runs one frame through the full loop with default options
func (c *Controller) Process(ctx context.Context, signal []float64) *Result {
	return c.ProcessWithOptions(ctx, signal, ProcessOptions{})
}

// ProcessWithOptions extracts features, refreshes the strategy when
// the decision interval allows, and applies the transform chain. When
// processing is disabled the frame passes through with only the hard
// clip to [-1, 1].
func (c *Controller) ProcessWithOptions(ctx context.Context, signal []float64, opts ProcessOptions) *Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		out := make([]float64, len(signal))
		for i, v := range signal {
			out[i] = common.Clamp(v, -1.0, 1.0)
		}
		return &Result{Status: StatusDisabled, Processed: out}
	}

	fs := c.extractor.Extract(signal, 0)

	shouldDecide := opts.ForceDecision || c.engine.ShouldDecide()
	decisionMade := false
	var check *safety.Check

	if shouldDecide && !opts.SkipAdvisor {
		dec, chk := c.engine.Decide(ctx, fs, c.profile, nil)
		st := dec.Strategy
		c.current = &st
		check = &chk
		decisionMade = true
	} else if c.current == nil {
		preset, _ := c.library.Get(defaultPreset)
		st := preset.Strategy
		c.current = &st
	}

	processed := c.processor.Apply(signal, *c.current)

	return &Result{
		Status:       StatusSuccess,
		Processed:    processed,
		Strategy:     *c.current,
		Features:     fs,
		DecisionMade: decisionMade,
		Check:        check,
	}
}

// IntegrateFeedback forwards interaction feedback to the engine's
// Learn phase
func (c *Controller) IntegrateFeedback(outcome decision.Outcome, satisfaction *float64) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.IntegrateFeedback(outcome, satisfaction)
}

// SelectPreset manually pins a preset strategy, bypassing the advisor
// until the next decision cycle
func (c *Controller) SelectPreset(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	preset, ok := c.library.Get(name)
	if !ok {
		c.logger.Warn("strategy preset not found", logging.Fields{"preset": name})
		return false
	}

	st := preset.Strategy
	c.current = &st
	c.logger.Info("strategy preset selected", logging.Fields{"preset": name})
	return true
}

// Enable turns processing on
func (c *Controller) Enable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = true
	c.logger.Info("audio processing enabled")
}

// Disable switches to passthrough mode (clip only)
func (c *Controller) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = false
	c.logger.Info("audio processing disabled")
}

// GetStatus returns a snapshot of the controller state
func (c *Controller) GetStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	currentName := ""
	if c.current != nil {
		currentName = c.current.Name
	}

	return Status{
		ProcessingEnabled: c.enabled,
		CurrentStrategy:   currentName,
		Profile:           profileName(c.profile),
		AvailablePresets:  c.library.Names(),
		Decisions:         c.engine.Summarize(),
	}
}

func profileName(p strategy.UserProfile) string {
	if p.Name != "" {
		return p.Name
	}
	return p.Preference
}
