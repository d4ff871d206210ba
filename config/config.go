// Package config defines the YAML-loadable pipeline configuration
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-aid/advisor"
)

// Advisor modes
const (
	ModeRule   = "rule"
	ModeRemote = "remote"
	ModeCached = "cached"
)

// AdvisorConfig selects and tunes the reasoning policy
type AdvisorConfig struct {
	// Mode is one of rule, remote, cached. Cached wraps the remote
	// advisor when an endpoint is set, otherwise the rule advisor.
	Mode string `json:"mode" yaml:"mode"`

	Endpoint        string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	TimeoutMS       int    `json:"timeout_ms" yaml:"timeout_ms"`
	CacheTTLSeconds int    `json:"cache_ttl_seconds" yaml:"cache_ttl_seconds"`
}

// Config is the full pipeline configuration
type Config struct {
	SampleRate         int           `json:"sample_rate" yaml:"sample_rate"`
	DecisionIntervalMS int           `json:"decision_interval_ms" yaml:"decision_interval_ms"`
	Advisor            AdvisorConfig `json:"advisor" yaml:"advisor"`
	LogLevel           string        `json:"log_level" yaml:"log_level"`
}

// Default returns the standard configuration: 16 kHz audio, one
// decision per second, the in-process rule advisor
func Default() Config {
	return Config{
		SampleRate:         16000,
		DecisionIntervalMS: 1000,
		Advisor: AdvisorConfig{
			Mode:            ModeRule,
			TimeoutMS:       2000,
			CacheTTLSeconds: 30,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML config file over the defaults
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for usable values
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("invalid sample_rate: %d", c.SampleRate)
	}
	if c.DecisionIntervalMS <= 0 {
		return fmt.Errorf("invalid decision_interval_ms: %d", c.DecisionIntervalMS)
	}
	switch c.Advisor.Mode {
	case ModeRule, ModeRemote, ModeCached:
	default:
		return fmt.Errorf("invalid advisor mode: %q", c.Advisor.Mode)
	}
	if c.Advisor.Mode == ModeRemote && c.Advisor.Endpoint == "" {
		return fmt.Errorf("remote advisor requires an endpoint")
	}
	return nil
}

// DecisionInterval returns the decision interval as a duration
func (c Config) DecisionInterval() time.Duration {
	return time.Duration(c.DecisionIntervalMS) * time.Millisecond
}

// BuildAdvisor constructs the advisor the configuration selects
func (c Config) BuildAdvisor() (advisor.Advisor, error) {
	timeout := time.Duration(c.Advisor.TimeoutMS) * time.Millisecond

	switch c.Advisor.Mode {
	case ModeRule:
		return advisor.NewRuleAdvisor(), nil

	case ModeRemote:
		return advisor.NewRemoteAdvisor(c.Advisor.Endpoint, timeout), nil

	case ModeCached:
		ttl := time.Duration(c.Advisor.CacheTTLSeconds) * time.Second
		var inner advisor.Advisor = advisor.NewRuleAdvisor()
		if c.Advisor.Endpoint != "" {
			inner = advisor.NewRemoteAdvisor(c.Advisor.Endpoint, timeout)
		}
		return advisor.NewCachedAdvisor(inner, ttl), nil

	default:
		return nil, fmt.Errorf("invalid advisor mode: %q", c.Advisor.Mode)
	}
}
