package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-aid/config"
	"github.com/RyanBlaney/sonido-aid/controller"
)

var (
	processInput  string
	processOutput string
	processPreset string
	processForce  bool
)

// processRequest is the JSON document accepted on stdin or --input.
type processRequest struct {
	Samples []float64 `json:"samples"`
}

// processResponse mirrors controller.Result with the processed samples inline.
type processResponse struct {
	Status    string    `json:"status"`
	Strategy  string    `json:"strategy,omitempty"`
	Samples   []float64 `json:"samples"`
	Decision  bool      `json:"decision_made"`
	SafetyMsg string    `json:"safety_message,omitempty"`
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run an audio frame through the full pipeline",
	Long: "Reads a JSON document with a \"samples\" array of floats in [-1, 1]\n" +
		"from --input or stdin, runs extraction, decision and the transform\n" +
		"chain, and writes the processed samples as JSON to --output or stdout.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		in := os.Stdin
		if processInput != "" {
			f, err := os.Open(processInput)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer f.Close()
			in = f
		}

		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		var req processRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return fmt.Errorf("parse input: %w", err)
		}

		ctrl, err := newController(cfg)
		if err != nil {
			return err
		}
		if processPreset != "" {
			if !ctrl.SelectPreset(processPreset) {
				return fmt.Errorf("unknown preset %q", processPreset)
			}
		}

		// A named preset pins the strategy for this run, so the
		// advisor is bypassed unless a decision is forced.
		result := ctrl.ProcessWithOptions(cmd.Context(), req.Samples, controller.ProcessOptions{
			ForceDecision: processForce,
			SkipAdvisor:   processPreset != "" && !processForce,
		})

		resp := processResponse{
			Status:   result.Status,
			Strategy: result.Strategy.Name,
			Samples:  result.Processed,
			Decision: result.DecisionMade,
		}
		if result.Check != nil {
			resp.SafetyMsg = result.Check.Message
		}

		return writeJSON(processOutput, resp)
	},
}

func init() {
	processCmd.Flags().StringVarP(&processInput, "input", "i", "", "input JSON file (default stdin)")
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "output JSON file (default stdout)")
	processCmd.Flags().StringVar(&processPreset, "preset", "", "apply a named preset before processing")
	processCmd.Flags().BoolVar(&processForce, "force-decision", false, "request a new decision regardless of interval")
}

func newController(cfg config.Config) (*controller.Controller, error) {
	adv, err := cfg.BuildAdvisor()
	if err != nil {
		return nil, err
	}
	ctrl := controller.NewController(cfg.SampleRate, adv)
	ctrl.SetDecisionInterval(cfg.DecisionInterval())
	return ctrl, nil
}

func writeJSON(path string, v any) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
