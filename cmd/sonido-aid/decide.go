package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-aid/decision"
	"github.com/RyanBlaney/sonido-aid/features"
	"github.com/RyanBlaney/sonido-aid/safety"
	"github.com/RyanBlaney/sonido-aid/strategy"
)

var (
	decideInput  string
	decideOutput string
)

// decideResponse pairs the decision with its safety validation.
type decideResponse struct {
	Decision decision.Decision `json:"decision"`
	Safety   safety.Check      `json:"safety"`
}

var decideCmd = &cobra.Command{
	Use:   "decide",
	Short: "Run one decision cycle over a feature set",
	Long: "Reads an audio feature set as JSON from --input or stdin, runs the\n" +
		"advisor and safety validator, and writes the validated decision as\n" +
		"JSON. Useful for inspecting advisor behavior without audio.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		in := os.Stdin
		if decideInput != "" {
			f, err := os.Open(decideInput)
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
		var fs features.AudioFeatureSet
		if err := json.Unmarshal(data, &fs); err != nil {
			return fmt.Errorf("parse feature set: %w", err)
		}

		adv, err := cfg.BuildAdvisor()
		if err != nil {
			return err
		}
		engine := decision.NewEngine(adv)
		dec, check := engine.Decide(cmd.Context(), &fs, strategy.DefaultProfile(), nil)

		return writeJSON(decideOutput, decideResponse{Decision: dec, Safety: check})
	},
}

func init() {
	decideCmd.Flags().StringVarP(&decideInput, "input", "i", "", "input JSON file (default stdin)")
	decideCmd.Flags().StringVarP(&decideOutput, "output", "o", "", "output JSON file (default stdout)")
}
