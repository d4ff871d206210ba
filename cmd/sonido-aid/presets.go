package main

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-aid/strategy"
)

var presetsJSON bool

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in strategy presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		lib := strategy.NewLibrary()

		if presetsJSON {
			out := make([]strategy.Preset, 0, len(lib.Names()))
			for _, name := range lib.Names() {
				p, _ := lib.Get(name)
				out = append(out, p)
			}
			return writeJSON("", out)
		}

		for _, name := range lib.Names() {
			desc, _ := lib.Description(name)
			cmd.Printf("%-20s %s\n", name, desc)
		}
		return nil
	},
}

func init() {
	presetsCmd.Flags().BoolVar(&presetsJSON, "json", false, "emit full preset definitions as JSON")
}
