package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/qmorane/tousim/simulator"
)

var (
	genOut     string
	genProfile string
	genDays    int
	genStart   string
	genBaseKW  float64
	genSwingKW float64
	genNoiseKW float64
	genSeed    int64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic scenario file",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "scenario.json", "output file")
	generateCmd.Flags().StringVar(&genProfile, "profile", "office", "load profile: office, factory or flat")
	generateCmd.Flags().IntVar(&genDays, "days", 30, "number of days")
	generateCmd.Flags().StringVar(&genStart, "start", "2024-06-01", "first day (YYYY-MM-DD)")
	generateCmd.Flags().Float64Var(&genBaseKW, "base-kw", 300, "base load in kW")
	generateCmd.Flags().Float64Var(&genSwingKW, "swing-kw", 150, "profile swing in kW")
	generateCmd.Flags().Float64Var(&genNoiseKW, "noise-kw", 10, "gaussian noise in kW")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "random seed, 0 for time-based")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	start, err := time.Parse("2006-01-02", genStart)
	if err != nil {
		return fmt.Errorf("parse start date: %w", err)
	}
	switch simulator.Profile(genProfile) {
	case simulator.ProfileOffice, simulator.ProfileFactory, simulator.ProfileFlat:
	default:
		return fmt.Errorf("unknown profile %q", genProfile)
	}
	sc := simulator.Generate(simulator.Config{
		Start:       start.UTC(),
		Days:        genDays,
		Profile:     simulator.Profile(genProfile),
		BaseLoadKW:  genBaseKW,
		SwingKW:     genSwingKW,
		NoiseKW:     genNoiseKW,
		Seed:        genSeed,
		StepMinutes: 15,
	})

	f, err := os.Create(genOut)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	if err := enc.Encode(sc); err != nil {
		f.Close()
		return fmt.Errorf("write scenario: %w", err)
	}
	return f.Close()
}
