package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qmorane/tousim/app"
	"github.com/qmorane/tousim/config"
	"github.com/qmorane/tousim/core/model"
	"github.com/qmorane/tousim/infra/logger"
	"github.com/qmorane/tousim/pkg/export"
)

var (
	scenarioPath string
	outDir       string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the dispatch simulation over a scenario file",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVarP(&scenarioPath, "input", "i", "scenario.json", "scenario file")
	simulateCmd.Flags().StringVarP(&outDir, "out", "o", "results", "output directory")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	sc, err := svc.LoadScenario(scenarioPath)
	if err != nil {
		return err
	}
	res, err := svc.Simulate(ctx, sc)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	return writeRunOutputs(outDir, res)
}

func writeRunOutputs(dir string, res *model.RunResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	writers := []struct {
		name  string
		write func(f *os.File) error
	}{
		{"run.json", func(f *os.File) error { return export.WriteRunJSON(f, res) }},
		{"days.csv", func(f *os.File) error { return export.WriteDaysCSV(f, res.Days) }},
		{"months.csv", func(f *os.File) error { return export.WriteMonthsCSV(f, res.Months) }},
		{"years.csv", func(f *os.File) error { return export.WriteYearsCSV(f, res.Years) }},
	}
	for _, w := range writers {
		f, err := os.Create(filepath.Join(dir, w.name))
		if err != nil {
			return err
		}
		if err := w.write(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", w.name, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
