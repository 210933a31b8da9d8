package cmd

import (
	"context"
	"encoding/json"
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

var fromRun string

var economicsCmd = &cobra.Command{
	Use:   "economics",
	Short: "Simulate a first year and project the multi-year cashflow",
	RunE:  runEconomics,
}

func init() {
	economicsCmd.Flags().StringVarP(&scenarioPath, "input", "i", "scenario.json", "scenario file")
	economicsCmd.Flags().StringVarP(&outDir, "out", "o", "results", "output directory")
	economicsCmd.Flags().StringVar(&fromRun, "from-run", "", "project from an exported run.json instead of simulating")
	rootCmd.AddCommand(economicsCmd)
}

func runEconomics(cmd *cobra.Command, args []string) error {
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

	var res *model.RunResult
	if fromRun != "" {
		res, err = loadRunResult(fromRun)
		if err != nil {
			return err
		}
	} else {
		sc, err := svc.LoadScenario(scenarioPath)
		if err != nil {
			return err
		}
		res, err = svc.Simulate(ctx, sc)
		if err != nil {
			return fmt.Errorf("simulate: %w", err)
		}
	}
	eco, err := svc.ProjectEconomics(res)
	if err != nil {
		return fmt.Errorf("economics: %w", err)
	}

	if err := writeRunOutputs(outDir, res); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(outDir, "economics.json"))
	if err != nil {
		return err
	}
	if err := export.WriteEconomicsJSON(f, &eco); err != nil {
		f.Close()
		return fmt.Errorf("write economics.json: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	cf, err := os.Create(filepath.Join(outDir, "cashflows.csv"))
	if err != nil {
		return err
	}
	if err := export.WriteCashflowsCSV(cf, eco.Cashflows); err != nil {
		cf.Close()
		return fmt.Errorf("write cashflows.csv: %w", err)
	}
	return cf.Close()
}

func loadRunResult(path string) (*model.RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run result: %w", err)
	}
	var res model.RunResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode run result: %w", err)
	}
	if len(res.Years) == 0 {
		return nil, fmt.Errorf("run result has no yearly aggregates")
	}
	return &res, nil
}
