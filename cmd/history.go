package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qmorane/tousim/config"
	"github.com/qmorane/tousim/core/model"
	"github.com/qmorane/tousim/infra/store"
	"github.com/qmorane/tousim/jobs/history"
)

var runFile string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Run history commands",
}

var historyLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored runs",
	RunE:  runHistoryLs,
}

var historyImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import an exported run result into the history database",
	RunE:  runHistoryImport,
}

func init() {
	historyImportCmd.Flags().StringVarP(&runFile, "file", "f", "results/run.json", "exported run result")
	historyCmd.AddCommand(historyLsCmd)
	historyCmd.AddCommand(historyImportCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*store.SQLiteStore, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.History.Path == "" {
		return nil, fmt.Errorf("history.path is not configured")
	}
	return store.NewSQLiteStore(cfg.History.Path)
}

func runHistoryLs(cmd *cobra.Command, args []string) error {
	st, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	runs, err := st.Runs()
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  days=%d valid=%d cycles=%.2f profit=%.2f\n",
			r.RunID, r.CreatedAt.Format("2006-01-02 15:04"), r.Days, r.ValidDays, r.Cycles, r.Profit)
	}
	return nil
}

func runHistoryImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(runFile)
	if err != nil {
		return fmt.Errorf("read run result: %w", err)
	}
	var res model.RunResult
	if err := json.Unmarshal(data, &res); err != nil {
		return fmt.Errorf("decode run result: %w", err)
	}
	if res.RunID == "" {
		return fmt.Errorf("run result has no run_id")
	}

	st, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	return history.Backfill(st, &res)
}
