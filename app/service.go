package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/qmorane/tousim/config"
	"github.com/qmorane/tousim/core/economics"
	"github.com/qmorane/tousim/core/engine"
	corehistory "github.com/qmorane/tousim/core/history"
	"github.com/qmorane/tousim/core/model"
	"github.com/qmorane/tousim/infra/logger"
	"github.com/qmorane/tousim/infra/metrics"
	"github.com/qmorane/tousim/infra/store"
	"github.com/qmorane/tousim/internal/eventbus"
	"github.com/qmorane/tousim/jobs/history"
)

// Service wires the configuration into a ready-to-run simulation engine.
type Service struct {
	Engine *engine.Engine

	cfg     *config.Config
	bus     *eventbus.Bus[engine.DayEvent]
	log     logger.Logger
	promSrv *http.Server
	closer  interface{ Close() }
	hist    corehistory.Store
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.NewWithLevel(cfg.Logging.Component, cfg.Logging.Level)

	sink, promSrv, err := metrics.FromConfig(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	var closer interface{ Close() }
	if c, ok := sink.(interface{ Close() }); ok {
		closer = c
	}

	var hist corehistory.Store
	if cfg.History.Path != "" {
		hist, err = store.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("history store: %w", err)
		}
	}

	bus := eventbus.New[engine.DayEvent]()
	eng := engine.New(cfg.Storage, logg, sink, bus)

	return &Service{
		Engine:  eng,
		cfg:     cfg,
		bus:     bus,
		log:     logg,
		promSrv: promSrv,
		closer:  closer,
		hist:    hist,
	}, nil
}

// LoadScenario reads and resolves a scenario file.
func (s *Service) LoadScenario(path string) (*model.ScenarioData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := model.ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

// Simulate runs the engine over a scenario, logging per-day progress.
func (s *Service) Simulate(ctx context.Context, sc *model.ScenarioData) (*model.RunResult, error) {
	progress := s.bus.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range progress {
			s.log.Debugw("day simulated", map[string]any{
				"run_id": ev.RunID,
				"day":    ev.Index + 1,
				"total":  ev.Total,
				"date":   ev.Result.Date.Format("2006-01-02"),
				"cycles": ev.Result.Cycles,
				"profit": ev.Result.Profit.Profit,
			})
		}
	}()

	res, err := s.Engine.Run(ctx, sc)
	s.bus.Unsubscribe(progress)
	<-done
	if err != nil {
		return nil, err
	}
	if s.hist != nil {
		if herr := history.Backfill(s.hist, res); herr != nil {
			s.log.Warnf("history backfill: %v", herr)
		}
	}
	return res, nil
}

// History exposes the run history store, nil when disabled.
func (s *Service) History() corehistory.Store { return s.hist }

// ProjectEconomics runs the cashflow projection over a first simulated year.
func (s *Service) ProjectEconomics(res *model.RunResult) (model.EconomicsResult, error) {
	if len(res.Years) == 0 {
		return model.EconomicsResult{}, fmt.Errorf("no simulated years in result")
	}
	first := res.Years[0]
	proj := economics.NewProjector(s.cfg.Economics)
	return proj.Project(economics.Input{
		FirstYearRevenue:   first.Profit.Profit,
		FirstYearEnergyKWh: first.Profit.DischargeEnergyKWh,
		CapacityKWh:        s.cfg.Storage.CapacityKWh,
	}), nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.closer != nil {
		s.closer.Close()
	}
	if s.hist != nil {
		if err := s.hist.Close(); err != nil {
			s.log.Warnf("history close: %v", err)
		}
	}
	if s.promSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return s.promSrv.Shutdown(ctx)
	}
	return nil
}
