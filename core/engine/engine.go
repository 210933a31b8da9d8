package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/qmorane/tousim/core/cycles"
	"github.com/qmorane/tousim/core/logger"
	coremetrics "github.com/qmorane/tousim/core/metrics"
	"github.com/qmorane/tousim/core/model"
	"github.com/qmorane/tousim/core/power"
	"github.com/qmorane/tousim/core/revenue"
	"github.com/qmorane/tousim/core/schedule"
	"github.com/qmorane/tousim/internal/eventbus"
)

// DayEvent reports progress after each simulated day.
type DayEvent struct {
	RunID  string
	Index  int
	Total  int
	Result model.DailyResult
}

// Engine drives one full simulation: schedule resolution, dispatch, cycle
// accounting and revenue, day by day. It holds no state between runs; every
// Run recomputes everything from its inputs.
type Engine struct {
	params model.StorageParams
	log    logger.Logger
	sink   coremetrics.MetricsSink
	bus    *eventbus.Bus[DayEvent]
}

// New creates an engine. sink and bus may be nil.
func New(params model.StorageParams, log logger.Logger, sink coremetrics.MetricsSink, bus *eventbus.Bus[DayEvent]) *Engine {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Engine{params: params, log: log, sink: sink, bus: bus}
}

// Run simulates the whole scenario. Cancellation is checked at day
// granularity; a cancelled run returns the context error and no partial
// output.
func (e *Engine) Run(ctx context.Context, sc *model.ScenarioData) (*model.RunResult, error) {
	if err := e.params.Validate(); err != nil {
		return nil, fmt.Errorf("storage params: %w", err)
	}
	if len(sc.Series.Points) == 0 {
		return nil, errors.New("load series: no samples")
	}
	if e.params.CapacityKWh <= 0 {
		return nil, errors.New("storage params: capacity_kwh must be > 0")
	}

	started := time.Now()
	runID := uuid.NewString()
	stepMinutes := sc.Series.StepMinutes()
	stepHours := stepMinutes / 60

	resolver := schedule.NewResolver(sc.Matrix, sc.Rules)
	limits := power.NewLimitProvider(e.params, sc.Series.MonthlyDemandMax())
	solver := power.NewStepSolver(e.params, stepMinutes)
	accountant := cycles.NewAccountant(e.params)

	days := sc.Series.Days()
	e.log.Infof("run %s: %d days, %.0f-minute steps", runID, len(days), stepMinutes)

	res := &model.RunResult{RunID: runID}
	res.QC.DroppedSamples = sc.Series.Dropped
	res.QC.StepMinutes = stepMinutes
	res.Days = make([]model.DailyResult, 0, len(days))

	for i, day := range days {
		if err := ctx.Err(); err != nil {
			e.log.Warnf("run %s cancelled at day %s", runID, day.Date.Format("2006-01-02"))
			return nil, err
		}

		sched, src := resolver.Resolve(day.Date)
		if src == schedule.SourceFallback {
			res.QC.FallbackDays++
		}
		windows := schedule.BuildWindows(sched, e.params.MergeThresholdMinutes)
		limit := limits.ForDay(day.Date)

		total, per := accountant.DayCycles(windows, day.Points, limit, stepHours)
		outcome := revenue.ComputeDay(solver, e.params, sc.Prices, revenue.DayInput{
			Date:    day.Date,
			Points:  day.Points,
			Sched:   sched,
			Windows: windows,
			LimitKW: limit,
		})

		dr := model.DailyResult{
			Date:             day.Date,
			Valid:            day.Valid(),
			Cycles:           total,
			WindowCycles:     per,
			MissingPrices:    outcome.MissingPrices,
			PeakDischargeKWh: outcome.PeakDischargeKWh,
			PeakLoadKWh:      outcome.PeakLoadKWh,
			ShavedPeakKW:     outcome.ShavedPeakKW,
			Profit:           outcome.Profit,
		}
		res.QC.MissingPricePoints += outcome.MissingPrices
		res.Days = append(res.Days, dr)

		e.publish(DayEvent{RunID: runID, Index: i, Total: len(days), Result: dr})
		if err := e.sink.RecordDayResult(coremetrics.DayResultEvent{
			RunID:         runID,
			Date:          dr.Date,
			Valid:         dr.Valid,
			Fallback:      src == schedule.SourceFallback,
			Cycles:        dr.Cycles,
			Profit:        dr.Profit,
			MissingPrices: dr.MissingPrices,
		}); err != nil {
			e.log.Warnf("metrics sink: %v", err)
		}
	}

	res.Months = revenue.BuildMonthly(res.Days)
	res.Years = revenue.BuildYearly(res.Months)

	if rec, ok := e.sink.(coremetrics.RunRecorder); ok {
		ev := coremetrics.RunEvent{
			RunID:    runID,
			Days:     len(res.Days),
			Duration: time.Since(started),
			Time:     time.Now(),
		}
		for _, y := range res.Years {
			ev.ValidDays += y.ValidDays
			ev.Cycles += y.Cycles
			ev.Profit += y.Profit.Profit
		}
		if err := rec.RecordRun(ev); err != nil {
			e.log.Warnf("metrics sink: %v", err)
		}
	}

	e.log.Infof("run %s done in %s", runID, time.Since(started))
	return res, nil
}

func (e *Engine) publish(ev DayEvent) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}
