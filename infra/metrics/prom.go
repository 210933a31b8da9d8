package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/qmorane/tousim/core/metrics"
)

// PromSink records simulation outcomes in Prometheus metrics.
type PromSink struct {
	days          *prometheus.CounterVec
	fallbackDays  prometheus.Counter
	missingPrices prometheus.Counter
	cycles        prometheus.Counter
	profit        prometheus.Counter
	runs          prometheus.Counter
}

// NewPromSink registers simulation metrics on the default Prometheus
// registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		days: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tousim_days_simulated_total",
			Help: "Number of simulated days",
		}, []string{"valid"}),
		fallbackDays: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tousim_fallback_days_total",
			Help: "Days resolved to the all-standby fallback schedule",
		}),
		missingPrices: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tousim_missing_price_points_total",
			Help: "Dispatching steps priced from the default table",
		}),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tousim_equivalent_cycles_total",
			Help: "Equivalent cycles accumulated across simulated days",
		}),
		profit: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tousim_profit_total",
			Help: "Profit accumulated across simulated days",
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tousim_runs_total",
			Help: "Completed simulation runs",
		}),
	}

	for _, c := range []prometheus.Collector{s.days, s.fallbackDays, s.missingPrices, s.cycles, s.profit, s.runs} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordDayResult increments the per-day counters.
func (s *PromSink) RecordDayResult(ev coremetrics.DayResultEvent) error {
	s.days.WithLabelValues(strconv.FormatBool(ev.Valid)).Inc()
	if ev.Fallback {
		s.fallbackDays.Inc()
	}
	s.missingPrices.Add(float64(ev.MissingPrices))
	s.cycles.Add(ev.Cycles)
	if ev.Profit.Profit > 0 {
		s.profit.Add(ev.Profit.Profit)
	}
	return nil
}

// RecordRun counts completed runs.
func (s *PromSink) RecordRun(coremetrics.RunEvent) error {
	s.runs.Inc()
	return nil
}

// StartPromServer exposes /metrics on the given port. The returned server
// should be shut down by the caller.
func StartPromServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
