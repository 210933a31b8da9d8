package metrics

import (
	"net/http"

	coremetrics "github.com/qmorane/tousim/core/metrics"
)

// FromConfig assembles the configured sink stack. The returned server is nil
// unless the Prometheus endpoint was enabled.
func FromConfig(cfg coremetrics.Config) (coremetrics.MetricsSink, *http.Server, error) {
	var sinks []coremetrics.MetricsSink
	var srv *http.Server

	if cfg.PrometheusEnabled {
		prom, err := NewPromSink()
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, prom)
		srv = StartPromServer(cfg.PrometheusPort)
	}
	if cfg.InfluxURL != "" {
		sinks = append(sinks, NewInfluxSinkWithFallback(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket))
	}

	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil, nil
	case 1:
		return sinks[0], srv, nil
	default:
		return NewMultiSink(sinks...), srv, nil
	}
}
