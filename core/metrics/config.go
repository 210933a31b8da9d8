package metrics

// Config defines settings for metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled" koanf:"prometheus_enabled"`
	PrometheusPort    int    `json:"prometheus_port" koanf:"prometheus_port"`
	InfluxURL         string `json:"influx_url" koanf:"influx_url"`
	InfluxToken       string `json:"influx_token" koanf:"influx_token"`
	InfluxOrg         string `json:"influx_org" koanf:"influx_org"`
	InfluxBucket      string `json:"influx_bucket" koanf:"influx_bucket"`
}

// SetDefaults fills zero values with sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == 0 {
		c.PrometheusPort = 2112
	}
}
