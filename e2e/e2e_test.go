package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/qmorane/tousim/core/engine"
	"github.com/qmorane/tousim/core/model"
	"github.com/qmorane/tousim/infra/logger"
	"github.com/qmorane/tousim/infra/metrics"
	"github.com/qmorane/tousim/simulator"
)

const (
	influxOrg    = "e2e_org"
	influxBucket = "e2e_bucket"
	influxToken  = "e2e-token"
)

// startInflux starts an InfluxDB 2.7 container pre-initialised with the test
// org, bucket and token, and returns it along with the base URL.
func startInflux(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "e2e",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "e2e-password",
			"DOCKER_INFLUXDB_INIT_ORG":         influxOrg,
			"DOCKER_INFLUXDB_INIT_BUCKET":      influxBucket,
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": influxToken,
		},
		WaitingFor: wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start influx container: %v", err)
	}
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "8086")
	url := fmt.Sprintf("http://%s:%s", host, port.Port())
	return cont, url
}

// Test_E2E_InfluxSink runs a short simulation with the Influx sink attached
// and verifies that every simulated day lands in the bucket.
func Test_E2E_InfluxSink(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skipf("docker not installed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cont, url := startInflux(ctx, t)
	if cont != nil {
		defer cont.Terminate(ctx) //nolint:errcheck
	}
	t.Logf("InfluxDB started at %s", url)

	cli := NewInfluxClient(url, influxOrg, influxBucket, influxToken)
	defer cli.Close()
	if err := cli.SetupBucket(ctx); err != nil {
		t.Fatalf("setup bucket: %v", err)
	}

	const days = 3
	wire := simulator.Generate(simulator.Config{Days: days, Seed: 99})
	data, err := json.Marshal(wire)
	if err != nil {
		t.Fatalf("marshal scenario: %v", err)
	}
	sc, err := model.ParseScenario(data)
	if err != nil {
		t.Fatalf("resolve scenario: %v", err)
	}

	sink := metrics.NewInfluxSink(url, influxToken, influxOrg, influxBucket)
	defer sink.Close()

	params := model.StorageParams{
		CapacityKWh: 100, CRate: 0.5, Efficiency: 0.9, DOD: 0.9,
		SOCMin: 0.05, SOCMax: 0.95, LimitMode: model.LimitDemand, SOCCarryover: true,
	}
	eng := engine.New(params, logger.NopLogger{}, sink, nil)
	res, err := eng.Run(ctx, sc)
	if err != nil {
		t.Fatalf("engine run: %v", err)
	}
	if len(res.Days) != days {
		t.Fatalf("expected %d days, got %d", days, len(res.Days))
	}

	flux := fmt.Sprintf(`from(bucket:"%s")
        |> range(start: 2024-01-01T00:00:00Z)
        |> filter(fn: (r) => r._measurement == "day_result" and r._field == "profit")
        |> filter(fn: (r) => r.run_id == "%s")`, influxBucket, res.RunID)
	qr, err := cli.Query(ctx, flux)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer qr.Close()
	count := 0
	for qr.Next() {
		count++
	}
	if err := qr.Err(); err != nil {
		t.Fatalf("iterate: %v", err)
	}
	if count != days {
		t.Fatalf("expected %d day_result points, got %d", days, count)
	}
}
