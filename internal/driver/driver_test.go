package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pasky/hyperbbob/internal/benchmark"
	"github.com/pasky/hyperbbob/internal/config"
	"github.com/pasky/hyperbbob/internal/method"
	"github.com/pasky/hyperbbob/internal/metrics"
	"github.com/pasky/hyperbbob/internal/server"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Experiment.Functions = []string{"sphere"}
	cfg.Experiment.Methods = []string{"Nelder-Mead"}
	cfg.Experiment.Dimensions = []int{2}
	cfg.Experiment.Instances = 1
	cfg.Experiment.Precision = 1e-8
	cfg.Experiment.DataDir = t.TempDir()
	cfg.Hopping.Restarts = 2
	cfg.Hopping.StepSize = 0.5
	cfg.Hopping.Temperature = 1.0
	cfg.Hopping.Seed = 42
	return cfg
}

func TestDriverRunProducesLog(t *testing.T) {
	cfg := testConfig(t)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	status := server.New(zap.NewNop())

	d := New(cfg, zap.NewNop(), m, status)
	require.NoError(t, d.Run(context.Background()))

	data, err := os.ReadFile(filepath.Join(cfg.Experiment.DataDir, "sphere_i00_d02.mdat"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	require.Greater(t, len(lines), 1, "at least one record behind the header")
	assert.True(t, strings.HasPrefix(lines[0], "%"))
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		require.GreaterOrEqual(t, len(fields), 6)
		assert.Equal(t, "0", fields[2], "portfolio index of the only method")
		assert.Equal(t, "Nelder-Mead", fields[3])
	}

	// Two restarts were configured, so exactly two outer cycles ran.
	assert.Equal(t, 2.0,
		testutil.ToFloat64(m.Restarts.WithLabelValues("sphere", "Nelder-Mead")))
	assert.Greater(t,
		testutil.ToFloat64(m.Evaluations.WithLabelValues("sphere", "Nelder-Mead")), 0.0)
}

func TestStartPoint(t *testing.T) {
	tests := []struct {
		fn   string
		dim  int
		want float64
	}{
		{fn: "sphere", dim: 2, want: 0},       // symmetric domain, origin
		{fn: "rosenbrock", dim: 3, want: 2.5}, // (-5, 10) midpoint
		{fn: "ackley", dim: 2, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			fn, err := benchmark.ByName(tt.fn)
			require.NoError(t, err)
			inst := benchmark.NewInstance(fn, tt.dim, 0, t.TempDir())

			x0 := startPoint(inst)
			require.Len(t, x0, tt.dim)
			for _, v := range x0 {
				assert.Equal(t, tt.want, v)
				assert.GreaterOrEqual(t, v, method.SearchLow)
				assert.LessOrEqual(t, v, method.SearchHigh)
			}
		})
	}
}

func TestDriverSkipsUnsupportedMethod(t *testing.T) {
	cfg := testConfig(t)
	cfg.Experiment.Methods = []string{"cobyla", "Nelder-Mead"}

	d := New(cfg, zap.NewNop(), nil, nil)
	require.NoError(t, d.Run(context.Background()),
		"unsupported method is a skip, not a batch failure")

	// The supported method still ran and logged.
	_, err := os.Stat(filepath.Join(cfg.Experiment.DataDir, "sphere_i00_d02.mdat"))
	assert.NoError(t, err)
}

func TestDriverHonorsCancellation(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New(cfg, zap.NewNop(), nil, nil)
	err := d.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDriverUnknownFunction(t *testing.T) {
	cfg := testConfig(t)
	cfg.Experiment.Functions = []string{"nosuch"}

	d := New(cfg, zap.NewNop(), nil, nil)
	assert.Error(t, d.Run(context.Background()))
}
