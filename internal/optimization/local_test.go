package optimization

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sphere(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return sum
}

func innerConfig(methodName string) InnerConfig {
	return InnerConfig{
		Method:  methodName,
		Bounds:  [][2]float64{{-6, 6}, {-6, 6}},
		Options: Options{Tolerance: 1e-8},
	}
}

func TestLocalMethodNames(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{name: "Nelder-Mead"},
		{name: "nelder-mead"},
		{name: "BFGS"},
		{name: "bfgs"},
		{name: "CG"},
		{name: "L-BFGS-B"},
		{name: "LBFGS"},
		{name: "GradientDescent"},
		{name: "TNC", wantErr: true},
		{name: "SLSQP", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := localMethod(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, m)
		})
	}
}

func TestLocalMinimizeConverges(t *testing.T) {
	for _, name := range []string{"Nelder-Mead", "BFGS", "CG", "L-BFGS-B", "GradientDescent"} {
		t.Run(name, func(t *testing.T) {
			res, err := LocalMinimize(sphere, []float64{2, 2}, innerConfig(name))
			require.NoError(t, err)
			assert.InDelta(t, 0, res.F, 1e-4)
			assert.InDelta(t, 0, res.X[0], 1e-2)
			assert.InDelta(t, 0, res.X[1], 1e-2)
		})
	}
}

func TestLocalMinimizeGradientMethodFailure(t *testing.T) {
	// A degenerate objective makes gradient-based minimization fail; the
	// failure must surface as an error, never a panic.
	nan := func(x []float64) float64 { return math.NaN() }

	for _, name := range []string{"BFGS", "CG", "L-BFGS-B"} {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := LocalMinimize(nan, []float64{2, 2}, innerConfig(name))
				assert.Error(t, err)
			})
		})
	}
}

func TestLocalMinimizeUnknownMethod(t *testing.T) {
	_, err := LocalMinimize(sphere, []float64{2, 2}, innerConfig("powell"))
	require.Error(t, err)

	var oerr *Error
	assert.True(t, errors.As(err, &oerr))
}

func TestLocalMinimizeCallback(t *testing.T) {
	var steps int
	var lastF float64
	cfg := innerConfig("Nelder-Mead")
	cfg.Callback = func(x []float64, f float64) error {
		steps++
		lastF = f
		assert.Len(t, x, 2)
		return nil
	}

	res, err := LocalMinimize(sphere, []float64{2, 2}, cfg)
	require.NoError(t, err)
	assert.Greater(t, steps, 0, "callback fires per internal step")
	assert.InDelta(t, res.F, lastF, 1e-6, "last step carries the final fitness")
}

func TestLocalMinimizeCallbackAbort(t *testing.T) {
	abort := errors.New("stop right there")
	cfg := innerConfig("Nelder-Mead")
	cfg.Callback = func(x []float64, f float64) error { return abort }

	_, err := LocalMinimize(sphere, []float64{2, 2}, cfg)
	assert.ErrorIs(t, err, abort, "callback error propagates unmodified")
}

func TestLocalMinimizeClampsToBounds(t *testing.T) {
	// Optimum at (5, 5) lies outside the (-6, -4) box; the result must
	// stay inside it.
	shifted := func(x []float64) float64 {
		return (x[0]-5)*(x[0]-5) + (x[1]-5)*(x[1]-5)
	}
	cfg := InnerConfig{
		Method:  "Nelder-Mead",
		Bounds:  [][2]float64{{-6, -4}, {-6, -4}},
		Options: Options{Tolerance: 1e-8},
	}

	res, err := LocalMinimize(shifted, []float64{-5, -5}, cfg)
	require.NoError(t, err)
	for _, v := range res.X {
		assert.GreaterOrEqual(t, v, -6.0)
		assert.LessOrEqual(t, v, -4.0)
	}
}

func TestClampToBounds(t *testing.T) {
	bounds := [][2]float64{{-1, 1}, {-1, 1}}
	got := clampToBounds([]float64{-3, 0.5}, bounds)
	assert.Equal(t, []float64{-1, 0.5}, got)

	// Input slice is never mutated.
	x := []float64{9, 9}
	_ = clampToBounds(x, bounds)
	assert.Equal(t, []float64{9, 9}, x)
}
