package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuiteOptima(t *testing.T) {
	tests := []struct {
		name      string
		fn        Func
		minimizer []float64
		tol       float64
	}{
		{
			name:      "sphere at origin",
			fn:        Sphere{},
			minimizer: []float64{0, 0, 0},
			tol:       1e-12,
		},
		{
			name:      "rosenbrock at ones",
			fn:        Rosenbrock{},
			minimizer: []float64{1, 1, 1, 1},
			tol:       1e-12,
		},
		{
			name:      "rastrigin at origin",
			fn:        Rastrigin{},
			minimizer: []float64{0, 0},
			tol:       1e-12,
		},
		{
			name:      "ackley at origin",
			fn:        Ackley{},
			minimizer: []float64{0, 0},
			tol:       1e-12,
		},
		{
			name:      "schwefel at 420.9687",
			fn:        Schwefel{},
			minimizer: []float64{420.9687, 420.9687},
			tol:       1e-2,
		},
		{
			name:      "styblinski-tang at -2.903534",
			fn:        StyblinskiTang{},
			minimizer: []float64{-2.903534, -2.903534, -2.903534},
			tol:       1e-3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dim := len(tt.minimizer)
			got := tt.fn.Eval(tt.minimizer)
			assert.InDelta(t, tt.fn.Optimum(dim), got, tt.tol)

			// The stated minimizer must not be beatable by a nearby point.
			nudged := append([]float64(nil), tt.minimizer...)
			nudged[0] += 0.01
			assert.GreaterOrEqual(t, tt.fn.Eval(nudged), got)
		})
	}
}

func TestByName(t *testing.T) {
	fn, err := ByName("Sphere")
	require.NoError(t, err)
	assert.Equal(t, "sphere", fn.Name())

	_, err = ByName("nosuchfunction")
	assert.Error(t, err)
}

func TestSuiteDomains(t *testing.T) {
	for _, fn := range Suite() {
		lo, hi := fn.Domain()
		assert.Less(t, lo, hi, "domain of %s", fn.Name())
	}
}
