// Package benchmark provides the black-box test functions and the
// per-run function instance descriptor the harness optimizes against.
// The functions follow the standard benchmarking catalog; each one knows
// its own optimum so that progress can be measured as a fitness offset.
package benchmark

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Func is a single benchmark objective, evaluable at any dimension.
type Func interface {
	// Name returns the canonical function name.
	Name() string

	// Eval returns the fitness value at point x.
	Eval(x []float64) float64

	// Optimum returns the known optimal fitness value for the given
	// dimension.
	Optimum(dim int) float64

	// Domain returns the natural search domain of the function,
	// identical in every coordinate.
	Domain() (lo, hi float64)
}

// Suite returns the full set of benchmark functions.
func Suite() []Func {
	return []Func{
		Sphere{},
		Rosenbrock{},
		Rastrigin{},
		Ackley{},
		Schwefel{},
		StyblinskiTang{},
	}
}

// ByName looks up a suite function by name, case-insensitively.
func ByName(name string) (Func, error) {
	for _, fn := range Suite() {
		if strings.EqualFold(fn.Name(), name) {
			return fn, nil
		}
	}
	return nil, fmt.Errorf("benchmark: unknown function %q", name)
}

// Sphere is the convex quadratic bowl, optimum 0 at the origin.
type Sphere struct{}

func (Sphere) Name() string { return "sphere" }

func (Sphere) Eval(x []float64) float64 {
	return floats.Dot(x, x)
}

func (Sphere) Optimum(dim int) float64 { return 0 }

func (Sphere) Domain() (lo, hi float64) { return -5, 5 }

// Rosenbrock is the banana valley, optimum 0 at (1, ..., 1).
type Rosenbrock struct{}

func (Rosenbrock) Name() string { return "rosenbrock" }

func (Rosenbrock) Eval(x []float64) float64 {
	tot := 0.0
	for i := 0; i < len(x)-1; i++ {
		a := x[i+1] - x[i]*x[i]
		b := x[i] - 1
		tot += 100*a*a + b*b
	}
	return tot
}

func (Rosenbrock) Optimum(dim int) float64 { return 0 }

func (Rosenbrock) Domain() (lo, hi float64) { return -5, 10 }

// Rastrigin is highly multimodal with a regular grid of local optima,
// optimum 0 at the origin.
type Rastrigin struct{}

func (Rastrigin) Name() string { return "rastrigin" }

func (Rastrigin) Eval(x []float64) float64 {
	tot := 10 * float64(len(x))
	for _, v := range x {
		tot += v*v - 10*math.Cos(2*math.Pi*v)
	}
	return tot
}

func (Rastrigin) Optimum(dim int) float64 { return 0 }

func (Rastrigin) Domain() (lo, hi float64) { return -5.12, 5.12 }

// Ackley has a nearly flat outer region and a deep central funnel,
// optimum 0 at the origin.
type Ackley struct{}

func (Ackley) Name() string { return "ackley" }

func (Ackley) Eval(x []float64) float64 {
	n := float64(len(x))
	sq := floats.Dot(x, x)
	cs := 0.0
	for _, v := range x {
		cs += math.Cos(2 * math.Pi * v)
	}
	return -20*math.Exp(-0.2*math.Sqrt(sq/n)) - math.Exp(cs/n) + 20 + math.E
}

func (Ackley) Optimum(dim int) float64 { return 0 }

func (Ackley) Domain() (lo, hi float64) { return -32.768, 32.768 }

/// Schwefel is deceptive: the global optimum sits far from the next best
// local optima. Stated in the shifted form with optimum 0 at
// (420.9687, ..., 420.9687).
type Schwefel struct{}

func (Schwefel) Name() string { return "schwefel" }

func (Schwefel) Eval(x []float64) float64 {
	tot := 418.9829 * float64(len(x))
	for _, v := range x {
		tot -= v * math.Sin(math.Sqrt(math.Abs(v)))
	}
	return tot
}

func (Schwefel) Optimum(dim int) float64 { return 0 }

func (Schwefel) Domain() (lo, hi float64) { return -500, 500 }

// StyblinskiTang has its optimum at (-2.903534, ..., -2.903534) with a
// dimension-proportional optimal value.
type StyblinskiTang struct{}

func (StyblinskiTang) Name() string { return "styblinski-tang" }

func (StyblinskiTang) Eval(x []float64) float64 {
	tot := 0.0
	for _, v := range x {
		v2 := v * v
		tot += v2*v2 - 16*v2 + 5*v
	}
	return tot / 2
}

func (StyblinskiTang) Optimum(dim int) float64 { return -39.16599 * float64(dim) }

func (StyblinskiTang) Domain() (lo, hi float64) { return -5, 5 }
