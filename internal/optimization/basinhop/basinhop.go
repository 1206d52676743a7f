// Package basinhop implements the default outer search procedure: a
// basin-hopping loop that repeatedly perturbs the current solution and
// re-runs the inner local search, accepting uphill hops with a
// Metropolis criterion.
package basinhop

import (
	"math"
	"math/rand"
	"time"

	"github.com/pasky/hyperbbob/internal/optimization"
)

// Params configures a basin-hopping run.
type Params struct {
	// Restarts is the number of perturbation cycles after the initial
	// local search.
	Restarts int

	// StepSize is the maximum per-coordinate displacement of one hop.
	StepSize float64

	// Temperature controls the Metropolis acceptance of uphill hops.
	Temperature float64

	// Seed makes the perturbation sequence reproducible. Zero seeds
	// from the wall clock.
	Seed int64
}

// Hopper runs basin-hopping with fixed parameters.
type Hopper struct {
	params Params
	rng    *rand.Rand

	best *optimization.Solution
}

// New creates a Hopper, filling in defaults for unset parameters.
func New(params Params) *Hopper {
	if params.Restarts < 1 {
		params.Restarts = 100
	}
	if params.StepSize <= 0 {
		params.StepSize = 0.5
	}
	if params.Temperature <= 0 {
		params.Temperature = 1.0
	}

	rng := rand.New(rand.NewSource(params.Seed))
	if params.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Hopper{params: params, rng: rng}
}

// Minimize is the package-level outer loop with default parameters. It
// satisfies optimization.OuterLoop.
func Minimize(obj optimization.Objective, x0 []float64, outerCB optimization.OuterCallback, inner optimization.InnerConfig) (*optimization.Result, error) {
	return New(Params{}).Minimize(obj, x0, outerCB, inner)
}

// Minimize runs the hopping loop: one local search from x0, then
// Restarts cycles of perturb, local search, Metropolis accept. outerCB
// fires once per completed cycle; the inner callback carried by the
// config fires inside every local search. Any error from the inner
// loop or from a callback aborts the run and propagates unmodified.
func (h *Hopper) Minimize(obj optimization.Objective, x0 []float64, outerCB optimization.OuterCallback, inner optimization.InnerConfig) (*optimization.Result, error) {
	local, err := optimization.LocalMinimize(obj, x0, inner)
	if err != nil {
		return nil, err
	}

	current := &optimization.Solution{X: local.X, F: local.F}
	h.updateBest(current)
	localIters := local.MajorIters
	converged := local.Converged

	for i := 0; i < h.params.Restarts; i++ {
		trial := h.perturb(current.X, inner.Bounds)

		local, err = optimization.LocalMinimize(obj, trial, inner)
		if err != nil {
			return nil, err
		}
		localIters += local.MajorIters
		converged = converged && local.Converged

		accepted := h.accept(local.F, current.F)
		if accepted {
			current = &optimization.Solution{X: local.X, F: local.F}
			h.updateBest(current)
		}

		if outerCB != nil {
			if err := outerCB(current.X, current.F, accepted); err != nil {
				return nil, err
			}
		}
	}

	return &optimization.Result{
		Best:       h.best,
		Restarts:   h.params.Restarts,
		LocalIters: localIters,
		Converged:  converged,
	}, nil
}

// Best returns the best solution found so far.
func (h *Hopper) Best() *optimization.Solution { return h.best }

func (h *Hopper) updateBest(s *optimization.Solution) {
	if h.best == nil || s.F < h.best.F {
		h.best = &optimization.Solution{
			X: append([]float64(nil), s.X...),
			F: s.F,
		}
	}
}

// perturb displaces every coordinate uniformly within ±StepSize,
// clamped into the bound box.
func (h *Hopper) perturb(x []float64, bounds [][2]float64) []float64 {
	trial := make([]float64, len(x))
	for i, v := range x {
		v += h.params.StepSize * (2*h.rng.Float64() - 1)
		if i < len(bounds) {
			v = math.Max(bounds[i][0], math.Min(v, bounds[i][1]))
		}
		trial[i] = v
	}
	return trial
}

// accept implements the Metropolis criterion: downhill hops always,
// uphill hops with probability exp(-df/T).
func (h *Hopper) accept(trialF, currentF float64) bool {
	if trialF <= currentF {
		return true
	}
	return h.rng.Float64() < math.Exp(-(trialF-currentF)/h.params.Temperature)
}
