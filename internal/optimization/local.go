package optimization

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
)

// LocalResult describes one completed local-search run.
type LocalResult struct {
	X          []float64
	F          float64
	MajorIters int
	Converged  bool
}

// localMethod maps a method name to the gonum local-search
// implementation. Names are matched case-insensitively; the common
// aliases for the limited-memory quasi-Newton method are accepted.
func localMethod(name string) (optimize.Method, error) {
	switch strings.ToLower(name) {
	case "nelder-mead", "neldermead":
		return &optimize.NelderMead{}, nil
	case "bfgs":
		return &optimize.BFGS{}, nil
	case "cg":
		return &optimize.CG{}, nil
	case "l-bfgs-b", "lbfgs", "l-bfgs":
		return &optimize.LBFGS{}, nil
	case "gradientdescent", "gradient-descent":
		return &optimize.GradientDescent{}, nil
	default:
		return nil, NewErrorf("unknown local method %q", name).
			WithOperation("localMethod").WithComponent("optimization")
	}
}

// stepRecorder forwards every completed major iteration of the local
// search to the inner callback. A callback error is stashed so the
// caller can propagate it unmodified, whatever gonum wraps around it.
type stepRecorder struct {
	cb  InnerCallback
	err error
}

func (r *stepRecorder) Init() error { return nil }

func (r *stepRecorder) Record(loc *optimize.Location, op optimize.Operation, _ *optimize.Stats) error {
	if op != optimize.MajorIteration || r.cb == nil {
		return nil
	}
	x := append([]float64(nil), loc.X...)
	if err := r.cb(x, loc.F); err != nil {
		r.err = err
		return err
	}
	return nil
}

// LocalMinimize runs one inner local-search from x0 using the method,
// bounds, constraints and tolerance carried by cfg. The objective is
// evaluated on points clamped to the bounds; points violating an
// inequality constraint evaluate to +Inf. cfg.Callback, when set,
// observes every major iteration.
func LocalMinimize(obj Objective, x0 []float64, cfg InnerConfig) (*LocalResult, error) {
	method, err := localMethod(cfg.Method)
	if err != nil {
		return nil, err
	}

	fn := func(x []float64) float64 {
		xc := clampToBounds(x, cfg.Bounds)
		for _, c := range cfg.Constraints {
			if c(xc) < 0 {
				return math.Inf(1)
			}
		}
		return obj(xc)
	}
	problem := optimize.Problem{
		Func: fn,
		// Gradient-based methods require Grad; the objective is a black
		// box, so approximate it with finite differences.
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, fn, x, nil)
		},
	}

	rec := &stepRecorder{cb: cfg.Callback}
	settings := &optimize.Settings{
		Recorder: rec,
		Converger: &optimize.FunctionConverge{
			Absolute:   cfg.Options.Tolerance,
			Relative:   cfg.Options.Tolerance,
			Iterations: 20,
		},
	}

	result, err := optimize.Minimize(problem, append([]float64(nil), x0...), settings, method)
	if rec.err != nil {
		return nil, rec.err
	}
	if err != nil {
		return nil, WrapErrorf(err, "local minimization with %s failed", cfg.Method).
			WithOperation("LocalMinimize").WithComponent("optimization")
	}

	return &LocalResult{
		X:          clampToBounds(result.X, cfg.Bounds),
		F:          result.F,
		MajorIters: result.Stats.MajorIterations,
		Converged:  result.Status != optimize.IterationLimit,
	}, nil
}

// clampToBounds returns a copy of x with every coordinate clamped into
// its bound interval. Bounds beyond len(x) are ignored, missing bounds
// leave coordinates untouched.
func clampToBounds(x []float64, bounds [][2]float64) []float64 {
	xc := append([]float64(nil), x...)
	for i := range xc {
		if i >= len(bounds) {
			break
		}
		xc[i] = math.Max(bounds[i][0], math.Min(xc[i], bounds[i][1]))
	}
	return xc
}
