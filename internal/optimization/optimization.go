// Package optimization defines the shared contract between the method
// adapter, the outer global-search loop and the inner local-search
// loop, together with the gonum-backed local minimization driver.
package optimization

// Objective is the function being minimized. It maps a point of the
// search space to a fitness value. Evaluation counting, if any, is the
// objective's own concern.
type Objective func(x []float64) float64

// InnerCallback is invoked by the local-search procedure after each of
// its internal steps with the current candidate point and its fitness.
// It may be invoked zero or more times depending on how quickly the
// selected algorithm converges. Returning a non-nil error aborts the
// whole run; the error propagates unmodified to the caller.
type InnerCallback func(x []float64, f float64) error

// OuterCallback is invoked by the outer search procedure after each
// restart/perturbation cycle with the current accepted point, its
// fitness and whether the latest hop was accepted. Non-restarting
// outer procedures may never invoke it; callers must not rely on it
// for termination detection. Returning a non-nil error aborts the run.
type OuterCallback func(x []float64, f float64, accepted bool) error

// Constraint is an inequality constraint, satisfied when the returned
// value is non-negative.
type Constraint func(x []float64) float64

// Options carries the numeric knobs forwarded to the inner optimizer.
type Options struct {
	// Tolerance is the convergence tolerance, typically derived from
	// the benchmark function's required precision.
	Tolerance float64
}

// InnerConfig is the configuration handed by the outer loop to every
// inner local-search invocation.
type InnerConfig struct {
	// Callback receives each internal step of the local search.
	Callback InnerCallback
	// Method selects the local-search algorithm by name.
	Method string
	// Bounds is one (low, high) pair per search dimension.
	Bounds [][2]float64
	// Constraints are inequality constraints for constraint-aware
	// algorithms; harmless for the others.
	Constraints []Constraint
	// Options carries the remaining numeric parameters.
	Options Options
}

// OuterLoop is the calling convention of the outer search procedure.
// Any replacement for the default restart-based routine must honor
// this shape.
type OuterLoop func(obj Objective, x0 []float64, outerCB OuterCallback, inner InnerConfig) (*Result, error)

// Solution is a point in the search space and its fitness.
type Solution struct {
	X []float64
	F float64
}

// Result is what an outer search procedure returns.
type Result struct {
	// Best is the best solution found across all restarts.
	Best *Solution
	// Restarts is the number of completed restart cycles.
	Restarts int
	// LocalIters is the total number of inner-loop major iterations.
	LocalIters int
	// Converged reports whether the run ended through the configured
	// convergence criterion rather than the iteration budget.
	Converged bool
}
