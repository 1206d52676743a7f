package benchmark

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// DefaultPrecision is the target precision a run must reach before the
// best-fitness offset is considered solved.
const DefaultPrecision = 1e-8

// Eval describes the state of the evaluation counter after the most
// recent objective call.
type Eval struct {
	// Num is the total number of objective evaluations so far.
	Num int
	// BestF is the best (lowest) fitness observed so far.
	BestF float64
}

// Instance binds a benchmark function to a concrete dimension and
// instance index for one run. It owns the evaluation counter, the
// best-so-far fitness and the backing data-file path that downstream
// log files derive their names from.
//
// An Instance starts out not ready; EnsureReady initializes it for a
// dimension. Components that consume an Instance may call EnsureReady
// themselves if nothing else has.
type Instance struct {
	fn        Func
	dim       int
	id        int
	precision float64
	dataDir   string
	datafile  string
	ready     bool

	evals int
	bestF float64
}

// InstanceOption configures a new Instance.
type InstanceOption func(*Instance)

// WithPrecision overrides the default target precision.
func WithPrecision(p float64) InstanceOption {
	return func(i *Instance) { i.precision = p }
}

// NewInstance creates a descriptor for one (function, dimension,
// instance index) combination. The instance is not ready until
// EnsureReady has run.
func NewInstance(fn Func, dim, id int, dataDir string, opts ...InstanceOption) *Instance {
	inst := &Instance{
		fn:        fn,
		dim:       dim,
		id:        id,
		precision: DefaultPrecision,
		dataDir:   dataDir,
		bestF:     math.Inf(1),
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// Ready reports whether the instance is initialized for dimension dim.
func (i *Instance) Ready(dim int) bool {
	return i.ready && i.dim == dim
}

// EnsureReady initializes the instance for the given dimension,
// resetting the evaluation counter and deriving the data-file path.
// It is idempotent when the instance is already ready at that
// dimension.
func (i *Instance) EnsureReady(dim int) error {
	if i.Ready(dim) {
		return nil
	}
	if dim < 1 {
		return fmt.Errorf("benchmark: invalid dimension %d", dim)
	}
	if err := os.MkdirAll(i.dataDir, 0o755); err != nil {
		return fmt.Errorf("benchmark: creating data dir: %w", err)
	}
	i.dim = dim
	i.evals = 0
	i.bestF = math.Inf(1)
	i.datafile = filepath.Join(i.dataDir,
		fmt.Sprintf("%s_i%02d_d%02d.dat", i.fn.Name(), i.id, dim))
	i.ready = true
	return nil
}

// Objective returns the counting objective for this instance: every
// call increments the evaluation counter and updates the best-so-far
// fitness before returning the raw function value.
func (i *Instance) Objective() func(x []float64) float64 {
	return func(x []float64) float64 {
		f := i.fn.Eval(x)
		i.evals++
		if f < i.bestF {
			i.bestF = f
		}
		return f
	}
}

// LastEval returns the evaluation counter state.
func (i *Instance) LastEval() Eval {
	return Eval{Num: i.evals, BestF: i.bestF}
}

// BestOffset returns the gap between the best fitness observed so far
// and the known optimum of the bound function.
func (i *Instance) BestOffset() float64 {
	return i.bestF - i.fn.Optimum(i.dim)
}

// Fn returns the bound benchmark function.
func (i *Instance) Fn() Func { return i.fn }

// Dim returns the configured dimension.
func (i *Instance) Dim() int { return i.dim }

// Index returns the instance index within the experiment.
func (i *Instance) Index() int { return i.id }

// Precision returns the required target precision.
func (i *Instance) Precision() float64 { return i.precision }

// Optimum returns the known optimal fitness at the configured
// dimension.
func (i *Instance) Optimum() float64 { return i.fn.Optimum(i.dim) }

// DataFile returns the backing data-file path. Empty until the
// instance is ready.
func (i *Instance) DataFile() string { return i.datafile }
