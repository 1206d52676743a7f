// Package method resolves a textual algorithm name into a ready-to-call
// nested optimization procedure: an outer restart loop driving an inner
// local search, with independent callback hooks for both levels.
package method

import (
	"errors"
	"strings"

	"github.com/pasky/hyperbbob/internal/benchmark"
	"github.com/pasky/hyperbbob/internal/optimization"
	"github.com/pasky/hyperbbob/internal/optimization/basinhop"
)

// ErrUnsupportedMethod marks algorithm names that cannot be adapted
// because the underlying implementation provides no step-wise callback.
var ErrUnsupportedMethod = errors.New("method does not provide callback functionality")

// disallowed are the algorithm names the default resolver rejects.
var disallowed = []string{"anneal", "cobyla"}

// SearchLow and SearchHigh bound the box every adapter searches in,
// the same in each coordinate regardless of the function's own domain.
const (
	SearchLow  = -6.0
	SearchHigh = +6.0
)

// Config is the inner-optimizer configuration an Adapter builds at
// construction. It is owned by exactly one Adapter and rebuilt fresh
// per construction.
type Config struct {
	// Method is the inner local-search selector, stored verbatim as
	// resolved from the adapter name.
	Method string
	// Bounds is one (low, high) pair per search dimension.
	Bounds [][2]float64
	// Constraints are two inequality closures enforcing the same box
	// as Bounds, for constraint-aware local algorithms.
	Constraints []optimization.Constraint
	// Options carries the numeric tolerance derived from the bound
	// function instance's required precision.
	Options optimization.Options
}

// Resolver inspects a method name and, on a match, mutates cfg into
// the matching configuration. It returns false to fall through to the
// next resolver in the chain.
type Resolver func(name string, cfg *Config) (bool, error)

// Adapter gives one algorithm a uniform invocation contract against
// one benchmark function instance. Construct with New; invoke with
// Run. It may terminate early outside the global optimum; experiments
// should plan to restart it in that case.
type Adapter struct {
	// Name is the algorithm name the adapter was constructed with.
	Name string

	inst      *benchmark.Instance
	cfg       Config
	outer     optimization.OuterLoop
	resolvers []Resolver
}

// Option customizes an Adapter before name resolution runs.
type Option func(*Adapter)

// WithResolver prepends a custom resolver to the chain. Resolvers run
// in the order added, before the default disallow/accept handler.
func WithResolver(r Resolver) Option {
	return func(a *Adapter) { a.resolvers = append(a.resolvers, r) }
}

// WithOuterLoop replaces the default basin-hopping outer procedure.
func WithOuterLoop(loop optimization.OuterLoop) Option {
	return func(a *Adapter) { a.outer = loop }
}

// New builds an adapter for the named algorithm against inst. The
// search box is (-6, +6) in every dimension, the box constraints are
// per-instance closures over those bounds, and the inner tolerance is
// the instance's required precision. New fails with
// ErrUnsupportedMethod when the name matches the disallowed set,
// leaving no partially configured adapter behind.
func New(name string, inst *benchmark.Instance, opts ...Option) (*Adapter, error) {
	dim := inst.Dim()
	bounds := make([][2]float64, dim)
	for i := range bounds {
		bounds[i] = [2]float64{SearchLow, SearchHigh}
	}

	a := &Adapter{
		Name: name,
		inst: inst,
		cfg: Config{
			Bounds:      bounds,
			Constraints: boxConstraints(bounds),
			Options:     optimization.Options{Tolerance: inst.Precision()},
		},
		outer: basinhop.Minimize,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.resolvers = append(a.resolvers, defaultResolver)

	for _, resolve := range a.resolvers {
		ok, err := resolve(name, &a.cfg)
		if err != nil {
			return nil, err
		}
		if ok {
			return a, nil
		}
	}
	return nil, optimization.NewErrorf("no resolver matched method %q", name).
		WithOperation("New").WithComponent("method")
}

// defaultResolver rejects the disallowed set case-insensitively and
// stores any other name verbatim as the inner-optimizer selector.
func defaultResolver(name string, cfg *Config) (bool, error) {
	lower := strings.ToLower(name)
	for _, bad := range disallowed {
		if lower == bad {
			return false, optimization.WrapErrorf(ErrUnsupportedMethod, "method %q", name).
				WithOperation("resolve").WithComponent("method")
		}
	}
	cfg.Method = name
	return true, nil
}

// Config returns a copy of the resolved inner-optimizer configuration.
func (a *Adapter) Config() Config { return a.cfg }

// Instance returns the benchmark function instance the adapter was
// built for.
func (a *Adapter) Instance() *benchmark.Instance { return a.inst }

// Run invokes the configured outer search procedure on obj from x0.
// innerCB observes every internal step of the local search, outerCB
// every restart cycle; either may be nil. The outer procedure's result
// is returned untransformed, and any error from the objective, the
// inner optimizer, the outer procedure or a callback propagates
// unmodified.
func (a *Adapter) Run(obj optimization.Objective, x0 []float64, innerCB optimization.InnerCallback, outerCB optimization.OuterCallback) (*optimization.Result, error) {
	inner := optimization.InnerConfig{
		Callback:    innerCB,
		Method:      a.cfg.Method,
		Bounds:      a.cfg.Bounds,
		Constraints: a.cfg.Constraints,
		Options:     a.cfg.Options,
	}
	return a.outer(obj, x0, outerCB, inner)
}

// boxConstraints builds the two inequality closures enforcing the same
// box as bounds. Each closure captures its own bounds value, so
// adapters built for different dimensions never alias.
func boxConstraints(bounds [][2]float64) []optimization.Constraint {
	b := make([][2]float64, len(bounds))
	copy(b, bounds)

	lower := func(x []float64) float64 {
		m := 0.0
		for i, v := range x {
			if i >= len(b) {
				break
			}
			if d := v - b[i][0]; i == 0 || d < m {
				m = d
			}
		}
		return m
	}
	upper := func(x []float64) float64 {
		m := 0.0
		for i, v := range x {
			if i >= len(b) {
				break
			}
			if d := b[i][1] - v; i == 0 || d < m {
				m = d
			}
		}
		return m
	}
	return []optimization.Constraint{lower, upper}
}
