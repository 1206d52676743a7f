// Package driver runs the benchmark batch: it iterates the configured
// function x dimension x method grid, wiring a method adapter and a
// progress log together for every run.
package driver

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/pasky/hyperbbob/internal/benchmark"
	"github.com/pasky/hyperbbob/internal/config"
	"github.com/pasky/hyperbbob/internal/method"
	"github.com/pasky/hyperbbob/internal/metrics"
	"github.com/pasky/hyperbbob/internal/optimization/basinhop"
	"github.com/pasky/hyperbbob/internal/server"
	"github.com/pasky/hyperbbob/internal/steplog"
)

// Driver owns one benchmark batch.
type Driver struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	status  *server.Server
}

// New creates a driver. metrics and status may be nil when no
// instrumentation surface is wanted (tests).
func New(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics, status *server.Server) *Driver {
	return &Driver{cfg: cfg, logger: logger, metrics: m, status: status}
}

// Run executes the whole configured grid sequentially. Runs are
// independent: a failed run is logged and recorded, and the batch
// moves on. Context cancellation aborts the in-flight run through its
// inner callback and stops the batch.
func (d *Driver) Run(ctx context.Context) error {
	exp := d.cfg.Experiment
	for _, fname := range exp.Functions {
		fn, err := benchmark.ByName(fname)
		if err != nil {
			return err
		}
		for _, dim := range exp.Dimensions {
			for id := 0; id < exp.Instances; id++ {
				inst := benchmark.NewInstance(fn, dim, id, exp.DataDir,
					benchmark.WithPrecision(exp.Precision))
				if err := inst.EnsureReady(dim); err != nil {
					return err
				}
				for mi, mname := range exp.Methods {
					if err := d.runOne(ctx, inst, mi, mname); err != nil {
						if errors.Is(err, context.Canceled) {
							return err
						}
						d.logger.Error("run failed",
							zap.String("function", fname),
							zap.Int("dim", dim),
							zap.String("method", mname),
							zap.Error(err))
					}
				}
			}
		}
	}
	return nil
}

// runOne executes a single (instance, method) run end to end: adapter
// and progress log construction, the nested optimization call with
// both callbacks, and result bookkeeping.
func (d *Driver) runOne(ctx context.Context, inst *benchmark.Instance, mi int, mname string) error {
	fname := inst.Fn().Name()
	logger := d.logger.With(
		zap.String("function", fname),
		zap.Int("dim", inst.Dim()),
		zap.Int("instance", inst.Index()),
		zap.String("method", mname))

	var runID string
	if d.status != nil {
		runID = d.status.StartRun(fname, mname, inst.Dim())
	}
	finish := func(status string, err error) {
		if d.status != nil {
			d.status.FinishRun(runID, status, err)
		}
	}

	hopper := basinhop.New(basinhop.Params{
		Restarts:    d.cfg.Hopping.Restarts,
		StepSize:    d.cfg.Hopping.StepSize,
		Temperature: d.cfg.Hopping.Temperature,
		Seed:        d.cfg.Hopping.Seed,
	})
	adapter, err := method.New(mname, inst, method.WithOuterLoop(hopper.Minimize))
	if err != nil {
		if errors.Is(err, method.ErrUnsupportedMethod) {
			logger.Warn("method unsupported, skipping", zap.Error(err))
			finish(server.StatusSkipped, err)
			return nil
		}
		finish(server.StatusFailed, err)
		return err
	}

	slog, err := steplog.New(inst)
	if err != nil {
		finish(server.StatusFailed, err)
		return err
	}
	defer slog.Close()

	obj := inst.Objective()
	steps := 0
	lastEvals := 0
	lastOffset := math.Inf(1)

	innerCB := func(x []float64, f float64) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		steps++
		offset := inst.BestOffset()
		if d.metrics != nil {
			d.metrics.Evaluations.WithLabelValues(fname, mname).
				Add(float64(inst.LastEval().Num - lastEvals))
			lastEvals = inst.LastEval().Num
			d.metrics.BestOffset.WithLabelValues(fname, mname).Set(offset)
			if offset < lastOffset {
				d.metrics.Improvements.WithLabelValues(fname, mname).Inc()
			}
		}
		lastOffset = offset
		if d.status != nil {
			d.status.UpdateRun(runID, inst.LastEval().Num, offset)
		}
		return slog.Record(mi, mname, steps, f, x)
	}
	outerCB := func(x []float64, f float64, accepted bool) error {
		slog.EndIter()
		if d.metrics != nil {
			d.metrics.Restarts.WithLabelValues(fname, mname).Inc()
		}
		return nil
	}

	x0 := startPoint(inst)
	result, err := adapter.Run(obj, x0, innerCB, outerCB)
	if err != nil {
		finish(server.StatusFailed, err)
		return err
	}

	logger.Info("run finished",
		zap.Float64("best_f", result.Best.F),
		zap.Float64("best_offset", inst.BestOffset()),
		zap.Int("evals", inst.LastEval().Num),
		zap.Int("restarts", result.Restarts),
		zap.Int("local_iters", result.LocalIters),
		zap.Bool("converged", result.Converged))
	finish(server.StatusCompleted, nil)
	return nil
}

// startPoint starts every run at the center of the function's natural
// domain, clamped into the (-6, +6) search box.
func startPoint(inst *benchmark.Instance) []float64 {
	lo, hi := inst.Fn().Domain()
	c := (lo + hi) / 2
	c = math.Max(method.SearchLow, math.Min(method.SearchHigh, c))

	x0 := make([]float64, inst.Dim())
	for i := range x0 {
		x0[i] = c
	}
	return x0
}
