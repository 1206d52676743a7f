// Package steplog persists per-step optimizer progress to an
// append-only .mdat text log, keyed to the evaluation counter of the
// benchmark function instance it is bound to.
package steplog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pasky/hyperbbob/internal/benchmark"
)

const header = "% function evaluation | portfolio iteration | instance index | instance method | instance invocations | instance best noise-free fitness - Fopt | best noise-free fitness - Fopt\n"

// Extension is the suffix replacing the instance data-file extension.
const Extension = ".mdat"

// lastBest caches the best-offset value written by the previous Record
// call. The zero value is the unset sentinel of the very first call.
type lastBest struct {
	value float64
	ok    bool
}

// Log records the trajectory of fitness improvement during one run.
// It holds the backing file open for its whole lifetime; Close must
// run on every exit path. Log is not safe for concurrent use; records
// are expected to arrive synchronously from optimizer callbacks.
type Log struct {
	inst       *benchmark.Instance
	file       *os.File
	totalIters int
	last       lastBest
	withPoints bool
}

// Option configures a new Log.
type Option func(*Log)

// WithPoints enables per-coordinate point columns on every record.
// Off by default: coordinates multiply the log size several-fold while
// rarely being useful downstream.
func WithPoints() Option {
	return func(l *Log) { l.withPoints = true }
}

// New binds a progress log to inst. If the instance is not yet ready
// for its dimension, New initializes it; callers that want the
// coupling explicit should call EnsureReady themselves first. The log
// path is the instance data-file path with its extension replaced by
// .mdat, opened for append, and the column header is written exactly
// once per construction.
func New(inst *benchmark.Instance, opts ...Option) (*Log, error) {
	if err := inst.EnsureReady(inst.Dim()); err != nil {
		return nil, fmt.Errorf("steplog: readying instance: %w", err)
	}

	datafile := inst.DataFile()
	path := strings.TrimSuffix(datafile, filepath.Ext(datafile)) + Extension

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("steplog: opening %s: %w", path, err)
	}
	if _, err := file.WriteString(header); err != nil {
		file.Close()
		return nil, fmt.Errorf("steplog: writing header: %w", err)
	}

	l := &Log{inst: inst, file: file}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Path returns the log file path.
func (l *Log) Path() string { return l.file.Name() }

// TotalIters returns the current outer-iteration counter.
func (l *Log) TotalIters() int { return l.totalIters }

// EndIter advances the outer-iteration counter by one. Call once per
// outer-loop restart, typically from the outer callback.
func (l *Log) EndIter() { l.totalIters++ }

// Record appends one step record: evaluation count, outer-iteration
// counter, index, name, inner-iteration count and the fitness value.
// The best-fitness offset is appended only when it differs from the
// value written by the previous Record (the first call always writes
// it). The line is flushed to disk before Record returns, so an
// abruptly killed run loses at most nothing. point is written only
// when the log was built WithPoints.
func (l *Log) Record(index int, name string, iters int, fitness float64, point []float64) error {
	e := l.inst.LastEval()
	best := l.inst.BestOffset()

	var b strings.Builder
	fmt.Fprintf(&b, "%d %d %d %s %d %+10.9e",
		e.Num, l.totalIters, index, name, iters, fitness)

	if !l.last.ok || best != l.last.value {
		fmt.Fprintf(&b, " %+10.9e", best)
		l.last = lastBest{value: best, ok: true}
	}

	if l.withPoints {
		for _, x := range point {
			fmt.Fprintf(&b, " %+5.4e", x)
		}
	}
	b.WriteByte('\n')

	if _, err := l.file.WriteString(b.String()); err != nil {
		return fmt.Errorf("steplog: writing record: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("steplog: flushing record: %w", err)
	}
	return nil
}

// Close releases the log file handle.
func (l *Log) Close() error {
	return l.file.Close()
}
