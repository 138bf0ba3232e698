package engine

import (
	"GopherToon/internal/logger"
	"GopherToon/internal/ramp"
	"sync"

	"go.uber.org/zap"
)

// RampTarget receives applied ramp edits. *renderer.ToonMaterial implements it.
type RampTarget interface {
	SetRamp(stops ramp.StopSet) error
}

// RampEditor batches stop edits so at most one ramp upload happens per
// frame. Submit may be called from any goroutine; Flush must run on the
// render thread between frames.
type RampEditor struct {
	target RampTarget

	mu      sync.Mutex
	pending ramp.StopSet
	dirty   bool

	applied uint64
	lastErr error
}

func NewRampEditor(target RampTarget) *RampEditor {
	return &RampEditor{target: target}
}

// Submit records a full stop snapshot, replacing any not yet flushed.
func (e *RampEditor) Submit(stops ramp.StopSet) {
	snapshot := append(ramp.StopSet(nil), stops...)

	e.mu.Lock()
	e.pending = snapshot
	e.dirty = true
	e.mu.Unlock()
}

// Pending reports whether a snapshot is waiting for Flush.
func (e *RampEditor) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// Flush applies the latest snapshot, if any. A rejected snapshot is dropped
// and the target keeps its previous ramp.
func (e *RampEditor) Flush() (bool, error) {
	e.mu.Lock()
	if !e.dirty {
		e.mu.Unlock()
		return false, nil
	}
	stops := e.pending
	e.pending = nil
	e.dirty = false
	e.mu.Unlock()

	if err := e.target.SetRamp(stops); err != nil {
		e.lastErr = err
		logger.Log.Warn("Ramp edit rejected", zap.Int("stops", len(stops)), zap.Error(err))
		return false, err
	}
	e.applied++
	e.lastErr = nil
	return true, nil
}

// Applied counts snapshots the target accepted.
func (e *RampEditor) Applied() uint64 {
	return e.applied
}

// Err returns the error of the last Flush that applied something.
func (e *RampEditor) Err() error {
	return e.lastErr
}
