// Package sim implements the simulator facade (spec §4.4): it owns the
// opaque instruction model and the Global memory-callback context, and
// exposes reset/step/step-trace/exit-query to a host such as cmd/pokedex.
package sim

import (
	"github.com/xinpian-tech/pokedex/internal/bus"
	"github.com/xinpian-tech/pokedex/internal/model"
	"github.com/xinpian-tech/pokedex/internal/stats"
)

// Simulator is re-entrant across failures: a faulted Step leaves the model
// and bus in a consistent state, so the next Step may resume (spec §7).
// It is not goroutine-safe (spec §5): a single goroutine must own it.
type Simulator struct {
	core   model.Core
	global *model.Global
}

// New constructs a Simulator, attaching the decoded model obtained from
// loader and zero-initializing statistics (spec §4.4).
func New(loader model.Loader, b bus.Bus) *Simulator {
	return &Simulator{
		core:   loader(),
		global: model.NewGlobal(b),
	}
}

// Stats returns a snapshot of the simulator's counters.
func (s *Simulator) Stats() stats.Statistics {
	return s.global.Stats
}

// ResetCore sets the program counter and clears architectural state via
// the model. Statistics are NOT reset (spec §4.4 design decision, and
// Open Question 3 in spec §9 — see DESIGN.md for why this is kept as-is).
func (s *Simulator) ResetCore(pc uint32) {
	s.core.Reset(pc)
}

// Step advances one instruction, pre-incrementing StepCount before
// invoking the model so a failing step still counts as an attempt (spec
// §4.4, §4.5).
func (s *Simulator) Step() model.StepCode {
	s.global.Stats.StepCount++
	return s.core.Step(s.global)
}

// StepTrace is like Step but returns a structured trace record borrowed
// from the model for the duration of the call.
func (s *Simulator) StepTrace() model.StepDetail {
	s.global.Stats.StepCount++
	return s.core.StepTrace(s.global)
}

// IsExited returns the exit code if the bus has observed an architectural
// halt, else false. Polling semantics, not edge-triggered (spec §6).
func (s *Simulator) IsExited() (uint32, bool) {
	return s.global.Bus.TryGetExitCode()
}
