// Package stats holds the monotonic counters the simulator core maintains
// (spec §3, §4.5): instruction steps attempted and instruction fetches
// performed.
package stats

// Statistics are plain counters, reset only by an explicit caller action —
// the simulator facade's ResetCore does NOT clear them (spec §4.4, and
// Open Question 3 in spec §9: this is treated as intentional here, see
// DESIGN.md).
type Statistics struct {
	FetchCount uint64
	StepCount  uint64
}

// New returns a zero-valued Statistics.
func New() Statistics {
	return Statistics{}
}

// Reset zeroes both counters. Nothing in the core calls this automatically;
// it exists for a host that explicitly wants to clear counters (spec §9
// design note: "statistics count since process start unless explicitly
// cleared by a future API").
func (s *Statistics) Reset() {
	*s = Statistics{}
}
