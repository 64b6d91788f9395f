package model

// Core is the opaque instruction decoder/execution model (spec §1):
// explicitly out of scope to implement here. Only the contract the
// simulator facade drives it through is specified. A real decoder is a
// separate module entirely; this core ships no instruction set.
type Core interface {
	Reset(pc uint32)
	Step(mem MemoryCallbacks) StepCode
	StepTrace(mem MemoryCallbacks) StepDetail
}

// Loader constructs a Core. Its concrete signature (how a program image
// becomes a decoded model) belongs to the decoder module and is not
// specified here; it exists so Simulator.New can stay agnostic of how the
// model is built (spec §4.4).
type Loader func() Core

// StepCode is a compact status enum standing in for the model's real,
// unspecified status codes (spec §4.4: "out of scope").
type StepCode int

const (
	StepOK StepCode = iota
	StepFault
	StepHalted
)

func (c StepCode) String() string {
	switch c {
	case StepOK:
		return "ok"
	case StepFault:
		return "fault"
	case StepHalted:
		return "halted"
	default:
		return "unknown"
	}
}

// StepDetail is a structured trace record borrowed from the model for the
// duration of a traced step (spec §4.4). Mnemonic and FaultAddr are the
// minimum a tracing CLI needs; a real decoder may return a richer type
// behind the same interface.
type StepDetail struct {
	Code       StepCode
	Mnemonic   string
	FaultAddr  uint32
	HasFaultAt bool
}
