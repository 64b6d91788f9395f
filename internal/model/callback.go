// Package model defines the memory callback surface the (out-of-scope)
// instruction decoder/execution model consumes (spec §4.3), the opaque
// model contract it must satisfy (spec §4.6), and Global, the concrete
// implementation of the callback surface that backs both.
package model

import (
	"fmt"

	"github.com/xinpian-tech/pokedex/internal/bus"
	"github.com/xinpian-tech/pokedex/internal/mmu"
	"github.com/xinpian-tech/pokedex/internal/stats"
)

// MemoryCallbacks is the capability set the instruction model is
// polymorphic over (spec §9 design notes): translate, fetch, typed
// read/write, and atomic read-modify-write. satp is threaded through every
// call so an implementation may cache per-context state (e.g. a future
// TLB); this core does not use it for that purpose (spec §4.3, Open
// Question 2).
type MemoryCallbacks interface {
	HandleVirtualAddress(req *mmu.VirtMemReqInfo) error

	InstFetch2(addr, satp uint32) (uint16, error)

	ReadMemU8(addr, satp uint32) (uint8, error)
	ReadMemU16(addr, satp uint32) (uint16, error)
	ReadMemU32(addr, satp uint32) (uint32, error)

	WriteMemU8(addr uint32, value uint8, satp uint32) error
	WriteMemU16(addr uint32, value uint16, satp uint32) error
	WriteMemU32(addr uint32, value uint32, satp uint32) error

	AmoMemU32(addr uint32, op bus.AtomicOp, value, satp uint32) (uint32, error)
}

// Global owns the bus and the statistics for the duration of a step (spec
// §9: "a single mutable context... pass by exclusive reference"). It is
// the only concrete implementation of MemoryCallbacks in this module.
type Global struct {
	Bus   bus.Bus
	Stats stats.Statistics
}

// NewGlobal constructs a Global over the given bus.
func NewGlobal(b bus.Bus) *Global {
	return &Global{Bus: b}
}

// HandleVirtualAddress invokes the Sv32 walker and writes the result into
// req.TAddr on success (spec §4.3). Translation faults are propagated to
// the caller rather than panicking — Open Question 1 in spec §9 (whether
// translation faults share the bus error channel) is resolved here by
// keeping them a distinct error type; see DESIGN.md.
func (g *Global) HandleVirtualAddress(req *mmu.VirtMemReqInfo) error {
	return mmu.Walk(g.Bus, req)
}

// InstFetch2 reads 2 little-endian bytes from the physical address addr.
// addr must be 2-byte aligned; misalignment is a programmer error (spec
// §4.3) and panics rather than returning an error.
func (g *Global) InstFetch2(addr, satp uint32) (uint16, error) {
	if addr%2 != 0 {
		panic(fmt.Sprintf("model: misaligned instruction fetch at %#08x", addr))
	}
	g.Stats.FetchCount++
	var raw [2]byte
	if err := g.Bus.Read(addr, raw[:]); err != nil {
		return 0, err
	}
	return uint16(raw[0]) | uint16(raw[1])<<8, nil
}

// ReadMemU8 reads a single byte; no alignment constraint applies.
func (g *Global) ReadMemU8(addr, satp uint32) (uint8, error) {
	var raw [1]byte
	if err := g.Bus.Read(addr, raw[:]); err != nil {
		return 0, err
	}
	return raw[0], nil
}

// ReadMemU16 reads a little-endian halfword. addr must be 2-byte aligned.
func (g *Global) ReadMemU16(addr, satp uint32) (uint16, error) {
	if addr%2 != 0 {
		panic(fmt.Sprintf("model: misaligned 16-bit read at %#08x", addr))
	}
	var raw [2]byte
	if err := g.Bus.Read(addr, raw[:]); err != nil {
		return 0, err
	}
	return uint16(raw[0]) | uint16(raw[1])<<8, nil
}

// ReadMemU32 reads a little-endian word. addr must be 4-byte aligned.
func (g *Global) ReadMemU32(addr, satp uint32) (uint32, error) {
	if addr%4 != 0 {
		panic(fmt.Sprintf("model: misaligned 32-bit read at %#08x", addr))
	}
	var raw [4]byte
	if err := g.Bus.Read(addr, raw[:]); err != nil {
		return 0, err
	}
	return le32(raw), nil
}

// WriteMemU8 writes a single byte; no alignment constraint applies.
func (g *Global) WriteMemU8(addr uint32, value uint8, satp uint32) error {
	return g.Bus.Write(addr, []byte{value})
}

// WriteMemU16 writes a little-endian halfword. addr must be 2-byte aligned.
func (g *Global) WriteMemU16(addr uint32, value uint16, satp uint32) error {
	if addr%2 != 0 {
		panic(fmt.Sprintf("model: misaligned 16-bit write at %#08x", addr))
	}
	return g.Bus.Write(addr, []byte{byte(value), byte(value >> 8)})
}

// WriteMemU32 writes a little-endian word. addr must be 4-byte aligned.
func (g *Global) WriteMemU32(addr uint32, value uint32, satp uint32) error {
	if addr%4 != 0 {
		panic(fmt.Sprintf("model: misaligned 32-bit write at %#08x", addr))
	}
	return g.Bus.Write(addr, []byte{byte(value), byte(value >> 8), byte(value >> 16), byte(value >> 24)})
}

// AmoMemU32 performs an atomic 32-bit read-modify-write, emulated via
// sequential bus read + arithmetic + bus write (spec §4.3: acceptable as
// long as no other agent observes intermediate state on this address,
// which holds here since the core is single-threaded, see spec §5). It
// returns the pre-modification value.
func (g *Global) AmoMemU32(addr uint32, op bus.AtomicOp, value, satp uint32) (uint32, error) {
	var raw [4]byte
	if err := g.Bus.Read(addr, raw[:]); err != nil {
		return 0, err
	}
	old := le32(raw)
	next := op.Apply(old, value)
	if err := g.Bus.Write(addr, []byte{byte(next), byte(next >> 8), byte(next >> 16), byte(next >> 24)}); err != nil {
		return 0, err
	}
	return old, nil
}

func le32(b [4]byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
