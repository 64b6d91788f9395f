// Package demoisa is a minimal, illustrative instruction model implementing
// model.Core. It exists only to drive the memory callback surface and the
// Sv32 walker end to end (instruction decoding semantics are explicitly
// out of scope per spec §1 — this is a demo, not a real ISA). Its opcode
// set and register conventions are adapted from the RiSC-32 teacher
// example (HALT/ADD/ADDI/NAND/LUI/SW/LW/BEQ/JALR/WSR/RSR), rewired so every
// fetch and data access goes through model.MemoryCallbacks and the Sv32
// walker instead of a hand-rolled paging scheme.
package demoisa

import (
	"fmt"

	"github.com/xinpian-tech/pokedex/internal/mmu"
	"github.com/xinpian-tech/pokedex/internal/model"
)

// Opcodes, same numbering and intent as the RiSC-32 teacher example.
const (
	OpHALT = uint32(iota)
	OpADD
	OpADDI
	OpNAND
	OpLUI
	OpSW
	OpLW
	OpBEQ
	OpJALR
	OpWSR
	OpRSR
)

// CSR indices addressable by WSR/RSR. Only the three values the Sv32
// walker consumes (satp, mstatus and the current privilege level) are
// modeled; anything else is a programmer error.
const (
	CsrSatp    = 0
	CsrMstatus = 1
	CsrPriv    = 2
)

const numCSR = 3

// Core is the demo model. It is not goroutine-safe, matching spec §5.
type Core struct {
	GPR [32]uint32
	PC  uint32
	csr [numCSR]uint32
	// bootCSR holds the CSR values the Core was constructed with; Reset
	// restores them.
	bootCSR [numCSR]uint32
}

var _ model.Core = (*Core)(nil)

// New returns a Core whose CSRs start in Bare mode, supervisor privilege.
func New() *Core {
	return NewWithCSRs(0, 0, mmu.PrivSupervisor)
}

// NewWithCSRs returns a Core with the given initial satp/mstatus/priv,
// letting a host (cmd/pokedex's config-driven startup) boot straight into
// paging or a reduced privilege level instead of always starting bare and
// supervisor.
func NewWithCSRs(satp, mstatus uint32, priv uint8) *Core {
	c := &Core{}
	c.csr[CsrSatp] = satp
	c.csr[CsrMstatus] = mstatus
	c.csr[CsrPriv] = uint32(priv)
	c.bootCSR = c.csr
	return c
}

// Reset implements model.Core. It clears the registers, sets PC and
// restores the CSRs to the values given at construction.
func (c *Core) Reset(pc uint32) {
	boot := c.bootCSR
	*c = Core{PC: pc, csr: boot, bootCSR: boot}
}

func (c *Core) satp() uint32    { return c.csr[CsrSatp] }
func (c *Core) mstatus() uint32 { return c.csr[CsrMstatus] }
func (c *Core) priv() uint8     { return uint8(c.csr[CsrPriv]) }

// Step implements model.Core.
func (c *Core) Step(mem model.MemoryCallbacks) model.StepCode {
	detail := c.step(mem)
	return detail.Code
}

// StepTrace implements model.Core.
func (c *Core) StepTrace(mem model.MemoryCallbacks) model.StepDetail {
	return c.step(mem)
}

func (c *Core) step(mem model.MemoryCallbacks) model.StepDetail {
	fetchReq := mmu.VirtMemReqInfo{
		Addr: c.PC, Satp: c.satp(), Mstatus: c.mstatus(), Priv: c.priv(),
		AccessType: mmu.AccessFetch,
	}
	if err := mem.HandleVirtualAddress(&fetchReq); err != nil {
		return model.StepDetail{Code: model.StepFault, FaultAddr: c.PC, HasFaultAt: true, Mnemonic: err.Error()}
	}

	lo, err := mem.InstFetch2(fetchReq.TAddr, c.satp())
	if err != nil {
		return model.StepDetail{Code: model.StepFault, FaultAddr: fetchReq.TAddr, HasFaultAt: true, Mnemonic: err.Error()}
	}
	hi, err := mem.InstFetch2(fetchReq.TAddr+2, c.satp())
	if err != nil {
		return model.StepDetail{Code: model.StepFault, FaultAddr: fetchReq.TAddr + 2, HasFaultAt: true, Mnemonic: err.Error()}
	}
	ci := uint32(lo) | uint32(hi)<<16

	mnemonic, code, faultAddr, hasFault := c.execute(mem, ci)
	return model.StepDetail{Code: code, Mnemonic: mnemonic, FaultAddr: faultAddr, HasFaultAt: hasFault}
}

func decode(ci uint32) (opcode, ra, rb, rc, imm17, imm22 uint32) {
	opcode = (ci >> 27) & 0x1F
	ra = (ci >> 22) & 0x1F
	rb = (ci >> 17) & 0x1F
	rc = ci & 0x1F
	imm17 = signExtend17(ci & 0x1FFFF)
	imm22 = ci & 0x3FFFFF
	return
}

func signExtend17(v uint32) uint32 {
	if v&0x10000 != 0 {
		v |= 0xFFFE_0000
	}
	return v
}

func (c *Core) execute(mem model.MemoryCallbacks, ci uint32) (mnemonic string, code model.StepCode, faultAddr uint32, hasFault bool) {
	opcode, ra, rb, rc, imm17, imm22 := decode(ci)
	defer func() { c.GPR[0] = 0 }()

	nextPC := c.PC + 4

	switch opcode {
	case OpHALT:
		return "halt", model.StepHalted, 0, false
	case OpADD:
		c.GPR[ra] = c.GPR[rb] + c.GPR[rc]
		mnemonic = fmt.Sprintf("add r%d r%d r%d", ra, rb, rc)
	case OpADDI:
		c.GPR[ra] = c.GPR[rb] + imm17
		mnemonic = fmt.Sprintf("addi r%d r%d %d", ra, rb, int32(imm17))
	case OpNAND:
		c.GPR[ra] = ^(c.GPR[rb] & c.GPR[rc])
		mnemonic = fmt.Sprintf("nand r%d r%d r%d", ra, rb, rc)
	case OpLUI:
		c.GPR[ra] = imm22 << 10
		mnemonic = fmt.Sprintf("lui r%d %d", ra, imm22)
	case OpSW, OpLW:
		vaddr := c.GPR[rb] + imm17
		at := mmu.AccessLoad
		if opcode == OpSW {
			at = mmu.AccessStore
		}
		req := mmu.VirtMemReqInfo{Addr: vaddr, Satp: c.satp(), Mstatus: c.mstatus(), Priv: c.priv(), AccessType: at}
		if err := mem.HandleVirtualAddress(&req); err != nil {
			return err.Error(), model.StepFault, vaddr, true
		}
		if opcode == OpSW {
			if err := mem.WriteMemU32(req.TAddr, c.GPR[ra], c.satp()); err != nil {
				return err.Error(), model.StepFault, req.TAddr, true
			}
			mnemonic = fmt.Sprintf("sw r%d r%d %d", ra, rb, int32(imm17))
		} else {
			v, err := mem.ReadMemU32(req.TAddr, c.satp())
			if err != nil {
				return err.Error(), model.StepFault, req.TAddr, true
			}
			c.GPR[ra] = v
			mnemonic = fmt.Sprintf("lw r%d r%d %d", ra, rb, int32(imm17))
		}
	case OpBEQ:
		if c.GPR[ra] == c.GPR[rb] {
			nextPC = c.PC + imm17
		}
		mnemonic = fmt.Sprintf("beq r%d r%d %d", ra, rb, int32(imm17))
	case OpJALR:
		c.GPR[ra] = nextPC
		nextPC = c.GPR[rb]
		mnemonic = fmt.Sprintf("jalr r%d r%d", ra, rb)
	case OpWSR:
		if c.priv() != mmu.PrivSupervisor {
			panic("demoisa: WSR requires supervisor privilege")
		}
		if imm22 >= numCSR {
			panic(fmt.Sprintf("demoisa: unknown CSR %d", imm22))
		}
		c.csr[imm22] = c.GPR[ra]
		mnemonic = fmt.Sprintf("wsr r%d %d", ra, imm22)
	case OpRSR:
		if imm22 >= numCSR {
			panic(fmt.Sprintf("demoisa: unknown CSR %d", imm22))
		}
		c.GPR[ra] = c.csr[imm22]
		mnemonic = fmt.Sprintf("rsr r%d %d", ra, imm22)
	default:
		mnemonic = fmt.Sprintf("<unknown opcode %d>", opcode)
	}

	c.PC = nextPC
	return mnemonic, model.StepOK, 0, false
}
