// Package mmu implements the Sv32 virtual-to-physical address translator:
// pure decoders for SATP, virtual addresses, physical addresses and page
// table entries, plus the page-table walk itself (see walker.go).
package mmu

import "fmt"

// Paging modes encoded in SATP.MODE.
const (
	ModeBare uint8 = 0
	ModeSv32 uint8 = 1
)

// Bit masks for the 32-bit SATP register (spec §6).
const (
	satpModeMask uint32 = 0x8000_0000
	satpASIDMask uint32 = 0x7FC0_0000
	satpPPNMask  uint32 = 0x003F_FFFF
)

// Satp is the decoded supervisor address translation & protection register.
type Satp struct {
	Mode uint8
	ASID uint16
	PPN  uint32
}

// DecodeSatp decodes the raw 32-bit SATP value.
//
// A MODE bit pattern other than Bare/Sv32 cannot occur for this register
// (it is a single bit), so no error path exists here.
func DecodeSatp(raw uint32) Satp {
	mode := uint8((raw & satpModeMask) >> 31)
	return Satp{
		Mode: mode,
		ASID: uint16((raw & satpASIDMask) >> 22),
		PPN:  raw & satpPPNMask,
	}
}

// Bit masks for the 32-bit Sv32 virtual address (spec §6).
const (
	vaVPN1Mask   uint32 = 0xFFC0_0000
	vaVPN0Mask   uint32 = 0x003F_F000
	vaOffsetMask uint32 = 0x0000_0FFF
)

// VirtAddr is a decoded Sv32 virtual address: VPN[1], VPN[0], page offset.
type VirtAddr struct {
	VPN    [2]uint32 // VPN[0] is the low-order 10 bits, VPN[1] the high-order 10 bits
	Offset uint32
}

// DecodeVirtAddr decodes a raw 32-bit virtual address.
func DecodeVirtAddr(raw uint32) VirtAddr {
	return VirtAddr{
		VPN: [2]uint32{
			(raw & vaVPN0Mask) >> 12,
			(raw & vaVPN1Mask) >> 22,
		},
		Offset: raw & vaOffsetMask,
	}
}

// PhysAddr is a decoded 34-bit-capable Sv32 physical address. PPN[0] is the
// low-order 10 bits, PPN[1] the high-order 12 bits (same index convention
// as VirtAddr.VPN), and Offset the low 12-bit page offset.
type PhysAddr struct {
	PPN    [2]uint32
	Offset uint32
}

// NewPhysAddr builds a PhysAddr from its components.
func NewPhysAddr(ppnHi, ppnLo, offset uint32) PhysAddr {
	return PhysAddr{PPN: [2]uint32{ppnLo, ppnHi}, Offset: offset}
}

// Compose assembles the 32-bit physical address as
// (PPN[1] << 22) | (PPN[0] << 12) | (Offset & 0xFFF). It panics (a
// programmer error per spec §7 tier 1) if the composed value does not fit
// in 32 bits — this can only happen if PPN[1] carries bits above the
// platform's address width.
func (p PhysAddr) Compose() uint32 {
	wide := (uint64(p.PPN[1]) << 22) | (uint64(p.PPN[0]) << 12) | uint64(p.Offset&0xFFF)
	if wide > 0xFFFF_FFFF {
		panic(fmt.Sprintf("mmu: composed physical address %#x exceeds 32 bits", wide))
	}
	return uint32(wide)
}

// Decompose is the inverse of NewPhysAddr+Compose, used only by round-trip
// tests: it recovers PPN[1]/PPN[0]/offset from a raw 32-bit physical
// address, treating the whole value as a single 4 KiB-aligned frame plus
// offset (i.e. as if it were a level-0 leaf).
func Decompose(raw uint32) PhysAddr {
	return PhysAddr{
		PPN:    [2]uint32{(raw >> 12) & 0x3FF, raw >> 22},
		Offset: raw & 0xFFF,
	}
}

// Bit masks/shifts for the 32-bit Sv32 page table entry (spec §6).
const (
	pteV = 1 << 0
	pteR = 1 << 1
	pteW = 1 << 2
	pteX = 1 << 3
	pteU = 1 << 4
	pteG = 1 << 5
	pteA = 1 << 6
	pteD = 1 << 7

	ptePPN0Mask uint32 = 0x000F_FC00
	ptePPN1Mask uint32 = 0xFFF0_0000
)

// PTE is a decoded Sv32 page table entry.
type PTE struct {
	PPN   [2]uint32
	Dirty bool
	Acc   bool
	Glob  bool
	User  bool
	Exec  bool
	Write bool
	Read  bool
	Valid bool
}

// DecodePTE decodes a raw 32-bit page table entry. This function is total:
// every one of the 2^32 possible inputs decodes without error, reserved-bit
// encodings are rejected later by the walker, not here.
func DecodePTE(raw uint32) PTE {
	return PTE{
		PPN:   [2]uint32{(raw & ptePPN0Mask) >> 10, (raw & ptePPN1Mask) >> 20},
		Dirty: raw&pteD != 0,
		Acc:   raw&pteA != 0,
		Glob:  raw&pteG != 0,
		User:  raw&pteU != 0,
		Exec:  raw&pteX != 0,
		Write: raw&pteW != 0,
		Read:  raw&pteR != 0,
		Valid: raw&pteV != 0,
	}
}
