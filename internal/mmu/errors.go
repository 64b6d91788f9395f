package mmu

import "fmt"

// FaultKind distinguishes the two architectural translation faults a walk
// can raise (spec §7 tier 2). These are surfaced to the instruction model
// as ordinary Go errors — never panics — since the model is expected to
// synthesize the matching trap.
type FaultKind int

const (
	// AccessFault means the bus refused to read a page-table entry.
	AccessFault FaultKind = iota
	// PageFault means a permission, alignment, validity or A/D check failed.
	PageFault
)

func (k FaultKind) String() string {
	switch k {
	case AccessFault:
		return "access fault"
	case PageFault:
		return "page fault"
	default:
		return "unknown fault"
	}
}

// TranslationFault is returned by Walk when a virtual address cannot be
// translated. Reason is a short, stable, lower-case description of which
// check failed; it is not part of any wire format and exists for logs and
// test assertions.
type TranslationFault struct {
	Kind   FaultKind
	Reason string
	VAddr  uint32
}

func (e *TranslationFault) Error() string {
	return fmt.Sprintf("mmu: %s translating %#08x: %s", e.Kind, e.VAddr, e.Reason)
}

func accessFault(vaddr uint32, reason string) *TranslationFault {
	return &TranslationFault{Kind: AccessFault, Reason: reason, VAddr: vaddr}
}

func pageFault(vaddr uint32, reason string) *TranslationFault {
	return &TranslationFault{Kind: PageFault, Reason: reason, VAddr: vaddr}
}
