package bus

import "testing"

func TestAtomicOpApply(t *testing.T) {
	cases := []struct {
		op      AtomicOp
		old     uint32
		operand uint32
		want    uint32
	}{
		{AtomicSwap, 10, 99, 99},
		{AtomicAdd, 10, 5, 15},
		{AtomicAdd, 0xFFFF_FFFF, 1, 0}, // wraps
		{AtomicAnd, 0xFF, 0x0F, 0x0F},
		{AtomicOr, 0xF0, 0x0F, 0xFF},
		{AtomicXor, 0xFF, 0x0F, 0xF0},
		{AtomicMin, 5, 10, 5},
		{AtomicMin, 10, 5, 5},
		{AtomicMin, 0xFFFF_FFFF, 1, 0xFFFF_FFFF}, // -1 < 1 signed
		{AtomicMax, 5, 10, 10},
		{AtomicMax, 0xFFFF_FFFF, 1, 1},  // -1 < 1 signed
		{AtomicMinU, 0xFFFF_FFFF, 1, 1}, // 0xFFFFFFFF is huge unsigned
		{AtomicMaxU, 0xFFFF_FFFF, 1, 0xFFFF_FFFF},
		{AtomicMinU, 3, 7, 3},
		{AtomicMaxU, 3, 7, 7},
	}
	for _, c := range cases {
		if got := c.op.Apply(c.old, c.operand); got != c.want {
			t.Fatalf("op=%d Apply(%#x, %#x) = %#x, want %#x", c.op, c.old, c.operand, got, c.want)
		}
	}
}

func TestAtomicOpApplyPanicsOnUnknownOp(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown AtomicOp")
		}
	}()
	AtomicOp(999).Apply(0, 0)
}
