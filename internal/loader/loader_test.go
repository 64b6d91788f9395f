package loader

import (
	"strings"
	"testing"

	"github.com/xinpian-tech/pokedex/internal/bus"
)

func TestLoadHexImageBasic(t *testing.T) {
	ram := bus.NewRAM(64, 0xFFFF_FFF0)
	src := strings.Join([]string{
		"0xDEADBEEF",
		"0x00000001 # comment explaining the second word",
		"",
		"   ",
		"# a whole-line comment",
		"0xCAFEBABE",
	}, "\n")

	n, err := LoadHexImage(strings.NewReader(src), ram, 0)
	if err != nil {
		t.Fatalf("LoadHexImage() = %v, want nil", err)
	}
	if n != 3 {
		t.Fatalf("n = %d, want 3", n)
	}

	check := func(addr uint32, want uint32) {
		t.Helper()
		buf := make([]byte, 4)
		if err := ram.Read(addr, buf); err != nil {
			t.Fatalf("Read(%#x) = %v", addr, err)
		}
		got := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
		if got != want {
			t.Fatalf("word at %#x = %#08x, want %#08x", addr, got, want)
		}
	}
	check(0, 0xDEADBEEF)
	check(4, 0x00000001)
	check(8, 0xCAFEBABE)
}

func TestLoadHexImageAdvancesByWordFromBase(t *testing.T) {
	ram := bus.NewRAM(64, 0xFFFF_FFF0)
	src := "0x1\n0x2\n0x3\n"
	n, err := LoadHexImage(strings.NewReader(src), ram, 0x10)
	if err != nil {
		t.Fatalf("LoadHexImage() = %v, want nil", err)
	}
	if n != 3 {
		t.Fatalf("n = %d, want 3", n)
	}
	for i, want := range []uint32{1, 2, 3} {
		buf := make([]byte, 4)
		addr := uint32(0x10 + i*4)
		if err := ram.Read(addr, buf); err != nil {
			t.Fatalf("Read(%#x) = %v", addr, err)
		}
		got := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
		if got != want {
			t.Fatalf("word %d at %#x = %d, want %d", i, addr, got, want)
		}
	}
}

func TestLoadHexImageMalformedLineReturnsError(t *testing.T) {
	ram := bus.NewRAM(64, 0xFFFF_FFF0)
	src := "0x1\nnot-a-number\n0x3\n"
	n, err := LoadHexImage(strings.NewReader(src), ram, 0)
	if err == nil {
		t.Fatal("LoadHexImage() = nil, want error for malformed line")
	}
	if n != 1 {
		t.Fatalf("n (lines loaded before error) = %d, want 1", n)
	}
}

func TestLoadHexImageEmptyInput(t *testing.T) {
	ram := bus.NewRAM(64, 0xFFFF_FFF0)
	n, err := LoadHexImage(strings.NewReader(""), ram, 0)
	if err != nil {
		t.Fatalf("LoadHexImage() = %v, want nil", err)
	}
	if n != 0 {
		t.Fatalf("n = %d, want 0", n)
	}
}

func TestLoadHexImageOutOfRangeWriteReturnsError(t *testing.T) {
	ram := bus.NewRAM(8, 0xFFFF_FFF0)
	n, err := LoadHexImage(strings.NewReader("0x1\n0x2\n0x3\n"), ram, 0)
	if err == nil {
		t.Fatal("LoadHexImage() = nil, want error once the image overruns RAM")
	}
	if n != 2 {
		t.Fatalf("n (words loaded before overrun) = %d, want 2", n)
	}
}

func TestLoadHexImageProgressBarThreshold(t *testing.T) {
	ram := bus.NewRAM(4*(progressThreshold+10), 0xFFFF_FFFF)
	var b strings.Builder
	for i := 0; i < progressThreshold+5; i++ {
		b.WriteString("0x0\n")
	}
	n, err := LoadHexImage(strings.NewReader(b.String()), ram, 0)
	if err != nil {
		t.Fatalf("LoadHexImage() = %v, want nil", err)
	}
	if n != progressThreshold+5 {
		t.Fatalf("n = %d, want %d", n, progressThreshold+5)
	}
}
