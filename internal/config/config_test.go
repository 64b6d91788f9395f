package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg != Default() {
		t.Fatalf("Load() = %+v, want Default() %+v", cfg, Default())
	}
}

func TestLoadValidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	body := strings.Join([]string{
		"ram_words: 4096",
		"halt_addr: 4294963200", // 0xFFFFF000
		"initial_pc: 256",
		"initial_satp: 2147483649", // 0x80000001
		"trace: true",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg.RAMWords != 4096 {
		t.Fatalf("RAMWords = %d, want 4096", cfg.RAMWords)
	}
	if cfg.HaltAddr != 0xFFFF_F000 {
		t.Fatalf("HaltAddr = %#x, want 0xFFFFF000", cfg.HaltAddr)
	}
	if cfg.InitialPC != 256 {
		t.Fatalf("InitialPC = %d, want 256", cfg.InitialPC)
	}
	if cfg.InitialSatp != 0x8000_0001 {
		t.Fatalf("InitialSatp = %#x, want 0x80000001", cfg.InitialSatp)
	}
	if !cfg.Trace {
		t.Fatal("Trace = false, want true")
	}
}

func TestLoadOversizedFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.yaml")
	big := make([]byte, maxConfigSize+1)
	for i := range big {
		big[i] = ' '
	}
	if err := os.WriteFile(path, big, 0o644); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg != Default() {
		t.Fatalf("Load() = %+v, want Default() %+v", cfg, Default())
	}
}

func TestLoadMalformedYAMLReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("ram_words: [this is not a number"), 0o644); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load() = nil, want error for malformed YAML")
	}
}
