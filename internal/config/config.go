// Package config loads simulator startup configuration from a YAML file,
// grounded on the teacher's site-config loader: stat, size-cap, read,
// unmarshal, all logged via log/slog, tolerant of a missing file.
package config

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xinpian-tech/pokedex/internal/mmu"
)

// maxConfigSize bounds how large a config file this loader will read, the
// same defensive cap the teacher applies to its own site config.
const maxConfigSize = 1 << 20 // 1MB

// SimConfig is the startup configuration for a simulator instance.
type SimConfig struct {
	RAMWords       uint32 `yaml:"ram_words"`
	HaltAddr       uint32 `yaml:"halt_addr"`
	InitialPC      uint32 `yaml:"initial_pc"`
	InitialSatp    uint32 `yaml:"initial_satp"`
	InitialMstatus uint32 `yaml:"initial_mstatus"`
	InitialPriv    uint8  `yaml:"initial_priv"`
	Trace          bool   `yaml:"trace"`
}

// Default returns the configuration used when no file is present.
func Default() SimConfig {
	return SimConfig{
		RAMWords:    1 << 16, // 256 KiB of word-addressable RAM
		HaltAddr:    0,
		InitialPriv: mmu.PrivSupervisor,
	}
}

// Load reads and parses a YAML config file at path. A missing file yields
// Default() rather than an error — the simulator must be runnable with no
// configuration at all.
func Load(path string) (SimConfig, error) {
	cfg := Default()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("no config file found, using defaults", "path", path)
			return cfg, nil
		}
		return cfg, err
	}

	if info.Size() > maxConfigSize {
		slog.Warn("config file too large, using defaults", "path", path, "size", info.Size())
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	slog.Info("loaded simulator config", "path", path, "ram_words", cfg.RAMWords, "trace", cfg.Trace)
	return cfg, nil
}
