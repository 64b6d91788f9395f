// Command pokedex is a minimal CLI harness around the simulator core: it
// loads a config file and a hex-text program image, then steps the
// simulator until it halts, faults, or runs out of steps.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/xinpian-tech/pokedex/internal/bus"
	"github.com/xinpian-tech/pokedex/internal/config"
	"github.com/xinpian-tech/pokedex/internal/demoisa"
	"github.com/xinpian-tech/pokedex/internal/loader"
	"github.com/xinpian-tech/pokedex/internal/model"
	"github.com/xinpian-tech/pokedex/internal/sim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pokedex: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "pokedex.yml", "path to simulator config (YAML)")
	imagePath := flag.String("image", "", "path to hex-text program image")
	maxSteps := flag.Uint64("max-steps", 1_000_000, "maximum instructions to execute")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ram := bus.NewRAM(int(cfg.RAMWords)*4, cfg.HaltAddr)

	if *imagePath != "" {
		f, err := os.Open(*imagePath)
		if err != nil {
			return fmt.Errorf("opening image: %w", err)
		}
		defer f.Close()
		n, err := loader.LoadHexImage(f, ram, 0)
		if err != nil {
			return fmt.Errorf("loading image: %w", err)
		}
		slog.Info("loaded program image", "path", *imagePath, "words", n)
	}

	colorize := term.IsTerminal(int(os.Stdout.Fd()))

	s := sim.New(func() model.Core {
		return demoisa.NewWithCSRs(cfg.InitialSatp, cfg.InitialMstatus, cfg.InitialPriv)
	}, ram)
	s.ResetCore(cfg.InitialPC)

	for step := uint64(0); step < *maxSteps; step++ {
		if cfg.Trace {
			detail := s.StepTrace()
			printTrace(detail, colorize)
			if detail.Code != model.StepOK {
				break
			}
		} else {
			if code := s.Step(); code != model.StepOK {
				break
			}
		}
		if _, exited := s.IsExited(); exited {
			break
		}
	}

	stats := s.Stats()
	if code, exited := s.IsExited(); exited {
		fmt.Printf("exited with code %d (steps=%d fetches=%d)\n", code, stats.StepCount, stats.FetchCount)
	} else {
		fmt.Printf("stopped (steps=%d fetches=%d)\n", stats.StepCount, stats.FetchCount)
	}
	return nil
}

// sgrRed and sgrGreen match the teacher's own practice of hand-writing SGR
// sequences rather than pulling in a styling layer for two colors; see
// DESIGN.md for why charmbracelet/x/ansi itself was not wired here.
const (
	sgrRed   = "\x1b[31m"
	sgrGreen = "\x1b[32m"
	sgrReset = "\x1b[0m"
)

func printTrace(d model.StepDetail, colorize bool) {
	if d.HasFaultAt {
		msg := fmt.Sprintf("fault at %#08x: %s", d.FaultAddr, d.Mnemonic)
		if colorize {
			msg = sgrRed + msg + sgrReset
		}
		fmt.Println(msg)
		return
	}
	line := d.Mnemonic
	if colorize {
		line = sgrGreen + line + sgrReset
	}
	fmt.Println(line)
}
