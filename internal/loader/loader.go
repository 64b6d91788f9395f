// Package loader implements the minimal program-loading glue spec §1 calls
// peripheral: reading a hex-text memory image into bus RAM. Grounded on
// the RiSC-32 teacher example's LoadBytecode (one 0xXXXXXXXX word per
// line, optional trailing '#' comment).
package loader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/xinpian-tech/pokedex/internal/bus"
)

// progressThreshold is the line count above which a progress bar is shown,
// matching the teacher's own use of progressbar only for sizeable image
// loads (e.g. kernel images), not every tiny test program.
const progressThreshold = 4096

// LoadHexImage reads one 32-bit little-endian word per non-blank line of r
// (format: "0xXXXXXXXX # optional comment") and writes each word to ram
// starting at base, advancing by 4 bytes per word. It returns the number of
// words loaded.
func LoadHexImage(r io.Reader, ram *bus.RAM, base uint32) (int, error) {
	lines, err := readLines(r)
	if err != nil {
		return 0, err
	}

	var bar *progressbar.ProgressBar
	if len(lines) > progressThreshold {
		bar = progressbar.Default(int64(len(lines)), "loading image")
	}

	addr := base
	for i, line := range lines {
		value, err := strconv.ParseUint(line, 0, 32)
		if err != nil {
			return i, fmt.Errorf("loader: line %d: %w", i+1, err)
		}
		word := uint32(value)
		buf := []byte{byte(word), byte(word >> 8), byte(word >> 16), byte(word >> 24)}
		if err := ram.Write(addr, buf); err != nil {
			return i, fmt.Errorf("loader: line %d: %w", i+1, err)
		}
		addr += 4
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return len(lines), nil
}

// readLines strips comments and blank lines, returning the remaining
// trimmed content lines in order.
func readLines(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
