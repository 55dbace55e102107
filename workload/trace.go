package workload

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sarchlab/bpsim/bits"
	"github.com/sarchlab/bpsim/predictors"
)

// ReadTrace parses a branch trace. Each line holds an address as a binary
// string, an outcome (TAKEN/NOT_TAKEN, T/N, or 1/0), and optionally a binary
// target. Blank lines and lines starting with '#' are skipped.
func ReadTrace(r io.Reader) ([]Branch, error) {
	var branches []Branch

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("line %d: expected \"<address> <outcome> [target]\", got %q",
				lineNo, line)
		}

		address, err := bits.Parse(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: address: %w", lineNo, err)
		}

		outcome, err := predictors.ParseResult(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		inst := predictors.Branch(address)
		if len(fields) == 3 {
			inst.Target, err = bits.Parse(fields[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: target: %w", lineNo, err)
			}
		}

		branches = append(branches, Branch{Instruction: inst, Outcome: outcome})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	return branches, nil
}

// LoadTrace reads a trace file.
func LoadTrace(path string) ([]Branch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadTrace(f)
}
