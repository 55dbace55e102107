// Package config holds the construction parameters of a branch predictor and
// reads them from JSON files and the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Kind names a predictor variant.
type Kind string

// Supported predictor variants.
const (
	KindGAg Kind = "GAg"
	KindGAp Kind = "GAp"
	KindGAs Kind = "GAs"
	KindSAs Kind = "SAs"
	KindPAp Kind = "PAp"
)

// Kinds lists every supported variant.
var Kinds = []Kind{KindGAg, KindGAp, KindGAs, KindSAs, KindPAp}

// Config holds the register widths of a predictor.
type Config struct {
	// Kind selects the predictor variant. Default: GAs.
	Kind Kind `json:"kind"`

	// HistoryWidth is the width of each branch history register. Default: 4.
	HistoryWidth int `json:"history_width"`

	// CounterWidth is the width of each saturating counter. Default: 2.
	CounterWidth int `json:"counter_width"`

	// AddressWidth is the number of leading address bits the variant uses.
	// GAp and PAp select tables with these bits directly; GAs and SAs hash
	// them down to SelectorWidth bits. Ignored by GAg. Default: 8.
	AddressWidth int `json:"address_width"`

	// SelectorWidth is the hashed selector width K for GAs and SAs.
	// Default: 4.
	SelectorWidth int `json:"selector_width"`
}

// Default returns a GAs configuration with a 4-bit history, 2-bit counters,
// and 8 address bits hashed into 4 selector bits.
func Default() *Config {
	return &Config{
		Kind:          KindGAs,
		HistoryWidth:  4,
		CounterWidth:  2,
		AddressWidth:  8,
		SelectorWidth: 4,
	}
}

// Load reads a Config from a JSON file. Fields missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read predictor config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse predictor config: %w", err)
	}

	return config, nil
}

// Save writes the Config to a JSON file.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize predictor config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write predictor config file: %w", err)
	}

	return nil
}

// LoadEnvFile loads variables from a dotenv file into the process
// environment. Variables already set are not overridden.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from BPSIM_KIND, BPSIM_HISTORY_WIDTH,
// BPSIM_COUNTER_WIDTH, BPSIM_ADDRESS_WIDTH, and BPSIM_SELECTOR_WIDTH when they
// are set.
func (c *Config) ApplyEnv() error {
	if kind, ok := os.LookupEnv("BPSIM_KIND"); ok {
		c.Kind = Kind(kind)
	}

	fields := []struct {
		name  string
		value *int
	}{
		{"BPSIM_HISTORY_WIDTH", &c.HistoryWidth},
		{"BPSIM_COUNTER_WIDTH", &c.CounterWidth},
		{"BPSIM_ADDRESS_WIDTH", &c.AddressWidth},
		{"BPSIM_SELECTOR_WIDTH", &c.SelectorWidth},
	}

	for _, f := range fields {
		s, ok := os.LookupEnv(f.name)
		if !ok {
			continue
		}

		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
		*f.value = v
	}

	return nil
}

// Validate checks that the kind is known and that every width the kind uses
// is positive. It does not check the widths against each other.
func (c *Config) Validate() error {
	switch c.Kind {
	case KindGAg, KindGAp, KindGAs, KindSAs, KindPAp:
	default:
		return fmt.Errorf("unknown predictor kind %q", c.Kind)
	}

	if c.HistoryWidth <= 0 {
		return fmt.Errorf("history_width must be > 0")
	}
	if c.CounterWidth <= 0 || c.CounterWidth > 64 {
		return fmt.Errorf("counter_width must be in [1, 64]")
	}
	if c.Kind != KindGAg && c.AddressWidth <= 0 {
		return fmt.Errorf("address_width must be > 0 for %s", c.Kind)
	}
	if (c.Kind == KindGAs || c.Kind == KindSAs) && c.SelectorWidth <= 0 {
		return fmt.Errorf("selector_width must be > 0 for %s", c.Kind)
	}

	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
