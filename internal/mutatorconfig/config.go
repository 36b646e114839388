// Package mutatorconfig loads the mutator's YAML configuration: strategy
// selection, mutation probabilities, R-type sub-family weights, and the
// ISA to load (spec.md §3 "Mutator configuration").
package mutatorconfig

import (
	"fmt"
	"os"

	"github.com/robin3773/isa-mutator/internal/mutatorerr"
	"gopkg.in/yaml.v3"
)

// Strategy selects how a site's mutation is generated.
type Strategy int

const (
	// IR is the default: schema-guided instruction-level mutation.
	IR Strategy = iota
	// RAW performs a random single-byte XOR at the site.
	RAW
	// HYBRID mixes IR and RAW per DecodeProb.
	HYBRID
	// AUTO is identical to HYBRID in this revision (spec.md §9).
	AUTO
)

func (s Strategy) String() string {
	switch s {
	case RAW:
		return "RAW"
	case IR:
		return "IR"
	case HYBRID:
		return "HYBRID"
	case AUTO:
		return "AUTO"
	default:
		return "UNKNOWN"
	}
}

func stringToStrategy(s string) Strategy {
	switch s {
	case "RAW", "BYTE_LEVEL":
		return RAW
	case "IR", "INSTRUCTION_LEVEL":
		return IR
	case "HYBRID", "MIXED_MODE":
		return HYBRID
	case "AUTO", "ADAPTIVE":
		return AUTO
	default:
		return IR
	}
}

// Config is the mutator's immutable-after-load runtime configuration.
type Config struct {
	Strategy       Strategy
	Verbose        bool
	DecodeProb     uint32
	ImmRandomProb  uint32
	RWeightBaseALU uint32
	RWeightM       uint32
	ISAName        string

	// EnableC is derived after the ISA loads (true if any format's width
	// == 16), not read from the config file. Set by the caller once the
	// schema is available.
	EnableC bool
}

// rawConfig mirrors the YAML document shape (spec.md §6 "Config file
// format"): a flat top level plus a nested schemas.isa key.
type rawConfig struct {
	Strategy       string `yaml:"strategy"`
	Verbose        bool   `yaml:"verbose"`
	DecodeProb     uint32 `yaml:"decode_prob"`
	ImmRandomProb  uint32 `yaml:"imm_random_prob"`
	RWeightBaseALU uint32 `yaml:"r_weight_base_alu"`
	RWeightM       uint32 `yaml:"r_weight_m"`
	Schemas        struct {
		ISA string `yaml:"isa"`
	} `yaml:"schemas"`
}

// DefaultConfig returns the configuration used when no file overrides a
// given key.
func DefaultConfig() *Config {
	return &Config{
		Strategy:       IR,
		DecodeProb:     60,
		ImmRandomProb:  25,
		RWeightBaseALU: 70,
		RWeightM:       30,
	}
}

// Load reads and parses the mutator config file at path. path is
// typically the value of the MUTATOR_CONFIG environment variable.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mutatorerr.Wrap(mutatorerr.ConfigError, path, "cannot read mutator config", err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, mutatorerr.Wrap(mutatorerr.ConfigError, path, "invalid mutator config YAML", err)
	}

	cfg := DefaultConfig()
	if raw.Strategy != "" {
		cfg.Strategy = stringToStrategy(raw.Strategy)
	}
	cfg.Verbose = raw.Verbose
	if raw.DecodeProb != 0 {
		cfg.DecodeProb = raw.DecodeProb
	}
	if raw.ImmRandomProb != 0 {
		cfg.ImmRandomProb = raw.ImmRandomProb
	}
	if raw.RWeightBaseALU != 0 {
		cfg.RWeightBaseALU = raw.RWeightBaseALU
	}
	if raw.RWeightM != 0 {
		cfg.RWeightM = raw.RWeightM
	}
	cfg.ISAName = raw.Schemas.ISA
	if cfg.ISAName == "" {
		return nil, mutatorerr.New(mutatorerr.ConfigError, path, "schemas.isa is required")
	}

	return cfg, nil
}

// Summary renders a one-line description used by the DEBUG startup log.
func (c *Config) Summary() string {
	return fmt.Sprintf("strategy=%s isa_name=%s decode_prob=%d imm_random_prob=%d",
		c.Strategy, c.ISAName, c.DecodeProb, c.ImmRandomProb)
}
