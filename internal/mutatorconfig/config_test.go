package mutatorconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/robin3773/isa-mutator/internal/mutatorconfig"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "mutator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "schemas:\n  isa: rv32im\n")
	cfg, err := mutatorconfig.Load(path)
	require.NoError(t, err)
	require.Equal(t, mutatorconfig.IR, cfg.Strategy)
	require.Equal(t, uint32(60), cfg.DecodeProb)
	require.Equal(t, "rv32im", cfg.ISAName)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
strategy: RAW
decode_prob: 10
imm_random_prob: 90
r_weight_base_alu: 1
r_weight_m: 99
schemas:
  isa: rv32i
`)
	cfg, err := mutatorconfig.Load(path)
	require.NoError(t, err)
	require.Equal(t, mutatorconfig.RAW, cfg.Strategy)
	require.Equal(t, uint32(10), cfg.DecodeProb)
	require.Equal(t, uint32(90), cfg.ImmRandomProb)
	require.Equal(t, uint32(1), cfg.RWeightBaseALU)
	require.Equal(t, uint32(99), cfg.RWeightM)
}

func TestLoadRequiresISAName(t *testing.T) {
	path := writeConfig(t, "strategy: IR\n")
	_, err := mutatorconfig.Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := mutatorconfig.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestStrategyAliases(t *testing.T) {
	cases := map[string]mutatorconfig.Strategy{
		"BYTE_LEVEL":        mutatorconfig.RAW,
		"INSTRUCTION_LEVEL": mutatorconfig.IR,
		"MIXED_MODE":        mutatorconfig.HYBRID,
		"ADAPTIVE":          mutatorconfig.AUTO,
	}
	for alias, want := range cases {
		path := writeConfig(t, "strategy: "+alias+"\nschemas:\n  isa: x\n")
		cfg, err := mutatorconfig.Load(path)
		require.NoError(t, err)
		require.Equal(t, want, cfg.Strategy, "alias %s", alias)
	}
}
