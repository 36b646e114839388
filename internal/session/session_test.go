package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/robin3773/isa-mutator/internal/session"
	"github.com/stretchr/testify/require"
)

// Init is a process-wide singleton guarded by sync.Once (spec.md §9), so
// only the first call in this test binary actually builds the Session;
// later calls just return the cached value regardless of env changes.
// That rules out testing both the success and failure path independently
// within one binary, so this file only exercises the happy path; the
// EnvError path is not exercised here.
func TestInitBuildsSingletonFromEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fields.yaml"), []byte(`
fields:
  opcode: {width: 7, word_lsb: 0}
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(`
extends: [fields.yaml]
formats:
  I: {width: 32, fields: [opcode]}
instructions:
  - {name: addi, format: I, fixed_fields: {opcode: 0x13}}
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "isa_map.yaml"), []byte("demo: [fields.yaml, base.yaml]\n"), 0o644))

	cfgPath := filepath.Join(dir, "mutator.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("schemas:\n  isa: demo\n"), 0o644))

	t.Setenv("MUTATOR_CONFIG", cfgPath)
	t.Setenv("AFL_ISA_MAP", filepath.Join(dir, "isa_map.yaml"))
	t.Setenv("FUZZER_QUIET", "1")

	s, err := session.Init()
	require.NoError(t, err)
	require.NotNil(t, s)
	require.NotEmpty(t, s.ID)
	require.Same(t, s, session.Get())

	session.Close()
}
