package mutate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/robin3773/isa-mutator/internal/isa"
	"github.com/robin3773/isa-mutator/internal/mutate"
	"github.com/robin3773/isa-mutator/internal/mutatorconfig"
	"github.com/robin3773/isa-mutator/internal/prng"
	"github.com/stretchr/testify/require"
)

func loadTestISA(t *testing.T) *isa.ISA {
	t.Helper()
	cfg, err := isa.Load("../../testdata/schema", "rv32i", "")
	require.NoError(t, err)
	return cfg
}

// TestS3RoundTripMutation covers spec.md scenario S3: ADDI x0,x0,0 mutated
// under strategy IR with seed 42 keeps its opcode byte and changes at
// least one byte among 1..3. Exercises MutateInstruction directly (the
// single aligned site Stream would also pick here) so the assertion
// doesn't depend on Stream's random site selection landing on offset 0.
func TestS3RoundTripMutation(t *testing.T) {
	schema := loadTestISA(t)
	cfg := mutatorconfig.DefaultConfig()
	cfg.Strategy = mutatorconfig.IR
	cfg.ISAName = "rv32i"

	buf := []byte{0x13, 0x00, 0x00, 0x00}
	rng := prng.New(42)

	mutate.MutateInstruction(buf, 0, schema, cfg, rng, nil)
	require.Equal(t, byte(0x13), buf[0])

	diff := false
	for i := 1; i < 4; i++ {
		if buf[i] != 0x00 {
			diff = true
		}
	}
	require.True(t, diff, "expected at least one byte among 1..3 to differ")
}

// TestS5EmptyInput covers spec.md scenario S5: empty input still yields a
// single zero byte of output.
func TestS5EmptyInput(t *testing.T) {
	schema := loadTestISA(t)
	cfg := mutatorconfig.DefaultConfig()
	cfg.ISAName = "rv32i"
	rng := prng.New(1)

	out := make([]byte, 16)
	n := mutate.Stream(nil, out, 16, schema, cfg, rng, nil, nil)
	require.Equal(t, 1, n)
	require.Equal(t, byte(0), out[0])
}

// TestBufferSafety covers Testable Property 5: for any n and max,
// last_out_len is in [1, min(n, max)] (or 1 when that minimum is 0).
func TestBufferSafety(t *testing.T) {
	schema := loadTestISA(t)
	cfg := mutatorconfig.DefaultConfig()
	cfg.ISAName = "rv32i"

	cases := []struct{ n, max int }{
		{0, 16}, {4, 0}, {4, 2}, {8, 32}, {1, 1},
	}
	for _, c := range cases {
		in := make([]byte, c.n)
		for i := range in {
			in[i] = 0x13
		}
		out := make([]byte, 64)
		rng := prng.New(7)
		n := mutate.Stream(in, out, c.max, schema, cfg, rng, nil, nil)

		want := c.n
		if c.max < want {
			want = c.max
		}
		if want == 0 {
			want = 1
		}
		require.Equal(t, want, n, "n=%d max=%d", c.n, c.max)
	}
}

func TestMutateCompressedFlipsWithinWord(t *testing.T) {
	buf := []byte{0x01, 0x00}
	before := buf[0] | buf[1]<<8
	rng := prng.New(3)
	mutate.MutateCompressed(buf, 0, rng)
	after := uint16(buf[0]) | uint16(buf[1])<<8
	require.NotEqual(t, uint16(before), after)
}

// TestDeterminismGivenSeed covers Testable Property 6.
func TestDeterminismGivenSeed(t *testing.T) {
	schema := loadTestISA(t)
	cfg := mutatorconfig.DefaultConfig()
	cfg.ISAName = "rv32i"

	in := []byte{0x13, 0x00, 0x00, 0x00, 0x63, 0x00, 0x00, 0x00}

	run := func() []byte {
		out := make([]byte, len(in))
		rng := prng.New(99)
		mutate.Stream(in, out, len(in), schema, cfg, rng, nil, nil)
		return out
	}

	first := run()
	second := run()
	require.Equal(t, first, second)
}

func TestFixtureISAMapResolves(t *testing.T) {
	// Sanity check that loadTestISA's relative fixture path resolves to a
	// directory holding isa_map.yaml.
	dir, err := filepath.Abs("../../testdata/schema")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "isa_map.yaml"))
	require.NoError(t, err)
}
