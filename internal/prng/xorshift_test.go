package prng_test

import (
	"testing"

	"github.com/robin3773/isa-mutator/internal/prng"
)

func TestDeterministicGivenSeed(t *testing.T) {
	a := prng.New(42)
	b := prng.New(42)

	for i := 0; i < 1000; i++ {
		av, bv := a.Uint32(), b.Uint32()
		if av != bv {
			t.Fatalf("sequence diverged at step %d: %d vs %d", i, av, bv)
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := prng.New(1)
	b := prng.New(2)

	same := 0
	for i := 0; i < 64; i++ {
		if a.Uint32() == b.Uint32() {
			same++
		}
	}
	if same > 2 {
		t.Errorf("seeds 1 and 2 produced suspiciously similar streams (%d/64 equal)", same)
	}
}

func TestZeroSeedRemapped(t *testing.T) {
	r := prng.New(0)
	// Should not get stuck at zero forever.
	v := r.Uint32()
	if v == 0 {
		t.Fatalf("xorshift32 stuck at zero after reseed")
	}
}

func TestIntnRange(t *testing.T) {
	r := prng.New(7)
	for i := 0; i < 10000; i++ {
		v := r.Intn(32)
		if v >= 32 {
			t.Fatalf("Intn(32) returned out-of-range value %d", v)
		}
	}
}

func TestBoolProbabilityEdges(t *testing.T) {
	r := prng.New(1)
	for i := 0; i < 100; i++ {
		if !r.Bool(100) {
			t.Fatalf("Bool(100) returned false")
		}
		if r.Bool(0) {
			t.Fatalf("Bool(0) returned true")
		}
	}
}

func TestUniformitySanity(t *testing.T) {
	r := prng.New(123456789)
	const mod = 16
	buckets := make([]int, mod)
	const n = 1 << 16
	for i := 0; i < n; i++ {
		buckets[r.Intn(mod)]++
	}
	expected := n / mod
	for i, c := range buckets {
		diff := c - expected
		if diff < 0 {
			diff = -diff
		}
		// Allow generous slack; this is a sanity check, not a statistical test.
		if diff > expected/2 {
			t.Errorf("bucket %d too skewed: got %d, expected ~%d", i, c, expected)
		}
	}
}
