package mutate

import (
	"github.com/robin3773/isa-mutator/internal/bitcodec"
	"github.com/robin3773/isa-mutator/internal/prng"
)

// MutateCompressed rewrites the 16-bit word at buf[i:i+2] in place,
// grounded on original_source/afl/isa_mutator/src/CompressedMutator.cpp:
// classify by (op_lo, funct3); for a classified family, flip one bit
// chosen uniformly from bits [4:2], the same bit set for every classified
// family, or fall back to a uniform single-bit flip over all 16 bits when
// unclassified.
func MutateCompressed(buf []byte, i int, rng *prng.State) {
	c := bitcodec.LoadU16(buf, i)
	opLo := uint8(c & 0x3)
	funct3 := uint8((c >> 13) & 0x7)

	if isClassifiedFamily(opLo, funct3) {
		bit := uint16(1) << (2 + rng.Intn(3))
		c ^= bit
		bitcodec.StoreU16(buf, i, c)
		return
	}

	c ^= uint16(1) << rng.Intn(16)
	bitcodec.StoreU16(buf, i, c)
}

// isClassifiedFamily matches the op_lo/funct3 combinations the source
// treats as loads/stores-with-immediate, branches, or register-register
// forms — the families narrow enough that a bit flip within bits
// [4:2] keeps the word plausibly in the same region.
func isClassifiedFamily(opLo, funct3 uint8) bool {
	switch {
	case opLo == 0x0 && (funct3 == 0b010 || funct3 == 0b110):
		return true
	case opLo == 0x1 && (funct3 == 0b000 || funct3 == 0b001 || funct3 == 0b101):
		return true
	case opLo == 0x2 && (funct3 == 0b010 || funct3 == 0b110):
		return true
	default:
		return false
	}
}
