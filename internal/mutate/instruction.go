// Package mutate implements the schema-guided instruction-level mutator
// (component G), the conservative compressed-word mutator (component H),
// and the stream-level site-selection/dispatch loop (component I).
package mutate

import (
	"github.com/robin3773/isa-mutator/internal/bitcodec"
	"github.com/robin3773/isa-mutator/internal/debuglog"
	"github.com/robin3773/isa-mutator/internal/isa"
	"github.com/robin3773/isa-mutator/internal/mutatorconfig"
	"github.com/robin3773/isa-mutator/internal/prng"
)

// baseALUFunct7 and mFunct7 are the RV32 R-type sub-family constants
// named in spec.md §4.G step 2.
var baseALUFunct7 = [2]uint32{0x00, 0x20}

const mFunct7 = 0x01

// signedImmDeltas are the small deltas tried by the non-random immediate
// path (spec.md §4.G: "add a small signed delta (±1, ±2, ±4, ±0x100, …)").
var signedImmDeltas = []int32{1, -1, 2, -2, 4, -4, 0x100, -0x100}

// MutateInstruction rewrites the 32-bit word at buf[i:i+4] in place,
// using schema to decode it and rng to drive sub-mutation choices. log
// may be nil; when non-nil and DEBUG is enabled, an illegal post-check
// event is recorded (spec.md §4.G step 4).
func MutateInstruction(buf []byte, i int, schema *isa.ISA, cfg *mutatorconfig.Config, rng *prng.State, log *debuglog.Log) {
	before := bitcodec.LoadU32(buf, i)
	word := before

	spec, matched := isa.MatchingInstruction(before, schema)

	switch {
	case matched:
		word = mutateKnownFormat(word, schema, spec, cfg, rng)
	default:
		// UNKNOWN format (spec.md §4.G step 1): fall back to a uniform
		// register-shaped rewrite so the edit still stays plausible-ish
		// without decoder guidance.
		word = mutateRegisterField(word, schema, rng, "rd")
	}

	bitcodec.StoreU32(buf, i, word)

	if log != nil && log.TraceEnabled() && !isa.IsLegal(word, schema) {
		log.Illegal("MutateInstruction", before, word)
	}
}

func mutateKnownFormat(word uint32, schema *isa.ISA, spec *isa.InstructionSpec, cfg *mutatorconfig.Config, rng *prng.State) uint32 {
	format := schema.Format(spec.FormatID)

	switch classifyFormat(schema, format) {
	case formatR:
		return mutateRType(word, schema, cfg, rng)
	case formatImmediate:
		return mutateImmediateFormat(word, schema, format, cfg, rng)
	default:
		return mutateRegisterField(word, schema, rng, "rd")
	}
}

type formatKind int

const (
	formatUnknown formatKind = iota
	formatR
	formatImmediate
)

// classifyFormat decides the sub-mutation family by which fields the
// format actually carries, not by its name — schemas name formats
// however the author likes (spec.md §4.D leaves FormatSpec.Name free
// text).
func classifyFormat(schema *isa.ISA, format *isa.FormatSpec) formatKind {
	has := func(name string) bool {
		id, ok := schema.FieldByName(name)
		if !ok {
			return false
		}
		for _, fid := range format.FieldIDs {
			if fid == id {
				return true
			}
		}
		return false
	}

	switch {
	case has("funct7") && has("rs2"):
		return formatR
	case hasAnyImmediate(schema, format):
		return formatImmediate
	default:
		return formatUnknown
	}
}

func hasAnyImmediate(schema *isa.ISA, format *isa.FormatSpec) bool {
	for _, fid := range format.FieldIDs {
		if schema.Field(fid).Signed {
			return true
		}
	}
	return false
}

// mutateRType implements spec.md §4.G's R-type sub-mutation: with
// probability 1/2, rewrite funct7 to a value from the sub-family picked by
// the configured weights; otherwise rewrite one of rd/rs1/rs2. A call
// changes either funct7 or one register field, never both.
func mutateRType(word uint32, schema *isa.ISA, cfg *mutatorconfig.Config, rng *prng.State) uint32 {
	funct7ID, hasFunct7 := schema.FieldByName("funct7")

	if hasFunct7 && rng.Bool(50) {
		total := cfg.RWeightBaseALU + cfg.RWeightM
		if total == 0 {
			total = 1
		}
		field := schema.Field(funct7ID)
		if rng.Intn(total) < cfg.RWeightBaseALU {
			word = field.Insert(word, baseALUFunct7[rng.Intn(2)])
		} else {
			word = field.Insert(word, mFunct7)
		}
		return word
	}

	regNames := []string{"rd", "rs1", "rs2"}
	name := regNames[rng.Intn(uint32(len(regNames)))]
	return mutateRegisterField(word, schema, rng, name)
}

// mutateImmediateFormat implements spec.md §4.G's I/S/B/U/J path: rewrite
// the format's (first) signed field either to a fresh random value or by
// a small delta.
func mutateImmediateFormat(word uint32, schema *isa.ISA, format *isa.FormatSpec, cfg *mutatorconfig.Config, rng *prng.State) uint32 {
	var immID isa.FieldID
	found := false
	for _, fid := range format.FieldIDs {
		if schema.Field(fid).Signed {
			immID = fid
			found = true
			break
		}
	}
	if !found {
		return mutateRegisterField(word, schema, rng, "rd")
	}

	field := schema.Field(immID)
	current := field.Extract(word)

	var next uint32
	if rng.Bool(cfg.ImmRandomProb) {
		next = rng.Intn(field.Mask() + 1)
	} else {
		delta := signedImmDeltas[rng.Intn(uint32(len(signedImmDeltas)))]
		next = (current + uint32(delta)) & field.Mask()
	}
	return field.Insert(word, next)
}

// mutateRegisterField rewrites field name to a uniform value in
// 0..register_count (spec.md §4.G: "Register fields: uniform over
// 0..register_count"). A no-op if the field doesn't exist in this ISA.
func mutateRegisterField(word uint32, schema *isa.ISA, rng *prng.State, name string) uint32 {
	id, ok := schema.FieldByName(name)
	if !ok {
		return word
	}
	field := schema.Field(id)
	count := schema.RegisterCount
	if count == 0 {
		count = 32
	}
	return field.Insert(word, rng.Intn(count))
}
