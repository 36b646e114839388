package isa

// IsLegal reports whether word matches any InstructionSpec in i: for every
// (field, expected) in an instruction's fixed fields, the field must
// extract to expected. Short-circuits at the first field mismatch within
// an instruction, and at the first fully-matching instruction overall.
//
// This is advisory, not authoritative disambiguation: per spec.md §9's
// Open Question, an instruction that shares an opcode with several others
// but differs in e.g. funct3 is resolved by whichever InstructionSpec
// happens to match first and fully — there is no best-effort ranking among
// partial matches. That behavior is preserved exactly as the source
// implements it, not redesigned.
func IsLegal(word uint32, i *ISA) bool {
	for _, spec := range i.Instructions {
		if instructionMatches(word, i, &spec) {
			return true
		}
	}
	return false
}

func instructionMatches(word uint32, i *ISA, spec *InstructionSpec) bool {
	for _, ff := range spec.FixedFields {
		field := i.Field(ff.FieldID)
		actual := field.Extract(word)
		expected := ff.Value & field.Mask()
		if actual != expected {
			return false
		}
	}
	return true
}

// MatchingInstruction returns the first InstructionSpec that fully matches
// word, and whether one was found. Used by the instruction mutator to
// decode a format before choosing a sub-mutation (spec.md §4.G step 1).
func MatchingInstruction(word uint32, i *ISA) (*InstructionSpec, bool) {
	for idx := range i.Instructions {
		if instructionMatches(word, i, &i.Instructions[idx]) {
			return &i.Instructions[idx], true
		}
	}
	return nil, false
}
