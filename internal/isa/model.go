// Package isa implements the ISA schema model (component D), its YAML
// loader (component E), and the legality oracle (component F). The model
// is pure data, constructed only by the loader or by tests (spec.md §4.D).
package isa

import "github.com/robin3773/isa-mutator/internal/bitcodec"

// FieldID is a dense index into ISA.Fields, interned at load time so the
// hot mutation path never hashes a field name (Design Note §9).
type FieldID int

// FormatID is a dense index into ISA.Formats.
type FormatID int

// InstructionID is a dense index into ISA.Instructions.
type InstructionID int

// Invalid marks an unresolved ID.
const Invalid = -1

// FieldEncoding is the ordered union of segments making up one logical
// field. Invariants enforced by the loader's validation pass: segment
// widths sum to Width; Width <= 32; segments are non-overlapping in
// WordLSB range; the ValueLSB..ValueLSB+Width slices exactly cover
// 0..Width with no gaps or overlaps.
type FieldEncoding struct {
	Name     string
	Width    uint32
	Signed   bool
	Segments []bitcodec.Segment
}

// Extract reads this field's value out of word.
func (f *FieldEncoding) Extract(word uint32) uint32 {
	return bitcodec.Extract(word, f.Segments, f.Width)
}

// Insert writes v into this field's bit positions within word.
func (f *FieldEncoding) Insert(word, v uint32) uint32 {
	return bitcodec.Insert(word, f.Segments, v)
}

// SignExtend interprets an unsigned field value as a two's-complement
// signed value, using the sign bit at Width-1 of the reconstructed value.
// Only meaningful when Signed is true.
func (f *FieldEncoding) SignExtend(v uint32) int32 {
	if f.Width == 0 || f.Width >= 32 {
		return int32(v)
	}
	signBit := uint32(1) << (f.Width - 1)
	if v&signBit != 0 {
		return int32(v) - int32(uint32(1)<<f.Width)
	}
	return int32(v)
}

// Mask returns the bitmask covering this field's full range.
func (f *FieldEncoding) Mask() uint32 {
	if f.Width >= 32 {
		return 0xFFFFFFFF
	}
	return (uint32(1) << f.Width) - 1
}

// FormatSpec is an instruction encoding template: an ordered field set and
// the word width (16 for compressed, 32 for base) it applies to.
type FormatSpec struct {
	Name     string
	Width    uint32
	FieldIDs []FieldID
}

// FixedField is one constraint in an InstructionSpec: field FieldID must
// equal Value for the word to match this instruction.
type FixedField struct {
	FieldID FieldID
	Value   uint32
}

// InstructionSpec names a format and the fixed-field values that identify
// this specific instruction within that format.
type InstructionSpec struct {
	Name        string
	FormatID    FormatID
	FixedFields []FixedField
}

// ISA is the fully resolved, immutable-after-load schema for one ISA
// variant (e.g. "rv32im"). Accessed read-only from the mutation hot path.
type ISA struct {
	Name          string
	BaseWidth     uint32
	RegisterCount uint32

	Fields       []FieldEncoding
	fieldByName  map[string]FieldID
	Formats      []FormatSpec
	formatByName map[string]FormatID
	Instructions []InstructionSpec

	// EnableC is derived: true if any format's width == 16.
	EnableC bool
}

// Field returns the field at id. Callers must only pass IDs obtained from
// this ISA (e.g. via FieldByName or FixedField.FieldID).
func (i *ISA) Field(id FieldID) *FieldEncoding {
	return &i.Fields[id]
}

// FieldByName resolves a field name to its dense ID.
func (i *ISA) FieldByName(name string) (FieldID, bool) {
	id, ok := i.fieldByName[name]
	return id, ok
}

// Format returns the format at id.
func (i *ISA) Format(id FormatID) *FormatSpec {
	return &i.Formats[id]
}

// FormatByName resolves a format name to its dense ID.
func (i *ISA) FormatByName(name string) (FormatID, bool) {
	id, ok := i.formatByName[name]
	return id, ok
}

// FieldUsage tallies which instructions reference which fields, either as
// a fixed-field constraint or as part of their format's field list. Useful
// for schema authors debugging a new ISA layer (adapted from the
// teacher's tools/xref.go symbol cross-reference pass).
func (i *ISA) FieldUsage() map[FieldID][]InstructionID {
	usage := make(map[FieldID][]InstructionID)
	for idx, inst := range i.Instructions {
		iid := InstructionID(idx)
		seen := make(map[FieldID]bool)
		fmtSpec := i.Format(inst.FormatID)
		for _, fid := range fmtSpec.FieldIDs {
			if !seen[fid] {
				usage[fid] = append(usage[fid], iid)
				seen[fid] = true
			}
		}
		for _, ff := range inst.FixedFields {
			if !seen[ff.FieldID] {
				usage[ff.FieldID] = append(usage[ff.FieldID], iid)
				seen[ff.FieldID] = true
			}
		}
	}
	return usage
}
