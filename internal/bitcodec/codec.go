package bitcodec

// Segment is one physical slice of an instruction word contributing bits
// to a logical field: Width bits, starting at WordLSB in the instruction
// word, land at ValueLSB in the reconstructed field value.
type Segment struct {
	WordLSB  uint32
	Width    uint32
	ValueLSB uint32
}

// maskBits returns a mask covering the low `width` bits. width >= 32 is
// treated as a full 32-bit mask; width == 0 yields 0. All shifts run in a
// 64-bit accumulator so width==32 never triggers undefined shift behavior.
func maskBits(width uint32) uint64 {
	if width == 0 {
		return 0
	}
	if width >= 32 {
		return 0xFFFFFFFF
	}
	return (uint64(1) << width) - 1
}

// Extract pulls the logical field value described by segments out of word.
// Each segment takes `Width` bits starting at `WordLSB` of word, shifts
// them left by `ValueLSB`, and ORs them into the accumulator. The result is
// masked to `width` bits. Sign extension is not applied here — signedness
// is recorded on the field and applied by callers that interpret the value
// arithmetically (see isa.FieldEncoding.SignExtend).
func Extract(word uint32, segments []Segment, width uint32) uint32 {
	var acc uint64
	for _, seg := range segments {
		segMask := maskBits(seg.Width)
		piece := (uint64(word) >> seg.WordLSB) & segMask
		acc |= piece << seg.ValueLSB
	}
	return uint32(acc & maskBits(width))
}

// Insert clears the segment bits in word, then for each segment takes
// bits [ValueLSB, ValueLSB+Width) of v and ORs them into word at WordLSB.
func Insert(word uint32, segments []Segment, v uint32) uint32 {
	for _, seg := range segments {
		segMask := maskBits(seg.Width)
		word &^= uint32(segMask) << seg.WordLSB
		piece := (uint64(v) >> seg.ValueLSB) & segMask
		word |= uint32(piece) << seg.WordLSB
	}
	return word
}
