package isa

import (
	"fmt"

	"github.com/robin3773/isa-mutator/internal/mutatorerr"
)

// issue is one validation complaint, accumulated while walking the
// projected schema before deciding what's fatal.
type issue struct {
	source  string
	message string
}

// validate performs the checks spec.md §4.E calls for, once, after
// projection: every format's field list resolves; every instruction's
// format resolves; every fixed-field key is a field of that format; every
// fixed-field value fits in its field width; every field's segments
// reconstruct its declared width with no gaps or overlaps. The first
// violation found is returned as a ConfigError naming the offender.
func validate(i *ISA) error {
	var issues []issue

	for _, f := range i.Fields {
		issues = append(issues, validateField(&f)...)
	}

	for _, fs := range i.Formats {
		for _, fieldID := range fs.FieldIDs {
			if int(fieldID) < 0 || int(fieldID) >= len(i.Fields) {
				issues = append(issues, issue{fs.Name, "format references out-of-range field"})
			}
		}
	}

	for _, inst := range i.Instructions {
		if int(inst.FormatID) < 0 || int(inst.FormatID) >= len(i.Formats) {
			issues = append(issues, issue{inst.Name, "instruction references unknown format"})
			continue
		}
		format := i.Format(inst.FormatID)
		allowed := make(map[FieldID]bool, len(format.FieldIDs))
		for _, fid := range format.FieldIDs {
			allowed[fid] = true
		}

		for _, ff := range inst.FixedFields {
			if int(ff.FieldID) < 0 || int(ff.FieldID) >= len(i.Fields) {
				issues = append(issues, issue{inst.Name, "fixed_fields references unknown field"})
				continue
			}
			if !allowed[ff.FieldID] {
				field := i.Field(ff.FieldID)
				issues = append(issues, issue{inst.Name,
					fmt.Sprintf("fixed_fields key %q is not a field of format %q", field.Name, format.Name)})
				continue
			}
			field := i.Field(ff.FieldID)
			if ff.Value&^field.Mask() != 0 {
				issues = append(issues, issue{inst.Name,
					fmt.Sprintf("fixed_fields value for %q (0x%x) does not fit in %d-bit field",
						field.Name, ff.Value, field.Width)})
			}
		}
	}

	if len(issues) > 0 {
		first := issues[0]
		return mutatorerr.New(mutatorerr.ConfigError, first.source, first.message)
	}
	return nil
}

// validateField checks the FieldEncoding invariants from spec.md §3:
// sum(segments.width) == width; width <= 32; segments non-overlapping in
// word_lsb range; the value_lsb..value_lsb+width slices exactly cover
// 0..width with no gaps or overlaps.
func validateField(f *FieldEncoding) []issue {
	var issues []issue

	if f.Width > 32 {
		issues = append(issues, issue{f.Name, fmt.Sprintf("field width %d exceeds 32 bits", f.Width)})
	}

	var widthSum uint32
	var wordBits uint64
	covered := make([]bool, f.Width)
	for _, seg := range f.Segments {
		widthSum += seg.Width
		for b := uint32(0); b < seg.Width; b++ {
			if pos := seg.WordLSB + b; pos < 64 {
				if wordBits&(uint64(1)<<pos) != 0 {
					issues = append(issues, issue{f.Name, "field segments overlap in word bit range"})
				}
				wordBits |= uint64(1) << pos
			}
			idx := seg.ValueLSB + b
			if idx >= f.Width {
				continue
			}
			if covered[idx] {
				issues = append(issues, issue{f.Name, "field segments overlap in value bit range"})
			}
			covered[idx] = true
		}
	}
	if widthSum != f.Width {
		issues = append(issues, issue{f.Name,
			fmt.Sprintf("segment widths sum to %d, field width is %d", widthSum, f.Width)})
	}
	for idx, ok := range covered {
		if !ok {
			issues = append(issues, issue{f.Name, fmt.Sprintf("value bit %d not covered by any segment", idx)})
			break
		}
	}

	return issues
}
