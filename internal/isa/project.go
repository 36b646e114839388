package isa

import (
	"fmt"

	"github.com/robin3773/isa-mutator/internal/bitcodec"
	"github.com/robin3773/isa-mutator/internal/mutatorerr"
	"gopkg.in/yaml.v3"
)

// project turns the merged YAML tree into a validated *ISA (spec.md §4.E
// "Projection" and "Validation").
func project(root *yaml.Node, isaName string) (*ISA, error) {
	b := newBuilder(isaName)

	if n := mappingGet(root, "isa_name"); n != nil {
		b.isa.Name = deref(n).Value
	}
	if n := mappingGet(root, "base_width"); n != nil {
		v, err := parseIntLiteral("base_width", deref(n).Value)
		if err != nil {
			return nil, err
		}
		b.isa.BaseWidth = uint32(v)
	}
	if n := mappingGet(root, "register_count"); n != nil {
		v, err := parseIntLiteral("register_count", deref(n).Value)
		if err != nil {
			return nil, err
		}
		b.isa.RegisterCount = uint32(v)
	}

	if err := projectFields(root, b); err != nil {
		return nil, err
	}
	if err := projectFormats(root, b); err != nil {
		return nil, err
	}
	if err := projectInstructions(root, b); err != nil {
		return nil, err
	}

	result := b.build()
	if err := validate(result); err != nil {
		return nil, err
	}
	return result, nil
}

// projectFields reads the top-level fields: mapping. Each entry becomes a
// FieldEncoding; segments default to a single contiguous slice
// ({word_lsb, width, value_lsb: 0}) when not enumerated.
func projectFields(root *yaml.Node, b *builder) error {
	fields := mappingGet(root, "fields")
	if fields == nil {
		return nil
	}
	fields = deref(fields)
	if fields.Kind != yaml.MappingNode {
		return mutatorerr.New(mutatorerr.ConfigError, "fields", "expected a mapping")
	}

	for i := 0; i+1 < len(fields.Content); i += 2 {
		name := fields.Content[i].Value
		spec := deref(fields.Content[i+1])

		enc := FieldEncoding{Name: name}

		if n := mappingGet(spec, "width"); n != nil {
			v, err := parseIntLiteral(name+".width", deref(n).Value)
			if err != nil {
				return err
			}
			enc.Width = uint32(v)
		}
		if n := mappingGet(spec, "signed"); n != nil {
			enc.Signed = deref(n).Value == "true"
		}

		if segs := mappingGet(spec, "segments"); segs != nil {
			segs = deref(segs)
			for _, segNode := range segs.Content {
				segNode = deref(segNode)
				seg, err := parseSegment(name, segNode)
				if err != nil {
					return err
				}
				enc.Segments = append(enc.Segments, seg)
			}
		} else {
			wordLSB := uint64(0)
			if n := mappingGet(spec, "word_lsb"); n != nil {
				v, err := parseIntLiteral(name+".word_lsb", deref(n).Value)
				if err != nil {
					return err
				}
				wordLSB = v
			}
			enc.Segments = []bitcodec.Segment{{
				WordLSB:  uint32(wordLSB),
				Width:    enc.Width,
				ValueLSB: 0,
			}}
		}

		b.defineField(enc)
	}
	return nil
}

func parseSegment(fieldName string, n *yaml.Node) (bitcodec.Segment, error) {
	var seg bitcodec.Segment
	if wl := mappingGet(n, "word_lsb"); wl != nil {
		v, err := parseIntLiteral(fieldName+".segment.word_lsb", deref(wl).Value)
		if err != nil {
			return seg, err
		}
		seg.WordLSB = uint32(v)
	}
	if w := mappingGet(n, "width"); w != nil {
		v, err := parseIntLiteral(fieldName+".segment.width", deref(w).Value)
		if err != nil {
			return seg, err
		}
		seg.Width = uint32(v)
	}
	if vl := mappingGet(n, "value_lsb"); vl != nil {
		v, err := parseIntLiteral(fieldName+".segment.value_lsb", deref(vl).Value)
		if err != nil {
			return seg, err
		}
		seg.ValueLSB = uint32(v)
	}
	return seg, nil
}

// projectFormats reads the top-level formats: mapping. Each entry becomes
// a FormatSpec with an ordered field list. Field names are resolved here
// against the fields projected before formats; an unknown name fails
// with ConfigError.
func projectFormats(root *yaml.Node, b *builder) error {
	formats := mappingGet(root, "formats")
	if formats == nil {
		return nil
	}
	formats = deref(formats)
	if formats.Kind != yaml.MappingNode {
		return mutatorerr.New(mutatorerr.ConfigError, "formats", "expected a mapping")
	}

	for i := 0; i+1 < len(formats.Content); i += 2 {
		name := formats.Content[i].Value
		spec := deref(formats.Content[i+1])

		fs := FormatSpec{Name: name, Width: 32}
		if n := mappingGet(spec, "width"); n != nil {
			v, err := parseIntLiteral(name+".width", deref(n).Value)
			if err != nil {
				return err
			}
			fs.Width = uint32(v)
		}
		if fieldsNode := mappingGet(spec, "fields"); fieldsNode != nil {
			fieldsNode = deref(fieldsNode)
			for _, fn := range fieldsNode.Content {
				fn = deref(fn)
				fieldName := fn.Value
				fid, ok := b.fieldID(fieldName)
				if !ok {
					return mutatorerr.New(mutatorerr.ConfigError, name,
						fmt.Sprintf("format references unknown field %q", fieldName))
				}
				fs.FieldIDs = append(fs.FieldIDs, fid)
			}
		}
		b.defineFormat(fs)
	}
	return nil
}

// projectInstructions reads the top-level instructions: sequence. Each
// entry's fixed_fields may be scalars or {value: N} maps (spec.md §4.E).
func projectInstructions(root *yaml.Node, b *builder) error {
	insts := mappingGet(root, "instructions")
	if insts == nil {
		return nil
	}
	insts = deref(insts)
	if insts.Kind != yaml.SequenceNode {
		return mutatorerr.New(mutatorerr.ConfigError, "instructions", "expected a sequence")
	}

	for _, instNode := range insts.Content {
		instNode = expandMergeKey(deref(instNode))
		name := ""
		if n := mappingGet(instNode, "name"); n != nil {
			name = deref(n).Value
		}

		formatNode := mappingGet(instNode, "format")
		if formatNode == nil {
			return mutatorerr.New(mutatorerr.ConfigError, name, "instruction missing format")
		}
		formatName := deref(formatNode).Value
		fmtID, ok := b.formatID(formatName)
		if !ok {
			return mutatorerr.New(mutatorerr.ConfigError, name,
				fmt.Sprintf("instruction references unknown format %q", formatName))
		}

		spec := InstructionSpec{Name: name, FormatID: fmtID}

		if ffNode := mappingGet(instNode, "fixed_fields"); ffNode != nil {
			ffNode = deref(ffNode)
			for i := 0; i+1 < len(ffNode.Content); i += 2 {
				fieldName := ffNode.Content[i].Value
				valNode := deref(ffNode.Content[i+1])

				fid, ok := b.fieldID(fieldName)
				if !ok {
					return mutatorerr.New(mutatorerr.ConfigError, name,
						fmt.Sprintf("fixed_fields references unknown field %q", fieldName))
				}

				var literal string
				if valNode.Kind == yaml.MappingNode {
					if vn := mappingGet(valNode, "value"); vn != nil {
						literal = deref(vn).Value
					}
				} else {
					literal = valNode.Value
				}
				v, err := parseIntLiteral(name+"."+fieldName, literal)
				if err != nil {
					return err
				}
				spec.FixedFields = append(spec.FixedFields, FixedField{FieldID: fid, Value: uint32(v)})
			}
		}

		b.addInstruction(spec)
	}
	return nil
}
