package isa

// builder accumulates an ISA incrementally while the loader projects the
// merged YAML tree, interning field/format names into dense indices as it
// goes (Design Note §9). It is unexported: external callers only ever see
// a finished *ISA from Load.
type builder struct {
	isa ISA
}

func newBuilder(name string) *builder {
	return &builder{isa: ISA{
		Name:          name,
		BaseWidth:     32,
		RegisterCount: 32,
		fieldByName:   make(map[string]FieldID),
		formatByName:  make(map[string]FormatID),
	}}
}

// defineField records a field, overwriting any prior definition of the
// same name (later files in topological order win — same rule as the
// overlay merge for mapping nodes).
func (b *builder) defineField(enc FieldEncoding) FieldID {
	if id, ok := b.isa.fieldByName[enc.Name]; ok {
		b.isa.Fields[id] = enc
		return id
	}
	id := FieldID(len(b.isa.Fields))
	b.isa.Fields = append(b.isa.Fields, enc)
	b.isa.fieldByName[enc.Name] = id
	return id
}

func (b *builder) defineFormat(spec FormatSpec) FormatID {
	if id, ok := b.isa.formatByName[spec.Name]; ok {
		b.isa.Formats[id] = spec
		if spec.Width == 16 {
			b.isa.EnableC = true
		}
		return id
	}
	id := FormatID(len(b.isa.Formats))
	b.isa.Formats = append(b.isa.Formats, spec)
	b.isa.formatByName[spec.Name] = id
	if spec.Width == 16 {
		b.isa.EnableC = true
	}
	return id
}

func (b *builder) addInstruction(spec InstructionSpec) {
	b.isa.Instructions = append(b.isa.Instructions, spec)
}

func (b *builder) fieldID(name string) (FieldID, bool) {
	id, ok := b.isa.fieldByName[name]
	return id, ok
}

func (b *builder) formatID(name string) (FormatID, bool) {
	id, ok := b.isa.formatByName[name]
	return id, ok
}

func (b *builder) build() *ISA {
	isa := b.isa
	return &isa
}
