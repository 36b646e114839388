package isa

import (
	"fmt"
	"os"

	"github.com/robin3773/isa-mutator/internal/mutatorerr"
	"gopkg.in/yaml.v3"
)

// includesFromMap reads isa_map.yaml at mapPath and returns the list of
// schema files to include for isaName. The map may be flat:
//
//	rv32i:  [base.yaml, rv32i.yaml]
//
// or nested under isa_families:
//
//	isa_families: { rvi: { rv32i: [...] } }
//
// A missing ISA fails with ConfigError (spec.md §4.E).
func includesFromMap(mapPath, isaName string) ([]string, error) {
	data, err := os.ReadFile(mapPath)
	if err != nil {
		return nil, mutatorerr.Wrap(mutatorerr.ConfigError, mapPath, "cannot read ISA map", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, mutatorerr.Wrap(mutatorerr.ConfigError, mapPath, "invalid YAML in ISA map", err)
	}
	if len(root.Content) == 0 {
		return nil, mutatorerr.New(mutatorerr.ConfigError, mapPath, "empty ISA map")
	}
	top := root.Content[0]

	if seq := mappingGet(top, isaName); seq != nil {
		return sequenceToStrings(seq), nil
	}

	if families := mappingGet(top, "isa_families"); families != nil {
		for i := 0; i+1 < len(families.Content); i += 2 {
			family := families.Content[i+1]
			if seq := mappingGet(family, isaName); seq != nil {
				return sequenceToStrings(seq), nil
			}
		}
	}

	return nil, mutatorerr.New(mutatorerr.ConfigError, mapPath,
		fmt.Sprintf("unknown ISA %q in map", isaName))
}

// mappingGet returns the value node bound to key in mapping node m, or nil
// if m is not a mapping or key is absent.
func mappingGet(m *yaml.Node, key string) *yaml.Node {
	m = deref(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func sequenceToStrings(n *yaml.Node) []string {
	n = deref(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]string, 0, len(n.Content))
	for _, c := range n.Content {
		c = deref(c)
		if c != nil {
			out = append(out, c.Value)
		}
	}
	return out
}
