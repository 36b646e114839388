package isa

import "gopkg.in/yaml.v3"

// mergeNodes merges overlay over base per spec.md §4.E: for mapping nodes,
// recurse key-by-key — overlay replaces base for scalar/sequence values;
// keys beginning with "__" are skipped (they are scaffolding for anchor
// propagation only). For non-mapping nodes, overlay replaces base outright.
//
// base is mutated in place and returned; either argument may be nil.
func mergeNodes(base, overlay *yaml.Node) *yaml.Node {
	if overlay == nil {
		return base
	}
	if base == nil {
		return overlay
	}
	if base.Kind == yaml.MappingNode && overlay.Kind == yaml.MappingNode {
		mergeMappings(base, overlay)
		return base
	}
	// Non-mapping (or kind mismatch): overlay replaces base wholesale.
	return overlay
}

// expandMergeKey resolves a YAML merge key ("<<: *anchor" or "<<: [*a, *b]")
// on a mapping node, the way a schema author leans on an anchored template
// for a family of similar instructions (e.g. all the base-ALU R-type
// opcodes). Explicit keys in n always win over the merged-in template's
// keys, matching standard YAML merge-key semantics. Returns n unchanged if
// it has no "<<" key.
func expandMergeKey(n *yaml.Node) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return n
	}

	var sources []*yaml.Node
	rest := &yaml.Node{Kind: yaml.MappingNode}
	hasMerge := false

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Value == "<<" {
			hasMerge = true
			val = deref(val)
			if val != nil && val.Kind == yaml.SequenceNode {
				for _, v := range val.Content {
					sources = append(sources, deref(v))
				}
			} else {
				sources = append(sources, val)
			}
			continue
		}
		rest.Content = append(rest.Content, key, val)
	}
	if !hasMerge {
		return n
	}

	merged := &yaml.Node{Kind: yaml.MappingNode}
	for _, src := range sources {
		merged = mergeNodes(merged, src)
	}
	return mergeNodes(merged, rest)
}

// mergeMappings merges overlay's key/value pairs into base in place. base
// and overlay are both MappingNode: Content alternates key, value, key,
// value, ...
func mergeMappings(base, overlay *yaml.Node) {
	baseIndex := make(map[string]int, len(base.Content)/2)
	for i := 0; i+1 < len(base.Content); i += 2 {
		baseIndex[base.Content[i].Value] = i + 1
	}

	for i := 0; i+1 < len(overlay.Content); i += 2 {
		key := overlay.Content[i]
		val := overlay.Content[i+1]
		if len(key.Value) >= 2 && key.Value[:2] == "__" {
			continue
		}

		if valIdx, ok := baseIndex[key.Value]; ok {
			merged := mergeNodes(base.Content[valIdx], val)
			base.Content[valIdx] = merged
			continue
		}

		base.Content = append(base.Content, key, val)
		baseIndex[key.Value] = len(base.Content) - 1
	}
}
