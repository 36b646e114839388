package isa

import "gopkg.in/yaml.v3"

// anchorTable accumulates anchor-name -> defining-node bindings across the
// topological load order, so files processed after an anchor's defining
// file can reference it as if it were local. This replaces the source's
// fragile textual "__anchors:" preamble trick (see Design Note §9) with a
// post-parse pass: yaml.v3 already resolves aliases *within* a single
// document; this only has to bridge aliases across file boundaries.
type anchorTable map[string]*yaml.Node

// collectAnchors walks root and records every node.Anchor it finds. Call
// this after resolveAliases for the same file, so a file doesn't end up
// depending on anchors it defines for itself via the cross-file table.
func collectAnchors(root *yaml.Node, table anchorTable) {
	walk(root, func(n *yaml.Node) {
		if n.Anchor != "" {
			table[n.Anchor] = n
		}
	})
}

// resolveAliases walks root and, for any alias node yaml.v3 could not
// resolve within this document (Alias == nil — the anchor it names lives
// in an earlier file), splices in the node bound to that name in table.
// Aliases naming an anchor nowhere in table are left unresolved; whatever
// consumes the tree next will simply see an empty alias and treat it as
// such (no error here — per §4.E only fixed-field width/reference
// violations are validation errors, not missing anchors).
func resolveAliases(root *yaml.Node, table anchorTable) {
	walk(root, func(n *yaml.Node) {
		if n.Kind == yaml.AliasNode && n.Alias == nil {
			if bound, ok := table[n.Value]; ok {
				n.Alias = bound
			}
		}
	})
}

// walk calls fn on every node in the tree rooted at n, depth-first,
// including n itself.
func walk(n *yaml.Node, fn func(*yaml.Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Content {
		walk(c, fn)
	}
}

// deref follows an AliasNode to its bound content, recursively (in case an
// alias points to another alias). Returns n unchanged if it is not an
// alias or has no resolved binding.
func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
