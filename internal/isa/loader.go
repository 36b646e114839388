package isa

import (
	"os"
	"path/filepath"

	"github.com/robin3773/isa-mutator/internal/mutatorerr"
	"gopkg.in/yaml.v3"
)

// parsedFile caches one file's parsed root mapping node so the dependency
// DFS and the merge pass don't each parse it from scratch.
type parsedFile struct {
	path string
	root *yaml.Node // the document's top-level mapping node
}

// Load resolves isaName through the ISA map at rootDir/isa_map.yaml (or
// overridePath if non-empty), computes the extends/include DAG's
// topological order, merges all schema files in that order, and projects
// the result into a validated *ISA (spec.md §4.E, "Resolution" through
// "Validation").
func Load(rootDir, isaName, overridePath string) (*ISA, error) {
	mapPath := overridePath
	if mapPath == "" {
		mapPath = filepath.Join(rootDir, "isa_map.yaml")
	}

	topLevel, err := includesFromMap(mapPath, isaName)
	if err != nil {
		return nil, err
	}
	if len(topLevel) == 0 {
		return nil, mutatorerr.New(mutatorerr.ConfigError, mapPath,
			"ISA map entry resolved to zero schema files")
	}

	cache := make(map[string]*parsedFile)
	visited := make(map[string]bool)
	var ordered []string

	for _, rel := range topLevel {
		path := filepath.Join(rootDir, rel)
		if err := collectDependencies(path, &ordered, visited, cache); err != nil {
			return nil, err
		}
	}

	acc := &yaml.Node{Kind: yaml.MappingNode}
	anchors := make(anchorTable)

	for _, path := range ordered {
		pf := cache[path]
		resolveAliases(pf.root, anchors)
		collectAnchors(pf.root, anchors)
		acc = mergeNodes(acc, pf.root)
	}

	return project(acc, isaName)
}

// collectDependencies performs the DFS described in spec.md §4.E: visit
// path's extends/include targets before path itself, marking each file
// visited before recursing so a cycle is broken (not an error) rather than
// looping forever.
func collectDependencies(path string, ordered *[]string, visited map[string]bool, cache map[string]*parsedFile) error {
	if visited[path] {
		return nil
	}
	visited[path] = true

	pf, err := parseSchemaFile(path)
	if err != nil {
		return err
	}
	cache[path] = pf

	dir := filepath.Dir(path)
	deps := append(stringsFromKey(pf.root, "extends"), stringsFromKey(pf.root, "include")...)
	for _, rel := range deps {
		depPath := rel
		if !filepath.IsAbs(rel) {
			depPath = filepath.Join(dir, rel)
		}
		if err := collectDependencies(depPath, ordered, visited, cache); err != nil {
			return err
		}
	}

	*ordered = append(*ordered, path)
	return nil
}

func parseSchemaFile(path string) (*parsedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mutatorerr.Wrap(mutatorerr.ConfigError, path, "cannot read schema file", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, mutatorerr.Wrap(mutatorerr.ConfigError, path, "invalid YAML", err)
	}
	if len(doc.Content) == 0 {
		return &parsedFile{path: path, root: &yaml.Node{Kind: yaml.MappingNode}}, nil
	}
	return &parsedFile{path: path, root: doc.Content[0]}, nil
}

// stringsFromKey returns the scalar sequence bound to key in mapping root,
// or nil if absent.
func stringsFromKey(root *yaml.Node, key string) []string {
	seq := mappingGet(root, key)
	if seq == nil {
		return nil
	}
	return sequenceToStrings(seq)
}
