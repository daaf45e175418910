package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// jsonNode is the serialized form of one target in ToJSON output.
type jsonNode struct {
	Label        string   `json:"label"`
	Kind         string   `json:"kind,omitempty"`
	Test         bool     `json:"test,omitempty"`
	Deps         []string `json:"deps,omitempty"`
	ExternalDeps []string `json:"external_deps,omitempty"`
}

// jsonGraph is the top-level ToJSON structure.
type jsonGraph struct {
	Targets       []jsonNode `json:"targets"`
	ExternalRepos []string   `json:"external_repos,omitempty"`
	Stats         Stats      `json:"stats"`
}

// ToJSON outputs the graph as deterministic, indented JSON: targets sorted
// by label, dependencies sorted within each target.
func (g *Graph) ToJSON() ([]byte, error) {
	out := jsonGraph{
		Targets:       make([]jsonNode, 0, len(g.Nodes)),
		ExternalRepos: sortedStringKeys(g.ExternalRepos),
		Stats:         g.Stats(),
	}

	for _, key := range g.sortedKeys() {
		node := g.Nodes[key]
		jn := jsonNode{
			Label: key.String(),
			Kind:  node.Kind,
			Test:  node.IsTest,
		}
		for _, dep := range node.Deps {
			if g.resolvesExternally(dep) {
				jn.ExternalDeps = append(jn.ExternalDeps, dep.String())
			} else {
				jn.Deps = append(jn.Deps, dep.String())
			}
		}
		out.Targets = append(out.Targets, jn)
	}

	return json.MarshalIndent(out, "", "  ")
}

// ToDOT outputs the graph in Graphviz DOT format. Test targets render as
// boxes, libraries as ellipses, external references as dashed grey nodes.
func (g *Graph) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph targets {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [fontname=\"Helvetica\", fontsize=11];\n\n")

	externals := make(map[string]bool)

	for _, key := range g.sortedKeys() {
		node := g.Nodes[key]
		shape := "ellipse"
		if node.IsTest {
			shape = "box"
		}
		fmt.Fprintf(&buf, "  %q [shape=%s];\n", key.String(), shape)

		for _, dep := range node.Deps {
			if g.resolvesExternally(dep) {
				externals[dep.String()] = true
			}
		}
	}

	if len(externals) > 0 {
		buf.WriteString("\n")
		for _, ext := range sortedStringKeys(externals) {
			fmt.Fprintf(&buf, "  %q [shape=ellipse, style=dashed, color=grey];\n", ext)
		}
	}

	buf.WriteString("\n")
	for _, key := range g.sortedKeys() {
		for _, dep := range g.Nodes[key].Deps {
			fmt.Fprintf(&buf, "  %q -> %q;\n", key.String(), dep.String())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ToText outputs a human-readable listing: one line per target with its
// dependencies indented below.
func (g *Graph) ToText() string {
	var b strings.Builder

	stats := g.Stats()
	fmt.Fprintf(&b, "%d targets (%d tests), %d internal edges, %d external edges, max depth %d\n\n",
		stats.Targets, stats.Tests, stats.Edges, stats.ExternalEdges, stats.MaxDepth)

	for _, key := range g.sortedKeys() {
		node := g.Nodes[key]
		kind := node.Kind
		if kind == "" {
			kind = "unknown"
		}
		fmt.Fprintf(&b, "%s (%s)\n", key.String(), kind)
		for _, dep := range node.Deps {
			marker := ""
			if g.resolvesExternally(dep) {
				marker = " [external]"
			} else if !g.Contains(dep) {
				marker = " [UNRESOLVED]"
			}
			fmt.Fprintf(&b, "  -> %s%s\n", dep.String(), marker)
		}
	}

	return b.String()
}
