// Package depgraph builds a dependency graph over package manifests.
// It supports cycle detection, topological sorting and Graphviz export
// for the graph and doctor commands.
package depgraph

import (
	"fmt"
	"io"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/rosworks/wsclean/internal/manifest"
)

// Graph is a package dependency graph keyed by package name.
// Edges point from a dependency to its dependents.
type Graph struct {
	nodes        map[string]manifest.Package
	dependents   map[string][]string // dep name -> packages depending on it
	dependencies map[string][]string // pkg name -> deps within the node set
	external     mapset.Set[string]  // dep names with no matching package
}

// Build constructs the graph for the given packages, honoring only
// dependencies admitted by filter (nil means all). When several
// packages share a name the first one wins; the doctor command reports
// such duplicates separately.
func Build(pkgs []manifest.Package, filter manifest.Filter) *Graph {
	if filter == nil {
		filter = manifest.FilterAll
	}
	g := &Graph{
		nodes:        make(map[string]manifest.Package, len(pkgs)),
		dependents:   make(map[string][]string),
		dependencies: make(map[string][]string),
		external:     mapset.NewThreadUnsafeSet[string](),
	}

	for _, p := range pkgs {
		if _, exists := g.nodes[p.Name]; !exists {
			g.nodes[p.Name] = p
		}
	}

	for name, p := range g.nodes {
		for _, d := range p.Deps {
			if !filter(d) {
				continue
			}
			if d.Name == name {
				continue // self-references carry no information
			}
			if _, exists := g.nodes[d.Name]; !exists {
				g.external.Add(d.Name)
				continue
			}
			if !contains(g.dependencies[name], d.Name) {
				g.dependencies[name] = append(g.dependencies[name], d.Name)
			}
			if !contains(g.dependents[d.Name], name) {
				g.dependents[d.Name] = append(g.dependents[d.Name], name)
			}
		}
	}
	return g
}

// Package returns the package for a node name.
func (g *Graph) Package(name string) (manifest.Package, bool) {
	p, ok := g.nodes[name]
	return p, ok
}

// Dependencies returns the in-graph dependencies of a package (sorted).
func (g *Graph) Dependencies(name string) []string {
	return sortedCopy(g.dependencies[name])
}

// Dependents returns the packages depending on the given one (sorted).
func (g *Graph) Dependents(name string) []string {
	return sortedCopy(g.dependents[name])
}

// External returns dependency names that resolve to no package in the
// graph, sorted. These are typically system dependencies.
func (g *Graph) External() []string {
	out := g.external.ToSlice()
	sort.Strings(out)
	return out
}

// Names returns all node names, sorted.
func (g *Graph) Names() []string {
	out := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// NodeCount returns the number of packages in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of dependency edges in the graph.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, deps := range g.dependencies {
		n += len(deps)
	}
	return n
}

// Roots returns packages nothing in the graph depends on (sorted).
func (g *Graph) Roots() []string {
	var out []string
	for name := range g.nodes {
		if len(g.dependents[name]) == 0 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Leaves returns packages with no in-graph dependencies (sorted).
func (g *Graph) Leaves() []string {
	var out []string
	for name := range g.nodes {
		if len(g.dependencies[name]) == 0 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// HasCycle reports whether the graph contains a dependency cycle and
// returns one such cycle for diagnostics.
func (g *Graph) HasCycle() (bool, []string) {
	visited := mapset.NewThreadUnsafeSet[string]()
	onStack := mapset.NewThreadUnsafeSet[string]()
	cameFrom := make(map[string]string)

	var cycle []string
	var dfs func(name string) bool
	dfs = func(name string) bool {
		visited.Add(name)
		onStack.Add(name)
		for _, dep := range g.dependencies[name] {
			if !visited.Contains(dep) {
				cameFrom[dep] = name
				if dfs(dep) {
					return true
				}
			} else if onStack.Contains(dep) {
				cycle = []string{dep}
				for curr := name; curr != dep; curr = cameFrom[curr] {
					cycle = append([]string{curr}, cycle...)
				}
				cycle = append([]string{dep}, cycle...)
				return true
			}
		}
		onStack.Remove(name)
		return false
	}

	for _, name := range g.Names() {
		if !visited.Contains(name) && dfs(name) {
			return true, cycle
		}
	}
	return false, nil
}

// TopologicalSort returns packages with dependencies before their
// dependents. Returns an error when the graph contains a cycle.
func (g *Graph) TopologicalSort() ([]manifest.Package, error) {
	if hasCycle, cycle := g.HasCycle(); hasCycle {
		return nil, fmt.Errorf("dependency cycle: %v", cycle)
	}

	visited := mapset.NewThreadUnsafeSet[string]()
	var result []manifest.Package

	var visit func(name string)
	visit = func(name string) {
		if visited.Contains(name) {
			return
		}
		visited.Add(name)
		for _, dep := range g.Dependencies(name) {
			visit(dep)
		}
		result = append(result, g.nodes[name])
	}

	for _, name := range g.Names() {
		visit(name)
	}
	return result, nil
}

// DOT writes the graph in Graphviz format. External dependencies are
// drawn as dashed boxes.
func (g *Graph) DOT(w io.Writer) error {
	var err error
	write := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	write("digraph packages {\n")
	write("  rankdir=LR;\n")
	write("  node [shape=box];\n")
	for _, name := range g.Names() {
		write("  %q;\n", name)
		for _, dep := range g.Dependencies(name) {
			write("  %q -> %q;\n", dep, name)
		}
	}
	for _, ext := range g.External() {
		write("  %q [style=dashed];\n", ext)
	}
	write("}\n")
	return err
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
