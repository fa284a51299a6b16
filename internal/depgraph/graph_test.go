package depgraph

import (
	"errors"
	"strings"
	"testing"

	"github.com/rosworks/wsclean/internal/manifest"
)

func pkg(name string, deps ...string) manifest.Package {
	p := manifest.Package{Name: name, Path: "/" + name}
	for _, d := range deps {
		p.Deps = append(p.Deps, manifest.Dependency{Name: d, Type: manifest.DepAll})
	}
	return p
}

func TestBuild_EdgesAndCounts(t *testing.T) {
	g := Build([]manifest.Package{
		pkg("a"),
		pkg("b", "a"),
		pkg("c", "a", "b"),
	}, nil)

	if g.NodeCount() != 3 {
		t.Errorf("expected 3 nodes, got %d", g.NodeCount())
	}
	if g.EdgeCount() != 3 {
		t.Errorf("expected 3 edges, got %d", g.EdgeCount())
	}

	deps := g.Dependencies("c")
	if len(deps) != 2 || deps[0] != "a" || deps[1] != "b" {
		t.Errorf("unexpected dependencies of c: %v", deps)
	}
	dependents := g.Dependents("a")
	if len(dependents) != 2 {
		t.Errorf("expected 2 dependents of a, got %v", dependents)
	}
}

func TestBuild_ExternalDeps(t *testing.T) {
	g := Build([]manifest.Package{pkg("a", "libfoo", "b"), pkg("b")}, nil)

	ext := g.External()
	if len(ext) != 1 || ext[0] != "libfoo" {
		t.Errorf("expected external [libfoo], got %v", ext)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("external deps must not create edges, got %d", g.EdgeCount())
	}
}

func TestBuild_Filter(t *testing.T) {
	p := manifest.Package{Name: "a", Path: "/a", Deps: []manifest.Dependency{
		{Name: "b", Type: manifest.DepTest},
	}}
	g := Build([]manifest.Package{p, pkg("b")}, manifest.FilterTypes([]manifest.DepType{manifest.DepBuild}))

	if g.EdgeCount() != 0 {
		t.Errorf("test dep should be filtered out, got %d edges", g.EdgeCount())
	}
}

func TestGraph_RootsAndLeaves(t *testing.T) {
	g := Build([]manifest.Package{pkg("a"), pkg("b", "a"), pkg("c", "b")}, nil)

	roots := g.Roots()
	if len(roots) != 1 || roots[0] != "c" {
		t.Errorf("expected roots [c], got %v", roots)
	}
	leaves := g.Leaves()
	if len(leaves) != 1 || leaves[0] != "a" {
		t.Errorf("expected leaves [a], got %v", leaves)
	}
}

func TestGraph_HasCycle(t *testing.T) {
	g := Build([]manifest.Package{pkg("a", "c"), pkg("b", "a"), pkg("c", "b")}, nil)

	hasCycle, cycle := g.HasCycle()
	if !hasCycle {
		t.Fatal("expected a cycle")
	}
	if len(cycle) < 4 || cycle[0] != cycle[len(cycle)-1] {
		t.Errorf("cycle path should start and end at the same node, got %v", cycle)
	}

	if _, err := g.TopologicalSort(); err == nil {
		t.Error("topological sort should fail on a cyclic graph")
	}
}

func TestGraph_NoCycle(t *testing.T) {
	g := Build([]manifest.Package{pkg("a"), pkg("b", "a"), pkg("c", "a", "b")}, nil)

	if hasCycle, cycle := g.HasCycle(); hasCycle {
		t.Errorf("unexpected cycle: %v", cycle)
	}
}

func TestGraph_TopologicalSort(t *testing.T) {
	g := Build([]manifest.Package{pkg("c", "b"), pkg("b", "a"), pkg("a")}, nil)

	sorted, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("topological sort failed: %v", err)
	}

	pos := make(map[string]int)
	for i, p := range sorted {
		pos[p.Name] = i
	}
	if !(pos["a"] < pos["b"] && pos["b"] < pos["c"]) {
		t.Errorf("wrong order: %v", pos)
	}
}

func TestGraph_DOT(t *testing.T) {
	g := Build([]manifest.Package{pkg("a", "libsys"), pkg("b", "a")}, nil)

	var sb strings.Builder
	if err := g.DOT(&sb); err != nil {
		t.Fatalf("DOT failed: %v", err)
	}
	out := sb.String()

	for _, want := range []string{"digraph packages", `"a" -> "b";`, `"libsys" [style=dashed];`} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestGraph_DOTWriteError(t *testing.T) {
	g := Build([]manifest.Package{pkg("a", "libsys"), pkg("b", "a")}, nil)

	if err := g.DOT(failWriter{}); err == nil {
		t.Error("DOT to a failing writer should return an error")
	}
}

func TestBuild_DuplicateNamesFirstWins(t *testing.T) {
	first := manifest.Package{Name: "dup", Path: "/one"}
	second := manifest.Package{Name: "dup", Path: "/two"}
	g := Build([]manifest.Package{first, second}, nil)

	got, ok := g.Package("dup")
	if !ok || got.Path != "/one" {
		t.Errorf("expected first duplicate to win, got %v", got)
	}
}
