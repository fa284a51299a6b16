// Package prune computes which upstream packages are not needed by a
// set of workspace packages.
package prune

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/rosworks/wsclean/internal/manifest"
)

// FindUnused returns the upstream packages that are not transitive
// dependencies of any workspace package, considering only dependency
// declarations admitted by filter (nil means all).
//
// Upstream packages that also appear in the workspace set (overlapping
// trees) are never reported. Dependency names that resolve to no
// upstream package, such as system packages, are ignored.
func FindUnused(workspace, upstream []manifest.Package, filter manifest.Filter) []manifest.Package {
	if filter == nil {
		filter = manifest.FilterAll
	}

	// Names directly required by the workspace.
	used := mapset.NewThreadUnsafeSet[string]()
	for _, p := range workspace {
		for _, d := range p.Deps {
			if filter(d) {
				used.Add(d.Name)
			}
		}
	}

	inWorkspace := mapset.NewThreadUnsafeSet[string]()
	for _, p := range workspace {
		inWorkspace.Add(p.Name + "\x00" + p.Path)
	}

	// Every upstream package starts as a removal candidate unless the
	// workspaces overlap the upstream tree.
	candidates := make(map[string]manifest.Package, len(upstream))
	for _, p := range upstream {
		if !inWorkspace.Contains(p.Name + "\x00" + p.Path) {
			candidates[p.Name] = p
		}
	}

	for name := range used.Iter() {
		discharge(candidates, name, filter)
	}

	unused := make([]manifest.Package, 0, len(candidates))
	for _, p := range candidates {
		unused = append(unused, p)
	}
	manifest.SortPackages(unused)
	return unused
}

// discharge removes a used package from the candidate set and recurses
// into its filtered dependencies, so that transitively required
// packages survive as well.
func discharge(candidates map[string]manifest.Package, name string, filter manifest.Filter) {
	p, ok := candidates[name]
	if !ok {
		return
	}
	delete(candidates, name)
	for _, d := range p.Deps {
		if filter(d) {
			discharge(candidates, d.Name, filter)
		}
	}
}
