// Package manifest models ROS package manifests: a package name, the
// directory it was found in, and its declared dependencies.
package manifest

import (
	"fmt"
	"sort"
	"strings"
)

// DepType classifies a dependency declaration in a package manifest.
type DepType string

const (
	// DepAll covers <depend> entries, which apply to every phase.
	DepAll DepType = "all"
	// DepBuild covers <build_depend> entries.
	DepBuild DepType = "build"
	// DepExec covers <exec_depend> entries.
	DepExec DepType = "exec"
	// DepTest covers <test_depend> entries.
	DepTest DepType = "test"
)

// DepTypes lists the valid dependency types (sorted).
func DepTypes() []DepType {
	return []DepType{DepAll, DepBuild, DepExec, DepTest}
}

// ParseDepType parses a dependency type name as used on the command
// line and in config files.
func ParseDepType(s string) (DepType, error) {
	switch DepType(strings.ToLower(strings.TrimSpace(s))) {
	case DepAll:
		return DepAll, nil
	case DepBuild:
		return DepBuild, nil
	case DepExec:
		return DepExec, nil
	case DepTest:
		return DepTest, nil
	}
	return "", fmt.Errorf("unknown dependency type %q (valid: all, build, exec, test)", s)
}

// Matches reports whether two dependency types are compatible.
// DepAll matches every type, in both directions.
func (t DepType) Matches(other DepType) bool {
	return t == DepAll || other == DepAll || t == other
}

// Dependency is a single dependency declaration of a package.
type Dependency struct {
	Name string
	Type DepType
}

// Package is a manifest found on disk.
type Package struct {
	// Name is the package name from the manifest.
	Name string
	// Path is the directory containing package.xml.
	Path string
	// Deps holds the declared dependencies, in manifest order.
	Deps []Dependency
}

func (p Package) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Path)
}

// Same reports whether two packages refer to the same manifest,
// identified by name and directory.
func (p Package) Same(other Package) bool {
	return p.Name == other.Name && p.Path == other.Path
}

// Filter selects which dependency declarations are honored when
// walking the dependency graph.
type Filter func(Dependency) bool

// FilterAll admits every dependency.
func FilterAll(Dependency) bool { return true }

// FilterTypes admits dependencies matching any of the given types.
// An empty list admits everything, matching the default behavior of
// the prune command.
func FilterTypes(types []DepType) Filter {
	if len(types) == 0 {
		return FilterAll
	}
	set := make([]DepType, len(types))
	copy(set, types)
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
	set = dedupeTypes(set)
	return func(d Dependency) bool {
		for _, t := range set {
			if t.Matches(d.Type) {
				return true
			}
		}
		return false
	}
}

func dedupeTypes(sorted []DepType) []DepType {
	out := sorted[:0]
	for i, t := range sorted {
		if i == 0 || sorted[i-1] != t {
			out = append(out, t)
		}
	}
	return out
}

// SortPackages orders packages by name, then path.
func SortPackages(pkgs []Package) {
	sort.SliceStable(pkgs, func(i, j int) bool {
		if pkgs[i].Name != pkgs[j].Name {
			return pkgs[i].Name < pkgs[j].Name
		}
		return pkgs[i].Path < pkgs[j].Path
	})
}

// DedupePackages removes adjacent duplicates (same name and path)
// from a sorted slice.
func DedupePackages(sorted []Package) []Package {
	out := sorted[:0]
	for i, p := range sorted {
		if i == 0 || !sorted[i-1].Same(p) {
			out = append(out, p)
		}
	}
	return out
}
