package manifest

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileName is the manifest file name recognized inside a package
// directory.
const FileName = "package.xml"

// packageXML mirrors the subset of the ROS package manifest format
// (format 2/3) that matters for dependency pruning. Everything else,
// including buildtool_depend, is ignored.
type packageXML struct {
	XMLName     xml.Name `xml:"package"`
	Name        string   `xml:"name"`
	Depend      []string `xml:"depend"`
	BuildDepend []string `xml:"build_depend"`
	ExecDepend  []string `xml:"exec_depend"`
	TestDepend  []string `xml:"test_depend"`
}

// Parse reads a package manifest. dir becomes the package path.
func Parse(r io.Reader, dir string) (Package, error) {
	var m packageXML
	if err := xml.NewDecoder(r).Decode(&m); err != nil {
		return Package{}, fmt.Errorf("parsing manifest in %s: %w", dir, err)
	}
	if m.Name == "" {
		return Package{}, fmt.Errorf("parsing manifest in %s: missing <name>", dir)
	}

	deps := make([]Dependency, 0, len(m.Depend)+len(m.BuildDepend)+len(m.ExecDepend)+len(m.TestDepend))
	for _, n := range m.Depend {
		deps = append(deps, Dependency{Name: n, Type: DepAll})
	}
	for _, n := range m.BuildDepend {
		deps = append(deps, Dependency{Name: n, Type: DepBuild})
	}
	for _, n := range m.ExecDepend {
		deps = append(deps, Dependency{Name: n, Type: DepExec})
	}
	for _, n := range m.TestDepend {
		deps = append(deps, Dependency{Name: n, Type: DepTest})
	}

	return Package{Name: m.Name, Path: dir, Deps: deps}, nil
}

// Load parses the manifest at the given file path. The package path is
// the directory containing the file.
func Load(file string) (Package, error) {
	f, err := os.Open(file)
	if err != nil {
		return Package{}, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()
	return Parse(f, filepath.Dir(file))
}
