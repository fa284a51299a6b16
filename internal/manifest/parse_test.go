package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullManifest = `<?xml version="1.0"?>
<?xml-model href="http://download.ros.org/schema/package_format3.xsd" schematypens="http://www.w3.org/2001/XMLSchema"?>
<package format="3">
  <name>zzz_package</name>
  <version>1.0.0</version>
  <description>This is a cmake package</description>
  <maintainer email="foo@bar.com">Foo Bar</maintainer>
  <license>MIT</license>

  <buildtool_depend>ament_cmake</buildtool_depend>

  <depend>dep1</depend>
  <depend>dep2</depend>

  <build_depend>build_dep1</build_depend>
  <build_depend>build_dep2</build_depend>

  <test_depend>test_dep1</test_depend>
  <test_depend>test_dep2</test_depend>

  <exec_depend>exec_dep1</exec_depend>
  <exec_depend>exec_dep2</exec_depend>

  <export>
    <build_type>ament_cmake</build_type>
  </export>
</package>
`

func TestParse_FullManifest(t *testing.T) {
	pkg, err := Parse(strings.NewReader(fullManifest), "/ws/src/zzz")
	require.NoError(t, err)

	assert.Equal(t, "zzz_package", pkg.Name)
	assert.Equal(t, "/ws/src/zzz", pkg.Path)

	byType := map[DepType][]string{}
	for _, d := range pkg.Deps {
		byType[d.Type] = append(byType[d.Type], d.Name)
	}
	assert.Equal(t, []string{"dep1", "dep2"}, byType[DepAll])
	assert.Equal(t, []string{"build_dep1", "build_dep2"}, byType[DepBuild])
	assert.Equal(t, []string{"exec_dep1", "exec_dep2"}, byType[DepExec])
	assert.Equal(t, []string{"test_dep1", "test_dep2"}, byType[DepTest])
}

func TestParse_EmptyManifest(t *testing.T) {
	manifest := `<?xml version="1.0"?>
<package format="3">
  <name>zzz_package</name>
  <version>1.0.0</version>
  <buildtool_depend>ament_cmake</buildtool_depend>
</package>`

	pkg, err := Parse(strings.NewReader(manifest), "/ws/src/zzz")
	require.NoError(t, err)
	assert.Equal(t, "zzz_package", pkg.Name)
	assert.Empty(t, pkg.Deps, "buildtool_depend should be ignored")
}

func TestParse_Broken(t *testing.T) {
	broken := []string{
		`<?xml version="1.0"?>
farts
</package>`,
		`nothing`,
		`<package><version>1.0</version></package>`, // no name
	}
	for _, m := range broken {
		_, err := Parse(strings.NewReader(m), "/bad")
		assert.Error(t, err, "manifest should not parse: %q", m)
		if err != nil {
			assert.Contains(t, err.Error(), "/bad")
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(file, []byte(fullManifest), 0o644))

	pkg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "zzz_package", pkg.Name)
	assert.Equal(t, dir, pkg.Path)
	assert.Len(t, pkg.Deps, 8)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	assert.Error(t, err)
}
