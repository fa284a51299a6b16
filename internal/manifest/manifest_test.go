package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepType_Matches(t *testing.T) {
	cases := []struct {
		a, b DepType
		want bool
	}{
		{DepAll, DepAll, true},
		{DepAll, DepBuild, true},
		{DepExec, DepAll, true},
		{DepBuild, DepBuild, true},
		{DepBuild, DepExec, false},
		{DepTest, DepBuild, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.a.Matches(c.b), "%s vs %s", c.a, c.b)
	}
}

func TestParseDepType(t *testing.T) {
	for _, s := range []string{"all", "build", "exec", "test", "Build", " exec "} {
		_, err := ParseDepType(s)
		assert.NoError(t, err, s)
	}

	_, err := ParseDepType("runtime")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runtime")
}

func TestFilterTypes(t *testing.T) {
	build := Dependency{Name: "x", Type: DepBuild}
	exec := Dependency{Name: "x", Type: DepExec}
	all := Dependency{Name: "x", Type: DepAll}

	f := FilterTypes([]DepType{DepBuild})
	assert.True(t, f(build))
	assert.False(t, f(exec))
	assert.True(t, f(all), "all-typed deps match every filter")

	// Duplicates and ordering must not matter.
	f = FilterTypes([]DepType{DepExec, DepBuild, DepExec})
	assert.True(t, f(build))
	assert.True(t, f(exec))

	// Empty filter admits everything.
	f = FilterTypes(nil)
	assert.True(t, f(build))
	assert.True(t, f(exec))
}

func TestSortAndDedupePackages(t *testing.T) {
	pkgs := []Package{
		{Name: "b", Path: "/2"},
		{Name: "a", Path: "/1"},
		{Name: "a", Path: "/1"},
		{Name: "a", Path: "/0"},
	}
	SortPackages(pkgs)
	pkgs = DedupePackages(pkgs)

	require.Len(t, pkgs, 3)
	assert.Equal(t, Package{Name: "a", Path: "/0"}, pkgs[0])
	assert.Equal(t, Package{Name: "a", Path: "/1"}, pkgs[1])
	assert.Equal(t, Package{Name: "b", Path: "/2"}, pkgs[2])
}

func TestPackage_String(t *testing.T) {
	p := Package{Name: "nav", Path: "/ws/src/nav"}
	assert.Equal(t, "nav (/ws/src/nav)", p.String())
}
