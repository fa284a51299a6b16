package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosworks/wsclean/internal/cli/config"
	clitest "github.com/rosworks/wsclean/internal/cli/testutil"
	"github.com/rosworks/wsclean/internal/testutil"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestResolveRoots(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	roots, err := resolveRoots([]string{"b", "a", "b", "."})
	require.NoError(t, err)

	want := []string{dir, filepath.Join(dir, "a"), filepath.Join(dir, "b")}
	assert.Equal(t, want, roots)
}

func TestGatherPruneInputs(t *testing.T) {
	upstream := clitest.SetupWorkspace(t,
		clitest.Pkg{Name: "a", Deps: []string{"b"}},
		clitest.Pkg{Name: "b"},
		clitest.Pkg{Name: "c"},
	)
	ws := clitest.SetupWorkspace(t,
		clitest.Pkg{Name: "robot", Deps: []string{"a"}},
	)

	cfg := &config.Config{Upstream: upstream, Workspaces: []string{ws}}
	wsPkgs, upPkgs, err := gatherPruneInputs(context.Background(), cfg, testutil.NewTestLogger(t))
	require.NoError(t, err)

	require.Len(t, wsPkgs, 1)
	assert.Equal(t, "robot", wsPkgs[0].Name)
	assert.Len(t, upPkgs, 3)
}

func TestGatherPruneInputs_DefaultWorkspaceIsCWD(t *testing.T) {
	upstream := clitest.SetupWorkspace(t, clitest.Pkg{Name: "a"})

	wsDir := t.TempDir()
	clitest.WritePackage(t, filepath.Join(wsDir, "here"), clitest.Pkg{Name: "here"})
	chdir(t, wsDir)

	cfg := &config.Config{Upstream: upstream}
	wsPkgs, _, err := gatherPruneInputs(context.Background(), cfg, testutil.NewTestLogger(t))
	require.NoError(t, err)

	require.Len(t, wsPkgs, 1)
	assert.Equal(t, "here", wsPkgs[0].Name)
}

func TestGatherPruneInputs_PackageSeeding(t *testing.T) {
	upstream := clitest.SetupWorkspace(t,
		clitest.Pkg{Name: "a", Deps: []string{"b"}},
		clitest.Pkg{Name: "b"},
		clitest.Pkg{Name: "c"},
	)

	cfg := &config.Config{Upstream: upstream, Packages: []string{"a"}}
	wsPkgs, _, err := gatherPruneInputs(context.Background(), cfg, testutil.NewTestLogger(t))
	require.NoError(t, err)

	require.Len(t, wsPkgs, 1)
	assert.Equal(t, "a", wsPkgs[0].Name)
}

func TestGatherPruneInputs_EmptyWorkspaceIsError(t *testing.T) {
	upstream := clitest.SetupWorkspace(t, clitest.Pkg{Name: "a"})
	emptyWS := t.TempDir()

	cfg := &config.Config{Upstream: upstream, Workspaces: []string{emptyWS}}
	_, _, err := gatherPruneInputs(context.Background(), cfg, testutil.NewTestLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "would prune every package")
}

func TestGatherPruneInputs_UnknownPackageIsError(t *testing.T) {
	upstream := clitest.SetupWorkspace(t, clitest.Pkg{Name: "a"})

	// An unknown package name leaves the workspace set empty, which is
	// refused rather than pruning everything.
	cfg := &config.Config{Upstream: upstream, Packages: []string{"nope"}}
	_, _, err := gatherPruneInputs(context.Background(), cfg, testutil.NewTestLogger(t))
	assert.Error(t, err)
}
