package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosworks/wsclean/internal/manifest"
)

func TestEffectiveMode(t *testing.T) {
	cases := []struct {
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{ModeJSON, true, ModeJSON},
		{ModeText, false, ModeText},
		{"", false, ModeMarkdown},
	}
	for _, c := range cases {
		r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, c.isTTY, c.mode)
		assert.Equal(t, c.want, r.EffectiveMode(), "mode=%q tty=%v", c.mode, c.isTTY)
	}
}

func TestHeader_Markdown(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeMarkdown)

	r.Header(2, "Unused packages")
	assert.Equal(t, "## Unused packages\n", out.String())
}

func TestWarning_GoesToErrStream(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeMarkdown)

	r.Warning("workspace is empty")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "workspace is empty")
}

func TestJSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeJSON)

	require.NoError(t, r.JSON(map[string]int{"unused": 3}))
	assert.JSONEq(t, `{"unused": 3}`, out.String())
}

func TestPackageTable_Markdown(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeMarkdown)

	r.PackageTable([]manifest.Package{
		{Name: "nav", Path: "/ws/nav", Deps: []manifest.Dependency{
			{Name: "geometry", Type: manifest.DepAll},
			{Name: "tf", Type: manifest.DepBuild},
		}},
	})

	got := out.String()
	assert.Contains(t, got, "| nav ")
	assert.Contains(t, got, "geometry, tf")
}

func TestPackageList(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeMarkdown)

	r.PackageList(nil)
	assert.Equal(t, "(none)\n", out.String())

	out.Reset()
	r.PackageList([]manifest.Package{{Name: "a", Path: "/a"}, {Name: "b", Path: "/b"}})
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{"a (/a)", "b (/b)"}, lines)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Title", FormatHeader(2, "Title"))
	assert.Equal(t, "- **Action**: print", FormatKeyValue("Action", "print"))
}
