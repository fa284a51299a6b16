package output

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/rosworks/wsclean/internal/manifest"
)

// PackageTable renders packages with their dependencies as a table in
// text mode or a markdown pipe table otherwise.
func (r *Renderer) PackageTable(pkgs []manifest.Package) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.AppendHeader(table.Row{"Package", "Path", "Dependencies"})

	for _, p := range pkgs {
		names := make([]string, 0, len(p.Deps))
		for _, d := range p.Deps {
			names = append(names, d.Name)
		}
		t.AppendRow(table.Row{p.Name, p.Path, strings.Join(names, ", ")})
	}

	if r.EffectiveMode() == ModeText {
		t.SetStyle(table.StyleLight)
		t.Render()
		return
	}
	t.RenderMarkdown()
}

// PackageList writes packages one per line, "name (path)".
func (r *Renderer) PackageList(pkgs []manifest.Package) {
	if len(pkgs) == 0 {
		r.Println("(none)")
		return
	}
	for _, p := range pkgs {
		r.Println(p.String())
	}
}
