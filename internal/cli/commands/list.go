package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rosworks/wsclean/internal/cli/output"
	"github.com/rosworks/wsclean/internal/manifest"
	"github.com/rosworks/wsclean/internal/workspace"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [path...]",
		Short: "List the packages found in one or more workspaces",
		Long: `Scan workspace trees and list every package with its declared
dependencies. Without arguments the configured workspaces are scanned,
falling back to the current directory.

Output adapts to environment:
  - Terminal: table
  - Piped/Scripted: markdown
Use --output to override: auto, text, markdown, json`,
		Example: `  # List packages under the current directory
  wsclean list

  # List packages of two workspaces as JSON
  wsclean list ~/robot_ws ~/deps_ws --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args)
		},
	}
	return cmd
}

// listEntry is the JSON payload for one package.
type listEntry struct {
	Name string    `json:"name"`
	Path string    `json:"path"`
	Deps []listDep `json:"deps,omitempty"`
}

type listDep struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func runList(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	paths := args
	if len(paths) == 0 {
		paths = cmdCtx.Cfg.Workspaces
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}
	roots, err := resolveRoots(paths)
	if err != nil {
		return err
	}

	pkgs, err := workspace.ScanAll(cmd.Context(), roots)
	if err != nil {
		return fmt.Errorf("enumerating workspaces: %w", err)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(listEntries(pkgs))
	}

	r.Header(1, fmt.Sprintf("Packages (%d total)", len(pkgs)))
	if len(pkgs) == 0 {
		r.Println("(none)")
		return nil
	}
	r.PackageTable(pkgs)
	return nil
}

func listEntries(pkgs []manifest.Package) []listEntry {
	out := make([]listEntry, 0, len(pkgs))
	for _, p := range pkgs {
		e := listEntry{Name: p.Name, Path: p.Path}
		for _, d := range p.Deps {
			e.Deps = append(e.Deps, listDep{Name: d.Name, Type: string(d.Type)})
		}
		out = append(out, e)
	}
	return out
}
