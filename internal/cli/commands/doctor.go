package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rosworks/wsclean/internal/cli/output"
	"github.com/rosworks/wsclean/internal/depgraph"
	"github.com/rosworks/wsclean/internal/manifest"
	"github.com/rosworks/wsclean/internal/workspace"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor [path...]",
		Short: "Check workspaces for common manifest problems",
		Long: `Scan the given trees (default: configured upstream and workspaces,
falling back to the current directory) and report:

  - duplicate package names across directories
  - dependency cycles
  - external dependencies (resolved by rosdep/system, not the workspace)
  - summary statistics of the dependency graph`,
		Example: `  # Check the current directory
  wsclean doctor

  # Check the full setup as JSON
  wsclean doctor ~/deps_ws ~/robot_ws --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, args)
		},
	}
	return cmd
}

// doctorReport is the JSON payload of the doctor command.
type doctorReport struct {
	Packages   int                 `json:"packages"`
	Edges      int                 `json:"edges"`
	Roots      []string            `json:"roots"`
	Leaves     []string            `json:"leaves"`
	Duplicates map[string][]string `json:"duplicates,omitempty"`
	Cycle      []string            `json:"cycle,omitempty"`
	External   []string            `json:"external,omitempty"`
	Issues     int                 `json:"issues"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	paths := args
	if len(paths) == 0 {
		if cfg.Upstream != "" {
			paths = append(paths, cfg.Upstream)
		}
		paths = append(paths, cfg.Workspaces...)
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

	report := buildDoctorReport(pkgs)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(report)
	}

	r.Header(1, "Workspace health")
	r.Println(output.FormatKeyValue("Packages", fmt.Sprintf("%d", report.Packages)))
	r.Println(output.FormatKeyValue("Dependency edges", fmt.Sprintf("%d", report.Edges)))
	r.Println(output.FormatKeyValue("Top-level packages", strings.Join(report.Roots, ", ")))
	r.Println(output.FormatKeyValue("External dependencies", fmt.Sprintf("%d", len(report.External))))
	r.Println()

	if len(report.Duplicates) > 0 {
		for name, dirs := range report.Duplicates {
			r.Warning(fmt.Sprintf("duplicate package %q in: %s", name, strings.Join(dirs, ", ")))
		}
	}
	if len(report.Cycle) > 0 {
		r.Warning(fmt.Sprintf("dependency cycle: %s", strings.Join(report.Cycle, " -> ")))
	}

	if report.Issues == 0 {
		r.Success("No issues found.")
	} else {
		r.Printf("%d issue(s) found.\n", report.Issues)
	}
	return nil
}

func buildDoctorReport(pkgs []manifest.Package) doctorReport {
	graph := depgraph.Build(pkgs, nil)

	report := doctorReport{
		Packages: len(pkgs),
		Edges:    graph.EdgeCount(),
		Roots:    graph.Roots(),
		Leaves:   graph.Leaves(),
		External: graph.External(),
	}

	byName := make(map[string][]string)
	for _, p := range pkgs {
		byName[p.Name] = append(byName[p.Name], p.Path)
	}
	for name, dirs := range byName {
		if len(dirs) > 1 {
			if report.Duplicates == nil {
				report.Duplicates = make(map[string][]string)
			}
			report.Duplicates[name] = dirs
			report.Issues++
		}
	}

	if hasCycle, cycle := graph.HasCycle(); hasCycle {
		report.Cycle = cycle
		report.Issues++
	}
	return report
}
