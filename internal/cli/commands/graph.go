package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rosworks/wsclean/internal/cli/output"
	"github.com/rosworks/wsclean/internal/depgraph"
	"github.com/rosworks/wsclean/internal/workspace"
)

// GraphOptions holds options for the graph command.
type GraphOptions struct {
	DOT bool
}

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	opts := &GraphOptions{}
	cmd := &cobra.Command{
		Use:   "graph [path...]",
		Short: "Show the package dependency graph",
		Long: `Build and display the dependency graph of the packages found in the
given trees. Without arguments the configured upstream and workspaces
are scanned, falling back to the current directory.

Dependencies honoring the --type filter form the edges; dependency
names with no matching package (system dependencies) are listed as
external.`,
		Example: `  # Show the graph of the current directory
  wsclean graph

  # Graphviz output for the whole setup
  wsclean graph ~/deps_ws ~/robot_ws --dot | dot -Tsvg > deps.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.DOT, "dot", false, "Emit Graphviz DOT output")
	return cmd
}

// graphReport is the JSON payload of the graph command.
type graphReport struct {
	Nodes    []graphNode `json:"nodes"`
	External []string    `json:"external,omitempty"`
}

type graphNode struct {
	Name       string   `json:"name"`
	Path       string   `json:"path"`
	Deps       []string `json:"deps,omitempty"`
	Dependents []string `json:"dependents,omitempty"`
}

func runGraph(cmd *cobra.Command, args []string, opts *GraphOptions) error {
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
	filter, err := cfg.Filter()
	if err != nil {
		return err
	}
	graph := depgraph.Build(pkgs, filter)

	if opts.DOT {
		return graph.DOT(r.Out())
	}

	if r.EffectiveMode() == output.ModeJSON {
		report := graphReport{External: graph.External()}
		for _, name := range graph.Names() {
			p, _ := graph.Package(name)
			report.Nodes = append(report.Nodes, graphNode{
				Name:       name,
				Path:       p.Path,
				Deps:       graph.Dependencies(name),
				Dependents: graph.Dependents(name),
			})
		}
		return r.JSON(report)
	}

	r.Header(1, fmt.Sprintf("Dependency graph (%d packages, %d edges)", graph.NodeCount(), graph.EdgeCount()))

	sorted, err := graph.TopologicalSort()
	if err != nil {
		return err
	}
	for _, p := range sorted {
		deps := graph.Dependencies(p.Name)
		if len(deps) == 0 {
			r.Println(p.Name)
			continue
		}
		r.Printf("%s <- %s\n", p.Name, strings.Join(deps, ", "))
	}

	if ext := graph.External(); len(ext) > 0 {
		r.Println()
		r.Header(2, "External dependencies")
		for _, name := range ext {
			r.Println(name)
		}
	}
	return nil
}
