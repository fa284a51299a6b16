package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rosworks/wsclean/internal/action"
	"github.com/rosworks/wsclean/internal/cli/output"
	"github.com/rosworks/wsclean/internal/manifest"
	"github.com/rosworks/wsclean/internal/prune"
)

// NewPruneCommand creates the prune command.
func NewPruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Mark or remove upstream packages the workspace does not need",
		Long: `Find upstream packages that are not transitive dependencies of any
workspace package and apply an action to them.

With no --workspace and no --package the current directory is the
workspace. The default action only prints the unused packages; the
ignore actions drop a marker file so colcon/catkin/ament skip the
package, and remove deletes the package directory.`,
		Example: `  # Show which upstream packages the workspace in . does not need
  wsclean prune --upstream ~/deps_ws

  # Hide unused packages from colcon, honoring only build dependencies
  wsclean prune -u ~/deps_ws -w ~/robot_ws --type build --action colcon-ignore

  # Keep only what two named packages need, delete the rest
  wsclean prune -u ~/deps_ws -p nav_stack -p vision --action remove --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPrune(cmd)
		},
	}
	return cmd
}

// pruneReport is the JSON payload of the prune command.
type pruneReport struct {
	Workspace []packageInfo `json:"workspace"`
	Upstream  []packageInfo `json:"upstream"`
	Unused    []packageInfo `json:"unused"`
	Action    string        `json:"action"`
	DryRun    bool          `json:"dry_run,omitempty"`
}

type packageInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

func packageInfos(pkgs []manifest.Package) []packageInfo {
	out := make([]packageInfo, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, packageInfo{Name: p.Name, Path: p.Path})
	}
	return out
}

func runPrune(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	if err := cfg.ValidateForPrune(); err != nil {
		return err
	}
	filter, err := cfg.Filter()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ws, upstream, err := gatherPruneInputs(ctx, cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}

	unused := prune.FindUnused(ws, upstream, filter)
	cmdCtx.Logger.Debug("computed unused set",
		"workspace", len(ws), "upstream", len(upstream), "unused", len(unused))

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(pruneReport{
			Workspace: packageInfos(ws),
			Upstream:  packageInfos(upstream),
			Unused:    packageInfos(unused),
			Action:    cfg.Action,
			DryRun:    cfg.DryRun,
		})
	}

	r.Header(2, "Workspace packages")
	r.PackageList(ws)
	r.Println()
	r.Header(2, "Upstream packages")
	r.PackageList(upstream)
	r.Println()

	act, err := action.New(cfg.Action, action.Options{
		Out:    r.Out(),
		Logger: cmdCtx.Logger,
		DryRun: cfg.DryRun,
	})
	if err != nil {
		return err
	}

	if cfg.Action == "print" {
		r.Header(2, "Unused packages")
	} else {
		r.Header(2, fmt.Sprintf("Applying %s to unused packages", act.Name()))
	}
	if len(unused) == 0 {
		r.Success("No unused packages.")
		return nil
	}
	for _, p := range unused {
		if err := act.Apply(ctx, action.Target{Name: p.Name, Path: p.Path}); err != nil {
			return err
		}
	}
	return nil
}
