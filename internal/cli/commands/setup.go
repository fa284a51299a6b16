// Package commands implements the wsclean subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rosworks/wsclean/internal/cli/config"
	"github.com/rosworks/wsclean/internal/cli/output"
	"github.com/rosworks/wsclean/internal/manifest"
	"github.com/rosworks/wsclean/internal/workspace"
)

// CommandContext holds the dependencies shared by all commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds the command context from the configuration
// loaded by the root command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		cfg = &config.Config{Action: config.DefaultAction, OutputFormat: config.DefaultOutput}
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// resolveRoots normalizes a list of directory paths: absolute, sorted,
// deduplicated.
func resolveRoots(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("normalizing path %s: %w", p, err)
		}
		out = append(out, abs)
	}
	sort.Strings(out)
	deduped := out[:0]
	for i, p := range out {
		if i == 0 || out[i-1] != p {
			deduped = append(deduped, p)
		}
	}
	return deduped, nil
}

// gatherPruneInputs scans the upstream and workspace trees per the
// configuration and returns both package sets. When neither
// workspaces nor packages are configured the current directory is the
// workspace. Named packages are looked up in the upstream set and
// treated as workspace roots.
func gatherPruneInputs(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ws, upstream []manifest.Package, err error) {
	upstreamRoot, err := filepath.Abs(cfg.Upstream)
	if err != nil {
		return nil, nil, fmt.Errorf("normalizing upstream path %s: %w", cfg.Upstream, err)
	}

	upstream, err = workspace.ScanAll(ctx, []string{upstreamRoot})
	if err != nil {
		return nil, nil, fmt.Errorf("enumerating upstream workspace: %w", err)
	}
	logger.Debug("scanned upstream", "root", upstreamRoot, "packages", len(upstream))

	wsPaths := cfg.Workspaces
	if len(wsPaths) == 0 && len(cfg.Packages) == 0 {
		wsPaths = []string{"."}
	}
	roots, err := resolveRoots(wsPaths)
	if err != nil {
		return nil, nil, err
	}

	ws, err = workspace.ScanAll(ctx, roots)
	if err != nil {
		return nil, nil, fmt.Errorf("enumerating workspaces: %w", err)
	}
	logger.Debug("scanned workspaces", "roots", roots, "packages", len(ws))

	for _, name := range cfg.Packages {
		found := false
		for _, p := range upstream {
			if p.Name == name {
				ws = append(ws, p)
				found = true
			}
		}
		if !found {
			logger.Warn("requested package not found upstream", "package", name)
		}
	}

	if len(ws) == 0 {
		return nil, nil, fmt.Errorf(
			"the filtered workspace is empty, which would prune every package; check the command line (workspaces: %s, packages: %s)",
			orNone(roots), orNone(cfg.Packages))
	}
	return ws, upstream, nil
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "<none>"
	}
	return strings.Join(items, ", ")
}
