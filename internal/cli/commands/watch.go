package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/rosworks/wsclean/internal/manifest"
	"github.com/rosworks/wsclean/internal/prune"
	"github.com/rosworks/wsclean/internal/workspace"
)

// watchDebounce coalesces bursts of filesystem events into one
// recomputation.
const watchDebounce = 300 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recompute the unused set whenever a manifest changes",
		Long: `Watch the upstream and workspace trees and print the unused upstream
packages whenever a package.xml is added, changed or removed.

Watch never modifies the filesystem; the configured action is ignored.
Stop with Ctrl-C.`,
		Example: `  wsclean watch -u ~/deps_ws -w ~/robot_ws --type build`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd)
		},
	}
	return cmd
}

func runWatch(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger

	if err := cfg.ValidateForPrune(); err != nil {
		return err
	}
	filter, err := cfg.Filter()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	roots := append([]string{cfg.Upstream}, cfg.Workspaces...)
	if len(cfg.Workspaces) == 0 {
		roots = append(roots, ".")
	}
	roots, err = resolveRoots(roots)
	if err != nil {
		return err
	}
	for _, root := range roots {
		if err := watchTree(watcher, root); err != nil {
			return err
		}
	}

	recompute := func() error {
		ws, upstream, err := gatherPruneInputs(ctx, cfg, logger)
		if err != nil {
			return err
		}
		unused := prune.FindUnused(ws, upstream, filter)
		r := cmdCtx.Renderer
		r.Header(2, fmt.Sprintf("Unused packages (%d)", len(unused)))
		r.PackageList(unused)
		r.Println()
		return nil
	}
	if err := recompute(); err != nil {
		return err
	}

	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	dirty := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					// New subtrees need their own watches.
					if err := watchTree(watcher, event.Name); err != nil {
						logger.Warn("watching new directory", "path", event.Name, "error", err)
					}
				}
			}
			if isManifestEvent(event) {
				logger.Debug("manifest change", "path", event.Name, "op", event.Op.String())
				dirty = true
				debounce.Reset(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		case <-debounce.C:
			if !dirty {
				continue
			}
			dirty = false
			if err := recompute(); err != nil {
				// Transient states (half-written manifests) should not
				// kill the watch loop.
				logger.Warn("recompute failed", "error", err)
			}
		}
	}
}

func isManifestEvent(event fsnotify.Event) bool {
	if filepath.Base(event.Name) == manifest.FileName {
		return true
	}
	// Removed or renamed directories may have carried manifests.
	return event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename)
}

// watchTree adds watches for dir and every subdirectory, honoring the
// same visibility rules as the scanner.
func watchTree(watcher *fsnotify.Watcher, dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	if workspace.Ignored(dir) {
		return nil
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("searching %s: %w", dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name()[0] == '.' {
			continue
		}
		if err := watchTree(watcher, filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
