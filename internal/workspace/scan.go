// Package workspace discovers package manifests in directory trees.
//
// A directory is a package when it contains package.xml; the scanner
// does not descend into packages. Directories carrying a build-tool
// ignore marker and dot-directories are skipped entirely.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rosworks/wsclean/internal/manifest"
)

// IgnoreMarkers are the files that hide a directory tree from colcon,
// catkin and ament respectively. The scanner honors all of them.
var IgnoreMarkers = []string{"COLCON_IGNORE", "CATKIN_IGNORE", "AMENT_IGNORE"}

// Scan walks root and returns every package found beneath it,
// including root itself when it carries a manifest. A root that is not
// a directory yields no packages.
func Scan(ctx context.Context, root string) ([]manifest.Package, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("checking workspace %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, nil
	}

	var pkgs []manifest.Package
	if err := walk(ctx, root, &pkgs); err != nil {
		return nil, err
	}
	return pkgs, nil
}

func walk(ctx context.Context, dir string, pkgs *[]manifest.Package) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if Ignored(dir) {
		return nil
	}

	manifestPath := filepath.Join(dir, manifest.FileName)
	if _, err := os.Stat(manifestPath); err == nil {
		pkg, err := manifest.Load(manifestPath)
		if err != nil {
			return err
		}
		*pkgs = append(*pkgs, pkg)
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking %s: %w", manifestPath, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("searching %s: %w", dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if err := walk(ctx, filepath.Join(dir, entry.Name()), pkgs); err != nil {
			return err
		}
	}
	return nil
}

// Ignored reports whether dir carries one of the build-tool ignore
// markers.
func Ignored(dir string) bool {
	for _, marker := range IgnoreMarkers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// ScanAll scans several roots concurrently and returns the combined
// package list, sorted by name and path with duplicates removed.
func ScanAll(ctx context.Context, roots []string) ([]manifest.Package, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([][]manifest.Package, len(roots))

	for i, root := range roots {
		g.Go(func() error {
			pkgs, err := Scan(ctx, root)
			if err != nil {
				return err
			}
			results[i] = pkgs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []manifest.Package
	for _, pkgs := range results {
		all = append(all, pkgs...)
	}
	manifest.SortPackages(all)
	return manifest.DedupePackages(all), nil
}
