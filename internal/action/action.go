// Package action applies an operation to each unused package: report
// it, hide it from a build tool via a marker file, or delete it.
package action

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Options carries the dependencies an action may need.
type Options struct {
	// Out receives human-readable output (the print action).
	Out io.Writer
	// Logger reports what an action does. Nil uses a discard logger.
	Logger *slog.Logger
	// DryRun logs the intended change without touching the filesystem.
	DryRun bool
}

// Target identifies the package an action operates on.
type Target struct {
	Name string
	Path string
}

// Action performs an operation on a single unused package.
type Action interface {
	// Name is the registered action name.
	Name() string
	// Apply performs the operation on one package directory.
	Apply(ctx context.Context, target Target) error
}

// Factory builds an action from options.
type Factory func(Options) Action

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds an action factory under a name. Called from init.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New builds the named action.
func New(name string, opts Options) (Action, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownActionError{Name: name, Available: Names()}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return factory(opts), nil
}

// Names returns all registered action names (sorted).
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownActionError is returned when an unregistered action is
// requested.
type UnknownActionError struct {
	Name      string
	Available []string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q (available: %v)", e.Name, e.Available)
}

func init() {
	Register("print", func(opts Options) Action {
		return &printAction{opts: opts}
	})
	Register("colcon-ignore", markerFactory("colcon-ignore", "COLCON_IGNORE"))
	Register("catkin-ignore", markerFactory("catkin-ignore", "CATKIN_IGNORE"))
	Register("ament-ignore", markerFactory("ament-ignore", "AMENT_IGNORE"))
	Register("remove", func(opts Options) Action {
		return &removeAction{opts: opts}
	})
}

// printAction reports each unused package without changing anything.
type printAction struct {
	opts Options
}

func (a *printAction) Name() string { return "print" }

func (a *printAction) Apply(_ context.Context, target Target) error {
	out := a.opts.Out
	if out == nil {
		out = os.Stdout
	}
	_, err := fmt.Fprintf(out, "%s (%s)\n", target.Name, target.Path)
	return err
}

func markerFactory(name, marker string) Factory {
	return func(opts Options) Action {
		return &markerAction{name: name, marker: marker, opts: opts}
	}
}

// markerAction drops an ignore marker into the package directory so
// the build tool skips it. Existing markers are left untouched.
type markerAction struct {
	name   string
	marker string
	opts   Options
}

func (a *markerAction) Name() string { return a.name }

func (a *markerAction) Apply(_ context.Context, target Target) error {
	path := filepath.Join(target.Path, a.marker)
	if a.opts.DryRun {
		a.opts.Logger.Info("would create marker", "package", target.Name, "path", path)
		return nil
	}
	a.opts.Logger.Info("creating marker", "package", target.Name, "path", path)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return f.Close()
}

// removeAction deletes the package directory.
type removeAction struct {
	opts Options
}

func (a *removeAction) Name() string { return "remove" }

func (a *removeAction) Apply(_ context.Context, target Target) error {
	if a.opts.DryRun {
		a.opts.Logger.Info("would remove", "package", target.Name, "path", target.Path)
		return nil
	}
	a.opts.Logger.Info("removing", "package", target.Name, "path", target.Path)

	if err := os.RemoveAll(target.Path); err != nil {
		return fmt.Errorf("removing %s: %w", target.Path, err)
	}
	return nil
}
