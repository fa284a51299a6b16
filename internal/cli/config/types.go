// Package config loads wsclean configuration from config file,
// environment variables and command-line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	// Upstream is the workspace to prune packages from.
	Upstream string `koanf:"upstream"`
	// Workspaces are the trees whose packages define the used set.
	Workspaces []string `koanf:"workspaces"`
	// Packages seeds the used set from named upstream packages.
	Packages []string `koanf:"packages"`
	// DepTypes restricts which dependency declarations are honored.
	// Empty keeps every type.
	DepTypes []string `koanf:"dep_types"`
	// Action is applied to each unused package.
	Action string `koanf:"action"`
	// OutputFormat is one of auto, text, markdown, json.
	OutputFormat string `koanf:"output"`
	Verbose      bool   `koanf:"verbose"`
	DryRun       bool   `koanf:"dry_run"`
}

// Default configuration values.
const (
	DefaultAction = "print"
	DefaultOutput = "auto" // TTY: text, piped: markdown
)
