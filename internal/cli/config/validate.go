package config

import (
	"fmt"
	"os"

	"github.com/rosworks/wsclean/internal/action"
	"github.com/rosworks/wsclean/internal/cli/output"
	"github.com/rosworks/wsclean/internal/manifest"
)

// Validate checks fields every command depends on. Directory existence
// is checked separately so help output works anywhere.
func (c *Config) Validate() error {
	found := false
	for _, m := range output.Modes() {
		if c.OutputFormat == m {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("unknown output format %q (valid: %v)", c.OutputFormat, output.Modes())
	}

	if _, err := c.Filter(); err != nil {
		return err
	}
	return nil
}

// ValidateForPrune checks the fields the prune and watch commands
// need: an existing upstream directory and a known action.
func (c *Config) ValidateForPrune() error {
	if c.Upstream == "" {
		return fmt.Errorf("upstream workspace is required (use --upstream)")
	}
	if _, err := os.Stat(c.Upstream); os.IsNotExist(err) {
		return fmt.Errorf("upstream workspace does not exist: %s", c.Upstream)
	}

	if _, err := action.New(c.Action, action.Options{}); err != nil {
		return err
	}
	return nil
}

// Filter builds the dependency filter from the configured types.
func (c *Config) Filter() (manifest.Filter, error) {
	types := make([]manifest.DepType, 0, len(c.DepTypes))
	for _, s := range c.DepTypes {
		t, err := manifest.ParseDepType(s)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return manifest.FilterTypes(types), nil
}
