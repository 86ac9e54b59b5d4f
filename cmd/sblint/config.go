package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

const configName = ".sblint.toml"

// fileConfig carries repository-level defaults. Flags given on the command
// line always win.
type fileConfig struct {
	Parallel     int    `toml:"parallel"`
	Timeout      string `toml:"timeout"`
	NoShellcheck bool   `toml:"no_shellcheck"`
}

func applyFileConfig(cmd *cobra.Command, opts *options) error {
	if _, err := os.Stat(configName); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", configName, err)
	}
	var fc fileConfig
	if _, err := toml.DecodeFile(configName, &fc); err != nil {
		return fmt.Errorf("parsing %s: %w", configName, err)
	}

	flags := cmd.Flags()
	if fc.Parallel > 0 && !flags.Changed("parallel") {
		opts.parallel = fc.Parallel
	}
	if fc.NoShellcheck && !flags.Changed("no-shellcheck") {
		opts.noShellcheck = true
	}
	if fc.Timeout != "" && !flags.Changed("timeout") {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("parsing %s: timeout: %w", configName, err)
		}
		opts.timeout = d
	}
	return nil
}
