// Command timelinez records, draws and summarizes span timelines.
package main

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

// app holds what every subcommand shares once flags are parsed.
type app struct {
	cfg Config
	log logr.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: logr.Discard()}

	root := &cobra.Command{
		Use:           "timelinez",
		Short:         "Record span timelines and draw them as SVG",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().String("config", "", "path to a TOML configuration file")
	root.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error), overrides the configuration")

	root.AddCommand(newDemoCmd(a))
	root.AddCommand(newRenderCmd(a))
	root.AddCommand(newStatsCmd(a))
	return root
}

// setup loads the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}

	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	if level != "" {
		cfg.Log.Level = level
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log, err := cfg.Log.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "timelinez: %v\n", err)
		os.Exit(1)
	}
}
