// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sigil-dev/ifcscene/internal/config"
	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

// app carries the per-invocation viper instance, so several root commands
// can coexist in one process.
type app struct {
	v *viper.Viper
}

// NewRootCmd creates the root ifcscene command with all subcommands registered.
// Run without a subcommand it walks the configured input file.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "ifcscene [file]",
		Short: "ifcscene walks the spatial hierarchy of IFC files",
		Long: "ifcscene loads an IFC (STEP) file, builds its aggregation and containment " +
			"hierarchy, walks it from the IfcProject and reports every element, every " +
			"geometry leaf and the world bounding box.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWalk(cmd, args, false)
		},
	}

	// Global flags, mapped to viper keys in load.
	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	addFormatFlag(root)

	root.AddCommand(
		a.newWalkCmd(),
		a.newExportCmd(),
		a.newIndexCmd(),
		a.newServeCmd(),
		a.newBrowseCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// load binds the root flags and the given command flags (viper key to flag
// name), reads the configuration and installs the logger. Flag beats env
// beats file beats default.
func (a *app) load(cmd *cobra.Command, bindings map[string]string) (*config.Config, *slog.Logger, error) {
	if f := cmd.Root().PersistentFlags().Lookup("log-level"); f != nil && f.Changed {
		if err := a.v.BindPFlag("log.level", f); err != nil {
			return nil, nil, ifcerr.Wrap(err, ifcerr.CodeCLISetupFailure, "binding log-level flag")
		}
	}
	for key, name := range bindings {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := a.v.BindPFlag(key, f); err != nil {
			return nil, nil, ifcerr.Wrapf(err, ifcerr.CodeCLISetupFailure, "binding %s flag", name)
		}
	}

	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.FromViper(a.v, cfgFile)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.LogLevel()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return cfg, logger, nil
}

// inputPath returns the positional file argument or the configured input.
func inputPath(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Input
}
