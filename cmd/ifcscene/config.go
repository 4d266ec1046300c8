// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sigil-dev/ifcscene/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the ifcscene configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("path")
			if path == "" {
				var err error
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}
			if written := config.BootstrapConfig(path); written != "" {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", written)
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s already exists, left unchanged\n", path)
			return err
		},
	}
	initCmd.Flags().String("path", "", "where to write the file (default ~/.config/ifcscene/ifcscene.yaml)")

	showCmd := &cobra.Command{
		Use:   "default",
		Short: "Print the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(config.DefaultConfigYAML)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
