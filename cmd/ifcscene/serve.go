// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/sigil-dev/ifcscene/internal/server"
	"github.com/sigil-dev/ifcscene/internal/store"
)

func (a *app) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored snapshots over a read-only HTTP API",
		Args:  cobra.NoArgs,
		RunE:  a.runServe,
	}
	cmd.Flags().String("db", "", "snapshot database path")
	cmd.Flags().String("listen", "", "override listen address (host:port)")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := a.load(cmd, map[string]string{
		"storage.path":  "db",
		"server.listen": "listen",
	})
	if err != nil {
		return err
	}

	st, err := store.NewSceneStore(cfg.StoreConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	srv, err := server.New(server.Config{
		ListenAddr:  cfg.Server.Listen,
		CORSOrigins: cfg.Server.CORSOrigins,
		Version:     version,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	if err := srv.RegisterSnapshots(st); err != nil {
		return err
	}
	return srv.Start(cmd.Context())
}
