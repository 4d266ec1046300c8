// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sigil-dev/ifcscene/internal/export"
	"github.com/sigil-dev/ifcscene/internal/scene"
)

func (a *app) newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write every world-space geometry leaf to a glTF or GLB file",
		Long: "Walk the hierarchy and write one mesh per geometry leaf. The output is " +
			"binary GLB when the path ends in .glb and glTF JSON with embedded buffers otherwise.",
		Args: cobra.MaximumNArgs(1),
		RunE: a.runExport,
	}
	cmd.Flags().StringP("out", "o", "", "output path (default scene.glb)")
	cmd.Flags().Bool("y-up", true, "convert IFC z-up coordinates to glTF y-up")
	return cmd
}

func (a *app) runExport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := a.load(cmd, map[string]string{
		"export.path": "out",
		"export.y_up": "y-up",
	})
	if err != nil {
		return err
	}

	f, err := scene.Open(inputPath(cfg, args), cfg.SceneSettings(logger))
	if err != nil {
		return err
	}

	gl := export.NewGLTF(export.Options{YUp: cfg.Export.YUp, Logger: logger})
	res, err := f.Walk(cmd.Context(), gl)
	if err != nil {
		return err
	}
	if err := gl.Save(cfg.Export.Path); err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d meshes (%d points, %d faces) to %s\n",
		gl.MeshCount(), res.Stats.Points, res.Stats.Faces, cfg.Export.Path)
	return err
}
