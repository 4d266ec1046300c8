// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sigil-dev/ifcscene/internal/scene"
	"github.com/sigil-dev/ifcscene/internal/store"
	_ "github.com/sigil-dev/ifcscene/internal/store/sqlite"
	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

func (a *app) newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [file]",
		Short: "Walk a file and store its hierarchy as a snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runIndex,
	}
	cmd.Flags().String("db", "", "snapshot database path")
	return cmd
}

func (a *app) runIndex(cmd *cobra.Command, args []string) error {
	cfg, logger, err := a.load(cmd, map[string]string{"storage.path": "db"})
	if err != nil {
		return err
	}

	f, err := scene.Open(inputPath(cfg, args), cfg.SceneSettings(logger))
	if err != nil {
		return err
	}
	collector := scene.NewCollector()
	res, err := f.Walk(cmd.Context(), collector)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
		return ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "creating database directory", ifcerr.FieldPath(cfg.Storage.Path))
	}
	st, err := store.NewSceneStore(cfg.StoreConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	snap := newSnapshot(f, res, len(collector.Elements), time.Now())
	if err := st.SaveSnapshot(cmd.Context(), snap, storeElements(collector.Elements)); err != nil {
		return err
	}
	logger.Info("snapshot stored", "id", snap.ID.String(), "elements", snap.Elements, "db", cfg.Storage.Path)

	_, err = fmt.Fprintln(cmd.OutOrStdout(), snap.ID.String())
	return err
}

func newSnapshot(f *scene.File, res scene.Result, elements int, now time.Time) *store.Snapshot {
	return &store.Snapshot{
		ID:              uuid.New(),
		ProjectID:       f.Project.UUID,
		ProjectGlobalID: f.Project.GlobalID,
		ProjectName:     f.Project.Name,
		SourcePath:      f.Path,
		Schema:          f.SchemaName(),
		BBox:            storeBox(res.BBox),
		Elements:        elements,
		Leaves:          res.Stats.Leaves,
		Points:          res.Stats.Points,
		Faces:           res.Stats.Faces,
		CreatedAt:       now,
	}
}

func storeBox(b scene.BBox) store.Box {
	if b.IsEmpty() {
		return store.Box{}
	}
	return store.Box{Min: b.Min, Max: b.Max, Valid: true}
}

func storeElements(elements []scene.Element) []*store.Element {
	out := make([]*store.Element, 0, len(elements))
	for _, e := range elements {
		out = append(out, &store.Element{
			ExpressID: e.ExpressID,
			ParentID:  e.ParentID,
			TypeName:  e.TypeName,
			Depth:     e.Depth,
			Leaves:    e.Leaves,
			Points:    e.Points,
			Faces:     e.Faces,
			Color:     e.Color,
			HasColor:  e.HasColor,
			Bounds:    storeBox(e.Bounds),
		})
	}
	return out
}
