// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sigil-dev/ifcscene/internal/config"
	"github.com/sigil-dev/ifcscene/internal/scene"
	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

// watchDebounce collapses the burst of events an editor save produces.
const watchDebounce = 200 * time.Millisecond

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "", "report format (text, json, yaml)")
}

func (a *app) newWalkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "walk [file]",
		Short: "Walk the hierarchy and report elements, leaves and the bounding box",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			watch, _ := cmd.Flags().GetBool("watch")
			return a.runWalk(cmd, args, watch)
		},
	}
	addFormatFlag(cmd)
	cmd.Flags().BoolP("watch", "w", false, "re-run the walk whenever the file changes")
	return cmd
}

func (a *app) runWalk(cmd *cobra.Command, args []string, watch bool) error {
	cfg, logger, err := a.load(cmd, map[string]string{"output.format": "format"})
	if err != nil {
		return err
	}
	path := inputPath(cfg, args)

	if err := walkOnce(cmd.Context(), cmd.OutOrStdout(), path, cfg, logger); err != nil {
		return err
	}
	if !watch {
		return nil
	}
	return watchFile(cmd.Context(), path, logger, func() {
		if err := walkOnce(cmd.Context(), cmd.OutOrStdout(), path, cfg, logger); err != nil {
			logger.Error("walk failed", "path", path, "error", err)
		}
	})
}

// walkReport is the structured form of a walk written for json and yaml.
type walkReport struct {
	File     string          `json:"file" yaml:"file"`
	Schema   string          `json:"schema" yaml:"schema"`
	Project  scene.Project   `json:"project" yaml:"project"`
	BBox     scene.BBox      `json:"bbox" yaml:"bbox"`
	Stats    scene.Stats     `json:"stats" yaml:"stats"`
	Elements []scene.Element `json:"elements" yaml:"elements"`
}

func walkOnce(ctx context.Context, out io.Writer, path string, cfg *config.Config, logger *slog.Logger) error {
	f, err := scene.Open(path, cfg.SceneSettings(logger))
	if err != nil {
		return err
	}

	if cfg.Output.Format == "text" {
		printer := scene.NewTreePrinter(out)
		res, err := f.Walk(ctx, printer)
		if err != nil {
			return err
		}
		printer.Report(res.BBox)
		return printer.Err()
	}

	collector := scene.NewCollector()
	res, err := f.Walk(ctx, collector)
	if err != nil {
		return err
	}
	report := walkReport{
		File:     f.Path,
		Schema:   f.SchemaName(),
		Project:  f.Project,
		BBox:     res.BBox,
		Stats:    res.Stats,
		Elements: collector.Elements,
	}

	switch cfg.Output.Format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return ifcerr.Wrap(err, ifcerr.CodeCLISetupFailure, "encoding yaml report")
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return ifcerr.Wrap(err, ifcerr.CodeCLISetupFailure, "encoding json report")
		}
		return nil
	}
}

// watchFile calls fn after every change to path until ctx is done. The
// directory is watched so editors that replace the file are still seen.
func watchFile(ctx context.Context, path string, logger *slog.Logger, fn func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ifcerr.Wrap(err, ifcerr.CodeCLIWatchFailure, "resolving watched path", ifcerr.FieldPath(path))
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ifcerr.Wrap(err, ifcerr.CodeCLIWatchFailure, "creating watcher")
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return ifcerr.Wrap(err, ifcerr.CodeCLIWatchFailure, "watching directory", ifcerr.FieldPath(filepath.Dir(abs)))
	}
	logger.Info("watching for changes", "path", abs)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Debug("file changed", "path", abs, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		case <-fire:
			fire = nil
			fn()
		}
	}
}
