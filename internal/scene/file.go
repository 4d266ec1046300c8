// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package scene

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/sigil-dev/ifcscene/internal/geometry"
	"github.com/sigil-dev/ifcscene/internal/schema"
	"github.com/sigil-dev/ifcscene/internal/step"
	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

// DefaultProjectName is used when the project has no Name string.
const DefaultProjectName = "DefaultProject"

// DefaultBaseColor is the colour the walk starts with.
var DefaultBaseColor = mgl64.Vec4{0.5, 0.5, 0.5, 1}

// Settings configures Open.
type Settings struct {
	Loader   step.Settings
	Geometry geometry.Settings
	// BaseColor is the colour the walk starts with; nil means
	// DefaultBaseColor.
	BaseColor *mgl64.Vec4
	Logger    *slog.Logger
}

// Project identifies the IfcProject of a file.
type Project struct {
	ExpressID uint32    `json:"express_id" yaml:"express_id"`
	GlobalID  string    `json:"global_id" yaml:"global_id"`
	UUID      uuid.UUID `json:"uuid" yaml:"uuid"`
	Name      string    `json:"name" yaml:"name"`
}

// File is an opened IFC file with its relationship index and geometry
// processor. It owns every collaborator the walk borrows.
type File struct {
	Path    string
	Project Project

	loader    *step.Loader
	schema    *schema.Manager
	index     *Index
	processor *geometry.Processor
	baseColor mgl64.Vec4
	logger    *slog.Logger
}

// Open loads the file at path, finds its project and builds the
// relationship index.
func Open(path string, settings Settings) (*File, error) {
	logger := settings.Logger
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ifcerr.Wrap(err, ifcerr.CodeSceneFileNotFound, "file does not exist", ifcerr.FieldPath(abs))
		}
		return nil, ifcerr.Wrap(err, ifcerr.CodeStepLoadReadFailure, "stat ifc file", ifcerr.FieldPath(abs))
	}

	manager := schema.NewManager()
	loader := step.NewLoader(settings.Loader, manager).WithLogger(logger)
	if err := loader.Open(abs); err != nil {
		return nil, err
	}

	projects := loader.ExpressIDsWithType(schema.IfcProject)
	if len(projects) == 0 {
		return nil, ifcerr.New(ifcerr.CodeSceneProjectNotFound, "no IfcProject entity found", ifcerr.FieldPath(abs))
	}

	f := &File{
		Path:      abs,
		Project:   readProject(loader, projects[0], logger),
		loader:    loader,
		schema:    manager,
		index:     NewIndex(logger),
		baseColor: DefaultBaseColor,
		logger:    logger,
	}
	if settings.BaseColor != nil {
		f.baseColor = *settings.BaseColor
	}
	f.index.Build(loader)
	f.processor = geometry.NewProcessor(loader, settings.Geometry, geometry.WithLogger(logger))

	logger.Info("ifc file opened",
		"path", abs,
		"schema", loader.SchemaName(),
		"entities", loader.LineCount(),
		"project", f.Project.Name,
	)
	return f, nil
}

func readProject(tape *step.Loader, id uint32, logger *slog.Logger) Project {
	p := Project{ExpressID: id, Name: DefaultProjectName}

	_ = tape.MoveToArgumentOffset(id, 0)
	tok := tape.TokenType()
	tape.StepBack()
	if tok == step.TokenString {
		p.GlobalID = tape.StringArgument()
		if u, err := schema.ExpandGlobalID(p.GlobalID); err == nil {
			p.UUID = u
		} else {
			logger.Debug("project global id is not a valid ifc guid", "global_id", p.GlobalID, "error", err)
		}
	}

	_ = tape.MoveToArgumentOffset(id, 2)
	tok = tape.TokenType()
	tape.StepBack()
	if tok == step.TokenString {
		p.Name = tape.StringArgument()
	}
	return p
}

// Walk traverses the hierarchy from the project with an identity matrix and
// the base colour, feeding visitors along the way.
func (f *File) Walk(ctx context.Context, visitors ...Visitor) (Result, error) {
	w := NewWalker(f.index, f.loader, f.schema, f.processor,
		WithVisitors(visitors...),
		WithWalkLogger(f.logger),
	)
	res, err := w.Walk(ctx, Root{
		ID:     f.Project.ExpressID,
		Type:   schema.IfcProject,
		Matrix: mgl64.Ident4(),
		Color:  f.baseColor,
	})
	if err != nil {
		return res, err
	}
	f.logger.Debug("walk finished",
		"elements", res.Stats.Elements,
		"leaves", res.Stats.Leaves,
		"revisits", res.Stats.SkippedRevisits,
	)
	return res, nil
}

// Index returns the relationship index.
func (f *File) Index() *Index { return f.index }

// Schema returns the schema manager.
func (f *File) Schema() *schema.Manager { return f.schema }

// SchemaName returns the FILE_SCHEMA identifier, e.g. "IFC4".
func (f *File) SchemaName() string { return f.loader.SchemaName() }

// TypeName returns the type name of an entity.
func (f *File) TypeName(id uint32) string {
	return f.schema.TypeName(f.loader.LineType(id))
}
