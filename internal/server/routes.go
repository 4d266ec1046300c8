// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/sigil-dev/ifcscene/internal/schema"
	"github.com/sigil-dev/ifcscene/internal/store"
	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

func (s *Server) registerRoutes() {
	// Snapshot endpoints
	huma.Register(s.api, huma.Operation{
		OperationID: "list-snapshots",
		Method:      http.MethodGet,
		Path:        "/api/v1/snapshots",
		Summary:     "List stored snapshots, newest first",
		Tags:        []string{"snapshots"},
	}, s.handleListSnapshots)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-snapshot",
		Method:      http.MethodGet,
		Path:        "/api/v1/snapshots/{id}",
		Summary:     "Get snapshot details",
		Tags:        []string{"snapshots"},
	}, s.handleGetSnapshot)

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-snapshot",
		Method:        http.MethodDelete,
		Path:          "/api/v1/snapshots/{id}",
		Summary:       "Delete a snapshot and its elements",
		Tags:          []string{"snapshots"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteSnapshot)

	huma.Register(s.api, huma.Operation{
		OperationID: "latest-snapshot",
		Method:      http.MethodGet,
		Path:        "/api/v1/projects/{projectId}/latest",
		Summary:     "Get the newest snapshot of a project",
		Tags:        []string{"snapshots"},
	}, s.handleLatestSnapshot)

	// Element endpoints
	huma.Register(s.api, huma.Operation{
		OperationID: "get-element",
		Method:      http.MethodGet,
		Path:        "/api/v1/snapshots/{id}/elements/{expressId}",
		Summary:     "Get one element of a snapshot",
		Tags:        []string{"elements"},
	}, s.handleGetElement)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-element-children",
		Method:      http.MethodGet,
		Path:        "/api/v1/snapshots/{id}/elements/{expressId}/children",
		Summary:     "List the direct children of an element",
		Tags:        []string{"elements"},
	}, s.handleListChildren)
}

// --- Request/Response types for huma ---

type listSnapshotsInput struct {
	Limit  int `query:"limit" minimum:"0" maximum:"1000" default:"100"`
	Offset int `query:"offset" minimum:"0"`
}
type listSnapshotsOutput struct {
	Body struct {
		Snapshots []SnapshotSummary `json:"snapshots"`
	}
}

type snapshotIDInput struct {
	ID string `path:"id" doc:"Snapshot UUID"`
}
type getSnapshotOutput struct {
	Body SnapshotSummary
}

type latestSnapshotInput struct {
	ProjectID string `path:"projectId" doc:"Project UUID or 22-character IFC GlobalId"`
}

type elementInput struct {
	ID        string `path:"id" doc:"Snapshot UUID"`
	ExpressID int64  `path:"expressId" minimum:"1" maximum:"4294967295"`
}
type getElementOutput struct {
	Body ElementDetail
}
type listChildrenOutput struct {
	Body struct {
		Children []ElementDetail `json:"children"`
	}
}

// --- Handlers ---

func (s *Server) handleListSnapshots(ctx context.Context, input *listSnapshotsInput) (*listSnapshotsOutput, error) {
	snaps, err := s.snapshots.ListSnapshots(ctx, store.ListOpts{Limit: input.Limit, Offset: input.Offset})
	if err != nil {
		return nil, s.apiError("listing snapshots", err)
	}
	out := &listSnapshotsOutput{}
	out.Body.Snapshots = make([]SnapshotSummary, 0, len(snaps))
	for _, snap := range snaps {
		out.Body.Snapshots = append(out.Body.Snapshots, summaryOf(snap))
	}
	return out, nil
}

func (s *Server) handleGetSnapshot(ctx context.Context, input *snapshotIDInput) (*getSnapshotOutput, error) {
	id, err := parseID(input.ID)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshots.GetSnapshot(ctx, id)
	if err != nil {
		return nil, s.apiError(fmt.Sprintf("snapshot %q", input.ID), err)
	}
	return &getSnapshotOutput{Body: summaryOf(snap)}, nil
}

func (s *Server) handleDeleteSnapshot(ctx context.Context, input *snapshotIDInput) (*struct{}, error) {
	id, err := parseID(input.ID)
	if err != nil {
		return nil, err
	}
	if err := s.snapshots.DeleteSnapshot(ctx, id); err != nil {
		return nil, s.apiError(fmt.Sprintf("snapshot %q", input.ID), err)
	}
	return &struct{}{}, nil
}

func (s *Server) handleLatestSnapshot(ctx context.Context, input *latestSnapshotInput) (*getSnapshotOutput, error) {
	id, err := parseProjectID(input.ProjectID)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshots.LatestSnapshot(ctx, id)
	if err != nil {
		return nil, s.apiError(fmt.Sprintf("project %q", input.ProjectID), err)
	}
	return &getSnapshotOutput{Body: summaryOf(snap)}, nil
}

func (s *Server) handleGetElement(ctx context.Context, input *elementInput) (*getElementOutput, error) {
	id, err := parseID(input.ID)
	if err != nil {
		return nil, err
	}
	el, err := s.snapshots.GetElement(ctx, id, uint32(input.ExpressID))
	if err != nil {
		return nil, s.apiError(fmt.Sprintf("element #%d", input.ExpressID), err)
	}
	return &getElementOutput{Body: detailOf(el)}, nil
}

func (s *Server) handleListChildren(ctx context.Context, input *elementInput) (*listChildrenOutput, error) {
	id, err := parseID(input.ID)
	if err != nil {
		return nil, err
	}
	// Resolve the parent first so an unknown element is a 404, not an empty list.
	if _, err := s.snapshots.GetElement(ctx, id, uint32(input.ExpressID)); err != nil {
		return nil, s.apiError(fmt.Sprintf("element #%d", input.ExpressID), err)
	}
	children, err := s.snapshots.ListChildren(ctx, id, uint32(input.ExpressID))
	if err != nil {
		return nil, s.apiError("listing children", err)
	}
	out := &listChildrenOutput{}
	out.Body.Children = make([]ElementDetail, 0, len(children))
	for _, c := range children {
		out.Body.Children = append(out.Body.Children, detailOf(c))
	}
	return out, nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, huma.Error400BadRequest(fmt.Sprintf("invalid snapshot id %q", raw))
	}
	return id, nil
}

// parseProjectID accepts either a UUID or a compressed IFC GlobalId.
func parseProjectID(raw string) (uuid.UUID, error) {
	if id, err := uuid.Parse(raw); err == nil {
		return id, nil
	}
	id, err := schema.ExpandGlobalID(raw)
	if err != nil {
		return uuid.Nil, huma.Error400BadRequest(fmt.Sprintf("invalid project id %q", raw))
	}
	return id, nil
}

// apiError maps a coded error onto the matching HTTP status.
func (s *Server) apiError(what string, err error) error {
	status := ifcerr.HTTPStatus(err)
	switch status {
	case http.StatusNotFound:
		return huma.Error404NotFound(what + " not found")
	case http.StatusBadRequest:
		return huma.Error400BadRequest(what+": invalid request", err)
	default:
		s.log.Error("api request failed", "what", what, "code", string(ifcerr.CodeOf(err)), "error", err)
		return huma.Error500InternalServerError(what, err)
	}
}
