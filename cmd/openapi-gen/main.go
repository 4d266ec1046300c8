// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/sigil-dev/ifcscene/internal/server"
	"github.com/sigil-dev/ifcscene/internal/store"
	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

func main() {
	spec, err := generateSpec()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	outPath := "api/openapi/spec.json"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output dir: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, spec, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing spec: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OpenAPI spec written to %s\n", outPath)
}

// generateSpec creates a server with all routes registered and extracts the
// OpenAPI spec that huma generates from the Go type annotations.
func generateSpec() ([]byte, error) {
	srv, err := server.New(server.Config{
		ListenAddr: "127.0.0.1:0",
	})
	if err != nil {
		return nil, ifcerr.Wrap(err, ifcerr.CodeCLISetupFailure, "creating server")
	}
	// Handlers are never invoked during spec generation.
	if err := srv.RegisterSnapshots(stubReader{}); err != nil {
		return nil, ifcerr.Wrap(err, ifcerr.CodeCLISetupFailure, "registering routes")
	}

	return json.MarshalIndent(srv.API().OpenAPI(), "", "  ")
}

type stubReader struct{}

func (stubReader) GetSnapshot(context.Context, uuid.UUID) (*store.Snapshot, error) { return nil, nil }
func (stubReader) LatestSnapshot(context.Context, uuid.UUID) (*store.Snapshot, error) {
	return nil, nil
}

func (stubReader) ListSnapshots(context.Context, store.ListOpts) ([]*store.Snapshot, error) {
	return nil, nil
}
func (stubReader) DeleteSnapshot(context.Context, uuid.UUID) error { return nil }
func (stubReader) GetElement(context.Context, uuid.UUID, uint32) (*store.Element, error) {
	return nil, nil
}

func (stubReader) ListChildren(context.Context, uuid.UUID, uint32) ([]*store.Element, error) {
	return nil, nil
}
