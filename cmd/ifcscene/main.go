// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and maps the outcome to a process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return exitCode(root.ExecuteContext(ctx), stdout, stderr)
}

// exitCode reports a missing input file as a normal exit, a file without
// a project as -1 and every other failure as 1.
func exitCode(err error, stdout, stderr io.Writer) int {
	switch {
	case err == nil:
		return 0
	case ifcerr.HasCode(err, ifcerr.CodeSceneFileNotFound):
		path, _ := ifcerr.FieldsOf(err)["path"].(string)
		fmt.Fprintf(stdout, "File does not exist: %s\n", path)
		return 0
	case ifcerr.HasCode(err, ifcerr.CodeSceneProjectNotFound):
		fmt.Fprintln(stdout, "No IfcProject entity found in the file.")
		return -1
	default:
		fmt.Fprintln(stderr, err)
		return 1
	}
}
