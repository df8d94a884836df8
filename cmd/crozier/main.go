// Package main provides the crozier CLI entrypoint.
//
// Crozier is a stream-oriented client for a hierarchical data catalog:
// each command reads JSON items from stdin, executes them against the
// catalog and writes one JSON value per item to stdout.
//
// Usage:
//
//	crozier <command> [options] < items.json
//
// Exit codes for streaming commands:
//   - 0: all items succeeded
//   - 1: one or more items failed (reported on stdout)
//   - 2: fatal failure (connect, input or output)
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/crozier-io/crozier/cli/cmd"
	"github.com/crozier-io/crozier/types"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	app := &cli.App{
		Name:           "crozier",
		Usage:          "Stream JSON operations against a data catalog",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			cmd.DoCommand(),
			cmd.ListCommand(),
			cmd.MetaqueryCommand(),
			cmd.MetamodCommand(),
			cmd.ChmodCommand(),
			cmd.GetCommand(),
			cmd.PutCommand(),
			cmd.VersionCommand(commit),
		},
	}

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit for cli.ExitCoder errors.
		// This branch handles unexpected errors that weren't wrapped.
		os.Exit(1)
	}
}

// exitErrHandler preserves exit codes from cli.Exit() so that per-item
// failures and fatal failures stay distinguishable to callers.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// cli.Exit("", N).Error() returns "exit status N"; skip those
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
