// Package main is the entrypoint for the threatscope CLI.
package main

import (
	"fmt"
	"os"

	"github.com/threatscope/threatscope/cmd/threatscope/app"
)

// Build-time variables set by goreleaser.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	// Create the application.
	cli, err := app.New(version, commit, date, builtBy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	// Create a context that cancels on SIGINT/SIGTERM.
	ctx, cancel := app.Context()
	defer cancel()

	// Execute the root command.
	if err := cli.Execute(ctx, os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
