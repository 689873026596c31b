// Package main provides the entry point for the shufflebench CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/scachelab/shufflebench/internal/cli"
)

// Build information set via ldflags.
var (
	version = "" //nolint:gochecknoglobals // Set at build time
	commit  = "" //nolint:gochecknoglobals // Set at build time
	date    = "" //nolint:gochecknoglobals // Set at build time
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx, cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	cli.CloseLogFile()
	os.Exit(cli.ExitCodeForError(err))
}
