/*
Package main is the entry point for the assassin command.

It loads an optional .env file, runs the command tree with a context that is cancelled
on SIGINT or SIGTERM, and exits non-zero when the command fails.
*/
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"assassin/internal/cli"
)

func main() {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.New().Run(ctx, os.Args); err != nil {
		cli.ReportError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
