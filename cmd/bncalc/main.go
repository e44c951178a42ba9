package main

import (
	"context"
	"os"
	"os/signal"
)

// Version is a version of this build.
var Version = "bncalc/0.1"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
