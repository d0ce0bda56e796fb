package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/drydock-dev/drydock/internal/cli"
)

func main() {
	// Ctrl+C or SIGTERM aborts any in-flight generation or review session.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx)
}
