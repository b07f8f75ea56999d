package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sorano7/cise-sente-tool/internal/adapters/cli"
)

func main() {
	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx)
}
