package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZacheryGlass/coding-agent-settings-sync/client/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.RootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
