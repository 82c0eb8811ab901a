package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/crewboard/internal/adapters/cli"
	"github.com/okian/crewboard/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Execute has already rendered the failure.
	if err := cli.NewApp(version).Execute(ctx, os.Args[1:]); err != nil {
		stop()
		os.Exit(1)
	}
}
