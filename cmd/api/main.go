// Package main runs the pagetrail HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/listenupapp/pagetrail/internal/di"
	"github.com/listenupapp/pagetrail/internal/logger"
)

func main() {
	injector := di.NewContainer()

	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "pagetrail: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("Signal received, stopping")

	// Handles close in reverse dependency order: HTTP server, index, store.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Library closed")
}
