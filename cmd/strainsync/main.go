// strainsync - Offline-first strain catalog and favorites
//
// Mirrors an external strain catalog into a local database and reconciles
// user favorites between the local store and the shared backend.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/greenhouse-labs/strainsync/internal/cli"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
