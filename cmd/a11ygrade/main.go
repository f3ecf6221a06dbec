// File: cmd/a11ygrade/main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/a11ygrade-cli/cmd"
	"github.com/xkilldash9x/a11ygrade-cli/internal/observability"
)

// osExit allows mocking os.Exit in tests.
var osExit = os.Exit

func main() {
	// Listen for interrupt signals (SIGINT, SIGTERM) for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()

	if err != nil {
		// A canceled context means the user aborted; exit cleanly.
		if errors.Is(err, context.Canceled) {
			osExit(0)
		}
		osExit(1)
	}
}
