// Command scales answers counterfeit-coin weighing puzzles: how many
// weighings on a two-pan balance find the one defective item.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version is reported by the server and the tracing resource.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "scales:", err)
		os.Exit(1)
	}
}
