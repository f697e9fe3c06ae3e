// SPDX-License-Identifier: MIT

// Command optifit clusters sequences into OTUs by greedily maximizing a
// pairwise quality metric, either de novo or by fitting new sequences onto
// an existing reference clustering.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "optifit:", err)
		os.Exit(1)
	}
}
