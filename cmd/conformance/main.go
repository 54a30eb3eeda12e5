// Command conformance verifies a PostgreSQL users table against its declared
// column contract and constraint behavior.
//
// Usage:
//
//	conformance schema       column presence and types only
//	conformance constraints  crafted inserts and deletes (truncates the table)
//	conformance all          both phases
//	conformance contract     print the expected schema
//
// Exit codes: 0 = all scenarios passed, 1 = failures, 2 = command error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/users-conformance/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
