// Package cli wires the studylog commands: serving the site API, listing and
// fetching posts, publishing from the terminal, and maintaining the search
// index.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

// Run executes the root command with signal-aware context cancellation and
// returns a process exit code.
func Run(ctx context.Context, args []string) (int, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd()
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			return 130, err
		}
		return 1, err
	}
	return 0, nil
}
