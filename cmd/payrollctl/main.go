package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"payroll/internal/app/backend"
	"payroll/internal/platform/config"
)

var stdout io.Writer = os.Stdout

// openBackend is the same payroll backend the HTTP server runs on, so payslips issued here
// publish events and runs land in job_runs.
func openBackend(ctx context.Context, cfg config.Config) (*backend.Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return backend.Open(ctx, cfg)
}

// withBackend adapts a command body that needs the database into a cobra RunE.
func withBackend(fn func(ctx context.Context, b *backend.Backend, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, err := openBackend(ctx, config.Load())
		if err != nil {
			return err
		}
		defer b.Close()
		return fn(ctx, b, args)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "payrollctl",
		Short:         "Operate the payroll service from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEmployeeCommand(), newPayslipCommand(), newTokenCommand())
	return root
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.Load().SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
