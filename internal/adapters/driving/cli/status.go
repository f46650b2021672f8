package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

// statusPingTimeout bounds each connectivity check.
const statusPingTimeout = 5 * time.Second

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check connectivity to configured services",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	printStatus(cmd, "vector store", ping(ctx, func(ctx context.Context) error {
		if services.Store == nil {
			return errNotConfigured
		}
		return services.Store.Ping(ctx)
	}))

	printStatus(cmd, "embeddings", ping(ctx, func(ctx context.Context) error {
		if services.Embedder == nil {
			return errNotConfigured
		}
		return services.Embedder.Ping(ctx)
	}))

	printStatus(cmd, "llm", ping(ctx, func(ctx context.Context) error {
		if services.Completer == nil {
			return errNotConfigured
		}
		return services.Completer.Ping(ctx)
	}))

	return nil
}

var errNotConfigured = notConfiguredError{}

type notConfiguredError struct{}

func (notConfiguredError) Error() string { return "not configured" }

func ping(ctx context.Context, check func(context.Context) error) error {
	pingCtx, cancel := context.WithTimeout(ctx, statusPingTimeout)
	defer cancel()
	return check(pingCtx)
}

func printStatus(cmd *cobra.Command, name string, err error) {
	switch {
	case err == nil:
		cmd.Printf("  %-13s ok\n", name)
	case err == errNotConfigured:
		cmd.Printf("  %-13s not configured\n", name)
	default:
		cmd.Printf("  %-13s unreachable (%v)\n", name, err)
	}
}
