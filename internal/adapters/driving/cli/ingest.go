package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/logger"
	"github.com/retriva-labs/retriva/internal/source/filesystem"
)

var (
	ingestUser       string
	ingestCollection string
	ingestWatch      bool
	ingestRetry      bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Ingest documents into the vector store",
	Long: `Loads documents, chunks and embeds them, and stores the vectors.
Paths may be files or directories; directories are walked recursively.
Already-ingested documents are detected by content and skipped.`,
	Args: cobra.ArbitraryArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestUser, "user", "u", "", "user the documents belong to")
	ingestCmd.Flags().StringVar(&ingestCollection, "collection", "", "target collection (default from config)")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep running and ingest files as they change")
	ingestCmd.Flags().BoolVar(&ingestRetry, "retry-failed", false, "re-ingest documents whose last attempt failed")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if services.Ingestor == nil {
		return errors.New("ingest service not configured")
	}
	if len(args) == 0 && !ingestRetry {
		return errors.New("provide at least one path or --retry-failed")
	}
	if ingestWatch && len(args) != 1 {
		return errors.New("--watch requires exactly one directory")
	}

	collection := ingestCollection
	if collection == "" {
		collection = services.Collection
	}
	user := ingestUser
	if user == "" {
		user = services.DefaultUser
	}

	ctx := cmd.Context()

	paths, err := collectPaths(ctx, args)
	if err != nil {
		return err
	}

	if ingestRetry {
		retries, err := pendingPaths(ctx)
		if err != nil {
			return err
		}
		paths = append(paths, retries...)
	}

	if len(paths) > 0 {
		reports, err := services.Ingestor.IngestAll(ctx, paths, user, collection)
		if err != nil {
			return fmt.Errorf("ingestion failed: %w", err)
		}
		printReports(cmd, reports)
	}

	if ingestWatch {
		return watchAndIngest(ctx, cmd, args[0], user, collection)
	}
	return nil
}

// collectPaths expands directories into their supported document
// files.
func collectPaths(ctx context.Context, args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		found, err := filesystem.New(arg, services.Filter).List(ctx)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

// pendingPaths returns documents whose last ingestion attempt failed.
func pendingPaths(ctx context.Context) ([]string, error) {
	if services.Ledger == nil {
		return nil, errors.New("--retry-failed requires the ingestion ledger")
	}

	pending, err := services.Ledger.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}

	// Files deleted since the failure are dropped silently.
	var paths []string
	for _, path := range pending {
		if _, err := os.Stat(path); err == nil {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// watchAndIngest ingests file changes under dir until cancellation.
func watchAndIngest(ctx context.Context, cmd *cobra.Command, dir, user, collection string) error {
	src := filesystem.New(dir, services.Filter)
	changes, err := src.Watch(ctx)
	if err != nil {
		return err
	}
	defer src.Close()

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", dir)

	for change := range changes {
		switch change.Type {
		case filesystem.ChangeCreated, filesystem.ChangeUpdated:
			report, err := services.Ingestor.Ingest(ctx, change.Path, user, collection)
			if err != nil {
				return fmt.Errorf("ingestion failed: %w", err)
			}
			printReports(cmd, []domain.IngestReport{report})

		case filesystem.ChangeDeleted:
			if services.Documents == nil {
				continue
			}
			if err := services.Documents.DeleteByPath(ctx, collection, change.Path); err != nil {
				logger.Warn("Failed to delete %s from store: %v", change.Path, err)
			} else {
				cmd.Printf("  removed   %s\n", change.Path)
			}
		}
	}
	return nil
}

func printReports(cmd *cobra.Command, reports []domain.IngestReport) {
	var ingested, skipped, failed int

	for _, r := range reports {
		switch r.Outcome {
		case domain.OutcomeIngested:
			ingested++
			cmd.Printf("  ingested  %s (%d chunks)\n", r.SourcePath, r.Chunks)
		case domain.OutcomeAlreadyIngested:
			skipped++
			cmd.Printf("  unchanged %s\n", r.SourcePath)
		case domain.OutcomeSkipped:
			skipped++
			cmd.Printf("  skipped   %s (%v)\n", r.SourcePath, r.Err)
		case domain.OutcomeFailed:
			failed++
			cmd.Printf("  failed    %s (%v)\n", r.SourcePath, r.Err)
		}
	}

	cmd.Printf("%d ingested, %d skipped, %d failed\n", ingested, skipped, failed)
}
