package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	deleteDocID      string
	deletePath       string
	deleteCollection string
	renameCollection string
	statsCollection  string
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage stored documents",
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a document's chunks from the store",
	Long: `Removes all chunks of a document, selected either by its content
identity (--doc-id) or by its source path (--path).`,
	RunE: runDocumentDelete,
}

var documentRenameCmd = &cobra.Command{
	Use:   "rename [old-path] [new-path]",
	Short: "Update a moved document's source path",
	Long: `Rewrites the stored source path of a document that moved on disk.
Vectors and content identity are untouched, so the file is still
recognised as already ingested.`,
	Args: cobra.ExactArgs(2),
	RunE: runDocumentRename,
}

var documentStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus size",
	RunE:  runDocumentStats,
}

func init() {
	documentDeleteCmd.Flags().StringVar(&deleteDocID, "doc-id", "", "document identity to delete")
	documentDeleteCmd.Flags().StringVar(&deletePath, "path", "", "source path to delete")
	documentDeleteCmd.Flags().StringVar(&deleteCollection, "collection", "", "collection (default from config)")
	documentRenameCmd.Flags().StringVar(&renameCollection, "collection", "", "collection (default from config)")
	documentStatsCmd.Flags().StringVar(&statsCollection, "collection", "", "collection (default from config)")

	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentRenameCmd)
	documentCmd.AddCommand(documentStatsCmd)
	rootCmd.AddCommand(documentCmd)
}

func resolveCollection(flag string) string {
	if flag != "" {
		return flag
	}
	return services.Collection
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if services.Documents == nil {
		return errors.New("document service not configured")
	}
	if (deleteDocID == "") == (deletePath == "") {
		return errors.New("provide exactly one of --doc-id or --path")
	}

	collection := resolveCollection(deleteCollection)
	ctx := cmd.Context()

	if deleteDocID != "" {
		if err := services.Documents.DeleteByDocID(ctx, collection, deleteDocID); err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}
		cmd.Printf("Deleted document %s\n", deleteDocID)
		return nil
	}

	if err := services.Documents.DeleteByPath(ctx, collection, deletePath); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	cmd.Printf("Deleted document at %s\n", deletePath)
	return nil
}

func runDocumentRename(cmd *cobra.Command, args []string) error {
	if services.Documents == nil {
		return errors.New("document service not configured")
	}

	oldPath, newPath := args[0], args[1]
	collection := resolveCollection(renameCollection)

	if err := services.Documents.Rename(cmd.Context(), collection, oldPath, newPath); err != nil {
		return fmt.Errorf("rename failed: %w", err)
	}
	cmd.Printf("Renamed %s -> %s\n", oldPath, newPath)
	return nil
}

func runDocumentStats(cmd *cobra.Command, args []string) error {
	if services.Documents == nil {
		return errors.New("document service not configured")
	}

	collection := resolveCollection(statsCollection)
	stats, err := services.Documents.Stats(cmd.Context(), collection)
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	cmd.Printf("Collection: %s\n", collection)
	cmd.Printf("Documents:  %d\n", stats.Documents)
	cmd.Printf("Chunks:     %d\n", stats.Points)
	return nil
}
