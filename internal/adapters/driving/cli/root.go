// Package cli implements the command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driven"
	"github.com/retriva-labs/retriva/internal/core/ports/driving"
	"github.com/retriva-labs/retriva/internal/logger"
)

// Services holds the wired application services. Set once at startup
// before Execute.
type Services struct {
	// Retriever answers questions against the corpus.
	Retriever driving.Retriever

	// Ingestor loads documents into the vector store.
	Ingestor driving.Ingestor

	// Documents performs corpus maintenance.
	Documents driving.DocumentManager

	// Ledger tracks per-document ingestion outcomes. May be nil.
	Ledger driven.IngestLedger

	// Store is used for connectivity checks.
	Store driven.VectorStore

	// Embedder is used for connectivity checks.
	Embedder driven.Embedder

	// Completer is used for connectivity checks. Nil when no LLM is
	// configured.
	Completer driven.ChatCompleter

	// Filter selects document files during directory ingestion.
	Filter FileFilter

	// Collection is the default collection name.
	Collection string

	// Retrieval holds configured retrieval defaults. Flags override
	// them per call.
	Retrieval domain.RetrievalOptions

	// DefaultUser is attributed to ingested documents when --user is
	// not given.
	DefaultUser string
}

// FileFilter selects document files. Satisfied by loaders.Registry.
type FileFilter interface {
	Supported(path string) bool
}

var services Services

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "retriva",
	Short: "Document retrieval over a local vector store",
	Long: `Retriva ingests documents into a Qdrant vector store and answers
natural-language questions with the most relevant chunks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
}

// SetServices wires the application services into the commands.
func SetServices(s Services) {
	services = s
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
