package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retriva-labs/retriva/internal/core/domain"
)

var (
	searchTopK       int
	searchSplit      bool
	searchHyde       bool
	searchRerank     bool
	searchNoFallback bool
	searchJSON       bool
	searchCollection string
)

var searchCmd = &cobra.Command{
	Use:   "search [question]",
	Short: "Search the document corpus",
	Long: `Answers a natural-language question with the most relevant document
chunks. Metadata mentioned in the question (document type, owner, year)
narrows the search automatically.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "n", domain.DefaultTopK, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchSplit, "split", false, "decompose compound questions")
	searchCmd.Flags().BoolVar(&searchHyde, "hyde", false, "embed a hypothetical answer alongside the question")
	searchCmd.Flags().BoolVar(&searchRerank, "rerank", false, "rescore candidates with the LLM")
	searchCmd.Flags().BoolVar(&searchNoFallback, "no-fallback", false, "do not retry without metadata filters on empty results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVar(&searchCollection, "collection", "", "collection to search (default from config)")
	rootCmd.AddCommand(searchCmd)
}

// searchOptions merges configured defaults with explicitly set flags.
func searchOptions(cmd *cobra.Command) domain.RetrievalOptions {
	opts := services.Retrieval

	flags := cmd.Flags()
	if flags.Changed("top-k") {
		opts.TopK = searchTopK
	}
	if flags.Changed("split") {
		opts.Split = searchSplit
	}
	if flags.Changed("hyde") {
		opts.UseHyde = searchHyde
	}
	if flags.Changed("rerank") {
		opts.Rerank = searchRerank
	}
	if flags.Changed("no-fallback") {
		opts.FilterFallback = !searchNoFallback
	}
	return opts
}

func runSearch(cmd *cobra.Command, args []string) error {
	question := args[0]

	if services.Retriever == nil {
		return errors.New("retrieval service not configured")
	}

	collection := searchCollection
	if collection == "" {
		collection = services.Collection
	}

	chunks, err := services.Retriever.Retrieve(cmd.Context(), question, collection, searchOptions(cmd))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, chunks)
	}
	return outputSearchText(cmd, chunks)
}

// searchResult is the JSON output shape for one chunk.
type searchResult struct {
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
	SourcePath string  `json:"source_path"`
	DocID      string  `json:"doc_id"`
	ChunkIndex int     `json:"chunk_index"`
	Type       string  `json:"document_type,omitempty"`
	User       string  `json:"user,omitempty"`
	Year       int     `json:"year,omitempty"`
}

func outputSearchJSON(cmd *cobra.Command, chunks []domain.ScoredChunk) error {
	results := make([]searchResult, 0, len(chunks))
	for _, sc := range chunks {
		results = append(results, searchResult{
			Text:       sc.Chunk.Text,
			Score:      sc.Score,
			SourcePath: sc.Chunk.SourcePath,
			DocID:      sc.Chunk.DocID,
			ChunkIndex: sc.Chunk.Index,
			Type:       string(sc.Chunk.Type),
			User:       sc.Chunk.User,
			Year:       sc.Chunk.Year,
		})
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, chunks []domain.ScoredChunk) error {
	if len(chunks) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, sc := range chunks {
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, sc.Chunk.SourcePath, sc.Score)
		if sc.Chunk.User != "" || sc.Chunk.Year != 0 {
			cmd.Printf("      user=%s year=%d type=%s\n", sc.Chunk.User, sc.Chunk.Year, sc.Chunk.Type)
		}
		cmd.Printf("      %s\n", snippet(sc.Chunk.Text))
		cmd.Println()
	}
	return nil
}

// snippet truncates chunk text for terminal display.
func snippet(text string) string {
	const limit = 200

	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
