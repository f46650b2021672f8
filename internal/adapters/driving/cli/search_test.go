package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retriva-labs/retriva/internal/core/domain"
)

func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	defer resetFlagState(rootCmd)

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlagState clears cobra's changed-flag bookkeeping, which
// otherwise leaks between Execute calls in the same process.
func resetFlagState(cmd *cobra.Command) {
	cmd.Flags().Visit(func(f *pflag.Flag) { f.Changed = false })
	for _, sub := range cmd.Commands() {
		resetFlagState(sub)
	}
}

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [question]", searchCmd.Use)
}

func TestSearchCmd_RequiresQuestion(t *testing.T) {
	_, _, _, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("search")
	assert.Error(t, err)
}

func TestSearchCmd_PrintsResults(t *testing.T) {
	retriever, _, _, cleanup := setupTestServices()
	defer cleanup()

	retriever.chunks = []domain.ScoredChunk{
		{
			Chunk: domain.Chunk{
				Text:       "The quarterly report is attached.",
				SourcePath: "/docs/report.txt",
				User:       "alice",
				Year:       2023,
			},
			Score: 0.91,
		},
	}

	out, err := execute("search", "quarterly report")
	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "/docs/report.txt")
	assert.Contains(t, out, "alice")
}

func TestSearchCmd_NoResults(t *testing.T) {
	_, _, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("search", "anything")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	retriever, _, _, cleanup := setupTestServices()
	defer cleanup()
	defer func() { searchJSON = false }()

	retriever.chunks = []domain.ScoredChunk{
		{
			Chunk: domain.Chunk{Text: "hello", SourcePath: "/a.txt", DocID: "doc-1"},
			Score: 0.5,
		},
	}

	out, err := execute("search", "--json", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, `"source_path": "/a.txt"`)
	assert.Contains(t, out, `"doc_id": "doc-1"`)
}

func TestSearchCmd_FlagsOverrideDefaults(t *testing.T) {
	retriever, _, _, cleanup := setupTestServices()
	defer cleanup()
	defer func() {
		searchTopK = domain.DefaultTopK
		searchSplit = false
		searchNoFallback = false
	}()

	_, err := execute("search", "-n", "3", "--split", "--no-fallback", "query")
	require.NoError(t, err)

	assert.Equal(t, 3, retriever.lastOpts.TopK)
	assert.True(t, retriever.lastOpts.Split)
	assert.False(t, retriever.lastOpts.FilterFallback)
}

func TestSearchCmd_ConfiguredDefaultsApply(t *testing.T) {
	retriever, _, _, cleanup := setupTestServices()
	defer cleanup()

	services.Retrieval.Rerank = true

	_, err := execute("search", "query")
	require.NoError(t, err)

	assert.True(t, retriever.lastOpts.Rerank)
	assert.True(t, retriever.lastOpts.FilterFallback)
	assert.Equal(t, domain.DefaultTopK, retriever.lastOpts.TopK)
}

func TestSearchCmd_ServiceError(t *testing.T) {
	retriever, _, _, cleanup := setupTestServices()
	defer cleanup()

	retriever.err = errors.New("store unreachable")

	_, err := execute("search", "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}

func TestSearchCmd_ServiceNotConfigured(t *testing.T) {
	_, _, _, cleanup := setupTestServices()
	defer cleanup()

	services.Retriever = nil

	_, err := execute("search", "query")
	assert.Error(t, err)
}
