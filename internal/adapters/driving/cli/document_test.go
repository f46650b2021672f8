package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retriva-labs/retriva/internal/core/ports/driving"
)

func TestDocumentCmd_HasSubcommands(t *testing.T) {
	commands := documentCmd.Commands()
	names := make([]string, 0, len(commands))
	for _, cmd := range commands {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "delete")
	assert.Contains(t, names, "rename")
	assert.Contains(t, names, "stats")
}

func TestDocumentDelete_ByDocID(t *testing.T) {
	_, _, documents, cleanup := setupTestServices()
	defer cleanup()
	defer func() { deleteDocID = "" }()

	out, err := execute("document", "delete", "--doc-id", "abc123")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted document abc123")
	assert.Equal(t, []string{"abc123"}, documents.deletedDocIDs)
}

func TestDocumentDelete_ByPath(t *testing.T) {
	_, _, documents, cleanup := setupTestServices()
	defer cleanup()
	defer func() { deletePath = "" }()

	_, err := execute("document", "delete", "--path", "/docs/gone.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"/docs/gone.txt"}, documents.deletedPaths)
}

func TestDocumentDelete_RequiresExactlyOneSelector(t *testing.T) {
	_, _, _, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("document", "delete")
	assert.Error(t, err)

	defer func() { deleteDocID = ""; deletePath = "" }()
	_, err = execute("document", "delete", "--doc-id", "a", "--path", "/b")
	assert.Error(t, err)
}

func TestDocumentRename(t *testing.T) {
	_, _, documents, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("document", "rename", "/old.txt", "/new.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "Renamed /old.txt -> /new.txt")
	assert.Equal(t, [][2]string{{"/old.txt", "/new.txt"}}, documents.renames)
}

func TestDocumentRename_RequiresTwoArgs(t *testing.T) {
	_, _, _, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("document", "rename", "/only-one.txt")
	assert.Error(t, err)
}

func TestDocumentStats(t *testing.T) {
	_, _, documents, cleanup := setupTestServices()
	defer cleanup()

	documents.stats = driving.CorpusStats{Points: 42, Documents: 7}

	out, err := execute("document", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "test-collection")
	assert.Contains(t, out, "7")
	assert.Contains(t, out, "42")
}
