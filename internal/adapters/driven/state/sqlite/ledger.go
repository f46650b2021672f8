// Package sqlite persists ingestion outcomes in a local SQLite
// database so scheduled passes can retry failed documents.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/retriva-labs/retriva/internal/adapters/driven/state/sqlite/migrations"
	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driven"
)

// Ensure Ledger implements the interface.
var _ driven.IngestLedger = (*Ledger)(nil)

// Ledger is a SQLite-backed ingestion ledger.
type Ledger struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the ledger database at the given data
// directory. If dataDir is empty, defaults to ~/.retriva/data.
func New(dataDir string) (*Ledger, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".retriva", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "ledger.db")

	// WAL mode keeps the watcher and manual runs from blocking each other.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	l := &Ledger{
		db:   db,
		path: dbPath,
	}

	if err := l.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return l, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Path returns the database file path.
func (l *Ledger) Path() string {
	return l.path
}

// Record stores or updates the outcome for a document. Failed outcomes
// increment the attempt counter; any other outcome resets it.
func (l *Ledger) Record(ctx context.Context, report domain.IngestReport) error {
	if report.SourcePath == "" {
		return domain.ErrInvalidInput
	}

	errMsg := ""
	if report.Err != nil {
		errMsg = report.Err.Error()
	}

	attempts := 0
	if report.Outcome == domain.OutcomeFailed {
		attempts = 1
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO ingest_ledger (source_path, doc_id, outcome, error, attempts, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_path) DO UPDATE SET
			doc_id = excluded.doc_id,
			outcome = excluded.outcome,
			error = excluded.error,
			attempts = CASE
				WHEN excluded.outcome = 'failed' THEN ingest_ledger.attempts + 1
				ELSE 0
			END,
			updated_at = excluded.updated_at
	`, report.SourcePath, report.DocID, string(report.Outcome), errMsg,
		attempts, time.Now().UTC().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("recording ingest outcome: %w", err)
	}
	return nil
}

// Pending returns source paths whose last outcome was a failure,
// oldest attempt first.
func (l *Ledger) Pending(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT source_path FROM ingest_ledger
		WHERE outcome = ?
		ORDER BY updated_at ASC
	`, string(domain.OutcomeFailed))
	if err != nil {
		return nil, fmt.Errorf("querying pending documents: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scanning pending row: %w", err)
		}
		paths = append(paths, path)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pending rows: %w", err)
	}

	return paths, nil
}

// Get retrieves the ledger entry for a source path.
func (l *Ledger) Get(ctx context.Context, sourcePath string) (*driven.LedgerEntry, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT source_path, doc_id, outcome, error, attempts, updated_at
		FROM ingest_ledger WHERE source_path = ?
	`, sourcePath)

	var (
		entry     driven.LedgerEntry
		outcome   string
		updatedAt string
	)
	err := row.Scan(&entry.SourcePath, &entry.DocID, &outcome, &entry.Error,
		&entry.Attempts, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning ledger entry: %w", err)
	}

	entry.Outcome = domain.IngestOutcome(outcome)
	entry.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &entry, nil
}

// migrate runs all pending migrations.
func (l *Ledger) migrate(fsys embed.FS) error {
	_, err := l.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := l.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := l.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := l.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
