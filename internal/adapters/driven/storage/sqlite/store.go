package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/attachtext/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
)

// Store is a SQLite-based storage for extracted content.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.attachtext/data/content.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".attachtext", "data")
	}
	return NewStoreAt(filepath.Join(dataDir, "content.db"))
}

// NewStoreAt creates a new SQLite store backed by the given database file.
func NewStoreAt(dbPath string) (*Store, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ContentStore returns a ContentStore interface backed by this store.
func (s *Store) ContentStore() driven.ContentStore {
	return &contentStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
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
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Content Store ====================

// contentStore implements driven.ContentStore.
type contentStore struct {
	store *Store
}

var _ driven.ContentStore = (*contentStore)(nil)

// Save stores or replaces extracted content.
func (s *contentStore) Save(ctx context.Context, content *domain.ExtractedContent) error {
	if content == nil || content.ID == "" {
		return fmt.Errorf("%w: content without id", domain.ErrInvalidInput)
	}

	metadataJSON, err := json.Marshal(content.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO extracted_content (id, filename, content_type, text, status, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			content_type = excluded.content_type,
			text = excluded.text,
			status = excluded.status,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`, content.ID, content.Filename, content.ContentType, content.Text,
		string(content.Status), string(metadataJSON), now, now)
	if err != nil {
		return fmt.Errorf("saving content: %w", err)
	}
	return nil
}

// Get retrieves extracted content by ID.
func (s *contentStore) Get(ctx context.Context, id string) (*domain.ExtractedContent, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, filename, content_type, text, status, metadata
		FROM extracted_content WHERE id = ?
	`, id)

	content, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return content, err
}

// List returns all stored content ordered by filename.
func (s *contentStore) List(ctx context.Context) ([]domain.ExtractedContent, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, filename, content_type, text, status, metadata
		FROM extracted_content ORDER BY filename, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying content: %w", err)
	}
	defer rows.Close()

	var contents []domain.ExtractedContent //nolint:prealloc // size unknown from query
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		contents = append(contents, *content)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating content: %w", err)
	}
	return contents, nil
}

// Delete removes extracted content by ID.
func (s *contentStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM extracted_content WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting content: %w", err)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanContent scans one extracted_content row.
func scanContent(row scanner) (*domain.ExtractedContent, error) {
	var content domain.ExtractedContent
	var status, metadataJSON string

	if err := row.Scan(&content.ID, &content.Filename, &content.ContentType, &content.Text,
		&status, &metadataJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning content: %w", err)
	}
	content.Status = domain.Status(status)

	if metadataJSON != "" && metadataJSON != "null" {
		if err := json.Unmarshal([]byte(metadataJSON), &content.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}

	return &content, nil
}
