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

	"github.com/policyatlas/atlas-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/policyatlas/atlas-cli/internal/core/domain"
	"github.com/policyatlas/atlas-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// document and checkpoint store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.atlas/data/atlas.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".atlas", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "atlas.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
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

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// CheckpointStore returns a CheckpointStore interface backed by this store.
func (s *Store) CheckpointStore() driven.CheckpointStore {
	return &checkpointStore{store: s}
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

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// UpsertBatch stores the documents in one transaction. Document rows are
// upserted by id; label, relationship and item link rows are rewritten
// wholesale per document, so links absent from the input are removed.
func (s *documentStore) UpsertBatch(ctx context.Context, docs []domain.Document) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	ids := make([]string, 0, len(docs))
	for i := range docs {
		if docs[i].ID == "" {
			return nil, fmt.Errorf("%w: document without id in batch", domain.ErrInvalidInput)
		}
		if err := upsertDocument(ctx, tx, docs[i], now); err != nil {
			return nil, fmt.Errorf("upserting document %s: %w", docs[i].ID, err)
		}
		ids = append(ids, docs[i].ID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return ids, nil
}

// upsertDocument writes one document and its links inside the transaction.
func upsertDocument(ctx context.Context, tx *sql.Tx, doc domain.Document, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, title, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			updated_at = excluded.updated_at
	`, doc.ID, doc.Title, doc.Description, now, now)
	if err != nil {
		return fmt.Errorf("saving document row: %w", err)
	}

	// Rewrite link tables from scratch so stale rows cannot survive.
	for _, table := range []string{"document_label_links", "document_document_links", "document_items"} {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE document_id = ?", doc.ID); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, label := range doc.Labels {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO labels (id, type, title)
			VALUES (?, ?, ?)
			ON CONFLICT(id, type) DO UPDATE SET
				title = excluded.title
		`, label.Label.ID, label.Label.Type, label.Label.Title)
		if err != nil {
			return fmt.Errorf("saving label: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO document_label_links (document_id, label_id, label_type, type, timestamp)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(document_id, label_id, label_type, type) DO UPDATE SET
				timestamp = excluded.timestamp
		`, doc.ID, label.Label.ID, label.Label.Type, label.Type, nullTime(label.Timestamp))
		if err != nil {
			return fmt.Errorf("saving label link: %w", err)
		}
	}

	for _, rel := range doc.Relationships {
		relatedJSON, err := json.Marshal(rel.Document)
		if err != nil {
			return fmt.Errorf("marshalling related document: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO document_document_links (document_id, related_id, type, related, timestamp)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(document_id, related_id, type) DO UPDATE SET
				related = excluded.related,
				timestamp = excluded.timestamp
		`, doc.ID, rel.Document.ID, rel.Type, string(relatedJSON), nullTime(rel.Timestamp))
		if err != nil {
			return fmt.Errorf("saving document link: %w", err)
		}
	}

	for position, item := range doc.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO document_items (document_id, position, url)
			VALUES (?, ?, ?)
		`, doc.ID, position, item.URL)
		if err != nil {
			return fmt.Errorf("saving item: %w", err)
		}
	}

	return nil
}

// GetDocument retrieves a document by id with its labels, relationships and
// items reassembled.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, description FROM documents WHERE id = ?
	`, id)

	var doc domain.Document
	if err := row.Scan(&doc.ID, &doc.Title, &doc.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	labels, err := s.documentLabels(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Labels = labels

	relationships, err := s.documentRelationships(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Relationships = relationships

	items, err := s.documentItems(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Items = items

	return &doc, nil
}

// documentLabels loads the label relationships of a document.
func (s *documentStore) documentLabels(ctx context.Context, id string) ([]domain.DocumentLabelRelationship, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT l.id, l.type, l.title, dl.type, dl.timestamp
		FROM document_label_links dl
		JOIN labels l ON l.id = dl.label_id AND l.type = dl.label_type
		WHERE dl.document_id = ?
		ORDER BY dl.rowid
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying labels: %w", err)
	}
	defer rows.Close()

	var labels []domain.DocumentLabelRelationship //nolint:prealloc // size unknown from query
	for rows.Next() {
		var label domain.DocumentLabelRelationship
		var timestamp sql.NullTime
		if err := rows.Scan(&label.Label.ID, &label.Label.Type, &label.Label.Title,
			&label.Type, &timestamp); err != nil {
			return nil, fmt.Errorf("scanning label: %w", err)
		}
		if timestamp.Valid {
			t := timestamp.Time
			label.Timestamp = &t
		}
		labels = append(labels, label)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating labels: %w", err)
	}
	return labels, nil
}

// documentRelationships loads the outgoing edges of a document.
func (s *documentStore) documentRelationships(ctx context.Context, id string) ([]domain.DocumentDocumentRelationship, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT type, related, timestamp
		FROM document_document_links
		WHERE document_id = ?
		ORDER BY rowid
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying relationships: %w", err)
	}
	defer rows.Close()

	var relationships []domain.DocumentDocumentRelationship //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rel domain.DocumentDocumentRelationship
		var relatedJSON string
		var timestamp sql.NullTime
		if err := rows.Scan(&rel.Type, &relatedJSON, &timestamp); err != nil {
			return nil, fmt.Errorf("scanning relationship: %w", err)
		}
		if err := json.Unmarshal([]byte(relatedJSON), &rel.Document); err != nil {
			return nil, fmt.Errorf("unmarshaling related document: %w", err)
		}
		if timestamp.Valid {
			t := timestamp.Time
			rel.Timestamp = &t
		}
		relationships = append(relationships, rel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating relationships: %w", err)
	}
	return relationships, nil
}

// documentItems loads a document's items in insertion order.
func (s *documentStore) documentItems(ctx context.Context, id string) ([]domain.Item, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT url FROM document_items WHERE document_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item //nolint:prealloc // size unknown from query
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.URL); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}

// ==================== Checkpoint Store ====================

// checkpointStore implements driven.CheckpointStore.
type checkpointStore struct {
	store *Store
}

var _ driven.CheckpointStore = (*checkpointStore)(nil)

// Store persists the cursor under key, replacing any previous value.
func (s *checkpointStore) Store(ctx context.Context, key, cursor string) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO checkpoints (key, cursor, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			cursor = excluded.cursor,
			updated_at = excluded.updated_at
	`, key, cursor, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}
	return nil
}

// Load returns the cursor stored under key; false when none exists.
func (s *checkpointStore) Load(ctx context.Context, key string) (string, bool, error) {
	var cursor string
	err := s.store.db.QueryRowContext(ctx,
		"SELECT cursor FROM checkpoints WHERE key = ?", key).Scan(&cursor)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("loading checkpoint: %w", err)
	}
	return cursor, true, nil
}

// nullTime converts an optional time into a driver-friendly value.
func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
