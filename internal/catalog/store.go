package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrDuplicateEntry is returned when the same source path is added twice.
// Single-pass discovery should never trigger it; hitting it means two
// pipeline runs share a store or discovery double-counted a file.
var ErrDuplicateEntry = errors.New("catalog: duplicate entry")

// Store manages catalog persistence. The backing SQLite database lives in
// memory on a single connection, so the catalog vanishes with the process.
type Store struct {
	db *sql.DB
}

// Open creates an empty catalog.
func Open() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	// A second pooled connection would see its own empty memory database.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply catalog schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Add appends an entry in discovery order and returns the stored record.
func (s *Store) Add(ctx context.Context, entry *Entry) (*Entry, error) {
	if entry == nil {
		return nil, errors.New("entry is nil")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	authorsJSON, err := marshalAuthors(entry.Authors)
	if err != nil {
		return nil, fmt.Errorf("marshal authors: %w", err)
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO entries (
            source_path, path, original_name, identifier, title, authors_json,
            status, error_message, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.SourcePath,
		entry.Path,
		entry.OriginalName,
		nullableString(entry.Identifier),
		nullableString(entry.Title),
		nullableString(authorsJSON),
		entry.Status,
		nullableString(entry.ErrorMessage),
		timestamp,
		timestamp,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEntry, entry.SourcePath)
		}
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a catalog entry by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// Update persists changes to an existing entry.
func (s *Store) Update(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	authorsJSON, err := marshalAuthors(entry.Authors)
	if err != nil {
		return fmt.Errorf("marshal authors: %w", err)
	}
	entry.UpdatedAt = time.Now().UTC()
	_, err = s.db.ExecContext(
		ctx,
		`UPDATE entries
         SET source_path = ?, path = ?, original_name = ?, identifier = ?,
             title = ?, authors_json = ?, status = ?, error_message = ?, updated_at = ?
         WHERE id = ?`,
		entry.SourcePath,
		entry.Path,
		entry.OriginalName,
		nullableString(entry.Identifier),
		nullableString(entry.Title),
		nullableString(authorsJSON),
		entry.Status,
		nullableString(entry.ErrorMessage),
		entry.UpdatedAt.Format(time.RFC3339Nano),
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return nil
}

// List returns entries filtered by status set (or all entries when no status
// is provided), in insertion order.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Entry, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + entryColumns + ` FROM entries`
	orderClause := ` ORDER BY id`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// FindByIdentifier returns all entries whose identifier equals id, in
// insertion order.
func (s *Store) FindByIdentifier(ctx context.Context, identifier string) ([]*Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+entryColumns+` FROM entries WHERE identifier = ? ORDER BY id`,
		identifier,
	)
	if err != nil {
		return nil, fmt.Errorf("find by identifier: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// DuplicateIdentifiers returns every identifier held by more than one
// processed entry, in first-seen order. This single grouping pass replaces
// counting each identifier against the whole list.
func (s *Store) DuplicateIdentifiers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT identifier FROM entries
         WHERE status = ? AND identifier IS NOT NULL
         GROUP BY identifier HAVING COUNT(1) > 1
         ORDER BY MIN(id)`,
		StatusProcessed,
	)
	if err != nil {
		return nil, fmt.Errorf("group duplicate identifiers: %w", err)
	}
	defer rows.Close()

	var identifiers []string
	for rows.Next() {
		var identifier string
		if err := rows.Scan(&identifier); err != nil {
			return nil, err
		}
		identifiers = append(identifiers, identifier)
	}
	return identifiers, rows.Err()
}

// Stats returns a count of entries grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM entries GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

const entryColumns = "id, source_path, path, original_name, identifier, title, authors_json, status, error_message, created_at, updated_at"

func collectEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		id           int64
		sourcePath   string
		path         string
		originalName string
		identifier   sql.NullString
		title        sql.NullString
		authorsJSON  sql.NullString
		statusStr    string
		errorMessage sql.NullString
		createdRaw   string
		updatedRaw   string
	)

	if err := scanner.Scan(
		&id,
		&sourcePath,
		&path,
		&originalName,
		&identifier,
		&title,
		&authorsJSON,
		&statusStr,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:           id,
		SourcePath:   sourcePath,
		Path:         path,
		OriginalName: originalName,
		Identifier:   identifier.String,
		Title:        title.String,
		Status:       Status(statusStr),
		ErrorMessage: errorMessage.String,
	}
	if authorsJSON.Valid && authorsJSON.String != "" {
		if err := json.Unmarshal([]byte(authorsJSON.String), &entry.Authors); err != nil {
			return nil, fmt.Errorf("unmarshal authors: %w", err)
		}
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		entry.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		entry.UpdatedAt = updated
	}
	return entry, nil
}

func marshalAuthors(authors []string) (string, error) {
	if len(authors) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(authors)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
