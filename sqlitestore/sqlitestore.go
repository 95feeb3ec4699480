// Package sqlitestore is the reference document store for the encryption
// engine: records persist as JSON in SQLite, and digest siblings are
// queryable through json_extract expression indexes.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	surgdb "github.com/pdsykes2512/surg-db-sub005"
)

// Store implements surgdb.RecordStore over a single SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the record database at path. Use ":memory:"
// for an ephemeral store in tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open record store %q: %w", path, err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			id  TEXT PRIMARY KEY,
			doc TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create records table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores a new document and returns its generated ID.
func (s *Store) Insert(ctx context.Context, doc map[string]any) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO records (id, doc) VALUES (?, ?)`, id, string(data)); err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}
	return id, nil
}

// Get fetches one record by ID.
func (s *Store) Get(ctx context.Context, id string) (surgdb.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT doc FROM records WHERE id = ?`, id)
	var raw string
	if err := row.Scan(&raw); err != nil {
		return surgdb.Record{}, fmt.Errorf("get record %q: %w", id, err)
	}
	return decodeRecord(id, raw)
}

// ScanBatch returns up to limit records with ID greater than afterID, in
// ascending ID order.
func (s *Store) ScanBatch(ctx context.Context, afterID string, limit int) ([]surgdb.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doc FROM records WHERE id > ? ORDER BY id LIMIT ?`, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("scan records after %q: %w", afterID, err)
	}
	defer rows.Close()

	var batch []surgdb.Record
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		rec, err := decodeRecord(id, raw)
		if err != nil {
			return nil, err
		}
		batch = append(batch, rec)
	}
	return batch, rows.Err()
}

// UpdateDocument replaces the stored document for id.
func (s *Store) UpdateDocument(ctx context.Context, id string, doc map[string]any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET doc = ? WHERE id = ?`, string(data), id)
	if err != nil {
		return fmt.Errorf("update record %q: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update record %q: no such record", id)
	}
	return nil
}

// Find runs an equality search built by surgdb.BuildSearchQuery: an indexed
// lookup on the digest sibling, never a decrypt-and-compare scan. Digest
// fields nested inside arrays are not reachable this way.
func (s *Store) Find(ctx context.Context, q *surgdb.SearchQuery) ([]surgdb.Record, error) {
	expr, err := jsonPath(q.HashField)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doc FROM records WHERE json_extract(doc, `+expr+`) = ? ORDER BY id`, q.Digest)
	if err != nil {
		return nil, fmt.Errorf("find by %s: %w", q.HashField, err)
	}
	defer rows.Close()

	var out []surgdb.Record
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		rec, err := decodeRecord(id, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CreateHashIndex creates the expression index backing Find for one digest
// field. Only digest siblings should ever be indexed; ciphertext carries no
// usable ordering.
func (s *Store) CreateHashIndex(ctx context.Context, hashField string) error {
	expr, err := jsonPath(hashField)
	if err != nil {
		return err
	}
	name := "idx_records_" + strings.ReplaceAll(hashField, ".", "_")
	_, err = s.db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS `+name+` ON records (json_extract(doc, `+expr+`))`)
	if err != nil {
		return fmt.Errorf("create index for %s: %w", hashField, err)
	}
	return nil
}

// jsonPath renders a dotted field path as a quoted SQLite JSON path literal.
// Paths are re-validated before interpolation even though they originate
// from a validated FieldSpec.
func jsonPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty field path")
	}
	for _, seg := range strings.Split(path, ".") {
		if !validSegment(seg) {
			return "", fmt.Errorf("invalid field path %q", path)
		}
	}
	return `'$.` + path + `'`, nil
}

func validSegment(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_') {
				return false
			}
		} else if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '_') {
			return false
		}
	}
	return true
}

func decodeRecord(id, raw string) (surgdb.Record, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return surgdb.Record{}, fmt.Errorf("decode record %q: %w", id, err)
	}
	return surgdb.Record{ID: id, Doc: doc}, nil
}
