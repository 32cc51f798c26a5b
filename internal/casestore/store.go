package casestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"casefinder/internal/domain"
)

// ErrNotFound is returned when no case matches
var ErrNotFound = errors.New("case not found")

// Store persists cases in SQLite for the development lookup service
type Store struct {
	db *sql.DB
}

const schema = `
	CREATE TABLE IF NOT EXISTS cases (
		id           TEXT PRIMARY KEY,
		case_number  TEXT NOT NULL UNIQUE,
		subject      TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT '',
		priority     TEXT NOT NULL DEFAULT '',
		origin       TEXT NOT NULL DEFAULT '',
		created_date TEXT NOT NULL
	);
`

// Open opens (and creates if needed) the case database at path.
// ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across queries
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Get finds a case by number or by ID
func (s *Store) Get(ctx context.Context, searchType domain.SearchType, identifier string) (*domain.CaseRecord, error) {
	var column string
	switch searchType {
	case domain.SearchByCaseNumber:
		column = "case_number"
	case domain.SearchByID:
		column = "id"
	default:
		return nil, fmt.Errorf("unsupported search type %q", searchType)
	}

	query := `SELECT id, case_number, subject, status, priority, origin, created_date
		FROM cases WHERE ` + column + ` = ?`

	var (
		rec     domain.CaseRecord
		created string
	)
	err := s.db.QueryRowContext(ctx, query, identifier).Scan(
		&rec.ID, &rec.CaseNumber, &rec.Subject, &rec.Status, &rec.Priority, &rec.Origin, &created,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query case: %w", err)
	}

	rec.CreatedDate, err = time.Parse(time.RFC3339, created)
	if err != nil {
		return nil, fmt.Errorf("invalid created_date for case %s: %w", rec.ID, err)
	}
	return &rec, nil
}

// Put inserts or replaces a case
func (s *Store) Put(ctx context.Context, rec domain.CaseRecord) error {
	if rec.ID == "" || rec.CaseNumber == "" {
		return fmt.Errorf("case id and case number are required")
	}
	if rec.CreatedDate.IsZero() {
		rec.CreatedDate = time.Now().UTC()
	}

	upsertSQL := `
		INSERT INTO cases (id, case_number, subject, status, priority, origin, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			case_number = excluded.case_number,
			subject = excluded.subject,
			status = excluded.status,
			priority = excluded.priority,
			origin = excluded.origin,
			created_date = excluded.created_date;
	`
	_, err := s.db.ExecContext(ctx, upsertSQL,
		rec.ID, rec.CaseNumber, rec.Subject, rec.Status, rec.Priority, rec.Origin,
		rec.CreatedDate.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save case %s: %w", rec.ID, err)
	}
	return nil
}

// Count returns the number of stored cases
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cases`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cases: %w", err)
	}
	return n, nil
}

// SeedCases are the demo cases loaded by Seed
func SeedCases() []domain.CaseRecord {
	created := time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)
	return []domain.CaseRecord{
		{ID: "500Ab00000abABCAB0", CaseNumber: "10010010", Subject: "Unable to log in to the portal", Status: "New", Priority: "High", Origin: "Web", CreatedDate: created},
		{ID: "500Ab00000abABCAB1", CaseNumber: "10010011", Subject: "Invoice shows wrong VAT", Status: "Working", Priority: "Medium", Origin: "Email", CreatedDate: created.Add(26 * time.Hour)},
		{ID: "500Ab00000abABCAB2", CaseNumber: "10010012", Subject: "Replacement part request", Status: "Closed", Priority: "Low", Origin: "Phone", CreatedDate: created.Add(72 * time.Hour)},
	}
}

// Seed inserts the demo cases
func (s *Store) Seed(ctx context.Context) error {
	for _, rec := range SeedCases() {
		if err := s.Put(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
