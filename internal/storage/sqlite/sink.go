// Package sqlite implements a contact sink on modernc.org/sqlite (pure-Go
// driver, no cgo). Rows are inserted inside per-batch transactions; the
// destination table is created on open if missing.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"contactetl/internal/normalize"
	"contactetl/internal/storage"
)

const defaultBatchSize = 1000

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Sink, error) {
		return New(ctx, cfg)
	})
}

// Sink batches contacts into transactional INSERTs.
type Sink struct {
	db        *sql.DB
	table     string
	batch     []normalize.Contact
	batchSize int
}

// New opens (creating if needed) the database file at cfg.Path and ensures
// the destination table exists.
func New(ctx context.Context, cfg storage.Config) (*Sink, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite sink: path is required")
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite sink: open: %w", err)
	}
	table := cfg.Table
	if table == "" {
		table = "contacts"
	}
	ddl := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %q (id TEXT NOT NULL, phone TEXT NOT NULL, dob TEXT NOT NULL)",
		table,
	)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite sink: create table: %w", err)
	}
	return &Sink{
		db:        db,
		table:     table,
		batch:     make([]normalize.Contact, 0, defaultBatchSize),
		batchSize: defaultBatchSize,
	}, nil
}

func (s *Sink) Write(ctx context.Context, c normalize.Contact) error {
	s.batch = append(s.batch, c)
	if len(s.batch) >= s.batchSize {
		return s.flush(ctx)
	}
	return nil
}

func (s *Sink) Close() error {
	defer s.db.Close()
	return s.flush(context.Background())
}

func (s *Sink) flush(ctx context.Context) error {
	if len(s.batch) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite sink: begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %q (id, phone, dob) VALUES (?, ?, ?)", s.table,
	))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite sink: prepare: %w", err)
	}
	for _, c := range s.batch {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Phone, c.DOB); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("sqlite sink: insert: %w", err)
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite sink: commit: %w", err)
	}
	s.batch = s.batch[:0]
	return nil
}
