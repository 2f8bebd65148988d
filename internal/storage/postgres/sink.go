// Package postgres implements a contact sink backed by pgx v5. Contacts are
// buffered and flushed with COPY, which is by far the cheapest bulk path for
// Postgres; write order within and across batches is preserved.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"contactetl/internal/normalize"
	"contactetl/internal/storage"
)

const defaultBatchSize = 5000

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Sink, error) {
		return New(ctx, cfg)
	})
}

// Sink buffers contacts and COPYs them per batch.
type Sink struct {
	pool      *pgxpool.Pool
	table     pgx.Identifier
	batch     [][]any
	batchSize int
}

// New connects to cfg.DSN and prepares a sink for cfg.Table (default
// "contacts"). The table must exist with the id/phone/dob columns.
func New(ctx context.Context, cfg storage.Config) (*Sink, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres sink: dsn is required")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres sink: pgxpool: %w", err)
	}
	table := cfg.Table
	if table == "" {
		table = "contacts"
	}
	return &Sink{
		pool:      pool,
		table:     splitFQN(table),
		batch:     make([][]any, 0, defaultBatchSize),
		batchSize: defaultBatchSize,
	}, nil
}

func (s *Sink) Write(ctx context.Context, c normalize.Contact) error {
	s.batch = append(s.batch, []any{c.ID, c.Phone, c.DOB})
	if len(s.batch) >= s.batchSize {
		return s.flush(ctx)
	}
	return nil
}

func (s *Sink) Close() error {
	defer s.pool.Close()
	return s.flush(context.Background())
}

func (s *Sink) flush(ctx context.Context) error {
	if len(s.batch) == 0 {
		return nil
	}
	n, err := s.pool.CopyFrom(ctx, s.table, storage.Columns, pgx.CopyFromRows(s.batch))
	if err != nil {
		return fmt.Errorf("postgres sink: copy: %w", err)
	}
	if int(n) != len(s.batch) {
		return fmt.Errorf("postgres sink: copy wrote %d of %d rows", n, len(s.batch))
	}
	s.batch = s.batch[:0]
	return nil
}

// splitFQN converts "schema.table" into a pgx.Identifier.
func splitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	out := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
