// Package storage defines the backend-agnostic sink contract for normalized
// contacts plus a small factory registry. Concrete backends live in
// subpackages and register themselves at init time; importing storage/all
// (usually as a blank import in the wiring layer) makes every built-in kind
// available without coupling callers to specific drivers.
package storage

import (
	"context"
	"fmt"

	"contactetl/internal/normalize"
)

// Columns is the fixed output column order shared by every backend.
var Columns = []string{"id", "phone", "dob"}

// Sink persists normalized contacts. Writes arrive from a single goroutine in
// strictly increasing input order; implementations may batch internally but
// must preserve write order. Close flushes any buffered rows.
type Sink interface {
	Write(ctx context.Context, c normalize.Contact) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	// Kind selects the backend: "csv" (default), "postgres", "sqlite".
	Kind string

	// Path is the output file for the csv and sqlite kinds.
	Path string

	// DSN is the pgx connection string for the postgres kind.
	DSN string

	// Table is the destination table for database kinds; "contacts" when empty.
	Table string
}

// Factory constructs a Sink for one backend kind.
type Factory func(ctx context.Context, cfg Config) (Sink, error)

var factories = map[string]Factory{}

// Register installs a backend factory. Backends call this from init.
func Register(kind string, f Factory) {
	factories[kind] = f
}

// New opens a Sink for cfg.Kind.
func New(ctx context.Context, cfg Config) (Sink, error) {
	kind := cfg.Kind
	if kind == "" {
		kind = "csv"
	}
	f, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown storage kind %q (is storage/all imported?)", kind)
	}
	return f(ctx, cfg)
}
