// Package config defines the canonical configuration model for a
// normalization run. It is intentionally small and explicit so that run files
// can be loaded from disk (or environment) and passed through the program
// without additional glue code.
//
// Example (trimmed):
//
//	{
//	  "job":    "contacts-prod",
//	  "source": { "path": "contacts.csv", "delimiter": ";" },
//	  "normalize": { "country_code": "971", "local_digits": 10 },
//	  "runtime": { "workers": 4, "batch_size": 256 },
//	  "storage": { "kind": "csv", "path": "normalized_contacts.csv" }
//	}
package config

// Pipeline describes one full normalization run. It is the top-level object
// decoded from a run file.
type Pipeline struct {
	// Job names the run; it labels metrics and log lines.
	Job string `mapstructure:"job" json:"job"`

	// Source describes the input file.
	Source Source `mapstructure:"source" json:"source"`

	// Normalize configures the row transform rules.
	Normalize Normalize `mapstructure:"normalize" json:"normalize"`

	// Runtime controls concurrency, batching, and channel buffer sizes.
	Runtime Runtime `mapstructure:"runtime" json:"runtime"`

	// Storage describes where normalized contacts are written.
	Storage Storage `mapstructure:"storage" json:"storage"`
}

// Source identifies the input file and its shape.
type Source struct {
	// Path is the local filesystem path to the input file.
	Path string `mapstructure:"path" json:"path"`

	// Delimiter is the field separator as a one-character string; "" means ";".
	Delimiter string `mapstructure:"delimiter" json:"delimiter"`
}

// Normalize holds the row transform rules.
type Normalize struct {
	// CountryCode is the home country calling code assumed for bare local
	// numbers (default "971").
	CountryCode string `mapstructure:"country_code" json:"country_code"`

	// LocalDigits is the length of a bare local number that triggers the
	// home-country rule (default 10).
	LocalDigits int `mapstructure:"local_digits" json:"local_digits"`

	// DedupeByID drops repeats of an already-written id when true.
	DedupeByID bool `mapstructure:"dedupe_by_id" json:"dedupe_by_id"`
}

// Runtime controls the execution mode of the pipeline.
type Runtime struct {
	// Workers selects the execution mode: absent means sequential, 0 means
	// one worker per available CPU, a positive count is capped at the
	// available CPUs.
	Workers *int `mapstructure:"workers" json:"workers,omitempty"`

	// BatchSize is the number of rows handed to a worker at once; 0 lets the
	// pipeline pick a default from the worker count.
	BatchSize int `mapstructure:"batch_size" json:"batch_size"`

	// ChannelBuffer bounds the internal row and result channels; 0 picks the
	// pipeline default.
	ChannelBuffer int `mapstructure:"channel_buffer" json:"channel_buffer"`
}

// Storage selects the sink used to persist normalized contacts.
type Storage struct {
	// Kind selects the storage backend: "csv" (default), "postgres", "sqlite".
	Kind string `mapstructure:"kind" json:"kind"`

	// Path is the output file for the "csv" and "sqlite" kinds.
	Path string `mapstructure:"path" json:"path"`

	// DSN is the connection string for the "postgres" kind.
	DSN string `mapstructure:"dsn" json:"dsn"`

	// Table is the destination table for database kinds; "" means "contacts".
	Table string `mapstructure:"table" json:"table"`
}
