// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "normalize.country_code"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue in the list is severity error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Instead it returns a slice of Issue values.
// Callers may decide whether to treat warnings as fatal or not.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateNormalize(p.Normalize)...)
	issues = append(issues, validateRuntime(p.Runtime)...)
	issues = append(issues, validateStorage(p.Storage)...)

	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.path",
			Message:  "source.path must not be empty",
		})
	}
	if s.Delimiter != "" && utf8.RuneCountInString(s.Delimiter) != 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.delimiter",
			Message:  fmt.Sprintf("delimiter %q must be a single character", s.Delimiter),
		})
	}

	return issues
}

func validateNormalize(n Normalize) []Issue {
	var issues []Issue

	cc := strings.TrimSpace(n.CountryCode)
	if cc != "" {
		if len(cc) < 1 || len(cc) > 3 || strings.Trim(cc, "0123456789") != "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "normalize.country_code",
				Message:  fmt.Sprintf("country code %q must be 1-3 digits", n.CountryCode),
			})
		}
	}
	if n.LocalDigits < 0 || n.LocalDigits > 14 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "normalize.local_digits",
			Message:  fmt.Sprintf("local_digits=%d is outside the plausible range", n.LocalDigits),
		})
	}

	return issues
}

// validateRuntime validates Runtime for obvious misconfigurations
// (negative values, zero-sized batches, etc.).
func validateRuntime(r Runtime) []Issue {
	var issues []Issue

	if r.Workers != nil && *r.Workers < 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "runtime.workers",
			Message:  fmt.Sprintf("workers=%d is treated as auto-detect; use 0 to make that explicit", *r.Workers),
		})
	}
	if r.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.batch_size",
			Message:  "batch_size must not be negative",
		})
	}
	if r.ChannelBuffer < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.channel_buffer",
			Message:  "channel_buffer must not be negative",
		})
	}

	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	kind := s.Kind
	if kind == "" {
		kind = "csv"
	}

	known := map[string]struct{}{
		"csv":      {},
		"postgres": {},
		"sqlite":   {},
	}
	if _, ok := known[kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}

	switch kind {
	case "sqlite":
		if strings.TrimSpace(s.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.path",
				Message:  "sqlite storage requires a non-empty path",
			})
		}
	case "postgres":
		if strings.TrimSpace(s.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.dsn",
				Message:  "postgres storage requires a non-empty dsn",
			})
		}
	case "csv":
		// Path may be empty; the CLI derives it from the input file name.
	}

	return issues
}
