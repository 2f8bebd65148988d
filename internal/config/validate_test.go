package config

import (
	"strings"
	"testing"
)

func valid() Pipeline {
	return Pipeline{
		Job:       "test",
		Source:    Source{Path: "in.csv", Delimiter: ";"},
		Normalize: Normalize{CountryCode: "971", LocalDigits: 10},
		Storage:   Storage{Kind: "csv", Path: "out.csv"},
	}
}

func findIssue(issues []Issue, path string) *Issue {
	for i := range issues {
		if issues[i].Path == path {
			return &issues[i]
		}
	}
	return nil
}

func TestValidatePipeline_Clean(t *testing.T) {
	t.Parallel()

	if issues := ValidatePipeline(valid()); len(issues) != 0 {
		t.Fatalf("valid pipeline produced issues: %v", issues)
	}
}

func TestValidatePipeline_Issues(t *testing.T) {
	t.Parallel()

	neg := -1
	cases := []struct {
		name     string
		mutate   func(*Pipeline)
		path     string
		severity IssueSeverity
	}{
		{
			name:     "empty_job",
			mutate:   func(p *Pipeline) { p.Job = " " },
			path:     "job",
			severity: SeverityError,
		},
		{
			name:     "missing_source_path",
			mutate:   func(p *Pipeline) { p.Source.Path = "" },
			path:     "source.path",
			severity: SeverityError,
		},
		{
			name:     "long_delimiter",
			mutate:   func(p *Pipeline) { p.Source.Delimiter = ";;" },
			path:     "source.delimiter",
			severity: SeverityError,
		},
		{
			name:     "bad_country_code",
			mutate:   func(p *Pipeline) { p.Normalize.CountryCode = "97x" },
			path:     "normalize.country_code",
			severity: SeverityError,
		},
		{
			name:     "country_code_too_long",
			mutate:   func(p *Pipeline) { p.Normalize.CountryCode = "9711" },
			path:     "normalize.country_code",
			severity: SeverityError,
		},
		{
			name:     "negative_workers",
			mutate:   func(p *Pipeline) { p.Runtime.Workers = &neg },
			path:     "runtime.workers",
			severity: SeverityWarning,
		},
		{
			name:     "negative_batch",
			mutate:   func(p *Pipeline) { p.Runtime.BatchSize = -8 },
			path:     "runtime.batch_size",
			severity: SeverityError,
		},
		{
			name:     "unknown_storage",
			mutate:   func(p *Pipeline) { p.Storage.Kind = "oracle" },
			path:     "storage.kind",
			severity: SeverityWarning,
		},
		{
			name: "postgres_without_dsn",
			mutate: func(p *Pipeline) {
				p.Storage = Storage{Kind: "postgres"}
			},
			path:     "storage.dsn",
			severity: SeverityError,
		},
		{
			name: "sqlite_without_path",
			mutate: func(p *Pipeline) {
				p.Storage = Storage{Kind: "sqlite"}
			},
			path:     "storage.path",
			severity: SeverityError,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := valid()
			tc.mutate(&p)
			issues := ValidatePipeline(p)

			got := findIssue(issues, tc.path)
			if got == nil {
				t.Fatalf("no issue at %q, got %v", tc.path, issues)
			}
			if got.Severity != tc.severity {
				t.Fatalf("issue at %q has severity %q, want %q", tc.path, got.Severity, tc.severity)
			}
		})
	}
}

func TestIssue_Error(t *testing.T) {
	t.Parallel()

	i := Issue{Severity: SeverityError, Path: "job", Message: "must not be empty"}
	if got := i.Error(); !strings.Contains(got, "error at job:") {
		t.Fatalf("Error() = %q", got)
	}
}

func TestHasErrors(t *testing.T) {
	t.Parallel()

	warn := []Issue{{Severity: SeverityWarning}}
	if HasErrors(warn) {
		t.Fatal("warnings alone reported as errors")
	}
	if !HasErrors(append(warn, Issue{Severity: SeverityError})) {
		t.Fatal("error not detected")
	}
}
