// Package config provides configuration models and helpers for mapping runs.
//
// This file adds a lightweight linter/validator for Run values. It performs
// static checks over a decoded Run and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
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

// Issue describes a single validation/lint finding for a Run.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "fuzzy.threshold"). Message is human-readable.
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

// ValidateRun performs static validation / linting of a Run.
//
// It does not mutate the run. Instead it returns a slice of Issue values.
// Callers may decide whether to treat warnings as fatal or not.
func ValidateRun(r Run) []Issue {
	var issues []Issue

	if strings.TrimSpace(r.Object) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "object",
			Message:  "object must not be empty; it identifies the migration object",
		})
	}
	if strings.TrimSpace(r.Variant) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "variant",
			Message:  "variant must not be empty; it identifies the structure variant",
		})
	}
	if strings.TrimSpace(r.Source.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.path",
			Message:  "source requires a non-empty path",
		})
	}
	if strings.TrimSpace(r.Targets.Path) == "" && strings.TrimSpace(r.Output.Mapping) != "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "targets.path",
			Message:  "output.mapping is set but no target catalog is configured; no mapping will be produced",
		})
	}

	issues = append(issues, validateFuzzy(r.Fuzzy)...)
	issues = append(issues, validateStorage(r.Storage)...)

	return issues
}

// validateFuzzy validates the fuzzy matching settings.
func validateFuzzy(f Fuzzy) []Issue {
	var issues []Issue

	if f.Threshold < 0 || f.Threshold > 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "fuzzy.threshold",
			Message:  fmt.Sprintf("threshold %v is outside [0,1]", f.Threshold),
		})
	}
	if f.MaxSuggestions < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "fuzzy.max_suggestions",
			Message:  "max_suggestions must not be negative",
		})
	}
	if f.LevenshteinWeight < 0 || f.JaroWinklerWeight < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "fuzzy",
			Message:  "similarity weights must not be negative",
		})
	}

	return issues
}

// validateStorage validates storage configuration and DB settings. An empty
// storage block is valid and means no database write.
func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return issues
	}

	known := map[string]struct{}{
		"postgres": {},
		"mysql":    {},
		"sqlite":   {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}

	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "storage.db.dsn must not be empty",
		})
	}
	if strings.TrimSpace(s.DB.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.table",
			Message:  "storage.db.table must not be empty",
		})
	}

	return issues
}
