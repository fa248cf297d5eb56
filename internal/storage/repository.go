// Package storage contains storage-agnostic contracts and utilities for
// persisting normalized field catalogs. Concrete backends (sqlite, postgres,
// mysql) register themselves with the factory at init time; callers open a
// Repository through New and stay backend-agnostic from then on.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fieldmap/internal/fielddef"
)

// Repository is the write contract all backends implement.
type Repository interface {
	// CopyFrom bulk-inserts rows aligned to the given column order and
	// returns the number of rows inserted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec runs an arbitrary SQL statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	// Close releases the underlying connection or pool.
	Close()
}

// Config carries the backend-agnostic settings needed to open a Repository.
type Config struct {
	// Kind selects the registered backend ("sqlite", "postgres", "mysql").
	Kind string

	// DSN is the driver connection string.
	DSN string

	// Table is the destination table for catalog rows.
	Table string

	// Options carries backend-specific settings (e.g., sqlite pragmas).
	Options map[string]any
}

// Factory builds a Repository from a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) a backend factory for the given storage
// kind. It is typically called from backend packages' init() functions.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind using the registered factory.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns a sorted snapshot of the registered storage kinds.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// CatalogColumns is the column order used for catalog inserts across all
// backends. Backends render the matching CREATE TABLE from the same list.
var CatalogColumns = []string{
	"object",
	"variant",
	"field_name",
	"field_description",
	"dtype",
	"field_count",
	"length",
	"is_key",
	"nullable",
	"fingerprint",
}

// CatalogRows shapes parsed definitions into rows aligned to CatalogColumns.
// Absent optional values become NULL.
func CatalogRows(object, variant string, defs []fielddef.Definition, fingerprint string) [][]any {
	rows := make([][]any, 0, len(defs))
	for _, d := range defs {
		var name, desc, length any
		if d.FieldName != nil {
			name = *d.FieldName
		}
		if d.Description != nil {
			desc = *d.Description
		}
		if d.Length != nil {
			length = *d.Length
		}
		rows = append(rows, []any{
			object,
			variant,
			name,
			desc,
			d.DType,
			d.FieldCount,
			length,
			d.IsKey != nil,
			d.Nullable,
			fingerprint,
		})
	}
	return rows
}
