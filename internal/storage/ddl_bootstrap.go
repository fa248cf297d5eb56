package storage

import (
	"context"
	"fmt"
	"sync"

	"fieldmap/internal/ddl"
)

// DDLBootstrapper is a backend-specific function that renders and applies the
// catalog CREATE TABLE via repo.Exec. Backends register their implementation
// for a given storage kind at init time.
type DDLBootstrapper func(ctx context.Context, repo Repository, table string) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) a DDLBootstrapper for the given storage
// kind. It is typically called from backend packages' init() functions.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable locates the DDLBootstrapper for the storage kind and invokes
// it. Callers do not need to know which backend they are using.
func EnsureTable(ctx context.Context, kind, table string, repo Repository) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	return fn(ctx, repo, table)
}

// CatalogTableDef builds the catalog table definition using a backend type
// mapper. mapType translates the logical kinds "string", "int", and "bool"
// into the dialect's column types.
func CatalogTableDef(table string, mapType func(kind string) string) ddl.TableDef {
	return ddl.TableDef{
		FQN: table,
		Columns: []ddl.ColumnDef{
			{Name: "object", SQLType: mapType("string")},
			{Name: "variant", SQLType: mapType("string")},
			{Name: "field_name", SQLType: mapType("string"), Nullable: true},
			{Name: "field_description", SQLType: mapType("string"), Nullable: true},
			{Name: "dtype", SQLType: mapType("string")},
			{Name: "field_count", SQLType: mapType("int")},
			{Name: "length", SQLType: mapType("int"), Nullable: true},
			{Name: "is_key", SQLType: mapType("bool")},
			{Name: "nullable", SQLType: mapType("bool")},
			{Name: "fingerprint", SQLType: mapType("string")},
		},
	}
}
