// This file wires the SQLite backend into the storage factory. It exposes a
// storage.Repository implementation without forcing callers to import this
// package directly; registration happens in init.
package sqlite

import (
	"context"
	"fmt"

	"fieldmap/internal/storage"
	sqliteddl "fieldmap/internal/storage/sqlite/ddl"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

// wrappedRepo adapts *sqlite.Repository to the storage.Repository interface,
// adding a Close method that calls the cleanup function returned by
// NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

// Ensure wrappedRepo satisfies the interface at compile time.
var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		busy := 0
		if v, ok := cfg.Options["busy_timeout_ms"]; ok {
			switch n := v.(type) {
			case float64:
				busy = int(n)
			case int:
				busy = n
			}
		}
		r, closeFn, err := newRepository(ctx, Config{
			DSN:           cfg.DSN,
			Table:         cfg.Table,
			BusyTimeoutMS: busy,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	// DDL bootstrap registration.
	storage.RegisterDDL("sqlite",
		func(ctx context.Context, repo storage.Repository, table string) error {
			stmt, err := sqliteddl.BuildCreateTableSQL(storage.CatalogTableDef(table, sqliteddl.MapType))
			if err != nil {
				return fmt.Errorf("render catalog ddl: %w", err)
			}
			return repo.Exec(ctx, stmt)
		})
}
