// Package sqlite implements a SQLite-backed storage.Repository.
package sqlite

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:catalog.db?cache=shared"
	//   "catalog.db" (interpreted by the driver)
	DSN string

	// Table is the target table name for inserts, e.g. "field_catalog".
	// SQLite does not use schemas the way Postgres does; dotted names such
	// as "main.field_catalog" are still accepted and passed through.
	Table string

	// BusyTimeoutMS sets PRAGMA busy_timeout when positive.
	BusyTimeoutMS int
}
