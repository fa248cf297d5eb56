// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories and DDL bootstrappers with the
// storage package.
//
// Importing this package makes the following storage kinds available at
// runtime:
//
//   - "sqlite"   (fieldmap/internal/storage/sqlite)
//   - "postgres" (fieldmap/internal/storage/postgres)
//   - "mysql"    (fieldmap/internal/storage/mysql)
//
// Typical usage (in a cmd wiring layer):
//
//	import _ "fieldmap/internal/storage/all" // enable all built-in backends
//
//	repo, err := storage.New(ctx, storage.Config{
//	    Kind:  run.Storage.Kind,
//	    DSN:   run.Storage.DB.DSN,
//	    Table: run.Storage.DB.Table,
//	})
//	if err != nil { ... }
//	defer repo.Close()
//
//	if run.Storage.DB.AutoCreateTable {
//	    if err := storage.EnsureTable(ctx, run.Storage.Kind, run.Storage.DB.Table, repo); err != nil { ... }
//	}
//
// If a binary should support only a subset of backends, define an alternative
// wiring package that imports only the required ones.
package all

import (
	_ "fieldmap/internal/storage/mysql"
	_ "fieldmap/internal/storage/postgres"
	_ "fieldmap/internal/storage/sqlite"
)
