package mysql

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"fieldmap/internal/storage"
)

// Test that init() registration works and that storage.New constructs the repo
// via our adapter. We stub newRepository to avoid a real DB connection.
func TestAdapterRegistrationAndClose(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var gotCfg Config
	var closed int32

	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return &Repository{}, func() { atomic.AddInt32(&closed, 1) }, nil
	}

	want := storage.Config{
		Kind:  "mysql",
		DSN:   "user:pass@tcp(localhost:3306)/db?parseTime=true",
		Table: "field_catalog",
	}

	repo, err := storage.New(context.Background(), want)
	if err != nil {
		t.Fatalf("storage.New error: %v", err)
	}

	if gotCfg.DSN != want.DSN || gotCfg.Table != want.Table {
		t.Errorf("cfg = %#v, want DSN/Table from %#v", gotCfg, want)
	}

	repo.Close()
	if atomic.LoadInt32(&closed) != 1 {
		t.Fatalf("Close() did not invoke closeFn")
	}
}

func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	if got := quoteIdent("field_catalog"); got != "`field_catalog`" {
		t.Fatalf("quoteIdent = %s", got)
	}
	if got := quoteIdent("db.field_catalog"); got != "`db`.`field_catalog`" {
		t.Fatalf("quoteIdent dotted = %s", got)
	}
	if got := quoteIdent("we`ird"); got != "`we``ird`" {
		t.Fatalf("quoteIdent escape = %s", got)
	}
}

func TestBuildCatalogDDL(t *testing.T) {
	t.Parallel()

	stmt, err := buildCreateTableSQL(storage.CatalogTableDef("field_catalog", mapType))
	if err != nil {
		t.Fatalf("buildCreateTableSQL: %v", err)
	}
	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS `field_catalog`",
		"`field_count` BIGINT NOT NULL",
		"`is_key` TINYINT(1) NOT NULL",
		"`length` BIGINT,",
	} {
		if !strings.Contains(stmt, want) {
			t.Fatalf("ddl missing %q:\n%s", want, stmt)
		}
	}
}
