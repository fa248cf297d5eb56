package ddl

import (
	"strings"
	"testing"
)

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	td := TableDef{
		FQN: "public.field_catalog",
		Columns: []ColumnDef{
			{Name: "object", SQLType: "TEXT"},
			{Name: "field_name", SQLType: "TEXT", Nullable: true},
			{Name: "field_count", SQLType: "BIGINT", PrimaryKey: true},
			{Name: "dtype", SQLType: "TEXT", Default: "'string'"},
		},
	}

	got, err := BuildCreateTableSQL(td)
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	for _, want := range []string{
		"CREATE TABLE public.field_catalog",
		"object TEXT NOT NULL",
		"field_name TEXT,",
		"dtype TEXT NOT NULL DEFAULT 'string'",
		"PRIMARY KEY (field_count)",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("statement missing %q:\n%s", want, got)
		}
	}
}

func TestBuildCreateTableSQL_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		td   TableDef
	}{
		{"empty fqn", TableDef{Columns: []ColumnDef{{Name: "a", SQLType: "TEXT"}}}},
		{"no columns", TableDef{FQN: "t"}},
		{"empty column name", TableDef{FQN: "t", Columns: []ColumnDef{{SQLType: "TEXT"}}}},
		{"missing sql type", TableDef{FQN: "t", Columns: []ColumnDef{{Name: "a"}}}},
	}
	for _, tc := range cases {
		if _, err := BuildCreateTableSQL(tc.td); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}
