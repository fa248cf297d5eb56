package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"fieldmap/internal/fielddef"
)

// fakeRepo is a minimal Repository implementation for tests.
type fakeRepo struct {
	closed bool
}

func (f *fakeRepo) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	return int64(len(rows)), nil
}
func (f *fakeRepo) Exec(ctx context.Context, sql string) error { return nil }
func (f *fakeRepo) Close()                                     { f.closed = true }

// TestRegisterAndNew_Success verifies that registering a backend enables New()
// to return the corresponding repository.
func TestRegisterAndNew_Success(t *testing.T) {
	t.Parallel()

	kind := "fake"
	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		return &fakeRepo{}, nil
	})

	repo, err := New(context.Background(), Config{Kind: kind})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if repo == nil {
		t.Fatalf("New returned nil repo")
	}

	// Ensure ListKinds contains the registered kind.
	kinds := ListKinds()
	found := false
	for _, k := range kinds {
		if k == kind {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("registered kind %q not present in ListKinds: %v", kind, kinds)
	}
}

// TestNew_Unsupported verifies that unsupported kinds return a helpful error.
func TestNew_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Kind: "does-not-exist"})
	if err == nil {
		t.Fatalf("expected error for unsupported kind")
	}
	if got, want := err.Error(), "unsupported storage.kind=does-not-exist"; got != want {
		t.Fatalf("error = %q, want %q", got, want)
	}
}

// TestRegister_Override verifies that re-registering a kind overrides the
// previous factory (useful for tests and dynamic wiring).
func TestRegister_Override(t *testing.T) {
	t.Parallel()

	kind := "override"
	calls := 0

	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		calls++
		return &fakeRepo{}, nil
	})
	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		calls += 10
		return &fakeRepo{}, nil
	})

	_, err := New(context.Background(), Config{Kind: kind})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if calls != 10 { // only the second factory should have been used
		t.Fatalf("factory call count = %d, want 10", calls)
	}
}

// TestRegister_AllowsErrors shows factories can return errors that bubble up.
func TestRegister_AllowsErrors(t *testing.T) {
	t.Parallel()

	kind := "errkind"
	want := errors.New("boom")

	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		return nil, want
	})

	_, err := New(context.Background(), Config{Kind: kind})
	if !errors.Is(err, want) {
		t.Fatalf("want %v, got %v", want, err)
	}
}

// TestCatalogRows verifies row shaping: present values pass through, absent
// optional values become NULL, and the column alignment matches CatalogColumns.
func TestCatalogRows(t *testing.T) {
	t.Parallel()

	name := "FIELD1"
	desc := "First field"
	length := 10
	key := true
	defs := []fielddef.Definition{
		{
			FieldName:   &name,
			Description: &desc,
			DType:       "string",
			FieldCount:  1,
			Length:      &length,
			IsKey:       &key,
			Nullable:    false,
		},
		{
			DType:      "string",
			FieldCount: 2,
			Nullable:   true,
		},
	}

	rows := CatalogRows("m140", "bnka", defs, "abc123")
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	for i, row := range rows {
		if len(row) != len(CatalogColumns) {
			t.Fatalf("row %d length %d != %d columns", i, len(row), len(CatalogColumns))
		}
	}

	want0 := []any{"m140", "bnka", "FIELD1", "First field", "string", 1, 10, true, false, "abc123"}
	if !reflect.DeepEqual(rows[0], want0) {
		t.Fatalf("row 0 = %#v, want %#v", rows[0], want0)
	}

	// Absent optionals are NULL; is_key false when never set.
	want1 := []any{"m140", "bnka", nil, nil, "string", 2, nil, false, true, "abc123"}
	if !reflect.DeepEqual(rows[1], want1) {
		t.Fatalf("row 1 = %#v, want %#v", rows[1], want1)
	}
}

// TestEnsureTable_NoBootstrapper verifies the error path for unregistered
// storage kinds.
func TestEnsureTable_NoBootstrapper(t *testing.T) {
	t.Parallel()

	err := EnsureTable(context.Background(), "nope", "t", &fakeRepo{})
	if err == nil {
		t.Fatalf("expected error for unregistered DDL kind")
	}
}

// TestCatalogTableDef verifies the logical-to-dialect type mapping hook and
// column ordering.
func TestCatalogTableDef(t *testing.T) {
	t.Parallel()

	td := CatalogTableDef("field_catalog", func(kind string) string {
		switch kind {
		case "int":
			return "INTEGER"
		case "bool":
			return "INTEGER"
		default:
			return "TEXT"
		}
	})
	if td.FQN != "field_catalog" {
		t.Fatalf("fqn = %q", td.FQN)
	}
	if len(td.Columns) != len(CatalogColumns) {
		t.Fatalf("columns = %d, want %d", len(td.Columns), len(CatalogColumns))
	}
	for i, c := range td.Columns {
		if c.Name != CatalogColumns[i] {
			t.Fatalf("column %d = %q, want %q", i, c.Name, CatalogColumns[i])
		}
	}
	// Optional catalog values must be nullable.
	for _, c := range td.Columns {
		switch c.Name {
		case "field_name", "field_description", "length":
			if !c.Nullable {
				t.Fatalf("column %s should be nullable", c.Name)
			}
		default:
			if c.Nullable {
				t.Fatalf("column %s should not be nullable", c.Name)
			}
		}
	}
}
