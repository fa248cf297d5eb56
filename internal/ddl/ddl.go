// Package ddl defines a small, backend-agnostic model for SQL DDL and a
// helper to render simple CREATE TABLE statements from it.
//
// The package stays dialect-neutral: identifiers are emitted as-is, no
// IF NOT EXISTS clause is added, and ColumnDef.Default is treated as a raw
// SQL expression. Backend packages (e.g., internal/storage/sqlite/ddl) adapt
// the same model to their dialect, adding quoting and dialect clauses.
package ddl

import (
	"fmt"
	"strings"
)

// ColumnDef describes one column of a table definition.
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the fully-qualified table name and an ordered column list.
// The FQN is expected in dotted form (e.g., "schema.table"); renderers quote
// it as needed.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// BuildCreateTableSQL renders a generic CREATE TABLE statement. Each column
// is emitted as "<Name> <SQLType> [NOT NULL] [DEFAULT <expr>]"; primary key
// columns are collected into a trailing PRIMARY KEY clause.
func BuildCreateTableSQL(t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}

		var sb strings.Builder
		sb.WriteString(name)
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, name)
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", fqn, strings.Join(cols, ",\n  ")), nil
}
