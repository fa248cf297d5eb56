// Package ddl contains SQLite-specific helpers for generating DDL.
package ddl

import "strings"

// MapType maps a logical type string into a SQLite column type.
//
// SQLite supports dynamic typing, so this mapping prefers canonical
// affinities: integer-ish types become INTEGER, booleans INTEGER (0/1),
// date/time TEXT (ISO-8601), everything else TEXT.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "INTEGER"
	case "bool", "boolean":
		return "INTEGER" // 0/1
	case "float", "double", "real":
		return "REAL"
	case "numeric", "decimal":
		return "NUMERIC"
	case "date", "timestamp", "datetime":
		return "TEXT"
	case "blob", "bytes":
		return "BLOB"
	default:
		return "TEXT"
	}
}
